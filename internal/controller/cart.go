package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	inErrors "github.com/chocoblitz/storefront/internal/errors"
	inHttp "github.com/chocoblitz/storefront/internal/http"
	"github.com/chocoblitz/storefront/internal/log"
	inOtel "github.com/chocoblitz/storefront/internal/otel"
	"github.com/chocoblitz/storefront/internal/service"
	"github.com/chocoblitz/storefront/pkg/request"
	"github.com/chocoblitz/storefront/pkg/response"
)

type CartController struct {
	service  *service.CartService
	validate *validator.Validate
}

func AttachCartController(router *mux.Router, service *service.CartService, validate *validator.Validate) {
	controller := CartController{service: service, validate: validate}

	sub := router.PathPrefix("/cart").Subrouter()
	sub.HandleFunc("", controller.FindCart).Methods(http.MethodGet)
	sub.HandleFunc("", controller.ClearCart).Methods(http.MethodDelete)
	sub.HandleFunc("/checkout", controller.CheckoutCart).Methods(http.MethodPost)
	sub.HandleFunc("/items/{productId}", controller.AddItem).Methods(http.MethodPost)
	sub.HandleFunc("/items/{productId}", controller.UpdateQuantity).Methods(http.MethodPatch)
	sub.HandleFunc("/items/{productId}", controller.RemoveItem).Methods(http.MethodDelete)
}

func cartBody(items []service.CartItem, totals service.CartTotals, count int) response.Cart {
	body := response.Cart{
		Items:    make([]response.CartItem, 0, len(items)),
		Subtotal: totals.Subtotal.StringFixed(2),
		Tax:      totals.Tax.StringFixed(2),
		Total:    totals.Total.StringFixed(2),
		Count:    count,
	}
	for _, item := range items {
		lineTotal := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		body.Items = append(body.Items, response.CartItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price.StringFixed(2),
			Image:     item.Image,
			Quantity:  item.Quantity,
			LineTotal: lineTotal.StringFixed(2),
		})
	}
	return body
}

func productIdFromPath(r *http.Request) (int, error) {
	productId, err := strconv.Atoi(mux.Vars(r)["productId"])
	if err != nil {
		return 0, fmt.Errorf("failed parsing productId=%s with error=%w", mux.Vars(r)["productId"], err)
	}
	return productId, nil
}

func (t CartController) FindCart(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "CartController FindCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController FindCart").
		Str(log.KeyProcess, "finding cart").
		Logger()

	logger.Info().Msg("finding cart")
	cart := cartBody(t.service.Items(), t.service.Totals(), t.service.ItemCount())
	logger.Info().Int(log.KeyCartItemCount, cart.Count).Msg("found cart")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "found cart",
		"data": map[string]interface{}{
			"cart": cart,
		},
	})
}

func (t CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "CartController AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController AddItem").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating productId").Logger()
	logger.Info().Msg("validating productId")
	productId, err := productIdFromPath(r)
	if err != nil {
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Int(log.KeyProductID, productId).Logger()
	logger.Info().Msgf("validated productId=%d", productId)

	logger = logger.With().Str(log.KeyProcess, "adding cart item").Logger()
	logger.Info().Msg("adding cart item")
	c = logger.WithContext(c)
	if err := t.service.AddItem(c, productId); err != nil {
		err = fmt.Errorf("failed adding productId=%d with error=%w", productId, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("added cart item")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("added productId=%d to cart", productId),
		"data": map[string]interface{}{
			"cart": cartBody(t.service.Items(), t.service.Totals(), t.service.ItemCount()),
		},
	})
}

func (t CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "CartController UpdateQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController UpdateQuantity").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating productId").Logger()
	logger.Info().Msg("validating productId")
	productId, err := productIdFromPath(r)
	if err != nil {
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Int(log.KeyProductID, productId).Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.UpdateQuantity{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating requestbody").Logger()
	logger.Info().Msg("validating request body")
	if err := t.validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().
		Str(log.KeyProcess, "updating quantity").
		Int(log.KeyDelta, reqBody.Delta).
		Logger()
	logger.Info().Msg("updating quantity")
	c = logger.WithContext(c)
	if err := t.service.UpdateQuantity(c, productId, reqBody.Delta); err != nil {
		err = fmt.Errorf("failed updating quantity of productId=%d with error=%w", productId, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("updated quantity")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("updated quantity of productId=%d", productId),
		"data": map[string]interface{}{
			"cart": cartBody(t.service.Items(), t.service.Totals(), t.service.ItemCount()),
		},
	})
}

func (t CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "CartController RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController RemoveItem").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating productId").Logger()
	logger.Info().Msg("validating productId")
	productId, err := productIdFromPath(r)
	if err != nil {
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Int(log.KeyProductID, productId).Logger()

	logger = logger.With().Str(log.KeyProcess, "removing cart item").Logger()
	logger.Info().Msg("removing cart item")
	c = logger.WithContext(c)
	if err := t.service.RemoveItem(c, productId); err != nil {
		err = fmt.Errorf("failed removing productId=%d with error=%w", productId, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("removed cart item")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("removed productId=%d from cart", productId),
		"data": map[string]interface{}{
			"cart": cartBody(t.service.Items(), t.service.Totals(), t.service.ItemCount()),
		},
	})
}

// ClearCart requires ?confirm=true; a bare DELETE is rejected so a stray click
// cannot wipe the cart.
func (t CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "CartController ClearCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController ClearCart").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "checking confirmation").Logger()
	if r.URL.Query().Get("confirm") != "true" {
		err := fmt.Errorf("failed clearing cart with error=%w", inErrors.ErrClearUnconfirmed)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusConflict,
			"message":    err.Error(),
		})
		return
	}

	logger = logger.With().Str(log.KeyProcess, "clearing cart").Logger()
	logger.Info().Msg("clearing cart")
	c = logger.WithContext(c)
	if err := t.service.Clear(c); err != nil {
		err = fmt.Errorf("failed clearing cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("cleared cart")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "cleared cart",
		"data": map[string]interface{}{
			"cart": cartBody(t.service.Items(), t.service.Totals(), t.service.ItemCount()),
		},
	})
}

func (t CartController) CheckoutCart(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "CartController CheckoutCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController CheckoutCart").
		Str(log.KeyProcess, "checking out cart").
		Logger()

	logger.Info().Msg("checking out cart")
	c = logger.WithContext(c)
	totals, err := t.service.Checkout(c)
	if err != nil {
		err = fmt.Errorf("failed checking out cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		statusCode := http.StatusInternalServerError
		if errors.Is(err, inErrors.ErrEmptyCart) {
			statusCode = http.StatusBadRequest
		}
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCode,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msgf("checked out cart with total=%s", totals.Total.StringFixed(2))

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("thank you for your purchase of %s", totals.Total.StringFixed(2)),
		"data": map[string]interface{}{
			"receipt": response.CheckoutReceipt{
				Subtotal: totals.Subtotal.StringFixed(2),
				Tax:      totals.Tax.StringFixed(2),
				Total:    totals.Total.StringFixed(2),
			},
		},
	})
}
