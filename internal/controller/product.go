package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/chocoblitz/storefront/internal/catalog"
	inErrors "github.com/chocoblitz/storefront/internal/errors"
	inHttp "github.com/chocoblitz/storefront/internal/http"
	"github.com/chocoblitz/storefront/internal/log"
	inOtel "github.com/chocoblitz/storefront/internal/otel"
)

type ProductController struct {
	catalog *catalog.Catalog
}

func AttachProductController(router *mux.Router, catalog *catalog.Catalog) {
	controller := ProductController{catalog: catalog}

	sub := router.PathPrefix("/products").Subrouter()
	sub.HandleFunc("", controller.FindProducts).Methods(http.MethodGet)
	sub.HandleFunc("/{productId}", controller.FindProductById).Methods(http.MethodGet)
}

// FindProducts lists the catalog, optionally narrowed by ?filter=<category>.
// An unknown filter yields an empty list, not an error.
func (t ProductController) FindProducts(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "ProductController FindProducts")
	defer span.End()

	filter := r.URL.Query().Get("filter")
	if filter == "" {
		filter = catalog.FilterAll
	}

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductController FindProducts").
		Str(log.KeyCategory, filter).
		Str(log.KeyProcess, "filtering products").
		Logger()

	logger.Info().Msg("filtering products")
	products := t.catalog.Filter(filter)
	logger.Info().Msgf("filtered %d products", len(products))

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("found %d products", len(products)),
		"data": map[string]interface{}{
			"products": products,
		},
	})
}

func (t ProductController) FindProductById(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "ProductController FindProductById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductController FindProductById").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating productId").Logger()
	logger.Info().Msg("validating productId")
	productId, err := strconv.Atoi(mux.Vars(r)["productId"])
	if err != nil {
		err = fmt.Errorf("failed parsing productId=%s with error=%w", mux.Vars(r)["productId"], err)
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

	logger = logger.With().Str(log.KeyProcess, "finding product").Logger()
	logger.Info().Msg("finding product")
	product, err := t.catalog.FindById(productId)
	if err != nil {
		err = fmt.Errorf("failed finding productId=%d with error=%w", productId, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		statusCode := http.StatusInternalServerError
		if errors.Is(err, inErrors.ErrProductNotFound) {
			statusCode = http.StatusNotFound
		}
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCode,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msgf("found productId=%d", productId)

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("found productId=%d", productId),
		"data": map[string]interface{}{
			"product": product,
		},
	})
}
