package controller

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inErrors "github.com/chocoblitz/storefront/internal/errors"
	inHttp "github.com/chocoblitz/storefront/internal/http"
	"github.com/chocoblitz/storefront/internal/log"
	inOtel "github.com/chocoblitz/storefront/internal/otel"
	"github.com/chocoblitz/storefront/internal/service"
	"github.com/chocoblitz/storefront/pkg/request"
)

type ReviewController struct {
	service *service.ReviewService
}

func AttachReviewController(router *mux.Router, service *service.ReviewService) {
	controller := ReviewController{service: service}

	sub := router.PathPrefix("/reviews").Subrouter()
	sub.HandleFunc("", controller.FindReviews).Methods(http.MethodGet)
	sub.HandleFunc("", controller.SubmitReview).Methods(http.MethodPost)
	router.HandleFunc("/contact", controller.SubmitContact).Methods(http.MethodPost)
}

func (t ReviewController) FindReviews(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "ReviewController FindReviews")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ReviewController FindReviews").
		Str(log.KeyProcess, "finding reviews").
		Logger()

	logger.Info().Msg("finding reviews")
	reviews := t.service.List()
	logger.Info().Msgf("found %d reviews", len(reviews))

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("found %d reviews", len(reviews)),
		"data": map[string]interface{}{
			"reviews": reviews,
		},
	})
}

func (t ReviewController) SubmitReview(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "ReviewController SubmitReview")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ReviewController SubmitReview").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.Review{}
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

	logger = logger.With().Str(log.KeyProcess, "submitting review").Logger()
	logger.Info().Msg("submitting review")
	c = logger.WithContext(c)
	review, err := t.service.Submit(c, reqBody)
	if err != nil {
		err = fmt.Errorf("failed submitting review with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Str(log.KeyReviewID, review.ID).Msg("submitted review")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusCreated,
		"message":    "thank you for your review",
		"data": map[string]interface{}{
			"review": review,
		},
	})
}

func (t ReviewController) SubmitContact(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "ReviewController SubmitContact")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ReviewController SubmitContact").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.Contact{}
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

	logger = logger.With().Str(log.KeyProcess, "submitting contact message").Logger()
	logger.Info().Msg("submitting contact message")
	c = logger.WithContext(c)
	if err := t.service.Contact(c, reqBody); err != nil {
		err = fmt.Errorf("failed submitting contact message with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("submitted contact message")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "thanks for reaching out, we will get back to you soon",
	})
}
