package controller

import (
	"encoding/json"
	"errors"
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

type AuthController struct {
	service *service.SessionService
}

func AttachAuthController(router *mux.Router, service *service.SessionService) {
	controller := AuthController{service: service}

	sub := router.PathPrefix("/auth").Subrouter()
	sub.HandleFunc("/login", controller.Login).Methods(http.MethodPost)
	sub.HandleFunc("/register", controller.Register).Methods(http.MethodPost)
	sub.HandleFunc("/logout", controller.Logout).Methods(http.MethodPost)
	sub.HandleFunc("/session", controller.FindSession).Methods(http.MethodGet)
}

func authStatusCode(err error) int {
	if errors.Is(err, inErrors.ErrRequestInFlight) {
		return http.StatusConflict
	}
	return http.StatusUnauthorized
}

func (t AuthController) Login(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "AuthController Login")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AuthController Login").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.Login{}
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
	logger = logger.With().Object(log.KeyRequestBody, reqBody).Logger()
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "logging in").Logger()
	logger.Info().Msg("logging in")
	c = logger.WithContext(c)
	auth, err := t.service.Login(c, reqBody)
	if err != nil {
		err = fmt.Errorf("failed logging in with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": authStatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("logged in")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "logged in",
		"data": map[string]interface{}{
			"user": auth.User,
		},
	})
}

func (t AuthController) Register(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "AuthController Register")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AuthController Register").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.Register{}
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
	logger = logger.With().Object(log.KeyRequestBody, reqBody).Logger()
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "registering").Logger()
	logger.Info().Msg("registering")
	c = logger.WithContext(c)
	auth, err := t.service.Register(c, reqBody)
	if err != nil {
		err = fmt.Errorf("failed registering with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": authStatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("registered")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusCreated,
		"message":    "registered",
		"data": map[string]interface{}{
			"user": auth.User,
		},
	})
}

func (t AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "AuthController Logout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AuthController Logout").
		Str(log.KeyProcess, "logging out").
		Logger()

	logger.Info().Msg("logging out")
	c = logger.WithContext(c)
	if err := t.service.Logout(c); err != nil {
		err = fmt.Errorf("failed logging out with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("logged out")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "logged out",
	})
}

func (t AuthController) FindSession(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "AuthController FindSession")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AuthController FindSession").
		Str(log.KeyProcess, "finding session").
		Logger()

	logger.Info().Msg("finding session")
	c = logger.WithContext(c)
	session, err := t.service.Info(c)
	if err != nil {
		err = fmt.Errorf("failed finding session with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msgf("found session authenticated=%t", session.Authenticated)

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "found session",
		"data": map[string]interface{}{
			"session": session,
		},
	})
}
