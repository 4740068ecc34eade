package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/chocoblitz/storefront/internal/config"
	"github.com/chocoblitz/storefront/internal/log"
	"github.com/chocoblitz/storefront/internal/middleware"
	inOtel "github.com/chocoblitz/storefront/internal/otel"
	"github.com/chocoblitz/storefront/pkg/response"
)

// AuthClient talks to the remote auth API. Every call runs under the
// configured timeout and is cancelled on expiry.
type AuthClient struct {
	baseUrl string
	timeout time.Duration
	client  *http.Client
}

func NewAuthClient(cfg config.AuthApi) *AuthClient {
	baseUrl := cfg.BaseUrl
	if baseUrl == "" {
		baseUrl = "http://localhost:3000/api"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &AuthClient{
		baseUrl: baseUrl,
		timeout: timeout,
		client:  &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
}

func (a *AuthClient) Login(
	c context.Context,
	email string,
	password string,
) (response.Auth, error) {
	return a.post(c, "/auth/login", "Login failed", map[string]string{
		"email":    email,
		"password": password,
	})
}

func (a *AuthClient) Register(
	c context.Context,
	name string,
	email string,
	password string,
	confirmPassword string,
) (response.Auth, error) {
	return a.post(c, "/auth/register", "Registration failed", map[string]string{
		"name":            name,
		"email":           email,
		"password":        password,
		"confirmPassword": confirmPassword,
	})
}

func (a *AuthClient) post(
	c context.Context,
	path string,
	fallbackMessage string,
	payload map[string]string,
) (response.Auth, error) {
	c, span := inOtel.Tracer.Start(c, "AuthClient post")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AuthClient post").
		Str(log.KeyRequestURL, a.baseUrl+path).
		Logger()

	c, cancel := context.WithTimeout(c, a.timeout)
	defer cancel()

	logger = logger.With().Str(log.KeyProcess, "creating auth request").Logger()
	body, err := json.Marshal(payload)
	if err != nil {
		err = fmt.Errorf("failed marshaling auth request with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	req, err := http.NewRequestWithContext(c, http.MethodPost, a.baseUrl+path, bytes.NewBuffer(body))
	if err != nil {
		err = fmt.Errorf("failed creating auth request with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.HeaderRequestID, log.RequestIDFromContext(c))

	logger = logger.With().Str(log.KeyProcess, "sending auth request").Logger()
	logger.Info().Msg("sending auth request")
	resp, err := a.client.Do(req)
	if err != nil {
		err = fmt.Errorf("failed sending auth request with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	defer resp.Body.Close()
	logger.Info().Msgf("auth api answered with statusCode=%d", resp.StatusCode)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		logger = logger.With().Str(log.KeyProcess, "decoding auth failure").Logger()
		failure := response.AuthFailure{}
		if err := json.NewDecoder(resp.Body).Decode(&failure); err != nil || failure.Message == "" {
			failure.Message = fallbackMessage
		}
		err = errors.New(failure.Message)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "decoding auth response").Logger()
	logger.Info().Msg("decoding auth response")
	auth := response.Auth{}
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		err = fmt.Errorf("failed decoding auth response with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	logger.Info().Msg("decoded auth response")

	return auth, nil
}
