package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/chocoblitz/storefront/internal/client"
	inErrors "github.com/chocoblitz/storefront/internal/errors"
	"github.com/chocoblitz/storefront/internal/log"
	inOtel "github.com/chocoblitz/storefront/internal/otel"
	"github.com/chocoblitz/storefront/internal/store"
	"github.com/chocoblitz/storefront/pkg/request"
	"github.com/chocoblitz/storefront/pkg/response"
)

// SessionService owns the persisted session: token, user mirror and the
// rememberMe marker. At most one auth request runs at a time; a second submit
// while one is pending fails with ErrRequestInFlight instead of racing it.
type SessionService struct {
	kv                store.KVStore
	authClient        *client.AuthClient
	cart              *CartService
	validate          *validator.Validate
	clearCartOnLogout bool
	inFlight          atomic.Bool
}

func NewSessionService(
	kv store.KVStore,
	authClient *client.AuthClient,
	cart *CartService,
	validate *validator.Validate,
	clearCartOnLogout bool,
) *SessionService {
	return &SessionService{
		kv:                kv,
		authClient:        authClient,
		cart:              cart,
		validate:          validate,
		clearCartOnLogout: clearCartOnLogout,
	}
}

func (s *SessionService) Login(c context.Context, param request.Login) (response.Auth, error) {
	c, span := inOtel.Tracer.Start(c, "SessionService Login")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "SessionService Login").
		Str(log.KeyEmail, param.Email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating login request").Logger()
	logger.Info().Msg("validating login request")
	if err := s.validate.StructCtx(c, param); err != nil {
		err = fmt.Errorf("failed validating login request with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	logger.Info().Msg("validated login request")

	if !s.inFlight.CompareAndSwap(false, true) {
		err := fmt.Errorf("failed starting login with error=%w", inErrors.ErrRequestInFlight)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	defer s.inFlight.Store(false)

	logger = logger.With().Str(log.KeyProcess, "logging in").Logger()
	logger.Info().Msg("logging in")
	auth, err := s.authClient.Login(c, param.Email, param.Password)
	if err != nil {
		err = fmt.Errorf("failed logging in with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	logger.Info().Msg("logged in")

	if err := s.persistSession(c, auth, param.RememberMe); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	return auth, nil
}

// Register creates an account and logs the new user straight in. A fresh
// registration is always remembered.
func (s *SessionService) Register(c context.Context, param request.Register) (response.Auth, error) {
	c, span := inOtel.Tracer.Start(c, "SessionService Register")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "SessionService Register").
		Str(log.KeyEmail, param.Email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating register request").Logger()
	logger.Info().Msg("validating register request")
	if err := s.validate.StructCtx(c, param); err != nil {
		err = fmt.Errorf("failed validating register request with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	logger.Info().Msg("validated register request")

	if !s.inFlight.CompareAndSwap(false, true) {
		err := fmt.Errorf("failed starting registration with error=%w", inErrors.ErrRequestInFlight)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	defer s.inFlight.Store(false)

	logger = logger.With().Str(log.KeyProcess, "registering").Logger()
	logger.Info().Msg("registering")
	auth, err := s.authClient.Register(c, param.Name, param.Email, param.Password, param.ConfirmPassword)
	if err != nil {
		err = fmt.Errorf("failed registering with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	logger.Info().Msg("registered")

	if err := s.persistSession(c, auth, true); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Auth{}, err
	}
	return auth, nil
}

// Logout wipes the persisted session and, when configured, the cart with it.
func (s *SessionService) Logout(c context.Context) error {
	c, span := inOtel.Tracer.Start(c, "SessionService Logout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "SessionService Logout").
		Str(log.KeyProcess, "deleting session").
		Logger()

	logger.Info().Msg("deleting session")
	if err := s.kv.Del(c, store.KeyToken, store.KeyUser, store.KeyRememberMe); err != nil {
		err = fmt.Errorf("failed deleting session with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("deleted session")

	if !s.clearCartOnLogout {
		return nil
	}
	logger = logger.With().Str(log.KeyProcess, "clearing cart on logout").Logger()
	logger.Info().Msg("clearing cart on logout")
	if err := s.cart.Clear(c); err != nil {
		err = fmt.Errorf("failed clearing cart on logout with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("cleared cart on logout")
	return nil
}

// IsAuthenticated treats a present token as a live session. The token is not
// verified locally; the auth API is the authority on its validity.
func (s *SessionService) IsAuthenticated(c context.Context) bool {
	_, ok, err := s.kv.Get(c, store.KeyToken)
	if err != nil {
		zerolog.Ctx(c).
			Error().
			Err(err).
			Str(log.KeyTag, "SessionService IsAuthenticated").
			Msg("failed reading token, treating session as anonymous")
		return false
	}
	return ok
}

func (s *SessionService) CurrentUser(c context.Context) (json.RawMessage, error) {
	c, span := inOtel.Tracer.Start(c, "SessionService CurrentUser")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "SessionService CurrentUser").
		Str(log.KeyProcess, "finding user in store").
		Logger()

	raw, ok, err := s.kv.Get(c, store.KeyUser)
	if err != nil {
		err = fmt.Errorf("failed finding user in store with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("failed finding user in store with error=%w", inErrors.ErrSessionNotFound)
	}
	return json.RawMessage(raw), nil
}

// Info assembles the session view. The token's expiry is read without
// verifying the signature; an unparsable token still counts as a session
// because the auth API decides validity, not this client.
func (s *SessionService) Info(c context.Context) (response.Session, error) {
	c, span := inOtel.Tracer.Start(c, "SessionService Info")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "SessionService Info").
		Str(log.KeyProcess, "assembling session info").
		Logger()

	token, ok, err := s.kv.Get(c, store.KeyToken)
	if err != nil {
		err = fmt.Errorf("failed reading token with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}
	if !ok {
		return response.Session{Authenticated: false}, nil
	}

	user, err := s.CurrentUser(c)
	if err != nil {
		err = fmt.Errorf("failed reading user with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}

	info := response.Session{Authenticated: true, User: user}
	if expiry, ok := tokenExpiry(token); ok {
		info.TokenExpiry = expiry.Format(time.RFC3339)
	} else {
		logger.Warn().Msg("token carries no readable expiry")
	}
	return info, nil
}

func (s *SessionService) persistSession(c context.Context, auth response.Auth, rememberMe bool) error {
	c, span := inOtel.Tracer.Start(c, "SessionService persistSession")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "SessionService persistSession").
		Str(log.KeyProcess, "persisting session").
		Logger()

	logger.Info().Msg("persisting session")
	if err := s.kv.Set(c, store.KeyToken, auth.Token); err != nil {
		return fmt.Errorf("failed persisting token with error=%w", err)
	}
	if err := s.kv.Set(c, store.KeyUser, string(auth.User)); err != nil {
		return fmt.Errorf("failed persisting user with error=%w", err)
	}
	if rememberMe {
		if err := s.kv.Set(c, store.KeyRememberMe, "true"); err != nil {
			return fmt.Errorf("failed persisting rememberMe with error=%w", err)
		}
	}
	logger.Info().Msg("persisted session")
	return nil
}

func tokenExpiry(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	expiry, err := parsed.Claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return time.Time{}, false
	}
	return expiry.Time, true
}
