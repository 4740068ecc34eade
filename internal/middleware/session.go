package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	inErrors "github.com/chocoblitz/storefront/internal/errors"
	inHttp "github.com/chocoblitz/storefront/internal/http"
	"github.com/chocoblitz/storefront/internal/log"
)

// SessionChecker reports whether a persisted session token exists. The
// storefront hides everything behind the auth overlay, so mutating routes are
// guarded with it.
type SessionChecker interface {
	IsAuthenticated(c context.Context) bool
}

func RequireSession(sessions SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := zerolog.Ctx(r.Context()).
				With().
				Str(log.KeyTag, "middleware RequireSession").
				Logger()
			c := logger.WithContext(r.Context())

			if !sessions.IsAuthenticated(c) {
				logger.Error().
					Err(inErrors.ErrSessionNotFound).
					Msg(inErrors.ErrSessionNotFound.Error())
				inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
					"status":     "failed",
					"statusCode": http.StatusUnauthorized,
					"message":    inErrors.ErrSessionNotFound.Error(),
				})
				return
			}

			next.ServeHTTP(w, r.WithContext(c))
		})
	}
}
