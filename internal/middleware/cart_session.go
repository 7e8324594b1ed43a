package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const cartSessionKey contextKey = "cart_session"

// CartSessionCookie names the cookie holding the shopper's cart id.
const CartSessionCookie = "cart_session"

// CartSessionConfig controls the cart cookie.
type CartSessionConfig struct {
	Secure bool
	MaxAge time.Duration
}

// CartSessionMiddleware makes sure every request carries a cart session id.
// Missing or malformed cookies are replaced with a fresh uuid; the cookie is
// re-issued on every response so its lifetime slides with the stored cart.
func CartSessionMiddleware(config CartSessionConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := ""
			if c, err := r.Cookie(CartSessionCookie); err == nil {
				if id, err := uuid.Parse(c.Value); err == nil && id.Version() == 4 {
					session = id.String()
				} else {
					logger.Debug("Replacing invalid cart session cookie")
				}
			}
			if session == "" {
				session = uuid.NewString()
			}

			http.SetCookie(w, &http.Cookie{
				Name:     CartSessionCookie,
				Value:    session,
				Path:     "/",
				MaxAge:   int(config.MaxAge.Seconds()),
				HttpOnly: true,
				Secure:   config.Secure,
				SameSite: http.SameSiteLaxMode,
			})

			next.ServeHTTP(w, r.WithContext(WithCartSession(r.Context(), session)))
		})
	}
}

// WithCartSession stores the cart session id in ctx.
func WithCartSession(ctx context.Context, session string) context.Context {
	return context.WithValue(ctx, cartSessionKey, session)
}

// GetCartSession extracts the cart session id from request context
func GetCartSession(ctx context.Context) (string, bool) {
	session, ok := ctx.Value(cartSessionKey).(string)
	return session, ok && session != ""
}
