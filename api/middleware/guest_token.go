package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/wrapnest/storefront-backend/pkg/logger"
)

type contextKey string

const ctxGuestToken contextKey = "guest_token"

const (
	guestTokenCookie = "wn_guest"
	guestTokenTTL    = 365 * 24 * time.Hour
)

// GuestToken mints the anonymous identity that scopes cart and wishlist
// snapshots. A valid uuid cookie is reused; anything else is replaced.
func GuestToken(logg *logger.Logger, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if cookie, err := r.Cookie(guestTokenCookie); err == nil {
				if _, parseErr := uuid.Parse(cookie.Value); parseErr == nil {
					token = cookie.Value
				}
			}

			if token == "" {
				token = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     guestTokenCookie,
					Value:    token,
					Path:     "/",
					Expires:  time.Now().Add(guestTokenTTL),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := WithGuestToken(r.Context(), token)
			if logg != nil {
				ctx = logg.WithGuestToken(ctx, token)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithGuestToken injects the guest token into the context.
func WithGuestToken(ctx context.Context, token string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxGuestToken, token)
}

// GuestTokenFromContext returns the guest token, empty when absent.
func GuestTokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxGuestToken).(string); ok {
		return v
	}
	return ""
}
