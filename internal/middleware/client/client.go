package client

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kmdsweets/storefront/internal/logging"
	"github.com/kmdsweets/storefront/internal/tokens"
)

const (
	CookieName = "kmd_client"
	contextKey = "client_id"
	lifetime   = 365 * 24 * time.Hour
)

type Config struct {
	Secret []byte
	Secure bool
}

// Middleware makes sure every request carries a signed client id, issuing a new one
// when the cookie is missing, tampered with or expired.
func Middleware(cfg Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			if ck, err := c.Cookie(CookieName); err == nil && ck.Value != "" {
				claims, err := tokens.ClientClaimsFromToken(ck.Value, cfg.Secret)
				if err == nil {
					c.Set(contextKey, claims.Subject)
					return next(c)
				}
				logging.FromContext(ctx).Warn("client_cookie_rejected", "error", err)
			}

			id := uuid.NewString()
			exp := time.Now().Add(lifetime)
			tok, err := tokens.NewClientToken(id, exp, cfg.Secret)
			if err != nil {
				logging.FromContext(ctx).Error("client_cookie_issue_failed", "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "cannot issue client id")
			}

			c.SetCookie(&http.Cookie{
				Name:     CookieName,
				Value:    tok,
				Path:     "/",
				Expires:  exp,
				HttpOnly: true,
				Secure:   cfg.Secure,
				SameSite: http.SameSiteLaxMode,
			})
			c.Set(contextKey, id)
			return next(c)
		}
	}
}

func ID(c echo.Context) string {
	s, _ := c.Get(contextKey).(string)
	return s
}
