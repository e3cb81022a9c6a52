package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kmdsweets/storefront/internal/logging"
	clientmw "github.com/kmdsweets/storefront/internal/middleware/client"
	"github.com/kmdsweets/storefront/internal/session"
)

type SessionHTTP struct {
	Svc *session.Service
}

func (h *SessionHTTP) Current(c echo.Context) error {
	ctx := c.Request().Context()

	u, ok := h.Svc.Current(ctx, clientmw.ID(c))
	if !ok {
		return c.JSON(http.StatusOK, map[string]any{"user": nil})
	}
	return c.JSON(http.StatusOK, map[string]any{"user": u})
}

func (h *SessionHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "session.login")

	var req session.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	u, err := h.Svc.Login(ctx, clientmw.ID(c), req)
	if err != nil {
		if errors.Is(err, session.ErrValidation) {
			l.Warn("login_failed", "status", 400, "reason", "validation", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid credentials form")
		}
		l.Error("login_failed", "status", 500, "reason", "cannot save session", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot save session")
	}

	l.Info("login_success", "mode", req.Mode)
	return c.JSON(http.StatusOK, map[string]any{"user": u})
}

func (h *SessionHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "session.logout")

	if err := h.Svc.Logout(ctx, clientmw.ID(c)); err != nil {
		l.Error("logout_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot clear session")
	}
	return c.NoContent(http.StatusNoContent)
}
