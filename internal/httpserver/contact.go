package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kmdsweets/storefront/internal/contact"
	"github.com/kmdsweets/storefront/internal/logging"
)

type MessageSender interface {
	Send(ctx context.Context, m contact.Message) error
}

type ContactHTTP struct {
	Sender MessageSender
}

func (h *ContactHTTP) Send(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "contact.send")

	var msg contact.Message
	if err := c.Bind(&msg); err != nil {
		l.Warn("contact_send_failed", "status", 400, "reason", "invalid body", "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"status": "error", "message": "invalid body"})
	}

	if err := h.Sender.Send(ctx, msg); err != nil {
		if errors.Is(err, contact.ErrValidation) {
			l.Warn("contact_send_failed", "status", 400, "reason", "validation", "error", err)
			return c.JSON(http.StatusBadRequest, map[string]string{"status": "error", "message": "Please fill out all fields"})
		}
		l.Error("contact_send_failed", "status", 502, "error", err)
		return remoteFailure(c, "Error sending message, please try again later")
	}

	l.Info("contact_send_success")
	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}
