package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kmdsweets/storefront/internal/cart"
	"github.com/kmdsweets/storefront/internal/logging"
	clientmw "github.com/kmdsweets/storefront/internal/middleware/client"
)

const defaultHeartbeat = 25 * time.Second

// EventsHub turns cart notifications into a server-sent event stream per client.
// Each stream only needs the latest count, so a slow reader skips stale values.
type EventsHub struct {
	Heartbeat time.Duration

	carts *cart.Registry

	mu   sync.Mutex
	subs map[string]map[chan int]struct{}
}

func NewEventsHub(reg *cart.Registry) *EventsHub {
	h := &EventsHub{
		Heartbeat: defaultHeartbeat,
		carts:     reg,
		subs:      make(map[string]map[chan int]struct{}),
	}
	reg.Watch(func(namespace string) {
		h.publish(namespace, reg.For(namespace).Count(context.Background()))
	})
	return h
}

func (h *EventsHub) subscribe(namespace string) (<-chan int, func()) {
	ch := make(chan int, 1)

	h.mu.Lock()
	if h.subs[namespace] == nil {
		h.subs[namespace] = make(map[chan int]struct{})
	}
	h.subs[namespace][ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs[namespace], ch)
		if len(h.subs[namespace]) == 0 {
			delete(h.subs, namespace)
		}
	}
}

func (h *EventsHub) publish(namespace string, count int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[namespace] {
		select {
		case <-ch:
		default:
		}
		ch <- count
	}
}

func writeEvent(w *echo.Response, count int) error {
	if _, err := fmt.Fprintf(w, "event: cartUpdated\ndata: {\"count\":%d}\n\n", count); err != nil {
		return err
	}
	w.Flush()
	return nil
}

func (h *EventsHub) Stream(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.events")
	ns := clientmw.ID(c)

	updates, cancel := h.subscribe(ns)
	defer cancel()

	w := c.Response()
	// the stream outlives the server write timeout
	_ = http.NewResponseController(w.Writer).SetWriteDeadline(time.Time{})

	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, h.carts.For(ns).Count(ctx)); err != nil {
		return nil
	}

	heartbeat := h.Heartbeat
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.Debug("cart_events_closed")
			return nil
		case n := <-updates:
			if err := writeEvent(w, n); err != nil {
				l.Debug("cart_events_write_failed", "error", err)
				return nil
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}
