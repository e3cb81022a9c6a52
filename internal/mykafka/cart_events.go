package mykafka

import (
	"context"
	"log/slog"
	"time"

	"github.com/kmdsweets/storefront/internal/cart"
)

const CartTopic = "cart_events"

type Publisher interface {
	PublishAsync(topic, key string, event any, done func(error))
}

type CartUpdated struct {
	Type   string `json:"type"`
	Client string `json:"client"`
	Count  int    `json:"count"`
	At     int64  `json:"at"`
}

// CartEvents returns a registry watcher that mirrors every cart change to Kafka.
// The count is read before returning. The write runs in the background, tracked by
// the publisher, so a slow broker never holds up a cart operation.
func CartEvents(p Publisher, reg *cart.Registry, l *slog.Logger) func(namespace string) {
	l = l.With("component", "mykafka.cart_events")
	return func(namespace string) {
		ev := CartUpdated{
			Type:   "cartUpdated",
			Client: namespace,
			Count:  reg.For(namespace).Count(context.Background()),
			At:     time.Now().Unix(),
		}
		p.PublishAsync(CartTopic, namespace, ev, func(err error) {
			if err != nil {
				l.Warn("cart_event_publish_failed", "namespace", namespace, "error", err)
			}
		})
	}
}
