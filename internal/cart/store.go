package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kmdsweets/storefront/internal/logging"
	"github.com/kmdsweets/storefront/internal/pricing"
	"github.com/kmdsweets/storefront/internal/storage"
)

type Service interface {
	GetAll(ctx context.Context) []LineItem
	Add(ctx context.Context, snap Snapshot, quantity int) error
	UpdateQuantity(ctx context.Context, id string, quantity int) error
	Remove(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	Count(ctx context.Context) int
	Total(ctx context.Context) float64
	Subscribe(l Listener) (unsubscribe func())
}

// MaxQuantity bounds a single line so counts and totals cannot overflow.
const MaxQuantity = 9999

var ErrQuantityLimit = errors.New("quantity exceeds limit")

// Store owns the "cart" key of one storage namespace. Nothing else reads or writes
// that key.
type Store struct {
	KV        storage.KV
	Namespace string

	mu   sync.Locker
	subs *subscribers
}

var _ Service = (*Store)(nil)

func NewStore(kv storage.KV, namespace string) *Store {
	return &Store{KV: kv, Namespace: namespace, mu: &sync.Mutex{}, subs: &subscribers{}}
}

func (s *Store) load(ctx context.Context) []LineItem {
	l := logging.FromContext(ctx).With("component", "cart.store", "namespace", s.Namespace)

	raw, err := s.KV.Get(ctx, s.Namespace, StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return []LineItem{}
	}
	if err != nil {
		l.Error("cart_load_failed", "reason", "storage read", "error", err)
		return []LineItem{}
	}

	items, err := decodeItems(raw)
	if err != nil {
		l.Error("cart_load_failed", "reason", "malformed cart", "error", err)
		return []LineItem{}
	}
	return items
}

func (s *Store) save(ctx context.Context, items []LineItem) error {
	raw, err := encodeItems(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.KV.Set(ctx, s.Namespace, StorageKey, raw); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// mutate runs fn under the store lock and persists the result. fn returns false to
// skip the write, in which case nobody is notified. Unknown ids still count as a
// write: the unchanged list is saved again, so listeners hear about every call.
func (s *Store) mutate(ctx context.Context, fn func(items []LineItem) ([]LineItem, bool)) error {
	s.mu.Lock()
	items, changed := fn(s.load(ctx))
	var err error
	if changed {
		err = s.save(ctx, items)
	}
	s.mu.Unlock()

	if err != nil || !changed {
		return err
	}
	s.subs.broadcast(logging.FromContext(ctx), s.Namespace)
	return nil
}

func (s *Store) GetAll(ctx context.Context) []LineItem {
	s.mu.Lock()
	items := s.load(ctx)
	s.mu.Unlock()

	out := make([]LineItem, len(items))
	for i, it := range items {
		out[i] = it.clone()
	}
	return out
}

func (s *Store) Add(ctx context.Context, snap Snapshot, quantity int) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	if quantity < 1 {
		quantity = 1
	}
	if quantity > MaxQuantity {
		return fmt.Errorf("add %d of %s: %w", quantity, snap.ID, ErrQuantityLimit)
	}

	var limitErr error
	err := s.mutate(ctx, func(items []LineItem) ([]LineItem, bool) {
		for i := range items {
			if items[i].ID == snap.ID {
				if items[i].Quantity > MaxQuantity-quantity {
					limitErr = fmt.Errorf("add %d of %s to %d: %w", quantity, snap.ID, items[i].Quantity, ErrQuantityLimit)
					return items, false
				}
				items[i].Quantity += quantity
				return items, true
			}
		}
		return append(items, snap.lineItem(quantity)), true
	})
	if err != nil {
		return err
	}
	return limitErr
}

func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	if quantity < 1 {
		return nil
	}
	if quantity > MaxQuantity {
		return fmt.Errorf("set %s to %d: %w", id, quantity, ErrQuantityLimit)
	}

	return s.mutate(ctx, func(items []LineItem) ([]LineItem, bool) {
		for i := range items {
			if items[i].ID == id {
				items[i].Quantity = quantity
				break
			}
		}
		return items, true
	})
}

func (s *Store) Remove(ctx context.Context, id string) error {
	return s.mutate(ctx, func(items []LineItem) ([]LineItem, bool) {
		kept := items[:0]
		for _, it := range items {
			if it.ID != id {
				kept = append(kept, it)
			}
		}
		return kept, true
	})
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	err := s.KV.Delete(ctx, s.Namespace, StorageKey)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	s.subs.broadcast(logging.FromContext(ctx), s.Namespace)
	return nil
}

func (s *Store) Count(ctx context.Context) int {
	n := 0
	for _, it := range s.GetAll(ctx) {
		n += it.Quantity
	}
	return n
}

func (s *Store) Total(ctx context.Context) float64 {
	return pricing.Subtotal(Lines(s.GetAll(ctx)))
}

// Subscribe listens to this namespace only, even when the store shares its
// subscribers with a Registry.
func (s *Store) Subscribe(l Listener) func() {
	ns := s.Namespace
	return s.subs.add(func(changed string) {
		if changed == ns {
			l()
		}
	})
}
