package cart

import (
	"github.com/kmdsweets/storefront/internal/storage"
)

// Registry hands out Stores per client namespace over a shared KV. Stores are
// cheap views: the registry keeps no per-visitor state beyond locks held by
// in-flight operations and subscriptions that are still open.
type Registry struct {
	KV storage.KV

	locks nsLocks
	subs  subscribers
}

func NewRegistry(kv storage.KV) *Registry {
	return &Registry{KV: kv}
}

// Watch registers fn for changes in every namespace. It returns a func that
// removes the watcher.
func (r *Registry) Watch(fn func(namespace string)) func() {
	return r.subs.add(fn)
}

func (r *Registry) For(namespace string) *Store {
	return &Store{
		KV:        r.KV,
		Namespace: namespace,
		mu:        namespaceLocker{locks: &r.locks, namespace: namespace},
		subs:      &r.subs,
	}
}
