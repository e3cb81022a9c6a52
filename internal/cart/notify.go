package cart

import (
	"log/slog"
	"sync"
)

// Listener is told that the cart changed. It carries no payload; listeners re-read
// whatever they need from the store.
type Listener func()

// subscribers fans a change in one namespace out to everyone watching. A lone Store
// owns its own set, stores from a Registry share the registry's.
type subscribers struct {
	mu     sync.Mutex
	nextID int
	byID   map[int]func(namespace string)
	order  []int
}

func (s *subscribers) add(fn func(namespace string)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.byID == nil {
		s.byID = make(map[int]func(string))
	}
	id := s.nextID
	s.nextID++
	s.byID[id] = fn
	s.order = append(s.order, id)

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *subscribers) remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.byID, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *subscribers) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

func (s *subscribers) snapshot() []func(string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]func(string), 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

func (s *subscribers) broadcast(l *slog.Logger, namespace string) {
	for _, fn := range s.snapshot() {
		func() {
			defer func() {
				if r := recover(); r != nil {
					l.Error("cart_listener_panic", "namespace", namespace, "panic", r)
				}
			}()
			fn(namespace)
		}()
	}
}

// nsLocks hands out one mutex per namespace and forgets it once nobody holds or
// waits for it, so idle visitors cost nothing.
type nsLocks struct {
	mu sync.Mutex
	m  map[string]*refLock
}

type refLock struct {
	sync.Mutex
	refs int
}

func (l *nsLocks) lock(namespace string) {
	l.mu.Lock()
	if l.m == nil {
		l.m = make(map[string]*refLock)
	}
	rl, ok := l.m[namespace]
	if !ok {
		rl = &refLock{}
		l.m[namespace] = rl
	}
	rl.refs++
	l.mu.Unlock()

	rl.Lock()
}

func (l *nsLocks) unlock(namespace string) {
	l.mu.Lock()
	rl := l.m[namespace]
	rl.refs--
	if rl.refs == 0 {
		delete(l.m, namespace)
	}
	l.mu.Unlock()

	rl.Unlock()
}

func (l *nsLocks) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}

// namespaceLocker adapts nsLocks to sync.Locker for a single namespace.
type namespaceLocker struct {
	locks     *nsLocks
	namespace string
}

func (n namespaceLocker) Lock()   { n.locks.lock(n.namespace) }
func (n namespaceLocker) Unlock() { n.locks.unlock(n.namespace) }
