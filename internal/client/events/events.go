// Package events is the client's in-process event bus. Each event kind has
// its own typed Topic; subscribers receive events synchronously in
// subscription order.
package events

import (
	"sync"

	"github.com/voatnetwork/voat/internal/client/models"
)

// Topic delivers values of one type to its subscribers.
type Topic[T any] struct {
	mu   sync.RWMutex
	next int
	subs map[int]func(T)
	ord  []int
}

// Subscribe registers fn and returns a func that removes it. Calling the
// returned func more than once is harmless.
func (t *Topic[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.subs == nil {
		t.subs = make(map[int]func(T))
	}
	id := t.next
	t.next++
	t.subs[id] = fn
	t.ord = append(t.ord, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			delete(t.subs, id)
			for i, v := range t.ord {
				if v == id {
					t.ord = append(t.ord[:i], t.ord[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish calls every current subscriber with v and returns how many were
// notified. Subscribers may unsubscribe from within their callback.
func (t *Topic[T]) Publish(v T) int {
	t.mu.RLock()
	fns := make([]func(T), 0, len(t.ord))
	for _, id := range t.ord {
		fns = append(fns, t.subs[id])
	}
	t.mu.RUnlock()

	for _, fn := range fns {
		fn(v)
	}
	return len(fns)
}

// Subscribers returns the number of registered subscribers.
func (t *Topic[T]) Subscribers() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.ord)
}

// WishlistUpdated is published when a wishlist changes outside the
// dashboard. When HasItems is false the receiver must refetch.
type WishlistUpdated struct {
	UserID   string
	Items    []models.WishlistItem
	HasItems bool
}

// UserLoggedIn is published once a verified user is persisted.
type UserLoggedIn struct {
	User models.User
}

// Bus groups the topics shared by the client's components.
type Bus struct {
	WishlistUpdated Topic[WishlistUpdated]
	UserLoggedIn    Topic[UserLoggedIn]
}

func NewBus() *Bus {
	return &Bus{}
}
