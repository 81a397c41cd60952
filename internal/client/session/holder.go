// Package session tracks which identity, if any, is signed in. The signed-in
// identity survives restarts through the store adapter.
package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/datashare/internal/client/models"
	"github.com/dmitrijs2005/datashare/internal/client/storage"
	"github.com/dmitrijs2005/datashare/internal/common"
)

// Holder is either anonymous or holds exactly one identity.
type Holder struct {
	mu      sync.Mutex
	store   *storage.Adapter
	current *models.Identity
}

func NewHolder(store *storage.Adapter) *Holder {
	return &Holder{store: store}
}

// SetCurrent makes id the signed-in identity, replacing any previous one, and
// persists it. The in-memory state changes even when persisting fails.
func (h *Holder) SetCurrent(ctx context.Context, id models.Identity) error {
	if err := id.Validate(); err != nil {
		return common.NewValidationError("identity", err.Error())
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.current = &id
	return storage.SaveOne(ctx, h.store, common.KeyCurrentUser, id)
}

// Current returns a copy of the signed-in identity or nil when anonymous.
// While anonymous every call re-reads the persisted identity, so a sign-in
// made by another process sharing the medium is picked up. An unreadable
// identity counts as anonymous.
func (h *Holder) Current(ctx context.Context) *models.Identity {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current == nil {
		id, ok := storage.LoadOne[models.Identity](ctx, h.store, common.KeyCurrentUser)
		if !ok {
			return nil
		}
		h.current = &id
	}
	c := *h.current
	return &c
}

// Clear signs out. Only the session key is removed; collections are left
// alone.
func (h *Holder) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.current = nil
	return h.store.Remove(ctx, common.KeyCurrentUser)
}

func (h *Holder) IsAuthenticated(ctx context.Context) bool {
	return h.Current(ctx) != nil
}
