package sync

import (
	gosync "sync"

	"github.com/agentstation/confkit/pkg/models"
)

// keyReservations records the keys a dry run plans to insert for one
// resource. Nothing reaches the store during a dry run, so the store cannot
// reject the second new item deriving the same key.
type keyReservations struct {
	mu   gosync.Mutex
	keys map[models.Key]models.ID
}

func newKeyReservations() *keyReservations {
	return &keyReservations{keys: make(map[models.Key]models.ID)}
}

// reserve claims key for id. It reports false when another id holds it.
func (r *keyReservations) reserve(key models.Key, id models.ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if owner, taken := r.keys[key]; taken {
		return owner == id
	}
	r.keys[key] = id
	return true
}
