package store

import (
	"context"
	"sync"

	"soundshelf/shared/go/models"
)

// MemoryPersister keeps the snapshot in process memory. It is used by tests
// and demo setups; FailSaves makes every following Save return err.
type MemoryPersister struct {
	mu      sync.RWMutex
	snap    *models.Snapshot
	saveErr error
	saves   int
}

// NewMemoryPersister seeds the persister with a copy of snap (may be nil).
func NewMemoryPersister(snap *models.Snapshot) *MemoryPersister {
	if snap == nil {
		snap = models.NewSnapshot()
	}
	return &MemoryPersister{snap: snap.Clone()}
}

func (p *MemoryPersister) Load(_ context.Context) (*models.Snapshot, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap.Clone(), nil
}

func (p *MemoryPersister) Save(_ context.Context, snap *models.Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.saveErr != nil {
		return p.saveErr
	}
	p.snap = snap.Clone()
	p.saves++
	return nil
}

// FailSaves makes subsequent saves fail with err; nil restores normal behavior.
func (p *MemoryPersister) FailSaves(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saveErr = err
}

// Saves reports how many snapshots were persisted successfully.
func (p *MemoryPersister) Saves() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.saves
}

// Snapshot returns a copy of the last persisted snapshot.
func (p *MemoryPersister) Snapshot() *models.Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap.Clone()
}
