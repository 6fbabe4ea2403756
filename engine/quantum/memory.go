package quantum

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var ErrDatasetNotFound = errors.New("dataset not found")

// MemoryButler keeps datasets in a map keyed by reference ID. It backs tests and the demo
// task of the command line tool.
type MemoryButler struct {
	mu    sync.RWMutex
	store map[uuid.UUID]any
}

func NewMemoryButler() *MemoryButler {
	return &MemoryButler{store: make(map[uuid.UUID]any)}
}

func (b *MemoryButler) Get(_ context.Context, ref DatasetRef) (any, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	obj, ok := b.store[ref.ID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, ref)
	}
	return obj, nil
}

func (b *MemoryButler) Put(_ context.Context, obj any, ref DatasetRef) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.store[ref.ID] = obj
	return nil
}

func (b *MemoryButler) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.store)
}
