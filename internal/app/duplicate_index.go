package app

import (
	"context"
	"sync"

	"graphics_monitor_bot/internal/domain/graphic"
)

// DuplicateIndex is an in-memory index of tracked content keys used to
// suppress duplicate submissions cheaply. The store remains the source of
// truth; the index is acceleration only and is rebuilt from the store on
// process start.
type DuplicateIndex struct {
	mu   sync.Mutex
	keys map[graphic.Key]struct{}
}

func NewDuplicateIndex() *DuplicateIndex {
	return &DuplicateIndex{keys: make(map[graphic.Key]struct{})}
}

// Rebuild replaces the index contents with the keys currently in the store.
func (idx *DuplicateIndex) Rebuild(ctx context.Context, repo graphic.Repository) error {
	keys, err := repo.ListKeys(ctx)
	if err != nil {
		return err
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.keys = make(map[graphic.Key]struct{}, len(keys))
	for _, k := range keys {
		idx.keys[k] = struct{}{}
	}
	return nil
}

func (idx *DuplicateIndex) Add(k graphic.Key) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.keys[k] = struct{}{}
}

func (idx *DuplicateIndex) Remove(k graphic.Key) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.keys, k)
}

func (idx *DuplicateIndex) Contains(k graphic.Key) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	_, ok := idx.keys[k]
	return ok
}

// RemoveChat drops every key scoped to the given chat, mirroring the cascade
// that disabling a monitored channel performs in the store.
func (idx *DuplicateIndex) RemoveChat(chatID int64) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for k := range idx.keys {
		if k.ChatID == chatID {
			delete(idx.keys, k)
		}
	}
}
