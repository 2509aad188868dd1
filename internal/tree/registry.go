package tree

import (
	"sync"

	"github.com/google/uuid"
)

// Registry hands out one ContentTree per chapter. The tree is owned by
// the chapter-editing view; Drop discards it when the view navigates away.
type Registry struct {
	mu    sync.Mutex
	trees map[uuid.UUID]*ContentTree
}

func NewRegistry() *Registry {
	return &Registry{trees: make(map[uuid.UUID]*ContentTree)}
}

func (r *Registry) Tree(chapterID uuid.UUID) *ContentTree {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trees[chapterID]
	if !ok {
		t = New(chapterID)
		r.trees[chapterID] = t
	}
	return t
}

func (r *Registry) Drop(chapterID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.trees, chapterID)
}
