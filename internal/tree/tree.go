package tree

import (
	"sync"

	"github.com/google/uuid"

	"github.com/studykit/studylib-backend/internal/types"
)

// ContentTree holds the ordered slides of the chapter currently open for
// editing, plus the one slide under edit. All mutations go through the
// tree's mutex so overlapping reorders serialize instead of interleaving.
//
// The tree keeps the last backend-confirmed ordering as a snapshot. A
// reorder is applied optimistically; Confirm commits it, Revert rolls back
// to the snapshot when the persist fails.
type ContentTree struct {
	mu        sync.Mutex
	chapterID uuid.UUID
	items     []*types.Slide
	active    *types.Slide
	version   int64
	confirmed []*types.Slide
}

func New(chapterID uuid.UUID) *ContentTree {
	return &ContentTree{chapterID: chapterID}
}

func (t *ContentTree) ChapterID() uuid.UUID { return t.chapterID }

// SetItems replaces the whole collection, e.g. after a successful fetch.
// The new list becomes the confirmed baseline. Ordering is trusted as
// given; the store does not validate it.
func (t *ContentTree) SetItems(items []*types.Slide) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = make([]*types.Slide, len(items))
	copy(t.items, items)
	t.confirmed = snapshot(t.items)
	if t.active != nil && t.lookupLocked(t.active.ID) == nil {
		t.active = nil
	}
}

// SetActiveItem marks the slide under edit. nil is valid and means
// nothing selected (empty chapter).
func (t *ContentTree) SetActiveItem(item *types.Slide) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = item
}

func (t *ContentTree) ActiveItem() *types.Slide {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// GetByID returns nil, not an error, when the id is absent.
func (t *ContentTree) GetByID(id uuid.UUID) *types.Slide {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lookupLocked(id)
}

func (t *ContentTree) lookupLocked(id uuid.UUID) *types.Slide {
	for _, s := range t.items {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Reorder removes the item at oldIndex and reinserts it at newIndex,
// shifting the items in between by one position. Out-of-range indices are
// a no-op and report false. A move onto the same index is legal and
// reports true (the payload is simply identical to the current state).
func (t *ContentTree) Reorder(oldIndex, newIndex int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := len(t.items)
	if oldIndex < 0 || oldIndex >= n || newIndex < 0 || newIndex >= n {
		return false
	}
	moved := t.items[oldIndex]
	t.items = append(t.items[:oldIndex], t.items[oldIndex+1:]...)
	t.items = append(t.items[:newIndex], append([]*types.Slide{moved}, t.items[newIndex:]...)...)
	t.version++
	return true
}

// OrderPayload emits the full 1-based ordering for a batched "set order"
// request. Sending the complete ordering keeps the operation idempotent.
func (t *ContentTree) OrderPayload() []types.SlideOrderEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	payload := make([]types.SlideOrderEntry, len(t.items))
	for i, s := range t.items {
		payload[i] = types.SlideOrderEntry{SlideID: s.ID, SlideOrder: i + 1}
	}
	return payload
}

// Version is the monotonic count of local reorders, attached to each
// persist so the backend can reject stale submissions.
func (t *ContentTree) Version() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.version
}

// Confirm commits the current ordering as the backend-acknowledged state.
func (t *ContentTree) Confirm() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.confirmed = snapshot(t.items)
	for i, s := range t.items {
		s.SlideOrder = i + 1
	}
}

// Revert restores the last confirmed ordering after a failed persist.
func (t *ContentTree) Revert() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = snapshot(t.confirmed)
}

func (t *ContentTree) Items() []*types.Slide {
	t.mu.Lock()
	defer t.mu.Unlock()
	return snapshot(t.items)
}

func (t *ContentTree) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.items)
}

func snapshot(items []*types.Slide) []*types.Slide {
	out := make([]*types.Slide, len(items))
	copy(out, items)
	return out
}
