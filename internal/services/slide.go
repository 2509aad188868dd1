package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/studykit/studylib-backend/internal/lifecycle"
	"github.com/studykit/studylib-backend/internal/logger"
	"github.com/studykit/studylib-backend/internal/repos"
	"github.com/studykit/studylib-backend/internal/requestdata"
	"github.com/studykit/studylib-backend/internal/tree"
	"github.com/studykit/studylib-backend/internal/types"
)

// AddUpdateSlideRequest carries one slide kind's add-or-update body. The
// payload is decoded by the kind's adapter.
type AddUpdateSlideRequest struct {
	SlideID     *uuid.UUID       `json:"slide_id,omitempty"`
	SourceType  types.SourceType `json:"source_type"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Payload     json.RawMessage  `json:"payload"`
}

// UpdateStatusRequest applies a lifecycle action. Notify is forwarded to
// downstream consumers on publish and must be explicitly confirmed.
type UpdateStatusRequest struct {
	Action          lifecycle.Action `json:"action"`
	Notify          bool             `json:"notify,omitempty"`
	NotifyConfirmed bool             `json:"notify_confirmed,omitempty"`
	UnpublishTo     types.Status     `json:"unpublish_to,omitempty"`
}

// UpdateOrderRequest is the full "set order" submission for a chapter.
// OrderVersion is monotonic; zero means last-write-wins (legacy client).
type UpdateOrderRequest struct {
	OrderVersion int64                   `json:"order_version,omitempty"`
	Orders       []types.SlideOrderEntry `json:"slide_orders"`
}

type SlideService interface {
	AddOrUpdateSlide(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID, req AddUpdateSlideRequest) (*types.Slide, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, chapterID, slideID uuid.UUID, req UpdateStatusRequest) (*types.Slide, error)
	UpdateOrder(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID, req UpdateOrderRequest) error
	ReorderSlide(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID, oldIndex, newIndex int) ([]types.SlideOrderEntry, error)
	CopySlide(ctx context.Context, tx *gorm.DB, slideID, srcChapterID, dstChapterID uuid.UUID) (*types.Slide, error)
	MoveSlide(ctx context.Context, tx *gorm.DB, slideID, srcChapterID, dstChapterID uuid.UUID) (*types.Slide, error)
}

type slideService struct {
	db          *gorm.DB
	log         *logger.Logger
	chapterRepo repos.ChapterRepo
	slideRepo   repos.SlideRepo
	trees       *tree.Registry

	// One mutex per chapter so mutating calls against the same chapter
	// serialize instead of racing in flight.
	chapterLocks sync.Map
}

func NewSlideService(
	db *gorm.DB,
	baseLog *logger.Logger,
	chapterRepo repos.ChapterRepo,
	slideRepo repos.SlideRepo,
	trees *tree.Registry,
) SlideService {
	return &slideService{
		db:          db,
		log:         baseLog.With("service", "SlideService"),
		chapterRepo: chapterRepo,
		slideRepo:   slideRepo,
		trees:       trees,
	}
}

func (s *slideService) lockChapter(chapterID uuid.UUID) func() {
	v, _ := s.chapterLocks.LoadOrStore(chapterID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// lockChapters takes both chapter locks in a fixed id order so two calls
// touching the same pair cannot deadlock on each other.
func (s *slideService) lockChapters(a, b uuid.UUID) func() {
	if a == b {
		return s.lockChapter(a)
	}
	first, second := a, b
	if bytes.Compare(second[:], first[:]) < 0 {
		first, second = second, first
	}
	unlockFirst := s.lockChapter(first)
	unlockSecond := s.lockChapter(second)
	return func() {
		unlockSecond()
		unlockFirst()
	}
}

func (s *slideService) ownedChapter(ctx context.Context, transaction *gorm.DB, chapterID uuid.UUID) (*types.Chapter, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.InstituteID == uuid.Nil {
		return nil, ErrNotAuthenticated
	}
	chapters, err := s.chapterRepo.GetByIDs(ctx, transaction, []uuid.UUID{chapterID})
	if err != nil {
		return nil, err
	}
	if len(chapters) == 0 || chapters[0].InstituteID != rd.InstituteID {
		return nil, fmt.Errorf("chapter %s: %w", chapterID, ErrNotFound)
	}
	return chapters[0], nil
}

func (s *slideService) AddOrUpdateSlide(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID, req AddUpdateSlideRequest) (*types.Slide, error) {
	transaction := tx
	if transaction == nil {
		transaction = s.db
	}

	chapter, err := s.ownedChapter(ctx, transaction, chapterID)
	if err != nil {
		return nil, err
	}

	adapter, err := lifecycle.AdapterFor(req.SourceType)
	if err != nil {
		return nil, err
	}

	unlock := s.lockChapter(chapterID)
	defer unlock()

	if req.SlideID == nil || *req.SlideID == uuid.Nil {
		maxOrder, err := s.slideRepo.MaxOrder(ctx, transaction, chapterID)
		if err != nil {
			return nil, err
		}
		slide := &types.Slide{
			ID:          uuid.New(),
			ChapterID:   chapterID,
			InstituteID: chapter.InstituteID,
			SourceType:  req.SourceType,
			Status:      types.StatusDraft,
			Title:       req.Title,
			Description: req.Description,
			SlideOrder:  maxOrder + 1,
			IsNew:       true,
		}
		if err := adapter.ApplyDraft(slide, req.Payload); err != nil {
			return nil, err
		}
		if _, err := s.slideRepo.Create(ctx, transaction, []*types.Slide{slide}); err != nil {
			s.log.Warn("AddOrUpdateSlide: create failed", "error", err, "chapter_id", chapterID)
			return nil, err
		}
		slide.IsNew = false
		return slide, nil
	}

	slides, err := s.slideRepo.GetByIDs(ctx, transaction, []uuid.UUID{*req.SlideID})
	if err != nil {
		return nil, err
	}
	if len(slides) == 0 || slides[0].ChapterID != chapterID {
		return nil, fmt.Errorf("slide %s: %w", *req.SlideID, ErrNotFound)
	}
	slide := slides[0]
	if slide.SourceType != req.SourceType {
		return nil, fmt.Errorf("slide %s is %s, not %s", slide.ID, slide.SourceType, req.SourceType)
	}

	next, err := lifecycle.Next(slide.Status, lifecycle.ActionSaveDraft, lifecycle.Options{})
	if err != nil {
		return nil, err
	}
	if err := adapter.ApplyDraft(slide, req.Payload); err != nil {
		return nil, err
	}
	if req.Title != "" {
		slide.Title = req.Title
	}
	if req.Description != "" {
		slide.Description = req.Description
	}
	slide.Status = next
	if err := s.slideRepo.Update(ctx, transaction, slide); err != nil {
		s.log.Warn("AddOrUpdateSlide: update failed", "error", err, "slide_id", slide.ID)
		return nil, err
	}
	return slide, nil
}

func (s *slideService) UpdateStatus(ctx context.Context, tx *gorm.DB, chapterID, slideID uuid.UUID, req UpdateStatusRequest) (*types.Slide, error) {
	transaction := tx
	if transaction == nil {
		transaction = s.db
	}

	if _, err := s.ownedChapter(ctx, transaction, chapterID); err != nil {
		return nil, err
	}
	if req.Notify && !req.NotifyConfirmed {
		return nil, ErrNotifyUnconfirmed
	}

	unlock := s.lockChapter(chapterID)
	defer unlock()

	slides, err := s.slideRepo.GetByIDs(ctx, transaction, []uuid.UUID{slideID})
	if err != nil {
		return nil, err
	}
	if len(slides) == 0 || slides[0].ChapterID != chapterID {
		return nil, fmt.Errorf("slide %s: %w", slideID, ErrNotFound)
	}
	slide := slides[0]

	// Work on a copy so a failed persist leaves the loaded state alone;
	// the status flip only commits with the write.
	updated := *slide
	if err := lifecycle.Apply(&updated, req.Action, lifecycle.Options{UnpublishTo: req.UnpublishTo}); err != nil {
		return nil, err
	}
	if err := s.slideRepo.Update(ctx, transaction, &updated); err != nil {
		s.log.Warn("UpdateStatus: persist failed", "error", err, "slide_id", slideID, "action", req.Action)
		return nil, err
	}
	if req.Notify {
		s.log.Info("publish notification requested", "slide_id", slideID, "chapter_id", chapterID)
	}
	return &updated, nil
}

// UpdateOrder applies a full-order submission. The payload must be a
// dense 1..N permutation of the chapter's non-deleted slides; stale
// versions are rejected so a late-arriving older submission cannot
// overwrite a newer ordering.
func (s *slideService) UpdateOrder(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID, req UpdateOrderRequest) error {
	tracer := otel.Tracer("services/slide")
	var span trace.Span
	ctx, span = tracer.Start(ctx, "slide.update_order",
		trace.WithAttributes(attribute.Int("slide_count", len(req.Orders))))
	defer span.End()

	transaction := tx
	if transaction == nil {
		transaction = s.db
	}

	// The stale check must run against the latest committed version, so
	// the chapter is loaded only once the lock is held.
	unlock := s.lockChapter(chapterID)
	defer unlock()

	chapter, err := s.ownedChapter(ctx, transaction, chapterID)
	if err != nil {
		return err
	}

	if req.OrderVersion != 0 && req.OrderVersion <= chapter.OrderVersion {
		return fmt.Errorf("%w: got %d, chapter at %d", ErrStaleOrderVersion, req.OrderVersion, chapter.OrderVersion)
	}

	current, err := s.slideRepo.GetByChapterID(ctx, transaction, chapterID, false)
	if err != nil {
		return err
	}
	if err := validateDensePermutation(current, req.Orders); err != nil {
		return err
	}

	nextVersion := req.OrderVersion
	if nextVersion == 0 {
		nextVersion = chapter.OrderVersion + 1
	}

	return transaction.Transaction(func(innerTx *gorm.DB) error {
		if err := s.slideRepo.SetOrders(ctx, innerTx, chapterID, req.Orders); err != nil {
			return err
		}
		return s.chapterRepo.SetOrderVersion(ctx, innerTx, chapterID, nextVersion)
	})
}

// ReorderSlide is the drag-and-drop path: apply the move optimistically
// on the chapter's in-memory tree, persist the full resulting ordering,
// and either confirm the tree or revert it to the last confirmed state.
func (s *slideService) ReorderSlide(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID, oldIndex, newIndex int) ([]types.SlideOrderEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = s.db
	}

	// Lock first so the version the new ordering is stamped with cannot
	// be computed from a snapshot another writer has already advanced.
	unlock := s.lockChapter(chapterID)
	defer unlock()

	chapter, err := s.ownedChapter(ctx, transaction, chapterID)
	if err != nil {
		return nil, err
	}

	t := s.trees.Tree(chapterID)
	if t.Len() == 0 {
		slides, err := s.slideRepo.GetByChapterID(ctx, transaction, chapterID, false)
		if err != nil {
			return nil, err
		}
		t.SetItems(slides)
	}

	if !t.Reorder(oldIndex, newIndex) {
		// Out-of-range move is a no-op; return the unchanged ordering.
		return t.OrderPayload(), nil
	}

	payload := t.OrderPayload()
	nextVersion := chapter.OrderVersion + 1
	err = transaction.Transaction(func(innerTx *gorm.DB) error {
		if err := s.slideRepo.SetOrders(ctx, innerTx, chapterID, payload); err != nil {
			return err
		}
		return s.chapterRepo.SetOrderVersion(ctx, innerTx, chapterID, nextVersion)
	})
	if err != nil {
		t.Revert()
		s.log.Warn("ReorderSlide: persist failed, reverted local order", "error", err, "chapter_id", chapterID)
		return nil, err
	}
	t.Confirm()
	return payload, nil
}

func (s *slideService) CopySlide(ctx context.Context, tx *gorm.DB, slideID, srcChapterID, dstChapterID uuid.UUID) (*types.Slide, error) {
	transaction := tx
	if transaction == nil {
		transaction = s.db
	}

	if _, err := s.ownedChapter(ctx, transaction, srcChapterID); err != nil {
		return nil, err
	}
	dstChapter, err := s.ownedChapter(ctx, transaction, dstChapterID)
	if err != nil {
		return nil, err
	}

	unlock := s.lockChapter(dstChapterID)
	defer unlock()

	return s.copyIntoChapter(ctx, transaction, slideID, srcChapterID, dstChapter)
}

// copyIntoChapter appends a copy of the slide to the destination chapter.
// The caller holds the destination chapter's lock.
func (s *slideService) copyIntoChapter(ctx context.Context, transaction *gorm.DB, slideID, srcChapterID uuid.UUID, dstChapter *types.Chapter) (*types.Slide, error) {
	slides, err := s.slideRepo.GetByIDs(ctx, transaction, []uuid.UUID{slideID})
	if err != nil {
		return nil, err
	}
	if len(slides) == 0 || slides[0].ChapterID != srcChapterID {
		return nil, fmt.Errorf("slide %s: %w", slideID, ErrNotFound)
	}
	src := slides[0]

	maxOrder, err := s.slideRepo.MaxOrder(ctx, transaction, dstChapter.ID)
	if err != nil {
		return nil, err
	}

	copied := *src
	copied.ID = uuid.New()
	copied.ChapterID = dstChapter.ID
	copied.InstituteID = dstChapter.InstituteID
	copied.SlideOrder = maxOrder + 1
	copied.Chapter = nil
	if _, err := s.slideRepo.Create(ctx, transaction, []*types.Slide{&copied}); err != nil {
		return nil, err
	}
	return &copied, nil
}

func (s *slideService) MoveSlide(ctx context.Context, tx *gorm.DB, slideID, srcChapterID, dstChapterID uuid.UUID) (*types.Slide, error) {
	transaction := tx
	if transaction == nil {
		transaction = s.db
	}

	if _, err := s.ownedChapter(ctx, transaction, srcChapterID); err != nil {
		return nil, err
	}
	dstChapter, err := s.ownedChapter(ctx, transaction, dstChapterID)
	if err != nil {
		return nil, err
	}

	// Both chapters mutate: the copy lands in the destination and the
	// source is reindexed, so both locks are held for the whole move.
	unlock := s.lockChapters(srcChapterID, dstChapterID)
	defer unlock()

	var moved *types.Slide
	err = transaction.Transaction(func(innerTx *gorm.DB) error {
		copied, err := s.copyIntoChapter(ctx, innerTx, slideID, srcChapterID, dstChapter)
		if err != nil {
			return err
		}
		moved = copied

		slides, err := s.slideRepo.GetByIDs(ctx, innerTx, []uuid.UUID{slideID})
		if err != nil {
			return err
		}
		src := slides[0]
		src.Status = types.StatusDeleted
		if err := s.slideRepo.Update(ctx, innerTx, src); err != nil {
			return err
		}

		// Close the gap the moved slide left behind.
		remaining, err := s.slideRepo.GetByChapterID(ctx, innerTx, srcChapterID, false)
		if err != nil {
			return err
		}
		entries := make([]types.SlideOrderEntry, len(remaining))
		for i, sl := range remaining {
			entries[i] = types.SlideOrderEntry{SlideID: sl.ID, SlideOrder: i + 1}
		}
		return s.slideRepo.SetOrders(ctx, innerTx, srcChapterID, entries)
	})
	if err != nil {
		return nil, err
	}
	s.trees.Drop(srcChapterID)
	s.trees.Drop(dstChapterID)
	return moved, nil
}

func validateDensePermutation(current []*types.Slide, entries []types.SlideOrderEntry) error {
	if len(entries) != len(current) {
		return fmt.Errorf("%w: %d entries for %d slides", ErrSparseOrder, len(entries), len(current))
	}
	known := make(map[uuid.UUID]bool, len(current))
	for _, s := range current {
		known[s.ID] = true
	}
	seenOrder := make(map[int]bool, len(entries))
	seenID := make(map[uuid.UUID]bool, len(entries))
	for _, e := range entries {
		if !known[e.SlideID] {
			return fmt.Errorf("%w: unknown slide %s", ErrSparseOrder, e.SlideID)
		}
		if seenID[e.SlideID] {
			return fmt.Errorf("%w: duplicate slide %s", ErrSparseOrder, e.SlideID)
		}
		seenID[e.SlideID] = true
		if e.SlideOrder < 1 || e.SlideOrder > len(entries) || seenOrder[e.SlideOrder] {
			return fmt.Errorf("%w: bad position %d", ErrSparseOrder, e.SlideOrder)
		}
		seenOrder[e.SlideOrder] = true
	}
	return nil
}
