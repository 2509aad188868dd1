package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studykit/studylib-backend/internal/logger"
	"github.com/studykit/studylib-backend/internal/types"
)

type SlideRepo interface {
	Create(ctx context.Context, tx *gorm.DB, slides []*types.Slide) ([]*types.Slide, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, slideIDs []uuid.UUID) ([]*types.Slide, error)
	GetByChapterID(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID, includeDeleted bool) ([]*types.Slide, error)
	Update(ctx context.Context, tx *gorm.DB, slide *types.Slide) error
	SetOrders(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID, entries []types.SlideOrderEntry) error
	MaxOrder(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID) (int, error)
}

type slideRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSlideRepo(db *gorm.DB, baseLog *logger.Logger) SlideRepo {
	return &slideRepo{db: db, log: baseLog.With("repo", "SlideRepo")}
}

func (r *slideRepo) Create(ctx context.Context, tx *gorm.DB, slides []*types.Slide) ([]*types.Slide, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(slides) == 0 {
		return []*types.Slide{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&slides).Error; err != nil {
		return nil, err
	}
	return slides, nil
}

func (r *slideRepo) GetByIDs(ctx context.Context, tx *gorm.DB, slideIDs []uuid.UUID) ([]*types.Slide, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Slide
	if len(slideIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", slideIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *slideRepo) GetByChapterID(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID, includeDeleted bool) ([]*types.Slide, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Slide
	query := transaction.WithContext(ctx).
		Where("chapter_id = ?", chapterID).
		Order("slide_order ASC")
	if !includeDeleted {
		query = query.Where("status <> ?", types.StatusDeleted)
	}

	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *slideRepo) Update(ctx context.Context, tx *gorm.DB, slide *types.Slide) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).Save(slide).Error
}

// SetOrders applies the full ordering for a chapter row by row inside the
// caller's transaction.
func (r *slideRepo) SetOrders(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID, entries []types.SlideOrderEntry) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	for _, e := range entries {
		if err := transaction.WithContext(ctx).
			Model(&types.Slide{}).
			Where("id = ? AND chapter_id = ?", e.SlideID, chapterID).
			Update("slide_order", e.SlideOrder).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *slideRepo) MaxOrder(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var max *int
	if err := transaction.WithContext(ctx).
		Model(&types.Slide{}).
		Where("chapter_id = ? AND status <> ?", chapterID, types.StatusDeleted).
		Select("MAX(slide_order)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}
