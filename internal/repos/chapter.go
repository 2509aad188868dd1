package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studykit/studylib-backend/internal/logger"
	"github.com/studykit/studylib-backend/internal/types"
)

type ChapterRepo interface {
	Create(ctx context.Context, tx *gorm.DB, chapters []*types.Chapter) ([]*types.Chapter, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, chapterIDs []uuid.UUID) ([]*types.Chapter, error)
	GetByModuleAndSession(ctx context.Context, tx *gorm.DB, moduleID, sessionID uuid.UUID) ([]*types.Chapter, error)
	Update(ctx context.Context, tx *gorm.DB, chapter *types.Chapter) error
	SetOrderVersion(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID, version int64) error
}

type chapterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChapterRepo(db *gorm.DB, baseLog *logger.Logger) ChapterRepo {
	return &chapterRepo{db: db, log: baseLog.With("repo", "ChapterRepo")}
}

func (r *chapterRepo) Create(ctx context.Context, tx *gorm.DB, chapters []*types.Chapter) ([]*types.Chapter, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(chapters) == 0 {
		return []*types.Chapter{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&chapters).Error; err != nil {
		return nil, err
	}
	return chapters, nil
}

func (r *chapterRepo) GetByIDs(ctx context.Context, tx *gorm.DB, chapterIDs []uuid.UUID) ([]*types.Chapter, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Chapter
	if len(chapterIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", chapterIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *chapterRepo) GetByModuleAndSession(ctx context.Context, tx *gorm.DB, moduleID, sessionID uuid.UUID) ([]*types.Chapter, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Chapter
	query := transaction.WithContext(ctx).
		Where("module_id = ?", moduleID).
		Preload("Slides", func(db *gorm.DB) *gorm.DB {
			return db.Where("status <> ?", types.StatusDeleted).Order("slide_order ASC")
		}).
		Order("chapter_order ASC")
	if sessionID != uuid.Nil {
		query = query.Where("session_id = ?", sessionID)
	}

	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *chapterRepo) Update(ctx context.Context, tx *gorm.DB, chapter *types.Chapter) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).Save(chapter).Error
}

func (r *chapterRepo) SetOrderVersion(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID, version int64) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Chapter{}).
		Where("id = ?", chapterID).
		Update("order_version", version).Error
}
