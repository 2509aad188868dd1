package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studykit/studylib-backend/internal/logger"
	"github.com/studykit/studylib-backend/internal/types"
)

type EntityRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entities []*types.Entity) ([]*types.Entity, error)
	Search(ctx context.Context, tx *gorm.DB, instituteID uuid.UUID, req types.FilterRequest, pageNo, pageSize int) (*types.PageResponse, error)
}

type entityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEntityRepo(db *gorm.DB, baseLog *logger.Logger) EntityRepo {
	return &entityRepo{db: db, log: baseLog.With("repo", "EntityRepo")}
}

func (r *entityRepo) Create(ctx context.Context, tx *gorm.DB, entities []*types.Entity) ([]*types.Entity, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(entities) == 0 {
		return []*types.Entity{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// Search runs the faceted query: entity type, optional name substring,
// and any-match on the assembled tag list. Results are paginated.
func (r *entityRepo) Search(ctx context.Context, tx *gorm.DB, instituteID uuid.UUID, req types.FilterRequest, pageNo, pageSize int) (*types.PageResponse, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if pageNo < 0 {
		pageNo = 0
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	query := transaction.WithContext(ctx).
		Model(&types.Entity{}).
		Where("entity.institute_id = ?", instituteID)
	if req.Type != "" {
		query = query.Where("entity.entity_type = ?", req.Type)
	}
	if req.Name != "" {
		query = query.Where("entity.name LIKE ?", "%"+req.Name+"%")
	}
	if len(req.Tags) > 0 {
		tagIDs := make([]string, 0, len(req.Tags))
		for _, t := range req.Tags {
			tagIDs = append(tagIDs, t.TagID)
		}
		query = query.
			Joins("JOIN entity_tag ON entity_tag.entity_id = entity.id").
			Where("entity_tag.tag_id IN ?", tagIDs).
			Distinct("entity.*")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var content []*types.Entity
	if err := query.
		Preload("Tags").
		Order("entity.created_at DESC").
		Offset(pageNo * pageSize).
		Limit(pageSize).
		Find(&content).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &types.PageResponse{
		Content:       content,
		PageNo:        pageNo,
		PageSize:      pageSize,
		TotalElements: total,
		TotalPages:    totalPages,
		Last:          pageNo >= totalPages-1,
	}, nil
}
