package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studykit/studylib-backend/internal/logger"
	"github.com/studykit/studylib-backend/internal/repos"
	"github.com/studykit/studylib-backend/internal/requestdata"
	"github.com/studykit/studylib-backend/internal/types"
)

type SearchService interface {
	SearchEntities(ctx context.Context, tx *gorm.DB, pageNo, pageSize int, req types.FilterRequest) (*types.PageResponse, error)
}

type searchService struct {
	db         *gorm.DB
	log        *logger.Logger
	entityRepo repos.EntityRepo
}

func NewSearchService(db *gorm.DB, baseLog *logger.Logger, entityRepo repos.EntityRepo) SearchService {
	return &searchService{
		db:         db,
		log:        baseLog.With("service", "SearchService"),
		entityRepo: entityRepo,
	}
}

func (s *searchService) SearchEntities(ctx context.Context, tx *gorm.DB, pageNo, pageSize int, req types.FilterRequest) (*types.PageResponse, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.InstituteID == uuid.Nil {
		return nil, ErrNotAuthenticated
	}

	transaction := tx
	if transaction == nil {
		transaction = s.db
	}

	page, err := s.entityRepo.Search(ctx, transaction, rd.InstituteID, req, pageNo, pageSize)
	if err != nil {
		s.log.Warn("SearchEntities: query failed", "error", err, "type", req.Type)
		return nil, err
	}
	return page, nil
}
