package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studykit/studylib-backend/internal/logger"
	"github.com/studykit/studylib-backend/internal/repos"
	"github.com/studykit/studylib-backend/internal/requestdata"
	"github.com/studykit/studylib-backend/internal/types"
)

type ChapterService interface {
	ListChaptersWithSlides(ctx context.Context, tx *gorm.DB, moduleID, sessionID uuid.UUID) ([]*types.Chapter, error)
	GetSlidesByChapter(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID) ([]*types.Slide, error)
}

type chapterService struct {
	db          *gorm.DB
	log         *logger.Logger
	chapterRepo repos.ChapterRepo
	slideRepo   repos.SlideRepo
}

func NewChapterService(
	db *gorm.DB,
	baseLog *logger.Logger,
	chapterRepo repos.ChapterRepo,
	slideRepo repos.SlideRepo,
) ChapterService {
	return &chapterService{
		db:          db,
		log:         baseLog.With("service", "ChapterService"),
		chapterRepo: chapterRepo,
		slideRepo:   slideRepo,
	}
}

func (s *chapterService) ListChaptersWithSlides(ctx context.Context, tx *gorm.DB, moduleID, sessionID uuid.UUID) ([]*types.Chapter, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.InstituteID == uuid.Nil {
		return nil, ErrNotAuthenticated
	}
	if moduleID == uuid.Nil {
		return nil, fmt.Errorf("missing module id")
	}

	transaction := tx
	if transaction == nil {
		transaction = s.db
	}

	chapters, err := s.chapterRepo.GetByModuleAndSession(ctx, transaction, moduleID, sessionID)
	if err != nil {
		s.log.Warn("ListChaptersWithSlides: load failed", "error", err, "module_id", moduleID)
		return nil, err
	}

	scoped := chapters[:0]
	for _, ch := range chapters {
		if ch.InstituteID == rd.InstituteID {
			scoped = append(scoped, ch)
		}
	}
	return scoped, nil
}

func (s *chapterService) GetSlidesByChapter(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID) ([]*types.Slide, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.InstituteID == uuid.Nil {
		return nil, ErrNotAuthenticated
	}
	if chapterID == uuid.Nil {
		return nil, fmt.Errorf("missing chapter id")
	}

	transaction := tx
	if transaction == nil {
		transaction = s.db
	}

	chapters, err := s.chapterRepo.GetByIDs(ctx, transaction, []uuid.UUID{chapterID})
	if err != nil {
		return nil, err
	}
	if len(chapters) == 0 || chapters[0].InstituteID != rd.InstituteID {
		return nil, fmt.Errorf("chapter %s: %w", chapterID, ErrNotFound)
	}

	slides, err := s.slideRepo.GetByChapterID(ctx, transaction, chapterID, false)
	if err != nil {
		s.log.Warn("GetSlidesByChapter: load slides failed", "error", err, "chapter_id", chapterID)
		return nil, err
	}
	return slides, nil
}
