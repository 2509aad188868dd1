package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studykit/studylib-backend/internal/clients/gcp"
	"github.com/studykit/studylib-backend/internal/export"
	"github.com/studykit/studylib-backend/internal/logger"
	"github.com/studykit/studylib-backend/internal/repos"
	"github.com/studykit/studylib-backend/internal/requestdata"
	"github.com/studykit/studylib-backend/internal/types"
)

type ExportResult struct {
	FileKey    string `json:"file_key"`
	URL        string `json:"url"`
	TotalPages int    `json:"total_pages"`
}

// ExportService turns a document slide's HTML into a multi-page PDF and
// uploads it to object storage.
type ExportService interface {
	ExportSlidePDF(ctx context.Context, tx *gorm.DB, slideID uuid.UUID) (*ExportResult, error)
}

type exportService struct {
	db            *gorm.DB
	log           *logger.Logger
	slideRepo     repos.SlideRepo
	bucketService gcp.BucketService
}

func NewExportService(
	db *gorm.DB,
	baseLog *logger.Logger,
	slideRepo repos.SlideRepo,
	bucketService gcp.BucketService,
) ExportService {
	return &exportService{
		db:            db,
		log:           baseLog.With("service", "ExportService"),
		slideRepo:     slideRepo,
		bucketService: bucketService,
	}
}

func (s *exportService) ExportSlidePDF(ctx context.Context, tx *gorm.DB, slideID uuid.UUID) (*ExportResult, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.InstituteID == uuid.Nil {
		return nil, ErrNotAuthenticated
	}

	transaction := tx
	if transaction == nil {
		transaction = s.db
	}

	slides, err := s.slideRepo.GetByIDs(ctx, transaction, []uuid.UUID{slideID})
	if err != nil {
		return nil, err
	}
	if len(slides) == 0 || slides[0].InstituteID != rd.InstituteID {
		return nil, fmt.Errorf("slide %s: %w", slideID, ErrNotFound)
	}
	slide := slides[0]
	if slide.SourceType != types.SourceDocument {
		return nil, fmt.Errorf("slide %s is %s, only document slides export to PDF", slideID, slide.SourceType)
	}

	var data types.DocumentSlideData
	if err := json.Unmarshal(slide.Document, &data); err != nil {
		return nil, fmt.Errorf("decode document payload: %w", err)
	}
	// Export what end users see when a published copy exists, otherwise
	// the working draft.
	fragment := data.PublishedData
	if fragment == "" {
		fragment = data.Data
	}
	if fragment == "" {
		return nil, fmt.Errorf("slide %s has no document content", slideID)
	}

	pdfBytes, totalPages, err := export.RenderHTMLToPDF(fragment)
	if err != nil {
		s.log.Warn("ExportSlidePDF: render failed", "error", err, "slide_id", slideID)
		return nil, err
	}

	key := fmt.Sprintf("exports/%s/%s.pdf", rd.InstituteID, slideID)
	if s.bucketService == nil {
		return nil, fmt.Errorf("file storage not configured")
	}
	if err := s.bucketService.UploadFile(ctx, key, "application/pdf", bytes.NewReader(pdfBytes)); err != nil {
		s.log.Warn("ExportSlidePDF: upload failed", "error", err, "slide_id", slideID)
		return nil, err
	}

	return &ExportResult{
		FileKey:    key,
		URL:        s.bucketService.GetPublicURL(key),
		TotalPages: totalPages,
	}, nil
}
