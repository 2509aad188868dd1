package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studykit/studylib-backend/internal/services"
	"github.com/studykit/studylib-backend/internal/types"
)

type SlideHandler struct {
	svc services.SlideService
}

func NewSlideHandler(svc services.SlideService) *SlideHandler {
	return &SlideHandler{svc: svc}
}

// POST /api/chapters/:id/document-slide
func (h *SlideHandler) AddOrUpdateDocumentSlide(c *gin.Context) {
	h.addOrUpdate(c, types.SourceDocument)
}

// POST /api/chapters/:id/video-slide
func (h *SlideHandler) AddOrUpdateVideoSlide(c *gin.Context) {
	h.addOrUpdate(c, types.SourceVideo)
}

// POST /api/chapters/:id/slide, shared by question and assignment kinds.
func (h *SlideHandler) AddOrUpdateWrapperSlide(c *gin.Context) {
	var req services.AddUpdateSlideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if req.SourceType != types.SourceQuestion && req.SourceType != types.SourceAssignment {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source_type must be QUESTION or ASSIGNMENT"})
		return
	}
	h.submit(c, req)
}

func (h *SlideHandler) addOrUpdate(c *gin.Context, kind types.SourceType) {
	var req services.AddUpdateSlideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	req.SourceType = kind
	h.submit(c, req)
}

func (h *SlideHandler) submit(c *gin.Context, req services.AddUpdateSlideRequest) {
	chapterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chapter id"})
		return
	}

	slide, err := h.svc.AddOrUpdateSlide(c.Request.Context(), nil, chapterID, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slide": slide})
}

// PUT /api/chapters/:id/slides/:slideId/status
func (h *SlideHandler) UpdateStatus(c *gin.Context) {
	chapterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chapter id"})
		return
	}
	slideID, err := uuid.Parse(c.Param("slideId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slide id"})
		return
	}
	var req services.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	slide, err := h.svc.UpdateStatus(c.Request.Context(), nil, chapterID, slideID, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slide": slide})
}

// PUT /api/chapters/:id/slide-order
func (h *SlideHandler) UpdateOrder(c *gin.Context) {
	chapterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chapter id"})
		return
	}
	var req services.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	if err := h.svc.UpdateOrder(c.Request.Context(), nil, chapterID, req); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// PUT /api/chapters/:id/reorder
func (h *SlideHandler) ReorderSlide(c *gin.Context) {
	chapterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chapter id"})
		return
	}
	var req struct {
		OldIndex int `json:"old_index"`
		NewIndex int `json:"new_index"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	orders, err := h.svc.ReorderSlide(c.Request.Context(), nil, chapterID, req.OldIndex, req.NewIndex)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slide_orders": orders})
}

type copyMoveRequest struct {
	SourceChapterID      uuid.UUID `json:"source_chapter_id"`
	DestinationChapterID uuid.UUID `json:"destination_chapter_id"`
}

// POST /api/slides/:id/copy
func (h *SlideHandler) CopySlide(c *gin.Context) {
	h.copyOrMove(c, h.svc.CopySlide)
}

// POST /api/slides/:id/move
func (h *SlideHandler) MoveSlide(c *gin.Context) {
	h.copyOrMove(c, h.svc.MoveSlide)
}

type copyMoveOp func(ctx context.Context, tx *gorm.DB, slideID, srcChapterID, dstChapterID uuid.UUID) (*types.Slide, error)

func (h *SlideHandler) copyOrMove(c *gin.Context, op copyMoveOp) {
	slideID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slide id"})
		return
	}
	var req copyMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if req.SourceChapterID == uuid.Nil || req.DestinationChapterID == uuid.Nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing chapter ids"})
		return
	}

	slide, err := op(c.Request.Context(), nil, slideID, req.SourceChapterID, req.DestinationChapterID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slide": slide})
}
