package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/studykit/studylib-backend/internal/services"
)

type ChapterHandler struct {
	svc services.ChapterService
}

func NewChapterHandler(svc services.ChapterService) *ChapterHandler {
	return &ChapterHandler{svc: svc}
}

// GET /api/modules/:id/chapters?session_id=
func (h *ChapterHandler) ListChaptersWithSlides(c *gin.Context) {
	moduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid module id"})
		return
	}
	sessionID := uuid.Nil
	if raw := c.Query("session_id"); raw != "" {
		sessionID, err = uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
			return
		}
	}

	chapters, err := h.svc.ListChaptersWithSlides(c.Request.Context(), nil, moduleID, sessionID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"chapters": chapters})
}

// GET /api/chapters/:id/slides
func (h *ChapterHandler) GetSlidesByChapter(c *gin.Context) {
	chapterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chapter id"})
		return
	}

	slides, err := h.svc.GetSlidesByChapter(c.Request.Context(), nil, chapterID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slides": slides})
}
