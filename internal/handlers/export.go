package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/studykit/studylib-backend/internal/services"
)

type ExportHandler struct {
	svc services.ExportService
}

func NewExportHandler(svc services.ExportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// POST /api/slides/:id/export-pdf
func (h *ExportHandler) ExportSlidePDF(c *gin.Context) {
	slideID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slide id"})
		return
	}

	result, err := h.svc.ExportSlidePDF(c.Request.Context(), nil, slideID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
