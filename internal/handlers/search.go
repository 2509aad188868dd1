package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/studykit/studylib-backend/internal/search"
	"github.com/studykit/studylib-backend/internal/services"
	"github.com/studykit/studylib-backend/internal/types"
)

type SearchHandler struct {
	searchSvc  services.SearchService
	catalogSvc services.CatalogService
}

func NewSearchHandler(searchSvc services.SearchService, catalogSvc services.CatalogService) *SearchHandler {
	return &SearchHandler{searchSvc: searchSvc, catalogSvc: catalogSvc}
}

// searchBody accepts either a pre-assembled FilterRequest or the raw
// facet selection; a present selection wins and is flattened through the
// fixed facet ordering.
type searchBody struct {
	Type      types.EntityType  `json:"type"`
	Name      string            `json:"name"`
	Tags      []types.Tag       `json:"tags,omitempty"`
	Selection *search.Selection `json:"selection,omitempty"`
}

// POST /api/search/entities?page_no=&page_size=
func (h *SearchHandler) SearchEntities(c *gin.Context) {
	var body searchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	pageNo, _ := strconv.Atoi(c.DefaultQuery("page_no", "0"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	req := types.FilterRequest{Type: string(body.Type), Name: body.Name, Tags: body.Tags}
	if body.Selection != nil {
		req = search.BuildFilterRequest(body.Type, body.Name, *body.Selection)
	}

	page, err := h.searchSvc.SearchEntities(c.Request.Context(), nil, pageNo, pageSize, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/search/filter-options
func (h *SearchHandler) FilterOptions(c *gin.Context) {
	catalog, err := h.catalogSvc.Options(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalog)
}
