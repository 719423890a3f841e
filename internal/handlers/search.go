package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/skillanthropy/skillanthropy-api/internal/dto"
	"github.com/skillanthropy/skillanthropy-api/internal/services"
)

type SearchHandler struct {
	searchService *services.SearchService
}

func NewSearchHandler(searchService *services.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Search runs a full-text query across the requested collections.
// collections is comma separated and defaults to all of them.
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	var collections []string
	if raw := c.Query("collections"); raw != "" {
		collections = strings.Split(raw, ",")
	}

	hits, err := h.searchService.Search(c.Request.Context(), query, collections)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "", dto.ToSearchResponse(query, hits))
}

// SearchMyApplications searches the tasks the session user applied to
func (h *SearchHandler) SearchMyApplications(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	query := c.Query("q")

	hits, err := h.searchService.SearchMyApplications(c.Request.Context(), userID, query)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "", dto.ToSearchResponse(query, hits))
}
