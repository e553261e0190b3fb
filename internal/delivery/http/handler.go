package http

import (
	"errors"
	"net/http"

	"github.com/Tushar-Bhat65/WorthIt/internal/domain"
	"github.com/Tushar-Bhat65/WorthIt/internal/usecase"
	"github.com/gin-gonic/gin"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	search *usecase.SearchService
}

// NewHandler creates a new HTTP handler
func NewHandler(search *usecase.SearchService) *Handler {
	return &Handler{search: search}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "worthit",
		"version": "1.0.0",
	})
}

// StartSearch begins a fresh comparison search. Validation failures are
// reported per field; a new search always supersedes any running one.
func (h *Handler) StartSearch(c *gin.Context) {
	var req domain.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.search.StartSearch(req.Query, req.ReferencePrice); err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingQuery), errors.Is(err, domain.ErrMissingPrice):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "searching"})
}

// RequestMore starts the supplementary "more results" polling phase
func (h *Handler) RequestMore(c *gin.Context) {
	if err := h.search.RequestMore(); err != nil {
		switch {
		case errors.Is(err, domain.ErrPollInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrNoSearch):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "loading"})
}

// AcknowledgeOverlay records that the presentation observed the overlay
// hidden, interrupting any still-running splash sequence.
func (h *Handler) AcknowledgeOverlay(c *gin.Context) {
	h.search.AcknowledgeOverlayHidden()
	c.Status(http.StatusNoContent)
}

// GetResults returns the current observable state: rows, score, loading
// flags, and overlay stage.
func (h *Handler) GetResults(c *gin.Context) {
	c.JSON(http.StatusOK, h.search.Snapshot())
}
