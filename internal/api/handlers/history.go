package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/magda-harmony/internal/metrics"
	"github.com/Conceptual-Machines/magda-harmony/internal/services"
	"github.com/Conceptual-Machines/magda-harmony/internal/theory"
)

type HistoryHandler struct {
	history *services.HistoryService
	cw      *metrics.Client
}

func NewHistoryHandler(history *services.HistoryService, cw *metrics.Client) *HistoryHandler {
	return &HistoryHandler{history: history, cw: cw}
}

// List returns the most recent generations
// GET /api/v1/generations?limit=20
func (h *HistoryHandler) List(c *gin.Context) {
	limit := services.DefaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, "generations", fmt.Errorf("%w: limit %q is not a number", theory.ErrInvalidInput, raw), h.cw)
			return
		}
		limit = n
	}

	records, err := h.history.List(c.Request.Context(), limit)
	if err != nil {
		respondError(c, "generations", err, h.cw)
		return
	}
	c.JSON(http.StatusOK, gin.H{"generations": records, "count": len(records)})
}
