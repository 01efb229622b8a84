package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/magda-harmony/internal/config"
	"github.com/Conceptual-Machines/magda-harmony/internal/dsl"
	"github.com/Conceptual-Machines/magda-harmony/internal/logger"
	"github.com/Conceptual-Machines/magda-harmony/internal/metrics"
	"github.com/Conceptual-Machines/magda-harmony/internal/models"
	"github.com/Conceptual-Machines/magda-harmony/internal/services"
)

type DSLHandler struct {
	cfg     *config.Config
	history *services.HistoryService
	cw      *metrics.Client
}

func NewDSLHandler(cfg *config.Config, history *services.HistoryService, cw *metrics.Client) *DSLHandler {
	return &DSLHandler{
		cfg:     cfg,
		history: history,
		cw:      cw,
	}
}

// Execute runs a Harmony DSL script
// POST /api/v1/dsl
func (h *DSLHandler) Execute(c *gin.Context) {
	var req models.DSLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, "dsl", err, h.cw)
		return
	}

	// A parser holds per-script state, so each request gets its own
	parser, err := dsl.NewHarmonyDSLParser(newGenerator(req.Seed), dsl.Options{
		DefaultComplexity: h.cfg.DefaultComplexity,
		MaxMeasures:       h.cfg.MaxMeasures,
	})
	if err != nil {
		respondError(c, "dsl", err, h.cw)
		return
	}

	fields := logger.WithContext(c)
	fields["dsl"] = req.DSL
	logger.Debug("Executing Harmony DSL", fields)

	start := time.Now()
	actions, err := parser.ParseDSL(c.Request.Context(), req.DSL)
	duration := time.Since(start)
	sentryMetrics.RecordGenerationDuration(c.Request.Context(), models.KindDSL, duration, err == nil)
	h.cw.RecordGenerationDuration(models.KindDSL, duration, err == nil)
	if err != nil {
		respondError(c, "dsl", err, h.cw)
		return
	}

	resp := models.DSLResponse{Actions: actions, Seed: parser.Seed()}
	rec, err := services.NewRecord(models.KindDSL, services.RecordParams{Seed: parser.Seed()}, resp)
	if err == nil {
		err = h.history.Record(c.Request.Context(), rec)
	}
	if err != nil {
		logger.Warn("Failed to record DSL run", logger.Fields{
			"request_id": c.GetString("request_id"),
			"error":      err.Error(),
		})
	}

	c.JSON(http.StatusOK, resp)
}
