package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/magda-harmony/internal/config"
	"github.com/Conceptual-Machines/magda-harmony/internal/generation"
	"github.com/Conceptual-Machines/magda-harmony/internal/logger"
	"github.com/Conceptual-Machines/magda-harmony/internal/metrics"
	"github.com/Conceptual-Machines/magda-harmony/internal/models"
	"github.com/Conceptual-Machines/magda-harmony/internal/preview"
	"github.com/Conceptual-Machines/magda-harmony/internal/services"
	"github.com/Conceptual-Machines/magda-harmony/internal/theory"
)

const (
	defaultPreviewMeasures = 4
	previewTimeoutSecs     = 10
	seedHeader             = "X-Generation-Seed"
)

type GenerationHandler struct {
	cfg     *config.Config
	history *services.HistoryService
	cw      *metrics.Client
}

func NewGenerationHandler(cfg *config.Config, history *services.HistoryService, cw *metrics.Client) *GenerationHandler {
	return &GenerationHandler{
		cfg:     cfg,
		history: history,
		cw:      cw,
	}
}

// newGenerator honours a requested seed so results can be reproduced
func newGenerator(seed *uint64) *generation.Generator {
	if seed != nil {
		return generation.NewGenerator(*seed)
	}
	return generation.NewRandomGenerator()
}

func (h *GenerationHandler) complexity(requested *int) int {
	if requested != nil {
		return *requested
	}
	return h.cfg.DefaultComplexity
}

func (h *GenerationHandler) checkMeasures(measures int) error {
	if measures < 0 {
		return fmt.Errorf("%w: measures must not be negative", theory.ErrInvalidInput)
	}
	return h.checkMaxMeasures(measures)
}

func (h *GenerationHandler) checkMaxMeasures(measures int) error {
	if measures > h.cfg.MaxMeasures {
		return fmt.Errorf("%w: at most %d measures per request", theory.ErrInvalidInput, h.cfg.MaxMeasures)
	}
	return nil
}

// finish records duration metrics and, on success, the history entry
func (h *GenerationHandler) finish(c *gin.Context, kind string, start time.Time, err error, params services.RecordParams, result any) {
	duration := time.Since(start)
	ctx := c.Request.Context()
	sentryMetrics.RecordGenerationDuration(ctx, kind, duration, err == nil)
	h.cw.RecordGenerationDuration(kind, duration, err == nil)
	if err != nil {
		return
	}

	fields := logger.WithContext(c)
	fields["key"] = params.Key
	fields["meter"] = params.Meter
	logger.LogGenerationRequest(ctx, kind, params.Seed, duration, fields)

	rec, err := services.NewRecord(kind, params, result)
	if err == nil {
		err = h.history.Record(ctx, rec)
	}
	if err != nil {
		logger.Warn("Failed to record generation", logger.Fields{
			"request_id": c.GetString("request_id"),
			"kind":       kind,
			"error":      err.Error(),
		})
	}
}

// Progression generates a Roman numeral progression
// POST /api/v1/generate/progression
func (h *GenerationHandler) Progression(c *gin.Context) {
	var req models.ProgressionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, "generate.progression", err, h.cw)
		return
	}
	// a non-positive count is an empty progression, not an error
	if err := h.checkMaxMeasures(req.Measures); err != nil {
		respondError(c, "generate.progression", err, h.cw)
		return
	}

	start := time.Now()
	g := newGenerator(req.Seed)
	complexity := h.complexity(req.Complexity)

	resp := models.ProgressionResponse{Seed: g.Seed()}
	var err error
	resp.Progression, err = g.Progression(req.Key, req.Measures, complexity)
	if err == nil && req.Resolve {
		resp.Chords, err = generation.Realize(req.Key, resp.Progression)
	}

	params := services.RecordParams{Key: req.Key, Measures: req.Measures, Complexity: complexity, Seed: g.Seed()}
	h.finish(c, models.KindProgression, start, err, params, resp.Progression)
	if err != nil {
		respondError(c, "generate.progression", err, h.cw)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Rhythm generates one rhythm per measure
// POST /api/v1/generate/rhythm
func (h *GenerationHandler) Rhythm(c *gin.Context) {
	var req models.RhythmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, "generate.rhythm", err, h.cw)
		return
	}
	measures := req.Measures
	if measures == 0 {
		measures = 1
	}
	if err := h.checkMeasures(measures); err != nil {
		respondError(c, "generate.rhythm", err, h.cw)
		return
	}

	start := time.Now()
	g := newGenerator(req.Seed)
	complexity := h.complexity(req.Complexity)

	rhythms, err := g.Rhythms(req.Meter, complexity, measures)
	params := services.RecordParams{Meter: req.Meter, Measures: measures, Complexity: complexity, Seed: g.Seed()}
	h.finish(c, models.KindRhythm, start, err, params, rhythms)
	if err != nil {
		respondError(c, "generate.rhythm", err, h.cw)
		return
	}

	c.JSON(http.StatusOK, models.RhythmResponse{Measures: rhythms, Seed: g.Seed()})
}

// Preview renders a generated progression and rhythm as a MIDI file
// POST /api/v1/generate/preview
func (h *GenerationHandler) Preview(c *gin.Context) {
	var req models.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, "generate.preview", err, h.cw)
		return
	}
	measures := req.Measures
	if measures == 0 {
		measures = defaultPreviewMeasures
	}
	if err := h.checkMeasures(measures); err != nil {
		respondError(c, "generate.preview", err, h.cw)
		return
	}
	tempo := req.Tempo
	if tempo <= 0 {
		tempo = h.cfg.PreviewTempo
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), previewTimeoutSecs*time.Second)
	defer cancel()

	start := time.Now()
	g := newGenerator(req.Seed)
	complexity := h.complexity(req.Complexity)

	var data []byte
	comp, err := preview.Compose(g, preview.Request{
		Key:        req.Key,
		Meter:      req.Meter,
		Measures:   measures,
		Complexity: complexity,
		Tempo:      tempo,
	})
	if err == nil {
		data, err = preview.Render(ctx, comp.Input)
	}

	params := services.RecordParams{Key: req.Key, Meter: req.Meter, Measures: measures, Complexity: complexity, Seed: g.Seed()}
	var progression []string
	if comp != nil {
		progression = comp.Progression
	}
	h.finish(c, models.KindPreview, start, err, params, progression)
	if err != nil {
		respondError(c, "generate.preview", err, h.cw)
		return
	}

	c.Header(seedHeader, strconv.FormatUint(g.Seed(), 10))
	c.Header("Content-Disposition", `attachment; filename="preview.mid"`)
	c.Data(http.StatusOK, "audio/midi", data)
}
