package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/magda-harmony/internal/metrics"
	"github.com/Conceptual-Machines/magda-harmony/internal/models"
	"github.com/Conceptual-Machines/magda-harmony/internal/theory"
)

const maxBatchSize = 128

type TheoryHandler struct {
	cw *metrics.Client
}

func NewTheoryHandler(cw *metrics.Client) *TheoryHandler {
	return &TheoryHandler{cw: cw}
}

// Key resolves a key name to its scales and diatonic chords
// GET /api/v1/theory/keys?name=D%20minor
func (h *TheoryHandler) Key(c *gin.Context) {
	key, err := theory.ResolveKey(c.Query("name"))
	if err != nil {
		respondError(c, "theory.keys", err, h.cw)
		return
	}
	c.JSON(http.StatusOK, key)
}

// Meter validates a time signature. Without spec it lists every supported one.
// GET /api/v1/theory/meters?spec=6/8
func (h *TheoryHandler) Meter(c *gin.Context) {
	spec, ok := c.GetQuery("spec")
	if !ok {
		meters := theory.SupportedMeters()
		out := make([]models.MeterResponse, len(meters))
		for i, m := range meters {
			out[i] = meterResponse(m)
		}
		c.JSON(http.StatusOK, gin.H{"meters": out})
		return
	}

	m, err := theory.ParseMeter(spec)
	if err != nil {
		respondError(c, "theory.meters", err, h.cw)
		return
	}
	c.JSON(http.StatusOK, meterResponse(m))
}

func meterResponse(m theory.Meter) models.MeterResponse {
	return models.MeterResponse{
		Beats:  m.Beats,
		Unit:   m.Unit,
		Kind:   string(m.Kind),
		Groups: m.Groups,
	}
}

// Chord resolves one Roman numeral
// POST /api/v1/theory/chords
func (h *TheoryHandler) Chord(c *gin.Context) {
	var req models.ChordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, "theory.chords", err, h.cw)
		return
	}

	info, err := theory.ResolveChord(req.Roman, req.Key)
	if err != nil {
		respondError(c, "theory.chords", err, h.cw)
		return
	}

	resp := models.ChordResponse{ChordInfo: info}
	if req.Extended {
		resp.Pool = theory.ExtendPool(info.Notes)
	}
	c.JSON(http.StatusOK, resp)
}

// ChordBatch resolves several numerals in one key. The first failure aborts
// the batch with its kind.
// POST /api/v1/theory/chords/batch
func (h *TheoryHandler) ChordBatch(c *gin.Context) {
	var req models.ChordBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, "theory.chords.batch", err, h.cw)
		return
	}
	if len(req.Romans) > maxBatchSize {
		respondError(c, "theory.chords.batch",
			fmt.Errorf("%w: at most %d numerals per batch", theory.ErrInvalidInput, maxBatchSize), h.cw)
		return
	}

	key, err := theory.ResolveKey(req.Key)
	if err != nil {
		respondError(c, "theory.chords.batch", err, h.cw)
		return
	}

	chords := make([]*theory.ChordInfo, len(req.Romans))
	for i, roman := range req.Romans {
		if chords[i], err = theory.ResolveChordInKey(roman, key); err != nil {
			respondError(c, "theory.chords.batch", fmt.Errorf("romans[%d] %q: %w", i, roman, err), h.cw)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"chords": chords})
}

// Pool extends MIDI notes over the keyboard range
// POST /api/v1/theory/pool
func (h *TheoryHandler) Pool(c *gin.Context) {
	var req models.PoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, "theory.pool", err, h.cw)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pool": theory.ExtendPool(req.Notes)})
}
