package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/magda-harmony/internal/config"
	"github.com/Conceptual-Machines/magda-harmony/internal/theory"
)

const bytesToMB = 1024 * 1024

type MetricsHandler struct {
	startTime      time.Time
	version        string
	engine         EngineInfo
	historyEnabled bool
}

// EngineInfo describes the limits and vocabulary the engine serves.
type EngineInfo struct {
	Meters            []string `json:"meters"`
	DefaultComplexity int      `json:"default_complexity"`
	MaxMeasures       int      `json:"max_measures"`
	PreviewTempo      float64  `json:"preview_tempo"`
	History           bool     `json:"history"`
}

type MetricsResponse struct {
	Status    string        `json:"status"`
	Uptime    string        `json:"uptime"`
	Timestamp string        `json:"timestamp"`
	Version   string        `json:"version"`
	StartTime string        `json:"start_time"`
	System    SystemMetrics `json:"system"`
	Engine    EngineInfo    `json:"engine"`
}

type SystemMetrics struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	MemAllocMB   uint64 `json:"mem_alloc_mb"`
	NumGC        uint32 `json:"num_gc"`
}

func NewMetricsHandler(version string, cfg *config.Config, historyEnabled bool) *MetricsHandler {
	supported := theory.SupportedMeters()
	meters := make([]string, len(supported))
	for i, m := range supported {
		meters[i] = m.String()
	}

	return &MetricsHandler{
		startTime: time.Now(),
		version:   version,
		engine: EngineInfo{
			Meters:            meters,
			DefaultComplexity: cfg.DefaultComplexity,
			MaxMeasures:       cfg.MaxMeasures,
			PreviewTempo:      cfg.PreviewTempo,
			History:           historyEnabled,
		},
	}
}

// GetMetrics reports uptime, runtime stats and engine limits
// GET /api/metrics
func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	c.JSON(http.StatusOK, MetricsResponse{
		Status:    "healthy",
		Uptime:    time.Since(h.startTime).Round(10 * time.Millisecond).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
		StartTime: h.startTime.UTC().Format(time.RFC3339),
		System: SystemMetrics{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
			MemAllocMB:   m.Alloc / bytesToMB,
			NumGC:        m.NumGC,
		},
		Engine: h.engine,
	})
}
