package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Conceptual-Machines/magda-harmony/internal/database"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthCheck returns the health status of the API and its history backend.
// A configured but unreachable database degrades the status without
// failing the check, since theory and generation still work.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	historyStatus := "disabled"
	status := "healthy"

	if h.db != nil {
		historyStatus = "enabled"
		sqlDB, err := h.db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			historyStatus = "unreachable"
			status = "degraded"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": status,
		"history": gin.H{
			"status":  historyStatus,
			"backend": database.Backend(h.db),
		},
	})
}
