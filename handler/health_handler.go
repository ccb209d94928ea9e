package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"main/services"
	"main/utils"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	db *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) GetHealth(c *gin.Context) {
	pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "up"
	if err := h.db.PingContext(pingCtx); err != nil {
		dbStatus = "down"
	}

	cacheStatus := "disabled"
	if services.GlobalSessionCache != nil {
		cacheStatus = "down"
		if services.GlobalSessionCache.IsConnected() {
			cacheStatus = "up"
		}
	}

	status := http.StatusOK
	if dbStatus == "down" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":    dbStatus,
		"database":  dbStatus,
		"cache":     cacheStatus,
		"cpu_usage": utils.GetCPUUsage(),
	})
}
