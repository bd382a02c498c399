package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthHandler reports service and database liveness
type HealthHandler struct {
	db *gorm.DB
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

type databaseHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

type healthStatus struct {
	Status   string         `json:"status"`
	Database databaseHealth `json:"database"`
}

// Check handles GET /healthcheck
func (h *HealthHandler) Check(c *gin.Context) {
	dbHealth := h.checkDatabase(c.Request.Context())

	status := healthStatus{Status: "healthy", Database: dbHealth}
	code := http.StatusOK
	if dbHealth.Status != "healthy" {
		status.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}

func (h *HealthHandler) checkDatabase(parent context.Context) databaseHealth {
	ctx, cancel := context.WithTimeout(parent, 2*time.Second)
	defer cancel()

	start := time.Now()
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return databaseHealth{Status: "unhealthy", ResponseTime: responseTime}
	}
	return databaseHealth{Status: "healthy", ResponseTime: responseTime}
}
