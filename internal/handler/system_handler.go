package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/quizora/quizora-backend/internal/response"
	"github.com/quizora/quizora-backend/internal/websocket"
)

// SystemHandler handles health endpoints.
type SystemHandler struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	hub  *websocket.Hub
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(pool *pgxpool.Pool, rdb *redis.Client, hub *websocket.Hub) *SystemHandler {
	return &SystemHandler{pool: pool, rdb: rdb, hub: hub}
}

// Health godoc
// GET /health
// Reports liveness of the process and its backing stores.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	status := http.StatusOK
	checks := gin.H{"postgres": "ok", "redis": "ok"}

	if err := h.pool.Ping(ctx); err != nil {
		checks["postgres"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	if err := h.rdb.Ping(ctx).Err(); err != nil {
		checks["redis"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	response.Success(c, status, gin.H{
		"status":     checks,
		"ws_clients": h.hub.Count(),
	})
}
