package modules

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// HealthModule exposes a liveness probe over the backing stores.
type HealthModule struct {
	Pool  *pgxpool.Pool
	Redis *redis.Client
}

func NewHealthModule(pool *pgxpool.Pool, rdb *redis.Client) *HealthModule {
	return &HealthModule{Pool: pool, Redis: rdb}
}

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/healthz", m.check)
}

func (m *HealthModule) check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	components := gin.H{}

	if m.Pool != nil {
		if err := m.Pool.Ping(ctx); err != nil {
			components["postgres"] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			components["postgres"] = "ok"
		}
	}
	if m.Redis != nil {
		if err := m.Redis.Ping(ctx).Err(); err != nil {
			components["redis"] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			components["redis"] = "ok"
		}
	}

	c.JSON(status, components)
}
