package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xaenox/blacksea-bot/internal/models"
)

// Store is the read side the admin API exposes.
type Store interface {
	GetUser(ctx context.Context, userID int64) (*models.UserProfile, error)
	UserActivities(ctx context.Context, userID int64) ([]models.ActivityRecord, error)
	ListActivities(ctx context.Context) ([]models.ActivityRecord, error)
}

// NewServer wires the read-only admin endpoints. There is no authentication;
// bind addr to a private interface.
func NewServer(addr string, store Store, logger *zap.Logger) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           NewRouter(store, logger),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}

func NewRouter(store Store, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	h := &handler{store: store, logger: logger}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(logger),
		errorHandlingMiddleware(logger),
	)

	router.GET("/healthz", h.health)
	router.GET("/stats", h.stats)

	users := router.Group("/users")
	{
		users.GET("/:id", h.user)
		users.GET("/:id/actions", h.userActions)
	}

	return router
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("Admin request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
