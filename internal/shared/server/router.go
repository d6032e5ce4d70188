package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gamepig/coach-rocks-ai-sub001/internal/bootstrap"
	"github.com/Gamepig/coach-rocks-ai-sub001/internal/services/health"
	"github.com/Gamepig/coach-rocks-ai-sub001/internal/shared/metrics"
	"github.com/Gamepig/coach-rocks-ai-sub001/internal/shared/server/middleware"
	"github.com/Gamepig/coach-rocks-ai-sub001/internal/shared/server/respond"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(app.Config.CORSAllowOrigin),
	)

	healthSvc := health.NewService(app.DB)
	r.GET("/health", func(c *gin.Context) {
		healthy, detail := healthSvc.Status(c.Request.Context())
		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, detail)
	})
	r.GET("/metrics", metrics.Handler())

	// Blunt per-user request guard in front of the submit-interval limiter
	// inside the service.
	apiLimiter := middleware.NewRateLimiter(middleware.RateLimitRule{Rate: 5, Burst: 10})

	api := r.Group("/api/v1")
	api.Use(middleware.Auth(), middleware.RateLimit(apiLimiter))
	registerMeRoutes(api)
	app.Handler.RegisterRoutes(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
