package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cv-matcher/internal/resumes"
	"cv-matcher/internal/services/health"
	"cv-matcher/internal/shared/auth"
	"cv-matcher/internal/shared/config"
	"cv-matcher/internal/shared/metrics"
	"cv-matcher/internal/shared/server/middleware"
	"cv-matcher/internal/shared/server/respond"
	"cv-matcher/internal/users"
)

// RouterDeps contains handlers and shared dependencies for the router.
type RouterDeps struct {
	Config        config.Config
	Verifier      *auth.Verifier
	Health        *health.Service
	UserHandler   *users.Handler
	ResumeHandler *resumes.Handler
	RateLimiter   *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.AllowedOrigins()),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		status, ok := deps.Health.Status(c.Request.Context())
		code := http.StatusOK
		if !ok {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})

	authed := api.Group("")
	authed.Use(middleware.Auth(middleware.AuthConfig{
		Verifier:    deps.Verifier,
		AllowGuests: deps.Config.DevLike(),
	}))
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(authed)
	}
	if deps.ResumeHandler != nil {
		var limits []gin.HandlerFunc
		if n := deps.Config.UploadRatePerMinute; n > 0 {
			limits = append(limits, middleware.RateLimit("resume_upload", middleware.PerMinute(n), deps.RateLimiter))
		}
		deps.ResumeHandler.RegisterRoutes(authed, limits...)
	}

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
