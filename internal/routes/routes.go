package routes

import (
	"html/template"
	"net/http"

	"starship-dashboard/internal/auth"
	"starship-dashboard/internal/database"
	"starship-dashboard/internal/handlers"
	"starship-dashboard/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Deps are what the router needs from the application.
type Deps struct {
	Handler   *handlers.Handler
	Tokens    *auth.TokenManager
	Store     *database.Store
	Templates *template.Template
	Logger    zerolog.Logger
	// AuthLimiter throttles login and registration attempts; nil disables it.
	AuthLimiter *middleware.RateLimiter
}

func SetupRoutes(d Deps) *gin.Engine {
	// Create a new GIN Router
	ginRouter := gin.New()
	ginRouter.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(d.Logger),
		middleware.Metrics(),
	)
	ginRouter.SetHTMLTemplate(d.Templates)

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		if err := d.Store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unavailable",
				"message": "database unreachable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Starship dashboard is running",
		})
	})
	ginRouter.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := d.Handler

	// Public routes (no session required)
	ginRouter.GET("/", h.Index)
	ginRouter.GET("/register", h.RegisterForm)
	ginRouter.POST("/register", middleware.RateLimit(d.AuthLimiter), h.Register)
	ginRouter.GET("/login", h.LoginForm)
	ginRouter.POST("/login", middleware.RateLimit(d.AuthLimiter), h.Login)

	// Protected routes (session required)
	protectedRoutes := ginRouter.Group("")
	protectedRoutes.Use(middleware.RequireSession(d.Tokens))
	{
		protectedRoutes.GET("/logout", h.Logout)
		protectedRoutes.GET("/dashboard", h.Dashboard)
		protectedRoutes.POST("/dashboard", h.FilterDashboard)
	}

	return ginRouter
}
