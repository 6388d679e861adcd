package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lexcal-dev/lexcal/internal/handlers"
	"github.com/lexcal-dev/lexcal/internal/middleware"
	"github.com/lexcal-dev/lexcal/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/:matter_id", middleware.AuthMiddleware(), handlers.WebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.CreateUser)
			auth.POST("/login", handlers.LoginUser)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		rulesets := api.Group("/rulesets", middleware.AuthMiddleware())
		{
			rulesets.POST("", handlers.CreateRuleSet)
			rulesets.GET("", handlers.ListRuleSets)
			rulesets.POST("/seed-default", handlers.SeedDefaultRuleSet)
			rulesets.POST("/:ruleset_id/rules", handlers.CreateRule)
			rulesets.POST("/:ruleset_id/deactivate", handlers.DeactivateRuleSet)
		}

		rules := api.Group("/rules", middleware.AuthMiddleware())
		{
			rules.PATCH("/:rule_id", handlers.UpdateRule)
			rules.DELETE("/:rule_id", handlers.DeleteRule)
		}

		matters := api.Group("/matters", middleware.AuthMiddleware())
		{
			matters.POST("", handlers.CreateMatter)
			matters.GET("", handlers.ListMatters)
			matters.PATCH("/:matter_id", handlers.UpdateMatter)
			matters.DELETE("/:matter_id", handlers.DeleteMatter)

			// Dashboard endpoint
			matters.GET("/:matter_id/dashboard", handlers.GetDashboard)

			// Deadline engine endpoints
			matters.POST("/:matter_id/apply-ruleset", handlers.ApplyRuleSet)
			matters.POST("/:matter_id/triggers", handlers.SetTrigger)
			matters.GET("/:matter_id/triggers", handlers.ListTriggers)
			matters.GET("/:matter_id/deadlines", handlers.ListDeadlines)

			// SOL endpoints
			matters.POST("/:matter_id/sol", handlers.CreateSOL)
			matters.GET("/:matter_id/sol", handlers.ListSOL)
		}

		triggers := api.Group("/triggers", middleware.AuthMiddleware())
		{
			triggers.DELETE("/:trigger_id", handlers.DeleteTrigger)
		}

		sol := api.Group("/sol", middleware.AuthMiddleware())
		{
			sol.GET("/warnings", handlers.GetSOLWarnings)
			sol.PATCH("/:sol_id", handlers.UpdateSOL)
			sol.DELETE("/:sol_id", handlers.DeleteSOL)
		}
	}

	return r
}
