package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/mealpersona-backend/internal/http/handlers"
	httpMW "github.com/yungbote/mealpersona-backend/internal/http/middleware"
	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string

	AuthMiddleware  *httpMW.AuthMiddleware
	AdminMiddleware *httpMW.AdminMiddleware

	HealthHandler    *httpH.HealthHandler
	UserHandler      *httpH.UserHandler
	ChallengeHandler *httpH.ChallengeHandler
	PersonaHandler   *httpH.PersonaHandler
	TagHandler       *httpH.TagHandler
	WebhookHandler   *httpH.WebhookHandler
	AdminAuthHandler *httpH.AdminAuthHandler
	AdminHandler     *httpH.AdminHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.AttachRequestContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}

	api := r.Group("/api")
	{
		// Identity provider webhooks (signature checked in the service)
		if cfg.WebhookHandler != nil {
			api.POST("/webhooks/clerk", cfg.WebhookHandler.IdentityEvent)
		}

		// Tag catalogue (public)
		if cfg.TagHandler != nil {
			api.GET("/tags", cfg.TagHandler.ListTags)
		}

		// Admin auth (public)
		if cfg.AdminAuthHandler != nil {
			api.POST("/admin/login", cfg.AdminAuthHandler.Login)
			api.POST("/admin/logout", cfg.AdminAuthHandler.Logout)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
		}

		// Challenges
		if cfg.ChallengeHandler != nil {
			protected.POST("/challenges", cfg.ChallengeHandler.Start)
			protected.GET("/challenges", cfg.ChallengeHandler.History)
			protected.GET("/challenges/active", cfg.ChallengeHandler.Active)
			protected.GET("/challenges/active/eligibility", cfg.ChallengeHandler.Eligibility)
			protected.POST("/challenges/active/meals", cfg.ChallengeHandler.AddMeal)
			protected.POST("/challenges/active/complete", cfg.ChallengeHandler.Complete)
			protected.POST("/challenges/active/abandon", cfg.ChallengeHandler.Abandon)
		}

		// Personas
		if cfg.PersonaHandler != nil {
			protected.GET("/personas/latest", cfg.PersonaHandler.Latest)
			protected.GET("/personas", cfg.PersonaHandler.List)
			protected.GET("/personas/:id", cfg.PersonaHandler.Get)
		}
	}

	admin := api.Group("/admin")
	{
		if cfg.AdminMiddleware != nil {
			admin.Use(cfg.AdminMiddleware.RequireAdmin())
		}

		if cfg.AdminAuthHandler != nil {
			admin.GET("/me", cfg.AdminAuthHandler.Me)
		}

		if h := cfg.AdminHandler; h != nil {
			admin.GET("/dashboard", h.Dashboard)

			admin.GET("/tags", h.ListTags)
			admin.POST("/tags", h.CreateTag)
			admin.GET("/tags/:id", h.GetTag)
			admin.PATCH("/tags/:id", h.UpdateTag)
			admin.DELETE("/tags/:id", h.DeleteTag)

			admin.GET("/users", h.ListUsers)
			admin.GET("/users/:id", h.GetUser)
			admin.DELETE("/users/:id", h.DeleteUser)

			admin.GET("/challenges", h.ListChallenges)
			admin.GET("/challenges/:id", h.GetChallenge)
			admin.PATCH("/challenges/:id", h.UpdateChallenge)
			admin.DELETE("/challenges/:id", h.DeleteChallenge)

			admin.POST("/meals/bulk-delete", h.BulkDeleteMeals)
			admin.GET("/meals/:id", h.GetMeal)
			admin.PATCH("/meals/:id", h.UpdateMeal)
			admin.DELETE("/meals/:id", h.DeleteMeal)

			admin.GET("/personas", h.ListPersonas)
			admin.GET("/personas/:id", h.GetPersona)
			admin.PATCH("/personas/:id", h.OverridePersona)
			admin.POST("/personas/:id/regenerate", h.RegenerateInsight)

			admin.GET("/activities", h.ListActivities)
		}
	}

	return r
}
