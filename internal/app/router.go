package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/mealpersona-backend/internal/http"
	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewRouter(http.RouterConfig{
		Log:              log,
		ServiceName:      serviceName,
		CORSOrigins:      cfg.CORSOrigins,
		AuthMiddleware:   middleware.Auth,
		AdminMiddleware:  middleware.Admin,
		HealthHandler:    handlers.Health,
		UserHandler:      handlers.User,
		ChallengeHandler: handlers.Challenge,
		PersonaHandler:   handlers.Persona,
		TagHandler:       handlers.Tag,
		WebhookHandler:   handlers.Webhook,
		AdminAuthHandler: handlers.AdminAuth,
		AdminHandler:     handlers.Admin,
	})
}
