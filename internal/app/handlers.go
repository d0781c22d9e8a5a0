package app

import (
	"gorm.io/gorm"

	httpH "github.com/yungbote/mealpersona-backend/internal/http/handlers"
	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
)

type Handlers struct {
	Health    *httpH.HealthHandler
	User      *httpH.UserHandler
	Challenge *httpH.ChallengeHandler
	Persona   *httpH.PersonaHandler
	Tag       *httpH.TagHandler
	Webhook   *httpH.WebhookHandler
	AdminAuth *httpH.AdminAuthHandler
	Admin     *httpH.AdminHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, cfg Config, services Services) Handlers {
	log.Info("Wiring handlers...")
	h := Handlers{
		Health:    httpH.NewHealthHandler(db),
		User:      httpH.NewUserHandler(services.User),
		Challenge: httpH.NewChallengeHandler(services.Challenge, services.Persona, services.Media),
		Persona:   httpH.NewPersonaHandler(services.Persona),
		Tag:       httpH.NewTagHandler(services.Tag),
		AdminAuth: httpH.NewAdminAuthHandler(services.AdminAuth, cfg.SecureCookies),
		Admin:     httpH.NewAdminHandler(services.Admin),
	}
	if services.UserSync != nil {
		h.Webhook = httpH.NewWebhookHandler(services.UserSync)
	}
	return h
}
