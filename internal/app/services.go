package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/mealpersona-backend/internal/data/repos"
	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
	"github.com/yungbote/mealpersona-backend/internal/services"
)

type Services struct {
	User      services.UserService
	UserSync  services.UserSyncService
	Challenge services.ChallengeService
	Persona   services.PersonaService
	Tag       services.TagService
	Media     services.MediaService
	AdminAuth services.AdminAuthService
	Admin     services.AdminService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, set repos.Set, clients Clients) Services {
	log.Info("Wiring services...")
	clock := services.SystemClock(cfg.Timezone)

	user := services.NewUserService(db, log, set.Users)
	var sync services.UserSyncService
	if clients.Webhook != nil {
		sync = services.NewUserSyncService(log, clients.Webhook, set.Users)
	}

	return Services{
		User:      user,
		UserSync:  sync,
		Challenge: services.NewChallengeService(db, log, user, set.Challenges, set.Meals, set.Tags, cfg.Rules, clock),
		Persona: services.NewPersonaService(db, log, user, set.Challenges, set.Personas, clients.Narrative, services.PersonaServiceConfig{
			Rules:            cfg.Rules,
			NarrativeTimeout: cfg.NarrativeTimeout,
			Clock:            clock,
		}),
		Tag:       services.NewTagService(log, set.Tags),
		Media:     services.NewMediaService(log, clients.Blob, clock),
		AdminAuth: services.NewAdminAuthService(db, log, set.Admins, set.Sessions, set.Activities, clients.Limiter, clock),
		Admin:     services.NewAdminService(db, log, set, clients.Narrative, cfg.NarrativeTimeout),
	}
}
