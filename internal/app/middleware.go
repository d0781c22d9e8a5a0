package app

import (
	httpMW "github.com/yungbote/mealpersona-backend/internal/http/middleware"
	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
)

type Middleware struct {
	Auth  *httpMW.AuthMiddleware
	Admin *httpMW.AdminMiddleware
}

func wireMiddleware(log *logger.Logger, clients Clients, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth:  httpMW.NewAuthMiddleware(log, clients.Sessions),
		Admin: httpMW.NewAdminMiddleware(log, services.AdminAuth),
	}
}
