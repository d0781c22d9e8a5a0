package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/mealpersona-backend/internal/domain"
	"github.com/yungbote/mealpersona-backend/internal/platform/apierr"
	"github.com/yungbote/mealpersona-backend/internal/platform/dbctx"
	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
	"github.com/yungbote/mealpersona-backend/internal/services"
)

const adminContextKey = "admin"

type AdminMiddleware struct {
	log  *logger.Logger
	auth services.AdminAuthService
}

func NewAdminMiddleware(log *logger.Logger, auth services.AdminAuthService) *AdminMiddleware {
	return &AdminMiddleware{log: log.With("Middleware", "AdminMiddleware"), auth: auth}
}

// RequireAdmin resolves the admin_session cookie to an active admin.
func (am *AdminMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(services.AdminCookieName)
		a, err := am.auth.Authenticate(dbctx.Context{Ctx: c.Request.Context()}, token)
		if err != nil {
			code := "invalid_session"
			if ae, ok := apierr.As(err); ok {
				code = ae.Code
			} else {
				am.log.Warn("Admin session lookup failed", "error", err)
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "admin session expired or invalid", "code": code},
			})
			return
		}
		c.Set(adminContextKey, a)
		c.Next()
	}
}

// CurrentAdmin returns the admin attached by RequireAdmin.
func CurrentAdmin(c *gin.Context) *types.Admin {
	v, ok := c.Get(adminContextKey)
	if !ok {
		return nil
	}
	a, _ := v.(*types.Admin)
	return a
}
