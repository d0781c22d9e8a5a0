package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mealpersona-backend/internal/http/middleware"
	"github.com/yungbote/mealpersona-backend/internal/http/response"
	"github.com/yungbote/mealpersona-backend/internal/platform/dbctx"
	"github.com/yungbote/mealpersona-backend/internal/services"
)

type AdminAuthHandler struct {
	auth         services.AdminAuthService
	secureCookie bool
}

func NewAdminAuthHandler(auth services.AdminAuthService, secureCookie bool) *AdminAuthHandler {
	return &AdminAuthHandler{auth: auth, secureCookie: secureCookie}
}

func (h *AdminAuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(services.AdminCookieName, value, maxAge, "/", "", h.secureCookie, true)
}

// POST /api/admin/login
// body: { "email": "...", "password": "..." }
func (h *AdminAuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	sess, err := h.auth.Login(dbctx.Context{Ctx: c.Request.Context()}, req.Email, req.Password, middleware.RequestMeta(c))
	if err != nil {
		response.Fail(c, "login_failed", err)
		return
	}
	h.setCookie(c, sess.Token, int(services.AdminSessionTTL.Seconds()))
	response.RespondOK(c, gin.H{"admin": sess.Admin, "expires_at": sess.ExpiresAt})
}

// POST /api/admin/logout
func (h *AdminAuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(services.AdminCookieName); err == nil && token != "" {
		if err := h.auth.Logout(dbctx.Context{Ctx: c.Request.Context()}, token); err != nil {
			response.Fail(c, "logout_failed", err)
			return
		}
	}
	h.setCookie(c, "", -1)
	response.RespondOK(c, gin.H{"ok": true})
}

// GET /api/admin/me
func (h *AdminAuthHandler) Me(c *gin.Context) {
	response.RespondOK(c, gin.H{"admin": middleware.CurrentAdmin(c)})
}
