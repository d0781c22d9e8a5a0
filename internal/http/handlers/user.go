package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/mealpersona-backend/internal/http/response"
	"github.com/yungbote/mealpersona-backend/internal/platform/dbctx"
	"github.com/yungbote/mealpersona-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GET /api/me
func (uh *UserHandler) GetMe(c *gin.Context) {
	me, err := uh.userService.EnsureUser(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		response.Fail(c, "get_me_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}
