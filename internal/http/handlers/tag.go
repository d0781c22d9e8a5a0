package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/mealpersona-backend/internal/http/response"
	"github.com/yungbote/mealpersona-backend/internal/platform/dbctx"
	"github.com/yungbote/mealpersona-backend/internal/services"
)

type TagHandler struct {
	tags services.TagService
}

func NewTagHandler(tags services.TagService) *TagHandler {
	return &TagHandler{tags: tags}
}

// GET /api/tags
func (h *TagHandler) ListTags(c *gin.Context) {
	groups, err := h.tags.Catalogue(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		response.Fail(c, "list_tags_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"categories": groups})
}
