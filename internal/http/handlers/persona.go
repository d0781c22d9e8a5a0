package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/mealpersona-backend/internal/http/response"
	"github.com/yungbote/mealpersona-backend/internal/modules/persona"
	"github.com/yungbote/mealpersona-backend/internal/platform/dbctx"
	"github.com/yungbote/mealpersona-backend/internal/services"
)

type PersonaHandler struct {
	personas services.PersonaService
}

func NewPersonaHandler(personas services.PersonaService) *PersonaHandler {
	return &PersonaHandler{personas: personas}
}

// GET /api/personas/latest
func (h *PersonaHandler) Latest(c *gin.Context) {
	p, err := h.personas.Latest(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		response.Fail(c, "get_persona_failed", err)
		return
	}
	if p == nil {
		response.RespondOK(c, gin.H{"persona": nil})
		return
	}
	response.RespondOK(c, gin.H{"persona": persona.NewCard(*p)})
}

// GET /api/personas
func (h *PersonaHandler) List(c *gin.Context) {
	ps, err := h.personas.List(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		response.Fail(c, "list_personas_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"personas": newCards(ps)})
}

// GET /api/personas/:id
func (h *PersonaHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "invalid_persona_id")
	if !ok {
		return
	}
	p, err := h.personas.Get(dbctx.Context{Ctx: c.Request.Context()}, id)
	if err != nil {
		response.Fail(c, "get_persona_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"persona": persona.NewCard(*p)})
}
