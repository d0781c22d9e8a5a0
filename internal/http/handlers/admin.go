package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/mealpersona-backend/internal/data/repos"
	types "github.com/yungbote/mealpersona-backend/internal/domain"
	"github.com/yungbote/mealpersona-backend/internal/http/middleware"
	"github.com/yungbote/mealpersona-backend/internal/http/response"
	"github.com/yungbote/mealpersona-backend/internal/modules/persona"
	"github.com/yungbote/mealpersona-backend/internal/platform/dbctx"
	"github.com/yungbote/mealpersona-backend/internal/services"
)

type AdminHandler struct {
	admin services.AdminService
}

func NewAdminHandler(admin services.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

func actor(c *gin.Context) services.Actor {
	a := services.Actor{Meta: middleware.RequestMeta(c)}
	if admin := middleware.CurrentAdmin(c); admin != nil {
		a.AdminID = admin.ID
	}
	return a
}

func adminDBC(c *gin.Context) dbctx.Context {
	return dbctx.Context{Ctx: c.Request.Context()}
}

// GET /api/admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	d, err := h.admin.Dashboard(adminDBC(c))
	if err != nil {
		response.Fail(c, "dashboard_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"dashboard": d})
}

// ---------- tags ----------

type tagRequest struct {
	Name     *string            `json:"name"`
	Slug     *string            `json:"slug"`
	Category *types.TagCategory `json:"category"`
	Emoji    *string            `json:"emoji"`
	Color    *string            `json:"color"`
}

func (r tagRequest) input() services.TagInput {
	return services.TagInput{Name: r.Name, Slug: r.Slug, Category: r.Category, Emoji: r.Emoji, Color: r.Color}
}

// GET /api/admin/tags
func (h *AdminHandler) ListTags(c *gin.Context) {
	tags, err := h.admin.ListTags(adminDBC(c))
	if err != nil {
		response.Fail(c, "list_tags_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"tags": tags})
}

// GET /api/admin/tags/:id
func (h *AdminHandler) GetTag(c *gin.Context) {
	id, ok := pathID(c, "invalid_tag_id")
	if !ok {
		return
	}
	tag, err := h.admin.GetTag(adminDBC(c), id)
	if err != nil {
		response.Fail(c, "get_tag_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"tag": tag})
}

// POST /api/admin/tags
func (h *AdminHandler) CreateTag(c *gin.Context) {
	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	tag, err := h.admin.CreateTag(adminDBC(c), actor(c), req.input())
	if err != nil {
		response.Fail(c, "create_tag_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"tag": tag})
}

// PATCH /api/admin/tags/:id
func (h *AdminHandler) UpdateTag(c *gin.Context) {
	id, ok := pathID(c, "invalid_tag_id")
	if !ok {
		return
	}
	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	tag, err := h.admin.UpdateTag(adminDBC(c), actor(c), id, req.input())
	if err != nil {
		response.Fail(c, "update_tag_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"tag": tag})
}

// DELETE /api/admin/tags/:id
func (h *AdminHandler) DeleteTag(c *gin.Context) {
	id, ok := pathID(c, "invalid_tag_id")
	if !ok {
		return
	}
	if err := h.admin.DeleteTag(adminDBC(c), actor(c), id); err != nil {
		response.Fail(c, "delete_tag_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// ---------- users ----------

// GET /api/admin/users?search=&limit=&offset=
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page := pageFromQuery(c)
	users, total, err := h.admin.ListUsers(adminDBC(c), repos.UserFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Page:   page,
	})
	if err != nil {
		response.Fail(c, "list_users_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"users": users, "total": total, "limit": page.Limit, "offset": page.Offset})
}

// GET /api/admin/users/:id
func (h *AdminHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "invalid_user_id")
	if !ok {
		return
	}
	u, err := h.admin.GetUser(adminDBC(c), id)
	if err != nil {
		response.Fail(c, "get_user_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"user": u.User, "challenges": newChallengeViews(u.Challenges)})
}

// DELETE /api/admin/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "invalid_user_id")
	if !ok {
		return
	}
	if err := h.admin.DeleteUser(adminDBC(c), actor(c), id); err != nil {
		response.Fail(c, "delete_user_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// ---------- challenges ----------

// GET /api/admin/challenges?status=&limit=&offset=
func (h *AdminHandler) ListChallenges(c *gin.Context) {
	page := pageFromQuery(c)
	cs, total, err := h.admin.ListChallenges(adminDBC(c), repos.ChallengeFilter{
		Status: types.ChallengeStatus(strings.ToUpper(strings.TrimSpace(c.Query("status")))),
		Page:   page,
	})
	if err != nil {
		response.Fail(c, "list_challenges_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"challenges": newChallengeViews(cs), "total": total, "limit": page.Limit, "offset": page.Offset})
}

// GET /api/admin/challenges/:id
func (h *AdminHandler) GetChallenge(c *gin.Context) {
	id, ok := pathID(c, "invalid_challenge_id")
	if !ok {
		return
	}
	ch, err := h.admin.GetChallenge(adminDBC(c), id)
	if err != nil {
		response.Fail(c, "get_challenge_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"challenge": newChallengeView(ch)})
}

// PATCH /api/admin/challenges/:id
// body: { "status": "COMPLETED", "start_date": "..." }; end_date is derived
func (h *AdminHandler) UpdateChallenge(c *gin.Context) {
	id, ok := pathID(c, "invalid_challenge_id")
	if !ok {
		return
	}
	var req struct {
		Status    *types.ChallengeStatus `json:"status"`
		StartDate *time.Time             `json:"start_date"`
		EndDate   *time.Time             `json:"end_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.EndDate != nil {
		response.RespondError(c, http.StatusBadRequest, "end_date_derived", errors.New("end_date follows start_date and cannot be set"))
		return
	}
	ch, err := h.admin.UpdateChallenge(adminDBC(c), actor(c), id, services.ChallengeUpdate{
		Status:    req.Status,
		StartDate: req.StartDate,
	})
	if err != nil {
		response.Fail(c, "update_challenge_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"challenge": newChallengeView(ch)})
}

// DELETE /api/admin/challenges/:id
func (h *AdminHandler) DeleteChallenge(c *gin.Context) {
	id, ok := pathID(c, "invalid_challenge_id")
	if !ok {
		return
	}
	if err := h.admin.DeleteChallenge(adminDBC(c), actor(c), id); err != nil {
		response.Fail(c, "delete_challenge_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// ---------- meals ----------

// GET /api/admin/meals/:id
func (h *AdminHandler) GetMeal(c *gin.Context) {
	id, ok := pathID(c, "invalid_meal_id")
	if !ok {
		return
	}
	m, err := h.admin.GetMeal(adminDBC(c), id)
	if err != nil {
		response.Fail(c, "get_meal_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"meal": newMealView(m)})
}

// PATCH /api/admin/meals/:id
// body: { "meal_time": "...", "tag_ids": ["..."], "notes": "..." }
func (h *AdminHandler) UpdateMeal(c *gin.Context) {
	id, ok := pathID(c, "invalid_meal_id")
	if !ok {
		return
	}
	var req struct {
		MealTime *time.Time   `json:"meal_time"`
		TagIDs   *[]uuid.UUID `json:"tag_ids"`
		Notes    *string      `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	m, err := h.admin.UpdateMeal(adminDBC(c), actor(c), id, services.MealUpdate{
		MealTime: req.MealTime,
		TagIDs:   req.TagIDs,
		Notes:    req.Notes,
	})
	if err != nil {
		response.Fail(c, "update_meal_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"meal": newMealView(m)})
}

// DELETE /api/admin/meals/:id
func (h *AdminHandler) DeleteMeal(c *gin.Context) {
	id, ok := pathID(c, "invalid_meal_id")
	if !ok {
		return
	}
	if err := h.admin.DeleteMeal(adminDBC(c), actor(c), id); err != nil {
		response.Fail(c, "delete_meal_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /api/admin/meals/bulk-delete
// body: { "ids": ["..."] }
func (h *AdminHandler) BulkDeleteMeals(c *gin.Context) {
	var req struct {
		IDs []uuid.UUID `json:"ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	n, err := h.admin.BulkDeleteMeals(adminDBC(c), actor(c), req.IDs)
	if err != nil {
		response.Fail(c, "bulk_delete_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": n})
}

// ---------- personas ----------

// GET /api/admin/personas?limit=&offset=
func (h *AdminHandler) ListPersonas(c *gin.Context) {
	page := pageFromQuery(c)
	ps, total, err := h.admin.ListPersonas(adminDBC(c), page)
	if err != nil {
		response.Fail(c, "list_personas_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"personas": newCards(ps), "total": total, "limit": page.Limit, "offset": page.Offset})
}

// GET /api/admin/personas/:id
func (h *AdminHandler) GetPersona(c *gin.Context) {
	id, ok := pathID(c, "invalid_persona_id")
	if !ok {
		return
	}
	p, err := h.admin.GetPersona(adminDBC(c), id)
	if err != nil {
		response.Fail(c, "get_persona_failed", err)
		return
	}
	out := gin.H{"persona": persona.NewCard(*p.Persona)}
	if p.Challenge != nil {
		out["challenge"] = newChallengeView(p.Challenge)
	}
	response.RespondOK(c, out)
}

// PATCH /api/admin/personas/:id
// body: { "title": "...", "description": "...", "stats": {"fried": 40} }
func (h *AdminHandler) OverridePersona(c *gin.Context) {
	id, ok := pathID(c, "invalid_persona_id")
	if !ok {
		return
	}
	var req struct {
		Title       *string        `json:"title"`
		Description *string        `json:"description"`
		Stats       map[string]int `json:"stats"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	p, err := h.admin.OverridePersona(adminDBC(c), actor(c), id, services.PersonaOverride{
		Title:       req.Title,
		Description: req.Description,
		Stats:       req.Stats,
	})
	if err != nil {
		response.Fail(c, "override_persona_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"persona": persona.NewCard(*p)})
}

// POST /api/admin/personas/:id/regenerate
func (h *AdminHandler) RegenerateInsight(c *gin.Context) {
	id, ok := pathID(c, "invalid_persona_id")
	if !ok {
		return
	}
	p, err := h.admin.RegenerateInsight(adminDBC(c), actor(c), id)
	if err != nil {
		response.Fail(c, "regenerate_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"persona": persona.NewCard(*p)})
}

// ---------- activity log ----------

// GET /api/admin/activities?admin_id=&entity_type=&entity_id=&limit=&offset=
func (h *AdminHandler) ListActivities(c *gin.Context) {
	f := repos.ActivityFilter{
		EntityType: types.EntityType(strings.TrimSpace(c.Query("entity_type"))),
		EntityID:   strings.TrimSpace(c.Query("entity_id")),
		Page:       pageFromQuery(c),
	}
	if raw := strings.TrimSpace(c.Query("admin_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_admin_id", errors.New("invalid admin_id"))
			return
		}
		f.AdminID = id
	}
	acts, total, err := h.admin.ListActivities(adminDBC(c), f)
	if err != nil {
		response.Fail(c, "list_activities_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"activities": acts, "total": total, "limit": f.Limit, "offset": f.Offset})
}
