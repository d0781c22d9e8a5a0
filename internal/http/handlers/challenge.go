package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mealpersona-backend/internal/http/response"
	"github.com/yungbote/mealpersona-backend/internal/modules/persona"
	"github.com/yungbote/mealpersona-backend/internal/platform/ctxutil"
	"github.com/yungbote/mealpersona-backend/internal/platform/dbctx"
	"github.com/yungbote/mealpersona-backend/internal/services"
)

// multipart overhead allowed on top of the image itself
const formOverheadBytes = 1 << 20

type ChallengeHandler struct {
	challenges services.ChallengeService
	personas   services.PersonaService
	media      services.MediaService
}

func NewChallengeHandler(challenges services.ChallengeService, personas services.PersonaService, media services.MediaService) *ChallengeHandler {
	return &ChallengeHandler{challenges: challenges, personas: personas, media: media}
}

// POST /api/challenges
func (h *ChallengeHandler) Start(c *gin.Context) {
	ch, err := h.challenges.Start(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		response.Fail(c, "start_challenge_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"challenge": newChallengeView(ch)})
}

// GET /api/challenges
func (h *ChallengeHandler) History(c *gin.Context) {
	cs, err := h.challenges.History(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		response.Fail(c, "list_challenges_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"challenges": newChallengeViews(cs)})
}

// GET /api/challenges/active
func (h *ChallengeHandler) Active(c *gin.Context) {
	ch, err := h.challenges.Active(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		response.Fail(c, "get_challenge_failed", err)
		return
	}
	if ch == nil {
		response.RespondOK(c, gin.H{"challenge": nil})
		return
	}
	response.RespondOK(c, gin.H{"challenge": newChallengeView(ch)})
}

// GET /api/challenges/active/eligibility
func (h *ChallengeHandler) Eligibility(c *gin.Context) {
	v, err := h.challenges.Eligibility(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		response.Fail(c, "eligibility_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"eligibility": v})
}

type addMealRequest struct {
	ImageURL string   `json:"image_url"`
	Tags     []string `json:"tags"`
	Notes    string   `json:"notes"`
}

// POST /api/challenges/active/meals
// multipart: image (file), tags (repeated or comma separated), notes
// json: { "image_url": "...", "tags": ["fried"], "notes": "..." }
func (h *ChallengeHandler) AddMeal(c *gin.Context) {
	dbc := dbctx.Context{Ctx: c.Request.Context()}

	var in services.AddMealInput
	if c.ContentType() == gin.MIMEJSON {
		var req addMealRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		in = services.AddMealInput{ImageURL: strings.TrimSpace(req.ImageURL), TagSlugs: req.Tags, Notes: req.Notes}
	} else {
		// Check for a challenge before paying for the upload.
		active, err := h.challenges.Active(dbc)
		if err != nil {
			response.Fail(c, "add_meal_failed", err)
			return
		}
		if active == nil {
			response.Fail(c, "add_meal_failed", services.ErrNoActiveChallenge)
			return
		}
		url, ok := h.uploadImage(c)
		if !ok {
			return
		}
		in = services.AddMealInput{ImageURL: url, TagSlugs: c.PostFormArray("tags"), Notes: c.PostForm("notes")}
	}

	meal, err := h.challenges.AddMeal(dbc, in)
	if err != nil {
		response.Fail(c, "add_meal_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"meal": newMealView(meal)})
}

func (h *ChallengeHandler) uploadImage(c *gin.Context) (string, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxImageBytes+formOverheadBytes)
	fh, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondError(c, http.StatusBadRequest, "image_too_large", errors.New("image exceeds 10MB"))
			return "", false
		}
		response.RespondError(c, http.StatusBadRequest, "missing_image", errors.New("image is required"))
		return "", false
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_image", err)
		return "", false
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, services.MaxImageBytes+1))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_image", err)
		return "", false
	}

	externalID := ""
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
		externalID = rd.ExternalID
	}
	url, err := h.media.UploadMealImage(c.Request.Context(), externalID, fh.Filename, fh.Header.Get("Content-Type"), data)
	if err != nil {
		response.Fail(c, "upload_failed", err)
		return "", false
	}
	return url, true
}

// POST /api/challenges/active/complete
func (h *ChallengeHandler) Complete(c *gin.Context) {
	p, err := h.personas.CompleteActiveChallenge(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		response.Fail(c, "complete_challenge_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"persona": persona.NewCard(*p)})
}

// POST /api/challenges/active/abandon
func (h *ChallengeHandler) Abandon(c *gin.Context) {
	ch, err := h.challenges.Abandon(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		response.Fail(c, "abandon_challenge_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"challenge": newChallengeView(ch)})
}
