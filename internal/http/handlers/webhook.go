package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mealpersona-backend/internal/http/response"
	"github.com/yungbote/mealpersona-backend/internal/services"
)

const maxWebhookBytes = 1 << 20

type WebhookHandler struct {
	sync services.UserSyncService
}

func NewWebhookHandler(sync services.UserSyncService) *WebhookHandler {
	return &WebhookHandler{sync: sync}
}

// POST /api/webhooks/clerk
// A 5xx asks the sender to retry; everything else is final.
func (h *WebhookHandler) IdentityEvent(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondError(c, http.StatusRequestEntityTooLarge, "payload_too_large", err)
			return
		}
		response.RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	outcome, err := h.sync.HandleWebhook(c.Request.Context(), payload, c.Request.Header)
	if err != nil {
		response.Fail(c, "sync_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"received": true, "outcome": outcome})
}
