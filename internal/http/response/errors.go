package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mealpersona-backend/internal/platform/apierr"
)

// reasoner is implemented by errors that list every unmet requirement.
type reasoner interface {
	error
	Reasons() []string
}

// Fail renders err with the status and code it carries. Unclassified errors
// become 500 with fallbackCode and a generic message.
func Fail(c *gin.Context, fallbackCode string, err error) {
	var r reasoner
	if errors.As(err, &r) {
		c.JSON(http.StatusUnprocessableEntity, ErrorEnvelope{
			Error: APIError{
				Message: r.Error(),
				Code:    "not_eligible",
				Reasons: r.Reasons(),
			},
		})
		return
	}
	if ae, ok := apierr.As(err); ok {
		status := ae.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		code := ae.Code
		if code == "" {
			code = fallbackCode
		}
		RespondError(c, status, code, ae)
		return
	}
	_ = c.Error(err)
	RespondError(c, http.StatusInternalServerError, fallbackCode, errors.New("internal server error"))
}
