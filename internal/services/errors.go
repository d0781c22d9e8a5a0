package services

import (
	"errors"
	"strings"

	"github.com/yungbote/mealpersona-backend/internal/modules/persona"
	"github.com/yungbote/mealpersona-backend/internal/platform/apierr"
)

var (
	ErrUnauthorized              = apierr.Unauthorized("unauthorized", "unauthorized")
	ErrUserNotSynced             = apierr.Unauthorized("user_not_synced", "user not found, sign out and sign in again")
	ErrNoActiveChallenge         = apierr.NotFound("no_active_challenge", "no active challenge")
	ErrActiveChallengeExists     = apierr.Conflict("active_challenge_exists", "an active challenge already exists")
	ErrChallengeAlreadyCompleted = apierr.Conflict("challenge_already_completed", "challenge is no longer active")
	ErrNotFound                  = apierr.NotFound("not_found", "not found")
	ErrTagInUse                  = apierr.Conflict("tag_in_use", "tag is used by existing meals")
	ErrTagExists                 = apierr.Conflict("tag_exists", "a tag with this name or slug already exists")
	ErrInvalidTransition         = apierr.Unprocessable("invalid_transition", "status transition not allowed")
	ErrTooManyAttempts           = apierr.TooManyRequests("too_many_attempts", "too many login attempts, try again later")
	ErrInvalidCredentials        = apierr.Unauthorized("invalid_credentials", "Invalid credentials")
	ErrInvalidSession            = apierr.Unauthorized("invalid_session", "session expired or invalid")

	// ErrNarrativeUnavailable is returned by the generator used when no
	// provider is configured.
	ErrNarrativeUnavailable = errors.New("narrative generator unavailable")
)

// IneligibleError carries every unmet completion requirement.
type IneligibleError struct {
	Verdict persona.Verdict
}

func (e *IneligibleError) Error() string {
	return "challenge not eligible: " + strings.Join(e.Verdict.Reasons, " • ")
}

func (e *IneligibleError) Reasons() []string {
	if e == nil {
		return nil
	}
	return e.Verdict.Reasons
}

func validation(code, msg string) error {
	return apierr.BadRequest(code, msg)
}
