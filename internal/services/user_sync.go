package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/yungbote/mealpersona-backend/internal/data/repos"
	types "github.com/yungbote/mealpersona-backend/internal/domain"
	"github.com/yungbote/mealpersona-backend/internal/platform/apierr"
	"github.com/yungbote/mealpersona-backend/internal/platform/dbctx"
	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
	"github.com/yungbote/mealpersona-backend/internal/platform/pointers"
	"github.com/yungbote/mealpersona-backend/internal/platform/webhook"
)

// Outcome is what a delivered identity event did to the local store.
type Outcome string

const (
	OutcomeCreated        Outcome = "created"
	OutcomeUpdated        Outcome = "updated"
	OutcomeDeleted        Outcome = "deleted"
	OutcomeDuplicate      Outcome = "duplicate"
	OutcomeIgnored        Outcome = "ignored"
	OutcomeSkippedNoEmail Outcome = "skipped_no_email"
)

const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

type IdentityEvent struct {
	Type string       `json:"type"`
	Data IdentityUser `json:"data"`
}

type IdentityEmail struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

type IdentityUser struct {
	ID                    string          `json:"id"`
	EmailAddresses        []IdentityEmail `json:"email_addresses"`
	PrimaryEmailAddressID string          `json:"primary_email_address_id"`
	FirstName             *string         `json:"first_name"`
	LastName              *string         `json:"last_name"`
	ImageURL              *string         `json:"image_url"`
}

// PrimaryEmail prefers the address flagged primary, then the first one.
func (u IdentityUser) PrimaryEmail() string {
	for _, e := range u.EmailAddresses {
		if e.ID != "" && e.ID == u.PrimaryEmailAddressID && strings.TrimSpace(e.EmailAddress) != "" {
			return strings.TrimSpace(e.EmailAddress)
		}
	}
	for _, e := range u.EmailAddresses {
		if addr := strings.TrimSpace(e.EmailAddress); addr != "" {
			return addr
		}
	}
	return ""
}

// DisplayName is "first last" when both are set, else whichever is set.
func (u IdentityUser) DisplayName() *string {
	first := strings.TrimSpace(pointers.Deref(u.FirstName))
	last := strings.TrimSpace(pointers.Deref(u.LastName))
	switch {
	case first != "" && last != "":
		return pointers.String(first + " " + last)
	case first != "":
		return pointers.String(first)
	case last != "":
		return pointers.String(last)
	}
	return nil
}

type UserSyncService interface {
	HandleWebhook(ctx context.Context, payload []byte, headers http.Header) (Outcome, error)
}

type userSyncService struct {
	log      *logger.Logger
	verifier webhook.Verifier
	userRepo repos.UserRepo
}

func NewUserSyncService(log *logger.Logger, verifier webhook.Verifier, userRepo repos.UserRepo) UserSyncService {
	return &userSyncService{
		log:      log.With("service", "UserSyncService"),
		verifier: verifier,
		userRepo: userRepo,
	}
}

func syncFailed(err error) error {
	return apierr.New(http.StatusInternalServerError, "sync_failed", err)
}

// HandleWebhook verifies and applies one identity event. Errors carry the
// status the provider should see: 4xx is final, 5xx triggers redelivery.
func (s *userSyncService) HandleWebhook(ctx context.Context, payload []byte, headers http.Header) (Outcome, error) {
	if s.verifier == nil {
		return "", apierr.BadRequest("webhook_not_configured", "webhook secret is not configured")
	}
	if err := s.verifier.Verify(payload, headers); err != nil {
		s.log.Warn("Webhook verification failed", "error", err)
		if errors.Is(err, webhook.ErrMissingHeaders) {
			return "", apierr.BadRequest("missing_headers", "missing svix headers")
		}
		return "", apierr.BadRequest("invalid_signature", "webhook verification failed")
	}

	var evt IdentityEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return "", apierr.BadRequest("invalid_payload", "webhook payload is not valid json")
	}
	if strings.TrimSpace(evt.Data.ID) == "" {
		switch evt.Type {
		case EventUserCreated, EventUserUpdated, EventUserDeleted:
			return "", apierr.BadRequest("invalid_payload", "event is missing user id")
		}
	}

	dbc := dbctx.New(ctx)
	var (
		outcome Outcome
		err     error
	)
	switch evt.Type {
	case EventUserCreated:
		outcome, err = s.userCreated(dbc, evt.Data)
	case EventUserUpdated:
		outcome, err = s.userUpdated(dbc, evt.Data)
	case EventUserDeleted:
		outcome, err = s.userDeleted(dbc, evt.Data)
	default:
		outcome = OutcomeIgnored
	}
	if err != nil {
		s.log.Error("Identity sync failed", "event", evt.Type, "external_id", evt.Data.ID, "error", err)
		return "", err
	}
	s.log.Info("Identity event applied", "event", evt.Type, "external_id", evt.Data.ID, "outcome", outcome)
	return outcome, nil
}

func (s *userSyncService) userCreated(dbc dbctx.Context, data IdentityUser) (Outcome, error) {
	email := data.PrimaryEmail()
	if email == "" {
		// Acknowledged; a later user.updated carrying an email creates the row.
		s.log.Warn("User created without email", "external_id", data.ID)
		return OutcomeSkippedNoEmail, nil
	}
	created, err := s.userRepo.InsertIfAbsent(dbc, &types.User{
		ExternalID: data.ID,
		Email:      email,
		Name:       data.DisplayName(),
		ImageURL:   pointers.NonEmpty(pointers.Deref(data.ImageURL)),
	})
	if err != nil {
		return "", syncFailed(err)
	}
	if !created {
		return OutcomeDuplicate, nil
	}
	return OutcomeCreated, nil
}

func (s *userSyncService) userUpdated(dbc dbctx.Context, data IdentityUser) (Outcome, error) {
	email := data.PrimaryEmail()
	if email == "" {
		return "", apierr.BadRequest("no_email", "no email address")
	}
	profile := repos.UserProfile{
		Email:    email,
		Name:     data.DisplayName(),
		ImageURL: pointers.NonEmpty(pointers.Deref(data.ImageURL)),
	}
	found, err := s.userRepo.UpdateProfile(dbc, data.ID, profile)
	if err != nil {
		return "", syncFailed(err)
	}
	if found {
		return OutcomeUpdated, nil
	}

	// Update arrived before create.
	created, err := s.userRepo.InsertIfAbsent(dbc, &types.User{
		ExternalID: data.ID,
		Email:      profile.Email,
		Name:       profile.Name,
		ImageURL:   profile.ImageURL,
	})
	if err != nil {
		return "", syncFailed(err)
	}
	if !created {
		// Lost a race with a concurrent create; apply the update on top.
		if _, err := s.userRepo.UpdateProfile(dbc, data.ID, profile); err != nil {
			return "", syncFailed(err)
		}
		return OutcomeUpdated, nil
	}
	return OutcomeCreated, nil
}

func (s *userSyncService) userDeleted(dbc dbctx.Context, data IdentityUser) (Outcome, error) {
	deleted, err := s.userRepo.DeleteByExternalID(dbc, data.ID)
	if err != nil {
		return "", syncFailed(err)
	}
	if !deleted {
		return OutcomeDuplicate, nil
	}
	return OutcomeDeleted, nil
}
