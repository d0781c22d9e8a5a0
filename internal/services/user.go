package services

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/mealpersona-backend/internal/data/repos"
	types "github.com/yungbote/mealpersona-backend/internal/domain"
	"github.com/yungbote/mealpersona-backend/internal/platform/ctxutil"
	"github.com/yungbote/mealpersona-backend/internal/platform/dbctx"
	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
	"github.com/yungbote/mealpersona-backend/internal/platform/pointers"
)

type UserService interface {
	// EnsureUser resolves the caller's local row, creating it from session
	// claims when the identity webhook has not landed yet.
	EnsureUser(dbc dbctx.Context) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{
		db:       db,
		log:      serviceLog,
		userRepo: userRepo,
	}
}

func (us *userService) EnsureUser(dbc dbctx.Context) (*types.User, error) {
	rd := ctxutil.GetRequestData(dbc.Ctx)
	if rd == nil || strings.TrimSpace(rd.ExternalID) == "" {
		return nil, ErrUnauthorized
	}

	u, err := us.userRepo.GetByExternalID(dbc, rd.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	if u != nil {
		return u, nil
	}

	email := strings.TrimSpace(rd.Email)
	if email == "" {
		us.log.Warn("Cannot lazily create user without email", "external_id", rd.ExternalID)
		return nil, ErrUserNotSynced
	}
	created, err := us.userRepo.InsertIfAbsent(dbc, &types.User{
		ExternalID: rd.ExternalID,
		Email:      email,
		Name:       pointers.NonEmpty(rd.Name),
		ImageURL:   pointers.NonEmpty(rd.ImageURL),
	})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	if created {
		us.log.Info("Auto-created user from session", "external_id", rd.ExternalID)
	}

	// Re-read: the webhook may have won the insert.
	u, err = us.userRepo.GetByExternalID(dbc, rd.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotSynced
	}
	return u, nil
}
