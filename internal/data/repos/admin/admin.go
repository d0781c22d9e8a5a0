package admin

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/mealpersona-backend/internal/domain"
	"github.com/yungbote/mealpersona-backend/internal/platform/dbctx"
	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
)

type AdminRepo interface {
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Admin, error)
	GetByEmail(dbc dbctx.Context, email string) (*types.Admin, error)
	Upsert(dbc dbctx.Context, a *types.Admin) error
	TouchLastLogin(dbc dbctx.Context, id uuid.UUID, at time.Time) error
}

type adminRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAdminRepo(db *gorm.DB, baseLog *logger.Logger) AdminRepo {
	return &adminRepo{
		db:  db,
		log: baseLog.With("repo", "AdminRepo"),
	}
}

func (r *adminRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Admin, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var a types.Admin
	err := dbc.DB(r.db).Where("id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *adminRepo) GetByEmail(dbc dbctx.Context, email string) (*types.Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}
	var a types.Admin
	err := dbc.DB(r.db).Where("email = ?", email).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Upsert creates the admin or resets name, password and active flag for an
// existing email.
func (r *adminRepo) Upsert(dbc dbctx.Context, a *types.Admin) error {
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	return dbc.DB(r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "password", "is_active", "updated_at"}),
	}).Create(a).Error
}

func (r *adminRepo) TouchLastLogin(dbc dbctx.Context, id uuid.UUID, at time.Time) error {
	return dbc.DB(r.db).
		Model(&types.Admin{}).
		Where("id = ?", id).
		Update("last_login", at.UTC()).Error
}
