package admin

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mealpersona-backend/internal/domain"
	"github.com/yungbote/mealpersona-backend/internal/platform/dbctx"
	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
)

type SessionRepo interface {
	Create(dbc dbctx.Context, s *types.AdminSession) error
	GetByToken(dbc dbctx.Context, token string) (*types.AdminSession, error)
	DeleteByToken(dbc dbctx.Context, token string) error
	DeleteByID(dbc dbctx.Context, id uuid.UUID) error
	DeleteExpired(dbc dbctx.Context, now time.Time) (int64, error)
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{
		db:  db,
		log: baseLog.With("repo", "AdminSessionRepo"),
	}
}

func (r *sessionRepo) Create(dbc dbctx.Context, s *types.AdminSession) error {
	s.ExpiresAt = s.ExpiresAt.UTC()
	return dbc.DB(r.db).Create(s).Error
}

// GetByToken returns the session with its admin preloaded.
func (r *sessionRepo) GetByToken(dbc dbctx.Context, token string) (*types.AdminSession, error) {
	if token == "" {
		return nil, nil
	}
	var s types.AdminSession
	err := dbc.DB(r.db).Preload("Admin").Where("token = ?", token).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) DeleteByToken(dbc dbctx.Context, token string) error {
	if token == "" {
		return nil
	}
	return dbc.DB(r.db).Where("token = ?", token).Delete(&types.AdminSession{}).Error
}

func (r *sessionRepo) DeleteByID(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.DB(r.db).Where("id = ?", id).Delete(&types.AdminSession{}).Error
}

func (r *sessionRepo) DeleteExpired(dbc dbctx.Context, now time.Time) (int64, error) {
	res := dbc.DB(r.db).Where("expires_at < ?", now.UTC()).Delete(&types.AdminSession{})
	return res.RowsAffected, res.Error
}
