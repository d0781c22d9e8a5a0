package user

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/mealpersona-backend/internal/data/repos/repoutil"
	types "github.com/yungbote/mealpersona-backend/internal/domain"
	"github.com/yungbote/mealpersona-backend/internal/platform/dbctx"
	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
)

type Filter struct {
	Search string
	repoutil.Page
}

// Profile holds the identity-provider fields mirrored locally.
type Profile struct {
	Email    string
	Name     *string
	ImageURL *string
}

type UserRepo interface {
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error)
	GetByExternalID(dbc dbctx.Context, externalID string) (*types.User, error)
	InsertIfAbsent(dbc dbctx.Context, u *types.User) (bool, error)
	UpdateProfile(dbc dbctx.Context, externalID string, p Profile) (bool, error)
	DeleteByExternalID(dbc dbctx.Context, externalID string) (bool, error)
	DeleteByID(dbc dbctx.Context, id uuid.UUID) (bool, error)
	List(dbc dbctx.Context, f Filter) ([]*types.User, int64, error)
	Count(dbc dbctx.Context) (int64, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var u types.User
	err := dbc.DB(ur.db).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (ur *userRepo) GetByExternalID(dbc dbctx.Context, externalID string) (*types.User, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, nil
	}
	var u types.User
	err := dbc.DB(ur.db).Where("external_id = ?", externalID).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// InsertIfAbsent inserts u unless a row with the same external id exists.
// It reports whether a row was written; a concurrent insert is not an error.
func (ur *userRepo) InsertIfAbsent(dbc dbctx.Context, u *types.User) (bool, error) {
	if u == nil || strings.TrimSpace(u.ExternalID) == "" {
		return false, nil
	}
	res := dbc.DB(ur.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_id"}},
			DoNothing: true,
		}).
		Create(u)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (ur *userRepo) UpdateProfile(dbc dbctx.Context, externalID string, p Profile) (bool, error) {
	res := dbc.DB(ur.db).
		Model(&types.User{}).
		Where("external_id = ?", externalID).
		Updates(map[string]interface{}{
			"email":     p.Email,
			"name":      p.Name,
			"image_url": p.ImageURL,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (ur *userRepo) DeleteByExternalID(dbc dbctx.Context, externalID string) (bool, error) {
	res := dbc.DB(ur.db).Where("external_id = ?", externalID).Delete(&types.User{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (ur *userRepo) DeleteByID(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	res := dbc.DB(ur.db).Where("id = ?", id).Delete(&types.User{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (ur *userRepo) List(dbc dbctx.Context, f Filter) ([]*types.User, int64, error) {
	page := f.Page.Normalize()
	q := dbc.DB(ur.db).Model(&types.User{})
	if s := strings.TrimSpace(f.Search); s != "" {
		pattern := repoutil.LikePattern(s)
		q = q.Where(`LOWER(email) LIKE ? ESCAPE '\' OR LOWER(COALESCE(name, '')) LIKE ? ESCAPE '\'`, pattern, pattern)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []*types.User
	if err := q.Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (ur *userRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	err := dbc.DB(ur.db).Model(&types.User{}).Count(&n).Error
	return n, err
}
