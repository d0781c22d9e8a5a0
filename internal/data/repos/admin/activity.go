package admin

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mealpersona-backend/internal/data/repos/repoutil"
	types "github.com/yungbote/mealpersona-backend/internal/domain"
	"github.com/yungbote/mealpersona-backend/internal/platform/dbctx"
	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
)

type ActivityFilter struct {
	AdminID    uuid.UUID
	EntityType types.EntityType
	EntityID   string
	repoutil.Page
}

type ActivityRepo interface {
	Create(dbc dbctx.Context, a *types.AdminActivity) error
	List(dbc dbctx.Context, f ActivityFilter) ([]*types.AdminActivity, int64, error)
}

type activityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityRepo(db *gorm.DB, baseLog *logger.Logger) ActivityRepo {
	return &activityRepo{
		db:  db,
		log: baseLog.With("repo", "AdminActivityRepo"),
	}
}

func (r *activityRepo) Create(dbc dbctx.Context, a *types.AdminActivity) error {
	return dbc.DB(r.db).Create(a).Error
}

func (r *activityRepo) List(dbc dbctx.Context, f ActivityFilter) ([]*types.AdminActivity, int64, error) {
	page := f.Page.Normalize()
	q := dbc.DB(r.db).Model(&types.AdminActivity{})
	if f.AdminID != uuid.Nil {
		q = q.Where("admin_id = ?", f.AdminID)
	}
	if f.EntityType != "" {
		q = q.Where("entity_type = ?", f.EntityType)
	}
	if f.EntityID != "" {
		q = q.Where("entity_id = ?", f.EntityID)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []*types.AdminActivity
	if err := q.Preload("Admin").
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
