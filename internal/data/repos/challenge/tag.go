package challenge

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mealpersona-backend/internal/domain"
	"github.com/yungbote/mealpersona-backend/internal/platform/dbctx"
	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
)

type TagUsage struct {
	types.Tag
	MealCount int64 `json:"meal_count"`
}

type TagRepo interface {
	List(dbc dbctx.Context) ([]*types.Tag, error)
	ListWithUsage(dbc dbctx.Context) ([]TagUsage, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Tag, error)
	GetBySlugs(dbc dbctx.Context, slugs []string) ([]*types.Tag, error)
	Create(dbc dbctx.Context, tag *types.Tag) error
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(dbc dbctx.Context, id uuid.UUID) (bool, error)
	CountUsage(dbc dbctx.Context, id uuid.UUID) (int64, error)
}

type tagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTagRepo(db *gorm.DB, baseLog *logger.Logger) TagRepo {
	return &tagRepo{
		db:  db,
		log: baseLog.With("repo", "TagRepo"),
	}
}

func (r *tagRepo) List(dbc dbctx.Context) ([]*types.Tag, error) {
	var out []*types.Tag
	if err := dbc.DB(r.db).Order("category ASC, name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *tagRepo) ListWithUsage(dbc dbctx.Context) ([]TagUsage, error) {
	var out []TagUsage
	err := dbc.DB(r.db).
		Model(&types.Tag{}).
		Select("tag.*, (SELECT COUNT(*) FROM meal_tag WHERE meal_tag.tag_id = tag.id) AS meal_count").
		Order("tag.category ASC, tag.name ASC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *tagRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Tag, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var t types.Tag
	err := dbc.DB(r.db).Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tagRepo) GetBySlugs(dbc dbctx.Context, slugs []string) ([]*types.Tag, error) {
	var out []*types.Tag
	if len(slugs) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("slug IN ?", slugs).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *tagRepo) Create(dbc dbctx.Context, tag *types.Tag) error {
	return dbc.DB(r.db).Create(tag).Error
}

func (r *tagRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Model(&types.Tag{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Delete fails with a foreign key violation while any meal references the tag.
func (r *tagRepo) Delete(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	res := dbc.DB(r.db).Where("id = ?", id).Delete(&types.Tag{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *tagRepo) CountUsage(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := dbc.DB(r.db).Model(&types.MealTag{}).Where("tag_id = ?", id).Count(&n).Error
	return n, err
}
