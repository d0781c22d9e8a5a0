package challenge

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mealpersona-backend/internal/domain"
	"github.com/yungbote/mealpersona-backend/internal/platform/dbctx"
	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
)

type MealRepo interface {
	Create(dbc dbctx.Context, meal *types.Meal, tagIDs []uuid.UUID) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Meal, error)
	ReplaceTags(dbc dbctx.Context, mealID uuid.UUID, tagIDs []uuid.UUID) error
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error)
	Count(dbc dbctx.Context) (int64, error)
}

type mealRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMealRepo(db *gorm.DB, baseLog *logger.Logger) MealRepo {
	return &mealRepo{
		db:  db,
		log: baseLog.With("repo", "MealRepo"),
	}
}

// Create inserts the meal and its tag links. Callers wrap it in a transaction
// when both must land together.
func (r *mealRepo) Create(dbc dbctx.Context, meal *types.Meal, tagIDs []uuid.UUID) error {
	if meal == nil {
		return nil
	}
	tx := dbc.DB(r.db)
	if err := tx.Omit("MealTags").Create(meal).Error; err != nil {
		return err
	}
	return insertMealTags(tx, meal.ID, tagIDs)
}

func insertMealTags(tx *gorm.DB, mealID uuid.UUID, tagIDs []uuid.UUID) error {
	seen := make(map[uuid.UUID]struct{}, len(tagIDs))
	links := make([]types.MealTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		if _, ok := seen[id]; ok || id == uuid.Nil {
			continue
		}
		seen[id] = struct{}{}
		links = append(links, types.MealTag{MealID: mealID, TagID: id})
	}
	if len(links) == 0 {
		return nil
	}
	return tx.Create(&links).Error
}

func (r *mealRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Meal, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var m types.Meal
	err := dbc.DB(r.db).Preload("MealTags.Tag").Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *mealRepo) ReplaceTags(dbc dbctx.Context, mealID uuid.UUID, tagIDs []uuid.UUID) error {
	tx := dbc.DB(r.db)
	if err := tx.Where("meal_id = ?", mealID).Delete(&types.MealTag{}).Error; err != nil {
		return err
	}
	return insertMealTags(tx, mealID, tagIDs)
}

func (r *mealRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Model(&types.Meal{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *mealRepo) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).Where("id IN ?", ids).Delete(&types.Meal{})
	return res.RowsAffected, res.Error
}

func (r *mealRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	err := dbc.DB(r.db).Model(&types.Meal{}).Count(&n).Error
	return n, err
}
