package challenge

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mealpersona-backend/internal/data/repos/repoutil"
	types "github.com/yungbote/mealpersona-backend/internal/domain"
	"github.com/yungbote/mealpersona-backend/internal/platform/dbctx"
	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
)

// Load selects which associations to preload.
type Load struct {
	Meals   bool
	Persona bool
	User    bool
}

type Filter struct {
	Status types.ChallengeStatus
	UserID uuid.UUID
	repoutil.Page
}

type ChallengeRepo interface {
	Create(dbc dbctx.Context, c *types.Challenge) error
	GetByID(dbc dbctx.Context, id uuid.UUID, load Load) (*types.Challenge, error)
	GetActiveByUser(dbc dbctx.Context, userID uuid.UUID, load Load) (*types.Challenge, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Challenge, error)
	List(dbc dbctx.Context, f Filter) ([]*types.Challenge, int64, error)
	TransitionIfActive(dbc dbctx.Context, id uuid.UUID, to types.ChallengeStatus) (bool, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(dbc dbctx.Context, id uuid.UUID) (bool, error)
	CountByStatus(dbc dbctx.Context, status types.ChallengeStatus) (int64, error)
}

type challengeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChallengeRepo(db *gorm.DB, baseLog *logger.Logger) ChallengeRepo {
	return &challengeRepo{
		db:  db,
		log: baseLog.With("repo", "ChallengeRepo"),
	}
}

func preload(q *gorm.DB, load Load) *gorm.DB {
	if load.Meals {
		q = q.Preload("Meals", func(db *gorm.DB) *gorm.DB {
			return db.Order("meal_time DESC")
		}).Preload("Meals.MealTags.Tag")
	}
	if load.Persona {
		q = q.Preload("Persona")
	}
	if load.User {
		q = q.Preload("User")
	}
	return q
}

// Create inserts c. A second ACTIVE challenge for the same user fails with a
// unique violation from idx_challenge_one_active.
func (r *challengeRepo) Create(dbc dbctx.Context, c *types.Challenge) error {
	if c == nil {
		return nil
	}
	return dbc.DB(r.db).Create(c).Error
}

func (r *challengeRepo) GetByID(dbc dbctx.Context, id uuid.UUID, load Load) (*types.Challenge, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var c types.Challenge
	err := preload(dbc.DB(r.db), load).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *challengeRepo) GetActiveByUser(dbc dbctx.Context, userID uuid.UUID, load Load) (*types.Challenge, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var c types.Challenge
	err := preload(dbc.DB(r.db), load).
		Where("user_id = ? AND status = ?", userID, types.ChallengeStatusActive).
		Order("start_date DESC").
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *challengeRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Challenge, error) {
	var out []*types.Challenge
	if userID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Preload("Persona").
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *challengeRepo) List(dbc dbctx.Context, f Filter) ([]*types.Challenge, int64, error) {
	page := f.Page.Normalize()
	q := dbc.DB(r.db).Model(&types.Challenge{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.UserID != uuid.Nil {
		q = q.Where("user_id = ?", f.UserID)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []*types.Challenge
	if err := q.Preload("User").
		Preload("Persona").
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// TransitionIfActive moves an ACTIVE challenge to `to`. It reports false when
// the row was not ACTIVE at write time.
func (r *challengeRepo) TransitionIfActive(dbc dbctx.Context, id uuid.UUID, to types.ChallengeStatus) (bool, error) {
	res := dbc.DB(r.db).
		Model(&types.Challenge{}).
		Where("id = ? AND status = ?", id, types.ChallengeStatusActive).
		Updates(map[string]interface{}{"status": to})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *challengeRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Model(&types.Challenge{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *challengeRepo) Delete(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	res := dbc.DB(r.db).Where("id = ?", id).Delete(&types.Challenge{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *challengeRepo) CountByStatus(dbc dbctx.Context, status types.ChallengeStatus) (int64, error) {
	var n int64
	q := dbc.DB(r.db).Model(&types.Challenge{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Count(&n).Error
	return n, err
}
