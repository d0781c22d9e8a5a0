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

type PersonaRepo interface {
	Create(dbc dbctx.Context, p *types.Persona) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Persona, error)
	GetForUser(dbc dbctx.Context, id, userID uuid.UUID) (*types.Persona, error)
	LatestForUser(dbc dbctx.Context, userID uuid.UUID) (*types.Persona, error)
	ListForUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Persona, error)
	List(dbc dbctx.Context, page repoutil.Page) ([]*types.Persona, int64, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	Count(dbc dbctx.Context) (int64, error)
}

type personaRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPersonaRepo(db *gorm.DB, baseLog *logger.Logger) PersonaRepo {
	return &personaRepo{
		db:  db,
		log: baseLog.With("repo", "PersonaRepo"),
	}
}

// Create fails with a unique violation when the challenge already has a persona.
func (r *personaRepo) Create(dbc dbctx.Context, p *types.Persona) error {
	return dbc.DB(r.db).Create(p).Error
}

func (r *personaRepo) first(q *gorm.DB) (*types.Persona, error) {
	var p types.Persona
	err := q.First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *personaRepo) ownedBy(dbc dbctx.Context, userID uuid.UUID) *gorm.DB {
	return dbc.DB(r.db).
		Select("persona.*").
		Joins("JOIN challenge ON challenge.id = persona.challenge_id").
		Where("challenge.user_id = ?", userID)
}

func (r *personaRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Persona, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	return r.first(dbc.DB(r.db).Where("id = ?", id))
}

func (r *personaRepo) GetForUser(dbc dbctx.Context, id, userID uuid.UUID) (*types.Persona, error) {
	if id == uuid.Nil || userID == uuid.Nil {
		return nil, nil
	}
	return r.first(r.ownedBy(dbc, userID).Where("persona.id = ?", id))
}

func (r *personaRepo) LatestForUser(dbc dbctx.Context, userID uuid.UUID) (*types.Persona, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	return r.first(r.ownedBy(dbc, userID).Order("persona.created_at DESC"))
}

func (r *personaRepo) ListForUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Persona, error) {
	var out []*types.Persona
	if userID == uuid.Nil {
		return out, nil
	}
	if err := r.ownedBy(dbc, userID).
		Order("persona.created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *personaRepo) List(dbc dbctx.Context, page repoutil.Page) ([]*types.Persona, int64, error) {
	page = page.Normalize()
	var total int64
	if err := dbc.DB(r.db).Model(&types.Persona{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []*types.Persona
	if err := dbc.DB(r.db).
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *personaRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Model(&types.Persona{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *personaRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	err := dbc.DB(r.db).Model(&types.Persona{}).Count(&n).Error
	return n, err
}
