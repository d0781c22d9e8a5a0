package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/mealpersona-backend/internal/data/repos"
	"github.com/yungbote/mealpersona-backend/internal/data/repos/repoutil"
	types "github.com/yungbote/mealpersona-backend/internal/domain"
	"github.com/yungbote/mealpersona-backend/internal/modules/persona"
	"github.com/yungbote/mealpersona-backend/internal/platform/apierr"
	"github.com/yungbote/mealpersona-backend/internal/platform/dbctx"
	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
	"github.com/yungbote/mealpersona-backend/internal/platform/pointers"
)

var (
	tagSlugPattern  = regexp.MustCompile(`^[a-z0-9-]+$`)
	tagColorPattern = regexp.MustCompile(`^(#[0-9a-fA-F]{6}|bg-[a-z0-9-]+)$`)
)

// Actor identifies the admin performing a mutation.
type Actor struct {
	AdminID uuid.UUID
	Meta    RequestMeta
}

type TagInput struct {
	Name     *string
	Slug     *string
	Category *types.TagCategory
	Emoji    *string
	Color    *string
}

// ChallengeUpdate edits a challenge. The end date always follows the start
// date; moving the start re-derives every meal's day number.
type ChallengeUpdate struct {
	Status    *types.ChallengeStatus
	StartDate *time.Time
}

type MealUpdate struct {
	MealTime *time.Time
	// TagIDs replaces every tag when non-nil. An empty slice clears them.
	TagIDs *[]uuid.UUID
	Notes  *string
}

type PersonaOverride struct {
	Title       *string
	Description *string
	Stats       map[string]int
}

type AdminUser struct {
	*types.User
	Challenges []*types.Challenge `json:"challenges"`
}

type AdminPersona struct {
	*types.Persona
	Challenge *types.Challenge `json:"challenge,omitempty"`
}

type Dashboard struct {
	Users               int64 `json:"users"`
	ActiveChallenges    int64 `json:"active_challenges"`
	CompletedChallenges int64 `json:"completed_challenges"`
	Meals               int64 `json:"meals"`
	Personas            int64 `json:"personas"`
}

type AdminService interface {
	Dashboard(dbc dbctx.Context) (*Dashboard, error)

	ListTags(dbc dbctx.Context) ([]repos.TagUsage, error)
	GetTag(dbc dbctx.Context, id uuid.UUID) (*types.Tag, error)
	CreateTag(dbc dbctx.Context, actor Actor, in TagInput) (*types.Tag, error)
	UpdateTag(dbc dbctx.Context, actor Actor, id uuid.UUID, in TagInput) (*types.Tag, error)
	DeleteTag(dbc dbctx.Context, actor Actor, id uuid.UUID) error

	ListUsers(dbc dbctx.Context, f repos.UserFilter) ([]*types.User, int64, error)
	GetUser(dbc dbctx.Context, id uuid.UUID) (*AdminUser, error)
	DeleteUser(dbc dbctx.Context, actor Actor, id uuid.UUID) error

	ListChallenges(dbc dbctx.Context, f repos.ChallengeFilter) ([]*types.Challenge, int64, error)
	GetChallenge(dbc dbctx.Context, id uuid.UUID) (*types.Challenge, error)
	UpdateChallenge(dbc dbctx.Context, actor Actor, id uuid.UUID, in ChallengeUpdate) (*types.Challenge, error)
	DeleteChallenge(dbc dbctx.Context, actor Actor, id uuid.UUID) error

	GetMeal(dbc dbctx.Context, id uuid.UUID) (*types.Meal, error)
	UpdateMeal(dbc dbctx.Context, actor Actor, id uuid.UUID, in MealUpdate) (*types.Meal, error)
	DeleteMeal(dbc dbctx.Context, actor Actor, id uuid.UUID) error
	BulkDeleteMeals(dbc dbctx.Context, actor Actor, ids []uuid.UUID) (int64, error)

	ListPersonas(dbc dbctx.Context, page repoutil.Page) ([]*types.Persona, int64, error)
	GetPersona(dbc dbctx.Context, id uuid.UUID) (*AdminPersona, error)
	OverridePersona(dbc dbctx.Context, actor Actor, id uuid.UUID, in PersonaOverride) (*types.Persona, error)
	RegenerateInsight(dbc dbctx.Context, actor Actor, id uuid.UUID) (*types.Persona, error)

	ListActivities(dbc dbctx.Context, f repos.ActivityFilter) ([]*types.AdminActivity, int64, error)
}

type adminService struct {
	db               *gorm.DB
	log              *logger.Logger
	repos            repos.Set
	narrative        NarrativeGenerator
	narrativeTimeout time.Duration
}

func NewAdminService(db *gorm.DB, log *logger.Logger, set repos.Set, narrative NarrativeGenerator, narrativeTimeout time.Duration) AdminService {
	if narrativeTimeout <= 0 {
		narrativeTimeout = DefaultNarrativeTimeout
	}
	return &adminService{
		db:               db,
		log:              log.With("service", "AdminService"),
		repos:            set,
		narrative:        narrative,
		narrativeTimeout: narrativeTimeout,
	}
}

func encodeDetails(details map[string]any) (datatypes.JSON, error) {
	raw, err := json.Marshal(details)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func (s *adminService) audit(dbc dbctx.Context, actor Actor, action types.AdminAction, entity types.EntityType, id string, details map[string]any) {
	recordActivity(dbc, s.log, s.repos.Activities, activityEntry{
		AdminID:    actor.AdminID,
		Action:     action,
		EntityType: entity,
		EntityID:   id,
		Details:    details,
		Meta:       actor.Meta,
	})
}

func (s *adminService) Dashboard(dbc dbctx.Context) (*Dashboard, error) {
	var d Dashboard
	g, gctx := errgroup.WithContext(dbc.Ctx)
	inner := dbctx.Context{Ctx: gctx, Tx: dbc.Tx}

	g.Go(func() (err error) {
		d.Users, err = s.repos.Users.Count(inner)
		return err
	})
	g.Go(func() (err error) {
		d.ActiveChallenges, err = s.repos.Challenges.CountByStatus(inner, types.ChallengeStatusActive)
		return err
	})
	g.Go(func() (err error) {
		d.CompletedChallenges, err = s.repos.Challenges.CountByStatus(inner, types.ChallengeStatusCompleted)
		return err
	})
	g.Go(func() (err error) {
		d.Meals, err = s.repos.Meals.Count(inner)
		return err
	})
	g.Go(func() (err error) {
		d.Personas, err = s.repos.Personas.Count(inner)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("error loading dashboard: %w", err)
	}
	return &d, nil
}

// ---- tags ----

func (s *adminService) ListTags(dbc dbctx.Context) ([]repos.TagUsage, error) {
	return s.repos.Tags.ListWithUsage(dbc)
}

func (s *adminService) GetTag(dbc dbctx.Context, id uuid.UUID) (*types.Tag, error) {
	t, err := s.repos.Tags.GetByID(dbc, id)
	if err != nil {
		return nil, fmt.Errorf("error fetching tag: %w", err)
	}
	if t == nil {
		return nil, ErrNotFound
	}
	return t, nil
}

func validateTagInput(in TagInput, create bool) error {
	if create && (in.Name == nil || in.Slug == nil || in.Category == nil) {
		return validation("invalid_input", "name, slug and category are required")
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return validation("invalid_input", "name is required")
	}
	if in.Slug != nil && !tagSlugPattern.MatchString(*in.Slug) {
		return validation("invalid_slug", "slug must be lowercase letters, numbers and hyphens")
	}
	if in.Category != nil && !in.Category.Valid() {
		return validation("invalid_category", "unknown tag category")
	}
	if in.Color != nil && *in.Color != "" && !tagColorPattern.MatchString(*in.Color) {
		return validation("invalid_color", "color must be a #rrggbb value or a bg-* class")
	}
	return nil
}

func (s *adminService) CreateTag(dbc dbctx.Context, actor Actor, in TagInput) (*types.Tag, error) {
	if err := validateTagInput(in, true); err != nil {
		return nil, err
	}
	t := &types.Tag{
		Name:     strings.TrimSpace(*in.Name),
		Slug:     *in.Slug,
		Category: *in.Category,
		Emoji:    strings.TrimSpace(pointers.Deref(in.Emoji)),
		Color:    pointers.Deref(in.Color),
	}
	if err := s.repos.Tags.Create(dbc, t); err != nil {
		if repoutil.IsUniqueViolation(err) {
			return nil, ErrTagExists
		}
		return nil, fmt.Errorf("error creating tag: %w", err)
	}
	s.audit(dbc, actor, types.ActionCreate, types.EntityTag, t.ID.String(), map[string]any{
		"name": t.Name, "slug": t.Slug, "category": t.Category,
	})
	return t, nil
}

func (s *adminService) UpdateTag(dbc dbctx.Context, actor Actor, id uuid.UUID, in TagInput) (*types.Tag, error) {
	if err := validateTagInput(in, false); err != nil {
		return nil, err
	}
	before, err := s.GetTag(dbc, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Slug != nil {
		updates["slug"] = *in.Slug
	}
	if in.Category != nil {
		updates["category"] = *in.Category
	}
	if in.Emoji != nil {
		updates["emoji"] = strings.TrimSpace(*in.Emoji)
	}
	if in.Color != nil {
		updates["color"] = *in.Color
	}
	if err := s.repos.Tags.UpdateFields(dbc, id, updates); err != nil {
		if repoutil.IsUniqueViolation(err) {
			return nil, ErrTagExists
		}
		return nil, fmt.Errorf("error updating tag: %w", err)
	}
	after, err := s.GetTag(dbc, id)
	if err != nil {
		return nil, err
	}
	s.audit(dbc, actor, types.ActionUpdate, types.EntityTag, id.String(), map[string]any{
		"before": before,
		"after":  after,
	})
	return after, nil
}

func (s *adminService) DeleteTag(dbc dbctx.Context, actor Actor, id uuid.UUID) error {
	t, err := s.GetTag(dbc, id)
	if err != nil {
		return err
	}
	used, err := s.repos.Tags.CountUsage(dbc, id)
	if err != nil {
		return fmt.Errorf("error counting tag usage: %w", err)
	}
	if used > 0 {
		return ErrTagInUse
	}
	ok, err := s.repos.Tags.Delete(dbc, id)
	if err != nil {
		if repoutil.IsForeignKeyViolation(err) {
			return ErrTagInUse
		}
		return fmt.Errorf("error deleting tag: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	s.audit(dbc, actor, types.ActionDelete, types.EntityTag, id.String(), map[string]any{
		"name": t.Name, "slug": t.Slug,
	})
	return nil
}

// ---- users ----

func (s *adminService) ListUsers(dbc dbctx.Context, f repos.UserFilter) ([]*types.User, int64, error) {
	return s.repos.Users.List(dbc, f)
}

func (s *adminService) GetUser(dbc dbctx.Context, id uuid.UUID) (*AdminUser, error) {
	u, err := s.repos.Users.GetByID(dbc, id)
	if err != nil {
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	if u == nil {
		return nil, ErrNotFound
	}
	challenges, err := s.repos.Challenges.ListByUser(dbc, u.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing challenges: %w", err)
	}
	return &AdminUser{User: u, Challenges: challenges}, nil
}

func (s *adminService) DeleteUser(dbc dbctx.Context, actor Actor, id uuid.UUID) error {
	u, err := s.repos.Users.GetByID(dbc, id)
	if err != nil {
		return fmt.Errorf("error fetching user: %w", err)
	}
	if u == nil {
		return ErrNotFound
	}
	if _, err := s.repos.Users.DeleteByID(dbc, id); err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	s.audit(dbc, actor, types.ActionDelete, types.EntityUser, id.String(), map[string]any{
		"email": u.Email, "external_id": u.ExternalID,
	})
	return nil
}

// ---- challenges ----

func (s *adminService) ListChallenges(dbc dbctx.Context, f repos.ChallengeFilter) ([]*types.Challenge, int64, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, validation("invalid_status", "unknown challenge status")
	}
	return s.repos.Challenges.List(dbc, f)
}

func (s *adminService) GetChallenge(dbc dbctx.Context, id uuid.UUID) (*types.Challenge, error) {
	c, err := s.repos.Challenges.GetByID(dbc, id, repos.ChallengeLoad{Meals: true, Persona: true, User: true})
	if err != nil {
		return nil, fmt.Errorf("error fetching challenge: %w", err)
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

func (s *adminService) UpdateChallenge(dbc dbctx.Context, actor Actor, id uuid.UUID, in ChallengeUpdate) (*types.Challenge, error) {
	if in.Status != nil && !in.Status.Valid() {
		return nil, validation("invalid_status", "unknown challenge status")
	}
	before, err := s.repos.Challenges.GetByID(dbc, id, repos.ChallengeLoad{})
	if err != nil {
		return nil, fmt.Errorf("error fetching challenge: %w", err)
	}
	if before == nil {
		return nil, ErrNotFound
	}
	if in.Status != nil && !before.Status.CanTransitionTo(*in.Status) {
		return nil, ErrInvalidTransition
	}

	updates := map[string]interface{}{}
	var start time.Time
	moveStart := in.StartDate != nil && !in.StartDate.UTC().Equal(before.StartDate)
	if moveStart {
		start = in.StartDate.UTC()
		updates["start_date"] = start
		updates["end_date"] = start.AddDate(0, 0, types.ChallengeDays)
	}

	err = s.db.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.WithTx(dbc.Ctx, tx)
		if err := s.repos.Challenges.UpdateFields(inner, id, updates); err != nil {
			return fmt.Errorf("error updating challenge: %w", err)
		}
		if moveStart {
			if err := s.rederiveDayNumbers(inner, id, start); err != nil {
				return err
			}
		}
		if in.Status != nil && *in.Status != before.Status {
			ok, err := s.repos.Challenges.TransitionIfActive(inner, id, *in.Status)
			if err != nil {
				return fmt.Errorf("error updating challenge status: %w", err)
			}
			if !ok {
				return ErrInvalidTransition
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	after, err := s.repos.Challenges.GetByID(dbc, id, repos.ChallengeLoad{})
	if err != nil {
		return nil, fmt.Errorf("error fetching challenge: %w", err)
	}
	s.audit(dbc, actor, types.ActionUpdate, types.EntityChallenge, id.String(), map[string]any{
		"before": challengeDetails(before),
		"after":  challengeDetails(after),
	})
	return after, nil
}

func (s *adminService) rederiveDayNumbers(dbc dbctx.Context, challengeID uuid.UUID, start time.Time) error {
	c, err := s.repos.Challenges.GetByID(dbc, challengeID, repos.ChallengeLoad{Meals: true})
	if err != nil {
		return fmt.Errorf("error fetching challenge meals: %w", err)
	}
	if c == nil {
		return ErrNotFound
	}
	for _, m := range c.Meals {
		day := types.MealDayNumber(start, m.MealTime)
		if day == m.DayNumber {
			continue
		}
		if err := s.repos.Meals.UpdateFields(dbc, m.ID, map[string]interface{}{"day_number": day}); err != nil {
			return fmt.Errorf("error updating meal day number: %w", err)
		}
	}
	return nil
}

func challengeDetails(c *types.Challenge) map[string]any {
	if c == nil {
		return nil
	}
	return map[string]any{
		"status":     c.Status,
		"start_date": c.StartDate,
		"end_date":   c.EndDate,
	}
}

func (s *adminService) DeleteChallenge(dbc dbctx.Context, actor Actor, id uuid.UUID) error {
	ok, err := s.repos.Challenges.Delete(dbc, id)
	if err != nil {
		return fmt.Errorf("error deleting challenge: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	s.audit(dbc, actor, types.ActionDelete, types.EntityChallenge, id.String(), nil)
	return nil
}

// ---- meals ----

func (s *adminService) GetMeal(dbc dbctx.Context, id uuid.UUID) (*types.Meal, error) {
	m, err := s.repos.Meals.GetByID(dbc, id)
	if err != nil {
		return nil, fmt.Errorf("error fetching meal: %w", err)
	}
	if m == nil {
		return nil, ErrNotFound
	}
	return m, nil
}

func mealDetails(m *types.Meal) map[string]any {
	return map[string]any{
		"meal_time":  m.MealTime,
		"day_number": m.DayNumber,
		"notes":      m.Notes,
	}
}

func (s *adminService) UpdateMeal(dbc dbctx.Context, actor Actor, id uuid.UUID, in MealUpdate) (*types.Meal, error) {
	before, err := s.GetMeal(dbc, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if in.MealTime != nil {
		c, err := s.repos.Challenges.GetByID(dbc, before.ChallengeID, repos.ChallengeLoad{})
		if err != nil {
			return nil, fmt.Errorf("error fetching challenge: %w", err)
		}
		if c == nil {
			return nil, ErrNotFound
		}
		at := in.MealTime.UTC()
		updates["meal_time"] = at
		updates["day_number"] = types.MealDayNumber(c.StartDate, at)
	}
	if in.Notes != nil {
		updates["notes"] = pointers.NonEmpty(*in.Notes)
	}

	err = s.db.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.WithTx(dbc.Ctx, tx)
		if err := s.repos.Meals.UpdateFields(inner, id, updates); err != nil {
			return fmt.Errorf("error updating meal: %w", err)
		}
		if in.TagIDs != nil {
			if err := s.repos.Meals.ReplaceTags(inner, id, *in.TagIDs); err != nil {
				if repoutil.IsForeignKeyViolation(err) {
					return validation("unknown_tags", "one or more tags do not exist")
				}
				return fmt.Errorf("error replacing meal tags: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	after, err := s.GetMeal(dbc, id)
	if err != nil {
		return nil, err
	}
	s.audit(dbc, actor, types.ActionUpdate, types.EntityMeal, id.String(), map[string]any{
		"before": mealDetails(before),
		"after":  mealDetails(after),
	})
	return after, nil
}

func (s *adminService) DeleteMeal(dbc dbctx.Context, actor Actor, id uuid.UUID) error {
	n, err := s.repos.Meals.DeleteByIDs(dbc, []uuid.UUID{id})
	if err != nil {
		return fmt.Errorf("error deleting meal: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	s.audit(dbc, actor, types.ActionDelete, types.EntityMeal, id.String(), nil)
	return nil
}

func (s *adminService) BulkDeleteMeals(dbc dbctx.Context, actor Actor, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, validation("invalid_input", "at least one meal id is required")
	}
	n, err := s.repos.Meals.DeleteByIDs(dbc, ids)
	if err != nil {
		return 0, fmt.Errorf("error deleting meals: %w", err)
	}
	if n == 0 {
		return 0, ErrNotFound
	}
	idStrings := make([]string, 0, len(ids))
	for _, id := range ids {
		idStrings = append(idStrings, id.String())
	}
	s.audit(dbc, actor, types.ActionDelete, types.EntityMeal, "", map[string]any{
		"bulk_delete": map[string]any{"count": n, "meal_ids": idStrings},
	})
	return n, nil
}

// ---- personas ----

func (s *adminService) ListPersonas(dbc dbctx.Context, page repoutil.Page) ([]*types.Persona, int64, error) {
	return s.repos.Personas.List(dbc, page)
}

func (s *adminService) getPersona(dbc dbctx.Context, id uuid.UUID) (*types.Persona, error) {
	p, err := s.repos.Personas.GetByID(dbc, id)
	if err != nil {
		return nil, fmt.Errorf("error fetching persona: %w", err)
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *adminService) GetPersona(dbc dbctx.Context, id uuid.UUID) (*AdminPersona, error) {
	p, err := s.getPersona(dbc, id)
	if err != nil {
		return nil, err
	}
	c, err := s.repos.Challenges.GetByID(dbc, p.ChallengeID, repos.ChallengeLoad{User: true})
	if err != nil {
		return nil, fmt.Errorf("error fetching challenge: %w", err)
	}
	return &AdminPersona{Persona: p, Challenge: c}, nil
}

func (s *adminService) OverridePersona(dbc dbctx.Context, actor Actor, id uuid.UUID, in PersonaOverride) (*types.Persona, error) {
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, validation("invalid_input", "title is required")
	}
	if in.Description != nil && strings.TrimSpace(*in.Description) == "" {
		return nil, validation("invalid_input", "description is required")
	}
	before, err := s.getPersona(dbc, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if in.Title != nil {
		updates["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		updates["description"] = strings.TrimSpace(*in.Description)
	}
	if in.Stats != nil {
		raw, err := types.EncodeStats(in.Stats)
		if err != nil {
			return nil, validation("invalid_stats", "stats could not be encoded")
		}
		updates["stats_json"] = raw
	}
	if err := s.repos.Personas.UpdateFields(dbc, id, updates); err != nil {
		return nil, fmt.Errorf("error updating persona: %w", err)
	}
	after, err := s.getPersona(dbc, id)
	if err != nil {
		return nil, err
	}
	s.audit(dbc, actor, types.ActionUpdate, types.EntityPersona, id.String(), map[string]any{
		"before": map[string]any{"title": before.Title, "description": before.Description},
		"after":  map[string]any{"title": after.Title, "description": after.Description},
	})
	return after, nil
}

func (s *adminService) RegenerateInsight(dbc dbctx.Context, actor Actor, id uuid.UUID) (*types.Persona, error) {
	p, err := s.getPersona(dbc, id)
	if err != nil {
		return nil, err
	}
	stats, err := p.Stats()
	if err != nil {
		return nil, fmt.Errorf("error decoding persona stats: %w", err)
	}
	if s.narrative == nil {
		return nil, narrativeFailed(ErrNarrativeUnavailable)
	}

	ctx, cancel := context.WithTimeout(dbc.Ctx, s.narrativeTimeout)
	text, genErr := s.narrative.Generate(ctx, p.Title, persona.Stats(stats))
	cancel()
	text = strings.TrimSpace(text)
	if genErr == nil && text == "" {
		genErr = errors.New("empty narrative")
	}
	if genErr != nil {
		s.log.Warn("Narrative regeneration failed", "persona_id", id, "error", genErr)
		return nil, narrativeFailed(genErr)
	}

	if err := s.repos.Personas.UpdateFields(dbc, id, map[string]interface{}{"ai_insight": text}); err != nil {
		return nil, fmt.Errorf("error updating persona: %w", err)
	}
	previous := p.AIInsight
	p.AIInsight = &text
	s.audit(dbc, actor, types.ActionUpdate, types.EntityPersona, id.String(), map[string]any{
		"action":           "regenerate_insight",
		"previous_insight": previous,
		"new_insight":      text,
	})
	return p, nil
}

func narrativeFailed(err error) error {
	return apierr.Upstream("narrative_failed", fmt.Errorf("failed to generate insight: %w", err))
}

func (s *adminService) ListActivities(dbc dbctx.Context, f repos.ActivityFilter) ([]*types.AdminActivity, int64, error) {
	return s.repos.Activities.List(dbc, f)
}
