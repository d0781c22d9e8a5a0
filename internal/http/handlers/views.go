package handlers

import (
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/mealpersona-backend/internal/domain"
	"github.com/yungbote/mealpersona-backend/internal/modules/persona"
)

type mealView struct {
	ID          uuid.UUID   `json:"id"`
	ChallengeID uuid.UUID   `json:"challenge_id"`
	ImageURL    string      `json:"image_url"`
	MealTime    time.Time   `json:"meal_time"`
	DayNumber   int         `json:"day_number"`
	Notes       *string     `json:"notes"`
	Tags        []types.Tag `json:"tags"`
	CreatedAt   time.Time   `json:"created_at"`
}

func newMealView(m *types.Meal) mealView {
	return mealView{
		ID:          m.ID,
		ChallengeID: m.ChallengeID,
		ImageURL:    m.ImageURL,
		MealTime:    m.MealTime,
		DayNumber:   m.DayNumber,
		Notes:       m.Notes,
		Tags:        m.Tags(),
		CreatedAt:   m.CreatedAt,
	}
}

type challengeView struct {
	ID        uuid.UUID             `json:"id"`
	UserID    uuid.UUID             `json:"user_id"`
	User      *types.User           `json:"user,omitempty"`
	StartDate time.Time             `json:"start_date"`
	EndDate   time.Time             `json:"end_date"`
	Status    types.ChallengeStatus `json:"status"`
	MealCount int                   `json:"meal_count"`
	Meals     []mealView            `json:"meals"`
	Persona   *persona.Card         `json:"persona"`
	CreatedAt time.Time             `json:"created_at"`
}

func newChallengeView(c *types.Challenge) challengeView {
	v := challengeView{
		ID:        c.ID,
		UserID:    c.UserID,
		User:      c.User,
		StartDate: c.StartDate,
		EndDate:   c.EndDate,
		Status:    c.Status,
		MealCount: len(c.Meals),
		Meals:     make([]mealView, 0, len(c.Meals)),
		CreatedAt: c.CreatedAt,
	}
	for i := range c.Meals {
		v.Meals = append(v.Meals, newMealView(&c.Meals[i]))
	}
	if c.Persona != nil {
		card := persona.NewCard(*c.Persona)
		v.Persona = &card
	}
	return v
}

func newChallengeViews(cs []*types.Challenge) []challengeView {
	out := make([]challengeView, 0, len(cs))
	for _, c := range cs {
		out = append(out, newChallengeView(c))
	}
	return out
}

func newCards(ps []*types.Persona) []persona.Card {
	out := make([]persona.Card, 0, len(ps))
	for _, p := range ps {
		out = append(out, persona.NewCard(*p))
	}
	return out
}
