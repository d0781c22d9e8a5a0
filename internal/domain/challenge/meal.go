package challenge

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Meal struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ChallengeID uuid.UUID `gorm:"type:uuid;not null;index;column:challenge_id" json:"challenge_id"`
	ImageURL    string    `gorm:"not null;column:image_url" json:"image_url"`
	MealTime    time.Time `gorm:"not null;index;column:meal_time" json:"meal_time"`
	DayNumber   int       `gorm:"not null;column:day_number" json:"day_number"`
	Notes       *string   `gorm:"column:notes" json:"notes"`

	MealTags []MealTag `gorm:"foreignKey:MealID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Meal) TableName() string { return "meal" }

func (m *Meal) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Tags flattens the preloaded join rows.
func (m Meal) Tags() []Tag {
	out := make([]Tag, 0, len(m.MealTags))
	for _, mt := range m.MealTags {
		if mt.Tag != nil {
			out = append(out, *mt.Tag)
		}
	}
	return out
}

// MealDayNumber is the 1-based day of the challenge window a meal falls on,
// clamped to the window.
func MealDayNumber(start, mealTime time.Time) int {
	day := int(math.Floor(mealTime.Sub(start).Hours()/24)) + 1
	if day < 1 {
		return 1
	}
	if day > ChallengeDays {
		return ChallengeDays
	}
	return day
}
