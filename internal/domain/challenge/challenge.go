package challenge

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mealpersona-backend/internal/domain/user"
)

const ChallengeDays = 7

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusAbandoned Status = "ABANDONED"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusCompleted || s == StatusAbandoned
}

// CanTransitionTo reports whether s -> next is allowed. ACTIVE is the only
// non-terminal state.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}
	return s == StatusActive && (next == StatusCompleted || next == StatusAbandoned)
}

type Challenge struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	User      *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	StartDate time.Time  `gorm:"not null;column:start_date" json:"start_date"`
	EndDate   time.Time  `gorm:"not null;column:end_date" json:"end_date"`
	Status    Status     `gorm:"type:text;not null;index;column:status" json:"status"`

	Meals   []Meal   `gorm:"foreignKey:ChallengeID;references:ID;constraint:OnDelete:CASCADE" json:"meals,omitempty"`
	Persona *Persona `gorm:"foreignKey:ChallengeID;references:ID;constraint:OnDelete:CASCADE" json:"persona,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Challenge) TableName() string { return "challenge" }

func (c *Challenge) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// NewChallenge opens a fresh window starting at start.
func NewChallenge(userID uuid.UUID, start time.Time) *Challenge {
	start = start.UTC()
	return &Challenge{
		UserID:    userID,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, ChallengeDays),
		Status:    StatusActive,
	}
}
