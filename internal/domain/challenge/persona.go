package challenge

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Persona struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ChallengeID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex;column:challenge_id" json:"challenge_id"`
	Title       string         `gorm:"not null;column:title" json:"title"`
	Description string         `gorm:"not null;column:description" json:"description"`
	StatsJSON   datatypes.JSON `gorm:"not null;column:stats_json" json:"stats_json"`
	AIInsight   *string        `gorm:"column:ai_insight" json:"ai_insight"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Persona) TableName() string { return "persona" }

func (p *Persona) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Stats decodes StatsJSON. A blank column decodes to an empty map.
func (p Persona) Stats() (map[string]int, error) {
	out := map[string]int{}
	if len(p.StatsJSON) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(p.StatsJSON, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func EncodeStats(stats map[string]int) (datatypes.JSON, error) {
	if stats == nil {
		stats = map[string]int{}
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
