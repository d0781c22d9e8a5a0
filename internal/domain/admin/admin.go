package admin

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Admin struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string     `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password  string     `gorm:"not null;column:password" json:"-"`
	Name      string     `gorm:"not null;column:name" json:"name"`
	IsActive  bool       `gorm:"not null;default:true;column:is_active" json:"is_active"`
	LastLogin *time.Time `gorm:"column:last_login" json:"last_login"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Admin) TableName() string { return "admin" }

func (a *Admin) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

type AdminSession struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AdminID   uuid.UUID `gorm:"type:uuid;not null;index;column:admin_id" json:"admin_id"`
	Admin     *Admin    `gorm:"constraint:OnDelete:CASCADE;foreignKey:AdminID;references:ID" json:"admin,omitempty"`
	Token     string    `gorm:"uniqueIndex;not null;column:token" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index;column:expires_at" json:"expires_at"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (AdminSession) TableName() string { return "admin_session" }

func (s *AdminSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (s AdminSession) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}

type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
	ActionView   Action = "VIEW"
	ActionExport Action = "EXPORT"
)

type EntityType string

const (
	EntityUser      EntityType = "User"
	EntityChallenge EntityType = "Challenge"
	EntityMeal      EntityType = "Meal"
	EntityPersona   EntityType = "Persona"
	EntityTag       EntityType = "Tag"
	EntityAdmin     EntityType = "Admin"
)

// AdminActivity is the back-office audit trail.
type AdminActivity struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	AdminID    uuid.UUID      `gorm:"type:uuid;not null;index;column:admin_id" json:"admin_id"`
	Admin      *Admin         `gorm:"constraint:OnDelete:CASCADE;foreignKey:AdminID;references:ID" json:"admin,omitempty"`
	Action     Action         `gorm:"type:text;not null;column:action" json:"action"`
	EntityType EntityType     `gorm:"type:text;not null;index:idx_admin_activity_entity,priority:1;column:entity_type" json:"entity_type"`
	EntityID   *string        `gorm:"index:idx_admin_activity_entity,priority:2;column:entity_id" json:"entity_id"`
	Details    datatypes.JSON `gorm:"column:details" json:"details,omitempty"`
	IPAddress  *string        `gorm:"column:ip_address" json:"ip_address"`
	UserAgent  *string        `gorm:"column:user_agent" json:"user_agent"`
	CreatedAt  time.Time      `gorm:"not null;index" json:"created_at"`
}

func (AdminActivity) TableName() string { return "admin_activity" }

func (a *AdminActivity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
