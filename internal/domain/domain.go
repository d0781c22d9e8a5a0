package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/mealpersona-backend/internal/domain/admin"
	"github.com/yungbote/mealpersona-backend/internal/domain/challenge"
	"github.com/yungbote/mealpersona-backend/internal/domain/user"
)

const (
	ChallengeStatusActive    = challenge.StatusActive
	ChallengeStatusCompleted = challenge.StatusCompleted
	ChallengeStatusAbandoned = challenge.StatusAbandoned

	TagCategoryCookingMethod = challenge.TagCategoryCookingMethod
	TagCategoryFoodGroup     = challenge.TagCategoryFoodGroup
	TagCategoryTaste         = challenge.TagCategoryTaste
	TagCategoryBeverage      = challenge.TagCategoryBeverage

	ChallengeDays = challenge.ChallengeDays

	ActionCreate = admin.ActionCreate
	ActionUpdate = admin.ActionUpdate
	ActionDelete = admin.ActionDelete
	ActionView   = admin.ActionView

	EntityUser      = admin.EntityUser
	EntityChallenge = admin.EntityChallenge
	EntityMeal      = admin.EntityMeal
	EntityPersona   = admin.EntityPersona
	EntityTag       = admin.EntityTag
	EntityAdmin     = admin.EntityAdmin
)

var TagCategories = challenge.TagCategories

type (
	User = user.User

	Tag             = challenge.Tag
	TagCategory     = challenge.TagCategory
	MealTag         = challenge.MealTag
	Meal            = challenge.Meal
	Challenge       = challenge.Challenge
	ChallengeStatus = challenge.Status
	Persona         = challenge.Persona

	Admin         = admin.Admin
	AdminSession  = admin.AdminSession
	AdminActivity = admin.AdminActivity
	AdminAction   = admin.Action
	EntityType    = admin.EntityType
)

// Models lists every table in migration order.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&Tag{},
		&Challenge{},
		&Meal{},
		&MealTag{},
		&Persona{},
		&Admin{},
		&AdminSession{},
		&AdminActivity{},
	}
}

func NewChallenge(userID uuid.UUID, start time.Time) *Challenge {
	return challenge.NewChallenge(userID, start)
}

func MealDayNumber(start, mealTime time.Time) int {
	return challenge.MealDayNumber(start, mealTime)
}

func EncodeStats(stats map[string]int) (datatypes.JSON, error) {
	return challenge.EncodeStats(stats)
}
