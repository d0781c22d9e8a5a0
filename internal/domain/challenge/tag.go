package challenge

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TagCategory string

const (
	TagCategoryCookingMethod TagCategory = "COOKING_METHOD"
	TagCategoryFoodGroup     TagCategory = "FOOD_GROUP"
	TagCategoryTaste         TagCategory = "TASTE"
	TagCategoryBeverage      TagCategory = "BEVERAGE"
)

var TagCategories = []TagCategory{
	TagCategoryCookingMethod,
	TagCategoryFoodGroup,
	TagCategoryTaste,
	TagCategoryBeverage,
}

func (c TagCategory) Valid() bool {
	for _, known := range TagCategories {
		if c == known {
			return true
		}
	}
	return false
}

type Tag struct {
	ID       uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string      `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Slug     string      `gorm:"uniqueIndex;not null;column:slug" json:"slug"`
	Category TagCategory `gorm:"type:text;not null;index;column:category" json:"category"`
	Emoji    string      `gorm:"not null;default:'';column:emoji" json:"emoji"`
	Color    string      `gorm:"not null;default:'';column:color" json:"color"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Tag) TableName() string { return "tag" }

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// MealTag links a meal to a tag. A referenced tag cannot be deleted.
type MealTag struct {
	MealID uuid.UUID `gorm:"type:uuid;primaryKey;column:meal_id" json:"meal_id"`
	TagID  uuid.UUID `gorm:"type:uuid;primaryKey;index;column:tag_id" json:"tag_id"`
	Tag    *Tag      `gorm:"constraint:OnDelete:RESTRICT;foreignKey:TagID;references:ID" json:"tag,omitempty"`
}

func (MealTag) TableName() string { return "meal_tag" }
