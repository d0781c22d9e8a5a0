package db

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/mealpersona-backend/internal/domain"
)

//go:embed tags.yaml
var defaultTagsYAML []byte

type seedTag struct {
	Name  string `yaml:"name"`
	Slug  string `yaml:"slug"`
	Emoji string `yaml:"emoji"`
	Color string `yaml:"color"`
}

// DefaultTags parses the embedded catalogue in category order.
func DefaultTags() ([]types.Tag, error) {
	var byCategory map[string][]seedTag
	if err := yaml.Unmarshal(defaultTagsYAML, &byCategory); err != nil {
		return nil, fmt.Errorf("parse tags.yaml: %w", err)
	}
	var out []types.Tag
	for _, cat := range types.TagCategories {
		for _, t := range byCategory[string(cat)] {
			out = append(out, types.Tag{
				Name:     t.Name,
				Slug:     t.Slug,
				Category: cat,
				Emoji:    t.Emoji,
				Color:    t.Color,
			})
		}
		delete(byCategory, string(cat))
	}
	for cat := range byCategory {
		return nil, fmt.Errorf("tags.yaml: unknown category %q", cat)
	}
	return out, nil
}

// SeedTags upserts the default catalogue by slug and returns how many rows
// were written.
func SeedTags(ctx context.Context, db *gorm.DB) (int, error) {
	tags, err := DefaultTags()
	if err != nil {
		return 0, err
	}
	if len(tags) == 0 {
		return 0, nil
	}
	err = db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "category", "emoji", "color", "updated_at"}),
	}).Create(&tags).Error
	if err != nil {
		return 0, fmt.Errorf("seed tags: %w", err)
	}
	return len(tags), nil
}
