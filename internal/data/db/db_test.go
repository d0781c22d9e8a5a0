package db

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	types "github.com/yungbote/mealpersona-backend/internal/domain"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := GormConfig()
	cfg.Logger = gormLogger.Default.LogMode(gormLogger.Silent)
	gdb, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := gdb.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}

func TestDefaultTags(t *testing.T) {
	tags, err := DefaultTags()
	if err != nil {
		t.Fatalf("DefaultTags: %v", err)
	}
	if len(tags) != 21 {
		t.Fatalf("expected 21 default tags, got %d", len(tags))
	}
	seen := map[string]bool{}
	perCategory := map[types.TagCategory]int{}
	for _, tag := range tags {
		if seen[tag.Slug] {
			t.Fatalf("duplicate slug %q", tag.Slug)
		}
		seen[tag.Slug] = true
		perCategory[tag.Category]++
		if tag.Name == "" || tag.Emoji == "" {
			t.Fatalf("incomplete tag %+v", tag)
		}
	}
	for _, slug := range []string{"fried", "vegetable", "dessert", "coffee", "meat", "spicy", "carbs", "grilled", "water"} {
		if !seen[slug] {
			t.Fatalf("classifier slug %q missing from catalogue", slug)
		}
	}
	if perCategory[types.TagCategoryCookingMethod] != 6 || perCategory[types.TagCategoryBeverage] != 4 {
		t.Fatalf("unexpected category split %v", perCategory)
	}
}

func TestMigrateAndSeedTagsIdempotent(t *testing.T) {
	gdb := openSQLite(t)
	if err := AutoMigrateAll(gdb); err != nil {
		t.Fatalf("AutoMigrateAll: %v", err)
	}
	if err := AutoMigrateAll(gdb); err != nil {
		t.Fatalf("AutoMigrateAll (again): %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		n, err := SeedTags(ctx, gdb)
		if err != nil {
			t.Fatalf("SeedTags #%d: %v", i, err)
		}
		if n != 21 {
			t.Fatalf("SeedTags #%d: wrote %d", i, n)
		}
	}
	var count int64
	if err := gdb.Model(&types.Tag{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 21 {
		t.Fatalf("expected 21 tags after reseed, got %d", count)
	}
}
