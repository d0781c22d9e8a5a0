package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mealpersona-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, externalID string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:         uuid.New(),
		ExternalID: externalID,
		Email:      externalID + "@example.com",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedTag(tb testing.TB, ctx context.Context, tx *gorm.DB, slug string, category types.TagCategory) *types.Tag {
	tb.Helper()
	t := &types.Tag{
		ID:       uuid.New(),
		Name:     "tag-" + slug,
		Slug:     slug,
		Category: category,
		Emoji:    "🍽️",
		Color:    "#aabbcc",
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed tag: %v", err)
	}
	return t
}

func SeedChallenge(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, start time.Time, status types.ChallengeStatus) *types.Challenge {
	tb.Helper()
	c := &types.Challenge{
		ID:        uuid.New(),
		UserID:    userID,
		StartDate: start.UTC(),
		EndDate:   start.UTC().AddDate(0, 0, types.ChallengeDays),
		Status:    status,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed challenge: %v", err)
	}
	return c
}

func SeedMeal(tb testing.TB, ctx context.Context, tx *gorm.DB, c *types.Challenge, at time.Time, tags ...*types.Tag) *types.Meal {
	tb.Helper()
	m := &types.Meal{
		ID:          uuid.New(),
		ChallengeID: c.ID,
		ImageURL:    "https://cdn.example.com/meal.jpg",
		MealTime:    at.UTC(),
		DayNumber:   types.MealDayNumber(c.StartDate, at),
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed meal: %v", err)
	}
	for _, t := range tags {
		if err := tx.WithContext(ctx).Create(&types.MealTag{MealID: m.ID, TagID: t.ID}).Error; err != nil {
			tb.Fatalf("seed meal tag: %v", err)
		}
	}
	return m
}
