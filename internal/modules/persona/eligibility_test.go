package persona

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bangkok = time.FixedZone("ICT", 7*3600)

func tagged(at time.Time, tags ...TagRef) TaggedMeal {
	return TaggedMeal{MealTime: at, Tags: tags}
}

func TestDayNumberUnclamped(t *testing.T) {
	start := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, DayNumber(start, start))
	assert.Equal(t, 1, DayNumber(start, start.Add(23*time.Hour)))
	assert.Equal(t, 7, DayNumber(start, start.Add(6*24*time.Hour)))
	assert.Equal(t, 8, DayNumber(start, start.Add(7*24*time.Hour+time.Minute)))
	assert.Equal(t, 0, DayNumber(start, start.Add(-time.Hour)))
	assert.Equal(t, 15, DayNumber(start, start.AddDate(0, 0, 14)))
}

func TestEvaluateEligibleScenario(t *testing.T) {
	start := time.Date(2025, 1, 1, 8, 0, 0, 0, bangkok)
	now := start.Add(7*24*time.Hour + time.Hour) // day 8

	fried := TagRef{Slug: "fried", Category: "COOKING_METHOD"}
	boiled := TagRef{Slug: "boiled", Category: "COOKING_METHOD"}
	rice := TagRef{Slug: "carbs", Category: "FOOD_GROUP"}
	meat := TagRef{Slug: "meat", Category: "FOOD_GROUP"}
	veg := TagRef{Slug: "vegetable", Category: "FOOD_GROUP"}
	fruit := TagRef{Slug: "fruit", Category: "FOOD_GROUP"}
	pool := []TagRef{fried, boiled, rice, meat, veg, fruit}

	var meals []TaggedMeal
	for i := 0; i < 12; i++ {
		day := i % 6
		meals = append(meals, tagged(start.AddDate(0, 0, day).Add(time.Duration(i)*time.Minute), pool[i%len(pool)]))
	}

	v := Evaluate(ChallengeSnapshot{StartDate: start, Meals: meals}, now, DefaultRules())
	require.True(t, v.Eligible, "reasons: %v", v.Reasons)
	assert.Empty(t, v.Reasons)
	assert.Equal(t, 8, v.DayNumber)
	assert.Equal(t, Totals{TotalMeals: 12, ActiveDays: 6, UniqueTags: 6, DistinctCategories: 2}, v.Totals)
}

func TestEvaluateReportsEveryUnmetGate(t *testing.T) {
	start := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	v := Evaluate(ChallengeSnapshot{StartDate: start}, start.Add(time.Hour), DefaultRules())
	require.False(t, v.Eligible)
	require.Len(t, v.Reasons, 4)
	assert.Contains(t, v.Reasons[0], "7 วัน")
	assert.Contains(t, v.Reasons[0], "1/7")
	assert.Contains(t, v.Reasons[1], "10")
	assert.Contains(t, v.Reasons[2], "5")
	assert.Contains(t, v.Reasons[3], "2 หมวด")
}

func TestEvaluateMealsOrDaysGate(t *testing.T) {
	start := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	now := start.AddDate(0, 0, 7)
	tags := []TagRef{
		{Slug: "a", Category: "TASTE"}, {Slug: "b", Category: "TASTE"}, {Slug: "c", Category: "TASTE"},
		{Slug: "d", Category: "BEVERAGE"}, {Slug: "e", Category: "BEVERAGE"},
	}

	// 10 meals all on one day: passes by total meals
	var sameDay []TaggedMeal
	for i := 0; i < 10; i++ {
		sameDay = append(sameDay, tagged(start.Add(time.Duration(i)*time.Minute), tags[i%len(tags)]))
	}
	v := Evaluate(ChallengeSnapshot{StartDate: start, Meals: sameDay}, now, DefaultRules())
	assert.True(t, v.Eligible, "reasons: %v", v.Reasons)

	// 5 meals on 5 days: passes by active days
	var spread []TaggedMeal
	for i := 0; i < 5; i++ {
		spread = append(spread, tagged(start.AddDate(0, 0, i), tags[i]))
	}
	v = Evaluate(ChallengeSnapshot{StartDate: start, Meals: spread}, now, DefaultRules())
	assert.True(t, v.Eligible, "reasons: %v", v.Reasons)

	// 9 meals on 4 days: fails only the meals-or-days gate
	var thin []TaggedMeal
	for i := 0; i < 9; i++ {
		thin = append(thin, tagged(start.AddDate(0, 0, i%4), tags[i%len(tags)]))
	}
	v = Evaluate(ChallengeSnapshot{StartDate: start, Meals: thin}, now, DefaultRules())
	require.False(t, v.Eligible)
	require.Len(t, v.Reasons, 1)
	assert.Equal(t, 9, v.Totals.TotalMeals)
	assert.Equal(t, 4, v.Totals.ActiveDays)
}

func TestEvaluateActiveDaysUseLocalCalendarDate(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	// 16:30 UTC and 17:30 UTC are different dates in Bangkok (23:30 vs 00:30).
	meals := []TaggedMeal{
		tagged(time.Date(2025, 1, 2, 16, 30, 0, 0, time.UTC)),
		tagged(time.Date(2025, 1, 2, 17, 30, 0, 0, time.UTC)),
	}
	inUTC := Evaluate(ChallengeSnapshot{StartDate: start, Meals: meals}, start.AddDate(0, 0, 8), DefaultRules())
	inBKK := Evaluate(ChallengeSnapshot{StartDate: start, Meals: meals}, start.AddDate(0, 0, 8).In(bangkok), DefaultRules())
	assert.Equal(t, 1, inUTC.Totals.ActiveDays)
	assert.Equal(t, 2, inBKK.Totals.ActiveDays)
}

func TestEvaluateMonotonicInMeals(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start.AddDate(0, 0, 3)
	var meals []TaggedMeal
	prev := Totals{}
	cats := []string{"TASTE", "BEVERAGE", "FOOD_GROUP"}
	for i := 0; i < 15; i++ {
		meals = append(meals, tagged(start.Add(time.Duration(i)*7*time.Hour),
			TagRef{Slug: string(rune('a' + i%6)), Category: cats[i%len(cats)]}))
		v := Evaluate(ChallengeSnapshot{StartDate: start, Meals: meals}, now, DefaultRules())
		require.GreaterOrEqual(t, v.Totals.TotalMeals, prev.TotalMeals)
		require.GreaterOrEqual(t, v.Totals.ActiveDays, prev.ActiveDays)
		require.GreaterOrEqual(t, v.Totals.UniqueTags, prev.UniqueTags)
		require.GreaterOrEqual(t, v.Totals.DistinctCategories, prev.DistinctCategories)
		prev = v.Totals
	}
}

func TestEvaluateIsPure(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := ChallengeSnapshot{StartDate: start, Meals: []TaggedMeal{tagged(start, TagRef{Slug: "a", Category: "TASTE"})}}
	now := start.AddDate(0, 0, 2)
	assert.Equal(t, Evaluate(snap, now, DefaultRules()), Evaluate(snap, now, DefaultRules()))
}

func TestEvaluateCustomRules(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	r := Rules{ChallengeDays: 3, MinTotalMeals: 1, MinActiveDays: 1, MinUniqueTags: 1, MinDistinctCategories: 1}
	snap := ChallengeSnapshot{StartDate: start, Meals: []TaggedMeal{tagged(start, TagRef{Slug: "a", Category: "TASTE"})}}
	v := Evaluate(snap, start.AddDate(0, 0, 2), r)
	assert.True(t, v.Eligible, "reasons: %v", v.Reasons)
}
