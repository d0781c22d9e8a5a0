package persona

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func meal(slugs ...string) TaggedMeal {
	m := TaggedMeal{}
	for _, s := range slugs {
		m.Tags = append(m.Tags, TagRef{Slug: s, Category: "FOOD_GROUP"})
	}
	return m
}

func repeat(n int, slugs ...string) []TaggedMeal {
	out := make([]TaggedMeal, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, meal(slugs...))
	}
	return out
}

func TestAggregateEmpty(t *testing.T) {
	require.Empty(t, Aggregate(nil))
	require.Empty(t, Aggregate([]TaggedMeal{meal(), meal()}))
}

func TestAggregateOccurrenceCounting(t *testing.T) {
	var meals []TaggedMeal
	meals = append(meals, repeat(6, "fried")...)
	meals = append(meals, repeat(2, "carbs")...)
	meals = append(meals, repeat(2, "coffee")...)

	got := Aggregate(meals)
	assert.Equal(t, Stats{"fried": 60, "carbs": 20, "coffee": 20}, got)
}

func TestAggregateCountsEveryTagOfAMeal(t *testing.T) {
	// 1 meal with 3 tags + 1 meal with 1 tag: denominator is 4 occurrences.
	got := Aggregate([]TaggedMeal{meal("fried", "meat", "spicy"), meal("fried")})
	assert.Equal(t, Stats{"fried": 50, "meat": 25, "spicy": 25}, got)
}

func TestAggregateDeduplicatesWithinMeal(t *testing.T) {
	got := Aggregate([]TaggedMeal{meal("fried", "fried"), meal("vegetable")})
	assert.Equal(t, Stats{"fried": 50, "vegetable": 50}, got)
}

func TestAggregateRoundsHalfAwayFromZero(t *testing.T) {
	// 1/8 = 12.5% -> 13, 7/8 = 87.5% -> 88
	meals := append(repeat(7, "rice"), meal("egg"))
	got := Aggregate(meals)
	assert.Equal(t, 88, got["rice"])
	assert.Equal(t, 13, got["egg"])

	// thirds: 33.33 -> 33 each, sum 99
	got = Aggregate([]TaggedMeal{meal("a"), meal("b"), meal("c")})
	assert.Equal(t, Stats{"a": 33, "b": 33, "c": 33}, got)
}

func TestAggregateSumWithinRoundingSlack(t *testing.T) {
	meals := []TaggedMeal{
		meal("fried", "spicy"), meal("vegetable"), meal("rice", "meat", "salty"),
		meal("coffee"), meal("dessert", "sweet"), meal("water"),
	}
	got := Aggregate(meals)
	sum := 0
	for _, v := range got {
		sum += v
	}
	slack := len(got)
	assert.GreaterOrEqual(t, sum, 100-slack)
	assert.LessOrEqual(t, sum, 100+slack)
}

func TestAggregateOrderIndependent(t *testing.T) {
	a := []TaggedMeal{meal("fried"), meal("vegetable", "water"), meal("fried", "spicy")}
	b := []TaggedMeal{a[2], a[0], a[1]}
	assert.Equal(t, Aggregate(a), Aggregate(b))
}

func TestStatsGetAndSorted(t *testing.T) {
	s := Stats{"fried": 40, "carbs": 40, "water": 20, "zero": 0}
	assert.Equal(t, 0, s.Get("missing"))
	assert.Equal(t, 40, s.Max())
	assert.Equal(t, 0, Stats{}.Max())
	assert.Equal(t, []Entry{{"carbs", 40}, {"fried", 40}, {"water", 20}}, s.Sorted())
}
