package persona

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyCascade(t *testing.T) {
	cases := []struct {
		name  string
		stats Stats
		want  string
	}{
		{"fried dominant", Stats{"fried": 51}, KeyFriedWarrior},
		{"fried at threshold is not dominant", Stats{"fried": 50, "carbs": 50}, KeyBalanced},
		{"vegetable dominant", Stats{"vegetable": 55, "water": 45}, KeyGreenRabbit},
		{"dessert dominant", Stats{"dessert": 60, "coffee": 40}, KeySugarKing},
		{"coffee above 40", Stats{"coffee": 41, "dessert": 30, "carbs": 29}, KeyCaffeineHuman},
		{"meat dominant", Stats{"meat": 52, "grilled": 48}, KeyMeatHunter},
		{"fried+spicy", Stats{"fried": 35, "spicy": 30, "rice": 35}, KeySpicyFried},
		{"carbs+dessert", Stats{"carbs": 31, "dessert": 30, "water": 39}, KeyCarbCitizen},
		{"meat+grilled", Stats{"meat": 31, "grilled": 30, "water": 39}, KeyBBQMaster},
		{"water+vegetable", Stats{"water": 36, "vegetable": 35, "fruit": 29}, KeyMountainHermit},
		{"coffee+dessert", Stats{"coffee": 31, "dessert": 30, "fruit": 39}, KeyOfficeClassic},
		{"single fixation", Stats{"rice": 45, "egg": 30, "salty": 25}, KeyFixation},
		{"two tags above 40 is not fixation", Stats{"rice": 42, "egg": 41, "salty": 17}, KeyBalanced},
		{"balanced at 30", Stats{"a": 30, "b": 30, "c": 20, "d": 20}, KeyZen},
		{"slight preference", Stats{"rice": 35, "egg": 35, "salty": 30}, KeyBalanced},
		{"empty is zen", Stats{}, KeyZen},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.stats)
			assert.Equal(t, tc.want, got.Key)
		})
	}
}

func TestClassifyTierOneBeatsCombination(t *testing.T) {
	// satisfies fried>50 and fried+spicy>60
	got := Classify(Stats{"fried": 55, "spicy": 10, "carbs": 35})
	assert.Equal(t, KeyFriedWarrior, got.Key)
}

func TestClassifyIsDeterministic(t *testing.T) {
	s := Stats{"rice": 35, "egg": 35, "salty": 30}
	first := Classify(s)
	for i := 0; i < 50; i++ {
		require.Equal(t, first, Classify(s))
	}
}

func TestClassifierRuleOrder(t *testing.T) {
	names := []string{}
	for _, r := range NewClassifier(DefaultRules()).Rules() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{
		"fried", "vegetable", "dessert", "coffee", "meat",
		"fried+spicy", "carbs+dessert", "meat+grilled",
		"water+vegetable", "coffee+dessert",
		"single_fixation", "balanced",
	}, names)
}

func TestEachRuleInIsolation(t *testing.T) {
	hits := map[string]Stats{
		"fried":           {"fried": 51},
		"vegetable":       {"vegetable": 51},
		"dessert":         {"dessert": 51},
		"coffee":          {"coffee": 41},
		"meat":            {"meat": 51},
		"fried+spicy":     {"fried": 31, "spicy": 30},
		"carbs+dessert":   {"carbs": 31, "dessert": 30},
		"meat+grilled":    {"meat": 31, "grilled": 30},
		"water+vegetable": {"water": 36, "vegetable": 35},
		"coffee+dessert":  {"coffee": 31, "dessert": 30},
		"single_fixation": {"rice": 41},
		"balanced":        {"rice": 30},
	}
	misses := map[string]Stats{
		"fried":           {"fried": 50},
		"vegetable":       {"vegetable": 50},
		"dessert":         {"dessert": 50},
		"coffee":          {"coffee": 40},
		"meat":            {"meat": 50},
		"fried+spicy":     {"fried": 30, "spicy": 30},
		"carbs+dessert":   {"carbs": 30, "dessert": 30},
		"meat+grilled":    {"meat": 30, "grilled": 30},
		"water+vegetable": {"water": 35, "vegetable": 35},
		"coffee+dessert":  {"coffee": 30, "dessert": 30},
		"single_fixation": {"rice": 41, "egg": 41},
		"balanced":        {"rice": 31},
	}
	for _, rule := range NewClassifier(DefaultRules()).Rules() {
		require.Truef(t, rule.Match(hits[rule.Name]), "rule %s should match %v", rule.Name, hits[rule.Name])
		require.Falsef(t, rule.Match(misses[rule.Name]), "rule %s should not match %v", rule.Name, misses[rule.Name])
		require.NotEmpty(t, rule.Persona.Title)
		require.NotEmpty(t, rule.Persona.Emoji)
	}
}

func TestClassifierCustomThresholds(t *testing.T) {
	r := DefaultRules()
	r.DominantThreshold = 70
	c := NewClassifier(r)
	d, name := c.Explain(Stats{"fried": 60, "spicy": 5, "rice": 35})
	assert.Equal(t, "fried+spicy", name)
	assert.Equal(t, KeySpicyFried, d.Key)
}

func TestExplainDefault(t *testing.T) {
	_, name := NewClassifier(DefaultRules()).Explain(Stats{"rice": 35, "egg": 35, "salty": 30})
	assert.Equal(t, "default", name)
}

func TestLookupByTitle(t *testing.T) {
	d, ok := LookupByTitle("มนุษย์หลงทาง")
	require.True(t, ok)
	assert.Equal(t, KeyFixation, d.Key)
	_, ok = LookupByTitle("unknown")
	assert.False(t, ok)
}
