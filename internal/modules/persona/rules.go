package persona

// Rules holds every tunable threshold of the engine. Classifier thresholds are
// strict (value > threshold) except BalancedMax (max <= BalancedMax); the
// eligibility minimums are inclusive (value >= minimum).
type Rules struct {
	ChallengeDays         int `json:"challenge_days"`
	MinTotalMeals         int `json:"min_total_meals"`
	MinActiveDays         int `json:"min_active_days"`
	MinUniqueTags         int `json:"min_unique_tags"`
	MinDistinctCategories int `json:"min_distinct_categories"`

	DominantThreshold int `json:"dominant_threshold"`
	CoffeeThreshold   int `json:"coffee_threshold"`
	ComboThreshold    int `json:"combo_threshold"`
	HermitThreshold   int `json:"hermit_threshold"`
	FixationThreshold int `json:"fixation_threshold"`
	BalancedMax       int `json:"balanced_max"`
}

func DefaultRules() Rules {
	return Rules{
		ChallengeDays:         7,
		MinTotalMeals:         10,
		MinActiveDays:         5,
		MinUniqueTags:         5,
		MinDistinctCategories: 2,

		DominantThreshold: 50,
		CoffeeThreshold:   40,
		ComboThreshold:    60,
		HermitThreshold:   70,
		FixationThreshold: 40,
		BalancedMax:       30,
	}
}

// WithDefaults fills zero fields from DefaultRules so partial overrides from
// config stay usable.
func (r Rules) WithDefaults() Rules {
	d := DefaultRules()
	fill := func(v *int, def int) {
		if *v <= 0 {
			*v = def
		}
	}
	fill(&r.ChallengeDays, d.ChallengeDays)
	fill(&r.MinTotalMeals, d.MinTotalMeals)
	fill(&r.MinActiveDays, d.MinActiveDays)
	fill(&r.MinUniqueTags, d.MinUniqueTags)
	fill(&r.MinDistinctCategories, d.MinDistinctCategories)
	fill(&r.DominantThreshold, d.DominantThreshold)
	fill(&r.CoffeeThreshold, d.CoffeeThreshold)
	fill(&r.ComboThreshold, d.ComboThreshold)
	fill(&r.HermitThreshold, d.HermitThreshold)
	fill(&r.FixationThreshold, d.FixationThreshold)
	fill(&r.BalancedMax, d.BalancedMax)
	return r
}
