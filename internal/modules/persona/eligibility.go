package persona

import (
	"fmt"
	"time"
)

type ChallengeSnapshot struct {
	StartDate time.Time
	Meals     []TaggedMeal
}

type Totals struct {
	TotalMeals         int `json:"total_meals"`
	ActiveDays         int `json:"active_days"`
	UniqueTags         int `json:"unique_tags"`
	DistinctCategories int `json:"distinct_categories"`
}

type Verdict struct {
	Eligible  bool     `json:"eligible"`
	Reasons   []string `json:"reasons"`
	DayNumber int      `json:"day_number"`
	Totals    Totals   `json:"totals"`
}

// DayNumber is the unclamped 1-based day of the window that now falls on.
func DayNumber(start, now time.Time) int {
	const day = 24 * time.Hour
	d := now.Sub(start)
	n := int(d / day)
	if d < 0 && d%day != 0 {
		n--
	}
	return n + 1
}

// Evaluate checks the four completion gates. Every gate is evaluated so the
// caller gets the full list of unmet requirements. Active days are counted by
// calendar date in now's location.
func Evaluate(c ChallengeSnapshot, now time.Time, rules Rules) Verdict {
	rules = rules.WithDefaults()
	loc := now.Location()

	days := map[string]struct{}{}
	slugs := map[string]struct{}{}
	categories := map[string]struct{}{}
	for _, m := range c.Meals {
		days[m.MealTime.In(loc).Format("2006-01-02")] = struct{}{}
		for _, t := range m.Tags {
			if t.Slug != "" {
				slugs[t.Slug] = struct{}{}
			}
			if t.Category != "" {
				categories[t.Category] = struct{}{}
			}
		}
	}

	v := Verdict{
		Reasons:   []string{},
		DayNumber: DayNumber(c.StartDate, now),
		Totals: Totals{
			TotalMeals:         len(c.Meals),
			ActiveDays:         len(days),
			UniqueTags:         len(slugs),
			DistinctCategories: len(categories),
		},
	}

	if v.DayNumber < rules.ChallengeDays {
		v.Reasons = append(v.Reasons, fmt.Sprintf("ต้องครบ %d วัน (วันนี้วันที่ %d/%d)", rules.ChallengeDays, v.DayNumber, rules.ChallengeDays))
	}
	if v.Totals.TotalMeals < rules.MinTotalMeals && v.Totals.ActiveDays < rules.MinActiveDays {
		v.Reasons = append(v.Reasons, fmt.Sprintf("ต้องมีมื้อรวม ≥ %d หรือมีอย่างน้อย 1 มื้อใน ≥ %d วัน", rules.MinTotalMeals, rules.MinActiveDays))
	}
	if v.Totals.UniqueTags < rules.MinUniqueTags {
		v.Reasons = append(v.Reasons, fmt.Sprintf("ต้องมีแท็กไม่ซ้ำ ≥ %d", rules.MinUniqueTags))
	}
	if v.Totals.DistinctCategories < rules.MinDistinctCategories {
		v.Reasons = append(v.Reasons, fmt.Sprintf("ต้องมีแท็กจากอย่างน้อย %d หมวด", rules.MinDistinctCategories))
	}
	v.Eligible = len(v.Reasons) == 0
	return v
}
