package persona

import (
	"github.com/yungbote/mealpersona-backend/internal/domain"
)

// FromMeals flattens preloaded meals (MealTags.Tag) into engine input.
func FromMeals(meals []domain.Meal) []TaggedMeal {
	out := make([]TaggedMeal, 0, len(meals))
	for _, m := range meals {
		tm := TaggedMeal{MealTime: m.MealTime}
		for _, t := range m.Tags() {
			tm.Tags = append(tm.Tags, TagRef{Slug: t.Slug, Category: string(t.Category)})
		}
		out = append(out, tm)
	}
	return out
}

func FromChallenge(c *domain.Challenge) ChallengeSnapshot {
	if c == nil {
		return ChallengeSnapshot{}
	}
	return ChallengeSnapshot{StartDate: c.StartDate, Meals: FromMeals(c.Meals)}
}
