package persona

import (
	"sort"
	"time"
)

// Stats maps a tag slug to its integer share of all tag occurrences.
type Stats map[string]int

// Get returns 0 for absent slugs.
func (s Stats) Get(slug string) int {
	return s[slug]
}

// Max is the highest percentage, 0 for empty stats, which therefore classify as zen.
func (s Stats) Max() int {
	max := 0
	for _, v := range s {
		if v > max {
			max = v
		}
	}
	return max
}

// Entry is one slug/percentage pair.
type Entry struct {
	Slug    string `json:"slug"`
	Percent int    `json:"percent"`
}

// Sorted returns non-zero entries, highest share first, ties by slug.
func (s Stats) Sorted() []Entry {
	out := make([]Entry, 0, len(s))
	for slug, v := range s {
		if v > 0 {
			out = append(out, Entry{Slug: slug, Percent: v})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Percent != out[j].Percent {
			return out[i].Percent > out[j].Percent
		}
		return out[i].Slug < out[j].Slug
	})
	return out
}

type TagRef struct {
	Slug     string
	Category string
}

type TaggedMeal struct {
	MealTime time.Time
	Tags     []TagRef
}

// Aggregate counts (meal, tag) occurrences and converts them to percentages
// of the total, rounding half away from zero. A slug counts at most once per
// meal. No tags at all yields an empty map.
func Aggregate(meals []TaggedMeal) Stats {
	counts := map[string]int{}
	total := 0
	for _, m := range meals {
		seen := make(map[string]struct{}, len(m.Tags))
		for _, t := range m.Tags {
			if t.Slug == "" {
				continue
			}
			if _, dup := seen[t.Slug]; dup {
				continue
			}
			seen[t.Slug] = struct{}{}
			counts[t.Slug]++
			total++
		}
	}
	out := make(Stats, len(counts))
	if total == 0 {
		return out
	}
	for slug, n := range counts {
		out[slug] = (200*n + total) / (2 * total)
	}
	return out
}
