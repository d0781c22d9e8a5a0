package persona

import (
	"time"
	"unicode"

	"github.com/yungbote/mealpersona-backend/internal/domain"
)

const (
	fallbackEmoji  = "🎭"
	pendingInsight = "กำลังวิเคราะห์ข้อมูล... 🤖"
)

type Power struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Emoji string `json:"emoji"`
}

type Powers struct {
	Attack  Power `json:"attack"`
	Defense Power `json:"defense"`
	Speed   Power `json:"speed"`
}

// Card is the display shape of a stored persona.
type Card struct {
	ID          string         `json:"id"`
	ChallengeID string         `json:"challenge_id"`
	Key         string         `json:"key,omitempty"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Emoji       string         `json:"emoji"`
	Stats       map[string]int `json:"stats"`
	Highlights  map[string]int `json:"highlights"`
	Powers      Powers         `json:"powers"`
	AIInsight   string         `json:"ai_insight"`
	HasInsight  bool           `json:"has_insight"`
	CreatedAt   string         `json:"created_at"`
}

var highlightSlugs = []string{"fried", "vegetable", "meat", "carbs", "dessert", "coffee", "spicy", "sweet", "salty", "sour"}

// NewCard builds the display card. Malformed stats degrade to an empty map.
func NewCard(p domain.Persona) Card {
	raw, err := p.Stats()
	if err != nil {
		raw = map[string]int{}
	}
	stats := Stats(raw)

	card := Card{
		ID:          p.ID.String(),
		ChallengeID: p.ChallengeID.String(),
		Title:       p.Title,
		Description: p.Description,
		Emoji:       fallbackEmoji,
		Stats:       raw,
		Highlights:  make(map[string]int, len(highlightSlugs)),
		Powers:      powersFor(stats),
		AIInsight:   pendingInsight,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
	}
	if d, ok := LookupByTitle(p.Title); ok {
		card.Key = d.Key
		card.Emoji = d.Emoji
	} else if e := LeadingEmoji(p.Title); e != "" {
		card.Emoji = e
	}
	for _, slug := range highlightSlugs {
		card.Highlights[slug] = stats.Get(slug)
	}
	if p.AIInsight != nil && *p.AIInsight != "" {
		card.AIInsight = *p.AIInsight
		card.HasInsight = true
	}
	return card
}

func powersFor(s Stats) Powers {
	fried, veg, coffee := s.Get("fried"), s.Get("vegetable"), s.Get("coffee")

	attack := Power{Label: "พลังโจมตี (ไขมัน)", Emoji: "💪"}
	switch {
	case fried > 50:
		attack.Value = "สูงมาก"
	case fried > 30:
		attack.Value = "สูง"
	case fried > 10:
		attack.Value = "ปานกลาง"
	default:
		attack.Value = "ต่ำ"
	}

	defense := Power{Label: "พลังป้องกัน (ผัก)", Emoji: "😅"}
	switch {
	case veg > 50:
		defense.Value = "สูงมาก"
	case veg > 30:
		defense.Value = "สูง"
	case veg > 10:
		defense.Value = "ปานกลาง"
	default:
		defense.Value = "ต่ำมาก"
	}
	if veg > 10 {
		defense.Emoji = "🛡️"
	}

	speed := Power{Label: "ความว่องไว"}
	switch {
	case coffee > 40:
		speed.Value, speed.Emoji = "เร็วมาก", "⚡"
	case coffee > 20:
		speed.Value, speed.Emoji = "เร็ว", "🏃"
	case fried > 50:
		speed.Value, speed.Emoji = "ช้าหน่วง", "🐌"
	default:
		speed.Value, speed.Emoji = "ปกติ", "🏃"
	}
	return Powers{Attack: attack, Defense: defense, Speed: speed}
}

// LeadingEmoji returns the run of symbol runes at the start of s, including
// joiners and variation selectors.
func LeadingEmoji(s string) string {
	end := 0
	for i, r := range s {
		if !isEmojiRune(r) {
			break
		}
		end = i + len(string(r))
	}
	if end == 0 {
		return ""
	}
	return s[:end]
}

func isEmojiRune(r rune) bool {
	switch {
	case r == 0x200D, r >= 0xFE00 && r <= 0xFE0F, r >= 0x1F3FB && r <= 0x1F3FF:
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF:
		return true
	case r >= 0x2600 && r <= 0x27BF, r >= 0x1F000 && r <= 0x1FAFF:
		return true
	}
	return unicode.Is(unicode.So, r)
}
