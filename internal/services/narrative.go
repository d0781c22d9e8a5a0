package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/mealpersona-backend/internal/modules/persona"
	"github.com/yungbote/mealpersona-backend/internal/platform/gemini"
	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
	"github.com/yungbote/mealpersona-backend/internal/platform/openai"
)

// NarrativeGenerator writes the free-text persona analysis. Callers bound it
// with a deadline; implementations make a single attempt.
type NarrativeGenerator interface {
	Generate(ctx context.Context, title string, stats persona.Stats) (string, error)
}

const narrativePromptTemplate = "คุณเป็น AI นักวิเคราะห์อาหารที่มีอารมณ์ขันและสร้างสรรค์\n\n" +
	"User ได้รับฉายา: \"%s\"\n" +
	"สถิติอาหาร 7 วัน: %s\n\n" +
	"เขียนบทวิเคราะห์ส่วนตัวที่:\n" +
	"1. ตลกและสนุกสนาน แต่ไม่ทำร้ายจิตใจ\n" +
	"2. อิงจากฉายาและสถิติที่ให้มา\n" +
	"3. กำลังใจและสร้างสรรค์\n" +
	"4. ความยาวประมาณ 100-150 คำ\n" +
	"5. ใช้ emoji เพิ่มความสนุก\n\n" +
	"ตอบเป็นภาษาไทยเท่านั้น"

// NarrativePrompt renders non-zero stats as "slug: N%" in descending order.
func NarrativePrompt(title string, stats persona.Stats) string {
	parts := make([]string, 0, len(stats))
	for _, e := range stats.Sorted() {
		if e.Percent <= 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %d%%", e.Slug, e.Percent))
	}
	return fmt.Sprintf(narrativePromptTemplate, title, strings.Join(parts, ", "))
}

type geminiNarrative struct {
	client gemini.Client
}

func NewGeminiNarrative(client gemini.Client) NarrativeGenerator {
	return &geminiNarrative{client: client}
}

func (g *geminiNarrative) Generate(ctx context.Context, title string, stats persona.Stats) (string, error) {
	return g.client.GenerateText(ctx, NarrativePrompt(title, stats))
}

type openAINarrative struct {
	client openai.Client
}

func NewOpenAINarrative(client openai.Client) NarrativeGenerator {
	return &openAINarrative{client: client}
}

func (o *openAINarrative) Generate(ctx context.Context, title string, stats persona.Stats) (string, error) {
	return o.client.GenerateText(ctx, "", NarrativePrompt(title, stats))
}

type unavailableNarrative struct{}

// NewUnavailableNarrative is used when no provider is configured. Completion
// still succeeds; the persona is stored without an insight.
func NewUnavailableNarrative(log *logger.Logger) NarrativeGenerator {
	log.With("service", "NarrativeGenerator").Warn("No narrative provider configured, personas will have no insight")
	return unavailableNarrative{}
}

func (unavailableNarrative) Generate(context.Context, string, persona.Stats) (string, error) {
	return "", ErrNarrativeUnavailable
}
