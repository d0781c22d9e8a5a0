package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/mealpersona-backend/internal/platform/gemini"
	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
	"github.com/yungbote/mealpersona-backend/internal/platform/openai"
	"github.com/yungbote/mealpersona-backend/internal/services"
)

const (
	NarrativeProviderGemini = "gemini"
	NarrativeProviderOpenAI = "openai"
)

// resolveNarrative never fails startup: a provider that cannot be built is
// replaced by the unavailable generator and completion stays fail-open.
func resolveNarrative(ctx context.Context, log *logger.Logger, cfg Config) services.NarrativeGenerator {
	gen, err := buildNarrative(ctx, log, cfg)
	if err != nil {
		log.Warn("Narrative generator unavailable", "provider", cfg.NarrativeProvider, "error", err)
		return services.NewUnavailableNarrative(log)
	}
	log.Info("Narrative generator selected", "provider", cfg.NarrativeProvider)
	return gen
}

func buildNarrative(ctx context.Context, log *logger.Logger, cfg Config) (services.NarrativeGenerator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.NarrativeProvider)) {
	case NarrativeProviderGemini, "":
		client, err := gemini.NewClient(ctx, log, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		return services.NewGeminiNarrative(client), nil
	case NarrativeProviderOpenAI:
		client, err := openai.NewClient(log, openai.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.NarrativeTimeout,
		})
		if err != nil {
			return nil, err
		}
		return services.NewOpenAINarrative(client), nil
	default:
		return nil, fmt.Errorf("unsupported NARRATIVE_PROVIDER %q", cfg.NarrativeProvider)
	}
}
