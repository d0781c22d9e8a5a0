package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
)

const DefaultModel = "gemini-2.5-flash"

type Client interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type client struct {
	log   *logger.Logger
	genai *genai.Client
	model string
}

func NewClient(ctx context.Context, log *logger.Logger, apiKey, model string) (Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &client{
		log:   log.With("service", "GeminiClient"),
		genai: gc,
		model: model,
	}, nil
}

func (c *client) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("GenAI returned no text")
	}
	c.log.Debug("Gemini text generated", "model", c.model, "chars", len(text))
	return text, nil
}
