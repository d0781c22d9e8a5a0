package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
	"github.com/yungbote/mealpersona-backend/internal/platform/ratelimit"
	"github.com/yungbote/mealpersona-backend/internal/platform/webhook"
	"github.com/yungbote/mealpersona-backend/internal/services"
)

type Clients struct {
	Blob      services.BlobStore
	Narrative services.NarrativeGenerator
	Limiter   ratelimit.Limiter
	Webhook   webhook.Verifier
	Sessions  services.SessionVerifier
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Session tokens
	sessions, err := services.NewSessionVerifier(cfg.Session)
	if err != nil {
		return Clients{}, fmt.Errorf("init session verifier: %w", err)
	}

	// Identity webhooks
	var verifier webhook.Verifier
	if strings.TrimSpace(cfg.WebhookSecret) != "" {
		v, err := webhook.NewSvixVerifier(cfg.WebhookSecret)
		if err != nil {
			return Clients{}, fmt.Errorf("init webhook verifier: %w", err)
		}
		verifier = v
	} else {
		log.Warn("CLERK_WEBHOOK_SECRET not set; identity webhook route disabled")
	}

	// Redis (admin login limiter)
	var limiter ratelimit.Limiter
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		l, err := ratelimit.NewRedisLimiter(ctx, log, cfg.RedisAddr, services.LoginMaxAttempts, services.LoginWindow)
		if err != nil {
			log.Warn("Redis limiter unavailable; using in-process limiter", "error", err)
		} else {
			limiter = l
		}
	}
	if limiter == nil {
		limiter = ratelimit.NewMemoryLimiter(services.LoginMaxAttempts, services.LoginWindow)
	}

	// Blob store
	blob, err := resolveBlobStore(ctx, log, cfg)
	if err != nil {
		return Clients{}, err
	}

	return Clients{
		Blob:      blob,
		Narrative: resolveNarrative(ctx, log, cfg),
		Limiter:   limiter,
		Webhook:   verifier,
		Sessions:  sessions,
	}, nil
}
