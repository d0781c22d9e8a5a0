package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/yungbote/mealpersona-backend/internal/data/repos"
	"github.com/yungbote/mealpersona-backend/internal/data/repos/repoutil"
	types "github.com/yungbote/mealpersona-backend/internal/domain"
	"github.com/yungbote/mealpersona-backend/internal/modules/persona"
	"github.com/yungbote/mealpersona-backend/internal/observability"
	"github.com/yungbote/mealpersona-backend/internal/platform/dbctx"
	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
)

const DefaultNarrativeTimeout = 20 * time.Second

type PersonaService interface {
	CompleteActiveChallenge(dbc dbctx.Context) (*types.Persona, error)
	// Latest returns nil without error when the caller has no persona yet.
	Latest(dbc dbctx.Context) (*types.Persona, error)
	List(dbc dbctx.Context) ([]*types.Persona, error)
	Get(dbc dbctx.Context, id uuid.UUID) (*types.Persona, error)
}

type personaService struct {
	db               *gorm.DB
	log              *logger.Logger
	users            UserService
	challengeRepo    repos.ChallengeRepo
	personaRepo      repos.PersonaRepo
	classifier       *persona.Classifier
	rules            persona.Rules
	narrative        NarrativeGenerator
	narrativeTimeout time.Duration
	clock            Clock
}

type PersonaServiceConfig struct {
	Rules            persona.Rules
	NarrativeTimeout time.Duration
	Clock            Clock
}

func NewPersonaService(
	db *gorm.DB,
	log *logger.Logger,
	users UserService,
	challengeRepo repos.ChallengeRepo,
	personaRepo repos.PersonaRepo,
	narrative NarrativeGenerator,
	cfg PersonaServiceConfig,
) PersonaService {
	rules := cfg.Rules.WithDefaults()
	timeout := cfg.NarrativeTimeout
	if timeout <= 0 {
		timeout = DefaultNarrativeTimeout
	}
	return &personaService{
		db:               db,
		log:              log.With("service", "PersonaService"),
		users:            users,
		challengeRepo:    challengeRepo,
		personaRepo:      personaRepo,
		classifier:       persona.NewClassifier(rules),
		rules:            rules,
		narrative:        narrative,
		narrativeTimeout: timeout,
		clock:            cfg.Clock,
	}
}

// CompleteActiveChallenge re-reads the caller's ACTIVE challenge, checks
// eligibility, classifies it, and stores the persona while moving the
// challenge to COMPLETED in one transaction.
func (ps *personaService) CompleteActiveChallenge(dbc dbctx.Context) (*types.Persona, error) {
	ctx, span := observability.Tracer().Start(dbc.Ctx, "persona.complete_challenge")
	defer span.End()
	dbc = dbctx.Context{Ctx: ctx, Tx: dbc.Tx}

	p, err := ps.complete(dbc)
	if err != nil {
		var inelig *IneligibleError
		if !errors.As(err, &inelig) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return nil, err
	}
	span.SetAttributes(
		attribute.String("persona.challenge_id", p.ChallengeID.String()),
		attribute.String("persona.title", p.Title),
		attribute.Bool("persona.has_insight", p.AIInsight != nil),
	)
	return p, nil
}

func (ps *personaService) complete(dbc dbctx.Context) (*types.Persona, error) {
	u, err := ps.users.EnsureUser(dbc)
	if err != nil {
		return nil, err
	}
	c, err := ps.challengeRepo.GetActiveByUser(dbc, u.ID, repos.ChallengeLoad{Meals: true})
	if err != nil {
		return nil, fmt.Errorf("error fetching active challenge: %w", err)
	}
	if c == nil {
		return nil, ErrNoActiveChallenge
	}

	verdict := persona.Evaluate(persona.FromChallenge(c), ps.clock.Now(), ps.rules)
	if !verdict.Eligible {
		return nil, &IneligibleError{Verdict: verdict}
	}

	stats := persona.Aggregate(persona.FromMeals(c.Meals))
	desc, rule := ps.classifier.Explain(stats)
	insight := ps.narrate(dbc.Ctx, desc.Title, stats)

	statsJSON, err := types.EncodeStats(stats)
	if err != nil {
		return nil, fmt.Errorf("error encoding stats: %w", err)
	}
	p := &types.Persona{
		ChallengeID: c.ID,
		Title:       desc.Title,
		Description: desc.Description,
		StatsJSON:   statsJSON,
		AIInsight:   insight,
	}

	err = ps.db.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.WithTx(dbc.Ctx, tx)
		if err := ps.personaRepo.Create(inner, p); err != nil {
			if repoutil.IsUniqueViolation(err) {
				return ErrChallengeAlreadyCompleted
			}
			return fmt.Errorf("error creating persona: %w", err)
		}
		ok, err := ps.challengeRepo.TransitionIfActive(inner, c.ID, types.ChallengeStatusCompleted)
		if err != nil {
			return fmt.Errorf("error completing challenge: %w", err)
		}
		if !ok {
			return ErrChallengeAlreadyCompleted
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrChallengeAlreadyCompleted) {
			ps.log.Warn("Challenge completed concurrently", "challenge_id", c.ID)
		}
		return nil, err
	}

	ps.log.Info("Challenge completed",
		"challenge_id", c.ID,
		"persona", desc.Key,
		"rule", rule,
		"has_insight", insight != nil,
	)
	return p, nil
}

// narrate makes one bounded attempt. Failure leaves the insight empty.
func (ps *personaService) narrate(ctx context.Context, title string, stats persona.Stats) *string {
	if ps.narrative == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, ps.narrativeTimeout)
	defer cancel()

	_, span := observability.Tracer().Start(ctx, "persona.narrative")
	defer span.End()

	text, err := ps.narrative.Generate(ctx, title, stats)
	if err != nil {
		span.RecordError(err)
		ps.log.Warn("Narrative generation failed, storing persona without insight", "error", err)
		return nil
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return &text
}

func (ps *personaService) Latest(dbc dbctx.Context) (*types.Persona, error) {
	u, err := ps.users.EnsureUser(dbc)
	if err != nil {
		return nil, err
	}
	p, err := ps.personaRepo.LatestForUser(dbc, u.ID)
	if err != nil {
		return nil, fmt.Errorf("error fetching persona: %w", err)
	}
	return p, nil
}

func (ps *personaService) List(dbc dbctx.Context) ([]*types.Persona, error) {
	u, err := ps.users.EnsureUser(dbc)
	if err != nil {
		return nil, err
	}
	out, err := ps.personaRepo.ListForUser(dbc, u.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing personas: %w", err)
	}
	return out, nil
}

func (ps *personaService) Get(dbc dbctx.Context, id uuid.UUID) (*types.Persona, error) {
	u, err := ps.users.EnsureUser(dbc)
	if err != nil {
		return nil, err
	}
	p, err := ps.personaRepo.GetForUser(dbc, id, u.ID)
	if err != nil {
		return nil, fmt.Errorf("error fetching persona: %w", err)
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}
