package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mealpersona-backend/internal/data/repos"
	"github.com/yungbote/mealpersona-backend/internal/data/repos/repoutil"
	types "github.com/yungbote/mealpersona-backend/internal/domain"
	"github.com/yungbote/mealpersona-backend/internal/modules/persona"
	"github.com/yungbote/mealpersona-backend/internal/platform/dbctx"
	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
	"github.com/yungbote/mealpersona-backend/internal/platform/pointers"
)

type AddMealInput struct {
	ImageURL string
	TagSlugs []string
	Notes    string
}

type ChallengeService interface {
	Start(dbc dbctx.Context) (*types.Challenge, error)
	// Active returns nil without error when the caller has no ACTIVE challenge.
	Active(dbc dbctx.Context) (*types.Challenge, error)
	Eligibility(dbc dbctx.Context) (persona.Verdict, error)
	AddMeal(dbc dbctx.Context, in AddMealInput) (*types.Meal, error)
	Abandon(dbc dbctx.Context) (*types.Challenge, error)
	History(dbc dbctx.Context) ([]*types.Challenge, error)
}

type challengeService struct {
	db            *gorm.DB
	log           *logger.Logger
	users         UserService
	challengeRepo repos.ChallengeRepo
	mealRepo      repos.MealRepo
	tagRepo       repos.TagRepo
	rules         persona.Rules
	clock         Clock
}

func NewChallengeService(
	db *gorm.DB,
	log *logger.Logger,
	users UserService,
	challengeRepo repos.ChallengeRepo,
	mealRepo repos.MealRepo,
	tagRepo repos.TagRepo,
	rules persona.Rules,
	clock Clock,
) ChallengeService {
	return &challengeService{
		db:            db,
		log:           log.With("service", "ChallengeService"),
		users:         users,
		challengeRepo: challengeRepo,
		mealRepo:      mealRepo,
		tagRepo:       tagRepo,
		rules:         rules.WithDefaults(),
		clock:         clock,
	}
}

func (cs *challengeService) Start(dbc dbctx.Context) (*types.Challenge, error) {
	u, err := cs.users.EnsureUser(dbc)
	if err != nil {
		return nil, err
	}
	existing, err := cs.challengeRepo.GetActiveByUser(dbc, u.ID, repos.ChallengeLoad{})
	if err != nil {
		return nil, fmt.Errorf("error fetching active challenge: %w", err)
	}
	if existing != nil {
		return nil, ErrActiveChallengeExists
	}

	c := types.NewChallenge(u.ID, cs.clock.Now())
	if err := cs.challengeRepo.Create(dbc, c); err != nil {
		// The partial unique index catches a concurrent start.
		if repoutil.IsUniqueViolation(err) {
			return nil, ErrActiveChallengeExists
		}
		return nil, fmt.Errorf("error creating challenge: %w", err)
	}
	cs.log.Info("Challenge started", "user_id", u.ID, "challenge_id", c.ID)
	return c, nil
}

func (cs *challengeService) Active(dbc dbctx.Context) (*types.Challenge, error) {
	u, err := cs.users.EnsureUser(dbc)
	if err != nil {
		return nil, err
	}
	c, err := cs.challengeRepo.GetActiveByUser(dbc, u.ID, repos.ChallengeLoad{Meals: true})
	if err != nil {
		return nil, fmt.Errorf("error fetching active challenge: %w", err)
	}
	return c, nil
}

func (cs *challengeService) Eligibility(dbc dbctx.Context) (persona.Verdict, error) {
	c, err := cs.Active(dbc)
	if err != nil {
		return persona.Verdict{}, err
	}
	if c == nil {
		return persona.Verdict{}, ErrNoActiveChallenge
	}
	return persona.Evaluate(persona.FromChallenge(c), cs.clock.Now(), cs.rules), nil
}

// NormalizeSlugs lowercases, trims and dedupes slugs, keeping first-seen order.
func NormalizeSlugs(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			s := strings.ToLower(strings.TrimSpace(part))
			if s == "" {
				continue
			}
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

// resolveTags loads tags by slug and fails when any slug is unknown.
func resolveTags(dbc dbctx.Context, tagRepo repos.TagRepo, slugs []string) ([]*types.Tag, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	tags, err := tagRepo.GetBySlugs(dbc, slugs)
	if err != nil {
		return nil, fmt.Errorf("error fetching tags: %w", err)
	}
	if len(tags) != len(slugs) {
		found := make(map[string]struct{}, len(tags))
		for _, t := range tags {
			found[t.Slug] = struct{}{}
		}
		var missing []string
		for _, s := range slugs {
			if _, ok := found[s]; !ok {
				missing = append(missing, s)
			}
		}
		sort.Strings(missing)
		return nil, validation("unknown_tags", "unknown tags: "+strings.Join(missing, ", "))
	}
	return tags, nil
}

func tagIDs(tags []*types.Tag) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}
	return ids
}

func (cs *challengeService) AddMeal(dbc dbctx.Context, in AddMealInput) (*types.Meal, error) {
	if strings.TrimSpace(in.ImageURL) == "" {
		return nil, validation("missing_image", "image is required")
	}
	u, err := cs.users.EnsureUser(dbc)
	if err != nil {
		return nil, err
	}
	c, err := cs.challengeRepo.GetActiveByUser(dbc, u.ID, repos.ChallengeLoad{})
	if err != nil {
		return nil, fmt.Errorf("error fetching active challenge: %w", err)
	}
	if c == nil {
		return nil, ErrNoActiveChallenge
	}
	tags, err := resolveTags(dbc, cs.tagRepo, NormalizeSlugs(in.TagSlugs))
	if err != nil {
		return nil, err
	}

	now := cs.clock.Now().UTC()
	meal := &types.Meal{
		ChallengeID: c.ID,
		ImageURL:    strings.TrimSpace(in.ImageURL),
		MealTime:    now,
		DayNumber:   types.MealDayNumber(c.StartDate, now),
		Notes:       pointers.NonEmpty(in.Notes),
	}

	err = cs.db.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		return cs.mealRepo.Create(dbctx.WithTx(dbc.Ctx, tx), meal, tagIDs(tags))
	})
	if err != nil {
		return nil, fmt.Errorf("error saving meal: %w", err)
	}

	meal.MealTags = make([]types.MealTag, 0, len(tags))
	for _, t := range tags {
		meal.MealTags = append(meal.MealTags, types.MealTag{MealID: meal.ID, TagID: t.ID, Tag: t})
	}
	cs.log.Debug("Meal logged", "challenge_id", c.ID, "day", meal.DayNumber, "tags", len(tags))
	return meal, nil
}

func (cs *challengeService) Abandon(dbc dbctx.Context) (*types.Challenge, error) {
	u, err := cs.users.EnsureUser(dbc)
	if err != nil {
		return nil, err
	}
	c, err := cs.challengeRepo.GetActiveByUser(dbc, u.ID, repos.ChallengeLoad{})
	if err != nil {
		return nil, fmt.Errorf("error fetching active challenge: %w", err)
	}
	if c == nil {
		return nil, ErrNoActiveChallenge
	}
	ok, err := cs.challengeRepo.TransitionIfActive(dbc, c.ID, types.ChallengeStatusAbandoned)
	if err != nil {
		return nil, fmt.Errorf("error abandoning challenge: %w", err)
	}
	if !ok {
		return nil, ErrChallengeAlreadyCompleted
	}
	c.Status = types.ChallengeStatusAbandoned
	return c, nil
}

func (cs *challengeService) History(dbc dbctx.Context) ([]*types.Challenge, error) {
	u, err := cs.users.EnsureUser(dbc)
	if err != nil {
		return nil, err
	}
	out, err := cs.challengeRepo.ListByUser(dbc, u.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing challenges: %w", err)
	}
	return out, nil
}
