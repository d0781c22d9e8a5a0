package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/mealpersona-backend/internal/data/repos"
	"github.com/yungbote/mealpersona-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mealpersona-backend/internal/domain"
	"github.com/yungbote/mealpersona-backend/internal/modules/persona"
	"github.com/yungbote/mealpersona-backend/internal/platform/apierr"
	"github.com/yungbote/mealpersona-backend/internal/platform/ctxutil"
	"github.com/yungbote/mealpersona-backend/internal/platform/dbctx"
	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	db    *gorm.DB
	log   *logger.Logger
	repos repos.Set
	users UserService
	clock Clock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	set := repos.NewSet(db, log)
	return &testEnv{
		db:    db,
		log:   log,
		repos: set,
		users: NewUserService(db, log, set.Users),
		clock: Clock{Loc: time.UTC, NowFunc: func() time.Time { return testNow }},
	}
}

// as returns a context authenticated as externalID.
func (e *testEnv) as(externalID string) dbctx.Context {
	ctx := ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{
		ExternalID: externalID,
		Email:      externalID + "@example.com",
	})
	return dbctx.New(ctx)
}

func (e *testEnv) challengeService() ChallengeService {
	return NewChallengeService(e.db, e.log, e.users, e.repos.Challenges, e.repos.Meals, e.repos.Tags, persona.DefaultRules(), e.clock)
}

func (e *testEnv) personaService(gen NarrativeGenerator) PersonaService {
	return NewPersonaService(e.db, e.log, e.users, e.repos.Challenges, e.repos.Personas, gen, PersonaServiceConfig{
		NarrativeTimeout: time.Second,
		Clock:            e.clock,
	})
}

type tagSet struct {
	fried, vegetable, meat, spicy, coffee *types.Tag
}

func (e *testEnv) seedCatalogue(t *testing.T) tagSet {
	t.Helper()
	ctx := context.Background()
	return tagSet{
		fried:     testutil.SeedTag(t, ctx, e.db, "fried", types.TagCategoryCookingMethod),
		vegetable: testutil.SeedTag(t, ctx, e.db, "vegetable", types.TagCategoryFoodGroup),
		meat:      testutil.SeedTag(t, ctx, e.db, "meat", types.TagCategoryFoodGroup),
		spicy:     testutil.SeedTag(t, ctx, e.db, "spicy", types.TagCategoryTaste),
		coffee:    testutil.SeedTag(t, ctx, e.db, "coffee", types.TagCategoryBeverage),
	}
}

// seedEligible creates a day-8 ACTIVE challenge with ten fried-heavy meals
// spread over five calendar days.
func (e *testEnv) seedEligible(t *testing.T, externalID string, tags tagSet) *types.Challenge {
	t.Helper()
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, e.db, externalID)
	start := testNow.AddDate(0, 0, -7)
	c := testutil.SeedChallenge(t, ctx, e.db, u.ID, start, types.ChallengeStatusActive)
	extras := []*types.Tag{tags.vegetable, tags.meat, tags.spicy, tags.coffee}
	for i := 0; i < 10; i++ {
		at := start.Add(time.Duration(i/2)*24*time.Hour + time.Duration(i%2)*3*time.Hour)
		mealTags := []*types.Tag{tags.fried}
		if i < len(extras) {
			mealTags = append(mealTags, extras[i])
		}
		testutil.SeedMeal(t, ctx, e.db, c, at, mealTags...)
	}
	return c
}

type fakeNarrative struct {
	mu    sync.Mutex
	text  string
	err   error
	calls int
}

func (f *fakeNarrative) Generate(ctx context.Context, title string, stats persona.Stats) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type blockingNarrative struct{}

func (blockingNarrative) Generate(ctx context.Context, title string, stats persona.Stats) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func wantAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	ae, ok := apierr.As(err)
	if !ok {
		t.Fatalf("want api error %d/%s, got %v", status, code, err)
	}
	if ae.Status != status || ae.Code != code {
		t.Fatalf("api error: want=%d/%s got=%d/%s (%v)", status, code, ae.Status, ae.Code, err)
	}
}
