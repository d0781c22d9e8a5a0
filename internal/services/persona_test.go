package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mealpersona-backend/internal/data/repos"
	"github.com/yungbote/mealpersona-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mealpersona-backend/internal/domain"
	"github.com/yungbote/mealpersona-backend/internal/modules/persona"
	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
)

func TestCompleteActiveChallengeStoresPersona(t *testing.T) {
	env := newTestEnv(t)
	tags := env.seedCatalogue(t)
	c := env.seedEligible(t, "user_1", tags)
	gen := &fakeNarrative{text: "  กินทอดเก่งมาก  "}
	svc := env.personaService(gen)

	p, err := svc.CompleteActiveChallenge(env.as("user_1"))
	if err != nil {
		t.Fatalf("CompleteActiveChallenge: %v", err)
	}
	want, _ := persona.Lookup(persona.KeyFriedWarrior)
	if p.Title != want.Title || p.Description != want.Description {
		t.Fatalf("persona: want=%q got=%q", want.Title, p.Title)
	}
	if p.AIInsight == nil || *p.AIInsight != "กินทอดเก่งมาก" {
		t.Fatalf("insight: got %v", p.AIInsight)
	}
	if gen.calls != 1 {
		t.Fatalf("narrative calls: want=1 got=%d", gen.calls)
	}
	stats, err := p.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	// 10 fried out of 14 tag occurrences.
	if stats["fried"] != 71 || stats["coffee"] != 7 {
		t.Fatalf("stats: got %v", stats)
	}

	stored, err := env.repos.Challenges.GetByID(env.as("user_1"), c.ID, repos.ChallengeLoad{Persona: true})
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != types.ChallengeStatusCompleted {
		t.Fatalf("status: want=%s got=%s", types.ChallengeStatusCompleted, stored.Status)
	}
	if stored.Persona == nil || stored.Persona.ID != p.ID {
		t.Fatalf("persona not linked to challenge")
	}

	if _, err := svc.CompleteActiveChallenge(env.as("user_1")); !errors.Is(err, ErrNoActiveChallenge) {
		t.Fatalf("second completion: want ErrNoActiveChallenge got %v", err)
	}

	latest, err := svc.Latest(env.as("user_1"))
	if err != nil || latest == nil || latest.ID != p.ID {
		t.Fatalf("Latest: %+v err=%v", latest, err)
	}
}

func TestCompleteActiveChallengeNarrativeFailsOpen(t *testing.T) {
	for name, gen := range map[string]NarrativeGenerator{
		"error":       &fakeNarrative{err: errors.New("quota exceeded")},
		"blank":       &fakeNarrative{text: "   "},
		"timeout":     blockingNarrative{},
		"unavailable": NewUnavailableNarrative(logger.Nop()),
		"nil":         nil,
	} {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t)
			env.seedEligible(t, "user_1", env.seedCatalogue(t))
			svc := NewPersonaService(env.db, env.log, env.users, env.repos.Challenges, env.repos.Personas, gen, PersonaServiceConfig{
				NarrativeTimeout: 50 * time.Millisecond,
				Clock:            env.clock,
			})
			p, err := svc.CompleteActiveChallenge(env.as("user_1"))
			if err != nil {
				t.Fatalf("CompleteActiveChallenge: %v", err)
			}
			if p.AIInsight != nil {
				t.Fatalf("insight: want nil got %q", *p.AIInsight)
			}
		})
	}
}

func TestCompleteActiveChallengeIneligibleWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	tags := env.seedCatalogue(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, env.db, "user_1")
	c := testutil.SeedChallenge(t, ctx, env.db, u.ID, testNow.AddDate(0, 0, -2), types.ChallengeStatusActive)
	testutil.SeedMeal(t, ctx, env.db, c, testNow.Add(-time.Hour), tags.fried)

	gen := &fakeNarrative{text: "unused"}
	svc := env.personaService(gen)
	_, err := svc.CompleteActiveChallenge(env.as("user_1"))

	var inelig *IneligibleError
	if !errors.As(err, &inelig) {
		t.Fatalf("want IneligibleError got %v", err)
	}
	if len(inelig.Reasons()) != 4 {
		t.Fatalf("reasons: want=4 got=%d (%v)", len(inelig.Reasons()), inelig.Reasons())
	}
	if gen.calls != 0 {
		t.Fatalf("narrative should not run for ineligible challenge")
	}
	n, _ := env.repos.Personas.Count(env.as("user_1"))
	if n != 0 {
		t.Fatalf("personas: want=0 got=%d", n)
	}
	stored, _ := env.repos.Challenges.GetByID(env.as("user_1"), c.ID, repos.ChallengeLoad{})
	if stored.Status != types.ChallengeStatusActive {
		t.Fatalf("status changed to %s", stored.Status)
	}
}

func TestCompleteActiveChallengeWithoutChallenge(t *testing.T) {
	env := newTestEnv(t)
	testutil.SeedUser(t, context.Background(), env.db, "user_1")
	svc := env.personaService(nil)
	if _, err := svc.CompleteActiveChallenge(env.as("user_1")); !errors.Is(err, ErrNoActiveChallenge) {
		t.Fatalf("want ErrNoActiveChallenge got %v", err)
	}
	p, err := svc.Latest(env.as("user_1"))
	if err != nil || p != nil {
		t.Fatalf("Latest: want nil got %+v err=%v", p, err)
	}
}

func TestCompleteActiveChallengeConcurrentCallsCompleteOnce(t *testing.T) {
	env := newTestEnv(t)
	env.seedEligible(t, "user_1", env.seedCatalogue(t))
	svc := env.personaService(&fakeNarrative{text: "ok"})

	const callers = 4
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CompleteActiveChallenge(env.as("user_1"))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrChallengeAlreadyCompleted), errors.Is(err, ErrNoActiveChallenge):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("successful completions: want=1 got=%d", succeeded)
	}
	n, _ := env.repos.Personas.Count(env.as("user_1"))
	if n != 1 {
		t.Fatalf("personas: want=1 got=%d", n)
	}
}

func TestPersonaGetEnforcesOwnership(t *testing.T) {
	env := newTestEnv(t)
	tags := env.seedCatalogue(t)
	env.seedEligible(t, "owner", tags)
	testutil.SeedUser(t, context.Background(), env.db, "other")
	svc := env.personaService(nil)

	p, err := svc.CompleteActiveChallenge(env.as("owner"))
	if err != nil {
		t.Fatalf("CompleteActiveChallenge: %v", err)
	}
	if got, err := svc.Get(env.as("owner"), p.ID); err != nil || got.ID != p.ID {
		t.Fatalf("Get (owner): %+v err=%v", got, err)
	}
	if _, err := svc.Get(env.as("other"), p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get (other): want ErrNotFound got %v", err)
	}
	if _, err := svc.Get(env.as("owner"), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get (missing): want ErrNotFound got %v", err)
	}
	list, err := svc.List(env.as("other"))
	if err != nil || len(list) != 0 {
		t.Fatalf("List (other): %v err=%v", list, err)
	}
}
