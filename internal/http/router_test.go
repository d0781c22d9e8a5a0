package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/mealpersona-backend/internal/data/repos"
	"github.com/yungbote/mealpersona-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mealpersona-backend/internal/domain"
	httpH "github.com/yungbote/mealpersona-backend/internal/http/handlers"
	httpMW "github.com/yungbote/mealpersona-backend/internal/http/middleware"
	"github.com/yungbote/mealpersona-backend/internal/modules/persona"
	"github.com/yungbote/mealpersona-backend/internal/platform/dbctx"
	"github.com/yungbote/mealpersona-backend/internal/services"
)

const testSecret = "router-test-secret"

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type memStore struct{ keys []string }

func (m *memStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	m.keys = append(m.keys, key)
	return "https://cdn.example.com/" + key, nil
}

type okVerifier struct{}

func (okVerifier) Verify(payload []byte, headers http.Header) error { return nil }

type stubNarrative struct{}

func (stubNarrative) Generate(ctx context.Context, title string, stats persona.Stats) (string, error) {
	return "You love crunchy food.", nil
}

type testServer struct {
	db     *gorm.DB
	engine *gin.Engine
	store  *memStore
	auth   services.AdminAuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)
	set := repos.NewSet(db, log)
	clock := services.Clock{Loc: time.UTC, NowFunc: func() time.Time { return testNow }}
	store := &memStore{}

	users := services.NewUserService(db, log, set.Users)
	challenges := services.NewChallengeService(db, log, users, set.Challenges, set.Meals, set.Tags, persona.DefaultRules(), clock)
	personas := services.NewPersonaService(db, log, users, set.Challenges, set.Personas, stubNarrative{}, services.PersonaServiceConfig{
		NarrativeTimeout: time.Second,
		Clock:            clock,
	})
	adminAuth := services.NewAdminAuthService(db, log, set.Admins, set.Sessions, set.Activities, nil, clock)
	sessions, err := services.NewSessionVerifier(services.SessionVerifierConfig{Secret: testSecret})
	require.NoError(t, err)

	engine := NewRouter(RouterConfig{
		Log:              log,
		AuthMiddleware:   httpMW.NewAuthMiddleware(log, sessions),
		AdminMiddleware:  httpMW.NewAdminMiddleware(log, adminAuth),
		HealthHandler:    httpH.NewHealthHandler(db),
		UserHandler:      httpH.NewUserHandler(users),
		ChallengeHandler: httpH.NewChallengeHandler(challenges, personas, services.NewMediaService(log, store, clock)),
		PersonaHandler:   httpH.NewPersonaHandler(personas),
		TagHandler:       httpH.NewTagHandler(services.NewTagService(log, set.Tags)),
		WebhookHandler:   httpH.NewWebhookHandler(services.NewUserSyncService(log, okVerifier{}, set.Users)),
		AdminAuthHandler: httpH.NewAdminAuthHandler(adminAuth, false),
		AdminHandler:     httpH.NewAdminHandler(services.NewAdminService(db, log, set, stubNarrative{}, time.Second)),
	})
	return &testServer{db: db, engine: engine, store: store, auth: adminAuth}
}

func bearer(t *testing.T, externalID string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, services.SessionClaims{
		Email: externalID + "@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   externalID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + tok
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) call(t *testing.T, method, path, auth string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	return s.do(req)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	env := decode(t, rec)
	e, _ := env["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/healthcheck", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/readyz", "", nil).Code)
}

func TestProtectedRoutesNeedSession(t *testing.T) {
	s := newTestServer(t)
	rec := s.call(t, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", errorCode(t, rec))

	rec = s.call(t, http.MethodGet, "/api/challenges/active", "Bearer not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChallengeFlow(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	testutil.SeedTag(t, ctx, s.db, "fried", types.TagCategoryCookingMethod)
	testutil.SeedTag(t, ctx, s.db, "spicy", types.TagCategoryTaste)
	auth := bearer(t, "user_1")

	rec := s.call(t, http.MethodGet, "/api/challenges/active", auth, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode(t, rec)["challenge"])

	rec = s.call(t, http.MethodPost, "/api/challenges", auth, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = s.call(t, http.MethodPost, "/api/challenges", auth, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "active_challenge_exists", errorCode(t, rec))

	// multipart upload with comma separated tags
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", "lunch.png")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	require.NoError(t, mw.WriteField("tags", "fried,spicy"))
	require.NoError(t, mw.WriteField("notes", "lunch"))
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/challenges/active/meals", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", auth)
	rec = s.do(req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	meal := decode(t, rec)["meal"].(map[string]any)
	assert.Len(t, meal["tags"], 2)
	assert.True(t, strings.HasPrefix(meal["image_url"].(string), "https://cdn.example.com/meals/user_1/"))
	require.Len(t, s.store.keys, 1)

	// json variant
	rec = s.call(t, http.MethodPost, "/api/challenges/active/meals", auth, map[string]any{
		"image_url": "https://cdn.example.com/pre.jpg",
		"tags":      []string{"durian"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unknown_tags", errorCode(t, rec))

	rec = s.call(t, http.MethodGet, "/api/challenges/active/eligibility", auth, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	elig := decode(t, rec)["eligibility"].(map[string]any)
	assert.Equal(t, false, elig["eligible"])

	rec = s.call(t, http.MethodPost, "/api/challenges/active/complete", auth, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	e := decode(t, rec)["error"].(map[string]any)
	assert.Equal(t, "not_eligible", e["code"])
	assert.NotEmpty(t, e["reasons"])

	rec = s.call(t, http.MethodPost, "/api/challenges/active/abandon", auth, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.call(t, http.MethodPost, "/api/challenges/active/abandon", auth, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.call(t, http.MethodGet, "/api/challenges", auth, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["challenges"], 1)
}

func TestMealUploadWithoutActiveChallenge(t *testing.T) {
	s := newTestServer(t)
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("tags", "fried"))
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/challenges/active/meals", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", bearer(t, "user_9"))

	rec := s.do(req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no_active_challenge", errorCode(t, rec))
	assert.Empty(t, s.store.keys)
}

func TestCompleteAndReadPersona(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	fried := testutil.SeedTag(t, ctx, s.db, "fried", types.TagCategoryCookingMethod)
	extras := []*types.Tag{
		testutil.SeedTag(t, ctx, s.db, "vegetable", types.TagCategoryFoodGroup),
		testutil.SeedTag(t, ctx, s.db, "meat", types.TagCategoryFoodGroup),
		testutil.SeedTag(t, ctx, s.db, "spicy", types.TagCategoryTaste),
		testutil.SeedTag(t, ctx, s.db, "coffee", types.TagCategoryBeverage),
	}
	u := testutil.SeedUser(t, ctx, s.db, "user_1")
	start := testNow.AddDate(0, 0, -7)
	c := testutil.SeedChallenge(t, ctx, s.db, u.ID, start, types.ChallengeStatusActive)
	for i := 0; i < 10; i++ {
		tags := []*types.Tag{fried}
		if i < len(extras) {
			tags = append(tags, extras[i])
		}
		testutil.SeedMeal(t, ctx, s.db, c, start.Add(time.Duration(i/2)*24*time.Hour+time.Duration(i%2)*3*time.Hour), tags...)
	}
	auth := bearer(t, "user_1")

	rec := s.call(t, http.MethodPost, "/api/challenges/active/complete", auth, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	card := decode(t, rec)["persona"].(map[string]any)
	assert.Equal(t, persona.KeyFriedWarrior, card["key"])
	assert.Equal(t, "You love crunchy food.", card["ai_insight"])

	rec = s.call(t, http.MethodPost, "/api/challenges/active/complete", auth, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.call(t, http.MethodGet, "/api/personas/latest", auth, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	latest := decode(t, rec)["persona"].(map[string]any)
	assert.Equal(t, card["id"], latest["id"])

	rec = s.call(t, http.MethodGet, "/api/personas/"+card["id"].(string), bearer(t, "user_2"), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.call(t, http.MethodGet, "/api/personas/not-a-uuid", auth, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTagCatalogueIsPublic(t *testing.T) {
	s := newTestServer(t)
	testutil.SeedTag(t, context.Background(), s.db, "coffee", types.TagCategoryBeverage)
	rec := s.call(t, http.MethodGet, "/api/tags", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["categories"], len(types.TagCategories))
}

func TestIdentityWebhook(t *testing.T) {
	s := newTestServer(t)
	rec := s.call(t, http.MethodPost, "/api/webhooks/clerk", "", map[string]any{
		"type": "user.created",
		"data": map[string]any{
			"id":                       "ext_1",
			"primary_email_address_id": "em_1",
			"email_addresses":          []map[string]any{{"id": "em_1", "email_address": "a@example.com"}},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "created", decode(t, rec)["outcome"])

	rec = s.call(t, http.MethodPost, "/api/webhooks/clerk", "", map[string]any{"type": "user.deleted", "data": map[string]any{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	big := strings.Repeat("x", 1<<20)
	rec = s.call(t, http.MethodPost, "/api/webhooks/clerk", "", map[string]any{"type": "user.created", "data": map[string]any{"padding": big}})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "payload_too_large", errorCode(t, rec))
}

func TestAdminSessionCookie(t *testing.T) {
	s := newTestServer(t)
	_, err := s.auth.CreateAdmin(dbctx.New(context.Background()), "ops@example.com", "correct-horse", "Ops")
	require.NoError(t, err)

	rec := s.call(t, http.MethodGet, "/api/admin/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.call(t, http.MethodPost, "/api/admin/login", "", map[string]string{"email": "ops@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_credentials", errorCode(t, rec))

	rec = s.call(t, http.MethodPost, "/api/admin/login", "", map[string]string{"email": "ops@example.com", "password": "correct-horse"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var session *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == services.AdminCookieName {
			session = ck
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)
	assert.Equal(t, int(services.AdminSessionTTL.Seconds()), session.MaxAge)

	withCookie := func(method, path string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(session)
		return s.do(req)
	}

	rec = withCookie(http.MethodGet, "/api/admin/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ops@example.com", decode(t, rec)["admin"].(map[string]any)["email"])

	rec = withCookie(http.MethodPost, "/api/admin/tags", map[string]any{
		"name": "Grilled", "slug": "grilled", "category": "COOKING_METHOD", "emoji": "🔥", "color": "#ff0000",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = withCookie(http.MethodPost, "/api/admin/tags", map[string]any{
		"name": "Grilled", "slug": "grilled", "category": "COOKING_METHOD",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = withCookie(http.MethodGet, "/api/admin/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = withCookie(http.MethodGet, "/api/admin/activities?entity_type=Tag", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec)["total"])

	rec = withCookie(http.MethodPatch, "/api/admin/challenges/not-a-uuid", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = withCookie(http.MethodPatch, "/api/admin/challenges/"+uuid.NewString(), map[string]any{"end_date": "2025-03-20T00:00:00Z"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "end_date_derived", errorCode(t, rec))

	rec = withCookie(http.MethodPost, "/api/admin/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = withCookie(http.MethodGet, "/api/admin/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
