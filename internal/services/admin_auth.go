package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/mealpersona-backend/internal/data/repos"
	types "github.com/yungbote/mealpersona-backend/internal/domain"
	"github.com/yungbote/mealpersona-backend/internal/platform/dbctx"
	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
	"github.com/yungbote/mealpersona-backend/internal/platform/pointers"
	"github.com/yungbote/mealpersona-backend/internal/platform/ratelimit"
)

const (
	AdminSessionTTL     = 24 * time.Hour
	AdminCookieName     = "admin_session"
	LoginMaxAttempts    = 5
	LoginWindow         = 15 * time.Minute
	adminTokenBytes     = 32
	minAdminPasswordLen = 8
)

// RequestMeta is the client information copied into the audit trail.
type RequestMeta struct {
	IP        string
	UserAgent string
}

type AdminAuthService interface {
	// Login returns a fresh session token for valid credentials.
	Login(dbc dbctx.Context, email, password string, meta RequestMeta) (*types.AdminSession, error)
	Logout(dbc dbctx.Context, token string) error
	// Authenticate resolves a live session token to its active admin.
	Authenticate(dbc dbctx.Context, token string) (*types.Admin, error)
	CreateAdmin(dbc dbctx.Context, email, password, name string) (*types.Admin, error)
}

type adminAuthService struct {
	db           *gorm.DB
	log          *logger.Logger
	adminRepo    repos.AdminRepo
	sessionRepo  repos.AdminSessionRepo
	activityRepo repos.AdminActivityRepo
	limiter      ratelimit.Limiter
	clock        Clock
}

func NewAdminAuthService(
	db *gorm.DB,
	log *logger.Logger,
	adminRepo repos.AdminRepo,
	sessionRepo repos.AdminSessionRepo,
	activityRepo repos.AdminActivityRepo,
	limiter ratelimit.Limiter,
	clock Clock,
) AdminAuthService {
	if limiter == nil {
		limiter = ratelimit.NewMemoryLimiter(LoginMaxAttempts, LoginWindow)
	}
	return &adminAuthService{
		db:           db,
		log:          log.With("service", "AdminAuthService"),
		adminRepo:    adminRepo,
		sessionRepo:  sessionRepo,
		activityRepo: activityRepo,
		limiter:      limiter,
		clock:        clock,
	}
}

func newSessionToken() (string, error) {
	b := make([]byte, adminTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (s *adminAuthService) Login(dbc dbctx.Context, email, password string, meta RequestMeta) (*types.AdminSession, error) {
	ip := strings.TrimSpace(meta.IP)
	if ip == "" {
		ip = "unknown"
	}
	key := ratelimit.Key("login", ip)
	res, err := s.limiter.Allow(dbc.Ctx, key)
	if err != nil {
		// Limiter outages must not lock admins out.
		s.log.Warn("Rate limiter unavailable", "error", err)
	} else if !res.Allowed {
		return nil, ErrTooManyAttempts
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") || password == "" {
		return nil, validation("invalid_input", "Invalid input")
	}

	a, err := s.adminRepo.GetByEmail(dbc, email)
	if err != nil {
		return nil, fmt.Errorf("error fetching admin: %w", err)
	}
	if a == nil || !a.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := newSessionToken()
	if err != nil {
		return nil, fmt.Errorf("error generating session token: %w", err)
	}
	now := s.clock.Now().UTC()
	sess := &types.AdminSession{
		AdminID:   a.ID,
		Token:     token,
		ExpiresAt: now.Add(AdminSessionTTL),
	}
	if err := s.sessionRepo.Create(dbc, sess); err != nil {
		return nil, fmt.Errorf("error creating session: %w", err)
	}
	if err := s.adminRepo.TouchLastLogin(dbc, a.ID, now); err != nil {
		s.log.Warn("Failed to record last login", "admin_id", a.ID, "error", err)
	}
	if err := s.limiter.Reset(dbc.Ctx, key); err != nil {
		s.log.Debug("Rate limit reset failed", "error", err)
	}
	recordActivity(dbc, s.log, s.activityRepo, activityEntry{
		AdminID:    a.ID,
		Action:     types.ActionView,
		EntityType: types.EntityAdmin,
		EntityID:   a.ID.String(),
		Meta:       meta,
	})

	sess.Admin = a
	s.log.Info("Admin logged in", "admin_id", a.ID)
	return sess, nil
}

func (s *adminAuthService) Logout(dbc dbctx.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	if err := s.sessionRepo.DeleteByToken(dbc, token); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}

func (s *adminAuthService) Authenticate(dbc dbctx.Context, token string) (*types.Admin, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrInvalidSession
	}
	sess, err := s.sessionRepo.GetByToken(dbc, token)
	if err != nil {
		return nil, fmt.Errorf("error fetching session: %w", err)
	}
	if sess == nil {
		return nil, ErrInvalidSession
	}
	now := s.clock.Now().UTC()
	if sess.Expired(now) {
		if err := s.sessionRepo.DeleteByID(dbc, sess.ID); err != nil {
			s.log.Warn("Failed to delete expired session", "session_id", sess.ID, "error", err)
		}
		if n, err := s.sessionRepo.DeleteExpired(dbc, now); err == nil && n > 0 {
			s.log.Debug("Pruned expired admin sessions", "count", n)
		}
		return nil, ErrInvalidSession
	}
	if sess.Admin == nil || !sess.Admin.IsActive {
		return nil, ErrInvalidSession
	}
	return sess.Admin, nil
}

func (s *adminAuthService) CreateAdmin(dbc dbctx.Context, email, password, name string) (*types.Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" || !strings.Contains(email, "@") {
		return nil, validation("invalid_email", "a valid email is required")
	}
	if len(password) < minAdminPasswordLen {
		return nil, validation("weak_password", fmt.Sprintf("password must be at least %d characters", minAdminPasswordLen))
	}
	if name == "" {
		name = email
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}
	a := &types.Admin{
		Email:    email,
		Password: string(hash),
		Name:     name,
		IsActive: true,
	}
	if err := s.adminRepo.Upsert(dbc, a); err != nil {
		return nil, fmt.Errorf("error saving admin: %w", err)
	}
	// On conflict the generated id is not the stored one.
	stored, err := s.adminRepo.GetByEmail(dbc, email)
	if err != nil {
		return nil, fmt.Errorf("error fetching admin: %w", err)
	}
	if stored == nil {
		return nil, ErrNotFound
	}
	s.log.Info("Admin saved", "admin_id", stored.ID)
	return stored, nil
}

type activityEntry struct {
	AdminID    uuid.UUID
	Action     types.AdminAction
	EntityType types.EntityType
	EntityID   string
	Details    map[string]any
	Meta       RequestMeta
}

// recordActivity writes an audit row. Failures are logged and swallowed.
func recordActivity(dbc dbctx.Context, log *logger.Logger, repo repos.AdminActivityRepo, e activityEntry) {
	if repo == nil || e.AdminID == uuid.Nil {
		return
	}
	row := &types.AdminActivity{
		AdminID:    e.AdminID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   pointers.NonEmpty(e.EntityID),
		IPAddress:  pointers.NonEmpty(e.Meta.IP),
		UserAgent:  pointers.NonEmpty(e.Meta.UserAgent),
	}
	if len(e.Details) > 0 {
		raw, err := encodeDetails(e.Details)
		if err != nil {
			log.Warn("Failed to encode activity details", "error", err)
		} else {
			row.Details = raw
		}
	}
	if err := repo.Create(dbc, row); err != nil {
		log.Warn("Failed to record admin activity",
			"admin_id", e.AdminID,
			"action", e.Action,
			"entity", e.EntityType,
			"error", err,
		)
	}
}
