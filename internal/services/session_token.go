package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/mealpersona-backend/internal/platform/ctxutil"
)

// SessionClaims are the identity-provider session token claims we read.
type SessionClaims struct {
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	jwt.RegisteredClaims
}

type SessionVerifier interface {
	// SetContextFromToken verifies a session token and attaches the caller
	// to the returned context.
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type SessionVerifierConfig struct {
	// PublicKeyPEM selects RS256 verification when set.
	PublicKeyPEM string
	// Secret selects HS256 verification when no public key is configured.
	Secret string
	Issuer string
}

type jwtSessionVerifier struct {
	key     any
	methods []string
	issuer  string
}

func NewSessionVerifier(cfg SessionVerifierConfig) (SessionVerifier, error) {
	if pem := strings.TrimSpace(cfg.PublicKeyPEM); pem != "" {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
		if err != nil {
			return nil, fmt.Errorf("parse session public key: %w", err)
		}
		return &jwtSessionVerifier{key: key, methods: []string{jwt.SigningMethodRS256.Alg()}, issuer: cfg.Issuer}, nil
	}
	if cfg.Secret == "" {
		return nil, errors.New("session verifier needs a public key or a secret")
	}
	return &jwtSessionVerifier{key: []byte(cfg.Secret), methods: []string{jwt.SigningMethodHS256.Alg()}, issuer: cfg.Issuer}, nil
}

func (v *jwtSessionVerifier) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, ErrUnauthorized
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods(v.methods), jwt.WithExpirationRequired()}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return v.key, nil
	}, opts...)
	if err != nil {
		return ctx, fmt.Errorf("parse session token: %w", err)
	}
	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid {
		return ctx, errors.New("invalid or expired session token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return ctx, errors.New("session token has no subject")
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		ExternalID: claims.Subject,
		Email:      strings.TrimSpace(claims.Email),
		Name:       strings.TrimSpace(claims.Name),
		ImageURL:   strings.TrimSpace(claims.ImageURL),
	}), nil
}
