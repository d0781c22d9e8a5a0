package services

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/mealpersona-backend/internal/platform/ctxutil"
)

func sessionClaims(sub string, exp time.Time) SessionClaims {
	return SessionClaims{
		Email: "a@example.com",
		Name:  "A",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			Issuer:    "https://clerk.example.com",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
}

func TestSessionVerifierHS256(t *testing.T) {
	v, err := NewSessionVerifier(SessionVerifierConfig{Secret: "s3cret", Issuer: "https://clerk.example.com"})
	require.NoError(t, err)

	sign := func(c SessionClaims, key string) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(key))
		require.NoError(t, err)
		return s
	}

	ctx, err := v.SetContextFromToken(context.Background(), sign(sessionClaims("user_1", time.Now().Add(time.Hour)), "s3cret"))
	require.NoError(t, err)
	rd := ctxutil.GetRequestData(ctx)
	require.NotNil(t, rd)
	assert.Equal(t, "user_1", rd.ExternalID)
	assert.Equal(t, "a@example.com", rd.Email)
	assert.Equal(t, "A", rd.Name)

	_, err = v.SetContextFromToken(context.Background(), sign(sessionClaims("user_1", time.Now().Add(time.Hour)), "other"))
	assert.Error(t, err, "wrong key")

	_, err = v.SetContextFromToken(context.Background(), sign(sessionClaims("user_1", time.Now().Add(-time.Minute)), "s3cret"))
	assert.Error(t, err, "expired")

	_, err = v.SetContextFromToken(context.Background(), sign(sessionClaims("", time.Now().Add(time.Hour)), "s3cret"))
	assert.Error(t, err, "missing subject")

	wrongIssuer := sessionClaims("user_1", time.Now().Add(time.Hour))
	wrongIssuer.Issuer = "https://evil.example.com"
	_, err = v.SetContextFromToken(context.Background(), sign(wrongIssuer, "s3cret"))
	assert.Error(t, err, "issuer")

	_, err = v.SetContextFromToken(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSessionVerifierRS256(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

	v, err := NewSessionVerifier(SessionVerifierConfig{PublicKeyPEM: string(pubPEM), Secret: "ignored"})
	require.NoError(t, err)

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, sessionClaims("user_2", time.Now().Add(time.Hour))).SignedString(key)
	require.NoError(t, err)
	ctx, err := v.SetContextFromToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user_2", ctxutil.GetRequestData(ctx).ExternalID)

	// An HS256 token signed with the PEM bytes must not pass.
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims("user_2", time.Now().Add(time.Hour))).SignedString(pubPEM)
	require.NoError(t, err)
	_, err = v.SetContextFromToken(context.Background(), forged)
	assert.Error(t, err)

	_, err = NewSessionVerifier(SessionVerifierConfig{})
	assert.Error(t, err)
}
