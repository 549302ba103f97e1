package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siparisbot/backend/internal/infrastructure/config"
)

const testSecret = "test-secret-key-at-least-32-chars"

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims *Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims(subject string) *Claims {
	now := time.Now()
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    "https://auth.example.com",
			Audience:  jwt.ClaimStrings{"authenticated"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Email: "satici@example.com",
	}
}

func TestTokenVerifier_Verify(t *testing.T) {
	verifier := NewTokenVerifier(config.AuthConfig{JWTSecret: testSecret})
	tenantID := uuid.New()

	t.Run("subject is the tenant", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims(tenantID.String()))

		claims, err := verifier.Verify(token)
		require.NoError(t, err)
		got, err := claims.TenantUUID()
		require.NoError(t, err)
		assert.Equal(t, tenantID, got)
		assert.Equal(t, "satici@example.com", claims.Email)
	})

	t.Run("tenant_id claim wins over subject", func(t *testing.T) {
		other := uuid.New()
		claims := validClaims(uuid.New().String())
		claims.TenantID = other.String()

		verified, err := verifier.Verify(signToken(t, jwt.SigningMethodHS256, []byte(testSecret), claims))
		require.NoError(t, err)
		got, _ := verified.TenantUUID()
		assert.Equal(t, other, got)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, []byte("another-secret"), validClaims(tenantID.String()))
		_, err := verifier.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		claims := validClaims(tenantID.String())
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		_, err := verifier.Verify(signToken(t, jwt.SigningMethodHS256, []byte(testSecret), claims))
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("not yet valid", func(t *testing.T) {
		claims := validClaims(tenantID.String())
		claims.NotBefore = jwt.NewNumericDate(time.Now().Add(time.Hour))
		_, err := verifier.Verify(signToken(t, jwt.SigningMethodHS256, []byte(testSecret), claims))
		assert.ErrorIs(t, err, ErrTokenNotYetValid)
	})

	t.Run("other algorithm rejected", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims(tenantID.String()))
		_, err := verifier.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing tenant", func(t *testing.T) {
		_, err := verifier.Verify(signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims("")))
		assert.ErrorIs(t, err, ErrMissingTenantID)
	})

	t.Run("tenant is not a uuid", func(t *testing.T) {
		_, err := verifier.Verify(signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims("user-42")))
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := verifier.Verify("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestTokenVerifier_IssuerAndAudience(t *testing.T) {
	verifier := NewTokenVerifier(config.AuthConfig{
		JWTSecret: testSecret,
		Issuer:    "https://auth.example.com",
		Audience:  "authenticated",
	})
	tenantID := uuid.New().String()

	_, err := verifier.Verify(signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims(tenantID)))
	require.NoError(t, err)

	wrongIssuer := validClaims(tenantID)
	wrongIssuer.Issuer = "https://evil.example.com"
	_, err = verifier.Verify(signToken(t, jwt.SigningMethodHS256, []byte(testSecret), wrongIssuer))
	assert.ErrorIs(t, err, ErrInvalidClaims)

	wrongAudience := validClaims(tenantID)
	wrongAudience.Audience = jwt.ClaimStrings{"anon"}
	_, err = verifier.Verify(signToken(t, jwt.SigningMethodHS256, []byte(testSecret), wrongAudience))
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestTokenVerifier_Disabled(t *testing.T) {
	verifier := NewTokenVerifier(config.AuthConfig{})
	assert.False(t, verifier.Enabled())

	_, err := verifier.Verify("anything")
	assert.ErrorIs(t, err, ErrVerifierDisabled)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer abc", "abc", true},
		{"Bearer ", "", false},
		{"Basic dXNlcjpwYXNz", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			token, ok := BearerToken(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.token, token)
		})
	}
}
