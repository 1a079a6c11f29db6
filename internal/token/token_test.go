package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager(Options{Secret: "test-secret"})
}

func TestIssueAndValidate(t *testing.T) {
	m := newTestManager()

	raw, err := m.Issue(Identity{UserID: 7, Email: "a@b.com", Role: "usuario", Name: "Ana"})
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	for _, header := range []string{raw, "Bearer " + raw} {
		claims, err := m.Validate(header)
		require.NoError(t, err)
		assert.Equal(t, uint64(7), claims.UserID)
		assert.Equal(t, "a@b.com", claims.Email)
		assert.Equal(t, "usuario", claims.Role)
		assert.Equal(t, "Ana", claims.Name)
		assert.Equal(t, "http://localhost", claims.Issuer)
		assert.Equal(t, "acesso_sistema", claims.Subject)
		assert.NotEmpty(t, claims.ID)
	}
}

func TestIssue_SixtyDayExpiry(t *testing.T) {
	m := newTestManager()
	fixed := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	raw, err := m.Issue(Identity{UserID: 1})
	require.NoError(t, err)

	claims, err := m.Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(60*24*time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestValidate_Expired(t *testing.T) {
	m := newTestManager()
	issuedAt := time.Now().Add(-61 * 24 * time.Hour)
	m.now = func() time.Time { return issuedAt }

	raw, err := m.Issue(Identity{UserID: 1})
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Validate(raw)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestValidate_WrongSecret(t *testing.T) {
	raw, err := NewManager(Options{Secret: "other"}).Issue(Identity{UserID: 1})
	require.NoError(t, err)

	_, err = newTestManager().Validate(raw)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidate_WrongAudience(t *testing.T) {
	raw, err := NewManager(Options{Secret: "test-secret", Audience: "http://elsewhere"}).Issue(Identity{UserID: 1})
	require.NoError(t, err)

	_, err = newTestManager().Validate(raw)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidate_RejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "http://localhost",
			Audience:  jwt.ClaimStrings{"http://localhost"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = newTestManager().Validate(raw)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidate_Garbage(t *testing.T) {
	_, err := newTestManager().Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = newTestManager().Validate("Bearer ")
	assert.ErrorIs(t, err, ErrInvalid)
}
