// Package token issues and verifies the HS256 access tokens used by the API.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/yukikurage/project-task-api/internal/constants"
)

var (
	ErrExpired = errors.New("token expired")
	ErrInvalid = errors.New("token invalid")
)

// Claims is the decoded token payload.
type Claims struct {
	Email  string `json:"email"`
	Role   string `json:"role"`
	Name   string `json:"name"`
	UserID uint64 `json:"idFuncionario"`
	jwt.RegisteredClaims
}

// Identity is what gets embedded into a new token.
type Identity struct {
	UserID uint64
	Email  string
	Role   string
	Name   string
}

// Manager signs and validates tokens with a single process-wide secret.
type Manager struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

type Options struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

func NewManager(opts Options) *Manager {
	m := &Manager{
		secret:   []byte(opts.Secret),
		issuer:   opts.Issuer,
		audience: opts.Audience,
		ttl:      opts.TTL,
		now:      time.Now,
	}
	if m.issuer == "" {
		m.issuer = constants.DefaultTokenIssuer
	}
	if m.audience == "" {
		m.audience = constants.DefaultTokenAudience
	}
	if m.ttl <= 0 {
		m.ttl = constants.DefaultTokenTTL
	}
	return m
}

// Issue signs a token for id.
func (m *Manager) Issue(id Identity) (string, error) {
	jti, err := uuid.NewV4()
	if err != nil {
		return "", fmt.Errorf("failed to generate token id: %w", err)
	}

	now := m.now()
	claims := Claims{
		Email:  id.Email,
		Role:   id.Role,
		Name:   id.Name,
		UserID: id.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			Subject:   constants.TokenSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			ID:        jti.String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate checks signature, issuer, audience and time claims. A leading
// "Bearer " is stripped.
func (m *Manager) Validate(raw string) (*Claims, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "Bearer "))
	if raw == "" {
		return nil, ErrInvalid
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !parsed.Valid || claims.UserID == 0 {
		return nil, ErrInvalid
	}
	return claims, nil
}
