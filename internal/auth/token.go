package auth

import (
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/visage-campus/visage-backend/internal/domain"
)

// DefaultTokenTTL is the lifetime of a session claim when none is configured.
const DefaultTokenTTL = 24 * time.Hour

// ClaimManager issues and validates signed session claims.
type ClaimManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option customizes a ClaimManager.
type Option func(*ClaimManager)

// WithClock overrides the time source used for issuance and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(m *ClaimManager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewClaimManager builds a new manager. The secret is fixed for the life of the process.
func NewClaimManager(secret string, ttl time.Duration, opts ...Option) *ClaimManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	m := &ClaimManager{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Claims describes the JWT payload.
type Claims struct {
	UserID   int64           `json:"userId"`
	Username string          `json:"username"`
	FullName string          `json:"fullName"`
	Role     domain.RoleName `json:"role"`
	jwt.RegisteredClaims
}

// IssuedClaim is a freshly signed token and its expiry.
type IssuedClaim struct {
	Token     string
	ExpiresAt time.Time
}

// Principal is the identity context recovered from a validated claim.
type Principal struct {
	UserID    int64           `json:"userId"`
	Username  string          `json:"username"`
	FullName  string          `json:"fullName"`
	Role      domain.RoleName `json:"role"`
	IssuedAt  time.Time       `json:"iat"`
	ExpiresAt time.Time       `json:"exp"`
}

// HasRole reports whether the principal holds one of the given roles.
func (p *Principal) HasRole(roles ...domain.RoleName) bool {
	if p == nil {
		return false
	}
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// Issue builds and signs a claim for the identity.
func (m *ClaimManager) Issue(identity *domain.Identity) (IssuedClaim, error) {
	if identity == nil {
		return IssuedClaim{}, errors.New("identity required")
	}
	issuedAt := m.now()
	expiresAt := issuedAt.Add(m.ttl)
	claims := &Claims{
		UserID:   identity.ID,
		Username: identity.IDNumber,
		FullName: identity.FullName,
		Role:     identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.IDNumber,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return IssuedClaim{}, err
	}
	return IssuedClaim{Token: tokenString, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Validate checks signature and expiry and returns the embedded principal.
func (m *ClaimManager) Validate(tokenStr string) (*Principal, error) {
	tokenStr = strings.TrimSpace(tokenStr)
	if tokenStr == "" {
		return nil, domain.ErrMissingClaim
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrExpiredClaim
		}
		return nil, domain.ErrMalformedClaim
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Username == "" || claims.Role == "" {
		return nil, domain.ErrMalformedClaim
	}

	principal := &Principal{
		UserID:    claims.UserID,
		Username:  claims.Username,
		FullName:  claims.FullName,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		principal.IssuedAt = claims.IssuedAt.Time
	}
	return principal, nil
}
