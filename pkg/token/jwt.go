package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrMalformedToken = errors.New("malformed token")
	ErrExpiredToken   = errors.New("token has expired")
)

// Type tells apart the tokens issued by Manager so one kind cannot be
// replayed as another.
type Type string

const (
	TypeAccess       Type = "access"
	TypeRefresh      Type = "refresh"
	TypeVerification Type = "verification"
)

// Claims represents JWT claims
type Claims struct {
	UserID    string `json:"user_id"`
	TokenType Type   `json:"token_type"`
	jwt.RegisteredClaims
}

// Pair is the refresh/access pair returned on login
type Pair struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

// Manager signs and validates HMAC JWTs
type Manager struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
	verifyTTL  time.Duration
}

// NewManager creates a Manager for one of HS256, HS384 or HS512.
func NewManager(secret, algorithm string, accessTTL, refreshTTL, verifyTTL time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}

	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}

	return &Manager{
		secret:     []byte(secret),
		method:     method,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		verifyTTL:  verifyTTL,
	}, nil
}

// IssuePair generates refresh and access tokens for a user
func (m *Manager) IssuePair(userID string) (*Pair, error) {
	refresh, err := m.issue(userID, TypeRefresh, m.refreshTTL)
	if err != nil {
		return nil, err
	}

	access, err := m.issue(userID, TypeAccess, m.accessTTL)
	if err != nil {
		return nil, err
	}

	return &Pair{Refresh: refresh, Access: access}, nil
}

func (m *Manager) IssueAccess(userID string) (string, error) {
	return m.issue(userID, TypeAccess, m.accessTTL)
}

// IssueVerification generates the token embedded in email verification links
func (m *Manager) IssueVerification(userID string) (string, error) {
	return m.issue(userID, TypeVerification, m.verifyTTL)
}

// Parse validates signature, expiry and token type and returns the claims.
// Errors are one of ErrExpiredToken, ErrMalformedToken or ErrInvalidToken.
func (m *Manager) Parse(tokenString string, expected Type) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMalformedToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{m.method.Alg()}), jwt.WithExpirationRequired())

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformedToken
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != expected || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (m *Manager) issue(userID string, tokenType Type, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(m.method, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}
