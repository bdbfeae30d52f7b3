package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims is the JWT payload for both access and refresh tokens. Subject is
// the account id; ProfileID is empty for admins.
type Claims struct {
	jwt.RegisteredClaims
	Role      string `json:"role"`
	ProfileID string `json:"profile_id,omitempty"`
	TokenType string `json:"token_type"`
}

// TokenIssuer signs and verifies HMAC-SHA256 tokens for the credential
// exchange endpoints.
type TokenIssuer struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenIssuer(secret []byte, issuer string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, issuer: issuer, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// TokenPair is the response body of a successful login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Issue creates an access/refresh token pair for the identity.
func (ti *TokenIssuer) Issue(id Identity) (*TokenPair, error) {
	access, err := ti.sign(id, TokenTypeAccess, ti.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := ti.sign(id, TokenTypeRefresh, ti.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// IssueAccess creates a fresh access token, used by the refresh endpoint.
func (ti *TokenIssuer) IssueAccess(id Identity) (string, error) {
	return ti.sign(id, TokenTypeAccess, ti.accessTTL)
}

func (ti *TokenIssuer) sign(id Identity, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ti.issuer,
			Subject:   id.AccountID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Role:      id.Role,
		TokenType: tokenType,
	}
	if id.ProfileID != uuid.Nil {
		claims.ProfileID = id.ProfileID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a token and returns the identity it carries. tokenType must
// match the token's own type claim, so a refresh token cannot be replayed
// as an access token or vice versa.
func (ti *TokenIssuer) Verify(tokenStr, tokenType string) (Identity, error) {
	claims := &Claims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(ti.issuer),
	}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return ti.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return Identity{}, fmt.Errorf("invalid token")
	}
	if claims.TokenType != tokenType {
		return Identity{}, fmt.Errorf("wrong token type: got %q, want %q", claims.TokenType, tokenType)
	}

	accountID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, fmt.Errorf("invalid subject: %w", err)
	}
	id := Identity{AccountID: accountID, Role: claims.Role}
	if claims.ProfileID != "" {
		pid, err := uuid.Parse(claims.ProfileID)
		if err != nil {
			return Identity{}, fmt.Errorf("invalid profile_id: %w", err)
		}
		id.ProfileID = pid
	}
	return id, nil
}
