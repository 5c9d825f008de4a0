package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenType discriminates which secret a token verifies against.
// A refresh token can never pass where an access token is expected,
// even though the verifier holds both secrets.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access_token"
	TokenTypeRefresh TokenType = "refresh_token"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	TokenType TokenType `json:"tokenType"`
	UserID    string    `json:"uid"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type TokenCodec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenCodec(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenCodec {
	return &TokenCodec{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (c *TokenCodec) AccessTTL() time.Duration  { return c.accessTTL }
func (c *TokenCodec) RefreshTTL() time.Duration { return c.refreshTTL }

func (c *TokenCodec) secretFor(typ TokenType) ([]byte, error) {
	switch typ {
	case TokenTypeAccess:
		return c.accessSecret, nil
	case TokenTypeRefresh:
		return c.refreshSecret, nil
	}
	return nil, ErrInvalidToken
}

// Sign produces a compact token of the given type with expiry ttl from now.
func (c *TokenCodec) Sign(userID string, typ TokenType, ttl time.Duration) (string, error) {
	secret, err := c.secretFor(typ)
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := Claims{
		TokenType: typ,
		UserID:    userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

// SignPair mints a fresh access/refresh pair for userID using the
// configured TTLs.
func (c *TokenCodec) SignPair(userID string) (TokenPair, error) {
	access, err := c.Sign(userID, TokenTypeAccess, c.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := c.Sign(userID, TokenTypeRefresh, c.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Verify checks signature and expiry against the secret selected by the
// token's own type claim, then requires that type to match want. Every
// failure mode (malformed, wrong signature, expired, wrong type) comes
// back as an error; callers treat any error as "no identity".
func (c *TokenCodec) Verify(tokenStr string, want TokenType) (*Claims, error) {
	peek, err := Decode(tokenStr)
	if err != nil {
		return nil, ErrInvalidToken
	}

	secret, err := c.secretFor(peek.TokenType)
	if err != nil {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != want {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Decode reads claims without verifying the signature. Inspection only,
// never a trust decision; the client uses it to read its own expiry.
func Decode(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
