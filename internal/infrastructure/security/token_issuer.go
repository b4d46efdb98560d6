package security

import (
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenIssuer mints bearer tokens for development and tests, standing in for the
// identity provider.
type TokenIssuer struct {
	method jwt.SigningMethod
	key    interface{}
	kid    string
	issuer string
}

// NewHMACTokenIssuer signs tokens with HS256.
func NewHMACTokenIssuer(secret []byte, issuer string) *TokenIssuer {
	return &TokenIssuer{method: jwt.SigningMethodHS256, key: secret, issuer: issuer}
}

// NewRSATokenIssuer signs tokens with RS256 and sets the kid header.
func NewRSATokenIssuer(key *rsa.PrivateKey, kid, issuer string) *TokenIssuer {
	return &TokenIssuer{method: jwt.SigningMethodRS256, key: key, kid: kid, issuer: issuer}
}

// TokenRequest describes the token to issue.
type TokenRequest struct {
	Subject  string
	Audience []string
	Scopes   []string
	Roles    []string
	TTL      time.Duration
}

// Issue returns a signed token for req.
func (i *TokenIssuer) Issue(req TokenRequest) (string, error) {
	if req.TTL <= 0 {
		return "", fmt.Errorf("token ttl must be positive")
	}

	now := time.Now()
	claims := &Claims{
		Scope: req.Scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   req.Subject,
			Issuer:    i.issuer,
			Audience:  req.Audience,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(req.TTL)),
		},
	}
	if len(req.Roles) > 0 {
		claims.RealmAccess = &RealmAccess{Roles: req.Roles}
	}

	token := jwt.NewWithClaims(i.method, claims)
	if i.kid != "" {
		token.Header["kid"] = i.kid
	}

	signed, err := token.SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
