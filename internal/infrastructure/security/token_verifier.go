package security

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/config"
	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
)

// ClockSkew is the leeway applied to exp, nbf and iat checks.
const ClockSkew = time.Minute

// ErrInvalidToken wraps every verification failure.
var ErrInvalidToken = errors.New("invalid bearer token")

// TokenVerifier validates bearer tokens against a single key source.
type TokenVerifier struct {
	keyfunc jwt.Keyfunc
	parser  *jwt.Parser
}

// NewTokenVerifier creates a verifier for the key source configured in settings.
func NewTokenVerifier(ctx context.Context, settings *config.AuthSettings, logger logger.Logger) (*TokenVerifier, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	var keyfunc jwt.Keyfunc
	var methods []string

	switch {
	case settings.HMACSecret != "":
		secret := []byte(settings.HMACSecret)
		keyfunc = func(*jwt.Token) (interface{}, error) { return secret, nil }
		methods = []string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg()}
		logger.Warn("Bearer tokens are verified with a shared HMAC secret; use only for development")

	case settings.PublicKeyPath != "":
		pem, err := os.ReadFile(settings.PublicKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read public key: %w", err)
		}
		key, err := jwt.ParseRSAPublicKeyFromPEM(pem)
		if err != nil {
			return nil, fmt.Errorf("failed to parse public key: %w", err)
		}
		keyfunc = func(*jwt.Token) (interface{}, error) { return key, nil }
		methods = rsaMethods()

	default:
		keySet := NewJWKSKeySet(settings.JWKSURL, settings.JWKSRefreshInterval, nil, logger)
		if err := keySet.Refresh(ctx); err != nil {
			return nil, err
		}
		keyfunc = keySet.Keyfunc
		methods = rsaMethods()
	}

	return newTokenVerifier(keyfunc, methods, settings.Issuer, settings.Audience), nil
}

func newTokenVerifier(keyfunc jwt.Keyfunc, methods []string, issuer, audience string) *TokenVerifier {
	options := []jwt.ParserOption{
		jwt.WithValidMethods(methods),
		jwt.WithLeeway(ClockSkew),
		jwt.WithIssuedAt(),
	}
	if issuer != "" {
		options = append(options, jwt.WithIssuer(issuer))
	}
	if audience != "" {
		options = append(options, jwt.WithAudience(audience))
	}
	return &TokenVerifier{
		keyfunc: keyfunc,
		parser:  jwt.NewParser(options...),
	}
}

func rsaMethods() []string {
	return []string{jwt.SigningMethodRS256.Alg(), jwt.SigningMethodRS384.Alg(), jwt.SigningMethodRS512.Alg()}
}

// Verify parses and validates tokenString and returns the caller it identifies.
func (v *TokenVerifier) Verify(tokenString string) (*Principal, error) {
	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, v.keyfunc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return &Principal{
		Subject:     claims.Subject,
		Authorities: claims.Authorities(),
	}, nil
}
