package security

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/logger"
	"github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"
)

const defaultJWKSRefreshInterval = 5 * time.Minute

// ErrUnknownKey is returned when a token references a key id missing from the key set.
var ErrUnknownKey = errors.New("unknown signing key")

// JWKSKeySet caches the RSA signing keys published at an issuer's JWKS endpoint,
// e.g. Keycloak's /protocol/openid-connect/certs. Unknown key ids trigger at most one
// fetch per refresh interval, whether or not the previous fetch succeeded.
type JWKSKeySet struct {
	url             string
	client          *http.Client
	refreshInterval time.Duration
	logger          logger.Logger
	group           singleflight.Group

	mu          sync.RWMutex
	keys        jose.JSONWebKeySet
	lastAttempt time.Time
}

// NewJWKSKeySet creates a key set for url. Call Refresh to load the keys.
func NewJWKSKeySet(url string, refreshInterval time.Duration, client *http.Client, logger logger.Logger) *JWKSKeySet {
	if refreshInterval <= 0 {
		refreshInterval = defaultJWKSRefreshInterval
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &JWKSKeySet{
		url:             url,
		client:          client,
		refreshInterval: refreshInterval,
		logger:          logger,
	}
}

// Refresh downloads the key set, keeping the RSA signing keys.
func (s *JWKSKeySet) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.lastAttempt = time.Now()
	s.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return fmt.Errorf("failed to build JWKS request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch JWKS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch JWKS: unexpected status %d", resp.StatusCode)
	}

	var set jose.JSONWebKeySet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return fmt.Errorf("failed to decode JWKS: %w", err)
	}

	var signing jose.JSONWebKeySet
	for _, jwk := range set.Keys {
		if _, ok := jwk.Key.(*rsa.PublicKey); !ok || (jwk.Use != "" && jwk.Use != "sig") {
			s.logger.Debug("Skipping JWKS key ", jwk.KeyID)
			continue
		}
		signing.Keys = append(signing.Keys, jwk)
	}

	s.mu.Lock()
	s.keys = signing
	s.mu.Unlock()

	s.logger.Info("Loaded ", len(signing.Keys), " signing key(s) from ", s.url)
	return nil
}

// Keyfunc resolves the verification key of a token by its kid header.
func (s *JWKSKeySet) Keyfunc(token *jwt.Token) (interface{}, error) {
	kid, _ := token.Header["kid"].(string)

	if key, ok := s.lookup(kid); ok {
		return key, nil
	}

	if s.stale() {
		_, err, _ := s.group.Do("refresh", func() (interface{}, error) {
			if !s.stale() {
				return nil, nil
			}
			return nil, s.Refresh(context.Background())
		})
		if err != nil {
			return nil, err
		}
		if key, ok := s.lookup(kid); ok {
			return key, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKey, kid)
}

func (s *JWKSKeySet) stale() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Since(s.lastAttempt) >= s.refreshInterval
}

func (s *JWKSKeySet) lookup(kid string) (*rsa.PublicKey, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates := s.keys.Key(kid)
	if kid == "" && len(s.keys.Keys) == 1 {
		candidates = s.keys.Keys
	}
	for _, jwk := range candidates {
		if key, ok := jwk.Key.(*rsa.PublicKey); ok {
			return key, true
		}
	}
	return nil, false
}
