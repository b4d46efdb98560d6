//go:build unit
// +build unit

package security

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/config"
	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/testutil"
	"github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "http://localhost:8180/realms/b2c"
	testAudience = "b2c-payment-api"
	testSecret   = "0123456789abcdef0123456789abcdef"
)

func validRequest() TokenRequest {
	return TokenRequest{
		Subject:  "payments-client",
		Audience: []string{testAudience},
		Scopes:   []string{"payment.initiate", "payment.read"},
		TTL:      time.Minute,
	}
}

func TestHMACTokenVerifier(t *testing.T) {
	log := testutil.SetupTestLogger(t)
	settings := &config.AuthSettings{Issuer: testIssuer, Audience: testAudience, HMACSecret: testSecret}

	verifier, err := NewTokenVerifier(context.Background(), settings, log)
	require.NoError(t, err)

	issuer := NewHMACTokenIssuer([]byte(testSecret), testIssuer)

	t.Run("valid token", func(t *testing.T) {
		token, err := issuer.Issue(validRequest())
		require.NoError(t, err)

		principal, err := verifier.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "payments-client", principal.Subject)
		assert.True(t, principal.HasAuthority("SCOPE_payment.initiate"))
		assert.True(t, principal.HasAuthority("SCOPE_payment.read"))
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewHMACTokenIssuer([]byte(strings.Repeat("x", 32)), testIssuer).Issue(validRequest())
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := NewHMACTokenIssuer([]byte(testSecret), "http://evil").Issue(validRequest())
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong audience", func(t *testing.T) {
		req := validRequest()
		req.Audience = []string{"other"}
		token, err := issuer.Issue(req)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired beyond leeway", func(t *testing.T) {
		claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "payments-client",
			Issuer:    testIssuer,
			Audience:  jwt.ClaimStrings{testAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-2 * ClockSkew)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned token", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "x"}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := verifier.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestIssueRejectsNonPositiveTTL(t *testing.T) {
	req := validRequest()
	req.TTL = 0

	_, err := NewHMACTokenIssuer([]byte(testSecret), testIssuer).Issue(req)
	assert.Error(t, err)
}

func TestPublicKeyTokenVerifier(t *testing.T) {
	log := testutil.SetupTestLogger(t)

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "public.pem")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), 0o600))

	verifier, err := NewTokenVerifier(context.Background(), &config.AuthSettings{PublicKeyPath: path}, log)
	require.NoError(t, err)

	token, err := NewRSATokenIssuer(key, "", testIssuer).Issue(validRequest())
	require.NoError(t, err)

	principal, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "payments-client", principal.Subject)

	hmacToken, err := NewHMACTokenIssuer([]byte(testSecret), testIssuer).Issue(validRequest())
	require.NoError(t, err)
	_, err = verifier.Verify(hmacToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWKSTokenVerifier(t *testing.T) {
	log := testutil.SetupTestLogger(t)

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(jose.JSONWebKeySet{Keys: []jose.JSONWebKey{
			{Key: &key.PublicKey, KeyID: "key-1", Use: "sig", Algorithm: "RS256"},
		}})
	}))
	defer server.Close()

	settings := &config.AuthSettings{
		Issuer:              testIssuer,
		JWKSURL:             server.URL,
		JWKSRefreshInterval: time.Hour,
	}
	verifier, err := NewTokenVerifier(context.Background(), settings, log)
	require.NoError(t, err)

	token, err := NewRSATokenIssuer(key, "key-1", testIssuer).Issue(validRequest())
	require.NoError(t, err)

	principal, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "payments-client", principal.Subject)

	unknown, err := NewRSATokenIssuer(key, "key-2", testIssuer).Issue(validRequest())
	require.NoError(t, err)
	_, err = verifier.Verify(unknown)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, ErrUnknownKey)

	assert.Equal(t, int32(1), hits.Load())
}

func TestJWKSKeySetRefreshFailure(t *testing.T) {
	log := testutil.SetupTestLogger(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	keySet := NewJWKSKeySet(server.URL, time.Minute, nil, log)
	assert.Error(t, keySet.Refresh(context.Background()))
}

func TestJWKSKeySet_FailingEndpointFetchedOncePerInterval(t *testing.T) {
	log := testutil.SetupTestLogger(t)

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	keySet := NewJWKSKeySet(server.URL, time.Minute, nil, log)
	token := &jwt.Token{Header: map[string]interface{}{"kid": "rotated-key"}}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := keySet.Keyfunc(token)
			assert.Error(t, err)
		}()
	}
	wg.Wait()

	_, err := keySet.Keyfunc(token)
	assert.ErrorIs(t, err, ErrUnknownKey)
	assert.Equal(t, int32(1), hits.Load())
}

func TestJWKSKeySet_SkipsNonSigningKeys(t *testing.T) {
	log := testutil.SetupTestLogger(t)

	signing, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	encryption, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(jose.JSONWebKeySet{Keys: []jose.JSONWebKey{
			{Key: &signing.PublicKey, KeyID: "sig-1", Use: "sig", Algorithm: "RS256"},
			{Key: &encryption.PublicKey, KeyID: "enc-1", Use: "enc", Algorithm: "RSA-OAEP"},
		}})
	}))
	defer server.Close()

	keySet := NewJWKSKeySet(server.URL, time.Hour, nil, log)
	require.NoError(t, keySet.Refresh(context.Background()))

	key, err := keySet.Keyfunc(&jwt.Token{Header: map[string]interface{}{"kid": "sig-1"}})
	require.NoError(t, err)
	assert.True(t, signing.PublicKey.Equal(key))

	key, err = keySet.Keyfunc(&jwt.Token{Header: map[string]interface{}{}})
	require.NoError(t, err, "a single signing key is used when the token has no kid")
	assert.True(t, signing.PublicKey.Equal(key))

	_, err = keySet.Keyfunc(&jwt.Token{Header: map[string]interface{}{"kid": "enc-1"}})
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestNewTokenVerifierRequiresOneKeySource(t *testing.T) {
	log := testutil.SetupTestLogger(t)

	_, err := NewTokenVerifier(context.Background(), &config.AuthSettings{}, log)
	assert.Error(t, err)
}
