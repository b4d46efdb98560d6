package middleware

import (
	"net/http"
	"strings"

	"github.com/ajharry69/kcb-b2c-payment/internal/infrastructure/security"
	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/logger"
	"github.com/gin-gonic/gin"
)

// PrincipalKey is the gin context key of the authenticated *security.Principal.
const PrincipalKey = "principal"

// TokenVerifier validates a raw bearer token.
type TokenVerifier interface {
	Verify(token string) (*security.Principal, error)
}

// RequireAuth rejects requests without a valid bearer token with 401 and stores the
// caller under PrincipalKey.
func RequireAuth(verifier TokenVerifier, logger logger.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			ctx.Header("WWW-Authenticate", "Bearer")
			AbortWithError(ctx, http.StatusUnauthorized, MessageUnauthorized)
			return
		}

		principal, err := verifier.Verify(strings.TrimSpace(token))
		if err != nil {
			logger.Warn("Rejected bearer token for ", ctx.Request.URL.Path, ": ", err)
			ctx.Header("WWW-Authenticate", `Bearer error="invalid_token"`)
			AbortWithError(ctx, http.StatusUnauthorized, MessageUnauthorized)
			return
		}

		ctx.Set(PrincipalKey, principal)
		ctx.Next()
	}
}

// RequireAuthority rejects callers lacking authority with 403. It must run after RequireAuth.
func RequireAuthority(authority string, logger logger.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		principal, ok := PrincipalFrom(ctx)
		if !ok {
			AbortWithError(ctx, http.StatusUnauthorized, MessageUnauthorized)
			return
		}
		if !principal.HasAuthority(authority) {
			logger.Warn("Access Denied: ", principal.Subject, " lacks ", authority, " for ", ctx.Request.URL.Path)
			AbortWithError(ctx, http.StatusForbidden, MessageForbidden)
			return
		}
		ctx.Next()
	}
}

// PrincipalFrom returns the caller stored by RequireAuth.
func PrincipalFrom(ctx *gin.Context) (*security.Principal, bool) {
	value, ok := ctx.Get(PrincipalKey)
	if !ok {
		return nil, false
	}
	principal, ok := value.(*security.Principal)
	return principal, ok
}
