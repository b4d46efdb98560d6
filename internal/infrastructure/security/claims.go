package security

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Authority prefixes
const (
	ScopePrefix = "SCOPE_"
	RolePrefix  = "ROLE_"
)

// ScopeClaim accepts both the space separated string and the list form of a scope claim.
type ScopeClaim []string

func (s *ScopeClaim) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = strings.Fields(single)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("scope claim must be a string or a list of strings: %w", err)
	}
	*s = list
	return nil
}

func (s ScopeClaim) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.Join(s, " "))
}

// RealmAccess is the Keycloak realm role claim.
type RealmAccess struct {
	Roles []string `json:"roles"`
}

// Claims are the token claims understood by the resource server
type Claims struct {
	Scope       ScopeClaim   `json:"scope,omitempty"`
	Scp         ScopeClaim   `json:"scp,omitempty"`
	RealmAccess *RealmAccess `json:"realm_access,omitempty"`
	jwt.RegisteredClaims
}

// Authorities returns the sorted, de-duplicated authorities granted by the claims.
// The scope claim takes precedence over scp.
func (c *Claims) Authorities() []string {
	set := map[string]struct{}{}

	scopes := c.Scope
	if len(scopes) == 0 {
		scopes = c.Scp
	}
	for _, scope := range scopes {
		set[ScopePrefix+scope] = struct{}{}
	}

	if c.RealmAccess != nil {
		for _, role := range c.RealmAccess.Roles {
			set[RolePrefix+strings.ToUpper(role)] = struct{}{}
		}
	}

	authorities := make([]string, 0, len(set))
	for a := range set {
		authorities = append(authorities, a)
	}
	sort.Strings(authorities)
	return authorities
}

// Principal is an authenticated caller.
type Principal struct {
	Subject     string
	Authorities []string
}

// HasAuthority reports whether the principal was granted authority.
func (p *Principal) HasAuthority(authority string) bool {
	for _, a := range p.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}
