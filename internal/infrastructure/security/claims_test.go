//go:build unit
// +build unit

package security

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimsAuthorities(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected []string
	}{
		{
			name:     "space separated scope",
			payload:  `{"sub":"client","scope":"payment.initiate payment.read"}`,
			expected: []string{"SCOPE_payment.initiate", "SCOPE_payment.read"},
		},
		{
			name:     "scp list",
			payload:  `{"sub":"client","scp":["payment.read"]}`,
			expected: []string{"SCOPE_payment.read"},
		},
		{
			name:     "scope wins over scp",
			payload:  `{"scope":"payment.read","scp":["payment.initiate"]}`,
			expected: []string{"SCOPE_payment.read"},
		},
		{
			name:     "realm roles are upper cased",
			payload:  `{"scope":"payment.read","realm_access":{"roles":["admin","ops"]}}`,
			expected: []string{"ROLE_ADMIN", "ROLE_OPS", "SCOPE_payment.read"},
		},
		{
			name:     "no authorities",
			payload:  `{"sub":"client"}`,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var claims Claims
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &claims))
			assert.Equal(t, tt.expected, claims.Authorities())
		})
	}
}

func TestScopeClaimRejectsObjects(t *testing.T) {
	var claims Claims
	err := json.Unmarshal([]byte(`{"scope":{"a":1}}`), &claims)
	assert.Error(t, err)
}

func TestPrincipalHasAuthority(t *testing.T) {
	p := &Principal{Subject: "client", Authorities: []string{"SCOPE_payment.read"}}

	assert.True(t, p.HasAuthority("SCOPE_payment.read"))
	assert.False(t, p.HasAuthority("SCOPE_payment.initiate"))
}
