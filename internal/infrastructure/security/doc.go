// Package security verifies OAuth2 bearer tokens and maps their claims to
// authorities: scopes become SCOPE_<scope> and realm roles become ROLE_<ROLE>.
package security
