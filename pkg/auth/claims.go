package auth

import (
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Roles understood by the position service.
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
	RoleSystem = "system"
)

// Claims are the JWT claims a caller presents. Portfolios lists the portfolio
// codes the caller may read; "*" grants every portfolio.
type Claims struct {
	jwt.RegisteredClaims
	Portfolios []string `json:"portfolios,omitempty"`
	Roles      []string `json:"roles"`
}

// HasRole checks if the claims include the specified role.
func (c Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// CanAccessPortfolio reports whether the caller may read portfolio code.
// Admin and system callers can read everything.
func (c Claims) CanAccessPortfolio(code string) bool {
	if c.HasRole(RoleAdmin) || c.HasRole(RoleSystem) {
		return true
	}
	for _, p := range c.Portfolios {
		if p == "*" || strings.EqualFold(p, code) {
			return true
		}
	}
	return false
}
