package testutil

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// AssertDecimal checks that got equals want numerically, so "10" matches "10.00".
func AssertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) bool {
	t.Helper()
	w := decimal.RequireFromString(want)
	if w.Equal(got) {
		return true
	}
	return assert.Fail(t, fmt.Sprintf("decimal mismatch: want %s, got %s", w, got), msgAndArgs...)
}

// AssertErrorContains checks that err contains the expected substring.
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), expected)
	}
}
