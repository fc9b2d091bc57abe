package ledger

import (
	"strings"

	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/apperrors"
	"github.com/shopspring/decimal"
)

type FilterMode string

const (
	FilterAll     FilterMode = "all"
	FilterOwes    FilterMode = "owes"
	FilterCredit  FilterMode = "credit"
	FilterSettled FilterMode = "settled"
)

// ParseFilterMode accepts the list filter values; empty means all.
func ParseFilterMode(s string) (FilterMode, error) {
	switch m := FilterMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return FilterAll, nil
	case FilterAll, FilterOwes, FilterCredit, FilterSettled:
		return m, nil
	default:
		return "", apperrors.Validation("filter must be one of all, owes, credit, settled")
	}
}

// Matches reports whether a balance belongs to the mode.
func (m FilterMode) Matches(balance decimal.Decimal) bool {
	switch m {
	case FilterOwes:
		return balance.IsPositive()
	case FilterCredit:
		return balance.IsNegative()
	case FilterSettled:
		return balance.Abs().LessThanOrEqual(settledTolerance)
	default:
		return true
	}
}

// MatchesQuery reports whether any field contains query, ignoring case.
// An empty query matches everything.
func MatchesQuery(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// Filter keeps the items whose balance matches mode and whose searchable
// fields match query, preserving order. It never mutates items.
func Filter[T any](items []T, query string, mode FilterMode, balanceOf func(T) decimal.Decimal, searchable func(T) []string) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if !mode.Matches(balanceOf(item)) {
			continue
		}
		if !MatchesQuery(query, searchable(item)...) {
			continue
		}
		out = append(out, item)
	}
	return out
}
