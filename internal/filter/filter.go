// Package filter narrows a list of transactions by a composable set of
// optional constraints.
package filter

import (
	"slices"
	"strings"
	"time"

	"github.com/keithsimkin/moneymanager-sub001/internal/finance"
)

// Options holds filter criteria for transaction lists.
// Pointer fields distinguish "not set" from zero values; a nil pointer, an
// empty string or an empty slice places no constraint on that dimension.
type Options struct {
	Search      *string                  // case-insensitive match on description or category
	StartDate   *string                  // inclusive lower date bound
	EndDate     *string                  // inclusive upper date bound
	Category    *finance.Category        // exact match
	AccountID   *string                  // exact match
	AccountIDs  []string                 // membership; applied in addition to AccountID
	Type        *finance.TransactionType // exact match
	MinAmount   *float64                 // inclusive, on the raw amount
	MaxAmount   *float64                 // inclusive, on the raw amount
	IsRecurring *bool
}

// IsZero reports whether no constraint is set.
func (o Options) IsZero() bool {
	return nonEmpty(o.Search) == "" &&
		nonEmpty(o.StartDate) == "" &&
		nonEmpty(o.EndDate) == "" &&
		(o.Category == nil || *o.Category == "") &&
		nonEmpty(o.AccountID) == "" &&
		len(o.AccountIDs) == 0 &&
		(o.Type == nil || *o.Type == "") &&
		o.MinAmount == nil &&
		o.MaxAmount == nil &&
		o.IsRecurring == nil
}

// Apply returns the transactions that satisfy every constraint in opts, in
// their original order. The input slice is never modified.
func Apply(transactions []finance.Transaction, opts Options) []finance.Transaction {
	m := compile(opts)
	out := make([]finance.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if m.match(t) {
			out = append(out, t)
		}
	}
	return out
}

// bound is a parsed date limit. A bound that failed to parse rejects every
// transaction, the same way a comparison against an invalid date is false.
type bound struct {
	set   bool
	valid bool
	at    time.Time
}

func parseBound(s *string) bound {
	v := nonEmpty(s)
	if v == "" {
		return bound{}
	}
	at, err := finance.ParseDate(v)
	return bound{set: true, valid: err == nil, at: at}
}

type matcher struct {
	search     string
	category   finance.Category
	txType     finance.TransactionType
	accountID  string
	accountIDs []string
	start, end bound
	min, max   *float64
	recurring  *bool
}

func compile(o Options) matcher {
	m := matcher{
		search:     strings.ToLower(nonEmpty(o.Search)),
		accountID:  nonEmpty(o.AccountID),
		accountIDs: o.AccountIDs,
		start:      parseBound(o.StartDate),
		end:        parseBound(o.EndDate),
		min:        o.MinAmount,
		max:        o.MaxAmount,
		recurring:  o.IsRecurring,
	}
	if o.Category != nil {
		m.category = *o.Category
	}
	if o.Type != nil {
		m.txType = *o.Type
	}
	return m
}

func (m matcher) match(t finance.Transaction) bool {
	if m.search != "" &&
		!strings.Contains(strings.ToLower(t.Description), m.search) &&
		!strings.Contains(strings.ToLower(string(t.Category)), m.search) {
		return false
	}
	if m.category != "" && t.Category != m.category {
		return false
	}
	if m.txType != "" && t.Type != m.txType {
		return false
	}
	if m.start.set || m.end.set {
		at, err := finance.ParseDate(t.Date)
		if err != nil {
			return false
		}
		if m.start.set && (!m.start.valid || at.Before(m.start.at)) {
			return false
		}
		if m.end.set && (!m.end.valid || at.After(m.end.at)) {
			return false
		}
	}
	if m.accountID != "" && t.AccountID != m.accountID {
		return false
	}
	if len(m.accountIDs) > 0 && !slices.Contains(m.accountIDs, t.AccountID) {
		return false
	}
	if m.min != nil && t.Amount < *m.min {
		return false
	}
	if m.max != nil && t.Amount > *m.max {
		return false
	}
	if m.recurring != nil && t.IsRecurring != *m.recurring {
		return false
	}
	return true
}

func nonEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
