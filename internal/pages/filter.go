package pages

import (
	"strings"

	"github.com/ryanuber/go-glob"
	"github.com/shopspring/decimal"

	"github.com/comptaflow/console/internal/models"
)

// Filters is the client-side filter state of a list page. It is never
// persisted; Reset returns it to the zero value.
type Filters struct {
	Search    string      `json:"search,omitempty"`
	Company   models.ID   `json:"company,omitempty"`
	Kind      string      `json:"kind,omitempty"`
	State     string      `json:"state,omitempty"`
	DateFrom  models.Date `json:"date_from,omitempty"`
	DateTo    models.Date `json:"date_to,omitempty"`
	AmountMin string      `json:"amount_min,omitempty"`
	AmountMax string      `json:"amount_max,omitempty"`
}

// FieldSet declares how the filter predicates read an entity. A nil
// accessor makes the corresponding filter a no-op for that entity.
type FieldSet[E models.Record] struct {
	Search  func(E) []string
	Company func(E) models.ID
	Kind    func(E) string
	State   func(E) string
	Date    func(E) models.Date
	Amount  func(E) models.Amount
}

// Apply returns the subset of records where every active filter predicate
// matches. A filter with an unset value always matches. Apply is pure and
// idempotent over its result.
func Apply[E models.Record](records []E, filters Filters, fields FieldSet[E]) []E {
	result := make([]E, 0, len(records))
	for _, record := range records {
		if matches(record, filters, fields) {
			result = append(result, record)
		}
	}

	return result
}

func matches[E models.Record](record E, filters Filters, fields FieldSet[E]) bool {
	if !matchSearch(record, filters.Search, fields.Search) {
		return false
	}

	if !filters.Company.IsZero() && fields.Company != nil && fields.Company(record) != filters.Company {
		return false
	}

	if filters.Kind != "" && fields.Kind != nil && fields.Kind(record) != filters.Kind {
		return false
	}

	if filters.State != "" && fields.State != nil && fields.State(record) != filters.State {
		return false
	}

	if fields.Date != nil && !matchDate(fields.Date(record), filters.DateFrom, filters.DateTo) {
		return false
	}

	if fields.Amount != nil && !matchAmount(fields.Amount(record), filters.AmountMin, filters.AmountMax) {
		return false
	}

	return true
}

// matchSearch matches the needle case-insensitively against the entity's
// searchable fields, by substring containment or glob pattern.
func matchSearch[E models.Record](record E, needle string, search func(E) []string) bool {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" || search == nil {
		return true
	}

	for _, field := range search(record) {
		field = strings.ToLower(field)
		if strings.Contains(field, needle) || glob.Glob(needle, field) {
			return true
		}
	}

	return false
}

// matchDate compares at calendar-day granularity. The "to" bound is
// inclusive through end-of-day. A record without a date never matches an
// active bound.
func matchDate(value models.Date, from, to models.Date) bool {
	if from.IsZero() && to.IsZero() {
		return true
	}

	if value.IsZero() {
		return false
	}

	if !from.IsZero() && value.Before(from.Time) {
		return false
	}

	if !to.IsZero() && value.After(to.Time) {
		return false
	}

	return true
}

// matchAmount checks min/max bounds. A missing or non-numeric stored value
// never matches an active bound; a bound that does not parse is treated as
// unset.
func matchAmount(value models.Amount, min, max string) bool {
	minBound, minActive := parseBound(min)
	maxBound, maxActive := parseBound(max)

	if !minActive && !maxActive {
		return true
	}

	amount, ok := value.Decimal()
	if !ok {
		return false
	}

	if minActive && amount.LessThan(minBound) {
		return false
	}

	if maxActive && amount.GreaterThan(maxBound) {
		return false
	}

	return true
}

func parseBound(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Decimal{}, false
	}

	bound, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, false
	}

	return bound, true
}
