// Package normalize turns free-text units, quantities and dates captured on
// delivery notes into the canonical forms the match pipeline computes with.
// Everything here is pure.
package normalize

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrInvalidDate     = errors.New("invalid date")
)

// Effective returns override when it is set, otherwise original.
func Effective(original, override string) string {
	if strings.TrimSpace(override) != "" {
		return override
	}
	return original
}

func EffectivePhase(original, override *uint) *uint {
	if override != nil {
		return override
	}
	return original
}

// EffectiveQuantity renders the quantity the pipeline should use as text.
// A stored override wins over the captured value.
func EffectiveQuantity(original string, override *decimal.Decimal) string {
	if override != nil {
		return override.String()
	}
	return original
}

// MatchCanonicalUnit finds unit in vocabulary ignoring case and surrounding
// whitespace, returning the vocabulary spelling.
func MatchCanonicalUnit(unit string, vocabulary []string) (string, bool) {
	needle := strings.TrimSpace(unit)
	if needle == "" {
		return "", false
	}
	for _, v := range vocabulary {
		if strings.EqualFold(strings.TrimSpace(v), needle) {
			return v, true
		}
	}
	return "", false
}

// SameUnit reports whether a and b name the same unit ignoring case.
func SameUnit(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// ParseQuantity accepts plain decimal text, optionally signed, with
// surrounding whitespace.
func ParseQuantity(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, ErrInvalidQuantity
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidQuantity
	}
	return d, nil
}

func QuantityFloat(raw string) (float64, error) {
	d, err := ParseQuantity(raw)
	if err != nil {
		return 0, err
	}
	f, _ := d.Float64()
	return f, nil
}

var dateLayouts = []string{
	"2/1/2006",
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ISODate normalizes a captured delivery-note date to YYYY-MM-DD.
// Day-first slash dates are the capture format.
func ISODate(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", ErrInvalidDate
}

// ScalingFactorFor looks up unit in a per-unit scaling factor map. The lookup
// is case-sensitive, unlike MatchCanonicalUnit.
func ScalingFactorFor(unit string, factors map[string]float64) (float64, bool) {
	if len(factors) == 0 {
		return 0, false
	}
	v, ok := factors[unit]
	return v, ok
}
