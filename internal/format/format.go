// Package format holds the pure validation and display helpers: IBAN
// shape checking and grouping, the amount entry mask, and the countdown
// and currency rendering used by the session display surface.
package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ibanShape  = regexp.MustCompile(`^[A-Z]{2}\d{2}[A-Z\d]{1,30}$`)
	amountMask = regexp.MustCompile(`^\d*\.?\d{0,2}$`)
)

// German IBANs are fixed-length; every other country is only checked
// against the generic shape.
const germanIBANLength = 22

// StripSpaces removes all whitespace from s. This is the normalization
// applied to an IBAN before transmission and before comparisons.
func StripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// NormalizeIBAN strips whitespace and upper-cases, yielding the canonical
// form used for validity checks and duplicate detection.
func NormalizeIBAN(iban string) string {
	return strings.ToUpper(StripSpaces(iban))
}

// ValidIBAN reports whether raw normalizes to a well-formed IBAN:
// two letters, two digits, one to thirty alphanumerics, and for German
// IBANs a total length of exactly 22. Invalid input returns false, never
// an error.
func ValidIBAN(raw string) bool {
	clean := NormalizeIBAN(raw)
	if !ibanShape.MatchString(clean) {
		return false
	}
	return !strings.HasPrefix(clean, "DE") || len(clean) == germanIBANLength
}

// FormatIBAN groups an IBAN into 4-character blocks for display.
// Stripping the whitespace back out recovers the input exactly.
func FormatIBAN(iban string) string {
	var b strings.Builder
	for i, r := range iban {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ValidAmountInput is the keystroke-level entry mask for amounts: empty,
// or digits optionally followed by a decimal point and up to two digits.
func ValidAmountInput(v string) bool {
	return amountMask.MatchString(v)
}

// ParseAmount parses a submitted amount string to a non-negative decimal.
// Empty strings and strings that fail the entry mask are rejected.
func ParseAmount(v string) (float64, error) {
	if v == "" || !ValidAmountInput(v) {
		return 0, fmt.Errorf("invalid amount %q", v)
	}
	amount, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", v, err)
	}
	return amount, nil
}

// Amount renders a currency value with the euro symbol and exactly two
// fraction digits.
func Amount(v float64) string {
	return fmt.Sprintf("€%.2f", v)
}

// Countdown renders remaining seconds as "M:SS" with zero-padded seconds.
func Countdown(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// Timestamp renders a service timestamp for display. The service sends
// zoneless local date-times; RFC 3339 is accepted too. Unparseable input
// is shown as-is rather than dropped.
func Timestamp(s string) string {
	for _, layout := range []string{"2006-01-02T15:04:05.999999999", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("Jan 2, 2006, 03:04 PM")
		}
	}
	return s
}
