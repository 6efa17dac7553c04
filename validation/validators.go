// Package validation gates outbound payloads. It offers primitive predicates,
// a declarative form rule engine and struct validation for request types.
package validation

import (
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Password messages
const (
	MsgPasswordTooShort = "Password must be at least 6 characters long."
	MsgPasswordCase     = "Password should contain uppercase and lowercase letters."
)

const (
	minPasswordLength = 6
	minNameLength     = 2
	maxNameLength     = 50
	maxPrice          = 1_000_000
	minRating         = 1
	maxRating         = 5
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern    = regexp.MustCompile(`^\d{10,}$`)
	phoneSeparators = regexp.MustCompile(`[\s\-()]`)
	upperPattern    = regexp.MustCompile(`[A-Z]`)
	lowerPattern    = regexp.MustCompile(`[a-z]`)
	digitPattern    = regexp.MustCompile(`\d`)
	specialPattern  = regexp.MustCompile(`[!@#$%^&*]`)
	leadingFloat    = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	leadingInteger  = regexp.MustCompile(`^[+-]?\d+`)
)

// PasswordResult reports a password check. HasNumber and HasSpecial are
// informational and never affect Valid.
type PasswordResult struct {
	Valid      bool
	Message    string
	HasNumber  bool
	HasSpecial bool
}

// Email reports whether s looks like local@domain.tld.
func Email(s string) bool {
	return emailPattern.MatchString(s)
}

// Password checks length first, then letter case.
func Password(s string) PasswordResult {
	if utf8.RuneCountInString(s) < minPasswordLength {
		return PasswordResult{Message: MsgPasswordTooShort}
	}

	res := PasswordResult{
		HasNumber:  digitPattern.MatchString(s),
		HasSpecial: specialPattern.MatchString(s),
	}
	if !upperPattern.MatchString(s) || !lowerPattern.MatchString(s) {
		res.Message = MsgPasswordCase
		return res
	}

	res.Valid = true
	return res
}

// Name accepts 2 to 50 characters after trimming.
func Name(s string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(s))
	return n >= minNameLength && n <= maxNameLength
}

// Price accepts values in (0, 1000000].
func Price(v string) bool {
	p, ok := parseLeadingFloat(v)
	return ok && p > 0 && p <= maxPrice
}

// Stock accepts non-negative integers. Trailing garbage after the leading
// digits is ignored, so "12 units" is 12.
func Stock(v string) bool {
	s := leadingInteger.FindString(strings.TrimSpace(v))
	if s == "" {
		return false
	}
	// Out of range values saturate to the matching sign.
	n, _ := strconv.ParseInt(s, 10, 64)
	return n >= 0
}

// Rating accepts values in [1, 5].
func Rating(v string) bool {
	r, ok := parseLeadingFloat(v)
	return ok && r >= minRating && r <= maxRating
}

// URL accepts absolute URLs.
func URL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	return err == nil && u.Scheme != ""
}

// Phone accepts at least ten digits once spaces, dashes and parentheses are removed.
func Phone(s string) bool {
	return phonePattern.MatchString(phoneSeparators.ReplaceAllString(s, ""))
}

// Required reports whether s has non-whitespace content.
func Required(s string) bool {
	return strings.TrimSpace(s) != ""
}

func parseLeadingFloat(v string) (float64, bool) {
	s := leadingFloat.FindString(strings.TrimSpace(v))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
