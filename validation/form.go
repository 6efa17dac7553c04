package validation

import (
	"fmt"
	"unicode/utf8"
)

// MsgInvalidEmail is reported for fields with the Email rule.
const MsgInvalidEmail = "Please enter a valid email address."

// Rule declares the checks for one field. Zero values disable a check.
type Rule struct {
	Required      bool
	Email         bool
	MinLength     int
	MaxLength     int
	Custom        func(string) bool
	CustomMessage string
}

// RuleSet maps field names to their rules.
type RuleSet map[string]Rule

// Result maps failing field names to messages. Passing fields are absent.
type Result map[string]string

// Valid reports whether no field failed.
func (r Result) Valid() bool {
	return len(r) == 0
}

// ValidateForm checks data against rules. For each field the first failing
// check wins, in the order required, email, min length, max length, custom.
// Email and length checks only apply to non-empty values; custom always runs.
// Fields in data without a rule are ignored.
func ValidateForm(data map[string]string, rules RuleSet) Result {
	errs := make(Result)
	for field, rule := range rules {
		if msg, failed := checkField(field, data[field], rule); failed {
			errs[field] = msg
		}
	}
	return errs
}

func checkField(field, value string, rule Rule) (string, bool) {
	if rule.Required && !Required(value) {
		return fmt.Sprintf("%s is required.", field), true
	}

	if value != "" {
		if rule.Email && !Email(value) {
			return MsgInvalidEmail, true
		}
		n := utf8.RuneCountInString(value)
		if rule.MinLength > 0 && n < rule.MinLength {
			return fmt.Sprintf("%s must be at least %d characters.", field, rule.MinLength), true
		}
		if rule.MaxLength > 0 && n > rule.MaxLength {
			return fmt.Sprintf("%s must be at most %d characters.", field, rule.MaxLength), true
		}
	}

	if rule.Custom != nil && !rule.Custom(value) {
		if rule.CustomMessage != "" {
			return rule.CustomMessage, true
		}
		return fmt.Sprintf("%s is invalid.", field), true
	}

	return "", false
}
