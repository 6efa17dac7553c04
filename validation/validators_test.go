package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	valid := []string{"a@b.co", "first.last@shop.example.com", "x+tag@d.io"}
	invalid := []string{"", "a@b", "a b@c.d", "@b.co", "a@.", "plainaddress", "a@b.co "}

	for _, s := range valid {
		assert.True(t, Email(s), s)
	}
	for _, s := range invalid {
		assert.False(t, Email(s), s)
	}
}

func TestPassword(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		valid   bool
		message string
	}{
		{name: "too_short", input: "Ab1", message: MsgPasswordTooShort},
		{name: "short_wins_over_case", input: "abc", message: MsgPasswordTooShort},
		{name: "lowercase_only", input: "abcdef", message: MsgPasswordCase},
		{name: "uppercase_only", input: "ABCDEF1", message: MsgPasswordCase},
		{name: "mixed_case", input: "Abcdef", valid: true},
		{name: "digits_not_required", input: "AbcdefG", valid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Password(tt.input)
			assert.Equal(t, tt.valid, res.Valid)
			assert.Equal(t, tt.message, res.Message)
		})
	}
}

func TestPasswordStrengthHints(t *testing.T) {
	res := Password("Abcdef1!")
	assert.True(t, res.Valid)
	assert.True(t, res.HasNumber)
	assert.True(t, res.HasSpecial)

	res = Password("Abcdefg")
	assert.False(t, res.HasNumber)
	assert.False(t, res.HasSpecial)
}

func TestName(t *testing.T) {
	assert.True(t, Name("Al"))
	assert.True(t, Name("  Ann  "))
	assert.False(t, Name(" A "))
	assert.False(t, Name(""))
	assert.True(t, Name(strings.Repeat("x", 50)))
	assert.False(t, Name(strings.Repeat("x", 51)))
}

func TestPrice(t *testing.T) {
	assert.True(t, Price("0.01"))
	assert.True(t, Price("1000000"))
	assert.True(t, Price("19.99 USD"))
	assert.False(t, Price("0"))
	assert.False(t, Price("-5"))
	assert.False(t, Price("1000000.01"))
	assert.False(t, Price("abc"))
	assert.False(t, Price(""))
}

func TestStock(t *testing.T) {
	assert.True(t, Stock("0"))
	assert.True(t, Stock("12"))
	assert.True(t, Stock("12 units"))
	assert.True(t, Stock("3.9"))
	assert.False(t, Stock("-1"))
	assert.False(t, Stock("abc"))
	assert.False(t, Stock(""))
	assert.True(t, Stock("99999999999999999999999"))
	assert.False(t, Stock("-99999999999999999999999"))
}

func TestRating(t *testing.T) {
	assert.True(t, Rating("1"))
	assert.True(t, Rating("4.5"))
	assert.True(t, Rating("5"))
	assert.False(t, Rating("0.9"))
	assert.False(t, Rating("5.1"))
	assert.False(t, Rating("good"))
}

func TestURL(t *testing.T) {
	assert.True(t, URL("https://res.cloudinary.com/x.png"))
	assert.True(t, URL("mailto:a@b.co"))
	assert.False(t, URL("/relative/path"))
	assert.False(t, URL("not a url"))
	assert.False(t, URL(""))
}

func TestPhone(t *testing.T) {
	assert.True(t, Phone("0123456789"))
	assert.True(t, Phone("(012) 345-6789"))
	assert.True(t, Phone("84 912 345 678"))
	assert.False(t, Phone("+84 912 345 678"))
	assert.False(t, Phone("12345"))
	assert.False(t, Phone("012345678a"))
}

func TestRequired(t *testing.T) {
	assert.True(t, Required("x"))
	assert.False(t, Required(""))
	assert.False(t, Required(" \t\n"))
}

func TestPredicatesAreIdempotent(t *testing.T) {
	inputs := []string{"", "a@b.co", "Abcdef", "12", "4.5", "https://x.io", "0123456789"}
	for _, in := range inputs {
		assert.Equal(t, Email(in), Email(in))
		assert.Equal(t, Password(in), Password(in))
		assert.Equal(t, Price(in), Price(in))
		assert.Equal(t, Stock(in), Stock(in))
		assert.Equal(t, Rating(in), Rating(in))
		assert.Equal(t, URL(in), URL(in))
		assert.Equal(t, Phone(in), Phone(in))
	}
}
