package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFormRequired(t *testing.T) {
	res := ValidateForm(map[string]string{"name": ""}, RuleSet{"name": {Required: true}})
	assert.Equal(t, Result{"name": "name is required."}, res)
	assert.False(t, res.Valid())
}

func TestValidateFormMissingField(t *testing.T) {
	res := ValidateForm(map[string]string{}, RuleSet{"email": {Required: true, Email: true}})
	assert.Equal(t, Result{"email": "email is required."}, res)
}

func TestValidateFormPrecedence(t *testing.T) {
	rules := RuleSet{
		"email": {Required: true, Email: true, MinLength: 20},
		"bio":   {MinLength: 3, MaxLength: 5},
		"code": {
			MinLength:     2,
			Custom:        func(s string) bool { return s == "ok" },
			CustomMessage: "Code rejected.",
		},
		"tag": {Custom: func(s string) bool { return s != "" }},
	}

	res := ValidateForm(map[string]string{
		"email": "not-an-email",
		"bio":   "toolong",
		"code":  "x",
		"tag":   "",
	}, rules)

	assert.Equal(t, Result{
		"email": MsgInvalidEmail,
		"bio":   "bio must be at most 5 characters.",
		"code":  "code must be at least 2 characters.",
		"tag":   "tag is invalid.",
	}, res)
}

func TestValidateFormCustomMessage(t *testing.T) {
	rules := RuleSet{"price": {Required: true, Custom: Price, CustomMessage: MsgInvalidPrice}}

	assert.Equal(t, Result{"price": MsgInvalidPrice}, ValidateForm(map[string]string{"price": "0"}, rules))
	assert.True(t, ValidateForm(map[string]string{"price": "10"}, rules).Valid())
}

func TestValidateFormEmptyOptionalSkipsFormatChecks(t *testing.T) {
	rules := RuleSet{"email": {Email: true, MinLength: 5, MaxLength: 10}}
	assert.True(t, ValidateForm(map[string]string{"email": ""}, rules).Valid())
}

func TestValidateFormOnlyRuledFields(t *testing.T) {
	res := ValidateForm(map[string]string{"extra": "", "name": "Ann"}, RuleSet{"name": {Required: true}})
	assert.Empty(t, res)
	assert.True(t, res.Valid())
}

func TestValidateFormLengthCountsCharacters(t *testing.T) {
	rules := RuleSet{"name": {MaxLength: 3}}
	assert.True(t, ValidateForm(map[string]string{"name": "Đức"}, rules).Valid())
}

func TestValidateFormIsIdempotent(t *testing.T) {
	data := map[string]string{"email": "bad", "password": "abc", "name": ""}
	rules := RuleSet{
		"email":    {Required: true, Email: true},
		"password": {Required: true, MinLength: 6},
		"name":     {Required: true},
	}

	first := ValidateForm(data, rules)
	second := ValidateForm(data, rules)
	assert.Equal(t, first, second)
	assert.Len(t, first, 3)
}
