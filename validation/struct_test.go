package validation

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productPayload struct {
	Name     string  `json:"name" validate:"required"`
	Price    float64 `json:"price" validate:"gs_price"`
	Stock    int     `json:"stock" validate:"gs_stock"`
	Category string  `json:"category" validate:"required,oneof=Electronics Cameras"`
}

type reviewPayload struct {
	Rating  float64 `json:"rating" validate:"gs_rating"`
	Comment string  `json:"comment" validate:"required,max=10"`
}

type orderLine struct {
	Quantity int     `json:"quantity" validate:"min=1"`
	Price    float64 `json:"price" validate:"gs_price"`
}

type orderPayload struct {
	Items []orderLine `json:"orderItems" validate:"required,min=1,dive"`
	Phone string      `json:"phoneNo" validate:"gs_phone"`
}

type passwordPayload struct {
	Password string `json:"password" validate:"gs_password"`
}

func TestStructValid(t *testing.T) {
	assert.NoError(t, Struct(productPayload{Name: "Cam", Price: 10, Stock: 0, Category: "Cameras"}))
	assert.NoError(t, Struct(&reviewPayload{Rating: 4, Comment: "nice"}))
}

func TestStructFieldErrors(t *testing.T) {
	err := Struct(productPayload{Price: 0, Stock: -2, Category: "Toys"})
	require.Error(t, err)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{
		"name":     "name is required.",
		"price":    MsgInvalidPrice,
		"stock":    MsgInvalidStock,
		"category": "category must be one of: Electronics, Cameras.",
	}, verr.Fields)
	assert.Contains(t, verr.Error(), "4 errors")
	assert.Equal(t, Result(verr.Fields), verr.Result())
}

func TestStructSingleError(t *testing.T) {
	err := Struct(reviewPayload{Rating: 6, Comment: "ok"})
	require.Error(t, err)
	assert.Equal(t, "validation failed: rating: "+MsgInvalidRating, err.Error())

	err = Struct(reviewPayload{Rating: 3, Comment: "far too long"})
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "comment must be at most 10 characters.", verr.Fields["comment"])
}

func TestStructNestedPaths(t *testing.T) {
	err := Struct(orderPayload{
		Items: []orderLine{{Quantity: 1, Price: 5}, {Quantity: 0, Price: 5}},
		Phone: "0123456789",
	})

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{"orderItems[1].quantity": "quantity must be at least 1."}, verr.Fields)
}

func TestStructPasswordMessages(t *testing.T) {
	var verr *Error

	require.ErrorAs(t, Struct(passwordPayload{Password: "abc"}), &verr)
	assert.Equal(t, MsgPasswordTooShort, verr.Fields["password"])

	require.ErrorAs(t, Struct(passwordPayload{Password: "abcdefg"}), &verr)
	assert.Equal(t, MsgPasswordCase, verr.Fields["password"])

	assert.NoError(t, Struct(passwordPayload{Password: "Abcdefg"}))
}

func TestStructNonStruct(t *testing.T) {
	err := Struct("nope")
	require.Error(t, err)

	var verr *Error
	assert.False(t, errors.As(err, &verr))
}

func TestErrorWithoutFields(t *testing.T) {
	assert.Equal(t, "validation failed", (&Error{}).Error())
}

type resetPayload struct {
	Password        string `json:"password" validate:"required,gs_password"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Amount          int64  `json:"amount" validate:"gt=0"`
}

func TestStructComparisonMessages(t *testing.T) {
	var verr *Error
	require.ErrorAs(t, Struct(resetPayload{Password: "Secret1", ConfirmPassword: "Secret2"}), &verr)
	assert.Equal(t, map[string]string{
		"confirmPassword": MsgPasswordsMismatch,
		"amount":          "amount must be greater than 0.",
	}, verr.Fields)
}

type contactPayload struct {
	Email string `json:"email" validate:"required,gs_email"`
}

func TestStructEmailFollowsFormGrammar(t *testing.T) {
	for _, email := range []string{"a@b.com", "a..b@c.com", "user@host_name.com", "a@-b.com", "a@b.com."} {
		require.True(t, Email(email), email)
		assert.NoError(t, Struct(contactPayload{Email: email}), email)
	}

	for _, email := range []string{"a@b", "no-at.com", "a b@c.com"} {
		err := Struct(contactPayload{Email: email})
		var verr *Error
		require.True(t, errors.As(err, &verr), email)
		assert.Equal(t, MsgInvalidEmail, verr.Fields["email"], email)
	}

	rules := RulesFor(reflect.TypeOf(contactPayload{}))
	assert.True(t, rules["email"].Email)
}
