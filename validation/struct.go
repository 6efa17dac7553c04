package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator with the custom tags above and
// reports failures under JSON field names.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a Validator with the custom tags registered.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	register := func(tag string, pred func(string) bool) {
		// Registration only fails for empty tags or nil funcs.
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return pred(fieldString(fl.Field()))
		})
	}
	register(TagPassword, func(s string) bool { return Password(s).Valid })
	register(TagName, Name)
	register(TagPrice, Price)
	register(TagStock, Stock)
	register(TagRating, Rating)
	register(TagPhone, Phone)
	register(TagEmail, Email)

	return &Validator{validate: v}
}

var defaultValidator = sync.OnceValue(NewValidator)

// Struct validates s with the shared Validator.
func Struct(s any) error {
	return defaultValidator().Struct(s)
}

// Struct validates s. Field failures are returned as *Error; anything else
// (such as a non-struct argument) is returned unchanged.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		key := fieldKey(fe)
		if _, seen := fields[key]; !seen {
			fields[key] = message(fe)
		}
	}
	return &Error{Fields: fields}
}

// Error lists failing fields keyed by JSON path, e.g. "orderItems[0].price".
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	switch len(e.Fields) {
	case 0:
		return "validation failed"
	case 1:
		for field, msg := range e.Fields {
			return fmt.Sprintf("validation failed: %s: %s", field, msg)
		}
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("validation failed: %d errors (%s)", len(keys), strings.Join(keys, ", "))
}

// Result converts the error to the form engine's result shape.
func (e *Error) Result() Result {
	out := make(Result, len(e.Fields))
	for k, v := range e.Fields {
		out[k] = v
	}
	return out
}

func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, found := strings.Cut(ns, "."); found {
		return rest
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", field)
	case "email", TagEmail:
		return MsgInvalidEmail
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s.", field, fe.Param())
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s.", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s.", field, fe.Param())
	case "eqfield":
		return MsgPasswordsMismatch
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "url":
		return MsgInvalidURL
	case TagPassword:
		return Password(fieldString(reflect.ValueOf(fe.Value()))).Message
	default:
		if check, ok := customChecks[fe.Tag()]; ok {
			return check.message
		}
		return fmt.Sprintf("%s is invalid.", field)
	}
}

// fieldString renders scalar fields the way they would appear in a form.
func fieldString(v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return ""
		}
		return fieldString(v.Elem())
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	default:
		return fmt.Sprint(v.Interface())
	}
}
