package validation

import (
	"reflect"
	"strconv"
	"strings"
)

const trueValue = "true"

// Custom validation tags understood by both RulesFor and Struct.
const (
	TagPassword = "gs_password"
	TagName     = "gs_name"
	TagPrice    = "gs_price"
	TagStock    = "gs_stock"
	TagRating   = "gs_rating"
	TagPhone    = "gs_phone"
	TagEmail    = "gs_email"
)

// Messages reported for the custom tags.
const (
	MsgInvalidName   = "Name must be between 2 and 50 characters."
	MsgInvalidPrice  = "Price must be greater than 0 and at most 1,000,000."
	MsgInvalidStock  = "Stock must be a whole number of 0 or more."
	MsgInvalidRating = "Rating must be between 1 and 5."
	MsgInvalidPhone  = "Please enter a valid phone number."
	MsgInvalidURL    = "Please enter a valid URL."

	MsgPasswordsMismatch = "Passwords do not match."
)

type customCheck struct {
	pred    func(string) bool
	message string
}

var customChecks = map[string]customCheck{
	TagName:   {Name, MsgInvalidName},
	TagPrice:  {Price, MsgInvalidPrice},
	TagStock:  {Stock, MsgInvalidStock},
	TagRating: {Rating, MsgInvalidRating},
	TagPhone:  {Phone, MsgInvalidPhone},
	"url":     {URL, MsgInvalidURL},
}

// TagInfo represents parsed validation tag information from a struct field
type TagInfo struct {
	Name        string            // Go field name
	JSONName    string            // JSON field name (from json tag)
	Kind        reflect.Kind      // underlying field kind, pointers dereferenced
	Required    bool              // validate tag carries "required"
	Constraints map[string]string // Validation constraints from validate tag
}

// Key returns the name the field is reported under: the JSON name when set.
func (t TagInfo) Key() string {
	if t.JSONName != "" {
		return t.JSONName
	}
	return t.Name
}

// ParseValidationTags extracts validation metadata from a struct type.
// Unexported fields and fields tagged json:"-" are skipped.
func ParseValidationTags(t reflect.Type) []TagInfo {
	var tags []TagInfo

	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return tags
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		kind := field.Type.Kind()
		if kind == reflect.Pointer {
			kind = field.Type.Elem().Kind()
		}
		info := TagInfo{
			Name:        field.Name,
			Kind:        kind,
			Constraints: make(map[string]string),
		}

		if json := field.Tag.Get("json"); json != "" {
			name, _, _ := strings.Cut(json, ",")
			if name == "-" {
				continue
			}
			info.JSONName = name
		}

		if validate := field.Tag.Get("validate"); validate != "" {
			parseValidateTag(validate, info.Constraints)
		}
		_, info.Required = info.Constraints["required"]

		tags = append(tags, info)
	}

	return tags
}

// parseValidateTag parses a validate tag into constraint map. Parsing stops
// at "dive" since the remaining constraints apply to elements.
func parseValidateTag(validate string, constraints map[string]string) {
	for _, part := range strings.Split(validate, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if part == "dive" {
			return
		}

		key, value, found := strings.Cut(part, "=")
		if !found {
			constraints[part] = trueValue
			continue
		}
		constraints[strings.TrimSpace(key)] = strings.Trim(strings.TrimSpace(value), `"`)
	}
}

// GetMin returns the minimum value constraint if present
func (t TagInfo) GetMin() (int, bool) {
	return t.intConstraint("min")
}

// GetMax returns the maximum value constraint if present
func (t TagInfo) GetMax() (int, bool) {
	return t.intConstraint("max")
}

func (t TagInfo) intConstraint(name string) (int, bool) {
	raw, ok := t.Constraints[name]
	if !ok {
		return 0, false
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return val, true
}

// HasFormat returns true if the field has a flag constraint such as "email"
func (t TagInfo) HasFormat(format string) bool {
	constraint, exists := t.Constraints[format]
	return exists && constraint == trueValue
}

// RulesFor derives a RuleSet from the validate tags of a struct type so a
// request type and its form share one declaration. Only string fields get
// length rules. A field carries at most one custom check; gs_password maps to
// a 6 character minimum plus the letter case check.
func RulesFor(t reflect.Type) RuleSet {
	rules := make(RuleSet)
	for _, info := range ParseValidationTags(t) {
		rule := Rule{
			Required: info.Required,
			Email:    info.HasFormat("email") || info.HasFormat(TagEmail),
		}

		if info.Kind == reflect.String {
			if n, ok := info.GetMin(); ok {
				rule.MinLength = n
			}
			if n, ok := info.GetMax(); ok {
				rule.MaxLength = n
			}
		}

		if info.HasFormat(TagPassword) {
			if rule.MinLength < minPasswordLength {
				rule.MinLength = minPasswordLength
			}
			rule.Custom = optional(func(v string) bool { return Password(v).Valid })
			rule.CustomMessage = MsgPasswordCase
		} else {
			for tag, check := range customChecks {
				if info.HasFormat(tag) {
					rule.Custom = optional(check.pred)
					rule.CustomMessage = check.message
					break
				}
			}
		}

		if !rule.Required && !rule.Email && rule.MinLength == 0 && rule.MaxLength == 0 && rule.Custom == nil {
			continue
		}
		rules[info.Key()] = rule
	}
	return rules
}

// optional lets empty values through so "required" stays the only presence check.
func optional(pred func(string) bool) func(string) bool {
	return func(v string) bool {
		return v == "" || pred(v)
	}
}
