package validator

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/nachoal/lingo-tutor-go/internal/schema"
)

// Validator checks and completes parameter structs using their schema tags
type Validator struct {
	tagName string
}

// New creates a new validator
func New() *Validator {
	return &Validator{
		tagName: "schema",
	}
}

// Prepare applies defaults, canonicalises enum casing and validates s.
// s must be a pointer to a struct.
func (v *Validator) Prepare(s interface{}) error {
	if err := v.ApplyDefaults(s); err != nil {
		return err
	}
	v.NormalizeEnums(s)
	return v.Validate(s)
}

// Validate validates a struct based on its schema tags
func (v *Validator) Validate(s interface{}) error {
	val, err := structValue(s)
	if err != nil {
		return err
	}

	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		structField := typ.Field(i)
		if !structField.IsExported() || structField.Tag.Get("json") == "-" {
			continue
		}

		opts := schema.ParseTag(structField.Tag.Get(v.tagName))
		if err := v.validateField(val.Field(i), opts, schema.FieldName(structField)); err != nil {
			return err
		}
	}

	return nil
}

func (v *Validator) validateField(value reflect.Value, opts schema.TagOptions, fieldName string) error {
	if isBlank(value) {
		if opts.Required {
			return fmt.Errorf("field '%s' is required", fieldName)
		}
		return nil
	}

	value = indirect(value)

	if len(opts.Enum) > 0 {
		if err := validateEnum(value, opts.Enum, fieldName); err != nil {
			return err
		}
	}
	if opts.Min != nil {
		if err := validateMin(value, *opts.Min, fieldName); err != nil {
			return err
		}
	}
	if opts.Max != nil {
		if err := validateMax(value, *opts.Max, fieldName); err != nil {
			return err
		}
	}

	return nil
}

// ApplyDefaults fills nil pointers and zero scalars from their default: tag
func (v *Validator) ApplyDefaults(s interface{}) error {
	val, err := structValue(s)
	if err != nil {
		return err
	}

	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		structField := typ.Field(i)
		if !structField.IsExported() {
			continue
		}
		opts := schema.ParseTag(structField.Tag.Get(v.tagName))
		if !opts.HasDef {
			continue
		}

		field := val.Field(i)
		if field.Kind() == reflect.Ptr {
			if !field.IsNil() {
				continue
			}
			target := reflect.New(field.Type().Elem())
			if err := setDefault(target.Elem(), opts.Default); err != nil {
				return fmt.Errorf("invalid default for field '%s': %w", schema.FieldName(structField), err)
			}
			field.Set(target)
			continue
		}

		if !field.IsZero() {
			continue
		}
		if err := setDefault(field, opts.Default); err != nil {
			return fmt.Errorf("invalid default for field '%s': %w", schema.FieldName(structField), err)
		}
	}

	return nil
}

// NormalizeEnums rewrites enum strings to their declared spelling when they
// match case-insensitively, so "Grammar" becomes "grammar".
func (v *Validator) NormalizeEnums(s interface{}) {
	val, err := structValue(s)
	if err != nil {
		return
	}

	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		structField := typ.Field(i)
		if !structField.IsExported() {
			continue
		}
		opts := schema.ParseTag(structField.Tag.Get(v.tagName))
		if len(opts.Enum) == 0 {
			continue
		}

		field := val.Field(i)
		if field.Kind() == reflect.Ptr {
			if field.IsNil() {
				continue
			}
			field = field.Elem()
		}
		if field.Kind() != reflect.String {
			continue
		}

		current := strings.TrimSpace(field.String())
		for _, allowed := range opts.Enum {
			if strings.EqualFold(current, allowed) {
				field.SetString(allowed)
				break
			}
		}
	}
}

func setDefault(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	default:
		return json.Unmarshal([]byte(raw), field.Addr().Interface())
	}
	return nil
}

func validateEnum(value reflect.Value, allowed []string, fieldName string) error {
	current := fmt.Sprintf("%v", value.Interface())
	for _, a := range allowed {
		if current == a {
			return nil
		}
	}

	return fmt.Errorf("field '%s' must be one of: %s", fieldName, strings.Join(allowed, ", "))
}

func validateMin(value reflect.Value, min float64, fieldName string) error {
	switch value.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if float64(value.Int()) < min {
			return fmt.Errorf("field '%s' must be at least %g", fieldName, min)
		}
	case reflect.Float32, reflect.Float64:
		if value.Float() < min {
			return fmt.Errorf("field '%s' must be at least %g", fieldName, min)
		}
	case reflect.String:
		if float64(len(value.String())) < min {
			return fmt.Errorf("field '%s' must be at least %g characters", fieldName, min)
		}
	}
	return nil
}

func validateMax(value reflect.Value, max float64, fieldName string) error {
	switch value.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if float64(value.Int()) > max {
			return fmt.Errorf("field '%s' must be at most %g", fieldName, max)
		}
	case reflect.Float32, reflect.Float64:
		if value.Float() > max {
			return fmt.Errorf("field '%s' must be at most %g", fieldName, max)
		}
	case reflect.String:
		if float64(len(value.String())) > max {
			return fmt.Errorf("field '%s' must be at most %g characters", fieldName, max)
		}
	}
	return nil
}

// isBlank treats nil pointers, empty collections and whitespace-only strings as missing
func isBlank(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Interface, reflect.Ptr:
		if v.IsNil() {
			return true
		}
		if v.Elem().Kind() == reflect.String {
			return strings.TrimSpace(v.Elem().String()) == ""
		}
		return false
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Array, reflect.Map, reflect.Slice:
		return v.Len() == 0
	}
	// Numbers and booleans are never "missing"; optional ones are pointers.
	return false
}

func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return v
		}
		v = v.Elem()
	}
	return v
}

func structValue(s interface{}) (reflect.Value, error) {
	val := reflect.ValueOf(s)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return reflect.Value{}, fmt.Errorf("expected pointer to struct, got %T", s)
	}
	val = val.Elem()
	if val.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("expected pointer to struct, got %T", s)
	}
	return val, nil
}

// DefaultValidator is the default validator instance
var DefaultValidator = New()

// Validate validates a struct using the default validator
func Validate(s interface{}) error {
	return DefaultValidator.Validate(s)
}

// Prepare applies defaults, normalises enums and validates using the default validator
func Prepare(s interface{}) error {
	return DefaultValidator.Prepare(s)
}
