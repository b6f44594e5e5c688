package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	tagNameValidate  = "validate"
	tagValueNested   = "nested"
	tagValueRequired = "required"
	tagValueIn       = "in"
	tagValueMax      = "max"
	tagValueMin      = "min"
	tagValueLen      = "len"
	tagValueRegexp   = "regexp"
)

var (
	ErrIncorrectTagValue      = errors.New("incorrect tag value for validating with field value")
	ErrValidateRequired       = errors.New("value is required")
	ErrValidateIncorrectLen   = errors.New("value has incorrect length")
	ErrValidateNotMatchRegexp = errors.New("does not match regexp")
	ErrValidateNotFoundInList = errors.New("does not found in list")
	ErrValidateOutOfRange     = errors.New("value is out of range")
	ErrIncorrectTag           = errors.New("incorrect tag")
	ErrIncorrectStruct        = errors.New("incorrect struct")
)

type ValidationError struct {
	Field string
	Err   error
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	sort.Slice(v, func(i, j int) bool {
		if v[i].Field == v[j].Field {
			return v[i].Err.Error() < v[j].Err.Error()
		}
		return v[i].Field < v[j].Field
	})
	b := strings.Builder{}
	for i, validationError := range v {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(fmt.Sprintf("%s: %s", validationError.Field, validationError.Err.Error()))
	}
	return b.String()
}

type rule struct {
	name  string
	value string
}

// Validate checks the fields of struct v against their `validate` tags.
// Rules are separated by '|', e.g. `validate:"required|len:32"`. Nested
// structs are validated with `validate:"nested"`, their field names are
// prefixed with the parent field name.
func Validate(v interface{}) error {
	if v == nil {
		return ErrIncorrectStruct
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return ErrIncorrectStruct
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return ErrIncorrectStruct
	}

	errs, err := validateStruct(rv, "")
	if err != nil {
		return err
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateStruct(rv reflect.Value, prefix string) (ValidationErrors, error) {
	var validationErrors ValidationErrors
	t := rv.Type()
	for i := 0; i < rv.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		rules, err := parseValidateTag(sf.Tag)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", sf.Name, err)
		}
		if len(rules) == 0 {
			continue
		}

		field := rv.Field(i)
		name := prefix + sf.Name
		if rules[0].name == tagValueNested {
			if field.Kind() == reflect.Ptr {
				if field.IsNil() {
					continue
				}
				field = field.Elem()
			}
			if field.Kind() != reflect.Struct {
				return nil, fmt.Errorf("field %s: %w", sf.Name, ErrIncorrectTag)
			}
			nested, err := validateStruct(field, name+".")
			if err != nil {
				return nil, err
			}
			validationErrors = append(validationErrors, nested...)
			continue
		}

		for _, r := range rules {
			verr, err := validateValue(field, r)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", sf.Name, err)
			}
			if verr != nil {
				validationErrors = append(validationErrors, ValidationError{Field: name, Err: verr})
			}
		}
	}
	return validationErrors, nil
}

func validateValue(field reflect.Value, r rule) (error, error) {
	switch r.name {
	case tagValueRequired:
		if field.IsZero() {
			return ErrValidateRequired, nil
		}
		return nil, nil
	case tagValueLen:
		check, err := strconv.Atoi(r.value)
		if err != nil {
			return nil, ErrIncorrectTagValue
		}
		if !hasLen(field) {
			return nil, ErrIncorrectTag
		}
		if field.Len() != check {
			return ErrValidateIncorrectLen, nil
		}
		return nil, nil
	case tagValueRegexp:
		if field.Kind() != reflect.String {
			return nil, ErrIncorrectTag
		}
		re, err := regexp.Compile(r.value)
		if err != nil {
			return nil, ErrIncorrectTagValue
		}
		if match := re.FindString(field.String()); len(match) != len(field.String()) {
			return ErrValidateNotMatchRegexp, nil
		}
		return nil, nil
	case tagValueIn:
		for _, candidate := range strings.Split(r.value, ",") {
			ok, err := equals(field, candidate)
			if err != nil {
				return nil, err
			}
			if ok {
				return nil, nil
			}
		}
		return ErrValidateNotFoundInList, nil
	case tagValueMin, tagValueMax:
		val, limit, err := numbers(field, r.value)
		if err != nil {
			return nil, err
		}
		if (r.name == tagValueMin && val < limit) || (r.name == tagValueMax && val > limit) {
			return ErrValidateOutOfRange, nil
		}
		return nil, nil
	default:
		return nil, ErrIncorrectTag
	}
}

func parseValidateTag(tag reflect.StructTag) ([]rule, error) {
	val := tag.Get(tagNameValidate)
	if val == "" {
		return nil, nil
	}

	validators := strings.Split(val, "|")
	rules := make([]rule, 0, len(validators))
	for _, validator := range validators {
		parts := strings.SplitN(validator, ":", 2)
		if len(parts) == 1 {
			switch parts[0] {
			case tagValueNested:
				// Ignore other validators if nested
				return []rule{{name: tagValueNested}}, nil
			case tagValueRequired:
				rules = append(rules, rule{name: tagValueRequired})
				continue
			default:
				return nil, ErrIncorrectTag
			}
		}
		rules = append(rules, rule{name: parts[0], value: parts[1]})
	}
	return rules, nil
}

func hasLen(v reflect.Value) bool {
	//exhaustive:ignore
	switch v.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return true
	default:
		return false
	}
}

func equals(field reflect.Value, candidate string) (bool, error) {
	//exhaustive:ignore
	switch field.Kind() {
	case reflect.String:
		return field.String() == candidate, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		c, err := strconv.ParseInt(candidate, 0, 64)
		if err != nil {
			return false, ErrIncorrectTagValue
		}
		return field.Int() == c, nil
	default:
		return false, ErrIncorrectTag
	}
}

func numbers(field reflect.Value, limit string) (float64, float64, error) {
	l, err := strconv.ParseFloat(limit, 64)
	if err != nil {
		return 0, 0, ErrIncorrectTagValue
	}
	//exhaustive:ignore
	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(field.Int()), l, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(field.Uint()), l, nil
	case reflect.Float32, reflect.Float64:
		return field.Float(), l, nil
	default:
		return 0, 0, ErrIncorrectTag
	}
}
