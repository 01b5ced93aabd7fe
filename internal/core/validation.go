package core

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

func formValidator() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		// Report fields by their JSON name so adapters can map errors onto form inputs.
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.InexactFloat64()
			}
			return nil
		}, decimal.Decimal{})
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(Date); ok {
				return d.String()
			}
			return nil
		}, Date{})
		validatorInst = v
	})
	return validatorInst
}

// ValidateStruct checks v's validate tags and returns ValidationErrors keyed
// by JSON field path.
func ValidateStruct(v any) error { return validate(v) }

func validate(v any) error {
	err := formValidator().Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := make(ValidationErrors, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[fieldKey(fe)] = message(fe)
	}
	return out
}

// fieldKey drops the struct name prefix: "InvoiceInput.items[0].price" → "items[0].price".
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gte":
		return "must not be negative"
	case "min":
		return "must be at least " + fe.Param()
	default:
		return "is invalid"
	}
}
