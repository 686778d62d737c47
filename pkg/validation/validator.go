package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/imranmdl/tile-granite-management-sub002/pkg/apperror"
)

// Validator wraps go-playground/validator with decimal support and
// FieldError translation.
type Validator struct {
	v        *validator.Validate
	messages map[string]string
}

// New returns a validator that understands decimal.Decimal fields and
// reports json field names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &Validator{v: v, messages: map[string]string{}}
}

// RegisterStructRule adds a struct-level rule. Violations reported with tag
// are rendered with message.
func (val *Validator) RegisterStructRule(fn validator.StructLevelFunc, tags map[string]string, types ...interface{}) {
	val.v.RegisterStructValidation(fn, types...)
	for tag, msg := range tags {
		val.messages[tag] = msg
	}
}

// Struct validates s and returns every violation as a FieldError.
// A nil result means s is valid.
func (val *Validator) Struct(s interface{}) []apperror.FieldError {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []apperror.FieldError{{Field: "", Message: err.Error()}}
	}

	out := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, apperror.FieldError{
			Field:   fe.Field(),
			Message: val.message(fe),
		})
	}
	return out
}

func (val *Validator) message(fe validator.FieldError) string {
	if msg, ok := val.messages[fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
}
