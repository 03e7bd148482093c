package validator

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"artnexus/internal/pkg/apperr"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// money fields are validated as numbers, so gt=0 works on decimal.Decimal
	validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
		if d, ok := v.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
}

// Validate struct fields
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}

	errs := make(map[string]string)
	for _, err := range verrs {
		errs[err.Field()] = err.Tag()
	}
	return errs
}

// Check is Validate as an apperr.InvalidInput error.
func Check(v interface{}) error {
	errs := Validate(v)
	if errs == nil {
		return nil
	}

	fields := make([]string, 0, len(errs))
	for f, tag := range errs {
		fields = append(fields, f+" ("+tag+")")
	}
	sort.Strings(fields)
	return apperr.New(apperr.InvalidInput, "invalid fields: "+strings.Join(fields, ", "))
}
