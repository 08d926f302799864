package hr_fields

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var validatorOnce sync.Once
var validate *validator.Validate

func Validator() *validator.Validate {
	validatorOnce.Do(func() {
		validate = validator.New()
		validate.SetTagName("binding")

		if err := validate.RegisterValidation("iso8601", iso8601); err != nil {
			panic(fmt.Sprintf("register iso8601: %v", err))
		}
		if err := validate.RegisterValidation("period", period); err != nil {
			panic(fmt.Sprintf("register period: %v", err))
		}

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]

			if name == "-" {
				return ""
			}

			return name
		})
	})
	return validate
}

func ValidateStruct(obj interface{}) error {
	if kindOfData(obj) == reflect.Struct {
		if err := Validator().Struct(obj); err != nil {
			return err
		}
	}
	return nil
}

func kindOfData(data interface{}) reflect.Kind {
	value := reflect.ValueOf(data)
	valueType := value.Kind()

	if valueType == reflect.Ptr {
		valueType = value.Elem().Kind()
	}
	return valueType
}

// iso8601 accepts calendar dates (2006-01-02).
func iso8601(fl validator.FieldLevel) bool {
	_, err := time.Parse(DateLayout, fl.Field().String())
	return err == nil
}

func period(fl validator.FieldLevel) bool {
	_, err := time.Parse(PeriodLayout, fl.Field().String())
	return err == nil
}

// ValidationDetails flattens validator errors into a field -> message map
// suitable for an API error payload. Other errors yield nil.
func ValidationDetails(err error) map[string]any {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]any, len(verrs))
	for _, e := range verrs {
		out[e.Field()] = errorToString(e)
	}
	return out
}

func errorToString(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "this field is required"
	case "max":
		return fmt.Sprintf("this field cannot be longer than %s", e.Param())
	case "len":
		return fmt.Sprintf("this field must be %s characters long", e.Param())
	case "email":
		return "invalid email format"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "iso8601":
		return fmt.Sprintf("wrong date entered (%v). Use YYYY-MM-DD", e.Value())
	case "period":
		return fmt.Sprintf("wrong period entered (%v). Use YYYY-MM", e.Value())
	default:
		return fmt.Sprintf("%s is not valid", e.Field())
	}
}
