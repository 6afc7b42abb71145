package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"

	"github.com/mmynk/tripsplit/internal/money"
)

// newValidator returns a validator that knows the api package's custom tags
// and reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	// Registration only fails for empty tags or nil functions.
	_ = v.RegisterValidation("money", validMoney)
	_ = v.RegisterValidation("isodate", validISODate)
	return v
}

// validMoney accepts non-negative decimal strings with at most two places.
func validMoney(fl validator.FieldLevel) bool {
	d, err := money.Parse(fl.Field().String())
	if err != nil || d.IsNegative() {
		return false
	}
	return d.Equal(money.Round(d))
}

func validISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse(time.DateOnly, fl.Field().String())
	return err == nil
}

// validateRequest checks msg against its validate tags and converts failures
// into an InvalidArgument error naming every offending field.
func validateRequest(v *validator.Validate, msg any) error {
	err := v.Struct(msg)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	problems := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		problems[i] = describeFieldError(fe)
	}
	return connect.NewError(connect.CodeInvalidArgument, errors.New(strings.Join(problems, "; ")))
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "required_if", "required_with":
		return fmt.Sprintf("%s is required", field)
	case "money":
		return fmt.Sprintf("%s must be a non-negative amount with at most two decimals", field)
	case "isodate":
		return fmt.Sprintf("%s must be a YYYY-MM-DD date", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "min", "max":
		return fmt.Sprintf("%s must have %s length %s", field, fe.Tag(), fe.Param())
	case "email", "url", "alphanum":
		return fmt.Sprintf("%s must be a valid %s", field, fe.Tag())
	case "nefield":
		return fmt.Sprintf("%s must differ from %s", field, fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}
