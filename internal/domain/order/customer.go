package order

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var customerValidator = newCustomerValidator()

func newCustomerValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Trimmed returns c with surrounding whitespace removed from every field.
func (c Customer) Trimmed() Customer {
	return Customer{
		Name:    strings.TrimSpace(c.Name),
		Email:   strings.TrimSpace(c.Email),
		Phone:   strings.TrimSpace(c.Phone),
		Address: strings.TrimSpace(c.Address),
		City:    strings.TrimSpace(c.City),
		State:   strings.TrimSpace(c.State),
		Zip:     strings.TrimSpace(c.Zip),
		Notes:   strings.TrimSpace(c.Notes),
	}
}

// ValidateCustomer reports every blank required field of c at once as a
// *RequiredFieldsError. Callers trim first.
func ValidateCustomer(c Customer) error {
	err := customerValidator.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return &RequiredFieldsError{Fields: fields}
}
