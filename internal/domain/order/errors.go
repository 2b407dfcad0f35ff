package order

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrEmptyOrderItems    = errors.New("no items to checkout")
	ErrCheckoutValidation = errors.New("checkout validation failed")

	ErrEmptyCart          = errors.New("add items to the cart before checking out")
	ErrTermsNotAccepted   = errors.New("you need to accept the terms")
	ErrSubmissionInFlight = errors.New("an order is already being submitted")
)

// Rejected marks cause as a checkout the store refused to fulfil.
func Rejected(cause error) error {
	return fmt.Errorf("%w: %w", ErrCheckoutValidation, cause)
}

// RequiredFieldsError lists the customer fields left blank.
type RequiredFieldsError struct {
	Fields []string
}

func (e *RequiredFieldsError) Error() string {
	return "fill in the required fields: " + strings.Join(e.Fields, ", ")
}

func (e *RequiredFieldsError) Is(target error) bool {
	return target == ErrCheckoutValidation
}

const fallbackSubmissionMessage = "could not create the order"

// SubmissionError is a failed order submission. Message carries the
// server-supplied detail when there is one.
type SubmissionError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *SubmissionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fallbackSubmissionMessage
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
