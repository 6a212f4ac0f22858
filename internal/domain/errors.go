package domain

import (
	"errors"
	"fmt"
	"strings"
)

// MissingFieldError reports required inputs that were absent from a
// calculation request. The field names are surfaced to the caller verbatim.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// InvalidInputError reports a value that violates a hard precondition,
// such as a non-positive property value or exit cap rate.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Field, e.Reason)
}

// InvalidLeverageError reports an LTV at or above 1.0, which would divide
// by zero in the leverage formula.
type InvalidLeverageError struct {
	LTV float64
}

func (e *InvalidLeverageError) Error() string {
	return fmt.Sprintf("invalid leverage: ltv %.2f must be below 1.0", e.LTV)
}

// ErrNoBenchmarkData signals that no benchmark row or threshold table was
// found for a geography. Engines treat it as soft: they fall back to the
// documented default tables and flag the result, they do not fail.
var ErrNoBenchmarkData = errors.New("no benchmark data for geography")

// IsMissingField reports whether err is a MissingFieldError.
func IsMissingField(err error) bool {
	var target *MissingFieldError
	return errors.As(err, &target)
}

// IsInvalidInput reports whether err is an InvalidInputError.
func IsInvalidInput(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}

// IsInvalidLeverage reports whether err is an InvalidLeverageError.
func IsInvalidLeverage(err error) bool {
	var target *InvalidLeverageError
	return errors.As(err, &target)
}
