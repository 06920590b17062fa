package contracts

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is category checks. Every concrete error below matches its sentinel.
var (
	ErrSourceRead          = errors.New("source read error")
	ErrSchemaValidation    = errors.New("schema validation error")
	ErrLengthMismatch      = errors.New("length mismatch")
	ErrTypeCoercion        = errors.New("type coercion error")
	ErrDateConversion      = errors.New("date conversion error")
	ErrDivisionByZero      = errors.New("division by zero")
	ErrDuplicateColumn     = errors.New("duplicate column")
	ErrMissingConfig       = errors.New("missing configuration")
	ErrConvergence         = errors.New("rate did not converge")
	ErrInvalidGrowthAssump = errors.New("invalid growth assumption")
)

// SourceReadError 입력 파일을 표 형태로 읽지 못함
type SourceReadError struct {
	Path string
	Err  error
}

func (e *SourceReadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("read tabular source: %v", e.Err)
	}
	return fmt.Sprintf("read tabular source %s: %v", e.Path, e.Err)
}

func (e *SourceReadError) Unwrap() error        { return e.Err }
func (e *SourceReadError) Is(target error) bool { return target == ErrSourceRead }

// SchemaValidationError lists the line items that are absent from, or unknown to, the input.
type SchemaValidationError struct {
	Missing []string
	Extra   []string
}

func (e *SchemaValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing fields: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, "unexpected fields: "+strings.Join(e.Extra, ", "))
	}
	return "schema validation failed: " + strings.Join(parts, "; ")
}

func (e *SchemaValidationError) Is(target error) bool { return target == ErrSchemaValidation }

// LengthMismatchError reports a series whose length differs from the period axis.
type LengthMismatchError struct {
	Field    string
	Expected int
	Got      int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %d values, got %d", e.Field, e.Expected, e.Got)
}

func (e *LengthMismatchError) Is(target error) bool { return target == ErrLengthMismatch }

// TypeCoercionError reports a value that could not be read as a number.
type TypeCoercionError struct {
	Field string
	Row   int
	Value any
}

func (e *TypeCoercionError) Error() string {
	return fmt.Sprintf("%s[row %d]: cannot convert %#v to a number", e.Field, e.Row, e.Value)
}

func (e *TypeCoercionError) Is(target error) bool { return target == ErrTypeCoercion }

// DateConversionError reports a period value that is not a usable epoch-milliseconds timestamp.
type DateConversionError struct {
	Field  string
	Row    int
	Value  any
	Reason string
}

func (e *DateConversionError) Error() string {
	return fmt.Sprintf("%s[row %d]: cannot convert %#v to a date: %s", e.Field, e.Row, e.Value, e.Reason)
}

func (e *DateConversionError) Is(target error) bool { return target == ErrDateConversion }

// DivisionByZeroError is raised when a ratio denominator is zero for some period.
type DivisionByZeroError struct {
	Ratio  string
	Period int
}

func (e *DivisionByZeroError) Error() string {
	if e.Ratio == "" {
		return fmt.Sprintf("division by zero at period %d", e.Period)
	}
	return fmt.Sprintf("%s: division by zero at period %d", e.Ratio, e.Period)
}

func (e *DivisionByZeroError) Is(target error) bool { return target == ErrDivisionByZero }

// DuplicateColumnError reports a result column name that is already taken.
type DuplicateColumnError struct {
	Name string
}

func (e *DuplicateColumnError) Error() string {
	return fmt.Sprintf("duplicate column %q", e.Name)
}

func (e *DuplicateColumnError) Is(target error) bool { return target == ErrDuplicateColumn }

// MissingConfigurationError reports required calculator inputs that were absent or invalid.
type MissingConfigurationError struct {
	Calculator string
	Fields     []string
}

func (e *MissingConfigurationError) Error() string {
	return fmt.Sprintf("%s: missing or invalid configuration: %s", e.Calculator, strings.Join(e.Fields, ", "))
}

func (e *MissingConfigurationError) Is(target error) bool { return target == ErrMissingConfig }

// ConvergenceError is returned when iterative rate finding gives up.
type ConvergenceError struct {
	Iterations int
	Reason     string
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("internal rate of return did not converge after %d iterations: %s", e.Iterations, e.Reason)
}

func (e *ConvergenceError) Is(target error) bool { return target == ErrConvergence }

// InvalidGrowthAssumptionError 할인율 <= 성장률 (영구성장 공식이 발산)
type InvalidGrowthAssumptionError struct {
	DiscountRate float64
	GrowthRate   float64
}

func (e *InvalidGrowthAssumptionError) Error() string {
	return fmt.Sprintf("discount rate %.4f must exceed growth rate %.4f", e.DiscountRate, e.GrowthRate)
}

func (e *InvalidGrowthAssumptionError) Is(target error) bool { return target == ErrInvalidGrowthAssump }
