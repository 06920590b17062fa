package valuation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wonny/finratio/internal/contracts"
)

// Calculator names used in MissingConfigurationError
const (
	CalculatorWACC         = "wacc"
	CalculatorBond         = "bond"
	CalculatorStock        = "stock"
	CalculatorFreeCashFlow = "free_cash_flow"
)

var validate = newValidator()

// newValidator reports fields by their yaml names so errors match the scenario file.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})
	return v
}

// checkConfig runs struct tag validation and converts failures to MissingConfigurationError.
func checkConfig(calculator string, cfg any) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fieldPath(fe.Namespace()))
	}
	return &contracts.MissingConfigurationError{Calculator: calculator, Fields: fields}
}

// fieldPath drops the leading struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
