package dto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iho/wasteledger/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct tags of a request. Failures wrap
// domain.ErrValidation and name every offending field.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	fields := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		fields[i] = fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag())
	}

	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(fields, "; "))
}
