package validator

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	ierr "github.com/billflow/billflow/internal/errors"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateRequest runs struct tag validation on a request DTO and maps
// failures onto a validation error with per-field details.
func ValidateRequest(req any) error {
	err := instance().Struct(req)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ierr.WithError(err).
			WithHint("Invalid request payload").
			Mark(ierr.ErrValidation)
	}

	details := make(map[string]any, len(verrs))
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		fields = append(fields, field)
		details[field] = fe.Tag()
	}

	return ierr.NewErrorf("invalid value for fields: %s", strings.Join(fields, ", ")).
		WithHint("Please check the request fields and try again").
		WithReportableDetails(details).
		Mark(ierr.ErrValidation)
}
