package appcore

import (
	"fmt"
	"slices"
	"time"

	"github.com/lllypuk/passemploi/internal/domain/errs"
)

const (
	// MaxTitleLength bounds the titles of listes, recherches and rendez-vous.
	MaxTitleLength = 200
)

// FirstInvalid returns the first non-nil validation failure.
func FirstInvalid(checks ...*errs.DomainError) *errs.DomainError {
	for _, check := range checks {
		if check != nil {
			return check
		}
	}
	return nil
}

// ValidateRequired fails when value is blank.
func ValidateRequired(field, value string) *errs.DomainError {
	if value == "" {
		return errs.BadCommand(fmt.Sprintf("%s est obligatoire", field))
	}
	return nil
}

// ValidateNotEmpty fails on an empty list.
func ValidateNotEmpty[T any](field string, values []T) *errs.DomainError {
	if len(values) == 0 {
		return errs.BadCommand(fmt.Sprintf("%s ne doit pas être vide", field))
	}
	return nil
}

// ValidateMaxLength fails when value has more than maxLength runes.
func ValidateMaxLength(field, value string, maxLength int) *errs.DomainError {
	if len([]rune(value)) > maxLength {
		return errs.BadCommand(fmt.Sprintf("%s doit faire au plus %d caractères", field, maxLength))
	}
	return nil
}

// ValidateEnum fails when value is not one of allowedValues.
func ValidateEnum[T ~string](field string, value T, allowedValues []T) *errs.DomainError {
	if slices.Contains(allowedValues, value) {
		return nil
	}
	return errs.BadCommand(fmt.Sprintf("%s doit valoir l'une des valeurs %v", field, allowedValues))
}

// ValidateDateNotZero fails on the zero time.
func ValidateDateNotZero(field string, date time.Time) *errs.DomainError {
	if date.IsZero() {
		return errs.BadCommand(fmt.Sprintf("%s est obligatoire", field))
	}
	return nil
}

// ValidatePositive fails on zero or negative values.
func ValidatePositive(field string, value int) *errs.DomainError {
	if value <= 0 {
		return errs.BadCommand(fmt.Sprintf("%s doit être positif", field))
	}
	return nil
}
