package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidAccountCode = errors.New("invalid account code")
	ErrInvalidEntity      = errors.New("invalid entity tag")
	ErrInvalidDescription = errors.New("invalid description")
	ErrAmountTooLarge     = errors.New("amount exceeds maximum allowed")
	ErrZeroAmount         = errors.New("amount must not be zero")
)

// Validation constants
const (
	MaxAccountCodeLength = 64
	MaxEntityLength      = 32
	MaxDescriptionLength = 512
	MaxStagedAmount      = "1000000000" // 1 billion, single posting currency
)

// Account codes are lowercase words separated by ':' (e.g. expense:office).
var accountCodeRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]*(:[a-z0-9][a-z0-9_.-]*)*$`)

// Entities are short lowercase tags (e.g. biz, per).
var entityRegex = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// ValidateAccountCode validates an account code's shape. The sentinel
// unassigned code is accepted; registry existence is a separate check.
func ValidateAccountCode(code string) error {
	if code == UnassignedCode {
		return nil
	}

	if code == "" || len(code) > MaxAccountCodeLength {
		return fmt.Errorf("%w: must be 1-%d characters", ErrInvalidAccountCode, MaxAccountCodeLength)
	}

	if !accountCodeRegex.MatchString(code) {
		return fmt.Errorf("%w: %q", ErrInvalidAccountCode, code)
	}

	return nil
}

// ValidateEntity validates an entity tag.
func ValidateEntity(entity string) error {
	if entity == "" || len(entity) > MaxEntityLength {
		return fmt.Errorf("%w: must be 1-%d characters", ErrInvalidEntity, MaxEntityLength)
	}

	if !entityRegex.MatchString(entity) {
		return fmt.Errorf("%w: %q", ErrInvalidEntity, entity)
	}

	return nil
}

// ValidateDescription validates a transaction description.
func ValidateDescription(description string) error {
	description = strings.TrimSpace(description)

	if description == "" {
		return fmt.Errorf("%w: cannot be empty", ErrInvalidDescription)
	}

	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrInvalidDescription, MaxDescriptionLength)
	}

	return nil
}

// ValidateStagedAmount validates a signed staged transaction amount.
func ValidateStagedAmount(amount decimal.Decimal) error {
	if amount.IsZero() {
		return ErrZeroAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxStagedAmount)
	if amount.Abs().GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum is %s", ErrAmountTooLarge, MaxStagedAmount)
	}

	return nil
}

// ValidatePagination clamps pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
