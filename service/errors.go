package service

import "errors"

// Validation errors. Callers match them with errors.Is; the wrapped message
// carries the offending value.
var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidRate         = errors.New("invalid interest rate")
	ErrInvalidTerm         = errors.New("invalid term")
	ErrInvalidDurationUnit = errors.New("invalid duration unit")
	ErrInvalidFees         = errors.New("invalid initial fees")
	ErrInvalidInsurance    = errors.New("invalid insurance cost")
	ErrInvalidTermRange    = errors.New("invalid term range")
	ErrInvalidPreference   = errors.New("invalid preference")
	ErrNoEligibleTerm      = errors.New("no term fits the maximum monthly payment")
)

// IsValidationError reports whether err comes from input validation.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrInvalidAmount, ErrInvalidRate, ErrInvalidTerm, ErrInvalidDurationUnit,
		ErrInvalidFees, ErrInvalidInsurance, ErrInvalidTermRange, ErrInvalidPreference,
		ErrNoEligibleTerm,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
