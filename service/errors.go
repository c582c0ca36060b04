package service

import "errors"

// Input errors. Handlers map these to 400 responses.
var (
	ErrInvalidTerm         = errors.New("term must be greater than zero")
	ErrTermTooLong         = errors.New("term exceeds the maximum allowed")
	ErrNegativePrincipal   = errors.New("principal cannot be negative")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrAmountTooLarge      = errors.New("amount exceeds the maximum allowed")
	ErrNegativeRate        = errors.New("interest rate cannot be negative")
	ErrRateTooHigh         = errors.New("interest rate exceeds the maximum allowed")
	ErrNonFiniteInput      = errors.New("input must be a finite number")
	ErrUnknownProgram      = errors.New("unknown loan program")
	ErrInvalidIncome       = errors.New("annual income must be greater than zero")
	ErrNegativeValue       = errors.New("value cannot be negative")
	ErrInvalidPreference   = errors.New("invalid preference")
	ErrNoEligibleTerm      = errors.New("no term satisfies the maximum monthly payment")
	ErrInvalidBuydownType  = errors.New("buydown type must be 3-2-1, 2-1 or 1-0")
	ErrInvalidLead         = errors.New("invalid lead")
	ErrLeadEndpointMissing = errors.New("lead endpoint is not configured")
)

// ErrLeadRejected is returned when the lead endpoint answers with a non-2xx
// status or cannot be reached. The message is safe to show to users.
var ErrLeadRejected = errors.New("we could not send your inquiry, please try again later")

// IsInputError reports whether err was caused by invalid caller input.
func IsInputError(err error) bool {
	for _, target := range []error{
		ErrInvalidTerm, ErrTermTooLong, ErrNegativePrincipal, ErrInvalidAmount,
		ErrAmountTooLarge, ErrNegativeRate, ErrRateTooHigh, ErrNonFiniteInput,
		ErrUnknownProgram, ErrInvalidIncome, ErrNegativeValue, ErrInvalidPreference,
		ErrNoEligibleTerm, ErrInvalidBuydownType, ErrInvalidLead,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
