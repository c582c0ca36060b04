package service

import (
	"fmt"
	"math"

	"mortgage-engine/domain"
)

// BreakEvenNever marks a refinance whose monthly savings never cover its
// closing costs.
const BreakEvenNever = -1

type RefinanceService struct{}

func NewRefinanceService() *RefinanceService {
	return &RefinanceService{}
}

// Compare prices a refinance of the remaining balance (plus any cash out)
// against keeping the current loan. Closing costs are paid out of pocket.
func (s *RefinanceService) Compare(input domain.RefinanceInput) (domain.RefinanceResult, error) {
	if !finite(input.CurrentBalance, input.CurrentRate, input.NewRate, input.ClosingCosts, input.CashOut) {
		return domain.RefinanceResult{}, ErrNonFiniteInput
	}
	if input.CurrentBalance <= 0 {
		return domain.RefinanceResult{}, ErrInvalidAmount
	}
	if input.ClosingCosts < 0 || input.CashOut < 0 {
		return domain.RefinanceResult{}, ErrNegativeValue
	}
	if input.CurrentRate > MaxInterestRate || input.NewRate > MaxInterestRate {
		return domain.RefinanceResult{}, fmt.Errorf("%w: %.2f%%", ErrRateTooHigh, MaxInterestRate)
	}
	if input.RemainingTermMonths > MaxScheduleMonths || input.NewTermYears > MaxTermYears {
		return domain.RefinanceResult{}, fmt.Errorf("%w: %d years", ErrTermTooLong, MaxTermYears)
	}

	current, err := monthlyPayment(input.CurrentBalance, input.CurrentRate, input.RemainingTermMonths)
	if err != nil {
		return domain.RefinanceResult{}, fmt.Errorf("current loan: %w", err)
	}

	newLoan := input.CurrentBalance + input.CashOut
	next, err := CalculateMonthlyPI(newLoan, input.NewRate, input.NewTermYears)
	if err != nil {
		return domain.RefinanceResult{}, fmt.Errorf("new loan: %w", err)
	}

	currentPaid := current * float64(input.RemainingTermMonths)
	newPaid := next * float64(input.NewTermYears*MonthsPerYear)
	savings := current - next

	breakEven := BreakEvenNever
	switch {
	case savings > 0 && input.ClosingCosts == 0:
		breakEven = 0
	case savings > 0:
		breakEven = int(math.Ceil(input.ClosingCosts / savings))
	}

	return domain.RefinanceResult{
		CurrentPayment:       roundTo2Decimals(current),
		NewLoanAmount:        roundTo2Decimals(newLoan),
		NewPayment:           roundTo2Decimals(next),
		MonthlySavings:       roundTo2Decimals(savings),
		BreakEvenMonths:      breakEven,
		CurrentTotalInterest: roundTo2Decimals(currentPaid - input.CurrentBalance),
		NewTotalInterest:     roundTo2Decimals(newPaid - newLoan),
		LifetimeSavings:      roundTo2Decimals(currentPaid - newPaid - input.ClosingCosts + input.CashOut),
	}, nil
}
