package service

import (
	"fmt"
	"math"

	"mortgage-engine/domain"
)

// buydownSchedules maps a temporary buydown to the rate reduction, in
// percentage points, for each subsidized year.
var buydownSchedules = map[string][]float64{
	"3-2-1": {3, 2, 1},
	"2-1":   {2, 1},
	"1-0":   {1},
}

type BuydownService struct{}

func NewBuydownService() *BuydownService {
	return &BuydownService{}
}

// Calculate returns the reduced payment of each subsidized year and the
// subsidy the seller or lender must escrow to fund it.
func (s *BuydownService) Calculate(input domain.BuydownInput) (domain.BuydownResult, error) {
	reductions, ok := buydownSchedules[input.Type]
	if !ok {
		return domain.BuydownResult{}, fmt.Errorf("%w: %q", ErrInvalidBuydownType, input.Type)
	}
	if !finite(input.LoanAmount, input.NoteRate) {
		return domain.BuydownResult{}, ErrNonFiniteInput
	}
	if input.LoanAmount <= 0 {
		return domain.BuydownResult{}, ErrInvalidAmount
	}
	if input.NoteRate > MaxInterestRate {
		return domain.BuydownResult{}, fmt.Errorf("%w: %.2f%%", ErrRateTooHigh, MaxInterestRate)
	}
	if input.TermYears > MaxTermYears {
		return domain.BuydownResult{}, fmt.Errorf("%w: %d years", ErrTermTooLong, MaxTermYears)
	}

	note, err := CalculateMonthlyPI(input.LoanAmount, input.NoteRate, input.TermYears)
	if err != nil {
		return domain.BuydownResult{}, err
	}

	result := domain.BuydownResult{NotePayment: roundTo2Decimals(note)}
	for i, reduction := range reductions {
		rate := math.Max(input.NoteRate-reduction, 0)
		payment, err := CalculateMonthlyPI(input.LoanAmount, rate, input.TermYears)
		if err != nil {
			return domain.BuydownResult{}, err
		}
		subsidy := roundTo2Decimals(note - payment)
		result.Years = append(result.Years, domain.BuydownYear{
			Year:           i + 1,
			Rate:           rate,
			MonthlyPayment: roundTo2Decimals(payment),
			MonthlySubsidy: subsidy,
		})
		result.TotalCost += subsidy * MonthsPerYear
	}
	result.TotalCost = roundTo2Decimals(result.TotalCost)

	return result, nil
}
