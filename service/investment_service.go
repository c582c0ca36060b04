package service

import (
	"fmt"
	"math"

	"mortgage-engine/domain"
)

// fiftyPercent is the share of gross rent the 50% rule assumes goes to
// operating expenses.
const fiftyPercent = 0.5

// InvestmentService computes rental property metrics: cap rate, DSCR,
// cash-on-cash return and the 50% rule.
type InvestmentService struct{}

func NewInvestmentService() *InvestmentService {
	return &InvestmentService{}
}

// Analyze evaluates a financed rental purchase. DSCR and cash-on-cash ROI
// are 0 when there is no debt service or no cash invested, respectively.
func (s *InvestmentService) Analyze(input domain.InvestmentInput) (domain.InvestmentResult, error) {
	if !finite(input.PurchasePrice, input.DownPayment, input.ClosingCosts, input.InterestRate,
		input.MonthlyRent, input.VacancyRate, input.AnnualOperatingEx) {
		return domain.InvestmentResult{}, ErrNonFiniteInput
	}
	if input.PurchasePrice <= 0 {
		return domain.InvestmentResult{}, ErrInvalidAmount
	}
	if input.DownPayment < 0 || input.ClosingCosts < 0 || input.MonthlyRent < 0 || input.AnnualOperatingEx < 0 {
		return domain.InvestmentResult{}, ErrNegativeValue
	}
	if input.DownPayment > input.PurchasePrice {
		return domain.InvestmentResult{}, fmt.Errorf("%w: down payment exceeds purchase price", ErrInvalidAmount)
	}
	if input.VacancyRate < 0 || input.VacancyRate > 100 {
		return domain.InvestmentResult{}, fmt.Errorf("%w: vacancy rate must be between 0 and 100", ErrNegativeValue)
	}
	if input.InterestRate > MaxInterestRate {
		return domain.InvestmentResult{}, fmt.Errorf("%w: %.2f%%", ErrRateTooHigh, MaxInterestRate)
	}
	if input.TermYears > MaxTermYears {
		return domain.InvestmentResult{}, fmt.Errorf("%w: %d years", ErrTermTooLong, MaxTermYears)
	}

	loan := input.PurchasePrice - input.DownPayment
	monthlyPI, err := CalculateMonthlyPI(loan, input.InterestRate, input.TermYears)
	if err != nil {
		return domain.InvestmentResult{}, err
	}

	annualDebtService := monthlyPI * MonthsPerYear
	effectiveRent := input.MonthlyRent * MonthsPerYear * (1 - input.VacancyRate/100)
	noi := effectiveRent - input.AnnualOperatingEx
	cashFlow := noi - annualDebtService
	cashInvested := input.DownPayment + input.ClosingCosts

	result := domain.InvestmentResult{
		LoanAmount:         roundTo2Decimals(loan),
		MonthlyPI:          roundTo2Decimals(monthlyPI),
		AnnualDebtService:  roundTo2Decimals(annualDebtService),
		NetOperatingIncome: roundTo2Decimals(noi),
		CapRate:            roundTo2Decimals(noi / input.PurchasePrice * 100),
		AnnualCashFlow:     roundTo2Decimals(cashFlow),
	}
	if annualDebtService > 0 {
		result.DSCR = math.Round(noi/annualDebtService*1000) / 1000
	}
	if cashInvested > 0 {
		result.CashOnCashROI = roundTo2Decimals(cashFlow / cashInvested * 100)
	}

	expenses := input.MonthlyRent * fiftyPercent
	monthlyCashFlow := input.MonthlyRent - expenses - monthlyPI
	result.FiftyPercentRule = domain.FiftyPercentRule{
		EstimatedExpenses: roundTo2Decimals(expenses),
		MonthlyCashFlow:   roundTo2Decimals(monthlyCashFlow),
		Passes:            monthlyCashFlow > 0,
	}

	return result, nil
}
