package service

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"mortgage-engine/domain"
)

type AffordabilityService struct {
	mortgage *MortgageMath
	solver   SolverConfig
	logger   *zap.Logger
}

func NewAffordabilityService(mortgage *MortgageMath, solver SolverConfig, logger *zap.Logger) *AffordabilityService {
	return &AffordabilityService{mortgage: mortgage, solver: solver, logger: logger}
}

// Calculate returns the most expensive home the borrower qualifies for under
// the program's DTI ceilings, accounting for tax, insurance, MI and HOA.
func (s *AffordabilityService) Calculate(
	input domain.AffordabilityInput,
) (domain.AffordabilityResult, error) {

	if err := validateAffordability(input); err != nil {
		return domain.AffordabilityResult{}, err
	}

	dti, err := s.mortgage.ProgramDTI(input.Program)
	if err != nil {
		return domain.AffordabilityResult{}, err
	}

	monthlyIncome := input.AnnualIncome / MonthsPerYear
	budget := monthlyIncome*dti.BackPercent/100 - input.MonthlyDebts
	limiting := "back"
	if dti.HasFrontCap() {
		if front := monthlyIncome * dti.FrontPercent / 100; front < budget {
			budget = front
			limiting = "front"
		}
	}
	budget -= input.MonthlyHOA

	var miErr error
	breakdown := func(price float64) (tax, insurance, mi float64) {
		tax = price * input.PropertyTaxRate / 100 / MonthsPerYear
		insurance = price * input.InsuranceRate / 100 / MonthsPerYear
		quote, err := s.mortgage.ProgramMI(
			input.Program,
			math.Max(price-input.DownPayment, 0),
			price,
			input.CreditScore,
			input.TermYears,
			input.DownPayment,
		)
		if err != nil && miErr == nil {
			miErr = err
		}
		return tax, insurance, quote.MonthlyMI
	}

	sol, err := SolveMaxPrice(
		budget,
		input.DownPayment,
		input.InterestRate,
		input.TermYears,
		func(price float64) float64 {
			tax, insurance, mi := breakdown(price)
			return tax + insurance + mi
		},
		s.solver,
	)
	if err != nil {
		return domain.AffordabilityResult{}, err
	}
	if miErr != nil {
		return domain.AffordabilityResult{}, fmt.Errorf("mortgage insurance: %w", miErr)
	}

	result := domain.AffordabilityResult{
		MaxHousingPayment: roundTo2Decimals(math.Max(budget, 0)),
		LimitingRatio:     limiting,
		Iterations:        sol.Iterations,
		Converged:         sol.Converged,
		Feasible:          sol.Feasible,
	}

	if sol.Price == 0 {
		s.logger.Debug("no affordable price",
			zap.Float64("budget", budget),
			zap.String("program", string(input.Program)),
		)
		return result, nil
	}

	tax, insurance, mi := breakdown(sol.Price)
	result.MaxHomePrice = sol.Price
	result.MaxLoanAmount = sol.Loan
	result.MonthlyPI = sol.MonthlyPI
	result.MonthlyTax = roundTo2Decimals(tax)
	result.MonthlyInsurance = roundTo2Decimals(insurance)
	result.MonthlyMI = roundTo2Decimals(mi)
	result.MonthlyHOA = roundTo2Decimals(input.MonthlyHOA)

	housing := result.MonthlyPI + result.MonthlyTax + result.MonthlyInsurance + result.MonthlyMI + result.MonthlyHOA
	result.TotalMonthlyPayment = roundTo2Decimals(housing)
	result.FrontEndRatio = roundTo2Decimals(housing / monthlyIncome * 100)
	result.BackEndRatio = roundTo2Decimals((housing + input.MonthlyDebts) / monthlyIncome * 100)

	s.logger.Debug("affordability solved",
		zap.String("program", string(input.Program)),
		zap.Float64("max_home_price", result.MaxHomePrice),
		zap.Int("iterations", sol.Iterations),
		zap.Bool("converged", sol.Converged),
	)

	return result, nil
}

func validateAffordability(input domain.AffordabilityInput) error {
	if !finite(input.AnnualIncome, input.MonthlyDebts, input.DownPayment, input.InterestRate,
		input.PropertyTaxRate, input.InsuranceRate, input.MonthlyHOA) {
		return ErrNonFiniteInput
	}
	if input.AnnualIncome <= 0 {
		return ErrInvalidIncome
	}
	if input.MonthlyDebts < 0 || input.DownPayment < 0 || input.PropertyTaxRate < 0 ||
		input.InsuranceRate < 0 || input.MonthlyHOA < 0 {
		return ErrNegativeValue
	}
	if input.InterestRate < 0 {
		return ErrNegativeRate
	}
	if input.InterestRate > MaxInterestRate {
		return fmt.Errorf("%w: %.2f%%", ErrRateTooHigh, MaxInterestRate)
	}
	if input.TermYears <= 0 {
		return ErrInvalidTerm
	}
	if input.TermYears > MaxTermYears {
		return fmt.Errorf("%w: %d years", ErrTermTooLong, MaxTermYears)
	}
	return nil
}
