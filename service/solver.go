package service

import "math"

// SolverConfig controls the maximum home price search.
type SolverConfig struct {
	// Tolerance is the absolute price change, in dollars, below which two
	// consecutive estimates are considered converged.
	Tolerance float64

	// MaxIterations caps the fixed-point loop.
	MaxIterations int

	// ShrinkFactor scales the estimate down when carrying costs alone exceed
	// the budget. Must be in (0, 1).
	ShrinkFactor float64

	// PaymentSlack is how far, in dollars per month, the final total payment
	// may exceed the budget before the estimate is shrunk again.
	PaymentSlack float64
}

// DefaultSolverConfig converges within $100 in at most 10 iterations.
var DefaultSolverConfig = SolverConfig{
	Tolerance:     100,
	MaxIterations: 10,
	ShrinkFactor:  0.95,
	PaymentSlack:  1,
}

func (c SolverConfig) withDefaults() SolverConfig {
	if c.Tolerance <= 0 {
		c.Tolerance = DefaultSolverConfig.Tolerance
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = DefaultSolverConfig.MaxIterations
	}
	if c.ShrinkFactor <= 0 || c.ShrinkFactor >= 1 {
		c.ShrinkFactor = DefaultSolverConfig.ShrinkFactor
	}
	if c.PaymentSlack < 0 {
		c.PaymentSlack = DefaultSolverConfig.PaymentSlack
	}
	return c
}

// CostAtPrice returns the monthly housing cost other than principal and
// interest (tax, insurance, MI) for a home price.
type CostAtPrice func(price float64) float64

type SolveResult struct {
	Price        float64
	Loan         float64
	MonthlyPI    float64
	MonthlyCosts float64
	Iterations   int
	Converged    bool
	Feasible     bool
}

// SolveMaxPrice finds the highest home price whose P&I plus cost(price) fits
// in a monthly budget. Because the costs depend on the price, it iterates
// from the estimate that ignores them until two estimates agree within
// cfg.Tolerance or cfg.MaxIterations is reached. When the loop does not
// converge (costs that jump at an LTV band edge), the last fitting and the
// first failing price are bisected for up to cfg.MaxIterations steps.
//
// A budget <= 0 yields a zero, non-feasible result. The returned price is
// never negative or infinite.
func SolveMaxPrice(
	budget, downPayment, annualRatePercent float64,
	termYears int,
	cost CostAtPrice,
	cfg SolverConfig,
) (SolveResult, error) {
	if !finite(budget, downPayment, annualRatePercent) {
		return SolveResult{}, ErrNonFiniteInput
	}
	if termYears <= 0 {
		return SolveResult{}, ErrInvalidTerm
	}
	if downPayment < 0 {
		return SolveResult{}, ErrNegativeValue
	}
	if annualRatePercent < 0 {
		return SolveResult{}, ErrNegativeRate
	}
	if budget <= 0 {
		return SolveResult{}, nil
	}

	cfg = cfg.withDefaults()
	months := termYears * MonthsPerYear

	costAt := func(price float64) (float64, error) {
		c := cost(price)
		if !finite(c) {
			return 0, ErrNonFiniteInput
		}
		return math.Max(c, 0), nil
	}

	price := downPayment + maxLoanForPayment(budget, annualRatePercent, months)
	result := SolveResult{}

	for result.Iterations < cfg.MaxIterations {
		result.Iterations++

		costs, err := costAt(price)
		if err != nil {
			return SolveResult{}, err
		}

		piBudget := budget - costs
		if piBudget <= 0 {
			price *= cfg.ShrinkFactor
			continue
		}

		next := downPayment + maxLoanForPayment(piBudget, annualRatePercent, months)
		delta := math.Abs(next - price)
		price = next
		if delta < cfg.Tolerance {
			result.Converged = true
			break
		}
	}

	fits := func(price float64) (bool, error) {
		pi, err := monthlyPayment(math.Max(price-downPayment, 0), annualRatePercent, months)
		if err != nil {
			return false, err
		}
		costs, err := costAt(price)
		return pi+costs <= budget+cfg.PaymentSlack, err
	}

	// lo always fits; hi is the lowest price known not to.
	lo, hi := price, price
	ok, err := fits(price)
	if err != nil {
		return SolveResult{}, err
	}
	switch {
	case !ok:
		// Oscillating inputs can stop above the budget; back off until it fits.
		for repairs := 0; repairs < cfg.MaxIterations; repairs++ {
			hi = price
			price *= cfg.ShrinkFactor
			if ok, err = fits(price); err != nil {
				return SolveResult{}, err
			}
			if ok {
				break
			}
		}
		lo = price
	case !result.Converged:
		// The loop stopped on a price that fits but may undershoot the
		// boundary; costs are never negative, so the cost-free price bounds it.
		hi = math.Max(price, downPayment+maxLoanForPayment(budget, annualRatePercent, months))
	}
	result.Feasible = ok

	// Total payment grows with price, so the boundary can be bisected.
	if ok {
		for step := 0; step < cfg.MaxIterations && hi-lo > 0.01; step++ {
			mid := (lo + hi) / 2
			midFits, err := fits(mid)
			if err != nil {
				return SolveResult{}, err
			}
			if midFits {
				lo = mid
			} else {
				hi = mid
			}
		}
		price = lo
	}

	result.Price = roundTo2Decimals(price)
	result.Loan = roundTo2Decimals(math.Max(result.Price-downPayment, 0))
	monthlyPI, err := monthlyPayment(result.Loan, annualRatePercent, months)
	if err != nil {
		return SolveResult{}, err
	}
	result.MonthlyPI = roundTo2Decimals(monthlyPI)
	costs, err := costAt(result.Price)
	if err != nil {
		return SolveResult{}, err
	}
	result.MonthlyCosts = roundTo2Decimals(costs)
	return result, nil
}
