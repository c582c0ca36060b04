package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noCosts(float64) float64 { return 0 }

func TestSolveMaxPrice_NoCosts(t *testing.T) {
	res, err := SolveMaxPrice(1216.0447435821259, 60000, 4.5, 30, noCosts, DefaultSolverConfig)
	require.NoError(t, err)

	assert.True(t, res.Converged)
	assert.True(t, res.Feasible)
	assert.Equal(t, 1, res.Iterations)
	assert.InDelta(t, 300000, res.Price, 0.01)
	assert.InDelta(t, 240000, res.Loan, 0.01)
	assert.InDelta(t, 1216.04, res.MonthlyPI, 0.01)
}

func TestSolveMaxPrice_PriceDependentCosts(t *testing.T) {
	budget := 2500.0
	cost := func(price float64) float64 { return price * 0.02 / 12 }

	res, err := SolveMaxPrice(budget, 50000, 6, 30, cost, DefaultSolverConfig)
	require.NoError(t, err)

	assert.True(t, res.Converged)
	assert.True(t, res.Feasible)
	assert.LessOrEqual(t, res.Iterations, DefaultSolverConfig.MaxIterations)
	assert.LessOrEqual(t, res.MonthlyPI+res.MonthlyCosts, budget+DefaultSolverConfig.PaymentSlack)

	pi, err := CalculateMonthlyPI(res.Loan, 6, 30)
	require.NoError(t, err)
	assert.InDelta(t, res.MonthlyPI, pi, 1)
}

func TestSolveMaxPrice_NonPositiveBudget(t *testing.T) {
	for _, budget := range []float64{0, -250} {
		res, err := SolveMaxPrice(budget, 20000, 5, 30, noCosts, DefaultSolverConfig)
		require.NoError(t, err)
		assert.Equal(t, SolveResult{}, res)
		assert.False(t, res.Feasible)
	}
}

func TestSolveMaxPrice_CostsExceedBudgetShrink(t *testing.T) {
	calls := 0
	cost := func(float64) float64 {
		calls++
		return 5000
	}

	res, err := SolveMaxPrice(1000, 0, 5, 30, cost, DefaultSolverConfig)
	require.NoError(t, err)

	assert.False(t, res.Converged)
	assert.False(t, res.Feasible)
	assert.Equal(t, DefaultSolverConfig.MaxIterations, res.Iterations)
	assert.Greater(t, res.Price, 0.0)
	assert.False(t, math.IsInf(res.Price, 0))
	assert.Less(t, res.Price, 1000*maxLoanForPayment(1, 5, 360))
	assert.Greater(t, calls, 0)
}

func TestSolveMaxPrice_ShrinksUntilTaxesFit(t *testing.T) {
	// a cash buyer whose taxes on the down payment alone exceed the budget
	cost := func(price float64) float64 { return price * 0.024 / 12 }

	res, err := SolveMaxPrice(150, 100000, 5, 30, cost, DefaultSolverConfig)
	require.NoError(t, err)

	// taxes fit up to $75,500 including the $1 slack
	assert.True(t, res.Feasible)
	assert.InDelta(t, 75500, res.Price, 20)
	assert.Equal(t, 0.0, res.Loan)
	assert.Equal(t, 0.0, res.MonthlyPI)
}

func TestSolveMaxPrice_InvalidInput(t *testing.T) {
	_, err := SolveMaxPrice(1000, 0, 5, 0, noCosts, DefaultSolverConfig)
	assert.ErrorIs(t, err, ErrInvalidTerm)

	_, err = SolveMaxPrice(math.NaN(), 0, 5, 30, noCosts, DefaultSolverConfig)
	assert.ErrorIs(t, err, ErrNonFiniteInput)

	_, err = SolveMaxPrice(1000, -1, 5, 30, noCosts, DefaultSolverConfig)
	assert.ErrorIs(t, err, ErrNegativeValue)

	_, err = SolveMaxPrice(1000, 0, -5, 30, noCosts, DefaultSolverConfig)
	assert.ErrorIs(t, err, ErrNegativeRate)

	_, err = SolveMaxPrice(1000, 0, 5, 30, func(float64) float64 { return math.NaN() }, DefaultSolverConfig)
	assert.ErrorIs(t, err, ErrNonFiniteInput)
}

func TestSolverConfig_WithDefaults(t *testing.T) {
	cfg := SolverConfig{ShrinkFactor: 1.5, PaymentSlack: -1}.withDefaults()
	assert.Equal(t, DefaultSolverConfig, cfg)

	custom := SolverConfig{Tolerance: 5, MaxIterations: 50, ShrinkFactor: 0.9, PaymentSlack: 0}.withDefaults()
	assert.Equal(t, 5.0, custom.Tolerance)
	assert.Equal(t, 50, custom.MaxIterations)
	assert.Equal(t, 0.9, custom.ShrinkFactor)
	assert.Equal(t, 0.0, custom.PaymentSlack)
}

func TestSolveMaxPrice_BandEdgeDoesNotUndershoot(t *testing.T) {
	// $400/month of insurance above $300k makes the estimates alternate
	// between both sides of the edge; every price up to $300k fits.
	cost := func(price float64) float64 {
		if price > 300000 {
			return 400
		}
		return 0
	}

	res, err := SolveMaxPrice(2000, 0, 6, 30, cost, DefaultSolverConfig)
	require.NoError(t, err)

	assert.False(t, res.Converged)
	assert.True(t, res.Feasible)
	assert.LessOrEqual(t, res.Price, 300000.0)
	assert.InDelta(t, 300000, res.Price, 20)
	assert.LessOrEqual(t, res.MonthlyPI+res.MonthlyCosts, 2000+DefaultSolverConfig.PaymentSlack)
}
