package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mortgage-engine/domain"
)

func newTestAffordabilityService(t *testing.T) *AffordabilityService {
	t.Helper()
	return NewAffordabilityService(newTestMortgageMath(t), DefaultSolverConfig, zap.NewNop())
}

func conventionalBuyer() domain.AffordabilityInput {
	return domain.AffordabilityInput{
		AnnualIncome:    80000,
		MonthlyDebts:    500,
		DownPayment:     20000,
		InterestRate:    4.5,
		TermYears:       30,
		PropertyTaxRate: 1.2,
		InsuranceRate:   0.5,
		Program:         domain.ProgramConventional,
		CreditScore:     740,
	}
}

func TestAffordability_ConventionalFrontEndLimited(t *testing.T) {
	service := newTestAffordabilityService(t)

	result, err := service.Calculate(conventionalBuyer())
	require.NoError(t, err)

	assert.True(t, result.Converged)
	assert.True(t, result.Feasible)
	assert.LessOrEqual(t, result.Iterations, 10)
	assert.Equal(t, "front", result.LimitingRatio)
	assert.InDelta(t, 1866.67, result.MaxHousingPayment, 0.01)

	// the back-end budget (36% of income less debts) is the outer bound
	assert.LessOrEqual(t, result.TotalMonthlyPayment, 1900+DefaultSolverConfig.Tolerance)
	assert.LessOrEqual(t, result.TotalMonthlyPayment, result.MaxHousingPayment+DefaultSolverConfig.PaymentSlack+0.05)

	assert.InDelta(t, 289365.73, result.MaxHomePrice, 50)
	assert.InDelta(t, result.MaxHomePrice-20000, result.MaxLoanAmount, 0.01)
	assert.Greater(t, result.MonthlyMI, 0.0, "93% LTV requires PMI")

	pi, err := CalculateMonthlyPI(result.MaxLoanAmount, 4.5, 30)
	require.NoError(t, err)
	assert.InDelta(t, result.MonthlyPI, pi, 1)

	assert.InDelta(t, result.MaxHomePrice*1.2/100/12, result.MonthlyTax, 0.01)
	assert.InDelta(t, result.MaxHomePrice*0.5/100/12, result.MonthlyInsurance, 0.01)
	assert.InDelta(t, 28, result.FrontEndRatio, 0.05)
	assert.InDelta(t, result.FrontEndRatio+7.5, result.BackEndRatio, 0.02)
}

func TestAffordability_VAHasNoFrontCap(t *testing.T) {
	service := newTestAffordabilityService(t)

	result, err := service.Calculate(domain.AffordabilityInput{
		AnnualIncome:    120000,
		MonthlyDebts:    800,
		InterestRate:    6.5,
		TermYears:       30,
		PropertyTaxRate: 1.0,
		InsuranceRate:   0.4,
		MonthlyHOA:      100,
		Program:         domain.ProgramVA,
		CreditScore:     620,
	})
	require.NoError(t, err)

	assert.Equal(t, "back", result.LimitingRatio)
	assert.InDelta(t, 3200, result.MaxHousingPayment, 0.01)
	assert.True(t, result.Converged)
	assert.True(t, result.Feasible)
	assert.Equal(t, 0.0, result.MonthlyMI)
	assert.Equal(t, 100.0, result.MonthlyHOA)
	assert.Equal(t, result.MaxHomePrice, result.MaxLoanAmount)
	assert.InDelta(t, 427390.82, result.MaxHomePrice, 50)
	assert.LessOrEqual(t, result.TotalMonthlyPayment, 3300+DefaultSolverConfig.PaymentSlack+0.05)
}

func TestAffordability_DebtsConsumeBudget(t *testing.T) {
	service := newTestAffordabilityService(t)

	input := conventionalBuyer()
	input.MonthlyDebts = 3000

	result, err := service.Calculate(input)
	require.NoError(t, err)

	assert.Equal(t, "back", result.LimitingRatio)
	assert.Equal(t, 0.0, result.MaxHomePrice)
	assert.Equal(t, 0.0, result.MaxHousingPayment)
	assert.False(t, result.Feasible)
}

func TestAffordability_ResultIsFinite(t *testing.T) {
	service := newTestAffordabilityService(t)

	for _, program := range domain.Programs {
		for _, score := range []int{0, 580, 700, 760, 900} {
			input := conventionalBuyer()
			input.Program = program
			input.CreditScore = score

			result, err := service.Calculate(input)
			require.NoError(t, err, "%s/%d", program, score)
			assert.False(t, math.IsNaN(result.MaxHomePrice) || math.IsInf(result.MaxHomePrice, 0))
			assert.GreaterOrEqual(t, result.MaxHomePrice, 0.0)
		}
	}
}

func TestAffordability_Validation(t *testing.T) {
	service := newTestAffordabilityService(t)

	tests := []struct {
		name   string
		mutate func(*domain.AffordabilityInput)
		want   error
	}{
		{"zero income", func(in *domain.AffordabilityInput) { in.AnnualIncome = 0 }, ErrInvalidIncome},
		{"negative debts", func(in *domain.AffordabilityInput) { in.MonthlyDebts = -1 }, ErrNegativeValue},
		{"negative down payment", func(in *domain.AffordabilityInput) { in.DownPayment = -1 }, ErrNegativeValue},
		{"negative rate", func(in *domain.AffordabilityInput) { in.InterestRate = -1 }, ErrNegativeRate},
		{"rate too high", func(in *domain.AffordabilityInput) { in.InterestRate = 150 }, ErrRateTooHigh},
		{"zero term", func(in *domain.AffordabilityInput) { in.TermYears = 0 }, ErrInvalidTerm},
		{"term too long", func(in *domain.AffordabilityInput) { in.TermYears = 80 }, ErrTermTooLong},
		{"NaN tax", func(in *domain.AffordabilityInput) { in.PropertyTaxRate = math.NaN() }, ErrNonFiniteInput},
		{"unknown program", func(in *domain.AffordabilityInput) { in.Program = "jumbo" }, ErrUnknownProgram},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := conventionalBuyer()
			tt.mutate(&input)
			_, err := service.Calculate(input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
