package service

import (
	"fmt"
	"math"

	"mortgage-engine/config"
	"mortgage-engine/domain"
)

// roundTo2Decimals redondea un float64 a 2 decimales
func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// CalculateMonthlyPI returns the level monthly principal and interest payment
// that amortizes principal over termYears at annualRatePercent (4.5 = 4.5%).
// A zero rate is repaid in equal straight-line installments.
func CalculateMonthlyPI(principal, annualRatePercent float64, termYears int) (float64, error) {
	if termYears <= 0 {
		return 0, ErrInvalidTerm
	}
	return monthlyPayment(principal, annualRatePercent, termYears*MonthsPerYear)
}

func monthlyPayment(principal, annualRatePercent float64, months int) (float64, error) {
	if !finite(principal, annualRatePercent) {
		return 0, ErrNonFiniteInput
	}
	if months <= 0 {
		return 0, ErrInvalidTerm
	}
	if principal < 0 {
		return 0, ErrNegativePrincipal
	}
	if annualRatePercent < 0 {
		return 0, ErrNegativeRate
	}
	if principal == 0 {
		return 0, nil
	}

	n := float64(months)
	r := annualRatePercent / 100 / MonthsPerYear
	growth := math.Pow(1+r, n)
	// rates too small to move (1+r)^n behave like zero interest
	if r == 0 || growth == 1 {
		return principal / n, nil
	}
	return principal * r * growth / (growth - 1), nil
}

// maxLoanForPayment inverts the amortization formula: the largest principal
// a monthly payment can carry. Inputs are assumed validated.
func maxLoanForPayment(payment, annualRatePercent float64, months int) float64 {
	if payment <= 0 || months <= 0 {
		return 0
	}
	n := float64(months)
	r := annualRatePercent / 100 / MonthsPerYear
	if r == 0 {
		return payment * n
	}
	discount := math.Pow(1+r, -n)
	if discount == 1 {
		return payment * n
	}
	return payment * (1 - discount) / r
}

// ClampCreditScore bounds a score to the [300, 850] range used by the MI
// tables. Missing scores (0) therefore price as the lowest tier.
func ClampCreditScore(score int) int {
	if score < config.MinCreditScore {
		return config.MinCreditScore
	}
	if score > config.MaxCreditScore {
		return config.MaxCreditScore
	}
	return score
}

// MortgageMath answers program specific questions (DTI ceilings, mortgage
// insurance) from a policy table. It holds no mutable state and is safe for
// concurrent use.
type MortgageMath struct {
	policy domain.PolicyTable
}

func NewMortgageMath(policy domain.PolicyTable) *MortgageMath {
	return &MortgageMath{policy: policy}
}

// Policy returns the table the calculations are based on.
func (m *MortgageMath) Policy() domain.PolicyTable {
	return m.policy
}

// ProgramPolicy returns the full policy of a program.
func (m *MortgageMath) ProgramPolicy(program domain.LoanProgram) (domain.ProgramPolicy, error) {
	p, ok := m.policy.Programs[program]
	if !ok {
		return domain.ProgramPolicy{}, fmt.Errorf("%w: %q", ErrUnknownProgram, program)
	}
	return p, nil
}

// ProgramDTI returns the program's front/back DTI ceilings. FrontPercent is 0
// for programs that only enforce the back-end ratio.
func (m *MortgageMath) ProgramDTI(program domain.LoanProgram) (domain.DTIPolicy, error) {
	p, err := m.ProgramPolicy(program)
	if err != nil {
		return domain.DTIPolicy{}, err
	}
	return p.DTI, nil
}

// ProgramMI prices mortgage insurance for a loan. LTV is loanAmount/homePrice;
// when homePrice is unknown (<= 0) it is derived from loanAmount+downPayment.
func (m *MortgageMath) ProgramMI(
	program domain.LoanProgram,
	loanAmount, homePrice float64,
	creditScore, termYears int,
	downPayment float64,
) (domain.MIQuote, error) {
	p, err := m.ProgramPolicy(program)
	if err != nil {
		return domain.MIQuote{}, err
	}
	if !finite(loanAmount, homePrice, downPayment) {
		return domain.MIQuote{}, ErrNonFiniteInput
	}
	if loanAmount < 0 || homePrice < 0 || downPayment < 0 {
		return domain.MIQuote{}, ErrNegativeValue
	}
	if termYears <= 0 {
		return domain.MIQuote{}, ErrInvalidTerm
	}

	quote := domain.MIQuote{Program: program}
	if loanAmount == 0 {
		return quote, nil
	}

	var ltv float64
	switch {
	case homePrice > 0:
		ltv = loanAmount / homePrice * 100
	default:
		ltv = loanAmount / (loanAmount + downPayment) * 100
	}

	quote.LTV = roundTo2Decimals(ltv)
	quote.UpfrontPremium = roundTo2Decimals(loanAmount * p.MI.UpfrontPercent / 100)

	if p.MI.ExemptAtOrBelowLTV > 0 && ltv <= p.MI.ExemptAtOrBelowLTV {
		return quote, nil
	}

	annual, ok := lookupMIRate(p.MI.Rates, ltv, ClampCreditScore(creditScore), termYears)
	if !ok {
		return quote, nil
	}
	quote.AnnualPercent = annual
	quote.MonthlyMI = roundTo2Decimals(loanAmount * annual / 100 / MonthsPerYear)
	return quote, nil
}

// lookupMIRate returns the annual premium of the first row containing the
// loan. LTVs above the table's highest band price at that band.
func lookupMIRate(rates []domain.MIRate, ltv float64, score, termYears int) (float64, bool) {
	if len(rates) == 0 {
		return 0, false
	}

	maxBand := rates[0].MaxLTV
	for _, r := range rates[1:] {
		maxBand = math.Max(maxBand, r.MaxLTV)
	}
	ltv = math.Min(ltv, maxBand)

	for _, r := range rates {
		if ltv <= r.MinLTV || ltv > r.MaxLTV {
			continue
		}
		if score < r.MinCredit || score > r.MaxCredit {
			continue
		}
		if r.MaxTermYears > 0 && termYears > r.MaxTermYears {
			continue
		}
		return r.AnnualPercent, true
	}
	return 0, false
}
