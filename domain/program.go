package domain

import "strings"

// LoanProgram selects which DTI and mortgage insurance rules apply.
type LoanProgram string

const (
	ProgramConventional LoanProgram = "conventional"
	ProgramFHA          LoanProgram = "fha"
	ProgramVA           LoanProgram = "va"
	ProgramUSDA         LoanProgram = "usda"
)

// Programs lists every supported program in display order.
var Programs = []LoanProgram{ProgramConventional, ProgramFHA, ProgramVA, ProgramUSDA}

// ParseLoanProgram normalizes user input ("FHA", " va ") to a LoanProgram.
func ParseLoanProgram(s string) (LoanProgram, bool) {
	p := LoanProgram(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Programs {
		if p == known {
			return p, true
		}
	}
	return p, false
}

// DTIPolicy holds the debt-to-income ceilings of a program. A FrontPercent of
// 0 means no front-end cap is enforced; only the back-end ratio applies.
type DTIPolicy struct {
	FrontPercent float64 `yaml:"front_percent" json:"frontPercent"`
	BackPercent  float64 `yaml:"back_percent" json:"backPercent"`
}

// HasFrontCap reports whether the front-end ratio is enforced.
func (d DTIPolicy) HasFrontCap() bool {
	return d.FrontPercent > 0
}

// MIRate is one row of a mortgage insurance table. A loan matches the row
// when MinLTV < ltv <= MaxLTV, MinCredit <= score <= MaxCredit and, if
// MaxTermYears is set, the term does not exceed it.
type MIRate struct {
	MinLTV        float64 `yaml:"min_ltv" json:"minLtv"`
	MaxLTV        float64 `yaml:"max_ltv" json:"maxLtv"`
	MinCredit     int     `yaml:"min_credit" json:"minCredit"`
	MaxCredit     int     `yaml:"max_credit" json:"maxCredit"`
	MaxTermYears  int     `yaml:"max_term_years,omitempty" json:"maxTermYears,omitempty"`
	AnnualPercent float64 `yaml:"annual_percent" json:"annualPercent"`
}

// MIPolicy describes how a program charges mortgage insurance.
type MIPolicy struct {
	// ExemptAtOrBelowLTV disables the monthly premium once LTV drops to this
	// percentage. Zero means the premium always applies.
	ExemptAtOrBelowLTV float64  `yaml:"exempt_at_or_below_ltv" json:"exemptAtOrBelowLtv"`
	UpfrontPercent     float64  `yaml:"upfront_percent" json:"upfrontPercent"`
	Rates              []MIRate `yaml:"rates" json:"rates"`
}

type ProgramPolicy struct {
	Description string    `yaml:"description" json:"description"`
	DTI         DTIPolicy `yaml:"dti" json:"dti"`
	MI          MIPolicy  `yaml:"mi" json:"mi"`
}

// PolicyMetadata records where a policy table came from.
type PolicyMetadata struct {
	Version     string `yaml:"version" json:"version"`
	LastUpdated string `yaml:"last_updated" json:"lastUpdated"`
	Source      string `yaml:"source" json:"source"`
}

// PolicyTable is the underwriting data consumed by the mortgage math.
type PolicyTable struct {
	Metadata PolicyMetadata                `yaml:"metadata" json:"metadata"`
	Programs map[LoanProgram]ProgramPolicy `yaml:"programs" json:"programs"`
}

// MIQuote is the mortgage insurance premium for a single loan.
type MIQuote struct {
	Program        LoanProgram `json:"program"`
	MonthlyMI      float64     `json:"monthlyMI"`
	AnnualPercent  float64     `json:"annualPercent"`
	LTV            float64     `json:"ltv"`
	UpfrontPremium float64     `json:"upfrontPremium"`
}

// MIInput is the request form of a mortgage insurance lookup.
type MIInput struct {
	Program     LoanProgram `json:"program"`
	LoanAmount  float64     `json:"loanAmount"`
	HomePrice   float64     `json:"homePrice"`
	CreditScore int         `json:"creditScore"`
	TermYears   int         `json:"termYears"`
	DownPayment float64     `json:"downPayment"`
}
