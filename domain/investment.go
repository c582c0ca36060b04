package domain

type InvestmentInput struct {
	PurchasePrice     float64 `json:"purchasePrice"`
	DownPayment       float64 `json:"downPayment"`
	ClosingCosts      float64 `json:"closingCosts"`
	InterestRate      float64 `json:"interestRate"`
	TermYears         int     `json:"termYears"`
	MonthlyRent       float64 `json:"monthlyRent"`
	VacancyRate       float64 `json:"vacancyRate"` // % of gross rent
	AnnualOperatingEx float64 `json:"annualOperatingExpenses"`
}

type InvestmentResult struct {
	LoanAmount         float64          `json:"loanAmount"`
	MonthlyPI          float64          `json:"monthlyPI"`
	AnnualDebtService  float64          `json:"annualDebtService"`
	NetOperatingIncome float64          `json:"netOperatingIncome"`
	CapRate            float64          `json:"capRate"`
	DSCR               float64          `json:"dscr"`
	AnnualCashFlow     float64          `json:"annualCashFlow"`
	CashOnCashROI      float64          `json:"cashOnCashROI"`
	FiftyPercentRule   FiftyPercentRule `json:"fiftyPercentRule"`
}

// FiftyPercentRule estimates cash flow by assuming half of gross rent goes
// to operating expenses.
type FiftyPercentRule struct {
	EstimatedExpenses float64 `json:"estimatedExpenses"`
	MonthlyCashFlow   float64 `json:"monthlyCashFlow"`
	Passes            bool    `json:"passes"`
}

type RefinanceInput struct {
	CurrentBalance      float64 `json:"currentBalance"`
	CurrentRate         float64 `json:"currentRate"`
	RemainingTermMonths int     `json:"remainingTermMonths"`
	NewRate             float64 `json:"newRate"`
	NewTermYears        int     `json:"newTermYears"`
	ClosingCosts        float64 `json:"closingCosts"`
	CashOut             float64 `json:"cashOut,omitempty"`
}

type RefinanceResult struct {
	CurrentPayment       float64 `json:"currentPayment"`
	NewLoanAmount        float64 `json:"newLoanAmount"`
	NewPayment           float64 `json:"newPayment"`
	MonthlySavings       float64 `json:"monthlySavings"`
	BreakEvenMonths      int     `json:"breakEvenMonths"` // -1 when the new loan never pays back its costs
	CurrentTotalInterest float64 `json:"currentTotalInterest"`
	NewTotalInterest     float64 `json:"newTotalInterest"`
	LifetimeSavings      float64 `json:"lifetimeSavings"`
}

type BuydownInput struct {
	LoanAmount float64 `json:"loanAmount"`
	NoteRate   float64 `json:"noteRate"`
	TermYears  int     `json:"termYears"`
	Type       string  `json:"type"` // "3-2-1", "2-1", "1-0"
}

type BuydownYear struct {
	Year           int     `json:"year"`
	Rate           float64 `json:"rate"`
	MonthlyPayment float64 `json:"monthlyPayment"`
	MonthlySubsidy float64 `json:"monthlySubsidy"`
}

type BuydownResult struct {
	NotePayment float64       `json:"notePayment"`
	Years       []BuydownYear `json:"years"`
	TotalCost   float64       `json:"totalCost"`
}
