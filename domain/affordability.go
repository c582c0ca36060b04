package domain

type AffordabilityInput struct {
	AnnualIncome    float64     `json:"annualIncome"`
	MonthlyDebts    float64     `json:"monthlyDebts"`
	DownPayment     float64     `json:"downPayment"`
	InterestRate    float64     `json:"interestRate"`
	TermYears       int         `json:"termYears"`
	PropertyTaxRate float64     `json:"propertyTaxRate"` // annual % of price
	InsuranceRate   float64     `json:"insuranceRate"`   // annual % of price
	MonthlyHOA      float64     `json:"monthlyHOA,omitempty"`
	Program         LoanProgram `json:"program"`
	CreditScore     int         `json:"creditScore"`
}

type AffordabilityResult struct {
	MaxHomePrice        float64 `json:"maxHomePrice"`
	MaxLoanAmount       float64 `json:"maxLoanAmount"`
	MonthlyPI           float64 `json:"monthlyPI"`
	MonthlyTax          float64 `json:"monthlyTax"`
	MonthlyInsurance    float64 `json:"monthlyInsurance"`
	MonthlyMI           float64 `json:"monthlyMI"`
	MonthlyHOA          float64 `json:"monthlyHOA"`
	TotalMonthlyPayment float64 `json:"totalMonthlyPayment"`
	MaxHousingPayment   float64 `json:"maxHousingPayment"`
	LimitingRatio       string  `json:"limitingRatio"` // "front" or "back"
	FrontEndRatio       float64 `json:"frontEndRatio"`
	BackEndRatio        float64 `json:"backEndRatio"`
	Iterations          int     `json:"iterations"`
	Converged           bool    `json:"converged"`
	Feasible            bool    `json:"feasible"`
}
