package domain

type LoanInput struct {
	Amount          float64 `json:"amount"`
	InterestRate    float64 `json:"interestRate"`
	TermYears       int     `json:"termYears"`
	IncludeSchedule bool    `json:"includeSchedule,omitempty"`
}

type ScheduleRow struct {
	Month     int     `json:"month"`
	Payment   float64 `json:"payment"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Balance   float64 `json:"balance"`
}

type LoanResult struct {
	QuoteID        string        `json:"quoteId,omitempty"`
	MonthlyPayment float64       `json:"monthlyPayment"`
	TotalPayment   float64       `json:"totalPayment"`
	TotalInterest  float64       `json:"totalInterest"`
	Schedule       []ScheduleRow `json:"schedule,omitempty"`
}
