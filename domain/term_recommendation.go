package domain

type TermRecommendationInput struct {
	Amount            float64 `json:"amount"`
	InterestRate      float64 `json:"interestRate"`
	TermYears         []int   `json:"termYears,omitempty"` // candidates; defaults to 10/15/20/25/30
	MaxMonthlyPayment float64 `json:"maxMonthlyPayment"`
	Preference        string  `json:"preference"` // "minimize_interest", "minimize_payment", "balanced"
}

type TermRecommendation struct {
	TermYears      int     `json:"termYears"`
	MonthlyPayment float64 `json:"monthlyPayment"`
	TotalInterest  float64 `json:"totalInterest"`
	Score          float64 `json:"score"`
	Reason         string  `json:"reason"`
}

type TermRecommendationResult struct {
	RecommendedTerm int                  `json:"recommendedTerm"`
	Recommendations []TermRecommendation `json:"recommendations"`
}
