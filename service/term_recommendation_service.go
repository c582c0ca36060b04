package service

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"mortgage-engine/domain"
)

type TermRecommendationService struct {
	loanService *LoanService
	logger      *zap.Logger
}

func NewTermRecommendationService(loanService *LoanService, logger *zap.Logger) *TermRecommendationService {
	return &TermRecommendationService{
		loanService: loanService,
		logger:      logger,
	}
}

var preferences = map[string]bool{
	"minimize_interest": true,
	"minimize_payment":  true,
	"balanced":          true,
}

// RecommendTerm analiza diferentes plazos y recomienda el óptimo
func (s *TermRecommendationService) RecommendTerm(
	input domain.TermRecommendationInput,
) (domain.TermRecommendationResult, error) {

	// Validaciones
	if !finite(input.Amount, input.InterestRate, input.MaxMonthlyPayment) {
		return domain.TermRecommendationResult{}, ErrNonFiniteInput
	}
	if input.Amount <= 0 {
		return domain.TermRecommendationResult{}, ErrInvalidAmount
	}
	if input.InterestRate < 0 {
		return domain.TermRecommendationResult{}, ErrNegativeRate
	}
	if input.MaxMonthlyPayment <= 0 {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: max monthly payment must be positive", ErrNegativeValue)
	}
	if !preferences[input.Preference] {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: %q", ErrInvalidPreference, input.Preference)
	}

	terms := input.TermYears
	if len(terms) == 0 {
		terms = DefaultTermCandidates
	}
	if len(terms) > MaxTermCandidates {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: at most %d candidate terms", ErrTermTooLong, MaxTermCandidates)
	}
	terms = append([]int(nil), terms...)
	sort.Ints(terms)
	minTerm, maxTerm := terms[0], terms[len(terms)-1]
	if minTerm <= 0 {
		return domain.TermRecommendationResult{}, ErrInvalidTerm
	}
	if maxTerm > MaxTermYears {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: %d years", ErrTermTooLong, MaxTermYears)
	}

	// Calcular escenarios para cada plazo
	quotes := make(map[int]domain.LoanResult, len(terms))
	for _, term := range terms {
		if _, seen := quotes[term]; seen {
			continue
		}
		result, err := s.loanService.Quote(domain.LoanInput{
			Amount:       input.Amount,
			InterestRate: input.InterestRate,
			TermYears:    term,
		})
		if err != nil {
			return domain.TermRecommendationResult{}, err
		}
		quotes[term] = result
	}

	// Rangos para normalizar el score
	minInterest, maxInterest := quotes[minTerm].TotalInterest, quotes[maxTerm].TotalInterest
	minPayment, maxPayment := quotes[maxTerm].MonthlyPayment, quotes[minTerm].MonthlyPayment

	recommendations := []domain.TermRecommendation{}
	for _, term := range terms {
		result, ok := quotes[term]
		if !ok {
			continue
		}
		delete(quotes, term)

		// Filtrar por pago mensual máximo
		if result.MonthlyPayment > input.MaxMonthlyPayment {
			s.logger.Debug("term exceeds max payment",
				zap.Int("term_years", term),
				zap.Float64("monthly_payment", result.MonthlyPayment),
			)
			continue
		}

		recommendations = append(recommendations, domain.TermRecommendation{
			TermYears:      term,
			MonthlyPayment: result.MonthlyPayment,
			TotalInterest:  result.TotalInterest,
			Score: calculateTermScore(result, input.Preference, term,
				minTerm, maxTerm, minInterest, maxInterest, minPayment, maxPayment),
			Reason: generateTermReason(input.Preference),
		})
	}

	if len(recommendations) == 0 {
		return domain.TermRecommendationResult{}, ErrNoEligibleTerm
	}

	// Ordenar por score descendente; en empate gana el plazo más corto
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})

	return domain.TermRecommendationResult{
		RecommendedTerm: recommendations[0].TermYears,
		Recommendations: recommendations,
	}, nil
}

// calculateTermScore weighs interest, payment and term length on a 0-10 scale.
func calculateTermScore(
	result domain.LoanResult,
	preference string,
	term, minTerm, maxTerm int,
	minInterest, maxInterest, minPayment, maxPayment float64,
) float64 {
	interestScore, paymentScore, termScore := 10.0, 10.0, 10.0

	if r := maxInterest - minInterest; r > 0 {
		interestScore = 10.0 * (1.0 - (result.TotalInterest-minInterest)/r)
	}
	if r := maxPayment - minPayment; r > 0 {
		paymentScore = 10.0 * (1.0 - (result.MonthlyPayment-minPayment)/r)
	}
	if r := maxTerm - minTerm; r > 0 {
		termScore = 10.0 * (1.0 - float64(term-minTerm)/float64(r))
	}

	var score float64
	switch preference {
	case "minimize_interest":
		score = 0.6*interestScore + 0.2*paymentScore + 0.2*termScore
	case "minimize_payment":
		score = 0.2*interestScore + 0.6*paymentScore + 0.2*termScore
	case "balanced":
		score = 0.4*interestScore + 0.4*paymentScore + 0.2*termScore
	}

	return roundTo2Decimals(score)
}

func generateTermReason(preference string) string {
	switch preference {
	case "minimize_interest":
		return "Term chosen to minimize total interest paid"
	case "minimize_payment":
		return "Term chosen to minimize the monthly payment"
	case "balanced":
		return "Balances the monthly payment against total interest"
	}
	return "Recommendation based on the supplied parameters"
}
