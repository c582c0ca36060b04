package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mortgage-engine/domain"
	"mortgage-engine/repository"
)

type LoanService struct {
	repo   repository.LoanRepository
	cache  repository.CacheRepository
	logger *zap.Logger
}

// NewLoanService creates a new LoanService with the given repository and cache.
func NewLoanService(repo repository.LoanRepository,
	cache repository.CacheRepository,
	logger *zap.Logger,
) *LoanService {
	return &LoanService{repo: repo, cache: cache, logger: logger}
}

// CalculateLoan quotes a fixed-rate mortgage. Identical requests are served
// from the cache; new quotes are persisted.
func (s *LoanService) CalculateLoan(
	ctx context.Context,
	input domain.LoanInput,
) (domain.LoanResult, error) {

	key, err := repository.CacheKey("loan", input)
	if err != nil {
		return domain.LoanResult{}, err
	}
	if cached, ok := s.cache.Get(ctx, key); ok {
		var result domain.LoanResult
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			return result, nil
		}
		s.logger.Warn("discarding unreadable cached quote", zap.String("key", key))
	}

	result, err := s.Quote(input)
	if err != nil {
		return domain.LoanResult{}, err
	}
	result.QuoteID = uuid.NewString()

	// Guardar el resultado (no crítico si falla)
	if err := s.repo.Save(ctx, input, result); err != nil {
		s.logger.Warn("failed to save loan calculation", zap.Error(err))
	}
	if encoded, err := json.Marshal(result); err == nil {
		if err := s.cache.Set(ctx, key, string(encoded)); err != nil {
			s.logger.Warn("failed to cache loan calculation", zap.Error(err))
		}
	}

	return result, nil
}

// Quote computes payment, totals and the optional amortization schedule
// without touching the cache or the repository.
func (s *LoanService) Quote(input domain.LoanInput) (domain.LoanResult, error) {

	// Validar entrada
	if !finite(input.Amount, input.InterestRate) {
		return domain.LoanResult{}, ErrNonFiniteInput
	}
	if input.Amount <= 0 {
		return domain.LoanResult{}, ErrInvalidAmount
	}
	if input.Amount > MaxLoanAmount {
		return domain.LoanResult{}, fmt.Errorf("%w: $%.2f", ErrAmountTooLarge, MaxLoanAmount)
	}
	if input.InterestRate < 0 {
		return domain.LoanResult{}, ErrNegativeRate
	}
	if input.InterestRate > MaxInterestRate {
		return domain.LoanResult{}, fmt.Errorf("%w: %.2f%%", ErrRateTooHigh, MaxInterestRate)
	}
	if input.TermYears <= 0 {
		return domain.LoanResult{}, ErrInvalidTerm
	}
	if input.TermYears > MaxTermYears {
		return domain.LoanResult{}, fmt.Errorf("%w: %d years", ErrTermTooLong, MaxTermYears)
	}

	cuota, err := CalculateMonthlyPI(input.Amount, input.InterestRate, input.TermYears)
	if err != nil {
		return domain.LoanResult{}, err
	}

	months := input.TermYears * MonthsPerYear
	total := cuota * float64(months)
	intereses := total - input.Amount

	result := domain.LoanResult{
		MonthlyPayment: roundTo2Decimals(cuota),
		TotalPayment:   roundTo2Decimals(total),
		TotalInterest:  roundTo2Decimals(intereses),
	}
	if input.IncludeSchedule {
		result.Schedule = amortizationSchedule(input.Amount, input.InterestRate, months, cuota)
	}
	return result, nil
}

// amortizationSchedule splits each payment into interest and principal. The
// last payment absorbs rounding so the balance ends at exactly zero.
func amortizationSchedule(principal, annualRatePercent float64, months int, payment float64) []domain.ScheduleRow {
	r := annualRatePercent / 100 / MonthsPerYear
	balance := principal
	rows := make([]domain.ScheduleRow, 0, months)

	for month := 1; month <= months; month++ {
		interest := balance * r
		principalPaid := payment - interest
		if month == months || principalPaid > balance {
			principalPaid = balance
		}
		balance = math.Max(balance-principalPaid, 0)

		rows = append(rows, domain.ScheduleRow{
			Month:     month,
			Payment:   roundTo2Decimals(principalPaid + interest),
			Principal: roundTo2Decimals(principalPaid),
			Interest:  roundTo2Decimals(interest),
			Balance:   roundTo2Decimals(balance),
		})
	}
	return rows
}
