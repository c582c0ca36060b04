package http

import (
	"net/http"

	"go.uber.org/zap"

	"mortgage-engine/domain"
	"mortgage-engine/service"
)

// CalculatorHandler serves the investment, refinance and buydown
// calculators.
type CalculatorHandler struct {
	investment *service.InvestmentService
	refinance  *service.RefinanceService
	buydown    *service.BuydownService
	logger     *zap.Logger
}

func NewCalculatorHandler(
	investment *service.InvestmentService,
	refinance *service.RefinanceService,
	buydown *service.BuydownService,
	logger *zap.Logger,
) *CalculatorHandler {
	return &CalculatorHandler{
		investment: investment,
		refinance:  refinance,
		buydown:    buydown,
		logger:     logger,
	}
}

// calculate decodes In, runs fn and writes its result.
func calculate[In, Out any](h *CalculatorHandler, fn func(In) (Out, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, h.logger, http.MethodPost) {
			return
		}

		var input In
		if !decodeJSON(w, r, h.logger, &input) {
			return
		}

		result, err := fn(input)
		if err != nil {
			writeServiceError(w, h.logger, err)
			return
		}

		writeJSON(w, h.logger, http.StatusOK, result)
	}
}

// Investment handles POST /investment/metrics.
func (h *CalculatorHandler) Investment(w http.ResponseWriter, r *http.Request) {
	calculate[domain.InvestmentInput](h, h.investment.Analyze)(w, r)
}

// Refinance handles POST /mortgage/refinance.
func (h *CalculatorHandler) Refinance(w http.ResponseWriter, r *http.Request) {
	calculate[domain.RefinanceInput](h, h.refinance.Compare)(w, r)
}

// Buydown handles POST /mortgage/buydown.
func (h *CalculatorHandler) Buydown(w http.ResponseWriter, r *http.Request) {
	calculate[domain.BuydownInput](h, h.buydown.Calculate)(w, r)
}
