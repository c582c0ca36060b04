package http

import (
	"net/http"

	"go.uber.org/zap"

	"mortgage-engine/domain"
	"mortgage-engine/service"
)

type LoanHandler struct {
	service *service.LoanService
	logger  *zap.Logger
}

func NewLoanHandler(service *service.LoanService, logger *zap.Logger) *LoanHandler {
	return &LoanHandler{service: service, logger: logger}
}

// CalculatePayment handles POST /mortgage/payment.
func (h *LoanHandler) CalculatePayment(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, h.logger, http.MethodPost) {
		return
	}

	var input domain.LoanInput
	if !decodeJSON(w, r, h.logger, &input) {
		return
	}

	result, err := h.service.CalculateLoan(r.Context(), input)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, result)
}
