package http

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"mortgage-engine/domain"
	"mortgage-engine/service"
)

// MortgageHandler serves the program policy, mortgage insurance and
// affordability endpoints.
type MortgageHandler struct {
	mortgage      *service.MortgageMath
	affordability *service.AffordabilityService
	logger        *zap.Logger
}

func NewMortgageHandler(
	mortgage *service.MortgageMath,
	affordability *service.AffordabilityService,
	logger *zap.Logger,
) *MortgageHandler {
	return &MortgageHandler{mortgage: mortgage, affordability: affordability, logger: logger}
}

// ProgramResponse is a program's policy together with its name.
type ProgramResponse struct {
	Program domain.LoanProgram `json:"program"`
	domain.ProgramPolicy
}

// Affordability handles POST /mortgage/affordability.
func (h *MortgageHandler) Affordability(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, h.logger, http.MethodPost) {
		return
	}

	var input domain.AffordabilityInput
	if !decodeJSON(w, r, h.logger, &input) {
		return
	}
	if program, ok := domain.ParseLoanProgram(string(input.Program)); ok {
		input.Program = program
	}

	result, err := h.affordability.Calculate(input)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, result)
}

// MortgageInsurance handles POST /mortgage/mi.
func (h *MortgageHandler) MortgageInsurance(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, h.logger, http.MethodPost) {
		return
	}

	var input domain.MIInput
	if !decodeJSON(w, r, h.logger, &input) {
		return
	}
	if program, ok := domain.ParseLoanProgram(string(input.Program)); ok {
		input.Program = program
	}

	quote, err := h.mortgage.ProgramMI(
		input.Program,
		input.LoanAmount,
		input.HomePrice,
		input.CreditScore,
		input.TermYears,
		input.DownPayment,
	)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, quote)
}

// Programs handles GET /mortgage/programs.
func (h *MortgageHandler) Programs(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, h.logger, http.MethodGet) {
		return
	}
	writeJSON(w, h.logger, http.StatusOK, h.mortgage.Policy())
}

// Program handles GET /mortgage/programs/{program}.
func (h *MortgageHandler) Program(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, h.logger, http.MethodGet) {
		return
	}

	program, ok := domain.ParseLoanProgram(r.PathValue("program"))
	if !ok {
		writeError(w, h.logger, http.StatusNotFound, "unknown loan program")
		return
	}

	policy, err := h.mortgage.ProgramPolicy(program)
	if errors.Is(err, service.ErrUnknownProgram) {
		writeError(w, h.logger, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, ProgramResponse{Program: program, ProgramPolicy: policy})
}
