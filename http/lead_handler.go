package http

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"mortgage-engine/domain"
	"mortgage-engine/service"
)

type LeadHandler struct {
	service *service.LeadService
	logger  *zap.Logger
}

func NewLeadHandler(service *service.LeadService, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{service: service, logger: logger}
}

// SubmitLead handles POST /leads. A delivered lead answers 201; an
// unreachable or failing upstream answers 502 with a message safe to show.
func (h *LeadHandler) SubmitLead(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, h.logger, http.MethodPost) {
		return
	}

	var lead domain.Lead
	if !decodeJSON(w, r, h.logger, &lead) {
		return
	}

	result, err := h.service.Submit(r.Context(), lead)
	if errors.Is(err, service.ErrLeadEndpointMissing) {
		h.logger.Error("lead submitted without a configured endpoint")
		writeError(w, h.logger, http.StatusServiceUnavailable, "lead submission is not available")
		return
	}
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, result)
}
