package http

import (
	"net/http"

	"go.uber.org/zap"

	"mortgage-engine/domain"
	"mortgage-engine/service"
)

type TermRecommendationHandler struct {
	service *service.TermRecommendationService
	logger  *zap.Logger
}

func NewTermRecommendationHandler(service *service.TermRecommendationService, logger *zap.Logger) *TermRecommendationHandler {
	return &TermRecommendationHandler{service: service, logger: logger}
}

// RecommendTerm handles POST /mortgage/terms.
func (h *TermRecommendationHandler) RecommendTerm(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, h.logger, http.MethodPost) {
		return
	}

	var input domain.TermRecommendationInput
	if !decodeJSON(w, r, h.logger, &input) {
		return
	}

	result, err := h.service.RecommendTerm(input)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, result)
}
