package http

import (
	"net/http"

	"go.uber.org/zap"
)

// Handlers groups every endpoint of the API.
type Handlers struct {
	Loan     *LoanHandler
	Term     *TermRecommendationHandler
	Mortgage *MortgageHandler
	Calc     *CalculatorHandler
	Lead     *LeadHandler
}

// NewRouter registers every route behind the rate limiter and wraps the mux
// with request logging.
func NewRouter(h Handlers, limiter *RateLimiter, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	routes := map[string]http.HandlerFunc{
		"/mortgage/payment":            h.Loan.CalculatePayment,
		"/mortgage/affordability":      h.Mortgage.Affordability,
		"/mortgage/mi":                 h.Mortgage.MortgageInsurance,
		"/mortgage/programs":           h.Mortgage.Programs,
		"/mortgage/programs/{program}": h.Mortgage.Program,
		"/mortgage/terms":              h.Term.RecommendTerm,
		"/mortgage/refinance":          h.Calc.Refinance,
		"/mortgage/buydown":            h.Calc.Buydown,
		"/investment/metrics":          h.Calc.Investment,
		"/leads":                       h.Lead.SubmitLead,
		"/health":                      health(logger),
	}
	for pattern, handler := range routes {
		mux.Handle(pattern, RateLimitMiddleware(limiter, logger, handler))
	}

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, logger, http.StatusNotFound, "route not found")
	})

	return WithLogging(logger, mux)
}

func health(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, logger, http.MethodGet) {
			return
		}
		writeJSON(w, logger, http.StatusOK, map[string]string{"status": "ok"})
	}
}
