package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mortgage-engine/config"
	"mortgage-engine/domain"
	"mortgage-engine/repository"
	"mortgage-engine/service"
)

type testAPI struct {
	handler http.Handler
	repo    *repository.LoanRepositoryMemory
}

func newTestAPI(t *testing.T, leadEndpoint string, capacity int) testAPI {
	t.Helper()

	policy, err := config.DefaultPolicy()
	require.NoError(t, err)

	logger := zap.NewNop()
	repo := repository.NewLoanRepositoryMemory()
	mortgage := service.NewMortgageMath(policy)
	loanService := service.NewLoanService(repo, repository.NewMemoryCache(time.Minute), logger)

	limiter := NewRateLimiter(capacity, time.Minute)
	t.Cleanup(limiter.Stop)

	handler := NewRouter(Handlers{
		Loan: NewLoanHandler(loanService, logger),
		Term: NewTermRecommendationHandler(service.NewTermRecommendationService(loanService, logger), logger),
		Mortgage: NewMortgageHandler(
			mortgage,
			service.NewAffordabilityService(mortgage, service.DefaultSolverConfig, logger),
			logger,
		),
		Calc: NewCalculatorHandler(
			service.NewInvestmentService(),
			service.NewRefinanceService(),
			service.NewBuydownService(),
			logger,
		),
		Lead: NewLeadHandler(service.NewLeadService(leadEndpoint, time.Second, repo, logger), logger),
	}, limiter, logger)

	return testAPI{handler: handler, repo: repo}
}

func (a testAPI) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestPaymentHandler_OK(t *testing.T) {
	api := newTestAPI(t, "", 100)

	w := api.do(http.MethodPost, "/mortgage/payment", `{
		"amount": 240000,
		"interestRate": 4.5,
		"termYears": 30
	}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var result domain.LoanResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 1216.04, result.MonthlyPayment)
	assert.Len(t, api.repo.Quotes(), 1)
}

func TestPaymentHandler_MethodNotAllowed(t *testing.T) {
	api := newTestAPI(t, "", 100)

	w := api.do(http.MethodGet, "/mortgage/payment", "")

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, http.MethodPost, w.Header().Get("Allow"))
}

func TestPaymentHandler_BadRequest(t *testing.T) {
	api := newTestAPI(t, "", 100)

	w := api.do(http.MethodPost, "/mortgage/payment", `{invalid-json}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request body", decodeError(t, w).Message)

	w = api.do(http.MethodPost, "/mortgage/payment", `{"amount": 1000, "interestRate": 5, "termYears": 0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.ErrInvalidTerm.Error(), decodeError(t, w).Message)
}

func TestPaymentHandler_UnsupportedMediaType(t *testing.T) {
	api := newTestAPI(t, "", 100)

	req := httptest.NewRequest(http.MethodPost, "/mortgage/payment", bytes.NewBufferString(`amount=1`))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	api.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestAffordabilityHandler(t *testing.T) {
	api := newTestAPI(t, "", 100)

	w := api.do(http.MethodPost, "/mortgage/affordability", `{
		"annualIncome": 80000,
		"monthlyDebts": 500,
		"downPayment": 20000,
		"interestRate": 4.5,
		"termYears": 30,
		"propertyTaxRate": 1.2,
		"insuranceRate": 0.5,
		"program": "Conventional",
		"creditScore": 740
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result domain.AffordabilityResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Converged)
	assert.Equal(t, "front", result.LimitingRatio)
	assert.Greater(t, result.MaxHomePrice, 280000.0)

	w = api.do(http.MethodPost, "/mortgage/affordability", `{"annualIncome": 80000, "termYears": 30, "program": "jumbo"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMortgageInsuranceHandler(t *testing.T) {
	api := newTestAPI(t, "", 100)

	w := api.do(http.MethodPost, "/mortgage/mi", `{
		"program": "fha",
		"loanAmount": 289500,
		"homePrice": 300000,
		"creditScore": 640,
		"termYears": 30
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var quote domain.MIQuote
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quote))
	assert.Equal(t, domain.ProgramFHA, quote.Program)
	assert.Equal(t, 0.55, quote.AnnualPercent)
	assert.Equal(t, 132.69, quote.MonthlyMI)
	assert.Equal(t, 5066.25, quote.UpfrontPremium)
}

func TestProgramHandler(t *testing.T) {
	api := newTestAPI(t, "", 100)

	w := api.do(http.MethodGet, "/mortgage/programs/VA", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ProgramResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, domain.ProgramVA, resp.Program)
	assert.Equal(t, 41.0, resp.DTI.BackPercent)
	assert.False(t, resp.DTI.HasFrontCap())

	w = api.do(http.MethodGet, "/mortgage/programs/jumbo", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProgramsHandler(t *testing.T) {
	api := newTestAPI(t, "", 100)

	w := api.do(http.MethodGet, "/mortgage/programs", "")
	require.Equal(t, http.StatusOK, w.Code)

	var table domain.PolicyTable
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &table))
	assert.Len(t, table.Programs, 4)
	assert.Equal(t, 41.0, table.Programs[domain.ProgramVA].DTI.BackPercent)

	w = api.do(http.MethodPost, "/mortgage/programs", "{}")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestTermHandler(t *testing.T) {
	api := newTestAPI(t, "", 100)

	w := api.do(http.MethodPost, "/mortgage/terms", `{
		"amount": 300000,
		"interestRate": 6,
		"maxMonthlyPayment": 2500,
		"preference": "minimize_interest"
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result domain.TermRecommendationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 20, result.RecommendedTerm)

	w = api.do(http.MethodPost, "/mortgage/terms", `{"amount": 300000, "interestRate": 6, "maxMonthlyPayment": 100, "preference": "balanced"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalculatorHandlers(t *testing.T) {
	api := newTestAPI(t, "", 100)

	w := api.do(http.MethodPost, "/investment/metrics", `{
		"purchasePrice": 250000,
		"downPayment": 50000,
		"closingCosts": 5000,
		"interestRate": 6,
		"termYears": 30,
		"monthlyRent": 2200,
		"vacancyRate": 5,
		"annualOperatingExpenses": 6000
	}`)
	require.Equal(t, http.StatusOK, w.Code)
	var investment domain.InvestmentResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &investment))
	assert.Equal(t, 7.63, investment.CapRate)

	w = api.do(http.MethodPost, "/mortgage/refinance", `{
		"currentBalance": 300000,
		"currentRate": 7,
		"remainingTermMonths": 336,
		"newRate": 5.5,
		"newTermYears": 30,
		"closingCosts": 6000
	}`)
	require.Equal(t, http.StatusOK, w.Code)
	var refinance domain.RefinanceResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refinance))
	assert.Equal(t, 18, refinance.BreakEvenMonths)

	w = api.do(http.MethodPost, "/mortgage/buydown", `{"loanAmount": 400000, "noteRate": 7, "termYears": 30, "type": "5-4"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLeadHandler(t *testing.T) {
	upstreamStatus := http.StatusCreated
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(upstreamStatus)
	}))
	defer upstream.Close()

	api := newTestAPI(t, upstream.URL, 100)
	body := `{
		"publicId": "listing-7",
		"tenantName": "Sam Lee",
		"tenantEmail": "sam@example.com",
		"moveInDate": "2026-12-01",
		"monthlyBudget": 1800,
		"occupants": 1
	}`

	w := api.do(http.MethodPost, "/leads", body)
	require.Equal(t, http.StatusCreated, w.Code)
	var result domain.LeadResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, service.LeadDelivered, result.Status)

	upstreamStatus = http.StatusServiceUnavailable
	w = api.do(http.MethodPost, "/leads", body)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, service.ErrLeadRejected.Error(), decodeError(t, w).Message)

	w = api.do(http.MethodPost, "/leads", `{"publicId": "listing-7"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Len(t, api.repo.Leads(), 2)
}

func TestLeadHandler_NoEndpoint(t *testing.T) {
	api := newTestAPI(t, "", 100)

	w := api.do(http.MethodPost, "/leads", `{"publicId": "l", "tenantName": "A", "tenantEmail": "a@b.co"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouter_HealthAndNotFound(t *testing.T) {
	api := newTestAPI(t, "", 100)

	w := api.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = api.do(http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_RateLimited(t *testing.T) {
	api := newTestAPI(t, "", 2)

	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/health", "").Code)

	w := api.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "rate limit exceeded", decodeError(t, w).Message)
}

func TestRouter_RotatingForwardedForIsStillLimited(t *testing.T) {
	api := newTestAPI(t, "", 1)

	succeeded := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "203.0.113.9:5555"
		req.Header.Set("X-Forwarded-For", "10.0.0."+strconv.Itoa(i))
		w := httptest.NewRecorder()
		api.handler.ServeHTTP(w, req)
		if w.Code == http.StatusOK {
			succeeded++
		}
	}

	assert.Equal(t, 1, succeeded)
}
