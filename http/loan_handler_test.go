package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-cost/calculator"
	"loan-cost/domain"
	"loan-cost/repository"
	"loan-cost/service"
)

type testServer struct {
	handler http.Handler
	loan    *LoanHandler
	limiter *RateLimiter
}

func newTestServer(t *testing.T, engine *calculator.Engine, capacity int) testServer {
	t.Helper()
	return newTestServerWithProxy(t, engine, capacity, false)
}

func newTestServerWithProxy(t *testing.T, engine *calculator.Engine, capacity int, trustProxy bool) testServer {
	t.Helper()

	log := zerolog.Nop()
	loanService := service.NewLoanService(repository.NewLoanRepositoryMemory(), repository.NewMockCache(), engine, log)
	loanHandler := NewLoanHandler(loanService, log)
	termHandler := NewTermRecommendationHandler(service.NewTermRecommendationService(loanService), log)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := newRateLimiter(capacity, time.Minute, func() time.Time { return now })

	return testServer{
		handler: NewRouter(RouterConfig{
			Log:                       log,
			LoanHandler:               loanHandler,
			TermRecommendationHandler: termHandler,
			RateLimiter:               limiter,
			TrustProxy:                trustProxy,
		}),
		loan:    loanHandler,
		limiter: limiter,
	}
}

func decodeCalculation(t *testing.T, body *bytes.Buffer) CalculationResponse {
	t.Helper()
	var out CalculationResponse
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

const mortgageBody = `{
	"amount": 200000,
	"annual_rate_percent": 3.5,
	"duration": 20,
	"duration_unit": "years",
	"initial_fees": 2500,
	"insurance_cost": 10000
}`

func TestCalculateCostHandler_OK(t *testing.T) {
	srv := newTestServer(t, nil, 10)

	req := httptest.NewRequest(http.MethodPost, "/loan/cost", bytes.NewBufferString(mortgageBody))
	w := httptest.NewRecorder()

	srv.loan.CalculateCost(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	out := decodeCalculation(t, w.Body)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, 240, out.Terms.Periods)
	assert.InDelta(t, 1159.92, out.Breakdown.PeriodicInstallmentWithoutInsurance, 0.005)
	require.NotNil(t, out.Breakdown.EffectiveAnnualRate)
	assert.InDelta(t, 0.041217, *out.Breakdown.EffectiveAnnualRate, 1e-6)
	assert.True(t, out.Breakdown.EffectiveRateAvailable)
}

func TestCalculateCostHandler_UnavailableRateIsNull(t *testing.T) {
	srv := newTestServer(t, calculator.New(calculator.Config{MaxIterations: 1}), 10)

	req := httptest.NewRequest(http.MethodPost, "/loan/cost", bytes.NewBufferString(mortgageBody))
	w := httptest.NewRecorder()

	srv.loan.CalculateCost(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"effective_annual_rate":null`)
	assert.Contains(t, w.Body.String(), `"effective_insurance_annual_rate":null`)
	assert.Contains(t, w.Body.String(), `"effective_rate_available":false`)
	assert.NotContains(t, w.Body.String(), "NaN")
}

func TestCalculateCostHandler_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, nil, 10)

	req := httptest.NewRequest(http.MethodDelete, "/loan/cost", nil)
	w := httptest.NewRecorder()

	srv.loan.CalculateCost(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCalculateCostHandler_BadRequest(t *testing.T) {
	srv := newTestServer(t, nil, 10)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{invalid-json}`},
		{"zero amount", `{"amount": 0, "annual_rate_percent": 3, "duration": 12}`},
		{"bad unit", `{"amount": 1000, "annual_rate_percent": 3, "duration": 12, "duration_unit": "weeks"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/loan/cost", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			srv.loan.CalculateCost(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestCalculateCostHandler_QueryRoundTrip(t *testing.T) {
	srv := newTestServer(t, nil, 10)

	var body domain.LoanRequest
	require.NoError(t, json.Unmarshal([]byte(mortgageBody), &body))

	req := httptest.NewRequest(http.MethodGet, "/loan/cost?"+LoanRequestQuery(body).Encode(), nil)
	w := httptest.NewRecorder()
	srv.handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	out := decodeCalculation(t, w.Body)
	assert.Equal(t, 200_000.0, out.Terms.Principal)
	assert.Equal(t, 240, out.Terms.Periods)
	assert.Equal(t, 2500.0, out.Terms.InitialFees)
	assert.Equal(t, 10_000.0, out.Terms.InsuranceCost)
}

func TestCalculateCostHandler_QueryErrors(t *testing.T) {
	srv := newTestServer(t, nil, 10)

	for _, query := range []string{
		"",
		"amount=1000&rate=3",
		"amount=abc&rate=3&duration=12",
		"amount=1000&rate=3&duration=1.5",
	} {
		req := httptest.NewRequest(http.MethodGet, "/loan/cost?"+query, nil)
		w := httptest.NewRecorder()
		srv.handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "query %q", query)
	}
}

func TestHistoryRoutes(t *testing.T) {
	srv := newTestServer(t, nil, 10)

	req := httptest.NewRequest(http.MethodPost, "/loan/cost", bytes.NewBufferString(mortgageBody))
	w := httptest.NewRecorder()
	srv.handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	created := decodeCalculation(t, w.Body)

	w = httptest.NewRecorder()
	srv.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/loan/history?limit=5", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var history []CalculationResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&history))
	require.Len(t, history, 1)
	assert.Equal(t, created.ID, history[0].ID)

	w = httptest.NewRecorder()
	srv.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/loan/history/"+created.ID, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.ID, decodeCalculation(t, w.Body).ID)

	w = httptest.NewRecorder()
	srv.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/loan/history/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	srv.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/loan/history?limit=-1", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_HealthAndMethods(t *testing.T) {
	srv := newTestServer(t, nil, 10)

	w := httptest.NewRecorder()
	srv.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	srv.handler.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/loan/cost", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRouter_RateLimited(t *testing.T) {
	srv := newTestServer(t, nil, 2)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/loan/cost", bytes.NewBufferString(mortgageBody))
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		srv.handler.ServeHTTP(w, req)
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests {
			assert.Equal(t, "60", w.Header().Get("Retry-After"))
		}
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// History is not rate limited.
	req := httptest.NewRequest(http.MethodGet, "/loan/history", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	srv.handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_RateLimitIgnoresSpoofedHeaders(t *testing.T) {
	srv := newTestServer(t, nil, 1)

	codes := make([]int, 0, 3)
	for _, spoofed := range []string{"1.1.1.1", "1.1.1.2", "1.1.1.3"} {
		req := httptest.NewRequest(http.MethodPost, "/loan/cost", bytes.NewBufferString(mortgageBody))
		req.RemoteAddr = "10.0.0.1:1234"
		req.Header.Set("X-Real-IP", spoofed)
		req.Header.Set("X-Forwarded-For", spoofed)
		w := httptest.NewRecorder()
		srv.handler.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}

func TestRouter_RateLimitBehindTrustedProxy(t *testing.T) {
	srv := newTestServerWithProxy(t, nil, 1, true)

	send := func(clientIP string) int {
		req := httptest.NewRequest(http.MethodPost, "/loan/cost", bytes.NewBufferString(mortgageBody))
		req.RemoteAddr = "10.0.0.254:443" // the proxy
		req.Header.Set("X-Real-IP", clientIP)
		w := httptest.NewRecorder()
		srv.handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("203.0.113.1"))
	assert.Equal(t, http.StatusOK, send("203.0.113.2"))
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.1"))
}
