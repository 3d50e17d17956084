package http

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"capstack/domain"
	"capstack/repository"
	"capstack/service"
)

// --- test helpers -----------------------------------------------------------

func newTestRouter(t *testing.T, capacity int) http.Handler {
	t.Helper()
	limiter := NewRateLimiter(capacity, time.Minute)
	t.Cleanup(limiter.Stop)

	advisor := service.NewAdvisor()
	return NewRouter(Services{
		HealthScore:        service.NewHealthScoreService(repository.NewScoreRepositoryMemory(), repository.NewMemoryCache(time.Minute)),
		Loan:               service.NewLoanService(repository.NewLoanRepositoryMemory()),
		TermRecommendation: service.NewTermRecommendationService(advisor),
		DebtExit:           service.NewDebtExitService(advisor),
		Retirement:         service.NewRetirementService(),
		EmergencyFund:      service.NewEmergencyFundService(),
	}, limiter)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode JSON: %v (body: %s)", err, rr.Body.String())
	}
}

const strongProfileJSON = `{
	"monthlyIncome": 10000,
	"monthlyExpenses": 4000,
	"savingsRate": 0.6,
	"emergencyFundMonths": 12,
	"debtToIncomeRatio": 0.1,
	"incomeStability": 0.9,
	"investmentDiversification": 0.8
}`

// --- /api/v1/health-score ---------------------------------------------------

func TestHealthScore_Evaluate(t *testing.T) {
	h := newTestRouter(t, 100)
	rr := do(t, h, http.MethodPost, "/api/v1/health-score", strongProfileJSON)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (%s)", rr.Code, rr.Body.String())
	}

	var resp map[string]any
	decode(t, rr, &resp)

	if resp["totalScore"].(float64) != 93 {
		t.Errorf("totalScore: got %v, want 93", resp["totalScore"])
	}
	if resp["grade"] != "A" {
		t.Errorf("grade: got %v, want A", resp["grade"])
	}
	if resp["id"] == "" {
		t.Error("expected a record id")
	}
	if _, ok := resp["componentScores"].(map[string]any); !ok {
		t.Errorf("componentScores missing: %v", resp)
	}
}

func TestHealthScore_MissingField(t *testing.T) {
	h := newTestRouter(t, 100)
	rr := do(t, h, http.MethodPost, "/api/v1/health-score",
		`{"monthlyIncome": 5000, "monthlyExpenses": 3000, "savingsRate": 0.1,
		  "emergencyFundMonths": 2, "debtToIncomeRatio": 0.2, "incomeStability": 0.5}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
	var resp errorResponse
	decode(t, rr, &resp)
	if resp.Field != "investmentDiversification" || resp.Reason != domain.ReasonMissing {
		t.Errorf("got field=%q reason=%q", resp.Field, resp.Reason)
	}
}

func TestHealthScore_WrongType(t *testing.T) {
	h := newTestRouter(t, 100)
	body := strings.Replace(strongProfileJSON, `"savingsRate": 0.6`, `"savingsRate": "lots"`, 1)
	rr := do(t, h, http.MethodPost, "/api/v1/health-score", body)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
	var resp errorResponse
	decode(t, rr, &resp)
	if resp.Field != "savingsRate" || resp.Reason != domain.ReasonWrongType {
		t.Errorf("got field=%q reason=%q", resp.Field, resp.Reason)
	}
}

func TestHealthScore_OutOfDomain(t *testing.T) {
	h := newTestRouter(t, 100)
	body := strings.Replace(strongProfileJSON, `"monthlyIncome": 10000`, `"monthlyIncome": -10`, 1)
	rr := do(t, h, http.MethodPost, "/api/v1/health-score", body)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
	var resp errorResponse
	decode(t, rr, &resp)
	if resp.Field != "monthlyIncome" || resp.Reason != domain.ReasonOutOfDomain {
		t.Errorf("got field=%q reason=%q", resp.Field, resp.Reason)
	}
}

func TestHealthScore_MethodNotAllowed(t *testing.T) {
	h := newTestRouter(t, 100)
	rr := do(t, h, http.MethodGet, "/api/v1/health-score", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d, want 405", rr.Code)
	}
}

func TestHealthScore_HistoryAndGet(t *testing.T) {
	h := newTestRouter(t, 100)

	var ids []string
	for i := 0; i < 3; i++ {
		rr := do(t, h, http.MethodPost, "/api/v1/health-score", strongProfileJSON)
		if rr.Code != http.StatusOK {
			t.Fatalf("evaluate %d: status %d", i, rr.Code)
		}
		var resp struct {
			ID string `json:"id"`
		}
		decode(t, rr, &resp)
		ids = append(ids, resp.ID)
	}

	rr := do(t, h, http.MethodGet, "/api/v1/health-score/history?limit=2", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("history status: got %d", rr.Code)
	}
	var hist struct {
		Limit   int `json:"limit"`
		Records []struct {
			ID    string `json:"id"`
			Grade string `json:"grade"`
		} `json:"records"`
	}
	decode(t, rr, &hist)
	if hist.Limit != 2 || len(hist.Records) != 2 {
		t.Errorf("expected 2 of 3 records with limit 2, got limit=%d len=%d", hist.Limit, len(hist.Records))
	}

	rr = do(t, h, http.MethodGet, "/api/v1/health-score/"+ids[1], "")
	if rr.Code != http.StatusOK {
		t.Fatalf("get status: got %d", rr.Code)
	}
	var one struct {
		ID string `json:"id"`
	}
	decode(t, rr, &one)
	if one.ID != ids[1] {
		t.Errorf("id: got %q, want %q", one.ID, ids[1])
	}
}

func TestHealthScore_GetUnknown(t *testing.T) {
	h := newTestRouter(t, 100)
	rr := do(t, h, http.MethodGet, "/api/v1/health-score/does-not-exist", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
}

func TestHealthScore_HistoryBadPaging(t *testing.T) {
	h := newTestRouter(t, 100)
	for _, q := range []string{"limit=0", "limit=500", "limit=abc", "offset=-1"} {
		rr := do(t, h, http.MethodGet, "/api/v1/health-score/history?"+q, "")
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", q, rr.Code)
		}
	}
}

// --- calculators ------------------------------------------------------------

func TestRecommendTerm_RequiresJSON(t *testing.T) {
	h := newTestRouter(t, 100)
	req := httptest.NewRequest(http.MethodPost, "/loan/recommend-term", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnsupportedMediaType {
		t.Errorf("status: got %d, want 415", rr.Code)
	}
}

func TestRecommendTerm_NoFeasibleTerm(t *testing.T) {
	h := newTestRouter(t, 100)
	rr := do(t, h, http.MethodPost, "/loan/recommend-term",
		`{"amount": 10000, "interestRate": 12, "minTermMonths": 12, "maxTermMonths": 24,
		  "maxMonthlyPayment": 5, "preference": "balanced"}`)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("status: got %d, want 422", rr.Code)
	}
}

func TestDebtExitPlan_OK(t *testing.T) {
	h := newTestRouter(t, 100)
	rr := do(t, h, http.MethodPost, "/loan/debt-exit-plan",
		`{"debts": [{"name": "card", "amount": 1000, "interestRate": 0, "minimumPayment": 100}],
		  "availableMonthlyPayment": 200, "strategy": "snowball"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d (%s)", rr.Code, rr.Body.String())
	}
	var resp struct {
		MonthsToPayoff int `json:"monthsToPayoff"`
	}
	decode(t, rr, &resp)
	if resp.MonthsToPayoff != 5 {
		t.Errorf("monthsToPayoff: got %d, want 5", resp.MonthsToPayoff)
	}
}

func TestPlanningEndpoints(t *testing.T) {
	h := newTestRouter(t, 100)

	rr := do(t, h, http.MethodPost, "/api/v1/retirement/projection",
		`{"currentAge": 30, "retirementAge": 31, "monthlyContribution": 100}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("retirement status: got %d (%s)", rr.Code, rr.Body.String())
	}

	rr = do(t, h, http.MethodPost, "/api/v1/emergency-fund/status",
		`{"monthlyExpenses": 1000, "liquidSavings": 500}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("emergency fund status: got %d", rr.Code)
	}
	var fund struct {
		Status string `json:"status"`
	}
	decode(t, rr, &fund)
	if fund.Status != domain.FundCritical {
		t.Errorf("status: got %q, want %q", fund.Status, domain.FundCritical)
	}

	for _, tc := range []struct{ path, body string }{
		{"/api/v1/retirement/projection",
			`{"currentAge": 0, "retirementAge": 119, "currentSavings": 1, "monthlyContribution": 1, "annualReturnRate": 1000}`},
		{"/api/v1/retirement/projection",
			`{"currentAge": 0, "retirementAge": 119, "currentSavings": 1e300, "annualReturnRate": 100}`},
		{"/api/v1/emergency-fund/status",
			`{"monthlyExpenses": 1e300, "liquidSavings": 1, "targetMonths": 1e10}`},
	} {
		rr = do(t, h, http.MethodPost, tc.path, tc.body)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s %s: got %d, want 400 (%s)", tc.path, tc.body, rr.Code, rr.Body.String())
		}
	}
}

// --- middleware -------------------------------------------------------------

func TestRouter_RateLimitsCalculations(t *testing.T) {
	h := newTestRouter(t, 2)

	for i := 0; i < 2; i++ {
		if rr := do(t, h, http.MethodPost, "/api/v1/health-score", strongProfileJSON); rr.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i, rr.Code)
		}
	}
	if rr := do(t, h, http.MethodPost, "/api/v1/health-score", strongProfileJSON); rr.Code != http.StatusTooManyRequests {
		t.Errorf("third request: status %d, want 429", rr.Code)
	}

	// Reads are not limited.
	if rr := do(t, h, http.MethodGet, "/api/v1/health-score/history", ""); rr.Code != http.StatusOK {
		t.Errorf("history after limit: status %d, want 200", rr.Code)
	}
}

func TestRouter_Gzip(t *testing.T) {
	h := newTestRouter(t, 100)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/health-score", bytes.NewBufferString(strongProfileJSON))
	req.Header.Set("Accept-Encoding", "gzip")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip encoding, headers: %v", rr.Header())
	}
	zr, err := gzip.NewReader(rr.Body)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	var resp map[string]any
	if err := json.NewDecoder(zr).Decode(&resp); err != nil {
		t.Fatalf("decode gzip body: %v", err)
	}
	if resp["grade"] != "A" {
		t.Errorf("grade: got %v, want A", resp["grade"])
	}
}

func TestRouter_Healthz(t *testing.T) {
	h := newTestRouter(t, 1)
	rr := do(t, h, http.MethodGet, "/healthz", "")
	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rr.Code)
	}
}
