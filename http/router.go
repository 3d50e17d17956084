package http

import (
	"net/http"

	"capstack/service"
)

// Services bundles everything the router dispatches to.
type Services struct {
	HealthScore        *service.HealthScoreService
	Loan               *service.LoanService
	TermRecommendation *service.TermRecommendationService
	DebtExit           *service.DebtExitService
	Retirement         *service.RetirementService
	EmergencyFund      *service.EmergencyFundService
}

// NewRouter registers every route. Calculation endpoints are rate limited;
// reads, metrics and the liveness probe are not.
func NewRouter(svc Services, limiter *RateLimiter) http.Handler {
	metrics := NewMetrics()
	healthScore := NewHealthScoreHandler(svc.HealthScore, metrics)
	loan := NewLoanHandler(svc.Loan)
	term := NewTermRecommendationHandler(svc.TermRecommendation)
	debt := NewDebtExitHandler(svc.DebtExit)
	planning := NewPlanningHandler(svc.Retirement, svc.EmergencyFund)

	limited := func(h http.HandlerFunc) http.Handler {
		return RateLimitMiddleware(limiter, h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		jsonResp(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("/metrics", metrics)

	mux.Handle("/api/v1/health-score", limited(healthScore.Evaluate))
	mux.HandleFunc("/api/v1/health-score/history", healthScore.History)
	mux.HandleFunc("/api/v1/health-score/{id}", healthScore.Get)

	mux.Handle("/loan/calculate", limited(loan.CalculateLoan))
	mux.Handle("/loan/recommend-term", limited(term.RecommendTerm))
	mux.Handle("/loan/debt-exit-plan", limited(debt.CalculateDebtExitPlan))

	mux.Handle("/api/v1/retirement/projection", limited(planning.RetirementProjection))
	mux.Handle("/api/v1/emergency-fund/status", limited(planning.EmergencyFundStatus))

	return RequestLogger(metrics.Instrument(Gzip(mux)))
}
