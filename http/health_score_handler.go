package http

import (
	"net/http"
	"strconv"
	"time"

	"capstack/domain"
	"capstack/service"
)

// Pagination bounds for the history endpoint.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

type HealthScoreHandler struct {
	service *service.HealthScoreService
	metrics *Metrics
}

func NewHealthScoreHandler(service *service.HealthScoreService, metrics *Metrics) *HealthScoreHandler {
	return &HealthScoreHandler{service: service, metrics: metrics}
}

// profileRequest uses pointers so that an absent field can be told apart
// from an explicit zero.
type profileRequest struct {
	MonthlyIncome             *float64 `json:"monthlyIncome"`
	MonthlyExpenses           *float64 `json:"monthlyExpenses"`
	SavingsRate               *float64 `json:"savingsRate"`
	EmergencyFundMonths       *float64 `json:"emergencyFundMonths"`
	DebtToIncomeRatio         *float64 `json:"debtToIncomeRatio"`
	IncomeStability           *float64 `json:"incomeStability"`
	InvestmentDiversification *float64 `json:"investmentDiversification"`
}

func (p profileRequest) toProfile() (domain.FinancialProfile, error) {
	fields := []struct {
		name string
		ptr  *float64
	}{
		{"monthlyIncome", p.MonthlyIncome},
		{"monthlyExpenses", p.MonthlyExpenses},
		{"savingsRate", p.SavingsRate},
		{"emergencyFundMonths", p.EmergencyFundMonths},
		{"debtToIncomeRatio", p.DebtToIncomeRatio},
		{"incomeStability", p.IncomeStability},
		{"investmentDiversification", p.InvestmentDiversification},
	}
	for _, f := range fields {
		if f.ptr == nil {
			return domain.FinancialProfile{}, domain.Missing(f.name)
		}
	}

	return domain.FinancialProfile{
		MonthlyIncome:             *p.MonthlyIncome,
		MonthlyExpenses:           *p.MonthlyExpenses,
		SavingsRate:               *p.SavingsRate,
		EmergencyFundMonths:       *p.EmergencyFundMonths,
		DebtToIncomeRatio:         *p.DebtToIncomeRatio,
		IncomeStability:           *p.IncomeStability,
		InvestmentDiversification: *p.InvestmentDiversification,
	}, nil
}

type scoreResponse struct {
	ID string `json:"id"`
	domain.ScoreResult
	CreatedAt time.Time `json:"createdAt"`
}

func toScoreResponse(rec domain.ScoreRecord) scoreResponse {
	return scoreResponse{
		ID:          rec.ID,
		ScoreResult: rec.Result,
		CreatedAt:   rec.CreatedAt,
	}
}

type historyResponse struct {
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
	Records []scoreResponse `json:"records"`
}

// Evaluate handles POST /api/v1/health-score.
func (h *HealthScoreHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req profileRequest
	if !decodeOrReject(w, r, &req) {
		return
	}

	profile, err := req.toProfile()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	rec, err := h.service.Evaluate(r.Context(), profile)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.metrics.observeGrade(rec.Result.Grade)

	jsonResp(w, http.StatusOK, toScoreResponse(rec))
}

// History handles GET /api/v1/health-score/history?limit=&offset=.
func (h *HealthScoreHandler) History(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	limit, offset, err := parsePage(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	records, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := historyResponse{Limit: limit, Offset: offset, Records: make([]scoreResponse, 0, len(records))}
	for _, rec := range records {
		resp.Records = append(resp.Records, toScoreResponse(rec))
	}
	jsonResp(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/health-score/{id}.
func (h *HealthScoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	rec, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	jsonResp(w, http.StatusOK, toScoreResponse(rec))
}

func parsePage(r *http.Request) (limit, offset int, err error) {
	limit, offset = DefaultPageLimit, 0
	q := r.URL.Query()

	if v := q.Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil {
			return 0, 0, domain.WrongType("limit", "not an integer")
		}
		if limit < 1 || limit > MaxPageLimit {
			return 0, 0, domain.OutOfDomain("limit", "must be within [1, %d]", MaxPageLimit)
		}
	}
	if v := q.Get("offset"); v != "" {
		offset, err = strconv.Atoi(v)
		if err != nil {
			return 0, 0, domain.WrongType("offset", "not an integer")
		}
		if offset < 0 {
			return 0, 0, domain.OutOfDomain("offset", "must not be negative")
		}
	}
	return limit, offset, nil
}
