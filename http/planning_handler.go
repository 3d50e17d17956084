package http

import (
	"net/http"

	"capstack/domain"
	"capstack/service"
)

// PlanningHandler serves the retirement and emergency fund calculators.
type PlanningHandler struct {
	retirement    *service.RetirementService
	emergencyFund *service.EmergencyFundService
}

func NewPlanningHandler(
	retirement *service.RetirementService,
	emergencyFund *service.EmergencyFundService,
) *PlanningHandler {
	return &PlanningHandler{retirement: retirement, emergencyFund: emergencyFund}
}

func (h *PlanningHandler) RetirementProjection(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var input domain.RetirementInput
	if !decodeOrReject(w, r, &input) {
		return
	}

	result, err := h.retirement.Project(r.Context(), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	jsonResp(w, http.StatusOK, result)
}

func (h *PlanningHandler) EmergencyFundStatus(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var input domain.EmergencyFundInput
	if !decodeOrReject(w, r, &input) {
		return
	}

	result, err := h.emergencyFund.Status(r.Context(), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	jsonResp(w, http.StatusOK, result)
}
