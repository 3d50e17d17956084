package http

import (
	"net/http"

	"capstack/domain"
	"capstack/service"
)

type DebtExitHandler struct {
	service *service.DebtExitService
}

func NewDebtExitHandler(service *service.DebtExitService) *DebtExitHandler {
	return &DebtExitHandler{service: service}
}

func (h *DebtExitHandler) CalculateDebtExitPlan(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var input domain.DebtExitInput
	if !decodeOrReject(w, r, &input) {
		return
	}

	result, err := h.service.CalculateDebtExitPlan(r.Context(), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	jsonResp(w, http.StatusOK, result)
}
