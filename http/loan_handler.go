package http

import (
	"net/http"

	"capstack/domain"
	"capstack/service"
)

type LoanHandler struct {
	service *service.LoanService
}

func NewLoanHandler(service *service.LoanService) *LoanHandler {
	return &LoanHandler{service: service}
}

func (h *LoanHandler) CalculateLoan(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var input domain.LoanInput
	if !decodeOrReject(w, r, &input) {
		return
	}

	result, err := h.service.CalculateLoan(r.Context(), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	jsonResp(w, http.StatusOK, result)
}
