package http

import (
	"mime"
	"net/http"

	"capstack/domain"
	"capstack/service"
)

type TermRecommendationHandler struct {
	service *service.TermRecommendationService
}

func NewTermRecommendationHandler(service *service.TermRecommendationService) *TermRecommendationHandler {
	return &TermRecommendationHandler{service: service}
}

func (h *TermRecommendationHandler) RecommendTerm(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	if mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || mediaType != "application/json" {
		jsonErr(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var input domain.TermRecommendationInput
	if !decodeOrReject(w, r, &input) {
		return
	}

	result, err := h.service.RecommendTerm(r.Context(), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	jsonResp(w, http.StatusOK, result)
}
