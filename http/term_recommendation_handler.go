package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"loan-cost/domain"
	"loan-cost/service"
)

type TermRecommendationHandler struct {
	service *service.TermRecommendationService
	log     zerolog.Logger
}

func NewTermRecommendationHandler(service *service.TermRecommendationService, log zerolog.Logger) *TermRecommendationHandler {
	return &TermRecommendationHandler{
		service: service,
		log:     log.With().Str("component", "term_recommendation_handler").Logger(),
	}
}

func (h *TermRecommendationHandler) RecommendTerm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return
	}

	var input domain.TermRecommendationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.log.Debug().Err(err).Msg("Error decoding request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.RecommendTerm(r.Context(), input)
	if err != nil {
		if service.IsValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.log.Error().Err(err).Msg("Error recommending term")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, h.log, http.StatusOK, newTermRecommendationResultResponse(result))
}
