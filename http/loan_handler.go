package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"loan-cost/domain"
	"loan-cost/repository"
	"loan-cost/service"
)

type LoanHandler struct {
	service *service.LoanService
	log     zerolog.Logger
}

func NewLoanHandler(service *service.LoanService, log zerolog.Logger) *LoanHandler {
	return &LoanHandler{
		service: service,
		log:     log.With().Str("component", "loan_handler").Logger(),
	}
}

// CalculateCost accepts a JSON body on POST, or the same fields as query
// parameters on GET (amount, rate, duration, unit, fees, insurance).
func (h *LoanHandler) CalculateCost(w http.ResponseWriter, r *http.Request) {
	var input domain.LoanRequest

	switch r.Method {
	case http.MethodPost:
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.log.Debug().Err(err).Msg("Error decoding request body")
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
	case http.MethodGet:
		parsed, err := loanRequestFromQuery(r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		input = parsed
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	record, err := h.service.CalculateCost(r.Context(), input)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, newCalculationResponse(record))
}

func (h *LoanHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	records, err := h.service.History(r.Context(), limit)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	out := make([]CalculationResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, newCalculationResponse(rec))
	}
	writeJSON(w, h.log, http.StatusOK, out)
}

func (h *LoanHandler) GetCalculation(w http.ResponseWriter, r *http.Request) {
	record, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, newCalculationResponse(record))
}

func (h *LoanHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case service.IsValidationError(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, repository.ErrNotFound):
		http.Error(w, "calculation not found", http.StatusNotFound)
	default:
		h.log.Error().Err(err).Msg("Request failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func loanRequestFromQuery(q url.Values) (domain.LoanRequest, error) {
	var (
		req  domain.LoanRequest
		errs []error
	)

	parseFloat := func(key string, dst *float64, required bool) {
		raw := q.Get(key)
		if raw == "" {
			if required {
				errs = append(errs, fmt.Errorf("missing %s", key))
			}
			return
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s %q", key, raw))
			return
		}
		*dst = v
	}

	parseFloat("amount", &req.Amount, true)
	parseFloat("rate", &req.AnnualRatePercent, true)
	parseFloat("fees", &req.InitialFees, false)
	parseFloat("insurance", &req.InsuranceCost, false)

	if raw := q.Get("duration"); raw == "" {
		errs = append(errs, errors.New("missing duration"))
	} else if d, err := strconv.Atoi(raw); err != nil {
		errs = append(errs, fmt.Errorf("invalid duration %q", raw))
	} else {
		req.Duration = d
	}
	req.DurationUnit = q.Get("unit")

	return req, errors.Join(errs...)
}

// LoanRequestQuery renders req as the query string CalculateCost accepts on GET.
func LoanRequestQuery(req domain.LoanRequest) url.Values {
	q := url.Values{}
	q.Set("amount", strconv.FormatFloat(req.Amount, 'g', -1, 64))
	q.Set("rate", strconv.FormatFloat(req.AnnualRatePercent, 'g', -1, 64))
	q.Set("duration", strconv.Itoa(req.Duration))
	if req.DurationUnit != "" {
		q.Set("unit", req.DurationUnit)
	}
	if req.InitialFees != 0 {
		q.Set("fees", strconv.FormatFloat(req.InitialFees, 'g', -1, 64))
	}
	if req.InsuranceCost != 0 {
		q.Set("insurance", strconv.FormatFloat(req.InsuranceCost, 'g', -1, 64))
	}
	return q
}
