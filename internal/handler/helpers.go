package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/lamdec/cda-insights-go/internal/domain"
)

// ============================================================
// Shared helper functions
// ============================================================

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// multiValues merges the two external encodings of a repeatable query
// param, plain-repeated (?natureza=a&natureza=b) and bracket-suffixed
// (?natureza[]=a, the axios array serialization), into one set before
// the services ever see it.
func multiValues(q url.Values, key string) []string {
	values := append([]string{}, q[key]...)
	values = append(values, q[key+"[]"]...)

	out := values[:0]
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// intParam parses an optional integer query param. Unparsable values are
// treated as absent, never as a request failure.
func intParam(q url.Values, key string) *int {
	v := q.Get(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

// floatParam parses an optional numeric query param, same policy as intParam.
func floatParam(q url.Values, key string) *float64 {
	v := q.Get(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

func intOrDefault(q url.Values, key string, fallback int) int {
	if p := intParam(q, key); p != nil {
		return *p
	}
	return fallback
}

// parseSearchRequest normalizes the /cda/search query string into the
// request the core consumes.
func parseSearchRequest(r *http.Request) *domain.SearchRequest {
	q := r.URL.Query()

	return &domain.SearchRequest{
		Q:        q.Get("q"),
		Natureza: multiValues(q, "natureza"),
		Situacao: multiValues(q, "situacao"),

		MinAno:   intParam(q, "min_ano"),
		MaxAno:   intParam(q, "max_ano"),
		MinSaldo: floatParam(q, "min_saldo"),
		MaxSaldo: floatParam(q, "max_saldo"),
		MinScore: floatParam(q, "min_score"),
		MaxScore: floatParam(q, "max_score"),

		SortBy:  q.Get("sort_by"),
		SortDir: q.Get("sort_dir"),

		Page:     intOrDefault(q, "page", 1),
		PageSize: intOrDefault(q, "page_size", 0),
	}
}

// handleServiceError maps domain errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var notFound *domain.ErrNotFound
	var validation *domain.ErrValidation
	var integrity *domain.ErrDataIntegrity
	var unavailable *domain.ErrSnapshotUnavailable

	switch {
	case errors.As(err, &notFound):
		logger.Debug("not found", zap.String("error", err.Error()))
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &validation):
		logger.Debug("validation error", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &integrity):
		logger.Error("data integrity fault", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
	case errors.As(err, &unavailable):
		logger.Error("snapshot unavailable", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
