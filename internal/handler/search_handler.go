package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/lamdec/cda-insights-go/internal/infra/observability"
	"github.com/lamdec/cda-insights-go/internal/service"
)

// ============================================================
// 1. Busca de CDAs
// ============================================================

func searchHandler(svc *service.SearchService, metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /cda/search")
		defer span.End()

		req := parseSearchRequest(r)

		resp, err := svc.Search(ctx, req)
		if err != nil {
			metrics.IncrRequest("error")
			handleServiceError(w, err, logger)
			return
		}

		metrics.IncrRequest("success")
		writeJSON(w, http.StatusOK, resp)
	}
}
