package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/lamdec/cda-insights-go/internal/infra/observability"
	"github.com/lamdec/cda-insights-go/internal/service"
)

// ============================================================
// 2. Resumos
// ============================================================

func resumoHandler(svc *service.ResumoService, metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /resumo/{nome}")
		defer span.End()

		nome := chi.URLParam(r, "nome")

		table, err := svc.Get(ctx, nome)
		if err != nil {
			metrics.IncrRequest("error")
			handleServiceError(w, err, logger)
			return
		}

		metrics.IncrRequest("success")
		writeJSON(w, http.StatusOK, table)
	}
}
