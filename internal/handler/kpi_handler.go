package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/lamdec/cda-insights-go/internal/domain"
	"github.com/lamdec/cda-insights-go/internal/infra/observability"
	"github.com/lamdec/cda-insights-go/internal/service"
)

// ============================================================
// 3. KPIs
// ============================================================

func kpiVolumeEmCobrancaHandler(svc *service.KpiService, metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /kpis/volume_em_cobranca")
		defer span.End()

		total, err := svc.VolumeEmCobranca(ctx)
		if err != nil {
			metrics.IncrRequest("error")
			handleServiceError(w, err, logger)
			return
		}

		metrics.IncrRequest("success")
		writeJSON(w, http.StatusOK, domain.KpiResponse{Total: total})
	}
}
