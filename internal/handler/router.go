package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/lamdec/cda-insights-go/internal/domain"
	"github.com/lamdec/cda-insights-go/internal/infra/observability"
	"github.com/lamdec/cda-insights-go/internal/port"
	"github.com/lamdec/cda-insights-go/internal/service"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
// Routes mirror the API contract consumed by the dashboard frontend.
func NewRouter(
	searchSvc *service.SearchService,
	resumoSvc *service.ResumoService,
	kpiSvc *service.KpiService,
	source port.RecordSource,
	metrics *observability.Metrics,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	// --- Operational endpoints ---
	r.Get("/", rootHandler())
	r.Get("/healthz", healthzHandler(source))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// =============================================
	// 1. 🔎 Busca de CDAs
	// GET /cda/search
	// =============================================
	r.Get("/cda/search", searchHandler(searchSvc, metrics, logger))

	// =============================================
	// 2. 📊 Resumos (tabelas do dashboard)
	// GET /resumo/{nome}
	// =============================================
	r.Get("/resumo/{nome}", resumoHandler(resumoSvc, metrics, logger))

	// =============================================
	// 3. 📈 KPIs
	// GET /kpis/volume_em_cobranca
	// =============================================
	r.Get("/kpis/volume_em_cobranca", kpiVolumeEmCobrancaHandler(kpiSvc, metrics, logger))

	// =============================================
	// 4. Métricas internas
	// GET /v1/metrics/engine
	// =============================================
	r.Get("/v1/metrics/engine", engineMetricsHandler(metrics))

	return r
}

// ============================================================
// Probes & health
// ============================================================

// rootHandler answers the bare liveness probe dashboards poll.
func rootHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func healthzHandler(source port.RecordSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := domain.HealthStatus{Status: "healthy"}
		if snap := source.Snapshot(); snap != nil {
			status.Snapshot = snap.Info()
		} else {
			status.Status = "degraded"
		}
		writeJSON(w, http.StatusOK, status)
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func engineMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetEngineSnapshot())
	}
}
