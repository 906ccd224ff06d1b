package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/lamdec/cda-insights-go/internal/domain"
	"github.com/lamdec/cda-insights-go/internal/infra/observability"
	"github.com/lamdec/cda-insights-go/internal/port"
)

// Summary table names served by /resumo/{nome}.
const (
	ResumoInscricoes           = "inscricoes"
	ResumoInscricoesCanceladas = "inscricoes_canceladas"
	ResumoInscricoesQuitadas   = "inscricoes_quitadas"
	ResumoMontanteAcumulado    = "montante_acumulado"
	ResumoQuantidadeCDAs       = "quantidade_cdas"
	ResumoSaldoCDAs            = "saldo_cdas"
	ResumoDistribuicaoCDAs     = "distribuicao_cdas"
)

// resumoNames lists every table, in the order used for cache warmup.
var resumoNames = []string{
	ResumoInscricoes,
	ResumoInscricoesCanceladas,
	ResumoInscricoesQuitadas,
	ResumoMontanteAcumulado,
	ResumoQuantidadeCDAs,
	ResumoSaldoCDAs,
	ResumoDistribuicaoCDAs,
}

// ResumoService computes the seven summary tables. Every table is a pure
// function of the snapshot, so results are cached per (snapshot, table) and
// concurrent computations of the same table are deduplicated.
type ResumoService struct {
	source  port.RecordSource
	cache   port.Cache[any]
	group   singleflight.Group
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewResumoService creates the summary service with all dependencies injected.
func NewResumoService(source port.RecordSource, cache port.Cache[any], metrics *observability.Metrics, logger *zap.Logger) *ResumoService {
	return &ResumoService{
		source:  source,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}
}

// Get returns the named summary table for the current snapshot.
func (s *ResumoService) Get(ctx context.Context, nome string) (any, error) {
	_, span := tracer.Start(ctx, "ResumoService.Get")
	defer span.End()
	span.SetAttributes(attribute.String("resumo.nome", nome))

	if !validResumo(nome) {
		return nil, &domain.ErrNotFound{Resource: "resumo", ID: nome}
	}

	snap := s.source.Snapshot()
	if snap == nil {
		return nil, &domain.ErrSnapshotUnavailable{Path: "in-memory"}
	}

	key := snap.ID + ":" + nome
	if v, ok := s.cache.Get(key); ok {
		s.metrics.IncrCacheHit("resumo")
		return v, nil
	}
	s.metrics.IncrCacheMiss("resumo")

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("resumo", time.Since(start))
	}()

	v, err, _ := s.group.Do(key, func() (any, error) {
		// A concurrent caller may have filled the cache while we waited.
		if v, ok := s.cache.Get(key); ok {
			return v, nil
		}
		v := computeResumo(nome, snap.Records)
		s.cache.Set(key, v)
		return v, nil
	})
	return v, err
}

// Warm precomputes every table for a freshly published snapshot so the
// first dashboard render after a (re)load never pays the computation.
func (s *ResumoService) Warm(ctx context.Context, snap *domain.RecordSnapshot) {
	start := time.Now()

	g, _ := errgroup.WithContext(ctx)
	for _, nome := range resumoNames {
		nome := nome
		g.Go(func() error {
			s.cache.Set(snap.ID+":"+nome, computeResumo(nome, snap.Records))
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Info("summary tables warmed",
		zap.String("snapshot_id", snap.ID),
		zap.Duration("took", time.Since(start)),
	)
}

func validResumo(nome string) bool {
	for _, n := range resumoNames {
		if n == nome {
			return true
		}
	}
	return false
}

// computeResumo dispatches to the pure table computations in aggregate.go.
func computeResumo(nome string, records []domain.CDARecord) any {
	switch nome {
	case ResumoInscricoes:
		return yearSeries(records, nil)
	case ResumoInscricoesCanceladas:
		return yearSeries(records, func(r *domain.CDARecord) bool {
			return r.AgrupamentoSituacao == domain.SituacaoCancelada
		})
	case ResumoInscricoesQuitadas:
		return yearSeries(records, func(r *domain.CDARecord) bool {
			return r.AgrupamentoSituacao == domain.SituacaoQuitada
		})
	case ResumoMontanteAcumulado:
		return paretoCurve(records)
	case ResumoQuantidadeCDAs:
		return quantidadePorNatureza(records)
	case ResumoSaldoCDAs:
		return saldoPorNatureza(records)
	case ResumoDistribuicaoCDAs:
		return distribuicaoPorNatureza(records)
	}
	return nil
}
