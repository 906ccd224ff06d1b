package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/lamdec/cda-insights-go/internal/domain"
	"github.com/lamdec/cda-insights-go/internal/port"
)

// KpiService computes single-scalar operational metrics. KPIs are derived
// straight from the snapshot on every call, independent of the summary
// cache, so they stay authoritative even if the breakdown tables are later
// pre-aggregated differently.
type KpiService struct {
	source port.RecordSource
	logger *zap.Logger
}

// NewKpiService creates the KPI service.
func NewKpiService(source port.RecordSource, logger *zap.Logger) *KpiService {
	return &KpiService{source: source, logger: logger}
}

// VolumeEmCobranca counts records currently in collection
// (agrupamento_situacao == 0), independent of natureza or any filter.
func (s *KpiService) VolumeEmCobranca(ctx context.Context) (int, error) {
	_, span := tracer.Start(ctx, "KpiService.VolumeEmCobranca")
	defer span.End()

	snap := s.source.Snapshot()
	if snap == nil {
		return 0, &domain.ErrSnapshotUnavailable{Path: "in-memory"}
	}

	total := 0
	for i := range snap.Records {
		if snap.Records[i].AgrupamentoSituacao == domain.SituacaoEmCobranca {
			total++
		}
	}
	return total, nil
}
