package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/lamdec/cda-insights-go/internal/domain"
	"github.com/lamdec/cda-insights-go/internal/infra/observability"
	"github.com/lamdec/cda-insights-go/internal/port"
)

var tracer = otel.Tracer("service/search")

// Pagination bounds for /cda/search.
const (
	DefaultPageSize = 20
	MaxPageSize     = 500
)

// SearchService answers searches over the current snapshot. Filtering
// always runs before sorting, and sorting before pagination.
type SearchService struct {
	source  port.RecordSource
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewSearchService creates the search service with all dependencies injected.
func NewSearchService(source port.RecordSource, metrics *observability.Metrics, logger *zap.Logger) *SearchService {
	return &SearchService{
		source:  source,
		metrics: metrics,
		logger:  logger,
	}
}

// Search runs one search request against the current snapshot.
func (s *SearchService) Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error) {
	_, span := tracer.Start(ctx, "SearchService.Search")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("search", time.Since(start))
	}()

	snap := s.source.Snapshot()
	if snap == nil {
		return nil, &domain.ErrSnapshotUnavailable{Path: "in-memory"}
	}
	normalizeSearchRequest(req)

	pred := buildPredicate(req)
	filtered := make([]domain.CDARecord, 0, len(snap.Records)/4)
	for i := range snap.Records {
		if pred(&snap.Records[i]) {
			filtered = append(filtered, snap.Records[i])
		}
	}

	sortRecords(filtered, req.SortBy, req.SortDir)
	items, total := paginate(filtered, req.Page, req.PageSize)

	span.SetAttributes(
		attribute.Int("search.total", total),
		attribute.Int("search.page", req.Page),
	)

	return &domain.SearchResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    items,
	}, nil
}

// normalizeSearchRequest clamps paging and applies the saldo/desc defaults
// for unknown sort parameters. Out-of-range values never fail a request.
func normalizeSearchRequest(req *domain.SearchRequest) {
	switch req.SortBy {
	case domain.SortBySaldo, domain.SortByAno, domain.SortByScore:
	default:
		req.SortBy = domain.SortBySaldo
	}
	switch req.SortDir {
	case domain.SortAsc, domain.SortDesc:
	default:
		req.SortDir = domain.SortDesc
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = DefaultPageSize
	}
	if req.PageSize > MaxPageSize {
		req.PageSize = MaxPageSize
	}
}
