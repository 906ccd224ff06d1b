package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lamdec/cda-insights-go/internal/domain"
	"github.com/lamdec/cda-insights-go/internal/infra/observability"
	"github.com/lamdec/cda-insights-go/internal/service"
)

// --- Fixtures ---

// staticSource serves a fixed snapshot, standing in for the dataset store.
type staticSource struct {
	snap *domain.RecordSnapshot
}

func (s *staticSource) Snapshot() *domain.RecordSnapshot { return s.snap }

func sourceOf(records []domain.CDARecord) *staticSource {
	return &staticSource{snap: &domain.RecordSnapshot{
		ID:       "snap-test",
		LoadedAt: time.Now(),
		Records:  records,
	}}
}

// threeRecords is the canonical small dataset: saldos {100, 50, 10} with
// one record in each status.
func threeRecords() []domain.CDARecord {
	return []domain.CDARecord{
		{NumCDA: "CDA-001", Natureza: "IPTU", AgrupamentoSituacao: domain.SituacaoEmCobranca, Ano: 2020, QtdeAnosIdadeCDA: 5, ValorSaldoAtualizado: 100, Score: 0.9},
		{NumCDA: "CDA-002", Natureza: "ISS", AgrupamentoSituacao: domain.SituacaoCancelada, Ano: 2018, QtdeAnosIdadeCDA: 7, ValorSaldoAtualizado: 50, Score: 0.5},
		{NumCDA: "CDA-003", Natureza: "IPTU", AgrupamentoSituacao: domain.SituacaoQuitada, Ano: 2020, QtdeAnosIdadeCDA: 5, ValorSaldoAtualizado: 10, Score: 0.2},
	}
}

func newSearch(records []domain.CDARecord) *service.SearchService {
	return service.NewSearchService(sourceOf(records), observability.NewMetrics(), zap.NewNop())
}

func iptr(i int) *int         { return &i }
func fptr(f float64) *float64 { return &f }

// --- Filtering ---

func TestSearch_NoFilters(t *testing.T) {
	svc := newSearch(threeRecords())

	resp, err := svc.Search(context.Background(), &domain.SearchRequest{})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Total)
	assert.Len(t, resp.Items, 3)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, service.DefaultPageSize, resp.PageSize)
}

func TestSearch_ConjunctionOfDimensions(t *testing.T) {
	svc := newSearch(threeRecords())

	resp, err := svc.Search(context.Background(), &domain.SearchRequest{
		Natureza: []string{"IPTU"},
		Situacao: []string{"Em cobrança"},
	})
	require.NoError(t, err)

	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "CDA-001", resp.Items[0].NumCDA)
}

func TestSearch_FreeTextIsCaseInsensitiveSubstring(t *testing.T) {
	svc := newSearch(threeRecords())

	resp, err := svc.Search(context.Background(), &domain.SearchRequest{Q: "cda-00"})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Total)

	resp, err = svc.Search(context.Background(), &domain.SearchRequest{Q: "003"})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "CDA-003", resp.Items[0].NumCDA)
}

func TestSearch_SituacaoDualEncodingEquivalence(t *testing.T) {
	svc := newSearch(threeRecords())

	byLabel, err := svc.Search(context.Background(), &domain.SearchRequest{Situacao: []string{"Em cobrança"}})
	require.NoError(t, err)
	byCode, err := svc.Search(context.Background(), &domain.SearchRequest{Situacao: []string{"0"}})
	require.NoError(t, err)

	assert.Equal(t, byLabel.Items, byCode.Items)
	assert.Equal(t, byLabel.Total, byCode.Total)
}

func TestSearch_InvalidSituacaoTokenIgnored(t *testing.T) {
	svc := newSearch(threeRecords())

	resp, err := svc.Search(context.Background(), &domain.SearchRequest{
		Situacao: []string{"bogus", "1"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "CDA-003", resp.Items[0].NumCDA)
}

func TestSearch_AllSituacaoTokensInvalidMatchesNothing(t *testing.T) {
	svc := newSearch(threeRecords())

	resp, err := svc.Search(context.Background(), &domain.SearchRequest{
		Situacao: []string{"bogus"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Total)
	assert.Empty(t, resp.Items)
}

func TestSearch_RangeBoundsInclusive(t *testing.T) {
	svc := newSearch(threeRecords())

	resp, err := svc.Search(context.Background(), &domain.SearchRequest{
		MinSaldo: fptr(50),
		MaxSaldo: fptr(100),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)

	resp, err = svc.Search(context.Background(), &domain.SearchRequest{
		MinAno: iptr(2020),
		MaxAno: iptr(2020),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
}

func TestSearch_MinAboveMaxMatchesNothing(t *testing.T) {
	svc := newSearch(threeRecords())

	resp, err := svc.Search(context.Background(), &domain.SearchRequest{
		MinSaldo: fptr(100),
		MaxSaldo: fptr(50),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Total)
	assert.Empty(t, resp.Items)
}

func TestSearch_YearWithNoRecords(t *testing.T) {
	svc := newSearch(threeRecords())

	resp, err := svc.Search(context.Background(), &domain.SearchRequest{
		MinAno: iptr(2010),
		MaxAno: iptr(2010),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Total)
	assert.Empty(t, resp.Items)
}

// --- Sorting ---

func TestSearch_SortSaldoDescIsDefault(t *testing.T) {
	svc := newSearch(threeRecords())

	resp, err := svc.Search(context.Background(), &domain.SearchRequest{SortBy: "invalid", SortDir: "sideways"})
	require.NoError(t, err)

	require.Len(t, resp.Items, 3)
	assert.Equal(t, "CDA-001", resp.Items[0].NumCDA)
	assert.Equal(t, "CDA-002", resp.Items[1].NumCDA)
	assert.Equal(t, "CDA-003", resp.Items[2].NumCDA)
}

func TestSearch_SortScoreAsc(t *testing.T) {
	svc := newSearch(threeRecords())

	resp, err := svc.Search(context.Background(), &domain.SearchRequest{
		SortBy:  domain.SortByScore,
		SortDir: domain.SortAsc,
	})
	require.NoError(t, err)

	require.Len(t, resp.Items, 3)
	assert.Equal(t, "CDA-003", resp.Items[0].NumCDA)
	assert.Equal(t, "CDA-002", resp.Items[1].NumCDA)
	assert.Equal(t, "CDA-001", resp.Items[2].NumCDA)
}

func TestSearch_TieBreakByNumCDAAscending(t *testing.T) {
	records := []domain.CDARecord{
		{NumCDA: "CDA-B", Natureza: "IPTU", Ano: 2020, ValorSaldoAtualizado: 100, Score: 0.5},
		{NumCDA: "CDA-A", Natureza: "IPTU", Ano: 2020, ValorSaldoAtualizado: 100, Score: 0.5},
		{NumCDA: "CDA-C", Natureza: "IPTU", Ano: 2020, ValorSaldoAtualizado: 100, Score: 0.5},
	}
	svc := newSearch(records)

	for _, dir := range []string{domain.SortAsc, domain.SortDesc} {
		resp, err := svc.Search(context.Background(), &domain.SearchRequest{SortDir: dir})
		require.NoError(t, err)
		require.Len(t, resp.Items, 3)
		assert.Equal(t, "CDA-A", resp.Items[0].NumCDA, "dir=%s", dir)
		assert.Equal(t, "CDA-B", resp.Items[1].NumCDA, "dir=%s", dir)
		assert.Equal(t, "CDA-C", resp.Items[2].NumCDA, "dir=%s", dir)
	}
}

func TestSearch_Deterministic(t *testing.T) {
	svc := newSearch(threeRecords())
	req := func() *domain.SearchRequest {
		return &domain.SearchRequest{SortBy: domain.SortByAno, SortDir: domain.SortAsc}
	}

	first, err := svc.Search(context.Background(), req())
	require.NoError(t, err)
	second, err := svc.Search(context.Background(), req())
	require.NoError(t, err)

	assert.Equal(t, first.Items, second.Items)
}

// --- Pagination ---

func manyRecords(n int) []domain.CDARecord {
	records := make([]domain.CDARecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, domain.CDARecord{
			NumCDA:               fmt.Sprintf("CDA-%03d", i),
			Natureza:             "IPTU",
			AgrupamentoSituacao:  domain.SituacaoEmCobranca,
			Ano:                  2015 + i%5,
			ValorSaldoAtualizado: float64(1000 - i),
			Score:                float64(i) / 100,
		})
	}
	return records
}

func TestSearch_PageBeyondEnd(t *testing.T) {
	svc := newSearch(manyRecords(12))

	resp, err := svc.Search(context.Background(), &domain.SearchRequest{Page: 5, PageSize: 20})
	require.NoError(t, err)

	assert.Equal(t, 12, resp.Total)
	assert.Empty(t, resp.Items)
}

func TestSearch_PageLengthInvariant(t *testing.T) {
	svc := newSearch(manyRecords(45))

	for page := 1; page <= 4; page++ {
		resp, err := svc.Search(context.Background(), &domain.SearchRequest{Page: page, PageSize: 20})
		require.NoError(t, err)

		want := 45 - (page-1)*20
		if want > 20 {
			want = 20
		}
		if want < 0 {
			want = 0
		}
		assert.Len(t, resp.Items, want, "page=%d", page)
		assert.Equal(t, 45, resp.Total, "page=%d", page)
	}
}

func TestSearch_PagesDoNotOverlap(t *testing.T) {
	svc := newSearch(manyRecords(30))

	seen := make(map[string]bool)
	for page := 1; page <= 3; page++ {
		resp, err := svc.Search(context.Background(), &domain.SearchRequest{Page: page, PageSize: 10})
		require.NoError(t, err)
		for _, item := range resp.Items {
			assert.False(t, seen[item.NumCDA], "record %s appeared twice", item.NumCDA)
			seen[item.NumCDA] = true
		}
	}
	assert.Len(t, seen, 30)
}

func TestSearch_PageSizeClamped(t *testing.T) {
	svc := newSearch(manyRecords(10))

	resp, err := svc.Search(context.Background(), &domain.SearchRequest{Page: -3, PageSize: 9999})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, service.MaxPageSize, resp.PageSize)
	assert.Len(t, resp.Items, 10)
}

// Every returned item satisfies every present filter dimension.
func TestSearch_ItemsSatisfyAllFilters(t *testing.T) {
	svc := newSearch(manyRecords(50))

	resp, err := svc.Search(context.Background(), &domain.SearchRequest{
		Natureza: []string{"IPTU"},
		Situacao: []string{"0"},
		MinAno:   iptr(2016),
		MaxAno:   iptr(2018),
		MinSaldo: fptr(960),
	})
	require.NoError(t, err)

	for _, item := range resp.Items {
		assert.Equal(t, "IPTU", item.Natureza)
		assert.Equal(t, domain.SituacaoEmCobranca, item.AgrupamentoSituacao)
		assert.GreaterOrEqual(t, item.Ano, 2016)
		assert.LessOrEqual(t, item.Ano, 2018)
		assert.GreaterOrEqual(t, item.ValorSaldoAtualizado, 960.0)
	}
}
