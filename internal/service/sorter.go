package service

import (
	"sort"

	"github.com/lamdec/cda-insights-go/internal/domain"
)

// sortRecords orders the filtered records in place by the requested field
// and direction. Unknown sort_by falls back to saldo, unknown sort_dir to
// desc. Ties always break by numCDA ascending, regardless of direction, so
// identical requests paginate identically.
func sortRecords(records []domain.CDARecord, sortBy, sortDir string) {
	asc := sortDir == domain.SortAsc

	var key func(*domain.CDARecord) float64
	switch sortBy {
	case domain.SortByAno:
		key = func(r *domain.CDARecord) float64 { return float64(r.Ano) }
	case domain.SortByScore:
		key = func(r *domain.CDARecord) float64 { return r.Score }
	default:
		key = func(r *domain.CDARecord) float64 { return r.ValorSaldoAtualizado }
	}

	sort.Slice(records, func(i, j int) bool {
		ki, kj := key(&records[i]), key(&records[j])
		if ki != kj {
			if asc {
				return ki < kj
			}
			return ki > kj
		}
		return records[i].NumCDA < records[j].NumCDA
	})
}
