package service

import (
	"math"
	"sort"

	"github.com/lamdec/cda-insights-go/internal/domain"
)

// ParetoBuckets is the fixed resolution of the montante_acumulado curve:
// 100 cumulative-count buckets of 1% each. Keeping it constant across loads
// keeps exported charts comparable.
const ParetoBuckets = 100

// yearSeries counts records per ano, restricted to keep (nil = all).
// It emits one row per year across the min..max range observed in the FULL
// collection, zero-filled, so the three inscricoes series share an x-axis;
// the consuming layer trims leading all-zero rows.
func yearSeries(records []domain.CDARecord, keep recordPredicate) []domain.YearCount {
	if len(records) == 0 {
		return []domain.YearCount{}
	}

	minAno, maxAno := records[0].Ano, records[0].Ano
	counts := make(map[int]int)
	for i := range records {
		r := &records[i]
		if r.Ano < minAno {
			minAno = r.Ano
		}
		if r.Ano > maxAno {
			maxAno = r.Ano
		}
		if keep == nil || keep(r) {
			counts[r.Ano]++
		}
	}

	rows := make([]domain.YearCount, 0, maxAno-minAno+1)
	for ano := minAno; ano <= maxAno; ano++ {
		rows = append(rows, domain.YearCount{Ano: ano, Quantidade: counts[ano]})
	}
	return rows
}

// quantidadePorNatureza counts records per natureza, one row per category
// present in the data, ordered by name.
func quantidadePorNatureza(records []domain.CDARecord) []domain.NaturezaCount {
	counts := make(map[string]int)
	for i := range records {
		counts[records[i].Natureza]++
	}

	rows := make([]domain.NaturezaCount, 0, len(counts))
	for name, n := range counts {
		rows = append(rows, domain.NaturezaCount{Name: name, Quantidade: n})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows
}

// saldoPorNatureza sums valor_saldo_atualizado per natureza, one row per
// category present in the data, ordered by name.
func saldoPorNatureza(records []domain.CDARecord) []domain.NaturezaSaldo {
	sums := make(map[string]float64)
	for i := range records {
		sums[records[i].Natureza] += records[i].ValorSaldoAtualizado
	}

	rows := make([]domain.NaturezaSaldo, 0, len(sums))
	for name, s := range sums {
		rows = append(rows, domain.NaturezaSaldo{Name: name, Saldo: round2(s)})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows
}

// paretoCurve walks the records from largest to smallest saldo and samples,
// at every 1% of cumulative record count, the share of each natureza's
// total saldo accumulated so far. The last row always reads 100 for every
// category with a non-zero total.
func paretoCurve(records []domain.CDARecord) []domain.ParetoRow {
	n := len(records)
	if n == 0 {
		return []domain.ParetoRow{}
	}

	sorted := make([]domain.CDARecord, n)
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ValorSaldoAtualizado != sorted[j].ValorSaldoAtualizado {
			return sorted[i].ValorSaldoAtualizado > sorted[j].ValorSaldoAtualizado
		}
		return sorted[i].NumCDA < sorted[j].NumCDA
	})

	totals := make(map[string]float64)
	for i := range sorted {
		totals[sorted[i].Natureza] += sorted[i].ValorSaldoAtualizado
	}
	naturezas := make([]string, 0, len(totals))
	for name := range totals {
		naturezas = append(naturezas, name)
	}
	sort.Strings(naturezas)

	cum := make(map[string]float64, len(totals))
	rows := make([]domain.ParetoRow, 0, ParetoBuckets)
	idx := 0
	for b := 1; b <= ParetoBuckets; b++ {
		limit := b * n / ParetoBuckets
		for idx < limit {
			cum[sorted[idx].Natureza] += sorted[idx].ValorSaldoAtualizado
			idx++
		}

		row := domain.ParetoRow{"Percentual": float64(b)}
		for _, name := range naturezas {
			share := 0.0
			if totals[name] > 0 {
				share = cum[name] / totals[name] * 100
			}
			row[name] = round2(share)
		}
		rows = append(rows, row)
	}
	return rows
}

// distribuicaoPorNatureza computes, per natureza, the percentage of its own
// records in each status. Each row sums to 100 within rounding epsilon.
func distribuicaoPorNatureza(records []domain.CDARecord) []domain.DistribuicaoRow {
	type tally struct {
		total, cancelada, emCobranca, quitada int
	}
	tallies := make(map[string]*tally)
	for i := range records {
		r := &records[i]
		t := tallies[r.Natureza]
		if t == nil {
			t = &tally{}
			tallies[r.Natureza] = t
		}
		t.total++
		switch r.AgrupamentoSituacao {
		case domain.SituacaoCancelada:
			t.cancelada++
		case domain.SituacaoEmCobranca:
			t.emCobranca++
		case domain.SituacaoQuitada:
			t.quitada++
		}
	}

	rows := make([]domain.DistribuicaoRow, 0, len(tallies))
	for name, t := range tallies {
		rows = append(rows, domain.DistribuicaoRow{
			Name:       name,
			EmCobranca: pct(t.emCobranca, t.total),
			Cancelada:  pct(t.cancelada, t.total),
			Quitada:    pct(t.quitada, t.total),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows
}

func pct(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(part) / float64(total) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
