package domain

import (
	"strconv"
	"strings"
)

// ============================================================
// Situação
// ============================================================

// Situacao classifies a CDA by collection status. The numeric values are
// the codes used in the snapshot files (agrupamento_situacao).
type Situacao int

const (
	SituacaoCancelada  Situacao = -1
	SituacaoEmCobranca Situacao = 0
	SituacaoQuitada    Situacao = 1
)

var situacaoLabels = map[Situacao]string{
	SituacaoCancelada:  "Cancelada",
	SituacaoEmCobranca: "Em cobrança",
	SituacaoQuitada:    "Quitada",
}

// Label returns the human-readable name for the status.
func (s Situacao) Label() string {
	if l, ok := situacaoLabels[s]; ok {
		return l
	}
	return "Desconhecida"
}

// Valid reports whether s is one of the three defined codes.
func (s Situacao) Valid() bool {
	_, ok := situacaoLabels[s]
	return ok
}

// ParseSituacao resolves either external encoding of a status to the
// canonical tag: the numeric code ("-1", "0", "1") or the label
// ("Cancelada", "Em cobrança", "Quitada", case-insensitive).
func ParseSituacao(token string) (Situacao, bool) {
	token = strings.TrimSpace(token)
	if n, err := strconv.Atoi(token); err == nil {
		s := Situacao(n)
		return s, s.Valid()
	}
	for s, label := range situacaoLabels {
		if strings.EqualFold(token, label) {
			return s, true
		}
	}
	return 0, false
}

// NormalizeSituacoes maps a mixed list of codes and labels to the canonical
// code set. Unrecognized tokens are dropped; the remaining valid tokens
// still apply.
func NormalizeSituacoes(tokens []string) []Situacao {
	seen := make(map[Situacao]bool, len(tokens))
	out := make([]Situacao, 0, len(tokens))
	for _, t := range tokens {
		s, ok := ParseSituacao(t)
		if !ok || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// ============================================================
// CDA record
// ============================================================

// CDARecord is one tax-debt certificate as loaded from the snapshot.
// Records are immutable after load.
type CDARecord struct {
	NumCDA               string   `json:"numCDA"`
	Natureza             string   `json:"natureza"`
	AgrupamentoSituacao  Situacao `json:"agrupamento_situacao"`
	Ano                  int      `json:"ano"`
	QtdeAnosIdadeCDA     int      `json:"qtde_anos_idade_cda"`
	ValorSaldoAtualizado float64  `json:"valor_saldo_atualizado"`
	Score                float64  `json:"score"`
}

// SituacaoLabel returns the human-readable status of the record.
func (r *CDARecord) SituacaoLabel() string {
	return r.AgrupamentoSituacao.Label()
}

// ============================================================
// Search
// ============================================================

// Sort field / direction enums accepted by /cda/search.
const (
	SortBySaldo = "saldo"
	SortByAno   = "ano"
	SortByScore = "score"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// SearchRequest is a normalized search over the snapshot. Nil pointer
// bounds and empty slices mean "no constraint on that dimension".
// Situacao carries the raw tokens (codes or labels); normalization to the
// canonical code set happens once, in the predicate builder.
type SearchRequest struct {
	Q        string
	Natureza []string
	Situacao []string

	MinAno   *int
	MaxAno   *int
	MinSaldo *float64
	MaxSaldo *float64
	MinScore *float64
	MaxScore *float64

	SortBy  string
	SortDir string

	Page     int
	PageSize int
}

// SearchResponse is the /cda/search envelope.
type SearchResponse struct {
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Items    []CDARecord `json:"items"`
}

// ============================================================
// Summary tables (resumo)
// ============================================================

// YearCount is one row of a year-bucketed time series. Years inside the
// observed range with no matching records still appear with Quantidade 0.
type YearCount struct {
	Ano        int `json:"ano"`
	Quantidade int `json:"Quantidade"`
}

// NaturezaCount is one pie slice: record count per natureza.
type NaturezaCount struct {
	Name       string `json:"name"`
	Quantidade int    `json:"Quantidade"`
}

// NaturezaSaldo is one pie slice: total saldo per natureza.
type NaturezaSaldo struct {
	Name  string  `json:"name"`
	Saldo float64 `json:"Saldo"`
}

// ParetoRow is one sample of the debt-concentration curve: the key
// "Percentual" holds the cumulative record-count percentile, every other
// key is a natureza holding its cumulative saldo share (0..100) at that
// percentile.
type ParetoRow map[string]float64

// DistribuicaoRow holds, for one natureza, the share of its records in
// each status as a percentage of that natureza's own total. The three
// percentages sum to 100 per row.
type DistribuicaoRow struct {
	Name       string  `json:"name"`
	EmCobranca float64 `json:"Em cobrança"`
	Cancelada  float64 `json:"Cancelada"`
	Quitada    float64 `json:"Quitada"`
}

// KpiResponse is the envelope for single-scalar KPI endpoints.
type KpiResponse struct {
	Total int `json:"total"`
}
