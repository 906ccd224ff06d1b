package service

import (
	"strings"

	"github.com/lamdec/cda-insights-go/internal/domain"
)

// recordPredicate reports whether a record satisfies a search request.
type recordPredicate func(*domain.CDARecord) bool

// buildPredicate converts a normalized search request into one composite
// predicate: the logical AND of every present dimension. Dimensions without
// a constraint contribute no restriction.
//
// Situação tokens are normalized here, once, from either external encoding
// (numeric code or label) to the canonical code set. Unrecognized tokens
// are dropped; if the caller provided tokens and none survived, the
// dimension matches nothing rather than everything.
func buildPredicate(req *domain.SearchRequest) recordPredicate {
	q := strings.ToLower(strings.TrimSpace(req.Q))

	var naturezas map[string]bool
	if len(req.Natureza) > 0 {
		naturezas = make(map[string]bool, len(req.Natureza))
		for _, n := range req.Natureza {
			naturezas[n] = true
		}
	}

	var situacoes map[domain.Situacao]bool
	if len(req.Situacao) > 0 {
		situacoes = make(map[domain.Situacao]bool, len(req.Situacao))
		for _, s := range domain.NormalizeSituacoes(req.Situacao) {
			situacoes[s] = true
		}
	}

	return func(r *domain.CDARecord) bool {
		if q != "" && !strings.Contains(strings.ToLower(r.NumCDA), q) {
			return false
		}
		if naturezas != nil && !naturezas[r.Natureza] {
			return false
		}
		if situacoes != nil && !situacoes[r.AgrupamentoSituacao] {
			return false
		}
		if req.MinAno != nil && r.Ano < *req.MinAno {
			return false
		}
		if req.MaxAno != nil && r.Ano > *req.MaxAno {
			return false
		}
		if req.MinSaldo != nil && r.ValorSaldoAtualizado < *req.MinSaldo {
			return false
		}
		if req.MaxSaldo != nil && r.ValorSaldoAtualizado > *req.MaxSaldo {
			return false
		}
		if req.MinScore != nil && r.Score < *req.MinScore {
			return false
		}
		if req.MaxScore != nil && r.Score > *req.MaxScore {
			return false
		}
		return true
	}
}
