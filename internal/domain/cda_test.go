package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lamdec/cda-insights-go/internal/domain"
)

func TestParseSituacao(t *testing.T) {
	tests := []struct {
		token string
		want  domain.Situacao
		ok    bool
	}{
		{"-1", domain.SituacaoCancelada, true},
		{"0", domain.SituacaoEmCobranca, true},
		{"1", domain.SituacaoQuitada, true},
		{" 1 ", domain.SituacaoQuitada, true},
		{"Cancelada", domain.SituacaoCancelada, true},
		{"cancelada", domain.SituacaoCancelada, true},
		{"Em cobrança", domain.SituacaoEmCobranca, true},
		{"EM COBRANÇA", domain.SituacaoEmCobranca, true},
		{"Quitada", domain.SituacaoQuitada, true},
		{"2", 0, false},
		{"-2", 0, false},
		{"pendente", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := domain.ParseSituacao(tt.token)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNormalizeSituacoes(t *testing.T) {
	// Mixed encodings in one request merge into one code set.
	got := domain.NormalizeSituacoes([]string{"Cancelada", "0", "1"})
	assert.Equal(t, []domain.Situacao{
		domain.SituacaoCancelada,
		domain.SituacaoEmCobranca,
		domain.SituacaoQuitada,
	}, got)

	// Duplicates across encodings collapse.
	got = domain.NormalizeSituacoes([]string{"-1", "Cancelada"})
	assert.Equal(t, []domain.Situacao{domain.SituacaoCancelada}, got)

	// Unrecognized tokens are dropped, valid ones still apply.
	got = domain.NormalizeSituacoes([]string{"bogus", "Quitada"})
	assert.Equal(t, []domain.Situacao{domain.SituacaoQuitada}, got)

	// Nothing valid left.
	assert.Empty(t, domain.NormalizeSituacoes([]string{"bogus", "99"}))
}

func TestSituacaoLabel(t *testing.T) {
	assert.Equal(t, "Cancelada", domain.SituacaoCancelada.Label())
	assert.Equal(t, "Em cobrança", domain.SituacaoEmCobranca.Label())
	assert.Equal(t, "Quitada", domain.SituacaoQuitada.Label())
	assert.Equal(t, "Desconhecida", domain.Situacao(99).Label())
}
