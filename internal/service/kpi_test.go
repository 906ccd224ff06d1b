package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lamdec/cda-insights-go/internal/domain"
	"github.com/lamdec/cda-insights-go/internal/service"
)

func TestKpi_VolumeEmCobranca(t *testing.T) {
	// Saldos {100, 50, 10} with codes {0, -1, 1}: exactly one in collection.
	svc := service.NewKpiService(sourceOf(threeRecords()), zap.NewNop())

	total, err := svc.VolumeEmCobranca(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestKpi_VolumeEmCobrancaEmptyDataset(t *testing.T) {
	svc := service.NewKpiService(sourceOf(nil), zap.NewNop())

	total, err := svc.VolumeEmCobranca(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestKpi_IndependentOfOtherAttributes(t *testing.T) {
	records := []domain.CDARecord{
		{NumCDA: "A", Natureza: "IPTU", AgrupamentoSituacao: domain.SituacaoEmCobranca, Ano: 2010, ValorSaldoAtualizado: 1},
		{NumCDA: "B", Natureza: "ISS", AgrupamentoSituacao: domain.SituacaoEmCobranca, Ano: 2024, ValorSaldoAtualizado: 99999},
		{NumCDA: "C", Natureza: "Multa", AgrupamentoSituacao: domain.SituacaoQuitada, Ano: 2024, ValorSaldoAtualizado: 5},
	}
	svc := service.NewKpiService(sourceOf(records), zap.NewNop())

	total, err := svc.VolumeEmCobranca(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}
