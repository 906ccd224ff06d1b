package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lamdec/cda-insights-go/internal/domain"
)

// CDAFileName is the snapshot file read from the data directory.
const CDAFileName = "cdas.json"

// rawRecord mirrors CDARecord with pointer fields so missing keys can be
// told apart from zero values during validation.
type rawRecord struct {
	NumCDA               *string  `json:"numCDA"`
	Natureza             *string  `json:"natureza"`
	AgrupamentoSituacao  *int     `json:"agrupamento_situacao"`
	Ano                  *int     `json:"ano"`
	QtdeAnosIdadeCDA     *int     `json:"qtde_anos_idade_cda"`
	ValorSaldoAtualizado *float64 `json:"valor_saldo_atualizado"`
	Score                *float64 `json:"score"`
}

// Loader reads and validates the CDA snapshot file.
type Loader struct {
	dir           string
	referenceYear int
	logger        *zap.Logger
}

// NewLoader creates a loader for the given data directory. referenceYear
// anchors the ano derivation for files that only carry the CDA age;
// 0 means the current year.
func NewLoader(dir string, referenceYear int, logger *zap.Logger) *Loader {
	if referenceYear == 0 {
		referenceYear = time.Now().Year()
	}
	return &Loader{dir: dir, referenceYear: referenceYear, logger: logger}
}

// Load reads cdas.json and builds a fully-formed snapshot. Malformed
// records are rejected here so no downstream computation ever sees a null
// field. Record order in the snapshot equals file order.
func (l *Loader) Load() (*domain.RecordSnapshot, error) {
	path := filepath.Join(l.dir, CDAFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &domain.ErrSnapshotUnavailable{Path: path}
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var raw []rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	records := make([]domain.CDARecord, 0, len(raw))
	rejected := 0
	for i, r := range raw {
		rec, err := l.validate(r)
		if err != nil {
			rejected++
			l.logger.Warn("rejecting malformed record",
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		records = append(records, rec)
	}

	snap := &domain.RecordSnapshot{
		ID:       uuid.NewString(),
		LoadedAt: time.Now(),
		Records:  records,
	}

	l.logger.Info("snapshot loaded",
		zap.String("snapshot_id", snap.ID),
		zap.Int("records", len(records)),
		zap.Int("rejected", rejected),
		zap.String("path", path),
	)
	return snap, nil
}

// validate checks the required fields and derives ano when the file only
// carries the age of the CDA.
func (l *Loader) validate(r rawRecord) (domain.CDARecord, error) {
	var zero domain.CDARecord

	if r.NumCDA == nil || *r.NumCDA == "" {
		return zero, &domain.ErrDataIntegrity{NumCDA: "?", Field: "numCDA"}
	}
	num := *r.NumCDA

	if r.Natureza == nil || *r.Natureza == "" {
		return zero, &domain.ErrDataIntegrity{NumCDA: num, Field: "natureza"}
	}
	if r.AgrupamentoSituacao == nil || !domain.Situacao(*r.AgrupamentoSituacao).Valid() {
		return zero, &domain.ErrDataIntegrity{NumCDA: num, Field: "agrupamento_situacao"}
	}
	if r.ValorSaldoAtualizado == nil || *r.ValorSaldoAtualizado < 0 {
		return zero, &domain.ErrDataIntegrity{NumCDA: num, Field: "valor_saldo_atualizado"}
	}
	if r.Score == nil {
		return zero, &domain.ErrDataIntegrity{NumCDA: num, Field: "score"}
	}
	if r.Ano == nil && r.QtdeAnosIdadeCDA == nil {
		return zero, &domain.ErrDataIntegrity{NumCDA: num, Field: "ano"}
	}

	idade := 0
	if r.QtdeAnosIdadeCDA != nil {
		if *r.QtdeAnosIdadeCDA < 0 {
			return zero, &domain.ErrDataIntegrity{NumCDA: num, Field: "qtde_anos_idade_cda"}
		}
		idade = *r.QtdeAnosIdadeCDA
	}

	ano := 0
	switch {
	case r.Ano != nil:
		ano = *r.Ano
		if r.QtdeAnosIdadeCDA == nil {
			idade = l.referenceYear - ano
		}
	default:
		ano = l.referenceYear - idade
	}

	return domain.CDARecord{
		NumCDA:               num,
		Natureza:             *r.Natureza,
		AgrupamentoSituacao:  domain.Situacao(*r.AgrupamentoSituacao),
		Ano:                  ano,
		QtdeAnosIdadeCDA:     idade,
		ValorSaldoAtualizado: *r.ValorSaldoAtualizado,
		Score:                *r.Score,
	}, nil
}
