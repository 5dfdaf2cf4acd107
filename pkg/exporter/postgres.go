package exporter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bcaldwell/ledgermetrics/pkg/ledgermetrics"
	"github.com/bcaldwell/ledgermetrics/pkg/postgresutils"
	"github.com/uptrace/bun"
	"k8s.io/klog"
)

type SQLSample struct {
	bun.BaseModel `bun:"table:ledger_samples"`
	ID            int64             `bun:",pk,autoincrement" json:"-"`
	Key           string            `bun:",unique" json:"key"`
	Metric        string            `json:"metric"`
	Labels        map[string]string `bun:"type:jsonb" json:"labels"`
	Timestamp     time.Time         `json:"timestamp"`
	Value         float64           `json:"value"`
}

// PostgresStore keeps every sample as a row of one table.
type PostgresStore struct {
	db        *bun.DB
	table     string
	batchSize int
}

// NewPostgresStore returns a store writing to table. db may be nil when the
// store is only used to encode.
func NewPostgresStore(db *bun.DB, table string, batchSize int) *PostgresStore {
	if batchSize <= 0 {
		batchSize = 1000
	}
	return &PostgresStore{db: db, table: table, batchSize: batchSize}
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.NewCreateTable().Model((*SQLSample)(nil)).ModelTableExpr(s.table).IfNotExists().Exec(ctx)
	return err
}

// Encode returns the rows as a json array.
func (s *PostgresStore) Encode(name string, series ledgermetrics.Series) ([]byte, error) {
	rows := make([]SQLSample, 0, len(series.Samples))
	labels := series.Labels.Map()

	for _, sample := range series.Samples {
		v, err := sampleValue(sample)
		if err != nil {
			return nil, err
		}

		rows = append(rows, SQLSample{
			Key:       fmt.Sprintf("%s%s::%d", name, series.Labels, sample.Timestamp),
			Metric:    name,
			Labels:    labels,
			Timestamp: time.UnixMilli(sample.Timestamp).UTC(),
			Value:     v,
		})
	}

	return json.Marshal(rows)
}

func (s *PostgresStore) DeleteSeries(ctx context.Context, name string) error {
	_, err := s.db.NewDelete().
		Model((*SQLSample)(nil)).
		ModelTableExpr(s.table).
		Where("metric = ?", name).
		Exec(ctx)
	return err
}

func (s *PostgresStore) Write(ctx context.Context, body []byte) error {
	model := (*SQLSample)(nil)

	var rows []SQLSample
	if err := json.Unmarshal(body, &rows); err != nil {
		return fmt.Errorf("error decoding rows: %w", err)
	}

	for i := 0; i < len(rows); i += s.batchSize {
		records := rows[i:min(len(rows), i+s.batchSize)]
		_, err := s.db.NewInsert().
			Model(&records).
			ModelTableExpr(s.table).
			On("CONFLICT (key) DO UPDATE").
			Set(postgresutils.TableSetString(s.db, model, "id", "key")).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("error writing samples to sql: %w", err)
		}
	}

	klog.Infof("Wrote %d samples to %s", len(rows), s.table)
	return nil
}

// ResetCache is a no-op for postgres.
func (s *PostgresStore) ResetCache(ctx context.Context) error {
	return nil
}
