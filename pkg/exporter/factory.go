package exporter

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bcaldwell/ledgermetrics/pkg/config"
	"github.com/bcaldwell/ledgermetrics/pkg/postgresutils"
)

// NewStore builds the configured backend. A dry run store only needs to
// encode, so nothing is connected and no secrets are required.
func NewStore(ctx context.Context, conf *config.ExportConfig, secrets *config.Secrets, dryRun bool) (Store, error) {
	switch conf.Backend {
	case config.BackendVictoriaMetrics:
		if !dryRun && secrets.VictoriaMetrics.URI == "" {
			return nil, fmt.Errorf("VICTORIAMETRICS_URI is required")
		}
		return NewVictoriaMetricsStore(secrets.VictoriaMetrics.URI, http.DefaultClient), nil

	case config.BackendPromscale:
		if !dryRun && secrets.Promscale.URI == "" {
			return nil, fmt.Errorf("PROMSCALE_URI is required")
		}
		return NewPromscaleStore(secrets.Promscale.URI, http.DefaultClient), nil

	case config.BackendInflux:
		if conf.Influx.Database == "" {
			return nil, fmt.Errorf("export.influx.database is required")
		}
		if dryRun {
			return NewInfluxStore(nil, conf.Influx.Database), nil
		}

		client, err := CreateInfluxClient(secrets.Influx)
		if err != nil {
			return nil, fmt.Errorf("Error creating InfluxDB Client: %w", err)
		}
		store := NewInfluxStore(client, conf.Influx.Database)
		if err := store.EnsureDatabase(); err != nil {
			return nil, fmt.Errorf("failed to create influx database: %w", err)
		}
		return store, nil

	case config.BackendPostgres:
		if dryRun {
			return NewPostgresStore(nil, conf.Postgres.Table, conf.Postgres.BatchSize), nil
		}

		db, err := postgresutils.CreatePostgresClient(conf.Postgres.Database)
		if err != nil {
			return nil, fmt.Errorf("Error connecting to postgres DB: %w", err)
		}
		store := NewPostgresStore(db, conf.Postgres.Table, conf.Postgres.BatchSize)
		if err := store.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("failed to create %s table: %w", conf.Postgres.Table, err)
		}
		return store, nil
	}

	return nil, fmt.Errorf("unknown export backend %q", conf.Backend)
}
