package exporter

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bcaldwell/ledgermetrics/pkg/config"
	"github.com/bcaldwell/ledgermetrics/pkg/ledgermetrics"
	influxdb "github.com/influxdata/influxdb/client/v2"
	"github.com/influxdata/influxdb/models"
	"k8s.io/klog"
)

const (
	influxPrecision  = "ms"
	influxValueField = "value"
)

// InfluxStore writes each metric as a measurement, labels become tags and the
// sample goes in the value field.
type InfluxStore struct {
	client   influxdb.Client
	database string
}

func CreateInfluxClient(secrets config.InfluxSecrets) (influxdb.Client, error) {
	return influxdb.NewHTTPClient(influxdb.HTTPConfig{
		Addr:     secrets.InfluxEndpoint,
		Username: secrets.InfluxUsername,
		Password: secrets.InfluxPassword,
	})
}

// NewInfluxStore returns a store for database. client may be nil when the
// store is only used to encode.
func NewInfluxStore(client influxdb.Client, database string) *InfluxStore {
	return &InfluxStore{client: client, database: database}
}

// Encode renders the series as line protocol, one point per line.
func (s *InfluxStore) Encode(name string, series ledgermetrics.Series) ([]byte, error) {
	tags := series.Labels.Map()
	lines := make([]string, 0, len(series.Samples))

	for _, sample := range series.Samples {
		v, err := sampleValue(sample)
		if err != nil {
			return nil, err
		}

		pt, err := influxdb.NewPoint(name, tags, map[string]interface{}{influxValueField: v}, time.UnixMilli(sample.Timestamp).UTC())
		if err != nil {
			return nil, fmt.Errorf("error creating point: %w", err)
		}
		lines = append(lines, pt.PrecisionString(influxPrecision))
	}

	return []byte(strings.Join(lines, "\n")), nil
}

func (s *InfluxStore) DeleteSeries(ctx context.Context, name string) error {
	return s.query(fmt.Sprintf("DROP SERIES FROM %s", quoteIdent(name)))
}

func (s *InfluxStore) Write(ctx context.Context, body []byte) error {
	points, err := models.ParsePointsWithPrecision(bytes.TrimSpace(body), time.Now().UTC(), influxPrecision)
	if err != nil {
		return fmt.Errorf("error parsing points: %w", err)
	}

	bp, err := influxdb.NewBatchPoints(influxdb.BatchPointsConfig{
		Database:  s.database,
		Precision: influxPrecision,
	})
	if err != nil {
		return fmt.Errorf("error creating InfluxDB point batch: %w", err)
	}

	for _, p := range points {
		bp.AddPoint(influxdb.NewPointFrom(p))
	}

	if err := s.client.Write(bp); err != nil {
		return fmt.Errorf("error writing to influx: %w", err)
	}
	return nil
}

// ResetCache is a no-op for influx.
func (s *InfluxStore) ResetCache(ctx context.Context) error {
	return nil
}

// EnsureDatabase creates the database if it is missing.
func (s *InfluxStore) EnsureDatabase() error {
	klog.Infof("Ensuring influx database %s exists", s.database)
	return s.query(fmt.Sprintf("CREATE DATABASE %s", quoteIdent(s.database)))
}

func (s *InfluxStore) query(command string) error {
	response, err := s.client.Query(influxdb.NewQuery(command, s.database, ""))
	if err != nil {
		return err
	}
	return response.Error()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `\"`) + `"`
}
