package exporter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bcaldwell/ledgermetrics/pkg/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcaldwell/ledgermetrics/pkg/ledgermetrics"
)

// fakeInflux answers the query and write endpoints the way influxdb does.
func fakeInflux(t *testing.T) (*httptest.Server, *[]string, *[]string) {
	var mu sync.Mutex
	queries := []string{}
	writes := []string{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()

		switch r.URL.Path {
		case "/query":
			queries = append(queries, r.FormValue("q"))
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Influxdb-Version", "1.12.1")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"results":[{"statement_id":0}]}`))
		case "/write":
			body, _ := io.ReadAll(r.Body)
			assert.Equal(t, "ledger", r.URL.Query().Get("db"))
			writes = append(writes, string(body))
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	return server, &queries, &writes
}

func TestInfluxEncode(t *testing.T) {
	store := NewInfluxStore(nil, "ledger")

	body, err := store.Encode("hledger_balance", testMetrics()[0].Series[0])
	require.NoError(t, err)

	assert.Equal(t, "hledger_balance,account=assets,currency=GBP value=100 1672531200000\n"+
		"hledger_balance,account=assets,currency=GBP value=70.5 1672617600000", string(body))
}

func TestInfluxExport(t *testing.T) {
	server, queries, writes := fakeInflux(t)

	client, err := CreateInfluxClient(config.InfluxSecrets{InfluxEndpoint: server.URL})
	require.NoError(t, err)
	store := NewInfluxStore(client, "ledger")

	require.NoError(t, store.EnsureDatabase())

	_, err = NewExporter(store, false, true, io.Discard, 0).Export(context.Background(), testMetrics())
	require.NoError(t, err)

	assert.Equal(t, []string{
		`CREATE DATABASE "ledger"`,
		`DROP SERIES FROM "hledger_balance"`,
		`DROP SERIES FROM "hledger_transactions_total"`,
	}, *queries)

	require.Len(t, *writes, 3)
	assert.Contains(t, (*writes)[0], "hledger_balance,account=assets,currency=GBP value=70.5 1672617600000")
	assert.Contains(t, (*writes)[2], "hledger_transactions_total,status=cleared value=2 1672531200000")
}

func TestPostgresEncode(t *testing.T) {
	store := NewPostgresStore(nil, "ledger_samples", 0)
	assert.Equal(t, 1000, store.batchSize)

	body, err := store.Encode("hledger_balance", testMetrics()[0].Series[0])
	require.NoError(t, err)

	var rows []SQLSample
	require.NoError(t, json.Unmarshal(body, &rows))
	require.Len(t, rows, 2)

	assert.Equal(t, "hledger_balance", rows[0].Metric)
	assert.Equal(t, map[string]string{"account": "assets", "currency": "GBP"}, rows[0].Labels)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), rows[0].Timestamp)
	assert.Equal(t, 100.0, rows[0].Value)
	assert.Equal(t, 70.5, rows[1].Value)
	assert.True(t, strings.HasSuffix(rows[1].Key, "::1672617600000"))
	assert.NotEqual(t, rows[0].Key, rows[1].Key)
}

func TestEncodeRejectsHugeValues(t *testing.T) {
	series := ledgermetrics.Series{
		Labels: ledgermetrics.Labels{{Name: "unit", Value: "days"}},
		Samples: []ledgermetrics.Sample{
			{Timestamp: 0, Value: decimal.New(1, 400)},
		},
	}

	_, err := NewVictoriaMetricsStore("", nil).Encode("x", series)
	assert.Error(t, err)
}

func TestNewStore(t *testing.T) {
	secrets := &config.Secrets{}

	store, err := NewStore(context.Background(), &config.ExportConfig{Backend: config.BackendVictoriaMetrics}, secrets, true)
	require.NoError(t, err)
	assert.IsType(t, &VictoriaMetricsStore{}, store)

	_, err = NewStore(context.Background(), &config.ExportConfig{Backend: config.BackendVictoriaMetrics}, secrets, false)
	assert.Error(t, err)

	store, err = NewStore(context.Background(), &config.ExportConfig{Backend: config.BackendPromscale}, secrets, true)
	require.NoError(t, err)
	assert.IsType(t, &PromscaleStore{}, store)

	store, err = NewStore(context.Background(), &config.ExportConfig{Backend: config.BackendPostgres, Postgres: config.PostgresConfig{Table: "samples"}}, secrets, true)
	require.NoError(t, err)
	assert.IsType(t, &PostgresStore{}, store)

	_, err = NewStore(context.Background(), &config.ExportConfig{Backend: config.BackendInflux}, secrets, true)
	assert.Error(t, err)

	store, err = NewStore(context.Background(), &config.ExportConfig{Backend: config.BackendInflux, Influx: config.InfluxConfig{Database: "ledger"}}, secrets, true)
	require.NoError(t, err)
	assert.IsType(t, &InfluxStore{}, store)

	_, err = NewStore(context.Background(), &config.ExportConfig{Backend: "graphite"}, secrets, true)
	assert.Error(t, err)
}
