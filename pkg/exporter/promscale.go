package exporter

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/bcaldwell/ledgermetrics/pkg/ledgermetrics"
)

// PromscaleStore writes through promscale's json write endpoint.
type PromscaleStore struct {
	uri    string
	client *http.Client
}

// {"labels":{"__name__":"hledger_balance","account":"assets","currency":"GBP"},"samples":[[1672531200000,100]]}
type promscaleWrite struct {
	Labels  map[string]string `json:"labels"`
	Samples []promscaleSample `json:"samples"`
}

type promscaleSample struct {
	Timestamp int64
	Value     float64
}

func (p promscaleSample) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{p.Timestamp, p.Value})
}

func NewPromscaleStore(uri string, client *http.Client) *PromscaleStore {
	if client == nil {
		client = http.DefaultClient
	}
	return &PromscaleStore{uri: strings.TrimSuffix(uri, "/"), client: client}
}

func (s *PromscaleStore) Encode(name string, series ledgermetrics.Series) ([]byte, error) {
	write := promscaleWrite{
		Labels:  seriesLabels(name, series),
		Samples: make([]promscaleSample, 0, len(series.Samples)),
	}

	for _, sample := range series.Samples {
		v, err := sampleValue(sample)
		if err != nil {
			return nil, err
		}
		write.Samples = append(write.Samples, promscaleSample{Timestamp: sample.Timestamp, Value: v})
	}

	return json.Marshal(write)
}

func (s *PromscaleStore) DeleteSeries(ctx context.Context, name string) error {
	return doRequest(ctx, s.client, http.MethodPost, s.uri+"/delete_series?"+matchQuery(name), "", nil)
}

func (s *PromscaleStore) Write(ctx context.Context, body []byte) error {
	return doRequest(ctx, s.client, http.MethodPost, s.uri+"/write", "application/json", body)
}

// ResetCache is a no-op, promscale has no rollup cache.
func (s *PromscaleStore) ResetCache(ctx context.Context) error {
	return nil
}
