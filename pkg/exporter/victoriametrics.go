package exporter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/bcaldwell/ledgermetrics/pkg/ledgermetrics"
)

const nameLabel = "__name__"

// VictoriaMetricsStore writes through the json line import api.
type VictoriaMetricsStore struct {
	uri    string
	client *http.Client
}

// {"metric":{"__name__":"hledger_balance","account":"assets","currency":"GBP"},"values":[100,70],"timestamps":[1672531200000,1672617600000]}
type victoriaMetricsLine struct {
	Metric     map[string]string `json:"metric"`
	Values     []float64         `json:"values"`
	Timestamps []int64           `json:"timestamps"`
}

func NewVictoriaMetricsStore(uri string, client *http.Client) *VictoriaMetricsStore {
	if client == nil {
		client = http.DefaultClient
	}
	return &VictoriaMetricsStore{uri: strings.TrimSuffix(uri, "/"), client: client}
}

func (s *VictoriaMetricsStore) Encode(name string, series ledgermetrics.Series) ([]byte, error) {
	line := victoriaMetricsLine{
		Metric:     seriesLabels(name, series),
		Values:     make([]float64, 0, len(series.Samples)),
		Timestamps: make([]int64, 0, len(series.Samples)),
	}

	for _, sample := range series.Samples {
		v, err := sampleValue(sample)
		if err != nil {
			return nil, err
		}
		line.Values = append(line.Values, v)
		line.Timestamps = append(line.Timestamps, sample.Timestamp)
	}

	return json.Marshal(line)
}

func (s *VictoriaMetricsStore) DeleteSeries(ctx context.Context, name string) error {
	return doRequest(ctx, s.client, http.MethodPost, s.uri+"/api/v1/admin/tsdb/delete_series?"+matchQuery(name), "", nil)
}

func (s *VictoriaMetricsStore) Write(ctx context.Context, body []byte) error {
	return doRequest(ctx, s.client, http.MethodPost, s.uri+"/api/v1/import", "application/json", body)
}

func (s *VictoriaMetricsStore) ResetCache(ctx context.Context) error {
	return doRequest(ctx, s.client, http.MethodGet, s.uri+"/internal/resetRollupResultCache", "", nil)
}

func seriesLabels(name string, series ledgermetrics.Series) map[string]string {
	labels := series.Labels.Map()
	labels[nameLabel] = name
	return labels
}

func matchQuery(name string) string {
	return url.Values{"match[]": {name}}.Encode()
}
