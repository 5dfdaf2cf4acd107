package exporter

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/bcaldwell/ledgermetrics/pkg/ledgermetrics"
	"golang.org/x/time/rate"
	"k8s.io/klog"
)

type Exporter struct {
	store      Store
	dryRun     bool
	resetCache bool
	out        io.Writer
	limiter    *rate.Limiter
}

type Summary struct {
	Metrics int
	Series  int
	Samples int
}

// NewExporter returns an exporter writing to store. In dry run mode no store
// method other than Encode is called and every body is printed to out
// instead. requestsPerSecond <= 0 disables rate limiting.
func NewExporter(store Store, dryRun, resetCache bool, out io.Writer, requestsPerSecond float64) *Exporter {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}

	return &Exporter{
		store:      store,
		dryRun:     dryRun,
		resetCache: resetCache,
		out:        out,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// Export replaces every metric in the store: the metric's series are deleted,
// then each series is written with all of its samples. The first error aborts
// the export, rerunning it is safe.
func (e *Exporter) Export(ctx context.Context, metrics []ledgermetrics.Metric) (Summary, error) {
	summary := Summary{}

	for _, metric := range metrics {
		if !e.dryRun {
			if err := e.limiter.Wait(ctx); err != nil {
				return summary, err
			}
			if err := e.store.DeleteSeries(ctx, metric.Name); err != nil {
				return summary, fmt.Errorf("failed to delete %s: %w", metric.Name, err)
			}
		}

		for _, series := range metric.Series {
			klog.Infof("Uploading %s %s (%d samples)", metric.Name, series.Labels, len(series.Samples))

			body, err := e.store.Encode(metric.Name, series)
			if err != nil {
				return summary, fmt.Errorf("failed to encode %s %s: %w", metric.Name, series.Labels, err)
			}

			if e.dryRun {
				fmt.Fprintln(e.out, string(body))
			} else {
				if err := e.limiter.Wait(ctx); err != nil {
					return summary, err
				}
				if err := e.store.Write(ctx, body); err != nil {
					return summary, fmt.Errorf("failed to write %s %s: %w", metric.Name, series.Labels, err)
				}
			}

			summary.Series++
			summary.Samples += len(series.Samples)
		}

		summary.Metrics++
	}

	if !e.dryRun && e.resetCache {
		if err := e.store.ResetCache(ctx); err != nil {
			return summary, fmt.Errorf("failed to reset cache: %w", err)
		}
	}

	return summary, nil
}

// sampleValue converts a value to the float sent over the wire.
func sampleValue(s ledgermetrics.Sample) (float64, error) {
	v := s.Value.InexactFloat64()
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("value %s at %d does not fit a float64", s.Value, s.Timestamp)
	}
	return v, nil
}
