package ledgermetrics

import (
	"cmp"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const msPerDay = int64(24 * time.Hour / time.Millisecond)

// Timestamp returns t as unix milliseconds at midnight UTC of its day.
func Timestamp(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).UnixMilli()
}

type Sample struct {
	Timestamp int64
	Value     decimal.Decimal
}

type Series struct {
	Labels  Labels
	Samples []Sample
}

type Metric struct {
	Name   string
	Series []Series
}

func (m Metric) SampleCount() int {
	count := 0
	for _, s := range m.Series {
		count += len(s.Samples)
	}
	return count
}

// Frame is the timestamp major form every metric is built in:
// timestamp => key => value.
type Frame[K Labeler] map[int64]map[K]decimal.Decimal

func (f Frame[K]) add(timestamp int64, key K, delta decimal.Decimal) {
	values, ok := f[timestamp]
	if !ok {
		values = make(map[K]decimal.Decimal)
		f[timestamp] = values
	}
	values[key] = values[key].Add(delta)
}

func (f Frame[K]) set(timestamp int64, key K, value decimal.Decimal) {
	values, ok := f[timestamp]
	if !ok {
		values = make(map[K]decimal.Decimal)
		f[timestamp] = values
	}
	values[key] = value
}

func (f Frame[K]) timestamps() []int64 {
	return sortedTimestamps(f)
}

func sortedTimestamps[V any](m map[int64]V) []int64 {
	return slices.Sorted(maps.Keys(m))
}

// RunningTotals turns a frame of deltas into a frame of totals by summing in
// ascending timestamp order. Once a key has been seen it is reported at every
// later timestamp.
func RunningTotals[K Labeler](deltas Frame[K]) Frame[K] {
	current := make(map[K]decimal.Decimal)
	out := make(Frame[K], len(deltas))

	for _, ts := range deltas.timestamps() {
		for k, delta := range deltas[ts] {
			current[k] = current[k].Add(delta)
		}

		totals := make(map[K]decimal.Decimal, len(current))
		for k, v := range current {
			totals[k] = v
		}
		out[ts] = totals
	}

	return out
}

// Pivot turns timestamp => key => value into one series per key. Samples are
// sorted by timestamp and series by their rendered labels, so the result
// does not depend on map iteration order.
func Pivot[K Labeler](f Frame[K]) []Series {
	grouped := make(map[K][]Sample)
	for ts, values := range f {
		for k, v := range values {
			grouped[k] = append(grouped[k], Sample{Timestamp: ts, Value: v})
		}
	}

	series := make([]Series, 0, len(grouped))
	for k, samples := range grouped {
		slices.SortFunc(samples, func(a, b Sample) int {
			return cmp.Compare(a.Timestamp, b.Timestamp)
		})
		series = append(series, Series{Labels: k.Labels(), Samples: samples})
	}

	slices.SortFunc(series, func(a, b Series) int {
		return strings.Compare(a.Labels.String(), b.Labels.String())
	})

	return series
}
