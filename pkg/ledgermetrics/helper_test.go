package ledgermetrics

import (
	"testing"
	"time"

	"github.com/bcaldwell/ledgermetrics/pkg/hledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(hledger.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ts(s string) int64 {
	return Timestamp(day(s))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func debit(date, account, commodity, amount, txn string) hledger.Posting {
	return hledger.Posting{
		Date:      day(date),
		Account:   account,
		Commodity: commodity,
		Debit:     dec(amount),
		Status:    hledger.StatusCleared,
		TxnIdx:    txn,
	}
}

func credit(date, account, commodity, amount, txn string) hledger.Posting {
	return hledger.Posting{
		Date:      day(date),
		Account:   account,
		Commodity: commodity,
		Credit:    dec(amount),
		Status:    hledger.StatusCleared,
		TxnIdx:    txn,
	}
}

// seriesFor finds the series with the given labels, failing the test if absent.
func seriesFor(t *testing.T, series []Series, labels Labels) Series {
	t.Helper()
	for _, s := range series {
		if s.Labels.String() == labels.String() {
			return s
		}
	}
	require.Failf(t, "series not found", "no series with labels %s", labels)
	return Series{}
}

func values(s Series) []string {
	out := make([]string, len(s.Samples))
	for i, sample := range s.Samples {
		out[i] = sample.Value.String()
	}
	return out
}

func timestamps(s Series) []int64 {
	out := make([]int64, len(s.Samples))
	for i, sample := range s.Samples {
		out[i] = sample.Timestamp
	}
	return out
}

func accountLabels(account, currency string) Labels {
	return AccountKey{Account: account, Currency: currency}.Labels()
}
