package ledgermetrics

import (
	"testing"

	"github.com/bcaldwell/ledgermetrics/pkg/hledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quote(date, currency, rate string) hledger.PriceQuote {
	return hledger.PriceQuote{Date: day(date), FromCurrency: currency, GBPRate: dec(rate)}
}

func pairLabels(currency, target string) Labels {
	return CurrencyPairKey{Currency: currency, Target: target}.Labels()
}

func TestFXRatesTable(t *testing.T) {
	frame := FXRates([]hledger.PriceQuote{
		quote("2023-01-01", "USD", "0.8"),
		quote("2023-01-01", "EUR", "0.9"),
	}, GroupCreditsDebits(nil))

	rates := frame[ts("2023-01-01")]
	require.Len(t, rates, 9)

	assert.Equal(t, "1", rates[CurrencyPairKey{"GBP", "GBP"}].String())
	assert.Equal(t, "1", rates[CurrencyPairKey{"USD", "USD"}].String())
	assert.Equal(t, "0.8", rates[CurrencyPairKey{"USD", "GBP"}].String())
	assert.Equal(t, "1.25", rates[CurrencyPairKey{"GBP", "USD"}].String())

	usdEur, _ := rates[CurrencyPairKey{"USD", "EUR"}].Float64()
	assert.InDelta(t, 0.8/0.9, usdEur, 1e-12)

	for _, currency := range []string{"USD", "EUR"} {
		there, _ := rates[CurrencyPairKey{currency, "GBP"}].Float64()
		back, _ := rates[CurrencyPairKey{"GBP", currency}].Float64()
		assert.InDelta(t, 1.0, there*back, 1e-9)
	}
}

func TestFXRatesCarryForward(t *testing.T) {
	agg := GroupCreditsDebits([]hledger.Posting{
		debit("2023-01-03", "assets", "GBP", "1", "1"),
	})

	series := Pivot(FXRates([]hledger.PriceQuote{
		quote("2023-01-01", "USD", "0.8"),
		quote("2023-01-01", "EUR", "0.9"),
		quote("2023-01-05", "USD", "0.75"),
	}, agg))

	usd := seriesFor(t, series, pairLabels("USD", "GBP"))
	assert.Equal(t, []int64{ts("2023-01-01"), ts("2023-01-03"), ts("2023-01-05")}, timestamps(usd))
	assert.Equal(t, []string{"0.8", "0.8", "0.75"}, values(usd))

	// EUR was not quoted again and keeps its rate
	eur := seriesFor(t, series, pairLabels("EUR", "GBP"))
	assert.Equal(t, []string{"0.9", "0.9", "0.9"}, values(eur))
}

func TestFXRatesBeforeFirstQuote(t *testing.T) {
	agg := GroupCreditsDebits([]hledger.Posting{
		debit("2023-01-01", "assets", "GBP", "1", "1"),
	})

	series := Pivot(FXRates([]hledger.PriceQuote{
		quote("2023-01-02", "USD", "0.8"),
	}, agg))

	gbp := seriesFor(t, series, pairLabels("GBP", "GBP"))
	assert.Equal(t, []string{"1", "1"}, values(gbp))

	usd := seriesFor(t, series, pairLabels("USD", "GBP"))
	assert.Equal(t, []int64{ts("2023-01-02")}, timestamps(usd))
}
