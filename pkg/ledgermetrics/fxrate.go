package ledgermetrics

import (
	"github.com/bcaldwell/ledgermetrics/pkg/hledger"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// FXRates builds hledger_fx_rate{currency, target_currency}.
//
//   - Every currency has an exchange rate of 1 with itself.
//   - GBP to a quoted currency is 1/rate.
//   - Every pair of quoted currencies converts both ways via GBP.
//
// A table is emitted at every date with either a quote or a posting. A
// currency without a quote on a date keeps its last known rate.
func FXRates(quotes []hledger.PriceQuote, agg *Aggregate) Frame[CurrencyPairKey] {
	timestamps := make(map[int64]struct{})
	for _, ts := range agg.Timestamps() {
		timestamps[ts] = struct{}{}
	}

	// quotesByTimestamp :: timestamp => currency => gbp rate
	quotesByTimestamp := make(map[int64]map[string]decimal.Decimal)
	for _, quote := range quotes {
		ts := Timestamp(quote.Date)
		timestamps[ts] = struct{}{}

		rates, ok := quotesByTimestamp[ts]
		if !ok {
			rates = make(map[string]decimal.Decimal)
			quotesByTimestamp[ts] = rates
		}
		rates[quote.FromCurrency] = quote.GBPRate
	}

	out := make(Frame[CurrencyPairKey], len(timestamps))
	known := map[string]decimal.Decimal{hledger.GBP: one}
	for _, ts := range sortedTimestamps(timestamps) {
		for currency, rate := range quotesByTimestamp[ts] {
			known[currency] = rate
		}

		for currency, fromRate := range known {
			for target, toRate := range known {
				rate := fromRate.Div(toRate)
				if currency == target {
					rate = one
				}
				out.set(ts, CurrencyPairKey{Currency: currency, Target: target}, rate)
			}
		}
	}

	return out
}
