package ledgermetrics

import (
	"time"

	"github.com/bcaldwell/ledgermetrics/pkg/hledger"
)

const (
	MetricFXRate            = "hledger_fx_rate"
	MetricBalance           = "hledger_balance"
	MetricMonthlyIncrease   = "hledger_monthly_increase"
	MetricMonthlyDecrease   = "hledger_monthly_decrease"
	MetricAgeOfMoney        = "hledger_age_of_money"
	MetricTransactionsTotal = "hledger_transactions_total"
	MetricQuantifiedSelfAge = "quantified_self_age"
)

type Options struct {
	// ReferenceDate enables quantified_self_age when non zero.
	ReferenceDate time.Time
}

// Derive computes every metric from one read of the ledger, in upload order.
func Derive(quotes []hledger.PriceQuote, postings []hledger.Posting, opts Options) []Metric {
	agg := GroupCreditsDebits(postings)

	metrics := []Metric{
		{Name: MetricFXRate, Series: Pivot(FXRates(quotes, agg))},
		{Name: MetricBalance, Series: Pivot(Balances(agg))},
		{Name: MetricMonthlyIncrease, Series: Pivot(MonthlyTotals(agg, Debit))},
		{Name: MetricMonthlyDecrease, Series: Pivot(MonthlyTotals(agg, Credit))},
		{Name: MetricAgeOfMoney, Series: Pivot(AgeOfMoney(agg))},
		{Name: MetricTransactionsTotal, Series: Pivot(TransactionTotals(postings))},
	}

	if !opts.ReferenceDate.IsZero() {
		metrics = append(metrics, Metric{
			Name:   MetricQuantifiedSelfAge,
			Series: Pivot(QuantifiedSelfAge(agg, opts.ReferenceDate)),
		})
	}

	return metrics
}
