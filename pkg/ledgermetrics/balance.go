package ledgermetrics

import (
	"time"

	"github.com/shopspring/decimal"
)

// netDeltas is timestamp => key => debit - credit for every day.
func netDeltas(agg *Aggregate) Frame[AccountKey] {
	deltas := make(Frame[AccountKey], len(agg.Days()))
	for _, day := range agg.Days() {
		ts := day.Timestamp()
		for k, cd := range day.Entries {
			deltas.set(ts, k, cd.Net())
		}
	}
	return deltas
}

// Balances builds hledger_balance{account, currency}: the running total of
// debit - credit. Accounts are reported at every date once they exist.
func Balances(agg *Aggregate) Frame[AccountKey] {
	return RunningTotals(netDeltas(agg))
}

// Field selects one side of a CreditDebit.
type Field int

const (
	Debit Field = iota
	Credit
)

func (f Field) of(cd CreditDebit) decimal.Decimal {
	if f == Credit {
		return cd.Credit
	}
	return cd.Debit
}

// MonthStart returns midnight UTC on the first of t's month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthlyTotals builds hledger_monthly_increase (Debit) and
// hledger_monthly_decrease (Credit): the field summed per calendar month,
// stamped at midnight UTC on the 1st.
//
// The most recent month is dropped since it is likely incomplete.
func MonthlyTotals(agg *Aggregate, field Field) Frame[AccountKey] {
	out := make(Frame[AccountKey])
	for _, day := range agg.Days() {
		ts := Timestamp(MonthStart(day.Date))
		for k, cd := range day.Entries {
			out.add(ts, k, field.of(cd))
		}
	}

	timestamps := out.timestamps()
	if len(timestamps) > 0 {
		delete(out, timestamps[len(timestamps)-1])
	}

	return out
}
