package ledgermetrics

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuantifiedSelfAge builds quantified_self_age{unit="days"|"years"}: the whole
// days and whole years elapsed since reference at every date of the ledger.
func QuantifiedSelfAge(agg *Aggregate, reference time.Time) Frame[UnitKey] {
	reference = time.Date(reference.Year(), reference.Month(), reference.Day(), 0, 0, 0, 0, time.UTC)

	out := make(Frame[UnitKey], len(agg.Days()))
	for _, day := range agg.Days() {
		ts := day.Timestamp()
		days := (ts - reference.UnixMilli()) / msPerDay

		out.set(ts, UnitKey{Unit: "days"}, decimal.NewFromInt(days))
		out.set(ts, UnitKey{Unit: "years"}, decimal.NewFromInt(int64(yearsBetween(reference, day.Date))))
	}

	return out
}

// yearsBetween counts the birthdays of from which have passed by to.
func yearsBetween(from, to time.Time) int {
	years := to.Year() - from.Year()
	if to.Month() < from.Month() || (to.Month() == from.Month() && to.Day() < from.Day()) {
		years--
	}
	return years
}
