package ledgermetrics

import (
	"github.com/shopspring/decimal"
)

type bucket struct {
	timestamp int64
	remaining decimal.Decimal
}

// buckets is a FIFO queue of money deposited on a day and not yet spent.
type buckets []bucket

// apply adds a positive delta as a new bucket, or spends a negative delta
// from the oldest buckets first. Buckets reaching exactly zero are removed;
// spending more than is held empties the queue.
func (b buckets) apply(timestamp int64, delta decimal.Decimal) buckets {
	switch delta.Sign() {
	case 1:
		return append(b, bucket{timestamp: timestamp, remaining: delta})
	case -1:
		spend := delta.Neg()
		for len(b) > 0 && spend.IsPositive() {
			if b[0].remaining.GreaterThan(spend) {
				b[0].remaining = b[0].remaining.Sub(spend)
				return b
			}
			spend = spend.Sub(b[0].remaining)
			b = b[1:]
		}
	}
	return b
}

// age is the age in whole days of the oldest bucket, 0 when empty.
func (b buckets) age(timestamp int64) int64 {
	if len(b) == 0 {
		return 0
	}
	return (timestamp - b[0].timestamp) / msPerDay
}

// AgeOfMoney builds hledger_age_of_money{account, currency}: the age in days of
// the oldest unit of money in the account. Each day's net change is put in a
// new bucket when positive and taken from the oldest buckets when negative.
func AgeOfMoney(agg *Aggregate) Frame[AccountKey] {
	out := make(Frame[AccountKey], len(agg.Days()))
	byKey := make(map[AccountKey]buckets)

	for _, day := range agg.Days() {
		ts := day.Timestamp()
		for k, cd := range day.Entries {
			byKey[k] = byKey[k].apply(ts, cd.Net())
		}
		for k, b := range byKey {
			out.set(ts, k, decimal.NewFromInt(b.age(ts)))
		}
	}

	return out
}
