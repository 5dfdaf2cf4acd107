package ledgermetrics

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/bcaldwell/ledgermetrics/pkg/hledger"
	"github.com/shopspring/decimal"
)

const accountSeparator = ":"

type CreditDebit struct {
	Credit decimal.Decimal
	Debit  decimal.Decimal
}

// Net is the change in balance, debit - credit.
func (cd CreditDebit) Net() decimal.Decimal {
	return cd.Debit.Sub(cd.Credit)
}

// Day holds the credit/debit totals of one date. Entries has a value for every
// key of the aggregate, zero when the key had no activity that day.
type Day struct {
	Date    time.Time
	Entries map[AccountKey]CreditDebit
}

func (d Day) Timestamp() int64 {
	return Timestamp(d.Date)
}

// Aggregate is the per date, per (account, currency) credit/debit rollup of a
// ledger. Days are in ascending date order, the stateful metrics rely on it.
type Aggregate struct {
	days []Day
	keys []AccountKey
}

// Days returns the days in ascending date order.
func (a *Aggregate) Days() []Day {
	return a.days
}

// Keys returns every (account, currency) seen, sorted.
func (a *Aggregate) Keys() []AccountKey {
	return a.keys
}

// Timestamps returns the timestamp of every day, ascending.
func (a *Aggregate) Timestamps() []int64 {
	timestamps := make([]int64, len(a.days))
	for i, day := range a.days {
		timestamps[i] = day.Timestamp()
	}
	return timestamps
}

// AncestorAccounts returns the account and all of its parents, outermost first:
// a:b:c => a, a:b, a:b:c.
func AncestorAccounts(account string) []string {
	segments := strings.Split(account, accountSeparator)
	accounts := make([]string, len(segments))
	for i := range segments {
		accounts[i] = strings.Join(segments[:i+1], accountSeparator)
	}
	return accounts
}

// GroupCreditsDebits groups postings by date and totals the credits and debits
// of each account. A posting counts towards its account and every parent
// account.
//
// Accounts are projected through all time: every key seen anywhere has an
// entry on every date present in the input.
func GroupCreditsDebits(postings []hledger.Posting) *Aggregate {
	byDate := make(map[int64]*Day)
	allKeys := make(map[AccountKey]struct{})

	for _, posting := range postings {
		ts := Timestamp(posting.Date)
		day, ok := byDate[ts]
		if !ok {
			day = &Day{
				Date:    time.UnixMilli(ts).UTC(),
				Entries: make(map[AccountKey]CreditDebit),
			}
			byDate[ts] = day
		}

		currency := hledger.NormalizeCommodity(posting.Commodity)
		for _, account := range AncestorAccounts(posting.Account) {
			k := AccountKey{Account: account, Currency: currency}
			allKeys[k] = struct{}{}

			old := day.Entries[k]
			day.Entries[k] = CreditDebit{
				Credit: old.Credit.Add(posting.Credit),
				Debit:  old.Debit.Add(posting.Debit),
			}
		}
	}

	keys := make([]AccountKey, 0, len(allKeys))
	for k := range allKeys {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b AccountKey) int {
		return cmp.Or(cmp.Compare(a.Account, b.Account), cmp.Compare(a.Currency, b.Currency))
	})

	days := make([]Day, 0, len(byDate))
	for _, day := range byDate {
		for _, k := range keys {
			if _, ok := day.Entries[k]; !ok {
				day.Entries[k] = CreditDebit{}
			}
		}
		days = append(days, *day)
	}
	slices.SortFunc(days, func(a, b Day) int {
		return a.Date.Compare(b.Date)
	})

	return &Aggregate{days: days, keys: keys}
}
