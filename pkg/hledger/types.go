package hledger

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DateFormat = "2006-01-02"

	// Pivot currency, every price quote is a value in it.
	GBP        = "GBP"
	poundSign  = "£"
	daysInYear = 365
)

var ErrMalformedRow = errors.New("malformed row")

type Status string

const (
	StatusPending     Status = "pending"
	StatusBookkeeping Status = "bookkeeping"
	StatusCleared     Status = "cleared"
)

var statusMarkers = map[string]Status{
	"":  StatusPending,
	"!": StatusBookkeeping,
	"*": StatusCleared,
}

// Posting is one account leg of a transaction. Credit and Debit are never
// negative; missing amounts are zero.
type Posting struct {
	Date      time.Time
	Account   string
	Commodity string
	Credit    decimal.Decimal
	Debit     decimal.Decimal
	Status    Status
	TxnIdx    string
}

// PriceQuote is the GBP value of one unit of FromCurrency on Date.
type PriceQuote struct {
	Date         time.Time
	FromCurrency string
	GBPRate      decimal.Decimal
}

// NormalizeCommodity maps the pound sign to its currency code.
func NormalizeCommodity(commodity string) string {
	if commodity == poundSign {
		return GBP
	}
	return commodity
}

// OffsetDate moves t back by 365*years days, ignoring leap days.
func OffsetDate(t time.Time, years int) time.Time {
	if years == 0 {
		return t
	}
	return t.AddDate(0, 0, -daysInYear*years)
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateFormat, s, time.UTC)
}
