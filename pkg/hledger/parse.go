package hledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// postingColumns are the csv header fields a posting needs, `hledger print -O csv`
// emits more which are ignored.
var postingColumns = []string{"date", "account", "commodity", "credit", "debit", "status", "txnidx"}

// ParsePrices parses `hledger prices` output, one quote per line:
//
//	P 2023-01-01 USD £0.82
func ParsePrices(raw string, yearOffset int) ([]PriceQuote, error) {
	quotes := []PriceQuote{}

	for i, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, fmt.Errorf("%w: price line %d: expected 4 fields, got %d: %q", ErrMalformedRow, i+1, len(fields), line)
		}

		date, err := parseDate(fields[1])
		if err != nil {
			return nil, fmt.Errorf("%w: price line %d: %v", ErrMalformedRow, i+1, err)
		}

		if !strings.HasPrefix(fields[3], poundSign) {
			return nil, fmt.Errorf("%w: price line %d: rate %q is not in %s", ErrMalformedRow, i+1, fields[3], GBP)
		}

		rate, err := decimal.NewFromString(strings.TrimPrefix(fields[3], poundSign))
		if err != nil {
			return nil, fmt.Errorf("%w: price line %d: %v", ErrMalformedRow, i+1, err)
		}
		if !rate.IsPositive() {
			return nil, fmt.Errorf("%w: price line %d: rate must be positive, got %s", ErrMalformedRow, i+1, rate)
		}

		quotes = append(quotes, PriceQuote{
			Date:         OffsetDate(date, yearOffset),
			FromCurrency: NormalizeCommodity(fields[2]),
			GBPRate:      rate,
		})
	}

	return quotes, nil
}

// ParsePostings parses `hledger print -O csv` output. Columns are found by
// header name so their order does not matter.
func ParsePostings(raw string, yearOffset int) ([]Posting, error) {
	reader := csv.NewReader(strings.NewReader(raw))

	header, err := reader.Read()
	if err == io.EOF {
		return []Posting{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read posting header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	for _, column := range postingColumns {
		if _, ok := index[column]; !ok {
			return nil, fmt.Errorf("%w: posting header is missing column %q", ErrMalformedRow, column)
		}
	}

	postings := []Posting{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: posting line %d: %v", ErrMalformedRow, line, err)
		}

		posting, err := parsePosting(record, index)
		if err != nil {
			return nil, fmt.Errorf("posting line %d: %w", line, err)
		}
		posting.Date = OffsetDate(posting.Date, yearOffset)

		postings = append(postings, posting)
	}

	return postings, nil
}

func parsePosting(record []string, index map[string]int) (Posting, error) {
	field := func(name string) string {
		return strings.TrimSpace(record[index[name]])
	}

	date, err := parseDate(field("date"))
	if err != nil {
		return Posting{}, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}

	account := field("account")
	if account == "" {
		return Posting{}, fmt.Errorf("%w: empty account", ErrMalformedRow)
	}

	credit, err := parseAmount(field("credit"))
	if err != nil {
		return Posting{}, fmt.Errorf("%w: credit: %v", ErrMalformedRow, err)
	}

	debit, err := parseAmount(field("debit"))
	if err != nil {
		return Posting{}, fmt.Errorf("%w: debit: %v", ErrMalformedRow, err)
	}

	status, ok := statusMarkers[field("status")]
	if !ok {
		return Posting{}, fmt.Errorf("%w: unknown status %q", ErrMalformedRow, field("status"))
	}

	return Posting{
		Date:      date,
		Account:   account,
		Commodity: NormalizeCommodity(field("commodity")),
		Credit:    credit,
		Debit:     debit,
		Status:    status,
		TxnIdx:    field("txnidx"),
	}, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
