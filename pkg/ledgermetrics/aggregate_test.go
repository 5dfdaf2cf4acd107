package ledgermetrics

import (
	"testing"

	"github.com/bcaldwell/ledgermetrics/pkg/hledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAncestorAccounts(t *testing.T) {
	assert.Equal(t, []string{"a", "a:b", "a:b:c"}, AncestorAccounts("a:b:c"))
	assert.Equal(t, []string{"assets"}, AncestorAccounts("assets"))
}

func TestGroupCreditsDebitsRollsUpToParents(t *testing.T) {
	agg := GroupCreditsDebits([]hledger.Posting{
		debit("2023-01-01", "assets:bank:checking", "GBP", "100", "1"),
		debit("2023-01-01", "assets:bank:savings", "GBP", "50", "1"),
		credit("2023-01-01", "assets:cash", "GBP", "20", "2"),
	})

	require.Len(t, agg.Days(), 1)
	entries := agg.Days()[0].Entries

	assert.True(t, dec("100").Equal(entries[AccountKey{"assets:bank:checking", "GBP"}].Debit))
	assert.True(t, dec("150").Equal(entries[AccountKey{"assets:bank", "GBP"}].Debit))
	assert.True(t, dec("150").Equal(entries[AccountKey{"assets", "GBP"}].Debit))
	assert.True(t, dec("20").Equal(entries[AccountKey{"assets", "GBP"}].Credit))
	assert.True(t, dec("130").Equal(entries[AccountKey{"assets", "GBP"}].Net()))

	// leaves sum to the parent
	leaves := entries[AccountKey{"assets:bank:checking", "GBP"}].Net().
		Add(entries[AccountKey{"assets:bank:savings", "GBP"}].Net()).
		Add(entries[AccountKey{"assets:cash", "GBP"}].Net())
	assert.True(t, leaves.Equal(entries[AccountKey{"assets", "GBP"}].Net()))
}

func TestGroupCreditsDebitsProjectsAccounts(t *testing.T) {
	agg := GroupCreditsDebits([]hledger.Posting{
		debit("2023-03-01", "expenses:food", "GBP", "5", "2"),
		debit("2023-01-01", "assets", "GBP", "10", "1"),
	})

	days := agg.Days()
	require.Len(t, days, 2)
	assert.Equal(t, day("2023-01-01"), days[0].Date)
	assert.Equal(t, day("2023-03-01"), days[1].Date)

	for _, d := range days {
		assert.Len(t, d.Entries, 3)
		for _, k := range agg.Keys() {
			_, ok := d.Entries[k]
			assert.True(t, ok, "%v missing on %s", k, d.Date)
		}
	}

	// expenses projected backwards, assets forwards
	assert.True(t, days[0].Entries[AccountKey{"expenses", "GBP"}].Net().IsZero())
	assert.True(t, days[1].Entries[AccountKey{"assets", "GBP"}].Net().IsZero())
}

func TestGroupCreditsDebitsNormalizesPound(t *testing.T) {
	agg := GroupCreditsDebits([]hledger.Posting{
		debit("2023-01-01", "assets", "£", "10", "1"),
	})

	assert.Equal(t, []AccountKey{{"assets", "GBP"}}, agg.Keys())
}

func TestGroupCreditsDebitsSeparatesCurrencies(t *testing.T) {
	agg := GroupCreditsDebits([]hledger.Posting{
		debit("2023-01-01", "assets", "GBP", "10", "1"),
		debit("2023-01-01", "assets", "USD", "7", "2"),
	})

	entries := agg.Days()[0].Entries
	assert.True(t, dec("10").Equal(entries[AccountKey{"assets", "GBP"}].Debit))
	assert.True(t, dec("7").Equal(entries[AccountKey{"assets", "USD"}].Debit))
}

func TestGroupCreditsDebitsEmpty(t *testing.T) {
	agg := GroupCreditsDebits(nil)
	assert.Empty(t, agg.Days())
	assert.Empty(t, agg.Keys())
	assert.Empty(t, agg.Timestamps())
}
