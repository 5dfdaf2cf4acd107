package ledgermetrics

import (
	"github.com/bcaldwell/ledgermetrics/pkg/hledger"
	"github.com/shopspring/decimal"
)

// TransactionTotals builds hledger_transactions_total{status}: the running
// count of distinct transactions per status. Postings share the txnidx of
// their transaction so a transaction is only counted once.
func TransactionTotals(postings []hledger.Posting) Frame[StatusKey] {
	// txnIDs :: timestamp => key => set(txnidx)
	txnIDs := make(map[int64]map[StatusKey]map[string]struct{})
	for _, posting := range postings {
		ts := Timestamp(posting.Date)
		k := StatusKey{Status: posting.Status}

		byStatus, ok := txnIDs[ts]
		if !ok {
			byStatus = make(map[StatusKey]map[string]struct{})
			txnIDs[ts] = byStatus
		}
		ids, ok := byStatus[k]
		if !ok {
			ids = make(map[string]struct{})
			byStatus[k] = ids
		}
		ids[posting.TxnIdx] = struct{}{}
	}

	seen := make(map[StatusKey]map[string]struct{})
	counts := make(Frame[StatusKey], len(txnIDs))

	// in date order so an id only counts on the first date it appears
	for _, ts := range sortedTimestamps(txnIDs) {
		for k, ids := range txnIDs[ts] {
			if seen[k] == nil {
				seen[k] = make(map[string]struct{})
			}

			fresh := 0
			for id := range ids {
				if _, ok := seen[k][id]; !ok {
					seen[k][id] = struct{}{}
					fresh++
				}
			}
			counts.add(ts, k, decimal.NewFromInt(int64(fresh)))
		}
	}

	return RunningTotals(counts)
}
