// Package query answers analytical questions over an immutable snapshot of
// transaction records.
//
// Aggregates that should count each logical transfer once deduplicate by
// transaction id, keeping the first record seen in input order. Records that
// share an id but differ in other fields are dropped from those aggregates,
// so callers that care about which copy wins must keep input order stable.
package query

import (
	"slices"

	"github.com/shopspring/decimal"

	"txquery/internal/core"
)

// Engine holds a private copy of the records it was built from. It never
// mutates them, so a single Engine may be shared between goroutines.
type Engine struct {
	records []core.TransactionRecord
	unique  []core.TransactionRecord // first record per transaction id, input order
}

// NewEngine copies records and builds the deduplicated view once. Records
// handed back by queries are copies as well, pointer fields included.
func NewEngine(records []core.TransactionRecord) *Engine {
	snapshot := make([]core.TransactionRecord, len(records))
	for i, r := range records {
		snapshot[i] = r.Clone()
	}
	return &Engine{
		records: snapshot,
		unique:  firstSeen(snapshot),
	}
}

// firstSeen keeps a record only the first time its transaction id appears.
func firstSeen(records []core.TransactionRecord) []core.TransactionRecord {
	seen := make(map[int64]struct{}, len(records))
	out := make([]core.TransactionRecord, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.TransactionID]; ok {
			continue
		}
		seen[r.TransactionID] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Len returns the number of loaded records, duplicates included.
func (e *Engine) Len() int {
	return len(e.records)
}

// DistinctTransactionCount returns the number of distinct transaction ids.
func (e *Engine) DistinctTransactionCount() int {
	return len(e.unique)
}

// TotalAmount sums the amount of every logical transaction once.
func (e *Engine) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, r := range e.unique {
		total = total.Add(r.Amount)
	}
	return total
}

// TotalAmountSentBy sums the deduplicated amounts sent by senderFullName.
func (e *Engine) TotalAmountSentBy(senderFullName string) decimal.Decimal {
	total := decimal.Zero
	for _, r := range e.unique {
		if r.SenderFullName == senderFullName {
			total = total.Add(r.Amount)
		}
	}
	return total
}

// MaxAmount returns the highest amount over all records, or zero when empty.
// Duplicates are not removed here.
func (e *Engine) MaxAmount() decimal.Decimal {
	if len(e.records) == 0 {
		return decimal.Zero
	}
	highest := e.records[0].Amount
	for _, r := range e.records[1:] {
		if r.Amount.GreaterThan(highest) {
			highest = r.Amount
		}
	}
	return highest
}

// UniqueClientCount counts the distinct names that sent or received money.
func (e *Engine) UniqueClientCount() int {
	clients := make(map[string]struct{}, len(e.records)*2)
	for _, r := range e.records {
		clients[r.SenderFullName] = struct{}{}
		clients[r.BeneficiaryFullName] = struct{}{}
	}
	return len(clients)
}

// HasOpenComplianceIssue reports whether any record with clientFullName as
// sender or beneficiary carries an unsolved compliance issue.
func (e *Engine) HasOpenComplianceIssue(clientFullName string) bool {
	return slices.ContainsFunc(e.records, func(r core.TransactionRecord) bool {
		return r.Involves(clientFullName) && r.HasOpenIssue()
	})
}

// TransactionsByBeneficiary groups all records by beneficiary name.
func (e *Engine) TransactionsByBeneficiary() *BeneficiaryIndex {
	return newBeneficiaryIndex(e.records)
}

// UnsolvedIssueIDs returns the ids of all open compliance issues.
func (e *Engine) UnsolvedIssueIDs() IssueIDSet {
	ids := make(IssueIDSet)
	for _, r := range e.records {
		if r.HasOpenIssue() {
			ids[*r.IssueID] = struct{}{}
		}
	}
	return ids
}

// SolvedIssueMessages lists one message per solved issue in record order.
// Duplicates are kept and a solved issue without a message yields "".
func (e *Engine) SolvedIssueMessages() []string {
	messages := []string{}
	for _, r := range e.records {
		if r.HasSolvedIssue() {
			messages = append(messages, r.Message())
		}
	}
	return messages
}

// TopByAmount returns up to n deduplicated records with the highest amount.
// Equal amounts keep their input order.
func (e *Engine) TopByAmount(n int) []core.TransactionRecord {
	if n <= 0 {
		return []core.TransactionRecord{}
	}
	sorted := slices.Clone(e.unique)
	slices.SortStableFunc(sorted, func(a, b core.TransactionRecord) int {
		return b.Amount.Cmp(a.Amount)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return cloneRecords(sorted)
}

func cloneRecords(records []core.TransactionRecord) []core.TransactionRecord {
	out := make([]core.TransactionRecord, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}

// Top3ByAmount returns the three largest logical transactions.
func (e *Engine) Top3ByAmount() []core.TransactionRecord {
	return e.TopByAmount(3)
}

// SenderTotals returns the deduplicated amount sent per sender, ordered by
// the first time each sender appears.
func (e *Engine) SenderTotals() []core.SenderTotal {
	index := make(map[string]int)
	var totals []core.SenderTotal
	for _, r := range e.unique {
		i, ok := index[r.SenderFullName]
		if !ok {
			i = len(totals)
			index[r.SenderFullName] = i
			totals = append(totals, core.SenderTotal{Name: r.SenderFullName, Amount: decimal.Zero})
		}
		totals[i].Amount = totals[i].Amount.Add(r.Amount)
	}
	return totals
}

// TopSender returns the sender with the largest deduplicated total. On a tie
// the sender seen first wins. It returns false when there are no records.
func (e *Engine) TopSender() (string, bool) {
	totals := e.SenderTotals()
	if len(totals) == 0 {
		return "", false
	}
	best := totals[0]
	for _, t := range totals[1:] {
		if t.Amount.GreaterThan(best.Amount) {
			best = t
		}
	}
	return best.Name, true
}
