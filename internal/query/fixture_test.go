package query

import (
	"github.com/shopspring/decimal"
	"go.openly.dev/pointy"

	"txquery/internal/core"
)

// fixtureRecords mirrors testdata/transactions.json of the jsonfile source:
// repeated transaction ids, open and solved issues, a solved issue without a
// message and a client (Aberama Gold) with no issue at all.
func fixtureRecords() []core.TransactionRecord {
	return []core.TransactionRecord{
		rec(663458, "430.2", "Tom Shelby", 22, "Alfie Solomons", 33, issue(1, false, "Looks like money laundering")),
		rec(1284564, "150.2", "Tom Shelby", 22, "Arthur Shelby", 60, issue(2, true, "Never gonna give you up")),
		rec(1284564, "150.2", "Tom Shelby", 22, "Arthur Shelby", 60, issue(3, false, "Looks like money laundering")),
		rec(96132456, "67.0", "Aberama Gold", 67, "Aunt Polly", 34, noIssue),
		rec(5465465, "985.0", "Arthur Shelby", 60, "Ben Younger", 47, issue(15, false, "Something's fishy")),
		rec(1651665, "97.66", "Tom Shelby", 22, "Oswald Mosley", 37, silentIssue(65, true)),
		rec(6516461, "33.22", "Aunt Polly", 34, "MacTavern", 30, noIssue),
		rec(32612651, "666.0", "Grace Burgess", 31, "Michael Gray", 58, issue(54, false, "Something ain't right")),
		rec(32612651, "666.0", "Grace Burgess", 31, "Michael Gray", 58, issue(78, true, "Never gonna run around and desert you")),
		rec(32612651, "666.0", "Grace Burgess", 31, "Michael Gray", 58, issue(99, false, "Don't let this transaction happen")),
		rec(36448252, "154.15", "Billy Kimber", 58, "Winston Churchill", 48, noIssue),
		rec(645645111, "215.17", "Billy Kimber", 58, "Major Campbell", 41, noIssue),
		rec(45431585, "90.57", "Billy Kimber", 58, "Luca Changretta", 46, noIssue),
	}
}

type issueFn func(*core.TransactionRecord)

func noIssue(r *core.TransactionRecord) {
	// the source documents mark issue-free transfers as solved
	r.IssueSolved = true
}

func issue(id int64, solved bool, message string) issueFn {
	return func(r *core.TransactionRecord) {
		r.IssueID = pointy.Int64(id)
		r.IssueSolved = solved
		r.IssueMessage = pointy.String(message)
	}
}

func silentIssue(id int64, solved bool) issueFn {
	return func(r *core.TransactionRecord) {
		r.IssueID = pointy.Int64(id)
		r.IssueSolved = solved
	}
}

func rec(id int64, amount, sender string, senderAge int, beneficiary string, beneficiaryAge int, withIssue issueFn) core.TransactionRecord {
	r := core.TransactionRecord{
		TransactionID:       id,
		Amount:              decimal.RequireFromString(amount),
		SenderFullName:      sender,
		SenderAge:           senderAge,
		BeneficiaryFullName: beneficiary,
		BeneficiaryAge:      beneficiaryAge,
	}
	withIssue(&r)
	return r
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func amountsOf(records []core.TransactionRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Amount.String()
	}
	return out
}
