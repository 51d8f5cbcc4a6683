// Package report runs every engine query once and renders the answers.
package report

import (
	"github.com/shopspring/decimal"

	"txquery/internal/core"
	"txquery/internal/query"
)

const DefaultSender = "Tom Shelby"

type (
	Options struct {
		Sender  string   // subject of the "sent by" total
		Clients []string // names checked for open compliance issues
		TopN    int      // size of the ranking, 3 when not positive
	}

	ClientIssue struct {
		Client string `json:"client"`
		Open   bool   `json:"open"`
	}

	Entry struct {
		TransactionID int64           `json:"transactionId"`
		Amount        decimal.Decimal `json:"amount"`
		Sender        string          `json:"sender"`
		Beneficiary   string          `json:"beneficiary"`
	}

	Report struct {
		Records              int                `json:"records"`
		DistinctTransactions int                `json:"distinctTransactions"`
		TotalAmount          decimal.Decimal    `json:"totalAmount"`
		Sender               string             `json:"sender"`
		SentBySender         decimal.Decimal    `json:"sentBySender"`
		MaxAmount            decimal.Decimal    `json:"maxAmount"`
		UniqueClients        int                `json:"uniqueClients"`
		TopSender            string             `json:"topSender,omitempty"`
		SenderTotals         []core.SenderTotal `json:"senderTotals"`
		OpenIssues           []ClientIssue      `json:"openIssues"`
		Beneficiaries        []core.GroupSize   `json:"beneficiaries"`
		UnsolvedIssueIDs     []int64            `json:"unsolvedIssueIds"`
		SolvedIssueMessages  []string           `json:"solvedIssueMessages"`
		Top                  []Entry            `json:"top"`
	}
)

// Build queries e once per question. Clients are reported in the order given.
func Build(e *query.Engine, opts Options) Report {
	sender := opts.Sender
	if sender == "" {
		sender = DefaultSender
	}
	topN := opts.TopN
	if topN <= 0 {
		topN = 3
	}

	r := Report{
		Records:              e.Len(),
		DistinctTransactions: e.DistinctTransactionCount(),
		TotalAmount:          e.TotalAmount(),
		Sender:               sender,
		SentBySender:         e.TotalAmountSentBy(sender),
		MaxAmount:            e.MaxAmount(),
		UniqueClients:        e.UniqueClientCount(),
		SenderTotals:         e.SenderTotals(),
		OpenIssues:           make([]ClientIssue, 0, len(opts.Clients)),
		Beneficiaries:        e.TransactionsByBeneficiary().Sizes(),
		UnsolvedIssueIDs:     e.UnsolvedIssueIDs().Sorted(),
		SolvedIssueMessages:  e.SolvedIssueMessages(),
	}
	if name, ok := e.TopSender(); ok {
		r.TopSender = name
	}
	if r.SenderTotals == nil {
		r.SenderTotals = []core.SenderTotal{}
	}
	for _, c := range opts.Clients {
		r.OpenIssues = append(r.OpenIssues, ClientIssue{Client: c, Open: e.HasOpenComplianceIssue(c)})
	}

	top := e.TopByAmount(topN)
	r.Top = make([]Entry, len(top))
	for i, t := range top {
		r.Top[i] = Entry{
			TransactionID: t.TransactionID,
			Amount:        t.Amount,
			Sender:        t.SenderFullName,
			Beneficiary:   t.BeneficiaryFullName,
		}
	}
	return r
}
