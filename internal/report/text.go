package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"txquery/internal/core"
)

// WriteText renders r as aligned plain text. Amounts use two decimals.
func (r Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	p := &printer{w: tw}

	p.line("Transactions")
	p.line("  records\t%d", r.Records)
	p.line("  distinct transactions\t%d", r.DistinctTransactions)
	p.line("  total amount\t%s", core.FormatAmount(r.TotalAmount))
	p.line("  sent by %s\t%s", r.Sender, core.FormatAmount(r.SentBySender))
	p.line("  max amount\t%s", core.FormatAmount(r.MaxAmount))
	p.line("  unique clients\t%d", r.UniqueClients)
	if r.TopSender != "" {
		p.line("  top sender\t%s", r.TopSender)
	} else {
		p.line("  top sender\t-")
	}

	if len(r.SenderTotals) > 0 {
		p.line("")
		p.line("Sent per sender")
		for _, s := range r.SenderTotals {
			p.line("  %s\t%s", s.Name, core.FormatAmount(s.Amount))
		}
	}

	if len(r.OpenIssues) > 0 {
		p.line("")
		p.line("Open compliance issues")
		for _, c := range r.OpenIssues {
			p.line("  %s\t%s", c.Client, yesNo(c.Open))
		}
	}

	p.line("")
	p.line("Transactions by beneficiary")
	for _, b := range r.Beneficiaries {
		p.line("  %s\t%d", b.Name, b.Count)
	}

	p.line("")
	p.line("Unsolved issue ids\t%s", joinIDs(r.UnsolvedIssueIDs))

	p.line("")
	p.line("Solved issue messages")
	for _, m := range r.SolvedIssueMessages {
		if m == "" {
			m = "(no message)"
		}
		p.line("  - %s", m)
	}

	p.line("")
	p.line("Top %d by amount", len(r.Top))
	for i, t := range r.Top {
		p.line("  %d.\t%s\t%d\t%s -> %s", i+1, core.FormatAmount(t.Amount), t.TransactionID, t.Sender, t.Beneficiary)
	}

	if p.err != nil {
		return p.err
	}
	return tw.Flush()
}

// printer remembers the first write error so rendering reads straight through.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func joinIDs(ids []int64) string {
	if len(ids) == 0 {
		return "-"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}
