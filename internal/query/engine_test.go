package query

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.openly.dev/pointy"

	"txquery/internal/core"
)

func requireAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, got.Equal(amount(want)), "expected %s, got %s", want, got)
}

func TestEngine_Fixture(t *testing.T) {
	e := NewEngine(fixtureRecords())

	t.Run("total amount", func(t *testing.T) {
		requireAmount(t, "2889.17", e.TotalAmount())
	})

	t.Run("total amount sent by", func(t *testing.T) {
		requireAmount(t, "678.06", e.TotalAmountSentBy("Tom Shelby"))
		requireAmount(t, "985", e.TotalAmountSentBy("Arthur Shelby"))
		requireAmount(t, "0", e.TotalAmountSentBy("Nobody"))
	})

	t.Run("max amount", func(t *testing.T) {
		requireAmount(t, "985", e.MaxAmount())
	})

	t.Run("unique clients", func(t *testing.T) {
		require.Equal(t, 14, e.UniqueClientCount())
	})

	t.Run("open compliance issues", func(t *testing.T) {
		assert.True(t, e.HasOpenComplianceIssue("Tom Shelby"))
		assert.True(t, e.HasOpenComplianceIssue("Arthur Shelby"))
		assert.False(t, e.HasOpenComplianceIssue("Aberama Gold"))
		assert.False(t, e.HasOpenComplianceIssue("Nobody"))
	})

	t.Run("transactions by beneficiary", func(t *testing.T) {
		idx := e.TransactionsByBeneficiary()
		require.Len(t, idx.Transactions("Michael Gray"), 3)
		require.Equal(t, []string{
			"Alfie Solomons", "Arthur Shelby", "Aunt Polly", "Ben Younger", "Oswald Mosley",
			"MacTavern", "Michael Gray", "Winston Churchill", "Major Campbell", "Luca Changretta",
		}, idx.Names())
		require.Equal(t, 10, idx.Len())
		require.Nil(t, idx.Transactions("Nobody"))
	})

	t.Run("unsolved issue ids", func(t *testing.T) {
		ids := e.UnsolvedIssueIDs()
		assert.True(t, ids.Contains(1))
		assert.True(t, ids.Contains(3))
		assert.False(t, ids.Contains(2))
		require.Equal(t, []int64{1, 3, 15, 54, 99}, ids.Sorted())
	})

	t.Run("solved issue messages", func(t *testing.T) {
		messages := e.SolvedIssueMessages()
		assert.Contains(t, messages, "Never gonna give you up")
		assert.NotContains(t, messages, "Looks like money laundering")
		require.Equal(t, []string{"Never gonna give you up", "", "Never gonna run around and desert you"}, messages)
	})

	t.Run("top 3 by amount", func(t *testing.T) {
		top := e.Top3ByAmount()
		require.Len(t, top, 3)
		require.Equal(t, []string{"985", "666", "430.2"}, amountsOf(top))
	})

	t.Run("top sender", func(t *testing.T) {
		name, ok := e.TopSender()
		require.True(t, ok)
		require.Equal(t, "Arthur Shelby", name)
	})

	t.Run("counts", func(t *testing.T) {
		require.Equal(t, 13, e.Len())
		require.Equal(t, 10, e.DistinctTransactionCount())
	})
}

func TestEngine_Empty(t *testing.T) {
	for name, e := range map[string]*Engine{"nil": NewEngine(nil), "empty": NewEngine([]core.TransactionRecord{})} {
		t.Run(name, func(t *testing.T) {
			requireAmount(t, "0", e.TotalAmount())
			requireAmount(t, "0", e.TotalAmountSentBy("Tom Shelby"))
			requireAmount(t, "0", e.MaxAmount())
			require.Zero(t, e.UniqueClientCount())
			require.False(t, e.HasOpenComplianceIssue("Tom Shelby"))
			require.Zero(t, e.TransactionsByBeneficiary().Len())
			require.Zero(t, e.UnsolvedIssueIDs().Len())
			require.Empty(t, e.SolvedIssueMessages())
			require.Empty(t, e.Top3ByAmount())
			require.Empty(t, e.SenderTotals())

			name, ok := e.TopSender()
			require.False(t, ok)
			require.Empty(t, name)
		})
	}
}

func TestEngine_FirstSeenWins(t *testing.T) {
	// same id, different amounts and senders: only the first copy counts
	records := []core.TransactionRecord{
		rec(1, "10", "Ada Thorne", 30, "John Shelby", 40, noIssue),
		rec(1, "500", "Alfie Solomons", 33, "John Shelby", 40, noIssue),
		rec(2, "20", "Alfie Solomons", 33, "Ada Thorne", 30, noIssue),
	}
	e := NewEngine(records)

	requireAmount(t, "30", e.TotalAmount())
	requireAmount(t, "20", e.TotalAmountSentBy("Alfie Solomons"))
	requireAmount(t, "500", e.MaxAmount())

	top := e.Top3ByAmount()
	require.Equal(t, []string{"20", "10"}, amountsOf(top))
	require.Equal(t, "Ada Thorne", top[1].SenderFullName)

	name, ok := e.TopSender()
	require.True(t, ok)
	require.Equal(t, "Alfie Solomons", name)

	// grouping and client counting ignore deduplication
	require.Len(t, e.TransactionsByBeneficiary().Transactions("John Shelby"), 2)
	require.Equal(t, 3, e.UniqueClientCount())
}

func TestEngine_TopByAmountStableOnTies(t *testing.T) {
	records := []core.TransactionRecord{
		rec(1, "50", "A", 1, "X", 1, noIssue),
		rec(2, "70", "B", 1, "X", 1, noIssue),
		rec(3, "50", "C", 1, "X", 1, noIssue),
		rec(4, "50", "D", 1, "X", 1, noIssue),
	}
	e := NewEngine(records)

	top := e.Top3ByAmount()
	require.Len(t, top, 3)
	require.Equal(t, []int64{2, 1, 3}, []int64{top[0].TransactionID, top[1].TransactionID, top[2].TransactionID})

	require.Len(t, e.TopByAmount(10), 4)
	require.Empty(t, e.TopByAmount(0))
	require.Empty(t, e.TopByAmount(-1))
}

func TestEngine_TopSenderTieGoesToFirstSeen(t *testing.T) {
	records := []core.TransactionRecord{
		rec(1, "40", "Esme Shelby", 30, "X", 1, noIssue),
		rec(2, "100", "Jessie Eden", 30, "X", 1, noIssue),
		rec(3, "60", "Esme Shelby", 30, "X", 1, noIssue),
	}
	e := NewEngine(records)

	totals := e.SenderTotals()
	require.Len(t, totals, 2)
	require.Equal(t, "Esme Shelby", totals[0].Name)
	requireAmount(t, "100", totals[0].Amount)

	name, ok := e.TopSender()
	require.True(t, ok)
	require.Equal(t, "Esme Shelby", name)
}

func TestEngine_SnapshotIsIsolated(t *testing.T) {
	records := fixtureRecords()
	e := NewEngine(records)

	records[0].Amount = amount("100000")
	records[0].SenderFullName = "Changed"
	*records[0].IssueID = 2
	records[1].IssueSolved = false

	requireAmount(t, "2889.17", e.TotalAmount())
	requireAmount(t, "678.06", e.TotalAmountSentBy("Tom Shelby"))
	require.True(t, e.UnsolvedIssueIDs().Contains(1))
	require.Equal(t, "Never gonna give you up", e.SolvedIssueMessages()[0])
}

func TestEngine_ResultsDoNotAlias(t *testing.T) {
	e := NewEngine(fixtureRecords())

	top := e.Top3ByAmount()
	top[0].Amount = amount("1")
	require.Equal(t, []string{"985", "666", "430.2"}, amountsOf(e.Top3ByAmount()))

	idx := e.TransactionsByBeneficiary()
	names := idx.Names()
	names[0] = "Changed"
	require.Equal(t, "Alfie Solomons", idx.Names()[0])

	group := idx.Transactions("Michael Gray")
	group[0].BeneficiaryFullName = "Changed"
	require.Equal(t, "Michael Gray", idx.Transactions("Michael Gray")[0].BeneficiaryFullName)

	require.Nil(t, idx.Transactions("Nobody"))
}

func TestEngine_ResultPointersDoNotAlias(t *testing.T) {
	e := NewEngine(fixtureRecords())
	messagesBefore := e.SolvedIssueMessages()

	top := e.Top3ByAmount()
	for i := range top {
		*top[i].IssueID = 42
		*top[i].IssueMessage = "Changed"
	}

	idx := e.TransactionsByBeneficiary()
	group := idx.Transactions("Arthur Shelby")
	for i := range group {
		*group[i].IssueID = 42
		*group[i].IssueMessage = "Looks like money laundering"
	}

	unsolved := e.UnsolvedIssueIDs()
	require.True(t, unsolved.Contains(1))
	require.True(t, unsolved.Contains(15))
	require.False(t, unsolved.Contains(42))
	require.Equal(t, []int64{1, 3, 15, 54, 99}, unsolved.Sorted())
	require.Equal(t, messagesBefore, e.SolvedIssueMessages())
	require.Equal(t, "Never gonna give you up", *idx.Transactions("Arthur Shelby")[0].IssueMessage)
	require.Equal(t, int64(15), *e.Top3ByAmount()[0].IssueID)
}

func TestEngine_OpenIssueAsBeneficiaryOnly(t *testing.T) {
	r := rec(1, "10", "Ada Thorne", 30, "John Shelby", 40, noIssue)
	r.IssueID = pointy.Int64(9)
	r.IssueSolved = false
	e := NewEngine([]core.TransactionRecord{r})

	require.True(t, e.HasOpenComplianceIssue("John Shelby"))
	require.True(t, e.HasOpenComplianceIssue("Ada Thorne"))
	require.Equal(t, []int64{9}, e.UnsolvedIssueIDs().Sorted())
}
