package query

import (
	"slices"

	"txquery/internal/core"
)

// BeneficiaryIndex groups records by beneficiary name. Names iterate in the
// order their first record appeared and records keep input order per name.
type BeneficiaryIndex struct {
	names  []string
	groups map[string][]core.TransactionRecord
}

func newBeneficiaryIndex(records []core.TransactionRecord) *BeneficiaryIndex {
	idx := &BeneficiaryIndex{groups: make(map[string][]core.TransactionRecord)}
	for _, r := range records {
		name := r.BeneficiaryFullName
		if _, ok := idx.groups[name]; !ok {
			idx.names = append(idx.names, name)
		}
		idx.groups[name] = append(idx.groups[name], r)
	}
	return idx
}

// Names returns the beneficiary names in first-occurrence order.
func (b *BeneficiaryIndex) Names() []string {
	return slices.Clone(b.names)
}

// Transactions returns the records received by name, or nil if unknown.
func (b *BeneficiaryIndex) Transactions(name string) []core.TransactionRecord {
	group, ok := b.groups[name]
	if !ok {
		return nil
	}
	return cloneRecords(group)
}

// Len returns the number of distinct beneficiaries.
func (b *BeneficiaryIndex) Len() int {
	return len(b.names)
}

// Sizes returns the group size per beneficiary in name order.
func (b *BeneficiaryIndex) Sizes() []core.GroupSize {
	sizes := make([]core.GroupSize, 0, len(b.names))
	for _, name := range b.names {
		sizes = append(sizes, core.GroupSize{Name: name, Count: len(b.groups[name])})
	}
	return sizes
}

// IssueIDSet is a set of compliance issue ids.
type IssueIDSet map[int64]struct{}

func (s IssueIDSet) Contains(id int64) bool {
	_, ok := s[id]
	return ok
}

func (s IssueIDSet) Len() int {
	return len(s)
}

// Sorted returns the ids in ascending order.
func (s IssueIDSet) Sorted() []int64 {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
