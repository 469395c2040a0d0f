package allocator

// Ledger holds the organisation-wide running sums over accepted publications.
// It is only updated by AllocationState.Commit and AllocationState.Revoke.
type Ledger struct {
	ContributionSum   float64
	MonographSum      float64
	PhDAndOutsiderSum float64
}

// With returns the ledger as it would be after accepting pub owned by author
func (l Ledger) With(pub *Publication, author *Author) Ledger {
	l.ContributionSum += pub.Contribution
	if pub.IsMonograph {
		l.MonographSum += pub.Contribution
	}
	if author.IsPhDOrOutsider() {
		l.PhDAndOutsiderSum += pub.Contribution
	}
	return l
}

// Without returns the ledger as it would be after revoking pub owned by author
func (l Ledger) Without(pub *Publication, author *Author) Ledger {
	l.ContributionSum -= pub.Contribution
	if pub.IsMonograph {
		l.MonographSum -= pub.Contribution
	}
	if author.IsPhDOrOutsider() {
		l.PhDAndOutsiderSum -= pub.Contribution
	}
	return l
}

// RebuildLedger recomputes the ledger from the pool's accepted publications
func RebuildLedger(pool *Pool) Ledger {
	var ledger Ledger
	for i := range pool.Publications {
		pub := &pool.Publications[i]
		if !pub.Accepted {
			continue
		}
		ledger = ledger.With(pub, &pool.Authors[pub.AuthorIndex])
	}
	return ledger
}
