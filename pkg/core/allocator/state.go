package allocator

import "fmt"

// AllocationState is the mutable state of a run: the pool, the global ledger, and the
// constraints both are checked against. All acceptance changes go through Commit and Revoke.
type AllocationState struct {
	Pool        *Pool
	Ledger      Ledger
	Constraints []Constraint
}

// NewAllocationState creates a state over pool with the ledger rebuilt from its current acceptances
func NewAllocationState(pool *Pool, constraints []Constraint) *AllocationState {
	return &AllocationState{
		Pool:        pool,
		Ledger:      RebuildLedger(pool),
		Constraints: constraints,
	}
}

// IsAcceptable runs every constraint against a hypothetical acceptance of the publication.
// Already accepted publications are not acceptable.
func (s *AllocationState) IsAcceptable(pubIdx int) bool {
	pub, err := s.Pool.publication(pubIdx)
	if err != nil || pub.Accepted {
		return false
	}
	for _, constraint := range s.Constraints {
		if !constraint.Allows(s, pub) {
			return false
		}
	}
	return true
}

// Commit accepts a publication. The owning author's quotas are re-checked here and are
// authoritative: Commit may refuse a candidate that IsAcceptable passed earlier.
//
// Returns false (no error) when already accepted or when an author-scoped constraint rejects it.
func (s *AllocationState) Commit(pubIdx int) (bool, error) {
	pub, err := s.Pool.publication(pubIdx)
	if err != nil {
		return false, err
	}
	author, err := s.Pool.loadedAuthor(pub.AuthorIndex)
	if err != nil {
		return false, fmt.Errorf("publication %s: %w", pub.ID, err)
	}

	if pub.Accepted {
		return false, nil
	}

	for _, constraint := range s.Constraints {
		if constraint.Scope() != ScopeAuthor {
			continue
		}
		if !constraint.Allows(s, pub) {
			return false, nil
		}
	}

	s.Pool.markAccepted(pubIdx)
	s.Ledger = s.Ledger.With(pub, author)
	return true, nil
}

// Revoke reverts an acceptance, returning its contribution to the author and the organisation
func (s *AllocationState) Revoke(pubIdx int) error {
	pub, err := s.Pool.publication(pubIdx)
	if err != nil {
		return err
	}
	author, err := s.Pool.loadedAuthor(pub.AuthorIndex)
	if err != nil {
		return fmt.Errorf("publication %s: %w", pub.ID, err)
	}
	if !pub.Accepted {
		return fmt.Errorf("publication %s of author %s: %w", pub.ID, author.ID, ErrPublicationNotAccepted)
	}

	s.Pool.markRevoked(pubIdx)
	s.Ledger = s.Ledger.Without(pub, author)
	return nil
}

// Reset clears every acceptance and zeroes all running sums.
// Returns the publications that were accepted before the reset, in ranking order.
func (s *AllocationState) Reset() []int {
	previous := RankAccepted(s.Pool)
	s.Pool.resetAcceptance()
	s.Ledger = Ledger{}
	return previous
}

// authorOf returns the owning author of a publication known to be attached
func (s *AllocationState) authorOf(pub *Publication) *Author {
	return &s.Pool.Authors[pub.AuthorIndex]
}
