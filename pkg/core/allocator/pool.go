package allocator

import (
	"fmt"
	"slices"
)

// Pool is the arena owning every author and publication of a run.
// Publications refer to their author by index and authors list their publications by index.
type Pool struct {
	Authors      []Author
	Publications []Publication
}

// NewPool creates an empty pool
func NewPool() *Pool {
	return &Pool{
		Authors:      []Author{},
		Publications: []Publication{},
	}
}

// AddAuthor appends an author and returns its index
func (p *Pool) AddAuthor(author Author) int {
	author.CandidateIndices = nil
	author.AcceptedIndices = nil
	author.AcceptedContribution = 0
	author.AcceptedMonographContribution = 0
	author.loaded = false
	p.Authors = append(p.Authors, author)
	return len(p.Authors) - 1
}

// AttachCandidates attaches an author's publications. Ineligible publications
// (zero points or zero contribution) are dropped. Attached publications start unaccepted;
// seeding acceptances is the job of the initial selection.
//
// Returns the number of publications attached.
func (p *Pool) AttachCandidates(authorIdx int, publications []Publication) (int, error) {
	author, err := p.author(authorIdx)
	if err != nil {
		return 0, err
	}
	if author.loaded {
		return 0, fmt.Errorf("author %s: %w", author.ID, ErrCandidatesAlreadyLoaded)
	}

	author.CandidateIndices = []int{}
	author.AcceptedIndices = []int{}

	for _, pub := range publications {
		if !pub.IsEligible() {
			continue
		}
		pub.AuthorIndex = authorIdx
		pub.Accepted = false
		p.Publications = append(p.Publications, pub)
		author.CandidateIndices = append(author.CandidateIndices, len(p.Publications)-1)
	}

	author.loaded = true
	return len(author.CandidateIndices), nil
}

// AcceptedPublications returns the accepted publication indices of an author
func (p *Pool) AcceptedPublications(authorIdx int) ([]int, error) {
	author, err := p.loadedAuthor(authorIdx)
	if err != nil {
		return nil, err
	}
	return slices.Clone(author.AcceptedIndices), nil
}

// CandidatePublications returns the candidate publication indices of an author
func (p *Pool) CandidatePublications(authorIdx int) ([]int, error) {
	author, err := p.loadedAuthor(authorIdx)
	if err != nil {
		return nil, err
	}
	return slices.Clone(author.CandidateIndices), nil
}

// PairCount returns the total number of (author, candidate publication) pairs
func (p *Pool) PairCount() int {
	count := 0
	for i := range p.Authors {
		count += len(p.Authors[i].CandidateIndices)
	}
	return count
}

// AcceptedIndices returns the indices of every accepted publication in arena order
func (p *Pool) AcceptedIndices() []int {
	accepted := []int{}
	for i := range p.Publications {
		if p.Publications[i].Accepted {
			accepted = append(accepted, i)
		}
	}
	return accepted
}

// Objective returns the total points of all accepted publications
func (p *Pool) Objective() float64 {
	total := 0.0
	for i := range p.Publications {
		if p.Publications[i].Accepted {
			total += p.Publications[i].Points
		}
	}
	return total
}

// Owner returns the owning author of a publication
func (p *Pool) Owner(pubIdx int) (*Author, error) {
	pub, err := p.publication(pubIdx)
	if err != nil {
		return nil, err
	}
	return p.loadedAuthor(pub.AuthorIndex)
}

// Clone returns a deep copy of the pool so an independent run can mutate it
func (p *Pool) Clone() *Pool {
	clone := &Pool{
		Authors:      make([]Author, len(p.Authors)),
		Publications: slices.Clone(p.Publications),
	}
	for i, author := range p.Authors {
		author.CandidateIndices = slices.Clone(author.CandidateIndices)
		author.AcceptedIndices = slices.Clone(author.AcceptedIndices)
		clone.Authors[i] = author
	}
	return clone
}

// markAccepted records an acceptance on the author and publication.
// Callers must have checked the constraints.
func (p *Pool) markAccepted(pubIdx int) {
	pub := &p.Publications[pubIdx]
	author := &p.Authors[pub.AuthorIndex]

	pub.Accepted = true
	author.AcceptedIndices = append(author.AcceptedIndices, pubIdx)
	author.AcceptedContribution += pub.Contribution
	if pub.IsMonograph {
		author.AcceptedMonographContribution += pub.Contribution
	}
}

// markRevoked reverts markAccepted
func (p *Pool) markRevoked(pubIdx int) {
	pub := &p.Publications[pubIdx]
	author := &p.Authors[pub.AuthorIndex]

	pub.Accepted = false
	if i := slices.Index(author.AcceptedIndices, pubIdx); i >= 0 {
		author.AcceptedIndices = slices.Delete(author.AcceptedIndices, i, i+1)
	}
	author.AcceptedContribution -= pub.Contribution
	if pub.IsMonograph {
		author.AcceptedMonographContribution -= pub.Contribution
	}
	if len(author.AcceptedIndices) == 0 {
		// Drop accumulated float drift once nothing is accepted
		author.AcceptedContribution = 0
		author.AcceptedMonographContribution = 0
	}
}

// resetAcceptance clears every acceptance and running sum
func (p *Pool) resetAcceptance() {
	for i := range p.Publications {
		p.Publications[i].Accepted = false
	}
	for i := range p.Authors {
		if p.Authors[i].loaded {
			p.Authors[i].AcceptedIndices = []int{}
		}
		p.Authors[i].AcceptedContribution = 0
		p.Authors[i].AcceptedMonographContribution = 0
	}
}

func (p *Pool) author(authorIdx int) (*Author, error) {
	if authorIdx < 0 || authorIdx >= len(p.Authors) {
		return nil, fmt.Errorf("author index %d: %w", authorIdx, ErrUnknownAuthor)
	}
	return &p.Authors[authorIdx], nil
}

func (p *Pool) loadedAuthor(authorIdx int) (*Author, error) {
	author, err := p.author(authorIdx)
	if err != nil {
		return nil, err
	}
	if !author.loaded {
		return nil, fmt.Errorf("author %s: %w", author.ID, ErrCandidatesNotLoaded)
	}
	return author, nil
}

func (p *Pool) publication(pubIdx int) (*Publication, error) {
	if pubIdx < 0 || pubIdx >= len(p.Publications) {
		return nil, fmt.Errorf("publication index %d: %w", pubIdx, ErrUnknownPublication)
	}
	return &p.Publications[pubIdx], nil
}
