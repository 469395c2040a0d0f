package allocator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// testAuthor is an author together with the candidates attached to it
type testAuthor struct {
	author Author
	pubs   []Publication
}

func withPubs(author Author, pubs ...Publication) testAuthor {
	return testAuthor{author: author, pubs: pubs}
}

func employee(id string, contribution float64) Author {
	return NewAuthor(id, true, false, true, contribution)
}

func phdStudent(id string, contribution float64) Author {
	return NewAuthor(id, false, true, true, contribution)
}

func outsider(id string, contribution float64) Author {
	return NewAuthor(id, true, false, false, contribution)
}

func article(id string, points, contribution float64) Publication {
	return NewPublication(id, false, points, contribution)
}

func monograph(id string, points, contribution float64) Publication {
	return NewPublication(id, true, points, contribution)
}

func buildPool(t *testing.T, authors ...testAuthor) *Pool {
	t.Helper()
	pool := NewPool()
	for _, a := range authors {
		idx := pool.AddAuthor(a.author)
		_, err := pool.AttachCandidates(idx, a.pubs)
		require.NoError(t, err)
	}
	return pool
}

// buildState creates a state with the default constraints for a large organisation,
// so only per-author limits bind unless a test says otherwise
func buildState(t *testing.T, authors ...testAuthor) *AllocationState {
	t.Helper()
	pool := buildPool(t, authors...)
	return NewAllocationState(pool, DefaultConstraints(OrgCounts{Employees: 100}, DefaultLimits()))
}

// pubIndex finds the arena index of the publication with the given id and owner
func pubIndex(t *testing.T, pool *Pool, pubID, authorID string) int {
	t.Helper()
	for i := range pool.Publications {
		pub := &pool.Publications[i]
		if pub.ID == pubID && pool.Authors[pub.AuthorIndex].ID == authorID {
			return i
		}
	}
	t.Fatalf("publication %s of %s not found", pubID, authorID)
	return -1
}

// fakeRandom replays fixed draws. Float64 cycles through floats; Intn always returns 0.
type fakeRandom struct {
	floats []float64
	next   int
	draws  int
}

func (f *fakeRandom) Float64() float64 {
	f.draws++
	if len(f.floats) == 0 {
		return 0.99
	}
	v := f.floats[f.next%len(f.floats)]
	f.next++
	return v
}

func (f *fakeRandom) Intn(n int) int {
	return 0
}

// mockConstraint lets tests control both the veto and the validation result
type mockConstraint struct {
	name       string
	scope      Scope
	allows     bool
	violations []ValidationError
	checked    int
}

func (m *mockConstraint) Name() string {
	return m.name
}

func (m *mockConstraint) Scope() Scope {
	return m.scope
}

func (m *mockConstraint) Allows(state *AllocationState, pub *Publication) bool {
	m.checked++
	return m.allows
}

func (m *mockConstraint) Validate(state *AllocationState) []ValidationError {
	return m.violations
}

// twoAuthorPool is the canonical scenario: X earns 10 points, Y earns 5, both at cost 1.0
func twoAuthorPool(t *testing.T) *Pool {
	t.Helper()
	return buildPool(t,
		withPubs(employee("x", 1.0), article("px", 10, 1.0)),
		withPubs(employee("y", 1.0), article("py", 5, 1.0)),
	)
}
