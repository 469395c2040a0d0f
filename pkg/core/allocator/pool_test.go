package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachCandidates_DropsIneligible(t *testing.T) {
	pool := NewPool()
	idx := pool.AddAuthor(employee("a", 1))

	attached, err := pool.AttachCandidates(idx, []Publication{
		article("p1", 10, 1),
		article("p2", 0, 1),
		article("p3", 5, 0),
	})

	require.NoError(t, err)
	assert.Equal(t, 1, attached)
	assert.Equal(t, 1, pool.PairCount())
	require.Len(t, pool.Publications, 1)
	assert.Equal(t, "p1", pool.Publications[0].ID)
	assert.Equal(t, idx, pool.Publications[0].AuthorIndex)
	assert.True(t, pool.Authors[idx].IsLoaded())
}

func TestAttachCandidates_ClearsIncomingAcceptance(t *testing.T) {
	pool := NewPool()
	idx := pool.AddAuthor(employee("x", 1))
	marked := article("px", 10, 1)
	marked.Accepted = true

	_, err := pool.AttachCandidates(idx, []Publication{marked})
	require.NoError(t, err)

	assert.False(t, pool.Publications[0].Accepted)
	assert.Empty(t, pool.AcceptedIndices())
	assert.Equal(t, 0.0, pool.Objective())

	state := NewAllocationState(pool, DefaultConstraints(OrgCounts{Employees: 1}, DefaultLimits()))
	assert.Equal(t, Ledger{}, state.Ledger)
	assert.Empty(t, ValidateAllocation(state))
}

func TestAttachCandidates_AlreadyLoaded(t *testing.T) {
	pool := NewPool()
	idx := pool.AddAuthor(employee("a", 1))
	_, err := pool.AttachCandidates(idx, []Publication{article("p1", 10, 1)})
	require.NoError(t, err)

	_, err = pool.AttachCandidates(idx, []Publication{article("p2", 10, 1)})

	assert.ErrorIs(t, err, ErrCandidatesAlreadyLoaded)
	assert.Len(t, pool.Publications, 1)
}

func TestAttachCandidates_UnknownAuthor(t *testing.T) {
	pool := NewPool()

	_, err := pool.AttachCandidates(3, []Publication{article("p1", 10, 1)})

	assert.ErrorIs(t, err, ErrUnknownAuthor)
}

func TestAcceptedPublications_NotLoaded(t *testing.T) {
	pool := NewPool()
	idx := pool.AddAuthor(employee("a", 1))

	_, err := pool.AcceptedPublications(idx)
	assert.ErrorIs(t, err, ErrCandidatesNotLoaded)

	_, err = pool.CandidatePublications(idx)
	assert.ErrorIs(t, err, ErrCandidatesNotLoaded)
}

func TestOwner_ReturnsAttachedAuthor(t *testing.T) {
	pool := twoAuthorPool(t)

	owner, err := pool.Owner(1)
	require.NoError(t, err)
	assert.Equal(t, "y", owner.ID)

	_, err = pool.Owner(7)
	assert.ErrorIs(t, err, ErrUnknownPublication)
}

func TestClone_IsIndependent(t *testing.T) {
	pool := twoAuthorPool(t)
	pool.markAccepted(0)

	clone := pool.Clone()
	clone.markRevoked(0)
	clone.markAccepted(1)

	assert.True(t, pool.Publications[0].Accepted)
	assert.False(t, pool.Publications[1].Accepted)
	assert.Equal(t, []int{0}, pool.Authors[0].AcceptedIndices)
	assert.Empty(t, pool.Authors[1].AcceptedIndices)
	assert.Equal(t, 1.0, pool.Authors[0].AcceptedContribution)

	assert.Equal(t, []int{1}, clone.AcceptedIndices())
	assert.True(t, clone.Authors[1].IsLoaded())
}

func TestObjective_SumsAcceptedPoints(t *testing.T) {
	pool := twoAuthorPool(t)
	assert.Equal(t, 0.0, pool.Objective())

	pool.markAccepted(0)
	pool.markAccepted(1)

	assert.Equal(t, 15.0, pool.Objective())
	assert.Equal(t, []int{0, 1}, pool.AcceptedIndices())
}
