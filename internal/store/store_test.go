package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphlink/internal/model"
)

func TestUpsertParent_AllocatesSequentialKeys(t *testing.T) {
	s := New()

	first := s.UpsertParent(model.Parent{Name: "Emilie"})
	second := s.UpsertParent(model.Parent{Name: "Sarah"})

	assert.Equal(t, 1, first.PK)
	assert.Equal(t, 2, second.PK)
}

func TestUpsertParent_ReplacesExistingKey(t *testing.T) {
	s := New()

	created := s.UpsertParent(model.Parent{Name: "Emilie"})
	replaced := s.UpsertParent(model.Parent{PK: created.PK, Name: "Amelie"})

	assert.Equal(t, created.PK, replaced.PK)

	stored, ok := s.Parent(created.PK)
	require.True(t, ok)
	assert.Equal(t, "Amelie", stored.Name)

	// Replacing must not consume a fresh key.
	next := s.UpsertParent(model.Parent{Name: "Sarah"})
	assert.Equal(t, 2, next.PK)
}

func TestUpsertParent_DiscardsUnknownSuppliedKey(t *testing.T) {
	s := New()

	created := s.UpsertParent(model.Parent{PK: 42, Name: "Emilie"})

	assert.Equal(t, 1, created.PK)
	_, ok := s.Parent(42)
	assert.False(t, ok)
}

func TestUpsertChild_ReplaceIsWholesale(t *testing.T) {
	s := New()
	parent := s.UpsertParent(model.Parent{Name: "Emilie"})

	created := s.UpsertChild(model.Child{
		Name:     "John",
		Parent:   &parent.PK,
		Siblings: []int{7, 8},
	})

	replaced := s.UpsertChild(model.Child{PK: created.PK, Name: "Johnny"})

	assert.Equal(t, created.PK, replaced.PK)
	assert.Equal(t, "Johnny", replaced.Name)
	assert.Nil(t, replaced.Parent)
	assert.Empty(t, replaced.Siblings)
}

func TestAssignParent_SetsAndOverwritesLink(t *testing.T) {
	s := New()
	first := s.UpsertParent(model.Parent{Name: "Emilie"})
	second := s.UpsertParent(model.Parent{Name: "Sarah"})
	child := s.UpsertChild(model.Child{Name: "John"})

	require.NoError(t, s.AssignParent(first.PK, child.PK))

	stored, ok := s.Child(child.PK)
	require.True(t, ok)
	require.NotNil(t, stored.Parent)
	assert.Equal(t, first.PK, *stored.Parent)

	// Same assignment again is a no-op.
	require.NoError(t, s.AssignParent(first.PK, child.PK))
	stored, _ = s.Child(child.PK)
	assert.Equal(t, first.PK, *stored.Parent)

	// A different parent overwrites the link.
	require.NoError(t, s.AssignParent(second.PK, child.PK))
	stored, _ = s.Child(child.PK)
	assert.Equal(t, second.PK, *stored.Parent)
}

func TestAssignParent_UnknownNodes(t *testing.T) {
	s := New()
	parent := s.UpsertParent(model.Parent{Name: "Emilie"})
	child := s.UpsertChild(model.Child{Name: "John"})

	assert.Error(t, s.AssignParent(parent.PK, 99))
	assert.Error(t, s.AssignParent(99, child.PK))

	stored, ok := s.Child(child.PK)
	require.True(t, ok)
	assert.Nil(t, stored.Parent)
}

func TestLinkSiblings_Symmetric(t *testing.T) {
	s := New()
	john := s.UpsertChild(model.Child{Name: "John"})
	julie := s.UpsertChild(model.Child{Name: "Julie"})

	require.NoError(t, s.LinkSiblings(john.PK, julie.PK))

	gotJohn, _ := s.Child(john.PK)
	gotJulie, _ := s.Child(julie.PK)
	assert.Equal(t, []int{julie.PK}, gotJohn.Siblings)
	assert.Equal(t, []int{john.PK}, gotJulie.Siblings)
}

func TestLinkSiblings_UnknownChildAppliesNothing(t *testing.T) {
	s := New()
	john := s.UpsertChild(model.Child{Name: "John"})

	require.Error(t, s.LinkSiblings(john.PK, 99))
	require.Error(t, s.LinkSiblings(99, john.PK))

	got, ok := s.Child(john.PK)
	require.True(t, ok)
	assert.Empty(t, got.Siblings)
}

func TestChild_ReturnsIndependentCopies(t *testing.T) {
	s := New()
	john := s.UpsertChild(model.Child{Name: "John"})
	julie := s.UpsertChild(model.Child{Name: "Julie"})
	require.NoError(t, s.LinkSiblings(john.PK, julie.PK))

	got, _ := s.Child(john.PK)
	got.Siblings[0] = 999
	got.Name = "mutated"

	stored, _ := s.Child(john.PK)
	assert.Equal(t, []int{julie.PK}, stored.Siblings)
	assert.Equal(t, "John", stored.Name)
}

func TestListings_SortedByPrimaryKey(t *testing.T) {
	s := New()
	for _, name := range []string{"c", "a", "b"} {
		s.UpsertParent(model.Parent{Name: name})
		s.UpsertChild(model.Child{Name: name})
	}

	parents := s.Parents()
	children := s.Children()
	require.Len(t, parents, 3)
	require.Len(t, children, 3)
	for i := 1; i < 3; i++ {
		assert.Less(t, parents[i-1].PK, parents[i].PK)
		assert.Less(t, children[i-1].PK, children[i].PK)
	}
}

func TestConcurrentUpserts_AllocateUniqueKeys(t *testing.T) {
	s := New()

	const workers = 32
	pks := make(chan int, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pks <- s.UpsertChild(model.Child{Name: "worker"}).PK
		}()
	}
	wg.Wait()
	close(pks)

	seen := make(map[int]bool)
	for pk := range pks {
		assert.False(t, seen[pk], "primary key %d allocated twice", pk)
		seen[pk] = true
	}
	assert.Len(t, seen, workers)

	parents, children := s.Counts()
	assert.Equal(t, 0, parents)
	assert.Equal(t, workers, children)
}

func TestReset_RestartsCounters(t *testing.T) {
	s := New()
	s.UpsertParent(model.Parent{Name: "Emilie"})
	s.UpsertChild(model.Child{Name: "John"})

	s.Reset()

	parents, children := s.Counts()
	assert.Equal(t, 0, parents)
	assert.Equal(t, 0, children)

	assert.Equal(t, 1, s.UpsertParent(model.Parent{Name: "Sarah"}).PK)
	assert.Equal(t, 1, s.UpsertChild(model.Child{Name: "Julie"}).PK)
}
