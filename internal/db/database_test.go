package db_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramtk/ram/internal/db"
	"github.com/ramtk/ram/internal/hir"
	"github.com/ramtk/ram/internal/types"
)

func TestItemTreeListsLabels(t *testing.T) {
	store := db.New()
	id := store.AddFile("loop: LOAD 1\nJUMP loop\nHALT\n", types.DurabilityLow)

	tree, err := store.ItemTree(id)
	require.NoError(t, err)
	assert.Equal(t, []string{"loop"}, tree.LabelNames())
}

func TestSetFileTextReportsNoOpSave(t *testing.T) {
	store := db.New()
	id := store.AddFile("HALT\n", types.DurabilityLow)

	assert.False(t, store.Files.SetFileText(id, "HALT\n"), "identical text should be a no-op")
	assert.True(t, store.Files.SetFileText(id, "LOAD =1\nHALT\n"), "different text should report a change")
}

func TestBodyMemoizesUntilTextChanges(t *testing.T) {
	store := db.New()
	id := store.AddFile("LOAD =1\nHALT\n", types.DurabilityLow)
	owner := store.BodiesInFile(id)[0]

	first, err := store.Body(owner)
	require.NoError(t, err)
	second, err := store.Body(owner)
	require.NoError(t, err)
	assert.Same(t, first, second, "unchanged text should return the memoized body")

	store.Files.SetFileText(id, "LOAD =2\nHALT\n")
	third, err := store.Body(owner)
	require.NoError(t, err)
	assert.NotSame(t, first, third, "changed text should recompute the body")
}

func TestDiagnosticsSurfacesParseErrors(t *testing.T) {
	store := db.New()
	id := store.AddFile("LOAD [1\nHALT\n", types.DurabilityLow) // unclosed bracket

	diags, err := store.Diagnostics(id)
	require.NoError(t, err)
	assert.NotEmpty(t, diags)
}

func TestConcurrentBodyCallsCollapseIntoOneComputation(t *testing.T) {
	store := db.New()
	id := store.AddFile("LOAD =1\nHALT\n", types.DurabilityLow)
	owner := store.BodiesInFile(id)[0]

	const callers = 8
	results := make([]*hir.Body, callers)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b, err := store.Body(owner)
			assert.NoError(t, err)
			results[i] = b
		}(i)
	}
	wg.Wait()

	for _, r := range results[1:] {
		assert.Same(t, results[0], r)
	}
}

func TestFileSourceRootRoundTrips(t *testing.T) {
	store := db.New()
	id := store.AddFile("HALT\n", types.DurabilityHigh)
	root := store.Files.AllocSourceRootID()

	store.Files.SetSourceRootWithDurability(root, []types.FileID{id}, types.DurabilityHigh)
	store.Files.SetFileSourceRootWithDurability(id, root, types.DurabilityHigh)

	got, ok := store.Files.FileSourceRoot(id)
	require.True(t, ok)
	assert.Equal(t, root, got.Root)

	sr, ok := store.Files.SourceRoot(root)
	require.True(t, ok)
	assert.Equal(t, []types.FileID{id}, sr.Members)
}

func TestEnsureFileIDIsStablePerPath(t *testing.T) {
	store := db.New()
	first := store.Files.EnsureFileID("src/loop.ram")
	second := store.Files.EnsureFileID("src/loop.ram")
	assert.Equal(t, first, second)

	other := store.Files.EnsureFileID("src/other.ram")
	assert.NotEqual(t, first, other)
}
