// Package integration exercises fixtures, driver, treesink, and octree
// together end to end, the way a real caller would: load a fixture from
// disk, build a tree from it, and fold its root. Grounded on
// bluesky-social-indigo's `require := require.New(t)` style
// (atproto/client/params_test.go) for the richer assertions a
// cross-package test like this one needs over plain `testing`.
package integration

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"radixtree/driver"
	"radixtree/fixtures"
	"radixtree/octree"
	"radixtree/treesink"
)

func TestLoadFixtureBuildAndCollapse(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.json")

	want := fixtures.Generate("integration", 600, 24, 9001)
	require.NoError(fixtures.Save(path, want))

	set, err := fixtures.Load(path)
	require.NoError(err)
	require.Equal(want.Name, set.Name)
	require.Equal(want.Bits, set.Bits)
	require.Len(set.Codes, len(want.Codes))

	sink := treesink.NewArraySink()
	result, err := driver.Build(set.Codes, driver.Options{
		Bits:        set.Bits,
		MaxLeafSize: 4,
	}, sink)
	require.NoError(err)
	require.Greater(result.TotalNodes, uint32(0))
	require.Greater(result.TotalLeaves, uint32(0))
	require.LessOrEqual(result.TotalLeaves, uint32(len(set.Codes)))

	leaves := sink.Leaves()[:result.TotalLeaves]
	var covered uint32
	for _, r := range leaves {
		require.Greater(r.End, r.Begin)
		covered += r.End - r.Begin
	}
	require.Equal(uint32(len(set.Codes)), covered)

	folded := octree.CollapseTriple(sink.Nodes()[:result.TotalNodes], 0)
	if folded.ChildMask() != 0 {
		first := folded.GetOctant(0)
		require.NotEqual(octree.Invalid, first, "octant 0 (left-left-left) must be active and resolvable via GetOctant for this fixture")
	}
}

func TestLoadFixtureBuildPersistsToSQLite(t *testing.T) {
	require := require.New(t)

	set := fixtures.Generate("sqlite-integration", 64, 12, 4242)

	sqlitePath := filepath.Join(t.TempDir(), "tree.db")
	sink, err := treesink.OpenSQLiteSink(sqlitePath)
	require.NoError(err)
	defer sink.Close()

	result, err := driver.Build(set.Codes, driver.Options{
		Bits:        set.Bits,
		MaxLeafSize: 2,
	}, sink)
	require.NoError(err)
	require.Greater(result.TotalNodes, uint32(0))
}
