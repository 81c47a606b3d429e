// SPDX-License-Identifier: MPL-2.0

package aggregate

import (
	"testing"

	"github.com/alvazir/jobasha-sub000/internal/config"
	"github.com/alvazir/jobasha-sub000/internal/testutil"
	"github.com/alvazir/jobasha-sub000/pkg/esp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var e = testutil.E

type step struct {
	plugin  string
	records []esp.Record
}

func run(t *testing.T, opts Options, steps ...step) ([]*List, map[string]*Source, *Aggregator) {
	t.Helper()
	a := New(opts)
	sources := make(map[string]*Source)
	for i, s := range steps {
		src := &Source{Index: i, Name: s.plugin, Path: "/data/" + s.plugin}
		sources[s.plugin] = src
		a.AddPlugin(src, s.records)
	}
	return a.Finish(), sources, a
}

func defaultOptions() Options {
	return OptionsFrom(config.DefaultSettings())
}

func names(sources []*Source) []string {
	out := make([]string, len(sources))
	for i, s := range sources {
		out[i] = s.Name
	}
	return out
}

func TestSimpleAppend(t *testing.T) {
	t.Parallel()

	lists, _, _ := run(t, defaultOptions(),
		step{"P1.esp", []esp.Record{testutil.Items("L", e("a", 1), e("b", 2))}},
		step{"P2.esp", []esp.Record{testutil.Items("L", e("a", 1), e("b", 2), e("c", 3))}},
	)

	require.Len(t, lists, 1)
	l := lists[0]
	assert.Equal(t, []esp.Entry{e("a", 1), e("b", 2), e("c", 3)}, l.Union)
	assert.Equal(t, []string{"P1.esp", "P2.esp"}, names(l.Masters))
	assert.Empty(t, l.Deletions)
	assert.Equal(t, 2, l.Count)
	assert.Equal(t, "P1.esp", l.Initial.Name)
	assert.Equal(t, "P2.esp", l.LastPlugin.Name)
}

func TestDuplicateEntries(t *testing.T) {
	t.Parallel()

	lists, _, _ := run(t, defaultOptions(),
		step{"P1.esp", []esp.Record{testutil.Creatures("L", e("a", 1), e("a", 1))}},
		step{"P2.esp", []esp.Record{testutil.Creatures("L", e("a", 1))}},
	)

	l := lists[0]
	assert.Equal(t, []esp.Entry{e("a", 1), e("a", 1)}, l.Union)
	assert.Equal(t, []string{"P1.esp"}, names(l.Masters))
	assert.Empty(t, l.Deletions)
}

func TestDuplicateGrowth(t *testing.T) {
	t.Parallel()

	lists, _, _ := run(t, defaultOptions(),
		step{"P1.esp", []esp.Record{testutil.Creatures("L", e("a", 1))}},
		step{"P2.esp", []esp.Record{testutil.Creatures("L", e("A", 1), e("a", 1), e("a", 1))}},
	)

	l := lists[0]
	assert.Equal(t, []esp.Entry{e("a", 1), e("A", 1), e("a", 1)}, l.Union)
	assert.Equal(t, []string{"P1.esp", "P2.esp"}, names(l.Masters))
}

func TestDeletionInference(t *testing.T) {
	t.Parallel()

	lists, src, _ := run(t, defaultOptions(),
		step{"P1.esp", []esp.Record{testutil.Items("L", e("a", 1), e("b", 2), e("c", 3), e("d", 4))}},
		step{"P2.esp", []esp.Record{testutil.Items("L", e("a", 1))}},
		step{"P3.esp", []esp.Record{testutil.Items("L", e("a", 1), e("c", 3))}},
	)

	l := lists[0]
	require.Len(t, l.Deletions, 3)
	assert.Equal(t, Key{ID: "b", Level: 2}, l.Deletions[0].Key)
	assert.Equal(t, []*Source{src["P2.esp"], src["P3.esp"]}, l.Deletions[0].Plugins)
	assert.Equal(t, Key{ID: "c", Level: 3}, l.Deletions[1].Key)
	assert.Equal(t, []*Source{src["P2.esp"]}, l.Deletions[1].Plugins, "P3 kept c")
	assert.Equal(t, []*Source{src["P2.esp"], src["P3.esp"]}, l.Deletions[2].Plugins)
	assert.Equal(t, []*Source{src["P2.esp"], src["P3.esp"]}, l.DeletersOf())

	// Every deleting plugin is a master.
	for _, d := range l.Deletions {
		for _, p := range d.Plugins {
			assert.Contains(t, l.Masters, p)
		}
	}
	// The union never shrinks during aggregation.
	assert.Len(t, l.Union, 4)
}

func TestDeletionOfDuplicatedEntry(t *testing.T) {
	t.Parallel()

	lists, _, _ := run(t, defaultOptions(),
		step{"P1.esp", []esp.Record{testutil.Items("L", e("a", 1), e("a", 1), e("b", 1))}},
		step{"P2.esp", []esp.Record{testutil.Items("L", e("b", 1))}},
		step{"P3.esp", []esp.Record{testutil.Items("L", e("b", 1))}},
	)

	l := lists[0]
	require.Len(t, l.Deletions, 2, "one deletion per dropped copy, not per plugin")
	for _, d := range l.Deletions {
		assert.Len(t, d.Plugins, 2)
	}
}

func TestPartialDuplicateReductionIsNotDeletion(t *testing.T) {
	t.Parallel()

	lists, _, _ := run(t, defaultOptions(),
		step{"P1.esp", []esp.Record{testutil.Items("L", e("a", 1), e("a", 1), e("a", 1), e("b", 1))}},
		step{"P2.esp", []esp.Record{testutil.Items("L", e("a", 1), e("b", 1))}},
	)

	assert.Empty(t, lists[0].Deletions, "a remains, so no copy of it is owed")
}

func TestLevelChangeIsAdditionAndDeletion(t *testing.T) {
	t.Parallel()

	lists, _, _ := run(t, defaultOptions(),
		step{"P1.esp", []esp.Record{testutil.Creatures("L", e("a", 1), e("b", 2))}},
		step{"P2.esp", []esp.Record{testutil.Creatures("L", e("a", 1), e("b", 5))}},
	)

	l := lists[0]
	assert.Equal(t, []esp.Entry{e("a", 1), e("b", 2), e("b", 5)}, l.Union)
	require.Len(t, l.Deletions, 1)
	assert.Equal(t, e("b", 2), l.Deletions[0].Entry)
}

func TestDeletionSuppressed(t *testing.T) {
	t.Parallel()

	steps := []step{
		{"Base.esm", []esp.Record{testutil.Items("L", e("a", 1), e("b", 2))}},
		{"P2.esp", []esp.Record{testutil.Items("L", e("a", 1))}},
	}

	noDelete := defaultOptions()
	noDelete.NoDelete = true
	lists, _, _ := run(t, noDelete, steps...)
	assert.Empty(t, lists[0].Deletions)
	assert.Equal(t, []string{"Base.esm"}, names(lists[0].Masters))

	s := config.DefaultSettings()
	s.Options.NeverDelete = []string{"BASE.ESM"}
	lists, _, _ = run(t, OptionsFrom(s), steps...)
	assert.Empty(t, lists[0].Deletions)

	s.Options.ExtendedDelete = false
	lists, _, _ = run(t, OptionsFrom(s), steps...)
	assert.Len(t, lists[0].Deletions, 1, "never_delete requires extended delete")
}

func TestCoincidingInsertionsCreditBothPlugins(t *testing.T) {
	t.Parallel()

	lists, _, _ := run(t, defaultOptions(),
		step{"P1.esp", []esp.Record{testutil.Creatures("L", e("a", 1))}},
		step{"P2.esp", []esp.Record{testutil.Creatures("L", e("a", 1), e("x", 2))}},
		step{"P3.esp", []esp.Record{testutil.Creatures("L", e("a", 1), e("x", 2))}},
		step{"P4.esp", []esp.Record{testutil.Creatures("L", e("a", 1))}},
	)

	l := lists[0]
	assert.Equal(t, []esp.Entry{e("a", 1), e("x", 2)}, l.Union)
	assert.Equal(t, []string{"P1.esp", "P2.esp", "P3.esp"}, names(l.Masters))
}

func TestFieldsSeen(t *testing.T) {
	t.Parallel()

	first := testutil.Creatures("L", e("a", 1))
	second := testutil.Creatures("l", e("a", 1))
	second.ChanceNone = 25
	second.ListFlags = esp.CreatureCalcFromAllLevels

	lists, _, _ := run(t, defaultOptions(),
		step{"P1.esp", []esp.Record{first}},
		step{"P2.esp", []esp.Record{second}},
	)

	l := lists[0]
	assert.True(t, l.Distinct())
	assert.Equal(t, []uint8{0, 25}, l.ChanceNonesSeen)
	assert.Equal(t, []string{"P1.esp", "P2.esp"}, names(l.Masters))
	assert.Equal(t, "l", l.ID(), "last definition's casing wins")
}

func TestSingleSighting(t *testing.T) {
	t.Parallel()

	lists, _, _ := run(t, defaultOptions(),
		step{"Out.esp", []esp.Record{
			testutil.Creatures("C1", e("a", 1)),
			testutil.Items("I1", e("b", 1)),
			testutil.Items("C1", e("c", 1)),
		}},
	)

	require.Len(t, lists, 3, "creature and item lists with one name are distinct")
	for i, l := range lists {
		assert.Equal(t, i, l.Seq)
		assert.Equal(t, 1, l.Count)
		assert.Empty(t, l.Deletions)
		assert.Empty(t, l.First)
	}
}

func TestDuplicateListsInOnePlugin(t *testing.T) {
	t.Parallel()

	lists, _, a := run(t, defaultOptions(),
		step{"P1.esp", []esp.Record{
			testutil.Items("L", e("a", 1)),
			testutil.Items("Other", e("x", 1)),
			testutil.Items("l", e("b", 1)),
		}},
	)

	require.Len(t, lists, 2)
	assert.Equal(t, "l", lists[0].ID())
	assert.Equal(t, []esp.Entry{e("b", 1)}, lists[0].Union)
	assert.Equal(t, []Duplicate{{Plugin: "P1.esp", Kind: esp.KindItem, ID: "l"}}, a.Duplicates())
}

func TestSkipKinds(t *testing.T) {
	t.Parallel()

	s := config.DefaultSettings()
	s.Options.SkipCreatures = true
	lists, _, _ := run(t, OptionsFrom(s),
		step{"P1.esp", []esp.Record{testutil.Creatures("C", e("a", 1)), testutil.Items("I", e("b", 1))}},
	)
	require.Len(t, lists, 1)
	assert.Equal(t, esp.KindItem, lists[0].Kind)
}

func TestDeterministic(t *testing.T) {
	t.Parallel()

	steps := []step{
		{"P1.esp", []esp.Record{testutil.Items("L", e("a", 1), e("b", 2)), testutil.Creatures("C", e("r", 1))}},
		{"P2.esp", []esp.Record{testutil.Items("L", e("c", 3)), testutil.Creatures("C", e("r", 2))}},
		{"P3.esp", []esp.Record{testutil.Items("L", e("a", 1), e("d", 1))}},
	}
	first, _, _ := run(t, defaultOptions(), steps...)
	for range 5 {
		again, _, _ := run(t, defaultOptions(), steps...)
		require.Len(t, again, len(first))
		for i := range first {
			assert.Equal(t, first[i].Union, again[i].Union)
			assert.Equal(t, names(first[i].Masters), names(again[i].Masters))
			assert.Equal(t, len(first[i].Deletions), len(again[i].Deletions))
		}
	}
}

func TestSortEntries(t *testing.T) {
	t.Parallel()

	entries := []esp.Entry{e("b", 2), e("C", 1), e("a", 2), e("c", 1), e("A", 1)}
	SortEntries(entries)
	assert.Equal(t, []esp.Entry{e("A", 1), e("C", 1), e("c", 1), e("a", 2), e("b", 2)}, entries)
	assert.True(t, IsSorted(entries))
	assert.False(t, IsSorted([]esp.Entry{e("a", 2), e("a", 1)}))

	assert.Equal(t,
		SortedKeys([]esp.Entry{e("X", 3), e("y", 1)}),
		SortedKeys([]esp.Entry{e("Y", 1), e("x", 3)}),
		"reordering and casing are not a difference")
}

func TestContributorsExcludeDeleteOnlyPlugins(t *testing.T) {
	t.Parallel()

	lists, _, _ := run(t, defaultOptions(),
		step{"P1.esp", []esp.Record{testutil.Items("L", e("a", 1), e("b", 2))}},
		step{"P2.esp", []esp.Record{testutil.Items("L", e("a", 1))}},
		step{"P3.esp", []esp.Record{testutil.Items("L", e("a", 1), e("b", 2), e("c", 3))}},
	)

	l := lists[0]
	assert.Equal(t, []string{"P1.esp", "P2.esp", "P3.esp"}, names(l.Masters))
	assert.Equal(t, []string{"P1.esp", "P3.esp"}, names(l.Contributors))
}
