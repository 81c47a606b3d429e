// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alvazir/jobasha-sub000/internal/compare"
	"github.com/alvazir/jobasha-sub000/internal/config"
	"github.com/alvazir/jobasha-sub000/internal/plan"
	"github.com/alvazir/jobasha-sub000/internal/testutil"
	"github.com/alvazir/jobasha-sub000/pkg/esp"
	"github.com/alvazir/jobasha-sub000/pkg/platform"
	"github.com/alvazir/jobasha-sub000/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	e        = testutil.E
	fixedNow = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
)

type world struct {
	data string
	out  string
	s    *config.Settings
	deps Deps
}

// newWorld lays out a data directory holding plugins (in load order) and an
// openmw.cfg naming them.
func newWorld(t *testing.T, plugins map[string]*esp.Plugin, order ...string) *world {
	t.Helper()
	root := t.TempDir()
	w := &world{data: filepath.Join(root, "data"), out: filepath.Join(root, "out")}
	testutil.MustMkdirAll(t, w.data)

	var cfg strings.Builder
	cfg.WriteString("data=\"" + w.data + "\"\n")
	for _, name := range order {
		testutil.MustWritePlugin(t, w.data, name, plugins[name])
		cfg.WriteString("content=" + name + "\n")
	}

	w.s = config.DefaultSettings()
	w.s.Options.Config = testutil.MustWriteFile(t, root, "openmw.cfg", []byte(cfg.String()))
	w.s.Options.OutputDir = w.out
	w.deps = Deps{
		Env:  &platform.Env{GOOS: platform.Linux, Home: t.TempDir(), Getenv: func(string) string { return "" }},
		Now:  fixedNow,
		Rand: rand.New(rand.NewPCG(1, 2)),
	}
	return w
}

func (w *world) run(t *testing.T) *Outcome {
	t.Helper()
	out, err := Run(context.Background(), w.s, w.deps)
	require.NoError(t, err)
	return out
}

func appendWorld(t *testing.T) *world {
	t.Helper()
	return newWorld(t, map[string]*esp.Plugin{
		"P1.esm": testutil.Plugin(testutil.Items("L", e("b", 2), e("a", 1))),
		"P2.esp": testutil.Plugin(testutil.Items("L", e("c", 3), e("a", 1), e("b", 2))),
		"P3.esp": testutil.Plugin(testutil.Items("L", e("a", 1), e("b", 2), e("d", 4)), testutil.Creatures("C", e("rat", 1))),
	}, "P1.esm", "P2.esp", "P3.esp")
}

func masterNames(p *esp.Plugin) []string {
	out := make([]string, len(p.Header.Masters))
	for i, m := range p.Header.Masters {
		out[i] = m.Name
	}
	return out
}

func TestRunWritesMergedPlugin(t *testing.T) {
	t.Parallel()

	w := appendWorld(t)
	out := w.run(t)

	assert.Equal(t, types.ExitSuccess, out.ExitCode())
	assert.Len(t, out.LoadOrder.Plugins, 3)
	require.Len(t, out.Written, 1)
	assert.Equal(t, filepath.Join(w.out, config.DefaultOutput), out.Written[0])

	written, err := esp.Load(out.Written[0])
	require.NoError(t, err)
	require.Len(t, written.Records, 1, "the single-definition creature list is left alone")
	list, ok := written.Records[0].(*esp.LeveledItem)
	require.True(t, ok)
	assert.Equal(t, []esp.Entry{e("a", 1), e("b", 2), e("c", 3), e("d", 4)}, list.Entries)
	assert.Equal(t, []string{"P1.esm", "P2.esp", "P3.esp"}, masterNames(written))

	require.Len(t, out.Comparisons, 1)
	assert.Contains(t, out.Comparisons[0].Result.Unavailable, "does not exist")
	assert.False(t, out.Differences())
}

func TestRunSecondPassIsUnchanged(t *testing.T) {
	t.Parallel()

	w := appendWorld(t)
	first := w.run(t)
	second := w.run(t)

	require.Len(t, second.Comparisons, 1)
	assert.True(t, second.Comparisons[0].Result.Equal())
	assert.Equal(t, testutil.MustReadFile(t, first.Written[0]), testutil.MustReadFile(t, second.Written[0]))
	assert.FileExists(t, second.Written[0]+config.BackupSuffix)
}

func TestRunCompareOnly(t *testing.T) {
	t.Parallel()

	w := appendWorld(t)
	path := w.run(t).Written[0]
	before := testutil.MustReadFile(t, path)

	testutil.MustWritePlugin(t, w.data, "P3.esp", testutil.Plugin(testutil.Items("L", e("a", 1), e("b", 2), e("d", 6))))
	w.s.Options.CompareOnly = true
	out := w.run(t)

	assert.Empty(t, out.Written)
	assert.Equal(t, before, testutil.MustReadFile(t, path), "compare-only never writes")
	assert.True(t, out.Differences())
	assert.Equal(t, types.ExitDifferences, out.ExitCode())

	lines := out.Comparisons[0].Result.Lists
	assert.Contains(t, lines, compare.Line{Op: compare.OpChange, Text: `Item "d" [4 -> 6] in list "L"`})
}

func TestRunCompareWith(t *testing.T) {
	t.Parallel()

	w := appendWorld(t)
	w.s.Options.CompareWith = testutil.MustWritePlugin(t, t.TempDir(), "Peer.esp",
		testutil.Plugin(testutil.Items("L", e("a", 1))))
	out := w.run(t)

	require.Len(t, out.Comparisons, 1)
	assert.Equal(t, w.s.Options.CompareWith, out.Comparisons[0].Peer)
	assert.Equal(t, compare.Counts{Added: 3}, out.Comparisons[0].Result.Summary[esp.KindItem])
	assert.Equal(t, types.ExitSuccess, out.ExitCode(), "differences only matter in compare-only mode")
}

func TestRunThresholdWarning(t *testing.T) {
	t.Parallel()

	w := newWorld(t, map[string]*esp.Plugin{
		"P1.esm": testutil.Plugin(testutil.Items("L", e("a", 1), e("b", 2), e("c", 3), e("d", 4))),
		"P2.esp": testutil.Plugin(testutil.Items("L", e("a", 1))),
	}, "P1.esm", "P2.esp")
	out := w.run(t)

	assert.True(t, out.Plan.Warning)
	assert.Equal(t, types.ExitWarnings, out.ExitCode())
	assert.Empty(t, out.Written, "nothing differs from the last definition")
	require.Len(t, out.Plan.Messages, 1)
	assert.Equal(t, plan.ClassThreshold, out.Plan.Messages[0].Class)
}

func TestRunDelevSeparate(t *testing.T) {
	t.Parallel()

	w := newWorld(t, map[string]*esp.Plugin{
		"P1.esm": testutil.Plugin(testutil.Creatures("C", e("rat", 10))),
		"P2.esp": testutil.Plugin(testutil.Creatures("C", e("rat", 10), e("wolf", 20))),
		"P3.esp": testutil.Plugin(testutil.Creatures("C", e("rat", 10), e("bear", 15))),
	}, "P1.esm", "P2.esp", "P3.esp")
	w.s.Options.Delev = true
	w.s.Options.DelevDistinct = true
	out := w.run(t)

	require.Len(t, out.Written, 2)
	assert.Len(t, out.Comparisons, 2)

	merged, err := esp.Load(out.Written[0])
	require.NoError(t, err)
	assert.Equal(t, []esp.Entry{e("rat", 10), e("bear", 15), e("wolf", 20)}, merged.Records[0].(*esp.LeveledCreature).Entries)

	deleveled, err := esp.Load(out.Written[1])
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(w.out, config.DefaultDelevOutput), out.Written[1])
	assert.Equal(t, []esp.Entry{e("bear", 1), e("rat", 1), e("wolf", 1)}, deleveled.Records[0].(*esp.LeveledCreature).Entries)
	names := masterNames(deleveled)
	assert.Equal(t, config.DefaultOutput, names[len(names)-1])
}

func TestRunDateSuffix(t *testing.T) {
	t.Parallel()

	w := appendWorld(t)
	w.s.Options.DateSuffix = true
	out := w.run(t)

	require.Len(t, out.Written, 1)
	assert.Equal(t, "MergedLeveledLists - 2024-05-01.esp", filepath.Base(out.Written[0]))
}

func TestRunDryRun(t *testing.T) {
	t.Parallel()

	w := appendWorld(t)
	w.s.Options.DryRun = true
	out := w.run(t)

	require.Len(t, out.Written, 1)
	_, err := os.Stat(w.out)
	assert.True(t, os.IsNotExist(err))
}

func TestRunCanceled(t *testing.T) {
	t.Parallel()

	w := appendWorld(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, w.s, w.deps)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOutcomeExitCode(t *testing.T) {
	t.Parallel()

	differs := []Comparison{{Result: &compare.Result{Lists: []compare.Line{{Op: compare.OpAdd, Text: "x"}}}}}
	unavailable := []Comparison{{Result: &compare.Result{Unavailable: "unable to compare"}}}

	tests := []struct {
		name string
		out  Outcome
		want types.ExitCode
	}{
		{"clean", Outcome{Plan: &plan.Plan{}}, types.ExitSuccess},
		{"warning", Outcome{Plan: &plan.Plan{Warning: true}}, types.ExitWarnings},
		{"differences outside compare-only", Outcome{Plan: &plan.Plan{}, Comparisons: differs}, types.ExitSuccess},
		{"differences", Outcome{Plan: &plan.Plan{}, Comparisons: differs, CompareOnly: true}, types.ExitDifferences},
		{"differences and warning", Outcome{Plan: &plan.Plan{Warning: true}, Comparisons: differs, CompareOnly: true}, types.ExitDifferences},
		{"no peer", Outcome{Plan: &plan.Plan{}, Comparisons: unavailable, CompareOnly: true}, types.ExitSuccess},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.out.ExitCode())
		})
	}
}
