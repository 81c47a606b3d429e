// SPDX-License-Identifier: MPL-2.0

package benchmark

import (
	"context"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alvazir/jobasha-sub000/internal/aggregate"
	"github.com/alvazir/jobasha-sub000/internal/config"
	"github.com/alvazir/jobasha-sub000/internal/pipeline"
	"github.com/alvazir/jobasha-sub000/internal/plan"
	"github.com/alvazir/jobasha-sub000/internal/testutil"
	"github.com/alvazir/jobasha-sub000/pkg/esp"
	"github.com/alvazir/jobasha-sub000/pkg/platform"
)

const (
	// benchPlugins is the load order length of the synthetic game.
	benchPlugins = 40
	// benchLists is the number of distinct lists per kind.
	benchLists = 200
	// benchEntries is the entry count of each base list.
	benchEntries = 12
)

// syntheticLoadOrder builds a master defining every list and plugins that
// each append to, delete from or rewrite a slice of them. The result is
// deterministic.
func syntheticLoadOrder() []*esp.Plugin {
	r := rand.New(rand.NewPCG(42, 42))
	plugins := make([]*esp.Plugin, benchPlugins)

	base := make([][]esp.Entry, benchLists)
	var records []esp.Record
	for i := range benchLists {
		for j := range benchEntries {
			base[i] = append(base[i], testutil.E(fmt.Sprintf("ent_%03d_%02d", i, j), uint16(1+r.IntN(40))))
		}
		records = append(records,
			testutil.Creatures(fmt.Sprintf("lc_%03d", i), base[i]...),
			testutil.Items(fmt.Sprintf("li_%03d", i), base[i]...))
	}
	plugins[0] = testutil.Plugin(records...)

	for p := 1; p < benchPlugins; p++ {
		var recs []esp.Record
		for i := range benchLists {
			if r.IntN(4) != 0 {
				continue
			}
			entries := append([]esp.Entry(nil), base[i]...)
			switch r.IntN(3) {
			case 0:
				entries = append(entries, testutil.E(fmt.Sprintf("mod_%02d_%03d", p, i), uint16(1+r.IntN(60))))
			case 1:
				entries = entries[:len(entries)-1-r.IntN(3)]
			default:
				entries[r.IntN(len(entries))].Level += 5
			}
			if r.IntN(2) == 0 {
				recs = append(recs, testutil.Creatures(fmt.Sprintf("lc_%03d", i), entries...))
			} else {
				recs = append(recs, testutil.Items(fmt.Sprintf("li_%03d", i), entries...))
			}
		}
		plugins[p] = testutil.Plugin(recs...)
	}
	return plugins
}

func pluginName(i int) string {
	if i == 0 {
		return "Base.esm"
	}
	return fmt.Sprintf("Mod%02d.esp", i)
}

// BenchmarkDecode benchmarks reading the header and leveled lists of a
// large plugin. This exercises the hot path in pkg/esp/decode.go.
func BenchmarkDecode(b *testing.B) {
	data, err := esp.Marshal(syntheticLoadOrder()[0])
	if err != nil {
		b.Fatalf("Marshal failed: %v", err)
	}

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for b.Loop() {
		if _, err := esp.DecodeBytes(data); err != nil {
			b.Fatalf("DecodeBytes failed: %v", err)
		}
	}
}

// BenchmarkAggregate benchmarks folding the whole load order into
// aggregated lists.
func BenchmarkAggregate(b *testing.B) {
	plugins := syntheticLoadOrder()
	opts := aggregate.OptionsFrom(config.DefaultSettings())

	b.ResetTimer()
	for b.Loop() {
		a := aggregate.New(opts)
		for i, p := range plugins {
			a.AddPlugin(&aggregate.Source{Index: i, Name: pluginName(i)}, p.Records)
		}
		if lists := a.Finish(); len(lists) != 2*benchLists {
			b.Fatalf("got %d lists, want %d", len(lists), 2*benchLists)
		}
	}
}

// BenchmarkPlan benchmarks planning with deletions and segmented
// deleveling enabled.
func BenchmarkPlan(b *testing.B) {
	s := config.DefaultSettings()
	s.Options.Delev = true
	s.Options.DelevTo = 5
	s.Options.DelevSegment = 20
	s.Options.DelevSegmentProgressive = true

	a := aggregate.New(aggregate.OptionsFrom(s))
	for i, p := range syntheticLoadOrder() {
		a.AddPlugin(&aggregate.Source{Index: i, Name: pluginName(i)}, p.Records)
	}
	lists := a.Finish()
	planner := &plan.Planner{Settings: s, Rand: rand.New(rand.NewPCG(1, 1))}

	b.ResetTimer()
	for b.Loop() {
		if _, err := planner.Plan(context.Background(), lists); err != nil {
			b.Fatalf("Plan failed: %v", err)
		}
	}
}

// BenchmarkFullPipeline benchmarks a complete pass over plugins on disk,
// from game configuration to the compared output.
func BenchmarkFullPipeline(b *testing.B) {
	root := b.TempDir()
	data := filepath.Join(root, "data")

	var cfg strings.Builder
	cfg.WriteString("data=\"" + data + "\"\n")
	for i, p := range syntheticLoadOrder() {
		testutil.MustWritePlugin(b, data, pluginName(i), p)
		cfg.WriteString("content=" + pluginName(i) + "\n")
	}

	s := config.DefaultSettings()
	s.Options.Config = testutil.MustWriteFile(b, root, "openmw.cfg", []byte(cfg.String()))
	s.Options.OutputDir = filepath.Join(root, "out")
	s.Options.NoBackup = true
	deps := pipeline.Deps{
		Env: &platform.Env{GOOS: platform.Linux, Home: root, Getenv: func(string) string { return "" }},
	}

	b.ResetTimer()
	for b.Loop() {
		if _, err := pipeline.Run(context.Background(), s, deps); err != nil {
			b.Fatalf("Run failed: %v", err)
		}
	}
}
