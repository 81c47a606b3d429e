// SPDX-License-Identifier: MPL-2.0

package emit

import (
	"fmt"
	"time"

	"github.com/alvazir/jobasha-sub000/internal/config"
	"github.com/alvazir/jobasha-sub000/internal/logging"
	"github.com/alvazir/jobasha-sub000/internal/plan"
	"github.com/alvazir/jobasha-sub000/pkg/esp"
)

// Contents of an output plugin, selecting its header description.
const (
	ContentMerge Content = iota + 1
	ContentDelev
	ContentMergeAndDelev
)

type (
	// Content describes what an output plugin carries.
	Content int

	// Output is an encoded plugin ready to be written or compared.
	Output struct {
		Name    string
		Content Content
		Plugin  *esp.Plugin
		Data    []byte
		Masters *Masters
	}

	// Result holds the produced plugins. Either may be nil.
	Result struct {
		Merge *Output
		Delev *Output
	}

	// Builder encodes plans into plugins.
	Builder struct {
		Settings *config.Settings
		Logger   *logging.Logger
		// Now dates output names when date suffixes are on.
		Now time.Time
	}
)

// NewBuilder creates a Builder from settings.
func NewBuilder(s *config.Settings, logger *logging.Logger, now time.Time) *Builder {
	return &Builder{Settings: s, Logger: logger, Now: now}
}

// BuildHeader fills the header of an output plugin.
func BuildHeader(s *config.Settings, content Content, masters []esp.Master, objects int) esp.Header {
	desc := s.Guts.HeaderDescriptionMerge
	switch content {
	case ContentDelev:
		desc = s.Guts.HeaderDescriptionDelev
	case ContentMergeAndDelev:
		desc = s.Guts.HeaderDescriptionMergeAndDelev
	}
	return esp.Header{
		Version:     float32(s.Guts.HeaderVersion),
		FileType:    esp.FileTypeESP,
		Author:      s.Guts.HeaderAuthor,
		Description: desc,
		NumObjects:  uint32(objects),
		Masters:     masters,
	}
}

// Build produces the merge plugin from p.Merge and the delev plugin from
// p.Delev. A plugin with no lists is not produced. When both are produced
// the merge plugin becomes the last master of the delev plugin, declared
// with its encoded size.
func (b *Builder) Build(p *plan.Plan) (*Result, error) {
	res := &Result{}
	if len(p.Merge) > 0 {
		out, err := b.build(b.Settings.OutputName(b.Now), p.Merge, mergeContent(p.Merge), nil)
		if err != nil {
			return nil, err
		}
		res.Merge = out
	}
	if len(p.Delev) > 0 {
		out, err := b.build(b.Settings.DelevOutputName(b.Now), p.Delev, ContentDelev, res.Merge)
		if err != nil {
			return nil, err
		}
		res.Delev = out
	}
	return res, nil
}

func (b *Builder) build(name string, placements []plan.Placement, content Content, after *Output) (*Output, error) {
	masters := NewMasters(b.Settings.Options.IgnoreErrors, b.Logger)
	records := make([]esp.Record, 0, len(placements))
	for _, pl := range placements {
		if err := masters.CreditAll(pl.Contributors); err != nil {
			return nil, err
		}
		records = append(records, esp.NewLeveled(pl.Kind, pl.List))
	}
	if after != nil {
		masters.Add(after.Name, uint64(len(after.Data)))
	}

	plugin := &esp.Plugin{
		Header:  BuildHeader(b.Settings, content, masters.List(), len(records)),
		Records: records,
	}
	data, err := esp.Marshal(plugin)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", name, err)
	}
	if b.Logger != nil {
		b.Logger.Debug("Plugin built", "name", name, "lists", len(records), "masters", masters.Len())
		b.Logger.FileOnly("Masters", "name", name, "masters", masters.Describe())
	}
	return &Output{Name: name, Content: content, Plugin: plugin, Data: data, Masters: masters}, nil
}

func mergeContent(placements []plan.Placement) Content {
	var merged, deleveled bool
	for i := range placements {
		if placements[i].Merged() {
			merged = true
		}
		if len(placements[i].Changes) > 0 {
			deleveled = true
		}
	}
	switch {
	case merged && deleveled:
		return ContentMergeAndDelev
	case deleveled:
		return ContentDelev
	default:
		return ContentMerge
	}
}
