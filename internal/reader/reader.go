// SPDX-License-Identifier: MPL-2.0

package reader

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/alvazir/jobasha-sub000/internal/config"
	"github.com/alvazir/jobasha-sub000/internal/issue"
	"github.com/alvazir/jobasha-sub000/internal/loadorder"
	"github.com/alvazir/jobasha-sub000/internal/logging"
	"github.com/alvazir/jobasha-sub000/pkg/esp"

	"golang.org/x/sync/errgroup"
)

// Diagnostic severities.
const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type (
	// Severity classifies a Diagnostic.
	Severity string

	// Diagnostic is a non-fatal problem met while reading.
	Diagnostic struct {
		Severity Severity
		Plugin   string
		Message  string
		Cause    error
	}

	// Loaded is a decoded plugin. Data holds the header and leveled lists only.
	Loaded struct {
		Plugin  loadorder.Plugin
		Data    *esp.Plugin
		Records int
	}

	// Skipped is a plugin left out because of an unexpected record tag.
	Skipped struct {
		Name string
		Tag  esp.Tag
	}

	// Result is the outcome of Read, in load order.
	Result struct {
		Loaded      []Loaded
		Skipped     []Skipped
		Diagnostics []Diagnostic
		Records     int
	}

	// Reader decodes plugins.
	Reader struct {
		// SkipAllTags skips a plugin with any unexpected tag.
		SkipAllTags bool
		// SkipTags are the unexpected tags whose plugins are skipped.
		SkipTags map[esp.Tag]struct{}
		// IgnoreErrors demotes decode failures to warnings.
		IgnoreErrors bool
		// Parallelism bounds concurrent decodes; zero means one per CPU.
		Parallelism int
		Logger      *logging.Logger
		// Tick is called after each plugin is decoded. It may be nil.
		Tick func(done, total int)
	}

	slot struct {
		loaded  *Loaded
		skipped *Skipped
		diag    *Diagnostic
	}
)

// New creates a Reader from settings.
func New(s *config.Settings, logger *logging.Logger) *Reader {
	r := &Reader{
		SkipAllTags:  s.Options.SkipUnexpectedTags,
		SkipTags:     make(map[esp.Tag]struct{}),
		IgnoreErrors: s.Options.IgnoreErrors,
		Logger:       logger,
	}
	if !s.Options.NoSkipUnexpectedTagsDefault {
		for _, tag := range s.Guts.UnexpectedTagsDefault {
			r.SkipTags[esp.Tag(tag)] = struct{}{}
		}
	}
	return r
}

// Read decodes every plugin of lo. Decoding runs in parallel; results are
// returned in load order.
func (r *Reader) Read(ctx context.Context, lo *loadorder.LoadOrder) (*Result, error) {
	slots := make([]slot, len(lo.Plugins))
	var done atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	limit := r.Parallelism
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	g.SetLimit(limit)
	for i, p := range lo.Plugins {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s, err := r.readOne(p)
			if err != nil {
				return err
			}
			slots[i] = s
			if r.Tick != nil {
				r.Tick(int(done.Add(1)), len(lo.Plugins))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{}
	for _, s := range slots {
		switch {
		case s.loaded != nil:
			res.Loaded = append(res.Loaded, *s.loaded)
			res.Records += s.loaded.Records
		case s.skipped != nil:
			res.Skipped = append(res.Skipped, *s.skipped)
			r.Logger.Info("Plugin skipped", "plugin", s.skipped.Name, "tag", string(s.skipped.Tag))
		}
		if s.diag != nil {
			res.Diagnostics = append(res.Diagnostics, *s.diag)
			r.Logger.Warn(s.diag.Message, "plugin", s.diag.Plugin, "error", s.diag.Cause)
		}
	}
	return res, nil
}

func (r *Reader) readOne(p loadorder.Plugin) (slot, error) {
	data, records, err := esp.LoadLists(p.Path)
	if err == nil {
		return slot{loaded: &Loaded{Plugin: p, Data: data, Records: records}}, nil
	}

	var tagErr *esp.UnexpectedTagError
	if errors.As(err, &tagErr) {
		if r.skipTag(tagErr.Tag) {
			return slot{skipped: &Skipped{Name: p.Name, Tag: tagErr.Tag}}, nil
		}
		if r.IgnoreErrors {
			return slot{diag: &Diagnostic{
				Severity: SeverityWarning,
				Plugin:   p.Name,
				Message:  "Plugin with unexpected record ignored",
				Cause:    err,
			}}, nil
		}
		return slot{}, issue.NewErrorContext().
			WithOperation("read plugin").
			WithResource(p.Path).
			WithIssue(issue.UnexpectedTagId).
			WithSuggestion(fmt.Sprintf("Skip plugins with unknown records: --skip-unexpected-tags (tag %s)", tagErr.Tag)).
			Wrap(err).
			BuildError()
	}

	if r.IgnoreErrors {
		return slot{diag: &Diagnostic{
			Severity: SeverityWarning,
			Plugin:   p.Name,
			Message:  "Unreadable plugin ignored",
			Cause:    err,
		}}, nil
	}
	return slot{}, issue.NewErrorContext().
		WithOperation("read plugin").
		WithResource(p.Path).
		WithIssue(issue.PluginDecodeFailedId).
		Wrap(err).
		BuildError()
}

func (r *Reader) skipTag(tag esp.Tag) bool {
	if r.SkipAllTags {
		return true
	}
	_, ok := r.SkipTags[tag]
	return ok
}
