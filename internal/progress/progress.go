// SPDX-License-Identifier: MPL-2.0

package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/muesli/termenv"
	"golang.org/x/time/rate"
)

// DefaultInterval is the minimum time between two renders.
const DefaultInterval = 100 * time.Millisecond

const clearLine = "\r\x1b[2K"

type (
	// Options configure a Bar.
	Options struct {
		// Width is the bar width in cells.
		Width int
		// Label precedes the bar.
		Label string
		// Profile is the color profile of the terminal.
		Profile termenv.Profile
		// Interval overrides DefaultInterval when non-zero.
		Interval time.Duration
	}

	// Bar renders progress to a terminal. A nil *Bar is a valid no-op.
	Bar struct {
		mu      sync.Mutex
		out     io.Writer
		label   string
		model   progress.Model
		limiter *rate.Limiter
		drawn   bool
	}
)

// New creates a Bar writing to out.
func New(out io.Writer, opts Options) *Bar {
	interval := opts.Interval
	if interval == 0 {
		interval = DefaultInterval
	}
	popts := []progress.Option{progress.WithDefaultGradient(), progress.WithColorProfile(opts.Profile)}
	if opts.Width > 0 {
		popts = append(popts, progress.WithWidth(opts.Width))
	}
	model := progress.New(popts...)
	return &Bar{
		out:     out,
		label:   opts.Label,
		model:   model,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Set records that done of total steps are complete. The last step is
// always rendered; others are dropped when they arrive too fast.
func (b *Bar) Set(done, total int) {
	if b == nil || total <= 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if done < total && !b.limiter.Allow() {
		return
	}
	percent := float64(done) / float64(total)
	fmt.Fprintf(b.out, "%s%s %s %d/%d", clearLine, b.label, b.model.ViewAs(percent), done, total)
	b.drawn = true
}

// Tick adapts Set to callbacks reporting (done, total).
func (b *Bar) Tick() func(done, total int) {
	if b == nil {
		return nil
	}
	return b.Set
}

// Clear erases the bar if it was drawn.
func (b *Bar) Clear() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.drawn {
		fmt.Fprint(b.out, clearLine)
		b.drawn = false
	}
}
