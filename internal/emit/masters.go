// SPDX-License-Identifier: MPL-2.0

package emit

import (
	"cmp"
	"fmt"
	"math"
	"os"
	"slices"

	"github.com/alvazir/jobasha-sub000/internal/aggregate"
	"github.com/alvazir/jobasha-sub000/internal/logging"
	"github.com/alvazir/jobasha-sub000/pkg/esp"

	"github.com/dustin/go-humanize"
)

type (
	// master is one accumulated master declaration.
	master struct {
		// order is the load order index; credit is the insertion index.
		order  int
		credit int
		name   string
		size   uint64
	}

	// Masters accumulates the masters of one output plugin. Keys are
	// case-preserving plugin names.
	Masters struct {
		byName       map[string]*master
		IgnoreErrors bool
		Logger       *logging.Logger
	}
)

// NewMasters creates an empty accumulator.
func NewMasters(ignoreErrors bool, logger *logging.Logger) *Masters {
	return &Masters{byName: make(map[string]*master), IgnoreErrors: ignoreErrors, Logger: logger}
}

// Credit declares src as a master. The size is read from disk once; a
// failure is fatal unless errors are ignored, in which case the size is 0.
func (m *Masters) Credit(src *aggregate.Source) error {
	if _, ok := m.byName[src.Name]; ok {
		return nil
	}
	size, err := fileSize(src.Path)
	if err != nil {
		if !m.IgnoreErrors {
			return fmt.Errorf("failed to read size of master %q: %w", src.Name, err)
		}
		if m.Logger != nil {
			m.Logger.Warn("Master size unknown, declaring 0", "plugin", src.Name, "error", err)
		}
		size = 0
	}
	m.byName[src.Name] = &master{order: src.Index, credit: len(m.byName), name: src.Name, size: size}
	return nil
}

// CreditAll credits every source in order.
func (m *Masters) CreditAll(sources []*aggregate.Source) error {
	for _, s := range sources {
		if err := m.Credit(s); err != nil {
			return err
		}
	}
	return nil
}

// Add declares a master that is not part of the load order, such as the
// merge plugin written by this run. It sorts after every credited master.
func (m *Masters) Add(name string, size uint64) {
	m.byName[name] = &master{order: math.MaxInt, credit: len(m.byName), name: name, size: size}
}

// Len returns the number of masters.
func (m *Masters) Len() int { return len(m.byName) }

// List returns the masters in load order.
func (m *Masters) List() []esp.Master {
	all := make([]*master, 0, len(m.byName))
	for _, v := range m.byName {
		all = append(all, v)
	}
	slices.SortFunc(all, func(a, b *master) int {
		return cmp.Or(cmp.Compare(a.order, b.order), cmp.Compare(a.credit, b.credit))
	})
	out := make([]esp.Master, len(all))
	for i, v := range all {
		out[i] = esp.Master{Name: v.name, Size: v.size}
	}
	return out
}

// Describe renders the masters for the log.
func (m *Masters) Describe() []string {
	list := m.List()
	out := make([]string, len(list))
	for i, v := range list {
		out[i] = fmt.Sprintf("%s (%s)", v.Name, humanize.IBytes(v.Size))
	}
	return out
}

func fileSize(path string) (uint64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%s is a directory", path)
	}
	return uint64(info.Size()), nil
}
