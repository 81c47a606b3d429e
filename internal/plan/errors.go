// SPDX-License-Identifier: MPL-2.0

package plan

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alvazir/jobasha-sub000/internal/aggregate"
	"github.com/alvazir/jobasha-sub000/pkg/esp"

	"github.com/davecgh/go-spew/spew"
)

// ErrConsistency is the sentinel error wrapped by ConsistencyError.
var ErrConsistency = errors.New("internal consistency error")

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
	MaxDepth:                4,
}

// ConsistencyError reports a deletion whose target is missing from the
// merged entries. State is a dump of the aggregated list.
type ConsistencyError struct {
	Kind    esp.Kind
	List    string
	Entry   string
	Level   uint16
	Initial string
	Plugins []string
	State   string
}

func newConsistencyError(l *aggregate.List, d aggregate.Deletion) *ConsistencyError {
	plugins := make([]string, len(d.Plugins))
	for i, p := range d.Plugins {
		plugins[i] = p.Name
	}
	state := struct {
		Union     []esp.Entry
		First     []esp.Entry
		Deletions []aggregate.Key
		Count     int
	}{Union: l.Union, First: l.First, Count: l.Count}
	for _, del := range l.Deletions {
		state.Deletions = append(state.Deletions, del.Key)
	}
	return &ConsistencyError{
		Kind:    l.Kind,
		List:    l.ID(),
		Entry:   d.Entry.ID,
		Level:   d.Entry.Level,
		Initial: l.Initial.Name,
		Plugins: plugins,
		State:   dumper.Sdump(state),
	}
}

// Error implements the error interface.
func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%s list %q: entry %q (level %d) to delete is missing from the merged list (initial plugin %q, deleted by %s)",
		e.Kind, e.List, e.Entry, e.Level, e.Initial, strings.Join(e.Plugins, ", "))
}

// Unwrap returns ErrConsistency for errors.Is() compatibility.
func (e *ConsistencyError) Unwrap() error { return ErrConsistency }
