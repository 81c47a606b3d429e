// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"testing"

	"github.com/alvazir/jobasha-sub000/pkg/esp"
)

// E builds a leveled list entry.
func E(id string, level uint16) esp.Entry {
	return esp.Entry{ID: id, Level: level}
}

// Creatures builds a leveled creature list.
func Creatures(id string, entries ...esp.Entry) *esp.LeveledCreature {
	return &esp.LeveledCreature{LeveledList: esp.LeveledList{ID: id, Entries: entries}}
}

// Items builds a leveled item list.
func Items(id string, entries ...esp.Entry) *esp.LeveledItem {
	return &esp.LeveledItem{LeveledList: esp.LeveledList{ID: id, Entries: entries}}
}

// Plugin builds a plugin holding records, with a header counting them.
func Plugin(records ...esp.Record) *esp.Plugin {
	return &esp.Plugin{
		Header: esp.Header{
			Version:    esp.DefaultVersion,
			FileType:   esp.FileTypeESP,
			NumObjects: uint32(len(records)),
		},
		Records: records,
	}
}

// MustWritePlugin encodes p into dir/name and returns the path.
func MustWritePlugin(t testing.TB, dir, name string, p *esp.Plugin) string {
	t.Helper()
	data, err := esp.Marshal(p)
	if err != nil {
		t.Fatalf("failed to encode %s: %v", name, err)
	}
	return MustWriteFile(t, dir, name, data)
}
