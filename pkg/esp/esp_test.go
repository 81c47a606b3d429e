// SPDX-License-Identifier: MPL-2.0

package esp

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePlugin() *Plugin {
	return &Plugin{
		Header: Header{
			Version:     DefaultVersion,
			FileType:    FileTypeESP,
			Author:      "tester",
			Description: "sample",
			NumObjects:  3,
			Masters: []Master{
				{Name: "Morrowind.esm", Size: 79837557},
				{Name: "Tribunal.esm", Size: 4565686},
			},
		},
		Records: []Record{
			&LeveledCreature{LeveledList{
				ID:         "ex_Rat_Lev",
				ListFlags:  CreatureCalcFromAllLevels,
				ChanceNone: 10,
				Entries:    []Entry{{ID: "rat", Level: 1}, {ID: "Rat_Diseased", Level: 5}},
			}},
			&Raw{RecordTag: "STAT", Flags: FlagPersistent, Data: []byte{1, 2, 3, 4}},
			&LeveledItem{LeveledList{
				Flags:     FlagDeleted,
				ID:        "random_Weapon",
				ListFlags: ItemCalcEachItem | ItemCalcFromAllLevels,
				Entries:   []Entry{{ID: "iron dagger", Level: 1}},
			}},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	p := samplePlugin()
	data, err := Marshal(p)
	require.NoError(t, err)

	got, err := DecodeBytes(data)
	require.NoError(t, err)
	assert.True(t, p.Equal(got), "decoded plugin differs from encoded one")

	again, err := Marshal(got)
	require.NoError(t, err)
	assert.Equal(t, data, again, "re-encoding is not byte-stable")
}

func TestDecodeUnexpectedTag(t *testing.T) {
	t.Parallel()

	p := samplePlugin()
	p.Records = append(p.Records, &Raw{RecordTag: "LUAL", Data: []byte{0}})
	data, err := Marshal(p)
	require.NoError(t, err)

	_, err = DecodeBytes(data)
	require.Error(t, err)
	var ute *UnexpectedTagError
	require.True(t, errors.As(err, &ute))
	assert.Equal(t, Tag("LUAL"), ute.Tag)
	assert.ErrorIs(t, err, ErrUnexpectedTag)
}

func TestDecodeNotPlugin(t *testing.T) {
	t.Parallel()

	_, err := DecodeBytes(nil)
	assert.ErrorIs(t, err, ErrNotPlugin)

	var buf bytes.Buffer
	require.NoError(t, writeRecord(&buf, "STAT", 0, 0, nil))
	_, err = DecodeBytes(buf.Bytes())
	assert.ErrorIs(t, err, ErrNotPlugin)
}

func TestDecodeTruncated(t *testing.T) {
	t.Parallel()

	data, err := Marshal(samplePlugin())
	require.NoError(t, err)

	_, err = DecodeBytes(data[:len(data)-3])
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeOversizedEntryCount(t *testing.T) {
	t.Parallel()

	p := samplePlugin()
	data, err := Marshal(p)
	require.NoError(t, err)

	i := bytes.Index(data, []byte("INDX"))
	require.GreaterOrEqual(t, i, 0)
	binary.LittleEndian.PutUint32(data[i+subrecordHeaderSize:], 0xFFFFFFFF)

	var got *Plugin
	require.NotPanics(t, func() { got, err = DecodeBytes(data) })
	require.NoError(t, err)
	_, l, ok := Leveled(got.Records[0])
	require.True(t, ok)
	assert.Equal(t, []Entry{{ID: "rat", Level: 1}, {ID: "Rat_Diseased", Level: 5}}, l.Entries)
	assert.LessOrEqual(t, cap(l.Entries), 16)
}

func TestWindows1252Identifiers(t *testing.T) {
	t.Parallel()

	p := &Plugin{
		Header: Header{Version: DefaultVersion},
		Records: []Record{&LeveledItem{LeveledList{
			ID:      "Liste_Rüstung",
			Entries: []Entry{{ID: "Bögen", Level: 2}},
		}}},
	}
	data, err := Marshal(p)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(data, []byte{'R', 0xFC, 's'}), "identifier not stored as Windows-1252")

	got, err := DecodeBytes(data)
	require.NoError(t, err)
	_, l, ok := Leveled(got.Records[0])
	require.True(t, ok)
	assert.Equal(t, "Liste_Rüstung", l.ID)
	assert.Equal(t, "Bögen", l.Entries[0].ID)
}

func TestHeaderLayout(t *testing.T) {
	t.Parallel()

	data, err := Marshal(&Plugin{Header: Header{Version: DefaultVersion, NumObjects: 7, Author: "me"}})
	require.NoError(t, err)

	// record header + HEDR subrecord header + 300 byte HEDR
	require.Len(t, data, recordHeaderSize+subrecordHeaderSize+hedrSize)
	assert.Equal(t, "TES3", string(data[:4]))
	assert.Equal(t, uint32(7), binary.LittleEndian.Uint32(data[len(data)-4:]))
}

func TestLoadAndLoadHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sample.esp")
	data, err := Marshal(samplePlugin())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, p.Records, 3)

	h, err := LoadHeader(path)
	require.NoError(t, err)
	assert.Equal(t, samplePlugin().Header, *h)

	lists, count, err := LoadLists(path)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	require.Len(t, lists.Records, 2)
	assert.Equal(t, TagLEVC, lists.Records[0].Tag())
	assert.Equal(t, TagLEVI, lists.Records[1].Tag())
}

func TestLeveledHelpers(t *testing.T) {
	t.Parallel()

	rec := NewLeveled(KindItem, LeveledList{ID: "a"})
	kind, l, ok := Leveled(rec)
	require.True(t, ok)
	assert.Equal(t, KindItem, kind)
	assert.Equal(t, TagLEVI, rec.Tag())
	assert.Equal(t, "a", l.ID)

	_, _, ok = Leveled(&Raw{RecordTag: "STAT"})
	assert.False(t, ok)

	assert.Equal(t, "Creature", KindCreature.String())
	assert.Equal(t, "Item", KindItem.String())

	orig := LeveledList{Entries: []Entry{{ID: "x", Level: 1}}}
	c := orig.Clone()
	c.Entries[0].Level = 9
	assert.Equal(t, uint16(1), orig.Entries[0].Level)
}
