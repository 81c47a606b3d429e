// SPDX-License-Identifier: MPL-2.0

package esp

import (
	"fmt"
	"slices"
)

const (
	// FileTypeESP is the plugin file type.
	FileTypeESP FileType = 0
	// FileTypeESM is the master file type.
	FileTypeESM FileType = 1
	// FileTypeESS is the saved game file type.
	FileTypeESS FileType = 32

	// DefaultVersion is the header format version written by the game's
	// construction set (1.3).
	DefaultVersion float32 = 1.3
)

const (
	// KindCreature identifies leveled creature lists (LEVC).
	KindCreature Kind = iota
	// KindItem identifies leveled item lists (LEVI).
	KindItem
)

// Record header flags.
const (
	FlagModified   RecordFlags = 0x0002
	FlagDeleted    RecordFlags = 0x0020
	FlagPersistent RecordFlags = 0x0400
	FlagIgnored    RecordFlags = 0x1000
	FlagBlocked    RecordFlags = 0x2000
)

// Leveled list flags. The bit meaning depends on the list kind.
const (
	// CreatureCalcFromAllLevels makes a creature list pick from every entry at
	// or below the player's level instead of only the closest.
	CreatureCalcFromAllLevels ListFlags = 0x1
	// ItemCalcEachItem makes an item list roll once per count.
	ItemCalcEachItem ListFlags = 0x1
	// ItemCalcFromAllLevels is CreatureCalcFromAllLevels for item lists.
	ItemCalcFromAllLevels ListFlags = 0x2
)

// Tags used by the codec.
const (
	TagTES3 Tag = "TES3"
	TagLEVC Tag = "LEVC"
	TagLEVI Tag = "LEVI"
)

type (
	// Tag is a four character record or subrecord type code.
	Tag string

	// FileType is the HEDR file type field.
	FileType uint32

	// RecordFlags is the record header flags bitset.
	RecordFlags uint32

	// ListFlags is the leveled list DATA bitset.
	ListFlags uint32

	// Kind distinguishes creature lists from item lists.
	Kind int

	// Record is one decoded record following the header.
	Record interface {
		Tag() Tag
	}

	// Master is a prerequisite plugin declared by a header.
	Master struct {
		Name string
		Size uint64
	}

	// Header is the TES3 record that opens every plugin.
	Header struct {
		Flags       RecordFlags
		Version     float32
		FileType    FileType
		Author      string
		Description string
		NumObjects  uint32
		Masters     []Master
	}

	// Entry is one (referent, minimum level) pair of a leveled list.
	Entry struct {
		ID    string
		Level uint16
	}

	// LeveledList holds the fields shared by both leveled list kinds.
	LeveledList struct {
		Flags      RecordFlags
		ID         string
		ListFlags  ListFlags
		ChanceNone uint8
		Entries    []Entry
	}

	// LeveledCreature is a LEVC record.
	LeveledCreature struct {
		LeveledList
	}

	// LeveledItem is a LEVI record.
	LeveledItem struct {
		LeveledList
	}

	// Raw is any other TES3 record, kept as its undecoded body.
	Raw struct {
		RecordTag Tag
		Header1   uint32
		Flags     RecordFlags
		Data      []byte
	}

	// Plugin is a decoded plugin file.
	Plugin struct {
		Header  Header
		Records []Record
	}
)

// Tag implements Record.
func (*LeveledCreature) Tag() Tag { return TagLEVC }

// Tag implements Record.
func (*LeveledItem) Tag() Tag { return TagLEVI }

// Tag implements Record.
func (r *Raw) Tag() Tag { return r.RecordTag }

// String returns the display name used in messages ("Creature" / "Item").
func (k Kind) String() string {
	switch k {
	case KindCreature:
		return "Creature"
	case KindItem:
		return "Item"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Tag returns the record tag of lists of this kind.
func (k Kind) Tag() Tag {
	if k == KindCreature {
		return TagLEVC
	}
	return TagLEVI
}

// entryTag returns the subrecord tag carrying entry identifiers.
func (k Kind) entryTag() Tag {
	if k == KindCreature {
		return "CNAM"
	}
	return "INAM"
}

// Kinds lists both leveled list kinds in output order.
func Kinds() []Kind { return []Kind{KindCreature, KindItem} }

// Leveled returns the list kind and shared fields of r when r is a leveled
// list record.
func Leveled(r Record) (Kind, *LeveledList, bool) {
	switch v := r.(type) {
	case *LeveledCreature:
		return KindCreature, &v.LeveledList, true
	case *LeveledItem:
		return KindItem, &v.LeveledList, true
	default:
		return 0, nil, false
	}
}

// NewLeveled wraps a list into the record type of the given kind.
func NewLeveled(kind Kind, l LeveledList) Record {
	if kind == KindCreature {
		return &LeveledCreature{LeveledList: l}
	}
	return &LeveledItem{LeveledList: l}
}

// Clone returns a deep copy of the list.
func (l *LeveledList) Clone() LeveledList {
	c := *l
	c.Entries = slices.Clone(l.Entries)
	return c
}

// Equal reports whether two plugins carry identical headers and records.
func (p *Plugin) Equal(other *Plugin) bool {
	if p == nil || other == nil {
		return p == other
	}
	if !p.Header.equal(&other.Header) || len(p.Records) != len(other.Records) {
		return false
	}
	for i := range p.Records {
		if !recordsEqual(p.Records[i], other.Records[i]) {
			return false
		}
	}
	return true
}

func (h *Header) equal(o *Header) bool {
	return h.Flags == o.Flags &&
		h.Version == o.Version &&
		h.FileType == o.FileType &&
		h.Author == o.Author &&
		h.Description == o.Description &&
		h.NumObjects == o.NumObjects &&
		slices.Equal(h.Masters, o.Masters)
}

func recordsEqual(a, b Record) bool {
	if a.Tag() != b.Tag() {
		return false
	}
	ka, la, okA := Leveled(a)
	kb, lb, okB := Leveled(b)
	if okA || okB {
		return okA && okB && ka == kb &&
			la.Flags == lb.Flags &&
			la.ID == lb.ID &&
			la.ListFlags == lb.ListFlags &&
			la.ChanceNone == lb.ChanceNone &&
			slices.Equal(la.Entries, lb.Entries)
	}
	ra, rb := a.(*Raw), b.(*Raw)
	return ra.Header1 == rb.Header1 && ra.Flags == rb.Flags && slices.Equal(ra.Data, rb.Data)
}
