// SPDX-License-Identifier: MPL-2.0

package esp

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

const (
	recordHeaderSize    = 16
	subrecordHeaderSize = 8
	hedrSize            = 300
	authorSize          = 32
	descriptionSize     = 256
)

// knownTags is the TES3 record vocabulary.
var knownTags = map[Tag]struct{}{
	"TES3": {}, "GMST": {}, "GLOB": {}, "CLAS": {}, "FACT": {}, "RACE": {},
	"SOUN": {}, "SKIL": {}, "MGEF": {}, "SCPT": {}, "REGN": {}, "SSCR": {},
	"BSGN": {}, "LTEX": {}, "STAT": {}, "DOOR": {}, "MISC": {}, "WEAP": {},
	"CONT": {}, "SPEL": {}, "CREA": {}, "BODY": {}, "LIGH": {}, "ENCH": {},
	"NPC_": {}, "ARMO": {}, "CLOT": {}, "REPA": {}, "ACTI": {}, "APPA": {},
	"LOCK": {}, "PROB": {}, "INGR": {}, "BOOK": {}, "ALCH": {}, "LEVI": {},
	"LEVC": {}, "CELL": {}, "LAND": {}, "PGRD": {}, "SNDG": {}, "DIAL": {},
	"INFO": {},
}

type subrecord struct {
	tag    Tag
	data   []byte
	offset int64
}

// Load reads and decodes the plugin at path.
func Load(path string) (*Plugin, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// LoadHeader decodes only the header of the plugin at path.
func LoadHeader(path string) (*Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rh [recordHeaderSize]byte
	if _, err := io.ReadFull(f, rh[:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotPlugin, err)
	}
	if Tag(rh[:4]) != TagTES3 {
		return nil, ErrNotPlugin
	}
	size := binary.LittleEndian.Uint32(rh[4:8])
	body := make([]byte, size)
	if _, err := io.ReadFull(f, body); err != nil {
		return nil, &MalformedError{Offset: recordHeaderSize, Reason: "truncated header"}
	}
	return decodeHeader(RecordFlags(binary.LittleEndian.Uint32(rh[12:16])), body, recordHeaderSize)
}

// Decode reads a whole plugin from r.
func Decode(r io.Reader) (*Plugin, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DecodeBytes(data)
}

// DecodeBytes decodes a plugin held in memory.
func DecodeBytes(data []byte) (*Plugin, error) {
	p, _, err := decodeBytes(data, true)
	return p, err
}

// LoadLists reads the plugin at path keeping only its header and leveled
// lists. Every other record is still framed and its tag checked, and the
// total number of records after the header is returned.
func LoadLists(path string) (*Plugin, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	return decodeBytes(data, false)
}

func decodeBytes(data []byte, keepRaw bool) (*Plugin, int, error) {
	var (
		count  int
		p      Plugin
		offset int64
		first  = true
	)
	for int(offset) < len(data) {
		if len(data)-int(offset) < recordHeaderSize {
			return nil, count, &MalformedError{Offset: offset, Reason: "truncated record header"}
		}
		rh := data[offset : offset+recordHeaderSize]
		tag := Tag(rh[:4])
		size := int64(binary.LittleEndian.Uint32(rh[4:8]))
		header1 := binary.LittleEndian.Uint32(rh[8:12])
		flags := RecordFlags(binary.LittleEndian.Uint32(rh[12:16]))
		bodyStart := offset + recordHeaderSize
		if bodyStart+size > int64(len(data)) {
			return nil, count, &MalformedError{Offset: offset, Reason: fmt.Sprintf("record %s overruns file", tag)}
		}
		body := data[bodyStart : bodyStart+size]

		if first {
			if tag != TagTES3 {
				return nil, 0, ErrNotPlugin
			}
			h, err := decodeHeader(flags, body, bodyStart)
			if err != nil {
				return nil, 0, err
			}
			p.Header = *h
			first = false
			offset = bodyStart + size
			continue
		}

		if _, ok := knownTags[tag]; !ok {
			return nil, count, &UnexpectedTagError{Tag: tag, Offset: offset}
		}
		count++

		switch tag {
		case TagLEVC, TagLEVI:
			kind := KindCreature
			if tag == TagLEVI {
				kind = KindItem
			}
			l, err := decodeLeveled(kind, flags, body, bodyStart)
			if err != nil {
				return nil, count, err
			}
			p.Records = append(p.Records, NewLeveled(kind, *l))
		default:
			if !keepRaw {
				break
			}
			p.Records = append(p.Records, &Raw{
				RecordTag: tag,
				Header1:   header1,
				Flags:     flags,
				Data:      append([]byte(nil), body...),
			})
		}
		offset = bodyStart + size
	}
	if first {
		return nil, 0, ErrNotPlugin
	}
	return &p, count, nil
}

func splitSubrecords(body []byte, base int64) ([]subrecord, error) {
	var subs []subrecord
	var off int64
	for int(off) < len(body) {
		if len(body)-int(off) < subrecordHeaderSize {
			return nil, &MalformedError{Offset: base + off, Reason: "truncated subrecord header"}
		}
		tag := Tag(body[off : off+4])
		size := int64(binary.LittleEndian.Uint32(body[off+4 : off+8]))
		start := off + subrecordHeaderSize
		if start+size > int64(len(body)) {
			return nil, &MalformedError{Offset: base + off, Reason: fmt.Sprintf("subrecord %s overruns record", tag)}
		}
		subs = append(subs, subrecord{tag: tag, data: body[start : start+size], offset: base + off})
		off = start + size
	}
	return subs, nil
}

func decodeHeader(flags RecordFlags, body []byte, base int64) (*Header, error) {
	subs, err := splitSubrecords(body, base)
	if err != nil {
		return nil, err
	}
	h := &Header{Flags: flags}
	sawHEDR := false
	for i := 0; i < len(subs); i++ {
		s := subs[i]
		switch s.tag {
		case "HEDR":
			if len(s.data) < hedrSize {
				return nil, &MalformedError{Offset: s.offset, Reason: "short HEDR"}
			}
			h.Version = math.Float32frombits(binary.LittleEndian.Uint32(s.data[0:4]))
			h.FileType = FileType(binary.LittleEndian.Uint32(s.data[4:8]))
			h.Author = decodeString(s.data[8 : 8+authorSize])
			h.Description = decodeString(s.data[8+authorSize : 8+authorSize+descriptionSize])
			h.NumObjects = binary.LittleEndian.Uint32(s.data[296:300])
			sawHEDR = true
		case "MAST":
			m := Master{Name: decodeString(s.data)}
			if i+1 < len(subs) && subs[i+1].tag == "DATA" {
				if len(subs[i+1].data) >= 8 {
					m.Size = binary.LittleEndian.Uint64(subs[i+1].data[:8])
				}
				i++
			}
			h.Masters = append(h.Masters, m)
		}
	}
	if !sawHEDR {
		return nil, &MalformedError{Offset: base, Reason: "missing HEDR"}
	}
	return h, nil
}

func decodeLeveled(kind Kind, flags RecordFlags, body []byte, base int64) (*LeveledList, error) {
	subs, err := splitSubrecords(body, base)
	if err != nil {
		return nil, err
	}
	l := &LeveledList{Flags: flags}
	entryTag := kind.entryTag()
	var pending *Entry
	for _, s := range subs {
		switch s.tag {
		case "NAME":
			l.ID = decodeString(s.data)
		case "DELE":
			l.Flags |= FlagDeleted
		case "DATA":
			if len(s.data) >= 4 {
				l.ListFlags = ListFlags(binary.LittleEndian.Uint32(s.data))
			}
		case "NNAM":
			if len(s.data) >= 1 {
				l.ChanceNone = s.data[0]
			}
		case "INDX":
			if len(s.data) >= 4 {
				// INDX is only a hint; each entry needs its own subrecords.
				n := min(binary.LittleEndian.Uint32(s.data), uint32(len(subs)))
				l.Entries = make([]Entry, 0, n)
			}
		case entryTag:
			if pending != nil {
				l.Entries = append(l.Entries, *pending)
			}
			pending = &Entry{ID: decodeString(s.data)}
		case "INTV":
			if pending == nil {
				return nil, &MalformedError{Offset: s.offset, Reason: fmt.Sprintf("INTV without %s in %s", entryTag, l.ID)}
			}
			if len(s.data) >= 2 {
				pending.Level = binary.LittleEndian.Uint16(s.data)
			}
			l.Entries = append(l.Entries, *pending)
			pending = nil
		}
	}
	if pending != nil {
		l.Entries = append(l.Entries, *pending)
	}
	return l, nil
}
