// SPDX-License-Identifier: MPL-2.0

package esp

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
)

// Marshal encodes p into memory.
func Marshal(p *Plugin) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes p to w. The header's NumObjects is written as given.
func Encode(w io.Writer, p *Plugin) error {
	if err := writeRecord(w, TagTES3, 0, p.Header.Flags, encodeHeader(&p.Header)); err != nil {
		return err
	}
	for _, r := range p.Records {
		var err error
		if kind, l, ok := Leveled(r); ok {
			err = writeRecord(w, kind.Tag(), 0, l.Flags, encodeLeveled(kind, l))
		} else {
			raw := r.(*Raw)
			err = writeRecord(w, raw.RecordTag, raw.Header1, raw.Flags, raw.Data)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func writeRecord(w io.Writer, tag Tag, header1 uint32, flags RecordFlags, body []byte) error {
	var rh [recordHeaderSize]byte
	copy(rh[:4], tag)
	binary.LittleEndian.PutUint32(rh[4:8], uint32(len(body)))
	binary.LittleEndian.PutUint32(rh[8:12], header1)
	binary.LittleEndian.PutUint32(rh[12:16], uint32(flags))
	if _, err := w.Write(rh[:]); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}

func putSubrecord(buf *bytes.Buffer, tag Tag, data []byte) {
	var sh [subrecordHeaderSize]byte
	copy(sh[:4], tag)
	binary.LittleEndian.PutUint32(sh[4:8], uint32(len(data)))
	buf.Write(sh[:])
	buf.Write(data)
}

func u16(v uint16) []byte { return binary.LittleEndian.AppendUint16(nil, v) }
func u32(v uint32) []byte { return binary.LittleEndian.AppendUint32(nil, v) }
func u64(v uint64) []byte { return binary.LittleEndian.AppendUint64(nil, v) }

func encodeHeader(h *Header) []byte {
	var buf bytes.Buffer
	hedr := make([]byte, 0, hedrSize)
	hedr = append(hedr, u32(math.Float32bits(h.Version))...)
	hedr = append(hedr, u32(uint32(h.FileType))...)
	hedr = append(hedr, fixedString(h.Author, authorSize)...)
	hedr = append(hedr, fixedString(h.Description, descriptionSize)...)
	hedr = append(hedr, u32(h.NumObjects)...)
	putSubrecord(&buf, "HEDR", hedr)
	for _, m := range h.Masters {
		putSubrecord(&buf, "MAST", zstring(m.Name))
		putSubrecord(&buf, "DATA", u64(m.Size))
	}
	return buf.Bytes()
}

func encodeLeveled(kind Kind, l *LeveledList) []byte {
	var buf bytes.Buffer
	putSubrecord(&buf, "NAME", zstring(l.ID))
	if l.Flags&FlagDeleted != 0 {
		putSubrecord(&buf, "DELE", u32(0))
	}
	putSubrecord(&buf, "DATA", u32(uint32(l.ListFlags)))
	putSubrecord(&buf, "NNAM", []byte{l.ChanceNone})
	putSubrecord(&buf, "INDX", u32(uint32(len(l.Entries))))
	for _, e := range l.Entries {
		putSubrecord(&buf, kind.entryTag(), zstring(e.ID))
		putSubrecord(&buf, "INTV", u16(e.Level))
	}
	return buf.Bytes()
}
