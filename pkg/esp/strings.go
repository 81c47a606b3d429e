// SPDX-License-Identifier: MPL-2.0

package esp

import (
	"bytes"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Game data stores text as Windows-1252. In memory everything is UTF-8.

func decodeString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	if isASCII(b) {
		return string(b)
	}
	s, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}

func encodeString(s string) []byte {
	if isASCII([]byte(s)) {
		return []byte(s)
	}
	b, err := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()).Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}
	return b
}

// zstring encodes s with a terminating NUL.
func zstring(s string) []byte {
	return append(encodeString(s), 0)
}

// fixedString encodes s into exactly n bytes, truncating or NUL padding.
func fixedString(s string, n int) []byte {
	out := make([]byte, n)
	copy(out, encodeString(s))
	return out
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return false
		}
	}
	return true
}
