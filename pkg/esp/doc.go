// SPDX-License-Identifier: MPL-2.0

// Package esp reads and writes TES3 plugin files (.esp/.esm/.omwaddon).
//
// Only the records the merger needs are decoded into typed values: the TES3
// header and the two leveled-list kinds (LEVC, LEVI). Every other known record
// is carried as an opaque Raw body so a decoded plugin can be encoded back
// byte-for-byte. A record tag outside the TES3 vocabulary stops decoding with
// an UnexpectedTagError, which callers may choose to treat as "skip this
// plugin".
//
// File organization:
//   - types.go: records, flags and the Plugin/Header model
//   - decode.go: Decode/Load
//   - encode.go: Encode/Marshal
//   - strings.go: Windows-1252 zero-terminated and fixed-width strings
package esp
