// SPDX-License-Identifier: MPL-2.0

// Package loadorder turns a game configuration file into the ordered list of
// plugins jobasha reads.
//
// Two configuration dialects are understood: Morrowind.ini, where GameFile
// keys name plugins stored in the sibling "Data Files" directory, and
// openmw.cfg, where data= lines declare search roots and content= lines name
// plugins resolved against them (the last root holding a plugin wins).
package loadorder
