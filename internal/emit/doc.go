// SPDX-License-Identifier: MPL-2.0

// Package emit turns a plan into output plugins and writes them.
//
// Each output plugin has its own master accumulator fed by the contributors
// of the lists placed in it. Masters are declared in load order with their
// on-disk sizes. When a separate delev plugin is produced alongside the merge
// plugin, the merge plugin is declared as its last master.
package emit
