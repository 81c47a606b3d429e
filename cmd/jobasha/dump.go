// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/alvazir/jobasha-sub000/pkg/esp"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type (
	dumpMaster struct {
		Name string `yaml:"name"`
		Size uint64 `yaml:"size"`
	}

	dumpHeader struct {
		Version     float32      `yaml:"version"`
		Author      string       `yaml:"author,omitempty"`
		Description string       `yaml:"description,omitempty"`
		Records     uint32       `yaml:"records"`
		Masters     []dumpMaster `yaml:"masters,omitempty"`
	}

	dumpEntry struct {
		ID    string `yaml:"id"`
		Level uint16 `yaml:"level"`
	}

	dumpList struct {
		Kind       string      `yaml:"kind"`
		ID         string      `yaml:"id"`
		ListFlags  uint32      `yaml:"list_flags"`
		ChanceNone uint8       `yaml:"chance_none"`
		Entries    []dumpEntry `yaml:"entries"`
	}

	dumpPlugin struct {
		Header dumpHeader `yaml:"header"`
		Lists  []dumpList `yaml:"lists"`
	}
)

// newDumpCommand creates `jobasha dump`, which prints the header and
// leveled lists of a plugin as YAML.
func newDumpCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dump <plugin>",
		Short: "Print the leveled lists of a plugin as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := esp.Load(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			enc := yaml.NewEncoder(app.stdout)
			enc.SetIndent(2)
			if err := enc.Encode(newDumpPlugin(p)); err != nil {
				return fmt.Errorf("failed to encode %s: %w", args[0], err)
			}
			return enc.Close()
		},
	}
}

func newDumpPlugin(p *esp.Plugin) dumpPlugin {
	d := dumpPlugin{Header: dumpHeader{
		Version:     p.Header.Version,
		Author:      p.Header.Author,
		Description: p.Header.Description,
		Records:     p.Header.NumObjects,
	}}
	for _, m := range p.Header.Masters {
		d.Header.Masters = append(d.Header.Masters, dumpMaster{Name: m.Name, Size: m.Size})
	}
	for _, rec := range p.Records {
		kind, l, ok := esp.Leveled(rec)
		if !ok {
			continue
		}
		dl := dumpList{
			Kind:       kind.String(),
			ID:         l.ID,
			ListFlags:  uint32(l.ListFlags),
			ChanceNone: l.ChanceNone,
			Entries:    make([]dumpEntry, len(l.Entries)),
		}
		for i, e := range l.Entries {
			dl.Entries[i] = dumpEntry{ID: e.ID, Level: e.Level}
		}
		d.Lists = append(d.Lists, dl)
	}
	return d
}
