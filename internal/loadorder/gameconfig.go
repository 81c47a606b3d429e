// SPDX-License-Identifier: MPL-2.0

package loadorder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/alvazir/jobasha-sub000/internal/config"
	"github.com/alvazir/jobasha-sub000/pkg/platform"

	"golang.org/x/text/encoding/charmap"
	"gopkg.in/ini.v1"
)

const (
	// DialectMorrowind is Morrowind.ini: GameFileN=<plugin>.
	DialectMorrowind Dialect = iota
	// DialectOpenMW is openmw.cfg: data="<dir>" and content=<plugin>.
	DialectOpenMW
)

type (
	// Dialect identifies the game configuration format.
	Dialect int

	// GameConfig is a parsed game configuration file.
	GameConfig struct {
		Path    string
		Dialect Dialect
		// DataRoots are the declared data directories in declaration order.
		DataRoots []string
		// Content are plugin names in load order, first declaration kept.
		Content []string
	}
)

// String returns the dialect name.
func (d Dialect) String() string {
	if d == DialectOpenMW {
		return "openmw.cfg"
	}
	return "Morrowind.ini"
}

// FindGameConfig returns explicit when set, otherwise the first existing file
// among extra, Morrowind.ini and openmw.cfg in the current directory, and the
// platform OpenMW configuration locations.
func FindGameConfig(explicit string, extra []string, env platform.Env) (string, error) {
	if explicit != "" {
		if !isFile(explicit) {
			return "", fmt.Errorf("%s: %w", explicit, ErrGameConfigNotFound)
		}
		return explicit, nil
	}

	candidates := make([]string, 0, len(extra)+5)
	candidates = append(candidates, extra...)
	candidates = append(candidates, platform.MorrowindINI, platform.OpenMWConfig)
	candidates = append(candidates, platform.GameConfigCandidates(env)...)
	for _, c := range candidates {
		if isFile(c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("searched %s: %w", strings.Join(candidates, ", "), ErrGameConfigNotFound)
}

// ParseGameConfig reads path and detects its dialect from its keys. Files
// that are not valid UTF-8 are read as Windows-1252, the encoding the
// original engine writes.
func ParseGameConfig(path string, guts *config.Guts) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read game configuration: %w", err)
	}
	if !utf8.Valid(data) {
		if decoded, derr := charmap.Windows1252.NewDecoder().Bytes(data); derr == nil {
			data = decoded
		}
	}

	f, err := ini.LoadSources(ini.LoadOptions{
		AllowShadows:            true,
		IgnoreContinuation:      true,
		IgnoreInlineComment:     true,
		PreserveSurroundedQuote: true,
		SkipUnrecognizableLines: true,
		KeyValueDelimiters:      "=",
	}, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse game configuration: %w", err)
	}

	cfg := &GameConfig{Path: path, Dialect: DialectMorrowind}
	seen := make(map[string]struct{})
	addContent := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		key := foldName(name)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		cfg.Content = append(cfg.Content, name)
	}

	base := filepath.Dir(path)
	for _, section := range f.Sections() {
		for _, key := range section.Keys() {
			name := key.Name()
			switch {
			case name == guts.OpenmwDataKey:
				cfg.Dialect = DialectOpenMW
				for _, v := range key.ValueWithShadows() {
					dir := unquoteOpenMW(v)
					if dir == "" {
						continue
					}
					if !filepath.IsAbs(dir) {
						dir = filepath.Join(base, dir)
					}
					cfg.DataRoots = append(cfg.DataRoots, dir)
				}
			case name == guts.OpenmwContentKey:
				cfg.Dialect = DialectOpenMW
				for _, v := range key.ValueWithShadows() {
					addContent(v)
				}
			case strings.HasPrefix(name, guts.GameFilePrefix):
				for _, v := range key.ValueWithShadows() {
					addContent(v)
				}
			}
		}
	}

	if cfg.Dialect == DialectMorrowind {
		cfg.DataRoots = []string{filepath.Join(base, guts.MorrowindDataDir)}
	}
	return cfg, nil
}

// unquoteOpenMW strips surrounding quotes from a data= value and resolves
// the '&' escapes ("&&" is '&', "&\"" is '"').
func unquoteOpenMW(v string) string {
	v = strings.TrimSpace(v)
	if len(v) < 2 || v[0] != '"' {
		return v
	}
	var b strings.Builder
	for i := 1; i < len(v); i++ {
		c := v[i]
		switch {
		case c == '&' && i+1 < len(v) && (v[i+1] == '&' || v[i+1] == '"'):
			b.WriteByte(v[i+1])
			i++
		case c == '"':
			return b.String()
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
