// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	// MorrowindINI is the original engine's configuration file name.
	MorrowindINI = "Morrowind.ini"
	// OpenMWConfig is the OpenMW configuration file name.
	OpenMWConfig = "openmw.cfg"

	flatpakApp = "org.openmw.OpenMW"
	snapApp    = "openmw"
)

// Env abstracts the process environment so location rules are testable
// without touching process-wide state.
type Env struct {
	GOOS    string
	Home    string
	Getenv  func(string) string
	PathSep string
}

// CurrentEnv returns the environment of the running process.
func CurrentEnv() Env {
	home, _ := os.UserHomeDir()
	return Env{GOOS: runtime.GOOS, Home: home, Getenv: os.Getenv}
}

// GameConfigCandidates returns the OpenMW user configuration files to try,
// most specific first.
func GameConfigCandidates(env Env) []string {
	var dirs []string
	switch env.GOOS {
	case Windows:
		dirs = append(dirs, env.join(env.documents(), "My Games", "OpenMW"))
	case Darwin:
		dirs = append(dirs, env.join(env.Home, "Library", "Preferences", "openmw"))
	default:
		dirs = append(dirs,
			env.join(env.xdg("XDG_CONFIG_HOME", ".config"), "openmw"),
			env.join(env.Home, ".var", "app", flatpakApp, "config", "openmw"),
			env.join(env.Home, "snap", snapApp, "current", ".config", "openmw"),
		)
	}

	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		out = append(out, env.join(d, OpenMWConfig))
	}
	return out
}

// HiddenDataDirs returns the two OpenMW user data directories that act as an
// implicit last data root: the native one and the sandboxed (or alternate)
// one.
func HiddenDataDirs(env Env) []string {
	switch env.GOOS {
	case Windows:
		return []string{
			env.join(env.documents(), "My Games", "OpenMW", "data"),
			env.join(env.localAppData(), "openmw", "data"),
		}
	case Darwin:
		return []string{
			env.join(env.Home, "Library", "Application Support", "openmw", "data"),
			env.join(env.Home, "Library", "Preferences", "openmw", "data"),
		}
	default:
		return []string{
			env.join(env.xdg("XDG_DATA_HOME", filepath.Join(".local", "share")), "openmw", "data"),
			env.join(env.Home, ".var", "app", flatpakApp, "data", "openmw", "data"),
		}
	}
}

func (e Env) getenv(key string) string {
	if e.Getenv == nil {
		return ""
	}
	return e.Getenv(key)
}

func (e Env) xdg(key, fallback string) string {
	if v := e.getenv(key); v != "" {
		return v
	}
	return e.join(e.Home, fallback)
}

func (e Env) localAppData() string {
	if v := e.getenv("LOCALAPPDATA"); v != "" {
		return v
	}
	return e.join(e.Home, "AppData", "Local")
}

func (e Env) documents() string {
	if profile := e.getenv("USERPROFILE"); profile != "" {
		return e.join(profile, "Documents")
	}
	return e.join(e.Home, "Documents")
}

// join uses the target separator so Windows rules can be checked on any host.
func (e Env) join(parts ...string) string {
	sep := e.PathSep
	if sep == "" {
		if e.GOOS == Windows {
			sep = `\`
		} else {
			sep = "/"
		}
	}
	if sep == string(filepath.Separator) {
		return filepath.Join(parts...)
	}
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out == "" {
			out = p
			continue
		}
		out += sep + p
	}
	return out
}
