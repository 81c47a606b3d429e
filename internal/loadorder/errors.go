// SPDX-License-Identifier: MPL-2.0

package loadorder

import (
	"errors"
	"fmt"
)

var (
	// ErrGameConfigNotFound is returned when no game configuration exists.
	ErrGameConfigNotFound = errors.New("game configuration not found")
	// ErrEmptyLoadOrder is returned when no plugin survives resolution.
	ErrEmptyLoadOrder = errors.New("load order is empty")
	// ErrPluginNotFound is the sentinel error wrapped by ResolveError.
	ErrPluginNotFound = errors.New("plugin not found")
	// ErrDataDirUnreadable is the sentinel error wrapped by DataDirError.
	ErrDataDirUnreadable = errors.New("data directory unreadable")
)

type (
	// ResolveError reports a plugin named by the game configuration that no
	// data directory contains.
	ResolveError struct {
		Plugin string
		Config string
	}

	// DataDirError reports a data directory that could not be listed.
	DataDirError struct {
		Dir   string
		Cause error
	}

	// EmptyLoadOrderError names the configuration that produced no plugins.
	EmptyLoadOrderError struct {
		Config  string
		Dropped int
	}
)

// Error implements the error interface.
func (e *ResolveError) Error() string {
	return fmt.Sprintf("plugin %q listed in %s was not found in any data directory", e.Plugin, e.Config)
}

// Unwrap returns ErrPluginNotFound for errors.Is() compatibility.
func (e *ResolveError) Unwrap() error { return ErrPluginNotFound }

// Error implements the error interface.
func (e *DataDirError) Error() string {
	return fmt.Sprintf("failed to read data directory %q: %v", e.Dir, e.Cause)
}

// Unwrap returns both the sentinel and the cause.
func (e *DataDirError) Unwrap() []error { return []error{ErrDataDirUnreadable, e.Cause} }

// Error implements the error interface.
func (e *EmptyLoadOrderError) Error() string {
	return fmt.Sprintf("no plugins to process in %s (%d filtered out)", e.Config, e.Dropped)
}

// Unwrap returns ErrEmptyLoadOrder for errors.Is() compatibility.
func (e *EmptyLoadOrderError) Unwrap() error { return ErrEmptyLoadOrder }
