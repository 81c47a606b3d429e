// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"

	"github.com/spf13/pflag"
)

// LoadOptions defines explicit settings loading inputs.
type LoadOptions struct {
	// SettingsFilePath forces loading from a specific settings file when set.
	SettingsFilePath string
	// Flags are bound over the file so changed flags win.
	Flags *pflag.FlagSet
}

// Provider loads settings from explicit options.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Settings, string, error)
}

type fileProvider struct{}

// NewProvider creates a settings provider backed by the filesystem.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads settings from the requested source and returns them together
// with the resolved settings file path.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Settings, string, error) {
	return loadWithOptions(ctx, opts)
}
