package config

import (
	"fmt"

	"github.com/Faultbox/g1kit/pkg/importer"
	"github.com/Faultbox/g1kit/pkg/palette"
)

// LoadPalette returns the configured palette.
func (c *Config) LoadPalette() (*palette.Palette, error) {
	if c.Palette.Path != "" {
		return palette.LoadFile(c.Palette.Path)
	}
	return palette.Preset(c.Palette.Preset)
}

// NewImporter returns an importer for the configured palette and
// closest-match policy.
func (c *Config) NewImporter() (*importer.Importer, error) {
	p, err := c.LoadPalette()
	if err != nil {
		return nil, fmt.Errorf("palette: %w", err)
	}
	policy, err := palette.ParsePolicy(c.Palette.ClosestMatch)
	if err != nil {
		return nil, err
	}
	return importer.New(p, importer.WithPolicy(policy)), nil
}

// ImportOptions returns the import options every command starts from.
func (c *Config) ImportOptions() (importer.Options, error) {
	mode, err := importer.ParseMode(c.Import.Mode)
	if err != nil {
		return importer.Options{}, err
	}
	o := importer.Options{Mode: mode}
	if c.Import.RLE {
		o.Flags |= importer.FlagRLE
	}
	return o, nil
}
