package config

import (
	"path/filepath"

	"github.com/urfave/cli/v2"
)

// Global flag names.
const (
	FlagConfig  = "config"
	FlagDebug   = "debug"
	FlagPalette = "palette"
	FlagMode    = "mode"
	FlagNoRLE   = "no-rle"
	FlagLogFile = "log-file"
)

// FlagSource reads parsed command-line flags. *cli.Context implements it.
type FlagSource interface {
	String(name string) string
	Bool(name string) bool
	IsSet(name string) bool
}

// Flags returns the global flags that override configuration values.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: FlagConfig, Aliases: []string{"c"}, Usage: "Path to config file"},
		&cli.BoolFlag{Name: FlagDebug, Usage: "Enable debug logging"},
		&cli.StringFlag{Name: FlagPalette, Usage: "Palette preset name or palette image path"},
		&cli.StringFlag{Name: FlagMode, Usage: "Import mode: default, closest or dithering"},
		&cli.BoolFlag{Name: FlagNoRLE, Usage: "Store imported images uncompressed"},
		&cli.StringFlag{Name: FlagLogFile, Usage: "Also write logs to this file"},
	}
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath(flags FlagSource) string {
	if flags == nil {
		return ""
	}
	return flags.String(FlagConfig)
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config, flags FlagSource) {
	if flags == nil {
		return
	}
	if flags.Bool(FlagDebug) {
		cfg.Logging.Level = "debug"
	}
	if flags.IsSet(FlagPalette) {
		// Anything with an extension is a palette image
		if v := flags.String(FlagPalette); filepath.Ext(v) != "" {
			cfg.Palette.Path = v
		} else {
			cfg.Palette.Preset = v
			cfg.Palette.Path = ""
		}
	}
	if flags.IsSet(FlagMode) {
		cfg.Import.Mode = flags.String(FlagMode)
	}
	if flags.Bool(FlagNoRLE) {
		cfg.Import.RLE = false
	}
	if flags.IsSet(FlagLogFile) {
		cfg.Logging.LogFile = flags.String(FlagLogFile)
	}
}
