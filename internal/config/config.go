// Package config handles sprite tool configuration loading and management.
package config

// Config holds all sprite tool settings.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Palette PaletteConfig `yaml:"palette"`
	Import  ImportConfig  `yaml:"import"`
	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig holds game data file paths.
type DataConfig struct {
	G1Path       string   `yaml:"g1_path"`        // Base sprite file for $G1 references
	CSGIndexPath string   `yaml:"csg_index_path"` // Split sprite index for $CSG references
	CSGDataPath  string   `yaml:"csg_data_path"`  // Split sprite data for $CSG references
	ObjectDir    string   `yaml:"object_dir"`     // Object image tables for $RCT2:OBJDATA/ references
	AssetPaths   []string `yaml:"asset_paths"`    // Directories or .parkobj archives
}

// PaletteConfig selects the palette images are matched against.
type PaletteConfig struct {
	Preset       string `yaml:"preset"`        // default or green
	Path         string `yaml:"path"`          // 256-pixel palette image, overrides preset
	ClosestMatch string `yaml:"closest_match"` // exclude-primary or exclude-special
}

// ImportConfig holds image import settings.
type ImportConfig struct {
	Mode    string `yaml:"mode"` // default, closest or dithering
	RLE     bool   `yaml:"rle"`
	Workers int    `yaml:"workers"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			G1Path: "g1.dat",
		},
		Palette: PaletteConfig{
			Preset:       "default",
			ClosestMatch: "exclude-primary",
		},
		Import: ImportConfig{
			Mode:    "default",
			RLE:     true,
			Workers: 4,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
