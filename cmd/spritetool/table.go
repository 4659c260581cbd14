package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/g1kit/pkg/imagetable"
	"github.com/Faultbox/g1kit/pkg/parkobj"
)

// loadDescription reads the image list of a description file or of the
// manifest inside a .parkobj archive. It returns the description and the
// asset source its image paths are relative to.
func loadDescription(path string) (imagetable.Description, string, error) {
	if !strings.EqualFold(filepath.Ext(path), ".parkobj") {
		d, err := imagetable.ReadDescription(path)
		return d, filepath.Dir(path), err
	}

	archive, err := parkobj.Open(path)
	if err != nil {
		return imagetable.Description{}, "", err
	}
	defer archive.Close()

	m, err := archive.Manifest()
	if err != nil {
		return imagetable.Description{}, "", fmt.Errorf("%s: %w", path, err)
	}
	return m.Images, path, nil
}

func (t *tool) table(c *cli.Context) error {
	if err := usage(c, 1); err != nil {
		return err
	}

	inputs := c.Args().Slice()
	descs := make([]imagetable.Description, 0, len(inputs))
	var sources []string
	for _, in := range inputs {
		d, src, err := loadDescription(in)
		if err != nil {
			return cli.Exit(err, 1)
		}
		descs = append(descs, d)
		sources = append(sources, src)
	}

	b, data, err := t.builder(dedupe(sources)...)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer data.Close()

	tables, err := b.BuildAll(c.Context, descs, t.cfg.Import.Workers)
	if err != nil {
		return cli.Exit(err, 1)
	}

	outDir := c.String("out")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return cli.Exit(err, 1)
	}
	for i, tbl := range tables {
		name := strings.TrimSuffix(filepath.Base(inputs[i]), filepath.Ext(inputs[i])) + ".g1"
		out := filepath.Join(outDir, name)
		if err := tbl.Images().Save(out); err != nil {
			return cli.Exit(err, 1)
		}
		if tbl.Placeholders() > 0 {
			t.log.Warn("table built with placeholders",
				zap.String("input", inputs[i]),
				zap.Int("placeholders", tbl.Placeholders()))
		}
		fmt.Fprintf(c.App.Writer, "%s: %d images, %d elements, %d placeholders\n",
			out, tbl.Primaries(), tbl.Len(), tbl.Placeholders())
	}

	hits, misses := data.Stats()
	t.log.Debug("asset cache", zap.Int("hits", hits), zap.Int("misses", misses))
	return nil
}

func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := paths[:0:0]
	for _, p := range paths {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
