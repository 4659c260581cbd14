package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/g1kit/internal/assets"
	"github.com/Faultbox/g1kit/pkg/bitmap"
	"github.com/Faultbox/g1kit/pkg/g1"
	"github.com/Faultbox/g1kit/pkg/imagetable"
	"github.com/Faultbox/g1kit/pkg/importer"
)

// manifest lists the images of a sprite file to build. JSON manifests parse
// too since YAML is a superset.
type manifest struct {
	Images []manifestEntry `yaml:"images"`
}

// manifestEntry is either a source reference such as "$G1[10..20]", an image
// to import, or a blank entry when both are empty.
type manifestEntry struct {
	Source       string         `yaml:"source,omitempty"`
	Path         string         `yaml:"path,omitempty"`
	X            int16          `yaml:"x,omitempty"`
	Y            int16          `yaml:"y,omitempty"`
	SrcX         int            `yaml:"srcX,omitempty"`
	SrcY         int            `yaml:"srcY,omitempty"`
	SrcWidth     int            `yaml:"srcWidth,omitempty"`
	SrcHeight    int            `yaml:"srcHeight,omitempty"`
	Format       string         `yaml:"format,omitempty"`
	Palette      string         `yaml:"palette,omitempty"`
	Mode         string         `yaml:"mode,omitempty"`
	NoDrawOnZoom bool           `yaml:"noDrawOnZoom,omitempty"`
	Zoom         *manifestEntry `yaml:"zoom,omitempty"`
}

func readManifest(path string) (manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return manifest{}, err
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return manifest{}, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return m, nil
}

// description converts the manifest into an image table description.
func (m manifest) description() imagetable.Description {
	d := imagetable.Description{Entries: make([]imagetable.Entry, 0, len(m.Images))}
	for _, me := range m.Images {
		if me.Path == "" {
			d.Entries = append(d.Entries, imagetable.Entry{Source: me.Source})
			continue
		}
		d.Entries = append(d.Entries, imagetable.Entry{Image: me.spec()})
	}
	return d
}

func (me *manifestEntry) spec() *imagetable.ImageSpec {
	if me == nil || me.Path == "" {
		return nil
	}
	return &imagetable.ImageSpec{
		Path:         me.Path,
		X:            me.X,
		Y:            me.Y,
		SrcX:         me.SrcX,
		SrcY:         me.SrcY,
		SrcWidth:     me.SrcWidth,
		SrcHeight:    me.SrcHeight,
		Format:       me.Format,
		Palette:      me.Palette,
		Mode:         me.Mode,
		NoDrawOnZoom: me.NoDrawOnZoom,
		Zoom:         me.Zoom.spec(),
	}
}

// builder returns an image table builder wired to the configured sprite
// files, object directory and asset paths. dirs are searched before the
// configured asset paths. The returned manager must be closed.
func (t *tool) builder(dirs ...string) (*imagetable.Builder, *assets.Manager, error) {
	im, err := t.cfg.NewImporter()
	if err != nil {
		return nil, nil, err
	}

	data := assets.NewManager()
	for _, p := range t.cfg.Data.AssetPaths {
		if err := data.Add(p); err != nil {
			data.Close()
			return nil, nil, err
		}
	}
	for _, d := range dirs {
		if err := data.Add(d); err != nil {
			data.Close()
			return nil, nil, err
		}
	}

	opts := []imagetable.Option{
		imagetable.WithLogger(t.log.Named("imagetable")),
		imagetable.WithData(data),
	}
	if p := t.cfg.Data.G1Path; p != "" {
		if base, err := g1.Open(p, g1.WithLogger(t.log.Named("g1"))); err == nil {
			opts = append(opts, imagetable.WithBase(base))
		} else {
			t.log.Debug("base sprite file not loaded", zap.String("path", p), zap.Error(err))
		}
	}
	if idx, dat := t.cfg.Data.CSGIndexPath, t.cfg.Data.CSGDataPath; idx != "" && dat != "" {
		if csg, err := g1.OpenSplit(idx, dat, g1.WithLogger(t.log.Named("g1"))); err == nil {
			opts = append(opts, imagetable.WithCSG(csg))
		} else {
			t.log.Debug("CSG sprite files not loaded", zap.String("index", idx), zap.Error(err))
		}
	}
	if dir := t.cfg.Data.ObjectDir; dir != "" {
		opts = append(opts, imagetable.WithObjects(imagetable.DirRepository{Root: dir}))
	}

	return imagetable.NewBuilder(im, opts...), data, nil
}

func (t *tool) build(c *cli.Context) error {
	if err := usage(c, 2); err != nil {
		return err
	}

	path := c.Args().Get(0)
	m, err := readManifest(path)
	if err != nil {
		return cli.Exit(err, 1)
	}

	b, data, err := t.builder(filepath.Dir(path))
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer data.Close()

	table := b.Build(m.description())
	// Unlike object loading, a sprite file build fails on any missing image.
	if err := table.Warnings(); err != nil {
		return cli.Exit(err, 1)
	}
	if err := table.Images().Save(c.Args().Get(1)); err != nil {
		return cli.Exit(err, 1)
	}

	fmt.Fprintf(c.App.Writer, "Built %s: %d elements\n", c.Args().Get(1), table.Len())
	return nil
}

func (t *tool) create(c *cli.Context) error {
	if err := usage(c, 1); err != nil {
		return err
	}
	if err := g1.New().Save(c.Args().First()); err != nil {
		return cli.Exit(err, 1)
	}
	fmt.Fprintf(c.App.Writer, "Created: %s\n", c.Args().First())
	return nil
}

func (t *tool) appendImage(c *cli.Context) error {
	if err := usage(c, 2); err != nil {
		return err
	}

	path := c.Args().Get(0)
	sprites, err := g1.Open(path, g1.WithLogger(t.log.Named("g1")))
	if err != nil {
		return cli.Exit(err, 1)
	}
	bm, err := bitmap.ReadFile(c.Args().Get(1))
	if err != nil {
		return cli.Exit(err, 1)
	}

	im, err := t.cfg.NewImporter()
	if err != nil {
		return cli.Exit(err, 1)
	}
	o, err := t.cfg.ImportOptions()
	if err != nil {
		return cli.Exit(err, 1)
	}
	o.X = int16(c.Int("x"))
	o.Y = int16(c.Int("y"))
	if c.Bool("keep-palette") {
		o.Palette = importer.KeepIndices
	}

	img, err := im.Import(bm, o)
	if err != nil {
		return cli.Exit(err, 1)
	}
	i, err := sprites.AppendImage(img)
	if err != nil {
		return cli.Exit(err, 1)
	}
	if err := sprites.Save(path); err != nil {
		return cli.Exit(err, 1)
	}

	fmt.Fprintf(c.App.Writer, "Appended element %d (%dx%d, %d bytes)\n",
		i, img.Element.Width, img.Element.Height, len(img.Data))
	return nil
}

func (t *tool) combine(c *cli.Context) error {
	if err := usage(c, 3); err != nil {
		return err
	}

	sprites, err := g1.OpenSplit(c.Args().Get(0), c.Args().Get(1), g1.WithLogger(t.log.Named("g1")))
	if err != nil {
		return cli.Exit(err, 1)
	}
	if err := sprites.Save(c.Args().Get(2)); err != nil {
		return cli.Exit(err, 1)
	}

	fmt.Fprintf(c.App.Writer, "Combined %d elements into %s\n", sprites.Len(), c.Args().Get(2))
	return nil
}
