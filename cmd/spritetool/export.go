package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strconv"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/g1kit/pkg/g1"
	"github.com/Faultbox/g1kit/pkg/palette"
)

var errNotImage = errors.New("element has no image")

// spriteImage renders an element as a paletted image. Transparent pixels use
// index 0, which is itself rendered transparent.
func spriteImage(img g1.Image, pal *palette.Palette) (*image.Paletted, error) {
	e := img.Element
	if e.Flags.Has(g1.FlagPalette) || e.Width <= 0 || e.Height <= 0 {
		return nil, errNotImage
	}
	pixels, err := g1.Decode(e, img.Data)
	if err != nil {
		return nil, err
	}

	colors := pal.ColorPalette()
	colors[0] = color.NRGBA{}

	out := image.NewPaletted(image.Rect(0, 0, int(e.Width), int(e.Height)), colors)
	for i, px := range pixels {
		if px != g1.Transparent {
			out.Pix[i] = uint8(px)
		}
	}
	return out, nil
}

func writePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return png.Encode(f, img)
}

func (t *tool) export(c *cli.Context) error {
	if err := usage(c, 3); err != nil {
		return err
	}

	sprites, err := g1.Open(c.Args().Get(0), g1.WithLogger(t.log.Named("g1")))
	if err != nil {
		return cli.Exit(err, 1)
	}
	i, err := strconv.Atoi(c.Args().Get(1))
	if err != nil {
		return cli.Exit(fmt.Sprintf("invalid index %q", c.Args().Get(1)), 1)
	}
	pal, err := t.cfg.LoadPalette()
	if err != nil {
		return cli.Exit(err, 1)
	}

	img, err := sprites.Image(i)
	if err != nil {
		return cli.Exit(err, 1)
	}
	rendered, err := spriteImage(img, pal)
	if err != nil {
		return cli.Exit(fmt.Errorf("element %d: %w", i, err), 1)
	}
	if err := writePNG(c.Args().Get(2), rendered); err != nil {
		return cli.Exit(err, 1)
	}

	fmt.Fprintf(c.App.Writer, "Exported: %s (%dx%d)\n", c.Args().Get(2), img.Element.Width, img.Element.Height)
	return nil
}

func (t *tool) exportAll(c *cli.Context) error {
	if err := usage(c, 2); err != nil {
		return err
	}

	sprites, err := g1.Open(c.Args().Get(0), g1.WithLogger(t.log.Named("g1")))
	if err != nil {
		return cli.Exit(err, 1)
	}
	pal, err := t.cfg.LoadPalette()
	if err != nil {
		return cli.Exit(err, 1)
	}

	dir := c.Args().Get(1)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return cli.Exit(err, 1)
	}

	var m manifest
	exported := 0
	for i := 0; i < sprites.Len(); i++ {
		img, err := sprites.Image(i)
		if err != nil {
			return cli.Exit(err, 1)
		}
		rendered, err := spriteImage(img, pal)
		if errors.Is(err, errNotImage) {
			m.Images = append(m.Images, manifestEntry{})
			continue
		}
		if err != nil {
			return cli.Exit(fmt.Errorf("element %d: %w", i, err), 1)
		}

		name := fmt.Sprintf("%05d.png", i)
		if err := writePNG(filepath.Join(dir, name), rendered); err != nil {
			return cli.Exit(err, 1)
		}
		m.Images = append(m.Images, exportEntry(name, img.Element))
		exported++
	}

	data, err := yaml.Marshal(&m)
	if err != nil {
		return cli.Exit(err, 1)
	}
	if err := os.WriteFile(filepath.Join(dir, "manifest.yaml"), data, 0644); err != nil {
		return cli.Exit(err, 1)
	}

	t.log.Info("exported sprite file",
		zap.String("dir", dir),
		zap.Int("images", exported),
		zap.Int("elements", sprites.Len()))
	fmt.Fprintf(c.App.Writer, "Exported %d of %d elements to %s\n", exported, sprites.Len(), dir)
	return nil
}

// exportEntry describes an exported element so that build reproduces it.
func exportEntry(name string, e g1.Element) manifestEntry {
	me := manifestEntry{
		Path:         name,
		X:            e.XOffset,
		Y:            e.YOffset,
		Palette:      "keep",
		NoDrawOnZoom: e.Flags.Has(g1.FlagNoZoomDraw),
	}
	if !e.Flags.Has(g1.FlagRLECompression) {
		me.Format = "raw"
	}
	return me
}
