package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/urfave/cli/v2"

	"github.com/Faultbox/g1kit/pkg/g1"
)

// elementRow is one line of the details table.
type elementRow struct {
	Index        int    `csv:"index"`
	Offset       string `csv:"offset"`
	Width        int16  `csv:"width"`
	Height       int16  `csv:"height"`
	XOffset      int16  `csv:"x_offset"`
	YOffset      int16  `csv:"y_offset"`
	Flags        string `csv:"flags"`
	ZoomedOffset int16  `csv:"zoomed_offset"`
	DataSize     int    `csv:"data_size"`
}

var flagNames = []struct {
	flag g1.Flags
	name string
}{
	{g1.FlagHasTransparency, "transparent"},
	{g1.FlagRLECompression, "rle"},
	{g1.FlagPalette, "palette"},
	{g1.FlagHasZoomSprite, "zoom"},
	{g1.FlagNoZoomDraw, "no-zoom-draw"},
}

func flagString(f g1.Flags) string {
	var names []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, "|")
}

func elementRows(c *g1.Container) []elementRow {
	rows := make([]elementRow, 0, c.Len())
	for i, e := range c.Elements() {
		size := 0
		if data, err := c.ImageData(i); err == nil {
			size = len(data)
		}
		rows = append(rows, elementRow{
			Index:        i,
			Offset:       e.Offset.String(),
			Width:        e.Width,
			Height:       e.Height,
			XOffset:      e.XOffset,
			YOffset:      e.YOffset,
			Flags:        flagString(e.Flags),
			ZoomedOffset: e.ZoomedOffset,
			DataSize:     size,
		})
	}
	return rows
}

func (t *tool) details(c *cli.Context) error {
	if err := usage(c, 1); err != nil {
		return err
	}

	sprites, err := g1.Open(c.Args().First(), g1.WithLogger(t.log.Named("g1")))
	if err != nil {
		return cli.Exit(err, 1)
	}

	rows := elementRows(sprites)
	if c.NArg() > 1 {
		i, err := strconv.Atoi(c.Args().Get(1))
		if err != nil || i < 0 || i >= len(rows) {
			return cli.Exit(fmt.Sprintf("index %q out of range 0..%d", c.Args().Get(1), len(rows)-1), 1)
		}
		rows = rows[i : i+1]
	}

	w := c.App.Writer
	if c.Bool("csv") {
		if err := gocsv.Marshal(rows, w); err != nil {
			return cli.Exit(err, 1)
		}
		return nil
	}

	h := sprites.Header()
	fmt.Fprintf(w, "File:     %s\n", c.Args().First())
	fmt.Fprintf(w, "Elements: %d\n", h.NumEntries)
	fmt.Fprintf(w, "Data:     %d bytes\n", h.TotalSize)
	fmt.Fprintln(w)
	for _, r := range rows {
		fmt.Fprintf(w, "%5d  %4dx%-4d  at (%d, %d)  %-8d %s",
			r.Index, r.Width, r.Height, r.XOffset, r.YOffset, r.DataSize, r.Flags)
		if r.ZoomedOffset != 0 {
			fmt.Fprintf(w, "  zoom %+d", r.ZoomedOffset)
		}
		fmt.Fprintln(w)
	}
	return nil
}
