// spritetool is a CLI utility for inspecting and building G1 sprite files.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/g1kit/internal/config"
	"github.com/Faultbox/g1kit/internal/logger"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// tool carries the state shared by every command.
type tool struct {
	cfg *config.Config
	log *zap.Logger
}

func newApp() *cli.App {
	t := &tool{log: zap.NewNop()}

	app := cli.NewApp()
	app.Name = "spritetool"
	app.Usage = "G1 sprite file utility"
	app.Version = "1.0.0"
	app.Flags = config.Flags()
	app.Before = t.setup
	app.After = func(*cli.Context) error {
		logger.Sync()
		return nil
	}
	app.Commands = []*cli.Command{
		{
			Name:      "details",
			Usage:     "Show the element table of a sprite file",
			ArgsUsage: "FILE [INDEX]",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "csv", Usage: "print the element table as CSV"},
			},
			Action: t.details,
		},
		{
			Name:      "export",
			Usage:     "Export one element as a PNG image",
			ArgsUsage: "FILE INDEX OUTPUT",
			Action:    t.export,
		},
		{
			Name:      "exportall",
			Usage:     "Export every element and a build manifest",
			ArgsUsage: "FILE DIRECTORY",
			Action:    t.exportAll,
		},
		{
			Name:      "create",
			Usage:     "Create an empty sprite file",
			ArgsUsage: "FILE",
			Action:    t.create,
		},
		{
			Name:      "append",
			Usage:     "Import an image and append it to a sprite file",
			ArgsUsage: "FILE IMAGE",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "x", Usage: "draw offset x"},
				&cli.IntFlag{Name: "y", Usage: "draw offset y"},
				&cli.BoolFlag{Name: "keep-palette", Usage: "store the indices of an 8-bit image as is"},
			},
			Action: t.appendImage,
		},
		{
			Name:      "build",
			Usage:     "Build a sprite file from a YAML or JSON manifest",
			ArgsUsage: "MANIFEST OUTPUT",
			Action:    t.build,
		},
		{
			Name:      "combine",
			Usage:     "Combine a CSG index and data file pair into one sprite file",
			ArgsUsage: "INDEX DATA OUTPUT",
			Action:    t.combine,
		},
		{
			Name:      "table",
			Usage:     "Build object image tables from descriptions or .parkobj archives",
			ArgsUsage: "INPUT...",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: ".", Usage: "output directory"},
			},
			Action: t.table,
		},
	}
	return app
}

// setup loads the configuration and starts logging before any command runs.
func (t *tool) setup(c *cli.Context) error {
	cfg, err := config.Load(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return cli.Exit(fmt.Errorf("initializing logger: %w", err), 1)
	}
	t.cfg = cfg
	t.log = logger.Named("spritetool")
	return nil
}

// usage shows the command help and returns an exit error when fewer than n
// arguments were given.
func usage(c *cli.Context, n int) error {
	if c.NArg() >= n {
		return nil
	}
	_ = cli.ShowCommandHelp(c, c.Command.Name)
	return cli.Exit(fmt.Sprintf("%s: expected %s", c.Command.Name, c.Command.ArgsUsage), 2)
}
