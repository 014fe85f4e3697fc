package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/urfave/cli/v3"

	configcmd "github.com/lifedraft/sitehook/internal/cmd/config"
	"github.com/lifedraft/sitehook/internal/cmd/presets"
	"github.com/lifedraft/sitehook/internal/cmd/site"
	"github.com/lifedraft/sitehook/internal/cmdutil"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() (exitCode int) {
	f := &cmdutil.Factory{}

	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			stack = stack[:runtime.Stack(stack, false)]
			fmt.Fprintf(os.Stderr, "\nsitehook %s crashed.\n\npanic: %v\n\n%s\n", version, r, stack)
			exitCode = 2
		}
	}()

	root := &cli.Command{
		Name:    "sitehook",
		Usage:   "Activate the maturin import hook automatically via sitecustomize.py / usercustomize.py",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to config file",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug output to stderr",
			},
			&cli.StringFlag{
				Name:  "python",
				Usage: "Python interpreter to inspect (overrides config and SITEHOOK_PYTHON)",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			f.ConfigPath = cmd.String("config")
			f.Debug = cmd.Bool("debug")
			f.Python = cmd.String("python")
			return ctx, nil
		},
		Commands: []*cli.Command{
			site.NewCmd(f),
			presets.NewCmd(f),
			configcmd.NewCmd(f),
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)

	err := root.Run(ctx, os.Args)
	cancel()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 130
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
