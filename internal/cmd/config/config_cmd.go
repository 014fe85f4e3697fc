package config

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/lifedraft/sitehook/internal/cmdutil"
	internalconfig "github.com/lifedraft/sitehook/internal/config"
	"github.com/lifedraft/sitehook/internal/output"
)

var validKeys = strings.Join(internalconfig.Keys, ", ")

func NewCmd(f *cmdutil.Factory) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage CLI configuration",
		Commands: []*cli.Command{
			newGetCmd(f),
			newSetCmd(f),
			newListCmd(f),
			newPathCmd(f),
		},
	}
}

func newGetCmd(f *cmdutil.Factory) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Get a config value",
		ArgsUsage: "<key>",
		Flags:     []cli.Flag{cmdutil.OutputFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			key := cmd.Args().First()
			if key == "" {
				return fmt.Errorf("key argument is required (valid keys: %s)", validKeys)
			}
			val, err := internalconfig.Get(f.ConfigPath, key)
			if err != nil {
				return err
			}
			if cmdutil.IsJSON(cmd) {
				return output.PrintJSON(f.Stdout(), map[string]string{key: val})
			}
			fmt.Fprintln(f.Stdout(), val)
			return nil
		},
	}
}

func newSetCmd(f *cmdutil.Factory) *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Set a config value",
		ArgsUsage: "<key> <value>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 2 {
				return errors.New("usage: sitehook config set <key> <value>")
			}
			key := cmd.Args().Get(0)
			value := cmd.Args().Get(1)
			if err := internalconfig.Set(f.ConfigPath, key, value); err != nil {
				return err
			}
			fmt.Fprintf(f.Stderr(), "Set %s successfully\n", key)
			return nil
		},
	}
}

func newListCmd(f *cmdutil.Factory) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List all config values",
		Flags: []cli.Flag{cmdutil.OutputFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := internalconfig.Load(f.ConfigPath)
			if err != nil {
				return err
			}
			cfg = cfg.WithDefaults()
			if cmdutil.IsJSON(cmd) {
				return output.PrintJSON(f.Stdout(), cfg)
			}
			return output.PrintFields(f.Stdout(), []output.Field{
				{Label: "python", Value: cfg.Python},
				{Label: "preset", Value: cfg.Preset},
				{Label: "scope", Value: cfg.Scope},
				{Label: "log_level", Value: cfg.LogLevel},
			})
		},
	}
}

func newPathCmd(f *cmdutil.Factory) *cli.Command {
	return &cli.Command{
		Name:  "path",
		Usage: "Show the config file path",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := f.ConfigPath
			if path == "" {
				path = internalconfig.DefaultPath()
			}
			fmt.Fprintln(f.Stdout(), path)
			return nil
		},
	}
}
