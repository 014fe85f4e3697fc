package site

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/lifedraft/sitehook/internal/cmdutil"
	"github.com/lifedraft/sitehook/internal/sitecustom"
)

func newInstallCmd(f *cmdutil.Factory) *cli.Command {
	flags := append(targetFlags(),
		&cli.StringFlag{
			Name:  "preset",
			Usage: "Block to install: " + strings.Join(sitecustom.SortedPresetNames, ", ") + " (default from config)",
		},
		&cli.BoolFlag{
			Name:  "force",
			Usage: "Replace an existing managed block",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Print the target file and the block without writing anything",
		},
	)

	return &cli.Command{
		Name:  "install",
		Usage: "Insert the managed block so the import hook activates at interpreter start",
		UsageText: `# Install into sitecustomize.py of the configured interpreter
  sitehook site install

  # Install the release preset for the current user, replacing any existing block
  sitehook site install --user --preset release --force

  # Show what would be written
  sitehook site install --dry-run`,
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			preset := cmd.String("preset")
			if preset == "" {
				cfg, err := f.Config()
				if err != nil {
					return err
				}
				preset = cfg.Preset
			}
			block, err := sitecustom.RenderBlock(preset)
			if err != nil {
				return err
			}

			path, err := targetPath(ctx, f, cmd)
			if err != nil {
				return err
			}

			if cmd.Bool("dry-run") {
				fmt.Fprintf(f.Stdout(), "# would write to %s\n%s", path, block)
				return nil
			}
			return f.Editor().InsertManagedBlock(path, preset, cmd.Bool("force"))
		},
	}
}
