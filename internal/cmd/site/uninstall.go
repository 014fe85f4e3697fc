package site

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/lifedraft/sitehook/internal/cmdutil"
)

func newUninstallCmd(f *cmdutil.Factory) *cli.Command {
	return &cli.Command{
		Name:  "uninstall",
		Usage: "Remove the managed block, deleting the file if nothing else is left",
		Flags: targetFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path, err := targetPath(ctx, f, cmd)
			if err != nil {
				return err
			}
			return f.Editor().RemoveManagedBlock(path)
		},
	}
}
