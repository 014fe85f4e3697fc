package site

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/lifedraft/sitehook/internal/cmdutil"
	"github.com/lifedraft/sitehook/internal/resolve"
	"github.com/lifedraft/sitehook/internal/sitecustom"
)

// NewCmd creates the "site" command group.
func NewCmd(f *cmdutil.Factory) *cli.Command {
	return &cli.Command{
		Name:  "site",
		Usage: "Manage automatic activation of the import hook in sitecustomize.py / usercustomize.py",
		Commands: []*cli.Command{
			newInfoCmd(f),
			newInstallCmd(f),
			newUninstallCmd(f),
		},
	}
}

func targetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "user",
			Usage: "Edit usercustomize.py instead of sitecustomize.py (same as --scope user)",
		},
		&cli.StringFlag{
			Name:  "scope",
			Usage: "Which script to edit: site, user (default from config)",
		},
		&cli.StringFlag{
			Name:  "path",
			Usage: "Edit this file instead of asking the interpreter",
		},
	}
}

// targetPath resolves the file a command operates on: --path if given,
// otherwise the customization script for the selected scope.
func targetPath(ctx context.Context, f *cmdutil.Factory, cmd *cli.Command) (string, error) {
	if p := cmd.String("path"); p != "" {
		return p, nil
	}
	scope, err := selectedScope(f, cmd)
	if err != nil {
		return "", err
	}
	dirs, err := f.SiteDirs(ctx)
	if err != nil {
		return "", err
	}
	return f.Editor().Path(dirs, scope)
}

func selectedScope(f *cmdutil.Factory, cmd *cli.Command) (sitecustom.Scope, error) {
	if cmd.Bool("user") {
		return sitecustom.ScopeUser, nil
	}
	name := cmd.String("scope")
	if name == "" {
		cfg, err := f.Config()
		if err != nil {
			return 0, err
		}
		name = cfg.Scope
	}
	return resolve.Scope(name)
}
