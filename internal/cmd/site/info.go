package site

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/lifedraft/sitehook/internal/cmdutil"
	"github.com/lifedraft/sitehook/internal/output"
	"github.com/lifedraft/sitehook/internal/pyenv"
	"github.com/lifedraft/sitehook/internal/sitecustom"
)

// Info describes where the managed block lives for one interpreter.
type Info struct {
	Python         string   `json:"python"`
	Executable     string   `json:"executable"`
	Version        string   `json:"version"`
	SitePackages   []string `json:"site_packages"`
	UserSite       string   `json:"user_site,omitempty"`
	EnableUserSite *bool    `json:"enable_user_site,omitempty"`
	Site           Target   `json:"sitecustomize"`
	User           Target   `json:"usercustomize"`
}

// Target is the state of one customization script.
type Target struct {
	Path      string `json:"path,omitempty"`
	Exists    bool   `json:"exists"`
	Installed bool   `json:"installed"`
	Error     string `json:"error,omitempty"`
}

// Collect queries the interpreter and inspects both customization scripts.
func Collect(ctx context.Context, f *cmdutil.Factory) (Info, error) {
	py, err := f.Interpreter()
	if err != nil {
		return Info{}, err
	}
	dirs, err := f.SiteDirs(ctx)
	if err != nil {
		return Info{}, err
	}

	info := Info{
		Python:         py.Path,
		Executable:     dirs.Executable,
		Version:        dirs.Version,
		SitePackages:   dirs.SitePackages(),
		EnableUserSite: dirs.EnableUserSite,
	}
	info.UserSite, _ = dirs.UserSitePackages()

	ed := f.Editor()
	info.Site, err = inspect(ed, dirs, sitecustom.ScopeSite)
	if err != nil {
		return Info{}, err
	}
	info.User, err = inspect(ed, dirs, sitecustom.ScopeUser)
	if err != nil {
		return Info{}, err
	}
	return info, nil
}

func inspect(ed *sitecustom.Editor, dirs *pyenv.SiteDirs, scope sitecustom.Scope) (Target, error) {
	path, err := ed.Path(dirs, scope)
	if errors.Is(err, sitecustom.ErrNotFound) {
		return Target{Error: err.Error()}, nil
	}
	if err != nil {
		return Target{}, err
	}

	t := Target{Path: path}
	t.Installed, err = ed.HasManagedBlock(path)
	if err != nil {
		return Target{}, err
	}
	if !t.Installed {
		t.Exists, err = ed.Exists(path)
		if err != nil {
			return Target{}, err
		}
	} else {
		t.Exists = true
	}
	return t, nil
}

// FormatText formats the info as a human-readable string.
func FormatText(info Info) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Python:           %s\n", info.Python)
	fmt.Fprintf(&b, "Executable:       %s\n", info.Executable)
	fmt.Fprintf(&b, "Version:          %s\n", info.Version)
	if len(info.SitePackages) == 0 {
		fmt.Fprintf(&b, "Site packages:    (none)\n")
	}
	for i, dir := range info.SitePackages {
		label := "Site packages:"
		if i > 0 {
			label = ""
		}
		fmt.Fprintf(&b, "%-18s%s\n", label, dir)
	}
	if info.UserSite != "" {
		fmt.Fprintf(&b, "User site:        %s\n", info.UserSite)
	} else {
		fmt.Fprintf(&b, "User site:        (none)\n")
	}
	if info.EnableUserSite != nil && !*info.EnableUserSite {
		fmt.Fprintf(&b, "                  (disabled for this interpreter)\n")
	}
	formatTarget(&b, sitecustom.SiteFileName, info.Site)
	formatTarget(&b, sitecustom.UserFileName, info.User)
	return b.String()
}

func formatTarget(b *strings.Builder, name string, t Target) {
	fmt.Fprintf(b, "\n%s\n", name)
	if t.Error != "" {
		fmt.Fprintf(b, "  unavailable:    %s\n", t.Error)
		return
	}
	fmt.Fprintf(b, "  path:           %s\n", t.Path)
	fmt.Fprintf(b, "  exists:         %t\n", t.Exists)
	fmt.Fprintf(b, "  installed:      %t\n", t.Installed)
}

func newInfoCmd(f *cmdutil.Factory) *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "Show the interpreter's site directories and whether the hook is installed",
		Flags: []cli.Flag{cmdutil.OutputFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			info, err := Collect(ctx, f)
			if err != nil {
				return err
			}
			if cmdutil.IsJSON(cmd) {
				return output.PrintJSON(f.Stdout(), info)
			}
			fmt.Fprint(f.Stdout(), FormatText(info))
			return nil
		},
	}
}
