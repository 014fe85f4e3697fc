// Package pyenv asks a Python interpreter where its site directories are.
package pyenv

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// DefaultPython is used when no interpreter is configured.
const DefaultPython = "python3"

// OutputMarker precedes the JSON answer on stdout. Startup scripts run before
// the query and may print their own output.
const OutputMarker = "SITEHOOK_JSON:"

// queryScript prints the interpreter's site layout as a single JSON object.
// site.getsitepackages is missing in old virtualenv-created environments.
const queryScript = `import json, site, sys
try:
    packages = site.getsitepackages()
except AttributeError:
    packages = []
user = getattr(site, "getusersitepackages", None)
print()
print("` + OutputMarker + `")
print(json.dumps({
    "executable": sys.executable,
    "version": "%d.%d.%d" % sys.version_info[:3],
    "prefix": sys.prefix,
    "site_packages": packages,
    "user_site": user() if user else None,
    "enable_user_site": site.ENABLE_USER_SITE,
}))
`

// SiteDirs is what the interpreter reports about its site directories.
type SiteDirs struct {
	Executable     string   `json:"executable"`
	Version        string   `json:"version"`
	Prefix         string   `json:"prefix"`
	Packages       []string `json:"site_packages"`
	User           *string  `json:"user_site"`
	EnableUserSite *bool    `json:"enable_user_site"`
}

// SitePackages returns the system-wide site directories in search order.
func (d *SiteDirs) SitePackages() []string {
	if d == nil {
		return nil
	}
	return d.Packages
}

// UserSitePackages returns the per-user site directory, if any.
func (d *SiteDirs) UserSitePackages() (string, bool) {
	if d == nil || d.User == nil || *d.User == "" {
		return "", false
	}
	return *d.User, true
}

// QueryError is returned when the interpreter exits unsuccessfully.
type QueryError struct {
	Path     string
	ExitCode int
	Stderr   string
}

func (e *QueryError) Error() string {
	msg := fmt.Sprintf("querying %s failed (exit status %d)", e.Path, e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Interpreter is a Python executable addressed by name or path.
type Interpreter struct {
	Path string

	log *slog.Logger
}

// New creates an Interpreter. An empty path means DefaultPython.
func New(path string, log *slog.Logger) *Interpreter {
	if path == "" {
		path = DefaultPython
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Interpreter{Path: path, log: log}
}

// Query runs the interpreter and returns its site directories.
func (i *Interpreter) Query(ctx context.Context) (*SiteDirs, error) {
	i.log.Debug("querying interpreter", "python", i.Path)

	cmd := exec.CommandContext(ctx, i.Path, "-c", queryScript)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &QueryError{
				Path:     i.Path,
				ExitCode: exitErr.ExitCode(),
				Stderr:   strings.TrimSpace(stderr.String()),
			}
		}
		return nil, fmt.Errorf("running %s: %w", i.Path, err)
	}

	dirs, err := decodeOutput(stdout.Bytes())
	if err != nil {
		return nil, fmt.Errorf("parsing output of %s: %w", i.Path, err)
	}
	i.log.Debug("interpreter answered",
		"executable", dirs.Executable,
		"version", dirs.Version,
		"site_packages", len(dirs.Packages),
	)
	return dirs, nil
}

// decodeOutput reads the JSON value that follows the last OutputMarker line.
// Anything printed around it is ignored.
func decodeOutput(out []byte) (*SiteDirs, error) {
	idx := bytes.LastIndex(out, []byte(OutputMarker))
	if idx == -1 {
		return nil, fmt.Errorf("no %s line in interpreter output", OutputMarker)
	}
	var dirs SiteDirs
	if err := json.NewDecoder(bytes.NewReader(out[idx+len(OutputMarker):])).Decode(&dirs); err != nil {
		return nil, err
	}
	return &dirs, nil
}
