package sitecustom

import (
	"fmt"
	"path/filepath"
)

// File names the interpreter looks for in its site directories at startup.
const (
	SiteFileName = "sitecustomize.py"
	UserFileName = "usercustomize.py"
)

// Scope selects which customization script to edit.
type Scope int

const (
	// ScopeSite targets sitecustomize.py of the interpreter installation.
	ScopeSite Scope = iota
	// ScopeUser targets usercustomize.py in the per-user site directory.
	ScopeUser
)

func (s Scope) String() string {
	switch s {
	case ScopeSite:
		return "site"
	case ScopeUser:
		return "user"
	default:
		return fmt.Sprintf("Scope(%d)", int(s))
	}
}

// Dirs reports the site directories of an interpreter.
type Dirs interface {
	// SitePackages returns the system-wide site directories in search order.
	SitePackages() []string
	// UserSitePackages returns the per-user site directory, if the interpreter has one.
	UserSitePackages() (string, bool)
}

// SystemPath returns the sitecustomize.py to edit: the first one that already
// exists in a site directory, otherwise the one in the first site directory.
func (e *Editor) SystemPath(d Dirs) (string, error) {
	var dirs []string
	if d != nil {
		dirs = d.SitePackages()
	}
	if len(dirs) == 0 {
		return "", fmt.Errorf("%w: could not find %s (site-packages not found)", ErrNotFound, SiteFileName)
	}
	for _, dir := range dirs {
		path := filepath.Join(dir, SiteFileName)
		ok, err := e.Exists(path)
		if err != nil {
			return "", err
		}
		if ok {
			return path, nil
		}
	}
	return filepath.Join(dirs[0], SiteFileName), nil
}

// UserPath returns usercustomize.py in the per-user site directory.
func (e *Editor) UserPath(d Dirs) (string, error) {
	var (
		dir string
		ok  bool
	)
	if d != nil {
		dir, ok = d.UserSitePackages()
	}
	if !ok {
		return "", fmt.Errorf("%w: could not find %s (user site-packages not found)", ErrNotFound, UserFileName)
	}
	return filepath.Join(dir, UserFileName), nil
}

// Path resolves the customization script for scope.
func (e *Editor) Path(d Dirs, scope Scope) (string, error) {
	switch scope {
	case ScopeSite:
		return e.SystemPath(d)
	case ScopeUser:
		return e.UserPath(d)
	default:
		return "", fmt.Errorf("%w: unknown scope %s", ErrInvalidArgument, scope)
	}
}
