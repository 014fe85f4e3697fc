package testutil

import (
	"sort"
	"strings"
)

// RedactOptions controls which machine-specific paths get replaced.
type RedactOptions struct {
	// Prefixes are replaced with RootPlaceholder. Longer prefixes are applied first.
	Prefixes []string
}

// RedactSimulation rewrites every path in sim that starts with one of the
// configured prefixes so the fixture can be replayed on another machine.
func RedactSimulation(sim *Simulation, opts RedactOptions) {
	prefixes := make([]string, 0, len(opts.Prefixes))
	for _, p := range opts.Prefixes {
		if p = strings.TrimRight(p, "/\\"); p != "" {
			prefixes = append(prefixes, p)
		}
	}
	sort.Slice(prefixes, func(i, j int) bool { return len(prefixes[i]) > len(prefixes[j]) })

	redact := func(path string) string {
		for _, p := range prefixes {
			if path == p || strings.HasPrefix(path, p+"/") || strings.HasPrefix(path, p+"\\") {
				return RootPlaceholder + path[len(p):]
			}
		}
		return path
	}

	sim.Dirs.Executable = redact(sim.Dirs.Executable)
	sim.Dirs.Prefix = redact(sim.Dirs.Prefix)
	for i, p := range sim.Dirs.Packages {
		sim.Dirs.Packages[i] = redact(p)
	}
	if sim.Dirs.User != nil {
		user := redact(*sim.Dirs.User)
		sim.Dirs.User = &user
	}
}

// RedactOutput replaces root in command output with RootPlaceholder for
// stable snapshots.
func RedactOutput(out, root string) string {
	if root == "" {
		return out
	}
	return strings.ReplaceAll(out, root, RootPlaceholder)
}
