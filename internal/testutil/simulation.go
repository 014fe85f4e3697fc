package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/lifedraft/sitehook/internal/pyenv"
)

// RootPlaceholder stands for the directory a fixture's paths are rooted in.
// Expand replaces it so fixtures can point into a test's temp dir.
const RootPlaceholder = "{root}"

// Simulation is a recorded interpreter answer that can be replayed by a fake
// interpreter executable. Stdout is printed before the answer, the way output
// from startup scripts would be.
type Simulation struct {
	Description string         `json:"description,omitempty"`
	Dirs        pyenv.SiteDirs `json:"dirs"`
	Stdout      string         `json:"stdout,omitempty"`
	ExitCode    int            `json:"exit_code,omitempty"`
	Stderr      string         `json:"stderr,omitempty"`
}

// LoadSimulation reads a simulation file from disk.
func LoadSimulation(path string) (*Simulation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading simulation %s: %w", path, err)
	}
	var sim Simulation
	if err := json.Unmarshal(data, &sim); err != nil {
		return nil, fmt.Errorf("parsing simulation %s: %w", path, err)
	}
	return &sim, nil
}

// SaveSimulation writes a simulation to a JSON file.
func SaveSimulation(path string, sim *Simulation) error {
	data, err := json.MarshalIndent(sim, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding simulation: %w", err)
	}
	data = append(data, '\n')
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Expand returns a copy of sim with RootPlaceholder replaced by root in every path.
func (s *Simulation) Expand(root string) *Simulation {
	expand := func(p string) string {
		return filepath.FromSlash(strings.ReplaceAll(p, RootPlaceholder, root))
	}

	out := *s
	out.Dirs.Executable = expand(s.Dirs.Executable)
	out.Dirs.Prefix = expand(s.Dirs.Prefix)
	out.Dirs.Packages = make([]string, len(s.Dirs.Packages))
	for i, p := range s.Dirs.Packages {
		out.Dirs.Packages[i] = expand(p)
	}
	if s.Dirs.User != nil {
		user := expand(*s.Dirs.User)
		out.Dirs.User = &user
	}
	return &out
}

// WriteFakeInterpreter writes an executable shell script into dir that answers
// any invocation the way sim describes, and returns its path.
func WriteFakeInterpreter(dir string, sim *Simulation) (string, error) {
	if runtime.GOOS == "windows" {
		return "", fmt.Errorf("fake interpreter needs a POSIX shell")
	}

	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	if sim.Stdout != "" {
		fmt.Fprintf(&b, "printf '%%s' %s\n", shellQuote(sim.Stdout))
	}
	if sim.ExitCode != 0 {
		if sim.Stderr != "" {
			fmt.Fprintf(&b, "printf '%%s\\n' %s >&2\n", shellQuote(sim.Stderr))
		}
		fmt.Fprintf(&b, "exit %d\n", sim.ExitCode)
	} else {
		data, err := json.Marshal(sim.Dirs)
		if err != nil {
			return "", fmt.Errorf("encoding site dirs: %w", err)
		}
		fmt.Fprintf(&b, "printf '\\n%%s\\n%%s\\n' %s %s\n", shellQuote(pyenv.OutputMarker), shellQuote(string(data)))
	}

	path := filepath.Join(dir, "python")
	if err := os.WriteFile(path, []byte(b.String()), 0o755); err != nil {
		return "", fmt.Errorf("writing fake interpreter: %w", err)
	}
	return path, nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
