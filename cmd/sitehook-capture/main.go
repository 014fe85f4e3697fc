// Command sitehook-capture records what real Python interpreters report about
// their site directories for use as test fixtures.
//
// Usage:
//
//	go run ./cmd/sitehook-capture [name=python ...]
//
// Each argument names a fixture and the interpreter to query, for example
// "system=/usr/bin/python3" or "venv=.venv/bin/python". Without arguments the
// configured interpreter is captured as "local". Installation prefixes and the
// home directory are redacted to {root} and the fixtures are written to
// testdata/interpreters/.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/lifedraft/sitehook/internal/config"
	"github.com/lifedraft/sitehook/internal/pyenv"
	"github.com/lifedraft/sitehook/internal/testutil"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type target struct {
	name   string
	python string
}

func run(args []string) error {
	targets, err := parseTargets(args)
	if err != nil {
		return err
	}

	outDir := filepath.Join(projectRoot(), "testdata", "interpreters")
	fmt.Printf("Output directory: %s\n\n", outDir)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	home, _ := os.UserHomeDir()

	for _, tg := range targets {
		fmt.Printf("Capturing %s (%s)... ", tg.name, tg.python)

		dirs, err := pyenv.New(tg.python, nil).Query(ctx)
		if err != nil {
			fmt.Printf("FAILED: %v\n", err)
			continue
		}

		sim := &testutil.Simulation{
			Description: fmt.Sprintf("captured from %s on %s/%s", filepath.Base(tg.python), runtime.GOOS, runtime.GOARCH),
			Dirs:        *dirs,
		}
		testutil.RedactSimulation(sim, testutil.RedactOptions{
			Prefixes: []string{dirs.Prefix, home},
		})

		path := filepath.Join(outDir, tg.name+".json")
		if err := testutil.SaveSimulation(path, sim); err != nil {
			return fmt.Errorf("saving %s: %w", tg.name, err)
		}
		fmt.Printf("OK (%d site dirs)\n", len(sim.Dirs.Packages))
	}

	fmt.Println("\nCapture complete. Review testdata/interpreters/ for redacted fixtures.")
	return nil
}

func parseTargets(args []string) ([]target, error) {
	if len(args) == 0 {
		cfg, err := config.Load("")
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return []target{{name: "local", python: cfg.WithDefaults().Python}}, nil
	}

	targets := make([]target, 0, len(args))
	for _, arg := range args {
		name, python, ok := strings.Cut(arg, "=")
		if !ok || name == "" || python == "" {
			return nil, fmt.Errorf("invalid target %q (want name=python)", arg)
		}
		targets = append(targets, target{name: name, python: python})
	}
	return targets, nil
}

func projectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "..", "..")
}
