package testutil

import (
	"path/filepath"
	"runtime"
	"testing"
)

// ProjectRoot returns the repository root.
func ProjectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "..", "..")
}

// FixturePath returns the path of an interpreter fixture in testdata/interpreters.
func FixturePath(name string) string {
	return filepath.Join(ProjectRoot(), "testdata", "interpreters", name)
}

// FakeInterpreter loads the named fixture, roots its paths in a fresh temp dir
// and writes a fake interpreter replaying it. It returns the interpreter path,
// the root directory and the expanded simulation.
func FakeInterpreter(t testing.TB, fixture string) (string, string, *Simulation) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake interpreter needs a POSIX shell")
	}

	sim, err := LoadSimulation(FixturePath(fixture))
	if err != nil {
		t.Fatalf("loading fixture: %v", err)
	}
	root := t.TempDir()
	sim = sim.Expand(root)

	python, err := WriteFakeInterpreter(t.TempDir(), sim)
	if err != nil {
		t.Fatalf("writing fake interpreter: %v", err)
	}
	return python, root, sim
}
