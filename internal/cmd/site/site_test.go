package site

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bradleyjkemp/cupaloy/v2"
	"github.com/urfave/cli/v3"

	"github.com/lifedraft/sitehook/internal/cmdutil"
	"github.com/lifedraft/sitehook/internal/sitecustom"
	"github.com/lifedraft/sitehook/internal/testutil"
)

type harness struct {
	f      *cmdutil.Factory
	root   string
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newHarness(t *testing.T, fixture string) *harness {
	t.Helper()
	python, root, _ := testutil.FakeInterpreter(t, fixture)
	h := &harness{
		root:   root,
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	h.f = &cmdutil.Factory{
		ConfigPath: filepath.Join(t.TempDir(), "config.yaml"),
		Python:     python,
		Out:        h.stdout,
		ErrOut:     h.stderr,
	}
	return h
}

func (h *harness) run(args ...string) error {
	app := &cli.Command{
		Name:     "sitehook",
		Commands: []*cli.Command{NewCmd(h.f)},
	}
	return app.Run(context.Background(), append([]string{"sitehook", "site"}, args...))
}

func (h *harness) path(rel string) string {
	return filepath.Join(h.root, filepath.FromSlash(rel))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

const systemSite = "usr/local/lib/python3.12/dist-packages/sitecustomize.py"
const systemUser = "home/user/.local/lib/python3.12/site-packages/usercustomize.py"

func TestInstallAndUninstall(t *testing.T) {
	h := newHarness(t, "system.json")

	if err := h.run("install"); err != nil {
		t.Fatalf("install: %v", err)
	}
	target := h.path(systemSite)
	content := readFile(t, target)
	want, err := sitecustom.RenderBlock("debug")
	if err != nil {
		t.Fatal(err)
	}
	if content != want {
		t.Errorf("content mismatch:\ngot:\n%s\nwant:\n%s", content, want)
	}
	if !strings.Contains(h.stderr.String(), "automatic activation written successfully") {
		t.Errorf("expected progress log on stderr, got:\n%s", h.stderr.String())
	}

	if err := h.run("uninstall"); err != nil {
		t.Fatalf("uninstall: %v", err)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Error("expected sitecustomize.py to be deleted")
	}
}

func TestInstallPrefersExistingSitecustomize(t *testing.T) {
	h := newHarness(t, "system.json")
	existing := h.path("usr/lib/python3/dist-packages/sitecustomize.py")
	if err := os.MkdirAll(filepath.Dir(existing), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(existing, []byte("import os\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := h.run("install", "--preset", "release"); err != nil {
		t.Fatal(err)
	}

	content := readFile(t, existing)
	if !strings.HasPrefix(content, "import os\n\n"+sitecustom.StartMarker) {
		t.Errorf("block should be appended after user content, got:\n%s", content)
	}
	if _, err := os.Stat(h.path(systemSite)); !os.IsNotExist(err) {
		t.Error("first site directory should not be touched")
	}
}

func TestInstallUser(t *testing.T) {
	h := newHarness(t, "system.json")

	if err := h.run("install", "--user", "--preset", "release"); err != nil {
		t.Fatal(err)
	}
	content := readFile(t, h.path(systemUser))
	if !strings.Contains(content, "MaturinSettings(release=True)") {
		t.Errorf("expected release preset, got:\n%s", content)
	}

	if err := h.run("uninstall", "--scope", "usercustomize"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(h.path(systemUser)); !os.IsNotExist(err) {
		t.Error("expected usercustomize.py to be deleted")
	}
}

func TestInstallForce(t *testing.T) {
	h := newHarness(t, "venv.json")
	target := h.path("venv/lib/python3.11/site-packages/sitecustomize.py")

	if err := h.run("install"); err != nil {
		t.Fatal(err)
	}
	if err := h.run("install", "--preset", "release"); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(readFile(t, target), "release=True") {
		t.Fatal("install without --force must not replace the block")
	}

	if err := h.run("install", "--preset", "release", "--force"); err != nil {
		t.Fatal(err)
	}
	content := readFile(t, target)
	if strings.Count(content, sitecustom.StartMarker) != 1 {
		t.Errorf("expected exactly one managed block, got:\n%s", content)
	}
	if !strings.Contains(content, "release=True") {
		t.Errorf("expected release preset after --force, got:\n%s", content)
	}
}

func TestInstallDryRun(t *testing.T) {
	h := newHarness(t, "system.json")

	if err := h.run("install", "--dry-run"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(h.path(systemSite)); !os.IsNotExist(err) {
		t.Error("dry run must not write")
	}
	cupaloy.SnapshotT(t, testutil.RedactOutput(h.stdout.String(), h.root))
}

func TestInstallPresetFromConfig(t *testing.T) {
	h := newHarness(t, "venv.json")
	if err := os.WriteFile(h.f.ConfigPath, []byte("preset: release\nscope: site\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := h.run("install"); err != nil {
		t.Fatal(err)
	}
	content := readFile(t, h.path("venv/lib/python3.11/site-packages/sitecustomize.py"))
	if !strings.Contains(content, "release=True") {
		t.Errorf("expected preset from config, got:\n%s", content)
	}
}

func TestInstallUnknownPreset(t *testing.T) {
	h := newHarness(t, "system.json")

	err := h.run("install", "--preset", "turbo")
	if !errors.Is(err, sitecustom.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestInstallUnknownScope(t *testing.T) {
	h := newHarness(t, "system.json")

	err := h.run("install", "--scope", "venv")
	if !errors.Is(err, sitecustom.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestInstallUserWithoutUserSite(t *testing.T) {
	h := newHarness(t, "no_user_site.json")

	err := h.run("install", "--user")
	if !errors.Is(err, sitecustom.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInstallWithoutSitePackages(t *testing.T) {
	h := newHarness(t, "no_site_packages.json")

	err := h.run("install")
	if !errors.Is(err, sitecustom.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExplicitPathSkipsInterpreter(t *testing.T) {
	h := newHarness(t, "broken.json")
	target := filepath.Join(t.TempDir(), "custom", "sitecustomize.py")

	if err := h.run("install", "--path", target); err != nil {
		t.Fatalf("install --path should not need the interpreter: %v", err)
	}
	if !strings.HasPrefix(readFile(t, target), sitecustom.StartMarker) {
		t.Error("expected managed block in explicit path")
	}
	if err := h.run("uninstall", "--path", target); err != nil {
		t.Fatal(err)
	}
}

func TestUninstallCorruptBlock(t *testing.T) {
	h := newHarness(t, "venv.json")
	target := h.path("venv/lib/python3.11/site-packages/sitecustomize.py")
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte("x = 1\n"+sitecustom.StartMarker+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := h.run("uninstall")
	if !errors.Is(err, sitecustom.ErrCorruptState) {
		t.Fatalf("expected ErrCorruptState, got %v", err)
	}
}

func TestInterpreterFailure(t *testing.T) {
	h := newHarness(t, "broken.json")

	err := h.run("info")
	if err == nil || !strings.Contains(err.Error(), "exit status 3") {
		t.Fatalf("expected interpreter failure, got %v", err)
	}
}

func TestInfoJSON(t *testing.T) {
	h := newHarness(t, "system.json")
	if err := h.run("install", "--user"); err != nil {
		t.Fatal(err)
	}
	h.stdout.Reset()

	if err := h.run("info", "--output", "json"); err != nil {
		t.Fatal(err)
	}

	var info Info
	if err := json.Unmarshal(h.stdout.Bytes(), &info); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, h.stdout.String())
	}
	if info.Version != "3.12.3" {
		t.Errorf("Version = %q", info.Version)
	}
	if info.Site.Installed || info.Site.Exists {
		t.Errorf("sitecustomize should be absent: %+v", info.Site)
	}
	if info.Site.Path != h.path(systemSite) {
		t.Errorf("Site.Path = %q", info.Site.Path)
	}
	if !info.User.Installed || !info.User.Exists {
		t.Errorf("usercustomize should be installed: %+v", info.User)
	}
}

func TestInfoText(t *testing.T) {
	h := newHarness(t, "no_user_site.json")

	if err := h.run("info"); err != nil {
		t.Fatal(err)
	}
	out := testutil.RedactOutput(h.stdout.String(), h.root)
	for _, want := range []string{
		"Version:          3.10.14\n",
		"Site packages:    {root}/opt/python/lib/python3.10/site-packages\n",
		"User site:        (none)\n",
		"  path:           {root}/opt/python/lib/python3.10/site-packages/sitecustomize.py\n",
		"  installed:      false\n",
		"  unavailable:    not found: could not find usercustomize.py (user site-packages not found)\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatTextDisabledUserSite(t *testing.T) {
	disabled := false
	text := FormatText(Info{
		Python:         "python3",
		SitePackages:   []string{"/a", "/b"},
		UserSite:       "/u",
		EnableUserSite: &disabled,
	})
	if !strings.Contains(text, "Site packages:    /a\n                  /b\n") {
		t.Errorf("site packages should be listed one per line:\n%s", text)
	}
	if !strings.Contains(text, "(disabled for this interpreter)") {
		t.Errorf("expected disabled note:\n%s", text)
	}
}

func TestInstallWithNoisyStartupScript(t *testing.T) {
	h := newHarness(t, "noisy_startup.json")
	target := h.path("usr/lib/python3/dist-packages/sitecustomize.py")

	if err := h.run("install"); err != nil {
		t.Fatalf("install: %v", err)
	}
	if !strings.HasPrefix(readFile(t, target), sitecustom.StartMarker) {
		t.Error("expected managed block")
	}
	if err := h.run("uninstall"); err != nil {
		t.Fatalf("uninstall: %v", err)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Error("expected sitecustomize.py to be deleted")
	}
}
