package sitecustom

import (
	"errors"
	"strings"
	"testing"

	"github.com/bradleyjkemp/cupaloy/v2"
)

func TestRenderBlock(t *testing.T) {
	for _, name := range SortedPresetNames {
		t.Run(name, func(t *testing.T) {
			block, err := RenderBlock(name)
			if err != nil {
				t.Fatal(err)
			}
			cupaloy.SnapshotT(t, block)
		})
	}
}

func TestRenderBlockUnknownPreset(t *testing.T) {
	_, err := RenderBlock("Debug")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if !strings.Contains(err.Error(), "debug, release") {
		t.Errorf("error should list valid presets: %v", err)
	}
}

func TestMarkersAreStable(t *testing.T) {
	if StartMarker != "# <maturin_import_hook>" {
		t.Errorf("StartMarker changed: %q", StartMarker)
	}
	if EndMarker != "# </maturin_import_hook>\n" {
		t.Errorf("EndMarker changed: %q", EndMarker)
	}
	want := "\n# the following commands install the maturin import hook during startup.\n# see: `python -m maturin_import_hook site`\n"
	if Comment != want {
		t.Errorf("Comment changed:\ngot:  %q\nwant: %q", Comment, want)
	}
}

func TestPresetsDiffer(t *testing.T) {
	if !strings.Contains(Presets["release"].Body, "MaturinSettings(release=True)") {
		t.Error("release preset should enable release mode")
	}
	if strings.Contains(Presets["debug"].Body, "release=True") {
		t.Error("debug preset should not enable release mode")
	}
	for name, p := range Presets {
		if p.Name != name {
			t.Errorf("preset %q has Name %q", name, p.Name)
		}
		if !strings.HasSuffix(p.Body, "\n") {
			t.Errorf("preset %q body must end with a newline", name)
		}
	}
}
