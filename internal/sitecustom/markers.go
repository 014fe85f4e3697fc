package sitecustom

import (
	"fmt"
	"sort"
	"strings"
)

// Sentinels delimiting the managed block. They must stay byte-for-byte stable:
// blocks written by earlier releases are located by these exact strings.
const (
	StartMarker = "# <maturin_import_hook>"
	EndMarker   = "# </maturin_import_hook>\n"
)

// Comment is written between the start marker and the preset body.
const Comment = `
# the following commands install the maturin import hook during startup.
# see: ` + "`python -m maturin_import_hook site`" + `
`

// Preset is a named block body that can be installed.
type Preset struct {
	Name        string
	Description string
	Body        string
}

// Presets is the map of all available installation presets.
var Presets = map[string]Preset{
	"debug": {
		Name:        "debug",
		Description: "Install the import hook with default (debug build) settings",
		Body: `try:
    import maturin_import_hook
except ImportError:
    pass
else:
    maturin_import_hook.install()
`,
	},
	"release": {
		Name:        "release",
		Description: "Install the import hook building extensions in release mode",
		Body: `try:
    import maturin_import_hook
    from maturin_import_hook.settings import MaturinSettings
except ImportError:
    pass
else:
    maturin_import_hook.install(MaturinSettings(release=True))
`,
	},
}

// SortedPresetNames lists preset names in alphabetical order.
var SortedPresetNames = sortedNames(Presets)

func sortedNames(m map[string]Preset) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RenderBlock returns the complete managed block for the named preset,
// from the start marker through the end marker's trailing newline.
func RenderBlock(presetName string) (string, error) {
	p, ok := Presets[presetName]
	if !ok {
		return "", fmt.Errorf("%w: unknown managed installation preset %q (valid: %s)",
			ErrInvalidArgument, presetName, strings.Join(SortedPresetNames, ", "))
	}
	return StartMarker + Comment + p.Body + EndMarker, nil
}
