package presets

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/lifedraft/sitehook/internal/cmdutil"
	"github.com/lifedraft/sitehook/internal/output"
	"github.com/lifedraft/sitehook/internal/sitecustom"
)

// NewCmd creates the "presets" command.
func NewCmd(f *cmdutil.Factory) *cli.Command {
	return &cli.Command{
		Name:  "presets",
		Usage: "List available installation presets",
		UsageText: `# List all presets in text format
  sitehook presets

  # Print the block a preset installs
  sitehook presets --show release

  # List presets as JSON
  sitehook presets --output json`,
		Flags: []cli.Flag{
			cmdutil.OutputFlag(),
			&cli.StringFlag{
				Name:  "show",
				Usage: "Print the full managed block for this preset",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if name := cmd.String("show"); name != "" {
				block, err := sitecustom.RenderBlock(name)
				if err != nil {
					return err
				}
				fmt.Fprint(f.Stdout(), block)
				return nil
			}

			if cmdutil.IsJSON(cmd) {
				type jsonPreset struct {
					Name        string `json:"name"`
					Description string `json:"description"`
					Body        string `json:"body"`
				}
				names := sitecustom.SortedPresetNames
				presetList := make([]jsonPreset, len(names))
				for i, name := range names {
					p := sitecustom.Presets[name]
					presetList[i] = jsonPreset{
						Name:        p.Name,
						Description: p.Description,
						Body:        p.Body,
					}
				}
				return output.PrintJSON(f.Stdout(), map[string]any{
					"presets": presetList,
				})
			}

			tw := output.NewTabWriter(f.Stdout())
			fmt.Fprintf(tw, "NAME\tDESCRIPTION\n")
			for _, name := range sitecustom.SortedPresetNames {
				p := sitecustom.Presets[name]
				fmt.Fprintf(tw, "%s\t%s\n", name, p.Description)
			}
			return tw.Flush()
		},
	}
}
