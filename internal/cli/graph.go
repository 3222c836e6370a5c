package cli

import (
	"os"

	"github.com/spf13/cobra"

	cerrors "github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/render/nodelink"
)

var graphFormats = []string{"dot", formatSVG, formatPNG}

// graphCommand creates the graph command that draws the widget graph of a
// scene as a node-link diagram.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		output   string
		format   string
		detailed bool
		opts     frameOpts
	)

	cmd := sceneCommand(&cobra.Command{
		Use:   "graph [scene]",
		Short: "Draw the widget graph of a scene with Graphviz",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cerrors.ValidateFormat(format, graphFormats); err != nil {
				return err
			}
			f, err := loadFrame(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			defer f.close()

			dot := nodelink.ToDOT(f.ui.Graph(), nodelink.Options{Detailed: detailed, Name: f.scene.Name})
			var data []byte
			switch format {
			case "dot":
				data = []byte(dot)
			case formatSVG:
				data, err = nodelink.RenderSVG(dot)
			case formatPNG:
				data, err = nodelink.RenderPNG(dot)
			}
			if err != nil {
				return cerrors.Wrap(cerrors.ErrCodeInternal, err, "graphviz %s", format)
			}

			if output == "" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return cerrors.Wrap(cerrors.ErrCodeInvalidPath, err, "write %s", output)
			}
			printSuccess("Graph written")
			printDetail("%d nodes", f.ui.Graph().NodeCount())
			printFile(output)
			return nil
		},
	})

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot, svg, png")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats(graphFormats))
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show rectangles, depth and flags")
	opts.register(cmd)

	return cmd
}
