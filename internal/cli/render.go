package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/canopy/pkg/cache"
	cerrors "github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/render/sink"
)

const (
	formatSVG  = "svg"
	formatPNG  = "png"
	formatJSON = "json"
)

// renderFormats is the set of supported output formats.
var renderFormats = []string{formatSVG, formatPNG, formatJSON}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output file (single format) or base path (multiple)
	formats []string // output formats: "svg", "png", "json"
	scale   float64  // PNG scale factor
	frame   frameOpts
	cache   cacheOpts
}

// renderCommand creates the render command for drawing a scene.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: 1}

	cmd := sceneCommand(&cobra.Command{
		Use:   "render [scene]",
		Short: "Render a scene to SVG, PNG or JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			if opts.scale <= 0 {
				return cerrors.New(cerrors.ErrCodeInvalidInput, "scale must be positive, got %v", opts.scale)
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	})

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, json (comma-separated)")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats(renderFormats))
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	opts.frame.register(cmd)
	opts.cache.register(cmd)

	return cmd
}

// validateFormats checks that all requested formats are supported.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if err := cerrors.ValidateFormat(f, renderFormats); err != nil {
			return err
		}
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output has a
// format extension, that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if cerrors.ValidateFormat(strings.TrimPrefix(ext, "."), renderFormats) == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath returns the file a format is written to.
func (o *renderOpts) outputPath(input, format string) string {
	if len(o.formats) == 1 && o.output != "" {
		return o.output
	}
	return basePath(o.output, input) + "." + format
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	f, err := loadFrame(ctx, input, opts.frame)
	if err != nil {
		return err
	}
	defer f.close()
	prog.step("Loaded scene", "widgets", f.ui.Graph().WidgetCount())

	store, err := c.newCache(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer store.Close()
	r := &renderer{cache: store, keyer: cache.NewDefaultKeyer()}

	for _, format := range opts.formats {
		sp := newSpinner(ctx, os.Stderr, fmt.Sprintf("Rendering %s...", format))
		sp.Start()
		data, cached, err := r.artifact(ctx, f, format, opts.scale)
		if err != nil {
			sp.StopWithError(fmt.Sprintf("Rendering %s failed", format))
			return err
		}
		sp.Stop()
		path := opts.outputPath(input, format)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return cerrors.Wrap(cerrors.ErrCodeInvalidPath, err, "write %s", path)
		}
		printSuccess("Rendered %s", strings.ToUpper(format))
		printStats(f.ui.Graph().WidgetCount(), len(f.ui.Graph().DepthOrder()), cached)
		printFile(path)
	}
	prog.done(fmt.Sprintf("Rendered %s", input))
	printNextStep("Preview live", fmt.Sprintf("%s serve %s", appName, input))
	return nil
}

// renderer draws frames into artifacts, caching them by scene and render
// inputs.
type renderer struct {
	cache cache.Cache
	keyer cache.Keyer
}

// artifact returns the rendered frame in format and whether it came from the
// cache. Cache failures are logged and otherwise ignored.
func (r *renderer) artifact(ctx context.Context, f *frame, format string, scale float64) ([]byte, bool, error) {
	logger := loggerFromContext(ctx)
	dim := f.window()
	key := r.keyer.ArtifactKey(f.sceneHash, cache.ArtifactKeyOpts{
		Format:    format,
		ThemeHash: f.themeHash,
		Width:     dim[0],
		Height:    dim[1],
		Scale:     scale,
		Fonts:     f.fonts != nil,
	})

	data, ok, err := r.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("Cache read failed", "err", err)
	}
	if ok {
		logger.Debug("Cache hit", "format", format, "key", key[:12])
		return data, true, nil
	}

	if data, err = drawFrame(f, format, scale); err != nil {
		return nil, false, err
	}
	if err := r.cache.Set(ctx, key, data, cache.ArtifactTTL); err != nil {
		logger.Warn("Cache write failed", "err", err)
	}
	return data, false, nil
}

// drawFrame extracts the frame's primitives and encodes them in format.
func drawFrame(f *frame, format string, scale float64) ([]byte, error) {
	dim := f.window()
	ex := f.ui.Draw()
	switch format {
	case formatSVG:
		return sink.RenderSVG(ex, dim, sink.WithBackground(f.theme.BackgroundColor)), nil
	case formatPNG:
		data, err := sink.RenderPNG(ex, dim,
			sink.WithScale(scale),
			sink.WithFonts(f.fonts),
			sink.WithImages(f.images),
			sink.WithPNGBackground(f.theme.BackgroundColor))
		if err != nil {
			return nil, cerrors.Wrap(cerrors.ErrCodeInternal, err, "render png")
		}
		return data, nil
	case formatJSON:
		data, err := sink.RenderJSON(ex, dim, sink.WithFrameID(f.frameID()))
		if err != nil {
			return nil, cerrors.Wrap(cerrors.ErrCodeInternal, err, "render json")
		}
		return data, nil
	}
	return nil, cerrors.New(cerrors.ErrCodeUnsupported, "format %q", format)
}
