package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/canopy/pkg/cache"
	cerrors "github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/primitive"
	"github.com/matzehuels/canopy/pkg/scene"
	"github.com/matzehuels/canopy/pkg/text"
	"github.com/matzehuels/canopy/pkg/theme"
	"github.com/matzehuels/canopy/pkg/ui"
)

// frameOpts holds the flags that shape a loaded frame.
type frameOpts struct {
	theme  string  // theme TOML file, empty for the default theme
	width  float64 // overrides the scene window width when > 0
	height float64 // overrides the scene window height when > 0
}

func (o *frameOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.theme, "theme", "", "theme TOML file (default: built-in theme)")
	cmd.Flags().Float64Var(&o.width, "width", 0, "window width (default: scene window)")
	cmd.Flags().Float64Var(&o.height, "height", 0, "window height (default: scene window)")
	_ = cmd.RegisterFlagCompletionFunc("theme", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"toml"}, cobra.ShellCompDirectiveFilterFileExt
	})
}

// frame is a scene applied to a toolkit instance.
type frame struct {
	path   string
	scene  *scene.Scene
	ui     *ui.Ui
	theme  *theme.Theme
	fonts  *text.Map
	images map[primitive.ImageID]image.Image

	sceneHash string
	themeHash string
}

// window returns the window dimensions of the frame.
func (f *frame) window() geom.Dimensions { return f.ui.Window().Dim() }

// frameID identifies the frame by content. Loading the same scene with the
// same theme and window gives the same id.
func (f *frame) frameID() string {
	dim := f.window()
	return cache.Hash(fmt.Appendf(nil, "%s:%s:%gx%g", f.sceneHash, f.themeHash, dim[0], dim[1]))[:16]
}

// close releases the font faces of the frame.
func (f *frame) close() {
	if f.fonts != nil {
		_ = f.fonts.Close()
	}
}

// loadFrame reads the scene at path, applies it to a new toolkit instance and
// returns the result. Errors from applying the scene that do not prevent
// drawing (kind mismatches, rejected edges) are logged as warnings.
func loadFrame(ctx context.Context, path string, opts frameOpts) (*frame, error) {
	logger := loggerFromContext(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, cerrors.Wrap(cerrors.ErrCodeFileNotFound, err, "scene %s", path)
		}
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "read scene %s", path)
	}
	s, err := scene.Parse(data)
	if err != nil {
		return nil, err
	}
	if opts.width > 0 {
		s.Window.Width = opts.width
	}
	if opts.height > 0 {
		s.Window.Height = opts.height
	}

	// Renders are keyed on the scene file and the images it shows.
	keyed := bytes.NewBuffer(data)
	images, err := s.LoadImages(filepath.Dir(path), keyed)
	if err != nil {
		return nil, err
	}

	th := theme.Default()
	if opts.theme != "" {
		if th, err = theme.Load(opts.theme); err != nil {
			return nil, err
		}
		logger.Debug("Loaded theme", "path", opts.theme, "name", th.Name)
	}

	fonts, err := text.LoadDefault()
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInternal, err, "load fonts")
	}

	u := ui.New(
		ui.WithLogger(logger),
		ui.WithTheme(th),
		ui.WithFonts(fonts),
		ui.WithCapacity(len(s.Widgets)),
	)
	if err := s.Apply(u); err != nil {
		if !drawable(err) {
			_ = fonts.Close()
			return nil, err
		}
		logger.Warn("Scene applied with errors", "err", err)
	}
	logger.Debug("Applied scene", "path", path, "widgets", u.Graph().WidgetCount(), "order", len(u.Graph().DepthOrder()))

	return &frame{
		path:      path,
		scene:     s,
		ui:        u,
		theme:     th,
		fonts:     fonts,
		images:    images,
		sceneHash: cache.Hash(keyed.Bytes()),
		themeHash: cache.Hash([]byte(th.String())),
	}, nil
}

// drawable reports whether every error joined in err leaves the frame
// drawable.
func drawable(err error) bool {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range j.Unwrap() {
			if !drawable(e) {
				return false
			}
		}
		return true
	}
	switch cerrors.GetCode(err) {
	case cerrors.ErrCodeKindMismatch, cerrors.ErrCodeCycle:
		return true
	}
	return false
}
