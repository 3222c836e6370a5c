package scene

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	cerrors "github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/primitive"
)

// ImageFile is one [[image]] entry. Image widgets refer to it by id; the
// path is relative to the scene file.
type ImageFile struct {
	ID   primitive.ImageID `toml:"id"`
	Path string            `toml:"path"`
}

func (s *Scene) validateImages() error {
	seen := make(map[primitive.ImageID]bool, len(s.Images))
	for _, img := range s.Images {
		if seen[img.ID] {
			return cerrors.New(cerrors.ErrCodeInvalidScene, "duplicate image id %d", img.ID)
		}
		seen[img.ID] = true
		if err := cerrors.ValidatePath(img.Path); err != nil {
			return cerrors.Wrap(cerrors.ErrCodeInvalidScene, err, "image %d", img.ID)
		}
	}
	for _, w := range s.Widgets {
		if w.Kind == primitive.KindImage && len(s.Images) > 0 && !seen[primitive.ImageID(w.State.Image)] {
			return cerrors.New(cerrors.ErrCodeInvalidScene, "widget %q shows unknown image %d", w.Name, w.State.Image)
		}
	}
	return nil
}

// LoadImages decodes the image files of the scene relative to dir. PNG,
// JPEG, GIF, BMP, TIFF and WebP files are supported. The raw file contents
// are also written to digest, when it is non-nil, so callers can key
// renders on them.
func (s *Scene) LoadImages(dir string, digest io.Writer) (map[primitive.ImageID]image.Image, error) {
	if len(s.Images) == 0 {
		return nil, nil
	}
	images := make(map[primitive.ImageID]image.Image, len(s.Images))
	for _, f := range s.Images {
		path := filepath.Join(dir, filepath.FromSlash(f.Path))
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, cerrors.Wrap(cerrors.ErrCodeFileNotFound, err, "image %d", f.ID)
			}
			return nil, cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "image %d", f.ID)
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "decode image %d (%s)", f.ID, f.Path)
		}
		images[f.ID] = img
		if digest != nil {
			_, _ = digest.Write(data)
		}
	}
	return images, nil
}
