package pipeline

import (
	"image"
	"os"

	"github.com/disintegration/imaging"

	"github.com/Bh3ky/themambacode/pkg/errors"
)

// LoadImage decodes a portrait from disk. EXIF orientation is honored.
func LoadImage(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "image %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidImage, err, "decode image %s", path)
	}
	return img, nil
}

// PrepareImage resamples the source to the exact target canvas with a
// Lanczos kernel. The aspect ratio is not preserved; poster dimensions win.
func PrepareImage(img image.Image, width, height int) (*image.NRGBA, error) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidImage, "image has empty extent %dx%d", b.Dx(), b.Dy())
	}
	return imaging.Resize(img, width, height, imaging.Lanczos), nil
}
