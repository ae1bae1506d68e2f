package clean

import (
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// imageCleaner rebuilds the picture pixel by pixel into a freshly
// constructed image, so ancillary chunks and EXIF segments are gone by
// construction rather than by deletion.
type imageCleaner struct{}

func (imageCleaner) Extensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff"}
}

func (imageCleaner) Clean(src, dst string) (string, error) {
	f, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("decoding image: %w", err)
	}

	fresh := rebuildImage(img)

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if err := encodeImage(out, fresh, strings.ToLower(filepath.Ext(dst)), format); err != nil {
		return "", fmt.Errorf("encoding image: %w", err)
	}
	return "", out.Sync()
}

// rebuildImage copies the pixels into a new image of matching mode.
// Chroma-subsampled sources land in NRGBA since their planes cannot be
// rebuilt losslessly pixel by pixel.
func rebuildImage(img image.Image) image.Image {
	b := img.Bounds()
	switch src := img.(type) {
	case *image.Gray:
		dst := image.NewGray(b)
		copy(dst.Pix, src.Pix)
		return dst
	case *image.Gray16:
		dst := image.NewGray16(b)
		copy(dst.Pix, src.Pix)
		return dst
	case *image.RGBA:
		dst := image.NewRGBA(b)
		copy(dst.Pix, src.Pix)
		return dst
	case *image.RGBA64:
		dst := image.NewRGBA64(b)
		copy(dst.Pix, src.Pix)
		return dst
	case *image.NRGBA:
		dst := image.NewNRGBA(b)
		copy(dst.Pix, src.Pix)
		return dst
	case *image.NRGBA64:
		dst := image.NewNRGBA64(b)
		copy(dst.Pix, src.Pix)
		return dst
	case *image.CMYK:
		dst := image.NewCMYK(b)
		copy(dst.Pix, src.Pix)
		return dst
	case *image.Paletted:
		dst := image.NewPaletted(b, src.Palette)
		copy(dst.Pix, src.Pix)
		return dst
	default:
		dst := image.NewNRGBA(b)
		draw.Draw(dst, b, img, b.Min, draw.Src)
		return dst
	}
}

func encodeImage(out *os.File, img image.Image, ext, format string) error {
	switch ext {
	case ".jpg", ".jpeg":
		return jpeg.Encode(out, img, &jpeg.Options{Quality: 95})
	case ".png":
		return png.Encode(out, img)
	case ".gif":
		// Animated sources collapse to the first frame.
		return gif.Encode(out, img, nil)
	case ".bmp":
		return bmp.Encode(out, img)
	case ".tiff":
		return tiff.Encode(out, img, nil)
	}
	return fmt.Errorf("no encoder for %s (decoded as %s)", ext, format)
}

func init() {
	register(imageCleaner{})
}
