package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // register WebP with image.Decode

	"github.com/gogpu/sepconv"
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when the image format is not supported.
	ErrUnsupportedFormat = errors.New("image: unsupported format")

	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("image: empty data")

	// ErrUnsupportedChannels is returned for arrays that are not gray, RGB
	// or RGBA.
	ErrUnsupportedChannels = errors.New("image: unsupported channel count")
)

// Format is an encodable file format.
type Format uint8

// Encodable formats. WebP can be decoded but not written.
const (
	FormatPNG Format = iota
	FormatJPEG
	FormatBMP
	FormatTIFF
)

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpeg"
	case FormatBMP:
		return "bmp"
	case FormatTIFF:
		return "tiff"
	default:
		return fmt.Sprintf("Format(%d)", f)
	}
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	case ".bmp":
		return FormatBMP, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// EncodeOptions tunes Encode. A nil *EncodeOptions uses the defaults.
type EncodeOptions struct {
	// Quality is the JPEG quality, 1-100. Zero means 90.
	Quality int
}

// DefaultJPEGQuality is used when EncodeOptions.Quality is zero.
const DefaultJPEGQuality = 90

func (o *EncodeOptions) quality() int {
	if o == nil || o.Quality == 0 {
		return DefaultJPEGQuality
	}
	return min(max(o.Quality, 1), 100)
}

// Load reads and decodes the image at path.
// Supported formats: PNG, JPEG, BMP, TIFF, WebP.
func Load(path string) (*sepconv.Array, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("image: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// DecodeBytes decodes an image held in memory.
func DecodeBytes(data []byte) (*sepconv.Array, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	return Decode(bytes.NewReader(data))
}

// Decode decodes an image from r, auto-detecting the format. The array has
// three channels, or four when the source carries non-opaque alpha.
func Decode(r io.Reader) (*sepconv.Array, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("image: decode: %w", err)
	}

	a, err := FromStdImage(img, 0)
	if err != nil {
		return nil, err
	}

	sepconv.Logger().Debug("image: decoded", "format", format, "shape", a.Shape())
	return a, nil
}

// FromStdImage converts img to a planar array with samples in [0, 1].
// channels is 1 (gray), 3 (RGB) or 4 (RGBA); 0 picks 3 or 4 from the
// image's opacity. Alpha is not premultiplied.
func FromStdImage(img image.Image, channels int) (*sepconv.Array, error) {
	if channels == 0 {
		channels = 3
		if o, ok := img.(interface{ Opaque() bool }); ok && !o.Opaque() {
			channels = 4
		}
	}

	if channels != 1 && channels != 3 && channels != 4 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedChannels, channels)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	a, err := sepconv.NewArray(width, height, channels)
	if err != nil {
		return nil, fmt.Errorf("%w: %dx%d image", ErrEmptyData, width, height)
	}

	switch channels {
	case 1:
		gray := image.NewGray(image.Rect(0, 0, width, height))
		draw.Draw(gray, gray.Bounds(), img, bounds.Min, draw.Src)
		plane := a.Plane(0)
		for y := range height {
			row := gray.Pix[y*gray.Stride : y*gray.Stride+width]
			for x, v := range row {
				plane[y*width+x] = unit(v)
			}
		}

	default:
		nrgba := toNRGBA(img)
		for c := range channels {
			plane := a.Plane(c)
			for y := range height {
				row := nrgba.Pix[y*nrgba.Stride:]
				for x := range width {
					plane[y*width+x] = unit(row[x*4+c])
				}
			}
		}
	}

	return a, nil
}

// toNRGBA returns img as a zero-origin NRGBA, converting when needed.
func toNRGBA(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	if nrgba, ok := img.(*image.NRGBA); ok && bounds.Min == (image.Point{}) {
		return nrgba
	}
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return dst
}

// ToStdImage converts a to *image.Gray (one channel) or *image.NRGBA (three
// or four channels; three are written opaque). Samples are clamped to
// [0, 1] and rounded to the nearest byte.
func ToStdImage(a *sepconv.Array) (image.Image, error) {
	if a == nil || a.Len() == 0 {
		return nil, ErrEmptyData
	}
	width, height := a.Width(), a.Height()
	rect := image.Rect(0, 0, width, height)

	switch a.Channels() {
	case 1:
		gray := image.NewGray(rect)
		plane := a.Plane(0)
		for y := range height {
			row := gray.Pix[y*gray.Stride:]
			for x := range width {
				row[x] = quantize(plane[y*width+x])
			}
		}
		return gray, nil

	case 3, 4:
		nrgba := image.NewNRGBA(rect)
		if a.Channels() == 3 {
			for i := 3; i < len(nrgba.Pix); i += 4 {
				nrgba.Pix[i] = 255
			}
		}
		for c := range a.Channels() {
			plane := a.Plane(c)
			for y := range height {
				row := nrgba.Pix[y*nrgba.Stride:]
				for x := range width {
					row[x*4+c] = quantize(plane[y*width+x])
				}
			}
		}
		return nrgba, nil

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedChannels, a.Channels())
	}
}

// Save encodes a to path in the format named by its extension.
func Save(path string, a *sepconv.Array, opts *EncodeOptions) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("image: create file: %w", err)
	}

	if err := Encode(f, a, format, opts); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

// Encode writes a to w in the given format.
func Encode(w io.Writer, a *sepconv.Array, format Format, opts *EncodeOptions) error {
	img, err := ToStdImage(a)
	if err != nil {
		return err
	}

	switch format {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatJPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: opts.quality()})
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("image: encode %s: %w", format, err)
	}
	return nil
}

// EncodeToBytes encodes a in the given format and returns the bytes.
func EncodeToBytes(a *sepconv.Array, format Format, opts *EncodeOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, a, format, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func unit(v uint8) float32 { return float32(v) / 255 }

func quantize(v float32) uint8 {
	x := v * 255
	if !(x > 0) { // also NaN
		return 0
	}
	if x >= 255 {
		return 255
	}
	return uint8(x + 0.5)
}
