package gallery

import (
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/image/draw"

	"github.com/neophilus/manifester/internal/atomicfile"
)

// Kind is a derivative type.
type Kind int

const (
	Thumbnail Kind = iota
	Blur
)

func (k Kind) String() string {
	if k == Blur {
		return "blur"
	}
	return "thumbnail"
}

// Output is one derivative file to produce.
type Output struct {
	Kind Kind
	Path string
}

// Job asks for the missing derivatives of one source image. The thumbnail
// fits inside Width x Height; the blur is made from the thumbnail.
type Job struct {
	Source  string
	Width   int
	Height  int
	Outputs []Output
}

// Deriver produces derivative images.
type Deriver interface {
	Derive(job Job) error
}

// Resampler derives images with golang.org/x/image/draw. The blur is a
// downsample-then-upsample pass whose strength follows BlurSigma.
type Resampler struct {
	BlurSigma float64
}

// Derive implements Deriver.
func (r Resampler) Derive(job Job) error {
	if len(job.Outputs) == 0 {
		return nil
	}
	src, err := decodeFile(job.Source)
	if err != nil {
		return err
	}

	thumb := resizeToFit(src, job.Width, job.Height)
	for _, out := range job.Outputs {
		img := image.Image(thumb)
		if out.Kind == Blur {
			img = r.blur(thumb)
		}
		if err := encodeFile(out.Path, img); err != nil {
			return err
		}
	}
	return nil
}

func (r Resampler) blur(src image.Image) image.Image {
	factor := int(math.Max(2, math.Round(r.BlurSigma/2)))
	b := src.Bounds()
	sw := max(1, b.Dx()/factor)
	sh := max(1, b.Dy()/factor)

	small := image.NewRGBA(image.Rect(0, 0, sw, sh))
	draw.ApproxBiLinear.Scale(small, small.Bounds(), src, b, draw.Src, nil)
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.BiLinear.Scale(out, out.Bounds(), small, small.Bounds(), draw.Src, nil)
	return out
}

// FitSize scales w x h to fit inside maxW x maxH, keeping the aspect ratio.
func FitSize(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	scale := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	nw := max(1, int(math.Round(float64(w)*scale)))
	nh := max(1, int(math.Round(float64(h)*scale)))
	return nw, nh
}

func resizeToFit(src image.Image, maxW, maxH int) *image.RGBA {
	b := src.Bounds()
	w, h := FitSize(b.Dx(), b.Dy(), maxW, maxH)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// AspectRatio reads an image header and returns width / height.
func AspectRatio(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, eris.Wrapf(err, "gallery: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, eris.Wrapf(err, "gallery: decode header %s", path)
	}
	if cfg.Height == 0 {
		return 0, eris.Errorf("gallery: %s has zero height", path)
	}
	return float64(cfg.Width) / float64(cfg.Height), nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "gallery: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, eris.Wrapf(err, "gallery: decode %s", path)
	}
	return img, nil
}

func encodeFile(path string, img image.Image) error {
	ext := strings.ToLower(filepath.Ext(path))
	return atomicfile.WriteFile(path, 0o644, func(w io.Writer) error {
		switch ext {
		case ".png":
			return eris.Wrapf(png.Encode(w, img), "gallery: encode %s", path)
		default:
			return eris.Wrapf(jpeg.Encode(w, img, &jpeg.Options{Quality: 90}), "gallery: encode %s", path)
		}
	})
}
