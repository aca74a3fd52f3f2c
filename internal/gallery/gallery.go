// Package gallery scans the photo gallery, derives missing thumbnails and
// blurred placeholders, and collects the per-image records the manifest
// lists.
package gallery

import (
	"context"
	"runtime"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/neophilus/manifester/internal/model"
	"github.com/neophilus/manifester/internal/places"
)

// Image is one gallery photo as listed in the manifest.
type Image struct {
	Path        string
	File        string
	Date        model.Date
	Location    string
	AspectRatio float64
	Description string
}

// Options configures the asset pipeline.
type Options struct {
	Root        string
	NarrowWidth int
	WideWidth   int
	Height      int
	WideRatio   float64
	BlurSigma   float64
	Concurrency int
}

// DefaultOptions returns the stock thumbnail geometry.
func DefaultOptions(root string) Options {
	return Options{
		Root:        root,
		NarrowWidth: 500,
		WideWidth:   900,
		Height:      500,
		WideRatio:   3.0,
		BlurSigma:   30,
	}
}

// ThumbnailWidth picks the thumbnail width bucket for an aspect ratio.
func (o Options) ThumbnailWidth(ratio float64) int {
	if ratio < o.WideRatio {
		return o.NarrowWidth
	}
	return o.WideWidth
}

// Pipeline scans the gallery and generates derivatives.
type Pipeline struct {
	opts    Options
	deriver Deriver
}

// New creates a Pipeline. A nil deriver uses the built-in resampler.
func New(opts Options, deriver Deriver) *Pipeline {
	if deriver == nil {
		deriver = Resampler{BlurSigma: opts.BlurSigma}
	}
	return &Pipeline{opts: opts, deriver: deriver}
}

// Run scans the gallery, generates missing derivatives in parallel and
// returns the images sorted by path. The first derivation failure cancels
// the remaining work.
func (p *Pipeline) Run(ctx context.Context, reg *places.Registry) ([]Image, error) {
	log := zap.L().With(zap.String("gallery", p.opts.Root))

	paths, err := Scan(p.opts.Root)
	if err != nil {
		return nil, err
	}
	log.Info("gallery: scanning images", zap.Int("count", len(paths)))

	images := make([]Image, 0, len(paths))
	var jobs []Job
	for _, path := range paths {
		img, err := p.inspect(reg, path)
		if err != nil {
			return nil, err
		}
		images = append(images, img)

		if pending := PlanDerivatives(path, fileExists); len(pending) > 0 {
			jobs = append(jobs, Job{
				Source:  path,
				Width:   p.opts.ThumbnailWidth(img.AspectRatio),
				Height:  p.opts.Height,
				Outputs: pending,
			})
		}
	}

	if err := p.derive(ctx, jobs); err != nil {
		return nil, err
	}
	log.Info("gallery: derivatives complete", zap.Int("generated", len(jobs)))
	return images, nil
}

func (p *Pipeline) inspect(reg *places.Registry, path string) (Image, error) {
	meta, err := ParsePath(p.opts.Root, path)
	if err != nil {
		return Image{}, err
	}
	if _, ok := reg.Location(meta.Location); !ok {
		return Image{}, unknownLocation(path, meta.Location)
	}

	ratio, err := AspectRatio(path)
	if err != nil {
		return Image{}, err
	}
	desc, err := Description(path)
	if err != nil {
		return Image{}, err
	}

	return Image{
		Path:        path,
		File:        meta.File,
		Date:        meta.Date,
		Location:    meta.Location,
		AspectRatio: ratio,
		Description: desc,
	}, nil
}

func (p *Pipeline) derive(ctx context.Context, jobs []Job) error {
	limit := p.opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for _, job := range jobs {
		eg.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			if err := p.deriver.Derive(job); err != nil {
				return eris.Wrapf(err, "gallery: derive %s", job.Source)
			}
			zap.L().Debug("gallery: derived", zap.String("source", job.Source), zap.Int("width", job.Width))
			return nil
		})
	}
	return eg.Wait()
}
