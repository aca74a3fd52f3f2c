// Package pipeline sequences a manifester run: configuration, cache sync,
// trip geometry, gallery assets, manifest generation and handoffs.
package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/neophilus/manifester/internal/config"
	"github.com/neophilus/manifester/internal/gallery"
	"github.com/neophilus/manifester/internal/geocache"
	"github.com/neophilus/manifester/internal/handoff"
	"github.com/neophilus/manifester/internal/manifest"
	"github.com/neophilus/manifester/internal/places"
	"github.com/neophilus/manifester/pkg/geocode"
)

// Mode selects which stages a run performs.
type Mode string

// Run modes.
const (
	// ModeRun syncs the cache and generates everything.
	ModeRun Mode = "run"
	// ModeWorld syncs the cache and rebuilds trips and the world bundle.
	ModeWorld Mode = "world"
	// ModeManifest generates the manifest from the existing cache without
	// any lookups.
	ModeManifest Mode = "manifest"
)

func (m Mode) syncs() bool     { return m != ModeManifest }
func (m Mode) generates() bool { return m != ModeWorld }

// Phase records one completed stage.
type Phase struct {
	Name     string
	Duration time.Duration
	Skipped  bool
}

// Result summarises a run.
type Result struct {
	RunID  string
	Mode   Mode
	Sync   geocache.SyncResult
	Trips  int
	Images int
	Phases []Phase
}

// Pipeline wires the stages together.
type Pipeline struct {
	cfg      *config.Config
	geocoder geocode.Client
	deriver  gallery.Deriver
	runner   handoff.Runner
}

// New creates a Pipeline. A nil deriver uses the built-in resampler and a
// nil runner uses os/exec.
func New(cfg *config.Config, gc geocode.Client, deriver gallery.Deriver, runner handoff.Runner) *Pipeline {
	if runner == nil {
		runner = handoff.ExecRunner{}
	}
	return &Pipeline{cfg: cfg, geocoder: gc, deriver: deriver, runner: runner}
}

// Run executes the stages mode asks for. Any failure aborts the run; the
// cache and the manifest are only ever replaced whole.
func (p *Pipeline) Run(ctx context.Context, mode Mode) (*Result, error) {
	result := &Result{RunID: uuid.NewString(), Mode: mode}
	log := zap.L().With(zap.String("run_id", result.RunID), zap.String("mode", string(mode)))
	log.Info("pipeline: starting")

	if err := p.cfg.Validate(string(mode)); err != nil {
		return nil, err
	}

	track := func(name string, fn func() (skipped bool, err error)) error {
		start := time.Now()
		skipped, err := fn()
		phase := Phase{Name: name, Duration: time.Since(start), Skipped: skipped}
		if err != nil {
			log.Error("pipeline: phase failed",
				zap.String("phase", name),
				zap.Duration("duration", phase.Duration),
				zap.Error(err),
			)
			return err
		}
		result.Phases = append(result.Phases, phase)
		log.Info("pipeline: phase complete",
			zap.String("phase", name),
			zap.Duration("duration", phase.Duration),
			zap.Bool("skipped", skipped),
		)
		return nil
	}

	var (
		reg    *places.Registry
		cache  *geocache.Cache
		images []gallery.Image
		store  = geocache.Store{CitiesPath: p.cfg.Paths.Cities, TripsPath: p.cfg.Paths.Trips}
	)

	if err := track("config", func() (bool, error) {
		var err error
		reg, err = p.loadRegistry()
		return false, err
	}); err != nil {
		return nil, err
	}

	if mode.syncs() {
		if err := track("sync", func() (bool, error) {
			var err error
			cache, result.Sync, err = p.sync(ctx, store, reg)
			return false, err
		}); err != nil {
			return nil, err
		}

		if err := track("trips", func() (bool, error) {
			lines, err := geocache.BuildTrips(reg, cache)
			if err != nil {
				return false, err
			}
			result.Trips = len(lines)
			return false, store.SaveTrips(lines)
		}); err != nil {
			return nil, err
		}

		if err := track("topojson", func() (bool, error) {
			ran, err := handoff.Run(ctx, p.runner, handoff.TopoJSON(p.cfg.Format, p.cfg.Paths))
			return !ran, err
		}); err != nil {
			return nil, err
		}
	} else {
		if err := track("load", func() (bool, error) {
			var found bool
			var err error
			cache, found, err = store.Load()
			if err == nil && !found {
				log.Warn("pipeline: no cities file, every location will lack coordinates", zap.String("path", store.CitiesPath))
			}
			return false, err
		}); err != nil {
			return nil, err
		}
	}

	if !mode.generates() {
		log.Info("pipeline: finished", zap.Int("resolved", result.Sync.Resolved), zap.Int("trips", result.Trips))
		return result, nil
	}

	if err := track("gallery", func() (bool, error) {
		var err error
		images, err = p.scanGallery(ctx, reg)
		result.Images = len(images)
		return images == nil, err
	}); err != nil {
		return nil, err
	}

	if err := track("manifest", func() (bool, error) {
		m, err := manifest.Build(reg, cache, images)
		if err != nil {
			return false, err
		}
		return false, manifest.WriteFile(p.cfg.Paths.Manifest, m)
	}); err != nil {
		return nil, err
	}

	if err := track("elm-format", func() (bool, error) {
		ran, err := handoff.Run(ctx, p.runner, handoff.ElmFormat(p.cfg.Format, p.cfg.Paths.Manifest))
		return !ran, err
	}); err != nil {
		return nil, err
	}

	log.Info("pipeline: finished",
		zap.Int("resolved", result.Sync.Resolved),
		zap.Int("trips", result.Trips),
		zap.Int("images", result.Images),
	)
	return result, nil
}

func (p *Pipeline) loadRegistry() (*places.Registry, error) {
	cfg, err := places.LoadConfig(p.cfg.Paths.Places)
	if err != nil {
		return nil, err
	}
	codes, err := places.LoadCountryCodes(p.cfg.Paths.CountryCode)
	if err != nil {
		return nil, err
	}
	return places.NewRegistry(cfg, codes)
}

func (p *Pipeline) sync(ctx context.Context, store geocache.Store, reg *places.Registry) (*geocache.Cache, geocache.SyncResult, error) {
	if p.geocoder == nil {
		return nil, geocache.SyncResult{}, eris.New("pipeline: sync requires a geocoder")
	}
	policy, err := geocache.ParsePolicy(p.cfg.Geocode.Policy)
	if err != nil {
		return nil, geocache.SyncResult{}, err
	}
	syncer := &geocache.Syncer{
		Store:    store,
		Resolver: geocache.NewResolver(p.geocoder, p.cfg.Geocode.Delay),
		Policy:   policy,
	}
	return syncer.Sync(ctx, reg)
}

// scanGallery returns nil images, without error, when the gallery root does
// not exist.
func (p *Pipeline) scanGallery(ctx context.Context, reg *places.Registry) ([]gallery.Image, error) {
	root := p.cfg.Paths.Gallery
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		zap.L().Warn("pipeline: gallery not found, manifest will list no images", zap.String("path", root))
		return nil, nil
	}

	g := p.cfg.Gallery
	opts := gallery.Options{
		Root:        root,
		NarrowWidth: g.NarrowWidth,
		WideWidth:   g.WideWidth,
		Height:      g.Height,
		WideRatio:   g.WideRatio,
		BlurSigma:   g.BlurSigma,
		Concurrency: g.Concurrency,
	}
	images, err := gallery.New(opts, p.deriver).Run(ctx, reg)
	if err != nil {
		return nil, err
	}
	if images == nil {
		images = []gallery.Image{}
	}
	return images, nil
}
