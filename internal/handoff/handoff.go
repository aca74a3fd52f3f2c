// Package handoff runs the optional external tools that post-process
// generated files: topojson for the world bundle and elm-format for the
// manifest.
package handoff

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/neophilus/manifester/internal/config"
)

// Runner executes external binaries.
type Runner interface {
	LookPath(bin string) (string, error)
	Run(ctx context.Context, bin string, args ...string) error
}

// ExecRunner runs binaries with os/exec.
type ExecRunner struct{}

// LookPath implements Runner.
func (ExecRunner) LookPath(bin string) (string, error) {
	return exec.LookPath(bin)
}

// Run implements Runner. Stderr is folded into the returned error.
func (ExecRunner) Run(ctx context.Context, bin string, args ...string) error {
	cmd := exec.CommandContext(ctx, bin, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return eris.Wrapf(err, "handoff: %s failed: %s", bin, stderr.String())
	}
	return nil
}

// Step is one external tool invocation.
type Step struct {
	Name string
	Bin  string
	Args []string
}

// TopoJSON bundles the country, city and trip collections into the world
// topology the renderer loads.
func TopoJSON(cfg config.FormatConfig, paths config.PathsConfig) Step {
	return Step{
		Name: "topojson",
		Bin:  cfg.TopoJSON,
		Args: []string{
			"-o", paths.World,
			"--id-property", "su_a3",
			"--properties", "name,localname,country",
			"--",
			paths.Countries, paths.Cities, paths.Trips,
		},
	}
}

// ElmFormat formats the generated manifest in place.
func ElmFormat(cfg config.FormatConfig, manifestPath string) Step {
	version := cfg.ElmVersion
	if version == "" {
		version = "0.19"
	}
	return Step{
		Name: "elm-format",
		Bin:  cfg.ElmFormat,
		Args: []string{"--elm-version=" + version, "--yes", manifestPath},
	}
}

// Run executes step. A step with no binary configured, or whose binary is
// not installed, is skipped and reports ran=false.
func Run(ctx context.Context, r Runner, step Step) (ran bool, err error) {
	log := zap.L().With(zap.String("step", step.Name))
	if step.Bin == "" {
		log.Info("handoff: disabled, skipping")
		return false, nil
	}
	path, err := r.LookPath(step.Bin)
	if err != nil {
		log.Info("handoff: binary not found, skipping", zap.String("bin", step.Bin))
		return false, nil //nolint:nilerr // a missing tool is a skip, not a failure
	}
	if err := r.Run(ctx, path, step.Args...); err != nil {
		return true, err
	}
	log.Info("handoff: done", zap.String("bin", path))
	return true, nil
}
