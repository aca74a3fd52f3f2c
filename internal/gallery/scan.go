package gallery

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar"
	"github.com/rotisserie/eris"

	"github.com/neophilus/manifester/internal/model"
	"github.com/neophilus/manifester/internal/runerr"
)

const imagePattern = "*.{png,jpg,jpeg,PNG,JPG,JPEG}"

const (
	thumbSuffix = "_small"
	blurSuffix  = "_blur"
)

// Scan returns every source image under root, skipping derivatives, sorted
// by path.
func Scan(root string) ([]string, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, eris.Wrapf(err, "gallery: stat %s", root)
	}
	matches, err := doublestar.Glob(filepath.Join(root, "**", imagePattern))
	if err != nil {
		return nil, eris.Wrap(err, "gallery: glob")
	}

	out := matches[:0]
	for _, m := range matches {
		base := filepath.Base(m)
		if strings.Contains(base, thumbSuffix) || strings.Contains(base, blurSuffix) {
			continue
		}
		out = append(out, m)
	}
	sort.Strings(out)
	return out, nil
}

// PathMeta is what the gallery directory layout says about an image:
// <year>/<month>/<country>/<location>/<file>.
type PathMeta struct {
	File     string
	Date     model.Date
	Location string
}

// ParsePath extracts date and location from an image path under root.
func ParsePath(root, path string) (PathMeta, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return PathMeta{}, eris.Wrapf(err, "gallery: relative path of %s", path)
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) != 5 {
		return PathMeta{}, runerr.Errorf(runerr.IdentifierMismatch, "gallery: %s is not laid out as year/month/country/location/file", rel)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return PathMeta{}, runerr.Errorf(runerr.IdentifierMismatch, "gallery: %s has a malformed year directory", rel)
	}
	month, err := model.ParseMonth(parts[1])
	if err != nil {
		return PathMeta{}, eris.Wrapf(err, "gallery: %s", rel)
	}

	return PathMeta{
		File:     parts[4],
		Date:     model.Date{Year: year, Month: month},
		Location: model.Canonicalize(parts[3]),
	}, nil
}

func unknownLocation(path, location string) error {
	return runerr.Errorf(runerr.IdentifierMismatch, "gallery: %s is filed under %s, which is not a configured location", path, location)
}

// DerivativePaths returns the thumbnail and blur paths for a source image.
func DerivativePaths(src string) (thumb, blur string) {
	ext := filepath.Ext(src)
	stem := strings.TrimSuffix(src, ext)
	return stem + thumbSuffix + ext, stem + blurSuffix + ext
}

// PlanDerivatives lists the derivatives of src that do not exist yet.
func PlanDerivatives(src string, exists func(string) bool) []Output {
	thumb, blur := DerivativePaths(src)
	var out []Output
	if !exists(thumb) {
		out = append(out, Output{Kind: Thumbnail, Path: thumb})
	}
	if !exists(blur) {
		out = append(out, Output{Kind: Blur, Path: blur})
	}
	return out
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

// Description returns the trimmed contents of the image's .desc side file,
// creating an empty one when it is missing.
func Description(src string) (string, error) {
	path := strings.TrimSuffix(src, filepath.Ext(src)) + ".desc"
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if werr := os.WriteFile(path, nil, 0o644); werr != nil {
			return "", eris.Wrapf(werr, "gallery: create %s", path)
		}
		return "", nil
	}
	if err != nil {
		return "", eris.Wrapf(err, "gallery: read %s", path)
	}
	return strings.TrimSpace(string(data)), nil
}
