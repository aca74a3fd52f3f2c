package manifest

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/neophilus/manifester/internal/atomicfile"
	"github.com/neophilus/manifester/internal/model"
)

//go:embed templates/Manifest.elm.tmpl
var templateFS embed.FS

var elmTemplate = template.Must(
	template.New("Manifest.elm.tmpl").
		Funcs(template.FuncMap{
			"str":    elmString,
			"maybe":  elmMaybe,
			"fixed":  fixed,
			"point":  elmPoint,
			"points": elmPoints,
			"list":   elmList,
			"date":   elmDate,
			"dates":  elmDates,
			"months": model.MonthNames,
		}).
		ParseFS(templateFS, "templates/Manifest.elm.tmpl"),
)

// Render writes the Elm source for m to w.
func Render(w io.Writer, m *Manifest) error {
	return eris.Wrap(elmTemplate.Execute(w, m), "manifest: render")
}

// WriteFile renders m into path. The file is replaced only once the whole
// artifact has rendered.
func WriteFile(path string, m *Manifest) error {
	var buf bytes.Buffer
	if err := Render(&buf, m); err != nil {
		return err
	}
	if err := atomicfile.WriteBytes(path, buf.Bytes(), 0o644); err != nil {
		return eris.Wrapf(err, "manifest: write %s", path)
	}
	zap.L().Info("manifest: written",
		zap.String("path", path),
		zap.Int("countries", len(m.Countries)),
		zap.Int("locations", len(m.Locations)),
		zap.Int("trips", len(m.Trips)),
		zap.Int("images", len(m.Images)),
	)
	return nil
}

// elmString quotes s as an Elm string literal.
func elmString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u{%04X}`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func elmMaybe(s string) string {
	if s == "" {
		return "Nothing"
	}
	return "Just " + elmString(s)
}

// fixed formats a float with three decimals.
func fixed(f float64) string {
	return fmt.Sprintf("%.3f", f)
}

func elmPoint(p model.GeoPoint) string {
	return "( " + fixed(p.Lon) + ", " + fixed(p.Lat) + " )"
}

func elmPoints(ps []model.GeoPoint) string {
	items := make([]string, len(ps))
	for i, p := range ps {
		items[i] = elmPoint(p)
	}
	return elmList(items)
}

func elmList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	return "[ " + strings.Join(items, ", ") + " ]"
}

func elmDate(d model.Date) string {
	return fmt.Sprintf("Date %d %s", d.Year, d.Month)
}

func elmDates(ds []model.Date) string {
	items := make([]string, len(ds))
	for i, d := range ds {
		items[i] = elmDate(d)
	}
	return elmList(items)
}
