package dashboard

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"lorasim/internal/report"
)

//go:embed templates/*.tmpl
var templates embed.FS

// Data is passed to every dashboard template.
type Data struct {
	Title  string
	Tables report.Tables
}

// Render executes the embedded dashboard templates and writes the rendered
// dashboards to outDir.
func Render(outDir string, data Data) error {
	funcMap := template.FuncMap{
		"envOr": func(key, def string) string {
			if v := os.Getenv(key); v != "" {
				return v
			}
			return def
		},
	}

	if data.Title == "" {
		data.Title = "lorasim KPIs"
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	t, err := template.New("dashboards").Funcs(funcMap).ParseFS(templates, "templates/*.tmpl")
	if err != nil {
		return err
	}
	for _, tpl := range t.Templates() {
		name := tpl.Name()
		if !strings.HasSuffix(name, ".tmpl") {
			continue
		}
		outPath := filepath.Join(outDir, strings.TrimSuffix(name, ".tmpl"))
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		if err := tpl.Execute(f, data); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
