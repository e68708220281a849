package web

import (
	"embed"
	"html/template"
	"path"
	"time"

	"github.com/shopspring/decimal"
)

// Templates holds the embedded page templates.
//
//go:embed templates/*.html
var Templates embed.FS

// pageFiles lists the files parsed for each page. Shell pages share
// layout.html; the printable invoice stands alone.
var pageFiles = map[string][]string{
	"dashboard": {"templates/layout.html", "templates/dashboard.html"},
	"stock":     {"templates/layout.html", "templates/stock.html"},
	"sales":     {"templates/layout.html", "templates/sales.html"},
	"returns":   {"templates/layout.html", "templates/returns.html"},
	"analytics": {"templates/layout.html", "templates/analytics.html"},
	"ledger":    {"templates/layout.html", "templates/ledger.html"},
	"expenses":  {"templates/layout.html", "templates/expenses.html"},
	"invoice":   {"templates/invoice.html"},
}

// Funcs are available to every page.
var Funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"date":  func(t time.Time) string { return t.Format("2006-01-02") },
	"datetime": func(t time.Time) string {
		return t.Format("2006-01-02 15:04")
	},
}

// ParsePages parses every page. The entry template of each is its first file.
func ParsePages() (map[string]*template.Template, error) {
	out := make(map[string]*template.Template, len(pageFiles))
	for name, files := range pageFiles {
		t, err := template.New(path.Base(files[0])).Funcs(Funcs).ParseFS(Templates, files...)
		if err != nil {
			return nil, err
		}
		out[name] = t
	}
	return out, nil
}
