package web

import (
	"embed"
	"fmt"
	"html/template"
	"math"
	"strings"

	"arena/internal/report"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"join": strings.Join,
	"healthPct": func(hp, maxHP int) int {
		return int(math.Round(report.HealthPercent(hp, maxHP)))
	},
	// Same thresholds as the printed report.
	"healthColor": func(hp, maxHP int) template.CSS {
		r, g, b := report.HealthColor(report.HealthPercent(hp, maxHP))
		return template.CSS(fmt.Sprintf("rgb(%d, %d, %d)", r, g, b))
	},
}

// ParseTemplates loads the page templates bundled into the binary.
func ParseTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
}
