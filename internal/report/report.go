// Package report renders a finished or ongoing fight as a printable PDF
// battle report: both stat blocks with health bars, followed by the log.
package report

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/jung-kurt/gofpdf/v2"

	"arena/internal/combatlog"
	"arena/internal/game"
)

const (
	pageW      = 595
	pageH      = 842
	margin     = 40
	fontSize   = 9
	titleSize  = 18
	lineHeight = 12.0
	barW       = 200.0
	barH       = 10.0
)

// Generate returns PDF bytes for st and its log lines. title defaults to
// "Battle Report".
func Generate(st game.GameState, lines []combatlog.Line, title string) ([]byte, error) {
	pdf := build(st, lines, title)
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func build(st game.GameState, lines []combatlog.Line, title string) *gofpdf.Fpdf {
	if title == "" {
		title = "Battle Report"
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin+16, margin+16, margin+16)
	pdf.SetAutoPageBreak(true, margin+16)
	// Every page gets the parchment and border before anything else is drawn.
	pdf.SetHeaderFunc(func() {
		pdf.SetFillColor(245, 235, 210)
		pdf.Rect(0, 0, pageW, pageH, "F")
		drawWavyBorder(pdf)
		pdf.SetXY(margin+16, margin+16)
	})
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetTextColor(80, 50, 30)
	pdf.SetFont("Helvetica", "B", titleSize)
	pdf.CellFormat(0, 22, tr(title), "", 1, "L", false, 0, "")
	if st.TacticID != "" {
		pdf.SetFont("Helvetica", "I", fontSize)
		pdf.CellFormat(0, lineHeight, tr("Tactic: "+st.TacticID), "", 1, "L", false, 0, "")
	}
	pdf.SetFont("Helvetica", "", fontSize)
	pdf.CellFormat(0, lineHeight, fmt.Sprintf("Turns played: %d", st.TurnCounter-1), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	if st.StoryOpening != "" {
		pdf.SetFont("Helvetica", "I", fontSize)
		pdf.MultiCell(0, lineHeight, tr(st.StoryOpening), "", "L", false)
		pdf.Ln(6)
	}

	drawStatBlock(pdf, tr, "Player", st.UserStats.HP, st.UserStats.MaxHP, strings.Join(st.UserStats.Items, ", "))
	drawStatBlock(pdf, tr, st.EnemyStats.Type, st.EnemyStats.HP, st.EnemyStats.MaxHP, "")

	if out := st.Outcome(); st.GameOver && out != "" {
		drawOutcome(pdf, out)
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(80, 50, 30)
	pdf.CellFormat(0, 16, "Battle Log", "", 1, "L", false, 0, "")
	for _, l := range lines {
		setLineStyle(pdf, l.Class)
		pdf.MultiCell(0, lineHeight, tr(l.Text), "", "L", false)
		if l.Class == "turn-header" {
			pdf.Ln(1)
		}
	}
	return pdf
}

func drawStatBlock(pdf *gofpdf.Fpdf, tr func(string) string, name string, hp, maxHP int, extra string) {
	if name == "" {
		name = "Enemy"
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(40, 25, 15)
	pdf.CellFormat(0, 14, tr(fmt.Sprintf("%s HP: %d/%d", name, hp, maxHP)), "", 1, "L", false, 0, "")

	x, y := pdf.GetX(), pdf.GetY()
	pdf.SetDrawColor(80, 50, 30)
	pdf.SetFillColor(230, 215, 185)
	pdf.Rect(x, y, barW, barH, "FD")
	pct := HealthPercent(hp, maxHP)
	if pct > 0 {
		r, g, b := HealthColor(pct)
		pdf.SetFillColor(r, g, b)
		pdf.Rect(x, y, barW*pct/100, barH, "F")
	}
	pdf.SetY(y + barH + 4)

	if extra != "" {
		pdf.SetFont("Helvetica", "", fontSize)
		pdf.SetTextColor(80, 50, 30)
		pdf.MultiCell(0, lineHeight, tr("Items: "+extra), "", "L", false)
	}
	pdf.Ln(4)
}

// HealthPercent is hp as a share of maxHP, clamped to [0, 100].
func HealthPercent(hp, maxHP int) float64 {
	if maxHP <= 0 {
		return 0
	}
	return math.Max(0, math.Min(100, float64(hp)/float64(maxHP)*100))
}

// HealthColor picks the bar color: green above two thirds, gold above one
// third, red below.
func HealthColor(pct float64) (r, g, b int) {
	switch {
	case pct > 66:
		return 74, 255, 74
	case pct > 33:
		return 255, 215, 0
	default:
		return 255, 74, 74
	}
}

func drawOutcome(pdf *gofpdf.Fpdf, outcome string) {
	label := "VICTORY"
	if outcome == game.OutcomeDefeat {
		label = "DEFEAT"
	}
	x := float64(pageW - margin - 150)
	y := float64(margin + 30)
	pdf.SetDrawColor(180, 40, 40)
	pdf.SetTextColor(180, 40, 40)
	pdf.SetLineWidth(2)
	pdf.Rect(x, y, 120, 32, "D")
	pdf.SetFont("Helvetica", "B", 16)
	xx, yy := pdf.GetX(), pdf.GetY()
	pdf.SetXY(x, y+8)
	pdf.CellFormat(120, 16, label, "", 0, "C", false, 0, "")
	pdf.SetXY(xx, yy)
	pdf.SetLineWidth(1)
	pdf.SetDrawColor(80, 50, 30)
}

func setLineStyle(pdf *gofpdf.Fpdf, class string) {
	switch {
	case class == "turn-header":
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(40, 25, 15)
	case class == "game-over":
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(180, 40, 40)
	case class == "error":
		pdf.SetFont("Helvetica", "I", fontSize)
		pdf.SetTextColor(180, 40, 40)
	case strings.HasSuffix(class, "success"):
		pdf.SetFont("Helvetica", "", fontSize)
		pdf.SetTextColor(30, 110, 30)
	case strings.HasSuffix(class, "failure"):
		pdf.SetFont("Helvetica", "", fontSize)
		pdf.SetTextColor(150, 60, 30)
	case class == "user-input":
		pdf.SetFont("Helvetica", "I", fontSize)
		pdf.SetTextColor(60, 60, 90)
	default:
		pdf.SetFont("Helvetica", "", fontSize)
		pdf.SetTextColor(80, 50, 30)
	}
}

// drawWavyBorder draws an organic, tattered border around the page.
func drawWavyBorder(pdf *gofpdf.Fpdf) {
	pts := wavyRectPoints(margin, margin, pageW-2*margin, pageH-2*margin, 12, 4)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(2)
	pdf.Polygon(pts, "D")
	pdf.SetLineWidth(1)
	pdf.SetDrawColor(80, 50, 30)
}

// wavyRectPoints returns polygon points for a rectangle with sinusoidal wobble on each side.
func wavyRectPoints(x, y, w, h float64, steps int, amp float64) []gofpdf.PointType {
	pts := make([]gofpdf.PointType, 0, steps*4+4)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		pts = append(pts, gofpdf.PointType{X: x + t*w + amp*math.Sin(float64(i)*0.7), Y: y + amp*math.Cos(float64(i)*0.5)})
	}
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		pts = append(pts, gofpdf.PointType{X: x + w + amp*math.Sin(float64(i)*0.6), Y: y + t*h + amp*math.Cos(float64(i)*0.4)})
	}
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		pts = append(pts, gofpdf.PointType{X: x + w - t*w + amp*math.Sin(float64(i)*0.8), Y: y + h + amp*math.Cos(float64(i)*0.3)})
	}
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		pts = append(pts, gofpdf.PointType{X: x + amp*math.Sin(float64(i)*0.5), Y: y + h - t*h + amp*math.Cos(float64(i)*0.6)})
	}
	return pts
}
