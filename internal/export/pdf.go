package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"scenecards/internal/domain"
)

// Page geometry in millimetres on portrait A4. Surface percentages map onto
// a square drawing area below the title.
const (
	marginLeft = 15.0
	areaTop    = 30.0
	areaSize   = 180.0
	tokenSize  = 3.0
)

type rgb struct{ r, g, b int }

// parseColor reads #rrggbb or #rgb. Anything else is black.
func parseColor(s string) rgb {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return rgb{}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return rgb{}
	}
	return rgb{int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)}
}

func toPage(p domain.Point) (float64, float64) {
	return marginLeft + p.X/100*areaSize, areaTop + p.Y/100*areaSize
}

// WriteCardPDF renders a card's drawing as a one-page PDF.
func WriteCardPDF(w io.Writer, title string, objects []domain.DrawObject) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(marginLeft, 20, title)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.2)
	pdf.Rect(marginLeft, areaTop, areaSize, areaSize, "D")

	pdf.SetLineWidth(0.5)
	pdf.SetFont("Helvetica", "", 7)
	for _, o := range objects {
		c := parseColor(o.ObjectColor())
		pdf.SetDrawColor(c.r, c.g, c.b)
		pdf.SetFillColor(c.r, c.g, c.b)

		switch v := o.(type) {
		case domain.LineObject:
			drawLine(pdf, v.Points)
		case domain.RectangleObject:
			f := v.Form.Normalized()
			x1, y1 := toPage(f.Start)
			x2, y2 := toPage(f.End)
			pdf.Rect(x1, y1, x2-x1, y2-y1, "D")
		case domain.EllipseObject:
			f := v.Form.Normalized()
			x1, y1 := toPage(f.Start)
			x2, y2 := toPage(f.End)
			pdf.Ellipse((x1+x2)/2, (y1+y2)/2, (x2-x1)/2, (y2-y1)/2, 0, "D")
		case domain.TokenObject:
			x, y := toPage(v.Point)
			pdf.Circle(x, y, tokenSize, "F")
			pdf.SetTextColor(0, 0, 0)
			pdf.Text(x+tokenSize+1, y+1, v.Token)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func drawLine(pdf *gofpdf.Fpdf, points []domain.Point) {
	switch len(points) {
	case 0:
		return
	case 1:
		x, y := toPage(points[0])
		pdf.Circle(x, y, 0.3, "F")
		return
	}
	for i := 1; i < len(points); i++ {
		x1, y1 := toPage(points[i-1])
		x2, y2 := toPage(points[i])
		pdf.Line(x1, y1, x2, y2)
	}
}
