package export

import (
	"bytes"
	"testing"

	"scenecards/internal/domain"
)

func TestParseColor(t *testing.T) {
	cases := map[string]rgb{
		"#e53935": {0xe5, 0x39, 0x35},
		"#fff":    {255, 255, 255},
		"000000":  {},
		"red":     {},
		"#12345g": {},
		"":        {},
	}
	for in, want := range cases {
		if got := parseColor(in); got != want {
			t.Errorf("parseColor(%q): expected %v, got %v", in, want, got)
		}
	}
}

func TestToPage(t *testing.T) {
	x, y := toPage(domain.Point{X: 0, Y: 0})
	if x != marginLeft || y != areaTop {
		t.Errorf("expected origin at (%v, %v), got (%v, %v)", marginLeft, areaTop, x, y)
	}
	x, y = toPage(domain.Point{X: 100, Y: 50})
	if x != marginLeft+areaSize || y != areaTop+areaSize/2 {
		t.Errorf("unexpected mapping (%v, %v)", x, y)
	}
}

func TestWriteCardPDF(t *testing.T) {
	objects := []domain.DrawObject{
		domain.LineObject{Color: "#000000", Points: []domain.Point{{X: 1, Y: 1}, {X: 50, Y: 20}, {X: 90, Y: 90}}},
		domain.LineObject{Color: "#000000", Points: []domain.Point{{X: 3, Y: 3}}},
		domain.RectangleObject{Color: "#1e88e5", Form: domain.Form{Start: domain.Point{X: 60, Y: 60}, End: domain.Point{X: 10, Y: 10}}},
		domain.EllipseObject{Color: "#43a047", Form: domain.Form{Start: domain.Point{X: 20, Y: 70}, End: domain.Point{X: 40, Y: 95}}},
		domain.TokenObject{Color: "#e53935", Token: "dragon", Point: domain.Point{X: 75, Y: 25}},
	}

	var buf bytes.Buffer
	if err := WriteCardPDF(&buf, "Cave entrance", objects); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("expected PDF header, got %q", buf.Bytes()[:8])
	}
}

func TestWriteCardPDF_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCardPDF(&buf, "Blank", nil); err != nil {
		t.Fatal(err)
	}
	if buf.Len() == 0 {
		t.Error("expected a page even without objects")
	}
}
