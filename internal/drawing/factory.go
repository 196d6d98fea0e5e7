package drawing

import (
	"fmt"

	"scenecards/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Object factory — builds and translates draw objects.
// Every function returns a new value; inputs are never modified.
// ─────────────────────────────────────────────────────────────

func StartLine(color string, p domain.Point) domain.LineObject {
	return domain.LineObject{Color: color, Points: []domain.Point{p}}
}

func StartRectangle(color string, p domain.Point) domain.RectangleObject {
	return domain.RectangleObject{Color: color, Form: domain.Form{Start: p, End: p}}
}

func StartEllipse(color string, p domain.Point) domain.EllipseObject {
	return domain.EllipseObject{Color: color, Form: domain.Form{Start: p, End: p}}
}

// StartToken binds the icon and color now; later palette cycling does not
// touch placed tokens.
func StartToken(color, token string, p domain.Point) domain.TokenObject {
	return domain.TokenObject{Color: color, Token: token, Point: p}
}

func MoveLine(o domain.LineObject, dx, dy float64) domain.LineObject {
	points := make([]domain.Point, len(o.Points))
	for i, p := range o.Points {
		points[i] = p.Add(dx, dy)
	}
	return domain.LineObject{Color: o.Color, Points: points}
}

func MoveRectangle(o domain.RectangleObject, dx, dy float64) domain.RectangleObject {
	return domain.RectangleObject{Color: o.Color, Form: moveForm(o.Form, dx, dy)}
}

func MoveEllipse(o domain.EllipseObject, dx, dy float64) domain.EllipseObject {
	return domain.EllipseObject{Color: o.Color, Form: moveForm(o.Form, dx, dy)}
}

func MoveToken(o domain.TokenObject, dx, dy float64) domain.TokenObject {
	return domain.TokenObject{Color: o.Color, Token: o.Token, Point: o.Point.Add(dx, dy)}
}

func moveForm(f domain.Form, dx, dy float64) domain.Form {
	return domain.Form{Start: f.Start.Add(dx, dy), End: f.End.Add(dx, dy)}
}

// Move translates any object by (dx, dy).
func Move(o domain.DrawObject, dx, dy float64) domain.DrawObject {
	switch v := o.(type) {
	case domain.LineObject:
		return MoveLine(v, dx, dy)
	case domain.RectangleObject:
		return MoveRectangle(v, dx, dy)
	case domain.EllipseObject:
		return MoveEllipse(v, dx, dy)
	case domain.TokenObject:
		return MoveToken(v, dx, dy)
	default:
		panic(fmt.Sprintf("drawing: unhandled draw object %T", o))
	}
}

// Extend applies pointer motion to an in-progress object: lines grow by p,
// rectangles and ellipses move their end corner to p. Tokens are placed
// once and returned unchanged.
func Extend(o domain.DrawObject, p domain.Point) domain.DrawObject {
	switch v := o.(type) {
	case domain.LineObject:
		points := make([]domain.Point, len(v.Points), len(v.Points)+1)
		copy(points, v.Points)
		return domain.LineObject{Color: v.Color, Points: append(points, p)}
	case domain.RectangleObject:
		return domain.RectangleObject{Color: v.Color, Form: domain.Form{Start: v.Form.Start, End: p}}
	case domain.EllipseObject:
		return domain.EllipseObject{Color: v.Color, Form: domain.Form{Start: v.Form.Start, End: p}}
	case domain.TokenObject:
		return v
	default:
		panic(fmt.Sprintf("drawing: unhandled draw object %T", o))
	}
}
