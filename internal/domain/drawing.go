package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownObject is returned when drawing data carries a type tag this
// build does not know how to decode.
var ErrUnknownObject = errors.New("unknown drawing object type")

// Point is a position in percent of the surface width/height, not pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Form holds the two diagonal corners of a rectangle/ellipse bounding box.
// Start may be below or right of End.
type Form struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// Normalized returns the form with Start at the top-left corner and End at
// the bottom-right corner.
func (f Form) Normalized() Form {
	n := f
	if n.Start.X > n.End.X {
		n.Start.X, n.End.X = n.End.X, n.Start.X
	}
	if n.Start.Y > n.End.Y {
		n.Start.Y, n.End.Y = n.End.Y, n.Start.Y
	}
	return n
}

type ObjectType string

const (
	ObjectTypeLine      ObjectType = "line"
	ObjectTypeRectangle ObjectType = "rectangle"
	ObjectTypeEllipse   ObjectType = "ellipse"
	ObjectTypeToken     ObjectType = "token"
)

// DrawObject is one of LineObject, RectangleObject, EllipseObject or
// TokenObject. The set is closed: consumers switch on the concrete type.
type DrawObject interface {
	Type() ObjectType
	ObjectColor() string
	drawObject()
}

type LineObject struct {
	Color  string
	Points []Point
}

type RectangleObject struct {
	Color string
	Form  Form
}

type EllipseObject struct {
	Color string
	Form  Form
}

// TokenObject is a placed icon. Token is the catalog icon name captured at
// placement time.
type TokenObject struct {
	Color string
	Token string
	Point Point
}

func (LineObject) Type() ObjectType      { return ObjectTypeLine }
func (RectangleObject) Type() ObjectType { return ObjectTypeRectangle }
func (EllipseObject) Type() ObjectType   { return ObjectTypeEllipse }
func (TokenObject) Type() ObjectType     { return ObjectTypeToken }

func (o LineObject) ObjectColor() string      { return o.Color }
func (o RectangleObject) ObjectColor() string { return o.Color }
func (o EllipseObject) ObjectColor() string   { return o.Color }
func (o TokenObject) ObjectColor() string     { return o.Color }

func (LineObject) drawObject()      {}
func (RectangleObject) drawObject() {}
func (EllipseObject) drawObject()   {}
func (TokenObject) drawObject()     {}

// DrawAreaObjects is the z-ordered object list of a drawing surface.
// Later elements are drawn on top; indexes address objects for move/remove.
type DrawAreaObjects []DrawObject

func (d DrawAreaObjects) MarshalJSON() ([]byte, error) {
	return MarshalObjects(d)
}

func (d *DrawAreaObjects) UnmarshalJSON(data []byte) error {
	objects, err := UnmarshalObjects(data)
	if err != nil {
		return err
	}
	*d = objects
	return nil
}

// ── JSON codec ─────────────────────────────────────────────

// wireObject is the persisted shape of a DrawObject.
type wireObject struct {
	Type   ObjectType `json:"type"`
	Color  string     `json:"color"`
	Points []Point    `json:"points,omitempty"`
	Form   *Form      `json:"form,omitempty"`
	Token  string     `json:"token,omitempty"`
	Point  *Point     `json:"point,omitempty"`
}

func toWire(o DrawObject) wireObject {
	switch v := o.(type) {
	case LineObject:
		return wireObject{Type: ObjectTypeLine, Color: v.Color, Points: v.Points}
	case RectangleObject:
		f := v.Form
		return wireObject{Type: ObjectTypeRectangle, Color: v.Color, Form: &f}
	case EllipseObject:
		f := v.Form
		return wireObject{Type: ObjectTypeEllipse, Color: v.Color, Form: &f}
	case TokenObject:
		p := v.Point
		return wireObject{Type: ObjectTypeToken, Color: v.Color, Token: v.Token, Point: &p}
	default:
		panic(fmt.Sprintf("domain: unhandled draw object %T", o))
	}
}

func fromWire(w wireObject) (DrawObject, error) {
	switch w.Type {
	case ObjectTypeLine:
		points := w.Points
		if points == nil {
			points = []Point{}
		}
		return LineObject{Color: w.Color, Points: points}, nil
	case ObjectTypeRectangle:
		var f Form
		if w.Form != nil {
			f = *w.Form
		}
		return RectangleObject{Color: w.Color, Form: f}, nil
	case ObjectTypeEllipse:
		var f Form
		if w.Form != nil {
			f = *w.Form
		}
		return EllipseObject{Color: w.Color, Form: f}, nil
	case ObjectTypeToken:
		var p Point
		if w.Point != nil {
			p = *w.Point
		}
		return TokenObject{Color: w.Color, Token: w.Token, Point: p}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownObject, w.Type)
	}
}

// MarshalObjects encodes objects as a JSON array of type-tagged objects.
func MarshalObjects(objects []DrawObject) ([]byte, error) {
	wire := make([]wireObject, len(objects))
	for i, o := range objects {
		wire[i] = toWire(o)
	}
	return json.Marshal(wire)
}

// UnmarshalObjects decodes drawing data written by MarshalObjects.
// Blank data decodes to an empty list.
func UnmarshalObjects(data []byte) ([]DrawObject, error) {
	if strings.TrimSpace(string(data)) == "" {
		return []DrawObject{}, nil
	}
	var wire []wireObject
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("parse drawing data: %w", err)
	}
	objects := make([]DrawObject, 0, len(wire))
	for i, w := range wire {
		o, err := fromWire(w)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
		objects = append(objects, o)
	}
	return objects, nil
}

// Fingerprint returns a content hash of objects. Two lists with the same
// fingerprint encode to the same drawing data.
func Fingerprint(objects []DrawObject) string {
	data, err := MarshalObjects(objects)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// CloneObjects returns a copy of objects whose line paths do not alias the
// source.
func CloneObjects(objects []DrawObject) []DrawObject {
	out := make([]DrawObject, len(objects))
	for i, o := range objects {
		if l, ok := o.(LineObject); ok {
			l.Points = append([]Point(nil), l.Points...)
			o = l
		}
		out[i] = o
	}
	return out
}
