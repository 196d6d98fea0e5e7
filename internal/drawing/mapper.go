package drawing

import "scenecards/internal/domain"

// PointerEvent is the part of a device pointer event the surface needs.
type PointerEvent struct {
	ClientX     float64 `json:"clientX"`
	ClientY     float64 `json:"clientY"`
	Button      int     `json:"button"`
	PointerType string  `json:"pointerType"`
}

const (
	PointerMouse = "mouse"
	PointerTouch = "touch"
	PointerPen   = "pen"
)

// Bounds is the surface bounding rectangle in client coordinates.
type Bounds struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (b *Bounds) usable() bool {
	return b != nil && b.Width > 0 && b.Height > 0
}

// ToSurfaceRelative converts client coordinates into percent of the surface.
// Without usable bounds (surface not mounted) it returns the origin.
func ToSurfaceRelative(ev PointerEvent, b *Bounds) domain.Point {
	if !b.usable() {
		return domain.Point{}
	}
	return domain.Point{
		X: (ev.ClientX - b.Left) / b.Width * 100,
		Y: (ev.ClientY - b.Top) / b.Height * 100,
	}
}
