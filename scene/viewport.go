package scene

import "math"

// DefaultPixelRatioCap bounds the pixel ratio on high dpi displays.
const DefaultPixelRatioCap = 2

// Viewport is the size of the visible surface in logical pixels together with
// the pixel ratio used to size the drawing buffer.
type Viewport struct {
	Width  uint32
	Height uint32

	PixelRatio float64
}

// ClampPixelRatio returns min(deviceRatio, ratioCap). A missing or invalid
// device ratio is treated as 1.
func ClampPixelRatio(deviceRatio, ratioCap float64) float64 {
	if deviceRatio <= 0 || math.IsNaN(deviceRatio) {
		deviceRatio = 1
	}

	if ratioCap <= 0 {
		return deviceRatio
	}

	return min(deviceRatio, ratioCap)
}

func (v Viewport) Aspect() float32 {
	return float32(v.Width) / float32(v.Height)
}

// DrawingBufferSize returns the size of the output buffer in device pixels.
func (v Viewport) DrawingBufferSize() (width, height uint32) {
	ratio := v.PixelRatio
	if ratio <= 0 {
		ratio = 1
	}

	width = uint32(math.Floor(float64(v.Width) * ratio))
	height = uint32(math.Floor(float64(v.Height) * ratio))
	return
}
