package scene

import (
	"math"
	"testing"
	"time"

	"github.com/oliverbestmann/rtcylinder/glm"
)

func newTestControls() *OrbitControls {
	cam := NewPerspectiveCamera(35, 1, 0.1, 1000)
	cam.Position = glm.Vec3f{0, 0, 24}
	return NewOrbitControls(cam)
}

func TestOrbitIdleUpdate(t *testing.T) {
	c := newTestControls()

	if c.Update(time.Second / 60) {
		t.Error("Update without input reported movement")
	}

	if d := c.distance(); !approxEqual(d, 24, epsilon) {
		t.Errorf("distance = %f, want 24", d)
	}
}

func TestOrbitRotateKeepsDistance(t *testing.T) {
	c := newTestControls()

	c.HandleInput(PointerInput{DeltaX: 150, Dragging: true}, 600)

	if !c.Update(time.Second / 60) {
		t.Fatal("Update after drag reported no movement")
	}

	if d := c.distance(); !approxEqual(d, 24, epsilon) {
		t.Errorf("distance = %f, want 24", d)
	}

	// dragging a quarter of the height rotates by a quarter turn
	s := glm.SphericalFromVec3(c.Camera.Position)
	if !approxEqual(float64(s.Theta), -math.Pi/2, epsilon) {
		t.Errorf("theta = %f, want -pi/2", s.Theta)
	}

	if c.Camera.Target != c.Target {
		t.Error("camera does not look at target")
	}
}

func TestOrbitMoveWithoutDragIgnored(t *testing.T) {
	c := newTestControls()

	c.HandleInput(PointerInput{DeltaX: 150, DeltaY: 30}, 600)

	if c.Update(time.Second / 60) {
		t.Error("pointer movement without drag moved the camera")
	}
}

func TestOrbitPolarClamp(t *testing.T) {
	c := newTestControls()

	// drag far down, which would flip the camera over the pole
	c.HandleInput(PointerInput{DeltaY: 6000, Dragging: true}, 600)
	c.Update(time.Second / 60)

	s := glm.SphericalFromVec3(c.Camera.Position)
	if s.Phi <= 0 || s.Phi > orbitEpsilon*2 {
		t.Errorf("phi = %g, want clamped just above 0", s.Phi)
	}
}

func TestOrbitZoom(t *testing.T) {
	c := newTestControls()

	c.HandleInput(PointerInput{Wheel: -100}, 600)
	c.Update(time.Second / 60)

	if d := c.distance(); !approxEqual(d, 24*0.95, epsilon) {
		t.Errorf("distance after zoom in = %f, want %f", d, 24*0.95)
	}

	c.HandleInput(PointerInput{Wheel: 100}, 600)
	c.Update(time.Second / 60)

	if d := c.distance(); !approxEqual(d, 24, epsilon) {
		t.Errorf("distance after zoom out = %f, want 24", d)
	}
}

func TestOrbitZoomDisabled(t *testing.T) {
	c := newTestControls()
	c.EnableZoom = false

	c.HandleInput(PointerInput{Wheel: -100}, 600)
	c.Update(time.Second / 60)

	if d := c.distance(); !approxEqual(d, 24, epsilon) {
		t.Errorf("distance = %f, want 24", d)
	}
}

func TestOrbitZoomClamp(t *testing.T) {
	c := newTestControls()
	c.MinDistance = 23

	c.Dolly(2)
	c.Update(time.Second / 60)

	if d := c.distance(); !approxEqual(d, 23, epsilon) {
		t.Errorf("distance = %f, want 23", d)
	}
}

func TestOrbitSmoothZoom(t *testing.T) {
	c := newTestControls()
	c.ZoomDuration = 100 * time.Millisecond

	c.Dolly(2)

	c.Update(50 * time.Millisecond)
	halfway := c.distance()

	if halfway >= 24 || halfway <= 12 {
		t.Errorf("distance halfway = %f, want between 12 and 24", halfway)
	}

	c.Update(60 * time.Millisecond)

	if d := c.distance(); !approxEqual(d, 12, 1e-3) {
		t.Errorf("distance after zoom = %f, want 12", d)
	}

	if c.zoomTween != nil {
		t.Error("zoom tween still active after its duration")
	}
}

func TestOrbitDamping(t *testing.T) {
	c := newTestControls()
	c.EnableDamping = true

	c.Rotate(1, 0)

	c.Update(time.Second / 60)
	first := glm.SphericalFromVec3(c.Camera.Position).Theta

	if !approxEqual(float64(first), -0.05, epsilon) {
		t.Errorf("theta after first damped update = %f, want -0.05", first)
	}

	// the camera keeps moving without further input
	if !c.Update(time.Second / 60) {
		t.Error("damped camera stopped after one frame")
	}
}
