package scene

import (
	"math"
	"time"

	"github.com/oliverbestmann/rtcylinder/glm"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const orbitEpsilon = 1e-6

// PointerInput is the pointer activity since the previous frame.
type PointerInput struct {
	// pointer movement in logical pixels
	DeltaX, DeltaY float64

	// true while the primary button is held down
	Dragging bool

	// scroll distance, positive values scroll down
	Wheel float64
}

// OrbitControls rotates a camera around a target point when dragging
// and moves it closer or further away when scrolling.
type OrbitControls struct {
	Camera *PerspectiveCamera
	Target glm.Vec3f

	EnableRotate bool
	EnableZoom   bool

	// EnableDamping keeps the camera moving for a few frames after
	// the pointer was released.
	EnableDamping bool
	DampingFactor float64

	RotateSpeed float64
	ZoomSpeed   float64

	MinDistance float64
	MaxDistance float64

	MinPolarAngle glm.Rad
	MaxPolarAngle glm.Rad

	// ZoomDuration eases zoom steps over the given time instead of
	// applying them immediately.
	ZoomDuration time.Duration

	sphericalDelta glm.Spherical
	scale          float64

	zoomTween  *gween.Tween
	zoomRadius float64
}

func NewOrbitControls(camera *PerspectiveCamera) *OrbitControls {
	return &OrbitControls{
		Camera:        camera,
		Target:        camera.Target,
		EnableRotate:  true,
		EnableZoom:    true,
		DampingFactor: 0.05,
		RotateSpeed:   1,
		ZoomSpeed:     1,
		MinDistance:   0,
		MaxDistance:   math.Inf(1),
		MinPolarAngle: 0,
		MaxPolarAngle: math.Pi,
		scale:         1,
	}
}

// HandleInput applies pointer activity. viewportHeight is the height of the
// surface in logical pixels, dragging across the full height rotates by 2π.
func (c *OrbitControls) HandleInput(input PointerInput, viewportHeight float64) {
	if input.Dragging && c.EnableRotate && viewportHeight > 0 {
		c.Rotate(
			2*math.Pi*input.DeltaX/viewportHeight*c.RotateSpeed,
			2*math.Pi*input.DeltaY/viewportHeight*c.RotateSpeed,
		)
	}

	if input.Wheel != 0 && c.EnableZoom {
		if input.Wheel > 0 {
			c.Dolly(c.zoomScale())
		} else {
			c.Dolly(1 / c.zoomScale())
		}
	}
}

// Rotate moves the camera left and up around the target by the given angles.
func (c *OrbitControls) Rotate(left, up float64) {
	c.sphericalDelta.Theta -= glm.Rad(left)
	c.sphericalDelta.Phi -= glm.Rad(up)
}

// Dolly scales the distance to the target by 1/factor. Factors above one
// move the camera closer.
func (c *OrbitControls) Dolly(factor float64) {
	if factor <= 0 {
		return
	}

	if c.ZoomDuration <= 0 {
		c.scale /= factor
		return
	}

	from := c.distance()

	// chain onto a running zoom so fast scrolling accumulates
	to := from
	if c.zoomTween != nil {
		to = c.zoomRadius
	}

	to = c.clampDistance(to / factor)

	c.zoomRadius = to
	c.zoomTween = gween.New(float32(from), float32(to), float32(c.ZoomDuration.Seconds()), ease.OutCubic)
}

// Update moves the camera according to the accumulated input and returns
// true if the camera position changed.
func (c *OrbitControls) Update(dt time.Duration) bool {
	offset := c.Camera.Position.Sub(c.Target)
	spherical := glm.SphericalFromVec3(offset)

	if c.EnableDamping {
		spherical.Theta += c.sphericalDelta.Theta * glm.Rad(c.DampingFactor)
		spherical.Phi += c.sphericalDelta.Phi * glm.Rad(c.DampingFactor)
	} else {
		spherical.Theta += c.sphericalDelta.Theta
		spherical.Phi += c.sphericalDelta.Phi
	}

	spherical.Phi = min(max(spherical.Phi, c.MinPolarAngle), c.MaxPolarAngle)
	spherical = spherical.Clamped(orbitEpsilon)

	if c.zoomTween != nil {
		radius, done := c.zoomTween.Update(float32(dt.Seconds()))
		spherical.Radius = float64(radius)

		if done {
			c.zoomTween = nil
		}
	} else {
		spherical.Radius *= c.scale
	}

	spherical.Radius = c.clampDistance(spherical.Radius)

	position := c.Target.Add(glm.Vec3FromSpherical[float32](spherical))

	if c.EnableDamping {
		c.sphericalDelta.Theta *= glm.Rad(1 - c.DampingFactor)
		c.sphericalDelta.Phi *= glm.Rad(1 - c.DampingFactor)
	} else {
		c.sphericalDelta = glm.Spherical{}
	}

	c.scale = 1

	moved := position.Sub(c.Camera.Position).Length() > orbitEpsilon

	c.Camera.Position = position
	c.Camera.LookAt(c.Target)

	return moved
}

func (c *OrbitControls) zoomScale() float64 {
	return math.Pow(0.95, c.ZoomSpeed)
}

func (c *OrbitControls) distance() float64 {
	return float64(c.Camera.Position.Sub(c.Target).Length())
}

func (c *OrbitControls) clampDistance(radius float64) float64 {
	return min(max(radius, c.MinDistance), c.MaxDistance)
}
