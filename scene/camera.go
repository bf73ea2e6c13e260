package scene

import "github.com/oliverbestmann/rtcylinder/glm"

type PerspectiveCamera struct {
	// vertical field of view in degrees
	Fov    float32
	Aspect float32
	Near   float32
	Far    float32

	Position glm.Vec3f
	Up       glm.Vec3f

	// point the camera looks at
	Target glm.Vec3f

	projection glm.Mat4f
}

func NewPerspectiveCamera(fov, aspect, near, far float32) *PerspectiveCamera {
	c := &PerspectiveCamera{
		Fov:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
		Up:     glm.Vec3f{0, 1, 0},
	}

	c.UpdateProjectionMatrix()

	return c
}

// UpdateProjectionMatrix must be called after changing Fov, Aspect, Near or Far.
func (c *PerspectiveCamera) UpdateProjectionMatrix() {
	c.projection = glm.Perspective(glm.DegToRad(c.Fov), c.Aspect, c.Near, c.Far)
}

func (c *PerspectiveCamera) ProjectionMatrix() glm.Mat4f {
	return c.projection
}

func (c *PerspectiveCamera) LookAt(target glm.Vec3f) {
	c.Target = target
}

func (c *PerspectiveCamera) ViewMatrix() glm.Mat4f {
	return glm.LookAt(c.Position, c.Target, c.Up)
}

// ViewProjectionMatrix returns projection * view.
func (c *PerspectiveCamera) ViewProjectionMatrix() glm.Mat4f {
	return c.projection.Mul(c.ViewMatrix())
}
