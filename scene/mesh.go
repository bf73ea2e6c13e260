package scene

import "github.com/oliverbestmann/rtcylinder/glm"

// Euler holds rotation angles applied in x, y, z order.
type Euler struct {
	X, Y, Z glm.Rad
}

type Mesh struct {
	Name string

	Geometry *Geometry
	Material Material

	Position glm.Vec3f
	Rotation Euler
	Scale    glm.Vec3f
}

func NewMesh(geometry *Geometry, material Material) *Mesh {
	return &Mesh{
		Geometry: geometry,
		Material: material,
		Scale:    glm.Vec3f{1, 1, 1},
	}
}

// ModelMatrix returns translation * rotation * scale.
func (m *Mesh) ModelMatrix() glm.Mat4f {
	return glm.TranslationMat4(m.Position[0], m.Position[1], m.Position[2]).
		Mul(glm.EulerXYZMat4[float32](m.Rotation.X, m.Rotation.Y, m.Rotation.Z)).
		Scale(m.Scale[0], m.Scale[1], m.Scale[2])
}

// Scene is an ordered list of meshes, drawn in insertion order.
type Scene struct {
	Meshes []*Mesh
}

func NewScene() *Scene {
	return &Scene{}
}

func (s *Scene) Add(meshes ...*Mesh) {
	s.Meshes = append(s.Meshes, meshes...)
}

// Dispose disposes the geometries and materials of all meshes in the scene.
// Textures are owned by whoever created them and are not touched.
func (s *Scene) Dispose() {
	for _, mesh := range s.Meshes {
		if mesh.Geometry != nil {
			mesh.Geometry.Dispose()
		}

		if mesh.Material != nil {
			mesh.Material.Dispose()
		}
	}
}
