package scene

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/oliverbestmann/rtcylinder/glm"
)

const epsilon = 1e-4

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

// --- Geometry ---

func TestCylinderGeometryOpenEnded(t *testing.T) {
	g := NewCylinderGeometry(CylinderOptions{
		RadiusTop:      5,
		RadiusBottom:   5,
		Height:         10,
		RadialSegments: 32,
		HeightSegments: 1,
		OpenEnded:      true,
	})

	if len(g.Vertices) != 66 {
		t.Errorf("vertex count = %d, want 66", len(g.Vertices))
	}

	if len(g.Indices) != 192 {
		t.Errorf("index count = %d, want 192", len(g.Indices))
	}

	for idx, v := range g.Vertices {
		x, y, z := v.Position.XYZ()

		r := math.Hypot(float64(x), float64(z))
		if !approxEqual(r, 5, epsilon) {
			t.Fatalf("vertex %d radius = %f, want 5", idx, r)
		}

		if !approxEqual(math.Abs(float64(y)), 5, epsilon) {
			t.Fatalf("vertex %d y = %f, want ±5", idx, y)
		}

		if v.UV[0] < 0 || v.UV[0] > 1 || v.UV[1] < 0 || v.UV[1] > 1 {
			t.Fatalf("vertex %d uv %v out of range", idx, v.UV)
		}
	}

	for _, idx := range g.Indices {
		if int(idx) >= len(g.Vertices) {
			t.Fatalf("index %d out of range", idx)
		}
	}
}

func TestCylinderGeometryUVSeam(t *testing.T) {
	g := NewCylinderGeometry(CylinderOptions{RadialSegments: 4, OpenEnded: true})

	first := g.Vertices[0]
	last := g.Vertices[4]

	if first.UV[0] != 0 || last.UV[0] != 1 {
		t.Errorf("seam uv = %v / %v, want u=0 and u=1", first.UV, last.UV)
	}

	for i := range 3 {
		if !approxEqual(float64(first.Position[i]), float64(last.Position[i]), epsilon) {
			t.Errorf("seam vertices at %v and %v, want same position", first.Position, last.Position)
			break
		}
	}

	// top ring has v=1
	if first.UV[1] != 1 {
		t.Errorf("top ring v = %f, want 1", first.UV[1])
	}
}

func TestCylinderGeometryCaps(t *testing.T) {
	g := NewCylinderGeometry(CylinderOptions{RadialSegments: 32})

	if len(g.Vertices) != 66+2*34 {
		t.Errorf("vertex count = %d, want %d", len(g.Vertices), 66+2*34)
	}

	if len(g.Indices) != 192+2*32*3 {
		t.Errorf("index count = %d, want %d", len(g.Indices), 192+2*32*3)
	}
}

func TestCylinderFacesPointOutwards(t *testing.T) {
	g := NewCylinderGeometry(CylinderOptions{RadialSegments: 8, OpenEnded: true})

	for idx := 0; idx < len(g.Indices); idx += 3 {
		a := g.Vertices[g.Indices[idx]].Position
		b := g.Vertices[g.Indices[idx+1]].Position
		c := g.Vertices[g.Indices[idx+2]].Position

		normal := b.Sub(a).Cross(c.Sub(a))
		center := a.Add(b).Add(c).MulScalar(1.0 / 3)
		outward := glm.Vec3f{center[0], 0, center[2]}

		if normal.Dot(outward) <= 0 {
			t.Fatalf("triangle %d faces inwards", idx/3)
		}
	}
}

func TestPlaneGeometry(t *testing.T) {
	g := NewPlaneGeometry(2, 2)

	if len(g.Vertices) != 4 || len(g.Indices) != 6 {
		t.Fatalf("plane has %d vertices and %d indices, want 4 and 6", len(g.Vertices), len(g.Indices))
	}

	for idx := 0; idx < len(g.Indices); idx += 3 {
		a := g.Vertices[g.Indices[idx]].Position
		b := g.Vertices[g.Indices[idx+1]].Position
		c := g.Vertices[g.Indices[idx+2]].Position

		normal := b.Sub(a).Cross(c.Sub(a))
		if normal[2] <= 0 {
			t.Errorf("triangle %d does not face +z", idx/3)
		}
	}
}

// --- TiledMaterial ---

func TestTileIndexProbes(t *testing.T) {
	m := NewTiledMaterial(nil, 1, 4)

	tests := []struct {
		u       float32
		wantCol int
	}{
		{0.0, 0},
		{0.26, 1},
		{0.51, 2},
		{0.76, 3},
	}

	for _, tt := range tests {
		col, row := m.TileIndex(glm.Vec2f{tt.u, 0.5})
		if col != tt.wantCol || row != 0 {
			t.Errorf("TileIndex(%f) = (%d, %d), want (%d, 0)", tt.u, col, row, tt.wantCol)
		}
	}
}

func TestTileUV(t *testing.T) {
	m := NewTiledMaterial(nil, 1, 4)

	tests := []struct {
		uv   glm.Vec2f
		want glm.Vec2f
	}{
		{glm.Vec2f{0, 0}, glm.Vec2f{0, 0}},
		{glm.Vec2f{0.125, 0.5}, glm.Vec2f{0.5, 0.5}},
		{glm.Vec2f{0.26, 0.3}, glm.Vec2f{0.04, 0.3}},
		{glm.Vec2f{0.51, 0.9}, glm.Vec2f{0.04, 0.9}},
		{glm.Vec2f{0.76, 0.1}, glm.Vec2f{0.04, 0.1}},
	}

	for _, tt := range tests {
		got := m.TileUV(tt.uv)
		if !approxEqual(float64(got[0]), float64(tt.want[0]), epsilon) ||
			!approxEqual(float64(got[1]), float64(tt.want[1]), epsilon) {
			t.Errorf("TileUV(%v) = %v, want %v", tt.uv, got, tt.want)
		}
	}
}

// --- Mesh ---

func TestMeshModelMatrixFlip(t *testing.T) {
	mesh := NewMesh(nil, nil)
	mesh.Rotation = Euler{X: math.Pi, Z: -math.Pi}

	// a half turn around x and z equals a half turn around y
	p := mesh.ModelMatrix().TransformPoint(glm.Vec3f{1, 2, 3})

	want := glm.Vec3f{-1, 2, -3}
	for i := range 3 {
		if !approxEqual(float64(p[i]), float64(want[i]), epsilon) {
			t.Fatalf("transformed point = %v, want %v", p, want)
		}
	}
}

func TestMeshModelMatrixScale(t *testing.T) {
	mesh := NewMesh(nil, nil)
	mesh.Scale = glm.Vec3f{1.6, 1, 1}
	mesh.Position = glm.Vec3f{0, 0.5, 0}

	p := mesh.ModelMatrix().TransformPoint(glm.Vec3f{1, 1, 0})
	if !approxEqual(float64(p[0]), 1.6, epsilon) || !approxEqual(float64(p[1]), 1.5, epsilon) {
		t.Errorf("transformed point = %v, want (1.6, 1.5, 0)", p)
	}
}

func TestSceneDispose(t *testing.T) {
	geometry := NewPlaneGeometry(1, 1)
	material := NewBasicMaterial(nil)

	s := NewScene()
	s.Add(NewMesh(geometry, material))

	var released int
	geometry.OnDispose(func() { released++ })
	material.OnDispose(func() { released++ })

	s.Dispose()
	s.Dispose()

	if released != 2 {
		t.Errorf("released = %d, want 2", released)
	}
}

// --- Camera ---

func TestCameraProjectionUpdate(t *testing.T) {
	cam := NewPerspectiveCamera(35, 800.0/600.0, 0.1, 1000)
	before := cam.ProjectionMatrix()

	cam.Aspect = 1920.0 / 1080.0
	if cam.ProjectionMatrix() != before {
		t.Error("projection changed before UpdateProjectionMatrix")
	}

	cam.UpdateProjectionMatrix()
	if cam.ProjectionMatrix() == before {
		t.Error("projection not recomputed")
	}
}

func TestCameraViewMatrix(t *testing.T) {
	cam := NewPerspectiveCamera(35, 1, 0.1, 1000)
	cam.Position = glm.Vec3f{0, 0, 24}

	p := cam.ViewMatrix().TransformPoint(glm.Vec3f{})
	if !approxEqual(float64(p[2]), -24, epsilon) {
		t.Errorf("origin in view space = %v, want z=-24", p)
	}
}

// --- Viewport ---

func TestClampPixelRatio(t *testing.T) {
	tests := []struct {
		device, want float64
	}{
		{1, 1},
		{1.5, 1.5},
		{2, 2},
		{2.625, 2},
		{3, 2},
		{0, 1},
		{math.NaN(), 1},
	}

	for _, tt := range tests {
		if got := ClampPixelRatio(tt.device, DefaultPixelRatioCap); got != tt.want {
			t.Errorf("ClampPixelRatio(%f) = %f, want %f", tt.device, got, tt.want)
		}
	}
}

func TestDrawingBufferSize(t *testing.T) {
	tests := []struct {
		vp   Viewport
		w, h uint32
	}{
		{Viewport{Width: 800, Height: 600, PixelRatio: 1}, 800, 600},
		{Viewport{Width: 1920, Height: 1080, PixelRatio: 2}, 3840, 2160},
		{Viewport{Width: 375, Height: 667, PixelRatio: 1.5}, 562, 1000},
		{Viewport{Width: 100, Height: 100}, 100, 100},
	}

	for _, tt := range tests {
		w, h := tt.vp.DrawingBufferSize()
		if w != tt.w || h != tt.h {
			t.Errorf("%+v: DrawingBufferSize = %dx%d, want %dx%d", tt.vp, w, h, tt.w, tt.h)
		}
	}
}

// --- Texture ---

func TestTextureStatus(t *testing.T) {
	tex := NewTexture("logo")
	if tex.Status != TexturePending {
		t.Errorf("Status = %s, want pending", tex.Status)
	}

	tex.SetError(errors.New("not found"))
	if tex.Status != TextureFailed || tex.Err == nil {
		t.Errorf("Status = %s, Err = %v, want failed with error", tex.Status, tex.Err)
	}

	tex.SetImage(image.NewRGBA(image.Rect(0, 0, 2, 2)))
	if tex.Status != TextureLoaded || tex.Err != nil || tex.Version != 1 {
		t.Errorf("Status = %s, Err = %v, Version = %d after SetImage", tex.Status, tex.Err, tex.Version)
	}
}

func TestRenderTargetDispose(t *testing.T) {
	rt := NewRenderTarget(512, 512)

	if rt.Texture.RenderTarget() != rt {
		t.Fatal("texture does not point back to its render target")
	}

	var released []string
	rt.OnDispose(func() { released = append(released, "target") })
	rt.Texture.OnDispose(func() { released = append(released, "texture") })

	rt.Dispose()

	if len(released) != 2 {
		t.Errorf("released = %v, want target and texture", released)
	}

	// listeners registered late fire immediately
	var late bool
	rt.OnDispose(func() { late = true })
	if !late {
		t.Error("listener on disposed target was not called")
	}
}
