package commands

import (
	"math"
	"strings"
	"testing"
	"unsafe"

	"github.com/oliverbestmann/rtcylinder/glm"
	"github.com/oliverbestmann/rtcylinder/scene"
)

func TestMeshVertexLayout(t *testing.T) {
	if got := unsafe.Sizeof(MeshVertex{}); got != 20 {
		t.Errorf("sizeof(MeshVertex) = %d, want 20", got)
	}

	if got := unsafe.Offsetof(MeshVertex{}.UV); got != 12 {
		t.Errorf("offsetof(MeshVertex.UV) = %d, want 12", got)
	}
}

func TestMeshUniformsLayout(t *testing.T) {
	// mat4x4 + vec2 + f32, padded to the 16 byte struct alignment of wgsl
	if got := unsafe.Sizeof(meshUniforms{}); got != 80 {
		t.Errorf("sizeof(meshUniforms) = %d, want 80", got)
	}

	if got := unsafe.Offsetof(meshUniforms{}.Grid); got != 64 {
		t.Errorf("offsetof(meshUniforms.Grid) = %d, want 64", got)
	}

	if got := unsafe.Offsetof(meshUniforms{}.Premultiplied); got != 76 {
		t.Errorf("offsetof(meshUniforms.Premultiplied) = %d, want 76", got)
	}
}

func TestShaderEntryPoints(t *testing.T) {
	for _, entry := range []string{"vs_main", FragmentBasic, FragmentTiled} {
		if !strings.Contains(mesh3dShaderCode, "fn "+entry+"(") {
			t.Errorf("shader has no entry point %q", entry)
		}
	}
}

// shaderTileUV computes the uv fs_tiled samples before flipping v.
func shaderTileUV(uv, grid glm.Vec2f) glm.Vec2f {
	fract := func(x float32) float32 { return x - float32(math.Floor(float64(x))) }
	return glm.Vec2f{fract(uv[0] * grid[1]), fract(uv[1] * grid[0])}
}

func TestTiledShaderMatchesMaterial(t *testing.T) {
	// the swizzle shaderTileUV mirrors
	if !strings.Contains(mesh3dShaderCode, "in.uv * vec2<f32>(uniforms.grid.y, uniforms.grid.x)") {
		t.Fatal("fs_tiled no longer scales uv by (grid.y, grid.x)")
	}

	tests := []struct {
		rows, cols float32
	}{
		{1, 4},
		{2, 3},
		{3, 1},
	}

	uvs := []glm.Vec2f{{0.1, 0.2}, {0.3, 0.7}, {0.62, 0.45}, {0.99, 0.01}}

	for _, tt := range tests {
		material := scene.NewTiledMaterial(nil, tt.rows, tt.cols)
		grid := TileGrid(tt.rows, tt.cols)

		for _, uv := range uvs {
			got := shaderTileUV(uv, grid)
			want := material.TileUV(uv)

			if math.Abs(float64(got[0]-want[0])) > 1e-5 || math.Abs(float64(got[1]-want[1])) > 1e-5 {
				t.Errorf("grid %vx%v uv %v: shader samples %v, material %v", tt.rows, tt.cols, uv, got, want)
			}
		}
	}
}

func TestPremultipliedSourcesAreNotMultipliedTwice(t *testing.T) {
	if !strings.Contains(mesh3dShaderCode, "rgb = rgb / color.a") {
		t.Error("premultiplied textures must be converted back to straight alpha before output")
	}
}
