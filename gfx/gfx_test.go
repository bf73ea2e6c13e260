package gfx

import (
	"testing"

	"github.com/oliverbestmann/rtcylinder/loader"
	"github.com/oliverbestmann/rtcylinder/scene"
)

func TestAliasesAreIdentical(t *testing.T) {
	var s *Scene = scene.NewScene()
	var rt *scene.RenderTarget = NewRenderTarget(512, 512)
	var result LoadResult = loader.Result{Path: "/logo.jpg"}

	if s == nil || rt.Texture == nil || result.Path != "/logo.jpg" {
		t.Fatal("facade constructors returned unexpected values")
	}

	if SRGBColorSpace != scene.SRGBColorSpace || NoColorSpace != scene.NoColorSpace {
		t.Error("color spaces differ from the scene package")
	}

	if SRGBColorSpace == NoColorSpace {
		t.Error("color spaces must be distinct")
	}
}

func TestFacadeBuildsScene(t *testing.T) {
	texture := NewTexture("/logo.jpg")
	texture.ColorSpace = SRGBColorSpace

	mesh := NewMesh(NewPlaneGeometry(2, 2), NewBasicMaterial(texture))
	mesh.Scale = Vec3{1.6, 1, 1}

	s := NewScene()
	s.Add(mesh)

	camera := NewPerspectiveCamera(35, 1, 0.1, 1000)
	camera.Position = Vec3{0, 0, 5}

	controls := NewOrbitControls(camera)
	if !controls.EnableZoom {
		t.Error("zoom should be enabled by default")
	}

	if len(s.Meshes) != 1 || s.Meshes[0].Material.Base().Side != FrontSide {
		t.Errorf("unexpected scene %+v", s.Meshes)
	}

	if ClampPixelRatio(3, DefaultPixelRatioCap) != 2 {
		t.Error("pixel ratio not clamped")
	}
}
