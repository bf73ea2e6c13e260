// Package gfx collects the types needed to build and render a scene under a
// single import path.
package gfx

import (
	"github.com/oliverbestmann/rtcylinder/glm"
	"github.com/oliverbestmann/rtcylinder/loader"
	"github.com/oliverbestmann/rtcylinder/scene"
)

type (
	Scene             = scene.Scene
	Mesh              = scene.Mesh
	Euler             = scene.Euler
	Geometry          = scene.Geometry
	Vertex            = scene.Vertex
	CylinderOptions   = scene.CylinderOptions
	Material          = scene.Material
	Side              = scene.Side
	BasicMaterial     = scene.BasicMaterial
	TiledMaterial     = scene.TiledMaterial
	Texture           = scene.Texture
	TextureStatus     = scene.TextureStatus
	ColorSpace        = scene.ColorSpace
	RenderTarget      = scene.RenderTarget
	PerspectiveCamera = scene.PerspectiveCamera
	OrbitControls     = scene.OrbitControls
	PointerInput      = scene.PointerInput
	Viewport          = scene.Viewport

	TextureLoader = loader.TextureLoader
	LoadResult    = loader.Result
	Source        = loader.Source
	DirSource     = loader.DirSource
	HTTPSource    = loader.HTTPSource

	Vec2 = glm.Vec2f
	Vec3 = glm.Vec3f
	Mat4 = glm.Mat4f
)

const (
	NoColorSpace   = scene.NoColorSpace
	SRGBColorSpace = scene.SRGBColorSpace

	FrontSide  = scene.FrontSide
	BackSide   = scene.BackSide
	DoubleSide = scene.DoubleSide

	TexturePending = scene.TexturePending
	TextureLoaded  = scene.TextureLoaded
	TextureFailed  = scene.TextureFailed

	DefaultPixelRatioCap = scene.DefaultPixelRatioCap
)

var (
	NewScene             = scene.NewScene
	NewMesh              = scene.NewMesh
	NewCylinderGeometry  = scene.NewCylinderGeometry
	NewPlaneGeometry     = scene.NewPlaneGeometry
	NewBasicMaterial     = scene.NewBasicMaterial
	NewTiledMaterial     = scene.NewTiledMaterial
	NewTexture           = scene.NewTexture
	NewRenderTarget      = scene.NewRenderTarget
	NewPerspectiveCamera = scene.NewPerspectiveCamera
	NewOrbitControls     = scene.NewOrbitControls
	ClampPixelRatio      = scene.ClampPixelRatio

	NewTextureLoader = loader.New
)
