package scene

import (
	"math"

	"github.com/oliverbestmann/rtcylinder/glm"
)

// Side selects which faces of a mesh are rendered.
type Side uint8

const (
	FrontSide Side = iota
	BackSide
	DoubleSide
)

func (s Side) String() string {
	switch s {
	case FrontSide:
		return "front"
	case BackSide:
		return "back"
	case DoubleSide:
		return "double"
	default:
		return "unknown"
	}
}

// MaterialBase holds the state shared by all materials.
type MaterialBase struct {
	disposer

	Side Side
}

func (m *MaterialBase) Base() *MaterialBase {
	return m
}

type Material interface {
	Base() *MaterialBase
	Dispose()
}

// BasicMaterial samples Map without any lighting.
type BasicMaterial struct {
	MaterialBase

	Map *Texture
}

func NewBasicMaterial(texture *Texture) *BasicMaterial {
	return &BasicMaterial{Map: texture}
}

// TiledMaterial partitions the uv space of a mesh into a grid of Rows x Cols
// cells and samples the full Texture in each of them.
type TiledMaterial struct {
	MaterialBase

	Texture *Texture
	Rows    float32
	Cols    float32
}

func NewTiledMaterial(texture *Texture, rows, cols float32) *TiledMaterial {
	return &TiledMaterial{
		Texture: texture,
		Rows:    rows,
		Cols:    cols,
	}
}

// TileUV returns the uv coordinate sampled for the fragment at uv. This is
// the same computation the tiling fragment shader performs.
func (m *TiledMaterial) TileUV(uv glm.Vec2f) glm.Vec2f {
	return glm.Vec2f{
		fract(uv[0] * m.Cols),
		fract(uv[1] * m.Rows),
	}
}

// TileIndex returns the column and row of the grid cell containing uv.
func (m *TiledMaterial) TileIndex(uv glm.Vec2f) (col, row int) {
	col = wrapIndex(uv[0]*m.Cols, m.Cols)
	row = wrapIndex(uv[1]*m.Rows, m.Rows)
	return
}

func fract(x float32) float32 {
	return x - float32(math.Floor(float64(x)))
}

func wrapIndex(x, n float32) int {
	idx := int(math.Floor(float64(x)))
	count := int(n)

	if count <= 0 {
		return 0
	}

	return ((idx % count) + count) % count
}
