package scene

import (
	"math"
	"structs"

	"github.com/oliverbestmann/rtcylinder/glm"
)

// Vertex is the layout of a single vertex as uploaded to the gpu.
type Vertex struct {
	_ structs.HostLayout

	Position glm.Vec3f
	UV       glm.Vec2f
}

// Geometry is an indexed triangle list.
type Geometry struct {
	disposer

	Label    string
	Vertices []Vertex
	Indices  []uint32
}

type CylinderOptions struct {
	RadiusTop      float32
	RadiusBottom   float32
	Height         float32
	RadialSegments int
	HeightSegments int

	// OpenEnded skips the top and bottom caps.
	OpenEnded bool
}

func (opts CylinderOptions) withDefaults() CylinderOptions {
	if opts.RadiusTop == 0 {
		opts.RadiusTop = 1
	}

	if opts.RadiusBottom == 0 {
		opts.RadiusBottom = 1
	}

	if opts.Height == 0 {
		opts.Height = 1
	}

	opts.RadialSegments = max(opts.RadialSegments, 3)
	opts.HeightSegments = max(opts.HeightSegments, 1)

	return opts
}

// NewCylinderGeometry builds a cylinder centered at the origin along the y axis.
// The u coordinate wraps once around the mantle starting at +z, v runs from 0
// at the bottom to 1 at the top. Front faces point outwards.
func NewCylinderGeometry(opts CylinderOptions) *Geometry {
	opts = opts.withDefaults()

	g := &Geometry{Label: "Cylinder"}

	halfHeight := opts.Height / 2

	// one ring of vertices per height segment, the first and last vertex
	// of a ring share a position but carry u=0 and u=1
	rows := make([][]uint32, 0, opts.HeightSegments+1)

	for y := 0; y <= opts.HeightSegments; y++ {
		v := float32(y) / float32(opts.HeightSegments)
		radius := v*(opts.RadiusBottom-opts.RadiusTop) + opts.RadiusTop

		row := make([]uint32, 0, opts.RadialSegments+1)

		for x := 0; x <= opts.RadialSegments; x++ {
			u := float32(x) / float32(opts.RadialSegments)
			theta := float64(u) * 2 * math.Pi

			sin := float32(math.Sin(theta))
			cos := float32(math.Cos(theta))

			row = append(row, uint32(len(g.Vertices)))

			g.Vertices = append(g.Vertices, Vertex{
				Position: glm.Vec3f{radius * sin, -v*opts.Height + halfHeight, radius * cos},
				UV:       glm.Vec2f{u, 1 - v},
			})
		}

		rows = append(rows, row)
	}

	for x := 0; x < opts.RadialSegments; x++ {
		for y := 0; y < opts.HeightSegments; y++ {
			a := rows[y][x]
			b := rows[y+1][x]
			c := rows[y+1][x+1]
			d := rows[y][x+1]

			g.Indices = append(g.Indices, a, b, d, b, c, d)
		}
	}

	if !opts.OpenEnded {
		if opts.RadiusTop > 0 {
			g.addCap(opts, true)
		}

		if opts.RadiusBottom > 0 {
			g.addCap(opts, false)
		}
	}

	return g
}

func (g *Geometry) addCap(opts CylinderOptions, top bool) {
	radius := opts.RadiusBottom
	sign := float32(-1)

	if top {
		radius = opts.RadiusTop
		sign = 1
	}

	y := opts.Height / 2 * sign

	center := uint32(len(g.Vertices))

	g.Vertices = append(g.Vertices, Vertex{
		Position: glm.Vec3f{0, y, 0},
		UV:       glm.Vec2f{0.5, 0.5},
	})

	first := uint32(len(g.Vertices))

	for x := 0; x <= opts.RadialSegments; x++ {
		theta := float64(x) / float64(opts.RadialSegments) * 2 * math.Pi

		sin := float32(math.Sin(theta))
		cos := float32(math.Cos(theta))

		g.Vertices = append(g.Vertices, Vertex{
			Position: glm.Vec3f{radius * sin, y, radius * cos},
			UV:       glm.Vec2f{cos*0.5 + 0.5, sin*0.5*sign + 0.5},
		})
	}

	for x := 0; x < opts.RadialSegments; x++ {
		i := first + uint32(x)

		if top {
			g.Indices = append(g.Indices, i, i+1, center)
		} else {
			g.Indices = append(g.Indices, i+1, i, center)
		}
	}
}

// NewPlaneGeometry builds a plane of the given size in the xy plane facing +z.
func NewPlaneGeometry(width, height float32) *Geometry {
	hw := width / 2
	hh := height / 2

	return &Geometry{
		Label: "Plane",
		Vertices: []Vertex{
			{Position: glm.Vec3f{-hw, hh, 0}, UV: glm.Vec2f{0, 1}},
			{Position: glm.Vec3f{hw, hh, 0}, UV: glm.Vec2f{1, 1}},
			{Position: glm.Vec3f{-hw, -hh, 0}, UV: glm.Vec2f{0, 0}},
			{Position: glm.Vec3f{hw, -hh, 0}, UV: glm.Vec2f{1, 0}},
		},
		Indices: []uint32{0, 2, 1, 2, 3, 1},
	}
}
