package glm

import "math"

// Spherical holds spherical coordinates with y as the up axis. Phi is the
// polar angle measured from +y, Theta the azimuth around y measured from +z.
type Spherical struct {
	Radius float64
	Phi    Rad
	Theta  Rad
}

// SphericalFromVec3 converts the cartesian offset v to spherical coordinates.
func SphericalFromVec3[T float](v Vec3[T]) Spherical {
	x, y, z := float64(v[0]), float64(v[1]), float64(v[2])

	radius := math.Sqrt(x*x + y*y + z*z)
	if radius == 0 {
		return Spherical{}
	}

	return Spherical{
		Radius: radius,
		Theta:  Rad(math.Atan2(x, z)),
		Phi:    Rad(math.Acos(min(max(y/radius, -1), 1))),
	}
}

// Clamped restricts Phi to the open interval (eps, pi-eps) so a view
// direction never becomes parallel to the up axis.
func (s Spherical) Clamped(eps float64) Spherical {
	s.Phi = Rad(min(max(float64(s.Phi), eps), math.Pi-eps))
	return s
}

func Vec3FromSpherical[T float](s Spherical) Vec3[T] {
	sinPhi := math.Sin(float64(s.Phi))

	return Vec3[T]{
		T(s.Radius * sinPhi * math.Sin(float64(s.Theta))),
		T(s.Radius * math.Cos(float64(s.Phi))),
		T(s.Radius * sinPhi * math.Cos(float64(s.Theta))),
	}
}
