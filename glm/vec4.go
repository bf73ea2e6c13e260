package glm

type Vec4[T numeric] [4]T

// PerspectiveDivide divides x, y and z by w.
func (lhs Vec4[T]) PerspectiveDivide() Vec3[T] {
	return Vec3[T]{lhs[0] / lhs[3], lhs[1] / lhs[3], lhs[2] / lhs[3]}
}
