package types

import "github.com/go-gl/mathgl/mgl32"

// A column-major 4x4 matrix.
type Mat4 mgl32.Mat4

// Create identity matrix.
func Ident4() Mat4 {
	return Mat4(mgl32.Ident4())
}

// Create a translation matrix.
func Translate(v Vec3) Mat4 {
	return Mat4(mgl32.Translate3D(v[0], v[1], v[2]))
}

// Create a scale matrix.
func Scale(v Vec3) Mat4 {
	return Mat4(mgl32.Scale3D(v[0], v[1], v[2]))
}

// Create a rotation matrix around axis by angle radians.
func Rotate(axis Vec3, angle float32) Mat4 {
	return QuatFromAxisAngle(axis.Normalize(), angle).Mat4()
}

// Multiply two matrices. The result applies m2 first and then m.
func (m Mat4) Mul4(m2 Mat4) Mat4 {
	return Mat4(mgl32.Mat4(m).Mul4(mgl32.Mat4(m2)))
}

// Invert matrix. A singular matrix yields the zero matrix.
func (m Mat4) Inv() Mat4 {
	return Mat4(mgl32.Mat4(m).Inv())
}

// Transform a point (w = 1).
func (m Mat4) MulPoint(v Vec3) Vec3 {
	out := mgl32.Mat4(m).Mul4x1(mgl32.Vec4{v[0], v[1], v[2], 1})
	if out[3] != 0 && out[3] != 1 {
		return Vec3{out[0] / out[3], out[1] / out[3], out[2] / out[3]}
	}
	return Vec3{out[0], out[1], out[2]}
}

// Transform a direction (w = 0).
func (m Mat4) MulDir(v Vec3) Vec3 {
	out := mgl32.Mat4(m).Mul4x1(mgl32.Vec4{v[0], v[1], v[2], 0})
	return Vec3{out[0], out[1], out[2]}
}
