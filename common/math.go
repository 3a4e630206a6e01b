package common

import (
	"github.com/chewxy/math32"
)

// Mat4 is a 4x4 matrix stored in column-major order (WebGPU convention).
type Mat4 [16]float32

// Identity returns the 4x4 identity matrix.
//
// Returns:
//   - Mat4: the identity matrix
func Identity() Mat4 {
	var m Mat4
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
	return m
}

// Mul4 multiplies two 4x4 matrices.
// Result: a * b
//
// Parameters:
//   - a: left-hand matrix
//   - b: right-hand matrix
//
// Returns:
//   - Mat4: the product
func Mul4(a, b Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// Perspective creates a perspective projection matrix for WebGPU clip space [0, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - Mat4: the projection matrix
func Perspective(fovY, aspect, near, far float32) Mat4 {
	f := 1 / math32.Tan(fovY/2)
	out := Identity()
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1
	out[14] = (near * far) / (near - far)
	out[15] = 0
	return out
}

// BuildModelMatrix constructs a model matrix from a Transform.
// The rotation order is Y * X * Z, matching Euler angles authored in the scene.
//
// Parameters:
//   - t: the transform to convert
//
// Returns:
//   - Mat4: the column-major model matrix
func BuildModelMatrix(t Transform) Mat4 {
	cx, sx := math32.Cos(t.Rotation[0]), math32.Sin(t.Rotation[0])
	cy, sy := math32.Cos(t.Rotation[1]), math32.Sin(t.Rotation[1])
	cz, sz := math32.Cos(t.Rotation[2]), math32.Sin(t.Rotation[2])
	s := t.Scale

	var out Mat4
	out[0] = (cy*cz + sy*sx*sz) * s[0]
	out[1] = (cx * sz) * s[0]
	out[2] = (-sy*cz + cy*sx*sz) * s[0]

	out[4] = (cy*-sz + sy*sx*cz) * s[1]
	out[5] = (cx * cz) * s[1]
	out[6] = (sy*sz + cy*sx*cz) * s[1]

	out[8] = (sy * cx) * s[2]
	out[9] = (-sx) * s[2]
	out[10] = (cy * cx) * s[2]

	out[12] = t.Position[0]
	out[13] = t.Position[1]
	out[14] = t.Position[2]
	out[15] = 1
	return out
}

// TransformPoint applies m to the point p (w = 1).
//
// Parameters:
//   - m: the matrix
//   - p: the point
//
// Returns:
//   - [3]float32: the transformed point
func TransformPoint(m Mat4, p [3]float32) [3]float32 {
	return [3]float32{
		m[0]*p[0] + m[4]*p[1] + m[8]*p[2] + m[12],
		m[1]*p[0] + m[5]*p[1] + m[9]*p[2] + m[13],
		m[2]*p[0] + m[6]*p[1] + m[10]*p[2] + m[14],
	}
}

// LookAt creates a view matrix placing the eye at eye and looking at center.
//
// Parameters:
//   - eye: camera position in world space
//   - center: target point the camera looks at
//   - up: up vector, typically (0, 1, 0)
//
// Returns:
//   - Mat4: the view matrix
func LookAt(eye, center, up [3]float32) Mat4 {
	z := Normalize3(Sub3(eye, center))
	x := Normalize3(Cross3(up, z))
	y := Cross3(z, x)

	var out Mat4
	out[0], out[4], out[8], out[12] = x[0], x[1], x[2], -Dot3(x, eye)
	out[1], out[5], out[9], out[13] = y[0], y[1], y[2], -Dot3(y, eye)
	out[2], out[6], out[10], out[14] = z[0], z[1], z[2], -Dot3(z, eye)
	out[15] = 1
	return out
}

// Sub3 returns a - b.
func Sub3(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Add3 returns a + b.
func Add3(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// Dot3 returns the dot product of a and b.
func Dot3(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Cross3 returns the cross product a x b.
func Cross3(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Length3 returns the euclidean length of v.
func Length3(v [3]float32) float32 {
	return math32.Sqrt(Dot3(v, v))
}

// Normalize3 returns v scaled to unit length. A zero vector is returned unchanged.
func Normalize3(v [3]float32) [3]float32 {
	l := Length3(v)
	if l == 0 {
		return v
	}
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}
