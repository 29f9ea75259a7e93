package superquadric

import (
	"github.com/golang/geo/r3"
)

// Transform maps canonical vertices into world space. Each vertex is scaled per axis by
// params.Scale and then by params.UniformScale, rotated by Rz(yaw)·Ry(pitch)·Rx(roll), and
// finally translated. The result has the same length and order as vertices, which is not
// modified. Params are not validated here; see PoseParams.Validate.
func Transform(vertices []r3.Vector, params PoseParams) []r3.Vector {
	rot := params.Rotation.RotationMatrix()
	scale := params.Scale.Mul(params.UniformScale)

	out := make([]r3.Vector, len(vertices))
	for i, v := range vertices {
		scaled := r3.Vector{X: v.X * scale.X, Y: v.Y * scale.Y, Z: v.Z * scale.Z}
		out[i] = rot.Mul(scaled).Add(params.Translation)
	}
	return out
}
