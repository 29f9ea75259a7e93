package pointcloud

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Vectors returns the positions of every point in the cloud, in order.
func Vectors(cloud PointCloud) []r3.Vector {
	out := make([]r3.Vector, 0, cloud.Size())
	cloud.Iterate(0, 0, func(p r3.Vector, d Data) bool {
		out = append(out, p)
		return true
	})
	return out
}

// CloudCentroid returns the centroid of a pointcloud as a vector.
func CloudCentroid(pc PointCloud) r3.Vector {
	if pc.Size() == 0 {
		// This is done to match the centroid of an empty pointcloud
		return r3.Vector{}
	}
	var sum r3.Vector
	pc.Iterate(0, 0, func(p r3.Vector, d Data) bool {
		sum = sum.Add(p)
		return true
	})
	return sum.Mul(1. / float64(pc.Size()))
}

// CloudMatrixCol is a type that represents the columns of a CloudMatrix.
type CloudMatrixCol int

const (
	// CloudMatrixColX is the x column in the cloud matrix.
	CloudMatrixColX CloudMatrixCol = 0
	// CloudMatrixColY is the y column in the cloud matrix.
	CloudMatrixColY CloudMatrixCol = 1
	// CloudMatrixColZ is the z column in the cloud matrix.
	CloudMatrixColZ CloudMatrixCol = 2
	// CloudMatrixColR is the r column in the cloud matrix.
	CloudMatrixColR CloudMatrixCol = 3
	// CloudMatrixColG is the g column in the cloud matrix.
	CloudMatrixColG CloudMatrixCol = 4
	// CloudMatrixColB is the b column in the cloud matrix.
	CloudMatrixColB CloudMatrixCol = 5
	// CloudMatrixColV is the value column in the cloud matrix.
	CloudMatrixColV CloudMatrixCol = 6
)

// CloudMatrix Returns a Matrix representation of a Cloud along with a Header list.
// The Header list is a list of CloudMatrixCols that correspond to the columns in the matrix.
// CloudMatrix is not guaranteed to return the same header list for different clouds.
// Rows follow the cloud's insertion order.
func CloudMatrix(pc PointCloud) (*mat.Dense, []CloudMatrixCol) {
	if pc.Size() == 0 {
		return nil, nil
	}
	header := []CloudMatrixCol{CloudMatrixColX, CloudMatrixColY, CloudMatrixColZ}
	pointSize := 3 // x, y, z
	if pc.MetaData().HasColor {
		pointSize += 3 // color
		header = append(header, CloudMatrixColR, CloudMatrixColG, CloudMatrixColB)
	}
	if pc.MetaData().HasValue {
		pointSize++ // value
		header = append(header, CloudMatrixColV)
	}

	matData := make([]float64, 0, pc.Size()*pointSize)

	pc.Iterate(0, 0, func(p r3.Vector, d Data) bool {
		matData = append(matData, p.X, p.Y, p.Z)
		if pc.MetaData().HasColor {
			var r, g, b uint8
			if d != nil {
				r, g, b = d.RGB255()
			}
			matData = append(matData, float64(r), float64(g), float64(b))
		}
		if pc.MetaData().HasValue {
			var v int
			if d != nil {
				v = d.Value()
			}
			matData = append(matData, float64(v))
		}
		return true
	})
	return mat.NewDense(pc.Size(), pointSize, matData), header
}

// PrincipalSpread returns the standard deviation of the cloud's positions along each of its
// principal axes, largest first. A cloud of fewer than two points has no spread.
func PrincipalSpread(pc PointCloud) (r3.Vector, error) {
	if pc.Size() < 2 {
		return r3.Vector{}, nil
	}
	m, _ := CloudMatrix(pc)
	xyz := m.Slice(0, pc.Size(), int(CloudMatrixColX), int(CloudMatrixColZ)+1)

	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, xyz, nil)
	var eig mat.EigenSym
	if !eig.Factorize(&cov, false) {
		return r3.Vector{}, errors.New("cannot factorize point covariance")
	}
	// ascending
	vals := eig.Values(nil)
	spread := func(v float64) float64 { return math.Sqrt(math.Max(v, 0)) }
	return r3.Vector{X: spread(vals[2]), Y: spread(vals[1]), Z: spread(vals[0])}, nil
}
