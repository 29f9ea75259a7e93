// Package pointcloud defines an ordered point cloud with optional per-point color and value
// data, a farthest-point downsampler, and readers/writers for the PLY, PCD, LAS and OBJ formats.
//
// Unlike a spatial index, the cloud keeps every appended point in insertion order and never
// deduplicates, so a cloud composed from several sources can be split back up by position.
package pointcloud

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/superquadric/utils"
)

// MetaData is data about what's stored in the point cloud.
type MetaData struct {
	HasColor bool
	HasValue bool

	MinX, MaxX float64
	MinY, MaxY float64
	MinZ, MaxZ float64
}

// PointCloud is a general purpose, ordered container of points.
type PointCloud interface {
	// Size returns the number of points in the cloud.
	Size() int

	// MetaData returns meta data
	MetaData() MetaData

	// Append adds the given point with its data to the end of the cloud.
	Append(p r3.Vector, d Data) error

	// At returns the i'th point in insertion order with its data, which may be nil.
	At(i int) (r3.Vector, Data)

	// Iterate iterates over all points in the cloud in insertion order and calls the given
	// function for each point. If the supplied function returns false,
	// iteration will stop after the function returns.
	// numBatches lets you divide up he work. 0 means don't divide
	// myBatch is used iff numBatches > 0 and is which batch you want
	Iterate(numBatches, myBatch int, fn func(p r3.Vector, d Data) bool)
}

// NewMetaData creates a new MetaData with bounds that any point will widen.
func NewMetaData() MetaData {
	return MetaData{
		MinX: math.MaxFloat64,
		MinY: math.MaxFloat64,
		MinZ: math.MaxFloat64,
		MaxX: -math.MaxFloat64,
		MaxY: -math.MaxFloat64,
		MaxZ: -math.MaxFloat64,
	}
}

// Merge updates the meta data with the new data.
func (meta *MetaData) Merge(v r3.Vector, data Data) {
	if data != nil {
		if data.HasColor() {
			meta.HasColor = true
		}
		if data.HasValue() {
			meta.HasValue = true
		}
	}

	meta.MaxX = math.Max(meta.MaxX, v.X)
	meta.MaxY = math.Max(meta.MaxY, v.Y)
	meta.MaxZ = math.Max(meta.MaxZ, v.Z)

	meta.MinX = math.Min(meta.MinX, v.X)
	meta.MinY = math.Min(meta.MinY, v.Y)
	meta.MinZ = math.Min(meta.MinZ, v.Z)
}

// Extent returns the size of the axis aligned bounding box in each dimension.
func (meta MetaData) Extent() r3.Vector {
	if meta.MinX > meta.MaxX {
		return r3.Vector{}
	}
	return r3.Vector{X: meta.MaxX - meta.MinX, Y: meta.MaxY - meta.MinY, Z: meta.MaxZ - meta.MinZ}
}

func validatePoint(p r3.Vector) error {
	if !utils.IsFinite(p.X) {
		return errors.Errorf("x component (%v) is not a finite number", p.X)
	}
	if !utils.IsFinite(p.Y) {
		return errors.Errorf("y component (%v) is not a finite number", p.Y)
	}
	if !utils.IsFinite(p.Z) {
		return errors.Errorf("z component (%v) is not a finite number", p.Z)
	}
	return nil
}
