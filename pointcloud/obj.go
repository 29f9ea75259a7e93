package pointcloud

import (
	"bufio"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/superquadric/utils"
)

// ReadOBJ reads the vertex positions of a Wavefront OBJ mesh into a pointcloud, in file order.
// Per-vertex colors written as a trailing "r g b" triple in [0,1] are kept. Faces, normals
// and texture coordinates are ignored.
func ReadOBJ(in io.Reader) (PointCloud, error) {
	pc := New()
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line, _, _ := strings.Cut(scanner.Text(), "#")
		fields := strings.Fields(line)
		if len(fields) == 0 || fields[0] != "v" {
			continue
		}
		values := make([]float64, 0, len(fields)-1)
		for _, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: invalid vertex component %q", lineNum, f)
			}
			values = append(values, v)
		}
		if len(values) < 3 {
			return nil, errors.Errorf("line %d: vertex has %d components, need at least 3", lineNum, len(values))
		}

		var d Data
		// x y z r g b; the 4 component form is x y z w.
		if len(values) >= 6 {
			d = NewColoredData(color.NRGBA{
				R: objColorChannel(values[3]),
				G: objColorChannel(values[4]),
				B: objColorChannel(values[5]),
				A: 255,
			})
		}
		if err := pc.Append(r3.Vector{X: values[0], Y: values[1], Z: values[2]}, d); err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNum)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return pc, nil
}

func objColorChannel(v float64) uint8 {
	return uint8(math.Round(utils.Clamp(v, 0, 1) * 255))
}
