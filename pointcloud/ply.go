package pointcloud

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"

	"github.com/chenzhekl/goply"
	"github.com/golang/geo/r3"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"

	"go.viam.com/superquadric/utils"
)

// PLYFormat is the body encoding of a written PLY file.
type PLYFormat string

// The supported PLY body encodings.
const (
	PLYAscii  PLYFormat = "ascii"
	PLYBinary PLYFormat = "binary_little_endian"
)

// ColorEncoding is how vertex colors are stored in a written PLY file.
type ColorEncoding string

const (
	// ColorUint8 writes colors as uchar channels in [0,255].
	ColorUint8 ColorEncoding = "uint8"
	// ColorFloat writes colors as float channels in [0,1].
	ColorFloat ColorEncoding = "float"
)

// PLYOptions controls how WritePLY encodes a cloud.
type PLYOptions struct {
	Format        PLYFormat
	ColorEncoding ColorEncoding
}

// DefaultPLYOptions are ascii bodies with uint8 colors.
var DefaultPLYOptions = PLYOptions{Format: PLYAscii, ColorEncoding: ColorUint8}

// ReadPLY reads the vertex element of a PLY file into a pointcloud. Vertex colors are read
// from red/green/blue properties when present, either as integers in [0,255] or floats in [0,1].
// Faces and any other elements are ignored.
func ReadPLY(in io.Reader) (pc PointCloud, err error) {
	// goply panics on malformed input instead of returning errors.
	defer func() {
		if r := recover(); r != nil {
			pc = nil
			err = errors.Errorf("malformed ply: %v", r)
		}
	}()

	ply := goply.New(bufio.NewReader(in))
	vertices := ply.Elements("vertex")
	cloud := NewWithPrealloc(len(vertices))
	for i, vertex := range vertices {
		var coords [3]float64
		for j, name := range []string{"x", "y", "z"} {
			raw, ok := vertex[name]
			if !ok {
				return nil, errors.Errorf("vertex %d is missing property %q", i, name)
			}
			if coords[j], err = utils.ToFloat64(raw); err != nil {
				return nil, errors.Wrapf(err, "vertex %d property %q", i, name)
			}
		}

		var d Data
		if c, ok, err := plyVertexColor(vertex); err != nil {
			return nil, errors.Wrapf(err, "vertex %d", i)
		} else if ok {
			d = NewColoredData(c)
		}
		if err := cloud.Append(r3.Vector{X: coords[0], Y: coords[1], Z: coords[2]}, d); err != nil {
			return nil, errors.Wrapf(err, "vertex %d", i)
		}
	}
	return cloud, nil
}

func plyVertexColor(vertex map[string]interface{}) (color.NRGBA, bool, error) {
	var channels [3]float64
	normalized := true
	for j, name := range []string{"red", "green", "blue"} {
		raw, ok := vertex[name]
		if !ok {
			return color.NRGBA{}, false, nil
		}
		v, err := utils.ToFloat64(raw)
		if err != nil {
			return color.NRGBA{}, false, errors.Wrapf(err, "property %q", name)
		}
		switch raw.(type) {
		case float32, float64:
			normalized = normalized && v <= 1
		default:
			normalized = false
		}
		channels[j] = v
	}
	var out [3]uint8
	for j, v := range channels {
		if normalized {
			v *= 255
		}
		out[j] = uint8(math.Round(utils.Clamp(v, 0, 255)))
	}
	return color.NRGBA{R: out[0], G: out[1], B: out[2], A: 255}, true, nil
}

// WritePLY writes the cloud as a PLY vertex element in insertion order. Colors are written
// only when the cloud has colored points, and uncolored points in such a cloud are written white.
func WritePLY(cloud PointCloud, out io.Writer, opts PLYOptions) error {
	if opts.Format == "" {
		opts.Format = PLYAscii
	}
	if opts.ColorEncoding == "" {
		opts.ColorEncoding = ColorUint8
	}
	switch opts.Format {
	case PLYAscii, PLYBinary:
	default:
		return errors.Errorf("unsupported ply format %q", opts.Format)
	}
	switch opts.ColorEncoding {
	case ColorUint8, ColorFloat:
	default:
		return errors.Errorf("unsupported ply color encoding %q", opts.ColorEncoding)
	}

	w := bufio.NewWriter(out)
	hasColor := cloud.MetaData().HasColor
	if err := writePLYHeader(w, cloud.Size(), hasColor, opts); err != nil {
		return err
	}

	var err error
	cloud.Iterate(0, 0, func(p r3.Vector, d Data) bool {
		if opts.Format == PLYBinary {
			err = writePLYBinaryVertex(w, p, d, hasColor, opts.ColorEncoding)
		} else {
			err = writePLYAsciiVertex(w, p, d, hasColor, opts.ColorEncoding)
		}
		return err == nil
	})
	if err != nil {
		return err
	}
	return w.Flush()
}

func writePLYHeader(w io.Writer, size int, hasColor bool, opts PLYOptions) error {
	colorType := "uchar"
	if opts.ColorEncoding == ColorFloat {
		colorType = "float"
	}
	header := fmt.Sprintf("ply\nformat %s 1.0\nelement vertex %d\n"+
		"property float x\nproperty float y\nproperty float z\n", opts.Format, size)
	if hasColor {
		header += fmt.Sprintf("property %[1]s red\nproperty %[1]s green\nproperty %[1]s blue\n", colorType)
	}
	header += "end_header\n"
	_, err := io.WriteString(w, header)
	return err
}

func pointColor(d Data) colorful.Color {
	if d == nil || !d.HasColor() {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	c, _ := colorful.MakeColor(d.Color())
	return c
}

func pointRGB255(d Data) (uint8, uint8, uint8) {
	if d == nil || !d.HasColor() {
		return 255, 255, 255
	}
	return d.RGB255()
}

func formatPLYFloat(v float64) string {
	return strconv.FormatFloat(float64(float32(v)), 'g', -1, 32)
}

func writePLYAsciiVertex(w io.Writer, p r3.Vector, d Data, hasColor bool, enc ColorEncoding) error {
	line := formatPLYFloat(p.X) + " " + formatPLYFloat(p.Y) + " " + formatPLYFloat(p.Z)
	if hasColor {
		if enc == ColorFloat {
			c := pointColor(d)
			line += " " + formatPLYFloat(c.R) + " " + formatPLYFloat(c.G) + " " + formatPLYFloat(c.B)
		} else {
			r, g, b := pointRGB255(d)
			line += fmt.Sprintf(" %d %d %d", r, g, b)
		}
	}
	_, err := io.WriteString(w, line+"\n")
	return err
}

func writePLYBinaryVertex(w io.Writer, p r3.Vector, d Data, hasColor bool, enc ColorEncoding) error {
	buf := make([]byte, 0, 24)
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(p.X)))
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(p.Y)))
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(p.Z)))
	if hasColor {
		if enc == ColorFloat {
			c := pointColor(d)
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(c.R)))
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(c.G)))
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(c.B)))
		} else {
			r, g, b := pointRGB255(d)
			buf = append(buf, r, g, b)
		}
	}
	_, err := w.Write(buf)
	return err
}
