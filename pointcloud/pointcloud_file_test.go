package pointcloud

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/superquadric/logging"
)

func coloredTestCloud(t *testing.T) PointCloud {
	t.Helper()
	pc := New()
	test.That(t, pc.Append(NewVector(0.5, -1.25, 2), NewColoredData(color.NRGBA{255, 0, 0, 255})), test.ShouldBeNil)
	test.That(t, pc.Append(NewVector(-3, 0.125, 0), NewColoredData(color.NRGBA{0, 255, 255, 255})), test.ShouldBeNil)
	test.That(t, pc.Append(NewVector(1, 1, 1), NewColoredData(color.NRGBA{10, 20, 30, 255})), test.ShouldBeNil)
	return pc
}

func assertSameCloud(t *testing.T, got, expected PointCloud) {
	t.Helper()
	test.That(t, got.Size(), test.ShouldEqual, expected.Size())
	test.That(t, got.MetaData().HasColor, test.ShouldEqual, expected.MetaData().HasColor)
	for i := 0; i < expected.Size(); i++ {
		ep, ed := expected.At(i)
		gp, gd := got.At(i)
		test.That(t, gp.X, test.ShouldAlmostEqual, ep.X, 1e-6)
		test.That(t, gp.Y, test.ShouldAlmostEqual, ep.Y, 1e-6)
		test.That(t, gp.Z, test.ShouldAlmostEqual, ep.Z, 1e-6)
		if ed != nil && ed.HasColor() {
			er, eg, eb := ed.RGB255()
			gr, gg, gb := gd.RGB255()
			test.That(t, []uint8{gr, gg, gb}, test.ShouldResemble, []uint8{er, eg, eb})
		}
	}
}

func TestWritePLYAsciiHeader(t *testing.T) {
	var buf bytes.Buffer
	test.That(t, WritePLY(coloredTestCloud(t), &buf, DefaultPLYOptions), test.ShouldBeNil)
	lines := strings.Split(buf.String(), "\n")
	test.That(t, lines[:10], test.ShouldResemble, []string{
		"ply",
		"format ascii 1.0",
		"element vertex 3",
		"property float x",
		"property float y",
		"property float z",
		"property uchar red",
		"property uchar green",
		"property uchar blue",
		"end_header",
	})
	test.That(t, lines[10], test.ShouldEqual, "0.5 -1.25 2 255 0 0")
	test.That(t, lines[11], test.ShouldEqual, "-3 0.125 0 0 255 255")
}

func TestWritePLYFloatColor(t *testing.T) {
	var buf bytes.Buffer
	opts := PLYOptions{Format: PLYAscii, ColorEncoding: ColorFloat}
	test.That(t, WritePLY(coloredTestCloud(t), &buf, opts), test.ShouldBeNil)
	out := buf.String()
	test.That(t, out, test.ShouldContainSubstring, "property float red\n")
	test.That(t, out, test.ShouldContainSubstring, "\n0.5 -1.25 2 1 0 0\n")
	test.That(t, out, test.ShouldContainSubstring, "\n-3 0.125 0 0 1 1\n")
}

func TestWritePLYBinary(t *testing.T) {
	var buf bytes.Buffer
	opts := PLYOptions{Format: PLYBinary, ColorEncoding: ColorUint8}
	test.That(t, WritePLY(coloredTestCloud(t), &buf, opts), test.ShouldBeNil)
	header, body, found := strings.Cut(buf.String(), "end_header\n")
	test.That(t, found, test.ShouldBeTrue)
	test.That(t, header, test.ShouldContainSubstring, "format binary_little_endian 1.0\n")
	test.That(t, body, test.ShouldHaveLength, 3*(3*4+3))
}

func TestWritePLYNoColor(t *testing.T) {
	pc, err := NewFromVectors([]r3.Vector{{1, 2, 3}})
	test.That(t, err, test.ShouldBeNil)
	var buf bytes.Buffer
	test.That(t, WritePLY(pc, &buf, PLYOptions{}), test.ShouldBeNil)
	test.That(t, buf.String(), test.ShouldNotContainSubstring, "red")
	test.That(t, buf.String(), test.ShouldEndWith, "end_header\n1 2 3\n")
}

func TestWritePLYBadOptions(t *testing.T) {
	var buf bytes.Buffer
	err := WritePLY(New(), &buf, PLYOptions{Format: "big"})
	test.That(t, err, test.ShouldNotBeNil)
	err = WritePLY(New(), &buf, PLYOptions{ColorEncoding: "hsv"})
	test.That(t, err, test.ShouldNotBeNil)

	fn := filepath.Join(t.TempDir(), "bad.ply")
	err = WriteToFile(New(), fn, PLYOptions{Format: "big"})
	test.That(t, err, test.ShouldNotBeNil)
	_, err = os.Stat(fn)
	test.That(t, os.IsNotExist(err), test.ShouldBeTrue)
}

func TestPLYRoundTrip(t *testing.T) {
	expected := coloredTestCloud(t)
	var buf bytes.Buffer
	test.That(t, WritePLY(expected, &buf, DefaultPLYOptions), test.ShouldBeNil)

	got, err := ReadPLY(&buf)
	test.That(t, err, test.ShouldBeNil)
	assertSameCloud(t, got, expected)
}

func TestPCDRoundTrip(t *testing.T) {
	expected := coloredTestCloud(t)
	for _, pcdType := range []PCDType{PCDAscii, PCDBinary} {
		var buf bytes.Buffer
		test.That(t, ToPCD(expected, &buf, pcdType), test.ShouldBeNil)
		got, err := ReadPCD(&buf)
		test.That(t, err, test.ShouldBeNil)
		assertSameCloud(t, got, expected)
	}

	var buf bytes.Buffer
	test.That(t, ToPCD(expected, &buf, PCDCompressed), test.ShouldNotBeNil)
}

func TestReadPCDBadHeader(t *testing.T) {
	_, err := ReadPCD(strings.NewReader("VERSION .7\nFIELDS x y z normal\n"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unsupported pcd fields")
}

func TestReadOBJ(t *testing.T) {
	obj := `# a triangle
o tri
v 1 0 0
v 0 1.5 0 1
v 0 0 -2 1 0.5 0
vn 0 0 1
f 1 2 3
`
	pc, err := ReadOBJ(strings.NewReader(obj))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, Vectors(pc), test.ShouldResemble, []r3.Vector{{1, 0, 0}, {0, 1.5, 0}, {0, 0, -2}})
	_, d := pc.At(0)
	test.That(t, d, test.ShouldBeNil)
	_, d = pc.At(2)
	r, g, b := d.RGB255()
	test.That(t, []uint8{r, g, b}, test.ShouldResemble, []uint8{255, 128, 0})

	_, err = ReadOBJ(strings.NewReader("v 1 2\n"))
	test.That(t, err, test.ShouldNotBeNil)
	_, err = ReadOBJ(strings.NewReader("v 1 2 x\n"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestFileDispatch(t *testing.T) {
	logger := logging.NewTestLogger(t)
	dir := t.TempDir()
	expected := coloredTestCloud(t)

	for _, name := range []string{"cloud.ply", "cloud.pcd"} {
		fn := filepath.Join(dir, name)
		test.That(t, WriteToFile(expected, fn, DefaultPLYOptions), test.ShouldBeNil)
		got, err := NewFromFile(fn, logger)
		test.That(t, err, test.ShouldBeNil)
		assertSameCloud(t, got, expected)
	}

	test.That(t, WriteToFile(expected, filepath.Join(dir, "cloud.xyz"), DefaultPLYOptions), test.ShouldNotBeNil)
	_, err := NewFromFile(filepath.Join(dir, "cloud.xyz"), logger)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewFromFile(filepath.Join(dir, "missing.ply"), logger)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestLASRoundTrip(t *testing.T) {
	logger := logging.NewTestLogger(t)
	fn := filepath.Join(t.TempDir(), "cloud.las")

	pc := New()
	test.That(t, pc.Append(NewVector(1, 2, 3), NewValueData(7)), test.ShouldBeNil)
	test.That(t, pc.Append(NewVector(-4, 5, 0), NewValueData(9)), test.ShouldBeNil)
	test.That(t, WriteToLASFile(pc, fn), test.ShouldBeNil)

	got, err := NewFromFile(fn, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got.Size(), test.ShouldEqual, 2)
	test.That(t, got.MetaData().HasValue, test.ShouldBeTrue)
	p, d := got.At(1)
	test.That(t, p.X, test.ShouldAlmostEqual, -4, 1e-3)
	test.That(t, p.Y, test.ShouldAlmostEqual, 5, 1e-3)
	test.That(t, d.Value(), test.ShouldEqual, 9)
}

func TestDownsampleFile(t *testing.T) {
	logger := logging.NewTestLogger(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "001_obj.obj")
	var obj strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&obj, "v %d 0 0\n", i)
	}
	test.That(t, os.WriteFile(in, []byte(obj.String()), 0o600), test.ShouldBeNil)

	out := filepath.Join(dir, "1_obj.ply")
	n, err := DownsampleFile(in, out, 5, logger, WithStartIndex(0))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, n, test.ShouldEqual, 5)

	got, err := NewFromFile(out, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got.Size(), test.ShouldEqual, 5)
	test.That(t, got.MetaData().HasColor, test.ShouldBeFalse)
	p, _ := got.At(1)
	test.That(t, p.X, test.ShouldAlmostEqual, 19)

	// fewer vertices than requested keeps everything
	n, err = DownsampleFile(in, out, 8000, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, n, test.ShouldEqual, 20)

	_, err = DownsampleFile(in, out, 0, logger)
	test.That(t, err, test.ShouldNotBeNil)
}
