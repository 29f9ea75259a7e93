package scene

import (
	"image/color"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/superquadric/logging"
	"go.viam.com/superquadric/superquadric"
)

var unitAxes = []r3.Vector{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

func entryAt(id string, offset float64) Entry {
	params := superquadric.NewPoseParams(id)
	params.Translation = r3.Vector{X: offset}
	return Entry{Params: params}
}

func TestComposeColorsAndOrder(t *testing.T) {
	logger := logging.NewTestLogger(t)
	lib := superquadric.MapLibrary{
		"tri":   unitAxes,
		"point": {{0, 0, 0}},
	}

	var entries []Entry
	for i := 0; i < 8; i++ {
		id := "tri"
		if i%2 == 1 {
			id = "point"
		}
		entries = append(entries, entryAt(id, float64(10*i)))
	}

	res, err := Compose(lib, entries, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Empty(), test.ShouldBeFalse)
	test.That(t, res.Partial(), test.ShouldBeFalse)
	test.That(t, res.Diagnostics.Composed, test.ShouldEqual, 8)
	test.That(t, res.Cloud.Size(), test.ShouldEqual, 4*3+4*1)
	test.That(t, res.Cloud.MetaData().HasColor, test.ShouldBeTrue)

	idx := 0
	for i, e := range entries {
		verts, err := lib.Vertices(e.Params.PrimitiveID)
		test.That(t, err, test.ShouldBeNil)
		for _, v := range verts {
			p, d := res.Cloud.At(idx)
			test.That(t, p, test.ShouldResemble, v.Add(r3.Vector{X: float64(10 * i)}))
			test.That(t, d.Value(), test.ShouldEqual, i)
			test.That(t, d.Color(), test.ShouldResemble, &color.NRGBA{
				R: PaletteColor(i).R, G: PaletteColor(i).G, B: PaletteColor(i).B, A: 255,
			})
			idx++
		}
	}
}

func TestPaletteCycles(t *testing.T) {
	expected := []color.NRGBA{
		{255, 0, 0, 255},
		{0, 255, 0, 255},
		{0, 0, 255, 255},
		{255, 255, 0, 255},
		{255, 0, 255, 255},
		{0, 255, 255, 255},
	}
	for i := 0; i < 13; i++ {
		test.That(t, PaletteColor(i), test.ShouldResemble, expected[i%6])
	}
}

func TestComposeSkipsMissing(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	lib := superquadric.MapLibrary{"a": unitAxes, "b": {{1, 1, 1}}}

	entries := []Entry{entryAt("a", 0), entryAt("missing", 0), entryAt("b", 0)}
	res, err := Compose(lib, entries, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Cloud.Size(), test.ShouldEqual, 4)
	test.That(t, res.Partial(), test.ShouldBeTrue)
	test.That(t, res.Diagnostics.Composed, test.ShouldEqual, 2)
	test.That(t, res.Diagnostics.Skipped, test.ShouldHaveLength, 1)

	skipped := res.Diagnostics.Skipped[0]
	test.That(t, skipped.Index, test.ShouldEqual, 1)
	test.That(t, skipped.PrimitiveID, test.ShouldEqual, "missing")
	test.That(t, errors.Is(skipped.Err, superquadric.ErrPrimitiveNotFound), test.ShouldBeTrue)

	// b keeps its own index and color
	p, d := res.Cloud.At(3)
	test.That(t, p, test.ShouldResemble, r3.Vector{1, 1, 1})
	test.That(t, d.Value(), test.ShouldEqual, 2)
	r, g, b := d.RGB255()
	test.That(t, []uint8{r, g, b}, test.ShouldResemble, []uint8{0, 0, 255})

	warnings := logs.FilterMessageSnippet("missing primitive")
	test.That(t, warnings.Len(), test.ShouldEqual, 1)
	fields := warnings.All()[0].ContextMap()
	test.That(t, fields["primitive"], test.ShouldEqual, "missing")
}

func TestComposeEmpty(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)

	res, err := Compose(superquadric.MapLibrary{}, nil, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Empty(), test.ShouldBeTrue)
	test.That(t, res.Cloud.Size(), test.ShouldEqual, 0)

	res, err = Compose(superquadric.MapLibrary{}, []Entry{entryAt("x", 0), entryAt("y", 0)}, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Empty(), test.ShouldBeTrue)
	test.That(t, res.Diagnostics.Skipped, test.ShouldHaveLength, 2)
	test.That(t, logs.FilterMessageSnippet("composition is empty").Len(), test.ShouldEqual, 2)
}

type failingLibrary struct{}

func (failingLibrary) Vertices(id string) ([]r3.Vector, error) {
	return nil, errors.New("disk on fire")
}

func TestComposeLibraryFailure(t *testing.T) {
	logger := logging.NewTestLogger(t)
	_, err := Compose(failingLibrary{}, []Entry{entryAt("a", 0)}, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "disk on fire")
}

type countingLibrary struct {
	superquadric.MapLibrary
	calls int
}

func (lib *countingLibrary) Vertices(id string) ([]r3.Vector, error) {
	lib.calls++
	return lib.MapLibrary.Vertices(id)
}

func TestComposeValidatesFirst(t *testing.T) {
	logger := logging.NewTestLogger(t)
	lib := &countingLibrary{MapLibrary: superquadric.MapLibrary{"a": unitAxes}}

	bad := entryAt("a", 0)
	bad.Params.UniformScale = 0
	_, err := Compose(lib, []Entry{entryAt("a", 0), bad}, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "entry 1 (a)")

	var ipe *superquadric.InvalidParameterError
	test.That(t, errors.As(err, &ipe), test.ShouldBeTrue)
	test.That(t, ipe.Field, test.ShouldEqual, "scale")
	test.That(t, lib.calls, test.ShouldEqual, 0)
}

func TestComposeRejectsEscapingPrimitive(t *testing.T) {
	logger := logging.NewTestLogger(t)
	lib := &countingLibrary{MapLibrary: superquadric.MapLibrary{"a": unitAxes}}

	_, err := Compose(lib, []Entry{entryAt("a", 0), entryAt("../a.ply", 1)}, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "entry 1 (../a.ply)")

	var ipe *superquadric.InvalidParameterError
	test.That(t, errors.As(err, &ipe), test.ShouldBeTrue)
	test.That(t, ipe.Field, test.ShouldEqual, "primitive")
	test.That(t, lib.calls, test.ShouldEqual, 0)
}
