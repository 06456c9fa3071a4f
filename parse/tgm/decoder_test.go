package tgm

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dzjyyds666/tgmq/parse"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/smartystreets/goconvey/convey"
)

func mustParse(src string) *TireModel {
	m, err := ParseReader(strings.NewReader(src), Options{})
	convey.So(err, convey.ShouldBeNil)
	convey.So(m, convey.ShouldNotBeNil)
	return m
}

func TestNodeWithPlies(t *testing.T) {
	convey.Convey("a node with one ply and two ply materials", t, func() {
		m := mustParse(`
[Node]
Geometry=(0.175,-0.182,0.006)
TreadDepth=0.003
PlyParams=(80,0.0004,3)
PlyMaterial=(273.15,1305,2100000000,0.3,-1,1695,0.25)
PlyMaterial=(373.15,1305,2000000000,0.3,-1,1695,0.25)
`)
		convey.So(m.NumNodes(), convey.ShouldEqual, 1)
		n, ok := m.Node(0)
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(n.Geometry.X, convey.ShouldAlmostEqual, 0.175, 1e-6)
		convey.So(n.Geometry.Y, convey.ShouldAlmostEqual, -0.182, 1e-6)
		convey.So(n.Geometry.Z, convey.ShouldAlmostEqual, 0.006, 1e-6)
		convey.So(n.TreadDepth, convey.ShouldEqual, 0.003)
		convey.So(len(n.Plies), convey.ShouldEqual, 1)
		convey.So(n.Plies[0].Params, convey.ShouldResemble, PlyParam{Angle: 80, Thickness: 0.0004, Connect: 3})
		convey.So(len(n.Plies[0].Materials), convey.ShouldEqual, 2)
		convey.So(n.Plies[0].Materials[1].YoungsModulus, convey.ShouldEqual, int64(2000000000))
	})

	convey.Convey("ply materials bind to the most recent ply", t, func() {
		m := mustParse(`
[Node]
PlyParams=(80,0.0004,3)
PlyMaterial=(273.15,1305,2100000000,0.3,-1,1695,0.25)
PlyParams=(-80,0.0004,3)
PlyMaterial=(273.15,1305,2100000000,0.3,-1,1695,0.25)
PlyMaterial=(373.15,1305,2000000000,0.3,-1,1695,0.25)
`)
		n, _ := m.Node(0)
		convey.So(len(n.Plies), convey.ShouldEqual, 2)
		convey.So(len(n.Plies[0].Materials), convey.ShouldEqual, 1)
		convey.So(len(n.Plies[1].Materials), convey.ShouldEqual, 2)
		convey.So(n.Plies[1].Params.Angle, convey.ShouldEqual, -80)
	})
}

func TestOrphanedPlyMaterial(t *testing.T) {
	convey.Convey("PlyMaterial before any PlyParams is dropped", t, func() {
		m := mustParse(`
[Node]
Geometry=(0,0,0)
PlyMaterial=(273.15,1305,2100000000,0.3,-1,1695,0.25)
TreadDepth=0.003
`)
		n, _ := m.Node(0)
		convey.So(len(n.Plies), convey.ShouldEqual, 0)
		convey.So(n.TreadDepth, convey.ShouldEqual, 0.003)
	})

	convey.Convey("a new node does not inherit the previous node's ply", t, func() {
		m := mustParse(`
[Node]
PlyParams=(80,0.0004,3)
[Realtime]
BristleLength=0.2
[Node]
PlyMaterial=(273.15,1305,2100000000,0.3,-1,1695,0.25)
`)
		convey.So(m.NumNodes(), convey.ShouldEqual, 2)
		first, _ := m.Node(0)
		second, _ := m.Node(1)
		convey.So(len(first.Plies), convey.ShouldEqual, 1)
		convey.So(len(first.Plies[0].Materials), convey.ShouldEqual, 0)
		convey.So(len(second.Plies), convey.ShouldEqual, 0)
	})

	convey.Convey("orphaned entries are not decoded, even when invalid", t, func() {
		m := mustParse("[Node]\nPlyMaterial=(bad)\n")
		convey.So(m.NumNodes(), convey.ShouldEqual, 1)
	})
}

func TestNodeGrouping(t *testing.T) {
	convey.Convey("one contiguous [Node] block is one node", t, func() {
		m := mustParse(`
[Node]
TreadDepth=0.001
BulkMaterial=(273.15,925,16000000,0.47,-1,1250,3.7)
BulkMaterial=(373.15,903,12000000,0.47,-1,1290,3.52)
TreadDepth=0.002
`)
		convey.So(m.NumNodes(), convey.ShouldEqual, 1)
		n, _ := m.Node(0)
		convey.So(len(n.BulkMaterials), convey.ShouldEqual, 2)
		convey.So(n.BulkMaterials[0].Temperature, convey.ShouldEqual, 273.15)
		convey.So(n.BulkMaterials[1].Temperature, convey.ShouldEqual, 373.15)
		convey.So(n.TreadDepth, convey.ShouldEqual, 0.002)
	})

	convey.Convey("a node run interrupted by another section yields two nodes", t, func() {
		m := mustParse(`
[Node]
TreadDepth=0.001
[QuasiStaticAnalysis]
NumLayers=2
[Node]
TreadDepth=0.002
`)
		convey.So(m.NumNodes(), convey.ShouldEqual, 2)
		nodes := m.Nodes()
		convey.So(nodes[0].TreadDepth, convey.ShouldEqual, 0.001)
		convey.So(nodes[1].TreadDepth, convey.ShouldEqual, 0.002)
	})

	convey.Convey("an unknown section also ends the node", t, func() {
		m := mustParse(`
[Node]
TreadDepth=0.001
[Extras]
Whatever=1
[Node]
TreadDepth=0.002
`)
		convey.So(m.NumNodes(), convey.ShouldEqual, 2)
	})

	convey.Convey("each [Node] header starts its own node", t, func() {
		m := mustParse(`
[Node]
TreadDepth=0.001
[Node]
TreadDepth=0.002
[Node]
TreadDepth=0.003
`)
		convey.So(m.NumNodes(), convey.ShouldEqual, 3)
	})

	convey.Convey("a header without records does not create a node", t, func() {
		m := mustParse(`
[Node]
[Node]
TreadDepth=0.002
`)
		convey.So(m.NumNodes(), convey.ShouldEqual, 1)
		_, ok := m.Node(1)
		convey.So(ok, convey.ShouldBeFalse)
	})
}

func TestListsAndScalars(t *testing.T) {
	convey.Convey("repeated list keys accumulate in file order", t, func() {
		m := mustParse(`
[QuasiStaticAnalysis]
GaugePressure=0
GaugePressure=150000
GaugePressure=300000
RotationSquared=80000
RotationSquared=0
`)
		a := m.Analysis()
		convey.So(a.GaugePressures, convey.ShouldResemble, []int{0, 150000, 300000})
		convey.So(a.RotationSquareds, convey.ShouldResemble, []int{80000, 0})
	})

	convey.Convey("repeated values are not deduplicated", t, func() {
		m := mustParse("[LookupData]\nBin=aa\nBin=aa\nBin=bb\n")
		convey.So(m.Lookup().Bins, convey.ShouldResemble, []string{"aa", "aa", "bb"})
	})

	convey.Convey("the last scalar write wins", t, func() {
		m := mustParse(`
[Realtime]
StaticBaseCoefficient=2.0
SizeMultiplier=(1.0,1.0)
StaticBaseCoefficient=2.350
SizeMultiplier=(0.64,0.897)
`)
		r := m.Runtime()
		convey.So(r.StaticBaseCoefficient, convey.ShouldEqual, 2.350)
		convey.So(r.SizeMultiplier, convey.ShouldResemble, []float64{0.64, 0.897})
	})

	convey.Convey("singleton sections merge across repeated headers", t, func() {
		m := mustParse(`
[LookupData]
Version=1.100
[Realtime]
BristleLength=0.2
[LookupData]
Checksum=7
`)
		l := m.Lookup()
		convey.So(l.Version, convey.ShouldEqual, "1.100")
		convey.So(l.Checksum, convey.ShouldEqual, 7)
	})
}

func TestKeyedPairs(t *testing.T) {
	convey.Convey("keyed pairs accumulate into a map", t, func() {
		m := mustParse(`
[Realtime]
InternalGasSpecificHeatAtConstantVolume=(250,716)
InternalGasSpecificHeatAtConstantVolume=(300,718)
`)
		convey.So(m.Runtime().InternalGasSpecificHeatAtConstantVolume, convey.ShouldResemble, map[int]int{250: 716, 300: 718})
	})

	convey.Convey("a repeated key overwrites its entry", t, func() {
		m := mustParse(`
[Realtime]
InternalGasSpecificHeatAtConstantVolume=(250,716)
InternalGasSpecificHeatAtConstantVolume=(250,720)
`)
		convey.So(m.Runtime().InternalGasSpecificHeatAtConstantVolume, convey.ShouldResemble, map[int]int{250: 720})
	})
}

func TestMalformedAndUnknownInput(t *testing.T) {
	convey.Convey("garbage between valid lines does not stop the parse", t, func() {
		var skipped []int
		m, err := ParseReader(strings.NewReader(`
[QuasiStaticAnalysis]
NumLayers=2
garbage text
NumSections=90
`), Options{Tokenizer: parse.Options{OnMalformed: func(line int, _ string) { skipped = append(skipped, line) }}})
		convey.So(err, convey.ShouldBeNil)
		convey.So(m.Analysis().NumLayers, convey.ShouldEqual, 2)
		convey.So(m.Analysis().NumSections, convey.ShouldEqual, 90)
		convey.So(skipped, convey.ShouldResemble, []int{4})
	})

	convey.Convey("strict mode rejects the garbage line", t, func() {
		m, err := ParseReader(strings.NewReader("[Realtime]\ngarbage text\n"), Options{Tokenizer: parse.Options{Strict: true}})
		convey.So(m, convey.ShouldBeNil)
		convey.So(errors.Is(err, parse.ErrMalformedLine), convey.ShouldBeTrue)
	})

	convey.Convey("unknown keys and sections are ignored and logged", t, func() {
		var buf bytes.Buffer
		logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
		m, err := ParseReader(strings.NewReader(`
[Realtime]
NotAKey=1
[Mystery]
BristleLength=0.5
`), Options{Logger: &logger})
		convey.So(err, convey.ShouldBeNil)
		convey.So(m.Runtime().BristleLength, convey.ShouldEqual, 0)
		convey.So(m.NumNodes(), convey.ShouldEqual, 0)
		convey.So(buf.String(), convey.ShouldContainSubstring, "ignoring unrecognized directive")
		convey.So(buf.String(), convey.ShouldContainSubstring, `"key":"NotAKey"`)
	})

	convey.Convey("skipped lines are logged with their section", t, func() {
		var buf bytes.Buffer
		logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
		_, err := ParseReader(strings.NewReader("[Realtime]\ngarbage text\n"), Options{Logger: &logger})
		convey.So(err, convey.ShouldBeNil)
		convey.So(buf.String(), convey.ShouldContainSubstring, "skipping malformed line")
		convey.So(buf.String(), convey.ShouldContainSubstring, `"section":"Realtime"`)
		convey.So(buf.String(), convey.ShouldContainSubstring, `"line":2`)
	})
}

func TestFatalErrors(t *testing.T) {
	convey.Convey("a bad number stops the parse and reports its line", t, func() {
		m, err := ParseReader(strings.NewReader(`
[QuasiStaticAnalysis]
NumLayers=2
GaugePressure=lots
`), Options{})
		convey.So(m, convey.ShouldBeNil)
		convey.So(errors.Is(err, ErrNumericConversion), convey.ShouldBeTrue)

		var pe *ParseError
		convey.So(errors.As(err, &pe), convey.ShouldBeTrue)
		convey.So(pe.Line, convey.ShouldEqual, 4)
		convey.So(pe.Key, convey.ShouldEqual, "GaugePressure")
		convey.So(pe.Value, convey.ShouldEqual, "lots")
		convey.So(err.Error(), convey.ShouldStartWith, "tgm:4: [QuasiStaticAnalysis] GaugePressure=lots")
	})

	convey.Convey("a material with six fields is an arity error", t, func() {
		_, err := ParseReader(strings.NewReader("[Node]\nBulkMaterial=(273.15,925,16000000,0.47,-1,1250)\n"), Options{})
		convey.So(errors.Is(err, ErrArityMismatch), convey.ShouldBeTrue)

		var ae *ArityError
		convey.So(errors.As(err, &ae), convey.ShouldBeTrue)
		convey.So(ae.Want, convey.ShouldEqual, 7)
		convey.So(ae.Got, convey.ShouldEqual, 6)
	})

	convey.Convey("a keyed pair with three values is an arity error", t, func() {
		_, err := ParseReader(strings.NewReader("[Realtime]\nInternalGasSpecificHeatAtConstantVolume=(250,716,1)\n"), Options{})
		convey.So(errors.Is(err, ErrArityMismatch), convey.ShouldBeTrue)
	})

	convey.Convey("an int32 overflow is a numeric error", t, func() {
		_, err := ParseReader(strings.NewReader("[LookupData]\nChecksum=4294967296\n"), Options{})
		convey.So(errors.Is(err, ErrNumericConversion), convey.ShouldBeTrue)
	})
}

func TestSampleFile(t *testing.T) {
	convey.Convey("the sample file decodes completely", t, func() {
		m, err := ParseFile(filepath.Join("testdata", "sample.tgm"), Options{})
		convey.So(err, convey.ShouldBeNil)

		a := m.Analysis()
		convey.So(a.NumLayers, convey.ShouldEqual, 2)
		convey.So(a.GaugePressures, convey.ShouldResemble, []int{0, 150000, 300000})
		convey.So(a.CarcassTemperatures, convey.ShouldResemble, []float64{273.15, 373.15})
		convey.So(a.TotalInertiaStandard, convey.ShouldResemble, Vector3d{X: 0.9865952331376638, Y: 0.629654560048139, Z: 0.6296545600481429})
		convey.So(a.LoadDeflection, convey.ShouldEqual, 5)

		convey.So(m.NumNodes(), convey.ShouldEqual, 3)
		first, _ := m.Node(0)
		convey.So(first.Geometry.X, convey.ShouldAlmostEqual, 0.175, 1e-4)
		convey.So(len(first.TreadMaterials), convey.ShouldEqual, 2)
		convey.So(first.TreadMaterials[0], convey.ShouldResemble, Material{
			Temperature: 273.15, Density: 925, YoungsModulus: 9500000, PoissonsRatio: 0.47,
			DampingFactor: -1, SpecificHeat: 2000, ThermalConductivity: 0.172,
		})
		convey.So(first.AnisoCarcassConductivityMult, convey.ShouldResemble, Vector3{X: 1.5, Y: 1, Z: 1.1})
		convey.So(first.RingAndRim, convey.ShouldResemble, [2]float64{0, 1000000000})
		convey.So(len(first.Plies), convey.ShouldEqual, 2)
		convey.So(len(first.Plies[0].Materials), convey.ShouldEqual, 2)

		second, _ := m.Node(1)
		convey.So(second.Plies[0].Materials[0].YoungsModulus, convey.ShouldEqual, int64(3800000000))
		third, _ := m.Node(2)
		convey.So(len(third.Plies), convey.ShouldEqual, 0)

		r := m.Runtime()
		convey.So(r.StaticBaseCoefficient, convey.ShouldEqual, 2.350)
		convey.So(r.MarbleEffectOnEffectiveLoad, convey.ShouldEqual, -0.125)
		convey.So(r.SlidingMicroDeformationCurve, convey.ShouldResemble, []float64{-5.20, 0.30, -1.20, 1.80, 1.80, 0.30})
		convey.So(r.SlidingMacroDeformationCurve, convey.ShouldResemble, []float64{-1.20, 0.20, 1.80, 2.00, 4.80, 0.40})
		convey.So(r.GroundContactConductance, convey.ShouldResemble, []float64{1300.0, 0.010})
		convey.So(r.InternalGasSpecificHeatAtConstantVolume, convey.ShouldResemble, map[int]int{250: 716, 300: 718, 350: 721})
		convey.So(r.TemporaryAbrasion, convey.ShouldEqual, 1e-10)

		l := m.Lookup()
		convey.So(l.Version, convey.ShouldEqual, "1.101")
		convey.So(l.Checksum, convey.ShouldEqual, -645463472)
		convey.So(len(l.Bins), convey.ShouldEqual, 2)
		convey.So(l.Bins[0], convey.ShouldStartWith, "be645b883fef93d5")
	})

	convey.Convey("a missing file is reported", t, func() {
		_, err := ParseFile(filepath.Join("testdata", "missing.tgm"), Options{})
		convey.So(errors.Is(err, os.ErrNotExist), convey.ShouldBeTrue)
	})

	convey.Convey("errors from a file name the file", t, func() {
		path := filepath.Join(t.TempDir(), "broken.tgm")
		convey.So(os.WriteFile(path, []byte("[Node]\nTreadDepth=deep\n"), 0o644), convey.ShouldBeNil)
		_, err := ParseFile(path, Options{})
		convey.So(err, convey.ShouldNotBeNil)
		convey.So(err.Error(), convey.ShouldContainSubstring, "broken.tgm: tgm:2:")
	})
}

func TestAccessorsReturnCopies(t *testing.T) {
	convey.Convey("mutating an accessor result leaves the model intact", t, func() {
		m := mustParse(`
[QuasiStaticAnalysis]
GaugePressure=1
[Node]
PlyParams=(80,0.0004,3)
PlyMaterial=(273.15,1305,2100000000,0.3,-1,1695,0.25)
[Realtime]
InternalGasSpecificHeatAtConstantVolume=(250,716)
`)
		before := m.Nodes()

		a := m.Analysis()
		a.GaugePressures[0] = 99
		nodes := m.Nodes()
		nodes[0].Plies[0].Materials[0].Density = 0
		r := m.Runtime()
		r.InternalGasSpecificHeatAtConstantVolume[250] = 0

		convey.So(m.Analysis().GaugePressures, convey.ShouldResemble, []int{1})
		convey.So(cmp.Diff(before, m.Nodes()), convey.ShouldBeEmpty)
		convey.So(m.Runtime().InternalGasSpecificHeatAtConstantVolume[250], convey.ShouldEqual, 716)
	})
}
