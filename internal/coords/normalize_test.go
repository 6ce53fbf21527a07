package coords_test

import (
	"encoding/json"
	"errors"
	"iter"
	"slices"

	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/woozymasta/simplemap/internal/coords"
	"github.com/woozymasta/simplemap/internal/geo"
)

type normalizeSuite struct {
	norm *coords.Normalizer
}

var _ = gc.Suite(&normalizeSuite{})

func (s *normalizeSuite) SetUpTest(c *gc.C) {
	s.norm = coords.NewNormalizer(nil)
}

type latLon struct {
	Lat float64
	Lon float64
}

type bothConventions struct {
	Lat       float64
	Lon       float64
	Latitude  float64
	Longitude float64
}

type degrees struct {
	LatitudeDeg  float64
	LongitudeDeg float64
}

type tagged struct {
	Y float64 `json:"latitude"`
	X float64 `json:"longitude"`
}

type satellite struct {
	llh [3]float64
}

func (s satellite) PositionLLH() [3]float64 { return s.llh }

type methodPoint [2]float64

func (p methodPoint) Lat() float64 { return p[1] }
func (p methodPoint) Lon() float64 { return p[0] }

type place struct{ lat, lon float64 }

func (p *place) Lat() float64 { return p.lat }
func (p *place) Lon() float64 { return p.lon }

type placeRef struct{ *place }

type badLat struct {
	Lat string
	Lon float64
}

func (s *normalizeSuite) point(c *gc.C, v any) geo.Point {
	p, err := s.norm.Point(v)
	c.Assert(err, jc.ErrorIsNil)
	return p
}

func (s *normalizeSuite) TestPointIsIdempotent(c *gc.C) {
	p := geo.Point{Lat: 10, Lon: 20}
	c.Assert(s.point(c, p), gc.Equals, p)
	c.Assert(s.point(c, &p), gc.Equals, p)
}

func (s *normalizeSuite) TestNumericPair(c *gc.C) {
	c.Assert(s.point(c, []float64{10, 20}), gc.Equals, geo.Point{Lat: 10, Lon: 20})
	c.Assert(s.point(c, [2]int{10, 20}), gc.Equals, geo.Point{Lat: 10, Lon: 20})
	c.Assert(s.point(c, []any{int32(10), 20.5}), gc.Equals, geo.Point{Lat: 10, Lon: 20.5})
	c.Assert(s.point(c, []any{json.Number("10"), json.Number("20")}), gc.Equals, geo.Point{Lat: 10, Lon: 20})
}

func (s *normalizeSuite) TestUnwrapSingleItem(c *gc.C) {
	direct := s.point(c, []any{10, 20})
	wrapped := s.point(c, []any{[]any{10, 20}})
	c.Assert(wrapped, gc.Equals, direct)
	c.Assert(wrapped, gc.Equals, geo.Point{Lat: 10, Lon: 20})
	c.Assert(s.point(c, [][][]float64{{{10, 20}}}), gc.Equals, direct)
}

func (s *normalizeSuite) TestTripleDropsAltitude(c *gc.C) {
	c.Assert(s.point(c, []float64{10, 20, 999}), gc.Equals, geo.Point{Lat: 10, Lon: 20})
}

func (s *normalizeSuite) TestInverted(c *gc.C) {
	node, err := s.norm.NormalizeInverted([]float64{20, 10})
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(node.IsPoint(), jc.IsTrue)
	c.Assert(node.Point(), gc.Equals, geo.Point{Lat: 10, Lon: 20})
}

func (s *normalizeSuite) TestInvertedPropagatesToItems(c *gc.C) {
	node, err := s.norm.NormalizeInverted([][]float64{{1, 2}, {3, 4}})
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(coords.ExtractPoints(node), gc.DeepEquals, []geo.Point{{Lat: 2, Lon: 1}, {Lat: 4, Lon: 3}})
}

func (s *normalizeSuite) TestBooleansAreNotNumbers(c *gc.C) {
	_, err := s.norm.Normalize([]bool{true, false})
	c.Assert(errors.Is(err, coords.ErrInvalidCoordinateSource), jc.IsTrue)

	_, err = s.norm.Normalize([]any{true, 1.0})
	c.Assert(errors.Is(err, coords.ErrInvalidCoordinateSource), jc.IsTrue)
}

func (s *normalizeSuite) TestAttributeConventions(c *gc.C) {
	c.Assert(s.point(c, latLon{Lat: 1, Lon: 2}), gc.Equals, geo.Point{Lat: 1, Lon: 2})
	c.Assert(s.point(c, &latLon{Lat: 1, Lon: 2}), gc.Equals, geo.Point{Lat: 1, Lon: 2})
	c.Assert(s.point(c, degrees{LatitudeDeg: 3, LongitudeDeg: 4}), gc.Equals, geo.Point{Lat: 3, Lon: 4})
	c.Assert(s.point(c, tagged{Y: 5, X: 6}), gc.Equals, geo.Point{Lat: 5, Lon: 6})
	c.Assert(s.point(c, map[string]any{"latitude": 7, "longitude": 8}), gc.Equals, geo.Point{Lat: 7, Lon: 8})
	c.Assert(s.point(c, map[string]float64{"lat": 9, "lon": 10}), gc.Equals, geo.Point{Lat: 9, Lon: 10})
	c.Assert(s.point(c, methodPoint{20, 10}), gc.Equals, geo.Point{Lat: 10, Lon: 20})
}

func (s *normalizeSuite) TestGeodeticTriple(c *gc.C) {
	c.Assert(s.point(c, satellite{llh: [3]float64{-34.6, -58.4, 500}}), gc.Equals, geo.Point{Lat: -34.6, Lon: -58.4})
	c.Assert(s.point(c, map[string]any{"position_llh": []any{1, 2, 3}}), gc.Equals, geo.Point{Lat: 1, Lon: 2})
}

func (s *normalizeSuite) TestAttributePriority(c *gc.C) {
	v := bothConventions{Lat: 1, Lon: 2, Latitude: 50, Longitude: 60}
	c.Assert(s.point(c, v), gc.Equals, geo.Point{Lat: 1, Lon: 2})
}

func (s *normalizeSuite) TestNonNumericAttribute(c *gc.C) {
	_, err := s.norm.Normalize(badLat{Lat: "north", Lon: 1})
	c.Assert(errors.Is(err, coords.ErrInvalidCoordinateSource), jc.IsTrue)
	c.Assert(err, gc.ErrorMatches, `.*lat is not a number.*`)
}

func (s *normalizeSuite) TestNestedSequences(c *gc.C) {
	node, err := s.norm.Normalize([]any{
		[]float64{1, 2},
		latLon{Lat: 3, Lon: 4},
		[][]float64{{5, 6}, {7, 8}},
	})
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(node.IsPoint(), jc.IsFalse)
	c.Assert(node.Items(), gc.HasLen, 3)
	c.Assert(node.Items()[0].Point(), gc.Equals, geo.Point{Lat: 1, Lon: 2})
	c.Assert(node.Items()[1].Point(), gc.Equals, geo.Point{Lat: 3, Lon: 4})
	c.Assert(node.Items()[2].Items(), gc.HasLen, 2)
}

func (s *normalizeSuite) TestTwoPointsAreNotAPair(c *gc.C) {
	points, err := s.norm.Points([]geo.Point{{Lat: 1, Lon: 2}, {Lat: 3, Lon: 4}})
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(points, gc.DeepEquals, []geo.Point{{Lat: 1, Lon: 2}, {Lat: 3, Lon: 4}})
}

func (s *normalizeSuite) TestEmptySequence(c *gc.C) {
	node, err := s.norm.Normalize([]any{})
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(node.IsPoint(), jc.IsFalse)
	c.Assert(node.Items(), gc.HasLen, 0)
}

func (s *normalizeSuite) TestLazySequences(c *gc.C) {
	var seq iter.Seq[[]float64] = slices.Values([][]float64{{1, 2}, {3, 4}})
	points, err := s.norm.Points(seq)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(points, gc.DeepEquals, []geo.Point{{Lat: 1, Lon: 2}, {Lat: 3, Lon: 4}})

	ch := make(chan any, 2)
	ch <- 10
	ch <- 20
	close(ch)
	c.Assert(s.point(c, ch), gc.Equals, geo.Point{Lat: 10, Lon: 20})
}

func (s *normalizeSuite) TestInvalidSources(c *gc.C) {
	for _, v := range []any{nil, "10,20", 42, struct{ X int }{1}, map[string]any{"type": "Point"}, placeRef{}, &placeRef{}} {
		_, err := s.norm.Normalize(v)
		c.Check(errors.Is(err, coords.ErrInvalidCoordinateSource), jc.IsTrue, gc.Commentf("%#v", v))
	}
}

func (s *normalizeSuite) TestPromotedMethods(c *gc.C) {
	c.Assert(s.point(c, placeRef{&place{lat: 43.26, lon: -2.93}}), gc.Equals, geo.Point{Lat: 43.26, Lon: -2.93})
}

func (s *normalizeSuite) TestSelfContainingSequence(c *gc.C) {
	loop := []any{nil, []float64{1, 2}}
	loop[0] = loop

	_, err := s.norm.Normalize(loop)
	c.Assert(errors.Is(err, coords.ErrInvalidCoordinateSource), jc.IsTrue)
	c.Assert(err, gc.ErrorMatches, `can't guess the latitude and longitude \(sequences nested deeper than 256 levels\)`)
}

func (s *normalizeSuite) TestDeepButFiniteNesting(c *gc.C) {
	var v any = []float64{43.26, -2.93}
	for range 100 {
		v = []any{v}
	}
	c.Assert(s.point(c, v), gc.Equals, geo.Point{Lat: 43.26, Lon: -2.93})
}

func (s *normalizeSuite) TestInvalidSourceMessage(c *gc.C) {
	_, err := s.norm.Normalize([]string{"a", "b"})
	c.Assert(err, gc.ErrorMatches, `can't guess the latitude and longitude from this value: "a"`)

	var invalid *coords.InvalidSourceError
	c.Assert(errors.As(err, &invalid), jc.IsTrue)
	c.Assert(invalid.Value, gc.Equals, "a")
}

func (s *normalizeSuite) TestPointRejectsSequences(c *gc.C) {
	_, err := s.norm.Point([][]float64{{1, 2}, {3, 4}})
	c.Assert(err, gc.ErrorMatches, `.*expected a single point.*`)
}
