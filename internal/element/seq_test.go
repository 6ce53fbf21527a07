package element_test

import (
	"errors"

	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/woozymasta/simplemap/internal/coords"
	"github.com/woozymasta/simplemap/internal/element"
	"github.com/woozymasta/simplemap/internal/geo"
)

type pluralSuite struct {
	reg *coords.Registry
	f   *element.Factory
}

var _ = gc.Suite(&pluralSuite{})

type route struct {
	stops [][]float64
}

func (s *pluralSuite) SetUpTest(c *gc.C) {
	s.reg = coords.NewRegistry()
	s.f = element.NewFactory(coords.NewNormalizer(s.reg))
}

func (s *pluralSuite) TestPluralizeYieldsPerSource(c *gc.C) {
	labels := s.f.Pluralize(s.f.Label("stop"))

	var got [][]element.Element
	for item, err := range labels([][]float64{{1, 2}, {3, 4}}) {
		c.Assert(err, jc.ErrorIsNil)
		got = append(got, item.([]element.Element))
	}
	c.Assert(got, gc.HasLen, 2)
	c.Assert(got[1][0].(element.Label).Coords, gc.Equals, geo.Point{Lat: 3, Lon: 4})
}

func (s *pluralSuite) TestPluralizeIsLazy(c *gc.C) {
	calls := 0
	counting := element.BuilderFunc(func(sources ...any) ([]element.Element, error) {
		calls++
		return s.f.Marker().Build(sources...)
	})

	seq := s.f.Pluralize(counting)([][]float64{{1, 2}, {3, 4}, {5, 6}})
	c.Assert(calls, gc.Equals, 0)

	for range seq {
		break
	}
	c.Assert(calls, gc.Equals, 1)
}

func (s *pluralSuite) TestPluralizeConvertsRegisteredSources(c *gc.C) {
	coords.Register(s.reg, func(r route) (any, error) { return r.stops, nil })

	elements, err := element.Collect(s.f.Pluralize(s.f.Dot())(route{stops: [][]float64{{1, 2}, {3, 4}}}))
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(elements, gc.HasLen, 2)
	c.Assert(elements[0].(element.Dot).Coords, gc.Equals, geo.Point{Lat: 1, Lon: 2})
}

func (s *pluralSuite) TestPluralizeErrors(c *gc.C) {
	_, err := element.Collect(s.f.Pluralize(s.f.Marker())([]any{[]float64{1, 2}, "bad"}))
	c.Assert(errors.Is(err, coords.ErrInvalidCoordinateSource), jc.IsTrue)

	_, err = element.Collect(s.f.Pluralize(s.f.Marker())(42))
	c.Assert(err, gc.ErrorMatches, `.*expected a collection of sources.*`)
}

func (s *pluralSuite) TestCollectFlattensInOrder(c *gc.C) {
	a := element.Marker{Coords: geo.Point{Lat: 1}}
	b := element.Marker{Coords: geo.Point{Lat: 2}}
	d := element.Marker{Coords: geo.Point{Lat: 3}}

	var seq element.Seq = func(yield func(any, error) bool) {
		yield([]element.Element{b}, nil)
	}
	elements, err := element.Collect(a, []any{seq, "ignored"}, d)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(elements, jc.DeepEquals, []element.Element{a, b, d})
}

func (s *pluralSuite) TestCollectTypedCollections(c *gc.C) {
	a := element.Marker{Coords: geo.Point{Lat: 1}}
	b := element.Marker{Coords: geo.Point{Lat: 2}}
	line := element.Line{Path: geo.Path{{}, {Lat: 1}}}
	areas := make(chan element.Area, 1)
	areas <- element.Area{Path: geo.Path{{}, {Lat: 1}, {Lon: 1}}}
	close(areas)

	elements, err := element.Collect([]element.Marker{a, b}, [1]element.Line{line}, areas)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(elements, gc.HasLen, 4)
	c.Assert(elements[:3], jc.DeepEquals, []element.Element{a, b, line})
	c.Assert(elements[3].Kind(), gc.Equals, element.KindArea)
}

func (s *pluralSuite) TestCollectSelfContaining(c *gc.C) {
	loop := []any{nil}
	loop[0] = loop

	_, err := element.Collect(loop)
	c.Assert(err, gc.ErrorMatches, `things nested deeper than 256 levels`)
}
