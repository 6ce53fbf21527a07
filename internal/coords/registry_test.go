package coords_test

import (
	"errors"
	"reflect"

	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/woozymasta/simplemap/internal/coords"
	"github.com/woozymasta/simplemap/internal/geo"
)

type registrySuite struct {
	reg  *coords.Registry
	norm *coords.Normalizer
}

var _ = gc.Suite(&registrySuite{})

type station struct {
	code string
}

type stop struct {
	station station
}

type looping struct{}

var stationCoords = map[string][2]float64{
	"ABA": {43.26, -2.93},
	"MOY": {43.263, -2.935},
}

func (s *registrySuite) SetUpTest(c *gc.C) {
	s.reg = coords.NewRegistry()
	s.norm = coords.NewNormalizer(s.reg)
}

func (s *registrySuite) TestRegisterAndLookup(c *gc.C) {
	c.Assert(s.reg.Len(), gc.Equals, 0)
	coords.Register(s.reg, func(st station) (any, error) {
		return stationCoords[st.code], nil
	})
	c.Assert(s.reg.Len(), gc.Equals, 1)

	_, ok := s.reg.Lookup(station{})
	c.Assert(ok, jc.IsTrue)
	_, ok = s.reg.Lookup(&station{})
	c.Assert(ok, jc.IsFalse)
	_, ok = s.reg.Lookup(nil)
	c.Assert(ok, jc.IsFalse)
}

func (s *registrySuite) TestChaining(c *gc.C) {
	coords.Register(s.reg, func(st station) (any, error) {
		return stationCoords[st.code], nil
	})
	coords.Register(s.reg, func(sp stop) (any, error) {
		return sp.station, nil
	})

	p, err := s.norm.Point(stop{station: station{code: "ABA"}})
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(p, gc.Equals, geo.Point{Lat: 43.26, Lon: -2.93})

	points, err := s.norm.Points([]stop{{station{"ABA"}}, {station{"MOY"}}})
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(points, gc.HasLen, 2)
	c.Assert(points[1], gc.Equals, geo.Point{Lat: 43.263, Lon: -2.935})
}

func (s *registrySuite) TestRegistryRunsBeforeOtherRules(c *gc.C) {
	// a Point conversion wins over the idempotence rule
	s.reg.Register(reflect.TypeFor[geo.Point](), func(v any) (any, error) {
		p := v.(geo.Point)
		return []float64{p.Lon, p.Lat}, nil
	})
	p, err := s.norm.Point(geo.Point{Lat: 1, Lon: 2})
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(p, gc.Equals, geo.Point{Lat: 2, Lon: 1})
}

func (s *registrySuite) TestOverwrite(c *gc.C) {
	coords.Register(s.reg, func(station) (any, error) { return []int{1, 1}, nil })
	coords.Register(s.reg, func(station) (any, error) { return []int{2, 2}, nil })
	c.Assert(s.reg.Len(), gc.Equals, 1)

	p, err := s.norm.Point(station{})
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(p, gc.Equals, geo.Point{Lat: 2, Lon: 2})
}

func (s *registrySuite) TestConverterError(c *gc.C) {
	coords.Register(s.reg, func(station) (any, error) { return nil, errors.New("unknown station") })
	_, err := s.norm.Normalize(station{code: "XXX"})
	c.Assert(err, gc.ErrorMatches, `convert coords_test.station: unknown station`)
}

func (s *registrySuite) TestConversionLoop(c *gc.C) {
	coords.Register(s.reg, func(l looping) (any, error) { return l, nil })
	_, err := s.norm.Normalize(looping{})
	c.Assert(errors.Is(err, coords.ErrInvalidCoordinateSource), jc.IsTrue)
	c.Assert(err, gc.ErrorMatches, `.*conversion chain too long.*`)
}

func (s *registrySuite) TestConvertSingleStep(c *gc.C) {
	coords.Register(s.reg, func(sp stop) (any, error) { return sp.station, nil })

	out, ok, err := s.norm.Convert(stop{station: station{code: "MOY"}})
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(ok, jc.IsTrue)
	c.Assert(out, gc.Equals, station{code: "MOY"})

	out, ok, err = s.norm.Convert(42)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(ok, jc.IsFalse)
	c.Assert(out, gc.Equals, 42)
}
