package coords_test

import (
	"errors"

	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/woozymasta/simplemap/internal/coords"
	"github.com/woozymasta/simplemap/internal/geo"
)

type extractSuite struct{}

var _ = gc.Suite(&extractSuite{})

func pt(lat, lon float64) coords.Node {
	return coords.PointNode(geo.Point{Lat: lat, Lon: lon})
}

func (s *extractSuite) TestPointsBreadthFirst(c *gc.C) {
	tree := coords.SeqNode(pt(1, 1), coords.SeqNode(pt(2, 2), pt(3, 3)), pt(4, 4))
	c.Assert(coords.ExtractPoints(tree), gc.DeepEquals, []geo.Point{
		{Lat: 1, Lon: 1}, {Lat: 4, Lon: 4}, {Lat: 2, Lon: 2}, {Lat: 3, Lon: 3},
	})
	c.Assert(coords.ExtractPoints(pt(5, 5)), gc.DeepEquals, []geo.Point{{Lat: 5, Lon: 5}})
	c.Assert(coords.ExtractPoints(coords.SeqNode()), gc.HasLen, 0)
}

func (s *extractSuite) TestPathsSingleSequence(c *gc.C) {
	paths, err := coords.ExtractPaths(coords.SeqNode(pt(1, 1), pt(2, 2)))
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(paths, gc.DeepEquals, []geo.Path{{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}}})
}

func (s *extractSuite) TestPathsPromotePoint(c *gc.C) {
	paths, err := coords.ExtractPaths(pt(1, 1))
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(paths, gc.DeepEquals, []geo.Path{{{Lat: 1, Lon: 1}}})
}

func (s *extractSuite) TestPathsOfPaths(c *gc.C) {
	tree := coords.SeqNode(
		coords.SeqNode(pt(1, 1), pt(2, 2)),
		coords.SeqNode(coords.SeqNode(pt(3, 3), pt(4, 4))),
		coords.SeqNode(),
	)
	paths, err := coords.ExtractPaths(tree)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(paths, gc.DeepEquals, []geo.Path{
		{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}},
		{{Lat: 3, Lon: 3}, {Lat: 4, Lon: 4}},
	})
}

func (s *extractSuite) TestPathsRejectMixedSequence(c *gc.C) {
	_, err := coords.ExtractPaths(coords.SeqNode(pt(1, 1), coords.SeqNode(pt(2, 2))))
	c.Assert(errors.Is(err, coords.ErrMixedSequence), jc.IsTrue)

	var mixed *coords.MixedSequenceError
	c.Assert(errors.As(err, &mixed), jc.IsTrue)
	c.Assert(mixed.Points, gc.Equals, 1)
	c.Assert(mixed.Others, gc.Equals, 1)
}

func (s *extractSuite) TestNormalizedMixedSequence(c *gc.C) {
	norm := coords.NewNormalizer(nil)
	_, err := norm.Paths([]any{
		geo.Point{Lat: 1, Lon: 1},
		[]geo.Point{{Lat: 2, Lon: 2}, {Lat: 3, Lon: 3}},
	})
	c.Assert(errors.Is(err, coords.ErrMixedSequence), jc.IsTrue)
}
