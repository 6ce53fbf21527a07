package tiles_test

import (
	"testing"

	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/woozymasta/simplemap/internal/tiles"
)

func Test(t *testing.T) {
	gc.TestingT(t)
}

type tilesSuite struct{}

var _ = gc.Suite(&tilesSuite{})

func (s *tilesSuite) TestLookupCatalog(c *gc.C) {
	p, err := tiles.Lookup("OpenStreetMap")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(p.Name, gc.Equals, "openstreetmap")
	c.Assert(p.TileURL(tiles.Coordinate{Z: 3, X: 4, Y: 2}), gc.Equals, "https://tile.openstreetmap.org/3/4/2.png")
}

func (s *tilesSuite) TestSubdomainsAndRetina(c *gc.C) {
	p, err := tiles.Lookup("cartodbpositron")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(p.TileURL(tiles.Coordinate{Z: 1, X: 1, Y: 0}), gc.Equals,
		"https://b.basemaps.cartocdn.com/light_all/1/1/0.png")
	c.Assert(p.TileURL(tiles.Coordinate{Z: 2, X: 2, Y: 1}), gc.Equals,
		"https://d.basemaps.cartocdn.com/light_all/2/2/1.png")
}

func (s *tilesSuite) TestCustomTemplate(c *gc.C) {
	p, err := tiles.Lookup("http://localhost/{z}/{x}/{tms_y}.webp")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(p.Name, gc.Equals, "custom")
	c.Assert(p.TileURL(tiles.Coordinate{Z: 2, X: 1, Y: 0}), gc.Equals, "http://localhost/2/1/3.webp")
}

func (s *tilesSuite) TestUnknown(c *gc.C) {
	_, err := tiles.Lookup("stamen")
	c.Assert(err, gc.ErrorMatches, `unknown tiles "stamen", use one of cartodbdark_matter, cartodbpositron, openstreetmap, opentopomap or a \{z\}/\{x\}/\{y\} url template`)
}

func (s *tilesSuite) TestNames(c *gc.C) {
	c.Assert(tiles.Names(), jc.DeepEquals, []string{
		"cartodbdark_matter", "cartodbpositron", "openstreetmap", "opentopomap",
	})
}
