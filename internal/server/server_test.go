package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/woozymasta/simplemap/internal/config"
	"github.com/woozymasta/simplemap/internal/coords"
	"github.com/woozymasta/simplemap/internal/element"
	"github.com/woozymasta/simplemap/internal/server"
)

func Test(t *testing.T) {
	gc.TestingT(t)
}

type serverSuite struct {
	dir string
	ctx *server.ServerContext
	srv *httptest.Server
}

var _ = gc.Suite(&serverSuite{})

const stops = `{"type":"FeatureCollection","features":[
	{"type":"Feature","properties":{"name":"Abando"},"geometry":{"type":"Point","coordinates":[-2.93,43.26]}}
]}`

func (s *serverSuite) SetUpTest(c *gc.C) {
	s.dir = c.MkDir()
	c.Assert(os.WriteFile(filepath.Join(s.dir, "stops.geojson"), []byte(stops), 0644), jc.ErrorIsNil)
	path := filepath.Join(s.dir, "map.yaml")
	c.Assert(os.WriteFile(path, []byte(`
title: Bilbao
width: 64
height: 48
layers:
  - path: stops.geojson
    points_as: dot
    popup_property: name
  - points: [[43.25, -2.92]]
`), 0644), jc.ErrorIsNil)

	cfg, err := config.Load(path)
	c.Assert(err, jc.ErrorIsNil)

	s.ctx, err = server.NewServerContext(cfg, element.NewFactory(coords.NewNormalizer(nil)), nil)
	c.Assert(err, jc.ErrorIsNil)
	s.srv = httptest.NewServer(s.ctx.Handler())
}

func (s *serverSuite) TearDownTest(c *gc.C) {
	s.srv.Close()
}

func (s *serverSuite) get(c *gc.C, path string, header http.Header) (*http.Response, string) {
	req, err := http.NewRequest(http.MethodGet, s.srv.URL+path, nil)
	c.Assert(err, jc.ErrorIsNil)
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := s.srv.Client().Do(req)
	c.Assert(err, jc.ErrorIsNil)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	c.Assert(err, jc.ErrorIsNil)
	return resp, string(body)
}

func (s *serverSuite) post(c *gc.C, path, contentType, body string) (*http.Response, string) {
	resp, err := s.srv.Client().Post(s.srv.URL+path, contentType, strings.NewReader(body))
	c.Assert(err, jc.ErrorIsNil)
	defer func() { _ = resp.Body.Close() }()
	out, err := io.ReadAll(resp.Body)
	c.Assert(err, jc.ErrorIsNil)
	return resp, string(out)
}

func (s *serverSuite) TestIndex(c *gc.C) {
	resp, body := s.get(c, "/", nil)
	c.Assert(resp.StatusCode, gc.Equals, http.StatusOK)
	c.Assert(resp.Header.Get("Content-Type"), gc.Equals, "text/html; charset=utf-8")
	c.Assert(strings.Contains(body, "<title>Bilbao</title>"), jc.IsTrue)
	c.Assert(strings.Contains(body, `"popup":"Abando"`), jc.IsTrue)

	etag := resp.Header.Get("ETag")
	c.Assert(etag, gc.Equals, s.ctx.IndexETag)
	resp, _ = s.get(c, "/", http.Header{"If-None-Match": {etag}})
	c.Assert(resp.StatusCode, gc.Equals, http.StatusNotModified)

	resp, _ = s.get(c, "/favicon.ico", nil)
	c.Assert(resp.StatusCode, gc.Equals, http.StatusNotFound)
}

func (s *serverSuite) TestConfig(c *gc.C) {
	resp, body := s.get(c, "/api/config", nil)
	c.Assert(resp.StatusCode, gc.Equals, http.StatusOK)

	var cfg config.Config
	c.Assert(json.Unmarshal([]byte(body), &cfg), jc.ErrorIsNil)
	c.Assert(cfg.Title, gc.Equals, "Bilbao")
	c.Assert(cfg.Layers, gc.HasLen, 2)
	c.Assert(cfg.Layers[0].PointsAs, gc.Equals, "dot")
}

func (s *serverSuite) TestRender(c *gc.C) {
	resp, body := s.post(c, "/api/render?points_as=dot&color=red&zoom=12&center=43.26,-2.93&popup_property=name",
		"application/geo+json", stops)
	c.Assert(resp.StatusCode, gc.Equals, http.StatusOK, gc.Commentf("%s", body))
	c.Assert(strings.Contains(body, `"type":"circle"`), jc.IsTrue)
	c.Assert(strings.Contains(body, `"fillColor":"red"`), jc.IsTrue)
	c.Assert(strings.Contains(body, `"center":[43.26,-2.93]`), jc.IsTrue)

	resp, body = s.post(c, "/api/render", "application/yaml", "type: Point\ncoordinates: [-2.93, 43.26]\n")
	c.Assert(resp.StatusCode, gc.Equals, http.StatusOK, gc.Commentf("%s", body))
	c.Assert(strings.Contains(body, `"type":"marker"`), jc.IsTrue)
}

func (s *serverSuite) TestRenderRejectsBadInput(c *gc.C) {
	for _, t := range []struct {
		path, body string
		status     int
	}{
		{"/api/render", `{"type":`, http.StatusBadRequest},
		{"/api/render", `"/etc/passwd"`, http.StatusBadRequest},
		{"/api/render", `{"coordinates":[1,2]}`, http.StatusBadRequest},
		{"/api/render", `{"type":"Point","coordinates":"here"}`, http.StatusBadRequest},
		{"/api/render?points_as=area", `{"type":"Point","coordinates":[1,2]}`, http.StatusBadRequest},
		{"/api/render?tiles=nope", `{"type":"Point","coordinates":[1,2]}`, http.StatusBadRequest},
		{"/api/render?center=1", `{"type":"Point","coordinates":[1,2]}`, http.StatusBadRequest},
		{"/api/render?color=notacolor", `{"type":"Point","coordinates":[1,2]}`, http.StatusOK},
	} {
		resp, body := s.post(c, t.path, "application/json", t.body)
		c.Check(resp.StatusCode, gc.Equals, t.status, gc.Commentf("%s %s: %s", t.path, t.body, body))
	}

	resp, _ := s.get(c, "/api/render", nil)
	c.Assert(resp.StatusCode, gc.Equals, http.StatusMethodNotAllowed)
	c.Assert(resp.Header.Get("Allow"), gc.Equals, http.MethodPost)
}

func (s *serverSuite) TestSnapshot(c *gc.C) {
	resp, body := s.get(c, "/snapshot.webp?width=32", nil)
	c.Assert(resp.StatusCode, gc.Equals, http.StatusOK, gc.Commentf("%s", body))
	c.Assert(resp.Header.Get("Content-Type"), gc.Equals, "image/webp")
	c.Assert(bytes.HasPrefix([]byte(body), []byte("RIFF")), jc.IsTrue)

	resp, _ = s.get(c, "/snapshot.webp?height=0", nil)
	c.Assert(resp.StatusCode, gc.Equals, http.StatusBadRequest)
}

func (s *serverSuite) TestLayerFile(c *gc.C) {
	resp, body := s.get(c, "/layers/0.geojson", nil)
	c.Assert(resp.StatusCode, gc.Equals, http.StatusOK)
	c.Assert(resp.Header.Get("Content-Type"), gc.Equals, "application/geo+json")
	c.Assert(body, gc.Equals, stops)

	resp, _ = s.get(c, "/layers/0.geojson", http.Header{"If-None-Match": {resp.Header.Get("ETag")}})
	c.Assert(resp.StatusCode, gc.Equals, http.StatusNotModified)

	for _, path := range []string{"/layers/1", "/layers/7", "/layers/x"} {
		resp, _ = s.get(c, path, nil)
		c.Check(resp.StatusCode, gc.Equals, http.StatusNotFound, gc.Commentf("%s", path))
	}
}

func (s *serverSuite) TestBrokenLayerFailsStartup(c *gc.C) {
	cfg := &config.Config{Layers: []config.Layer{{Path: filepath.Join(s.dir, "missing.geojson"), PointsAs: "marker"}}}
	cfg.ApplyDefaults()
	_, err := server.NewServerContext(cfg, element.NewFactory(nil), nil)
	c.Assert(err, gc.ErrorMatches, "render index: open geojson: .*")
}
