package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"net/http"
	"sync"

	"github.com/rs/zerolog/log"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/woozymasta/simplemap/internal/tiles"
)

type job struct {
	URL   string
	Coord tiles.Coordinate
	Rect  image.Rectangle
}

type result struct {
	Img  image.Image
	Rect image.Rectangle
}

// visibleTiles lists the tiles covering the canvas with their destination rectangles.
func (c *Canvas) visibleTiles(provider tiles.Provider) []job {
	z, scale := tileZoom(c.zoom, provider.MaxZoom)
	size := tileSize * scale
	n := 1 << z
	b := c.img.Bounds()

	x0 := int(math.Floor(c.originX / size))
	x1 := int(math.Floor((c.originX + float64(b.Dx())) / size))
	y0 := int(math.Floor(c.originY / size))
	y1 := int(math.Floor((c.originY + float64(b.Dy())) / size))

	var jobs []job
	for ty := y0; ty <= y1; ty++ {
		if ty < 0 || ty >= n {
			continue
		}
		for tx := x0; tx <= x1; tx++ {
			coord := tiles.Coordinate{Z: z, X: ((tx % n) + n) % n, Y: ty}
			jobs = append(jobs, job{
				Coord: coord,
				URL:   provider.TileURL(coord),
				Rect: image.Rect(
					int(math.Round(float64(tx)*size-c.originX)),
					int(math.Round(float64(ty)*size-c.originY)),
					int(math.Round(float64(tx+1)*size-c.originX)),
					int(math.Round(float64(ty+1)*size-c.originY)),
				),
			})
		}
	}
	return jobs
}

// drawTiles downloads the visible tiles with a pool of workers and paints them.
// Missing or broken tiles leave the background visible.
func (c *Canvas) drawTiles(client *http.Client, concurrency int, provider tiles.Provider) {
	batch := c.visibleTiles(provider)

	jobs := make(chan job, len(batch))
	results := make(chan result, len(batch))

	go func() {
		for _, j := range batch {
			jobs <- j
		}
		close(jobs)
	}()

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				img, err := fetchTile(client, j.URL)
				if err != nil {
					log.Warn().Err(err).Str("url", j.URL).Msg("Failed to download tile")
				}
				results <- result{Img: img, Rect: j.Rect}
			}
		}()
	}
	wg.Wait()
	close(results)

	drawn := 0
	for res := range results {
		if res.Img == nil {
			continue
		}
		if res.Img.Bounds().Size() == res.Rect.Size() {
			draw.Draw(c.img, res.Rect, res.Img, res.Img.Bounds().Min, draw.Over)
		} else {
			xdraw.CatmullRom.Scale(c.img, res.Rect, res.Img, res.Img.Bounds(), draw.Over, nil)
		}
		drawn++
	}

	log.Debug().Int("tiles", drawn).Int("requested", len(batch)).Msg("Basemap tiles drawn")
}

// fetchTile returns nil without error for tiles the server does not have.
func fetchTile(client *http.Client, url string) (image.Image, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		log.Trace().Str("url", url).Msg("Tile not found (404)")
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decode tile: %w", err)
	}

	// Filter out empty/1px tiles often returned by map servers for OOB areas
	if img.Bounds().Dx() <= 1 {
		log.Trace().Str("url", url).Msg("Filtered empty tile")
		return nil, nil
	}

	return img, nil
}
