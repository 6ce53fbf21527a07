package raster

import (
	"image"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// iconText is what a raster image can show of an HTML icon.
type iconText struct {
	text    string
	color   string
	opacity float64
}

// parseIcon extracts the visible text of an HTML fragment and the color and
// opacity set by inline styles.
func parseIcon(code string) (iconText, error) {
	nodes, err := html.ParseFragment(strings.NewReader(code), &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
	if err != nil {
		return iconText{}, err
	}

	out := iconText{color: "black", opacity: 1}
	var words []string
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			words = append(words, strings.Fields(n.Data)...)
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
			for _, a := range n.Attr {
				if a.Key == "style" {
					applyStyle(&out, a.Val)
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			visit(child)
		}
	}
	for _, n := range nodes {
		visit(n)
	}

	out.text = strings.Join(words, " ")
	return out, nil
}

func applyStyle(out *iconText, style string) {
	for decl := range strings.SplitSeq(style, ";") {
		key, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(strings.ToLower(key)) {
		case "color":
			out.color = value
		case "opacity":
			if o, err := strconv.ParseFloat(value, 64); err == nil {
				out.opacity = o
			}
		}
	}
}

func (c *Canvas) drawIcon(x, y float64, code string) error {
	icon, err := parseIcon(code)
	if err != nil {
		return err
	}
	if icon.text == "" {
		return nil
	}
	col, err := ParseColor(icon.color, icon.opacity)
	if err != nil {
		return err
	}

	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: face,
	}
	width := d.MeasureString(icon.text).Round()
	d.Dot = fixed.P(int(x)-width/2, int(y)+face.Ascent/2)
	d.DrawString(icon.text)
	return nil
}
