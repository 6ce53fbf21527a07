package element

// Style holds every attribute a builder may use; each kind reads the ones it needs.
type Style struct {
	Popup       any
	Color       string
	BorderColor string
	Font        string
	Text        string
	Code        string
	Radius      float64
	Width       float64
	Size        float64
	Opacity     float64
	BorderWidth float64
}

// Option sets a style attribute.
type Option func(*Style)

// Color sets the main (fill or stroke) color.
func Color(c string) Option { return func(s *Style) { s.Color = c } }

// Radius sets the dot radius in pixels.
func Radius(r float64) Option { return func(s *Style) { s.Radius = r } }

// Width sets the line width in pixels.
func Width(w float64) Option { return func(s *Style) { s.Width = w } }

// Size sets the label font size in pixels.
func Size(px float64) Option { return func(s *Style) { s.Size = px } }

// Font sets the label font family.
func Font(f string) Option { return func(s *Style) { s.Font = f } }

// Opacity sets the fill or text opacity.
func Opacity(o float64) Option { return func(s *Style) { s.Opacity = o } }

// BorderColor sets the border color of dots and areas.
func BorderColor(c string) Option { return func(s *Style) { s.BorderColor = c } }

// BorderWidth sets the border width of dots and areas.
func BorderWidth(w float64) Option { return func(s *Style) { s.BorderWidth = w } }

// Text sets the label text.
func Text(t string) Option { return func(s *Style) { s.Text = t } }

// Code sets the markup of HTML elements.
func Code(html string) Option { return func(s *Style) { s.Code = html } }

// Popup attaches a payload shown when the element is clicked. It is not interpreted.
func Popup(p any) Option { return func(s *Style) { s.Popup = p } }

func defaultStyle(k Kind) Style {
	switch k {
	case KindDot:
		return Style{Color: "blue", Radius: 3, Opacity: 1}
	case KindLabel:
		return Style{Color: "blue", Size: 12, Font: "arial", Opacity: 1}
	case KindLine:
		return Style{Color: "blue", Width: 2, Opacity: 1}
	case KindArea:
		return Style{Color: "blue", Opacity: 0.5}
	}
	return Style{}
}

// withBorder applies the border rule of dots and areas: no border color means
// the fill color, a border color with no width gets a visible width of 2.
func (s Style) withBorder() Style {
	if s.BorderColor == "" {
		s.BorderColor = s.Color
	} else if s.BorderWidth == 0 {
		s.BorderWidth = 2
	}
	return s
}
