package render

import (
	"image"
	"image/color"
	"math"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

type align int

const (
	alignLeft align = iota
	alignCenter
	alignRight
)

// textStyle is a font at a size in millimetres.
type textStyle struct {
	font  *opentype.Font
	size  float64
	color color.Color
}

type faceKey struct {
	font *opentype.Font
	size float64
}

// canvas draws in millimetre coordinates onto an image scaled by pxPerMM.
type canvas struct {
	img     *image.NRGBA
	pxPerMM float64
	faces   map[faceKey]font.Face
	err     error
}

func newCanvas(img *image.NRGBA, pxPerMM float64) *canvas {
	return &canvas{img: img, pxPerMM: pxPerMM, faces: map[faceKey]font.Face{}}
}

func (c *canvas) close() {
	for _, f := range c.faces {
		_ = f.Close()
	}
}

func (c *canvas) px(mm float64) int { return int(math.Round(mm * c.pxPerMM)) }

func (c *canvas) face(s textStyle) font.Face {
	key := faceKey{s.font, s.size}
	if f, ok := c.faces[key]; ok {
		return f
	}
	size := s.size * c.pxPerMM
	if size < 1 {
		size = 1
	}
	f, err := opentype.NewFace(s.font, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		if c.err == nil {
			c.err = err
		}
		return nil
	}
	c.faces[key] = f
	return f
}

func (c *canvas) fill(x0, y0, x1, y1 float64, col color.Color) {
	r := image.Rect(c.px(x0), c.px(y0), c.px(x1), c.px(y1))
	draw.Draw(c.img, r, image.NewUniform(col), image.Point{}, draw.Src)
}

// measure returns the advance width of s in millimetres.
func (c *canvas) measure(s textStyle, text string) float64 {
	f := c.face(s)
	if f == nil {
		return 0
	}
	return float64(font.MeasureString(f, text)) / 64 / c.pxPerMM
}

// text draws one line inside a line box whose top edge is at top.
func (c *canvas) text(s textStyle, text string, x, top, lineHeight float64, a align) {
	f := c.face(s)
	if f == nil || text == "" {
		return
	}
	m := f.Metrics()
	ascent := float64(m.Ascent) / 64 / c.pxPerMM
	descent := float64(m.Descent) / 64 / c.pxPerMM
	baseline := top + (lineHeight-(ascent+descent))/2 + ascent

	switch a {
	case alignCenter:
		x -= c.measure(s, text) / 2
	case alignRight:
		x -= c.measure(s, text)
	}
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(s.color),
		Face: f,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * c.pxPerMM * 64), Y: fixed.Int26_6(baseline * c.pxPerMM * 64)},
	}
	d.DrawString(text)
}

// wrap splits text into lines no wider than width.  At most maxLines are
// returned; the last one is truncated with an ellipsis when text overflows.
func (c *canvas) wrap(s textStyle, text string, width float64, maxLines int) []string {
	words := strings.Fields(text)
	var lines []string
	line := ""
	for i, w := range words {
		candidate := w
		if line != "" {
			candidate = line + " " + w
		}
		if line == "" || c.measure(s, candidate) <= width {
			line = candidate
			continue
		}
		lines = append(lines, line)
		if len(lines) == maxLines {
			rest := strings.Join(append([]string{lines[maxLines-1]}, words[i:]...), " ")
			lines[maxLines-1] = c.truncate(s, rest, width)
			return lines
		}
		line = w
	}
	if line != "" {
		lines = append(lines, c.truncate(s, line, width))
	}
	return lines
}

// truncate shortens text with a trailing ellipsis until it fits width.
func (c *canvas) truncate(s textStyle, text string, width float64) string {
	if c.measure(s, text) <= width {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := strings.TrimRight(string(runes), " ") + "…"
		if c.measure(s, candidate) <= width {
			return candidate
		}
	}
	return ""
}
