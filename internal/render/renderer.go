package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

var (
	neutral900 = color.NRGBA{0x17, 0x17, 0x17, 0xff}
	neutral800 = color.NRGBA{0x26, 0x26, 0x26, 0xff}
	neutral600 = color.NRGBA{0x52, 0x52, 0x52, 0xff}
	neutral500 = color.NRGBA{0x73, 0x73, 0x73, 0xff}
	neutral300 = color.NRGBA{0xd4, 0xd4, 0xd4, 0xff}
	neutral200 = color.NRGBA{0xe5, 0xe5, 0xe5, 0xff}
	neutral50  = color.NRGBA{0xfa, 0xfa, 0xfa, 0xff}
)

// Card geometry in millimetres.
const (
	bandHeight = 2.7
	padding    = 5.4
	mainWidth  = WidthMM * 0.75
	sepWidth   = 0.7
	footerLine = 4.7
)

// ErrInvalidSize is returned for a non-positive output width.
var ErrInvalidSize = errors.New("render: invalid output size")

// Renderer draws ticket views with the Go font family.  It is safe for
// concurrent use.
type Renderer struct {
	regular *opentype.Font
	medium  *opentype.Font
	bold    *opentype.Font
}

func NewRenderer() (*Renderer, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	medium, err := opentype.Parse(gomedium.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse medium font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	return &Renderer{regular: regular, medium: medium, bold: bold}, nil
}

// Size returns the pixel size of a card rendered widthPx wide.
func Size(widthPx int) (int, int) {
	return widthPx, int(math.Round(HeightMM * float64(widthPx) / WidthMM))
}

// Render draws v onto a white card exactly widthPx pixels wide.
func (r *Renderer) Render(v View, widthPx int) (*image.NRGBA, error) {
	if widthPx < 1 {
		return nil, fmt.Errorf("%w: width %d", ErrInvalidSize, widthPx)
	}
	w, h := Size(widthPx)
	if h < 1 {
		h = 1
	}
	c := newCanvas(imaging.New(w, h, color.White), float64(w)/WidthMM)
	defer c.close()

	r.drawMain(c, v)
	r.drawSeparator(c)
	r.drawStub(c, v)
	c.fill(0, 0, WidthMM, bandHeight, neutral900)

	if c.err != nil {
		return nil, fmt.Errorf("render: %w", c.err)
	}
	return c.img, nil
}

func (r *Renderer) drawMain(c *canvas, v View) {
	left, right := padding, mainWidth-padding
	width := right - left
	center := (left + right) / 2

	headline := textStyle{r.bold, 11, neutral900}
	supporting := textStyle{r.medium, 4, neutral600}
	footer := textStyle{r.bold, 4, neutral800}

	headLines := c.wrap(headline, strings.ToUpper(v.Headline), width, 3)
	var supLines []string
	if v.Supporting != "" {
		supLines = c.wrap(supporting, strings.ToUpper(v.Supporting), width, 2)
	}
	block := float64(len(headLines)) * 11
	if len(supLines) > 0 {
		block += 4 + float64(len(supLines))*5.4
	}

	footerTop := HeightMM - padding - footerLine
	top := padding + (footerTop-2.7-padding-block)/2
	for _, l := range headLines {
		c.text(headline, l, center, top, 11, alignCenter)
		top += 11
	}
	if len(supLines) > 0 {
		top += 4
		for _, l := range supLines {
			c.text(supporting, l, center, top, 5.4, alignCenter)
			top += 5.4
		}
	}

	half := width/2 - 1.35
	when := joinDot(v.DateLabel, v.TimeLabel)
	where := joinDot(v.Venue, v.City)
	c.text(footer, c.truncate(footer, strings.ToUpper(when), half), left, footerTop, footerLine, alignLeft)
	c.text(footer, c.truncate(footer, strings.ToUpper(where), half), right, footerTop, footerLine, alignRight)
}

func (r *Renderer) drawSeparator(c *canvas) {
	const dash, gap = 1.5, 1.0
	for y := bandHeight + 2.6; y < HeightMM; y += dash + gap {
		c.fill(mainWidth, y, mainWidth+sepWidth, math.Min(y+dash, HeightMM), neutral300)
	}
}

func (r *Renderer) drawStub(c *canvas, v View) {
	x0 := mainWidth + sepWidth
	c.img = imaging.Paste(c.img, imaging.New(c.px(WidthMM-x0), c.img.Bounds().Dy(), neutral50), image.Pt(c.px(x0), 0))

	left, right := x0+padding, WidthMM-padding
	width := right - left
	center := (left + right) / 2

	typeStyle := textStyle{r.bold, 3.4, neutral600}
	priceStyle := textStyle{r.bold, 4, neutral900}
	artistStyle := textStyle{r.bold, 5.4, neutral900}
	dateStyle := textStyle{r.medium, 3.4, neutral500}
	labelStyle := textStyle{r.bold, 2.7, neutral500}
	kindStyle := textStyle{r.bold, 4.7, neutral900}
	valueStyle := textStyle{r.bold, 4, neutral900}

	type line struct {
		style  textStyle
		text   string
		height float64
		gap    float64
	}
	var lines []line
	if v.TicketType != "" {
		lines = append(lines, line{typeStyle, c.truncate(typeStyle, strings.ToUpper(v.TicketType), width), 4, 0})
	}
	if v.Price != "" {
		lines = append(lines, line{priceStyle, c.truncate(priceStyle, v.Price, width), 4.7, 1.3})
	}
	for i, l := range c.wrap(artistStyle, strings.ToUpper(v.StubArtist), width, 2) {
		gap := 0.0
		if i == 0 {
			gap = 2.7
		}
		lines = append(lines, line{artistStyle, l, 6.1, gap})
	}
	lines = append(lines, line{dateStyle, v.DateLabel, 4, 0.7})

	bottom := HeightMM - padding
	if p := v.Placement; p != nil {
		placement := 0.3 + 2.7 + 3.4 + 0.7 + 5.4
		if len(p.Cells) > 0 {
			placement += 1.3 + 3.4 + 4.7
		}
		top := bottom - placement
		c.fill(left, top, right, top+0.3, neutral200)
		top += 0.3 + 2.7
		c.text(labelStyle, "PLACE", center, top, 3.4, alignCenter)
		top += 3.4 + 0.7
		c.text(kindStyle, strings.ToUpper(p.Kind), center, top, 5.4, alignCenter)
		top += 5.4 + 1.3
		col := width / 3
		for i, cell := range p.Cells {
			cx := left + col*float64(i) + col/2
			c.text(labelStyle, strings.ToUpper(cell.Label), cx, top, 3.4, alignCenter)
			c.text(valueStyle, c.truncate(valueStyle, cell.Value, col), cx, top+3.4, 4.7, alignCenter)
		}
		bottom -= placement + 2.7
	}

	total := 0.0
	for i, l := range lines {
		if i > 0 {
			total += l.gap
		}
		total += l.height
	}
	top := bandHeight + padding + (bottom-bandHeight-padding-total)/2
	for i, l := range lines {
		if i > 0 {
			top += l.gap
		}
		c.text(l.style, l.text, center, top, l.height, alignCenter)
		top += l.height
	}
}

func joinDot(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + " • " + b
}
