package celebrate

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"math/rand"

	"github.com/fogleman/gg"
)

var palette = []color.Color{
	color.RGBA{0xff, 0x00, 0x00, 0xff},
	color.RGBA{0xff, 0xa5, 0x00, 0xff},
	color.RGBA{0xff, 0xff, 0x00, 0xff},
	color.RGBA{0x00, 0x80, 0x00, 0xff},
	color.RGBA{0x00, 0x00, 0xff, 0xff},
	color.RGBA{0x4b, 0x00, 0x82, 0xff},
	color.RGBA{0xee, 0x82, 0xee, 0xff},
}

var (
	background = color.RGBA{0xfd, 0xf2, 0xf8, 0xff}
	heading    = color.RGBA{0xdb, 0x27, 0x77, 0xff}
)

// Card is a still image that collects every particle of a celebration.
type Card struct {
	dc        *gg.Context
	r         *rand.Rand
	particles int
}

func NewCard(width, height int, r *rand.Rand) *Card {
	dc := gg.NewContext(width, height)
	dc.SetColor(background)
	dc.Clear()
	return &Card{dc: dc, r: r}
}

func (c *Card) Particles() int {
	return c.particles
}

// Add scatters the particles of every burst in s across the card.
func (c *Card) Add(s Shot) {
	w := float64(c.dc.Width())
	h := float64(c.dc.Height())
	for _, b := range s.Bursts {
		for i := 0; i < b.Particles; i++ {
			angle := (b.Angle + (c.r.Float64()-0.5)*b.Spread) * math.Pi / 180
			travel := (0.15 + c.r.Float64()*0.35) * h
			fall := b.Gravity * c.r.Float64() * 0.25 * h

			x := b.OriginX*w + math.Cos(angle)*travel
			y := b.OriginY*h - math.Sin(angle)*travel + fall
			size := 3 * b.Scalar * (0.6 + c.r.Float64()*0.8)

			c.dc.Push()
			c.dc.RotateAbout(c.r.Float64()*math.Pi, x, y)
			c.dc.DrawRectangle(x-size, y-size/2, 2*size, size)
			c.dc.SetColor(palette[c.r.Intn(len(palette))])
			c.dc.Fill()
			c.dc.Pop()
			c.particles++
		}
	}
}

// PNG draws the caption lines over the confetti and encodes the card.
func (c *Card) PNG(caption ...string) ([]byte, error) {
	w := float64(c.dc.Width())
	h := float64(c.dc.Height())
	c.dc.SetColor(heading)
	for i, line := range caption {
		y := h/2 + float64(i-len(caption)/2)*c.dc.FontHeight()*1.8
		c.dc.DrawStringAnchored(line, w/2, y, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := c.dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("error encoding card: %w", err)
	}
	return buf.Bytes(), nil
}
