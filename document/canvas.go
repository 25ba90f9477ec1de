package document

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// Canvas is the drawing surface the invitation is laid out on.
// Coordinates are millimetres from the top-left corner of an A4 page.
type Canvas interface {
	SetFont(style string, size float64)
	SetTextColor(r, g, b int)
	Text(x, y float64, s string)
	TextCentered(cx, y float64, s string)
	Lines(x, y float64, lines []string)
	Link(x, y, w, h float64, url string)
	SplitText(s string, width float64) []string
}

// fixedDate is stamped into every document so that equal answers give
// equal bytes.
var fixedDate = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

const (
	fontFamily       = "Helvetica"
	lineHeightFactor = 1.15
)

type pdfCanvas struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newPDFCanvas() *pdfCanvas {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(fixedDate)
	pdf.SetModificationDate(fixedDate)
	pdf.SetCatalogSort(true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("Our Special Date Plan", true)
	pdf.AddPage()
	return &pdfCanvas{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (c *pdfCanvas) SetFont(style string, size float64) {
	c.pdf.SetFont(fontFamily, style, size)
}

func (c *pdfCanvas) SetTextColor(r, g, b int) {
	c.pdf.SetTextColor(r, g, b)
}

func (c *pdfCanvas) Text(x, y float64, s string) {
	c.pdf.Text(x, y, c.tr(s))
}

func (c *pdfCanvas) TextCentered(cx, y float64, s string) {
	s = c.tr(s)
	c.pdf.Text(cx-c.pdf.GetStringWidth(s)/2, y, s)
}

func (c *pdfCanvas) Lines(x, y float64, lines []string) {
	_, unit := c.pdf.GetFontSize()
	step := unit * lineHeightFactor
	for i, line := range lines {
		c.pdf.Text(x, y+float64(i)*step, line)
	}
}

func (c *pdfCanvas) Link(x, y, w, h float64, url string) {
	c.pdf.LinkString(x, y, w, h, url)
}

// SplitText wraps s at width. fpdf measures each rune against a 256-entry
// width table, so the code page bytes are widened to one rune each for the
// split and narrowed back afterwards.
func (c *pdfCanvas) SplitText(s string, width float64) []string {
	lines := c.pdf.SplitText(widen(c.tr(s)), width)
	for i, line := range lines {
		lines[i] = narrow(line)
	}
	return lines
}

func widen(s string) string {
	runes := make([]rune, len(s))
	for i := 0; i < len(s); i++ {
		runes[i] = rune(s[i])
	}
	return string(runes)
}

func narrow(s string) string {
	b := make([]byte, 0, len(s))
	for _, r := range s {
		b = append(b, byte(r))
	}
	return string(b)
}

func (c *pdfCanvas) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("error writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}
