// Package document lays the wizard answers out as a one-page PDF
// invitation.
package document

import (
	"fmt"
	"math"
	"strings"
	"time"

	"DatePlanBot/model"
)

const (
	title          = "Our Special Date Plan"
	closingMessage = "Can't wait to share these special moments with you! <3"
	defaultPlace   = "Our Special Place"
	mapLinkText    = "View on Google Maps"

	pageCenter  = 105.0
	titleY      = 20.0
	topY        = 40.0
	leftMargin  = 20.0
	valueX      = leftMargin + 30
	activitiesX = leftMargin + 60
	wrapWidth   = 150.0
	lineStep    = 10.0
	closingMinY = 200.0
)

var (
	pink  = [3]int{219, 39, 119}
	black = [3]int{0, 0, 0}
	blue  = [3]int{0, 0, 255}
)

// Layout reports where the compositor left its vertical cursor.
type Layout struct {
	// AfterActivities is the cursor once the activities block is done,
	// or where it would start when there is none.
	AfterActivities float64
	ClosingY        float64
	ActivityLines   int
}

// Invitation is a rendered document ready to be sent.
type Invitation struct {
	FileName string
	Data     []byte
}

// FileName is the download name for the invitation of recipient. Path
// separators in the name are replaced so the result is a single path
// element.
func FileName(recipient string) string {
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return '-'
		}
		return r
	}, strings.ToLower(recipient))
	return "date-plan-for-" + name + ".pdf"
}

// MapsURL links to the place page on Google Maps.
func MapsURL(placeID string) string {
	return "https://www.google.com/maps/place/?q=place_id:" + placeID
}

// FormatWhen renders t as e.g. "Saturday, June 1st, 2024 at 6:30 pm".
func FormatWhen(t time.Time) string {
	return fmt.Sprintf("%s, %s %s, %d at %s",
		t.Weekday(), t.Month(), ordinal(t.Day()), t.Year(), t.Format("3:04 pm"))
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

func setColor(c Canvas, rgb [3]int) {
	c.SetTextColor(rgb[0], rgb[1], rgb[2])
}

func label(c Canvas, y float64, name, value string) {
	c.SetFont("B", 12)
	c.Text(leftMargin, y, name)
	c.SetFont("", 12)
	c.Text(valueX, y, value)
}

// Compose draws the invitation for a onto c. It refuses answers without
// a date or a place.
func Compose(a model.Answers, c Canvas) (Layout, error) {
	if err := a.Validate(); err != nil {
		return Layout{}, err
	}
	var layout Layout

	c.SetFont("B", 24)
	setColor(c, pink)
	c.TextCentered(pageCenter, titleY, title)

	c.SetFont("", 12)
	setColor(c, black)

	y := topY

	c.SetFont("B", 12)
	c.Text(leftMargin, y, "Dear "+a.RecipientName+",")
	y += lineStep

	c.SetFont("", 12)
	c.Text(leftMargin, y, "Here's the plan for our special date together:")
	y += lineStep

	label(c, y, "When:", FormatWhen(*a.When))
	y += lineStep

	place := a.Place
	name := place.DisplayName
	if name == "" {
		name = defaultPlace
	}
	label(c, y, "Where:", name)
	y += 6
	c.SetFont("", 10)
	c.Text(valueX, y, place.FormattedAddress)
	c.SetFont("", 12)
	y += lineStep

	setColor(c, blue)
	c.Text(valueX, y, mapLinkText)
	c.Link(valueX, y-5, 100, 6, MapsURL(place.ExternalID))
	setColor(c, black)
	y += 15

	label(c, y, "Food:", fmt.Sprintf("We'll enjoy %s cuisine", a.Cuisine))
	y += lineStep

	label(c, y, "Dessert:", fmt.Sprintf("Followed by delicious %s", a.Dessert))
	y += 15

	if a.Activities != "" {
		c.SetFont("B", 12)
		c.Text(leftMargin, y, "Other Places to Visit:")
		c.SetFont("", 12)
		lines := c.SplitText(a.Activities, wrapWidth)
		c.Lines(activitiesX, y, lines)
		layout.ActivityLines = len(lines)
		y += 15 * float64(len(lines)+2)
	}
	layout.AfterActivities = y

	y = math.Max(y+20, closingMinY)
	setColor(c, pink)
	c.SetFont("I", 12)
	c.Text(leftMargin, y, closingMessage)
	layout.ClosingY = y

	return layout, nil
}

// Render composes a onto a fresh A4 page and returns the PDF.
func Render(a model.Answers) (*Invitation, error) {
	c := newPDFCanvas()
	if _, err := Compose(a, c); err != nil {
		return nil, err
	}
	data, err := c.bytes()
	if err != nil {
		return nil, err
	}
	return &Invitation{
		FileName: FileName(a.RecipientName),
		Data:     data,
	}, nil
}
