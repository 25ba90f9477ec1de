package wizard

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"DatePlanBot/document"
	"DatePlanBot/model"
	"DatePlanBot/places"

	"github.com/rs/zerolog"
)

// Renderer turns complete answers into an invitation.
type Renderer func(model.Answers) (*document.Invitation, error)

// PlaceShown is called whenever the location step settles on a place.
type PlaceShown func(ctx context.Context, place model.PlaceRef, view places.View)

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

// DefaultClock is the time used until one is picked.
var DefaultClock = Clock{Hour: 12, Minute: 0}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ParseClock reads "HH:MM" in 24h form.
func ParseClock(s string) (Clock, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Clock{}, fmt.Errorf("clock %q: expected HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return Clock{}, fmt.Errorf("clock %q: hour out of range", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 || len(mm) != 2 {
		return Clock{}, fmt.Errorf("clock %q: minute out of range", s)
	}
	return Clock{Hour: h, Minute: m}, nil
}

// Controller drives one wizard run. It is not safe for concurrent use;
// callers serialize access per chat.
type Controller struct {
	seq      *Sequencer
	render   Renderer
	finder   places.Finder
	location *time.Location
	clock    Clock
	date     *time.Time
	log      zerolog.Logger

	picker      *places.Picker
	unsubscribe func()
	onPlace     PlaceShown
}

type Option func(*Controller)

func WithRenderer(r Renderer) Option {
	return func(c *Controller) { c.render = r }
}

func WithLocation(loc *time.Location) Option {
	return func(c *Controller) { c.location = loc }
}

// WithPlaceShown registers the callback that shows a chosen place.
func WithPlaceShown(fn PlaceShown) Option {
	return func(c *Controller) { c.onPlace = fn }
}

func NewController(finder places.Finder, log zerolog.Logger, opts ...Option) *Controller {
	c := &Controller{
		seq:      NewSequencer(),
		render:   document.Render,
		finder:   finder,
		location: time.Local,
		clock:    DefaultClock,
		log:      log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Step() Step {
	return c.seq.Step()
}

func (c *Controller) Answers() model.Answers {
	return c.seq.Answers()
}

func (c *Controller) Clock() Clock {
	return c.clock
}

func (c *Controller) Location() *time.Location {
	return c.location
}

// Recent lists the places searched during the current location step.
func (c *Controller) Recent() []model.RecentPlace {
	if c.picker == nil {
		return nil
	}
	return c.picker.Recent()
}

// View is where the map currently looks.
func (c *Controller) View() places.View {
	if c.picker == nil {
		return places.DefaultView
	}
	return c.picker.View()
}

func (c *Controller) SetRecipientName(name string) {
	c.seq.Update(func(a model.Answers) model.Answers {
		return a.WithRecipientName(strings.TrimSpace(name))
	})
}

// SelectDate picks the calendar day, keeping the chosen time of day.
func (c *Controller) SelectDate(day time.Time) {
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, c.location)
	c.date = &d
	c.applyClock()
}

// ClearDate drops the chosen day. The time of day is kept for the next
// pick.
func (c *Controller) ClearDate() {
	c.date = nil
	c.seq.Update(func(a model.Answers) model.Answers { return a.WithoutWhen() })
}

// SetClock picks the time of day and re-applies it to the chosen day.
func (c *Controller) SetClock(clock Clock) {
	c.clock = clock
	if c.date != nil {
		c.applyClock()
	}
}

func (c *Controller) applyClock() {
	d := *c.date
	when := time.Date(d.Year(), d.Month(), d.Day(), c.clock.Hour, c.clock.Minute, 0, 0, c.location)
	c.seq.Update(func(a model.Answers) model.Answers { return a.WithWhen(when) })
}

func (c *Controller) SelectCuisine(id string) error {
	cuisine, err := model.LookupCuisine(id)
	if err != nil {
		return err
	}
	c.seq.Update(func(a model.Answers) model.Answers { return a.WithCuisine(cuisine) })
	return nil
}

func (c *Controller) SelectDessert(id string) error {
	dessert, err := model.LookupDessert(id)
	if err != nil {
		return err
	}
	c.seq.Update(func(a model.Answers) model.Answers { return a.WithDessert(dessert) })
	return nil
}

func (c *Controller) SetActivities(text string) {
	c.seq.Update(func(a model.Answers) model.Answers { return a.WithActivities(strings.TrimSpace(text)) })
}

// Next advances one step and reports where the wizard is now.
func (c *Controller) Next() (Step, error) {
	if err := c.seq.Advance(); err != nil {
		return c.seq.Step(), err
	}
	c.enter(c.seq.Step())
	return c.seq.Step(), nil
}

// Back retreats one step. It reports false at the first step.
func (c *Controller) Back() (Step, bool) {
	from := c.seq.Step()
	if !c.seq.Retreat() {
		return from, false
	}
	if from == StepLocation {
		c.leaveLocation()
	}
	c.enter(c.seq.Step())
	return c.seq.Step(), true
}

func (c *Controller) enter(step Step) {
	if step == StepLocation && c.picker == nil {
		c.picker = places.NewPicker(c.finder, c.log)
		c.unsubscribe = c.picker.Subscribe(places.Listener{
			OnPlaceChosen:   c.placeChosen,
			OnBoundsChanged: c.boundsChanged,
		})
	}
}

func (c *Controller) boundsChanged(b model.Bounds) {
	c.log.Debug().
		Float64("south", b.South).Float64("west", b.West).
		Float64("north", b.North).Float64("east", b.East).
		Msg("search bias changed")
}

func (c *Controller) leaveLocation() {
	if c.picker == nil {
		return
	}
	c.unsubscribe()
	c.picker.Close()
	c.picker = nil
	c.unsubscribe = nil
}

func (c *Controller) placeChosen(ctx context.Context, place model.PlaceRef, view places.View) {
	c.seq.Update(func(a model.Answers) model.Answers { return a.WithPlace(place) })
	if c.onPlace != nil {
		c.onPlace(ctx, place, view)
	}
}

// SearchPlace looks query up and, when something is found, makes it the
// chosen place.
func (c *Controller) SearchPlace(ctx context.Context, query string) bool {
	if c.picker == nil {
		return false
	}
	return c.picker.Search(ctx, query)
}

func (c *Controller) SelectRecentPlace(ctx context.Context, placeID string) bool {
	if c.picker == nil {
		return false
	}
	return c.picker.SelectRecent(ctx, placeID)
}

// ShareLocation biases later searches to radiusKm around a point.
func (c *Controller) ShareLocation(lat, lng, radiusKm float64) bool {
	if c.picker == nil {
		return false
	}
	c.picker.SetBounds(model.BoundsAround(lat, lng, radiusKm))
	return true
}

// Generate renders the invitation. From the location step it finishes
// the wizard; at Done it renders again from the same answers.
func (c *Controller) Generate() (*document.Invitation, error) {
	var inv *document.Invitation
	err := c.seq.Finish(func(a model.Answers) error {
		var err error
		inv, err = c.render(a)
		return err
	})
	if err != nil {
		return nil, err
	}
	c.leaveLocation()
	return inv, nil
}

// Close releases the location step, if the wizard is in it.
func (c *Controller) Close() {
	c.leaveLocation()
}
