// Package places adapts a place search service to the location step:
// it keeps the search bias, the recent-place list and the listeners that
// want to hear about chosen places.
package places

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"DatePlanBot/model"

	"github.com/rs/zerolog"
)

var ErrUnavailable = errors.New("place search is not configured")

// Result is one place returned by a Finder.
type Result struct {
	model.PlaceRef
	Viewport    *model.Bounds
	HasLocation bool
}

// Finder is the place search service.
type Finder interface {
	SearchText(ctx context.Context, query string, bias *model.Bounds) ([]Result, error)
	Details(ctx context.Context, placeID string) (*Result, error)
}

// View is where the map should look after a place was chosen.
type View struct {
	Latitude  float64
	Longitude float64
	Zoom      int
	Viewport  *model.Bounds
}

const (
	defaultZoom = 13
	placeZoom   = 17
)

// DefaultView is New York City.
var DefaultView = View{Latitude: 40.7128, Longitude: -74.0060, Zoom: defaultZoom}

// Listener receives picker events. Either callback may be nil.
type Listener struct {
	OnPlaceChosen   func(ctx context.Context, place model.PlaceRef, view View)
	OnBoundsChanged func(bounds model.Bounds)
}

type Picker struct {
	finder Finder
	log    zerolog.Logger

	mu        sync.Mutex
	bias      *model.Bounds
	recent    model.RecentPlaces
	view      View
	listeners map[int]Listener
	nextID    int
}

// NewPicker returns a picker over finder. A nil finder is allowed: every
// lookup then fails quietly.
func NewPicker(finder Finder, log zerolog.Logger) *Picker {
	return &Picker{
		finder:    finder,
		log:       log.With().Str("component", "places.Picker").Logger(),
		view:      DefaultView,
		listeners: make(map[int]Listener),
	}
}

// Subscribe registers l and returns the function that removes it.
func (p *Picker) Subscribe(l Listener) (unsubscribe func()) {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = l
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.listeners, id)
			p.mu.Unlock()
		})
	}
}

// Close drops every listener.
func (p *Picker) Close() {
	p.mu.Lock()
	p.listeners = make(map[int]Listener)
	p.mu.Unlock()
}

func (p *Picker) snapshot() []Listener {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]int, 0, len(p.listeners))
	for id := range p.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]Listener, 0, len(ids))
	for _, id := range ids {
		out = append(out, p.listeners[id])
	}
	return out
}

// SetBounds biases later searches towards b.
func (p *Picker) SetBounds(b model.Bounds) {
	p.mu.Lock()
	p.bias = &b
	p.mu.Unlock()

	for _, l := range p.snapshot() {
		if l.OnBoundsChanged != nil {
			l.OnBoundsChanged(b)
		}
	}
}

func (p *Picker) Bias() *model.Bounds {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bias == nil {
		return nil
	}
	b := *p.bias
	return &b
}

func (p *Picker) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view
}

func (p *Picker) Recent() []model.RecentPlace {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.recent.Items()
}

// Search looks query up and chooses the first result. It reports whether
// a place was chosen; lookup failures are logged, not returned.
func (p *Picker) Search(ctx context.Context, query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return false
	}
	if p.finder == nil {
		p.log.Warn().Err(ErrUnavailable).Str("query", query).Msg("search skipped")
		return false
	}

	results, err := p.finder.SearchText(ctx, query, p.Bias())
	if err != nil {
		p.log.Error().Err(err).Str("query", query).Msg("error searching places")
		return false
	}
	if len(results) == 0 {
		p.log.Debug().Str("query", query).Msg("no places found")
		return false
	}

	place := results[0]
	if !place.HasLocation {
		p.log.Debug().Str("query", query).Str("place_id", place.ExternalID).Msg("first result has no location")
		return false
	}

	view := View{Latitude: place.Latitude, Longitude: place.Longitude, Zoom: placeZoom}
	if place.Viewport != nil {
		lat, lng := place.Viewport.Center()
		vp := *place.Viewport
		view = View{Latitude: lat, Longitude: lng, Viewport: &vp}
	}

	p.mu.Lock()
	if place.DisplayName != "" && place.ExternalID != "" {
		p.recent.Add(model.RecentPlace{DisplayName: place.DisplayName, ExternalID: place.ExternalID})
	}
	p.view = view
	p.mu.Unlock()

	p.choose(ctx, place.PlaceRef, view)
	return true
}

// SelectRecent re-selects a place from the recent list by looking up its
// details.
func (p *Picker) SelectRecent(ctx context.Context, placeID string) bool {
	if p.finder == nil {
		p.log.Warn().Err(ErrUnavailable).Str("place_id", placeID).Msg("details skipped")
		return false
	}

	place, err := p.finder.Details(ctx, placeID)
	if err != nil {
		p.log.Error().Err(err).Str("place_id", placeID).Msg("error fetching place details")
		return false
	}
	if place == nil {
		return false
	}

	view := p.View()
	if place.HasLocation {
		view = View{Latitude: place.Latitude, Longitude: place.Longitude, Zoom: placeZoom}
		p.mu.Lock()
		p.view = view
		p.mu.Unlock()
	}

	p.choose(ctx, place.PlaceRef, view)
	return true
}

func (p *Picker) choose(ctx context.Context, place model.PlaceRef, view View) {
	for _, l := range p.snapshot() {
		if l.OnPlaceChosen != nil {
			l.OnPlaceChosen(ctx, place, view)
		}
	}
}
