package repo

import (
	"context"
	"fmt"
	"strings"

	"DatePlanBot/model"
	"DatePlanBot/places"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	placesapi "google.golang.org/api/places/v1"
)

const (
	searchFieldMask  = "places.id,places.displayName,places.formattedAddress,places.location,places.viewport"
	detailsFieldMask = "id,displayName,formattedAddress,location,viewport"
	maxSearchResults = 5
)

// PlacesConnector looks places up through the Google Places API.
type PlacesConnector struct {
	service *placesapi.Service
}

// NewPlacesConnector creates a new Places API connector
func NewPlacesConnector(ctx context.Context, apiKey string, opts ...option.ClientOption) (*PlacesConnector, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)

	service, err := placesapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing Places service: %w", err)
	}

	return &PlacesConnector{service: service}, nil
}

// SearchText runs a free-text search, optionally biased towards bias.
func (pc *PlacesConnector) SearchText(ctx context.Context, query string, bias *model.Bounds) ([]places.Result, error) {
	req := &placesapi.GoogleMapsPlacesV1SearchTextRequest{
		TextQuery:      query,
		MaxResultCount: maxSearchResults,
	}
	if bias != nil {
		req.LocationBias = &placesapi.GoogleMapsPlacesV1SearchTextRequestLocationBias{
			Rectangle: toViewport(*bias),
		}
	}

	resp, err := pc.service.Places.SearchText(req).
		Context(ctx).
		Fields(googleapi.Field(searchFieldMask)).
		Do()
	if err != nil {
		return nil, fmt.Errorf("error searching places: %w", err)
	}

	results := make([]places.Result, 0, len(resp.Places))
	for _, p := range resp.Places {
		if p == nil {
			continue
		}
		results = append(results, toResult(p))
	}
	return results, nil
}

// Details reads a single place by its id.
func (pc *PlacesConnector) Details(ctx context.Context, placeID string) (*places.Result, error) {
	name := placeID
	if !strings.HasPrefix(name, "places/") {
		name = "places/" + placeID
	}

	p, err := pc.service.Places.Get(name).
		Context(ctx).
		Fields(googleapi.Field(detailsFieldMask)).
		Do()
	if err != nil {
		return nil, fmt.Errorf("error reading place %s: %w", placeID, err)
	}

	result := toResult(p)
	return &result, nil
}

func toResult(p *placesapi.GoogleMapsPlacesV1Place) places.Result {
	r := places.Result{
		PlaceRef: model.PlaceRef{
			FormattedAddress: p.FormattedAddress,
			ExternalID:       p.Id,
		},
	}
	if p.DisplayName != nil {
		r.DisplayName = p.DisplayName.Text
	}
	if p.Location != nil {
		r.Latitude = p.Location.Latitude
		r.Longitude = p.Location.Longitude
		r.HasLocation = true
	}
	if vp := p.Viewport; vp != nil && vp.Low != nil && vp.High != nil {
		r.Viewport = &model.Bounds{
			South: vp.Low.Latitude,
			West:  vp.Low.Longitude,
			North: vp.High.Latitude,
			East:  vp.High.Longitude,
		}
	}
	return r
}

func toViewport(b model.Bounds) *placesapi.GoogleGeoTypeViewport {
	return &placesapi.GoogleGeoTypeViewport{
		Low:  &placesapi.GoogleTypeLatLng{Latitude: b.South, Longitude: b.West},
		High: &placesapi.GoogleTypeLatLng{Latitude: b.North, Longitude: b.East},
	}
}
