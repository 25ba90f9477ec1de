package repo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"DatePlanBot/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func newTestConnector(t *testing.T, handler http.HandlerFunc) *PlacesConnector {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	pc, err := NewPlacesConnector(context.Background(), "test-key", option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)
	return pc
}

func TestPlacesConnector_SearchText(t *testing.T) {
	var gotBody map[string]any
	var gotFields string
	pc := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v1/places:searchText"), r.URL.Path)
		gotFields = r.URL.Query().Get("fields")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"places":[
			{"id":"abc","displayName":{"text":"Pier 7"},"formattedAddress":"7 Pier Rd",
			 "location":{"latitude":40.70,"longitude":-74.01},
			 "viewport":{"low":{"latitude":40.69,"longitude":-74.02},"high":{"latitude":40.71,"longitude":-74.00}}},
			{"id":"def","displayName":{"text":"Nowhere"}}
		]}`)
	})

	bias := model.BoundsAround(40.7, -74.0, 5)
	results, err := pc.SearchText(context.Background(), "pier", &bias)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, searchFieldMask, gotFields)
	assert.Equal(t, "pier", gotBody["textQuery"])
	assert.Contains(t, gotBody, "locationBias")

	first := results[0]
	assert.Equal(t, "abc", first.ExternalID)
	assert.Equal(t, "Pier 7", first.DisplayName)
	assert.Equal(t, "7 Pier Rd", first.FormattedAddress)
	assert.True(t, first.HasLocation)
	assert.InDelta(t, 40.70, first.Latitude, 1e-9)
	require.NotNil(t, first.Viewport)
	assert.InDelta(t, 40.71, first.Viewport.North, 1e-9)

	assert.False(t, results[1].HasLocation)
	assert.Nil(t, results[1].Viewport)
}

func TestPlacesConnector_Details(t *testing.T) {
	pc := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v1/places/abc"), r.URL.Path)
		assert.Equal(t, detailsFieldMask, r.URL.Query().Get("fields"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"abc","displayName":{"text":"Pier 7"},"location":{"latitude":1,"longitude":2}}`)
	})

	place, err := pc.Details(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "Pier 7", place.DisplayName)
	assert.Equal(t, "", place.FormattedAddress)
	assert.True(t, place.HasLocation)
}

func TestPlacesConnector_SearchTextError(t *testing.T) {
	pc := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"denied"}}`, http.StatusForbidden)
	})

	_, err := pc.SearchText(context.Background(), "pier", nil)
	assert.Error(t, err)
}
