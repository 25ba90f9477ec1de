package wizard

import (
	"context"
	"errors"
	"testing"
	"time"

	"DatePlanBot/document"
	"DatePlanBot/model"
	"DatePlanBot/places"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFinder struct {
	results map[string][]places.Result
}

func (f *stubFinder) SearchText(_ context.Context, query string, _ *model.Bounds) ([]places.Result, error) {
	return f.results[query], nil
}

func (f *stubFinder) Details(_ context.Context, placeID string) (*places.Result, error) {
	for _, rs := range f.results {
		for _, r := range rs {
			if r.ExternalID == placeID {
				r := r
				return &r, nil
			}
		}
	}
	return nil, errors.New("not found")
}

func pier() places.Result {
	return places.Result{
		PlaceRef:    model.PlaceRef{DisplayName: "Pier 7", FormattedAddress: "7 Pier Rd", ExternalID: "abc", Latitude: 40.7, Longitude: -74},
		HasLocation: true,
	}
}

func walkToLocation(t *testing.T, c *Controller) {
	t.Helper()
	c.SetRecipientName("  Sam ")
	_, err := c.Next()
	require.NoError(t, err)
	c.SelectDate(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	_, err = c.Next()
	require.NoError(t, err)
	require.NoError(t, c.SelectCuisine("italian"))
	_, err = c.Next()
	require.NoError(t, err)
	require.NoError(t, c.SelectDessert("cake"))
	_, err = c.Next()
	require.NoError(t, err)
	c.SetActivities("Beach\nwalk")
	step, err := c.Next()
	require.NoError(t, err)
	require.Equal(t, StepLocation, step)
}

func TestController_FullRun(t *testing.T) {
	finder := &stubFinder{results: map[string][]places.Result{"pier": {pier()}}}
	var shown []model.PlaceRef
	var rendered []model.Answers
	c := NewController(finder, zerolog.Nop(),
		WithLocation(time.UTC),
		WithPlaceShown(func(_ context.Context, place model.PlaceRef, _ places.View) { shown = append(shown, place) }),
		WithRenderer(func(a model.Answers) (*document.Invitation, error) {
			rendered = append(rendered, a)
			return &document.Invitation{FileName: document.FileName(a.RecipientName), Data: []byte("%PDF-")}, nil
		}),
	)

	walkToLocation(t, c)
	assert.Equal(t, "Sam", c.Answers().RecipientName)

	_, err := c.Next()
	assert.True(t, errors.Is(err, ErrGenerateRequired))

	require.True(t, c.SearchPlace(context.Background(), "pier"))
	require.Len(t, shown, 1)
	require.NotNil(t, c.Answers().Place)
	assert.Equal(t, "abc", c.Answers().Place.ExternalID)
	assert.Len(t, c.Recent(), 1)

	inv, err := c.Generate()
	require.NoError(t, err)
	assert.Equal(t, "date-plan-for-sam.pdf", inv.FileName)
	assert.Equal(t, StepDone, c.Step())
	assert.Nil(t, c.Recent(), "recent places live only during the location step")

	_, err = c.Generate()
	require.NoError(t, err)
	require.Len(t, rendered, 2)
	assert.Equal(t, rendered[0], rendered[1])

	want := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, rendered[0].When.Equal(want))
}

func TestController_ClockFollowsDate(t *testing.T) {
	c := NewController(nil, zerolog.Nop(), WithLocation(time.UTC))

	c.SetClock(Clock{Hour: 18, Minute: 30})
	assert.Nil(t, c.Answers().When, "a clock alone does not make a date")

	c.SelectDate(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	require.NotNil(t, c.Answers().When)
	assert.Equal(t, time.Date(2024, 6, 1, 18, 30, 0, 0, time.UTC), *c.Answers().When)

	c.SetClock(Clock{Hour: 7, Minute: 5})
	assert.Equal(t, time.Date(2024, 6, 1, 7, 5, 0, 0, time.UTC), *c.Answers().When)
}

func TestController_DayCanBeChangedAndCleared(t *testing.T) {
	c := NewController(nil, zerolog.Nop(), WithLocation(time.UTC))
	c.SetRecipientName("Sam")
	_, err := c.Next()
	require.NoError(t, err)

	c.SetClock(Clock{Hour: 19, Minute: 0})
	c.SelectDate(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	c.SelectDate(time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 6, 8, 19, 0, 0, 0, time.UTC), *c.Answers().When)

	c.ClearDate()
	assert.Nil(t, c.Answers().When)
	_, err = c.Next()
	assert.True(t, errors.Is(err, ErrStepIncomplete), "a cleared day blocks the step again")

	c.SetClock(Clock{Hour: 20, Minute: 15})
	assert.Nil(t, c.Answers().When)
	c.SelectDate(time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 6, 9, 20, 15, 0, 0, time.UTC), *c.Answers().When)
	step, err := c.Next()
	require.NoError(t, err)
	assert.Equal(t, StepCuisine, step)
}

func TestController_RejectsUnknownOptions(t *testing.T) {
	c := NewController(nil, zerolog.Nop())
	assert.True(t, errors.Is(c.SelectCuisine("martian"), model.ErrUnknownOption))
	assert.True(t, errors.Is(c.SelectDessert("gravel"), model.ErrUnknownOption))
	assert.Equal(t, model.CuisineID(""), c.Answers().Cuisine)
}

func TestController_BackLeavesLocation(t *testing.T) {
	finder := &stubFinder{results: map[string][]places.Result{"pier": {pier()}}}
	shown := 0
	c := NewController(finder, zerolog.Nop(),
		WithPlaceShown(func(context.Context, model.PlaceRef, places.View) { shown++ }))

	walkToLocation(t, c)
	require.True(t, c.SearchPlace(context.Background(), "pier"))
	assert.True(t, c.ShareLocation(40.7, -74, 5))

	step, ok := c.Back()
	require.True(t, ok)
	assert.Equal(t, StepActivities, step)
	assert.Nil(t, c.Recent())
	assert.False(t, c.SearchPlace(context.Background(), "pier"))
	assert.False(t, c.ShareLocation(40.7, -74, 5))
	assert.Equal(t, places.DefaultView, c.View())

	// The chosen place survives; the recent list starts over.
	require.NotNil(t, c.Answers().Place)
	_, err := c.Next()
	require.NoError(t, err)
	assert.Empty(t, c.Recent())
	assert.Equal(t, 1, shown)

	require.True(t, c.SelectRecentPlace(context.Background(), "abc"))
	assert.Equal(t, 2, shown)
}

func TestController_GenerateFailureKeepsStep(t *testing.T) {
	finder := &stubFinder{results: map[string][]places.Result{"pier": {pier()}}}
	c := NewController(finder, zerolog.Nop(),
		WithRenderer(func(model.Answers) (*document.Invitation, error) { return nil, errors.New("layout") }))

	walkToLocation(t, c)
	_, err := c.Generate()
	assert.True(t, errors.Is(err, ErrStepIncomplete), "no place chosen yet")

	require.True(t, c.SearchPlace(context.Background(), "pier"))
	_, err = c.Generate()
	assert.EqualError(t, err, "layout")
	assert.Equal(t, StepLocation, c.Step())
	assert.Len(t, c.Recent(), 1)
}

func TestController_RealRenderer(t *testing.T) {
	finder := &stubFinder{results: map[string][]places.Result{"pier": {pier()}}}
	c := NewController(finder, zerolog.Nop(), WithLocation(time.UTC))

	walkToLocation(t, c)
	require.True(t, c.SearchPlace(context.Background(), "pier"))
	inv, err := c.Generate()
	require.NoError(t, err)
	assert.NotEmpty(t, inv.Data)
}

func TestParseClock(t *testing.T) {
	got, err := ParseClock(" 18:30 ")
	require.NoError(t, err)
	assert.Equal(t, Clock{Hour: 18, Minute: 30}, got)
	assert.Equal(t, "18:30", got.String())

	got, err = ParseClock("7:05")
	require.NoError(t, err)
	assert.Equal(t, "07:05", got.String())

	for _, bad := range []string{"", "1830", "24:00", "12:60", "ab:cd", "12:5"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}
