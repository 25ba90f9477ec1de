package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswers_WithLeavesReceiverUntouched(t *testing.T) {
	empty := Answers{}
	named := empty.WithRecipientName("Sam")

	assert.Equal(t, "", empty.RecipientName)
	assert.Equal(t, "Sam", named.RecipientName)

	when := time.Date(2024, 6, 1, 18, 30, 0, 0, time.UTC)
	dated := named.WithWhen(when)
	assert.Nil(t, named.When)
	require.NotNil(t, dated.When)
	assert.True(t, dated.When.Equal(when))
	assert.Nil(t, dated.WithoutWhen().When)
}

func TestAnswers_HasRecipient(t *testing.T) {
	assert.False(t, Answers{}.HasRecipient())
	assert.False(t, Answers{RecipientName: "   "}.HasRecipient())
	assert.True(t, Answers{RecipientName: "Sam"}.HasRecipient())
}

func TestAnswers_Validate(t *testing.T) {
	when := time.Date(2024, 6, 1, 18, 30, 0, 0, time.UTC)
	place := PlaceRef{DisplayName: "Pier 7", ExternalID: "abc"}

	t.Run("missing place", func(t *testing.T) {
		err := Answers{}.WithWhen(when).Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingField))

		var mf *MissingFieldError
		require.True(t, errors.As(err, &mf))
		assert.Equal(t, "place", mf.Field)
	})

	t.Run("missing when", func(t *testing.T) {
		err := Answers{}.WithPlace(place).Validate()
		var mf *MissingFieldError
		require.True(t, errors.As(err, &mf))
		assert.Equal(t, "when", mf.Field)
	})

	t.Run("complete", func(t *testing.T) {
		assert.NoError(t, Answers{}.WithWhen(when).WithPlace(place).Validate())
	})
}

func TestLookupCatalog(t *testing.T) {
	c, err := LookupCuisine("thai")
	require.NoError(t, err)
	assert.Equal(t, CuisineThai, c)

	_, err = LookupCuisine("klingon")
	assert.True(t, errors.Is(err, ErrUnknownOption))

	d, err := LookupDessert("icecream")
	require.NoError(t, err)
	assert.Equal(t, DessertIceCream, d)
	assert.Equal(t, "Ice Cream", OptionName(Desserts, string(d)))
	assert.Equal(t, "gelato", OptionName(Desserts, "gelato"))
}

func TestBoundsAround(t *testing.T) {
	b := BoundsAround(40.7128, -74.0060, 5)

	assert.Less(t, b.South, 40.7128)
	assert.Greater(t, b.North, 40.7128)
	assert.Less(t, b.West, -74.0060)
	assert.Greater(t, b.East, -74.0060)

	lat, lng := b.Center()
	assert.InDelta(t, 40.7128, lat, 1e-9)
	assert.InDelta(t, -74.0060, lng, 1e-9)
	// Longitude degrees are shorter away from the equator.
	assert.Greater(t, b.East-b.West, b.North-b.South)
}
