package handler

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"DatePlanBot/wizard"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallback_RoundTrip(t *testing.T) {
	cb := callback{token: "a1b2c3d4", step: wizard.StepDateTime, action: actionDay, arg: "2024-06-01"}
	data := cb.data()
	assert.True(t, strings.HasPrefix(data, CallbackPrefix))

	got, err := parseCallback(data)
	require.NoError(t, err)
	assert.Equal(t, cb, got)

	cb = callback{token: "a1b2c3d4", step: wizard.StepLocation, action: actionRecent, arg: "ChIJ|odd|id"}
	got, err = parseCallback(cb.data())
	require.NoError(t, err)
	assert.Equal(t, "ChIJ|odd|id", got.arg, "the last field keeps its separators")
}

func TestParseCallback_Malformed(t *testing.T) {
	for _, data := range []string{
		"",
		"other|a1b2c3d4|1|n|",
		"dp|a1b2c3d4|1|n",
		"dp||1|n|",
		"dp|a1b2c3d4|one|n|",
		"dp|a1b2c3d4|99|n|",
		"dp|a1b2c3d4|1||",
	} {
		_, err := parseCallback(data)
		assert.ErrorIs(t, err, errBadCallback, data)
	}
}

func TestKeyboard_SkipsOversizedData(t *testing.T) {
	kb := newKeyboard("a1b2c3d4", wizard.StepLocation).
		Button("fits", actionRecent, "abc").
		Button("too long", actionRecent, strings.Repeat("x", maxCallbackData))

	rows := kb.Markup().InlineKeyboard
	require.Len(t, rows, 1)
	require.Len(t, rows[0], 1)
	assert.Equal(t, "fits", rows[0][0].Text)
	assert.LessOrEqual(t, len(rows[0][0].CallbackData), maxCallbackData)
}

func TestKeyboard_RowsAndMarkup(t *testing.T) {
	kb := newKeyboard("a1b2c3d4", wizard.StepCuisine).
		Row().
		Button("A", actionOption, "a").
		Row().
		Row().
		Button("B", actionOption, "b").
		Row()

	rows := kb.Markup().InlineKeyboard
	require.Len(t, rows, 2, "empty rows are not emitted")
	assert.Equal(t, "A", rows[0][0].Text)
	assert.Equal(t, "B", rows[1][0].Text)
}

func texts(row []models.InlineKeyboardButton) []string {
	out := make([]string, len(row))
	for i, b := range row {
		out[i] = b.Text
	}
	return out
}

func TestKeyboard_Calendar(t *testing.T) {
	selected := time.Date(2024, 6, 1, 18, 30, 0, 0, time.UTC)
	rows := newKeyboard("a1b2c3d4", wizard.StepDateTime).
		Calendar(time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC), &selected).
		Markup().InlineKeyboard

	// Navigation, weekday names and five weeks.
	require.Len(t, rows, 7)
	assert.Equal(t, []string{"«", "June 2024", "»"}, texts(rows[0]))
	prev, err := parseCallback(rows[0][0].CallbackData)
	require.NoError(t, err)
	assert.Equal(t, actionMonth, prev.action)
	assert.Equal(t, "2024-05", prev.arg)
	next, err := parseCallback(rows[0][2].CallbackData)
	require.NoError(t, err)
	assert.Equal(t, "2024-07", next.arg)

	assert.Equal(t, weekdays, texts(rows[1]))

	// June 1st 2024 is a Saturday.
	assert.Equal(t, []string{" ", " ", " ", " ", " ", "[1]", "2"}, texts(rows[2]))
	day, err := parseCallback(rows[2][5].CallbackData)
	require.NoError(t, err)
	assert.Equal(t, callback{token: "a1b2c3d4", step: wizard.StepDateTime, action: actionDay, arg: "2024-06-01"}, day)
	blank, err := parseCallback(rows[2][0].CallbackData)
	require.NoError(t, err)
	assert.Equal(t, actionNone, blank.action)

	assert.Equal(t, []string{"3", "4", "5", "6", "7", "8", "9"}, texts(rows[3]))
	assert.Equal(t, []string{"24", "25", "26", "27", "28", "29", "30"}, texts(rows[6]))
	for _, row := range rows[1:] {
		assert.Len(t, row, 7)
	}
}

func TestKeyboard_CalendarPadsLastWeek(t *testing.T) {
	// July 2024 starts on a Monday and ends on a Wednesday.
	rows := newKeyboard("a1b2c3d4", wizard.StepDateTime).
		Calendar(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), nil).
		Markup().InlineKeyboard

	require.Len(t, rows, 7)
	assert.Equal(t, "1", rows[2][0].Text)
	assert.Equal(t, []string{"29", "30", "31", " ", " ", " ", " "}, texts(rows[6]))
	for _, row := range rows {
		for _, b := range row {
			assert.NotContains(t, b.Text, "[", "nothing is selected")
		}
	}
}

func TestClockKeyboard(t *testing.T) {
	data, err := json.Marshal(clockKeyboard())
	require.NoError(t, err)

	var markup models.ReplyKeyboardMarkup
	require.NoError(t, json.Unmarshal(data, &markup))
	assert.True(t, markup.OneTimeKeyboard)
	assert.True(t, markup.ResizeKeyboard)
	require.Len(t, markup.Keyboard, 1)
	require.Len(t, markup.Keyboard[0], len(clockShortcuts))
	assert.Equal(t, "18:30", markup.Keyboard[0][2].Text)

	for _, c := range clockShortcuts {
		_, err := wizard.ParseClock(c)
		assert.NoError(t, err, c)
	}
}
