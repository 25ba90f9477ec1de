package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"DatePlanBot/wizard"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/go-telegram/ui/keyboard/reply"
)

// CallbackPrefix starts the data of every button this handler builds. The
// bot routes all of them to WizardBotHandler.Callback.
const CallbackPrefix = "dp|"

// Telegram rejects longer callback data.
const maxCallbackData = 64

const (
	actionNone     = "-"
	actionBack     = "b"
	actionNext     = "n"
	actionOption   = "o"
	actionRecent   = "r"
	actionGenerate = "g"
	actionDay      = "d"
	actionMonth    = "m"
)

const (
	dayFormat   = "2006-01-02"
	monthFormat = "2006-01"
)

var errBadCallback = errors.New("malformed callback data")

// callback is what a button carries: the session it was made for, the step
// it belongs to and what it does.
type callback struct {
	token  string
	step   wizard.Step
	action string
	arg    string
}

func (c callback) data() string {
	return CallbackPrefix + strings.Join([]string{c.token, strconv.Itoa(int(c.step)), c.action, c.arg}, "|")
}

func parseCallback(data string) (callback, error) {
	rest, ok := strings.CutPrefix(data, CallbackPrefix)
	if !ok {
		return callback{}, fmt.Errorf("%w: %q", errBadCallback, data)
	}
	parts := strings.SplitN(rest, "|", 4)
	if len(parts) != 4 || parts[0] == "" || parts[2] == "" {
		return callback{}, fmt.Errorf("%w: %q", errBadCallback, data)
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil || !wizard.Step(n).Valid() {
		return callback{}, fmt.Errorf("%w: bad step in %q", errBadCallback, data)
	}
	return callback{token: parts[0], step: wizard.Step(n), action: parts[2], arg: parts[3]}, nil
}

// keyboard builds an inline keyboard whose buttons all belong to one step
// of one session.
type keyboard struct {
	token string
	step  wizard.Step
	rows  [][]models.InlineKeyboardButton
}

func newKeyboard(token string, step wizard.Step) *keyboard {
	return &keyboard{token: token, step: step, rows: [][]models.InlineKeyboardButton{{}}}
}

func (kb *keyboard) Row() *keyboard {
	if len(kb.rows[len(kb.rows)-1]) > 0 {
		kb.rows = append(kb.rows, []models.InlineKeyboardButton{})
	}
	return kb
}

// Button adds a button to the current row. Buttons whose data would not fit
// in a callback are left out.
func (kb *keyboard) Button(text, action, arg string) *keyboard {
	data := callback{token: kb.token, step: kb.step, action: action, arg: arg}.data()
	if len(data) > maxCallbackData {
		return kb
	}
	last := len(kb.rows) - 1
	kb.rows[last] = append(kb.rows[last], models.InlineKeyboardButton{Text: text, CallbackData: data})
	return kb
}

func (kb *keyboard) Markup() *models.InlineKeyboardMarkup {
	rows := kb.rows
	if len(rows[len(rows)-1]) == 0 {
		rows = rows[:len(rows)-1]
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

var weekdays = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// Calendar adds a month grid with month navigation. Weeks start on Monday;
// the selected day is shown in brackets.
func (kb *keyboard) Calendar(month time.Time, selected *time.Time) *keyboard {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)

	kb.Row().
		Button("«", actionMonth, first.AddDate(0, -1, 0).Format(monthFormat)).
		Button(first.Format("January 2006"), actionNone, "").
		Button("»", actionMonth, first.AddDate(0, 1, 0).Format(monthFormat))

	kb.Row()
	for _, d := range weekdays {
		kb.Button(d, actionNone, "")
	}

	offset := (int(first.Weekday()) + 6) % 7
	days := first.AddDate(0, 1, -1).Day()
	kb.Row()
	for i := 0; i < offset; i++ {
		kb.Button(" ", actionNone, "")
	}
	for day := 1; day <= days; day++ {
		if day > 1 && (offset+day-1)%7 == 0 {
			kb.Row()
		}
		date := first.AddDate(0, 0, day-1)
		label := strconv.Itoa(day)
		if selected != nil && sameDay(*selected, date) {
			label = "[" + label + "]"
		}
		kb.Button(label, actionDay, date.Format(dayFormat))
	}
	if tail := (offset + days) % 7; tail != 0 {
		for i := tail; i < 7; i++ {
			kb.Button(" ", actionNone, "")
		}
	}
	return kb
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

var clockShortcuts = []string{"12:00", "18:00", "18:30", "19:00", "20:00"}

// clockKeyboard offers common times. Taps arrive as plain text and go
// through the same route as a typed HH:MM, so no handler is registered.
func clockKeyboard() *reply.ReplyKeyboard {
	kb := reply.New(reply.IsOneTimeKeyboard(), reply.ResizableKeyboard())
	for _, c := range clockShortcuts {
		kb = kb.Button(c, nil, bot.MatchTypeExact, nil)
	}
	return kb
}
