package handler

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"DatePlanBot/celebrate"
	"DatePlanBot/config"
	"DatePlanBot/model"
	"DatePlanBot/places"
	"DatePlanBot/wizard"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
)

type WizardBotHandler struct {
	finder      places.Finder
	location    *time.Location
	radiusKm    float64
	celebration config.CelebrationConfig
	render      wizard.Renderer
	now         func() time.Time
	log         zerolog.Logger
	sessions    *sessionStore
}

func NewWizardBotHandler(
	finder places.Finder,
	cfg config.Config,
	log zerolog.Logger,
) (*WizardBotHandler, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return &WizardBotHandler{
		finder:      finder,
		location:    loc,
		radiusKm:    cfg.Search.BiasRadiusKm,
		celebration: cfg.Celebration,
		now:         time.Now,
		log:         log.With().Str("component", "wizard_bot").Logger(),
		sessions:    newSessionStore(),
	}, nil
}

func (h *WizardBotHandler) newController(m messenger) func(s *session) *wizard.Controller {
	return func(s *session) *wizard.Controller {
		opts := []wizard.Option{
			wizard.WithLocation(h.location),
			wizard.WithPlaceShown(func(ctx context.Context, place model.PlaceRef, view places.View) {
				h.showPlace(ctx, m, s, place, view)
			}),
		}
		if h.render != nil {
			opts = append(opts, wizard.WithRenderer(h.render))
		}
		return wizard.NewController(h.finder, s.log, opts...)
	}
}

// Handler is the default update handler of the bot.
func (h *WizardBotHandler) Handler(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handleMessage(ctx, b, update.Message)
}

// Callback handles every button press whose data starts with
// CallbackPrefix.
func (h *WizardBotHandler) Callback(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handleCallback(ctx, b, update.CallbackQuery)
}

func (h *WizardBotHandler) handleMessage(ctx context.Context, m messenger, msg *models.Message) {
	if msg == nil {
		return
	}
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	switch text {
	case "/start":
		s := h.sessions.start(chatID, h.log, h.newController(m))
		s.log.Info().Msg("wizard started")
		s.mu.Lock()
		defer s.mu.Unlock()
		h.sendStep(ctx, m, s)
		return
	case "/help":
		h.send(ctx, m, chatID, helpText, nil)
		return
	case "/cancel":
		if h.sessions.drop(chatID) {
			h.log.Info().Int64("chat_id", chatID).Msg("wizard cancelled")
			h.send(ctx, m, chatID, "Okay, plan cancelled. Use /start to begin again.", nil)
			return
		}
		h.send(ctx, m, chatID, noSessionText, nil)
		return
	}

	s, ok := h.sessions.get(chatID)
	if !ok {
		h.send(ctx, m, chatID, noSessionText, nil)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !h.sessions.current(s) {
		return
	}

	switch {
	case text == "/back":
		h.back(ctx, m, s)
	case msg.Location != nil:
		if notice := h.applyLocation(s, msg.Location.Latitude, msg.Location.Longitude); notice != "" {
			h.send(ctx, m, chatID, notice, nil)
		}
	case text != "" && !strings.HasPrefix(text, "/"):
		notice, rerender := h.applyText(ctx, s, text)
		if notice != "" {
			h.send(ctx, m, chatID, notice, nil)
		}
		if rerender {
			h.sendStep(ctx, m, s)
		}
	default:
		h.send(ctx, m, chatID, unknownText, nil)
	}
}

func (h *WizardBotHandler) handleCallback(ctx context.Context, m messenger, q *models.CallbackQuery) {
	if q == nil {
		return
	}
	answer := ""
	defer func() {
		_, err := m.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: q.ID, Text: answer})
		if err != nil {
			h.log.Debug().Err(err).Msg("error answering callback")
		}
	}()

	cb, err := parseCallback(q.Data)
	if err != nil {
		h.log.Warn().Err(err).Msg("callback ignored")
		return
	}
	s, ok := h.sessions.get(chatOf(q.Message))
	if !ok {
		answer = noSessionText
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !h.sessions.current(s) || cb.token != s.token || cb.step != s.ctrl.Step() {
		s.log.Debug().Str("data", q.Data).Msg("stale button ignored")
		answer = "This button has expired."
		return
	}

	messageID := 0
	if q.Message.Message != nil {
		messageID = q.Message.Message.ID
	}

	switch cb.action {
	case actionNone:
	case actionBack:
		h.back(ctx, m, s)
	case actionNext:
		h.next(ctx, m, s)
	case actionOption:
		h.selectOption(ctx, m, s, cb.arg)
	case actionRecent:
		h.selectRecent(ctx, m, s, cb.arg)
	case actionGenerate:
		h.generate(ctx, m, s)
	case actionDay:
		h.selectDay(ctx, m, s, cb.arg, messageID)
	case actionMonth:
		h.showMonth(ctx, m, s, cb.arg, messageID)
	default:
		s.log.Warn().Str("action", cb.action).Msg("unknown button action")
	}
}

func chatOf(mes models.MaybeInaccessibleMessage) int64 {
	switch {
	case mes.Message != nil:
		return mes.Message.Chat.ID
	case mes.InaccessibleMessage != nil:
		return mes.InaccessibleMessage.Chat.ID
	}
	return 0
}

// applyText feeds a plain message to the step the wizard is on. It returns
// a notice for the chat and whether the step should be shown again.
func (h *WizardBotHandler) applyText(ctx context.Context, s *session, text string) (string, bool) {
	switch step := s.ctrl.Step(); step {
	case wizard.StepIntro:
		s.ctrl.SetRecipientName(text)
		return "", true
	case wizard.StepDateTime:
		clock, err := wizard.ParseClock(text)
		if err != nil {
			return "Please send the time as HH:MM, for example 18:30.", false
		}
		s.ctrl.SetClock(clock)
		return "", true
	case wizard.StepActivities:
		s.ctrl.SetActivities(text)
		return "", true
	case wizard.StepLocation:
		if !s.ctrl.SearchPlace(ctx, text) {
			return noPlaceText, false
		}
		return "", true
	case wizard.StepCuisine, wizard.StepDessert:
		return "Tap one of the buttons to choose.", true
	default:
		return "", true
	}
}

func (h *WizardBotHandler) applyLocation(s *session, lat, lng float64) string {
	if !s.ctrl.ShareLocation(lat, lng, h.radiusKm) {
		return ""
	}
	s.log.Debug().Float64("lat", lat).Float64("lng", lng).Msg("location shared")
	return "Got it! I'll look for places near you."
}

func (h *WizardBotHandler) back(ctx context.Context, m messenger, s *session) {
	step, ok := s.ctrl.Back()
	if !ok {
		h.send(ctx, m, s.chatID, "This is the first step.", nil)
		return
	}
	h.enterStep(ctx, m, s, step)
}

func (h *WizardBotHandler) next(ctx context.Context, m messenger, s *session) {
	step, err := s.ctrl.Next()
	switch {
	case err == nil:
		s.log.Debug().Stringer("step", step).Msg("advanced")
		h.enterStep(ctx, m, s, step)
		return
	case errors.Is(err, wizard.ErrStepIncomplete):
		h.send(ctx, m, s.chatID, hint(step), nil)
	case errors.Is(err, wizard.ErrGenerateRequired), errors.Is(err, wizard.ErrFinished):
		s.log.Debug().Err(err).Stringer("step", step).Msg("next ignored")
	default:
		s.log.Error().Err(err).Msg("error advancing wizard")
	}
	h.sendStep(ctx, m, s)
}

// enterStep shows a step the wizard has just moved to.
func (h *WizardBotHandler) enterStep(ctx context.Context, m messenger, s *session, step wizard.Step) {
	if step == wizard.StepDateTime {
		h.send(ctx, m, s.chatID, "Pick a time below, or send one as HH:MM.", clockKeyboard())
	}
	h.sendStep(ctx, m, s)
}

// sendStep shows the current step with its keyboard.
func (h *WizardBotHandler) sendStep(ctx context.Context, m messenger, s *session) {
	step := s.ctrl.Step()
	a := s.ctrl.Answers()
	text := prompt(step, a, s.ctrl.Clock())

	switch step {
	case wizard.StepIntro:
		if !a.HasRecipient() {
			h.send(ctx, m, s.chatID, text, nil)
			return
		}
		h.send(ctx, m, s.chatID, text, h.navKeyboard(s, step, false).Markup())
	case wizard.StepDateTime:
		h.send(ctx, m, s.chatID, text, h.dateKeyboard(s).Markup())
	case wizard.StepCuisine:
		h.send(ctx, m, s.chatID, text, h.optionKeyboard(s, step, model.Cuisines, string(a.Cuisine)).Markup())
	case wizard.StepDessert:
		h.send(ctx, m, s.chatID, text, h.optionKeyboard(s, step, model.Desserts, string(a.Dessert)).Markup())
	case wizard.StepActivities:
		h.send(ctx, m, s.chatID, text, h.navKeyboard(s, step, true).Markup())
	case wizard.StepLocation:
		h.send(ctx, m, s.chatID, text, h.locationKeyboard(s).Markup())
	case wizard.StepDone:
		kb := newKeyboard(s.token, step).
			Button("⬅ Back", actionBack, "").
			Button(generateLabel(step), actionGenerate, "")
		h.send(ctx, m, s.chatID, text, kb.Markup())
	}
}

func (h *WizardBotHandler) navKeyboard(s *session, step wizard.Step, withBack bool) *keyboard {
	kb := newKeyboard(s.token, step)
	if withBack {
		kb.Button("⬅ Back", actionBack, "")
	}
	return kb.Button("Next ❤", actionNext, "")
}

// dateKeyboard is the calendar for the shown month, then Back and Next.
// The calendar stays up after a pick so the day can be changed.
func (h *WizardBotHandler) dateKeyboard(s *session) *keyboard {
	when := s.ctrl.Answers().When
	if s.month.IsZero() {
		if when != nil {
			s.month = firstOfMonth(*when)
		} else {
			s.month = firstOfMonth(h.now().In(h.location))
		}
	}
	return newKeyboard(s.token, wizard.StepDateTime).
		Calendar(s.month, when).
		Row().
		Button("⬅ Back", actionBack, "").
		Button("Next ❤", actionNext, "")
}

// optionKeyboard lays a food grid out two tiles per row, then Back and Next.
func (h *WizardBotHandler) optionKeyboard(s *session, step wizard.Step, options []model.Option, selected string) *keyboard {
	kb := newKeyboard(s.token, step)
	for i, o := range options {
		if i%2 == 0 {
			kb.Row()
		}
		kb.Button(optionLabel(o, selected), actionOption, o.ID)
	}
	return kb.Row().
		Button("⬅ Back", actionBack, "").
		Button("Next ❤", actionNext, "")
}

func (h *WizardBotHandler) locationKeyboard(s *session) *keyboard {
	step := wizard.StepLocation
	kb := newKeyboard(s.token, step)
	for _, r := range s.ctrl.Recent() {
		kb.Row().Button("📍 "+r.DisplayName, actionRecent, r.ExternalID)
	}
	return kb.Row().
		Button("⬅ Back", actionBack, "").
		Button(generateLabel(step), actionGenerate, "")
}

// selectDay picks the pressed day, or clears it when it was already the
// chosen one, and redraws the calendar in place.
func (h *WizardBotHandler) selectDay(ctx context.Context, m messenger, s *session, arg string, messageID int) {
	day, err := time.ParseInLocation(dayFormat, arg, h.location)
	if err != nil {
		s.log.Warn().Err(err).Msg("bad day button")
		return
	}
	if when := s.ctrl.Answers().When; when != nil && sameDay(*when, day) {
		s.ctrl.ClearDate()
	} else {
		s.ctrl.SelectDate(day)
	}
	s.month = firstOfMonth(day)
	h.redrawDate(ctx, m, s, messageID)
}

func (h *WizardBotHandler) showMonth(ctx context.Context, m messenger, s *session, arg string, messageID int) {
	month, err := time.Parse(monthFormat, arg)
	if err != nil {
		s.log.Warn().Err(err).Msg("bad month button")
		return
	}
	s.month = firstOfMonth(month)
	h.redrawDate(ctx, m, s, messageID)
}

func (h *WizardBotHandler) redrawDate(ctx context.Context, m messenger, s *session, messageID int) {
	if messageID == 0 {
		h.sendStep(ctx, m, s)
		return
	}
	_, err := m.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      s.chatID,
		MessageID:   messageID,
		Text:        prompt(wizard.StepDateTime, s.ctrl.Answers(), s.ctrl.Clock()),
		ReplyMarkup: h.dateKeyboard(s).Markup(),
	})
	if err != nil {
		s.log.Debug().Err(err).Msg("error redrawing calendar")
	}
}

func (h *WizardBotHandler) selectOption(ctx context.Context, m messenger, s *session, id string) {
	options := model.Cuisines
	var err error
	if s.ctrl.Step() == wizard.StepDessert {
		options = model.Desserts
		err = s.ctrl.SelectDessert(id)
	} else {
		err = s.ctrl.SelectCuisine(id)
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("error selecting option")
		h.sendStep(ctx, m, s)
		return
	}

	for _, o := range options {
		if o.ID != id {
			continue
		}
		_, err := m.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:  s.chatID,
			Photo:   &models.InputFileString{Data: o.Image},
			Caption: o.Name,
		})
		if err != nil {
			s.log.Warn().Err(err).Msg("error sending option photo")
		}
	}
	h.sendStep(ctx, m, s)
}

func (h *WizardBotHandler) selectRecent(ctx context.Context, m messenger, s *session, placeID string) {
	if !s.ctrl.SelectRecentPlace(ctx, placeID) {
		h.send(ctx, m, s.chatID, noPlaceText, nil)
	}
	h.sendStep(ctx, m, s)
}

func (h *WizardBotHandler) showPlace(ctx context.Context, m messenger, s *session, place model.PlaceRef, view places.View) {
	s.log.Info().
		Str("place_id", place.ExternalID).
		Float64("lat", view.Latitude).Float64("lng", view.Longitude).Int("zoom", view.Zoom).
		Msg("place chosen")

	title := place.DisplayName
	if title == "" {
		title = "Our Special Place"
	}
	address := place.FormattedAddress
	if address == "" {
		address = title
	}
	_, err := m.SendVenue(ctx, &bot.SendVenueParams{
		ChatID:        s.chatID,
		Latitude:      view.Latitude,
		Longitude:     view.Longitude,
		Title:         title,
		Address:       address,
		GooglePlaceID: place.ExternalID,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("error sending venue")
	}
}

// generate renders and sends the plan. The step keeps its place when
// rendering fails.
func (h *WizardBotHandler) generate(ctx context.Context, m messenger, s *session) {
	inv, err := s.ctrl.Generate()
	if errors.Is(err, wizard.ErrStepIncomplete) {
		h.send(ctx, m, s.chatID, hint(s.ctrl.Step()), nil)
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("error generating plan")
		h.send(ctx, m, s.chatID, failedPDFText, nil)
		return
	}

	_, err = m.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID:   s.chatID,
		Document: &models.InputFileUpload{Filename: inv.FileName, Data: bytes.NewReader(inv.Data)},
	})
	if err != nil {
		s.log.Error().Err(err).Msg("error sending plan")
		h.send(ctx, m, s.chatID, failedPDFText, nil)
		return
	}
	s.log.Info().Str("file", inv.FileName).Int("bytes", len(inv.Data)).Msg("plan sent")

	h.sendStep(ctx, m, s)
	h.celebrate(ctx, m, s)
}

// celebrate fires confetti onto a card in the background and sends it
// once the schedule is over. A newer celebration cancels the older one.
func (h *WizardBotHandler) celebrate(ctx context.Context, m messenger, s *session) {
	if !h.celebration.Enabled {
		return
	}
	if s.stopCelebration != nil {
		s.stopCelebration()
	}
	cctx, cancel := context.WithCancel(ctx)
	s.stopCelebration = cancel

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	schedule := celebrate.Schedule{
		Duration: h.celebration.Duration,
		Interval: h.celebration.Interval,
		Rand:     r,
	}
	card := celebrate.NewCard(h.celebration.Width, h.celebration.Height, rand.New(rand.NewSource(r.Int63())))
	caption := celebrationCaption(s.ctrl.Answers())
	chatID, log := s.chatID, s.log

	go func() {
		defer cancel()
		shots := celebrate.Run(cctx, schedule, card.Add)
		if cctx.Err() != nil {
			log.Debug().Int("shots", shots).Msg("celebration cancelled")
			return
		}
		png, err := card.PNG(caption...)
		if err != nil {
			log.Warn().Err(err).Msg("error drawing celebration")
			return
		}
		_, err = m.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID: chatID,
			Photo:  &models.InputFileUpload{Filename: "celebration.png", Data: bytes.NewReader(png)},
		})
		if err != nil {
			log.Warn().Err(err).Msg("error sending celebration")
		}
	}()
}

func (h *WizardBotHandler) send(ctx context.Context, m messenger, chatID int64, text string, markup models.ReplyMarkup) {
	params := &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: markup,
	}
	if _, err := m.SendMessage(ctx, params); err != nil {
		h.log.Error().Err(err).Int64("chat_id", chatID).Msg("error sending message")
	}
}
