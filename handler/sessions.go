package handler

import (
	"context"
	"sync"
	"time"

	"DatePlanBot/wizard"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// session is one chat's wizard. mu serializes every update of the chat.
type session struct {
	mu     sync.Mutex
	id     string
	token  string // carried by the session's buttons
	chatID int64
	ctrl   *wizard.Controller
	log    zerolog.Logger

	// month is the month the calendar shows.
	month time.Time

	stopCelebration context.CancelFunc
}

func (s *session) close() {
	if s.stopCelebration != nil {
		s.stopCelebration()
		s.stopCelebration = nil
	}
	s.ctrl.Close()
}

type sessionStore struct {
	mu     sync.Mutex
	byChat map[int64]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{byChat: make(map[int64]*session)}
}

func (st *sessionStore) get(chatID int64) (*session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.byChat[chatID]
	return s, ok
}

// current reports whether s is still the live session of its chat.
func (st *sessionStore) current(s *session) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.byChat[s.chatID] == s
}

// start replaces the chat's session with a fresh one built by newCtrl.
func (st *sessionStore) start(chatID int64, log zerolog.Logger, newCtrl func(s *session) *wizard.Controller) *session {
	id := uuid.NewString()
	s := &session{
		id:     id,
		token:  id[:8],
		chatID: chatID,
	}
	s.log = log.With().Int64("chat_id", chatID).Str("session_id", s.id).Logger()
	s.ctrl = newCtrl(s)

	st.mu.Lock()
	old := st.byChat[chatID]
	st.byChat[chatID] = s
	st.mu.Unlock()

	if old != nil {
		old.mu.Lock()
		old.close()
		old.mu.Unlock()
	}
	return s
}

func (st *sessionStore) drop(chatID int64) bool {
	st.mu.Lock()
	s, ok := st.byChat[chatID]
	delete(st.byChat, chatID)
	st.mu.Unlock()

	if ok {
		s.mu.Lock()
		s.close()
		s.mu.Unlock()
	}
	return ok
}

func (st *sessionStore) len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.byChat)
}
