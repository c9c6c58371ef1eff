package handler

import (
	"fmt"
	"sync"

	"lstbot/internal/playback"

	"github.com/google/uuid"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// session is the playback state of one user
type session struct {
	id          string
	engine      *playback.Engine
	renderer    *renderer
	unsubscribe func()
}

// Sessions keeps one playback engine per user
type Sessions struct {
	sender   Sender
	loader   playback.Loader
	idleClip string
	clock    playback.Clock
	logger   *zap.Logger

	mu       sync.RWMutex
	sessions map[int64]*session
	closed   bool
}

// NewSessions creates an empty registry. Clips are loaded through loader
// and sent with sender.
func NewSessions(sender Sender, loader playback.Loader, idleClip string, logger *zap.Logger) *Sessions {
	return &Sessions{
		sender:   sender,
		loader:   loader,
		idleClip: idleClip,
		clock:    playback.SystemClock(),
		logger:   logger,
		sessions: make(map[int64]*session),
	}
}

// Get returns the user's engine if one was opened
func (s *Sessions) Get(userID int64) (*playback.Engine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return nil, false
	}
	return sess.engine, true
}

// Open returns the user's engine, starting one that plays into chat if needed
func (s *Sessions) Open(userID int64, chat tele.Recipient) (*playback.Engine, error) {
	if engine, ok := s.Get(userID); ok {
		return engine, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("sessions closed")
	}
	if sess, ok := s.sessions[userID]; ok {
		return sess.engine, nil
	}

	sess := s.newSession(userID, chat)
	s.sessions[userID] = sess
	return sess.engine, nil
}

func (s *Sessions) newSession(userID int64, chat tele.Recipient) *session {
	id := uuid.NewString()
	logger := s.logger.With(zap.Int64("user_id", userID), zap.String("session", id))

	r := newRenderer(s.sender, chat, s.idleClip, s.clock, logger)
	engine := playback.New(s.loader, r, logger)
	r.onEnded = engine.ClipEnded

	sess := &session{id: id, engine: engine, renderer: r}
	sess.unsubscribe = engine.Subscribe(func(ev playback.Event) {
		s.notify(sess, ev)
	})
	engine.Start()

	logger.Info("Playback session opened")
	return sess
}

func (s *Sessions) notify(sess *session, ev playback.Event) {
	switch ev.Kind {
	case playback.EventClipFailed:
		sess.renderer.notify(fmt.Sprintf(msgClipFailed, ev.Sign.DisplayName))
	case playback.EventSequenceCompleted:
		sess.renderer.notify(msgSequenceDone, replayMarkup())
	}
}

// Len returns the number of open sessions
func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops every engine. Open fails afterwards.
func (s *Sessions) Close() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[int64]*session)
	s.closed = true
	s.mu.Unlock()

	for userID, sess := range sessions {
		sess.unsubscribe()
		sess.engine.Close()
		sess.renderer.close()
		s.logger.Debug("Playback session closed",
			zap.Int64("user_id", userID),
			zap.String("session", sess.id),
		)
	}
}
