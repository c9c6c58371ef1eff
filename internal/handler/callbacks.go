package handler

import (
	"fmt"
	"strings"
	"unicode"

	"lstbot/internal/domain"
	"lstbot/internal/playback"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// handleEditError handles errors from c.Edit() - if message is not modified, just acknowledge callback
// Otherwise, acknowledge callback and return error so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context, userID int64) error {
	if err == nil {
		return nil
	}

	// Another callback already edited the message
	if strings.Contains(err.Error(), "message is not modified") {
		h.logger.Debug("Message already modified by another callback, acknowledging",
			zap.Int64("user_id", userID),
			zap.String("callback_id", c.Callback().ID),
		)
		c.Respond()
		return nil
	}

	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("user_id", userID),
		zap.String("callback_id", c.Callback().ID),
	)
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// handleCallback handles callbacks that did not reach a button handler
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	data := cleanCallbackData(callback.Data)
	h.logger.Info("handleCallback: Processing callback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
		zap.Int64("user_id", c.Sender().ID),
	)

	action := callback.Unique
	if action == "" {
		action = data
	}

	switch {
	case action == btnLang.Unique:
		return h.handleLangSelection(c)
	case strings.HasPrefix(action, btnLang.Unique+"|"):
		return h.selectLanguage(c, strings.TrimPrefix(action, btnLang.Unique+"|"))
	case isControl(action):
		return h.control(c, action)
	}

	h.logger.Warn("Unhandled callback in handleCallback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
	)
	return c.Respond()
}

// handleLangSelection stores the language picked on the keyboard
func (h *Handler) handleLangSelection(c tele.Context) error {
	return h.selectLanguage(c, cleanCallbackData(c.Callback().Data))
}

func (h *Handler) selectLanguage(c tele.Context, code string) error {
	userID := c.Sender().ID

	lang, err := h.users.SetLanguage(userID, code)
	if err != nil {
		h.logger.Warn("Failed to set language", zap.String("code", code), zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: fmt.Sprintf(msgUnknownLang, languageCodes())})
	}

	text := fmt.Sprintf(msgLanguageSet, lang.DisplayName())
	if err := c.Edit(msgChooseLanguage, languageMarkup(lang)); err != nil {
		if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
			return nil
		}
		return c.Send(text)
	}
	return c.Respond(&tele.CallbackResponse{Text: text})
}

// handleControl handles the playback keyboard
func (h *Handler) handleControl(c tele.Context) error {
	return h.control(c, c.Callback().Unique)
}

func (h *Handler) control(c tele.Context, action string) error {
	userID := c.Sender().ID

	lock := h.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	engine, ok := h.sessions.Get(userID)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: msgNothingPlaying})
	}

	reply, err := h.apply(userID, engine, action)
	if err != nil {
		h.logger.Error("Failed to apply control",
			zap.String("action", action),
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return c.Respond(&tele.CallbackResponse{Text: msgInternalError})
	}
	return c.Respond(&tele.CallbackResponse{Text: reply})
}

// Engine is the playback surface driven by the keyboard
type Engine interface {
	Next() bool
	Previous() bool
	Pause() bool
	Resume() bool
	Replay() bool
	Stop() bool
	SetRate(rate float64) bool
	Snapshot() playback.Snapshot
}

var _ Engine = (*playback.Engine)(nil)

// apply runs one keyboard action and returns the text of the callback answer.
// Rate changes are stored as the user's preference.
func (h *Handler) apply(userID int64, engine Engine, action string) (string, error) {
	var done bool

	switch action {
	case btnPrev.Unique:
		done = engine.Previous()
	case btnNext.Unique:
		done = engine.Next()
	case btnPause.Unique:
		done = engine.Pause()
	case btnResume.Unique:
		done = engine.Resume()
	case btnReplay.Unique:
		if !engine.Replay() {
			return msgNothingReplay, nil
		}
		return "", nil
	case btnStop.Unique:
		done = engine.Stop()
	case btnSlower.Unique, btnFaster.Unique, btnNormal.Unique:
		rate, err := h.users.SetRate(userID, nextRate(engine.Snapshot().Rate, action))
		if err != nil {
			return "", err
		}
		engine.SetRate(rate)
		return fmt.Sprintf(msgSpeedSet, formatRate(rate)), nil
	default:
		return "", fmt.Errorf("unknown control %q", action)
	}

	if !done {
		return msgNothingPlaying, nil
	}
	return "", nil
}

func nextRate(current float64, action string) float64 {
	switch action {
	case btnSlower.Unique:
		return stepRate(current, -1)
	case btnFaster.Unique:
		return stepRate(current, 1)
	default:
		return domain.DefaultRate
	}
}

func isControl(action string) bool {
	for _, btn := range controlButtons {
		if btn.Unique == action {
			return true
		}
	}
	return false
}
