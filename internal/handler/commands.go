package handler

import (
	"fmt"
	"strings"
	"time"

	"lstbot/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	msgStopped    = "⏹ Lecture arrêtée"
	msgNoSuchSign = "Pas de signe n°%d dans la séquence"
)

// handleStart handles /start and /help
func (h *Handler) handleStart(c tele.Context) error {
	userID := c.Sender().ID

	h.logger.Info("User started bot",
		zap.Int64("user_id", userID),
		zap.String("username", c.Sender().Username),
	)

	prefs, err := h.users.Preferences(userID)
	if err != nil {
		h.logger.Error("Failed to get preferences", zap.Error(err))
		return c.Send(msgInternalError)
	}

	return c.Send(
		fmt.Sprintf(msgWelcome, prefs.Language.DisplayName(), domain.MinRate, domain.MaxRate),
		languageMarkup(prefs.Language),
	)
}

// handleLang shows the language keyboard, or sets the language given as argument
func (h *Handler) handleLang(c tele.Context) error {
	userID := c.Sender().ID

	if code := strings.TrimSpace(c.Message().Payload); code != "" {
		lang, err := h.users.SetLanguage(userID, code)
		if err != nil {
			h.logger.Warn("Failed to set language", zap.String("code", code), zap.Error(err))
			return c.Send(fmt.Sprintf(msgUnknownLang, languageCodes()))
		}
		return c.Send(fmt.Sprintf(msgLanguageSet, lang.DisplayName()))
	}

	prefs, err := h.users.Preferences(userID)
	if err != nil {
		h.logger.Error("Failed to get preferences", zap.Error(err))
		return c.Send(msgInternalError)
	}
	return c.Send(msgChooseLanguage, languageMarkup(prefs.Language))
}

// handleStats shows catalog and user statistics
func (h *Handler) handleStats(c tele.Context) error {
	stats, err := h.stats.UserStats(c.Sender().ID)
	if err != nil {
		h.logger.Error("Failed to get stats", zap.Error(err))
		return c.Send(msgInternalError)
	}
	return c.Send(formatStats(stats, time.Now()))
}

// handleReplay restarts the current or last sequence
func (h *Handler) handleReplay(c tele.Context) error {
	engine, ok := h.sessions.Get(c.Sender().ID)
	if !ok || !engine.Replay() {
		return c.Send(msgNothingReplay)
	}
	return nil
}

// handleStop stops playback and keeps the sequence for /replay
func (h *Handler) handleStop(c tele.Context) error {
	engine, ok := h.sessions.Get(c.Sender().ID)
	if !ok || !engine.Stop() {
		return c.Send(msgNothingPlaying)
	}
	return c.Send(msgStopped, replayMarkup())
}

// handleGoto jumps to the N-th sign of the current sequence
func (h *Handler) handleGoto(c tele.Context) error {
	index, ok := parseGoto(c.Message().Payload)
	if !ok {
		return c.Send(msgInvalidGoto)
	}

	engine, ok := h.sessions.Get(c.Sender().ID)
	if !ok {
		return c.Send(msgNothingPlaying)
	}
	if !engine.JumpTo(index) {
		return c.Send(fmt.Sprintf(msgNoSuchSign, index+1))
	}
	return nil
}

// handleSpeed stores the playback speed and applies it to the current sequence
func (h *Handler) handleSpeed(c tele.Context) error {
	userID := c.Sender().ID

	rate, ok := parseRate(c.Message().Payload)
	if !ok {
		return c.Send(msgInvalidSpeed)
	}

	rate, err := h.setRate(userID, rate)
	if err != nil {
		h.logger.Error("Failed to set rate", zap.Error(err))
		return c.Send(msgInternalError)
	}
	return c.Send(fmt.Sprintf(msgSpeedSet, formatRate(rate)))
}

// handleText translates a message and plays the resulting sequence
func (h *Handler) handleText(c tele.Context) error {
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	// Ignore unknown commands
	if strings.HasPrefix(text, "/") {
		return nil
	}

	prefs, err := h.users.Preferences(userID)
	if err != nil {
		h.logger.Error("Failed to get preferences", zap.Error(err))
		return c.Send(msgInternalError)
	}

	outcome := h.translations.Translate(userID, text, prefs.Language)

	h.logger.Info("Text translated",
		zap.Int64("user_id", userID),
		zap.String("language", string(prefs.Language)),
		zap.Int("matched", len(outcome.Result.MatchedWords)),
		zap.Int("missing", len(outcome.Result.MissingWords)),
	)

	if err := c.Send(formatResult(outcome.Result)); err != nil {
		return err
	}

	signs := outcome.Signs()
	if len(signs) == 0 {
		return nil
	}

	engine, err := h.sessions.Open(userID, c.Chat())
	if err != nil {
		h.logger.Error("Failed to open playback session", zap.Error(err))
		return c.Send(msgInternalError)
	}
	engine.SetRate(prefs.Rate)
	engine.LoadSequence(signs)
	return nil
}

// setRate persists the rate and applies it to an open session
func (h *Handler) setRate(userID int64, rate float64) (float64, error) {
	rate, err := h.users.SetRate(userID, rate)
	if err != nil {
		return 0, err
	}
	if engine, ok := h.sessions.Get(userID); ok {
		engine.SetRate(rate)
	}
	return rate, nil
}

func languageCodes() string {
	codes := make([]string, len(domain.Languages))
	for i, l := range domain.Languages {
		codes[i] = string(l)
	}
	return strings.Join(codes, ", ")
}
