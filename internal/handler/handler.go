package handler

import (
	"sync"

	"lstbot/internal/domain"
	"lstbot/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Handler manages all bot interactions
type Handler struct {
	bot          *tele.Bot
	users        *service.UserService
	translations *service.TranslationService
	stats        *service.StatsService
	sessions     *Sessions
	logger       *zap.Logger

	// serializes callbacks of one user
	callbackMux   sync.Mutex
	callbackLocks map[int64]*sync.Mutex
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	users *service.UserService,
	translations *service.TranslationService,
	stats *service.StatsService,
	sessions *Sessions,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:           bot,
		users:         users,
		translations:  translations,
		stats:         stats,
		sessions:      sessions,
		logger:        logger,
		callbackLocks: make(map[int64]*sync.Mutex),
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/help", h.handleStart)
	h.bot.Handle("/lang", h.handleLang)
	h.bot.Handle("/stats", h.handleStats)
	h.bot.Handle("/replay", h.handleReplay)
	h.bot.Handle("/stop", h.handleStop)
	h.bot.Handle("/goto", h.handleGoto)
	h.bot.Handle("/speed", h.handleSpeed)

	// Text messages
	h.bot.Handle(tele.OnText, h.handleText)

	// Callback queries (inline buttons)
	h.bot.Handle(&btnLang, h.handleLangSelection)
	for _, btn := range controlButtons {
		h.bot.Handle(btn, h.handleControl)
	}

	// Generic callback handler for dynamic data
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// userLock returns the callback lock of a user
func (h *Handler) userLock(userID int64) *sync.Mutex {
	h.callbackMux.Lock()
	defer h.callbackMux.Unlock()

	lock, exists := h.callbackLocks[userID]
	if !exists {
		lock = &sync.Mutex{}
		h.callbackLocks[userID] = lock
	}
	return lock
}

// Inline keyboard buttons
var (
	btnPrev   = tele.Btn{Unique: "prev", Text: "⏮"}
	btnPause  = tele.Btn{Unique: "pause", Text: "⏸"}
	btnResume = tele.Btn{Unique: "resume", Text: "▶️"}
	btnNext   = tele.Btn{Unique: "next", Text: "⏭"}
	btnReplay = tele.Btn{Unique: "replay", Text: "🔁 Rejouer"}
	btnStop   = tele.Btn{Unique: "stop", Text: "⏹"}
	btnSlower = tele.Btn{Unique: "slower", Text: "🐢"}
	btnNormal = tele.Btn{Unique: "normal", Text: "1×"}
	btnFaster = tele.Btn{Unique: "faster", Text: "🐇"}

	// btnLang carries the language code as data
	btnLang = tele.Btn{Unique: "lang"}
)

var controlButtons = []*tele.Btn{
	&btnPrev, &btnPause, &btnResume, &btnNext,
	&btnReplay, &btnStop, &btnSlower, &btnNormal, &btnFaster,
}

// controlsMarkup returns the playback keyboard
func controlsMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnPrev, btnPause, btnResume, btnNext),
		menu.Row(btnSlower, btnNormal, btnFaster, btnStop),
	)
	return menu
}

// replayMarkup is shown once a sequence is over
func replayMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(menu.Row(btnReplay))
	return menu
}

// languageMarkup lists the supported source languages
func languageMarkup(current domain.Language) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(domain.Languages))
	for _, lang := range domain.Languages {
		text := lang.DisplayName()
		if lang == current {
			text = "✅ " + text
		}
		rows = append(rows, menu.Row(menu.Data(text, btnLang.Unique, string(lang))))
	}
	menu.Inline(rows...)
	return menu
}
