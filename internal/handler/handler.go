package handler

import (
	"context"
	"time"

	"vocabbot/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Handler is the thin chat glue: it translates Telegram updates into
// scheduler calls and renders the replies. No scheduling logic lives here.
type Handler struct {
	bot         *tele.Bot
	authService *service.AuthService
	study       *service.StudyService
	sessions    *service.SessionManager
	audit       *service.AuditService
	logger      *zap.Logger

	languageID int64
	timeout    time.Duration
	pageSize   int
}

// NewHandler creates a new handler instance.
func NewHandler(
	bot *tele.Bot,
	authService *service.AuthService,
	study *service.StudyService,
	sessions *service.SessionManager,
	audit *service.AuditService,
	languageID int64,
	timeout time.Duration,
	pageSize int,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:         bot,
		authService: authService,
		study:       study,
		sessions:    sessions,
		audit:       audit,
		logger:      logger,
		languageID:  languageID,
		timeout:     timeout,
		pageSize:    pageSize,
	}
}

// RegisterHandlers registers all bot handlers.
func (h *Handler) RegisterHandlers(adminOnly tele.MiddlewareFunc) {
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/study", h.handleStudy)
	h.bot.Handle("/review", h.handleStudyDue)
	h.bot.Handle("/progress", h.handleProgress)
	h.bot.Handle("/due", h.handleDue)
	h.bot.Handle("/studied", h.handleStudied)
	h.bot.Handle("/stop", h.handleStop)

	h.bot.Handle("/integrity", h.handleIntegrity, adminOnly)
	h.bot.Handle("/cleanup", h.handleCleanup, adminOnly)

	h.bot.Handle(&btnReveal, h.handleReveal)
	h.bot.Handle(&btnKnown, h.handleKnown)
	h.bot.Handle(&btnUnknown, h.handleUnknown)
	h.bot.Handle(&btnNext, h.handleNext)
	h.bot.Handle(&btnSkip, h.handleSkip)
	h.bot.Handle(&btnHint, h.handleHint)
}

// actionContext bounds every storage-touching action by the configured
// timeout so a stuck store fails the action instead of the session.
func (h *Handler) actionContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), h.timeout)
}

// Inline keyboard buttons
var (
	btnReveal = tele.Btn{
		Unique: "reveal",
		Text:   "👀 Show translation",
	}
	btnKnown = tele.Btn{
		Unique: "known",
		Text:   "✅ I know it",
	}
	btnUnknown = tele.Btn{
		Unique: "unknown",
		Text:   "❌ Don't know",
	}
	btnNext = tele.Btn{
		Unique: "next",
		Text:   "➡️ Next word",
	}
	btnSkip = tele.Btn{
		Unique: "skip",
		Text:   "🚫 Skip this word",
	}
	btnHint = tele.Btn{
		Unique: "hint",
		Text:   "💡 Hint",
	}
)

// studyMarkup returns the keyboard for a face-down word.
func studyMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnKnown, btnUnknown),
		menu.Row(btnReveal, btnHint, btnSkip),
	)
	return menu
}

// revealedMarkup returns the keyboard for a revealed word.
func revealedMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnKnown, btnNext),
	)
	return menu
}

// confirmMarkup returns the keyboard after a tentative "known".
func confirmMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnNext, btnReveal),
	)
	return menu
}
