package handler

import (
	"context"
	"errors"
	"fmt"

	"vocabbot/internal/domain"
	"vocabbot/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const actionFailedMsg = "Something went wrong, please repeat the last action."

func (h *Handler) handleStart(c tele.Context) error {
	return c.Send(
		"Hi! I help you learn foreign words.\n\n" +
			"/study — study all words in order\n" +
			"/review — study only words due today\n" +
			"/progress — your progress\n" +
			"/due — words waiting for review\n" +
			"/studied — words you have studied\n" +
			"/stop — end the current session",
	)
}

func (h *Handler) handleStudy(c tele.Context) error {
	return h.startSession(c, domain.SessionFilter{SkipMarked: true})
}

func (h *Handler) handleStudyDue(c tele.Context) error {
	return h.startSession(c, domain.SessionFilter{SkipMarked: true, UseCheckDate: true})
}

func (h *Handler) startSession(c tele.Context, filter domain.SessionFilter) error {
	userID := c.Sender().ID

	ctx, cancel := h.actionContext()
	defer cancel()

	s, err := h.sessions.Start(ctx, userID, h.languageID, filter)
	if err != nil {
		h.logger.Error("failed to start session",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return c.Send(actionFailedMsg)
	}

	if s.State == domain.StateCompleted {
		return c.Send("Nothing to study right now 🎉")
	}
	return h.sendCurrentWord(c, s)
}

func (h *Handler) handleStop(c tele.Context) error {
	h.sessions.End(c.Sender().ID)
	return c.Send("Session ended. /study to start again.")
}

func (h *Handler) handleReveal(c tele.Context) error {
	return h.sessionAction(c, h.sessions.Reveal)
}

func (h *Handler) handleKnown(c tele.Context) error {
	return h.sessionAction(c, h.sessions.MarkKnown)
}

func (h *Handler) handleUnknown(c tele.Context) error {
	return h.sessionAction(c, h.sessions.MarkUnknown)
}

func (h *Handler) handleNext(c tele.Context) error {
	return h.sessionAction(c, h.sessions.Advance)
}

func (h *Handler) handleSkip(c tele.Context) error {
	userID := c.Sender().ID
	s := h.sessions.Get(userID)
	if s == nil || s.Current() == nil {
		c.Respond()
		return c.Send("No active session. /study to start.")
	}
	cur := s.Current()

	ctx, cancel := h.actionContext()
	defer cancel()

	if _, err := h.study.SetSkip(ctx, userID, cur.Word.ID, s.LanguageID, true); err != nil {
		h.logger.Error("failed to set skip flag",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.Int64("word_id", cur.Word.ID),
		)
		c.Respond()
		return c.Send(actionFailedMsg)
	}

	s, err := h.sessions.Advance(ctx, userID)
	if err != nil {
		c.Respond()
		if errors.Is(err, service.ErrSessionCompleted) {
			return c.Send("Session complete — /study to start again.")
		}
		return c.Send(actionFailedMsg)
	}
	c.Respond()
	return h.renderSession(c, s)
}

// handleHint shows the current word's transcription without revealing the
// translation. Using a hint is recorded on the learning record but does not
// score the word.
func (h *Handler) handleHint(c tele.Context) error {
	userID := c.Sender().ID
	s := h.sessions.Get(userID)
	if s == nil || s.Current() == nil {
		c.Respond()
		return c.Send("No active session. /study to start.")
	}
	cur := s.Current()

	if cur.Word.Transcription == "" {
		c.Respond()
		return c.Send("No hint for this word, sorry.")
	}

	ctx, cancel := h.actionContext()
	defer cancel()

	s, err := h.sessions.UseHint(ctx, userID, "transcription", cur.Word.Transcription, "")
	if err != nil {
		h.logger.Error("failed to record hint",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.Int64("word_id", cur.Word.ID),
		)
		c.Respond()
		return c.Send(actionFailedMsg)
	}
	c.Respond()
	return c.Edit(
		fmt.Sprintf("%s\n\n💡 [%s]", wordPrompt(cur, s), cur.Word.Transcription),
		studyMarkup(),
	)
}

func (h *Handler) sessionAction(c tele.Context, action func(ctx context.Context, userID int64) (*domain.Session, error)) error {
	userID := c.Sender().ID

	ctx, cancel := h.actionContext()
	defer cancel()

	s, err := action(ctx, userID)
	c.Respond()
	if err != nil {
		if errors.Is(err, service.ErrSessionCompleted) {
			return c.Send("Session complete — /study to start again.")
		}
		if s := h.sessions.Get(userID); s == nil {
			return c.Send("No active session. /study to start.")
		}
		h.logger.Error("session action failed",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return c.Send(actionFailedMsg)
	}

	return h.renderSession(c, s)
}

func (h *Handler) renderSession(c tele.Context, s *domain.Session) error {
	if s.State == domain.StateCompleted {
		return c.Edit(fmt.Sprintf(
			"Session complete! 🎉\n\nWords processed: %d\nBatches loaded: %d",
			s.WordsProcessed, s.BatchesLoaded,
		))
	}

	switch s.State {
	case domain.StateViewingWord:
		cur := s.Current()
		text := fmt.Sprintf("📖 %s\n\n%s", cur.Word.Foreign, cur.Word.Translation)
		if cur.Word.Transcription != "" {
			text = fmt.Sprintf("📖 %s [%s]\n\n%s", cur.Word.Foreign, cur.Word.Transcription, cur.Word.Translation)
		}
		return c.Edit(text, revealedMarkup())
	case domain.StateConfirming:
		cur := s.Current()
		return c.Edit(fmt.Sprintf("✅ %s — marked as known.", cur.Word.Foreign), confirmMarkup())
	default:
		return h.editCurrentWord(c, s)
	}
}

func (h *Handler) sendCurrentWord(c tele.Context, s *domain.Session) error {
	cur := s.Current()
	return c.Send(wordPrompt(cur, s), studyMarkup())
}

func (h *Handler) editCurrentWord(c tele.Context, s *domain.Session) error {
	cur := s.Current()
	return c.Edit(wordPrompt(cur, s), studyMarkup())
}

func wordPrompt(cur *domain.StudyCandidate, s *domain.Session) string {
	return fmt.Sprintf("Word %d/%d (batch %d)\n\n❓ %s",
		s.Cursor+1, len(s.Batch), s.BatchInfo.Index+1, cur.Word.Foreign)
}
