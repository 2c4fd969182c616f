package handler

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func (h *Handler) handleProgress(c tele.Context) error {
	userID := c.Sender().ID

	ctx, cancel := h.actionContext()
	defer cancel()

	p, err := h.study.GetProgress(ctx, userID, h.languageID)
	if err != nil {
		h.logger.Error("failed to load progress",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return c.Send(actionFailedMsg)
	}

	text := fmt.Sprintf(
		"📊 Your progress\n\nWords in catalog: %d\nStudied: %d\nKnown: %d\nSkipped: %d\nKnown: %.1f%%",
		p.TotalWords, p.Studied, p.Known, p.Skipped, p.Percentage(),
	)
	if p.LastStudyDate != nil {
		text += fmt.Sprintf("\nLast study: %s", p.LastStudyDate.Format("2 Jan 2006"))
	}
	return c.Send(text)
}

func (h *Handler) handleDue(c tele.Context) error {
	userID := c.Sender().ID

	ctx, cancel := h.actionContext()
	defer cancel()

	due, err := h.study.GetDueForReview(ctx, userID, h.languageID, h.pageSize, 0)
	if err != nil {
		h.logger.Error("failed to load due words",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return c.Send(actionFailedMsg)
	}

	if len(due) == 0 {
		return c.Send("Nothing is due for review 🎉")
	}

	var b strings.Builder
	b.WriteString("⏰ Due for review:\n\n")
	for _, cand := range due {
		fmt.Fprintf(&b, "• %s — %s\n", cand.Word.Foreign, cand.Word.Translation)
	}
	b.WriteString("\n/review to start")
	return c.Send(b.String())
}

func (h *Handler) handleStudied(c tele.Context) error {
	userID := c.Sender().ID

	ctx, cancel := h.actionContext()
	defer cancel()

	studied, total, err := h.study.ListStudied(ctx, userID, h.languageID, h.pageSize, 0)
	if err != nil {
		h.logger.Error("failed to list studied words",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return c.Send(actionFailedMsg)
	}

	if total == 0 {
		return c.Send("You haven't studied any words yet. /study to start!")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📚 Studied words: %d\n\n", total)
	for _, cand := range studied {
		mark := "❌"
		if cand.Progress.Score == 1 {
			mark = "✅"
		}
		fmt.Fprintf(&b, "%s %s — %s, interval %dd\n",
			mark, cand.Word.Foreign, cand.Word.Translation, cand.Progress.CheckInterval)
	}
	return c.Send(b.String())
}

func (h *Handler) handleIntegrity(c tele.Context) error {
	ctx, cancel := h.actionContext()
	defer cancel()

	report, err := h.audit.Report(ctx)
	if err != nil {
		h.logger.Error("failed to build integrity report", zap.Error(err))
		return c.Send(actionFailedMsg)
	}

	return c.Send(fmt.Sprintf(
		"🔍 Integrity report\n\nTotal records: %d\nValid: %d\nOrphaned: %d (%.1f%%)",
		report.Total, report.Valid, report.Orphaned, report.OrphanedPercentage(),
	))
}

func (h *Handler) handleCleanup(c tele.Context) error {
	dryRun := strings.TrimSpace(c.Message().Payload) != "run"

	ctx, cancel := h.actionContext()
	defer cancel()

	result, err := h.audit.Cleanup(ctx, dryRun)
	if err != nil {
		h.logger.Error("orphan cleanup failed", zap.Error(err), zap.Bool("dry_run", dryRun))
		if result != nil {
			return c.Send(fmt.Sprintf(
				"⚠️ Cleanup inconsistency: found %d, deleted %d. Check the store.",
				result.Found, result.Deleted,
			))
		}
		return c.Send(actionFailedMsg)
	}

	if dryRun {
		return c.Send(fmt.Sprintf(
			"🧹 Dry run: %d orphaned records found.\nSend /cleanup run to delete them.",
			result.Found,
		))
	}
	return c.Send(fmt.Sprintf("🧹 Cleanup done: %d orphaned records deleted.", result.Deleted))
}
