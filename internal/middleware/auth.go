package middleware

import (
	"context"
	"time"

	"vocabbot/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// RegisterUser ensures every sender has a user record and a fresh
// last-seen timestamp before any handler runs.
func RegisterUser(authService *service.AuthService, timeout time.Duration, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			userID := c.Sender().ID

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			if err := authService.EnsureUserExists(ctx, userID); err != nil {
				logger.Error("failed to ensure user exists", zap.Error(err), zap.Int64("user_id", userID))
				return c.Send("Something went wrong, please try again later.")
			}
			if err := authService.TouchLastSeen(ctx, userID); err != nil {
				// Activity tracking must not block the user.
				logger.Warn("failed to touch last seen", zap.Error(err), zap.Int64("user_id", userID))
			}

			return next(c)
		}
	}
}

// AdminOnly rejects integrity commands from non-admin users.
func AdminOnly(authService *service.AuthService) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if !authService.IsAdmin(c.Sender().ID) {
				return c.Send("This command is for admins only.")
			}
			return next(c)
		}
	}
}
