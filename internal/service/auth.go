package service

import (
	"context"

	"vocabbot/internal/repository"
)

// AuthService registers users and answers admin checks for the integrity
// commands. Admin rights come from configuration, not from the store.
type AuthService struct {
	userRepo repository.UserRepository
	adminIDs map[int64]bool
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo repository.UserRepository, adminIDs []int64) *AuthService {
	ids := make(map[int64]bool, len(adminIDs))
	for _, id := range adminIDs {
		ids[id] = true
	}
	return &AuthService{
		userRepo: userRepo,
		adminIDs: ids,
	}
}

// EnsureUserExists creates the user record if it doesn't exist.
func (s *AuthService) EnsureUserExists(ctx context.Context, userID int64) error {
	return s.userRepo.EnsureUserExists(ctx, userID)
}

// TouchLastSeen refreshes the user's last activity timestamp.
func (s *AuthService) TouchLastSeen(ctx context.Context, userID int64) error {
	return s.userRepo.TouchLastSeen(ctx, userID)
}

// IsAdmin reports whether the user may run integrity commands.
func (s *AuthService) IsAdmin(userID int64) bool {
	return s.adminIDs[userID]
}
