package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Zenuu19/Skill-Swap-Platform/internal/domain"
	"github.com/Zenuu19/Skill-Swap-Platform/internal/repository"
	apperrors "github.com/Zenuu19/Skill-Swap-Platform/pkg/errors"
)

// Moderation log page bounds.
const (
	DefaultModerationLogLimit = 50
	MaxModerationLogLimit     = 200
)

// ModerationService applies admin actions to users and catalog skills and
// records each one in the moderation log.
type ModerationService struct {
	repo   repository.ModerationRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewModerationService creates a new moderation service.
func NewModerationService(repo repository.ModerationRepository, logger *slog.Logger) *ModerationService {
	return &ModerationService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// BanUser bans userID. Banned users can no longer open swap requests.
func (s *ModerationService) BanUser(ctx context.Context, adminID, userID, reason string) (*domain.ModerationEntry, error) {
	return s.setBanned(ctx, adminID, userID, reason, true)
}

// UnbanUser lifts a ban.
func (s *ModerationService) UnbanUser(ctx context.Context, adminID, userID, reason string) (*domain.ModerationEntry, error) {
	return s.setBanned(ctx, adminID, userID, reason, false)
}

// ApproveSkill makes a catalog skill eligible for structured swap requests.
func (s *ModerationService) ApproveSkill(ctx context.Context, adminID, skillID, reason string) (*domain.ModerationEntry, error) {
	return s.setSkillStatus(ctx, adminID, skillID, reason, domain.SkillStatusApproved, domain.ModerationApproveSkill)
}

// RejectSkill marks a catalog skill rejected. The row is kept so existing
// swap requests still resolve it.
func (s *ModerationService) RejectSkill(ctx context.Context, adminID, skillID, reason string) (*domain.ModerationEntry, error) {
	return s.setSkillStatus(ctx, adminID, skillID, reason, domain.SkillStatusRejected, domain.ModerationRejectSkill)
}

// ListModerationLog returns the newest log entries. limit is clamped to
// [1, MaxModerationLogLimit]; zero or less selects the default.
func (s *ModerationService) ListModerationLog(ctx context.Context, limit int) ([]domain.ModerationEntry, error) {
	if limit <= 0 {
		limit = DefaultModerationLogLimit
	}
	if limit > MaxModerationLogLimit {
		limit = MaxModerationLogLimit
	}

	entries, err := s.repo.ListLog(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list moderation log: %w", err)
	}
	return entries, nil
}

func (s *ModerationService) setBanned(ctx context.Context, adminID, userID, reason string, banned bool) (*domain.ModerationEntry, error) {
	action := domain.ModerationUnbanUser
	if banned {
		action = domain.ModerationBanUser
	}
	entry := s.newEntry(adminID, action, domain.TargetUser, userID, reason)

	if err := s.repo.SetUserBanned(ctx, userID, banned, entry); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("user", userID)
		}
		return nil, fmt.Errorf("set user banned: %w", err)
	}

	s.logger.InfoContext(ctx, "user ban updated",
		slog.String("admin_id", adminID),
		slog.String("user_id", userID),
		slog.Bool("banned", banned),
	)
	return entry, nil
}

func (s *ModerationService) setSkillStatus(ctx context.Context, adminID, skillID, reason, status, action string) (*domain.ModerationEntry, error) {
	entry := s.newEntry(adminID, action, domain.TargetSkill, skillID, reason)

	if err := s.repo.SetSkillStatus(ctx, skillID, status, entry); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("skill", skillID)
		}
		return nil, fmt.Errorf("set skill status: %w", err)
	}

	s.logger.InfoContext(ctx, "skill status updated",
		slog.String("admin_id", adminID),
		slog.String("skill_id", skillID),
		slog.String("status", status),
	)
	return entry, nil
}

func (s *ModerationService) newEntry(adminID, action, targetType, targetID, reason string) *domain.ModerationEntry {
	return &domain.ModerationEntry{
		ID:         uuid.New().String(),
		AdminID:    adminID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Reason:     reason,
		CreatedAt:  s.now(),
	}
}
