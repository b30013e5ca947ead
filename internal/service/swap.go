package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Zenuu19/Skill-Swap-Platform/internal/domain"
	"github.com/Zenuu19/Skill-Swap-Platform/internal/repository"
	apperrors "github.com/Zenuu19/Skill-Swap-Platform/pkg/errors"
)

const resourceSwap = "swap request"

// SwapEventPublisher emits swap lifecycle events.
type SwapEventPublisher interface {
	PublishSwapCreated(ctx context.Context, swap *domain.SwapRequest) error
	PublishSwapStatusChanged(ctx context.Context, swapID, actorID string, action domain.Action, oldStatus, newStatus string) error
	PublishSwapDeleted(ctx context.Context, swapID, actorID, status string) error
}

// directoryScope is implemented by directories that can pin their answers
// for the duration of one operation.
type directoryScope interface {
	Scope(ctx context.Context) context.Context
}

// SwapService implements the swap request lifecycle.
type SwapService struct {
	repo      repository.SwapRepository
	directory repository.IdentityDirectory
	producer  SwapEventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewSwapService creates a new swap service.
func NewSwapService(
	repo repository.SwapRepository,
	directory repository.IdentityDirectory,
	producer SwapEventPublisher,
	logger *slog.Logger,
) *SwapService {
	return &SwapService{
		repo:      repo,
		directory: directory,
		producer:  producer,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateSwapInput holds the parameters for creating a swap request.
type CreateSwapInput struct {
	RequesterID  string
	RequesteeID  string
	OfferedSkill domain.SkillRef
	WantedSkill  domain.SkillRef
	Message      string
}

// Create opens a pending swap request from the requester to the requestee.
func (s *SwapService) Create(ctx context.Context, input CreateSwapInput) (swap *domain.SwapRequest, err error) {
	defer func() { SwapTransitions.WithLabelValues("create", outcome(err)).Inc() }()

	if input.RequesterID == "" || input.RequesteeID == "" {
		return nil, apperrors.InvalidInput("requester_id and requestee_id are required")
	}
	if input.RequesterID == input.RequesteeID {
		return nil, apperrors.SelfRequest()
	}
	if err := input.OfferedSkill.Validate(); err != nil {
		return nil, apperrors.InvalidInput("offered_skill: " + err.Error())
	}
	if err := input.WantedSkill.Validate(); err != nil {
		return nil, apperrors.InvalidInput("wanted_skill: " + err.Error())
	}
	if utf8.RuneCountInString(input.Message) > domain.MaxMessageLength {
		return nil, apperrors.InvalidInput(fmt.Sprintf("message must be at most %d characters", domain.MaxMessageLength))
	}

	dirCtx := ctx
	if d, ok := s.directory.(directoryScope); ok {
		dirCtx = d.Scope(ctx)
	}
	for _, id := range []string{input.RequesterID, input.RequesteeID} {
		if err := s.checkEligible(dirCtx, id); err != nil {
			return nil, err
		}
	}

	if input.OfferedSkill.IsCatalog() {
		if err := s.checkOffers(dirCtx, input.RequesterID, input.OfferedSkill.SkillID, "offered_skill is not among the requester's offered skills"); err != nil {
			return nil, err
		}
	}
	if input.WantedSkill.IsCatalog() {
		if err := s.checkOffers(dirCtx, input.RequesteeID, input.WantedSkill.SkillID, "wanted_skill is not among the requestee's offered skills"); err != nil {
			return nil, err
		}
	}

	dup, err := s.repo.HasActiveDuplicate(ctx, input.RequesterID, input.RequesteeID, input.OfferedSkill.Key(), input.WantedSkill.Key())
	if err != nil {
		return nil, fmt.Errorf("check active duplicate: %w", err)
	}
	if dup {
		return nil, apperrors.DuplicateActive("an active swap request for these users and skills already exists")
	}

	now := s.now()
	swap = &domain.SwapRequest{
		ID:           uuid.New().String(),
		RequesterID:  input.RequesterID,
		RequesteeID:  input.RequesteeID,
		OfferedSkill: input.OfferedSkill,
		WantedSkill:  input.WantedSkill,
		Message:      input.Message,
		Status:       domain.SwapStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, swap); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateActive) {
			return nil, apperrors.DuplicateActive("an active swap request for these users and skills already exists")
		}
		return nil, fmt.Errorf("create swap request: %w", err)
	}

	if err := s.producer.PublishSwapCreated(ctx, swap); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish swap.created event",
			slog.String("swap_id", swap.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "swap request created",
		slog.String("swap_id", swap.ID),
		slog.String("requester_id", swap.RequesterID),
		slog.String("requestee_id", swap.RequesteeID),
	)

	return swap, nil
}

func (s *SwapService) checkEligible(ctx context.Context, userID string) error {
	exists, err := s.directory.Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("check user exists: %w", err)
	}
	if !exists {
		return apperrors.NotFound("user", userID)
	}

	active, err := s.directory.IsActiveAndNotBanned(ctx, userID)
	if err != nil {
		return fmt.Errorf("check user active: %w", err)
	}
	if !active {
		return apperrors.Forbidden(fmt.Sprintf("user %s is inactive or banned", userID))
	}
	return nil
}

func (s *SwapService) checkOffers(ctx context.Context, userID, skillID, message string) error {
	offered, err := s.directory.OfferedSkills(ctx, userID)
	if err != nil {
		return fmt.Errorf("get offered skills: %w", err)
	}
	if !slices.Contains(offered, skillID) {
		return apperrors.InvalidInput(message)
	}
	return nil
}

// GetSwap returns a swap request to one of its participants.
func (s *SwapService) GetSwap(ctx context.Context, swapID, actorID string) (*domain.SwapRequest, error) {
	swap, err := s.load(ctx, swapID)
	if err != nil {
		return nil, err
	}
	if !swap.IsParticipant(actorID) {
		return nil, apperrors.Forbidden("only participants can view this swap request")
	}
	return swap, nil
}

// ListForUser returns the requests userID sent, received, or both, newest
// first, optionally narrowed to one status.
func (s *SwapService) ListForUser(ctx context.Context, userID, direction string, status *string) ([]domain.SwapRequest, error) {
	if direction == "" {
		direction = domain.DirectionBoth
	}
	switch direction {
	case domain.DirectionSent, domain.DirectionReceived, domain.DirectionBoth:
	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid direction %q, must be one of: sent, received, both", direction))
	}
	if status != nil && !domain.IsValidStatus(*status) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid status %q", *status))
	}

	swaps, err := s.repo.List(ctx, repository.SwapFilter{
		UserID:    userID,
		Direction: direction,
		Status:    status,
	})
	if err != nil {
		return nil, fmt.Errorf("list swap requests: %w", err)
	}
	return swaps, nil
}

// Transition applies a lifecycle action on behalf of actorID. Guards run in
// order: existence, actor role, current status, then the conditional write.
func (s *SwapService) Transition(ctx context.Context, swapID, actorID string, action domain.Action, responseMessage string) (swap *domain.SwapRequest, err error) {
	defer func() { SwapTransitions.WithLabelValues(actionLabel(action), outcome(err)).Inc() }()

	if _, ok := domain.Transitions()[action]; !ok {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown action %q", action))
	}
	if utf8.RuneCountInString(responseMessage) > domain.MaxMessageLength {
		return nil, apperrors.InvalidInput(fmt.Sprintf("response_message must be at most %d characters", domain.MaxMessageLength))
	}

	swap, err = s.load(ctx, swapID)
	if err != nil {
		return nil, err
	}
	if !swap.CanPerform(action, actorID) {
		return nil, apperrors.Forbidden(fmt.Sprintf("user is not allowed to %s this swap request", action))
	}
	if !swap.CanApply(action) {
		return nil, apperrors.InvalidState(resourceSwap, swap.Status, string(action))
	}

	oldStatus := swap.Status
	swap.Apply(action, responseMessage, s.now())

	if err := s.repo.UpdateStatus(ctx, swap, oldStatus); err != nil {
		if errors.Is(err, apperrors.ErrInvalidState) {
			// Another writer moved the request first.
			return nil, apperrors.InvalidState(resourceSwap, oldStatus, string(action))
		}
		return nil, fmt.Errorf("update swap request status: %w", err)
	}

	if err := s.producer.PublishSwapStatusChanged(ctx, swap.ID, actorID, action, oldStatus, swap.Status); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish swap.status_changed event",
			slog.String("swap_id", swap.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "swap request status updated",
		slog.String("swap_id", swap.ID),
		slog.String("actor_id", actorID),
		slog.String("old_status", oldStatus),
		slog.String("new_status", swap.Status),
	)

	return swap, nil
}

// Delete removes a pending or rejected request. Only the requester may delete.
func (s *SwapService) Delete(ctx context.Context, swapID, actorID string) (err error) {
	defer func() { SwapTransitions.WithLabelValues("delete", outcome(err)).Inc() }()

	swap, err := s.load(ctx, swapID)
	if err != nil {
		return err
	}
	if swap.RoleOf(actorID) != domain.RoleRequester {
		return apperrors.Forbidden("only the requester can delete this swap request")
	}
	if !swap.IsDeletable() {
		return apperrors.InvalidState(resourceSwap, swap.Status, "delete")
	}

	if err := s.repo.Delete(ctx, swap.ID, actorID, domain.DeletableStatuses()); err != nil {
		if errors.Is(err, apperrors.ErrInvalidState) {
			return apperrors.InvalidState(resourceSwap, swap.Status, "delete")
		}
		return fmt.Errorf("delete swap request: %w", err)
	}

	if err := s.producer.PublishSwapDeleted(ctx, swap.ID, actorID, swap.Status); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish swap.deleted event",
			slog.String("swap_id", swap.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "swap request deleted",
		slog.String("swap_id", swap.ID),
		slog.String("actor_id", actorID),
	)
	return nil
}

// ListPendingFeedback returns completed swaps involving userID that userID
// has not reviewed yet.
func (s *SwapService) ListPendingFeedback(ctx context.Context, userID string) ([]domain.SwapRequest, error) {
	swaps, err := s.repo.ListAwaitingFeedback(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list swaps awaiting feedback: %w", err)
	}
	return swaps, nil
}

func (s *SwapService) load(ctx context.Context, swapID string) (*domain.SwapRequest, error) {
	swap, err := s.repo.GetByID(ctx, swapID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound(resourceSwap, swapID)
		}
		return nil, fmt.Errorf("get swap request by id: %w", err)
	}
	return swap, nil
}

// outcome classifies err for the result metric label.
func outcome(err error) string {
	if err == nil {
		return resultSuccess
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Status < 500 {
		return resultRejected
	}
	return resultError
}
