package repository

import (
	"context"

	"github.com/Zenuu19/Skill-Swap-Platform/internal/domain"
)

// SwapFilter selects swap requests involving one user.
type SwapFilter struct {
	UserID    string
	Direction string
	Status    *string
}

// SwapRepository defines persistence for swap requests. Status changes are
// conditional on the expected current status so concurrent writers cannot
// overwrite each other.
type SwapRepository interface {
	// Create inserts a pending request. A concurrent active duplicate surfaces
	// as apperrors.ErrDuplicateActive.
	Create(ctx context.Context, swap *domain.SwapRequest) error

	// GetByID returns apperrors.ErrNotFound when no request has the id.
	GetByID(ctx context.Context, id string) (*domain.SwapRequest, error)

	List(ctx context.Context, filter SwapFilter) ([]domain.SwapRequest, error)

	// HasActiveDuplicate reports whether a pending or accepted request already
	// exists for the participant and skill-key tuple.
	HasActiveDuplicate(ctx context.Context, requesterID, requesteeID, offeredKey, wantedKey string) (bool, error)

	// UpdateStatus persists swap's status, response and timestamps only if the
	// stored status still equals expectedStatus; otherwise it returns
	// apperrors.ErrInvalidState.
	UpdateStatus(ctx context.Context, swap *domain.SwapRequest, expectedStatus string) error

	// Delete removes the request if requesterID owns it and its status is one
	// of statuses; otherwise it returns apperrors.ErrInvalidState.
	Delete(ctx context.Context, id, requesterID string, statuses []string) error

	// ListAwaitingFeedback returns completed requests involving userID that
	// userID has not reviewed yet.
	ListAwaitingFeedback(ctx context.Context, userID string) ([]domain.SwapRequest, error)
}

// FeedbackRepository defines persistence for feedback.
type FeedbackRepository interface {
	// Create inserts feedback. A second entry from the same reviewer for the
	// same swap surfaces as apperrors.ErrAlreadyReviewed.
	Create(ctx context.Context, fb *domain.Feedback) error

	GetByID(ctx context.Context, id string) (*domain.Feedback, error)

	ExistsForReviewer(ctx context.Context, swapRequestID, reviewerID string) (bool, error)

	// Update rewrites the mutable fields of feedback owned by fb.ReviewerID.
	Update(ctx context.Context, fb *domain.Feedback) error

	// Delete removes feedback owned by reviewerID.
	Delete(ctx context.Context, id, reviewerID string) error

	ListByReviewee(ctx context.Context, revieweeID string, publicOnly bool) ([]domain.Feedback, error)
	ListByReviewer(ctx context.Context, reviewerID string, publicOnly bool) ([]domain.Feedback, error)
}

// IdentityDirectory answers the identity questions the lifecycle needs about
// users it does not own.
type IdentityDirectory interface {
	Exists(ctx context.Context, userID string) (bool, error)
	IsActiveAndNotBanned(ctx context.Context, userID string) (bool, error)

	// OfferedSkills returns the ids of approved catalog skills userID offers.
	OfferedSkills(ctx context.Context, userID string) ([]string, error)
}

// ModerationRepository applies admin actions. Each mutation and its log entry
// are written in one transaction.
type ModerationRepository interface {
	SetUserBanned(ctx context.Context, userID string, banned bool, entry *domain.ModerationEntry) error
	SetSkillStatus(ctx context.Context, skillID, status string, entry *domain.ModerationEntry) error
	ListLog(ctx context.Context, limit int) ([]domain.ModerationEntry, error)
}

// RatingCache caches aggregated ratings. Get returns nil, nil on a miss.
type RatingCache interface {
	Get(ctx context.Context, userID string) (*domain.RatingSummary, error)
	Set(ctx context.Context, summary *domain.RatingSummary) error
	Invalidate(ctx context.Context, userIDs ...string) error
}
