package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Zenuu19/Skill-Swap-Platform/internal/domain"
	"github.com/Zenuu19/Skill-Swap-Platform/internal/repository"
	apperrors "github.com/Zenuu19/Skill-Swap-Platform/pkg/errors"
)

// FeedbackEventPublisher emits feedback events.
type FeedbackEventPublisher interface {
	PublishFeedbackSubmitted(ctx context.Context, fb *domain.Feedback) error
}

// FeedbackService gates, records and aggregates post-swap feedback.
type FeedbackService struct {
	repo     repository.FeedbackRepository
	swaps    repository.SwapRepository
	cache    repository.RatingCache
	producer FeedbackEventPublisher
	logger   *slog.Logger
	now      func() time.Time
}

// NewFeedbackService creates a new feedback service. cache may be nil, in
// which case ratings are always aggregated from storage.
func NewFeedbackService(
	repo repository.FeedbackRepository,
	swaps repository.SwapRepository,
	cache repository.RatingCache,
	producer FeedbackEventPublisher,
	logger *slog.Logger,
) *FeedbackService {
	return &FeedbackService{
		repo:     repo,
		swaps:    swaps,
		cache:    cache,
		producer: producer,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SubmitFeedbackInput holds the parameters for rating the other participant
// of a completed swap. Nil RecommendsUser and IsPublic default to true.
type SubmitFeedbackInput struct {
	SwapRequestID       string
	ReviewerID          string
	RevieweeID          string
	Rating              int
	SkillRating         *int
	CommunicationRating *int
	Comment             string
	RecommendsUser      *bool
	IsPublic            *bool
}

// UpdateFeedbackInput carries the fields a reviewer may change. Nil fields
// are left untouched.
// Nil fields are left unchanged; a sub-rating is removed only through its
// Clear flag.
type UpdateFeedbackInput struct {
	FeedbackID               string
	ReviewerID               string
	Rating                   *int
	SkillRating              *int
	CommunicationRating      *int
	ClearSkillRating         bool
	ClearCommunicationRating bool
	Comment                  *string
	RecommendsUser           *bool
	IsPublic                 *bool
}

// SubmitFeedback records the reviewer's rating of the other participant.
// The swap itself is never modified.
func (s *FeedbackService) SubmitFeedback(ctx context.Context, input SubmitFeedbackInput) (fb *domain.Feedback, err error) {
	defer func() { FeedbackSubmissions.WithLabelValues(outcome(err)).Inc() }()

	if err := validateRatings(input.Rating, input.SkillRating, input.CommunicationRating, input.Comment); err != nil {
		return nil, err
	}

	swap, err := s.swaps.GetByID(ctx, input.SwapRequestID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound(resourceSwap, input.SwapRequestID)
		}
		return nil, fmt.Errorf("get swap request for feedback: %w", err)
	}
	if !swap.IsParticipant(input.ReviewerID) {
		return nil, apperrors.Forbidden("only participants can leave feedback on this swap request")
	}
	if swap.Status != domain.SwapStatusCompleted {
		return nil, apperrors.InvalidState(resourceSwap, swap.Status, "review")
	}

	reviewee := swap.Counterpart(input.ReviewerID)
	if input.RevieweeID != "" && input.RevieweeID != reviewee {
		return nil, apperrors.Forbidden("feedback can only be given to the other participant")
	}

	exists, err := s.repo.ExistsForReviewer(ctx, swap.ID, input.ReviewerID)
	if err != nil {
		return nil, fmt.Errorf("check existing feedback: %w", err)
	}
	if exists {
		return nil, apperrors.AlreadyReviewed(swap.ID)
	}

	now := s.now()
	fb = &domain.Feedback{
		ID:                  uuid.New().String(),
		SwapRequestID:       swap.ID,
		ReviewerID:          input.ReviewerID,
		RevieweeID:          reviewee,
		Rating:              input.Rating,
		SkillRating:         input.SkillRating,
		CommunicationRating: input.CommunicationRating,
		Comment:             input.Comment,
		RecommendsUser:      boolOr(input.RecommendsUser, true),
		IsPublic:            boolOr(input.IsPublic, true),
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.repo.Create(ctx, fb); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyReviewed) {
			return nil, apperrors.AlreadyReviewed(swap.ID)
		}
		return nil, fmt.Errorf("create feedback: %w", err)
	}

	s.invalidate(ctx, reviewee)

	if err := s.producer.PublishFeedbackSubmitted(ctx, fb); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish feedback.submitted event",
			slog.String("feedback_id", fb.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "feedback submitted",
		slog.String("feedback_id", fb.ID),
		slog.String("swap_id", swap.ID),
		slog.String("reviewer_id", fb.ReviewerID),
		slog.Int("rating", fb.Rating),
	)

	return fb, nil
}

// UpdateFeedback changes feedback owned by the reviewer.
func (s *FeedbackService) UpdateFeedback(ctx context.Context, input UpdateFeedbackInput) (*domain.Feedback, error) {
	if input.ClearSkillRating && input.SkillRating != nil {
		return nil, apperrors.InvalidInput("skill_rating cannot be set and cleared at once")
	}
	if input.ClearCommunicationRating && input.CommunicationRating != nil {
		return nil, apperrors.InvalidInput("communication_rating cannot be set and cleared at once")
	}

	fb, err := s.loadOwned(ctx, input.FeedbackID, input.ReviewerID)
	if err != nil {
		return nil, err
	}

	if input.Rating != nil {
		fb.Rating = *input.Rating
	}
	switch {
	case input.ClearSkillRating:
		fb.SkillRating = nil
	case input.SkillRating != nil:
		fb.SkillRating = input.SkillRating
	}
	switch {
	case input.ClearCommunicationRating:
		fb.CommunicationRating = nil
	case input.CommunicationRating != nil:
		fb.CommunicationRating = input.CommunicationRating
	}
	if input.Comment != nil {
		fb.Comment = *input.Comment
	}
	if input.RecommendsUser != nil {
		fb.RecommendsUser = *input.RecommendsUser
	}
	if input.IsPublic != nil {
		fb.IsPublic = *input.IsPublic
	}
	if err := validateRatings(fb.Rating, fb.SkillRating, fb.CommunicationRating, fb.Comment); err != nil {
		return nil, err
	}
	fb.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, fb); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("feedback", fb.ID)
		}
		return nil, fmt.Errorf("update feedback: %w", err)
	}

	s.invalidate(ctx, fb.RevieweeID)

	s.logger.InfoContext(ctx, "feedback updated",
		slog.String("feedback_id", fb.ID),
		slog.String("reviewer_id", fb.ReviewerID),
	)
	return fb, nil
}

// DeleteFeedback removes feedback owned by the reviewer.
func (s *FeedbackService) DeleteFeedback(ctx context.Context, feedbackID, reviewerID string) error {
	fb, err := s.loadOwned(ctx, feedbackID, reviewerID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, fb.ID, reviewerID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("feedback", fb.ID)
		}
		return fmt.Errorf("delete feedback: %w", err)
	}

	s.invalidate(ctx, fb.RevieweeID)

	s.logger.InfoContext(ctx, "feedback deleted",
		slog.String("feedback_id", fb.ID),
		slog.String("reviewer_id", reviewerID),
	)
	return nil
}

// ListFeedbackReceived returns feedback about userID. Viewers other than
// userID only see public entries.
func (s *FeedbackService) ListFeedbackReceived(ctx context.Context, userID, viewerID string) ([]domain.Feedback, error) {
	list, err := s.repo.ListByReviewee(ctx, userID, domain.PublicOnlyFor(userID, viewerID))
	if err != nil {
		return nil, fmt.Errorf("list feedback received: %w", err)
	}
	return list, nil
}

// ListFeedbackGiven returns feedback written by userID. Viewers other than
// userID only see public entries.
func (s *FeedbackService) ListFeedbackGiven(ctx context.Context, userID, viewerID string) ([]domain.Feedback, error) {
	list, err := s.repo.ListByReviewer(ctx, userID, domain.PublicOnlyFor(userID, viewerID))
	if err != nil {
		return nil, fmt.Errorf("list feedback given: %w", err)
	}
	return list, nil
}

// AggregateRating summarizes the public feedback userID has received. Cache
// failures degrade to reading storage.
func (s *FeedbackService) AggregateRating(ctx context.Context, userID string) (*domain.RatingSummary, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, userID)
		switch {
		case err != nil:
			RatingCacheRequests.WithLabelValues(resultError).Inc()
			s.logger.WarnContext(ctx, "rating cache read failed",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		case cached != nil:
			RatingCacheRequests.WithLabelValues(resultHit).Inc()
			return cached, nil
		default:
			RatingCacheRequests.WithLabelValues(resultMiss).Inc()
		}
	}

	list, err := s.repo.ListByReviewee(ctx, userID, true)
	if err != nil {
		return nil, fmt.Errorf("list feedback for rating: %w", err)
	}
	summary := domain.Summarize(userID, list)

	if s.cache != nil {
		if err := s.cache.Set(ctx, &summary); err != nil {
			s.logger.WarnContext(ctx, "rating cache write failed",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
	}
	return &summary, nil
}

func (s *FeedbackService) loadOwned(ctx context.Context, feedbackID, reviewerID string) (*domain.Feedback, error) {
	fb, err := s.repo.GetByID(ctx, feedbackID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("feedback", feedbackID)
		}
		return nil, fmt.Errorf("get feedback by id: %w", err)
	}
	if fb.ReviewerID != reviewerID {
		return nil, apperrors.Forbidden("only the reviewer can change this feedback")
	}
	return fb, nil
}

func (s *FeedbackService) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "rating cache invalidation failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
}

func validateRatings(rating int, skill, communication *int, comment string) error {
	if !inRatingRange(rating) {
		return apperrors.InvalidInput(fmt.Sprintf("rating must be between %d and %d", domain.MinRating, domain.MaxRating))
	}
	if skill != nil && !inRatingRange(*skill) {
		return apperrors.InvalidInput(fmt.Sprintf("skill_rating must be between %d and %d", domain.MinRating, domain.MaxRating))
	}
	if communication != nil && !inRatingRange(*communication) {
		return apperrors.InvalidInput(fmt.Sprintf("communication_rating must be between %d and %d", domain.MinRating, domain.MaxRating))
	}
	if utf8.RuneCountInString(comment) > domain.MaxMessageLength {
		return apperrors.InvalidInput(fmt.Sprintf("comment must be at most %d characters", domain.MaxMessageLength))
	}
	return nil
}

func inRatingRange(v int) bool {
	return v >= domain.MinRating && v <= domain.MaxRating
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
