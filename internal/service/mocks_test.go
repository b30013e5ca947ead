package service

import (
	"context"
	"log/slog"
	"os"

	"github.com/stretchr/testify/mock"

	"github.com/Zenuu19/Skill-Swap-Platform/internal/domain"
	"github.com/Zenuu19/Skill-Swap-Platform/internal/repository"
)

// --- Mock Repositories ---

type mockSwapRepository struct {
	mock.Mock
}

func (m *mockSwapRepository) Create(ctx context.Context, swap *domain.SwapRequest) error {
	args := m.Called(ctx, swap)
	return args.Error(0)
}

func (m *mockSwapRepository) GetByID(ctx context.Context, id string) (*domain.SwapRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SwapRequest), args.Error(1)
}

func (m *mockSwapRepository) List(ctx context.Context, filter repository.SwapFilter) ([]domain.SwapRequest, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SwapRequest), args.Error(1)
}

func (m *mockSwapRepository) HasActiveDuplicate(ctx context.Context, requesterID, requesteeID, offeredKey, wantedKey string) (bool, error) {
	args := m.Called(ctx, requesterID, requesteeID, offeredKey, wantedKey)
	return args.Bool(0), args.Error(1)
}

func (m *mockSwapRepository) UpdateStatus(ctx context.Context, swap *domain.SwapRequest, expectedStatus string) error {
	args := m.Called(ctx, swap, expectedStatus)
	return args.Error(0)
}

func (m *mockSwapRepository) Delete(ctx context.Context, id, requesterID string, statuses []string) error {
	args := m.Called(ctx, id, requesterID, statuses)
	return args.Error(0)
}

func (m *mockSwapRepository) ListAwaitingFeedback(ctx context.Context, userID string) ([]domain.SwapRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SwapRequest), args.Error(1)
}

type mockFeedbackRepository struct {
	mock.Mock
}

func (m *mockFeedbackRepository) Create(ctx context.Context, fb *domain.Feedback) error {
	args := m.Called(ctx, fb)
	return args.Error(0)
}

func (m *mockFeedbackRepository) GetByID(ctx context.Context, id string) (*domain.Feedback, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Feedback), args.Error(1)
}

func (m *mockFeedbackRepository) ExistsForReviewer(ctx context.Context, swapRequestID, reviewerID string) (bool, error) {
	args := m.Called(ctx, swapRequestID, reviewerID)
	return args.Bool(0), args.Error(1)
}

func (m *mockFeedbackRepository) Update(ctx context.Context, fb *domain.Feedback) error {
	args := m.Called(ctx, fb)
	return args.Error(0)
}

func (m *mockFeedbackRepository) Delete(ctx context.Context, id, reviewerID string) error {
	args := m.Called(ctx, id, reviewerID)
	return args.Error(0)
}

func (m *mockFeedbackRepository) ListByReviewee(ctx context.Context, revieweeID string, publicOnly bool) ([]domain.Feedback, error) {
	args := m.Called(ctx, revieweeID, publicOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Feedback), args.Error(1)
}

func (m *mockFeedbackRepository) ListByReviewer(ctx context.Context, reviewerID string, publicOnly bool) ([]domain.Feedback, error) {
	args := m.Called(ctx, reviewerID, publicOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Feedback), args.Error(1)
}

type mockDirectory struct {
	mock.Mock
}

func (m *mockDirectory) Exists(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockDirectory) IsActiveAndNotBanned(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockDirectory) OfferedSkills(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type mockModerationRepository struct {
	mock.Mock
}

func (m *mockModerationRepository) SetUserBanned(ctx context.Context, userID string, banned bool, entry *domain.ModerationEntry) error {
	args := m.Called(ctx, userID, banned, entry)
	return args.Error(0)
}

func (m *mockModerationRepository) SetSkillStatus(ctx context.Context, skillID, status string, entry *domain.ModerationEntry) error {
	args := m.Called(ctx, skillID, status, entry)
	return args.Error(0)
}

func (m *mockModerationRepository) ListLog(ctx context.Context, limit int) ([]domain.ModerationEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ModerationEntry), args.Error(1)
}

type mockRatingCache struct {
	mock.Mock
}

func (m *mockRatingCache) Get(ctx context.Context, userID string) (*domain.RatingSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RatingSummary), args.Error(1)
}

func (m *mockRatingCache) Set(ctx context.Context, summary *domain.RatingSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *mockRatingCache) Invalidate(ctx context.Context, userIDs ...string) error {
	args := m.Called(ctx, userIDs)
	return args.Error(0)
}

// --- Mock Publisher ---

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishSwapCreated(ctx context.Context, swap *domain.SwapRequest) error {
	args := m.Called(ctx, swap)
	return args.Error(0)
}

func (m *mockPublisher) PublishSwapStatusChanged(ctx context.Context, swapID, actorID string, action domain.Action, oldStatus, newStatus string) error {
	args := m.Called(ctx, swapID, actorID, action, oldStatus, newStatus)
	return args.Error(0)
}

func (m *mockPublisher) PublishSwapDeleted(ctx context.Context, swapID, actorID, status string) error {
	args := m.Called(ctx, swapID, actorID, status)
	return args.Error(0)
}

func (m *mockPublisher) PublishFeedbackSubmitted(ctx context.Context, fb *domain.Feedback) error {
	args := m.Called(ctx, fb)
	return args.Error(0)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func strPtr(s string) *string { return &s }
func intPtr(v int) *int       { return &v }
func boolPtr(v bool) *bool    { return &v }
