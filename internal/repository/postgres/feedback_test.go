package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zenuu19/Skill-Swap-Platform/internal/domain"
	"github.com/Zenuu19/Skill-Swap-Platform/pkg/database"
	apperrors "github.com/Zenuu19/Skill-Swap-Platform/pkg/errors"
)

func newTestFeedbackRepo(t *testing.T) (*FeedbackRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock := database.MockPool(t)
	return NewFeedbackRepository(mock), mock
}

var feedbackColumnNames = []string{
	"id", "swap_request_id", "reviewer_id", "reviewee_id",
	"rating", "skill_rating", "communication_rating", "comment",
	"recommends_user", "is_public", "created_at", "updated_at",
}

func sampleFeedback() *domain.Feedback {
	now := time.Now().UTC().Truncate(time.Microsecond)
	skill := 4
	return &domain.Feedback{
		ID:             "55555555-5555-5555-5555-555555555555",
		SwapRequestID:  "44444444-4444-4444-4444-444444444444",
		ReviewerID:     requesterID,
		RevieweeID:     requesteeID,
		Rating:         5,
		SkillRating:    &skill,
		Comment:        "Patient tutor",
		RecommendsUser: true,
		IsPublic:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func feedbackRow(rows *pgxmock.Rows, fb *domain.Feedback) *pgxmock.Rows {
	return rows.AddRow(
		fb.ID, fb.SwapRequestID, fb.ReviewerID, fb.RevieweeID,
		fb.Rating, fb.SkillRating, fb.CommunicationRating, fb.Comment,
		fb.RecommendsUser, fb.IsPublic, fb.CreatedAt, fb.UpdatedAt,
	)
}

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestFeedbackRepository_Create_Success(t *testing.T) {
	repo, mock := newTestFeedbackRepo(t)
	fb := sampleFeedback()

	mock.ExpectExec("INSERT INTO feedback").
		WithArgs(fb.ID, fb.SwapRequestID, fb.ReviewerID, fb.RevieweeID,
			5, fb.SkillRating, (*int)(nil), fb.Comment, true, true, fb.CreatedAt, fb.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), fb))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRepository_Create_AlreadyReviewed(t *testing.T) {
	repo, mock := newTestFeedbackRepo(t)

	mock.ExpectExec("INSERT INTO feedback").
		WithArgs(anyArgs(12)...).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: feedbackReviewerConstraint})

	err := repo.Create(context.Background(), sampleFeedback())
	assert.ErrorIs(t, err, apperrors.ErrAlreadyReviewed)
}

func TestFeedbackRepository_GetByID(t *testing.T) {
	repo, mock := newTestFeedbackRepo(t)
	fb := sampleFeedback()

	mock.ExpectQuery("FROM feedback WHERE id").
		WithArgs(fb.ID).
		WillReturnRows(feedbackRow(mock.NewRows(feedbackColumnNames), fb))

	got, err := repo.GetByID(context.Background(), fb.ID)
	require.NoError(t, err)
	assert.Equal(t, fb.Rating, got.Rating)
	require.NotNil(t, got.SkillRating)
	assert.Equal(t, 4, *got.SkillRating)
	assert.Nil(t, got.CommunicationRating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newTestFeedbackRepo(t)

	mock.ExpectQuery("FROM feedback WHERE id").
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFeedbackRepository_ExistsForReviewer(t *testing.T) {
	repo, mock := newTestFeedbackRepo(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("swap-1", requesterID).
		WillReturnRows(mock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := repo.ExistsForReviewer(context.Background(), "swap-1", requesterID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFeedbackRepository_Update(t *testing.T) {
	repo, mock := newTestFeedbackRepo(t)
	fb := sampleFeedback()

	mock.ExpectExec("UPDATE feedback").
		WithArgs(anyArgs(9)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE feedback").
		WithArgs(anyArgs(9)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, repo.Update(context.Background(), fb))
	assert.ErrorIs(t, repo.Update(context.Background(), fb), apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRepository_Delete(t *testing.T) {
	repo, mock := newTestFeedbackRepo(t)

	mock.ExpectExec("DELETE FROM feedback").
		WithArgs("fb-1", requesterID).
		WillReturnError(errors.New("boom"))

	err := repo.Delete(context.Background(), "fb-1", requesterID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete feedback")
}

func TestFeedbackRepository_ListByReviewee_PublicOnly(t *testing.T) {
	repo, mock := newTestFeedbackRepo(t)
	fb := sampleFeedback()

	mock.ExpectQuery(`WHERE reviewee_id = \$1 AND is_public = TRUE ORDER BY`).
		WithArgs(requesteeID).
		WillReturnRows(feedbackRow(mock.NewRows(feedbackColumnNames), fb))

	list, err := repo.ListByReviewee(context.Background(), requesteeID, true)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRepository_ListByReviewer_All(t *testing.T) {
	repo, mock := newTestFeedbackRepo(t)

	mock.ExpectQuery(`WHERE reviewer_id = \$1 ORDER BY`).
		WithArgs(requesterID).
		WillReturnRows(mock.NewRows(feedbackColumnNames))

	list, err := repo.ListByReviewer(context.Background(), requesterID, false)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}
