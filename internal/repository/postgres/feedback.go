package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Zenuu19/Skill-Swap-Platform/internal/domain"
	"github.com/Zenuu19/Skill-Swap-Platform/pkg/database"
	apperrors "github.com/Zenuu19/Skill-Swap-Platform/pkg/errors"
)

const feedbackReviewerConstraint = "feedback_swap_reviewer_unique"

const feedbackColumns = `id, swap_request_id, reviewer_id, reviewee_id,
	rating, skill_rating, communication_rating, comment,
	recommends_user, is_public, created_at, updated_at`

// FeedbackRepository implements repository.FeedbackRepository using PostgreSQL.
type FeedbackRepository struct {
	pool database.DBTX
}

// NewFeedbackRepository creates a new PostgreSQL-backed feedback repository.
func NewFeedbackRepository(pool database.DBTX) *FeedbackRepository {
	return &FeedbackRepository{pool: pool}
}

// Create inserts feedback. The (swap_request_id, reviewer_id) unique
// constraint catches concurrent duplicate submissions.
func (r *FeedbackRepository) Create(ctx context.Context, fb *domain.Feedback) (err error) {
	query := `
		INSERT INTO feedback (id, swap_request_id, reviewer_id, reviewee_id,
			rating, skill_rating, communication_rating, comment,
			recommends_user, is_public, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	ctx, end := database.TraceQuery(ctx, "feedback.Create", query)
	defer func() { end(err) }()

	_, err = r.pool.Exec(ctx, query,
		fb.ID,
		fb.SwapRequestID,
		fb.ReviewerID,
		fb.RevieweeID,
		fb.Rating,
		fb.SkillRating,
		fb.CommunicationRating,
		fb.Comment,
		fb.RecommendsUser,
		fb.IsPublic,
		fb.CreatedAt,
		fb.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err, feedbackReviewerConstraint) {
			return apperrors.ErrAlreadyReviewed
		}
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

// GetByID retrieves feedback by its ID.
func (r *FeedbackRepository) GetByID(ctx context.Context, id string) (_ *domain.Feedback, err error) {
	query := `SELECT ` + feedbackColumns + ` FROM feedback WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "feedback.GetByID", query)
	defer func() { end(err) }()

	fb, err := scanFeedback(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan feedback: %w", err)
	}
	return fb, nil
}

// ExistsForReviewer reports whether reviewerID already reviewed the swap.
func (r *FeedbackRepository) ExistsForReviewer(ctx context.Context, swapRequestID, reviewerID string) (_ bool, err error) {
	query := `SELECT EXISTS (SELECT 1 FROM feedback WHERE swap_request_id = $1 AND reviewer_id = $2)`

	ctx, end := database.TraceQuery(ctx, "feedback.ExistsForReviewer", query)
	defer func() { end(err) }()

	var exists bool
	if err = r.pool.QueryRow(ctx, query, swapRequestID, reviewerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check existing feedback: %w", err)
	}
	return exists, nil
}

// Update rewrites the mutable fields of feedback owned by fb.ReviewerID.
func (r *FeedbackRepository) Update(ctx context.Context, fb *domain.Feedback) (err error) {
	query := `
		UPDATE feedback
		SET rating = $3, skill_rating = $4, communication_rating = $5, comment = $6,
			recommends_user = $7, is_public = $8, updated_at = $9
		WHERE id = $1 AND reviewer_id = $2`

	ctx, end := database.TraceQuery(ctx, "feedback.Update", query)
	defer func() { end(err) }()

	tag, err := r.pool.Exec(ctx, query,
		fb.ID,
		fb.ReviewerID,
		fb.Rating,
		fb.SkillRating,
		fb.CommunicationRating,
		fb.Comment,
		fb.RecommendsUser,
		fb.IsPublic,
		fb.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update feedback: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete removes feedback owned by reviewerID.
func (r *FeedbackRepository) Delete(ctx context.Context, id, reviewerID string) (err error) {
	query := `DELETE FROM feedback WHERE id = $1 AND reviewer_id = $2`

	ctx, end := database.TraceQuery(ctx, "feedback.Delete", query)
	defer func() { end(err) }()

	tag, err := r.pool.Exec(ctx, query, id, reviewerID)
	if err != nil {
		return fmt.Errorf("delete feedback: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListByReviewee returns feedback received by revieweeID, newest first.
func (r *FeedbackRepository) ListByReviewee(ctx context.Context, revieweeID string, publicOnly bool) ([]domain.Feedback, error) {
	return r.list(ctx, "feedback.ListByReviewee", "reviewee_id", revieweeID, publicOnly)
}

// ListByReviewer returns feedback written by reviewerID, newest first.
func (r *FeedbackRepository) ListByReviewer(ctx context.Context, reviewerID string, publicOnly bool) ([]domain.Feedback, error) {
	return r.list(ctx, "feedback.ListByReviewer", "reviewer_id", reviewerID, publicOnly)
}

// column is always a package constant, never caller input.
func (r *FeedbackRepository) list(ctx context.Context, op, column, userID string, publicOnly bool) (_ []domain.Feedback, err error) {
	query := `SELECT ` + feedbackColumns + ` FROM feedback WHERE ` + column + ` = $1`
	if publicOnly {
		query += ` AND is_public = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	ctx, end := database.TraceQuery(ctx, op, query)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	feedback := []domain.Feedback{}
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("scan feedback row: %w", err)
		}
		feedback = append(feedback, *fb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feedback rows: %w", err)
	}
	return feedback, nil
}

func scanFeedback(row pgx.Row) (*domain.Feedback, error) {
	var fb domain.Feedback
	err := row.Scan(
		&fb.ID,
		&fb.SwapRequestID,
		&fb.ReviewerID,
		&fb.RevieweeID,
		&fb.Rating,
		&fb.SkillRating,
		&fb.CommunicationRating,
		&fb.Comment,
		&fb.RecommendsUser,
		&fb.IsPublic,
		&fb.CreatedAt,
		&fb.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &fb, nil
}
