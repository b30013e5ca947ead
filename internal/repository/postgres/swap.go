package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Zenuu19/Skill-Swap-Platform/internal/domain"
	"github.com/Zenuu19/Skill-Swap-Platform/internal/repository"
	"github.com/Zenuu19/Skill-Swap-Platform/pkg/database"
	apperrors "github.com/Zenuu19/Skill-Swap-Platform/pkg/errors"
)

// activeSwapIndex backs the one-active-request rule.
const activeSwapIndex = "swap_requests_active_unique"

const swapColumns = `id, requester_id, requestee_id,
	offered_skill_kind, offered_skill_id, offered_skill_label,
	wanted_skill_kind, wanted_skill_id, wanted_skill_label,
	message, status, response_message,
	created_at, updated_at, responded_at, completed_at, cancelled_at`

// SwapRepository implements repository.SwapRepository using PostgreSQL.
type SwapRepository struct {
	pool database.DBTX
}

// NewSwapRepository creates a new PostgreSQL-backed swap request repository.
func NewSwapRepository(pool database.DBTX) *SwapRepository {
	return &SwapRepository{pool: pool}
}

// Create inserts a new swap request.
func (r *SwapRepository) Create(ctx context.Context, s *domain.SwapRequest) (err error) {
	query := `
		INSERT INTO swap_requests (id, requester_id, requestee_id,
			offered_skill_kind, offered_skill_id, offered_skill_label, offered_skill_key,
			wanted_skill_kind, wanted_skill_id, wanted_skill_label, wanted_skill_key,
			message, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	ctx, end := database.TraceQuery(ctx, "swap.Create", query)
	defer func() { end(err) }()

	_, err = r.pool.Exec(ctx, query,
		s.ID,
		s.RequesterID,
		s.RequesteeID,
		s.OfferedSkill.Kind,
		nullableID(s.OfferedSkill.SkillID),
		s.OfferedSkill.Label,
		s.OfferedSkill.Key(),
		s.WantedSkill.Kind,
		nullableID(s.WantedSkill.SkillID),
		s.WantedSkill.Label,
		s.WantedSkill.Key(),
		s.Message,
		s.Status,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err, activeSwapIndex) {
			return apperrors.ErrDuplicateActive
		}
		return fmt.Errorf("insert swap request: %w", err)
	}
	return nil
}

// GetByID retrieves a swap request by its ID.
func (r *SwapRepository) GetByID(ctx context.Context, id string) (_ *domain.SwapRequest, err error) {
	query := `SELECT ` + swapColumns + ` FROM swap_requests WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "swap.GetByID", query)
	defer func() { end(err) }()

	s, err := scanSwap(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan swap request: %w", err)
	}
	return s, nil
}

// List returns requests sent, received or both by filter.UserID, newest first.
func (r *SwapRepository) List(ctx context.Context, filter repository.SwapFilter) (_ []domain.SwapRequest, err error) {
	var (
		conditions []string
		args       = []any{filter.UserID}
	)

	switch filter.Direction {
	case domain.DirectionSent:
		conditions = append(conditions, "requester_id = $1")
	case domain.DirectionReceived:
		conditions = append(conditions, "requestee_id = $1")
	default:
		conditions = append(conditions, "(requester_id = $1 OR requestee_id = $1)")
	}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + swapColumns + ` FROM swap_requests WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY created_at DESC`

	ctx, end := database.TraceQuery(ctx, "swap.List", query)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list swap requests: %w", err)
	}
	return collectSwaps(rows)
}

// HasActiveDuplicate checks for a pending or accepted request on the same tuple.
func (r *SwapRepository) HasActiveDuplicate(ctx context.Context, requesterID, requesteeID, offeredKey, wantedKey string) (_ bool, err error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM swap_requests
			WHERE requester_id = $1 AND requestee_id = $2
			  AND offered_skill_key = $3 AND wanted_skill_key = $4
			  AND status IN ('pending', 'accepted')
		)`

	ctx, end := database.TraceQuery(ctx, "swap.HasActiveDuplicate", query)
	defer func() { end(err) }()

	var exists bool
	if err = r.pool.QueryRow(ctx, query, requesterID, requesteeID, offeredKey, wantedKey).Scan(&exists); err != nil {
		return false, fmt.Errorf("check active duplicate: %w", err)
	}
	return exists, nil
}

// UpdateStatus writes the transition guarded on the expected current status.
func (r *SwapRepository) UpdateStatus(ctx context.Context, s *domain.SwapRequest, expectedStatus string) (err error) {
	query := `
		UPDATE swap_requests
		SET status = $3, response_message = $4, updated_at = $5,
			responded_at = $6, completed_at = $7, cancelled_at = $8
		WHERE id = $1 AND status = $2`

	ctx, end := database.TraceQuery(ctx, "swap.UpdateStatus", query)
	defer func() { end(err) }()

	tag, err := r.pool.Exec(ctx, query,
		s.ID,
		expectedStatus,
		s.Status,
		s.ResponseMessage,
		s.UpdatedAt,
		s.RespondedAt,
		s.CompletedAt,
		s.CancelledAt,
	)
	if err != nil {
		return fmt.Errorf("update swap request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvalidState
	}
	return nil
}

// Delete removes a request owned by requesterID in one of statuses.
func (r *SwapRepository) Delete(ctx context.Context, id, requesterID string, statuses []string) (err error) {
	query := `DELETE FROM swap_requests WHERE id = $1 AND requester_id = $2 AND status = ANY($3)`

	ctx, end := database.TraceQuery(ctx, "swap.Delete", query)
	defer func() { end(err) }()

	tag, err := r.pool.Exec(ctx, query, id, requesterID, statuses)
	if err != nil {
		return fmt.Errorf("delete swap request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvalidState
	}
	return nil
}

// ListAwaitingFeedback returns completed swaps userID took part in and has
// not reviewed yet, most recently completed first.
func (r *SwapRepository) ListAwaitingFeedback(ctx context.Context, userID string) (_ []domain.SwapRequest, err error) {
	query := `SELECT ` + swapColumns + ` FROM swap_requests s
		WHERE s.status = 'completed'
		  AND (s.requester_id = $1 OR s.requestee_id = $1)
		  AND NOT EXISTS (
			SELECT 1 FROM feedback f
			WHERE f.swap_request_id = s.id AND f.reviewer_id = $1
		  )
		ORDER BY s.completed_at DESC`

	ctx, end := database.TraceQuery(ctx, "swap.ListAwaitingFeedback", query)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list swaps awaiting feedback: %w", err)
	}
	return collectSwaps(rows)
}

func collectSwaps(rows pgx.Rows) ([]domain.SwapRequest, error) {
	defer rows.Close()

	swaps := []domain.SwapRequest{}
	for rows.Next() {
		s, err := scanSwap(rows)
		if err != nil {
			return nil, fmt.Errorf("scan swap request row: %w", err)
		}
		swaps = append(swaps, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate swap request rows: %w", err)
	}
	return swaps, nil
}

func scanSwap(row pgx.Row) (*domain.SwapRequest, error) {
	var (
		s                 domain.SwapRequest
		offeredID, wantID *string
	)
	err := row.Scan(
		&s.ID,
		&s.RequesterID,
		&s.RequesteeID,
		&s.OfferedSkill.Kind,
		&offeredID,
		&s.OfferedSkill.Label,
		&s.WantedSkill.Kind,
		&wantID,
		&s.WantedSkill.Label,
		&s.Message,
		&s.Status,
		&s.ResponseMessage,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.RespondedAt,
		&s.CompletedAt,
		&s.CancelledAt,
	)
	if err != nil {
		return nil, err
	}
	if offeredID != nil {
		s.OfferedSkill.SkillID = *offeredID
	}
	if wantID != nil {
		s.WantedSkill.SkillID = *wantID
	}
	return &s, nil
}

// nullableID maps an empty id to SQL NULL.
func nullableID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
