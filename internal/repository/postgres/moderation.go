package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Zenuu19/Skill-Swap-Platform/internal/domain"
	"github.com/Zenuu19/Skill-Swap-Platform/pkg/database"
	apperrors "github.com/Zenuu19/Skill-Swap-Platform/pkg/errors"
)

// ModerationRepository implements repository.ModerationRepository using PostgreSQL.
type ModerationRepository struct {
	pool database.DBTX
}

// NewModerationRepository creates a new PostgreSQL-backed moderation repository.
func NewModerationRepository(pool database.DBTX) *ModerationRepository {
	return &ModerationRepository{pool: pool}
}

// SetUserBanned flips users.is_banned and appends entry in one transaction.
func (r *ModerationRepository) SetUserBanned(ctx context.Context, userID string, banned bool, entry *domain.ModerationEntry) (err error) {
	query := `UPDATE users SET is_banned = $2, updated_at = $3 WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "users.SetBanned", query)
	defer func() { end(err) }()

	return database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query, userID, banned, entry.CreatedAt)
		if err != nil {
			return fmt.Errorf("update user ban: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrNotFound
		}
		return insertModerationEntry(ctx, tx, entry)
	})
}

// SetSkillStatus sets skills.status and appends entry in one transaction.
// Rejected skills are kept so existing swap history still resolves.
func (r *ModerationRepository) SetSkillStatus(ctx context.Context, skillID, status string, entry *domain.ModerationEntry) (err error) {
	query := `UPDATE skills SET status = $2, updated_at = $3 WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "skills.SetStatus", query)
	defer func() { end(err) }()

	return database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query, skillID, status, entry.CreatedAt)
		if err != nil {
			return fmt.Errorf("update skill status: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrNotFound
		}
		return insertModerationEntry(ctx, tx, entry)
	})
}

// ListLog returns the newest limit entries.
func (r *ModerationRepository) ListLog(ctx context.Context, limit int) (_ []domain.ModerationEntry, err error) {
	query := `
		SELECT id, admin_id, action, target_type, target_id, reason, created_at
		FROM moderation_log
		ORDER BY created_at DESC
		LIMIT $1`

	ctx, end := database.TraceQuery(ctx, "moderation_log.List", query)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list moderation log: %w", err)
	}
	defer rows.Close()

	entries := []domain.ModerationEntry{}
	for rows.Next() {
		var e domain.ModerationEntry
		if err = rows.Scan(&e.ID, &e.AdminID, &e.Action, &e.TargetType, &e.TargetID, &e.Reason, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan moderation entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate moderation log: %w", err)
	}
	return entries, nil
}

func insertModerationEntry(ctx context.Context, tx pgx.Tx, e *domain.ModerationEntry) (err error) {
	query := `
		INSERT INTO moderation_log (id, admin_id, action, target_type, target_id, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	ctx, end := database.TraceQuery(ctx, "moderation_log.Insert", query)
	defer func() { end(err) }()

	_, err = tx.Exec(ctx, query, e.ID, e.AdminID, e.Action, e.TargetType, e.TargetID, e.Reason, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert moderation entry: %w", err)
	}
	return nil
}
