package postgres

import (
	"context"
	"fmt"

	"github.com/Zenuu19/Skill-Swap-Platform/pkg/database"
)

// DirectoryRepository answers identity lookups from the users, skills and
// user_skills tables. It implements repository.IdentityDirectory.
type DirectoryRepository struct {
	pool database.DBTX
}

// NewDirectoryRepository creates a PostgreSQL-backed identity directory.
func NewDirectoryRepository(pool database.DBTX) *DirectoryRepository {
	return &DirectoryRepository{pool: pool}
}

func (r *DirectoryRepository) Exists(ctx context.Context, userID string) (_ bool, err error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`

	ctx, end := database.TraceQuery(ctx, "users.Exists", query)
	defer func() { end(err) }()

	var exists bool
	if err = r.pool.QueryRow(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return exists, nil
}

func (r *DirectoryRepository) IsActiveAndNotBanned(ctx context.Context, userID string) (_ bool, err error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1 AND is_active AND NOT is_banned)`

	ctx, end := database.TraceQuery(ctx, "users.IsActiveAndNotBanned", query)
	defer func() { end(err) }()

	var ok bool
	if err = r.pool.QueryRow(ctx, query, userID).Scan(&ok); err != nil {
		return false, fmt.Errorf("check user standing: %w", err)
	}
	return ok, nil
}

// OfferedSkills lists approved catalog skills the user offers. Rejected or
// still-pending skills are left out.
func (r *DirectoryRepository) OfferedSkills(ctx context.Context, userID string) (_ []string, err error) {
	query := `
		SELECT us.skill_id
		FROM user_skills us
		JOIN skills s ON s.id = us.skill_id
		WHERE us.user_id = $1 AND us.kind = 'offered' AND s.status = 'approved'
		ORDER BY us.skill_id`

	ctx, end := database.TraceQuery(ctx, "user_skills.OfferedSkills", query)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list offered skills: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan offered skill: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate offered skills: %w", err)
	}
	return ids, nil
}
