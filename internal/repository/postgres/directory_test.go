package postgres

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zenuu19/Skill-Swap-Platform/pkg/database"
)

func newTestDirectory(t *testing.T) (*DirectoryRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock := database.MockPool(t)
	return NewDirectoryRepository(mock), mock
}

func TestDirectoryRepository_Exists(t *testing.T) {
	dir, mock := newTestDirectory(t)

	mock.ExpectQuery(`FROM users WHERE id = \$1\)`).
		WithArgs(requesterID).
		WillReturnRows(mock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := dir.Exists(context.Background(), requesterID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDirectoryRepository_IsActiveAndNotBanned(t *testing.T) {
	dir, mock := newTestDirectory(t)

	mock.ExpectQuery(`is_active AND NOT is_banned`).
		WithArgs(requesterID).
		WillReturnRows(mock.NewRows([]string{"exists"}).AddRow(false))

	ok, err := dir.IsActiveAndNotBanned(context.Background(), requesterID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDirectoryRepository_IsActiveAndNotBanned_Error(t *testing.T) {
	dir, mock := newTestDirectory(t)

	mock.ExpectQuery(`is_active AND NOT is_banned`).
		WithArgs(requesterID).
		WillReturnError(errors.New("conn closed"))

	_, err := dir.IsActiveAndNotBanned(context.Background(), requesterID)
	assert.ErrorContains(t, err, "check user standing")
}

func TestDirectoryRepository_OfferedSkills(t *testing.T) {
	dir, mock := newTestDirectory(t)

	mock.ExpectQuery(`s.status = 'approved'`).
		WithArgs(requesterID).
		WillReturnRows(mock.NewRows([]string{"skill_id"}).AddRow(skillID).AddRow("66666666-6666-6666-6666-666666666666"))

	ids, err := dir.OfferedSkills(context.Background(), requesterID)
	require.NoError(t, err)
	assert.Equal(t, []string{skillID, "66666666-6666-6666-6666-666666666666"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
