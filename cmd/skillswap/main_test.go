package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zenuu19/Skill-Swap-Platform/internal/auth"
)

const testUserID = "7d5a3c1e-9f1b-4f8e-a2d4-5b6c7d8e9f01"

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--env-file", t.TempDir()+"/missing.env"))
	err := cmd.Execute()
	return out.String(), err
}

func TestTokenCmd_PrintsValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-test-secret-cli-test-secret-0123")
	t.Setenv("JWT_ISSUER", "skillswap-test")

	out, err := runRoot(t, "token", testUserID, "--role", auth.RoleAdmin)
	require.NoError(t, err)

	claims, err := auth.NewJWTManager("cli-test-secret-cli-test-secret-0123", "skillswap-test").
		ValidateAccessToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, testUserID, claims.UserID)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
}

func TestTokenCmd_RejectsBadInput(t *testing.T) {
	t.Run("non uuid", func(t *testing.T) {
		_, err := runRoot(t, "token", "alice")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "UUID")
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := runRoot(t, "token", testUserID, "--role", "root")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "role must be")
	})

	t.Run("missing argument", func(t *testing.T) {
		_, err := runRoot(t, "token")
		require.Error(t, err)
	})
}

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	cmd := newRootCmd()

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}

	assert.Subset(t, names, []string{"serve", "migrate", "token"})
}
