package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/arena?sslmode=disable")
	t.Setenv("JWT_SECRET_KEY", "test-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 4, cfg.BracketSize)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("BRACKET_SIZE", "8")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.ServerPort)
	assert.Equal(t, 8, cfg.BracketSize)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("DATABASE_URL", "postgres://localhost/arena")
	t.Setenv("JWT_SECRET_KEY", "")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoad_BracketSizeValidation(t *testing.T) {
	setRequiredEnv(t)

	for _, bad := range []string{"0", "1", "3", "6", "-4", "four"} {
		t.Setenv("BRACKET_SIZE", bad)
		_, err := Load()
		assert.Error(t, err, "BRACKET_SIZE=%s must be rejected", bad)
	}

	for _, good := range []string{"2", "4", "16"} {
		t.Setenv("BRACKET_SIZE", good)
		_, err := Load()
		assert.NoError(t, err, "BRACKET_SIZE=%s must be accepted", good)
	}
}
