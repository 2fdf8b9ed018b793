package config_test

import (
	"testing"

	"taskvault/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DYNAMODB_TABLE", "tasks")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "tasks", cfg.Dynamo.Table)
	assert.Equal(t, "us-east-1", cfg.Dynamo.Region)
	assert.Empty(t, cfg.Dynamo.Endpoint)
	assert.Equal(t, config.RepositoryDynamo, cfg.Repository.Type)
	assert.False(t, cfg.Logging.Development)
	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddr())
}

func TestLoad_MissingTable(t *testing.T) {
	t.Setenv("DYNAMODB_TABLE", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DYNAMODB_TABLE")
}

func TestLoad_MissingTableAllowedForInMemory(t *testing.T) {
	t.Setenv("DYNAMODB_TABLE", "")
	t.Setenv("REPOSITORY_TYPE", "inmemory")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.RepositoryInMemory, cfg.Repository.Type)
}

func TestLoad_UnknownRepositoryType(t *testing.T) {
	t.Setenv("DYNAMODB_TABLE", "tasks")
	t.Setenv("REPOSITORY_TYPE", "cassandra")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_OfflineToggle(t *testing.T) {
	t.Setenv("DYNAMODB_TABLE", "tasks")
	t.Setenv("IS_OFFLINE", "true")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.Dynamo.Endpoint)
}

func TestLoad_ExplicitEndpointWins(t *testing.T) {
	t.Setenv("DYNAMODB_TABLE", "tasks")
	t.Setenv("IS_OFFLINE", "true")
	t.Setenv("DYNAMODB_ENDPOINT", "http://dynamo.internal:9000")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "http://dynamo.internal:9000", cfg.Dynamo.Endpoint)
}

func TestLoad_ServerOverrides(t *testing.T) {
	t.Setenv("DYNAMODB_TABLE", "tasks")
	t.Setenv("SERVER_HOST", "127.0.0.1")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", cfg.GetServerAddr())
}
