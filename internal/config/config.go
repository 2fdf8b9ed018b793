package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

const (
	RepositoryDynamo   = "dynamo"
	RepositoryInMemory = "inmemory"
)

type Config struct {
	Server     ServerConfig
	Dynamo     DynamoConfig
	Logging    LoggingConfig
	Repository RepositoryConfig
}

type ServerConfig struct {
	Port string
	Host string
}

type DynamoConfig struct {
	// Table is the name of the tasks table. Required for the dynamo
	// repository.
	Table  string
	Region string
	// Endpoint overrides the backend endpoint for local development.
	Endpoint string
}

type LoggingConfig struct {
	Development bool
}

type RepositoryConfig struct {
	Type string // "dynamo" or "inmemory"
}

// Load reads configuration from the environment once at startup.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("REPOSITORY_TYPE", RepositoryDynamo)
	v.SetDefault("LOG_DEVELOPMENT", false)
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetString("SERVER_PORT"),
		},
		Dynamo: DynamoConfig{
			Table:    v.GetString("DYNAMODB_TABLE"),
			Region:   v.GetString("AWS_REGION"),
			Endpoint: v.GetString("DYNAMODB_ENDPOINT"),
		},
		Logging: LoggingConfig{
			Development: v.GetBool("LOG_DEVELOPMENT"),
		},
		Repository: RepositoryConfig{
			Type: v.GetString("REPOSITORY_TYPE"),
		},
	}

	// local backend toggle, points at dynamodb-local unless an endpoint
	// was given explicitly
	if v.GetBool("IS_OFFLINE") && cfg.Dynamo.Endpoint == "" {
		cfg.Dynamo.Endpoint = "http://localhost:8000"
	}

	if cfg.Repository.Type != RepositoryDynamo && cfg.Repository.Type != RepositoryInMemory {
		return nil, fmt.Errorf("unknown REPOSITORY_TYPE %q", cfg.Repository.Type)
	}

	if cfg.Repository.Type == RepositoryDynamo && cfg.Dynamo.Table == "" {
		return nil, errors.New("DYNAMODB_TABLE environment variable not defined")
	}

	return cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
