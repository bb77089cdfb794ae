package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mizanlabs/mizan/internal/config"
	"github.com/mizanlabs/mizan/internal/llm"
	"github.com/mizanlabs/mizan/internal/store"
)

// initStore opens the passage database and runs migrations.
func initStore(ctx context.Context, cfg *config.Config) (*store.SQLiteStore, error) {
	passages, err := store.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := passages.Migrate(ctx); err != nil {
		_ = passages.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return passages, nil
}

// initGenerator builds the configured text-generation backend.
func initGenerator(cfg *config.Config) (*llm.Generator, error) {
	generator, err := llm.NewGenerator(cfg.LLM, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize llm backend: %w", err)
	}
	return generator, nil
}
