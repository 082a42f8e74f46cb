// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package session provides project context loading for CLI commands.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dacolabs/schemagen/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// ErrConfigNotFound indicates an explicitly requested config file is missing.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidConfig indicates the config file exists but is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// contextKey is used to store Context in context.Context.
type contextKey struct{}

// Context holds the resolved project configuration and the logger.
type Context struct {
	// Config is the loaded configuration, nil when the project has none.
	Config *config.Config

	// ConfigPath is where Config was loaded from, or where it would be.
	ConfigPath string

	// Dir is the directory relative schema sources and outputs resolve
	// against: the config file's directory, or the working directory.
	Dir string

	Logger *zap.Logger
}

// NewLogger builds the CLI logger, writing to stderr.
func NewLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// Load reads the config at path into a new Context stored in ctx. An
// empty path means schemagen.yaml in the working directory, which may be
// absent; an explicit path must exist.
func Load(ctx context.Context, path string, logger *zap.Logger) (context.Context, error) {
	explicit := path != ""
	if !explicit {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, config.FileName)
	}
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	sc := &Context{ConfigPath: path, Dir: filepath.Dir(path), Logger: logger}
	if sc.Logger == nil {
		sc.Logger = zap.NewNop()
	}

	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		if explicit {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		if sc.Dir, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		return context.WithValue(ctx, contextKey{}, sc), nil
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	sc.Config = cfg
	sc.Logger.Debug("config loaded", zap.String("path", path))
	return context.WithValue(ctx, contextKey{}, sc), nil
}

// From extracts the Context from a context.Context.
// Returns nil if no Context is stored.
func From(ctx context.Context) *Context {
	if sc, ok := ctx.Value(contextKey{}).(*Context); ok {
		return sc
	}
	return nil
}

// RequireFromCommand extracts the Context from a cobra.Command's context,
// returning an error if not found.
func RequireFromCommand(cmd *cobra.Command) (*Context, error) {
	if cmd.Context() == nil {
		return nil, errors.New("project context not loaded")
	}
	sc := From(cmd.Context())
	if sc == nil {
		return nil, errors.New("project context not loaded")
	}
	return sc, nil
}
