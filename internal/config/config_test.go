// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dacolabs/schemagen/internal/translate"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestConfig_LoadAndSave(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, FileName)

	cfg := Config{
		Version:        1,
		Source:         "schemas/api.json#/definitions/",
		Output:         "gen",
		AllowRecursive: true,
		Fetch:          Fetch{Timeout: 10 * time.Second, Retries: intPtr(0)},
		Targets: []Target{
			{Language: "typescript"},
			{Language: "java", Namespace: "com.example.api", LanguageVersion: "17", Output: "java/src"},
			{Language: "cpp", Namespace: "Imagekit::Sdk", IncludeStyle: "local", Casing: "camel"},
		},
	}

	err := cfg.Save(cfgPath)
	require.NoError(t, err)

	loaded, err := Load(cfgPath)
	require.NoError(t, err)

	if diff := cmp.Diff(&cfg, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestConfig_SaveFormat(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, FileName)

	require.NoError(t, Default().Save(cfgPath))

	content, err := os.ReadFile(cfgPath) //nolint:gosec // test file path
	require.NoError(t, err)

	assert.Equal(t, `version: 1
output: generated
targets:
  - language: typescript
`, string(content))
}

func TestConfig_LoadDuration(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(cfgPath, []byte("version: 1\nfetch:\n  timeout: 1m30s\n  retries: 5\n"), 0o600))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.Fetch.Timeout)
	require.NotNil(t, cfg.Fetch.Retries)
	assert.Equal(t, 5, *cfg.Fetch.Retries)
}

func TestConfig_LoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "valid config",
			cfg:     *Default(),
			wantErr: "",
		},
		{
			name:    "unsupported version",
			cfg:     Config{Version: 99},
			wantErr: "unsupported config version",
		},
		{
			name:    "missing language",
			cfg:     Config{Version: 1, Targets: []Target{{Output: "x"}}},
			wantErr: "targets[0]: language is required",
		},
		{
			name:    "bad casing",
			cfg:     Config{Version: 1, Targets: []Target{{Language: "go", Casing: "kebab"}}},
			wantErr: "unknown casing",
		},
		{
			name:    "bad include style",
			cfg:     Config{Version: 1, Targets: []Target{{Language: "cpp", IncludeStyle: "system"}}},
			wantErr: "includeStyle",
		},
		{
			name:    "negative retries",
			cfg:     Config{Version: 1, Fetch: Fetch{Retries: intPtr(-1)}},
			wantErr: "retries",
		},
		{
			name: "same output twice",
			cfg: Config{Version: 1, Output: "gen", Targets: []Target{
				{Language: "java", Namespace: "a"},
				{Language: "java", Namespace: "b"},
			}},
			wantErr: "same output",
		},
		{
			name: "same language with distinct outputs",
			cfg: Config{Version: 1, Targets: []Target{
				{Language: "java", Output: "a"},
				{Language: "java", Output: "b"},
			}},
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestTarget_Options(t *testing.T) {
	opts, err := Target{
		Language:        "java",
		Namespace:       "com.example",
		Casing:          "Snake",
		LanguageVersion: "17",
		TopLevel:        "Api",
	}.Options()
	require.NoError(t, err)
	assert.Equal(t, translate.Options{
		Namespace:       "com.example",
		FieldCasing:     translate.CasingSnake,
		LanguageVersion: "17",
		TopLevel:        "Api",
	}, opts)
}
