// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dacolabs/schemagen/internal/config"
	"github.com/dacolabs/schemagen/internal/targets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userSchema = `{"definitions": {
  "User": {
    "type": "object",
    "required": ["id"],
    "properties": {
      "id": {"type": "integer"},
      "grid": {"type": "array", "items": {"type": "array", "items": {"type": "integer"}}}
    }
  }
}}`

// execute runs the CLI in dir and returns stdout, stderr and the error.
func execute(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(dir)

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd(targets.Register())
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeSchema(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "schema.json"), []byte(userSchema), 0o600))
}

func TestTargetsCmd(t *testing.T) {
	out, _, err := execute(t, t.TempDir(), "targets")
	require.NoError(t, err)
	assert.Equal(t, "cpp\ngotypes\njava\nprotobuf\npydantic\ntypescript\n", out)
}

func TestVersionCmd(t *testing.T) {
	out, _, err := execute(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "schemagen version")
}

func TestGenerateCmd_DefaultTargetToStdout(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir)

	out, stderr, err := execute(t, dir, "generate", "schema.json#/definitions/")
	require.NoError(t, err)
	assert.Contains(t, out, "export interface User {")
	assert.Contains(t, stderr, "typescript")
}

func TestGenerateCmd_FailedTargetExitsNonZero(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir)

	_, stderr, err := execute(t, dir, "generate", "schema.json#/definitions/", "-t", "typescript", "-t", "protobuf", "-o", "out")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 target(s) failed")
	assert.Contains(t, stderr, "nested repeated")

	assert.FileExists(t, filepath.Join(dir, "out", "typescript", "User.ts"))
	assert.NoDirExists(t, filepath.Join(dir, "out", "protobuf"))
}

func TestGenerateCmd_FromConfig(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir)
	cfg := &config.Config{
		Version: config.CurrentConfigVersion,
		Source:  "schema.json#/definitions/",
		Output:  "gen",
		Targets: []config.Target{
			{Language: "java", Namespace: "com.example"},
			{Language: "gotypes", Output: "pkg/models", Namespace: "models"},
		},
	}
	require.NoError(t, cfg.Save(filepath.Join(dir, config.FileName)))

	_, _, err := execute(t, dir, "generate")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "gen", "java", "com", "example", "User.java"))

	goFile, err := os.ReadFile(filepath.Join(dir, "pkg", "models", "user.go"))
	require.NoError(t, err)
	assert.Contains(t, string(goFile), "package models")
}

func TestGenerateCmd_NamespaceOverride(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir)

	out, _, err := execute(t, dir, "generate", "schema.json#/definitions/", "-t", "cpp", "--namespace", "cpp=Api::Types")
	require.NoError(t, err)
	assert.Contains(t, out, "namespace Api::Types {")
}

func TestGenerateCmd_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "no source", args: []string{"generate"}, wantErr: "no schema source"},
		{name: "unknown target", args: []string{"generate", "schema.json", "-t", "cobol"}, wantErr: "unknown target: cobol"},
		{name: "bad namespace", args: []string{"generate", "schema.json", "--namespace", "java"}, wantErr: "want target=namespace"},
		{name: "namespace for unselected target", args: []string{"generate", "schema.json", "--namespace", "cpp=X"}, wantErr: "target cpp is not selected"},
		{name: "missing file", args: []string{"generate", "nope.json"}, wantErr: "schema not found"},
		{name: "missing config", args: []string{"generate", "--config", "absent.yaml"}, wantErr: "config file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeSchema(t, dir)
			_, _, err := execute(t, dir, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInitCmd(t *testing.T) {
	dir := t.TempDir()

	_, _, err := execute(t, dir, "init", "--non-interactive", "--source", "schema.json#/definitions/", "-t", "gotypes", "-t", "pydantic")
	require.NoError(t, err)

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "schema.json#/definitions/", cfg.Source)
	assert.Equal(t, "generated", cfg.Output)
	assert.Equal(t, []config.Target{{Language: "gotypes"}, {Language: "pydantic"}}, cfg.Targets)

	_, _, err = execute(t, dir, "init", "--non-interactive")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = execute(t, dir, "init", "--non-interactive", "--force", "-t", "cobol")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown target: cobol")

	_, _, err = execute(t, dir, "init", "--non-interactive", "--force")
	require.NoError(t, err)
	cfg, err = config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, []config.Target{{Language: config.DefaultTarget}}, cfg.Targets)
}
