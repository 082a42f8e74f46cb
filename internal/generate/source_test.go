// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generate

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSource(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("paths below are POSIX")
	}

	tests := []struct {
		name     string
		dir      string
		source   string
		wantRoot string
		wantRel  string
	}{
		{name: "relative", dir: "/work/project", source: "schemas/api.json", wantRoot: "/", wantRel: "work/project/schemas/api.json"},
		{name: "fragment kept", dir: "/work", source: "api.json#/definitions/", wantRoot: "/", wantRel: "work/api.json#/definitions/"},
		{name: "absolute", dir: "/work", source: "/tmp/x.yaml", wantRoot: "/", wantRel: "tmp/x.yaml"},
		{name: "parent", dir: "/work/a", source: "../b/s.json", wantRoot: "/", wantRel: "work/b/s.json"},
		{name: "remote", dir: "/work", source: "https://example.com/s.json#/definitions/A", wantRoot: "/work", wantRel: "https://example.com/s.json#/definitions/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, rel, err := LocalSource(tt.dir, tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRoot, root)
			assert.Equal(t, tt.wantRel, rel)
			if root == "/" {
				assert.True(t, filepath.IsAbs(root))
			}
		})
	}

	_, _, err := LocalSource("/work", "#/definitions/A")
	assert.Error(t, err)
}
