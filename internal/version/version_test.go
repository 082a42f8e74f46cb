// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package version

import (
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromBuildInfo(t *testing.T) {
	info := &debug.BuildInfo{
		Main: debug.Module{Version: "v1.2.3"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}

	v, c, d := fromBuildInfo(info, "dev", "none", "unknown")
	assert.Equal(t, "v1.2.3", v)
	assert.Equal(t, "0123456", c)
	assert.Equal(t, "2026-01-02T03:04:05Z", d)

	v, c, d = fromBuildInfo(info, "1.0.0", "abc1234", "yesterday")
	assert.Equal(t, "1.0.0", v)
	assert.Equal(t, "abc1234", c)
	assert.Equal(t, "yesterday", d)

	v, _, _ = fromBuildInfo(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, "dev", "none", "unknown")
	assert.Equal(t, "dev", v)
}

func TestInfo(t *testing.T) {
	assert.True(t, strings.HasPrefix(Info(), "schemagen version "+Short()))
}
