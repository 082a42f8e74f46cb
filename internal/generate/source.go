// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generate

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// LocalSource splits a command line or config source into the filesystem
// root a loader should read from and the source relative to that root.
// Relative paths resolve against dir. The root is the volume root, so
// references may climb above the source's directory. Remote sources are
// returned unchanged with dir as the root.
func LocalSource(dir, source string) (root, rel string, err error) {
	doc, fragment, hasFragment := strings.Cut(source, "#")
	if strings.HasPrefix(doc, "http://") || strings.HasPrefix(doc, "https://") {
		return dir, source, nil
	}
	if doc == "" {
		return "", "", errors.New("empty schema source")
	}

	abs := filepath.FromSlash(doc)
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(dir, abs)
	}
	abs, err = filepath.Abs(abs)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve %s: %w", doc, err)
	}

	root = filepath.VolumeName(abs) + string(filepath.Separator)
	rel = filepath.ToSlash(strings.TrimPrefix(abs, root))
	if hasFragment {
		rel += "#" + fragment
	}
	return root, rel, nil
}
