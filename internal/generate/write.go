// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dacolabs/schemagen/internal/translate"
)

// writeFiles writes files under dir. Every file is first written to a
// temporary sibling and only renamed into place once all of them were
// written. Existing files are moved aside during the renames and put back
// if one fails, so a failed target leaves the directory as it was.
func writeFiles(dir string, files []translate.File) error {
	type pending struct{ tmp, dst, backup string }
	var staged []pending
	cleanup := func() {
		for _, p := range staged {
			_ = os.Remove(p.tmp)
		}
	}

	for _, f := range files {
		if !filepath.IsLocal(filepath.FromSlash(f.Name)) {
			cleanup()
			return fmt.Errorf("invalid output file name %q", f.Name)
		}
		dst := filepath.Join(dir, filepath.FromSlash(f.Name))
		if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
			cleanup()
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp-*")
		if err != nil {
			cleanup()
			return fmt.Errorf("failed to create temporary file: %w", err)
		}
		staged = append(staged, pending{tmp: tmp.Name(), dst: dst})
		_, err = tmp.Write(f.Content)
		if closeErr := tmp.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			cleanup()
			return fmt.Errorf("failed to write %s: %w", f.Name, err)
		}
	}

	// rollback restores the first n destinations and drops every temp file.
	rollback := func(n int) {
		for j := n - 1; j >= 0; j-- {
			p := staged[j]
			if p.backup != "" {
				_ = os.Rename(p.backup, p.dst)
			} else {
				_ = os.Remove(p.dst)
			}
		}
		cleanup()
	}

	for i := range staged {
		p := &staged[i]
		if info, err := os.Lstat(p.dst); err == nil && info.Mode().IsRegular() {
			p.backup = p.tmp + ".old"
			if err := os.Rename(p.dst, p.backup); err != nil {
				p.backup = ""
				rollback(i)
				return fmt.Errorf("failed to write %s: %w", p.dst, err)
			}
		}
		if err := os.Rename(p.tmp, p.dst); err != nil {
			rollback(i + 1)
			return fmt.Errorf("failed to write %s: %w", p.dst, err)
		}
	}
	for _, p := range staged {
		if p.backup != "" {
			_ = os.Remove(p.backup)
		}
	}
	return nil
}

// printFiles writes rendered files to w. With banner set each file is
// preceded by a "==> target/name <==" line.
func printFiles(w io.Writer, target string, files []translate.File, banner bool) error {
	for _, f := range files {
		if banner {
			if _, err := fmt.Fprintf(w, "==> %s/%s <==\n", target, f.Name); err != nil {
				return err
			}
		}
		if _, err := w.Write(f.Content); err != nil {
			return err
		}
	}
	return nil
}
