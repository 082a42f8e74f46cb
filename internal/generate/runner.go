// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package generate drives a schemagen run: load the schema once, build the
// type model once, then render and write every requested target.
package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/dacolabs/schemagen/internal/jschema"
	"github.com/dacolabs/schemagen/internal/translate"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrNoTargets indicates a request without any target.
var ErrNoTargets = errors.New("no targets requested")

// Loader resolves a schema source into a graph.
type Loader interface {
	Load(ctx context.Context, source string) (*jschema.Graph, error)
}

// Target is one output language of a request.
type Target struct {
	Name    string
	Options translate.Options
	// Output is the directory the target writes to. When empty, files go to
	// Request.OutputDir/Name, or to stdout when OutputDir is empty too.
	Output string
}

// Request describes one generation run.
type Request struct {
	Source    string
	Targets   []Target
	OutputDir string
}

// Runner executes requests. It is safe for concurrent use.
type Runner struct {
	loader      Loader
	translators translate.Register
	logger      *zap.Logger
	stdout      io.Writer
	root        string
	parallelism int
}

// Option configures a Runner.
type Option func(*Runner)

// WithStdout sets where targets without an output directory are printed.
func WithStdout(w io.Writer) Option {
	return func(r *Runner) { r.stdout = w }
}

// WithRoot sets the directory local schema sources are relative to. Watch
// uses it to find the files behind the loader's paths.
func WithRoot(dir string) Option {
	return func(r *Runner) { r.root = dir }
}

// WithParallelism bounds how many targets render at once.
func WithParallelism(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.parallelism = n
		}
	}
}

// NewRunner creates a Runner.
func NewRunner(loader Loader, translators translate.Register, logger *zap.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner{
		loader:      loader,
		translators: translators,
		logger:      logger,
		stdout:      os.Stdout,
		root:        ".",
		parallelism: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run loads the source, builds the model and renders every target. Loader
// and builder failures abort the run and are returned as the error. Target
// failures are recorded in the Summary and never stop the other targets.
func (r *Runner) Run(ctx context.Context, req Request) (*Summary, error) {
	sum, _, err := r.run(ctx, req)
	return sum, err
}

func (r *Runner) run(ctx context.Context, req Request) (*Summary, []string, error) {
	if len(req.Targets) == 0 {
		return nil, nil, ErrNoTargets
	}
	translators := make([]translate.Translator, len(req.Targets))
	for i, t := range req.Targets {
		tr, err := r.translators.Get(t.Name)
		if err != nil {
			return nil, nil, err
		}
		translators[i] = tr
	}

	start := time.Now()
	graph, err := r.loader.Load(ctx, req.Source)
	if err != nil {
		return nil, nil, err
	}
	model, err := translate.Build(graph)
	if err != nil {
		return nil, graph.Sources, err
	}
	r.logger.Debug("model built",
		zap.String("source", req.Source),
		zap.Int("types", len(model.Decls)),
		zap.Duration("elapsed", time.Since(start)))

	results := make([]Result, len(req.Targets))
	rendered := make([][]translate.File, len(req.Targets))

	var g errgroup.Group
	g.SetLimit(r.parallelism)
	for i, t := range req.Targets {
		g.Go(func() error {
			results[i], rendered[i] = r.target(ctx, model, translators[i], t, req.OutputDir)
			return nil
		})
	}
	_ = g.Wait()

	for i, res := range results {
		if res.Err != nil || res.Dir != "" {
			continue
		}
		if err := printFiles(r.stdout, res.Target, rendered[i], len(req.Targets) > 1 || len(rendered[i]) > 1); err != nil {
			results[i].Err = fmt.Errorf("failed to write output: %w", err)
			results[i].Files = nil
		}
	}
	return &Summary{Results: results}, graph.Sources, nil
}

// target renders one target and writes it when it has an output directory.
// It returns the rendered files for stdout targets.
func (r *Runner) target(ctx context.Context, m *translate.Model, tr translate.Translator, t Target, outputDir string) (Result, []translate.File) {
	res := Result{Target: t.Name, Dir: t.Output}
	if res.Dir == "" && outputDir != "" {
		res.Dir = filepath.Join(outputDir, t.Name)
	}
	log := r.logger.With(zap.String("target", t.Name))
	start := time.Now()

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res, nil
	}

	files, err := tr.Translate(m, t.Options)
	if err != nil {
		log.Debug("translation failed", zap.Error(err))
		res.Err = err
		return res, nil
	}
	for _, f := range files {
		res.Files = append(res.Files, f.Name)
	}

	if res.Dir != "" {
		if err := writeFiles(res.Dir, files); err != nil {
			log.Debug("write failed", zap.String("dir", res.Dir), zap.Error(err))
			res.Err = err
			res.Files = nil
			return res, nil
		}
	}
	res.Elapsed = time.Since(start)
	log.Debug("target generated", zap.Int("files", len(files)), zap.Duration("elapsed", res.Elapsed))
	return res, files
}
