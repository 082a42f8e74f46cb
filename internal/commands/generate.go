// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dacolabs/schemagen/internal/config"
	"github.com/dacolabs/schemagen/internal/generate"
	"github.com/dacolabs/schemagen/internal/jschema"
	"github.com/dacolabs/schemagen/internal/prompts"
	"github.com/dacolabs/schemagen/internal/session"
	"github.com/dacolabs/schemagen/internal/translate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type generateOptions struct {
	targets        []string
	namespaces     []string
	output         string
	topLevel       string
	allowRecursive bool
	timeout        time.Duration
	retries        int
	watch          bool
	interactive    bool
}

func newGenerateCmd(translators translate.Register) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate [source]",
		Short: "Generate types from a JSON Schema",
		Long: fmt.Sprintf(`Generate type declarations from a JSON Schema for one or more targets.

The source is a file path or http(s) URL. A fragment selects what to
generate: "schema.json#/definitions/Point" generates one definition and
"schema.json#/definitions/" generates every definition under the pointer.
Without a source or targets on the command line, schemagen.yaml is used.

Available targets: %s`, strings.Join(translators.Available(), ", ")),
		Example: `  # TypeScript to stdout
  schemagen generate schema.json

  # Several targets into ./out/<target>
  schemagen generate schema.json#/definitions/ -t typescript -t java -o out

  # Java package and C++ namespace
  schemagen generate api.yaml -t java -t cpp --namespace java=com.example.api --namespace cpp=Api::Types -o out

  # Everything configured in schemagen.yaml, regenerating on change
  schemagen generate --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := session.RequireFromCommand(cmd)
			if err != nil {
				return err
			}
			var source string
			if len(args) > 0 {
				source = args[0]
			}
			return runGenerate(cmd, sc, translators, source, opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.targets, "target", "t", nil, fmt.Sprintf("Target language, repeatable (%s)", strings.Join(translators.Available(), ", ")))
	cmd.Flags().StringArrayVar(&opts.namespaces, "namespace", nil, "Namespace per target as target=namespace, repeatable")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output directory, one subdirectory per target (default stdout)")
	cmd.Flags().StringVar(&opts.topLevel, "top-level", "", "Base name of single-file outputs")
	cmd.Flags().BoolVar(&opts.allowRecursive, "allow-recursive", false, "Generate recursive types instead of failing on cycles")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", jschema.DefaultTimeout, "Timeout per remote fetch attempt")
	cmd.Flags().IntVar(&opts.retries, "retries", jschema.DefaultRetries, "Retries for failed remote fetches")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Regenerate when a local schema file changes")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "Prompt for missing values")

	return cmd
}

// plan is a resolved generate invocation.
type plan struct {
	dir            string // directory sources and outputs resolve against
	source         string
	req            generate.Request
	allowRecursive bool
	timeout        time.Duration
	retries        int
}

func runGenerate(cmd *cobra.Command, sc *session.Context, translators translate.Register, source string, opts *generateOptions) error {
	if opts.interactive {
		if err := promptGenerate(sc, translators, &source, opts); err != nil {
			return err
		}
	}

	p, err := resolvePlan(cmd, sc, source, opts)
	if err != nil {
		return err
	}

	root, rel, err := generate.LocalSource(p.dir, p.source)
	if err != nil {
		return err
	}
	p.req.Source = rel

	loader := jschema.NewLoader(os.DirFS(root),
		jschema.WithTimeout(p.timeout),
		jschema.WithRetries(p.retries, jschema.DefaultBackoff),
		jschema.WithLogger(sc.Logger),
		jschema.AllowRecursive(p.allowRecursive),
	)
	runner := generate.NewRunner(loader, translators, sc.Logger,
		generate.WithStdout(cmd.OutOrStdout()),
		generate.WithRoot(root),
	)

	if opts.watch {
		return runner.Watch(cmd.Context(), p.req, func(sum *generate.Summary, err error) {
			if err != nil {
				prompts.PrintFailure(cmd.ErrOrStderr(), err.Error())
				return
			}
			printSummary(cmd, sum)
		})
	}

	sum, err := runner.Run(cmd.Context(), p.req)
	if err != nil {
		return err
	}
	printSummary(cmd, sum)
	if failed := sum.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d of %d target(s) failed", len(failed), len(sum.Results))
	}
	return nil
}

// resolvePlan merges the command line with the config file. Command line
// values win; config targets are used only when no -t flag is given.
func resolvePlan(cmd *cobra.Command, sc *session.Context, source string, opts *generateOptions) (*plan, error) {
	cfg := sc.Config
	if cfg == nil {
		cfg = &config.Config{Version: config.CurrentConfigVersion}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	p := &plan{
		dir:            cwd,
		source:         source,
		allowRecursive: opts.allowRecursive || cfg.AllowRecursive,
		timeout:        opts.timeout,
		retries:        opts.retries,
	}
	if p.source == "" {
		p.source = cfg.Source
		p.dir = sc.Dir
	}
	if p.source == "" {
		return nil, errors.New("no schema source: pass one as an argument or set source in " + config.FileName)
	}
	if !cmd.Flags().Changed("timeout") && cfg.Fetch.Timeout > 0 {
		p.timeout = cfg.Fetch.Timeout
	}
	if !cmd.Flags().Changed("retries") && cfg.Fetch.Retries != nil {
		p.retries = *cfg.Fetch.Retries
	}

	switch {
	case opts.output != "":
		p.req.OutputDir = opts.output
	case cfg.Output != "":
		p.req.OutputDir = filepath.Join(sc.Dir, cfg.Output)
	}

	namespaces, err := parseNamespaces(opts.namespaces)
	if err != nil {
		return nil, err
	}

	configured := func(t config.Target) (generate.Target, error) {
		topts, err := t.Options()
		if err != nil {
			return generate.Target{}, err
		}
		gt := generate.Target{Name: t.Language, Options: topts}
		if t.Output != "" {
			gt.Output = filepath.Join(sc.Dir, t.Output)
		}
		return gt, nil
	}

	if len(opts.targets) > 0 {
		// A -t flag keeps the settings of a configured target of that language.
		for _, name := range opts.targets {
			gt := generate.Target{Name: name}
			for _, t := range cfg.Targets {
				if t.Language == name {
					if gt, err = configured(t); err != nil {
						return nil, err
					}
					break
				}
			}
			p.req.Targets = append(p.req.Targets, gt)
		}
	} else {
		for _, t := range cfg.Targets {
			gt, err := configured(t)
			if err != nil {
				return nil, err
			}
			p.req.Targets = append(p.req.Targets, gt)
		}
	}
	if len(p.req.Targets) == 0 {
		p.req.Targets = []generate.Target{{Name: config.DefaultTarget}}
	}

	for i := range p.req.Targets {
		t := &p.req.Targets[i]
		if ns, ok := namespaces[t.Name]; ok {
			t.Options.Namespace = ns
		}
		if opts.topLevel != "" {
			t.Options.TopLevel = opts.topLevel
		}
		if opts.output != "" {
			t.Output = ""
		}
	}
	for name := range namespaces {
		if !hasTarget(p.req.Targets, name) {
			return nil, fmt.Errorf("--namespace %s: target %s is not selected", name, name)
		}
	}
	return p, nil
}

func parseNamespaces(values []string) (map[string]string, error) {
	out := make(map[string]string, len(values))
	for _, v := range values {
		target, ns, ok := strings.Cut(v, "=")
		if !ok || target == "" || ns == "" {
			return nil, fmt.Errorf("invalid --namespace %q: want target=namespace", v)
		}
		out[target] = ns
	}
	return out, nil
}

func hasTarget(targets []generate.Target, name string) bool {
	for _, t := range targets {
		if t.Name == name {
			return true
		}
	}
	return false
}

func promptGenerate(sc *session.Context, translators translate.Register, source *string, opts *generateOptions) error {
	if *source == "" && sc.Config != nil {
		*source = sc.Config.Source
	}
	if len(opts.targets) == 0 && sc.Config != nil {
		for _, t := range sc.Config.Targets {
			opts.targets = append(opts.targets, t.Language)
		}
	}
	return prompts.RunGenerateForm(source, &opts.targets, &opts.output, translators.Available())
}

func printSummary(cmd *cobra.Command, sum *generate.Summary) {
	fields := make([]prompts.ResultField, 0, len(sum.Results))
	for _, r := range sum.Results {
		f := prompts.ResultField{Label: r.Target}
		switch {
		case r.Err != nil:
			f.Value = r.Err.Error()
			f.Failed = true
		case r.Dir != "":
			f.Value = fmt.Sprintf("%d file(s) in %s", len(r.Files), r.Dir)
		default:
			f.Value = strings.Join(r.Files, ", ")
		}
		fields = append(fields, f)
	}

	msg := fmt.Sprintf("Generated %d target(s)", len(sum.Succeeded()))
	if n := len(sum.Failed()); n > 0 {
		msg = ""
		defer prompts.PrintFailure(cmd.ErrOrStderr(), fmt.Sprintf("%d target(s) failed", n))
	}
	prompts.PrintResult(cmd.ErrOrStderr(), fields, msg)

	if sc := session.From(cmd.Context()); sc != nil {
		for _, r := range sum.Results {
			sc.Logger.Debug("target result",
				zap.String("target", r.Target),
				zap.Strings("files", r.Files),
				zap.Duration("elapsed", r.Elapsed),
				zap.Error(r.Err))
		}
	}
}
