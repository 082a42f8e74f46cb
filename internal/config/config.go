// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package config handles the schemagen.yaml project configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dacolabs/schemagen/internal/translate"
	"gopkg.in/yaml.v3"
)

// CurrentConfigVersion is the current version of the config file format.
const CurrentConfigVersion = 1

// FileName is the default name of the configuration file.
const FileName = "schemagen.yaml"

// DefaultTarget is used when neither the config nor the command line name a target.
const DefaultTarget = "typescript"

// Config represents the schemagen.yaml project configuration file.
type Config struct {
	Version int `yaml:"version"`
	// Source is the schema to generate from, optionally with a fragment.
	Source string `yaml:"source,omitempty"`
	// Output is the directory targets write under, one subdirectory each.
	Output         string   `yaml:"output,omitempty"`
	AllowRecursive bool     `yaml:"allowRecursive,omitempty"`
	Fetch          Fetch    `yaml:"fetch,omitempty"`
	Targets        []Target `yaml:"targets,omitempty"`
}

// Fetch configures remote schema retrieval.
type Fetch struct {
	Timeout time.Duration `yaml:"timeout,omitempty"`
	Retries *int          `yaml:"retries,omitempty"`
}

// Target configures one output language.
type Target struct {
	Language        string `yaml:"language"`
	Output          string `yaml:"output,omitempty"`
	Namespace       string `yaml:"namespace,omitempty"`
	Casing          string `yaml:"casing,omitempty"`
	IncludeStyle    string `yaml:"includeStyle,omitempty"`
	LanguageVersion string `yaml:"languageVersion,omitempty"`
	TopLevel        string `yaml:"topLevel,omitempty"`
}

// Options converts the target settings to translator options.
func (t Target) Options() (translate.Options, error) {
	casing, err := translate.ParseCasing(t.Casing)
	if err != nil {
		return translate.Options{}, fmt.Errorf("target %s: %w", t.Language, err)
	}
	return translate.Options{
		Namespace:       t.Namespace,
		FieldCasing:     casing,
		IncludeStyle:    t.IncludeStyle,
		LanguageVersion: t.LanguageVersion,
		TopLevel:        t.TopLevel,
	}, nil
}

// Default returns the configuration written by "schemagen init".
func Default() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Output:  "generated",
		Targets: []Target{{Language: DefaultTarget}},
	}
}

// Load reads a Config from a file path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the Config to a file path.
func (c *Config) Save(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	return enc.Encode(c)
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	if c.Version != CurrentConfigVersion {
		return errors.New("unsupported config version")
	}
	if c.Fetch.Timeout < 0 {
		return errors.New("fetch timeout must not be negative")
	}
	if c.Fetch.Retries != nil && *c.Fetch.Retries < 0 {
		return errors.New("fetch retries must not be negative")
	}

	outputs := make(map[string]string)
	for i, t := range c.Targets {
		if t.Language == "" {
			return fmt.Errorf("targets[%d]: language is required", i)
		}
		if _, err := t.Options(); err != nil {
			return err
		}
		switch t.IncludeStyle {
		case "", "global", "local":
		default:
			return fmt.Errorf("target %s: includeStyle must be global or local", t.Language)
		}
		out := t.Output
		if out == "" {
			out = c.Output + "/" + t.Language
		}
		if prev, ok := outputs[out]; ok {
			return fmt.Errorf("targets %s and %s write to the same output %q", prev, t.Language, out)
		}
		outputs[out] = t.Language
	}
	return nil
}
