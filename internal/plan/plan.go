// Package plan parses YAML run plans. A plan batches several cases with
// per-case parameter overrides, process hooks, and tags, so a CI job can
// describe a whole suite in one file instead of a shell script of flag
// permutations.
package plan

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrValidation = errors.New("validation error")

// Plan is a parsed run-plan document.
type Plan struct {
	Name    string  `yaml:"name"`
	OpenAPI string  `yaml:"openapi,omitempty"`
	Entries []Entry `yaml:"entries"`
}

// Entry is one case execution request inside a plan.
type Entry struct {
	Case      string            `yaml:"case"`
	Overrides map[string]string `yaml:"overrides,omitempty"`
	Hooks     Hooks             `yaml:"hooks,omitempty"`
	Tags      []string          `yaml:"tags,omitempty"`
}

// Hooks are shell commands run around an entry.
type Hooks struct {
	Before []string `yaml:"before,omitempty"`
	After  []string `yaml:"after,omitempty"`
}

// HasTag reports whether the entry carries the tag, case-insensitively.
func (e *Entry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

type Parser struct{}

func New() *Parser { return &Parser{} }

// ParseFile reads and parses a plan file.
func (p *Parser) ParseFile(path string) (*Plan, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	return p.ParseBytes(b)
}

// ParseBytes parses YAML (or JSON) into a Plan and validates it.
func (p *Parser) ParseBytes(b []byte) (*Plan, error) {
	var pl Plan

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true) // fail on unknown fields

	if err := dec.Decode(&pl); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := validatePlan(&pl); err != nil {
		return nil, err
	}
	return &pl, nil
}

// --- validation helpers ---

func validatePlan(pl *Plan) error {
	if pl.Name == "" {
		return wrapValidation("plan.name must not be empty")
	}
	if len(pl.Entries) == 0 {
		return wrapValidation("plan.entries must not be empty")
	}
	for i := range pl.Entries {
		if err := validateEntry(&pl.Entries[i], i); err != nil {
			return err
		}
	}
	return nil
}

func validateEntry(e *Entry, idx int) error {
	if e.Case == "" {
		return wrapValidation(fmt.Sprintf("entry[%d].case must not be empty", idx))
	}
	for param, v := range e.Overrides {
		if param == "" {
			return wrapValidation(fmt.Sprintf("entry[%d].overrides contains an empty parameter name", idx))
		}
		if v == "" {
			return wrapValidation(fmt.Sprintf("entry[%d].overrides[%s] must not be empty", idx, param))
		}
	}
	return nil
}

func wrapValidation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
