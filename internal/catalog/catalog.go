// Package catalog loads the JSON reference tables that drive the harness:
// parameter options (browser, language, POS, links, environments) and case
// mappings (which parameters and test data each case needs). Files are read
// once on first access and cached; the loaded data is never mutated.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	ParameterOptionsFile = "parameter_options.json"
	CaseMappingsFile     = "case_mappings.json"

	// Synthetic aggregate entry, excluded from Real().
	AllKey = "all"
)

var ErrMalformed = errors.New("malformed catalog")

// Option is one selectable value for a parameter.
type Option struct {
	Key                 string            `json:"-"`
	DisplayName         string            `json:"display_name"`
	CommandValue        string            `json:"command_value"`
	URL                 string            `json:"url,omitempty"`
	URLCode             string            `json:"url_code,omitempty"`
	ExpectedTextHome    string            `json:"expected_text_home,omitempty"`
	ExpectedURLContains []string          `json:"expected_url_contains,omitempty"`
	LanguageExceptions  map[string]string `json:"language_exceptions,omitempty"`
	RequiresLanguage    string            `json:"requires_language,omitempty"`
}

// OptionSet holds a parameter's options in file order. encoding/json maps do
// not preserve key order, so decoding walks the token stream.
type OptionSet struct {
	keys  []string
	byKey map[string]*Option
}

func (s *OptionSet) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w: option set must be an object", ErrMalformed)
	}
	s.byKey = map[string]*Option{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)
		var opt Option
		if err := dec.Decode(&opt); err != nil {
			return fmt.Errorf("option %q: %w", key, err)
		}
		opt.Key = key
		if _, dup := s.byKey[key]; dup {
			return fmt.Errorf("%w: duplicate option key %q", ErrMalformed, key)
		}
		s.keys = append(s.keys, key)
		s.byKey[key] = &opt
	}
	_, err = dec.Token() // closing brace
	return err
}

func (s *OptionSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

func (s *OptionSet) Keys() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.keys...)
}

func (s *OptionSet) Get(key string) *Option {
	if s == nil {
		return nil
	}
	return s.byKey[key]
}

// Real returns the options in file order, minus the synthetic "all" entry.
func (s *OptionSet) Real() []*Option {
	if s == nil {
		return nil
	}
	out := make([]*Option, 0, len(s.keys))
	for _, k := range s.keys {
		if k == AllKey {
			continue
		}
		out = append(out, s.byKey[k])
	}
	return out
}

// Match resolves a CLI value against key, command value, or display name,
// case-insensitively. nil when nothing matches.
func (s *OptionSet) Match(value string) *Option {
	if s == nil || value == "" {
		return nil
	}
	for _, k := range s.keys {
		if k == AllKey {
			continue
		}
		opt := s.byKey[k]
		if strings.EqualFold(k, value) ||
			strings.EqualFold(opt.CommandValue, value) ||
			strings.EqualFold(opt.DisplayName, value) {
			return opt
		}
	}
	return nil
}

// CaseInfo describes one end-to-end scenario.
type CaseInfo struct {
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	TestFile             string   `json:"test_file"`
	ApplicableParameters []string `json:"applicable_parameters"`
	RequiresTestdata     bool     `json:"requires_testdata"`
	TestdataSections     []string `json:"testdata_sections"`
	EnvOptions           []string `json:"env_options"`
}

// Catalog is the single point of truth for catalog data. Construct one per
// consumer and pass it down; it is immutable after the first load.
type Catalog struct {
	dir string

	mu     sync.Mutex
	params map[string]*OptionSet
	// Case ids in file order alongside the lookup map.
	caseIDs []string
	cases   map[string]*CaseInfo
}

func New(configDir string) *Catalog {
	return &Catalog{dir: configDir}
}

func (c *Catalog) loadParams() (map[string]*OptionSet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.params != nil {
		return c.params, nil
	}
	path := filepath.Join(c.dir, ParameterOptionsFile)
	var params map[string]*OptionSet
	if err := decodeJSONFile(path, &params); err != nil {
		return nil, err
	}
	c.params = params
	return params, nil
}

func (c *Catalog) loadCases() (map[string]*CaseInfo, []string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cases != nil {
		return c.cases, c.caseIDs, nil
	}
	path := filepath.Join(c.dir, CaseMappingsFile)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	// Ordered walk so case listings come out in file order.
	ids, cases, err := decodeCaseMap(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	c.caseIDs, c.cases = ids, cases
	return cases, ids, nil
}

// Options returns the option set for one parameter. Unknown parameters yield
// (nil, nil): callers must treat absence as "no options", not as an error.
func (c *Catalog) Options(parameter string) (*OptionSet, error) {
	params, err := c.loadParams()
	if err != nil {
		return nil, err
	}
	return params[parameter], nil
}

// DisplayValues lists a parameter's display names in catalog order, minus
// the synthetic "all" entry.
func (c *Catalog) DisplayValues(parameter string) ([]string, error) {
	set, err := c.Options(parameter)
	if err != nil {
		return nil, err
	}
	opts := set.Real()
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		out = append(out, o.DisplayName)
	}
	return out, nil
}

// CommandValue reverse-maps a display value to its CLI token. Empty string
// on no match; callers fall back to a default rather than failing.
func (c *Catalog) CommandValue(parameter, displayValue string) (string, error) {
	set, err := c.Options(parameter)
	if err != nil {
		return "", err
	}
	if set == nil {
		return "", nil
	}
	for _, o := range set.Real() {
		if o.DisplayName == displayValue {
			return o.CommandValue, nil
		}
	}
	return "", nil
}

// Case returns one case's metadata, or nil if the id is unknown.
func (c *Catalog) Case(caseID string) (*CaseInfo, error) {
	cases, _, err := c.loadCases()
	if err != nil {
		return nil, err
	}
	return cases[caseID], nil
}

// CaseIDs lists all case ids in catalog order.
func (c *Catalog) CaseIDs() ([]string, error) {
	_, ids, err := c.loadCases()
	if err != nil {
		return nil, err
	}
	return append([]string(nil), ids...), nil
}

// CaseNames maps case id to display name for every known case.
func (c *Catalog) CaseNames() (map[string]string, error) {
	cases, _, err := c.loadCases()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(cases))
	for id, info := range cases {
		out[id] = info.Name
	}
	return out, nil
}

// Free-form parameters that legitimately have no option set.
var freeParameters = map[string]bool{
	"origin":         true,
	"destination":    true,
	"departure-days": true,
	"return-days":    true,
}

// Validate checks cross-file invariants: every applicable parameter of every
// case must exist in the parameter catalog (or be a known free-form input),
// and no parameter may carry more than one synthetic "all" entry.
func (c *Catalog) Validate() error {
	params, err := c.loadParams()
	if err != nil {
		return err
	}
	cases, ids, err := c.loadCases()
	if err != nil {
		return err
	}
	for _, id := range ids {
		for _, p := range cases[id].ApplicableParameters {
			if params[p] == nil && !freeParameters[p] {
				return fmt.Errorf("%w: case %s references unknown parameter %q", ErrMalformed, id, p)
			}
		}
		if len(cases[id].EnvOptions) == 0 {
			return fmt.Errorf("%w: case %s has no env_options", ErrMalformed, id)
		}
	}
	return nil
}

func decodeCaseMap(raw []byte) ([]string, map[string]*CaseInfo, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, snippetErr(raw, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("%w: case mappings must be an object", ErrMalformed)
	}
	var ids []string
	cases := map[string]*CaseInfo{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, snippetErr(raw, err)
		}
		id := keyTok.(string)
		var info CaseInfo
		if err := dec.Decode(&info); err != nil {
			return nil, nil, fmt.Errorf("case %q: %w", id, err)
		}
		ids = append(ids, id)
		cases[id] = &info
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, snippetErr(raw, err)
	}
	return ids, cases, nil
}

func decodeJSONFile(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, snippetErr(raw, err))
	}
	return nil
}

// snippetErr augments a JSON error with the offending region of the input
// so a broken hand-edited catalog is easy to locate.
func snippetErr(raw []byte, err error) error {
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		start := max(0, int(syn.Offset)-20)
		end := min(len(raw), int(syn.Offset)+20)
		return fmt.Errorf("%w near %q", err, string(raw[start:end]))
	}
	return err
}
