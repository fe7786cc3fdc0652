// Package testdata manages config/testdata.json: per-case parameter
// selections, runner flags, and passenger/payment/billing records, plus the
// top-level current_session pointer the generator tool uses to restore its
// last state.
package testdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

const sessionKey = "current_session"

// Session is the last-used selection saved by the generator tool.
type Session struct {
	CaseID         string            `json:"case_id"`
	Parameters     map[string]string `json:"parameters"`
	PytestFlags    map[string]bool   `json:"pytest_flags"`
	AppearanceMode string            `json:"appearance_mode,omitempty"`
}

// Sections carries the free-form test data groups for one case.
type Sections struct {
	Passengers map[string]map[string]any `json:"passengers,omitempty"`
	Payment    map[string]any            `json:"payment,omitempty"`
	Billing    map[string]any            `json:"billing,omitempty"`
}

// CaseState is one case's saved subtree.
type CaseState struct {
	Parameters  map[string]string `json:"parameters,omitempty"`
	PytestFlags map[string]bool   `json:"pytest_flags,omitempty"`
	Sections
}

type Store struct {
	path string

	mu    sync.Mutex
	cache map[string]json.RawMessage
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) load() (map[string]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() (map[string]json.RawMessage, error) {
	if s.cache != nil {
		return s.cache, nil
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	var data map[string]json.RawMessage
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	s.cache = data
	return data, nil
}

// CurrentSession returns the saved session pointer, or nil when the file or
// the pointer is absent. Never an error: a broken store just means nothing
// to restore.
func (s *Store) CurrentSession() *Session {
	data, err := s.load()
	if err != nil {
		return nil
	}
	raw, ok := data[sessionKey]
	if !ok {
		return nil
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil
	}
	return &sess
}

// Case returns one case's saved state, or nil when absent.
func (s *Store) Case(caseID string) (*CaseState, error) {
	data, err := s.load()
	if err != nil {
		return nil, err
	}
	raw, ok := data[caseID]
	if !ok {
		return nil, nil
	}
	var st CaseState
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("case %s: %w", caseID, err)
	}
	return &st, nil
}

// SaveCompleteState persists everything the generator knows about one case
// plus the session pointer. The file is read in full and only the named
// case's subtree is replaced, so other cases' saved state survives.
func (s *Store) SaveCompleteState(caseID string, parameters map[string]string, flags map[string]bool, sections Sections, appearanceMode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.loadLocked()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		data = map[string]json.RawMessage{}
	}

	sessRaw, err := json.Marshal(Session{
		CaseID:         caseID,
		Parameters:     parameters,
		PytestFlags:    flags,
		AppearanceMode: appearanceMode,
	})
	if err != nil {
		return err
	}
	caseRaw, err := json.Marshal(CaseState{
		Parameters:  parameters,
		PytestFlags: flags,
		Sections:    sections,
	})
	if err != nil {
		return err
	}
	data[sessionKey] = sessRaw
	data[caseID] = caseRaw

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	s.cache = data
	return nil
}

// Passenger returns one passenger record for a case with every value coerced
// to string, so page fill code never type-switches on JSON numbers.
func (s *Store) Passenger(caseID, passengerType string) (map[string]string, error) {
	st, err := s.Case(caseID)
	if err != nil || st == nil {
		return nil, err
	}
	return coerce(st.Passengers[passengerType]), nil
}

func (s *Store) Payment(caseID string) (map[string]string, error) {
	st, err := s.Case(caseID)
	if err != nil || st == nil {
		return nil, err
	}
	return coerce(st.Sections.Payment), nil
}

func (s *Store) Billing(caseID string) (map[string]string, error) {
	st, err := s.Case(caseID)
	if err != nil || st == nil {
		return nil, err
	}
	return coerce(st.Sections.Billing), nil
}

func coerce(m map[string]any) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		switch x := v.(type) {
		case string:
			out[k] = x
		default:
			out[k] = fmt.Sprint(x) // numbers/bools become strings
		}
	}
	return out
}

