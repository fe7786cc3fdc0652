package testdata_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avqa/internal/testdata"
)

const seedJSON = `{
  "current_session": {
    "case_id": "case_2",
    "parameters": {"browser": "Edge"},
    "pytest_flags": {"verbose": false}
  },
  "case_2": {
    "parameters": {"browser": "Edge", "return-days": "9"},
    "pytest_flags": {"verbose": false},
    "passengers": {"adult": {"first_name": "Ana", "age": 34}}
  }
}`

func seedStore(t *testing.T) *testdata.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "testdata.json")
	require.NoError(t, os.WriteFile(path, []byte(seedJSON), 0o644))
	return testdata.NewStore(path)
}

func TestSaveCompleteState_RoundTrip(t *testing.T) {
	s := seedStore(t)

	params := map[string]string{"browser": "Chrome", "language": "English", "env": "QA4"}
	flags := map[string]bool{"verbose": true, "allure_report": true}
	err := s.SaveCompleteState("case_1", params, flags, testdata.Sections{
		Passengers: map[string]map[string]any{"adult": {"first_name": "Laura"}},
		Payment:    map[string]any{"card_number": "4111111111111111"},
	}, "dark")
	require.NoError(t, err)

	sess := s.CurrentSession()
	require.NotNil(t, sess)
	assert.Equal(t, "case_1", sess.CaseID)
	assert.Equal(t, params, sess.Parameters)
	assert.Equal(t, flags, sess.PytestFlags)
	assert.Equal(t, "dark", sess.AppearanceMode)
}

func TestSaveCompleteState_PreservesOtherCases(t *testing.T) {
	s := seedStore(t)

	require.NoError(t, s.SaveCompleteState("case_1",
		map[string]string{"browser": "Chrome"}, nil, testdata.Sections{}, ""))

	// case_2's subtree must be untouched by a case_1 save.
	st, err := s.Case("case_2")
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, "9", st.Parameters["return-days"])

	adult, err := s.Passenger("case_2", "adult")
	require.NoError(t, err)
	assert.Equal(t, "Ana", adult["first_name"])
	assert.Equal(t, "34", adult["age"], "numeric fields coerce to strings")
}

func TestSaveCompleteState_CreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "testdata.json")
	s := testdata.NewStore(path)

	require.NoError(t, s.SaveCompleteState("case_5",
		map[string]string{"pos": "Chile"}, map[string]bool{"verbose": true}, testdata.Sections{}, "light"))

	// Re-open from disk to prove persistence, not just cache.
	reopened := testdata.NewStore(path)
	sess := reopened.CurrentSession()
	require.NotNil(t, sess)
	assert.Equal(t, "case_5", sess.CaseID)
}

func TestCurrentSession_AbsentIsNil(t *testing.T) {
	s := testdata.NewStore(filepath.Join(t.TempDir(), "missing.json"))
	assert.Nil(t, s.CurrentSession())
}

func TestCase_UnknownIsNil(t *testing.T) {
	s := seedStore(t)
	st, err := s.Case("case_9")
	require.NoError(t, err)
	assert.Nil(t, st)

	p, err := s.Passenger("case_9", "adult")
	require.NoError(t, err)
	assert.Nil(t, p)
}
