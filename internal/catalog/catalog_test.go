package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avqa/internal/catalog"
)

const paramsJSON = `{
  "language": {
    "es": {"display_name": "Español", "command_value": "Español", "expected_text_home": "Ofertas y destinos"},
    "en": {"display_name": "English", "command_value": "English", "expected_text_home": "Offers and destinations"},
    "fr": {"display_name": "Français", "command_value": "Français"},
    "all": {"display_name": "All languages", "command_value": "all"}
  },
  "pos": {
    "chile": {"display_name": "Chile", "command_value": "Chile"},
    "francia": {"display_name": "Francia", "command_value": "Francia", "requires_language": "Français"}
  }
}`

const casesJSON = `{
  "case_4": {
    "name": "Language change",
    "test_file": "internal/scenarios/language.go",
    "applicable_parameters": ["language"],
    "requires_testdata": false,
    "env_options": ["qa4", "qa5"]
  }
}`

func writeConfig(t *testing.T, params, cases string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, catalog.ParameterOptionsFile), []byte(params), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, catalog.CaseMappingsFile), []byte(cases), 0o644))
	return dir
}

func TestOptions_OrderPreserved(t *testing.T) {
	c := catalog.New(writeConfig(t, paramsJSON, casesJSON))

	set, err := c.Options("language")
	require.NoError(t, err)
	require.NotNil(t, set)

	var keys []string
	for _, o := range set.Real() {
		keys = append(keys, o.Key)
	}
	assert.Equal(t, []string{"es", "en", "fr"}, keys, "Real() must keep file order and drop the synthetic all entry")
}

func TestOptions_UnknownParameterIsNil(t *testing.T) {
	c := catalog.New(writeConfig(t, paramsJSON, casesJSON))

	set, err := c.Options("no-such-parameter")
	require.NoError(t, err)
	assert.Nil(t, set)
	assert.Zero(t, set.Len())
	assert.Nil(t, set.Real())
}

func TestCommandValue_LeftInverseOfDisplayName(t *testing.T) {
	c := catalog.New(writeConfig(t, paramsJSON, casesJSON))

	set, err := c.Options("language")
	require.NoError(t, err)
	for _, opt := range set.Real() {
		got, err := c.CommandValue("language", opt.DisplayName)
		require.NoError(t, err)
		assert.Equal(t, opt.CommandValue, got)
	}

	got, err := c.CommandValue("language", "Klingon")
	require.NoError(t, err)
	assert.Empty(t, got, "unknown display value resolves to empty, not an error")
}

func TestMatch_CaseInsensitiveAcrossFields(t *testing.T) {
	c := catalog.New(writeConfig(t, paramsJSON, casesJSON))
	set, err := c.Options("language")
	require.NoError(t, err)

	assert.Equal(t, "es", set.Match("ES").Key)
	assert.Equal(t, "en", set.Match("english").Key)
	assert.Nil(t, set.Match("all"), "the synthetic entry never matches")
	assert.Nil(t, set.Match("nope"))
}

func TestCase_UnknownIsNil(t *testing.T) {
	c := catalog.New(writeConfig(t, paramsJSON, casesJSON))

	info, err := c.Case("case_4")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "Language change", info.Name)

	missing, err := c.Case("case_99")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMissingFileSurfacesAtFirstAccess(t *testing.T) {
	c := catalog.New(t.TempDir())

	_, err := c.Options("language")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMalformedJSONIncludesSnippet(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, catalog.ParameterOptionsFile),
		[]byte(`{"language": {"es": {"display_name": }}}`), 0o644))

	_, err := catalog.New(dir).Options("language")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "display_name")
}

func TestValidate_UnknownApplicableParameter(t *testing.T) {
	badCases := `{
  "case_9": {
    "name": "Broken",
    "test_file": "x.go",
    "applicable_parameters": ["teleporter"],
    "env_options": ["qa4"]
  }
}`
	c := catalog.New(writeConfig(t, paramsJSON, badCases))
	err := c.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrMalformed)
	assert.Contains(t, err.Error(), "teleporter")
}

func TestShippedCatalogValidates(t *testing.T) {
	c := catalog.New(filepath.Join("..", "..", "config"))
	require.NoError(t, c.Validate())

	set, err := c.Options("pos")
	require.NoError(t, err)
	require.NotNil(t, set)

	var restricted []string
	for _, o := range set.Real() {
		if o.RequiresLanguage == "" {
			restricted = append(restricted, o.DisplayName)
		}
	}
	assert.Equal(t, []string{"Chile", "España", "Otros países"}, restricted)
}
