package command_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avqa/internal/catalog"
	"avqa/internal/command"
	"avqa/internal/mapper"
)

func newBuilder(t *testing.T) *command.Builder {
	t.Helper()
	cat := catalog.New(filepath.Join("..", "..", "config"))
	return command.New(cat, mapper.New(cat))
}

func TestBuildCommand_FullSelection(t *testing.T) {
	b := newBuilder(t)

	got := b.BuildCommand("case_1", map[string]string{
		"browser":        "Chrome",
		"language":       "Español",
		"env":            "QA4",
		"origin":         "Bogotá (BOG)",
		"destination":    "Medellín (MDE)",
		"departure-days": "4",
	}, map[string]bool{"verbose": true, "allure_report": true})

	assert.Equal(t,
		"avqa --case=case_1 --browser=chrome --language=Español --env=qa4 "+
			"--origin=BOG --destination=MDE --departure-days=4 -v --alluredir=reports/allure",
		got)
}

func TestBuildCommand_UnknownCaseSentinel(t *testing.T) {
	b := newBuilder(t)
	got := b.BuildCommand("case_99", nil, nil)
	assert.Equal(t, "# error: case case_99 not found", got)
}

func TestBuildCommand_UnresolvableValueSkipped(t *testing.T) {
	b := newBuilder(t)
	got := b.BuildCommand("case_4", map[string]string{
		"browser":  "Chrome",
		"language": "Klingon", // no catalog entry, silently dropped
	}, nil)
	assert.Equal(t, "avqa --case=case_4 --browser=chrome", got)
}

func TestCityCodeExtraction(t *testing.T) {
	b := newBuilder(t)

	got := b.BuildCommand("case_1", map[string]string{"origin": "Bogotá (BOG)"}, nil)
	assert.Contains(t, got, "--origin=BOG")

	// No parentheses: value passes through unchanged.
	got = b.BuildCommand("case_1", map[string]string{"origin": "BOG"}, nil)
	assert.Contains(t, got, "--origin=BOG")
}

func TestFlagTableOrderAndTruthiness(t *testing.T) {
	b := newBuilder(t)

	got := b.BuildCommand("case_4", map[string]string{"browser": "Chrome"}, map[string]bool{
		"parallel_execution":    true,
		"verbose":               true,
		"last_failed":           false,
		"stop_on_first_failure": true,
	})
	assert.True(t, strings.HasSuffix(got, "-v -x -n auto"), got)
}

func TestMultiline_EquivalentToSingleLine(t *testing.T) {
	b := newBuilder(t)

	selected := map[string]string{
		"browser":  "Firefox",
		"language": "English",
		"env":      "QA5",
	}
	flags := map[string]bool{"verbose": true, "show_prints": true}

	single := b.BuildCommand("case_4", selected, flags)
	multi := b.BuildMultiline("case_4", selected, flags)

	flattened := strings.ReplaceAll(multi, " \\\n", " ")
	flattened = strings.Join(strings.Fields(flattened), " ")
	assert.Equal(t, single, flattened)
}

func TestMultiline_NoFlags(t *testing.T) {
	b := newBuilder(t)

	multi := b.BuildMultiline("case_4", map[string]string{"browser": "Edge"}, nil)
	lines := strings.Split(multi, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "avqa --case=case_4 \\", lines[0])
	assert.Equal(t, "  --browser=edge", lines[1])
}

func TestMultiline_NoParams(t *testing.T) {
	b := newBuilder(t)

	multi := b.BuildMultiline("case_4", nil, map[string]bool{"verbose": true})
	assert.Equal(t, "avqa --case=case_4 \\\n  -v", multi)
}

func TestValidateParameters(t *testing.T) {
	b := newBuilder(t)

	full := func(over map[string]string) map[string]string {
		m := map[string]string{
			"browser":        "Chrome",
			"language":       "Español",
			"env":            "QA4",
			"origin":         "Bogotá (BOG)",
			"destination":    "Medellín (MDE)",
			"departure-days": "4",
			"return-days":    "5",
		}
		for k, v := range over {
			m[k] = v
		}
		return m
	}

	ok, _ := b.ValidateParameters("case_2", full(nil))
	assert.True(t, ok)

	ok, msg := b.ValidateParameters("case_2", full(map[string]string{"departure-days": "0"}))
	assert.False(t, ok)
	assert.Contains(t, msg, "between 1 and 365")

	ok, _ = b.ValidateParameters("case_2", full(map[string]string{"departure-days": "366"}))
	assert.False(t, ok)

	ok, msg = b.ValidateParameters("case_2", full(map[string]string{"return-days": "4"}))
	assert.False(t, ok)
	assert.Contains(t, msg, "greater than departure")

	ok, msg = b.ValidateParameters("case_2", full(map[string]string{"departure-days": "soon"}))
	assert.False(t, ok)
	assert.Contains(t, msg, "must be a number")

	missing := full(nil)
	delete(missing, "language")
	ok, msg = b.ValidateParameters("case_2", missing)
	assert.False(t, ok)
	assert.Contains(t, msg, "Language")
}
