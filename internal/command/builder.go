// Package command renders a case plus a set of selected parameter values
// into a runnable avqa command line, and validates selections before any
// command is produced.
package command

import (
	"fmt"
	"strconv"
	"strings"

	"avqa/internal/catalog"
	"avqa/internal/mapper"
)

// Runner flag tokens, emitted in this order when enabled.
var flagTable = []struct {
	name  string
	token string
}{
	{"verbose", "-v"},
	{"show_prints", "-s"},
	{"stop_on_first_failure", "-x"},
	{"last_failed", "--lf"},
	{"allure_report", "--alluredir=reports/allure"},
	{"parallel_execution", "-n auto"},
}

type Builder struct {
	cat    *catalog.Catalog
	mapper *mapper.Mapper
}

func New(cat *catalog.Catalog, m *mapper.Mapper) *Builder {
	return &Builder{cat: cat, mapper: m}
}

// BuildCommand renders a single-line command. An unknown case id yields a
// sentinel comment string rather than an error so the generator UI can show
// it verbatim.
func (b *Builder) BuildCommand(caseID string, selected map[string]string, flags map[string]bool) string {
	if b.mapper.TestFile(caseID) == "" {
		return fmt.Sprintf("# error: case %s not found", caseID)
	}

	parts := []string{"avqa", "--case=" + caseID}
	for _, param := range b.mapper.ApplicableParameters(caseID) {
		value, ok := selected[param]
		if !ok {
			continue
		}
		cmdValue := b.commandValue(param, value)
		if cmdValue != "" {
			parts = append(parts, fmt.Sprintf("--%s=%s", param, cmdValue))
		}
	}
	parts = append(parts, enabledFlags(flags)...)
	return strings.Join(parts, " ")
}

// BuildMultiline renders the same command one flag per line with shell
// continuations, for copy-paste readability.
func (b *Builder) BuildMultiline(caseID string, selected map[string]string, flags map[string]bool) string {
	if b.mapper.TestFile(caseID) == "" {
		return fmt.Sprintf("# error: case %s not found", caseID)
	}

	lines := []string{"avqa --case=" + caseID + " \\"}

	var paramLines []string
	for _, param := range b.mapper.ApplicableParameters(caseID) {
		value, ok := selected[param]
		if !ok {
			continue
		}
		cmdValue := b.commandValue(param, value)
		if cmdValue != "" {
			paramLines = append(paramLines, fmt.Sprintf("  --%s=%s", param, cmdValue))
		}
	}

	flagParts := enabledFlags(flags)
	switch {
	case len(flagParts) > 0 && len(paramLines) > 0:
		for i := 0; i < len(paramLines)-1; i++ {
			paramLines[i] += " \\"
		}
		paramLines[len(paramLines)-1] += " \\"
		lines = append(lines, paramLines...)
		lines = append(lines, "  "+strings.Join(flagParts, " "))
	case len(flagParts) > 0:
		lines = append(lines, "  "+strings.Join(flagParts, " "))
	case len(paramLines) > 0:
		for i := 0; i < len(paramLines)-1; i++ {
			paramLines[i] += " \\"
		}
		lines = append(lines, paramLines...)
	default:
		lines[0] = strings.TrimSuffix(lines[0], " \\")
	}
	return strings.Join(lines, "\n")
}

// commandValue converts a display value into its CLI token. Day offsets
// pass through verbatim, city selections collapse to their IATA code, and
// everything else goes through the catalog reverse lookup.
func (b *Builder) commandValue(param, selected string) string {
	if selected == "" {
		return ""
	}
	switch param {
	case "departure-days", "return-days":
		return selected
	case "origin", "destination":
		return cityCode(selected)
	}
	v, err := b.cat.CommandValue(param, selected)
	if err != nil {
		return ""
	}
	return v
}

// cityCode extracts the IATA code from a "City Name (IATA)" display string.
// Values without parentheses pass through unchanged.
func cityCode(display string) string {
	open := strings.Index(display, "(")
	if open < 0 {
		return display
	}
	close_ := strings.Index(display[open:], ")")
	if close_ < 0 {
		return display
	}
	return display[open+1 : open+close_]
}

func enabledFlags(flags map[string]bool) []string {
	var out []string
	for _, f := range flagTable {
		if flags[f.name] {
			out = append(out, f.token)
		}
	}
	return out
}

// ValidateParameters checks a selection before a command is built. It
// short-circuits on the first violation.
func (b *Builder) ValidateParameters(caseID string, selected map[string]string) (bool, string) {
	for _, param := range b.mapper.ApplicableParameters(caseID) {
		if selected[param] == "" {
			return false, fmt.Sprintf("missing selection: %s", b.mapper.ParameterLabel(param))
		}
	}

	var departure int
	if v, ok := selected["departure-days"]; ok {
		d, err := strconv.Atoi(v)
		if err != nil {
			return false, "departure days must be a number"
		}
		if d < 1 || d > 365 {
			return false, "departure days must be between 1 and 365"
		}
		departure = d
	}
	if v, ok := selected["return-days"]; ok {
		r, err := strconv.Atoi(v)
		if err != nil {
			return false, "return days must be a number"
		}
		if r < 1 || r > 365 {
			return false, "return days must be between 1 and 365"
		}
		if _, ok := selected["departure-days"]; ok && r <= departure {
			return false, "return days must be greater than departure days"
		}
	}
	return true, ""
}
