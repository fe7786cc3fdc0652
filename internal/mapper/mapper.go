// Package mapper answers UI and matrix questions about cases: which
// parameters apply, what test data a case needs, and how parameters are
// typed, labeled, and grouped. The type/label/category tables are fixed by
// contract, not data-driven.
package mapper

import "avqa/internal/catalog"

type Mapper struct {
	cat *catalog.Catalog
}

func New(cat *catalog.Catalog) *Mapper {
	return &Mapper{cat: cat}
}

// ApplicableParameters returns the declared parameter list for a case, empty
// for an unknown case. Never an error: the UI just shows nothing.
func (m *Mapper) ApplicableParameters(caseID string) []string {
	info, err := m.cat.Case(caseID)
	if err != nil || info == nil {
		return nil
	}
	return info.ApplicableParameters
}

func (m *Mapper) IsApplicable(caseID, parameter string) bool {
	for _, p := range m.ApplicableParameters(caseID) {
		if p == parameter {
			return true
		}
	}
	return false
}

func (m *Mapper) RequiresTestdata(caseID string) bool {
	info, err := m.cat.Case(caseID)
	if err != nil || info == nil {
		return false
	}
	return info.RequiresTestdata
}

func (m *Mapper) TestdataSections(caseID string) []string {
	info, err := m.cat.Case(caseID)
	if err != nil || info == nil {
		return nil
	}
	return info.TestdataSections
}

func (m *Mapper) Description(caseID string) string {
	info, err := m.cat.Case(caseID)
	if err != nil || info == nil {
		return ""
	}
	return info.Description
}

func (m *Mapper) TestFile(caseID string) string {
	info, err := m.cat.Case(caseID)
	if err != nil || info == nil {
		return ""
	}
	return info.TestFile
}

// AllParameters is every parameter the system knows, in presentation order.
func (m *Mapper) AllParameters() []string {
	return []string{
		"browser", "language", "pos", "env",
		"header-link", "footer-link",
		"screenshots", "video",
		"origin", "destination",
		"departure-days", "return-days",
	}
}

// ParameterType classifies a parameter for widget selection. Fixed rule:
// the two day-offset fields are numbers, everything else is a dropdown.
func (m *Mapper) ParameterType(parameter string) string {
	switch parameter {
	case "departure-days", "return-days":
		return "number"
	default:
		return "dropdown"
	}
}

var labels = map[string]string{
	"browser":        "Browser",
	"language":       "Language / Idioma",
	"pos":            "POS (Country)",
	"env":            "Environment",
	"origin":         "Origin City",
	"destination":    "Destination City",
	"departure-days": "Departure (days from today)",
	"return-days":    "Return (days from today)",
	"header-link":    "Header Link",
	"footer-link":    "Footer Link",
	"screenshots":    "Screenshots Mode",
	"video":          "Video Recording",
}

func (m *Mapper) ParameterLabel(parameter string) string {
	if l, ok := labels[parameter]; ok {
		return l
	}
	return parameter
}

var categories = map[string]string{
	"browser":        "core",
	"env":            "core",
	"language":       "core",
	"pos":            "core",
	"origin":         "navigation",
	"destination":    "navigation",
	"departure-days": "navigation",
	"return-days":    "navigation",
	"header-link":    "redirects",
	"footer-link":    "redirects",
	"screenshots":    "evidence",
	"video":          "evidence",
}

func (m *Mapper) ParameterCategory(parameter string) string {
	if c, ok := categories[parameter]; ok {
		return c
	}
	return "other"
}

// CategoryOrder is the fixed layout order of non-empty categories.
var CategoryOrder = []string{"core", "navigation", "redirects", "evidence"}

// ParametersByCategory groups a case's applicable parameters for layout.
// Empty categories are elided.
func (m *Mapper) ParametersByCategory(caseID string) map[string][]string {
	out := map[string][]string{}
	for _, p := range m.ApplicableParameters(caseID) {
		cat := m.ParameterCategory(p)
		out[cat] = append(out[cat], p)
	}
	return out
}

// EvidenceModes lists the selectable values for the two evidence parameters,
// which carry no catalog option set.
func (m *Mapper) EvidenceModes(parameter string) []string {
	switch parameter {
	case "screenshots":
		return []string{"none", "on-failure", "all"}
	case "video":
		return []string{"none", "enabled"}
	default:
		return nil
	}
}
