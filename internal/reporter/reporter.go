package reporter

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"

	"avqa/internal/runner"
)

// SuiteResult aggregates the per-case runs of a single invocation.
type SuiteResult struct {
	Name       string             `json:"name"`
	Passed     bool               `json:"passed"`
	DurationMs float64            `json:"duration_ms"`
	Cases      []runner.RunResult `json:"cases"`
}

func NewSuite(name string, cases []runner.RunResult) *SuiteResult {
	res := &SuiteResult{Name: name, Passed: true, Cases: cases}
	for _, c := range cases {
		res.DurationMs += c.DurationMs
		if !c.Passed {
			res.Passed = false
		}
	}
	return res
}

// -------- JSON --------

func WriteJSON(w io.Writer, res *SuiteResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// -------- JUnit XML --------

// Minimal JUnit schema: testsuite -> testcase (+failure)
type junitTestsuite struct {
	XMLName  xml.Name        `xml:"testsuite"`
	Name     string          `xml:"name,attr"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Time     string          `xml:"time,attr"`
	Testcase []junitTestcase `xml:"testcase"`
}

type junitTestcase struct {
	Classname string        `xml:"classname,attr"`
	Name      string        `xml:"name,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *junitFailure `xml:"failure,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Text    string `xml:",chardata"`
}

func WriteJUnit(w io.Writer, suiteName string, res *SuiteResult) error {
	var total, failures int
	var cases []junitTestcase

	for _, cr := range res.Cases {
		for _, cb := range cr.Combos {
			total++
			tc := junitTestcase{
				Classname: cr.CaseID,
				Name:      cb.Name,
				Time:      fmt.Sprintf("%.3f", cb.DurationMs/1000.0),
			}
			if !cb.Passed {
				failures++
				msg := "combination failed"
				if cb.Error != "" {
					msg = cb.Error
				}
				tc.Failure = &junitFailure{
					Message: msg,
					Type:    "AssertionError",
					Text:    failureText(cb),
				}
			}
			cases = append(cases, tc)
		}
	}

	ts := junitTestsuite{
		Name:     suiteName,
		Tests:    total,
		Failures: failures,
		Time:     fmt.Sprintf("%.3f", res.DurationMs/1000.0),
		Testcase: cases,
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(ts)
}

func failureText(cb runner.ComboResult) string {
	out := cb.Error
	if cb.Outcome.Expected != "" || cb.Outcome.Actual != "" {
		out += fmt.Sprintf("\nexpected: %s\nactual:   %s", cb.Outcome.Expected, cb.Outcome.Actual)
	}
	if cb.Outcome.FinalURL != "" {
		out += "\nfinal url: " + cb.Outcome.FinalURL
	}
	return out
}
