package reporter_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"avqa/internal/matrix"
	"avqa/internal/reporter"
	"avqa/internal/runner"
)

func sampleSuite() *reporter.SuiteResult {
	return reporter.NewSuite("smoke", []runner.RunResult{
		{
			CaseID: "case_4",
			Passed: true,
			Combos: []runner.ComboResult{
				{
					Name:       "Case4_English_qa4_chrome",
					Combo:      matrix.Combo{CaseID: "case_4", Browser: "chrome", Language: "English", Env: "qa4"},
					Passed:     true,
					DurationMs: 1200,
				},
			},
			DurationMs: 1200,
		},
		{
			CaseID: "case_5",
			Passed: false,
			Combos: []runner.ComboResult{
				{
					Name:       "Case5_Chile_qa4_chrome",
					Combo:      matrix.Combo{CaseID: "case_5", Browser: "chrome", POS: "Chile", Env: "qa4"},
					Passed:     false,
					Error:      "pos label mismatch",
					Outcome:    runner.Outcome{Expected: "Chile", Actual: "Colombia"},
					DurationMs: 900,
				},
			},
			DurationMs: 900,
		},
	})
}

func TestWriteJSON_Basic(t *testing.T) {
	res := sampleSuite()
	if res.Passed {
		t.Fatalf("suite with a failed case should not pass")
	}

	var buf bytes.Buffer
	if err := reporter.WriteJSON(&buf, res); err != nil {
		t.Fatalf("WriteJSON error: %v", err)
	}

	var roundtrip reporter.SuiteResult
	if err := json.Unmarshal(buf.Bytes(), &roundtrip); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if roundtrip.Passed {
		t.Fatalf("roundtrip.Passed = true, want false")
	}
	if len(roundtrip.Cases) != 2 {
		t.Fatalf("roundtrip cases len = %d, want 2", len(roundtrip.Cases))
	}
	if roundtrip.Cases[1].Combos[0].Outcome.Expected != "Chile" {
		t.Fatalf("outcome lost in roundtrip: %+v", roundtrip.Cases[1].Combos[0])
	}
}
