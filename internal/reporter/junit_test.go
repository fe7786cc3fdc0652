package reporter_test

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"

	"avqa/internal/reporter"
)

func TestWriteJUnit_Basic(t *testing.T) {
	res := sampleSuite()

	var buf bytes.Buffer
	if err := reporter.WriteJUnit(&buf, "booking suite", res); err != nil {
		t.Fatalf("WriteJUnit error: %v", err)
	}

	// sanity: XML starts with <testsuite ...>
	out := buf.String()
	if !strings.Contains(out, "<testsuite") {
		t.Fatalf("expected testsuite root, got: %s", out[:min(200, len(out))])
	}

	// well-formed XML
	var v struct{}
	if err := xml.Unmarshal(buf.Bytes(), &v); err != nil {
		t.Fatalf("invalid xml: %v", err)
	}

	// counts
	if !strings.Contains(out, `tests="2"`) {
		t.Fatalf("expected tests=2, got %s", out)
	}
	if !strings.Contains(out, `failures="1"`) {
		t.Fatalf("expected failures=1, got %s", out)
	}
	if !strings.Contains(out, `name="Case5_Chile_qa4_chrome"`) {
		t.Fatalf("expected combo name attribute, got %s", out)
	}
	if !strings.Contains(out, "pos label mismatch") {
		t.Fatalf("expected failure message in output, got %s", out)
	}
}
