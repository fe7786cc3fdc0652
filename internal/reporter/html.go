package reporter

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"os"
	"strconv"
	"strings"

	"avqa/internal/runner"
)

// --- Primary HTML renderer ---

func WriteHTML(w io.Writer, suiteName string, res *SuiteResult) error {
	var sb strings.Builder

	sb.WriteString(`<!doctype html><html lang="en"><head><meta charset="utf-8">`)
	sb.WriteString(`<meta name="viewport" content="width=device-width,initial-scale=1">`)
	sb.WriteString(`<title>avqa Report — ` + html.EscapeString(suiteName) + `</title>`)
	sb.WriteString(`<style>
:root { --ok:#0a0; --bad:#b00; --muted:#666; --chip:#eee; --line:#e5e5e5; }
body{font-family:system-ui,Segoe UI,Roboto,Arial,sans-serif;margin:24px;line-height:1.45}
h1{margin:0 0 12px}
h2{margin:0 0 8px;font-size:1.05rem}
.summary{display:flex;gap:12px;align-items:center;margin:12px 0 18px}
.pass{color:var(--ok)} .fail{color:var(--bad)}
.badge{display:inline-block;padding:2px 8px;border-radius:999px;background:var(--chip);font-size:.85rem}
.card{border:1px solid var(--line);border-radius:12px;padding:16px;margin:12px 0}
.combo{margin:6px 0}
details>summary{cursor:pointer;list-style:none}
details>summary::-webkit-details-marker{display:none}
summary {padding:6px 0}
pre{background:#f8f8f8;padding:12px;border-radius:8px;overflow:auto;max-height:320px;margin:8px 0 0;white-space:pre-wrap}
.muted{color:var(--muted)}
hr{border:0;border-top:1px solid var(--line);margin:20px 0}
.small{font-size:.85rem}
.kv{margin-top:6px}
</style></head><body>`)

	// Header
	sb.WriteString(`<h1>` + html.EscapeString(suiteName) + `</h1>`)
	sb.WriteString(`<div class="summary">`)
	sb.WriteString(`<div>Status: <strong class="` + statusClass(res.Passed) + `">` + tern(res.Passed, "PASS", "FAIL") + `</strong></div>`)
	sb.WriteString(chip("Duration: " + ms(res.DurationMs)))
	sb.WriteString(chip("Cases: " + strconv.Itoa(len(res.Cases))))
	sb.WriteString(`</div><hr>`)

	// Cases
	for _, cr := range res.Cases {
		sb.WriteString(`<div class="card">`)
		sb.WriteString(`<h2>` + html.EscapeString(cr.CaseID) + ` — ` + badgeStatus(cr.Passed) + ` ` + chip(ms(cr.DurationMs)) + `</h2>`)

		for _, cb := range cr.Combos {
			sb.WriteString(`<div class="combo">`)
			sb.WriteString(`<details ` + tern(!cb.Passed, "open", "") + `>`)
			sb.WriteString(`<summary>` + html.EscapeString(cb.Name) + ` ` + badgeStatus(cb.Passed) + ` ` + chip(ms(cb.DurationMs)) + `</summary>`)

			sb.WriteString(`<pre class="kv">` + html.EscapeString(comboBlock(cb)) + `</pre>`)

			if cb.Error != "" {
				sb.WriteString(`<pre>` + html.EscapeString(cb.Error) + `</pre>`)
			} else {
				sb.WriteString(`<div class="small muted">No errors.</div>`)
			}

			if cb.Outcome.Expected != "" || cb.Outcome.Actual != "" {
				sb.WriteString(`<div class="small muted" style="margin-top:10px;">Outcome</div>`)
				sb.WriteString(`<pre class="kv">` + html.EscapeString(outcomeBlock(cb)) + `</pre>`)
			}
			if cb.Screenshot != "" {
				sb.WriteString(`<div class="small muted" style="margin-top:10px;">Screenshot: ` + html.EscapeString(cb.Screenshot) + `</div>`)
			}
			if cb.Video != "" {
				sb.WriteString(`<div class="small muted">Video: ` + html.EscapeString(cb.Video) + `</div>`)
			}

			sb.WriteString(`</details>`)
			sb.WriteString(`</div>`)
		}
		sb.WriteString(`</div>`)
	}

	sb.WriteString(`</body></html>`)
	_, err := io.WriteString(w, sb.String())
	return err
}

// --- Helper that guarantees HTML matches the on-disk results.json ---

func WriteHTMLFromJSONPath(w io.Writer, suiteName, resultsJSONPath string) error {
	data, err := os.ReadFile(resultsJSONPath)
	if err != nil {
		return fmt.Errorf("read results.json: %w", err)
	}
	var res SuiteResult
	if err := json.Unmarshal(data, &res); err != nil {
		return fmt.Errorf("decode results.json: %w", err)
	}
	return WriteHTML(w, suiteName, &res)
}

func statusClass(ok bool) string {
	if ok {
		return "pass"
	}
	return "fail"
}

func badgeStatus(ok bool) string {
	if ok {
		return `<span class="badge pass">PASS</span>`
	}
	return `<span class="badge fail">FAIL</span>`
}

func chip(text string) string {
	return `<span class="badge">` + html.EscapeString(text) + `</span>`
}

func ms(v float64) string { return fmt.Sprintf("%.0f ms", v) }

func tern[T ~string](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}

func comboBlock(cb runner.ComboResult) string {
	var b strings.Builder
	write := func(k, v string) {
		if v != "" {
			b.WriteString(k + ": " + v + "\n")
		}
	}
	write("browser", cb.Combo.Browser)
	write("language", cb.Combo.Language)
	write("language mode", cb.Combo.LanguageMode)
	write("pos", cb.Combo.POS)
	write("header link", cb.Combo.HeaderLink)
	write("footer link", cb.Combo.FooterLink)
	write("environment", cb.Combo.Env)
	write("base url", cb.Combo.BaseURL)
	return strings.TrimRight(b.String(), "\n")
}

func outcomeBlock(cb runner.ComboResult) string {
	var b strings.Builder
	b.WriteString("expected: " + cb.Outcome.Expected + "\n")
	b.WriteString("actual:   " + cb.Outcome.Actual)
	if cb.Outcome.FinalURL != "" {
		b.WriteString("\nfinal url: " + cb.Outcome.FinalURL)
	}
	if cb.Outcome.Message != "" {
		b.WriteString("\n" + cb.Outcome.Message)
	}
	return b.String()
}
