package scenarios

import (
	"context"
	"fmt"
	"strings"

	"avqa/internal/pages"
	"avqa/internal/runner"
)

// LanguageChange switches the site language from the home header and
// checks the offers navigation label shows the expected translation.
func LanguageChange(ctx context.Context, rc *runner.RunContext) (runner.Outcome, error) {
	home := pages.NewHome(rc.Page, rc.Log)
	if err := home.Open(rc.Combo.BaseURL); err != nil {
		return runner.Outcome{}, err
	}
	if err := home.SelectLanguage(rc.Combo.Language); err != nil {
		return runner.Outcome{}, err
	}
	want, err := expectedHomeText(rc, rc.Combo.Language)
	if err != nil {
		return runner.Outcome{}, err
	}
	got, err := home.OffersText()
	if err != nil {
		return runner.Outcome{}, err
	}
	out := runner.Outcome{Expected: want, Actual: got, FinalURL: home.URL()}
	if !labelContains(got, want) {
		out.Message = "offers label does not match selected language"
		return out, fmt.Errorf("offers label %q does not contain %q", got, want)
	}
	return out, nil
}

// POSChange switches the point of sale and checks the header reflects the
// chosen market.
func POSChange(ctx context.Context, rc *runner.RunContext) (runner.Outcome, error) {
	home := pages.NewHome(rc.Page, rc.Log)
	if err := home.Open(rc.Combo.BaseURL); err != nil {
		return runner.Outcome{}, err
	}
	if rc.Combo.Language != "" {
		if err := home.SelectLanguage(rc.Combo.Language); err != nil {
			return runner.Outcome{}, err
		}
	}
	if err := home.SelectPOS(rc.Combo.POS); err != nil {
		return runner.Outcome{}, err
	}
	got, err := home.POSText()
	if err != nil {
		return runner.Outcome{}, err
	}
	out := runner.Outcome{Expected: rc.Combo.POS, Actual: got, FinalURL: home.URL()}
	if !labelContains(got, rc.Combo.POS) {
		out.Message = "point of sale selector does not show the chosen market"
		return out, fmt.Errorf("pos label %q does not contain %q", got, rc.Combo.POS)
	}
	return out, nil
}

// labelContains checks the rendered label carries the expected text,
// case-insensitively. Labels may carry extra decoration around the text,
// so this is containment, not equality.
func labelContains(actual, expected string) bool {
	return strings.Contains(strings.ToLower(actual), strings.ToLower(expected))
}
