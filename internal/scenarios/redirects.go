package scenarios

import (
	"context"
	"fmt"
	"strings"

	"avqa/internal/catalog"
	"avqa/internal/pages"
	"avqa/internal/runner"
)

// HeaderRedirections opens a primary navigation link and checks the
// browser lands on the expected path for the active language.
func HeaderRedirections(ctx context.Context, rc *runner.RunContext) (runner.Outcome, error) {
	return redirectFlow(ctx, rc, "header-link", rc.Combo.HeaderLink)
}

// FooterRedirections does the same for the footer navigation.
func FooterRedirections(ctx context.Context, rc *runner.RunContext) (runner.Outcome, error) {
	return redirectFlow(ctx, rc, "footer-link", rc.Combo.FooterLink)
}

func redirectFlow(ctx context.Context, rc *runner.RunContext, parameter, key string) (runner.Outcome, error) {
	opt, err := lookupLink(rc, parameter, key)
	if err != nil {
		return runner.Outcome{}, err
	}
	home := pages.NewHome(rc.Page, rc.Log)
	if err := home.Open(rc.Combo.BaseURL); err != nil {
		return runner.Outcome{}, err
	}
	if rc.Combo.Language != "" {
		if err := home.SelectLanguage(rc.Combo.Language); err != nil {
			return runner.Outcome{}, err
		}
	}

	var final string
	if parameter == "header-link" {
		final, err = home.OpenHeaderLink(opt)
	} else {
		final, err = home.OpenFooterLink(opt)
	}
	if err != nil {
		return runner.Outcome{}, err
	}

	want := pages.ExpectedTarget(opt, rc.Combo.Language)
	out := runner.Outcome{Expected: strings.Join(want, " | "), Actual: final, FinalURL: final}
	if !pages.ContainsAny(final, want) {
		out.Message = fmt.Sprintf("%s %q landed off target", parameter, key)
		return out, fmt.Errorf("landing url %q contains none of %v", final, want)
	}
	return out, nil
}

func lookupLink(rc *runner.RunContext, parameter, key string) (*catalog.Option, error) {
	set, err := rc.Catalog.Options(parameter)
	if err != nil {
		return nil, err
	}
	opt := set.Get(key)
	if opt == nil {
		return nil, fmt.Errorf("%s %q not in catalog", parameter, key)
	}
	return opt, nil
}
