// Package pages holds the page objects for the nuxqa booking site. Each
// page wraps a playwright.Page, exposes the actions a scenario needs, and
// returns errors instead of panicking so the runner can fail the single
// combination and move on.
package pages

import (
	"strings"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"avqa/internal/catalog"
)

const defaultTimeout = 20_000 // ms

// ExpectedTarget returns the URL fragments a navigation link may land on
// for the given language; the destination must contain at least one of
// them. Some links route differently per language; the catalog records
// those as language exceptions, which narrow the list to one fragment.
func ExpectedTarget(opt *catalog.Option, language string) []string {
	if alt, ok := opt.LanguageExceptions[language]; ok {
		return []string{alt}
	}
	return opt.ExpectedURLContains
}

// ContainsAny reports whether s contains at least one of the fragments.
func ContainsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}

func componentLogger(log *zap.Logger, name string) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log.With(zap.String("component", name))
}

// waitVisible blocks until the locator is visible or the timeout elapses.
func waitVisible(loc playwright.Locator, timeoutMs float64) error {
	return loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(timeoutMs),
	})
}

// clickSettled scrolls the element into view, clicks it, then gives the SPA
// a moment to react. The booking site re-renders aggressively after most
// clicks, so a short settle avoids racing the next locator.
func clickSettled(page playwright.Page, loc playwright.Locator, settleMs float64) error {
	if err := loc.ScrollIntoViewIfNeeded(); err != nil {
		return err
	}
	if err := loc.Click(); err != nil {
		return err
	}
	page.WaitForTimeout(settleMs)
	return nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
