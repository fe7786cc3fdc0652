package pages

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// Fare plan indexes as the fare buttons render left to right.
const (
	FareBasic = 0
	FareFlex  = 2
)

// fareKeywords match the fare-selection button text in every site language
// (Seleccionar tarifa, Choose fare, Choisir le tarif, Selecionar tarifa).
var fareKeywords = []string{"tarif", "tarifa", "fare", "selec", "chois", "choose"}

// IsFareSelectionText reports whether a journey button's text looks like a
// fare-selection prompt, regardless of the site language.
func IsFareSelectionText(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range fareKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// SelectFlight is the results page after a search: one list of journeys per
// leg, each journey expanding into Basic/Classic/Flex fare buttons.
type SelectFlight struct {
	page playwright.Page
	log  *zap.Logger
}

func NewSelectFlight(page playwright.Page, log *zap.Logger) *SelectFlight {
	return &SelectFlight{page: page, log: componentLogger(log, "select-flight")}
}

// WaitLoaded waits until the journey list is rendered.
func (f *SelectFlight) WaitLoaded() error {
	f.log.Info("waiting for flight results")
	loc := f.page.Locator("button.journey_price_button").First()
	if err := waitVisible(loc, defaultTimeout); err != nil {
		return fmt.Errorf("flight results: %w", err)
	}
	f.page.WaitForTimeout(2000)
	return nil
}

// SelectOutbound picks the first journey and the fare at fareIndex
// (FareBasic or FareFlex).
func (f *SelectFlight) SelectOutbound(fareIndex int) error {
	f.log.Info("selecting outbound flight", zap.Int("fare_index", fareIndex))
	journeys := f.page.Locator("button.journey_price_button")
	if err := clickSettled(f.page, journeys.First(), 1500); err != nil {
		return fmt.Errorf("outbound journey: %w", err)
	}
	return f.pickFare(fareIndex)
}

// SelectReturn picks the first visible return journey. After the outbound
// fare is confirmed the page reloads behind a loader animation and the
// outbound buttons leave the viewport, so the return journeys are the
// visible buttons whose text is a fare-selection prompt.
func (f *SelectFlight) SelectReturn(fareIndex int) error {
	f.log.Info("selecting return flight", zap.Int("fare_index", fareIndex))
	if err := f.waitLoaderGone(); err != nil {
		return err
	}
	all, err := f.page.Locator("button.journey_price_button").All()
	if err != nil {
		return fmt.Errorf("return journeys: %w", err)
	}
	f.log.Info("journey buttons in DOM", zap.Int("count", len(all)))
	var target playwright.Locator
	for _, btn := range all {
		visible, err := btn.IsVisible()
		if err != nil || !visible {
			continue
		}
		text, err := btn.InnerText()
		if err != nil {
			continue
		}
		if IsFareSelectionText(text) {
			target = btn
			break
		}
	}
	if target == nil {
		return fmt.Errorf("no visible return journey button")
	}
	if err := clickSettled(f.page, target, 1500); err != nil {
		return fmt.Errorf("return journey: %w", err)
	}
	return f.pickFare(fareIndex)
}

func (f *SelectFlight) pickFare(index int) error {
	fares := f.page.Locator("button.fare_button")
	if err := waitVisible(fares.First(), defaultTimeout); err != nil {
		return fmt.Errorf("fare buttons: %w", err)
	}
	count, err := fares.Count()
	if err != nil {
		return fmt.Errorf("fare buttons: %w", err)
	}
	if index >= count {
		return fmt.Errorf("fare index %d out of range, %d buttons", index, count)
	}
	if err := clickSettled(f.page, fares.Nth(index), 2000); err != nil {
		return fmt.Errorf("fare %d: %w", index, err)
	}
	return nil
}

// waitLoaderGone waits out the airplane loader shown while the return leg
// loads. That reload takes up to half a minute on the QA environments.
func (f *SelectFlight) waitLoaderGone() error {
	loader := f.page.Locator("div.page-loader").First()
	if visible, _ := loader.IsVisible(); visible {
		if err := loader.WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateHidden,
			Timeout: playwright.Float(40_000),
		}); err != nil {
			return fmt.Errorf("results loader: %w", err)
		}
	}
	f.page.WaitForTimeout(1000)
	return nil
}

// Continue advances to the passengers page.
func (f *SelectFlight) Continue() error {
	btn := f.page.Locator("button.btn-next").First()
	if err := clickSettled(f.page, btn, 1500); err != nil {
		return fmt.Errorf("continue: %w", err)
	}
	return nil
}
