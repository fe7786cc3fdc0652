package pages

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"avqa/internal/catalog"
)

// Home is the landing page: language and POS selectors live in the top bar,
// the flight search form in the middle, and the header/footer link groups
// around it.
type Home struct {
	page playwright.Page
	log  *zap.Logger
}

func NewHome(page playwright.Page, log *zap.Logger) *Home {
	return &Home{page: page, log: componentLogger(log, "home")}
}

func (h *Home) Open(url string) error {
	h.log.Info("opening home page", zap.String("url", url))
	if _, err := h.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	}); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	h.page.WaitForTimeout(2000)
	return nil
}

func (h *Home) URL() string { return h.page.URL() }

// ---- language ----

// SelectLanguage opens the language dropdown and picks the language by its
// visible name (Español, English, Français, Português). The page reloads
// itself afterwards.
func (h *Home) SelectLanguage(name string) error {
	h.log.Info("selecting language", zap.String("language", name))
	trigger := h.page.Locator("button.dropdown_trigger").First()
	if err := clickSettled(h.page, trigger, 1000); err != nil {
		return fmt.Errorf("open language dropdown: %w", err)
	}
	option := h.page.Locator(fmt.Sprintf("span:has-text(%q)", name)).First()
	if err := clickSettled(h.page, option, 2000); err != nil {
		return fmt.Errorf("select language %s: %w", name, err)
	}
	return nil
}

// OffersText reads the primary-nav offers label used to verify the active
// language.
func (h *Home) OffersText() (string, error) {
	loc := h.page.Locator("button.main-header_nav-primary_item_link span.button_label").First()
	if err := waitVisible(loc, defaultTimeout); err != nil {
		return "", fmt.Errorf("offers label: %w", err)
	}
	text, err := loc.InnerText()
	if err != nil {
		return "", fmt.Errorf("offers label text: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// ---- point of sale ----

// SelectPOS opens the POS dropdown, picks the country by its label, and
// applies the change. The page reloads on apply.
func (h *Home) SelectPOS(name string) error {
	h.log.Info("selecting POS", zap.String("pos", name))
	if err := clickSettled(h.page, h.page.Locator("#pointOfSaleSelectorId"), 1000); err != nil {
		return fmt.Errorf("open POS dropdown: %w", err)
	}
	option := h.page.Locator(
		fmt.Sprintf("span.points-of-sale_list_item_label:has-text(%q)", name)).First()
	if err := clickSettled(h.page, option, 1000); err != nil {
		return fmt.Errorf("select POS %s: %w", name, err)
	}
	apply := h.page.Locator("button.points-of-sale_footer_action_button").First()
	if err := clickSettled(h.page, apply, 3000); err != nil {
		return fmt.Errorf("apply POS %s: %w", name, err)
	}
	return nil
}

// POSText returns the currently selected POS label.
func (h *Home) POSText() (string, error) {
	loc := h.page.Locator("#pointOfSaleSelectorId span.button_label").First()
	if err := waitVisible(loc, defaultTimeout); err != nil {
		return "", fmt.Errorf("POS label: %w", err)
	}
	text, err := loc.InnerText()
	if err != nil {
		return "", fmt.Errorf("POS label text: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// ---- header / footer navigation ----

// OpenHeaderLink clicks a header navigation link and, when a submenu opens,
// its first entry. Returns the URL the browser lands on.
func (h *Home) OpenHeaderLink(opt *catalog.Option) (string, error) {
	h.log.Info("opening header link", zap.String("link", opt.Key))
	link := h.page.Locator(fmt.Sprintf("header a[href*=%q]", opt.Key)).First()
	if visible, _ := link.IsVisible(); !visible {
		// Some header entries only expose their target through a submenu
		// trigger named after the link.
		link = h.page.Locator(fmt.Sprintf("header button:has-text(%q)", opt.DisplayName)).First()
	}
	if err := clickSettled(h.page, link, 1500); err != nil {
		return "", fmt.Errorf("header link %s: %w", opt.Key, err)
	}
	submenu := h.page.Locator(fmt.Sprintf("a[href*=%q]:visible", opt.Key)).First()
	if visible, _ := submenu.IsVisible(); visible {
		if err := clickSettled(h.page, submenu, 2000); err != nil {
			return "", fmt.Errorf("header submenu %s: %w", opt.Key, err)
		}
	}
	h.page.WaitForTimeout(2000)
	return h.page.URL(), nil
}

// OpenFooterLink scrolls to the footer and clicks the link. Returns the URL
// the browser lands on.
func (h *Home) OpenFooterLink(opt *catalog.Option) (string, error) {
	h.log.Info("opening footer link", zap.String("link", opt.Key))
	link := h.page.Locator(fmt.Sprintf("footer a[href*=%q]", opt.Key)).First()
	if err := clickSettled(h.page, link, 2000); err != nil {
		return "", fmt.Errorf("footer link %s: %w", opt.Key, err)
	}
	h.page.WaitForTimeout(2000)
	return h.page.URL(), nil
}
