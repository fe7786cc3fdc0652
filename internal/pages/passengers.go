package pages

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// Passenger carries the form values for one traveller, keyed the way the
// testdata file stores them.
type Passenger struct {
	FirstName string
	LastName  string
	Gender    string // "M" or "F"
	Email     string
	Phone     string
}

// Passengers is the traveller-details form. The form renders one
// first/last-name input pair per passenger, indexed in booking order, plus
// a single contact block tied to the first adult.
type Passengers struct {
	page playwright.Page
	log  *zap.Logger
}

func NewPassengers(page playwright.Page, log *zap.Logger) *Passengers {
	return &Passengers{page: page, log: componentLogger(log, "passengers")}
}

// WaitLoaded waits for the first name inputs to render.
func (p *Passengers) WaitLoaded() error {
	p.log.Info("waiting for passengers form")
	loc := p.page.Locator("input[id^='IdFirstName']").First()
	if err := waitVisible(loc, defaultTimeout); err != nil {
		return fmt.Errorf("passenger form: %w", err)
	}
	return nil
}

// FillAll fills every passenger in order, then the contact block from the
// first passenger with an email.
func (p *Passengers) FillAll(list []Passenger) error {
	firstNames := p.page.Locator("input[id^='IdFirstName']")
	lastNames := p.page.Locator("input[id^='IdLastName']")
	count, err := firstNames.Count()
	if err != nil {
		return fmt.Errorf("passenger inputs: %w", err)
	}
	if count < len(list) {
		return fmt.Errorf("form has %d passenger slots, need %d", count, len(list))
	}
	for i, pax := range list {
		p.log.Info("filling passenger", zap.Int("index", i), zap.String("name", pax.FirstName))
		if err := firstNames.Nth(i).Fill(pax.FirstName); err != nil {
			return fmt.Errorf("passenger %d first name: %w", i, err)
		}
		if err := lastNames.Nth(i).Fill(pax.LastName); err != nil {
			return fmt.Errorf("passenger %d last name: %w", i, err)
		}
		if err := p.pickGender(i, pax.Gender); err != nil {
			return err
		}
	}
	for _, pax := range list {
		if pax.Email != "" {
			return p.fillContact(pax)
		}
	}
	return nil
}

// pickGender opens the per-passenger gender dropdown and picks the option.
// Options render as <id>-0 (male) and <id>-1 (female).
func (p *Passengers) pickGender(index int, gender string) error {
	buttons := p.page.Locator("button[id^='IdPaxGender_']")
	btn := buttons.Nth(index)
	id, err := btn.GetAttribute("id")
	if err != nil {
		return fmt.Errorf("passenger %d gender dropdown: %w", index, err)
	}
	if err := clickSettled(p.page, btn, 400); err != nil {
		return fmt.Errorf("passenger %d gender dropdown: %w", index, err)
	}
	slot := 0
	if gender == "F" {
		slot = 1
	}
	option := p.page.Locator(fmt.Sprintf("#%s-%d", id, slot))
	if err := clickSettled(p.page, option, 400); err != nil {
		return fmt.Errorf("passenger %d gender option: %w", index, err)
	}
	return nil
}

func (p *Passengers) fillContact(pax Passenger) error {
	p.log.Info("filling contact block", zap.String("email", pax.Email))
	if err := clickSettled(p.page, p.page.Locator("#phone_prefixPhoneId"), 400); err != nil {
		return fmt.Errorf("phone prefix dropdown: %w", err)
	}
	if err := clickSettled(p.page, p.page.Locator("#phone_prefixPhoneId-0"), 400); err != nil {
		return fmt.Errorf("phone prefix option: %w", err)
	}
	if err := p.page.Locator("#phone_phoneNumberId").Fill(pax.Phone); err != nil {
		return fmt.Errorf("phone number: %w", err)
	}
	if err := p.page.Locator("#email").Fill(pax.Email); err != nil {
		return fmt.Errorf("email: %w", err)
	}
	if err := p.page.Locator("#confirmEmail").Fill(pax.Email); err != nil {
		return fmt.Errorf("confirm email: %w", err)
	}
	return nil
}

// Continue advances to the services page.
func (p *Passengers) Continue() error {
	btn := p.page.Locator("button.btn-next").First()
	if err := clickSettled(p.page, btn, 2000); err != nil {
		return fmt.Errorf("continue: %w", err)
	}
	return nil
}
