package pages

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// Card carries test card details. Payment rejection is acceptable on the QA
// environments; reaching and submitting the form is what the flow proves.
type Card struct {
	Number      string
	Holder      string
	ExpiryMonth string
	ExpiryYear  string
	CVV         string
}

// Billing carries the billing-contact form values.
type Billing struct {
	Email   string
	Address string
	City    string
	Country string
}

// Payment is the final checkout page.
type Payment struct {
	page playwright.Page
	log  *zap.Logger
}

func NewPayment(page playwright.Page, log *zap.Logger) *Payment {
	return &Payment{page: page, log: componentLogger(log, "payment")}
}

// WaitLoaded waits for the card form, dismissing the cookie banner when it
// covers the page.
func (p *Payment) WaitLoaded() error {
	p.log.Info("waiting for payment page")
	p.acceptCookies()
	loc := p.page.Locator("#Holder").First()
	if err := waitVisible(loc, defaultTimeout); err != nil {
		return fmt.Errorf("payment form: %w", err)
	}
	return nil
}

// AtPaymentPage reports whether the browser URL looks like checkout.
func (p *Payment) AtPaymentPage() bool {
	url := strings.ToLower(p.page.URL())
	return strings.Contains(url, "payment") || strings.Contains(url, "pay") ||
		strings.Contains(url, "checkout")
}

func (p *Payment) acceptCookies() {
	btn := p.page.Locator("#onetrust-accept-btn-handler").First()
	if visible, _ := btn.IsVisible(); visible {
		_ = btn.Click()
		p.page.WaitForTimeout(500)
	}
}

// FillCard fills the card block.
func (p *Payment) FillCard(card Card) error {
	p.log.Info("filling card details")
	if err := p.page.Locator("#Holder").Fill(card.Holder); err != nil {
		return fmt.Errorf("card holder: %w", err)
	}
	if err := p.page.Locator("#Data").Fill(card.Number); err != nil {
		return fmt.Errorf("card number: %w", err)
	}
	if err := p.pickOption("#expirationMonth_ExpirationDate", card.ExpiryMonth); err != nil {
		return fmt.Errorf("expiry month: %w", err)
	}
	if err := p.pickOption("#expirationYear_ExpirationDate", card.ExpiryYear); err != nil {
		return fmt.Errorf("expiry year: %w", err)
	}
	if err := p.page.Locator("#Cvv").Fill(card.CVV); err != nil {
		return fmt.Errorf("cvv: %w", err)
	}
	return nil
}

// FillBilling fills the billing block.
func (p *Payment) FillBilling(b Billing) error {
	p.log.Info("filling billing details")
	if err := p.page.Locator("#email").Fill(b.Email); err != nil {
		return fmt.Errorf("billing email: %w", err)
	}
	if err := p.page.Locator("#address").Fill(b.Address); err != nil {
		return fmt.Errorf("billing address: %w", err)
	}
	if err := p.page.Locator("#city").Fill(b.City); err != nil {
		return fmt.Errorf("billing city: %w", err)
	}
	if err := p.pickOption("#country", b.Country); err != nil {
		return fmt.Errorf("billing country: %w", err)
	}
	return nil
}

// pickOption opens a dropdown button and clicks the option containing text.
func (p *Payment) pickOption(trigger, text string) error {
	if err := clickSettled(p.page, p.page.Locator(trigger).First(), 400); err != nil {
		return err
	}
	option := p.page.Locator(fmt.Sprintf("button[role='option']:has-text(%q)", text)).First()
	return clickSettled(p.page, option, 400)
}

// AcceptTerms ticks the terms checkbox when present.
func (p *Payment) AcceptTerms() {
	box := p.page.Locator("#terms").First()
	if visible, _ := box.IsVisible(); visible {
		_ = box.Click()
		p.page.WaitForTimeout(300)
	}
}

// Submit clicks pay. A rejected payment is not an error here.
func (p *Payment) Submit() error {
	p.log.Info("submitting payment")
	btn := p.page.Locator("button.save-user-consent-confirmation, button.payment_button").First()
	if err := clickSettled(p.page, btn, 3000); err != nil {
		return fmt.Errorf("pay button: %w", err)
	}
	return nil
}
