package pages

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// Services is the ancillary-services page between passengers and seatmap.
type Services struct {
	page playwright.Page
	log  *zap.Logger
}

func NewServices(page playwright.Page, log *zap.Logger) *Services {
	return &Services{page: page, log: componentLogger(log, "services")}
}

// WaitLoaded waits for the services grid (or at least the continue button)
// to render.
func (s *Services) WaitLoaded() error {
	s.log.Info("waiting for services page")
	loc := s.page.Locator("button.btn-next").First()
	if err := waitVisible(loc, defaultTimeout); err != nil {
		return fmt.Errorf("services page: %w", err)
	}
	s.page.WaitForTimeout(1500)
	return nil
}

// SelectFirstAvailable adds the first service that exposes an add control,
// confirming its dialog when one opens. Best effort: a page without any
// selectable service is not an error.
func (s *Services) SelectFirstAvailable() error {
	add := s.page.Locator("button.add-service, button:has-text('Agregar'), button:has-text('Add')").First()
	visible, err := add.IsVisible()
	if err != nil || !visible {
		s.log.Info("no selectable service found")
		return nil
	}
	if err := clickSettled(s.page, add, 1500); err != nil {
		return fmt.Errorf("add service: %w", err)
	}
	confirm := s.page.Locator("button:has-text('Confirmar'), button.btn-action").First()
	if ok, _ := confirm.IsVisible(); ok {
		if err := clickSettled(s.page, confirm, 1500); err != nil {
			return fmt.Errorf("confirm service: %w", err)
		}
	}
	s.log.Info("service added")
	return nil
}

// SkipAll continues without selecting any service.
func (s *Services) SkipAll() error {
	s.log.Info("skipping all services")
	btn := s.page.Locator("button.btn-next").First()
	if err := clickSettled(s.page, btn, 2000); err != nil {
		return fmt.Errorf("skip services: %w", err)
	}
	return nil
}
