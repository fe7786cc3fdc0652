package pages

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// EconomySeatIDs returns the DOM ids of every economy seat on the aircraft
// the QA environments fly: rows 4, 11 and 15 through 32, letters A B C D E
// K, each suffixed _ECONOMY.
func EconomySeatIDs() []string {
	letters := []string{"A", "B", "C", "D", "E", "K"}
	rows := []int{4, 11}
	for r := 15; r <= 32; r++ {
		rows = append(rows, r)
	}
	ids := make([]string, 0, len(rows)*len(letters))
	for _, row := range rows {
		for _, letter := range letters {
			ids = append(ids, fmt.Sprintf("%d%s_ECONOMY", row, letter))
		}
	}
	return ids
}

// SeatAvailable reports whether a seat's class attribute marks it as a free
// economy seat. Premium rows carry "upfront", plus rows "xlarge"; taken or
// blocked seats carry "selected" or "unavailable".
func SeatAvailable(classes string) bool {
	if !strings.Contains(classes, "seat") {
		return false
	}
	for _, excluded := range []string{"upfront", "xlarge", "selected", "unavailable"} {
		if strings.Contains(classes, excluded) {
			return false
		}
	}
	return true
}

// Seatmap is the seat-selection page. The page auto-selects the next
// passenger after each confirmed seat, so assigning seats is click, verify,
// repeat.
type Seatmap struct {
	page playwright.Page
	log  *zap.Logger
}

func NewSeatmap(page playwright.Page, log *zap.Logger) *Seatmap {
	return &Seatmap{page: page, log: componentLogger(log, "seatmap")}
}

// WaitLoaded waits for the passenger selector and gives the seatmap app
// time to finish initializing its booking state. Clicking before that
// raises a configuration-error modal.
func (s *Seatmap) WaitLoaded() error {
	s.log.Info("waiting for seatmap")
	loc := s.page.Locator("div.pax-selector_list").First()
	if err := waitVisible(loc, 25_000); err != nil {
		return fmt.Errorf("seatmap: %w", err)
	}
	s.page.WaitForTimeout(10_000)
	return nil
}

// AssignSeats selects one available economy seat per passenger, in page
// order. Returns the selected seat ids.
func (s *Seatmap) AssignSeats(passengerCount int) ([]string, error) {
	var assigned []string
	for i := 0; i < passengerCount; i++ {
		s.log.Info("assigning seat", zap.Int("passenger", i+1))
		seatID, err := s.selectFirstAvailable()
		if err != nil {
			return assigned, fmt.Errorf("passenger %d: %w", i+1, err)
		}
		assigned = append(assigned, seatID)
	}
	return assigned, nil
}

// selectFirstAvailable walks the economy seat ids, clicks the first free
// one, and confirms it turned selected. A seat that fails to confirm is
// skipped and the walk continues.
func (s *Seatmap) selectFirstAvailable() (string, error) {
	for _, seatID := range EconomySeatIDs() {
		seat := s.page.Locator("#" + seatID)
		count, err := seat.Count()
		if err != nil || count == 0 {
			continue
		}
		classes, err := seat.GetAttribute("class")
		if err != nil || !SeatAvailable(classes) {
			continue
		}
		s.log.Info("clicking seat", zap.String("seat", seatID))
		if err := clickSettled(s.page, seat, 2000); err != nil {
			s.log.Warn("seat click failed", zap.String("seat", seatID), zap.Error(err))
			continue
		}
		s.dismissAlertModal(seatID)
		// The selected class lands once the booking state round-trips.
		s.page.WaitForTimeout(8000)
		updated, err := seat.GetAttribute("class")
		if err == nil && strings.Contains(updated, "selected") {
			s.log.Info("seat selected", zap.String("seat", seatID))
			return seatID, nil
		}
		s.log.Warn("seat did not confirm", zap.String("seat", seatID))
	}
	return "", fmt.Errorf("no available economy seat")
}

// dismissAlertModal closes the error modal the seatmap occasionally throws
// after a click. Best effort; the seat walk continues either way.
func (s *Seatmap) dismissAlertModal(seatID string) {
	modal := s.page.Locator("ngb-modal-window.modal-alert").First()
	if visible, _ := modal.IsVisible(); !visible {
		return
	}
	s.log.Warn("alert modal after seat click", zap.String("seat", seatID))
	for _, sel := range []string{"button[aria-label='Close']", "button.close", "button.btn-close"} {
		btn := s.page.Locator(sel).First()
		if visible, _ := btn.IsVisible(); visible {
			_ = btn.Click()
			s.page.WaitForTimeout(500)
			return
		}
	}
}

// Continue advances to the payment page.
func (s *Seatmap) Continue() error {
	btn := s.page.Locator("button.amount-summary_button").First()
	if err := clickSettled(s.page, btn, 2000); err != nil {
		return fmt.Errorf("continue to payment: %w", err)
	}
	return nil
}
