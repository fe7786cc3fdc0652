package pages

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// Search drives the flight search form on the home page. Dates are given as
// day offsets from today so a run never depends on the calendar month the
// suite happens to execute in.
type Search struct {
	page playwright.Page
	log  *zap.Logger
	now  func() time.Time
}

func NewSearch(page playwright.Page, log *zap.Logger) *Search {
	return &Search{page: page, log: componentLogger(log, "search"), now: time.Now}
}

// SelectOneWay switches the trip-type toggle to one-way. Round trip is the
// form default.
func (s *Search) SelectOneWay() error {
	s.log.Info("selecting one-way trip")
	toggle := s.page.Locator("#journeytypeId_1, input[value='ONE_WAY'], label[for='oneWay']").First()
	if err := clickSettled(s.page, toggle, 800); err != nil {
		return fmt.Errorf("one-way toggle: %w", err)
	}
	return nil
}

// SetOrigin types the IATA code into the origin field and picks the first
// suggestion.
func (s *Search) SetOrigin(iata string) error {
	return s.fillStation("#originBtn, input[id^='originInput']", iata, "origin")
}

// SetDestination types the IATA code into the destination field and picks
// the first suggestion.
func (s *Search) SetDestination(iata string) error {
	return s.fillStation("#destinationBtn, input[id^='arrivalInput']", iata, "destination")
}

func (s *Search) fillStation(selector, iata, field string) error {
	s.log.Info("setting station", zap.String("field", field), zap.String("iata", iata))
	input := s.page.Locator(selector).First()
	if err := input.Click(); err != nil {
		return fmt.Errorf("%s field: %w", field, err)
	}
	box := s.page.Locator("input.control_field_input:visible").First()
	if err := box.Fill(iata); err != nil {
		return fmt.Errorf("%s input: %w", field, err)
	}
	s.page.WaitForTimeout(1000)
	suggestion := s.page.Locator(fmt.Sprintf("li.station-control-list_item:has-text(%q)", iata)).First()
	if err := clickSettled(s.page, suggestion, 800); err != nil {
		return fmt.Errorf("%s suggestion %s: %w", field, iata, err)
	}
	return nil
}

// SetDates picks departure (and return, when returnDays > 0) in the
// calendar, departureDays/returnDays days from today.
func (s *Search) SetDates(departureDays, returnDays int) error {
	depart := s.now().AddDate(0, 0, departureDays)
	if err := s.pickDay(depart); err != nil {
		return fmt.Errorf("departure date: %w", err)
	}
	if returnDays > 0 {
		ret := s.now().AddDate(0, 0, returnDays)
		if err := s.pickDay(ret); err != nil {
			return fmt.Errorf("return date: %w", err)
		}
	}
	return nil
}

func (s *Search) pickDay(day time.Time) error {
	s.log.Info("picking date", zap.String("date", day.Format("2006-01-02")))
	// The calendar marks each cell with the ISO date.
	cell := s.page.Locator(fmt.Sprintf("[data-date=%q]:not(.is-disabled)", day.Format("2006-01-02"))).First()
	visible, _ := cell.IsVisible()
	for i := 0; i < 12 && !visible; i++ {
		next := s.page.Locator("button.calendar_header_action--next, button[aria-label='Next month']").First()
		if err := next.Click(); err != nil {
			return fmt.Errorf("advance calendar: %w", err)
		}
		s.page.WaitForTimeout(300)
		visible, _ = cell.IsVisible()
	}
	if err := clickSettled(s.page, cell, 500); err != nil {
		return fmt.Errorf("day %s: %w", day.Format("2006-01-02"), err)
	}
	return nil
}

// SetPassengers sets the counts in the passenger popover. Each stepper
// starts at its form default (1 adult, 0 of everything else).
func (s *Search) SetPassengers(adults, teens, children, infants int) error {
	s.log.Info("setting passengers",
		zap.Int("adults", adults), zap.Int("teens", teens),
		zap.Int("children", children), zap.Int("infants", infants))
	if err := clickSettled(s.page, s.page.Locator("#paxControlSearchId").First(), 800); err != nil {
		return fmt.Errorf("open passenger popover: %w", err)
	}
	steppers := map[string]int{
		"Adult":  adults - 1, // one adult is pre-selected
		"Teen":   teens,
		"Child":  children,
		"Infant": infants,
	}
	for kind, clicks := range steppers {
		plus := s.page.Locator(fmt.Sprintf("button[aria-label='Add %s']", kind)).First()
		for i := 0; i < clicks; i++ {
			if err := plus.Click(); err != nil {
				return fmt.Errorf("add %s: %w", kind, err)
			}
			s.page.WaitForTimeout(200)
		}
	}
	confirm := s.page.Locator("button.control_options_selector_action_button").First()
	if err := clickSettled(s.page, confirm, 500); err != nil {
		return fmt.Errorf("confirm passengers: %w", err)
	}
	return nil
}

// Submit starts the search.
func (s *Search) Submit() error {
	s.log.Info("submitting search")
	btn := s.page.Locator("#searchButton, button.main-search_button").First()
	if err := clickSettled(s.page, btn, 3000); err != nil {
		return fmt.Errorf("search submit: %w", err)
	}
	return nil
}
