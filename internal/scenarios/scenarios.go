// Package scenarios implements the end-to-end cases against the booking
// site. Each case is registered under its id; the runner dispatches one
// execution per resolved combination.
package scenarios

import (
	"fmt"

	"avqa/internal/pages"
	"avqa/internal/runner"
)

// Registry maps case ids to their scenario implementations.
func Registry() map[string]runner.Scenario {
	return map[string]runner.Scenario{
		"case_1": OneWayBooking,
		"case_2": RoundTripBooking,
		"case_3": LoginNetworkCapture,
		"case_4": LanguageChange,
		"case_5": POSChange,
		"case_6": HeaderRedirections,
		"case_7": FooterRedirections,
	}
}

func freeOrDefault(free runner.FreeParams) runner.FreeParams {
	if free.Origin == "" {
		free.Origin = "BOG"
	}
	if free.Destination == "" {
		free.Destination = "MDE"
	}
	if free.DepartureDays == 0 {
		free.DepartureDays = 7
	}
	if free.ReturnDays == 0 {
		free.ReturnDays = 14
	}
	return free
}

// loadPassengers pulls the travellers for a case from the testdata store,
// falling back to a fixed fake set when the store has none. Fake data is
// fine on the QA environments.
func loadPassengers(rc *runner.RunContext) []pages.Passenger {
	fallback := []pages.Passenger{
		{FirstName: "Juan", LastName: "Perez", Gender: "M", Email: "juan.perez@test.com", Phone: "3001234567"},
		{FirstName: "Maria", LastName: "Gomez", Gender: "F"},
		{FirstName: "Pedro", LastName: "Rodriguez", Gender: "M"},
	}
	if rc.Data == nil {
		return fallback
	}
	var out []pages.Passenger
	for _, kind := range []string{"adult", "teen", "child"} {
		m, err := rc.Data.Passenger(rc.Combo.CaseID, kind)
		if err != nil || m == nil {
			return fallback
		}
		out = append(out, pages.Passenger{
			FirstName: m["first_name"],
			LastName:  m["last_name"],
			Gender:    m["gender"],
			Email:     m["email"],
			Phone:     m["phone"],
		})
	}
	return out
}

func loadPayment(rc *runner.RunContext) (pages.Card, pages.Billing) {
	card := pages.Card{
		Number:      "4111111111111111",
		Holder:      "JUAN PEREZ TEST",
		ExpiryMonth: "12",
		ExpiryYear:  "2028",
		CVV:         "123",
	}
	billing := pages.Billing{
		Email:   "test@example.com",
		Address: "Calle 123 45-67",
		City:    "Bogota",
		Country: "Colombia",
	}
	if rc.Data == nil {
		return card, billing
	}
	if m, err := rc.Data.Payment(rc.Combo.CaseID); err == nil && m != nil {
		card = pages.Card{
			Number:      m["card_number"],
			Holder:      m["card_holder"],
			ExpiryMonth: m["expiry_month"],
			ExpiryYear:  m["expiry_year"],
			CVV:         m["cvv"],
		}
	}
	if m, err := rc.Data.Billing(rc.Combo.CaseID); err == nil && m != nil {
		billing = pages.Billing{
			Email:   m["email"],
			Address: m["address"],
			City:    m["city"],
			Country: m["country"],
		}
	}
	return card, billing
}

// expectedHomeText resolves the offers-label translation for a language.
func expectedHomeText(rc *runner.RunContext, language string) (string, error) {
	set, err := rc.Catalog.Options("language")
	if err != nil {
		return "", err
	}
	opt := set.Match(language)
	if opt == nil {
		return "", fmt.Errorf("language %q not in catalog", language)
	}
	return opt.ExpectedTextHome, nil
}
