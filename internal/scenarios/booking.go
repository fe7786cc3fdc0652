package scenarios

import (
	"context"
	"fmt"

	"avqa/internal/pages"
	"avqa/internal/runner"
)

// OneWayBooking drives a full one-way purchase flow: search, basic fare,
// passenger details, services skipped, seat assignment and payment form
// submission. The run passes once the browser lands on the payment
// confirmation surface.
func OneWayBooking(ctx context.Context, rc *runner.RunContext) (runner.Outcome, error) {
	return bookingFlow(ctx, rc, false)
}

// RoundTripBooking repeats the purchase flow with a return leg, picking
// the flexible fare on both journeys.
func RoundTripBooking(ctx context.Context, rc *runner.RunContext) (runner.Outcome, error) {
	return bookingFlow(ctx, rc, true)
}

func bookingFlow(ctx context.Context, rc *runner.RunContext, roundTrip bool) (runner.Outcome, error) {
	free := freeOrDefault(rc.Free)
	home := pages.NewHome(rc.Page, rc.Log)
	if err := home.Open(rc.Combo.BaseURL); err != nil {
		return runner.Outcome{}, err
	}
	if rc.Combo.Language != "" {
		if err := home.SelectLanguage(rc.Combo.Language); err != nil {
			return runner.Outcome{}, err
		}
	}

	search := pages.NewSearch(rc.Page, rc.Log)
	if !roundTrip {
		if err := search.SelectOneWay(); err != nil {
			return runner.Outcome{}, err
		}
	}
	if err := search.SetOrigin(free.Origin); err != nil {
		return runner.Outcome{}, err
	}
	if err := search.SetDestination(free.Destination); err != nil {
		return runner.Outcome{}, err
	}
	returnDays := 0
	if roundTrip {
		returnDays = free.ReturnDays
	}
	if err := search.SetDates(free.DepartureDays, returnDays); err != nil {
		return runner.Outcome{}, err
	}
	if err := search.SetPassengers(1, 1, 1, 0); err != nil {
		return runner.Outcome{}, err
	}
	if err := search.Submit(); err != nil {
		return runner.Outcome{}, err
	}

	fare := pages.FareBasic
	if roundTrip {
		fare = pages.FareFlex
	}
	flights := pages.NewSelectFlight(rc.Page, rc.Log)
	if err := flights.WaitLoaded(); err != nil {
		return runner.Outcome{}, err
	}
	if err := flights.SelectOutbound(fare); err != nil {
		return runner.Outcome{}, err
	}
	if roundTrip {
		if err := flights.SelectReturn(pages.FareFlex); err != nil {
			return runner.Outcome{}, err
		}
	}
	if err := flights.Continue(); err != nil {
		return runner.Outcome{}, err
	}

	pax := pages.NewPassengers(rc.Page, rc.Log)
	if err := pax.WaitLoaded(); err != nil {
		return runner.Outcome{}, err
	}
	if err := pax.FillAll(loadPassengers(rc)); err != nil {
		return runner.Outcome{}, err
	}
	if err := pax.Continue(); err != nil {
		return runner.Outcome{}, err
	}

	services := pages.NewServices(rc.Page, rc.Log)
	if err := services.WaitLoaded(); err != nil {
		return runner.Outcome{}, err
	}
	// The round trip adds one ancillary service; the one-way moves straight on.
	if roundTrip {
		if err := services.SelectFirstAvailable(); err != nil {
			return runner.Outcome{}, err
		}
	}
	if err := services.SkipAll(); err != nil {
		return runner.Outcome{}, err
	}

	seatmap := pages.NewSeatmap(rc.Page, rc.Log)
	if err := seatmap.WaitLoaded(); err != nil {
		return runner.Outcome{}, err
	}
	seats, err := seatmap.AssignSeats(3)
	if err != nil {
		return runner.Outcome{}, err
	}
	if err := seatmap.Continue(); err != nil {
		return runner.Outcome{}, err
	}

	payment := pages.NewPayment(rc.Page, rc.Log)
	if err := payment.WaitLoaded(); err != nil {
		return runner.Outcome{}, err
	}
	card, billing := loadPayment(rc)
	if err := payment.FillCard(card); err != nil {
		return runner.Outcome{}, err
	}
	if err := payment.FillBilling(billing); err != nil {
		return runner.Outcome{}, err
	}
	payment.AcceptTerms()

	final := rc.Page.URL()
	if !payment.AtPaymentPage() {
		return runner.Outcome{
			Expected: "payment page reached",
			Actual:   final,
			FinalURL: final,
			Message:  "booking flow did not reach the payment step",
		}, fmt.Errorf("final url %q is not a payment page", final)
	}
	return runner.Outcome{
		Expected: "payment page reached",
		Actual:   final,
		FinalURL: final,
		Message:  fmt.Sprintf("seats assigned: %v", seats),
	}, nil
}
