package scenarios

import (
	"context"
	"fmt"

	"avqa/internal/capture"
	"avqa/internal/pages"
	"avqa/internal/runner"
)

// LoginNetworkCapture runs a round-trip search while the network listener
// records session API traffic, then checks the captured session payload
// carries the journey fields the downstream steps depend on.
func LoginNetworkCapture(ctx context.Context, rc *runner.RunContext) (runner.Outcome, error) {
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
	if err := search.SetOrigin(free.Origin); err != nil {
		return runner.Outcome{}, err
	}
	if err := search.SetDestination(free.Destination); err != nil {
		return runner.Outcome{}, err
	}
	if err := search.SetDates(free.DepartureDays, free.ReturnDays); err != nil {
		return runner.Outcome{}, err
	}
	if err := search.SetPassengers(3, 3, 3, 0); err != nil {
		return runner.Outcome{}, err
	}
	if err := search.Submit(); err != nil {
		return runner.Outcome{}, err
	}

	flights := pages.NewSelectFlight(rc.Page, rc.Log)
	if err := flights.WaitLoaded(); err != nil {
		return runner.Outcome{}, err
	}
	if err := flights.SelectOutbound(pages.FareFlex); err != nil {
		return runner.Outcome{}, err
	}
	if err := flights.SelectReturn(pages.FareFlex); err != nil {
		return runner.Outcome{}, err
	}

	if rc.Capture == nil {
		return runner.Outcome{}, fmt.Errorf("network capture not attached")
	}
	sum := rc.Capture.Summarize()
	if !sum.HasSessionData {
		return runner.Outcome{
			Expected: "session response with body captured",
			Actual:   fmt.Sprintf("%d responses, %d session events", sum.TotalResponses, sum.SessionEvents),
			FinalURL: rc.Page.URL(),
			Message:  "no session API response observed",
		}, fmt.Errorf("no session response captured")
	}
	fields, err := capture.ExtractSessionFields(rc.Capture.FirstSessionBody())
	if err != nil {
		return runner.Outcome{}, fmt.Errorf("session payload: %w", err)
	}
	if len(fields.Journeys) == 0 {
		return runner.Outcome{}, fmt.Errorf("session payload has no journeys")
	}
	for i, j := range fields.Journeys {
		if j.OpeningCheckInDate == "" || j.ClosingCheckInDate == "" {
			return runner.Outcome{}, fmt.Errorf("journey %d missing check-in window", i)
		}
	}

	// With an OpenAPI document loaded, every captured session response
	// must also satisfy the contract.
	if rc.Contract != nil {
		for _, ev := range rc.Capture.Events() {
			if len(ev.Body) == 0 {
				continue
			}
			hdr := make(map[string][]string, len(ev.Headers))
			for k, v := range ev.Headers {
				hdr[k] = []string{v}
			}
			if err := rc.Contract.ValidateResponse(ctx, ev.Method, ev.URL, ev.Status, hdr, ev.Body); err != nil {
				return runner.Outcome{}, fmt.Errorf("contract: %w", err)
			}
		}
	}

	final := rc.Page.URL()
	return runner.Outcome{
		Expected: "session payload with journeys",
		Actual:   fmt.Sprintf("%d journeys, %d session events", len(fields.Journeys), sum.SessionEvents),
		FinalURL: final,
		Message:  fmt.Sprintf("captured %d responses", sum.TotalResponses),
	}, nil
}
