// Package capture records the browser's network responses during a run and
// pulls the booking session payload out of them. The session endpoint
// carries the check-in windows, fare codes, and segment schedule the login
// scenario asserts on.
package capture

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// Event is one retained network response.
type Event struct {
	URL       string            `json:"url"`
	Method    string            `json:"method"`
	Status    int               `json:"status"`
	MimeType  string            `json:"mime_type,omitempty"`
	Headers   map[string]string `json:"headers,omitempty"`
	Body      json.RawMessage   `json:"body,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// Summary aggregates a capture window.
type Summary struct {
	TotalResponses int  `json:"total_responses"`
	SessionEvents  int  `json:"session_events"`
	HasSessionData bool `json:"has_session_data"`
}

// IsSessionResponse reports whether a response belongs to the booking
// session exchange: the URL names session, or a header name or value does.
func IsSessionResponse(url string, headers map[string]string) bool {
	if strings.Contains(strings.ToLower(url), "session") {
		return true
	}
	for name, value := range headers {
		if strings.Contains(strings.ToLower(name), "session") ||
			strings.Contains(strings.ToLower(value), "session") {
			return true
		}
	}
	return false
}

// Capture listens on a page and retains session responses. Total response
// counts are kept; non-session bodies are not.
type Capture struct {
	log *zap.Logger

	mu     sync.Mutex
	total  int
	events []Event
}

func New(log *zap.Logger) *Capture {
	if log == nil {
		log = zap.NewNop()
	}
	return &Capture{log: log.With(zap.String("component", "capture"))}
}

// Attach registers the response listener. Call before navigating.
func (c *Capture) Attach(page playwright.Page) {
	page.OnResponse(func(resp playwright.Response) {
		c.mu.Lock()
		c.total++
		c.mu.Unlock()

		headers := resp.Headers()
		if !IsSessionResponse(resp.URL(), headers) {
			return
		}
		ev := Event{
			URL:       resp.URL(),
			Method:    resp.Request().Method(),
			Status:    resp.Status(),
			MimeType:  headers["content-type"],
			Headers:   headers,
			Timestamp: time.Now(),
		}
		if body, err := resp.Text(); err == nil && json.Valid([]byte(body)) {
			ev.Body = json.RawMessage(body)
		}
		c.mu.Lock()
		c.events = append(c.events, ev)
		c.mu.Unlock()
		c.log.Info("session response captured",
			zap.String("url", ev.URL), zap.Int("status", ev.Status))
	})
}

// Events returns the retained session responses.
func (c *Capture) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// FirstSessionBody returns the body of the first session response that
// carried JSON, or nil.
func (c *Capture) FirstSessionBody() json.RawMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ev := range c.events {
		if len(ev.Body) > 0 {
			return ev.Body
		}
	}
	return nil
}

// Summarize returns the capture counters.
func (c *Capture) Summarize() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Summary{
		TotalResponses: c.total,
		SessionEvents:  len(c.events),
		HasSessionData: len(c.events) > 0,
	}
}

// SaveEvents writes the retained events as indented JSON.
func (c *Capture) SaveEvents(path string) error {
	b, err := json.MarshalIndent(c.Events(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode events: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write events: %w", err)
	}
	c.log.Info("network events saved", zap.String("path", path))
	return nil
}

// ---- session payload extraction ----

// Fare is one fare row inside a journey.
type Fare struct {
	PaxCode      string `json:"paxCode"`
	ID           string `json:"id"`
	ProductClass string `json:"productClass"`
}

// Segment is one flight segment inside a journey.
type Segment struct {
	ETD    string `json:"etd"`
	Status string `json:"status"`
	STD    string `json:"std"`
}

// Journey groups the session fields the login scenario validates.
type Journey struct {
	OpeningCheckInDate string    `json:"openingCheckInDate"`
	ClosingCheckInDate string    `json:"closingCheckInDate"`
	Fares              []Fare    `json:"fares"`
	Segments           []Segment `json:"segments"`
}

// SessionFields is the extracted subset of the session payload.
type SessionFields struct {
	Journeys []Journey `json:"journeys"`
}

// ExtractSessionFields pulls the journeys array out of a free-form session
// payload. The array may sit at any nesting depth.
func ExtractSessionFields(body []byte) (*SessionFields, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode session payload: %w", err)
	}
	raw := findJourneys(doc)
	if raw == nil {
		return nil, fmt.Errorf("session payload has no journeys")
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("re-encode journeys: %w", err)
	}
	var journeys []Journey
	if err := json.Unmarshal(b, &journeys); err != nil {
		return nil, fmt.Errorf("decode journeys: %w", err)
	}
	return &SessionFields{Journeys: journeys}, nil
}

func findJourneys(doc any) any {
	switch v := doc.(type) {
	case map[string]any:
		if j, ok := v["journeys"]; ok {
			if _, isList := j.([]any); isList {
				return j
			}
		}
		for _, child := range v {
			if found := findJourneys(child); found != nil {
				return found
			}
		}
	case []any:
		for _, child := range v {
			if found := findJourneys(child); found != nil {
				return found
			}
		}
	}
	return nil
}
