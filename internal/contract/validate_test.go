package contract_test

import (
	"context"
	"strings"
	"testing"

	"avqa/internal/contract"
)

const sessionSpec = `
openapi: 3.0.3
info: { title: Session API, version: "1.0.0" }
paths:
  /api/session:
    get:
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: object
                properties:
                  journeys:
                    type: array
                    items:
                      type: object
                      properties:
                        openingCheckInDate: { type: string }
                        closingCheckInDate: { type: string }
                      required: [openingCheckInDate, closingCheckInDate]
                required: [journeys]
`

const validBody = `{"journeys": [{"openingCheckInDate": "2026-09-01T06:00:00", "closingCheckInDate": "2026-09-08T05:00:00"}]}`

func jsonHeader() map[string][]string {
	return map[string][]string{"Content-Type": {"application/json"}}
}

func TestValidateResponse_OK(t *testing.T) {
	v, err := contract.LoadFromBytes([]byte(sessionSpec))
	if err != nil {
		t.Fatalf("load openapi: %v", err)
	}

	err = v.ValidateResponse(context.Background(),
		"GET", "https://nuxqa4.avtest.ink/api/session", 200, jsonHeader(), []byte(validBody))
	if err != nil {
		t.Fatalf("ValidateResponse: %v", err)
	}
}

func TestValidateResponse_MissingRequiredField(t *testing.T) {
	v, err := contract.LoadFromBytes([]byte(sessionSpec))
	if err != nil {
		t.Fatalf("load openapi: %v", err)
	}

	bad := `{"journeys": [{"openingCheckInDate": "2026-09-01T06:00:00"}]}`
	err = v.ValidateResponse(context.Background(),
		"GET", "https://nuxqa4.avtest.ink/api/session", 200, jsonHeader(), []byte(bad))
	if err == nil {
		t.Fatal("expected validation error for missing closingCheckInDate")
	}
	if !strings.Contains(err.Error(), "/api/session") {
		t.Fatalf("error should name the operation, got: %v", err)
	}
}

func TestValidateResponse_UnknownRoute(t *testing.T) {
	v, err := contract.LoadFromBytes([]byte(sessionSpec))
	if err != nil {
		t.Fatalf("load openapi: %v", err)
	}

	err = v.ValidateResponse(context.Background(),
		"GET", "https://nuxqa4.avtest.ink/api/flights", 200, jsonHeader(), []byte(`{}`))
	if err == nil {
		t.Fatal("expected error for route outside the contract")
	}
}

func TestValidateResponse_UndeclaredStatus(t *testing.T) {
	v, err := contract.LoadFromBytes([]byte(sessionSpec))
	if err != nil {
		t.Fatalf("load openapi: %v", err)
	}

	err = v.ValidateResponse(context.Background(),
		"GET", "https://nuxqa4.avtest.ink/api/session", 500, jsonHeader(), []byte(`{}`))
	if err == nil {
		t.Fatal("expected error for undeclared status code")
	}
}
