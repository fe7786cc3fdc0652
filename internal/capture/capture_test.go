package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSessionResponse(t *testing.T) {
	assert.True(t, IsSessionResponse("https://qa/api/Session/Get", nil))
	assert.True(t, IsSessionResponse("https://qa/api/booking", map[string]string{
		"x-session-token": "abc",
	}))
	assert.True(t, IsSessionResponse("https://qa/api/booking", map[string]string{
		"set-cookie": "SESSIONID=xyz",
	}))
	assert.False(t, IsSessionResponse("https://qa/api/flights", map[string]string{
		"content-type": "application/json",
	}))
}

const sessionPayload = `{
  "data": {
    "booking": {
      "journeys": [
        {
          "openingCheckInDate": "2026-09-01T06:00:00",
          "closingCheckInDate": "2026-09-08T05:00:00",
          "fares": [
            {"paxCode": "ADT", "id": "FARE-1-ADT", "productClass": "F"},
            {"paxCode": "CHD", "id": "FARE-1-CHD", "productClass": "F"}
          ],
          "segments": [
            {"etd": "2026-09-08T07:30:00", "status": "Confirmed", "std": "2026-09-08T07:00:00"}
          ]
        }
      ]
    }
  }
}`

func TestExtractSessionFields(t *testing.T) {
	fields, err := ExtractSessionFields([]byte(sessionPayload))
	require.NoError(t, err)
	require.Len(t, fields.Journeys, 1)

	j := fields.Journeys[0]
	assert.Equal(t, "2026-09-01T06:00:00", j.OpeningCheckInDate)
	assert.Equal(t, "2026-09-08T05:00:00", j.ClosingCheckInDate)
	require.Len(t, j.Fares, 2)
	assert.Equal(t, "ADT", j.Fares[0].PaxCode)
	assert.Equal(t, "F", j.Fares[0].ProductClass)
	require.Len(t, j.Segments, 1)
	assert.Equal(t, "Confirmed", j.Segments[0].Status)
}

func TestExtractSessionFieldsMissingJourneys(t *testing.T) {
	_, err := ExtractSessionFields([]byte(`{"data": {}}`))
	require.Error(t, err)
}

func TestExtractSessionFieldsBadJSON(t *testing.T) {
	_, err := ExtractSessionFields([]byte(`not json`))
	require.Error(t, err)
}

func TestSummarizeEmpty(t *testing.T) {
	c := New(nil)
	s := c.Summarize()
	assert.Equal(t, 0, s.TotalResponses)
	assert.False(t, s.HasSessionData)
}
