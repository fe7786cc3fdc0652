package evidence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"a<b>[c]", "a_b_c_"},
		{`Case6[credits-qa4]`, "Case6_credits-qa4_"},
		{"plain_name.png", "plain_name.png"},
		{`a/b\c:d"e`, "a_b_c_d_e"},
		{"many***stars", "many_stars"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SanitizeFilename(tc.in), "input %q", tc.in)
	}
}

func TestShouldCapture(t *testing.T) {
	assert.True(t, ShouldCapture(ScreenshotsAll, false))
	assert.True(t, ShouldCapture(ScreenshotsAll, true))
	assert.False(t, ShouldCapture(ScreenshotsOnFailure, false))
	assert.True(t, ShouldCapture(ScreenshotsOnFailure, true))
	assert.False(t, ShouldCapture(ScreenshotsNone, true))
	assert.False(t, ShouldCapture("", true))
}
