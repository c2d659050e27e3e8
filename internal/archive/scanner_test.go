package archive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"month day year", "October 14, 2026", day(14)},
		{"day month year", "14 October 2026", day(14)},
		{"full weekday, month first", "Thursday, October 01, 2009", time.Date(2009, time.October, 1, 0, 0, 0, 0, time.UTC)},
		{"full weekday, day first", "Sunday, 14 October 2026", day(14)},
		{"short weekday", "Wed, 14 Oct 2026", day(14)},
		{"iso", "2026-10-14", day(14)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in, time.UTC)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestParseDateRejectsNonDates(t *testing.T) {
	for _, in := range []string{"1234", "alice", "October 2026", "", "Fix 3 crashes"} {
		_, err := ParseDate(in, time.UTC)
		assert.Error(t, err, in)
	}
}

func TestStepSettlesItemWithoutAuthor(t *testing.T) {
	s := NewState(day(1), time.UTC)

	var out Outcome
	for _, ev := range []Event{
		{Kind: OpenListItem},
		{Kind: OpenAnchor},
		{Kind: Text, Text: "[gtk+] Fix"},
		{Kind: CloseAnchor},
	} {
		s, out, _ = Step(s, ev)
		assert.Equal(t, None, out)
	}

	s, out, _ = Step(s, Event{Kind: CloseListItem})
	assert.Equal(t, Missed, out)
	assert.Equal(t, Outside, s.Mode)
	assert.Empty(t, s.Subject)

	_, out, _ = Step(s, Event{Kind: CloseListItem})
	assert.Equal(t, None, out, "a second close changes nothing")
}

func TestStepBoldNonDate(t *testing.T) {
	s := NewState(day(3), time.UTC)
	s, _, _ = Step(s, Event{Kind: OpenStrong})

	s, out, u := Step(s, Event{Kind: Text, Text: "1234"})
	assert.Equal(t, BadDate, out)
	assert.Equal(t, "1234", u.Subject)
	assert.Equal(t, day(3), s.Date)
}
