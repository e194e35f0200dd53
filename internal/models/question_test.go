package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseAnswerKey(t *testing.T) {
	tests := []struct {
		raw  string
		want AnswerKey
	}{
		{"A", "A"},
		{"CA", "AC"},
		{"A,C", "AC"},
		{"C A", "AC"},
		{"AAB", "AB"},
		{"", ""},
		{"  ", ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ParseAnswerKey(tc.raw), "raw=%q", tc.raw)
	}
}

func TestAnswerKeyMatches(t *testing.T) {
	key := ParseAnswerKey("AC")

	assert.True(t, key.Matches("AC"))
	assert.True(t, key.Matches("CA"))
	assert.False(t, key.Matches("A"))
	assert.False(t, key.Matches("ABC"))
	assert.False(t, key.Matches("ac"))
	assert.False(t, key.Matches(""))
}

func TestExamScheduleWindow(t *testing.T) {
	now := time.Now()
	hour := time.Hour

	open := &Exam{}
	assert.True(t, open.InScheduleWindow(now))
	assert.False(t, open.IsUpcoming(now))
	assert.False(t, open.IsExpired(now))

	start := now.Add(hour)
	end := now.Add(2 * hour)
	upcoming := &Exam{StartDate: &start, EndDate: &end}
	assert.True(t, upcoming.IsUpcoming(now))
	assert.False(t, upcoming.InScheduleWindow(now))

	pastStart := now.Add(-2 * hour)
	pastEnd := now.Add(-hour)
	expired := &Exam{StartDate: &pastStart, EndDate: &pastEnd}
	assert.True(t, expired.IsExpired(now))
	assert.False(t, expired.InScheduleWindow(now))

	live := &Exam{StartDate: &pastStart, EndDate: &end}
	assert.True(t, live.InScheduleWindow(now))
}
