package muse_test

import (
	"testing"
	"time"

	"github.com/musehabit/muse"
	"github.com/stretchr/testify/assert"
)

func TestSameDay(t *testing.T) {
	assert := assert.New(t)

	morning := time.Date(2024, 3, 8, 0, 1, 0, 0, time.UTC)
	night := time.Date(2024, 3, 8, 23, 59, 0, 0, time.UTC)
	assert.True(muse.SameDay(morning, night))

	nextMidnight := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	assert.False(muse.SameDay(night, nextMidnight))

	yearApart := time.Date(2023, 3, 8, 12, 0, 0, 0, time.UTC)
	assert.False(muse.SameDay(morning, yearApart))
}

func TestDaysBetween(t *testing.T) {
	assert := assert.New(t)

	noon := time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC)
	assert.Equal(0, muse.DaysBetween(noon, noon))
	assert.Equal(0, muse.DaysBetween(noon, noon.Add(23*time.Hour)))
	assert.Equal(1, muse.DaysBetween(noon, noon.Add(24*time.Hour)))
	assert.Equal(1, muse.DaysBetween(noon, noon.Add(47*time.Hour)))
	assert.Equal(2, muse.DaysBetween(noon, noon.Add(48*time.Hour)))

	// Rounded down, so "to" before "from" goes negative immediately.
	assert.Equal(-1, muse.DaysBetween(noon, noon.Add(-time.Hour)))
}
