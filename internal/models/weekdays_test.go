package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdaysNormalize(t *testing.T) {
	days, err := Weekdays{"Monday", "FRIDAY", "monday"}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, Weekdays{"monday", "friday"}, days)
}

func TestWeekdaysNormalize_Unknown(t *testing.T) {
	_, err := Weekdays{"monday", "someday"}.Normalize()
	assert.Error(t, err)
}

func TestWeekdaysContains(t *testing.T) {
	days := Weekdays{"tuesday", "thursday"}
	assert.True(t, days.Contains(time.Tuesday))
	assert.False(t, days.Contains(time.Sunday))
}
