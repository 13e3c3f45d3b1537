package schedule

import (
	"testing"
	"time"

	"lendcore/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// monday
var start = time.Date(2025, 3, 3, 10, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestGenerate_SumEqualsBalance(t *testing.T) {
	drafts, err := Generate(Params{
		Balance:        dec("1000.00"),
		DailyAmount:    dec("50.00"),
		CollectionDays: models.Weekdays{"monday", "wednesday", "friday"},
		StartDate:      start,
	})
	require.NoError(t, err)
	require.NotEmpty(t, drafts)

	assert.True(t, Total(drafts).Equal(dec("1000.00")),
		"schedule total %s should equal balance", Total(drafts))
}

func TestGenerate_DueDatesMatchCollectionDays(t *testing.T) {
	days := models.Weekdays{"tuesday", "thursday"}
	drafts, err := Generate(Params{
		Balance:        dec("900.00"),
		DailyAmount:    dec("30.00"),
		CollectionDays: days,
		StartDate:      start,
	})
	require.NoError(t, err)

	for _, d := range drafts {
		assert.True(t, days.Contains(d.DueDate.Weekday()),
			"due date %s falls on %s, not a collection day", d.DueDate, d.DueDate.Weekday())
	}
	// first installment falls strictly after the start date
	assert.True(t, drafts[0].DueDate.After(start.Truncate(24*time.Hour)))
}

func TestGenerate_RedistributesWeeklyTarget(t *testing.T) {
	// 50/day quoted, two active days: each installment carries
	// (50*6)/2 = 150 until the balance runs short.
	drafts, err := Generate(Params{
		Balance:        dec("400.00"),
		DailyAmount:    dec("50.00"),
		CollectionDays: models.Weekdays{"monday", "thursday"},
		StartDate:      start,
	})
	require.NoError(t, err)
	require.Len(t, drafts, 3)

	assert.True(t, drafts[0].Amount.Equal(dec("150.00")))
	assert.True(t, drafts[1].Amount.Equal(dec("150.00")))
	// final installment absorbs only the remainder
	assert.True(t, drafts[2].Amount.Equal(dec("100.00")))
}

func TestGenerate_MigratedModeUsesDailyAmountDirectly(t *testing.T) {
	drafts, err := Generate(Params{
		Balance:        dec("120.00"),
		DailyAmount:    dec("40.00"),
		CollectionDays: models.Weekdays{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday"},
		StartDate:      start,
		Migrated:       true,
	})
	require.NoError(t, err)
	require.Len(t, drafts, 3)
	for _, d := range drafts {
		assert.True(t, d.Amount.Equal(dec("40.00")))
	}
}

func TestGenerate_EmptyDaysRejected(t *testing.T) {
	_, err := Generate(Params{
		Balance:     dec("100.00"),
		DailyAmount: dec("10.00"),
		StartDate:   start,
	})
	assert.ErrorIs(t, err, ErrEmptyScheduleDays)
}

func TestGenerate_NonPositiveAmountsRejected(t *testing.T) {
	_, err := Generate(Params{
		Balance:        decimal.Zero,
		DailyAmount:    dec("10.00"),
		CollectionDays: models.Weekdays{"monday"},
		StartDate:      start,
	})
	assert.ErrorIs(t, err, ErrNonPositiveAmount)

	_, err = Generate(Params{
		Balance:        dec("100.00"),
		DailyAmount:    dec("-1"),
		CollectionDays: models.Weekdays{"monday"},
		StartDate:      start,
	})
	assert.ErrorIs(t, err, ErrNonPositiveAmount)
}

func TestGenerate_UnknownWeekdayRejected(t *testing.T) {
	_, err := Generate(Params{
		Balance:        dec("100.00"),
		DailyAmount:    dec("10.00"),
		CollectionDays: models.Weekdays{"funday"},
		StartDate:      start,
	})
	assert.Error(t, err)
}

func TestGenerate_DueDateIsLastInstallment(t *testing.T) {
	drafts, err := Generate(Params{
		Balance:        dec("300.00"),
		DailyAmount:    dec("50.00"),
		CollectionDays: models.Weekdays{"friday"},
		StartDate:      start,
	})
	require.NoError(t, err)
	last := drafts[len(drafts)-1]
	for _, d := range drafts {
		assert.False(t, d.DueDate.After(last.DueDate))
	}
}
