// Package schedule turns a loan balance and a weekly collection-day
// pattern into an ordered sequence of installment drafts.
package schedule

import (
	"time"

	"lendcore/internal/clock"
	"lendcore/internal/models"

	"github.com/shopspring/decimal"
)

// collection weeks target six working days regardless of how many
// weekdays the borrower actually picked
var weeklyDays = decimal.NewFromInt(6)

// Draft is one not-yet-persisted installment.
type Draft struct {
	DueDate time.Time
	Amount  decimal.Decimal
}

// Params drives one schedule generation.
type Params struct {
	// Balance is the amount the schedule must repay in full: the
	// principal for new loans, the remaining pending amount for
	// migrated ones.
	Balance decimal.Decimal
	// DailyAmount is the borrower's quoted per-day repayment.
	DailyAmount decimal.Decimal
	// CollectionDays is the weekly repayment-day pattern.
	CollectionDays models.Weekdays
	// StartDate is the issue date; the first installment falls on the
	// first matching weekday strictly after it.
	StartDate time.Time
	// Migrated selects the backfill mode: the daily amount is taken
	// as-is instead of being redistributed across the chosen days.
	Migrated bool
}

// Generate walks calendar days forward from the day after StartDate,
// emitting one draft on each collection day until the balance is
// exhausted. The last draft's due date is the loan's due date.
func Generate(p Params) ([]Draft, error) {
	days, err := p.CollectionDays.Normalize()
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, ErrEmptyScheduleDays
	}
	if !p.Balance.IsPositive() || !p.DailyAmount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}

	perDay := p.DailyAmount
	if !p.Migrated {
		// Fixed weekly target redistributed across the chosen days:
		// fewer active weekdays means a larger slice on each.
		perDay = p.DailyAmount.Mul(weeklyDays).
			Div(decimal.NewFromInt(int64(len(days)))).
			Round(2)
	}

	var drafts []Draft
	remaining := p.Balance
	day := clock.DateOf(p.StartDate)
	for remaining.IsPositive() {
		day = day.AddDate(0, 0, 1)
		if !days.Contains(day.Weekday()) {
			continue
		}
		amount := decimal.Min(perDay, remaining)
		drafts = append(drafts, Draft{DueDate: day, Amount: amount})
		remaining = remaining.Sub(amount)
	}
	return drafts, nil
}

// Total sums the drafted amounts; it always equals the balance the
// schedule was generated for.
func Total(drafts []Draft) decimal.Decimal {
	total := decimal.Zero
	for _, d := range drafts {
		total = total.Add(d.Amount)
	}
	return total
}
