package risk

import (
	"lendcore/internal/clock"
	"lendcore/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// score weights
var (
	weightOnTime    = decimal.RequireFromString("0.4")
	weightRepayment = decimal.RequireFromString("0.3")
	weightDefault   = decimal.RequireFromString("0.2")
	weightDelay     = decimal.RequireFromString("0.1")
)

// scorecard is the raw history a profile is computed from.
type scorecard struct {
	loansTaken     int
	loansCompleted int
	loansDefaulted int

	repaymentsTotal  int
	repaymentsOnTime int // settled in full on their due date
	repaymentsLate   int // settled in full after their due date
	repaymentsMissed int

	// whole-day delays of the late full settlements
	lateDelays []int
}

func buildScorecard(loans []models.Loan, insts []models.Installment) scorecard {
	var card scorecard
	card.loansTaken = len(loans)
	for _, l := range loans {
		switch l.Status {
		case models.LoanStatusClosed:
			card.loansCompleted++
		case models.LoanStatusDefaulted:
			card.loansDefaulted++
		}
	}
	card.repaymentsTotal = len(insts)
	for _, inst := range insts {
		switch inst.Status {
		case models.InstallmentPaid:
			card.repaymentsOnTime++
		case models.InstallmentPaidLate:
			card.repaymentsLate++
			if inst.PaidOn != nil {
				card.lateDelays = append(card.lateDelays,
					clock.DaysBetween(inst.DueDate, *inst.PaidOn))
			}
		case models.InstallmentMissed:
			card.repaymentsMissed++
		}
	}
	return card
}

// rate returns num/den as a percentage with 2 decimal places, zero
// when the denominator is zero.
func rate(num, den int) decimal.Decimal {
	if den == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(num)).
		Div(decimal.NewFromInt(int64(den))).
		Mul(hundred).
		Round(2)
}

// repaymentRate is taken over the successful-terminal set only: Paid
// and Paid_Late settlements count in both numerator and denominator,
// and partial or advance settlements never enter the rate. This
// mirrors the historical behavior exactly; do not "fix" it to
// include missed or partial installments.
func (c scorecard) repaymentRate() decimal.Decimal {
	settled := c.repaymentsOnTime + c.repaymentsLate
	return rate(settled, settled)
}

// onTimeRate is the on-time share of the same successful-terminal
// set.
func (c scorecard) onTimeRate() decimal.Decimal {
	return rate(c.repaymentsOnTime, c.repaymentsOnTime+c.repaymentsLate)
}

func (c scorecard) defaultRate() decimal.Decimal {
	return rate(c.loansDefaulted, c.loansTaken)
}

// averageDelayDays is the mean lateness of late-paid installments,
// zero when there are none.
func (c scorecard) averageDelayDays() decimal.Decimal {
	if len(c.lateDelays) == 0 {
		return decimal.Zero
	}
	sum := 0
	for _, d := range c.lateDelays {
		sum += d
	}
	return decimal.NewFromInt(int64(sum)).
		Div(decimal.NewFromInt(int64(len(c.lateDelays)))).
		Round(2)
}

// computeScore folds the rates into a single 0-100 score:
// 0.4*onTime + 0.3*repayment + 0.2*(100-default) + 0.1*(100-delay),
// rounded and clamped.
func computeScore(onTime, repayment, defaulted, delay decimal.Decimal) int {
	weighted := onTime.Mul(weightOnTime).
		Add(repayment.Mul(weightRepayment)).
		Add(hundred.Sub(defaulted).Mul(weightDefault)).
		Add(hundred.Sub(delay).Mul(weightDelay))

	score := int(weighted.Round(0).IntPart())
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// tierFor classifies a score against an issuer's cutoffs.
func tierFor(score int, th *models.RiskThreshold) string {
	low, moderate := models.DefaultLowCutoff, models.DefaultModerateCutoff
	if th != nil {
		low, moderate = th.Low, th.Moderate
	}
	switch {
	case score >= low:
		return models.RiskTierLow
	case score >= moderate:
		return models.RiskTierModerate
	default:
		return models.RiskTierHigh
	}
}
