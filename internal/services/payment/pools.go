package payment

import (
	"sort"
	"time"

	"lendcore/internal/clock"
	"lendcore/internal/models"
)

// poolRule is one step of the allocation priority order: which open
// installments it claims, how ties break inside it, and which status
// an installment lands in when fully or partially settled from it.
type poolRule struct {
	name    string
	match   func(inst *models.Installment, today time.Time) bool
	less    func(a, b *models.Installment) bool
	settled func(inst *models.Installment, today time.Time) string
	partial func(inst *models.Installment, today time.Time) string
}

func byDueDateAsc(a, b *models.Installment) bool {
	return a.DueDate.Before(b.DueDate)
}

// allocationPools is the strict priority order: today's due first,
// then the missed/pending backlog oldest-first, then future
// installments nearest-first. Keeping the rules in one slice keeps
// the tie-breaks auditable.
var allocationPools = []poolRule{
	{
		name: "today",
		match: func(inst *models.Installment, today time.Time) bool {
			if !clock.SameDay(inst.DueDate, today) {
				return false
			}
			return inst.Status == models.InstallmentUnpaid ||
				inst.Status == models.InstallmentPaidPartial
		},
		less: byDueDateAsc,
		settled: func(inst *models.Installment, today time.Time) string {
			return models.InstallmentPaid
		},
		partial: func(inst *models.Installment, today time.Time) string {
			return models.InstallmentPaidPartial
		},
	},
	{
		name: "missed",
		match: func(inst *models.Installment, today time.Time) bool {
			return inst.Status == models.InstallmentMissed ||
				inst.Status == models.InstallmentPaidPartialLate ||
				inst.Pending
		},
		less: byDueDateAsc,
		settled: func(inst *models.Installment, today time.Time) string {
			if clock.DateOf(inst.DueDate).Before(clock.DateOf(today)) {
				return models.InstallmentPaidLate
			}
			return models.InstallmentPaidAdvance
		},
		partial: func(inst *models.Installment, today time.Time) string {
			if clock.DateOf(inst.DueDate).Before(clock.DateOf(today)) {
				return models.InstallmentPaidPartialLate
			}
			return models.InstallmentPaidPartial
		},
	},
	{
		name: "future",
		match: func(inst *models.Installment, today time.Time) bool {
			if !inst.DueDate.After(clock.DateOf(today)) {
				return false
			}
			return inst.Status == models.InstallmentUnpaid ||
				inst.Status == models.InstallmentPaidPartialAdvance
		},
		less: byDueDateAsc,
		settled: func(inst *models.Installment, today time.Time) string {
			return models.InstallmentPaidAdvance
		},
		partial: func(inst *models.Installment, today time.Time) string {
			return models.InstallmentPaidPartialAdvance
		},
	},
}

// poolCandidates returns the rule's matching installments in its
// visit order, skipping installments already claimed by an earlier
// pool and anything with nothing left to pay.
func poolCandidates(rule poolRule, insts []*models.Installment, claimed map[uint]bool, today time.Time) []*models.Installment {
	var out []*models.Installment
	for _, inst := range insts {
		if claimed[inst.ID] || !inst.Outstanding().IsPositive() {
			continue
		}
		if rule.match(inst, today) {
			out = append(out, inst)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return rule.less(out[i], out[j]) })
	return out
}
