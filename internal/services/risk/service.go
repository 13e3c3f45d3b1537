// Package risk scores borrower repayment behavior. A profile is
// recomputed from full history on every evaluation and replaced
// wholesale; it may run concurrently with collections since a stale
// score is acceptable and never corrupt.
package risk

import (
	"context"
	"errors"
	"log"

	"lendcore/internal/clock"
	"lendcore/internal/models"
	"lendcore/internal/repositories"
	"lendcore/internal/repositories/cache"
)

// Service evaluates borrower risk.
type Service struct {
	store repositories.DataStore
	cache *cache.Service
	clk   clock.Clock
}

// NewService creates a risk service. Cache is optional.
func NewService(store repositories.DataStore, cacheSvc *cache.Service, clk clock.Clock) *Service {
	if store == nil {
		panic("store is required")
	}
	if clk == nil {
		clk = clock.System()
	}
	return &Service{store: store, cache: cacheSvc, clk: clk}
}

// Evaluate recomputes and upserts the risk profile of each borrower.
// Borrowers with no loan history are skipped silently; scoring a
// borrower we know nothing about would only fabricate a number.
func (s *Service) Evaluate(ctx context.Context, borrowerIDs []uint) error {
	for _, id := range borrowerIDs {
		if err := s.evaluateOne(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) evaluateOne(ctx context.Context, borrowerID uint) error {
	loans, err := s.store.LoansByBorrower(ctx, borrowerID)
	if err != nil {
		return err
	}
	if len(loans) == 0 {
		return nil
	}
	insts, err := s.store.InstallmentsByBorrower(ctx, borrowerID)
	if err != nil {
		return err
	}

	card := buildScorecard(loans, insts)
	onTime := card.onTimeRate()
	repayment := card.repaymentRate()
	defaulted := card.defaultRate()
	delay := card.averageDelayDays()
	score := computeScore(onTime, repayment, defaulted, delay)

	// Tier cutoffs come from the issuer of the most recent loan;
	// borrowers without a configured issuer fall back to defaults.
	th, err := s.store.GetRiskThreshold(ctx, loans[len(loans)-1].IssuerID)
	if err != nil && !errors.Is(err, repositories.ErrThresholdNotFound) {
		return err
	}

	profile := &models.RiskProfile{
		BorrowerID:       borrowerID,
		LoansTaken:       card.loansTaken,
		LoansCompleted:   card.loansCompleted,
		LoansDefaulted:   card.loansDefaulted,
		RepaymentsTotal:  card.repaymentsTotal,
		RepaymentsOnTime: card.repaymentsOnTime,
		RepaymentsLate:   card.repaymentsLate,
		RepaymentsMissed: card.repaymentsMissed,
		RepaymentRate:    repayment,
		OnTimeRate:       onTime,
		DefaultRate:      defaulted,
		AverageDelayDays: delay,
		Score:            score,
		Tier:             tierFor(score, th),
		EvaluatedAt:      s.clk.Now(),
	}
	if err := s.store.UpsertRiskProfile(ctx, profile); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.CacheRiskProfile(ctx, profile); err != nil {
			log.Printf("failed to cache risk profile for borrower %d: %v", borrowerID, err)
		}
	}
	return nil
}

// Profile returns a borrower's current risk profile, reading through
// the cache when one is configured.
func (s *Service) Profile(ctx context.Context, borrowerID uint) (*models.RiskProfile, error) {
	if s.cache != nil {
		if p, err := s.cache.GetRiskProfile(ctx, borrowerID); err == nil {
			return p, nil
		}
	}
	p, err := s.store.GetRiskProfile(ctx, borrowerID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.CacheRiskProfile(ctx, p); err != nil {
			log.Printf("failed to cache risk profile for borrower %d: %v", borrowerID, err)
		}
	}
	return p, nil
}

// SetThresholds overrides an issuer's tier cutoffs. Nil fields keep
// the current (or default) value.
func (s *Service) SetThresholds(ctx context.Context, issuerID uint, low, moderate *int) error {
	if _, err := s.store.GetIssuer(ctx, issuerID); err != nil {
		return err
	}

	th, err := s.store.GetRiskThreshold(ctx, issuerID)
	if errors.Is(err, repositories.ErrThresholdNotFound) {
		th = &models.RiskThreshold{
			IssuerID: issuerID,
			Low:      models.DefaultLowCutoff,
			Moderate: models.DefaultModerateCutoff,
		}
	} else if err != nil {
		return err
	}

	if low != nil {
		th.Low = *low
	}
	if moderate != nil {
		th.Moderate = *moderate
	}
	if th.Low < th.Moderate {
		return ErrInvertedThresholds
	}
	if th.Low > 100 || th.Moderate < 0 {
		return ErrThresholdOutOfRange
	}
	return s.store.UpsertRiskThreshold(ctx, th)
}
