package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	// RewardThreshold is the number of points unlocking a reward
	RewardThreshold = 20
	// CycleLengthDays is the length of the eligibility window
	CycleLengthDays = 30
)

// closure reasons
const (
	ClosureRewardRedeemed = "reward_redeemed"
	ClosureCycleExpired   = "cycle_expired"
)

// LoyaltyAccount is one customer's points cycle, keyed by phone number
type LoyaltyAccount struct {
	PhoneNumber       string
	CustomerName      string
	PointsAccumulated int
	CycleStartedAt    time.Time
	LastPurchaseAt    time.Time
}

// Expiration is the state of an account cycle at a given moment
type Expiration struct {
	IsExpired      bool
	HasReward      bool
	DaysRemaining  int
	CycleStartedAt time.Time
	CycleLimitDate time.Time
}

// CycleLimitDate returns the last moment the cycle is still open
func (a LoyaltyAccount) CycleLimitDate() time.Time {
	return a.CycleStartedAt.AddDate(0, 0, CycleLengthDays)
}

// IsExpired reports whether now is strictly past the cycle limit date
func (a LoyaltyAccount) IsExpired(now time.Time) bool {
	return now.After(a.CycleLimitDate())
}

// HasReward reports whether the account may redeem a reward at now
func (a LoyaltyAccount) HasReward(now time.Time) bool {
	return a.PointsAccumulated >= RewardThreshold && !a.IsExpired(now)
}

// Expiration computes the cycle state at now.
// Days remaining are rounded up and never negative.
func (a LoyaltyAccount) Expiration(now time.Time) Expiration {
	limit := a.CycleLimitDate()

	days := 0
	if left := limit.Sub(now); left > 0 {
		days = int((left + 24*time.Hour - 1) / (24 * time.Hour))
	}

	return Expiration{
		IsExpired:      a.IsExpired(now),
		HasReward:      a.HasReward(now),
		DaysRemaining:  days,
		CycleStartedAt: a.CycleStartedAt,
		CycleLimitDate: limit,
	}
}

// CheckClose returns ErrNotEligible if the account can't be closed for reason at now
func (a LoyaltyAccount) CheckClose(reason string, now time.Time) error {
	switch reason {
	case ClosureRewardRedeemed:
		if !a.HasReward(now) {
			return ErrNotEligible
		}
	case ClosureCycleExpired:
		if !a.IsExpired(now) {
			return ErrNotEligible
		}
	default:
		return ErrNotEligible
	}
	return nil
}

// AccountClosure is an audit record of a deleted loyalty account
type AccountClosure struct {
	ID             uuid.UUID
	PhoneNumber    string
	CustomerName   string
	Reason         string
	PointsAtClose  int
	CycleStartedAt time.Time
	ClosedAt       time.Time
}

// AccountStatus is an account with its cycle state
type AccountStatus struct {
	Account    LoyaltyAccount
	Expiration Expiration
}
