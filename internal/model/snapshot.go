package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RiskLevel classifies a tranche by trigger distance.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// TriggerPercentSource records how the trigger percentage was obtained.
const (
	TriggerSourceOracle      = "oracle"
	TriggerSourcePremiumBand = "premium_band"
)

// Derived holds the secondary attributes computed from a tranche and its
// current round. All fields are recomputed on every refresh.
type Derived struct {
	RiskLevel            RiskLevel       `json:"risk_level"`
	TriggerPercent       decimal.Decimal `json:"trigger_percent"`
	TriggerPercentSource string          `json:"trigger_percent_source"`
	Utilization          decimal.Decimal `json:"utilization"`
	PremiumAPY           decimal.Decimal `json:"premium_apy"`
	StakingAPY           decimal.Decimal `json:"staking_apy"`
	TotalAPY             decimal.Decimal `json:"total_apy"`
	DaysRemaining        int64           `json:"days_remaining"`
	DisplayName          string          `json:"display_name"`
}

// BranchError marks a sub-fetch that failed after its retry budget. The
// owning tranche view is kept in the snapshot with the fields that did
// resolve.
type BranchError struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// TrancheView is a tranche decorated with its current round, pool accounting,
// and derived attributes. Round, Pool, and Derived are nil when the matching
// branch failed or does not apply (a tranche with no rounds has no round).
type TrancheView struct {
	Tranche Tranche         `json:"tranche"`
	Round   *Round          `json:"round,omitempty"`
	Pool    *PoolAccounting `json:"pool,omitempty"`
	Derived *Derived        `json:"derived,omitempty"`
	Err     *BranchError    `json:"error,omitempty"`
}

// AssembledProduct is the fully merged read-model for one product. It is a
// disposable projection: a refresh builds a new value, never mutates an old
// one.
type AssembledProduct struct {
	ChainID   uint64        `json:"chain_id"`
	Product   Product       `json:"product"`
	Tranches  []TrancheView `json:"tranches"`
	FetchedAt time.Time     `json:"fetched_at"`
}

// Degraded reports whether any branch of the snapshot carries an error
// marker.
func (s AssembledProduct) Degraded() bool {
	for _, tv := range s.Tranches {
		if tv.Err != nil {
			return true
		}
	}
	return false
}
