package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TriggerType identifies the payout trigger condition of a tranche.
type TriggerType uint8

const (
	TriggerPriceBelow TriggerType = 0
	TriggerPriceAbove TriggerType = 1
	TriggerRelative   TriggerType = 2
)

// Label returns the display label for the trigger type.
func (t TriggerType) Label() string {
	switch t {
	case TriggerPriceBelow:
		return "PRICE_BELOW"
	case TriggerPriceAbove:
		return "PRICE_ABOVE"
	case TriggerRelative:
		return "RELATIVE"
	default:
		return "Unknown"
	}
}

// ErrInvariant marks normalized data that violates a data-model invariant.
var ErrInvariant = fmt.Errorf("data-model invariant violated")

// Tranche is a risk-segmented offering within a product.
type Tranche struct {
	TrancheID       uint64          `json:"tranche_id"`
	ProductID       uint64          `json:"product_id"`
	TriggerType     TriggerType     `json:"trigger_type"`
	Threshold       decimal.Decimal `json:"threshold"`
	MaturitySeconds uint64          `json:"maturity_seconds"`
	PremiumRateBps  uint32          `json:"premium_rate_bps"`
	PerAccountMin   decimal.Decimal `json:"per_account_min"`
	PerAccountMax   decimal.Decimal `json:"per_account_max"`
	TrancheCap      decimal.Decimal `json:"tranche_cap"`
	OracleRouteID   uint64          `json:"oracle_route_id"`
	PoolAddress     string          `json:"pool_address"`
	Active          bool            `json:"active"`
	RoundIDs        []uint64        `json:"round_ids"`
}

// Validate checks the purchase-bound invariant: min <= max <= cap.
func (t Tranche) Validate() error {
	if t.PerAccountMin.GreaterThan(t.PerAccountMax) {
		return fmt.Errorf("%w: tranche %d per-account min %s > max %s",
			ErrInvariant, t.TrancheID, t.PerAccountMin, t.PerAccountMax)
	}
	if t.PerAccountMax.GreaterThan(t.TrancheCap) {
		return fmt.Errorf("%w: tranche %d per-account max %s > cap %s",
			ErrInvariant, t.TrancheID, t.PerAccountMax, t.TrancheCap)
	}
	if t.PremiumRateBps > 10000 {
		return fmt.Errorf("%w: tranche %d premium rate %d bps out of range",
			ErrInvariant, t.TrancheID, t.PremiumRateBps)
	}
	return nil
}

// LatestRoundID returns the most recent round id, or false when the tranche
// has no rounds yet.
func (t Tranche) LatestRoundID() (uint64, bool) {
	if len(t.RoundIDs) == 0 {
		return 0, false
	}
	return t.RoundIDs[len(t.RoundIDs)-1], true
}
