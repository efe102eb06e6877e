package model

import "github.com/shopspring/decimal"

// RoundState is the on-chain lifecycle state of a round. The chain is
// authoritative; this layer only labels the integer it reads.
type RoundState uint8

const (
	RoundAnnounced RoundState = 0
	RoundOpen      RoundState = 1
	RoundMatched   RoundState = 2
	RoundActive    RoundState = 3
	RoundMatured   RoundState = 4
	RoundSettled   RoundState = 5
	RoundCanceled  RoundState = 6
)

// Label returns the display label for the state. Out-of-range values map to
// "Unknown" instead of failing.
func (s RoundState) Label() string {
	switch s {
	case RoundAnnounced:
		return "ANNOUNCED"
	case RoundOpen:
		return "OPEN"
	case RoundMatched:
		return "MATCHED"
	case RoundActive:
		return "ACTIVE"
	case RoundMatured:
		return "MATURED"
	case RoundSettled:
		return "SETTLED"
	case RoundCanceled:
		return "CANCELED"
	default:
		return "Unknown"
	}
}

// Known reports whether the state is one of the seven defined values.
func (s RoundState) Known() bool {
	return s <= RoundCanceled
}

// Terminal reports whether the round can no longer transition.
func (s RoundState) Terminal() bool {
	return s == RoundSettled || s == RoundCanceled
}

// Round is one time-boxed sales/coverage cycle for a tranche.
type Round struct {
	RoundID             uint64          `json:"round_id"`
	TrancheID           uint64          `json:"tranche_id"`
	State               RoundState      `json:"state"`
	StateLabel          string          `json:"state_label"`
	StartTime           uint64          `json:"start_time"`
	EndTime             uint64          `json:"end_time"`
	MaturityTime        uint64          `json:"maturity_time"`
	TotalBuyerPurchases decimal.Decimal `json:"total_buyer_purchases"`
	TotalSellerDeposits decimal.Decimal `json:"total_seller_deposits"`
	MatchedAmount       decimal.Decimal `json:"matched_amount"`
	TriggerOccurred     bool            `json:"trigger_occurred"`
	SettledTime         uint64          `json:"settled_time"`
}
