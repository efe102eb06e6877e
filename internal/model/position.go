package model

import "github.com/shopspring/decimal"

// PositionType discriminates the two position variants. Every consumer must
// switch on it; there is no inheritance between the variants.
type PositionType string

const (
	PositionInsurance PositionType = "insurance"
	PositionLiquidity PositionType = "liquidity"
)

// PositionStatus is the display status of a position.
type PositionStatus string

const (
	// Insurance variant.
	PositionActive    PositionStatus = "active"
	PositionClaimable PositionStatus = "claimable"
	PositionExpired   PositionStatus = "expired"
	// Liquidity variant.
	PositionSettlement PositionStatus = "settlement"
	PositionCompleted  PositionStatus = "completed"
)

// UserPosition is a tagged union over the insurance and liquidity variants.
// Coverage/PremiumPaid/ClaimAmount are set for insurance positions;
// Deposit/SharesMinted/EarnedPremium/CurrentValue for liquidity positions.
type UserPosition struct {
	Type       PositionType   `json:"type"`
	Owner      string         `json:"owner"`
	TrancheID  uint64         `json:"tranche_id"`
	RoundID    uint64         `json:"round_id"`
	RoundState RoundState     `json:"round_state"`
	Status     PositionStatus `json:"status"`

	Coverage    decimal.Decimal `json:"coverage,omitempty"`
	PremiumPaid decimal.Decimal `json:"premium_paid,omitempty"`
	ClaimAmount decimal.Decimal `json:"claim_amount,omitempty"`

	Deposit       decimal.Decimal `json:"deposit,omitempty"`
	SharesMinted  decimal.Decimal `json:"shares_minted,omitempty"`
	EarnedPremium decimal.Decimal `json:"earned_premium,omitempty"`
	CurrentValue  decimal.Decimal `json:"current_value,omitempty"`
}
