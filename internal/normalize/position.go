package normalize

import (
	"github.com/shopspring/decimal"

	"trancheScope/internal/insurance"
	"trancheScope/internal/model"
)

var bpsDenominator = decimal.NewFromInt(10000)

// InsurancePosition builds the insurance variant of a user position from a
// buyer order and the round it belongs to. The round may be nil when its
// lookup failed; status then stays "active" as the conservative default.
func InsurancePosition(owner string, raw insurance.RawBuyerOrder, round *model.Round) model.UserPosition {
	pos := model.UserPosition{
		Type:        model.PositionInsurance,
		Owner:       owner,
		TrancheID:   raw.TrancheID,
		RoundID:     raw.RoundID,
		Status:      model.PositionActive,
		Coverage:    Amount(raw.Purchase, AmountDecimals),
		PremiumPaid: Amount(raw.PremiumPaid, AmountDecimals),
	}
	if round == nil {
		return pos
	}

	pos.RoundState = round.State
	switch {
	case round.State == model.RoundSettled && round.TriggerOccurred:
		pos.Status = model.PositionClaimable
		pos.ClaimAmount = pos.Coverage
	case round.State.Terminal():
		pos.Status = model.PositionExpired
	}
	return pos
}

// LiquidityPosition builds the liquidity variant from a seller deposit, the
// round it belongs to, and the owning tranche. Earned premium is the
// deposit's pro-rata share of the round's collected premium; current value is
// the minted shares at the pool's nav-per-share.
func LiquidityPosition(owner string, raw insurance.RawSellerDeposit, round *model.Round, tranche *model.Tranche, navPerShare decimal.Decimal) model.UserPosition {
	pos := model.UserPosition{
		Type:         model.PositionLiquidity,
		Owner:        owner,
		TrancheID:    raw.TrancheID,
		RoundID:      raw.RoundID,
		Status:       model.PositionActive,
		Deposit:      Amount(raw.Collateral, AmountDecimals),
		SharesMinted: Amount(raw.SharesMinted, ShareDecimals),
	}
	pos.CurrentValue = pos.SharesMinted.Mul(navPerShare)

	if round != nil && tranche != nil && round.TotalSellerDeposits.IsPositive() {
		premiumCollected := round.TotalBuyerPurchases.
			Mul(decimal.NewFromInt(int64(tranche.PremiumRateBps))).
			Div(bpsDenominator)
		pos.EarnedPremium = premiumCollected.
			Mul(pos.Deposit).
			Div(round.TotalSellerDeposits)
	}

	if round == nil {
		return pos
	}
	pos.RoundState = round.State
	switch {
	case round.State == model.RoundMatured:
		pos.Status = model.PositionSettlement
	case round.State.Terminal():
		pos.Status = model.PositionCompleted
	}
	return pos
}
