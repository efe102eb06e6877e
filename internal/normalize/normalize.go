// Package normalize converts raw on-chain tuples into the semantic data
// model. Each field gets the decimal shift its encoding demands: 6 decimals
// for stable-asset amounts, 8 for oracle prices, 18 for thresholds and
// pool shares. There is no single global constant on purpose.
package normalize

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"trancheScope/internal/insurance"
	"trancheScope/internal/model"
)

const (
	AmountDecimals = 6
	PriceDecimals  = 8
	ShareDecimals  = 18
)

// Amount shifts a raw integer amount by the given number of decimals.
// A nil value normalizes to zero.
func Amount(value *big.Int, decimals int32) decimal.Decimal {
	if value == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(value, -decimals)
}

// Product converts a raw product record.
func Product(raw insurance.RawProduct) model.Product {
	trancheIDs := make([]uint64, len(raw.TrancheIDs))
	copy(trancheIDs, raw.TrancheIDs)
	return model.Product{
		ProductID:    raw.ProductID,
		MetadataHash: raw.MetadataHash,
		Active:       raw.Active,
		CreatedAt:    raw.CreatedAt,
		UpdatedAt:    raw.UpdatedAt,
		TrancheIDs:   trancheIDs,
	}
}

// Tranche converts a raw tranche spec and enforces the purchase-bound
// invariant. A violating tranche is returned alongside the error so callers
// can log what was excluded.
func Tranche(raw insurance.RawTranche) (model.Tranche, error) {
	triggerType := model.TriggerType(raw.TriggerType)
	if triggerType.Label() == "Unknown" {
		return model.Tranche{}, fmt.Errorf("%w: tranche %d trigger type %d out of range",
			model.ErrInvariant, raw.TrancheID, raw.TriggerType)
	}

	roundIDs := make([]uint64, len(raw.RoundIDs))
	copy(roundIDs, raw.RoundIDs)

	tranche := model.Tranche{
		TrancheID:       raw.TrancheID,
		ProductID:       raw.ProductID,
		TriggerType:     triggerType,
		Threshold:       Amount(raw.Threshold, ShareDecimals),
		MaturitySeconds: raw.MaturityTimestamp,
		PremiumRateBps:  uint32(raw.PremiumRateBps),
		PerAccountMin:   Amount(raw.PerAccountMin, AmountDecimals),
		PerAccountMax:   Amount(raw.PerAccountMax, AmountDecimals),
		TrancheCap:      Amount(raw.TrancheCap, AmountDecimals),
		OracleRouteID:   raw.OracleRouteID,
		PoolAddress:     raw.PoolAddress,
		Active:          raw.Active,
		RoundIDs:        roundIDs,
	}
	if err := tranche.Validate(); err != nil {
		return tranche, err
	}
	return tranche, nil
}

// Round converts a raw round record. Out-of-range states keep their integer
// value and label as "Unknown"; no transition is ever inferred locally.
func Round(roundID, trancheID uint64, raw insurance.RawRound) model.Round {
	state := model.RoundState(raw.State)
	return model.Round{
		RoundID:             roundID,
		TrancheID:           trancheID,
		State:               state,
		StateLabel:          state.Label(),
		StartTime:           raw.StartTime,
		EndTime:             raw.EndTime,
		MaturityTime:        raw.MaturityTime,
		TotalBuyerPurchases: Amount(raw.TotalBuyerPurchases, AmountDecimals),
		TotalSellerDeposits: Amount(raw.TotalSellerDeposits, AmountDecimals),
		MatchedAmount:       Amount(raw.MatchedAmount, AmountDecimals),
		TriggerOccurred:     raw.TriggerOccurred,
		SettledTime:         raw.SettledTime,
	}
}

// PoolAccounting converts a raw accounting snapshot. NavPerShare is
// 18-decimal; everything else 6.
func PoolAccounting(raw insurance.RawPoolAccounting) model.PoolAccounting {
	return model.PoolAccounting{
		PoolAddress:    raw.PoolAddress,
		TotalAssets:    Amount(raw.TotalAssets, AmountDecimals),
		TotalShares:    Amount(raw.TotalShares, ShareDecimals),
		LockedAssets:   Amount(raw.LockedAssets, AmountDecimals),
		PremiumReserve: Amount(raw.PremiumReserve, AmountDecimals),
		NavPerShare:    Amount(raw.NavPerShare, ShareDecimals),
	}
}

// Price converts a raw oracle observation (8-decimal).
func Price(raw insurance.RawPrice) model.OraclePrice {
	return model.OraclePrice{
		RouteID:   raw.RouteID,
		Price:     Amount(raw.Price, PriceDecimals),
		Timestamp: raw.Timestamp,
	}
}
