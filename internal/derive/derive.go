// Package derive computes the secondary attributes of an assembled snapshot.
// Every function here is pure, total, and free of I/O so the engine can be
// unit-tested without any network fakes.
package derive

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"trancheScope/internal/model"
)

var (
	hundred        = decimal.NewFromInt(100)
	bpsPerPercent  = decimal.NewFromInt(100)
	secondsPerYear = decimal.NewFromInt(365 * 24 * 3600)
	secondsPerDay  = int64(24 * 3600)
)

// RiskLevel classifies a tranche by trigger distance in basis points. The
// lower bound of each band is inclusive.
func RiskLevel(triggerBps int64) model.RiskLevel {
	switch {
	case triggerBps <= 500:
		return model.RiskLow
	case triggerBps <= 1000:
		return model.RiskMedium
	default:
		return model.RiskHigh
	}
}

// RiskLevelFromPercent classifies by trigger percentage (5% == 500 bps).
func RiskLevelFromPercent(triggerPct decimal.Decimal) model.RiskLevel {
	return RiskLevel(triggerPct.Mul(bpsPerPercent).IntPart())
}

// TriggerPercent computes the trigger distance from an explicit threshold and
// a live base price. For PRICE_BELOW the distance is the drop to the
// threshold, for PRICE_ABOVE the rise, both as positive percentages. A
// RELATIVE threshold is already a percentage and passes through. The second
// return is false when no percentage can be computed (zero base price or
// unknown trigger type).
func TriggerPercent(triggerType model.TriggerType, threshold, basePrice decimal.Decimal) (decimal.Decimal, bool) {
	switch triggerType {
	case model.TriggerRelative:
		return threshold, true
	case model.TriggerPriceBelow:
		if !basePrice.IsPositive() {
			return decimal.Zero, false
		}
		return basePrice.Sub(threshold).Div(basePrice).Mul(hundred), true
	case model.TriggerPriceAbove:
		if !basePrice.IsPositive() {
			return decimal.Zero, false
		}
		return threshold.Sub(basePrice).Div(basePrice).Mul(hundred), true
	default:
		return decimal.Zero, false
	}
}

// premiumBands maps premium-rate bands to approximate trigger percentages.
// This is a documented approximation for tranches whose oracle route has no
// live price; it is replaced by the explicit computation whenever a price is
// available. TODO: drop the table once the catalog exposes the trigger
// percentage directly.
var premiumBands = []struct {
	MaxPremiumBps uint32
	TriggerPct    int64
}{
	{200, 5},
	{500, 10},
	{1000, 15},
	{1500, 20},
}

const fallbackTriggerPct = 25

// TriggerPercentFromPremium approximates the trigger percentage from the
// premium rate using the band table above.
func TriggerPercentFromPremium(premiumBps uint32) decimal.Decimal {
	for _, band := range premiumBands {
		if premiumBps <= band.MaxPremiumBps {
			return decimal.NewFromInt(band.TriggerPct)
		}
	}
	return decimal.NewFromInt(fallbackTriggerPct)
}

// Utilization returns min(collateral/cap, 1) * 100. A zero or negative cap
// yields zero; the result is always within [0, 100].
func Utilization(totalSellerCollateral, trancheCap decimal.Decimal) decimal.Decimal {
	if !trancheCap.IsPositive() {
		return decimal.Zero
	}
	ratio := totalSellerCollateral.Div(trancheCap)
	if ratio.IsNegative() {
		return decimal.Zero
	}
	if ratio.GreaterThan(decimal.NewFromInt(1)) {
		ratio = decimal.NewFromInt(1)
	}
	return ratio.Mul(hundred)
}

// APYBreakdown reports the premium-derived and external staking components of
// the implied APY separately as well as combined.
type APYBreakdown struct {
	PremiumAPY decimal.Decimal `json:"premium_apy"`
	StakingAPY decimal.Decimal `json:"staking_apy"`
	TotalAPY   decimal.Decimal `json:"total_apy"`
}

// ImpliedAPY annualizes the premium rate over the maturity window and adds
// the configured external staking-yield estimate. Windows shorter than a day
// annualize from a one-day floor.
func ImpliedAPY(premiumBps uint32, maturitySeconds uint64, stakingYieldPct decimal.Decimal) APYBreakdown {
	window := int64(maturitySeconds)
	if window < secondsPerDay {
		window = secondsPerDay
	}
	premiumPct := decimal.NewFromInt(int64(premiumBps)).Div(bpsPerPercent)
	premiumAPY := premiumPct.Mul(secondsPerYear).Div(decimal.NewFromInt(window))
	return APYBreakdown{
		PremiumAPY: premiumAPY,
		StakingAPY: stakingYieldPct,
		TotalAPY:   premiumAPY.Add(stakingYieldPct),
	}
}

// DaysRemaining returns the whole days from now until the end timestamp,
// rounded up and never negative.
func DaysRemaining(endUnix uint64, now time.Time) int64 {
	remaining := int64(endUnix) - now.Unix()
	if remaining <= 0 {
		return 0
	}
	days := remaining / secondsPerDay
	if remaining%secondsPerDay != 0 {
		days++
	}
	return days
}

// TrancheName builds the display name from the trigger type and percentage.
func TrancheName(triggerType model.TriggerType, triggerPct decimal.Decimal) string {
	pct := triggerPct.Round(1).String()
	switch triggerType {
	case model.TriggerPriceBelow:
		return fmt.Sprintf("%s%% Drop Cover", pct)
	case model.TriggerPriceAbove:
		return fmt.Sprintf("%s%% Rise Cover", pct)
	case model.TriggerRelative:
		return fmt.Sprintf("%s%% Move Cover", pct)
	default:
		return fmt.Sprintf("%s%% Cover", pct)
	}
}
