package derive

import (
	"time"

	"github.com/shopspring/decimal"

	"trancheScope/internal/model"
)

// Decorate computes the full derived block for one tranche view. round and
// price may be nil when the matching branch failed or does not apply; the
// derivation degrades field by field rather than bailing out.
func Decorate(tranche model.Tranche, round *model.Round, price *model.OraclePrice, stakingYieldPct decimal.Decimal, now time.Time) *model.Derived {
	derived := &model.Derived{}

	triggerPct, source := triggerPercent(tranche, price)
	derived.TriggerPercent = triggerPct
	derived.TriggerPercentSource = source
	derived.RiskLevel = RiskLevelFromPercent(triggerPct)
	derived.DisplayName = TrancheName(tranche.TriggerType, triggerPct)

	if round != nil {
		derived.Utilization = Utilization(round.TotalSellerDeposits, tranche.TrancheCap)
		derived.DaysRemaining = DaysRemaining(round.EndTime, now)
	}

	apy := ImpliedAPY(tranche.PremiumRateBps, tranche.MaturitySeconds, stakingYieldPct)
	derived.PremiumAPY = apy.PremiumAPY
	derived.StakingAPY = apy.StakingAPY
	derived.TotalAPY = apy.TotalAPY

	return derived
}

func triggerPercent(tranche model.Tranche, price *model.OraclePrice) (decimal.Decimal, string) {
	if price != nil {
		if pct, ok := TriggerPercent(tranche.TriggerType, tranche.Threshold, price.Price); ok {
			return pct, model.TriggerSourceOracle
		}
	}
	return TriggerPercentFromPremium(tranche.PremiumRateBps), model.TriggerSourcePremiumBand
}
