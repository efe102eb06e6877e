package derive

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"trancheScope/internal/model"
)

func TestRiskLevelBoundaries(t *testing.T) {
	cases := []struct {
		bps  int64
		want model.RiskLevel
	}{
		{0, model.RiskLow},
		{500, model.RiskLow},
		{501, model.RiskMedium},
		{1000, model.RiskMedium},
		{1001, model.RiskHigh},
		{2500, model.RiskHigh},
	}

	for _, tc := range cases {
		if got := RiskLevel(tc.bps); got != tc.want {
			t.Fatalf("RiskLevel(%d) = %s, want %s", tc.bps, got, tc.want)
		}
	}
}

func TestRiskLevelFromPercent(t *testing.T) {
	if got := RiskLevelFromPercent(decimal.NewFromInt(5)); got != model.RiskLow {
		t.Fatalf("5%% should be LOW, got %s", got)
	}
	if got := RiskLevelFromPercent(decimal.NewFromInt(10)); got != model.RiskMedium {
		t.Fatalf("10%% should be MEDIUM, got %s", got)
	}
	if got := RiskLevelFromPercent(decimal.NewFromInt(15)); got != model.RiskHigh {
		t.Fatalf("15%% should be HIGH, got %s", got)
	}
}

func TestTriggerPercentExplicit(t *testing.T) {
	base := decimal.NewFromInt(100)

	pct, ok := TriggerPercent(model.TriggerPriceBelow, decimal.NewFromInt(95), base)
	if !ok || !pct.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("below trigger: got %s ok=%v, want 5", pct, ok)
	}

	pct, ok = TriggerPercent(model.TriggerPriceAbove, decimal.NewFromInt(110), base)
	if !ok || !pct.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("above trigger: got %s ok=%v, want 10", pct, ok)
	}

	relative := decimal.NewFromInt(12)
	pct, ok = TriggerPercent(model.TriggerRelative, relative, decimal.Zero)
	if !ok || !pct.Equal(relative) {
		t.Fatalf("relative trigger: got %s ok=%v, want 12", pct, ok)
	}

	if _, ok := TriggerPercent(model.TriggerPriceBelow, decimal.NewFromInt(95), decimal.Zero); ok {
		t.Fatalf("zero base price must not produce a percentage")
	}
	if _, ok := TriggerPercent(model.TriggerType(9), decimal.NewFromInt(95), base); ok {
		t.Fatalf("unknown trigger type must not produce a percentage")
	}
}

func TestTriggerPercentFromPremiumBands(t *testing.T) {
	cases := []struct {
		premiumBps uint32
		want       int64
	}{
		{0, 5},
		{200, 5},
		{201, 10},
		{500, 10},
		{1000, 15},
		{1500, 20},
		{1501, 25},
		{9000, 25},
	}

	for _, tc := range cases {
		got := TriggerPercentFromPremium(tc.premiumBps)
		if !got.Equal(decimal.NewFromInt(tc.want)) {
			t.Fatalf("TriggerPercentFromPremium(%d) = %s, want %d", tc.premiumBps, got, tc.want)
		}
	}
}

func TestUtilization(t *testing.T) {
	got := Utilization(decimal.NewFromInt(40000), decimal.NewFromInt(100000))
	if !got.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("utilization = %s, want 40", got)
	}

	if got := Utilization(decimal.NewFromInt(40000), decimal.Zero); !got.IsZero() {
		t.Fatalf("zero cap must yield zero utilization, got %s", got)
	}

	got = Utilization(decimal.NewFromInt(250000), decimal.NewFromInt(100000))
	if !got.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("utilization must clamp at 100, got %s", got)
	}

	if got := Utilization(decimal.NewFromInt(-5), decimal.NewFromInt(100)); !got.IsZero() {
		t.Fatalf("negative collateral must clamp at 0, got %s", got)
	}
}

func TestDaysRemaining(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	if got := DaysRemaining(1_700_000_000-1, now); got != 0 {
		t.Fatalf("past end must be 0 days, got %d", got)
	}
	if got := DaysRemaining(1_700_000_000, now); got != 0 {
		t.Fatalf("end == now must be 0 days, got %d", got)
	}
	if got := DaysRemaining(1_700_000_000+1, now); got != 1 {
		t.Fatalf("one second left must round up to 1 day, got %d", got)
	}
	if got := DaysRemaining(1_700_000_000+86400, now); got != 1 {
		t.Fatalf("exactly one day left must be 1, got %d", got)
	}
	if got := DaysRemaining(1_700_000_000+86401, now); got != 2 {
		t.Fatalf("one day and a second must round up to 2, got %d", got)
	}
}

func TestImpliedAPY(t *testing.T) {
	// 2% premium over a 30-day window, 3% staking estimate.
	apy := ImpliedAPY(200, 30*24*3600, decimal.NewFromInt(3))

	wantPremium := decimal.NewFromInt(2).Mul(decimal.NewFromInt(365)).Div(decimal.NewFromInt(30))
	if !apy.PremiumAPY.Equal(wantPremium) {
		t.Fatalf("premium APY = %s, want %s", apy.PremiumAPY, wantPremium)
	}
	if !apy.StakingAPY.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("staking APY = %s, want 3", apy.StakingAPY)
	}
	if !apy.TotalAPY.Equal(wantPremium.Add(decimal.NewFromInt(3))) {
		t.Fatalf("total APY = %s, want premium+staking", apy.TotalAPY)
	}
}

func TestImpliedAPYWindowFloor(t *testing.T) {
	short := ImpliedAPY(100, 60, decimal.Zero)
	day := ImpliedAPY(100, 24*3600, decimal.Zero)
	if !short.PremiumAPY.Equal(day.PremiumAPY) {
		t.Fatalf("sub-day windows must annualize from a one-day floor: %s != %s", short.PremiumAPY, day.PremiumAPY)
	}
}

func TestTrancheName(t *testing.T) {
	pct := decimal.NewFromInt(10)
	if got := TrancheName(model.TriggerPriceBelow, pct); got != "10% Drop Cover" {
		t.Fatalf("unexpected name %q", got)
	}
	if got := TrancheName(model.TriggerPriceAbove, pct); got != "10% Rise Cover" {
		t.Fatalf("unexpected name %q", got)
	}
	if got := TrancheName(model.TriggerRelative, pct); got != "10% Move Cover" {
		t.Fatalf("unexpected name %q", got)
	}
}

func TestDecorateFallsBackWithoutPrice(t *testing.T) {
	tranche := model.Tranche{
		TrancheID:       1,
		TriggerType:     model.TriggerPriceBelow,
		Threshold:       decimal.NewFromInt(95),
		PremiumRateBps:  200,
		MaturitySeconds: 30 * 24 * 3600,
		TrancheCap:      decimal.NewFromInt(100000),
	}
	round := model.Round{
		EndTime:             uint64(time.Now().Add(48 * time.Hour).Unix()),
		TotalSellerDeposits: decimal.NewFromInt(40000),
	}

	derived := Decorate(tranche, &round, nil, decimal.Zero, time.Now())
	if derived.TriggerPercentSource != model.TriggerSourcePremiumBand {
		t.Fatalf("expected premium-band source, got %s", derived.TriggerPercentSource)
	}
	if !derived.TriggerPercent.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected 5%% band trigger, got %s", derived.TriggerPercent)
	}
	if derived.RiskLevel != model.RiskLow {
		t.Fatalf("expected LOW risk, got %s", derived.RiskLevel)
	}
	if !derived.Utilization.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("expected 40 utilization, got %s", derived.Utilization)
	}

	price := model.OraclePrice{Price: decimal.NewFromInt(100)}
	derived = Decorate(tranche, &round, &price, decimal.Zero, time.Now())
	if derived.TriggerPercentSource != model.TriggerSourceOracle {
		t.Fatalf("expected oracle source with live price, got %s", derived.TriggerPercentSource)
	}
	if !derived.TriggerPercent.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected 5%% explicit trigger, got %s", derived.TriggerPercent)
	}
}
