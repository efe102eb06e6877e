package normalize

import (
	"errors"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"

	"trancheScope/internal/insurance"
	"trancheScope/internal/model"
)

func TestAmountShifts(t *testing.T) {
	cases := []struct {
		raw      int64
		decimals int32
		want     string
	}{
		{1_500_000, AmountDecimals, "1.5"},
		{40_000_000_000, AmountDecimals, "40000"},
		{2_000_050_000, PriceDecimals, "20.0005"},
		{1_000_000_000_000_000_000, ShareDecimals, "1"},
		{0, AmountDecimals, "0"},
	}

	for _, tc := range cases {
		got := Amount(big.NewInt(tc.raw), tc.decimals)
		if got.String() != tc.want {
			t.Fatalf("Amount(%d, %d) = %s, want %s", tc.raw, tc.decimals, got, tc.want)
		}
	}

	if got := Amount(nil, AmountDecimals); !got.IsZero() {
		t.Fatalf("nil amount must normalize to zero, got %s", got)
	}
}

func validRawTranche() insurance.RawTranche {
	return insurance.RawTranche{
		TrancheID:         7,
		ProductID:         3,
		TriggerType:       0,
		Threshold:         new(big.Int).Mul(big.NewInt(95), big.NewInt(1e18)),
		MaturityTimestamp: 30 * 24 * 3600,
		PremiumRateBps:    200,
		PerAccountMin:     big.NewInt(100_000_000),
		PerAccountMax:     big.NewInt(5_000_000_000),
		TrancheCap:        big.NewInt(100_000_000_000),
		OracleRouteID:     11,
		PoolAddress:       "0x00000000000000000000000000000000000000aa",
		Active:            true,
		RoundIDs:          []uint64{1, 2, 3},
	}
}

func TestTranche(t *testing.T) {
	tranche, err := Tranche(validRawTranche())
	if err != nil {
		t.Fatalf("valid tranche rejected: %v", err)
	}
	if tranche.TriggerType != model.TriggerPriceBelow {
		t.Fatalf("trigger type = %d", tranche.TriggerType)
	}
	if !tranche.Threshold.Equal(decimal.NewFromInt(95)) {
		t.Fatalf("threshold = %s, want 95", tranche.Threshold)
	}
	if tranche.MaturitySeconds != 30*24*3600 {
		t.Fatalf("maturity window = %d", tranche.MaturitySeconds)
	}
	if !tranche.TrancheCap.Equal(decimal.NewFromInt(100000)) {
		t.Fatalf("cap = %s, want 100000", tranche.TrancheCap)
	}
	if id, ok := tranche.LatestRoundID(); !ok || id != 3 {
		t.Fatalf("latest round = %d ok=%v, want 3", id, ok)
	}
}

func TestTrancheInvariants(t *testing.T) {
	raw := validRawTranche()
	raw.PerAccountMin = big.NewInt(9_000_000_000)
	if _, err := Tranche(raw); !errors.Is(err, model.ErrInvariant) {
		t.Fatalf("min > max must violate the invariant, got %v", err)
	}

	raw = validRawTranche()
	raw.PerAccountMax = big.NewInt(200_000_000_000)
	if _, err := Tranche(raw); !errors.Is(err, model.ErrInvariant) {
		t.Fatalf("max > cap must violate the invariant, got %v", err)
	}

	raw = validRawTranche()
	raw.PremiumRateBps = 10001
	if _, err := Tranche(raw); !errors.Is(err, model.ErrInvariant) {
		t.Fatalf("premium above 100%% must violate the invariant, got %v", err)
	}

	raw = validRawTranche()
	raw.TriggerType = 9
	if _, err := Tranche(raw); !errors.Is(err, model.ErrInvariant) {
		t.Fatalf("unknown trigger type must violate the invariant, got %v", err)
	}
}

func TestRoundStateLabels(t *testing.T) {
	round := Round(4, 7, insurance.RawRound{State: 5, TriggerOccurred: true})
	if round.StateLabel != "SETTLED" {
		t.Fatalf("state 5 label = %q", round.StateLabel)
	}
	if !round.State.Terminal() {
		t.Fatalf("settled must be terminal")
	}

	round = Round(4, 7, insurance.RawRound{State: 42})
	if round.StateLabel != "Unknown" {
		t.Fatalf("out-of-range state label = %q, want Unknown", round.StateLabel)
	}
	if round.State != model.RoundState(42) {
		t.Fatalf("raw state value must be preserved, got %d", round.State)
	}
	if round.State.Known() {
		t.Fatalf("state 42 must not report as known")
	}
}

func TestPoolAccountingShares(t *testing.T) {
	nav := new(big.Int).Mul(big.NewInt(105), big.NewInt(1e16)) // 1.05 at 18 decimals
	pool := PoolAccounting(insurance.RawPoolAccounting{
		PoolAddress: "0x00000000000000000000000000000000000000aa",
		TotalAssets: big.NewInt(100_000_000_000),
		TotalShares: new(big.Int).Mul(big.NewInt(95_000), big.NewInt(1e18)),
		NavPerShare: nav,
	})

	if !pool.TotalAssets.Equal(decimal.NewFromInt(100000)) {
		t.Fatalf("total assets = %s", pool.TotalAssets)
	}
	if !pool.TotalShares.Equal(decimal.NewFromInt(95000)) {
		t.Fatalf("total shares = %s", pool.TotalShares)
	}
	if pool.NavPerShare.String() != "1.05" {
		t.Fatalf("nav per share = %s, want 1.05", pool.NavPerShare)
	}
}

func TestPrice(t *testing.T) {
	price := Price(insurance.RawPrice{RouteID: 11, Price: big.NewInt(9_950_000_000), Timestamp: 1_700_000_000})
	if price.Price.String() != "99.5" {
		t.Fatalf("price = %s, want 99.5", price.Price)
	}
	if price.RouteID != 11 || price.Timestamp != 1_700_000_000 {
		t.Fatalf("metadata not carried through: %+v", price)
	}
}
