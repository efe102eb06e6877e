package insurance

import "math/big"

// Raw tuples mirror the on-chain encodings bit-exactly. Amount fields stay
// *big.Int; the normalizer applies the per-field decimal shifts.

// RawProduct is the unshifted getProduct result.
type RawProduct struct {
	ProductID    uint64
	MetadataHash string
	Active       bool
	CreatedAt    uint64
	UpdatedAt    uint64
	TrancheIDs   []uint64
}

// RawTranche is the unshifted getTranche result. Threshold is 18-decimal
// fixed point; the purchase bounds and cap are 6-decimal. MaturityTimestamp
// keeps its wire name but holds the coverage window length in seconds.
type RawTranche struct {
	TrancheID         uint64
	ProductID         uint64
	TriggerType       uint8
	Threshold         *big.Int
	MaturityTimestamp uint64
	PremiumRateBps    uint16
	PerAccountMin     *big.Int
	PerAccountMax     *big.Int
	TrancheCap        *big.Int
	OracleRouteID     uint64
	PoolAddress       string
	Active            bool
	RoundIDs          []uint64
}

// RawRound is the unshifted getRound result. Amounts are 6-decimal.
type RawRound struct {
	State               uint8
	StartTime           uint64
	EndTime             uint64
	MaturityTime        uint64
	TotalBuyerPurchases *big.Int
	TotalSellerDeposits *big.Int
	MatchedAmount       *big.Int
	TriggerOccurred     bool
	SettledTime         uint64
}

// RawPoolAccounting is the unshifted getPoolAccounting result. Amounts are
// 6-decimal except NavPerShare (18-decimal).
type RawPoolAccounting struct {
	PoolAddress    string
	TotalAssets    *big.Int
	TotalShares    *big.Int
	LockedAssets   *big.Int
	PremiumReserve *big.Int
	NavPerShare    *big.Int
}

// RawPrice is the unshifted getPrice result (8-decimal).
type RawPrice struct {
	RouteID   uint64
	Price     *big.Int
	Timestamp uint64
}

// RawBuyerOrder is one entry of the getBuyerOrders result (6-decimal amounts).
type RawBuyerOrder struct {
	TrancheID   uint64
	RoundID     uint64
	Purchase    *big.Int
	PremiumPaid *big.Int
}

// RawSellerDeposit is one entry of the getSellerDeposits result. Collateral
// is 6-decimal, SharesMinted 18-decimal.
type RawSellerDeposit struct {
	TrancheID    uint64
	RoundID      uint64
	Collateral   *big.Int
	SharesMinted *big.Int
}
