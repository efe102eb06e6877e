package model

import "github.com/shopspring/decimal"

// PoolAccounting is a point-in-time accounting snapshot of a tranche pool.
// It is tied to the round it was read for and lives only as long as the
// cache window.
type PoolAccounting struct {
	PoolAddress    string          `json:"pool_address"`
	TotalAssets    decimal.Decimal `json:"total_assets"`
	TotalShares    decimal.Decimal `json:"total_shares"`
	LockedAssets   decimal.Decimal `json:"locked_assets"`
	PremiumReserve decimal.Decimal `json:"premium_reserve"`
	NavPerShare    decimal.Decimal `json:"nav_per_share"`
}

// OraclePrice is a price observation from the oracle router.
type OraclePrice struct {
	RouteID   uint64          `json:"route_id"`
	Price     decimal.Decimal `json:"price"`
	Timestamp uint64          `json:"timestamp"`
}
