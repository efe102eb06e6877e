package model

// Product is a registered insurance product from the catalog.
type Product struct {
	ProductID    uint64   `json:"product_id"`
	MetadataHash string   `json:"metadata_hash"`
	Name         string   `json:"name,omitempty"`
	Description  string   `json:"description,omitempty"`
	AssetSymbol  string   `json:"asset_symbol,omitempty"`
	Active       bool     `json:"active"`
	CreatedAt    uint64   `json:"created_at"`
	UpdatedAt    uint64   `json:"updated_at"`
	TrancheIDs   []uint64 `json:"tranche_ids"`
}
