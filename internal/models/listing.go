package models

// Listing represents one chain's catalog entry for a product, as imported
// from the chain's published price files. Listings are read-only here; the
// importer owning the listings table never runs in this process.
type Listing struct {
	ItemCode         string `db:"item_code" json:"itemCode"`
	ItemName         string `db:"item_name" json:"itemName"`
	ManufacturerName string `db:"manufacturer_name" json:"manufacturerName,omitempty"`
	FileName         string `db:"file_name" json:"fileName"`
}

// ChainIdentity is the chain and sub-chain a listing belongs to, derived
// from its source file name. Item codes are only unique within a sub-chain,
// so every core operation keys on this identity rather than the code alone.
type ChainIdentity struct {
	ChainID    string `json:"chainId"`
	SubChainID string `json:"subChainId"`
}

// Key returns the "{chain_id}-{sub_chain_id}" handle used throughout the
// service to identify one sub-chain.
func (ci ChainIdentity) Key() string {
	return ci.ChainID + "-" + ci.SubChainID
}

// Relevance tiers for ranked search candidates. Higher is better. Candidates
// with no textual relation to the term never survive the store filter, so
// only these three tiers exist.
const (
	TierContains = 1
	TierPrefix   = 2
	TierExact    = 3
)

// RankedCandidate is a listing augmented with its sub-chain handle, a
// human-readable sub-chain name and a relevance tier.
type RankedCandidate struct {
	Listing
	SubChainKey  string `json:"subChainKey"`
	SubChainName string `json:"subChainName"`
	Tier         int    `json:"tier"`
}
