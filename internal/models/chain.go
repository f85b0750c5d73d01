package models

// Chain is a retail group as configured in the chain registry.
type Chain struct {
	ID        string `db:"id" json:"id"`
	ChainName string `db:"chain_name" json:"chainName"`
}

// SubChain is a branch-level or regional subdivision of a chain. Sub-chain
// names in the registry are frequently blank or the placeholder "1"; display
// resolution falls back to the parent chain's name in that case.
type SubChain struct {
	ChainID      string `db:"chain_id" json:"chainId"`
	ID           string `db:"id" json:"id"`
	SubChainName string `db:"sub_chain_name" json:"subChainName"`
}
