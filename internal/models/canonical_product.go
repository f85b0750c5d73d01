package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// ChainBarcodes maps a human-readable sub-chain display name to that
// sub-chain's item code for the product. Stored as JSONB.
type ChainBarcodes map[string]string

// Value implements driver.Valuer for JSONB storage.
func (c ChainBarcodes) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner for JSONB retrieval.
func (c *ChainBarcodes) Scan(src interface{}) error {
	if src == nil {
		*c = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return errors.New("chain barcodes: unsupported scan type")
	}
	return json.Unmarshal(b, c)
}

// CanonicalProduct is the persisted record unifying one real-world product
// across chains. Records are write-once: a new barcode starts a new record,
// existing records are never updated in place.
type CanonicalProduct struct {
	CanonicalBarcode int64         `db:"canonical_barcode" json:"canonicalBarcode"`
	Name             string        `db:"name" json:"name"`
	Category         string        `db:"category" json:"category"`
	SubCategory      string        `db:"sub_category" json:"subCategory,omitempty"`
	Chains           ChainBarcodes `db:"chains" json:"chains"`
	CreatedAt        time.Time     `db:"created_at" json:"createdAt"`
}
