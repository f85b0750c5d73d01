package service

import (
	"regexp"
	"strings"

	"github.com/zivgin/canonical-product-builder/internal/models"
)

// Price files are published as PriceFull<chain>-<subchain>-<timestamp>.xml;
// the two digit groups are the only identity a listing carries.
var chainIdentityPattern = regexp.MustCompile(`PriceFull(\d+)-(\d+)-`)

// ExtractChainIdentity derives the chain and sub-chain a listing belongs to
// from its source file name. The second return value is false when the file
// name carries no identity; such listings cannot be attributed to a sub-chain
// and are dropped from every downstream step.
func ExtractChainIdentity(fileName string) (models.ChainIdentity, bool) {
	m := chainIdentityPattern.FindStringSubmatch(fileName)
	if m == nil {
		return models.ChainIdentity{}, false
	}
	return models.ChainIdentity{
		ChainID:    m[1],
		SubChainID: normalizeSubChainID(m[2]),
	}, true
}

// normalizeSubChainID strips leading zeros so that "001" and "1" name the
// same sub-chain. An all-zero group normalizes to "0", not the empty string.
func normalizeSubChainID(id string) string {
	id = strings.TrimLeft(id, "0")
	if id == "" {
		return "0"
	}
	return id
}
