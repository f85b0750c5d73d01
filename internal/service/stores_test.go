package service

import (
	"context"
	"regexp"

	"github.com/zivgin/canonical-product-builder/internal/models"
	"github.com/zivgin/canonical-product-builder/internal/utils"
)

// fakeListingStore applies the same case-insensitive regex semantics as the
// real store so search tests exercise realistic filtering.
type fakeListingStore struct {
	listings []models.Listing
	failWith error

	lastNamePattern    string
	lastExcludePattern string
	lastLimit          int
}

func (f *fakeListingStore) Find(_ context.Context, namePattern, excludePattern string, limit int) ([]models.Listing, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.lastNamePattern = namePattern
	f.lastExcludePattern = excludePattern
	f.lastLimit = limit

	positive := regexp.MustCompile("(?i)" + namePattern)
	var negative *regexp.Regexp
	if excludePattern != "" {
		negative = regexp.MustCompile("(?i)" + excludePattern)
	}

	var out []models.Listing
	for _, l := range f.listings {
		if negative != nil && negative.MatchString(l.ItemName) {
			continue
		}
		if !positive.MatchString(l.ItemName) {
			continue
		}
		out = append(out, l)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeChainStore struct {
	chains    []models.Chain
	subChains []models.SubChain
	failWith  error
}

func (f *fakeChainStore) ListChains(context.Context) ([]models.Chain, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.chains, nil
}

func (f *fakeChainStore) ListSubChains(context.Context) ([]models.SubChain, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.subChains, nil
}

// fakeCanonicalStore enforces barcode uniqueness like the real store's
// unique constraint.
type fakeCanonicalStore struct {
	products map[int64]*models.CanonicalProduct
	failWith error
}

func newFakeCanonicalStore() *fakeCanonicalStore {
	return &fakeCanonicalStore{products: make(map[int64]*models.CanonicalProduct)}
}

func (f *fakeCanonicalStore) MaxBarcode(context.Context) (int64, bool, error) {
	if f.failWith != nil {
		return 0, false, f.failWith
	}
	var max int64
	for b := range f.products {
		if b > max {
			max = b
		}
	}
	return max, max > 0, nil
}

func (f *fakeCanonicalStore) FindByBarcode(_ context.Context, barcode int64) (*models.CanonicalProduct, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.products[barcode], nil
}

func (f *fakeCanonicalStore) InsertUnique(_ context.Context, p *models.CanonicalProduct) error {
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.products[p.CanonicalBarcode]; ok {
		return utils.ErrDuplicateBarcode
	}
	f.products[p.CanonicalBarcode] = p
	return nil
}

// testRegistry builds a snapshot directly, bypassing store and cache.
func testRegistry(chains map[string]string, subChains map[string]string) *RegistrySnapshot {
	return &RegistrySnapshot{Chains: chains, SubChains: subChains}
}
