package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/zivgin/canonical-product-builder/internal/cache"
	"github.com/zivgin/canonical-product-builder/internal/models"
)

// UnknownChainName is the display fallback when a sub-chain's parent chain is
// not present in the registry at all.
const UnknownChainName = "Unknown Chain"

// subChainPlaceholder is a registry artifact: many chains register their
// single sub-chain under the literal name "1".
const subChainPlaceholder = "1"

// RegistrySnapshot is an immutable view of the chain registry taken once per
// workflow session. Sessions never observe registry updates mid-workflow;
// staleness is bounded by the cache TTL.
type RegistrySnapshot struct {
	// Chains maps chain id to chain display name.
	Chains map[string]string `json:"chains"`
	// SubChains maps "{chain_id}-{sub_chain_id}" to the registered sub-chain
	// name, which may be blank or a placeholder.
	SubChains map[string]string `json:"subChains"`
}

// ResolveDisplayName returns the human-readable name for a sub-chain key.
// Blank, placeholder and unregistered sub-chain names fall back to the parent
// chain's name; an unknown chain resolves to UnknownChainName.
func (s *RegistrySnapshot) ResolveDisplayName(key string) string {
	name := s.SubChains[key]
	if name == "" || name == subChainPlaceholder {
		chainID, _, _ := strings.Cut(key, "-")
		name = s.Chains[chainID]
	}
	if name == "" {
		return UnknownChainName
	}
	return name
}

// AllKeys returns every registered sub-chain key, sorted.
func (s *RegistrySnapshot) AllKeys() []string {
	keys := make([]string, 0, len(s.SubChains))
	for k := range s.SubChains {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RegistryService builds session-scoped registry snapshots, serving them from
// the cache when a fresh enough one exists.
type RegistryService struct {
	chains ChainStore
	cache  *cache.RegistryCache
}

// NewRegistryService constructs a RegistryService. The cache may be nil, in
// which case every snapshot is read from the store.
func NewRegistryService(chains ChainStore, registryCache *cache.RegistryCache) *RegistryService {
	return &RegistryService{chains: chains, cache: registryCache}
}

// Snapshot returns a registry snapshot for a new session. Cache failures are
// not fatal: the snapshot falls back to the store.
func (s *RegistryService) Snapshot(ctx context.Context) (*RegistrySnapshot, error) {
	if s.cache != nil {
		payload, ok, err := s.cache.Get(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("registry cache read failed, falling back to store")
		} else if ok {
			var snap RegistrySnapshot
			if uerr := json.Unmarshal([]byte(payload), &snap); uerr != nil {
				log.Warn().Err(uerr).Msg("registry cache payload corrupt, falling back to store")
			} else {
				return &snap, nil
			}
		}
	}

	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.put(ctx, snap)
	return snap, nil
}

// Refresh rebuilds the cached snapshot from the store. Used by the warm
// worker so that session creation rarely pays the registry read.
func (s *RegistryService) Refresh(ctx context.Context) error {
	snap, err := s.load(ctx)
	if err != nil {
		return err
	}
	s.put(ctx, snap)
	return nil
}

func (s *RegistryService) load(ctx context.Context) (*RegistrySnapshot, error) {
	chains, err := s.chains.ListChains(ctx)
	if err != nil {
		return nil, err
	}
	subChains, err := s.chains.ListSubChains(ctx)
	if err != nil {
		return nil, err
	}

	snap := &RegistrySnapshot{
		Chains:    make(map[string]string, len(chains)),
		SubChains: make(map[string]string, len(subChains)),
	}
	for _, c := range chains {
		snap.Chains[c.ID] = c.ChainName
	}
	for _, sc := range subChains {
		identity := models.ChainIdentity{ChainID: sc.ChainID, SubChainID: normalizeSubChainID(sc.ID)}
		snap.SubChains[identity.Key()] = sc.SubChainName
	}
	log.Debug().Int("chains", len(chains)).Int("subChains", len(subChains)).Msg("registry snapshot loaded")
	return snap, nil
}

func (s *RegistryService) put(ctx context.Context, snap *RegistrySnapshot) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if err := s.cache.Put(ctx, string(payload)); err != nil {
		log.Warn().Err(err).Msg("registry cache write failed")
	}
}
