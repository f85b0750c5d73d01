package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/zivgin/canonical-product-builder/internal/models"
	"github.com/zivgin/canonical-product-builder/internal/utils"
)

// Session is one operator workflow: a registry snapshot fixed at creation, an
// assignment state, and a suggested barcode. Sessions are private to one
// operator and never shared; discarding one has no effect on storage.
type Session struct {
	ID               string
	State            *AssignmentState
	Registry         *RegistrySnapshot
	SuggestedBarcode int64
	CreatedAt        time.Time

	lastSeen time.Time
	mu       sync.Mutex
}

// SelectedEntry is one assigned sub-chain in a session status report.
type SelectedEntry struct {
	SubChainKey  string         `json:"subChainKey"`
	SubChainName string         `json:"subChainName"`
	Listing      models.Listing `json:"listing"`
}

// RemainingEntry is one still-unassigned sub-chain in a status report.
type RemainingEntry struct {
	SubChainKey  string `json:"subChainKey"`
	SubChainName string `json:"subChainName"`
}

// SessionStatus summarizes a session for the presentation layer.
type SessionStatus struct {
	SessionID        string           `json:"sessionId"`
	SuggestedBarcode int64            `json:"suggestedBarcode"`
	Selected         []SelectedEntry  `json:"selected"`
	Remaining        []RemainingEntry `json:"remaining"`
	IsComplete       bool             `json:"isComplete"`
	CreatedAt        time.Time        `json:"createdAt"`
}

// SessionManager owns all live workflow sessions and serializes access to
// each session's assignment state. Cross-session concurrency exists only at
// the store (barcode uniqueness) and registry cache.
type SessionManager struct {
	registry *RegistryService
	search   *SearchService
	builder  *BuilderService

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionManager constructs a SessionManager.
func NewSessionManager(registry *RegistryService, search *SearchService, builder *BuilderService) *SessionManager {
	return &SessionManager{
		registry: registry,
		search:   search,
		builder:  builder,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new workflow session: it takes a registry snapshot and
// suggests the next canonical barcode.
func (m *SessionManager) Create(ctx context.Context) (*SessionStatus, error) {
	snapshot, err := m.registry.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	barcode, err := m.builder.NextBarcode(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &Session{
		ID:               uuid.New().String(),
		State:            NewAssignmentState(),
		Registry:         snapshot,
		SuggestedBarcode: barcode,
		CreatedAt:        now,
		lastSeen:         now,
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	log.Info().Str("session_id", session.ID).Int64("suggested_barcode", barcode).Msg("session created")
	return m.status(session), nil
}

// Status returns the current state of a session.
func (m *SessionManager) Status(id string) (*SessionStatus, error) {
	session, err := m.get(id)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return m.status(session), nil
}

// Discard removes a session. Discarding an unknown session is an error so
// the presentation layer can detect stale tabs.
func (m *SessionManager) Discard(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return utils.ErrSessionNotFound
	}
	delete(m.sessions, id)
	log.Info().Str("session_id", id).Msg("session discarded")
	return nil
}

// Search runs a catalog search scoped to the session: sub-chains that already
// have a selection are excluded from the results.
func (m *SessionManager) Search(ctx context.Context, id, term string, excludeWords []string) ([]models.RankedCandidate, error) {
	session, err := m.get(id)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return m.search.Search(ctx, term, session.State.ExcludedKeys(), excludeWords, session.Registry)
}

// Assign selects listing as the representative for the sub-chain. Listings
// whose file name resolves to a different sub-chain than the stated key are
// rejected, preventing a mislabeled assignment.
func (m *SessionManager) Assign(id, key string, listing models.Listing) error {
	session, err := m.get(id)
	if err != nil {
		return err
	}

	identity, ok := ExtractChainIdentity(listing.FileName)
	if !ok || identity.Key() != key {
		return utils.ErrUnknownSubChain
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	return session.State.Assign(key, listing)
}

// Unassign removes the selection for the sub-chain. Idempotent.
func (m *SessionManager) Unassign(id, key string) error {
	session, err := m.get(id)
	if err != nil {
		return err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	session.State.Unassign(key)
	return nil
}

// Reset clears every selection in the session.
func (m *SessionManager) Reset(id string) error {
	session, err := m.get(id)
	if err != nil {
		return err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	session.State.Reset()
	return nil
}

// AutoAssign searches for listings whose name equals the product name and
// assigns each one whose sub-chain is still unassigned. Returns the number of
// new assignments. Existing selections are never overwritten.
func (m *SessionManager) AutoAssign(ctx context.Context, id, name string) (int, error) {
	session, err := m.get(id)
	if err != nil {
		return 0, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	candidates, err := m.search.Search(ctx, ExactTerm(name), session.State.ExcludedKeys(), nil, session.Registry)
	if err != nil {
		return 0, err
	}

	assigned := 0
	for _, c := range candidates {
		// Several listings may share a sub-chain; the highest-ranked one wins
		// and the rest surface as conflicts we skip.
		if err := session.State.Assign(c.SubChainKey, c.Listing); err != nil {
			if errors.Is(err, utils.ErrAssignmentConflict) {
				continue
			}
			return assigned, err
		}
		assigned++
	}

	log.Info().Str("session_id", id).Str("name", name).Int("assigned", assigned).Msg("auto-assignment completed")
	return assigned, nil
}

// Preview assembles the canonical product from the session without saving.
func (m *SessionManager) Preview(id, name, category, subCategory string) (*models.CanonicalProduct, error) {
	session, err := m.get(id)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return m.builder.Preview(name, category, subCategory, session.State.Selected(), session.Registry)
}

// Save persists the canonical product. When barcode is zero the session's
// suggested barcode is used; the operator may pass any unused positive
// integer instead. On success the assignment state resets and the session
// suggests the next barcode, ready for the next product.
func (m *SessionManager) Save(ctx context.Context, id, name, category, subCategory string, barcode int64) (*models.CanonicalProduct, error) {
	session, err := m.get(id)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	if barcode == 0 {
		barcode = session.SuggestedBarcode
	}

	product, err := m.builder.Save(ctx, name, category, subCategory, session.State.Selected(), session.Registry, barcode)
	if err != nil {
		return nil, err
	}

	session.State.Reset()
	session.SuggestedBarcode = barcode + 1
	return product, nil
}

// ReapExpired discards sessions idle for longer than ttl and returns how
// many were removed.
func (m *SessionManager) ReapExpired(ttl time.Duration) int {
	deadline := time.Now().Add(-ttl)

	m.mu.Lock()
	defer m.mu.Unlock()
	reaped := 0
	for id, session := range m.sessions {
		session.mu.Lock()
		idle := session.lastSeen.Before(deadline)
		session.mu.Unlock()
		if idle {
			delete(m.sessions, id)
			reaped++
		}
	}
	return reaped
}

// get looks up a session and marks it as recently used.
func (m *SessionManager) get(id string) (*Session, error) {
	m.mu.RLock()
	session, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, utils.ErrSessionNotFound
	}

	session.mu.Lock()
	session.lastSeen = time.Now()
	session.mu.Unlock()
	return session, nil
}

// status builds a status report. Callers must hold the session lock or have
// exclusive access to the session.
func (m *SessionManager) status(session *Session) *SessionStatus {
	allKeys := session.Registry.AllKeys()
	selected := session.State.Selected()

	entries := make([]SelectedEntry, 0, len(selected))
	for _, key := range allKeys {
		if listing, ok := selected[key]; ok {
			entries = append(entries, SelectedEntry{
				SubChainKey:  key,
				SubChainName: session.Registry.ResolveDisplayName(key),
				Listing:      listing,
			})
		}
	}

	remainingKeys := session.State.Remaining(allKeys)
	remaining := make([]RemainingEntry, 0, len(remainingKeys))
	for _, key := range remainingKeys {
		remaining = append(remaining, RemainingEntry{
			SubChainKey:  key,
			SubChainName: session.Registry.ResolveDisplayName(key),
		})
	}

	return &SessionStatus{
		SessionID:        session.ID,
		SuggestedBarcode: session.SuggestedBarcode,
		Selected:         entries,
		Remaining:        remaining,
		IsComplete:       session.State.IsComplete(allKeys),
		CreatedAt:        session.CreatedAt,
	}
}
