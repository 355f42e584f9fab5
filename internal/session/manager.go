package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/fortuna/services/stat-tracker/internal/store"
)

// Manager holds the live controller for each game, so every caller mutates a
// game through the same single owner. Controllers are created on first use of
// a game name and kept for the life of the process.
type Manager struct {
	local  store.LocalStore
	remote store.RemoteStore
	pub    Publisher

	mu          sync.Mutex
	controllers map[string]*Controller
}

// NewManager creates an empty session manager.
func NewManager(local store.LocalStore, remote store.RemoteStore, pub Publisher) *Manager {
	return &Manager{
		local:       local,
		remote:      remote,
		pub:         pub,
		controllers: make(map[string]*Controller),
	}
}

// Open returns the controller for gameName, initializing one if this is the
// first use. teamName, when non-empty and the game is new, names a remote
// roster template to seed from.
func (m *Manager) Open(ctx context.Context, gameName, teamName string) (*Controller, error) {
	m.mu.Lock()
	if ctrl, ok := m.controllers[gameName]; ok {
		m.mu.Unlock()
		return ctrl, nil
	}
	m.mu.Unlock()

	ctrl := NewController(gameName, m.local, m.remote, m.pub)

	if teamName != "" {
		team, err := m.remote.GetTeam(ctx, teamName)
		if err != nil {
			return nil, fmt.Errorf("resolving team template %s: %w", teamName, err)
		}
		if err := ctrl.Init(ctx, team); err != nil {
			return nil, err
		}
	} else {
		if err := ctrl.Init(ctx, nil); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another caller may have opened the same game while we were
	// initializing; theirs wins so there is exactly one owner.
	if existing, ok := m.controllers[gameName]; ok {
		ctrl.Flush()
		return existing, nil
	}
	m.controllers[gameName] = ctrl
	return ctrl, nil
}

// Get returns an already-open controller, if any.
func (m *Manager) Get(gameName string) (*Controller, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ctrl, ok := m.controllers[gameName]
	return ctrl, ok
}

// ListGames returns the union of locally cached and remote game names.
func (m *Manager) ListGames(ctx context.Context) ([]string, error) {
	local, err := m.local.ListGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing local games: %w", err)
	}

	remote, err := m.remote.ListGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing remote games: %w", err)
	}

	seen := make(map[string]bool, len(local)+len(remote))
	names := make([]string, 0, len(local)+len(remote))
	for _, name := range append(local, remote...) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names, nil
}

// Flush waits for all pending local saves across every open game.
func (m *Manager) Flush() {
	m.mu.Lock()
	controllers := make([]*Controller, 0, len(m.controllers))
	for _, ctrl := range m.controllers {
		controllers = append(controllers, ctrl)
	}
	m.mu.Unlock()

	for _, ctrl := range controllers {
		ctrl.Flush()
	}
}
