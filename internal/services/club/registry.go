package club

import (
	"sync"

	"github.com/shelfie-bot/shelfie/internal/models"
)

// Registry is the in-memory map of guild to active session: the single
// source of truth for fast per-event decisions once a guild's entry has
// been hydrated from the repository. One instance is constructed in main
// and passed explicitly to the service and the sweeper.
type Registry struct {
	mu     sync.Mutex
	guilds map[string]*guildEntry
}

// guildEntry serializes everything that touches one guild's session.
// hydrated distinguishes "not loaded yet" from "known to have no session".
type guildEntry struct {
	mu       sync.Mutex
	hydrated bool
	session  *models.Session
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		guilds: make(map[string]*guildEntry),
	}
}

func (r *Registry) entry(guildID string) *guildEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.guilds[guildID]
	if !ok {
		e = &guildEntry{}
		r.guilds[guildID] = e
	}
	return e
}

// Lock enters the guild's critical section. Every read-modify-write
// sequence that touches both the registry and the durable store runs
// under it, one guild at a time.
func (r *Registry) Lock(guildID string) *Guard {
	e := r.entry(guildID)
	e.mu.Lock()
	return &Guard{entry: e}
}

// Guard is a held per-guild critical section
type Guard struct {
	entry *guildEntry
}

// Session returns the cached session and whether the entry has been
// hydrated. A hydrated entry with a nil session means the guild has no
// active session.
func (g *Guard) Session() (*models.Session, bool) {
	return g.entry.session, g.entry.hydrated
}

// Put replaces the cached session and marks the entry hydrated
func (g *Guard) Put(sess *models.Session) {
	g.entry.session = sess
	g.entry.hydrated = true
}

// Remove drops the cached session, recording that the guild has none
func (g *Guard) Remove() {
	g.entry.session = nil
	g.entry.hydrated = true
}

// Unlock leaves the critical section
func (g *Guard) Unlock() {
	g.entry.mu.Unlock()
}
