package application

import (
	"context"
	"sync"

	"github.com/Mocretion/WlanBotV4/internal/modules/music/domain"
	"github.com/disgoorg/snowflake/v2"
)

// Registry keys a lock and an optional live session per guild. Three event
// sources (messages, button interactions, engine callbacks) can target the
// same guild concurrently; every mutating path must acquire the guild's
// handle first so operations execute one at a time per guild. Guilds never
// share locks.
type Registry struct {
	mu    sync.Mutex
	slots map[snowflake.ID]*slot
}

type slot struct {
	sem     chan struct{}
	session *domain.Session
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		slots: make(map[snowflake.ID]*slot),
	}
}

// Handle grants exclusive access to a guild's session and configuration until
// released. Handles are not reentrant: a second Acquire for the same guild
// blocks until the first handle is released.
type Handle struct {
	registry *Registry
	guildID  snowflake.ID
	slot     *slot
	released bool
}

// Acquire blocks until the guild's lock is free and returns a handle for it.
// The slot is created on first use. Callers must defer Release.
func (r *Registry) Acquire(ctx context.Context, guildID snowflake.ID) (*Handle, error) {
	r.mu.Lock()
	s, ok := r.slots[guildID]
	if !ok {
		s = &slot{sem: make(chan struct{}, 1)}
		r.slots[guildID] = s
	}
	r.mu.Unlock()

	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return &Handle{registry: r, guildID: guildID, slot: s}, nil
}

// HasSession reports whether the guild currently has a live session, without
// taking the guild lock. Used to gate commands that require one.
func (r *Registry) HasSession(guildID snowflake.ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[guildID]
	return ok && s.session != nil
}

// Release frees the guild lock. Releasing twice is a no-op.
func (h *Handle) Release() {
	if h.released {
		return
	}
	h.released = true
	<-h.slot.sem
}

// GuildID returns the guild this handle locks.
func (h *Handle) GuildID() snowflake.ID {
	return h.guildID
}

// Session returns the guild's live session, or nil if none exists.
func (h *Handle) Session() *domain.Session {
	h.registry.mu.Lock()
	defer h.registry.mu.Unlock()

	return h.slot.session
}

// EnsureSession returns the guild's session, creating an idle one bound to the
// given voice channel if absent. The second return reports whether a session
// was created by this call.
func (h *Handle) EnsureSession(voiceChannelID snowflake.ID) (*domain.Session, bool) {
	h.registry.mu.Lock()
	defer h.registry.mu.Unlock()

	if h.slot.session != nil {
		return h.slot.session, false
	}
	h.slot.session = domain.NewSession(h.guildID, voiceChannelID)
	return h.slot.session, true
}

// DropSession destroys the guild's session. The lock slot itself survives so
// later acquirers keep serializing against the same guild.
func (h *Handle) DropSession() {
	h.registry.mu.Lock()
	defer h.registry.mu.Unlock()

	h.slot.session = nil
}
