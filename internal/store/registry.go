package store

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/aaronzipp/distance-resistance/internal/game"
	"github.com/aaronzipp/distance-resistance/internal/log"
	"github.com/aaronzipp/distance-resistance/internal/metrics"
	"github.com/aaronzipp/distance-resistance/internal/models"
)

// Options configure a Registry. Zero values get defaults.
type Options struct {
	CodeLength int
	Rand       *rand.Rand
	NewID      func(length int) string
	NewKey     func() models.PlayerKey
	Name       func() string
}

// Registry manages game sessions. Each session carries its own lock, so the
// registry lock only guards the map and the shared RNG.
type Registry struct {
	sessions map[string]*game.Session
	mu       sync.RWMutex
	rng      *rand.Rand
	opts     Options
}

// NewRegistry creates an empty registry
func NewRegistry(opts Options) *Registry {
	if opts.CodeLength <= 0 {
		opts.CodeLength = game.RoomCodeLength
	}
	if opts.NewID == nil {
		opts.NewID = game.GenerateRoomCode
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Registry{
		sessions: make(map[string]*game.Session),
		rng:      rng,
		opts:     opts,
	}
}

// Create builds a session for headcount players and returns its id
func (r *Registry) Create(ctx context.Context, headcount int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.uniqueID()
	s, err := game.NewSession(id, headcount, game.Deps{
		Shuffle: r.rng.Shuffle,
		NewKey:  r.opts.NewKey,
		Name:    r.opts.Name,
	})
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	r.sessions[id] = s
	metrics.RecordSessionCreated()

	logger := log.WithContext(ctx, log.WithComponent("store"))
	logger.Info().Str(log.FieldSessionID, id).Int(log.FieldHeadcount, headcount).Msg("registered session")
	return id, nil
}

// uniqueID draws ids until one is free. Caller must hold the write lock.
func (r *Registry) uniqueID() string {
	for {
		id := r.opts.NewID(r.opts.CodeLength)
		if _, exists := r.sessions[id]; !exists {
			return id
		}
	}
}

// Get returns a read-only snapshot of a session
func (r *Registry) Get(id string) (game.Snapshot, error) {
	s, err := r.GetMut(id)
	if err != nil {
		return game.Snapshot{}, err
	}
	return s.Snapshot(), nil
}

// GetMut returns the live session for mutating calls
func (r *Registry) GetMut(id string) (*game.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, exists := r.sessions[id]
	if !exists {
		return nil, game.ErrSessionNotFound
	}
	return s, nil
}

// Exists checks if a session id is taken
func (r *Registry) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.sessions[id]
	return exists
}

// Delete removes a session; the core never calls it
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[id]; exists {
		delete(r.sessions, id)
		metrics.RecordSessionRemoved()
	}
}

// Len returns the number of registered sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
