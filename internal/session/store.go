package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Store exposes session state keyed by Telegram user ID. Reads and writes
// degrade to the fallback backend when the primary fails; only the primary
// may be nil (memory-only mode).
type Store struct {
	primary  Backend
	fallback Backend
	ttl      time.Duration
	logger   *slog.Logger
}

// NewStore builds a Store. primary may be nil, in which case all traffic goes
// straight to fallback. fallback must not be nil.
func NewStore(primary Backend, fallback Backend, ttl time.Duration, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{primary: primary, fallback: fallback, ttl: ttl, logger: logger}
}

func sessionKey(userID int64) string {
	return fmt.Sprintf("fsm:%d", userID)
}

// Get returns the user's current state, or a fresh idle state when none is
// stored. Backend failures are logged and treated as an absent session after
// the fallback is consulted.
func (s *Store) Get(ctx context.Context, userID int64) *State {
	key := sessionKey(userID)

	if s.primary != nil {
		data, err := s.primary.Get(ctx, key)
		switch {
		case err == nil:
			if state := decodeState(data, s.logger, userID); state != nil {
				return state
			}
		case errors.Is(err, ErrNotFound):
			return NewState()
		default:
			s.logger.Warn("session read failed, trying fallback", "user", userID, "error", err)
		}
	}

	data, err := s.fallback.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("fallback session read failed", "user", userID, "error", err)
		}
		return NewState()
	}
	if state := decodeState(data, s.logger, userID); state != nil {
		return state
	}
	return NewState()
}

// Set stores the user's state with a fresh TTL. When the primary write fails
// the state is kept in the fallback so the conversation survives.
func (s *Store) Set(ctx context.Context, userID int64, state *State) {
	if state == nil {
		state = NewState()
	}
	data, err := json.Marshal(state)
	if err != nil {
		s.logger.Error("session encode failed", "user", userID, "error", err)
		return
	}
	key := sessionKey(userID)

	if s.primary != nil {
		err := s.primary.Set(ctx, key, data, s.ttl)
		if err == nil {
			return
		}
		s.logger.Warn("session write failed, degrading to fallback", "user", userID, "error", err)
	}
	if err := s.fallback.Set(ctx, key, data, s.ttl); err != nil {
		s.logger.Error("fallback session write failed", "user", userID, "error", err)
	}
}

// Update reads the state, applies fn, and writes the result back. The write
// refreshes the TTL. Concurrent updates for the same user are last-write-wins.
func (s *Store) Update(ctx context.Context, userID int64, fn func(*State)) *State {
	state := s.Get(ctx, userID)
	fn(state)
	s.Set(ctx, userID, state)
	return state
}

// Clear removes the user's session from both backends.
func (s *Store) Clear(ctx context.Context, userID int64) {
	key := sessionKey(userID)
	if s.primary != nil {
		if err := s.primary.Delete(ctx, key); err != nil {
			s.logger.Warn("session delete failed", "user", userID, "error", err)
		}
	}
	if err := s.fallback.Delete(ctx, key); err != nil {
		s.logger.Warn("fallback session delete failed", "user", userID, "error", err)
	}
}

func decodeState(data []byte, logger *slog.Logger, userID int64) *State {
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		logger.Warn("corrupt session payload discarded", "user", userID, "error", err)
		return nil
	}
	if state.Phase == "" {
		state.Phase = PhaseIdle
	}
	return &state
}
