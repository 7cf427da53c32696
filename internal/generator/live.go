// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generator

import (
	"context"
	"sync"
	"time"
)

const (
	// liveIdleTTL is how long a settled session is remembered.
	liveIdleTTL = 10 * time.Minute

	// livePruneAt is the session count that triggers pruning in Begin.
	livePruneAt = 1024
)

// LiveTracker sequences live-mode requests per session. Starting a request
// cancels the one still in flight for the same session, and only the most
// recent request may commit its result. Sequence numbers come from one
// tracker-wide counter, so they never repeat even after a session is pruned.
type LiveTracker struct {
	mu       sync.Mutex
	next     uint64
	sessions map[string]*liveSession
	now      func() time.Time
}

type liveSession struct {
	seq      uint64
	cancel   context.CancelFunc // nil once the latest request has settled
	lastSeen time.Time
}

// NewLiveTracker creates an empty tracker.
func NewLiveTracker() *LiveTracker {
	return &LiveTracker{sessions: make(map[string]*liveSession), now: time.Now}
}

// Begin registers a new request for session and returns its sequence
// number and a context derived from parent that is cancelled when a newer
// request begins.
func (lt *LiveTracker) Begin(parent context.Context, session string) (uint64, context.Context) {
	ctx, cancel := context.WithCancel(parent)

	lt.mu.Lock()
	defer lt.mu.Unlock()

	if len(lt.sessions) >= livePruneAt {
		lt.pruneLocked()
	}

	s, ok := lt.sessions[session]
	if !ok {
		s = &liveSession{}
		lt.sessions[session] = s
	}
	if s.cancel != nil {
		s.cancel()
	}
	lt.next++
	s.seq = lt.next
	s.cancel = cancel
	s.lastSeen = lt.now()
	return s.seq, ctx
}

// Commit reports whether seq is still the latest request for session and
// settles it if so.
func (lt *LiveTracker) Commit(session string, seq uint64) bool {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	s, ok := lt.sessions[session]
	if !ok || s.seq != seq {
		return false
	}
	lt.settleLocked(s)
	return true
}

// End settles a request that will not commit, e.g. after an error. It does
// nothing if a newer request has already begun.
func (lt *LiveTracker) End(session string, seq uint64) {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	if s, ok := lt.sessions[session]; ok && s.seq == seq {
		lt.settleLocked(s)
	}
}

// Latest returns the newest sequence number issued for session.
func (lt *LiveTracker) Latest(session string) uint64 {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	if s, ok := lt.sessions[session]; ok {
		return s.seq
	}
	return 0
}

func (lt *LiveTracker) settleLocked(s *liveSession) {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.lastSeen = lt.now()
}

// pruneLocked drops settled sessions idle for longer than liveIdleTTL.
func (lt *LiveTracker) pruneLocked() {
	cutoff := lt.now().Add(-liveIdleTTL)
	for id, s := range lt.sessions {
		if s.cancel == nil && s.lastSeen.Before(cutoff) {
			delete(lt.sessions, id)
		}
	}
}
