// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generator

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestLiveTracker_BeginCancelsPrevious(t *testing.T) {
	lt := NewLiveTracker()

	seq1, ctx1 := lt.Begin(context.Background(), "s")
	seq2, ctx2 := lt.Begin(context.Background(), "s")

	if seq2 <= seq1 {
		t.Errorf("sequence should grow: %d then %d", seq1, seq2)
	}
	if ctx1.Err() == nil {
		t.Error("first context should be cancelled by the second Begin")
	}
	if ctx2.Err() != nil {
		t.Error("latest context must stay live")
	}
	if lt.Latest("s") != seq2 {
		t.Errorf("Latest: got %d, want %d", lt.Latest("s"), seq2)
	}
}

func TestLiveTracker_OnlyLatestCommits(t *testing.T) {
	lt := NewLiveTracker()
	seq1, _ := lt.Begin(context.Background(), "s")
	seq2, ctx2 := lt.Begin(context.Background(), "s")

	if lt.Commit("s", seq1) {
		t.Error("stale sequence committed")
	}
	if !lt.Commit("s", seq2) {
		t.Error("latest sequence rejected")
	}
	if ctx2.Err() == nil {
		t.Error("committed request context should be released")
	}
	if lt.Commit("unknown", 1) {
		t.Error("unknown session committed")
	}
}

func TestLiveTracker_EndIgnoresStale(t *testing.T) {
	lt := NewLiveTracker()
	seq1, _ := lt.Begin(context.Background(), "s")
	seq2, ctx2 := lt.Begin(context.Background(), "s")

	lt.End("s", seq1)
	if ctx2.Err() != nil {
		t.Error("ending a stale request must not cancel the newer one")
	}
	lt.End("s", seq2)
	if ctx2.Err() == nil {
		t.Error("End should release the latest request")
	}
}

func TestLiveTracker_ParentCancellation(t *testing.T) {
	lt := NewLiveTracker()
	parent, cancel := context.WithCancel(context.Background())
	_, ctx := lt.Begin(parent, "s")
	cancel()
	if ctx.Err() == nil {
		t.Error("request context should follow its parent")
	}
}

func TestLiveTracker_PruneKeepsSequencesUnique(t *testing.T) {
	lt := NewLiveTracker()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	lt.now = func() time.Time { return now }

	for i := range livePruneAt {
		s := fmt.Sprintf("s%d", i)
		seq, _ := lt.Begin(context.Background(), s)
		lt.Commit(s, seq)
	}
	// A superseded but never-settled request in a session that stays busy.
	oldSeq, _ := lt.Begin(context.Background(), "busy")

	now = now.Add(liveIdleTTL + time.Minute)
	newSeq, _ := lt.Begin(context.Background(), "s0")

	lt.mu.Lock()
	n := len(lt.sessions)
	lt.mu.Unlock()
	if n != 2 {
		t.Errorf("expected idle sessions pruned down to 2, got %d", n)
	}
	if newSeq <= oldSeq {
		t.Errorf("sequence reused after prune: %d <= %d", newSeq, oldSeq)
	}
	if lt.Latest("busy") != oldSeq {
		t.Error("in-flight session must survive pruning")
	}
}
