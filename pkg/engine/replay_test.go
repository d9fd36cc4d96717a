package engine

import (
	"testing"

	"github.com/jwebster45206/adventure-engine/pkg/state"
)

// playSession runs a full tour of the fixture world and returns the
// resulting state: take, option with reveal, move through a revealed
// exit, option with grant, drop, re-take, use.
func playSession(t *testing.T, e *Engine) *state.PlayerState {
	t.Helper()
	ps := newTestState(t, e)

	steps := []struct {
		name string
		run  func() OutcomeKind
		want OutcomeKind
	}{
		{"take brass_key", func() OutcomeKind { return e.Take(ps, "brass_key").Kind }, OutcomeTaken},
		{"pull_lever", func() OutcomeKind { return e.SelectOption(ps, "pull_lever").Kind }, OutcomeOption},
		{"move down", func() OutcomeKind { return e.Move(ps, "down").Kind }, OutcomeMoved},
		{"open_chest", func() OutcomeKind { return e.SelectOption(ps, "open_chest").Kind }, OutcomeOption},
		{"move up", func() OutcomeKind { return e.Move(ps, "up").Kind }, OutcomeMoved},
		{"drop brass_key", func() OutcomeKind { return e.Drop(ps, "brass_key").Kind }, OutcomeDropped},
		{"take oil_can", func() OutcomeKind { return e.Take(ps, "oil_can").Kind }, OutcomeTaken},
		{"use oil_can", func() OutcomeKind { return e.Use(ps, "oil_can").Kind }, OutcomeUsed},
	}
	for _, s := range steps {
		if got := s.run(); got != s.want {
			t.Fatalf("%s = %v, expected %v", s.name, got, s.want)
		}
	}
	return ps
}

func TestReplayMatchesStoredState(t *testing.T) {
	e := newTestEngine(t)
	ps := playSession(t, e)

	replayed := e.Replay(ps.UserID, ps.GameID, ps.ProgressLog)

	if replayed.CurrentScene != ps.CurrentScene {
		t.Errorf("replayed scene %q, stored %q", replayed.CurrentScene, ps.CurrentScene)
	}
	if replayed.Points != ps.Points {
		t.Errorf("replayed points %d, stored %d", replayed.Points, ps.Points)
	}
	if !Consistent(ps, replayed) {
		t.Errorf("replay inconsistent with stored state:\nstored:   scene=%s points=%d inv=%v revealed=%v\nreplayed: scene=%s points=%d inv=%v revealed=%v",
			ps.CurrentScene, ps.Points, ps.Inventory, ps.Revealed,
			replayed.CurrentScene, replayed.Points, replayed.Inventory, replayed.Revealed)
	}

	// Expected totals: key 5, lever 10, keepers_log grant 25. The
	// dropped key stays scored and the oil can is worth nothing.
	if replayed.Points != 40 {
		t.Errorf("replayed points = %d, expected 40", replayed.Points)
	}
	if !replayed.HasItem("keepers_log") || !replayed.HasItem("oil_can") || replayed.HasItem("brass_key") {
		t.Errorf("replayed inventory = %v", replayed.Inventory)
	}
}

func TestConsistentDetectsTampering(t *testing.T) {
	e := newTestEngine(t)
	ps := playSession(t, e)

	replayed := e.Replay(ps.UserID, ps.GameID, ps.ProgressLog)
	if !Consistent(ps, replayed) {
		t.Fatal("expected a consistent session")
	}

	ps.Points += 100
	if Consistent(ps, replayed) {
		t.Error("expected tampered points to be inconsistent")
	}
	ps.Points -= 100

	ps.Inventory = append(ps.Inventory, "spare_lens")
	if Consistent(ps, replayed) {
		t.Error("expected tampered inventory to be inconsistent")
	}
}

func TestReplayEmptyLog(t *testing.T) {
	e := newTestEngine(t)
	replayed := e.Replay("user1", "lighthouse_keep", nil)

	if replayed.CurrentScene != "dock" {
		t.Errorf("empty replay scene = %q, expected the opening scene", replayed.CurrentScene)
	}
	if replayed.Points != 0 || len(replayed.Inventory) != 0 {
		t.Error("empty replay should produce a fresh state")
	}
}
