package engine

import (
	"github.com/jwebster45206/adventure-engine/pkg/state"
)

// Replay reconstructs a player state purely from an event log. The log
// is the ground truth: for any state produced by the resolvers,
// replaying its log yields the same derived fields (scene, inventory,
// points, revealed, selected options, visited scenes).
//
// The scene graph is ambient input: point values, capacity grants and
// option effects live in the catalog, not in the events.
func (e *Engine) Replay(userID, gameID string, log []state.ProgressEvent) *state.PlayerState {
	ps := state.New(userID, gameID)
	ps.CurrentScene = e.world.OpeningScene
	ps.VisitedScenes[e.world.OpeningScene] = true

	for _, ev := range log {
		switch ev.Kind {
		case state.EventMoved:
			if exit, ok := e.world.FindExit(ev.Scene, ev.Direction); ok {
				ps.CurrentScene = exit.Target
				ps.VisitedScenes[exit.Target] = true
			}

		case state.EventTaken:
			if !ps.HasItem(ev.Item) {
				ps.AddItem(ev.Item)
			}
			if !ps.Scored[ev.Item] {
				ps.Points += e.world.Items[ev.Item].Points
				ps.Scored[ev.Item] = true
			}

		case state.EventDropped:
			ps.RemoveItem(ev.Item)

		case state.EventUsed:
			// Using never changes derived state; any reveals it caused
			// appear as their own REVEALED events.

		case state.EventRevealed:
			ps.Revealed[ev.Target] = true

		case state.EventOption:
			if ps.HasSelectedOption(ev.Option) {
				break
			}
			ps.SelectedOptions[ev.Option] = true
			if opt, ok := e.world.FindOption(ev.Scene, ev.Option); ok {
				ps.Points += opt.Points
				if opt.Effect != nil && opt.Effect.GrantItem != "" {
					if !ps.HasItem(opt.Effect.GrantItem) {
						ps.AddItem(opt.Effect.GrantItem)
					}
					if !ps.Scored[opt.Effect.GrantItem] {
						ps.Points += e.world.Items[opt.Effect.GrantItem].Points
						ps.Scored[opt.Effect.GrantItem] = true
					}
				}
				// Effect reveals are covered by the logged REVEALED event.
			}
		}
		ps.Append(ev)
	}

	return ps
}

// Consistent compares the derived fields of a stored state against its
// replay. Used by the builder progress view to verify store integrity.
func Consistent(stored, replayed *state.PlayerState) bool {
	if stored.CurrentScene != replayed.CurrentScene || stored.Points != replayed.Points {
		return false
	}
	if !sameSet(stored.Inventory, replayed.Inventory) {
		return false
	}
	return sameKeys(stored.Revealed, replayed.Revealed) &&
		sameKeys(stored.SelectedOptions, replayed.SelectedOptions) &&
		sameKeys(stored.VisitedScenes, replayed.VisitedScenes)
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]int, len(a))
	for _, s := range a {
		set[s]++
	}
	for _, s := range b {
		set[s]--
		if set[s] < 0 {
			return false
		}
	}
	return true
}

func sameKeys(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}
