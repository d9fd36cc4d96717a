package engine

import (
	"sort"

	"github.com/jwebster45206/adventure-engine/pkg/state"
	"github.com/jwebster45206/adventure-engine/pkg/world"
)

// Move attempts a directional transition from the current scene.
// A hidden exit whose condition is not met behaves as if it did not
// exist. Self-loop exits are legal and still logged.
func (e *Engine) Move(ps *state.PlayerState, direction string) Outcome {
	exit, ok := e.world.FindExit(ps.CurrentScene, direction)
	if !ok {
		return Outcome{Kind: OutcomeNoSuchExit}
	}

	key := world.TargetKey(world.TargetExit, ps.CurrentScene, direction)
	if !e.visible(ps, key, exit.Condition) {
		return Outcome{Kind: OutcomeNoSuchExit}
	}

	var missing []string
	for _, required := range exit.Requires {
		if !ps.HasItem(required) {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return Outcome{Kind: OutcomeBlocked, Missing: missing}
	}

	from := ps.CurrentScene
	ps.CurrentScene = exit.Target
	ps.VisitedScenes[exit.Target] = true

	ev := state.NewEvent(state.EventMoved, from)
	ev.Direction = direction
	ps.Append(ev)

	// Entering a scene eagerly promotes any of its gated targets whose
	// conditions are already satisfied.
	revealed := e.revealScene(ps, exit.Target)

	e.logger.Debug("Player moved",
		"user_id", ps.UserID, "game_id", ps.GameID,
		"from", from, "to", exit.Target, "direction", direction)

	return Outcome{
		Kind:     OutcomeMoved,
		Scene:    exit.Target,
		Message:  exit.SuccessMessage,
		DelayMS:  exit.DelayMS,
		Revealed: revealed,
	}
}
