// Package engine resolves player actions against an immutable scene
// graph and a mutable player state. Every accepted action runs to a
// terminal Outcome and, if it mutates state, appends matching events
// to the progress log. Rejections change nothing.
package engine

import (
	"log/slog"

	"github.com/jwebster45206/adventure-engine/pkg/conditionals"
	"github.com/jwebster45206/adventure-engine/pkg/state"
	"github.com/jwebster45206/adventure-engine/pkg/world"
)

// Engine binds resolvers to one game's scene graph. The graph is
// read-only, so a single Engine may serve concurrent requests as long
// as each PlayerState is mutated by one goroutine at a time (the
// progression store's per-key lock guarantees that).
type Engine struct {
	world  *world.World
	logger *slog.Logger
}

// New creates an engine for a loaded world.
func New(w *world.World, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{world: w, logger: logger}
}

// World returns the scene graph the engine resolves against.
func (e *Engine) World() *world.World {
	return e.world
}

// NewPlayerState creates a fresh state at the world's opening scene,
// with the eager reveal pass applied for scene entry.
func (e *Engine) NewPlayerState(userID, gameID string) *state.PlayerState {
	ps := state.New(userID, gameID)
	ps.CurrentScene = e.world.OpeningScene
	ps.VisitedScenes[e.world.OpeningScene] = true
	e.revealScene(ps, e.world.OpeningScene)
	return ps
}

// Capacity returns the player's current inventory capacity: the
// world's base plus the inventory_increase of every held item.
func (e *Engine) Capacity(ps *state.PlayerState) int {
	capacity := e.world.BaseCapacity()
	for _, name := range ps.Inventory {
		capacity += e.world.Items[name].InventoryIncrease
	}
	return capacity
}

// visible reports whether a condition-gated target should be shown:
// unconditioned targets always, revealed targets always (reveals are
// monotonic), otherwise whenever the condition is currently satisfied.
func (e *Engine) visible(ps *state.PlayerState, key string, c *conditionals.Condition) bool {
	if c == nil {
		return true
	}
	return ps.IsRevealed(key) || conditionals.Satisfied(c, ps)
}

// promote adds a target to the revealed set and logs it. Promoting an
// already-revealed target is a no-op, so the log never carries two
// REVEALED events for the same target.
func (e *Engine) promote(ps *state.PlayerState, key string) bool {
	if ps.IsRevealed(key) {
		return false
	}
	ps.Revealed[key] = true
	ev := state.NewEvent(state.EventRevealed, ps.CurrentScene)
	ev.Target = key
	ps.Append(ev)
	e.logger.Debug("Target revealed", "user_id", ps.UserID, "game_id", ps.GameID, "target", key)
	return true
}

// revealScene runs the eager reveal pass for a scene: any gated target
// in it whose condition is already satisfied is promoted immediately.
func (e *Engine) revealScene(ps *state.PlayerState, sceneName string) []string {
	var promoted []string
	for _, ct := range e.world.SceneConditionedTargets(sceneName) {
		if ps.IsRevealed(ct.Key) {
			continue
		}
		if conditionals.Satisfied(ct.Condition, ps) {
			if e.promote(ps, ct.Key) {
				promoted = append(promoted, ct.Key)
			}
		}
	}
	return promoted
}
