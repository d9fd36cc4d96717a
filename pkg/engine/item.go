package engine

import (
	"github.com/jwebster45206/adventure-engine/pkg/conditionals"
	"github.com/jwebster45206/adventure-engine/pkg/state"
	"github.com/jwebster45206/adventure-engine/pkg/world"
)

// Take picks up an item placed and currently visible in the player's
// scene. Points are awarded on first acquisition only: re-taking a
// previously dropped item changes inventory but not the score, so
// take/drop cycles cannot farm points.
func (e *Engine) Take(ps *state.PlayerState, itemName string) Outcome {
	if ps.HasItem(itemName) {
		return Outcome{Kind: OutcomeAlreadyHeld}
	}

	placement, ok := e.world.FindSceneItem(ps.CurrentScene, itemName)
	if !ok {
		return Outcome{Kind: OutcomeNoSuchItem}
	}
	key := world.TargetKey(world.TargetItem, ps.CurrentScene, itemName)
	if !e.visible(ps, key, placement.Condition) {
		return Outcome{Kind: OutcomeNoSuchItem}
	}

	// Capacity is checked before the new item's own inventory_increase
	// applies; a full pack rejects the take rather than queueing it.
	if len(ps.Inventory) >= e.Capacity(ps) {
		return Outcome{Kind: OutcomeInventoryFull}
	}

	item := e.world.Items[itemName]
	ps.AddItem(itemName)

	var awarded int
	if !ps.Scored[itemName] {
		awarded = item.Points
		ps.Points += awarded
		ps.Scored[itemName] = true
	}

	ev := state.NewEvent(state.EventTaken, ps.CurrentScene)
	ev.Item = itemName
	ps.Append(ev)

	e.logger.Debug("Item taken",
		"user_id", ps.UserID, "game_id", ps.GameID,
		"item", itemName, "scene", ps.CurrentScene, "points", awarded)

	return Outcome{
		Kind:    OutcomeTaken,
		Message: item.Description,
		Points:  awarded,
	}
}

// Use applies a held item. It evaluates every reveal condition in the
// game that names the item as a trigger; newly satisfied conditions
// promote their targets. Using is never rejected once the item is
// held, only sometimes inert, and it never consumes the item.
func (e *Engine) Use(ps *state.PlayerState, itemName string) Outcome {
	if !ps.HasItem(itemName) {
		return Outcome{Kind: OutcomeNotHeld}
	}

	referenced := false
	var revealed []string
	ev := state.NewEvent(state.EventUsed, ps.CurrentScene)
	ev.Item = itemName
	ps.Append(ev)

	for _, ct := range e.world.ConditionedTargets() {
		if !ct.Condition.References(itemName) {
			continue
		}
		referenced = true
		if ps.IsRevealed(ct.Key) {
			continue
		}
		if conditionals.Satisfied(ct.Condition, ps) && e.promote(ps, ct.Key) {
			revealed = append(revealed, ct.Key)
		}
	}

	e.logger.Debug("Item used",
		"user_id", ps.UserID, "game_id", ps.GameID,
		"item", itemName, "scene", ps.CurrentScene, "revealed", revealed)

	if !referenced {
		return Outcome{
			Kind:    OutcomeNoEffect,
			Message: e.world.Items[itemName].UselessNotification,
		}
	}
	return Outcome{Kind: OutcomeUsed, Revealed: revealed}
}

// Drop returns a held item to its origin scene, where it is visible
// and can be re-taken. Capacity shrinks by the item's grant, but
// points earned from acquisition are kept.
func (e *Engine) Drop(ps *state.PlayerState, itemName string) Outcome {
	if !ps.RemoveItem(itemName) {
		return Outcome{Kind: OutcomeNotHeld}
	}

	ev := state.NewEvent(state.EventDropped, ps.CurrentScene)
	ev.Item = itemName
	ps.Append(ev)

	e.logger.Debug("Item dropped",
		"user_id", ps.UserID, "game_id", ps.GameID,
		"item", itemName, "scene", ps.CurrentScene)

	return Outcome{Kind: OutcomeDropped}
}
