package engine

import (
	"github.com/jwebster45206/adventure-engine/pkg/state"
	"github.com/jwebster45206/adventure-engine/pkg/world"
)

// SelectOption applies a non-directional choice offered by the current
// scene. The option must exist there and be currently visible.
//
// Re-selecting an already-selected option returns the same outcome
// with zero points and appends no event: nothing changed, so nothing
// is logged.
func (e *Engine) SelectOption(ps *state.PlayerState, optionName string) Outcome {
	opt, ok := e.world.FindOption(ps.CurrentScene, optionName)
	if !ok {
		return Outcome{Kind: OutcomeNoSuchOption}
	}
	key := world.TargetKey(world.TargetOption, ps.CurrentScene, optionName)
	if !e.visible(ps, key, opt.Condition) {
		return Outcome{Kind: OutcomeNoSuchOption}
	}

	if ps.HasSelectedOption(optionName) {
		return Outcome{Kind: OutcomeOption, Message: opt.Description}
	}

	// A grant that would overflow the pack rejects the whole option:
	// actions apply fully or not at all.
	if opt.Effect != nil && opt.Effect.GrantItem != "" &&
		!ps.HasItem(opt.Effect.GrantItem) &&
		len(ps.Inventory) >= e.Capacity(ps) {
		return Outcome{Kind: OutcomeInventoryFull}
	}

	ps.SelectedOptions[optionName] = true
	ps.Points += opt.Points

	ev := state.NewEvent(state.EventOption, ps.CurrentScene)
	ev.Option = optionName
	ps.Append(ev)

	awarded := opt.Points
	var revealed []string
	if opt.Effect != nil {
		if opt.Effect.Reveal != "" && e.promote(ps, opt.Effect.Reveal) {
			revealed = append(revealed, opt.Effect.Reveal)
		}
		if opt.Effect.GrantItem != "" && !ps.HasItem(opt.Effect.GrantItem) {
			awarded += e.grantItem(ps, opt.Effect.GrantItem)
		}
	}

	e.logger.Debug("Option selected",
		"user_id", ps.UserID, "game_id", ps.GameID,
		"option", optionName, "scene", ps.CurrentScene, "points", awarded)

	return Outcome{
		Kind:     OutcomeOption,
		Message:  opt.Description,
		Points:   awarded,
		Revealed: revealed,
	}
}

// grantItem adds an option-granted item to the inventory, scoring it
// like an acquisition, and returns the points awarded. No TAKEN event
// is logged: the OPTION event implies the grant, and replay re-applies
// it deterministically.
func (e *Engine) grantItem(ps *state.PlayerState, itemName string) int {
	ps.AddItem(itemName)
	if ps.Scored[itemName] {
		return 0
	}
	points := e.world.Items[itemName].Points
	ps.Points += points
	ps.Scored[itemName] = true
	return points
}
