package engine

import (
	"github.com/jwebster45206/adventure-engine/pkg/state"
	"github.com/jwebster45206/adventure-engine/pkg/world"
)

// SceneView is the read-only description of what the player currently
// sees. Building a view never mutates state.
type SceneView struct {
	Scene       string       `json:"scene"`
	Description string       `json:"description,omitempty"`
	Background  string       `json:"background,omitempty"`
	Exits       []ExitView   `json:"exits,omitempty"`
	Items       []ItemView   `json:"items,omitempty"`
	Options     []OptionView `json:"options,omitempty"`
	Inventory   []string     `json:"inventory,omitempty"`
	Capacity    int          `json:"capacity"`
	Points      int          `json:"points"`
}

type ExitView struct {
	Direction string `json:"direction"`
	Target    string `json:"target,omitempty"` // Admin only
	Hidden    bool   `json:"hidden,omitempty"` // Admin only: not yet visible to the player
}

type ItemView struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Hidden      bool   `json:"hidden,omitempty"`
}

type OptionView struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Selected    bool   `json:"selected,omitempty"`
	Hidden      bool   `json:"hidden,omitempty"`
}

// View builds the current scene view. Builder mode (isAdmin) includes
// hidden targets and exit destinations; players only see what the
// reveal rules allow.
func (e *Engine) View(ps *state.PlayerState, isAdmin bool) SceneView {
	sc, _ := e.world.Scene(ps.CurrentScene)

	view := SceneView{
		Scene:       ps.CurrentScene,
		Description: sc.Description,
		Background:  sc.Background,
		Inventory:   ps.Inventory,
		Capacity:    e.Capacity(ps),
		Points:      ps.Points,
	}

	for _, exit := range sc.Exits {
		key := world.TargetKey(world.TargetExit, ps.CurrentScene, exit.Direction)
		visible := e.visible(ps, key, exit.Condition)
		if !visible && !isAdmin {
			continue
		}
		ev := ExitView{Direction: exit.Direction, Hidden: !visible}
		if isAdmin {
			ev.Target = exit.Target
		}
		view.Exits = append(view.Exits, ev)
	}

	for _, si := range sc.Items {
		if ps.HasItem(si.Item) {
			// Taken items are gone from the scene until dropped.
			continue
		}
		key := world.TargetKey(world.TargetItem, ps.CurrentScene, si.Item)
		visible := e.visible(ps, key, si.Condition)
		if !visible && !isAdmin {
			continue
		}
		view.Items = append(view.Items, ItemView{
			Name:        si.Item,
			Description: e.world.Items[si.Item].Description,
			Hidden:      !visible,
		})
	}

	for _, opt := range sc.Options {
		key := world.TargetKey(world.TargetOption, ps.CurrentScene, opt.Name)
		visible := e.visible(ps, key, opt.Condition)
		if !visible && !isAdmin {
			continue
		}
		view.Options = append(view.Options, OptionView{
			Name:        opt.Name,
			Description: opt.Description,
			Selected:    ps.HasSelectedOption(opt.Name),
			Hidden:      !visible,
		})
	}

	return view
}
