package world

import (
	"encoding/json"
	"fmt"

	"github.com/jwebster45206/adventure-engine/pkg/conditionals"
)

// DefaultInventoryCapacity is the base inventory size when a world
// definition does not set inventory_capacity.
const DefaultInventoryCapacity = 3

// LoadError describes why a world definition was rejected.
// A definition that fails validation is never partially loaded.
type LoadError struct {
	Reason   string
	Location string // e.g. "scene keeper_cottage, exit up"
}

func (e *LoadError) Error() string {
	if e.Location == "" {
		return "invalid world definition: " + e.Reason
	}
	return fmt.Sprintf("invalid world definition at %s: %s", e.Location, e.Reason)
}

func loadErr(location, format string, args ...any) *LoadError {
	return &LoadError{Reason: fmt.Sprintf(format, args...), Location: location}
}

// Load parses and validates a world definition. It is a pure function:
// definition bytes in, immutable graph or *LoadError out. Caching of
// the result is the caller's concern.
func Load(definition []byte) (*World, error) {
	var w World
	if err := json.Unmarshal(definition, &w); err != nil {
		return nil, &LoadError{Reason: "malformed JSON: " + err.Error()}
	}

	if err := w.validate(); err != nil {
		return nil, err
	}

	w.buildIndexes()
	return &w, nil
}

func (w *World) validate() error {
	if w.Name == "" {
		return loadErr("", "world name is required")
	}
	if w.InventoryCapacity < 0 {
		return loadErr("", "inventory_capacity must be a positive integer, got %d", w.InventoryCapacity)
	}
	if len(w.Scenes) == 0 {
		return loadErr("", "world has no scenes")
	}
	if w.OpeningScene == "" {
		return loadErr("", "opening_scene is required")
	}
	if _, ok := w.Scenes[w.OpeningScene]; !ok {
		return loadErr("", "opening_scene %q does not exist", w.OpeningScene)
	}

	// Map keys are authoritative; an embedded name must agree with its key.
	for name, item := range w.Items {
		loc := "item " + name
		if item.Name != "" && item.Name != name {
			return loadErr(loc, "item name %q does not match its key", item.Name)
		}
		if item.Points < 0 {
			return loadErr(loc, "points must be >= 0, got %d", item.Points)
		}
		if item.InventoryIncrease < 0 {
			return loadErr(loc, "inventory_increase must be >= 0, got %d", item.InventoryIncrease)
		}
	}

	placed := make(map[string]string) // item → scene
	for sceneName, sc := range w.Scenes {
		if sc.Name != "" && sc.Name != sceneName {
			return loadErr("scene "+sceneName, "scene name %q does not match its key", sc.Name)
		}
		if err := w.validateScene(sceneName, sc, placed); err != nil {
			return err
		}
	}

	return nil
}

func (w *World) validateScene(sceneName string, sc Scene, placed map[string]string) error {
	directions := make(map[string]bool)
	for _, exit := range sc.Exits {
		loc := fmt.Sprintf("scene %s, exit %s", sceneName, exit.Direction)
		if exit.Direction == "" {
			return loadErr("scene "+sceneName, "exit with empty direction")
		}
		if directions[exit.Direction] {
			return loadErr(loc, "duplicate exit direction")
		}
		directions[exit.Direction] = true

		if _, ok := w.Scenes[exit.Target]; !ok {
			return loadErr(loc, "target scene %q does not exist", exit.Target)
		}
		for _, item := range exit.Requires {
			if _, ok := w.Items[item]; !ok {
				return loadErr(loc, "required item %q is not in the catalog", item)
			}
		}
		if err := w.validateCondition(loc, exit.Condition); err != nil {
			return err
		}
	}

	for _, si := range sc.Items {
		loc := fmt.Sprintf("scene %s, item %s", sceneName, si.Item)
		if _, ok := w.Items[si.Item]; !ok {
			return loadErr(loc, "item is not in the catalog")
		}
		if prior, ok := placed[si.Item]; ok {
			return loadErr(loc, "item is already placed in scene %q; items may be placed only once", prior)
		}
		placed[si.Item] = sceneName
		if err := w.validateCondition(loc, si.Condition); err != nil {
			return err
		}
	}

	names := make(map[string]bool)
	for _, opt := range sc.Options {
		loc := fmt.Sprintf("scene %s, option %s", sceneName, opt.Name)
		if opt.Name == "" {
			return loadErr("scene "+sceneName, "option with empty name")
		}
		if names[opt.Name] {
			return loadErr(loc, "duplicate option name")
		}
		names[opt.Name] = true
		if opt.Points < 0 {
			return loadErr(loc, "points must be >= 0, got %d", opt.Points)
		}
		if opt.Effect != nil {
			if opt.Effect.Reveal != "" && opt.Effect.GrantItem != "" {
				return loadErr(loc, "effect may set reveal or grant_item, not both")
			}
			if opt.Effect.Reveal != "" {
				if err := w.validateTargetKey(loc, opt.Effect.Reveal); err != nil {
					return err
				}
			}
			if opt.Effect.GrantItem != "" {
				if _, ok := w.Items[opt.Effect.GrantItem]; !ok {
					return loadErr(loc, "granted item %q is not in the catalog", opt.Effect.GrantItem)
				}
			}
		}
		if err := w.validateCondition(loc, opt.Condition); err != nil {
			return err
		}
	}

	return nil
}

func (w *World) validateCondition(location string, c *conditionals.Condition) error {
	if c == nil {
		return nil
	}
	if c.IsEmpty() {
		return loadErr(location, "condition has no clauses")
	}
	for _, item := range c.RequiresItems {
		if _, ok := w.Items[item]; !ok {
			return loadErr(location, "condition requires item %q which is not in the catalog", item)
		}
	}
	for _, key := range c.RequiresRevealed {
		if err := w.validateTargetKey(location, key); err != nil {
			return err
		}
	}
	if c.RequiresOption != "" && !w.optionExists(c.RequiresOption) {
		return loadErr(location, "condition requires option %q which no scene offers", c.RequiresOption)
	}
	return nil
}

// validateTargetKey checks that a kind:scene:name key resolves to a
// real target in this world.
func (w *World) validateTargetKey(location, key string) error {
	kind, sceneName, name, err := ParseTargetKey(key)
	if err != nil {
		return loadErr(location, "%s", err.Error())
	}
	sc, ok := w.Scenes[sceneName]
	if !ok {
		return loadErr(location, "target key %q references unknown scene", key)
	}
	switch kind {
	case TargetItem:
		for _, si := range sc.Items {
			if si.Item == name {
				return nil
			}
		}
	case TargetExit:
		for _, exit := range sc.Exits {
			if exit.Direction == name {
				return nil
			}
		}
	case TargetOption:
		for _, opt := range sc.Options {
			if opt.Name == name {
				return nil
			}
		}
	}
	return loadErr(location, "target key %q does not resolve to a %s in scene %s", key, kind, sceneName)
}

func (w *World) optionExists(name string) bool {
	for _, sc := range w.Scenes {
		for _, opt := range sc.Options {
			if opt.Name == name {
				return true
			}
		}
	}
	return false
}

// buildIndexes precomputes the conditioned-target index and the item
// origin map. Called once after validation; the world is read-only
// from then on.
func (w *World) buildIndexes() {
	w.origins = make(map[string]string)
	for sceneName, sc := range w.Scenes {
		for _, si := range sc.Items {
			w.origins[si.Item] = sceneName
			if si.Condition != nil {
				w.conditioned = append(w.conditioned, ConditionedTarget{
					Key:       TargetKey(TargetItem, sceneName, si.Item),
					Scene:     sceneName,
					Condition: si.Condition,
				})
			}
		}
		for i := range sc.Exits {
			if sc.Exits[i].Condition != nil {
				w.conditioned = append(w.conditioned, ConditionedTarget{
					Key:       TargetKey(TargetExit, sceneName, sc.Exits[i].Direction),
					Scene:     sceneName,
					Condition: sc.Exits[i].Condition,
				})
			}
		}
		for i := range sc.Options {
			if sc.Options[i].Condition != nil {
				w.conditioned = append(w.conditioned, ConditionedTarget{
					Key:       TargetKey(TargetOption, sceneName, sc.Options[i].Name),
					Scene:     sceneName,
					Condition: sc.Options[i].Condition,
				})
			}
		}
	}
}
