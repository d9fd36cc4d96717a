package world

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/adventure-engine/pkg/conditionals"
)

// TargetKind identifies what kind of hidden thing a reveal target points at.
type TargetKind string

const (
	TargetItem   TargetKind = "item"
	TargetExit   TargetKind = "exit"
	TargetOption TargetKind = "option"
)

// TargetKey builds the canonical key for a revealable target.
// Keys have the form "kind:scene:name" and are what the player state's
// revealed set and the requires_revealed clauses refer to.
func TargetKey(kind TargetKind, scene, name string) string {
	return string(kind) + ":" + scene + ":" + name
}

// ParseTargetKey splits a target key back into its parts.
func ParseTargetKey(key string) (kind TargetKind, scene, name string, err error) {
	parts := strings.SplitN(key, ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", fmt.Errorf("malformed target key %q, expected kind:scene:name", key)
	}
	kind = TargetKind(parts[0])
	if kind != TargetItem && kind != TargetExit && kind != TargetOption {
		return "", "", "", fmt.Errorf("unknown target kind %q in key %q", parts[0], key)
	}
	return kind, parts[1], parts[2], nil
}

// Item is a catalog entry, global across a game.
type Item struct {
	Name                string `json:"name"` // Also the key in the catalog map
	Description         string `json:"description,omitempty"`
	Points              int    `json:"points,omitempty"`               // Awarded on first acquisition
	IsChallengeReward   bool   `json:"is_challenge_reward,omitempty"`  // Reward for completing a challenge
	InventoryIncrease   int    `json:"inventory_increase,omitempty"`   // Capacity granted while held
	UselessNotification string `json:"useless_notification,omitempty"` // Shown when used with no effect
}

// SceneItem places a catalog item in a scene, optionally hidden behind
// a reveal condition.
type SceneItem struct {
	Item      string                  `json:"item"`
	Condition *conditionals.Condition `json:"condition,omitempty"`
}

// Exit connects a scene to a target scene in a given direction.
// Direction is "north"/"south"/"east"/"west" or any named passage.
type Exit struct {
	Direction      string                  `json:"direction"`
	Target         string                  `json:"target"`
	Requires       []string                `json:"requires,omitempty"`        // Items that must all be held to traverse
	SuccessMessage string                  `json:"success_message,omitempty"` // Shown after traversal
	DelayMS        int                     `json:"delay_ms,omitempty"`        // Display delay for the success message
	Condition      *conditionals.Condition `json:"condition,omitempty"`       // Hidden until revealed
}

// OptionEffect is the tagged effect applied when an option is selected.
// At most one field is set; an empty effect is a no-op beyond points.
type OptionEffect struct {
	Reveal    string `json:"reveal,omitempty"`     // Target key to promote into the revealed set
	GrantItem string `json:"grant_item,omitempty"` // Catalog item added to inventory
}

// Option is a non-directional choice offered in a scene, such as a
// puzzle branch.
type Option struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description,omitempty"`
	Points      int                     `json:"points,omitempty"`
	Effect      *OptionEffect           `json:"effect,omitempty"`
	Condition   *conditionals.Condition `json:"condition,omitempty"` // Hidden until revealed
}

// Scene is a node in the scene graph.
type Scene struct {
	Name        string      `json:"name"` // Also the key in the scenes map
	Description string      `json:"description,omitempty"`
	Background  string      `json:"background,omitempty"` // Background asset reference
	Exits       []Exit      `json:"exits,omitempty"`      // Ordered
	Items       []SceneItem `json:"items,omitempty"`
	Options     []Option    `json:"options,omitempty"`
}

// World is the immutable, validated scene graph for one game.
// It is read-only after Load and safe to share across goroutines.
type World struct {
	Name              string           `json:"name"`
	Description       string           `json:"description,omitempty"`
	OpeningScene      string           `json:"opening_scene"`
	InventoryCapacity int              `json:"inventory_capacity,omitempty"` // Base capacity; defaults to 3
	Items             map[string]Item  `json:"items,omitempty"`
	Scenes            map[string]Scene `json:"scenes"`

	// Index of every condition-gated target, built at load time.
	conditioned []ConditionedTarget
	// Item name → scene it is placed in. Items are placed at most once,
	// so a dropped item always returns to a single origin scene.
	origins map[string]string
}

// ConditionedTarget pairs a revealable target with its condition.
type ConditionedTarget struct {
	Key       string
	Scene     string
	Condition *conditionals.Condition
}

// Scene returns the named scene.
func (w *World) Scene(name string) (Scene, bool) {
	s, ok := w.Scenes[name]
	return s, ok
}

// FindExit returns the exit matching direction in the named scene.
func (w *World) FindExit(sceneName, direction string) (*Exit, bool) {
	sc, ok := w.Scenes[sceneName]
	if !ok {
		return nil, false
	}
	for i := range sc.Exits {
		if sc.Exits[i].Direction == direction {
			return &sc.Exits[i], true
		}
	}
	return nil, false
}

// FindOption returns the named option in the named scene.
func (w *World) FindOption(sceneName, optionName string) (*Option, bool) {
	sc, ok := w.Scenes[sceneName]
	if !ok {
		return nil, false
	}
	for i := range sc.Options {
		if sc.Options[i].Name == optionName {
			return &sc.Options[i], true
		}
	}
	return nil, false
}

// FindSceneItem returns the placement of itemName in the named scene.
func (w *World) FindSceneItem(sceneName, itemName string) (*SceneItem, bool) {
	sc, ok := w.Scenes[sceneName]
	if !ok {
		return nil, false
	}
	for i := range sc.Items {
		if sc.Items[i].Item == itemName {
			return &sc.Items[i], true
		}
	}
	return nil, false
}

// ItemOrigin returns the scene an item is placed in, if any.
func (w *World) ItemOrigin(itemName string) (string, bool) {
	scene, ok := w.origins[itemName]
	return scene, ok
}

// ConditionedTargets returns every condition-gated target in the world.
func (w *World) ConditionedTargets() []ConditionedTarget {
	return w.conditioned
}

// SceneConditionedTargets returns the condition-gated targets belonging
// to one scene. Used for the eager reveal pass on scene entry.
func (w *World) SceneConditionedTargets(sceneName string) []ConditionedTarget {
	var targets []ConditionedTarget
	for _, ct := range w.conditioned {
		if ct.Scene == sceneName {
			targets = append(targets, ct)
		}
	}
	return targets
}

// BaseCapacity returns the base inventory capacity for the world.
func (w *World) BaseCapacity() int {
	if w.InventoryCapacity == 0 {
		return DefaultInventoryCapacity
	}
	return w.InventoryCapacity
}
