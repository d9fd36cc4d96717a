package conditionals

// Condition gates the visibility of a hidden item, exit, or option.
// All populated clauses must hold (conjunction only); an empty clause
// is ignored. A Condition with no clauses is invalid and is rejected
// by the world loader.
type Condition struct {
	RequiresItems    []string `json:"requires_items,omitempty"`    // All must be held
	RequiresRevealed []string `json:"requires_revealed,omitempty"` // Target keys (kind:scene:name) that must already be revealed
	RequiresOption   string   `json:"requires_option,omitempty"`   // Option that must have been selected
}

// IsEmpty reports whether the condition has no clauses at all.
func (c *Condition) IsEmpty() bool {
	return c == nil || (len(c.RequiresItems) == 0 &&
		len(c.RequiresRevealed) == 0 &&
		c.RequiresOption == "")
}

// References reports whether the condition names item in its
// requires_items clause. Used to find conditions triggered by "use".
func (c *Condition) References(item string) bool {
	if c == nil {
		return false
	}
	for _, name := range c.RequiresItems {
		if name == item {
			return true
		}
	}
	return false
}

// StateView provides the minimal interface needed to evaluate conditions.
// This avoids an import cycle with the state package.
type StateView interface {
	HasItem(name string) bool
	IsRevealed(targetKey string) bool
	HasSelectedOption(name string) bool
}

// Satisfied checks whether every clause of the condition holds against
// the player state. A nil condition is always satisfied; an empty
// condition never is.
func Satisfied(c *Condition, view StateView) bool {
	if c == nil {
		return true
	}
	if c.IsEmpty() {
		return false
	}

	for _, item := range c.RequiresItems {
		if !view.HasItem(item) {
			return false
		}
	}

	for _, key := range c.RequiresRevealed {
		if !view.IsRevealed(key) {
			return false
		}
	}

	if c.RequiresOption != "" && !view.HasSelectedOption(c.RequiresOption) {
		return false
	}

	return true
}
