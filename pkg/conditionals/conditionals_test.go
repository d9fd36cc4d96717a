package conditionals

import (
	"testing"
)

// mockStateView implements StateView for testing
type mockStateView struct {
	items    map[string]bool
	revealed map[string]bool
	options  map[string]bool
}

func (m *mockStateView) HasItem(name string) bool           { return m.items[name] }
func (m *mockStateView) IsRevealed(targetKey string) bool   { return m.revealed[targetKey] }
func (m *mockStateView) HasSelectedOption(name string) bool { return m.options[name] }

func TestSatisfied(t *testing.T) {
	tests := []struct {
		name      string
		condition *Condition
		view      *mockStateView
		expected  bool
	}{
		{
			name:      "nil condition is always satisfied",
			condition: nil,
			view:      &mockStateView{},
			expected:  true,
		},
		{
			name:      "empty condition is never satisfied",
			condition: &Condition{},
			view:      &mockStateView{items: map[string]bool{"lamp": true}},
			expected:  false,
		},
		{
			name: "single required item held",
			condition: &Condition{
				RequiresItems: []string{"brass_key"},
			},
			view:     &mockStateView{items: map[string]bool{"brass_key": true}},
			expected: true,
		},
		{
			name: "single required item not held",
			condition: &Condition{
				RequiresItems: []string{"brass_key"},
			},
			view:     &mockStateView{},
			expected: false,
		},
		{
			name: "all required items must be held",
			condition: &Condition{
				RequiresItems: []string{"brass_key", "oil_can"},
			},
			view:     &mockStateView{items: map[string]bool{"brass_key": true}},
			expected: false,
		},
		{
			name: "required reveal present",
			condition: &Condition{
				RequiresRevealed: []string{"exit:cellar:down"},
			},
			view:     &mockStateView{revealed: map[string]bool{"exit:cellar:down": true}},
			expected: true,
		},
		{
			name: "required reveal absent",
			condition: &Condition{
				RequiresRevealed: []string{"exit:cellar:down"},
			},
			view:     &mockStateView{},
			expected: false,
		},
		{
			name: "required option selected",
			condition: &Condition{
				RequiresOption: "pull_lever",
			},
			view:     &mockStateView{options: map[string]bool{"pull_lever": true}},
			expected: true,
		},
		{
			name: "required option not selected",
			condition: &Condition{
				RequiresOption: "pull_lever",
			},
			view:     &mockStateView{},
			expected: false,
		},
		{
			name: "conjunction of all clause types",
			condition: &Condition{
				RequiresItems:    []string{"oil_can"},
				RequiresRevealed: []string{"item:lantern_room:spare_lens"},
				RequiresOption:   "pull_lever",
			},
			view: &mockStateView{
				items:    map[string]bool{"oil_can": true},
				revealed: map[string]bool{"item:lantern_room:spare_lens": true},
				options:  map[string]bool{"pull_lever": true},
			},
			expected: true,
		},
		{
			name: "conjunction fails when one clause fails",
			condition: &Condition{
				RequiresItems:  []string{"oil_can"},
				RequiresOption: "pull_lever",
			},
			view: &mockStateView{
				items: map[string]bool{"oil_can": true},
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Satisfied(tt.condition, tt.view)
			if got != tt.expected {
				t.Errorf("Satisfied() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestIsEmpty(t *testing.T) {
	var nilCond *Condition
	if !nilCond.IsEmpty() {
		t.Error("nil condition should be empty")
	}
	if !(&Condition{}).IsEmpty() {
		t.Error("zero condition should be empty")
	}
	if (&Condition{RequiresItems: []string{"lamp"}}).IsEmpty() {
		t.Error("condition with items clause should not be empty")
	}
	if (&Condition{RequiresOption: "pull_lever"}).IsEmpty() {
		t.Error("condition with option clause should not be empty")
	}
}

func TestReferences(t *testing.T) {
	c := &Condition{RequiresItems: []string{"oil_can", "brass_key"}}
	if !c.References("oil_can") {
		t.Error("expected condition to reference oil_can")
	}
	if c.References("lamp") {
		t.Error("did not expect condition to reference lamp")
	}

	var nilCond *Condition
	if nilCond.References("oil_can") {
		t.Error("nil condition should reference nothing")
	}

	revealOnly := &Condition{RequiresRevealed: []string{"item:dock:oil_can"}}
	if revealOnly.References("oil_can") {
		t.Error("requires_revealed clauses are not item references")
	}
}
