package engine

import (
	"testing"
)

func TestViewPlayer(t *testing.T) {
	e := newTestEngine(t)
	ps := newTestState(t, e)

	view := e.View(ps, false)

	if view.Scene != "dock" || view.Description != "A weathered dock below the lighthouse." {
		t.Errorf("unexpected scene header: %q %q", view.Scene, view.Description)
	}
	if view.Capacity != 2 || view.Points != 0 {
		t.Errorf("capacity/points = %d/%d", view.Capacity, view.Points)
	}

	// The hidden cellar exit and the gated option are invisible.
	if len(view.Exits) != 2 {
		t.Fatalf("expected 2 visible exits, got %v", view.Exits)
	}
	for _, ex := range view.Exits {
		if ex.Direction == "down" {
			t.Error("hidden exit should not be listed for players")
		}
		if ex.Target != "" || ex.Hidden {
			t.Errorf("player exit view leaked admin fields: %+v", ex)
		}
	}
	if len(view.Options) != 1 || view.Options[0].Name != "pull_lever" {
		t.Errorf("expected only pull_lever, got %v", view.Options)
	}
	if len(view.Items) != 3 {
		t.Errorf("expected 3 items at the dock, got %v", view.Items)
	}
}

func TestViewOmitsHeldItems(t *testing.T) {
	e := newTestEngine(t)
	ps := newTestState(t, e)

	e.Take(ps, "brass_key")
	view := e.View(ps, false)

	for _, item := range view.Items {
		if item.Name == "brass_key" {
			t.Error("held item should not appear in the scene")
		}
	}
	if len(view.Inventory) != 1 || view.Inventory[0] != "brass_key" {
		t.Errorf("inventory = %v", view.Inventory)
	}

	// Dropping returns it to the scene listing.
	e.Drop(ps, "brass_key")
	view = e.View(ps, false)
	found := false
	for _, item := range view.Items {
		if item.Name == "brass_key" {
			found = true
		}
	}
	if !found {
		t.Error("dropped item should reappear in the scene")
	}
}

func TestViewAdminSeesHidden(t *testing.T) {
	e := newTestEngine(t)
	ps := newTestState(t, e)

	view := e.View(ps, true)

	var down *ExitView
	for i := range view.Exits {
		if view.Exits[i].Direction == "down" {
			down = &view.Exits[i]
		}
	}
	if down == nil {
		t.Fatal("admin view should include the hidden exit")
	}
	if !down.Hidden || down.Target != "cellar" {
		t.Errorf("hidden exit view = %+v", *down)
	}

	var gated *OptionView
	for i := range view.Options {
		if view.Options[i].Name == "signal_ship" {
			gated = &view.Options[i]
		}
	}
	if gated == nil || !gated.Hidden {
		t.Errorf("admin view should flag the gated option, got %v", view.Options)
	}

	// Admin visibility must not promote anything.
	if len(ps.Revealed) != 0 || len(ps.ProgressLog) != 0 {
		t.Error("building a view must not mutate state")
	}
}

func TestViewRevealedStaysVisible(t *testing.T) {
	e := newTestEngine(t)
	ps := newTestState(t, e)

	e.SelectOption(ps, "pull_lever")
	view := e.View(ps, false)

	found := false
	for _, ex := range view.Exits {
		if ex.Direction == "down" {
			found = true
		}
	}
	if !found {
		t.Error("revealed exit should be visible to players")
	}
}
