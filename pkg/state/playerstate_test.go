package state

import (
	"encoding/json"
	"testing"
)

func TestInventoryHelpers(t *testing.T) {
	ps := New("user1", "lighthouse_keep")

	if ps.HasItem("brass_key") {
		t.Error("fresh state should hold nothing")
	}

	ps.AddItem("brass_key")
	ps.AddItem("oil_can")
	if !ps.HasItem("brass_key") || !ps.HasItem("oil_can") {
		t.Error("added items should be held")
	}

	if !ps.RemoveItem("brass_key") {
		t.Error("RemoveItem should report success for a held item")
	}
	if ps.HasItem("brass_key") {
		t.Error("removed item should be gone")
	}
	if ps.RemoveItem("brass_key") {
		t.Error("RemoveItem should report failure for an unheld item")
	}
	if len(ps.Inventory) != 1 || ps.Inventory[0] != "oil_can" {
		t.Errorf("inventory = %v", ps.Inventory)
	}
}

func TestEventsSince(t *testing.T) {
	ps := New("user1", "lighthouse_keep")
	ps.Append(NewEvent(EventTaken, "dock"))
	ps.Append(NewEvent(EventMoved, "dock"))
	ps.Append(NewEvent(EventRevealed, "cellar"))

	if got := ps.EventsSince(0); len(got) != 3 {
		t.Errorf("EventsSince(0) = %d events", len(got))
	}
	if got := ps.EventsSince(2); len(got) != 1 || got[0].Kind != EventRevealed {
		t.Errorf("EventsSince(2) = %v", got)
	}
	if got := ps.EventsSince(3); got != nil {
		t.Errorf("EventsSince(3) = %v, expected nil", got)
	}
}

func TestEventIDsOrdered(t *testing.T) {
	prev := NewEvent(EventTaken, "dock")
	for i := 0; i < 50; i++ {
		next := NewEvent(EventTaken, "dock")
		if next.ID <= prev.ID {
			t.Fatalf("event IDs must be strictly increasing: %s then %s", prev.ID, next.ID)
		}
		prev = next
	}
}

func TestPlayerStateJSONRoundTrip(t *testing.T) {
	ps := New("user1", "lighthouse_keep")
	ps.CurrentScene = "dock"
	ps.AddItem("brass_key")
	ps.Revealed["exit:dock:down"] = true
	ps.SelectedOptions["pull_lever"] = true
	ps.Scored["brass_key"] = true
	ps.Points = 15
	ps.VisitedScenes["dock"] = true
	ev := NewEvent(EventTaken, "dock")
	ev.Item = "brass_key"
	ps.Append(ev)

	data, err := json.Marshal(ps)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded PlayerState
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded.CurrentScene != "dock" || decoded.Points != 15 {
		t.Errorf("decoded scene=%s points=%d", decoded.CurrentScene, decoded.Points)
	}
	if !decoded.HasItem("brass_key") || !decoded.IsRevealed("exit:dock:down") ||
		!decoded.HasSelectedOption("pull_lever") || !decoded.Scored["brass_key"] {
		t.Error("decoded state lost derived fields")
	}
	if len(decoded.ProgressLog) != 1 || decoded.ProgressLog[0].ID != ev.ID {
		t.Errorf("decoded log = %v", decoded.ProgressLog)
	}
}
