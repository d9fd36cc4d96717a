//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/adventure-engine/internal/progression"
	"github.com/jwebster45206/adventure-engine/pkg/engine"
)

// These tests exercise a running API end to end. Start the stack first
// (docker-compose up -d) and run with:
//
//	go test -tags integration ./integration/...
//
// The lighthouse_keep world from data/worlds must be deployed.

var (
	apiBaseURL string
	client     *http.Client
)

func TestMain(m *testing.M) {
	apiBaseURL = os.Getenv("API_BASE_URL")
	if apiBaseURL == "" {
		apiBaseURL = "http://localhost:8080"
	}
	client = &http.Client{Timeout: 30 * time.Second}

	fmt.Printf("Running Adventure Engine Integration Tests\n")
	fmt.Printf("   API Base URL: %s\n", apiBaseURL)

	os.Exit(m.Run())
}

func apply(t *testing.T, req progression.ActionRequest) *progression.ActionResult {
	t.Helper()
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := client.Post(apiBaseURL+"/v1/actions", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /v1/actions: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /v1/actions returned %d: %s", resp.StatusCode, string(data))
	}

	var result progression.ActionResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	return &result
}

func step(t *testing.T, req progression.ActionRequest, want engine.OutcomeKind) *progression.ActionResult {
	t.Helper()
	result := apply(t, req)
	if result.Outcome.Kind != want {
		t.Fatalf("%s %s%s%s = %v, expected %v",
			req.Action, req.Direction, req.Item, req.Option, result.Outcome.Kind, want)
	}
	return result
}

// TestLighthouseWalkthrough plays the lighthouse world from the dock to
// the lit lamp, checking outcomes and the final score along the way.
func TestLighthouseWalkthrough(t *testing.T) {
	const gameID = "lighthouse_keep"
	userID := "integration-" + uuid.New().String()

	key := func() progression.ActionRequest {
		return progression.ActionRequest{UserID: userID, GameID: gameID}
	}
	move := func(dir string) progression.ActionRequest {
		r := key()
		r.Action = progression.ActionMove
		r.Direction = dir
		return r
	}
	take := func(item string) progression.ActionRequest {
		r := key()
		r.Action = progression.ActionTake
		r.Item = item
		return r
	}
	choose := func(opt string) progression.ActionRequest {
		r := key()
		r.Action = progression.ActionSelectOption
		r.Option = opt
		return r
	}

	// The tower stair is locked until the key is found in the cottage.
	step(t, take("oil_can"), engine.OutcomeTaken)
	step(t, move("north"), engine.OutcomeMoved)

	blocked := step(t, move("up"), engine.OutcomeBlocked)
	if len(blocked.Outcome.Missing) != 1 || blocked.Outcome.Missing[0] != "brass_key" {
		t.Fatalf("blocked stair missing = %v", blocked.Outcome.Missing)
	}

	step(t, take("brass_key"), engine.OutcomeTaken)
	step(t, take("satchel"), engine.OutcomeTaken)

	// The cellar is hidden until the lever is pulled.
	step(t, move("down"), engine.OutcomeNoSuchExit)
	lever := step(t, choose("pull_lever"), engine.OutcomeOption)
	if lever.Outcome.Points != 10 {
		t.Fatalf("pull_lever awarded %d points", lever.Outcome.Points)
	}
	step(t, move("down"), engine.OutcomeMoved)

	chest := step(t, choose("open_chest"), engine.OutcomeOption)
	if chest.Outcome.Points != 25 {
		t.Fatalf("open_chest awarded %d points", chest.Outcome.Points)
	}
	step(t, move("up"), engine.OutcomeMoved)

	// Holding the oil can reveals the spare lens on entering the lamp room.
	moved := step(t, move("up"), engine.OutcomeMoved)
	if moved.Outcome.Message == "" {
		t.Fatal("expected the stair success message")
	}
	step(t, take("spare_lens"), engine.OutcomeTaken)

	final := step(t, choose("light_the_lamp"), engine.OutcomeOption)
	if final.State.Points != 5+10+25+10+50 {
		t.Fatalf("final score = %d", final.State.Points)
	}

	// The audit endpoint must agree with what we just played.
	req, err := http.NewRequest(http.MethodGet,
		fmt.Sprintf("%s/v1/progress?game_id=%s&user_id=%s", apiBaseURL, gameID, userID), nil)
	if err != nil {
		t.Fatalf("build progress request: %v", err)
	}
	req.Header.Set("X-Is-Admin", "true")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("GET /v1/progress: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /v1/progress returned %d", resp.StatusCode)
	}

	var report progression.ProgressReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("parse progress report: %v", err)
	}
	if !report.Consistent {
		t.Error("replayed state disagrees with stored state")
	}
}
