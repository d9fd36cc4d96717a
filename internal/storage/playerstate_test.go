package storage

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/jwebster45206/adventure-engine/pkg/state"
)

func setupTestRedis(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	store := NewRedisStorage(mr.Addr(), t.TempDir(), logger)
	return store, mr
}

func TestSaveAndLoadPlayerState(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer mr.Close()
	defer func() { _ = store.Close() }()

	ctx := context.Background()

	ps := state.New("user1", "lighthouse_keep")
	ps.CurrentScene = "dock"
	ps.AddItem("brass_key")
	ps.Points = 5
	ps.Append(state.NewEvent(state.EventTaken, "dock"))

	if err := store.SavePlayerState(ctx, ps); err != nil {
		t.Fatalf("Failed to save player state: %v", err)
	}
	if ps.Version != 1 {
		t.Errorf("expected version bump to 1, got %d", ps.Version)
	}

	loaded, err := store.LoadPlayerState(ctx, "lighthouse_keep", "user1")
	if err != nil {
		t.Fatalf("Failed to load player state: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected a stored state")
	}
	if loaded.CurrentScene != "dock" || loaded.Points != 5 || !loaded.HasItem("brass_key") {
		t.Errorf("loaded state does not match saved: %+v", loaded)
	}
	if len(loaded.ProgressLog) != 1 {
		t.Errorf("expected 1 log entry, got %d", len(loaded.ProgressLog))
	}
	if loaded.Version != 1 {
		t.Errorf("expected stored version 1, got %d", loaded.Version)
	}
}

func TestLoadPlayerStateNotFound(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer mr.Close()
	defer func() { _ = store.Close() }()

	loaded, err := store.LoadPlayerState(context.Background(), "lighthouse_keep", "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded != nil {
		t.Error("expected nil state for an unknown player")
	}
}

func TestSavePlayerStateVersionConflict(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer mr.Close()
	defer func() { _ = store.Close() }()

	ctx := context.Background()

	ps := state.New("user1", "lighthouse_keep")
	ps.CurrentScene = "dock"
	if err := store.SavePlayerState(ctx, ps); err != nil {
		t.Fatalf("initial save failed: %v", err)
	}

	// Two writers load the same snapshot.
	a, err := store.LoadPlayerState(ctx, "lighthouse_keep", "user1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	b, err := store.LoadPlayerState(ctx, "lighthouse_keep", "user1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	a.Points = 10
	if err := store.SavePlayerState(ctx, a); err != nil {
		t.Fatalf("first writer should win: %v", err)
	}

	b.Points = 99
	err = store.SavePlayerState(ctx, b)
	if !errors.Is(err, ErrConflict) {
		t.Errorf("second writer got %v, expected ErrConflict", err)
	}

	// A stale fresh state cannot clobber an existing one either.
	fresh := state.New("user1", "lighthouse_keep")
	if err := store.SavePlayerState(ctx, fresh); !errors.Is(err, ErrConflict) {
		t.Errorf("fresh save over existing state got %v, expected ErrConflict", err)
	}
}

func TestDeletePlayerState(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer mr.Close()
	defer func() { _ = store.Close() }()

	ctx := context.Background()

	ps := state.New("user1", "lighthouse_keep")
	if err := store.SavePlayerState(ctx, ps); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.DeletePlayerState(ctx, "lighthouse_keep", "user1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	loaded, err := store.LoadPlayerState(ctx, "lighthouse_keep", "user1")
	if err != nil || loaded != nil {
		t.Errorf("expected state gone after delete, got %v / %v", loaded, err)
	}

	// Deleting an absent state is a no-op.
	if err := store.DeletePlayerState(ctx, "lighthouse_keep", "user1"); err != nil {
		t.Errorf("delete of absent state failed: %v", err)
	}
}

func TestListWorldsAndGetDefinition(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	dataDir := t.TempDir()
	worldsDir := filepath.Join(dataDir, "worlds")
	if err := os.MkdirAll(worldsDir, 0o755); err != nil {
		t.Fatalf("failed to create worlds dir: %v", err)
	}

	def := []byte(`{"name": "Lighthouse Keep", "opening_scene": "dock", "scenes": {"dock": {}}}`)
	if err := os.WriteFile(filepath.Join(worldsDir, "lighthouse_keep.json"), def, 0o644); err != nil {
		t.Fatalf("failed to write world file: %v", err)
	}
	// Files without a name field are skipped, not fatal.
	if err := os.WriteFile(filepath.Join(worldsDir, "broken.json"), []byte(`{`), 0o644); err != nil {
		t.Fatalf("failed to write world file: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	store := NewRedisStorage(mr.Addr(), dataDir, logger)
	defer func() { _ = store.Close() }()

	worlds, err := store.ListWorlds(context.Background())
	if err != nil {
		t.Fatalf("ListWorlds failed: %v", err)
	}
	if len(worlds) != 1 || worlds["Lighthouse Keep"] != "lighthouse_keep" {
		t.Errorf("unexpected worlds map: %v", worlds)
	}

	data, err := store.GetWorldDefinition(context.Background(), "lighthouse_keep")
	if err != nil {
		t.Fatalf("GetWorldDefinition failed: %v", err)
	}
	if string(data) != string(def) {
		t.Error("definition bytes should round-trip unchanged")
	}

	if _, err := store.GetWorldDefinition(context.Background(), "atlantis"); err == nil {
		t.Error("expected an error for an unknown world")
	}
}
