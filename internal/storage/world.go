package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// World definition operations (filesystem-backed)

// ListWorlds returns a map of world names to game IDs (the filename
// without extension) for every definition under dataDir/worlds.
func (r *RedisStorage) ListWorlds(ctx context.Context) (map[string]string, error) {
	worldsDir := filepath.Join(r.dataDir, "worlds")
	worlds := make(map[string]string)

	err := filepath.WalkDir(worldsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		file, err := os.ReadFile(path)
		if err != nil {
			r.logger.Warn("Failed to read world file", "path", path, "error", err)
			return nil
		}

		// Only the name field is needed for the listing; full
		// validation happens when the world is loaded for play.
		var header struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(file, &header); err != nil || header.Name == "" {
			r.logger.Warn("Failed to unmarshal world file", "path", path, "error", err)
			return nil
		}

		gameID := strings.TrimSuffix(filepath.Base(path), ".json")
		worlds[header.Name] = gameID
		return nil
	})

	if err != nil {
		r.logger.Error("Failed to walk worlds directory", "error", err)
		return nil, fmt.Errorf("failed to list worlds: %w", err)
	}

	return worlds, nil
}

// GetWorldDefinition returns the raw definition bytes for a game.
func (r *RedisStorage) GetWorldDefinition(ctx context.Context, gameID string) ([]byte, error) {
	path := filepath.Join(r.dataDir, "worlds", gameID+".json")

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("world not found: %s", gameID)
		}
		return nil, fmt.Errorf("failed to read world file: %w", err)
	}

	return file, nil
}
