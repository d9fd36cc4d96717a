// Package progression owns the canonical player state per
// (user, game) key. It loads the scene graph, serializes mutations
// per key, routes actions to the resolvers, and persists the result.
package progression

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jwebster45206/adventure-engine/internal/storage"
	"github.com/jwebster45206/adventure-engine/pkg/engine"
	"github.com/jwebster45206/adventure-engine/pkg/state"
	"github.com/jwebster45206/adventure-engine/pkg/world"
)

var (
	// ErrWorldNotFound means no definition exists for the game ID.
	ErrWorldNotFound = errors.New("world not found")

	// ErrStoreConflict means the per-key serialization invariant was
	// violated. It is an internal fault, surfaced to callers as a 5xx.
	ErrStoreConflict = errors.New("player state store conflict")
)

// Action names a player verb.
type Action string

const (
	ActionMove         Action = "move"
	ActionTake         Action = "take"
	ActionUse          Action = "use"
	ActionDrop         Action = "drop"
	ActionSelectOption Action = "select_option"
)

// ActionRequest is the transport-agnostic request contract: a key, a
// verb, and the verb's payload.
type ActionRequest struct {
	UserID    string `json:"user_id"`
	GameID    string `json:"game_id"`
	Action    Action `json:"action"`
	Direction string `json:"direction,omitempty"` // move
	Item      string `json:"item,omitempty"`      // take / use / drop
	Option    string `json:"option,omitempty"`    // select_option
}

// Validate checks that the request names a key, a known action, and
// the payload that action needs.
func (req *ActionRequest) Validate() error {
	if req.UserID == "" || req.GameID == "" {
		return errors.New("user_id and game_id are required")
	}
	switch req.Action {
	case ActionMove:
		if req.Direction == "" {
			return errors.New("direction is required for move")
		}
	case ActionTake, ActionUse, ActionDrop:
		if req.Item == "" {
			return fmt.Errorf("item is required for %s", req.Action)
		}
	case ActionSelectOption:
		if req.Option == "" {
			return errors.New("option is required for select_option")
		}
	default:
		return fmt.Errorf("unknown action %q", req.Action)
	}
	return nil
}

// ActionResult pairs the terminal outcome with the committed state
// snapshot.
type ActionResult struct {
	Outcome engine.Outcome     `json:"outcome"`
	State   *state.PlayerState `json:"state"`
}

// ProgressReport is the builder-mode audit view: the raw log, the
// state reconstructed from it, and whether that reconstruction agrees
// with the stored snapshot.
type ProgressReport struct {
	Log        []state.ProgressEvent `json:"log"`
	Replayed   *state.PlayerState    `json:"replayed"`
	Stored     *state.PlayerState    `json:"stored"`
	Consistent bool                  `json:"consistent"`
}

// ProgressPublisher broadcasts newly committed events. Implemented by
// events.Broadcaster; nil disables broadcasting.
type ProgressPublisher interface {
	PublishProgress(ctx context.Context, gameID, userID string, progress []state.ProgressEvent)
}

// Service coordinates storage, the scene graph cache, and the per-key
// critical sections.
type Service struct {
	storage   storage.Storage
	logger    *slog.Logger
	locks     *keyLock
	publisher ProgressPublisher

	mu      sync.RWMutex
	engines map[string]*engine.Engine // game ID → engine over its immutable world
}

// NewService creates a progression service on top of a storage backend.
func NewService(st storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: st,
		logger:  logger,
		locks:   newKeyLock(),
		engines: make(map[string]*engine.Engine),
	}
}

// WithPublisher sets the progress event publisher.
// Returns the Service for method chaining.
func (s *Service) WithPublisher(p ProgressPublisher) *Service {
	s.publisher = p
	return s
}

func stateKey(gameID, userID string) string {
	return gameID + ":" + userID
}

// Engine returns the cached engine for a game, loading and validating
// the world definition on first use. The graph is immutable afterward
// and shared by every request for that game.
func (s *Service) Engine(ctx context.Context, gameID string) (*engine.Engine, error) {
	s.mu.RLock()
	eng, ok := s.engines[gameID]
	s.mu.RUnlock()
	if ok {
		return eng, nil
	}

	definition, err := s.storage.GetWorldDefinition(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrWorldNotFound, gameID)
	}

	w, err := world.Load(definition)
	if err != nil {
		// A malformed definition refuses to serve the game at all.
		return nil, fmt.Errorf("failed to load world %s: %w", gameID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.engines[gameID]; ok {
		return cached, nil
	}
	eng = engine.New(w, s.logger)
	s.engines[gameID] = eng
	s.logger.Info("World loaded", "game_id", gameID, "world", w.Name, "scenes", len(w.Scenes))
	return eng, nil
}

// Apply runs one action to its terminal outcome inside the key's
// critical section. The state either fully applies and persists with
// its new log entries, or is left untouched.
func (s *Service) Apply(ctx context.Context, req *ActionRequest) (*ActionResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	eng, err := s.Engine(ctx, req.GameID)
	if err != nil {
		return nil, err
	}

	release := s.locks.Acquire(stateKey(req.GameID, req.UserID))
	defer release()

	ps, err := s.loadOrCreate(ctx, eng, req.GameID, req.UserID)
	if err != nil {
		return nil, err
	}

	logged := len(ps.ProgressLog)

	var outcome engine.Outcome
	switch req.Action {
	case ActionMove:
		outcome = eng.Move(ps, req.Direction)
	case ActionTake:
		outcome = eng.Take(ps, req.Item)
	case ActionUse:
		outcome = eng.Use(ps, req.Item)
	case ActionDrop:
		outcome = eng.Drop(ps, req.Item)
	case ActionSelectOption:
		outcome = eng.SelectOption(ps, req.Option)
	}

	// Rejected actions are not events: nothing changed, nothing to save.
	if appended := ps.EventsSince(logged); len(appended) > 0 {
		if err := s.storage.SavePlayerState(ctx, ps); err != nil {
			if errors.Is(err, storage.ErrConflict) {
				s.logger.Error("Per-key serialization violated",
					"game_id", req.GameID, "user_id", req.UserID)
				return nil, ErrStoreConflict
			}
			return nil, fmt.Errorf("failed to save player state: %w", err)
		}
		if s.publisher != nil {
			s.publisher.PublishProgress(ctx, req.GameID, req.UserID, appended)
		}
	}

	return &ActionResult{Outcome: outcome, State: ps}, nil
}

// View returns the current scene view without mutating state. A first
// view for an unseen key creates and persists the opening state.
func (s *Service) View(ctx context.Context, gameID, userID string, isAdmin bool) (*engine.SceneView, error) {
	eng, err := s.Engine(ctx, gameID)
	if err != nil {
		return nil, err
	}

	release := s.locks.Acquire(stateKey(gameID, userID))
	defer release()

	ps, err := s.loadOrCreate(ctx, eng, gameID, userID)
	if err != nil {
		return nil, err
	}

	view := eng.View(ps, isAdmin)
	return &view, nil
}

// Progress builds the builder-mode audit report for a key.
func (s *Service) Progress(ctx context.Context, gameID, userID string) (*ProgressReport, error) {
	eng, err := s.Engine(ctx, gameID)
	if err != nil {
		return nil, err
	}

	ps, err := s.storage.LoadPlayerState(ctx, gameID, userID)
	if err != nil {
		return nil, err
	}
	if ps == nil {
		return nil, fmt.Errorf("no player state for game %s user %s", gameID, userID)
	}

	replayed := eng.Replay(userID, gameID, ps.ProgressLog)
	return &ProgressReport{
		Log:        ps.ProgressLog,
		Replayed:   replayed,
		Stored:     ps,
		Consistent: engine.Consistent(ps, replayed),
	}, nil
}

// Reset deletes a player's state for a game. This is the only path
// that un-reveals targets or takes points away.
func (s *Service) Reset(ctx context.Context, gameID, userID string) error {
	release := s.locks.Acquire(stateKey(gameID, userID))
	defer release()

	if err := s.storage.DeletePlayerState(ctx, gameID, userID); err != nil {
		return fmt.Errorf("failed to reset player state: %w", err)
	}
	s.logger.Info("Player state reset", "game_id", gameID, "user_id", userID)
	return nil
}

// ListWorlds returns the available world definitions.
func (s *Service) ListWorlds(ctx context.Context) (map[string]string, error) {
	return s.storage.ListWorlds(ctx)
}

// loadOrCreate must be called inside the key's critical section.
func (s *Service) loadOrCreate(ctx context.Context, eng *engine.Engine, gameID, userID string) (*state.PlayerState, error) {
	ps, err := s.storage.LoadPlayerState(ctx, gameID, userID)
	if err != nil {
		return nil, err
	}
	if ps != nil {
		return ps, nil
	}

	ps = eng.NewPlayerState(userID, gameID)
	if err := s.storage.SavePlayerState(ctx, ps); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, ErrStoreConflict
		}
		return nil, fmt.Errorf("failed to save new player state: %w", err)
	}
	s.logger.Debug("Player state created",
		"game_id", gameID, "user_id", userID, "scene", ps.CurrentScene)
	return ps, nil
}
