// Package backup produces and consumes the portable backup document. Import
// is all-or-nothing: every incoming game is migrated and checked before a
// single byte is written, and the stored collections are overwritten whole.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/skorat-app/skorat-core/internal/domain"
	"github.com/skorat-app/skorat-core/internal/migrate"
	"github.com/skorat-app/skorat-core/internal/obslog"
	"github.com/skorat-app/skorat-core/internal/store"
)

// FormatVersion tags the backup envelope itself, separate from the game
// schema version inside it.
const FormatVersion = 1

// Document is the backup envelope.
type Document struct {
	Version       int                  `json:"version"`
	ExportDate    string               `json:"exportDate"`
	SchemaVersion int                  `json:"schemaVersion"`
	Games         []*domain.GameState  `json:"games"`
	Profiles      []domain.UserProfile `json:"profiles"`
	Metadata      map[string]string    `json:"metadata,omitempty"`
}

// Service wires the two stores behind export/import.
type Service struct {
	games    *store.GameStore
	profiles *store.ProfileStore
}

func NewService(games *store.GameStore, profiles *store.ProfileStore) *Service {
	return &Service{games: games, profiles: profiles}
}

// Export snapshots everything into one document.
func (s *Service) Export(ctx context.Context) (*Document, error) {
	games, err := s.games.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("export games: %w", err)
	}
	profiles, err := s.profiles.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("export profiles: %w", err)
	}
	return &Document{
		Version:       FormatVersion,
		ExportDate:    time.Now().UTC().Format(time.RFC3339),
		SchemaVersion: migrate.CurrentSchemaVersion,
		Games:         games,
		Profiles:      profiles,
		Metadata:      map[string]string{"source": "skorat-core"},
	}, nil
}

// ExportJSON renders the document as indented JSON, share-sheet ready.
func (s *Service) ExportJSON(ctx context.Context) ([]byte, error) {
	doc, err := s.Export(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}

// ImportResult reports what an accepted import contained.
type ImportResult struct {
	Games    int
	Profiles int
}

// Import parses either the envelope shape or a legacy bare array of games,
// runs every incoming game through the migration pipeline, and overwrites
// the stored collections. Any parse or shape failure rejects the entire
// import with nothing written.
func (s *Service) Import(ctx context.Context, raw []byte) (*ImportResult, error) {
	rawGames, profiles, err := parsePayload(raw)
	if err != nil {
		obslog.L().Warn("import_rejected", zap.Error(err))
		return nil, err
	}

	games := make([]*domain.GameState, 0, len(rawGames))
	seen := make(map[string]bool, len(rawGames))
	for i, doc := range rawGames {
		if t, _ := doc["gameType"].(string); t == "" {
			return nil, fmt.Errorf("invalid backup: game %d missing gameType", i)
		}
		norm, merr := json.Marshal(migrate.Migrate(doc))
		if merr != nil {
			return nil, fmt.Errorf("invalid backup: game %d: %w", i, merr)
		}
		var g domain.GameState
		if uerr := json.Unmarshal(norm, &g); uerr != nil {
			return nil, fmt.Errorf("invalid backup: game %d: %w", i, uerr)
		}
		if g.ID == "" {
			return nil, fmt.Errorf("invalid backup: game %d missing id", i)
		}
		if seen[g.ID] {
			return nil, fmt.Errorf("invalid backup: duplicate game id %s", g.ID)
		}
		seen[g.ID] = true
		games = append(games, &g)
	}

	if err := s.games.ReplaceAll(ctx, games); err != nil {
		return nil, fmt.Errorf("import games: %w", err)
	}
	if err := s.profiles.ReplaceAll(ctx, profiles); err != nil {
		return nil, fmt.Errorf("import profiles: %w", err)
	}
	obslog.L().Info("import_applied",
		zap.Int("games", len(games)),
		zap.Int("profiles", len(profiles)),
	)
	return &ImportResult{Games: len(games), Profiles: len(profiles)}, nil
}

func parsePayload(raw []byte) ([]map[string]any, []domain.UserProfile, error) {
	// Envelope first; a bare array fails this decode and falls through.
	var env struct {
		Version  *int                 `json:"version"`
		Games    []map[string]any     `json:"games"`
		Profiles []domain.UserProfile `json:"profiles"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && env.Version != nil {
		if env.Games == nil {
			return nil, nil, fmt.Errorf("invalid backup: envelope has no games array")
		}
		return env.Games, env.Profiles, nil
	}

	var bare []map[string]any
	if err := json.Unmarshal(raw, &bare); err != nil {
		return nil, nil, fmt.Errorf("invalid backup: %w", err)
	}
	return bare, nil, nil
}
