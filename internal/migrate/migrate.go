// Package migrate normalizes previously persisted game records to the
// current schema on read. It works on the raw decoded JSON so records of any
// age or origin (including cross-device backups) pass through the same
// chain; malformed content is absorbed with best-effort defaults and never
// causes an error, only unparseable JSON does.
package migrate

import (
	"encoding/json"
	"fmt"

	"github.com/skorat-app/skorat-core/internal/domain"
)

// CurrentSchemaVersion is stamped on every record leaving the pipeline.
const CurrentSchemaVersion = 2

// Decode runs raw document bytes through the migration chain and returns a
// typed GameState at the current schema version.
func Decode(raw []byte) (*domain.GameState, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse game document: %w", err)
	}
	doc = Migrate(doc)

	norm, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("re-encode migrated document: %w", err)
	}
	var g domain.GameState
	if err := json.Unmarshal(norm, &g); err != nil {
		return nil, fmt.Errorf("decode migrated document: %w", err)
	}
	return &g, nil
}

// Migrate takes any previously persisted record and returns it at the
// current schema version. Safe to run on already-current records (no-op)
// and safe to run twice (idempotent).
func Migrate(raw map[string]any) map[string]any {
	game := cloneMap(raw)

	// Safety-net defaults before any transform runs.
	if _, ok := game["schemaVersion"].(float64); !ok {
		if _, ok := game["schemaVersion"].(int); !ok {
			game["schemaVersion"] = 0
		}
	}
	if _, ok := game["players"].([]any); !ok {
		game["players"] = []any{}
	}
	if _, ok := game["history"].([]any); !ok {
		game["history"] = []any{}
	}

	if version(game) < 2 {
		game = migrateToV2(game)
	}

	game["schemaVersion"] = CurrentSchemaVersion
	return game
}

// migrateToV2 renames legacy per-player detail fields: tarneeb's isCaller
// became isCallingTeamMember and 400's didPass became won. A rename is
// skipped when the new key already exists so re-running the pipeline on
// migrated data cannot corrupt it. Detail records missing their kind tag
// get it stamped from the game type.
func migrateToV2(game map[string]any) map[string]any {
	gameType, _ := game["gameType"].(string)
	history, _ := game["history"].([]any)

	for _, entry := range history {
		round, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		details, ok := round["playerDetails"].(map[string]any)
		if !ok {
			continue
		}
		for id, dv := range details {
			d, ok := dv.(map[string]any)
			if !ok {
				continue
			}
			switch gameType {
			case string(domain.Tarneeb):
				renameKey(d, "isCaller", "isCallingTeamMember")
			case string(domain.FourHundred):
				renameKey(d, "didPass", "won")
			}
			if _, ok := d["kind"]; !ok && gameType != "" {
				d["kind"] = gameType
			}
			details[id] = d
		}
	}

	game["schemaVersion"] = 2
	return game
}

func renameKey(d map[string]any, from, to string) {
	v, has := d[from]
	if !has {
		return
	}
	if _, exists := d[to]; !exists {
		d[to] = v
	}
	delete(d, from)
}

func version(game map[string]any) int {
	switch v := game["schemaVersion"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// cloneMap deep-copies the record so callers holding the raw document never
// see migration side effects.
func cloneMap(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	}
	return v
}
