// Package validate is a structural assertion pass over the most recently
// committed round of a game document. It is diagnostic tooling, never a
// gameplay gate: it reports violations as human-readable strings and never
// blocks, panics, or mutates.
package validate

import (
	"encoding/json"
	"fmt"

	"github.com/skorat-app/skorat-core/internal/domain"
)

// LastRound checks the final history entry of a raw game document: every
// player in the game must have a detail record keyed by their id, the
// record's kind tag must match the game's declared type, and each record
// must carry the fields of its kind with primitive JSON types (numbers are
// numbers, booleans are booleans). An empty result means valid.
func LastRound(doc map[string]any) []string {
	var errs []string
	if doc == nil {
		return []string{"CRITICAL: nil game document"}
	}

	history, _ := doc["history"].([]any)
	if len(history) == 0 {
		return errs
	}
	last, ok := history[len(history)-1].(map[string]any)
	if !ok {
		return []string{"CRITICAL: last round is not an object"}
	}
	details, ok := last["playerDetails"].(map[string]any)
	if !ok {
		return []string{"CRITICAL: last round missing playerDetails"}
	}
	gameType, _ := doc["gameType"].(string)

	players, _ := doc["players"].([]any)
	for _, pv := range players {
		p, ok := pv.(map[string]any)
		if !ok {
			errs = append(errs, "player entry is not an object")
			continue
		}
		id, _ := p["id"].(string)
		dv, has := details[id]
		if !has {
			errs = append(errs, fmt.Sprintf("missing details for player id=%s", id))
			continue
		}
		d, ok := dv.(map[string]any)
		if !ok {
			errs = append(errs, fmt.Sprintf("details for player id=%s is not an object", id))
			continue
		}
		if kind, _ := d["kind"].(string); kind != gameType {
			errs = append(errs, fmt.Sprintf("kind mismatch for %s: %q vs %q", id, kind, gameType))
		}
	}

	for id, dv := range details {
		d, ok := dv.(map[string]any)
		if !ok {
			continue // already reported above when it belongs to a player
		}
		kind, _ := d["kind"].(string)
		switch kind {
		case string(domain.Tarneeb):
			errs = appendFieldErrs(errs, d, id, "tarneeb", map[string]fieldType{
				"bid": numberField, "tricksTaken": numberField,
				"isCallingTeamMember": boolField, "score": numberField,
			})
		case string(domain.Leekha):
			errs = appendFieldErrs(errs, d, id, "leekha", map[string]fieldType{
				"heartsTaken": numberField, "hasQS": boolField,
				"hasTen": boolField, "score": numberField,
			})
		case string(domain.FourHundred):
			errs = appendFieldErrs(errs, d, id, "400", map[string]fieldType{
				"bid": numberField, "won": boolField, "score": numberField,
			})
		default:
			errs = append(errs, fmt.Sprintf("unknown round kind for %s", id))
		}
	}
	return errs
}

// Game marshals a typed state back to its document form and validates that.
func Game(g *domain.GameState) []string {
	if g == nil {
		return []string{"CRITICAL: nil game state"}
	}
	raw, err := json.Marshal(g)
	if err != nil {
		return []string{fmt.Sprintf("CRITICAL: game state not encodable: %v", err)}
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return []string{fmt.Sprintf("CRITICAL: game state not decodable: %v", err)}
	}
	return LastRound(doc)
}

type fieldType int

const (
	numberField fieldType = iota
	boolField
)

func appendFieldErrs(errs []string, d map[string]any, id, label string, fields map[string]fieldType) []string {
	for name, ft := range fields {
		v, has := d[name]
		if !has {
			errs = append(errs, fmt.Sprintf("%s: %s missing for %s", label, name, id))
			continue
		}
		switch ft {
		case numberField:
			if _, ok := v.(float64); !ok {
				errs = append(errs, fmt.Sprintf("%s: %s not number for %s", label, name, id))
			}
		case boolField:
			if _, ok := v.(bool); !ok {
				errs = append(errs, fmt.Sprintf("%s: %s not boolean for %s", label, name, id))
			}
		}
	}
	return errs
}
