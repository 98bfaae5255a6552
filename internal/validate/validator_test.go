package validate

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/skorat-app/skorat-core/internal/domain"
	"github.com/skorat-app/skorat-core/internal/ledger"
	"github.com/skorat-app/skorat-core/internal/scoring"
)

func mustDoc(t *testing.T, src string) map[string]any {
	t.Helper()
	var doc map[string]any
	if err := json.Unmarshal([]byte(src), &doc); err != nil {
		t.Fatalf("fixture: %v", err)
	}
	return doc
}

func containsSubstr(errs []string, sub string) bool {
	for _, e := range errs {
		if strings.Contains(e, sub) {
			return true
		}
	}
	return false
}

func TestLastRoundNilDocument(t *testing.T) {
	errs := LastRound(nil)
	if len(errs) != 1 || !strings.HasPrefix(errs[0], "CRITICAL") {
		t.Fatalf("errs = %v", errs)
	}
}

func TestLastRoundEmptyHistoryIsValid(t *testing.T) {
	doc := mustDoc(t, `{"gameType": "tarneeb", "players": [], "history": []}`)
	if errs := LastRound(doc); len(errs) != 0 {
		t.Fatalf("errs = %v", errs)
	}
}

func TestLastRoundValidTarneeb(t *testing.T) {
	doc := mustDoc(t, `{
		"gameType": "tarneeb",
		"players": [{"id": "1"}, {"id": "3"}],
		"history": [{"roundNum": 1, "playerDetails": {
			"1": {"kind": "tarneeb", "bid": 8, "tricksTaken": 6, "isCallingTeamMember": true, "score": -8},
			"3": {"kind": "tarneeb", "bid": 8, "tricksTaken": 6, "isCallingTeamMember": false, "score": 7}
		}}]
	}`)
	if errs := LastRound(doc); len(errs) != 0 {
		t.Fatalf("errs = %v", errs)
	}
}

func TestLastRoundMissingPlayerDetail(t *testing.T) {
	doc := mustDoc(t, `{
		"gameType": "leekha",
		"players": [{"id": "1"}, {"id": "2"}],
		"history": [{"roundNum": 1, "playerDetails": {
			"1": {"kind": "leekha", "heartsTaken": 13, "hasQS": true, "hasTen": true, "score": 36}
		}}]
	}`)
	errs := LastRound(doc)
	if !containsSubstr(errs, "missing details for player id=2") {
		t.Fatalf("errs = %v", errs)
	}
}

func TestLastRoundKindMismatch(t *testing.T) {
	doc := mustDoc(t, `{
		"gameType": "tarneeb",
		"players": [{"id": "1"}],
		"history": [{"roundNum": 1, "playerDetails": {
			"1": {"kind": "leekha", "heartsTaken": 0, "hasQS": false, "hasTen": false, "score": 0}
		}}]
	}`)
	errs := LastRound(doc)
	if !containsSubstr(errs, "kind mismatch for 1") {
		t.Fatalf("errs = %v", errs)
	}
}

func TestLastRoundFieldTypeViolations(t *testing.T) {
	doc := mustDoc(t, `{
		"gameType": "400",
		"players": [{"id": "1"}],
		"history": [{"roundNum": 1, "playerDetails": {
			"1": {"kind": "400", "bid": "four", "won": 1, "score": 4}
		}}]
	}`)
	errs := LastRound(doc)
	if !containsSubstr(errs, "bid not number for 1") {
		t.Fatalf("errs = %v", errs)
	}
	if !containsSubstr(errs, "won not boolean for 1") {
		t.Fatalf("errs = %v", errs)
	}
}

func TestLastRoundLegacyFieldNamesFlagged(t *testing.T) {
	// An unmigrated v1 record still carries didPass: the current-schema
	// check must report the won field as missing, not crash.
	doc := mustDoc(t, `{
		"gameType": "400",
		"players": [{"id": "1"}],
		"history": [{"roundNum": 1, "playerDetails": {
			"1": {"kind": "400", "bid": 4, "didPass": true, "score": 4}
		}}]
	}`)
	errs := LastRound(doc)
	if !containsSubstr(errs, "won missing for 1") {
		t.Fatalf("errs = %v", errs)
	}
}

func TestLastRoundUnknownKind(t *testing.T) {
	doc := mustDoc(t, `{
		"gameType": "tarneeb",
		"players": [{"id": "1"}],
		"history": [{"roundNum": 1, "playerDetails": {"1": {"bid": 7}}}]
	}`)
	errs := LastRound(doc)
	if !containsSubstr(errs, "unknown round kind for 1") {
		t.Fatalf("errs = %v", errs)
	}
}

func TestGameAcceptsLedgerOutput(t *testing.T) {
	// A round that went through the ledger must marshal to a document the
	// validator accepts, for every game type.
	now := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	players := func() []domain.Player {
		out := make([]domain.Player, domain.SeatCount)
		for i := range out {
			id := string(rune('1' + i))
			out[i] = domain.Player{ID: id, ProfileID: "p" + id, Name: "P" + id}
		}
		return out
	}

	cases := []struct {
		name string
		typ  domain.GameType
		in   scoring.RoundInput
	}{
		{"tarneeb", domain.Tarneeb, scoring.RoundInput{Tarneeb: &scoring.TarneebInput{
			CallingTeam: 0, Bid: 8, TricksTaken: 6,
		}}},
		{"leekha", domain.Leekha, scoring.RoundInput{Leekha: &scoring.LeekhaInput{
			Hearts:    map[string]int{"1": 4, "2": 3, "3": 6, "4": 0},
			QSHolder:  "2",
			TenHolder: "4",
		}}},
		{"fourhundred", domain.FourHundred, scoring.RoundInput{FourHundred: &scoring.FourHundredInput{
			Bids: map[string]int{"1": 5, "2": 2, "3": 2, "4": 2},
			Won:  map[string]bool{"1": true, "2": false, "3": true, "4": true},
		}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := &domain.GameState{
				ID:       "g1",
				GameType: tc.typ,
				Mode:     domain.ModeTeams,
				Status:   domain.StatusActive,
				Players:  players(),
				History:  []domain.RoundHistory{},
			}
			next, err := ledger.CommitRound(g, tc.in, now)
			if err != nil {
				t.Fatalf("CommitRound: %v", err)
			}
			if errs := Game(next); len(errs) != 0 {
				t.Fatalf("violations: %v", errs)
			}
		})
	}
}

func TestGameNil(t *testing.T) {
	errs := Game(nil)
	if len(errs) != 1 || !strings.HasPrefix(errs[0], "CRITICAL") {
		t.Fatalf("errs = %v", errs)
	}
}
