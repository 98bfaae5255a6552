package scoring

import (
	"errors"
	"testing"

	"github.com/skorat-app/skorat-core/internal/domain"
)

func fourPlayers(totals ...int) []domain.Player {
	ids := []string{"1", "2", "3", "4"}
	players := make([]domain.Player, 4)
	for i := range players {
		total := 0
		if i < len(totals) {
			total = totals[i]
		}
		players[i] = domain.Player{ID: ids[i], ProfileID: "p" + ids[i], Name: "P" + ids[i], TotalScore: total}
	}
	return players
}

func game400(totals ...int) *domain.GameState {
	return &domain.GameState{
		GameType:   domain.FourHundred,
		Mode:       domain.ModeTeams,
		Status:     domain.StatusActive,
		Players:    fourPlayers(totals...),
		ScoreLimit: DefaultLimit400,
	}
}

func TestPoints400Table(t *testing.T) {
	cases := []struct {
		bid, score, want int
	}{
		{2, 0, 2}, {3, 0, 3}, {4, 0, 4},
		{5, 0, 10}, {5, 29, 10}, {5, 30, 5}, {5, 55, 5},
		{6, 0, 12}, {6, 30, 6},
		{7, 0, 14}, {7, 50, 14},
		{8, 0, 16},
		{9, 0, 27},
		{10, 0, 40}, {11, 0, 40}, {12, 0, 40}, {13, 0, 40},
	}
	for _, c := range cases {
		if got := Points400(c.bid, c.score); got != c.want {
			t.Errorf("Points400(%d, %d) = %d, want %d", c.bid, c.score, got, c.want)
		}
	}
}

func TestMinBid400Steps(t *testing.T) {
	cases := []struct{ score, want int }{
		{-5, 2}, {0, 2}, {29, 2}, {30, 3}, {39, 3}, {40, 4}, {49, 4}, {50, 5}, {80, 5},
	}
	for _, c := range cases {
		if got := MinBid400(c.score); got != c.want {
			t.Errorf("MinBid400(%d) = %d, want %d", c.score, got, c.want)
		}
	}
}

func TestMinTableBid400Steps(t *testing.T) {
	cases := []struct{ max, want int }{
		{0, 11}, {29, 11}, {30, 12}, {39, 12}, {40, 13}, {49, 13}, {50, 14},
	}
	for _, c := range cases {
		if got := MinTableBid400(c.max); got != c.want {
			t.Errorf("MinTableBid400(%d) = %d, want %d", c.max, got, c.want)
		}
	}
}

func TestSettleFourHundred(t *testing.T) {
	g := game400()
	in := RoundInput{FourHundred: &FourHundredInput{
		Bids: map[string]int{"1": 5, "2": 3, "3": 2, "4": 2},
		Won:  map[string]bool{"1": true, "2": false, "3": true, "4": true},
	}}
	details, err := Settle(g, in)
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if d := details["1"]; d.Score != 10 || !d.Won || d.Bid != 5 {
		t.Fatalf("seat 1 detail = %+v", d)
	}
	if d := details["2"]; d.Score != -3 || d.Won {
		t.Fatalf("seat 2 detail = %+v", d)
	}
	if d := details["1"]; d.Kind != domain.FourHundred {
		t.Fatalf("kind = %q", d.Kind)
	}
}

func TestSettleFourHundredRejectsLowTable(t *testing.T) {
	g := game400()
	in := RoundInput{FourHundred: &FourHundredInput{
		Bids: map[string]int{"1": 2, "2": 2, "3": 2, "4": 2}, // total 8 < 11
		Won:  map[string]bool{},
	}}
	if _, err := Settle(g, in); !errors.Is(err, ErrBidTotalLow) {
		t.Fatalf("expected ErrBidTotalLow, got %v", err)
	}
}

func TestSettleFourHundredRaisedTableGate(t *testing.T) {
	// One player at 30 raises the table minimum to 12.
	g := game400(30, 0, 0, 0)
	in := RoundInput{FourHundred: &FourHundredInput{
		Bids: map[string]int{"1": 3, "2": 3, "3": 3, "4": 2}, // total 11
		Won:  map[string]bool{},
	}}
	if _, err := Settle(g, in); !errors.Is(err, ErrBidTotalLow) {
		t.Fatalf("expected ErrBidTotalLow at raised gate, got %v", err)
	}
}

func TestSettleFourHundredRejectsBelowPlayerMin(t *testing.T) {
	g := game400(45, 0, 0, 0) // seat 1 minimum is 4
	in := RoundInput{FourHundred: &FourHundredInput{
		Bids: map[string]int{"1": 3, "2": 5, "3": 5, "4": 5},
		Won:  map[string]bool{},
	}}
	if _, err := Settle(g, in); !errors.Is(err, ErrBidBelowMinimum) {
		t.Fatalf("expected ErrBidBelowMinimum, got %v", err)
	}
}

func TestWinnersFourHundredSingleTeam(t *testing.T) {
	// Team 0 is seats 1&2. Seat 1 crosses 41 with a positive partner.
	players := fourPlayers(43, 5, 10, 12)
	got := winnersFourHundred(players, DefaultLimit400)
	if len(got) != 2 || got[0] != "1" || got[1] != "2" {
		t.Fatalf("winners = %v", got)
	}
}

func TestWinnersFourHundredNeedsPositivePartner(t *testing.T) {
	players := fourPlayers(43, 0, 10, 12)
	if got := winnersFourHundred(players, DefaultLimit400); got != nil {
		t.Fatalf("expected no winner with partner at zero, got %v", got)
	}
	players = fourPlayers(43, -2, 10, 12)
	if got := winnersFourHundred(players, DefaultLimit400); got != nil {
		t.Fatalf("expected no winner with negative partner, got %v", got)
	}
}

func TestWinnersFourHundredBothQualify(t *testing.T) {
	// Both teams qualify in the same round; higher single max wins.
	players := fourPlayers(44, 5, 47, 6)
	got := winnersFourHundred(players, DefaultLimit400)
	if len(got) != 2 || got[0] != "3" || got[1] != "4" {
		t.Fatalf("winners = %v", got)
	}

	// Equal max scores: no winner yet.
	players = fourPlayers(44, 5, 44, 6)
	if got := winnersFourHundred(players, DefaultLimit400); got != nil {
		t.Fatalf("expected no winner on equal max, got %v", got)
	}
}
