// Package ledger maintains the ordered sequence of settled rounds and the
// player totals derived from it. Appends are the default; edits replace one
// round's content and then replay the whole history from round 1, because a
// round's meaning can depend on the cumulative totals before it (400's bid
// values step down once a player reaches 30).
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/skorat-app/skorat-core/internal/domain"
	"github.com/skorat-app/skorat-core/internal/scoring"
)

var (
	ErrGameCompleted = errors.New("game is already completed")
	ErrRoundIndex    = errors.New("round index out of range")
)

// CommitRound validates and settles one round, appends it to the history
// and applies the deltas. On a rejected input the returned error is the
// scoring gate's sentinel and the passed state is untouched.
func CommitRound(g *domain.GameState, in scoring.RoundInput, now time.Time) (*domain.GameState, error) {
	if g.Status == domain.StatusCompleted {
		return nil, ErrGameCompleted
	}
	details, err := scoring.Settle(g, in)
	if err != nil {
		return nil, err
	}

	out := g.Clone()
	out.History = append(out.History, domain.RoundHistory{
		RoundNum:      len(out.History) + 1,
		PlayerDetails: details,
		Timestamp:     now.UTC().Format(time.RFC3339),
	})
	for i := range out.Players {
		out.Players[i].TotalScore += details[out.Players[i].ID].Score
	}
	refreshDerived(out)
	out.LastPlayed = now.UTC().Format(time.RFC3339)
	return out, nil
}

// EditRound replaces the player details at index (0-based) with a fresh
// settlement of the new input, then recomputes everything from scratch via
// Replay. Count and order never change; only content does.
func EditRound(g *domain.GameState, index int, in scoring.RoundInput) (*domain.GameState, error) {
	if index < 0 || index >= len(g.History) {
		return nil, fmt.Errorf("%w: %d of %d", ErrRoundIndex, index, len(g.History))
	}

	// Settle against the totals as they stood before the edited round, so
	// the gate (min bids, table total) is checked in its historical context.
	at := totalsBefore(g, index)
	details, err := scoring.Settle(at, in)
	if err != nil {
		return nil, err
	}

	out := g.Clone()
	out.History[index].PlayerDetails = details
	if err := Replay(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Replay recomputes every player's total from round 1, re-deriving each
// round's per-player scores from its stored inputs against the running
// totals. Scores persisted in history are never trusted; they are
// overwritten with the re-derived values. Mutates g in place.
func Replay(g *domain.GameState) error {
	for i := range g.Players {
		g.Players[i].TotalScore = 0
		g.Players[i].IsWinner = false
	}
	g.Status = domain.StatusActive

	for i := range g.History {
		round := &g.History[i]
		round.RoundNum = i + 1
		for j := range g.Players {
			p := &g.Players[j]
			d, ok := round.PlayerDetails[p.ID]
			if !ok {
				continue
			}
			d.Score = rederiveScore(g.GameType, d, p.TotalScore)
			round.PlayerDetails[p.ID] = d
			p.TotalScore += d.Score
		}
	}
	refreshDerived(g)
	return nil
}

// rederiveScore recomputes one detail record's score from its stored inputs.
// currentScore is the player's total before this round, which only 400
// consults.
func rederiveScore(t domain.GameType, d domain.RoundDetail, currentScore int) int {
	switch t {
	case domain.FourHundred:
		pts := scoring.Points400(d.Bid, currentScore)
		if !d.Won {
			return -pts
		}
		return pts
	case domain.Leekha:
		return scoring.LeekhaRoundScore(d.HeartsTaken, d.HasQS, d.HasTen)
	case domain.Tarneeb:
		caller, defender, _ := scoring.TarneebDeltas(d.Bid, d.TricksTaken)
		if d.IsCallingTeamMember {
			return caller
		}
		return defender
	}
	return d.Score
}

// refreshDerived re-evaluates the win condition and the UI danger flags
// against the current totals.
func refreshDerived(g *domain.GameState) {
	winners := scoring.EvaluateWin(g)
	if len(winners) > 0 {
		g.Status = domain.StatusCompleted
		won := make(map[string]bool, len(winners))
		for _, id := range winners {
			won[id] = true
		}
		for i := range g.Players {
			g.Players[i].IsWinner = won[g.Players[i].ID]
		}
	} else {
		g.Status = domain.StatusActive
		for i := range g.Players {
			g.Players[i].IsWinner = false
		}
	}

	for i := range g.Players {
		p := &g.Players[i]
		switch g.GameType {
		case domain.Leekha:
			limit := g.ScoreLimit
			if limit <= 0 {
				limit = scoring.DefaultLimitLeekha
			}
			p.IsDanger = p.TotalScore*100 >= limit*85
		default:
			p.IsDanger = p.TotalScore < 0
		}
	}
}

// totalsBefore rebuilds the state as it stood before round index: same
// players, totals replayed over rounds 0..index-1.
func totalsBefore(g *domain.GameState, index int) *domain.GameState {
	at := g.Clone()
	at.History = at.History[:index]
	for i := range at.Players {
		at.Players[i].TotalScore = 0
	}
	for i := range at.History {
		for j := range at.Players {
			p := &at.Players[j]
			d, ok := at.History[i].PlayerDetails[p.ID]
			if !ok {
				continue
			}
			p.TotalScore += rederiveScore(at.GameType, d, p.TotalScore)
		}
	}
	at.Status = domain.StatusActive
	return at
}
