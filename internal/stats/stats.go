// Package stats derives per-player figures across all stored games. Pure
// read-side computation over already-migrated states.
package stats

import (
	"math"
	"sort"

	"github.com/skorat-app/skorat-core/internal/domain"
)

// PlayerRound is one detail record annotated with where it came from.
type PlayerRound struct {
	domain.RoundDetail
	GameType domain.GameType
	GameID   string
	RoundNum int
	Date     string
}

// PlayerRounds collects every round detail recorded for a profile across
// all games, newest first.
func PlayerRounds(games []*domain.GameState, profileID string) []PlayerRound {
	var rounds []PlayerRound
	for _, g := range games {
		var seatID string
		for _, p := range g.Players {
			if p.ProfileID == profileID {
				seatID = p.ID
				break
			}
		}
		if seatID == "" {
			continue
		}
		for _, r := range g.History {
			d, ok := r.PlayerDetails[seatID]
			if !ok {
				continue
			}
			date := r.Timestamp
			if date == "" {
				date = g.LastPlayed
			}
			rounds = append(rounds, PlayerRound{
				RoundDetail: d,
				GameType:    g.GameType,
				GameID:      g.ID,
				RoundNum:    r.RoundNum,
				Date:        date,
			})
		}
	}
	sort.Slice(rounds, func(i, j int) bool { return rounds[i].Date > rounds[j].Date })
	return rounds
}

// CallStats summarizes call outcomes for the bid-based games.
type CallStats struct {
	Calls       int
	Successful  int
	Breaks      int
	SuccessRate int // percent, rounded
	BreakRate   int // percent, rounded
}

// TarneebStats counts rounds where the player sat on the calling team and
// whether the call was made.
func TarneebStats(games []*domain.GameState, profileID string) CallStats {
	var s CallStats
	for _, r := range PlayerRounds(games, profileID) {
		if r.Kind != domain.Tarneeb || !r.IsCallingTeamMember {
			continue
		}
		s.Calls++
		if r.TricksTaken >= r.Bid {
			s.Successful++
		} else {
			s.Breaks++
		}
	}
	return withRates(s)
}

// FourHundredStats treats every recorded hand as a call.
func FourHundredStats(games []*domain.GameState, profileID string) CallStats {
	var s CallStats
	for _, r := range PlayerRounds(games, profileID) {
		if r.Kind != domain.FourHundred {
			continue
		}
		s.Calls++
		if r.Won {
			s.Successful++
		} else {
			s.Breaks++
		}
	}
	return withRates(s)
}

// LeekhaSummary counts the penalty cards a player collected.
type LeekhaSummary struct {
	RoundsPlayed int
	QSTaken      int
	TenTaken     int
	TotalHearts  int
}

func LeekhaStats(games []*domain.GameState, profileID string) LeekhaSummary {
	var s LeekhaSummary
	for _, r := range PlayerRounds(games, profileID) {
		if r.Kind != domain.Leekha {
			continue
		}
		s.RoundsPlayed++
		if r.HasQS {
			s.QSTaken++
		}
		if r.HasTen {
			s.TenTaken++
		}
		s.TotalHearts += r.HeartsTaken
	}
	return s
}

func withRates(s CallStats) CallStats {
	if s.Calls == 0 {
		return s
	}
	s.SuccessRate = int(math.Round(float64(s.Successful) / float64(s.Calls) * 100))
	s.BreakRate = int(math.Round(float64(s.Breaks) / float64(s.Calls) * 100))
	return s
}
