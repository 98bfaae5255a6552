package scoring

import (
	"fmt"

	"github.com/skorat-app/skorat-core/internal/domain"
)

// DefaultLimitLeekha is the penalty total that ends the game.
const DefaultLimitLeekha = 101

// Leekha round constants: 13 hearts in the deck, QS worth 13, the ten of
// diamonds worth 10, so every full round distributes exactly 36 points.
const (
	leekhaHearts      = 13
	leekhaQSPoints    = 13
	leekhaTenPoints   = 10
	leekhaRoundPoints = leekhaHearts + leekhaQSPoints + leekhaTenPoints
)

// LeekhaInput records one leekha round: hearts taken per seat plus who ended
// up with the queen of spades and the ten of diamonds.
type LeekhaInput struct {
	Hearts    map[string]int // player id -> hearts taken
	QSHolder  string         // player id
	TenHolder string         // player id
}

// LeekhaRoundScore is the penalty a single player collects in one round.
func LeekhaRoundScore(hearts int, hasQS, hasTen bool) int {
	score := hearts
	if hasQS {
		score += leekhaQSPoints
	}
	if hasTen {
		score += leekhaTenPoints
	}
	return score
}

func settleLeekha(g *domain.GameState, in *LeekhaInput) (map[string]domain.RoundDetail, error) {
	if len(g.Players) != domain.SeatCount || len(in.Hearts) != domain.SeatCount {
		return nil, ErrSeatCount
	}
	if g.PlayerByID(in.QSHolder) == nil || g.PlayerByID(in.TenHolder) == nil {
		return nil, ErrHolderUnset
	}

	total := 0
	for _, p := range g.Players {
		h, ok := in.Hearts[p.ID]
		if !ok {
			return nil, fmt.Errorf("%w: no hearts entry for seat %s", ErrSeatCount, p.ID)
		}
		if h < 0 || h > leekhaHearts {
			return nil, fmt.Errorf("%w: seat %s has %d hearts", ErrHeartsMismatch, p.ID, h)
		}
		total += h
	}
	if total != leekhaHearts {
		return nil, fmt.Errorf("%w: got %d", ErrHeartsMismatch, total)
	}

	details := make(map[string]domain.RoundDetail, domain.SeatCount)
	roundTotal := 0
	for _, p := range g.Players {
		h := in.Hearts[p.ID]
		hasQS := in.QSHolder == p.ID
		hasTen := in.TenHolder == p.ID
		score := LeekhaRoundScore(h, hasQS, hasTen)
		roundTotal += score
		details[p.ID] = domain.RoundDetail{
			Kind:        domain.Leekha,
			HeartsTaken: h,
			HasQS:       hasQS,
			HasTen:      hasTen,
			Score:       score,
		}
	}
	// Holds whenever the hearts/QS/ten gates hold, so a mismatch means the
	// input itself is inconsistent.
	if roundTotal != leekhaRoundPoints {
		return nil, fmt.Errorf("%w: round points %d", ErrHeartsMismatch, roundTotal)
	}
	return details, nil
}

// winnersLeekha fires the instant any player reaches the limit. In team
// mode the team containing that player loses and the opponents win, unless
// both teams are simultaneously at the limit (no decision). In solo mode
// the sole minimum-score player wins; a tied minimum is a no-decision.
func winnersLeekha(players []domain.Player, limit int, mode domain.Mode) []string {
	if len(players) != domain.SeatCount {
		return nil
	}
	anyOver := false
	for _, p := range players {
		if p.TotalScore >= limit {
			anyOver = true
			break
		}
	}
	if !anyOver {
		return nil
	}

	if mode == domain.ModeTeams {
		over := [2]bool{}
		for seat, p := range players {
			if p.TotalScore >= limit {
				over[domain.TeamOf(seat)] = true
			}
		}
		if over[0] && over[1] {
			return nil // both teams busted together: keep playing
		}
		losing := 0
		if over[1] {
			losing = 1
		}
		var ids []string
		for seat, p := range players {
			if domain.TeamOf(seat) != losing {
				ids = append(ids, p.ID)
			}
		}
		return ids
	}

	// solo: lowest total wins, ties continue
	min := players[0].TotalScore
	for _, p := range players[1:] {
		if p.TotalScore < min {
			min = p.TotalScore
		}
	}
	var ids []string
	for _, p := range players {
		if p.TotalScore == min {
			ids = append(ids, p.ID)
		}
	}
	if len(ids) != 1 {
		return nil
	}
	return ids
}
