package scoring

import (
	"fmt"

	"github.com/skorat-app/skorat-core/internal/domain"
)

// DefaultLimitTarneeb is the team total that wins the game outright.
const DefaultLimitTarneeb = 31

const (
	tarneebMinBid = 7
	tarneebTricks = 13
)

// TarneebInput records one tarneeb round: which team called, what they bid,
// and how many tricks the calling team took.
type TarneebInput struct {
	CallingTeam int // 0 for the first two seats, 1 for the last two
	Bid         int // 7..13
	TricksTaken int // 0..13
}

// TarneebDeltas returns (caller delta, defender delta, success) for a bid
// and trick count. On success the defenders score nothing; on a break they
// collect the tricks the callers left on the table.
func TarneebDeltas(bid, tricksTaken int) (caller, defender int, success bool) {
	success = tricksTaken >= bid
	if success {
		return tricksTaken, 0, true
	}
	return -bid, tarneebTricks - tricksTaken, false
}

func settleTarneeb(g *domain.GameState, in *TarneebInput) (map[string]domain.RoundDetail, error) {
	if len(g.Players) != domain.SeatCount {
		return nil, ErrSeatCount
	}
	if in.CallingTeam != 0 && in.CallingTeam != 1 {
		return nil, ErrNoCallingTeam
	}
	if in.Bid < tarneebMinBid || in.Bid > tarneebTricks {
		return nil, fmt.Errorf("%w: bid %d", ErrBidOutOfRange, in.Bid)
	}
	if in.TricksTaken < 0 || in.TricksTaken > tarneebTricks {
		return nil, fmt.Errorf("%w: %d", ErrTricksOutOfRange, in.TricksTaken)
	}

	callerDelta, defenderDelta, _ := TarneebDeltas(in.Bid, in.TricksTaken)
	details := make(map[string]domain.RoundDetail, domain.SeatCount)
	for seat, p := range g.Players {
		calling := domain.TeamOf(seat) == in.CallingTeam
		score := defenderDelta
		if calling {
			score = callerDelta
		}
		details[p.ID] = domain.RoundDetail{
			Kind:                domain.Tarneeb,
			Bid:                 in.Bid,
			TricksTaken:         in.TricksTaken,
			IsCallingTeamMember: calling,
			Score:               score,
		}
	}
	return details, nil
}

// winnersTarneeb: first team whose total reaches the limit wins. Only one
// team's score moves per round, so no tie-break is needed within a commit.
func winnersTarneeb(players []domain.Player, limit int) []string {
	if len(players) != domain.SeatCount {
		return nil
	}
	for team := 0; team < 2; team++ {
		for seat, p := range players {
			if domain.TeamOf(seat) == team && p.TotalScore >= limit {
				var ids []string
				for s, q := range players {
					if domain.TeamOf(s) == team {
						ids = append(ids, q.ID)
					}
				}
				return ids
			}
		}
	}
	return nil
}
