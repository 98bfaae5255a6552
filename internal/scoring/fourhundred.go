package scoring

import (
	"fmt"

	"github.com/skorat-app/skorat-core/internal/domain"
)

// DefaultLimit400 is the score a team member must reach to end the game.
const DefaultLimit400 = 41

// FourHundredInput records one 400 round: each seat's bid and whether the
// seat made it.
type FourHundredInput struct {
	Bids map[string]int  // player id -> bid
	Won  map[string]bool // player id -> declared outcome
}

// Points400 is the fixed value table for a 400 bid. Bids 5 and 6 are worth
// less once the bidder's pre-round total reaches 30.
func Points400(bid, currentScore int) int {
	switch {
	case bid <= 4:
		return bid
	case bid == 5:
		if currentScore >= 30 {
			return 5
		}
		return 10
	case bid == 6:
		if currentScore >= 30 {
			return 6
		}
		return 12
	case bid == 7:
		return 14
	case bid == 8:
		return 16
	case bid == 9:
		return 27
	default: // 10..13
		return 40
	}
}

// MinBid400 is the lowest legal bid for a player, stepping up with their
// pre-round total.
func MinBid400(currentScore int) int {
	switch {
	case currentScore >= 50:
		return 5
	case currentScore >= 40:
		return 4
	case currentScore >= 30:
		return 3
	default:
		return 2
	}
}

// MinTableBid400 is the minimum the four bids must sum to, scaling with the
// highest current total at the table.
func MinTableBid400(maxScore int) int {
	switch {
	case maxScore >= 50:
		return 14
	case maxScore >= 40:
		return 13
	case maxScore >= 30:
		return 12
	default:
		return 11
	}
}

func settleFourHundred(g *domain.GameState, in *FourHundredInput) (map[string]domain.RoundDetail, error) {
	if len(g.Players) != domain.SeatCount || len(in.Bids) != domain.SeatCount {
		return nil, ErrSeatCount
	}

	total := 0
	for _, p := range g.Players {
		bid, ok := in.Bids[p.ID]
		if !ok {
			return nil, fmt.Errorf("%w: no bid for seat %s", ErrSeatCount, p.ID)
		}
		if bid < 2 || bid > 13 {
			return nil, fmt.Errorf("%w: seat %s bid %d", ErrBidOutOfRange, p.ID, bid)
		}
		if min := MinBid400(p.TotalScore); bid < min {
			return nil, fmt.Errorf("%w: seat %s bid %d, minimum %d", ErrBidBelowMinimum, p.ID, bid, min)
		}
		total += bid
	}
	if required := MinTableBid400(g.MaxTotal()); total < required {
		return nil, fmt.Errorf("%w: total %d, required %d", ErrBidTotalLow, total, required)
	}

	details := make(map[string]domain.RoundDetail, domain.SeatCount)
	for _, p := range g.Players {
		bid := in.Bids[p.ID]
		won := in.Won[p.ID]
		pts := Points400(bid, p.TotalScore)
		if !won {
			pts = -pts
		}
		details[p.ID] = domain.RoundDetail{
			Kind:  domain.FourHundred,
			Bid:   bid,
			Won:   won,
			Score: pts,
		}
	}
	return details, nil
}

// winnersFourHundred: a team qualifies when a member reaches the limit with
// a partner above zero. One qualifying team wins; when both qualify the team
// holding the higher single score wins, and an equal max means play goes on.
func winnersFourHundred(players []domain.Player, limit int) []string {
	if len(players) != domain.SeatCount {
		return nil
	}
	qualifies := [2]bool{}
	teamMax := [2]int{}
	for seat, p := range players {
		team := domain.TeamOf(seat)
		if p.TotalScore > teamMax[team] {
			teamMax[team] = p.TotalScore
		}
		partner := players[domain.PartnerSeat(seat)]
		if p.TotalScore >= limit && partner.TotalScore > 0 {
			qualifies[team] = true
		}
	}

	winningTeam := -1
	switch {
	case qualifies[0] && qualifies[1]:
		if teamMax[0] > teamMax[1] {
			winningTeam = 0
		} else if teamMax[1] > teamMax[0] {
			winningTeam = 1
		}
		// equal max: no winner yet
	case qualifies[0]:
		winningTeam = 0
	case qualifies[1]:
		winningTeam = 1
	}
	if winningTeam < 0 {
		return nil
	}

	var ids []string
	for seat, p := range players {
		if domain.TeamOf(seat) == winningTeam {
			ids = append(ids, p.ID)
		}
	}
	return ids
}
