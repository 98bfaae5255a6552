package scoring

import (
	"errors"
	"fmt"

	"github.com/skorat-app/skorat-core/internal/domain"
)

// Invalid round input is a guard result, never a panic: the caller keeps the
// user on the input screen and re-prompts.
var (
	ErrSeatCount        = errors.New("round input must cover exactly four seats")
	ErrBidOutOfRange    = errors.New("bid out of range")
	ErrBidBelowMinimum  = errors.New("bid below player minimum")
	ErrBidTotalLow      = errors.New("table bid total below required minimum")
	ErrHeartsMismatch   = errors.New("hearts assigned must sum to exactly 13")
	ErrHolderUnset      = errors.New("queen of spades and ten holders must each be assigned to exactly one player")
	ErrTricksOutOfRange = errors.New("tricks taken out of range")
	ErrNoCallingTeam    = errors.New("exactly one team must call")
	ErrUnknownGameType  = errors.New("unknown game type")
)

// RoundInput carries the aggregate inputs of one played round. Exactly one
// payload must be set, matching the game's type.
type RoundInput struct {
	FourHundred *FourHundredInput
	Leekha      *LeekhaInput
	Tarneeb     *TarneebInput
}

// Settle is the single dispatch point of the rule engine: it validates the
// round input against the game's legality gate and returns the per-player
// detail records (score included) for the round. Pure; it never touches
// storage and never mutates the passed state.
func Settle(g *domain.GameState, in RoundInput) (map[string]domain.RoundDetail, error) {
	switch g.GameType {
	case domain.FourHundred:
		if in.FourHundred == nil {
			return nil, fmt.Errorf("%w: missing 400 input", ErrUnknownGameType)
		}
		return settleFourHundred(g, in.FourHundred)
	case domain.Leekha:
		if in.Leekha == nil {
			return nil, fmt.Errorf("%w: missing leekha input", ErrUnknownGameType)
		}
		return settleLeekha(g, in.Leekha)
	case domain.Tarneeb:
		if in.Tarneeb == nil {
			return nil, fmt.Errorf("%w: missing tarneeb input", ErrUnknownGameType)
		}
		return settleTarneeb(g, in.Tarneeb)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownGameType, g.GameType)
}

// EvaluateWin applies the game-specific win condition to the current totals
// and returns the ids of the winning players, or nil while play continues.
func EvaluateWin(g *domain.GameState) []string {
	limit := g.ScoreLimit
	switch g.GameType {
	case domain.FourHundred:
		if limit <= 0 {
			limit = DefaultLimit400
		}
		return winnersFourHundred(g.Players, limit)
	case domain.Leekha:
		if limit <= 0 {
			limit = DefaultLimitLeekha
		}
		return winnersLeekha(g.Players, limit, g.Mode)
	case domain.Tarneeb:
		if limit <= 0 {
			limit = DefaultLimitTarneeb
		}
		return winnersTarneeb(g.Players, limit)
	}
	return nil
}
