package domain

// GameType identifies which rule set a game uses.
type GameType string

const (
	FourHundred GameType = "400"
	Leekha      GameType = "leekha"
	Tarneeb     GameType = "tarneeb"
)

// Mode distinguishes solo scoring from fixed-partnership scoring.
type Mode string

const (
	ModeSolo  Mode = "solo"
	ModeTeams Mode = "teams"
)

// Status represents a game lifecycle state.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// SeatCount is fixed for all three games.
const SeatCount = 4

// UserProfile is a player identity shared across games.
type UserProfile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Player is one seat inside a specific game. Owned by the enclosing
// GameState; totals and flags are written only by the settlement paths.
type Player struct {
	ID         string `json:"id"`        // seat index, "1".."4"
	ProfileID  string `json:"profileId"` // identity across games
	Name       string `json:"name"`      // snapshot at game time
	TotalScore int    `json:"totalScore"`
	IsDanger   bool   `json:"isDanger"`
	IsWinner   bool   `json:"isWinner"`
}

// RoundDetail is the per-player record of one settled round, discriminated
// by Kind. Score is re-derivable from the other fields and is never trusted
// as authoritative after an edit. Marshalling emits only the fields that
// belong to the record's kind; see detail.go.
type RoundDetail struct {
	Kind GameType `json:"kind"`

	// tarneeb
	Bid                 int  `json:"bid"`
	TricksTaken         int  `json:"tricksTaken"`
	IsCallingTeamMember bool `json:"isCallingTeamMember"`

	// leekha
	HeartsTaken int  `json:"heartsTaken"`
	HasQS       bool `json:"hasQS"`
	HasTen      bool `json:"hasTen"`

	// 400 (Bid shared with tarneeb)
	Won bool `json:"won"`

	Score int `json:"score"`
}

// RoundHistory is one settled round. RoundNum is 1-based and always equals
// the entry's position in the history sequence; content may be replaced by
// an explicit edit but the identity never changes.
type RoundHistory struct {
	RoundNum      int                    `json:"roundNum"`
	PlayerDetails map[string]RoundDetail `json:"playerDetails"`
	Timestamp     string                 `json:"timestamp"` // RFC 3339
}

// GameState is the whole-game document persisted as one JSON blob.
type GameState struct {
	ID            string         `json:"id"`
	InstanceID    string         `json:"instanceId"` // duplicate of ID, kept for compatibility
	GameType      GameType       `json:"gameType"`
	Mode          Mode           `json:"mode"`
	Title         string         `json:"title"`
	Status        Status         `json:"status"`
	Players       []Player       `json:"players"`
	History       []RoundHistory `json:"history"`
	ScoreLimit    int            `json:"scoreLimit,omitempty"`
	SchemaVersion int            `json:"schemaVersion"`
	LastPlayed    string         `json:"lastPlayed"` // RFC 3339
}

// PartnerSeat returns the seat index of a player's partner. Teams are fixed
// by seating: the first two seats against the last two.
func PartnerSeat(seat int) int { return seat ^ 1 }

// TeamOf returns 0 for seats 0/1 and 1 for seats 2/3.
func TeamOf(seat int) int { return seat / 2 }

// Clone returns a deep copy. The ledger works on copies so callers keep an
// untouched state when a commit or edit is rejected.
func (g *GameState) Clone() *GameState {
	if g == nil {
		return nil
	}
	out := *g
	out.Players = make([]Player, len(g.Players))
	copy(out.Players, g.Players)
	out.History = make([]RoundHistory, len(g.History))
	for i, r := range g.History {
		nr := r
		nr.PlayerDetails = make(map[string]RoundDetail, len(r.PlayerDetails))
		for k, v := range r.PlayerDetails {
			nr.PlayerDetails[k] = v
		}
		out.History[i] = nr
	}
	return &out
}

// PlayerByID returns the player occupying the given seat id, or nil.
func (g *GameState) PlayerByID(id string) *Player {
	for i := range g.Players {
		if g.Players[i].ID == id {
			return &g.Players[i]
		}
	}
	return nil
}

// MaxTotal returns the highest running total at the table.
func (g *GameState) MaxTotal() int {
	max := 0
	for i, p := range g.Players {
		if i == 0 || p.TotalScore > max {
			max = p.TotalScore
		}
	}
	return max
}
