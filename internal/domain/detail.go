package domain

import "encoding/json"

// Per-kind wire shapes. A tarneeb record must not carry leekha keys (and so
// on), both for readable exports and because the validator checks raw
// documents for exactly the fields of the declared kind.

type tarneebDetailJSON struct {
	Kind                GameType `json:"kind"`
	Bid                 int      `json:"bid"`
	TricksTaken         int      `json:"tricksTaken"`
	IsCallingTeamMember bool     `json:"isCallingTeamMember"`
	Score               int      `json:"score"`
}

type leekhaDetailJSON struct {
	Kind        GameType `json:"kind"`
	HeartsTaken int      `json:"heartsTaken"`
	HasQS       bool     `json:"hasQS"`
	HasTen      bool     `json:"hasTen"`
	Score       int      `json:"score"`
}

type fourHundredDetailJSON struct {
	Kind  GameType `json:"kind"`
	Bid   int      `json:"bid"`
	Won   bool     `json:"won"`
	Score int      `json:"score"`
}

func (d RoundDetail) MarshalJSON() ([]byte, error) {
	switch d.Kind {
	case Tarneeb:
		return json.Marshal(tarneebDetailJSON{
			Kind:                d.Kind,
			Bid:                 d.Bid,
			TricksTaken:         d.TricksTaken,
			IsCallingTeamMember: d.IsCallingTeamMember,
			Score:               d.Score,
		})
	case Leekha:
		return json.Marshal(leekhaDetailJSON{
			Kind:        d.Kind,
			HeartsTaken: d.HeartsTaken,
			HasQS:       d.HasQS,
			HasTen:      d.HasTen,
			Score:       d.Score,
		})
	case FourHundred:
		return json.Marshal(fourHundredDetailJSON{
			Kind:  d.Kind,
			Bid:   d.Bid,
			Won:   d.Won,
			Score: d.Score,
		})
	}
	// Unknown kind: keep whatever is set so a bad record round-trips
	// instead of silently losing data.
	type alias RoundDetail
	return json.Marshal(alias(d))
}
