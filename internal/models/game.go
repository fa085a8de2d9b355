// Package models holds the JSON shapes served by the replay API.
package models

import (
	"time"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/db"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/state"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/unit"
)

type GameSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Seed      uint64    `json:"seed"`
	Winner    string    `json:"winner,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Turns     int       `json:"turns"`
	Events    int       `json:"events"`
	CreatedAt time.Time `json:"created_at"`
}

func Summary(g db.GameRecord) GameSummary {
	return GameSummary{
		ID:        g.ID,
		Name:      g.Name,
		Seed:      g.Seed,
		Winner:    g.Winner,
		Reason:    g.Reason,
		Turns:     g.Turns,
		Events:    g.Events,
		CreatedAt: g.CreatedAt,
	}
}

// GameView is the derived state of a game after some prefix of its log.
type GameView struct {
	ID     string     `json:"id"`
	Turn   int        `json:"turn"`
	Phase  string     `json:"phase"`
	Seq    uint64     `json:"seq"`
	Over   bool       `json:"over"`
	Winner string     `json:"winner,omitempty"`
	Reason string     `json:"reason,omitempty"`
	Units  []UnitView `json:"units"`
}

type LocationView struct {
	Location  string  `json:"location"`
	Armor     float64 `json:"armor"`
	RearArmor float64 `json:"rear_armor,omitempty"`
	Structure int     `json:"structure"`
	Destroyed bool    `json:"destroyed,omitempty"`
}

type UnitView struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Side      string         `json:"side"`
	Col       int            `json:"col"`
	Row       int            `json:"row"`
	Facing    int            `json:"facing"`
	Heat      int            `json:"heat"`
	Prone     bool           `json:"prone,omitempty"`
	Shutdown  bool           `json:"shutdown,omitempty"`
	Wounds    int            `json:"pilot_wounds"`
	Destroyed bool           `json:"destroyed,omitempty"`
	Cause     string         `json:"destroy_reason,omitempty"`
	Locations []LocationView `json:"locations"`
}

// View flattens g for the API. Units keep deployment order.
func View(g *state.GameState) GameView {
	v := GameView{
		ID:     g.GameID,
		Turn:   g.Turn,
		Phase:  string(g.Phase),
		Seq:    g.LastSeq,
		Over:   g.Over,
		Winner: g.Winner,
		Reason: g.EndReason,
		Units:  []UnitView{},
	}
	for _, u := range g.UnitsInOrder() {
		uv := UnitView{
			ID:        u.ID,
			Name:      u.Name,
			Side:      u.Side,
			Col:       u.Position.Col,
			Row:       u.Position.Row,
			Facing:    u.Facing,
			Heat:      u.Heat,
			Prone:     u.Prone,
			Shutdown:  u.Shutdown,
			Wounds:    u.Pilot.Wounds,
			Destroyed: u.Destroyed,
			Cause:     string(u.DestroyReason),
		}
		for _, loc := range unit.Locations {
			lv := LocationView{
				Location:  loc.String(),
				Armor:     u.Armor[loc],
				Structure: u.Structure[loc],
				Destroyed: u.Lost[loc],
			}
			if loc.HasRear() {
				lv.RearArmor = u.RearArmor[loc]
			}
			uv.Locations = append(uv.Locations, lv)
		}
		v.Units = append(v.Units, uv)
	}
	return v
}
