package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/bvcalc"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/db"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/unit"
)

// UnitLister is the read side of db.Catalog.
type UnitLister interface {
	List(ctx context.Context, filter string) ([]db.CatalogEntry, error)
}

type UnitItem struct {
	Model       string   `json:"model"`
	Name        string   `json:"name"`
	Tonnage     int      `json:"tonnage"`
	TechBase    string   `json:"tech_base"`
	Era         string   `json:"era,omitempty"`
	MulID       int      `json:"mul_id,omitempty"`
	BattleValue int      `json:"battle_value"`
	Skipped     []string `json:"skipped,omitempty"`
	Builtin     bool     `json:"builtin,omitempty"`
}

var builtinModels = []string{"HBK-4P", "HBK-4G", "AS7-D"}

// UnitHandler lists the units a game can be set up with: the built-in
// references and, when a catalog is wired, every ingested unit.
type UnitHandler struct {
	Catalog UnitLister
	Log     zerolog.Logger
}

func (h *UnitHandler) List(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")

	items := []UnitItem{}
	for _, model := range builtinModels {
		s, _ := unit.Reference(model, model)
		if name != "" && !strings.Contains(strings.ToLower(s.Name()), strings.ToLower(name)) {
			continue
		}
		bv, err := bvcalc.Calculate(s)
		if err != nil {
			h.Log.Error().Err(err).Str("model", model).Msg("battle value")
		}
		items = append(items, UnitItem{
			Model: model, Name: s.Name(), Tonnage: s.Tonnage, TechBase: "Inner Sphere",
			BattleValue: bv.FinalBV, Builtin: true,
		})
	}

	if h.Catalog != nil {
		entries, err := h.Catalog.List(r.Context(), name)
		if err != nil {
			h.Log.Error().Err(err).Msg("list catalog")
			http.Error(w, "catalog error", http.StatusInternalServerError)
			return
		}
		for _, e := range entries {
			items = append(items, UnitItem{
				Model: e.Model, Name: e.Name, Tonnage: e.Tonnage, TechBase: e.TechBase,
				Era: e.Era, MulID: e.MulID, BattleValue: e.BattleValue, Skipped: e.Skipped,
			})
		}
	}
	writeJSON(w, items)
}
