package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/db"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/event"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/models"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/state"
)

// GameStore is the read side of db.EventStore.
type GameStore interface {
	List(ctx context.Context, limit int) ([]db.GameRecord, error)
	Game(ctx context.Context, id string) (db.GameRecord, error)
	RawLog(ctx context.Context, id string) ([]byte, error)
}

// GameHandler serves stored games. Every state it returns is derived from
// the stored log on request.
type GameHandler struct {
	Store GameStore
	Log   zerolog.Logger
}

func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	games, err := h.Store.List(r.Context(), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]models.GameSummary, 0, len(games))
	for _, g := range games {
		out = append(out, models.Summary(g))
	}
	writeJSON(w, out)
}

func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.Store.Game(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, models.Summary(g))
}

// Events writes the stored log as is.
func (h *GameHandler) Events(w http.ResponseWriter, r *http.Request) {
	data, err := h.Store.RawLog(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	// a stored log only changes if the game is saved again
	w.Header().Set("Cache-Control", "public, max-age=60")
	w.Write(data)
}

// State replays the log, or its first events up to ?seq=N, and returns the
// resulting game state.
func (h *GameHandler) State(w http.ResponseWriter, r *http.Request) {
	var upTo uint64
	if v := r.URL.Query().Get("seq"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			http.Error(w, "invalid seq", http.StatusBadRequest)
			return
		}
		upTo = n
	}

	data, err := h.Store.RawLog(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	events, err := event.UnmarshalLog(data)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if upTo > 0 {
		n := 0
		for n < len(events) && events[n].Seq <= upTo {
			n++
		}
		events = events[:n]
	}
	g, err := state.Derive(events)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, models.View(g))
}

func (h *GameHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, db.ErrNotFound) {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}
	h.Log.Error().Err(err).Str("path", r.URL.Path).Msg("game request failed")
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
