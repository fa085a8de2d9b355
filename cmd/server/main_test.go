package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/db"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/handlers"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/sim"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/unit"
)

func TestRoutes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.db")
	w, err := db.OpenEventStore(path)
	require.NoError(t, err)
	r, err := sim.New(sim.WithMaxTurns(2))
	require.NoError(t, err)
	res, err := r.Run(context.Background(), sim.Duel{Name: "routes", Seed: 5, Red: unit.Hunchback4P("red"), Blue: unit.Hunchback4G("blue")})
	require.NoError(t, err)
	require.NoError(t, w.Save(context.Background(), res.Name, res.Session))
	require.NoError(t, w.Close())

	// the server only ever reads
	ro, err := db.ConnectSQLite(path, true)
	require.NoError(t, err)
	store := &db.EventStore{DB: ro}
	t.Cleanup(func() { store.Close() })

	srv := httptest.NewServer(routes(
		&handlers.GameHandler{Store: store, Log: zerolog.Nop()},
		&handlers.UnitHandler{Log: zerolog.Nop()},
		zerolog.Nop()))
	t.Cleanup(srv.Close)

	for _, p := range []string{"/healthz", "/api/games", "/api/games/" + res.GameID + "/events", "/api/games/" + res.GameID + "/state", "/api/units"} {
		resp, err := http.Get(srv.URL + p)
		require.NoError(t, err)
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, p)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"), p)
	}

	resp, err := http.Post(srv.URL+"/api/games", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
