// Command simulate plays batches of seeded AI duels and stores every game
// log in the sqlite event store for replay.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/bvcalc"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/config"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/db"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/logging"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/sim"
)

func main() {
	cfgPath := flag.String("config", "mekstation.json", "Path to config file")
	red := flag.String("red", "", "Red unit: model code or .mtf path (overrides sim.red)")
	blue := flag.String("blue", "", "Blue unit: model code or .mtf path (overrides sim.blue)")
	runs := flag.Int("runs", 0, "Number of duels (overrides sim.runs)")
	seed := flag.Uint64("seed", 0, "Batch seed (overrides sim.seed)")
	maxTurns := flag.Int("max-turns", 0, "Turn limit per duel (overrides sim.maxTurns)")
	workers := flag.Int("workers", 0, "Parallel duels (overrides sim.workers)")
	name := flag.String("name", "duel", "Game name prefix; names and seeds fix the game ids")
	noStore := flag.Bool("no-store", false, "Do not write logs to the event store")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *red != "" {
		cfg.Sim.Red = *red
	}
	if *blue != "" {
		cfg.Sim.Blue = *blue
	}
	if *runs > 0 {
		cfg.Sim.Runs = *runs
	}
	if *seed > 0 {
		cfg.Sim.Seed = *seed
	}
	if *maxTurns > 0 {
		cfg.Sim.MaxTurns = *maxTurns
	}
	if *workers > 0 {
		cfg.Sim.Workers = *workers
	}
	log := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Console)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, cfg, *name, !*noStore, log); err != nil {
		log.Fatal().Err(err).Msg("simulate")
	}
}

func run(ctx context.Context, cfg config.Config, name string, store bool, log zerolog.Logger) error {
	var catalog specSource
	if cfg.Catalog.DSN != "" {
		c, err := db.ConnectCatalog(ctx, cfg.Catalog.DSN)
		if err != nil {
			return err
		}
		defer c.Close()
		catalog = c
	}
	redSpec, err := resolveUnit(ctx, cfg.Sim.Red, "red", catalog)
	if err != nil {
		return err
	}
	blueSpec, err := resolveUnit(ctx, cfg.Sim.Blue, "blue", catalog)
	if err != nil {
		return err
	}

	redBV, err := bvcalc.Calculate(redSpec)
	if err != nil {
		return err
	}
	blueBV, err := bvcalc.Calculate(blueSpec)
	if err != nil {
		return err
	}
	log.Info().Str("red", redSpec.Name()).Int("red_bv", redBV.PilotBV).
		Str("blue", blueSpec.Name()).Int("blue_bv", blueBV.PilotBV).Msg("matchup")

	duels := batch(name, cfg, redSpec.Name()+" vs "+blueSpec.Name())
	for i := range duels {
		duels[i].Red, duels[i].Blue = redSpec, blueSpec
	}

	runner, err := sim.New(sim.WithMaxTurns(cfg.Sim.MaxTurns), sim.WithLogger(log))
	if err != nil {
		return err
	}
	start := time.Now()
	results, err := runner.RunBatch(ctx, duels, cfg.Sim.Workers)
	if err != nil {
		return err
	}
	log.Info().Int("duels", len(results)).Dur("elapsed", time.Since(start)).Msg("batch finished")

	if store {
		es, err := db.OpenEventStore(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer es.Close()
		for _, res := range results {
			if err := es.Save(ctx, res.Name, res.Session); err != nil {
				return err
			}
		}
		log.Info().Str("path", cfg.Store.Path).Int("games", len(results)).Msg("logs stored")
	}

	s := summarize(results)
	fmt.Printf("%s (BV %d) vs %s (BV %d) over %d duels\n",
		redSpec.Name(), redBV.PilotBV, blueSpec.Name(), blueBV.PilotBV, s.Duels)
	fmt.Printf("  %-8s %5d\n", "red", s.Wins["red"])
	fmt.Printf("  %-8s %5d\n", "blue", s.Wins["blue"])
	fmt.Printf("  %-8s %5d\n", "draw", s.Draws)
	fmt.Printf("  avg turns %.1f\n", s.AvgTurns)
	return nil
}

// batch names each duel by prefix and index and derives its seed from the
// batch seed, so a rerun reproduces the same game ids and logs.
func batch(prefix string, cfg config.Config, matchup string) []sim.Duel {
	seeds := sim.Seeds(cfg.Sim.Seed, cfg.Sim.Runs)
	duels := make([]sim.Duel, len(seeds))
	for i, s := range seeds {
		duels[i] = sim.Duel{
			Name:  fmt.Sprintf("%s-%d-%d: %s", prefix, cfg.Sim.Seed, i, matchup),
			Seed:  s,
			Rules: cfg.Rules(),
		}
	}
	return duels
}

type summary struct {
	Duels    int
	Wins     map[string]int
	Draws    int
	AvgTurns float64
}

func summarize(results []sim.Result) summary {
	s := summary{Duels: len(results), Wins: make(map[string]int)}
	if len(results) == 0 {
		return s
	}
	turns := 0
	for _, r := range results {
		turns += r.Turns
		if r.Winner == "" {
			s.Draws++
		} else {
			s.Wins[r.Winner]++
		}
	}
	s.AvgTurns = float64(turns) / float64(len(results))
	return s
}
