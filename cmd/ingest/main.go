// Command ingest converts a directory of MegaMek .mtf files into unit specs
// and stores them in the postgres catalog.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/config"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/db"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/ingestion"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/logging"
)

func main() {
	cfgPath := flag.String("config", "mekstation.json", "Path to config file")
	dir := flag.String("dir", "", "Path to mekfiles directory (overrides catalog.mtfDir)")
	dsn := flag.String("db", "", "Postgres connection string (overrides catalog.dsn)")
	dryRun := flag.Bool("dry-run", false, "Parse and convert only, do not insert into DB")
	verbose := flag.Bool("verbose", false, "Print each converted unit")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Console)
	if *dir != "" {
		cfg.Catalog.MTFDir = *dir
	}
	if *dsn != "" {
		cfg.Catalog.DSN = *dsn
	}
	if cfg.Catalog.MTFDir == "" {
		log.Fatal().Msg("no mekfiles directory: set -dir or catalog.mtfDir")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var files []string
	err = filepath.Walk(cfg.Catalog.MTFDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() && strings.HasSuffix(strings.ToLower(info.Name()), ".mtf") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Catalog.MTFDir).Msg("walk mekfiles")
	}
	fmt.Printf("Found %d .mtf files\n", len(files))

	var catalog *db.Catalog
	if !*dryRun {
		if cfg.Catalog.DSN == "" {
			log.Fatal().Msg("no catalog: set -db or catalog.dsn, or pass -dry-run")
		}
		catalog, err = db.ConnectCatalog(ctx, cfg.Catalog.DSN)
		if err != nil {
			log.Fatal().Err(err).Msg("connect catalog")
		}
		defer catalog.Close()
		if err := catalog.Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("migrate catalog")
		}
		log.Info().Msg("connected to catalog")
	}

	var converted, failed, inserted, partial int
	var errs []string
	for i, f := range files {
		if ctx.Err() != nil {
			break
		}
		data, err := ingestion.ParseMTF(f)
		if err != nil {
			failed++
			errs = append(errs, fmt.Sprintf("  %s: %v", filepath.Base(f), err))
			continue
		}
		conv, err := ingestion.ToSpec(data, unitID(data))
		if err != nil {
			failed++
			errs = append(errs, fmt.Sprintf("  %s: %v", filepath.Base(f), err))
			continue
		}
		converted++
		if len(conv.Skipped) > 0 {
			partial++
			log.Debug().Str("unit", data.FullName()).Strs("skipped", conv.Skipped).Msg("equipment not modelled")
		}

		if *verbose {
			fmt.Printf("  %-40s %3dt  %2d weapons  %d skipped\n", data.FullName(), data.Mass, len(conv.Spec.Weapons), len(conv.Skipped))
		}

		if catalog != nil {
			if err := catalog.Upsert(ctx, data, conv); err != nil {
				failed++
				errs = append(errs, fmt.Sprintf("  %s: %v", filepath.Base(f), err))
				continue
			}
			inserted++
		}

		if (i+1)%500 == 0 {
			fmt.Printf("  Progress: %d / %d files processed\n", i+1, len(files))
		}
	}

	fmt.Printf("\nResults:\n")
	if len(files) > 0 {
		fmt.Printf("  Converted: %d / %d (%.1f%%)\n", converted, len(files), float64(converted)/float64(len(files))*100)
	}
	fmt.Printf("  Partial:   %d (some equipment skipped)\n", partial)
	fmt.Printf("  Failed:    %d\n", failed)
	if catalog != nil {
		fmt.Printf("  Inserted:  %d\n", inserted)
	}

	if len(errs) > 0 {
		fmt.Printf("\nFirst %d errors:\n", min(len(errs), 20))
		for _, e := range errs[:min(len(errs), 20)] {
			fmt.Println(e)
		}
	}
}

// unitID is the catalog id a converted unit carries until a game gives it
// its own.
func unitID(d *ingestion.MTFData) string {
	if d.Model != "" {
		return strings.ToLower(d.Model)
	}
	return strings.ToLower(d.Chassis)
}
