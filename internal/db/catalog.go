package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/bvcalc"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/ingestion"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/unit"
)

// ErrUnknownModel is returned when the catalog has no unit by that model code.
var ErrUnknownModel = errors.New("db: unknown model")

// Catalog is the shared postgres library of converted units.
type Catalog struct {
	Pool *pgxpool.Pool
}

func NewCatalog(pool *pgxpool.Pool) *Catalog {
	return &Catalog{Pool: pool}
}

// ConnectCatalog opens a pool on dsn and checks it answers.
func ConnectCatalog(ctx context.Context, dsn string) (*Catalog, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect catalog: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping catalog: %w", err)
	}
	return NewCatalog(pool), nil
}

func (c *Catalog) Close() { c.Pool.Close() }

// CatalogEntry is one row of the unit listing.
type CatalogEntry struct {
	Model       string
	Name        string
	Tonnage     int
	TechBase    string
	Era         string
	MulID       int
	BattleValue int
	Skipped     []string
}

var catalogSchema = []string{
	`CREATE TABLE IF NOT EXISTS chassis (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		tonnage INTEGER NOT NULL,
		tech_base TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS unit_specs (
		model TEXT PRIMARY KEY,
		chassis_id INTEGER NOT NULL REFERENCES chassis(id),
		name TEXT NOT NULL,
		mul_id INTEGER,
		era TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT '',
		battle_value INTEGER NOT NULL DEFAULT 0,
		spec JSONB NOT NULL,
		skipped TEXT[] NOT NULL DEFAULT '{}'
	)`,
}

// Migrate creates the catalog tables when they are missing.
func (c *Catalog) Migrate(ctx context.Context) error {
	for _, ddl := range catalogSchema {
		if _, err := c.Pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("migrate catalog: %w", err)
		}
	}
	return nil
}

func normalizeTechBase(tb string) string {
	lower := strings.ToLower(tb)
	if strings.Contains(lower, "mixed") {
		return "Mixed"
	}
	if strings.Contains(lower, "clan") {
		return "Clan"
	}
	return "Inner Sphere"
}

func (c *Catalog) upsertChassis(ctx context.Context, tx pgx.Tx, name string, tonnage int, techBase string) (int, error) {
	var id int
	err := tx.QueryRow(ctx,
		`INSERT INTO chassis (name, tonnage, tech_base)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO UPDATE SET tonnage = EXCLUDED.tonnage
		 RETURNING id`, name, tonnage, normalizeTechBase(techBase)).Scan(&id)
	return id, err
}

// Upsert stores a converted unit under its model code, replacing any
// earlier conversion of the same model.
func (c *Catalog) Upsert(ctx context.Context, data *ingestion.MTFData, conv ingestion.Conversion) error {
	model := data.Model
	if model == "" {
		model = data.Chassis
	}
	spec, err := json.Marshal(conv.Spec)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", data.FullName(), err)
	}
	var mulID *int
	if data.MulID > 0 {
		mulID = &data.MulID
	}
	skipped := conv.Skipped
	if skipped == nil {
		skipped = []string{}
	}
	bv, err := bvcalc.Calculate(conv.Spec)
	if err != nil {
		return fmt.Errorf("battle value %q: %w", data.FullName(), err)
	}

	tx, err := c.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	chassisID, err := c.upsertChassis(ctx, tx, data.Chassis, data.Mass, data.TechBase)
	if err != nil {
		return fmt.Errorf("upsert chassis %q: %w", data.Chassis, err)
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO unit_specs (model, chassis_id, name, mul_id, era, source, battle_value, spec, skipped)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (model) DO UPDATE SET
		   chassis_id = EXCLUDED.chassis_id, name = EXCLUDED.name, mul_id = EXCLUDED.mul_id,
		   era = EXCLUDED.era, source = EXCLUDED.source, battle_value = EXCLUDED.battle_value,
		   spec = EXCLUDED.spec, skipped = EXCLUDED.skipped`,
		model, chassisID, data.FullName(), mulID, eraFromYear(data.Era), data.Source, bv.FinalBV, spec, skipped)
	if err != nil {
		return fmt.Errorf("upsert unit %q: %w", data.FullName(), err)
	}
	return tx.Commit(ctx)
}

// Spec loads a unit by model code and gives it the in-game id.
func (c *Catalog) Spec(ctx context.Context, model, id string) (unit.Spec, error) {
	var raw []byte
	err := c.Pool.QueryRow(ctx, `SELECT spec FROM unit_specs WHERE model = $1`, model).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return unit.Spec{}, fmt.Errorf("%w: %s", ErrUnknownModel, model)
	}
	if err != nil {
		return unit.Spec{}, fmt.Errorf("select unit %q: %w", model, err)
	}
	var s unit.Spec
	if err := json.Unmarshal(raw, &s); err != nil {
		return unit.Spec{}, fmt.Errorf("decode unit %q: %w", model, err)
	}
	s.ID = id
	return s, nil
}

// List returns catalog entries whose name contains filter, any case.
func (c *Catalog) List(ctx context.Context, filter string) ([]CatalogEntry, error) {
	rows, err := c.Pool.Query(ctx,
		`SELECT u.model, u.name, ch.tonnage, ch.tech_base, u.era, COALESCE(u.mul_id, 0), u.battle_value, u.skipped
		 FROM unit_specs u JOIN chassis ch ON ch.id = u.chassis_id
		 WHERE u.name ILIKE '%' || $1 || '%'
		 ORDER BY ch.tonnage, u.name`, filter)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()

	var out []CatalogEntry
	for rows.Next() {
		var e CatalogEntry
		if err := rows.Scan(&e.Model, &e.Name, &e.Tonnage, &e.TechBase, &e.Era, &e.MulID, &e.BattleValue, &e.Skipped); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func eraFromYear(year int) string {
	if year <= 0 {
		return ""
	}
	switch {
	case year <= 2570:
		return "Age of War"
	case year <= 2780:
		return "Star League"
	case year <= 2900:
		return "Early Succession Wars"
	case year <= 3049:
		return "Late Succession Wars"
	case year <= 3061:
		return "Clan Invasion"
	case year <= 3067:
		return "Civil War"
	case year <= 3081:
		return "Jihad"
	case year <= 3150:
		return "Dark Age"
	default:
		return "ilClan"
	}
}
