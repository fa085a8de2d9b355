package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/ingestion"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/unit"
)

// specSource is the part of db.Catalog the runner needs.
type specSource interface {
	Spec(ctx context.Context, model, id string) (unit.Spec, error)
}

var errNoCatalog = errors.New("not a built-in model and no catalog configured")

// resolveUnit turns a -red or -blue argument into a spec with the given id.
// The argument is a path to an .mtf file, a built-in model code, or a model
// code in the catalog, tried in that order.
func resolveUnit(ctx context.Context, arg, id string, catalog specSource) (unit.Spec, error) {
	if strings.HasSuffix(strings.ToLower(arg), ".mtf") {
		d, err := ingestion.ParseMTF(arg)
		if err != nil {
			return unit.Spec{}, err
		}
		conv, err := ingestion.ToSpec(d, id)
		if err != nil {
			return unit.Spec{}, err
		}
		return conv.Spec, nil
	}
	if s, ok := unit.Reference(arg, id); ok {
		return s, nil
	}
	if catalog == nil {
		return unit.Spec{}, fmt.Errorf("unit %q: %w", arg, errNoCatalog)
	}
	return catalog.Spec(ctx, arg, id)
}
