// Package ingestion reads MegaMek unit files and turns them into unit specs
// a game can load.
package ingestion

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// MTFData is the part of a MegaMek .mtf file a game needs.
type MTFData struct {
	Chassis  string
	Model    string
	MulID    int
	Config   string
	TechBase string
	Era      int
	Source   string

	Quirks []string

	Mass         int
	EngineRating int
	EngineType   string
	Structure    string
	Gyro         string

	HeatSinkCount int
	HeatSinkType  string

	WalkMP int
	JumpMP int

	ArmorType string
	// ArmorValues is keyed by the MTF code: LA, RTC, FLL and so on.
	ArmorValues map[string]int

	// Slots lists the critical slot lines of each location block in file
	// order, keyed by the block header ("Left Arm", "Front Left Leg").
	Slots map[string][]string
}

// parseArmorValue handles both standard "26" and patchwork "Reactive(Inner Sphere):26" formats
func parseArmorValue(val string) int {
	if n, err := strconv.Atoi(val); err == nil {
		return n
	}
	if idx := strings.LastIndex(val, ":"); idx >= 0 {
		if n, err := strconv.Atoi(val[idx+1:]); err == nil {
			return n
		}
	}
	return 0
}

var locationHeaders = map[string]bool{
	"Left Arm": true, "Right Arm": true,
	"Left Torso": true, "Right Torso": true, "Center Torso": true,
	"Head": true, "Left Leg": true, "Right Leg": true,
	"Front Left Leg": true, "Front Right Leg": true,
	"Rear Left Leg": true, "Rear Right Leg": true,
	"Center Leg": true,
}

// ParseMTF reads the file at path.
func ParseMTF(path string) (*MTFData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mtf: %w", err)
	}
	defer f.Close()
	d, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Parse reads one unit in MTF format.
func Parse(r io.Reader) (*MTFData, error) {
	d := &MTFData{
		ArmorValues: make(map[string]int),
		Slots:       make(map[string][]string),
	}

	scanner := bufio.NewScanner(r)
	// lore lines run long
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var block string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if h := strings.TrimSuffix(line, ":"); h != line && locationHeaders[h] {
			block = h
			continue
		}

		key, val, isField := strings.Cut(line, ":")
		if block != "" && !isField {
			d.Slots[block] = append(d.Slots[block], line)
			continue
		}
		block = ""
		if !isField {
			// weapon summary lines carry no information the slots lack
			continue
		}
		d.field(strings.ToLower(strings.TrimSpace(key)), strings.TrimSpace(val))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan mtf: %w", err)
	}
	if d.Chassis == "" {
		return nil, fmt.Errorf("missing chassis field")
	}
	return d, nil
}

func (d *MTFData) field(key, val string) {
	switch key {
	case "chassis":
		d.Chassis = val
	case "model":
		d.Model = val
	case "mul id":
		d.MulID, _ = strconv.Atoi(val)
	case "config":
		d.Config = val
	case "techbase":
		d.TechBase = val
	case "era":
		d.Era, _ = strconv.Atoi(val)
	case "source":
		d.Source = val
	case "quirk":
		if val != "" {
			d.Quirks = append(d.Quirks, val)
		}
	case "mass":
		d.Mass, _ = strconv.Atoi(val)
	case "engine":
		d.EngineRating, d.EngineType = parseEngine(val)
	case "structure":
		d.Structure = val
	case "gyro":
		d.Gyro = val
	case "heat sinks":
		d.HeatSinkCount, d.HeatSinkType = parseHeatSinks(val)
	case "walk mp":
		d.WalkMP, _ = strconv.Atoi(val)
	case "jump mp":
		d.JumpMP, _ = strconv.Atoi(val)
	case "armor":
		d.ArmorType = val
	default:
		if code, ok := strings.CutSuffix(key, " armor"); ok {
			d.ArmorValues[strings.ToUpper(code)] = parseArmorValue(val)
		}
	}
}

// parseEngine parses "300 Fusion Engine(IS)" -> (300, "Fusion Engine(IS)")
func parseEngine(val string) (int, string) {
	rating, rest, ok := strings.Cut(val, " ")
	n, _ := strconv.Atoi(rating)
	if !ok {
		return n, ""
	}
	return n, rest
}

// parseHeatSinks parses "14 IS Double" -> (14, "IS Double")
func parseHeatSinks(val string) (int, string) {
	count, rest, ok := strings.Cut(val, " ")
	n, _ := strconv.Atoi(count)
	if !ok {
		return n, "Single"
	}
	return n, rest
}

// TotalArmor returns the sum of all armor values.
func (d *MTFData) TotalArmor() int {
	total := 0
	for _, v := range d.ArmorValues {
		total += v
	}
	return total
}

// FullName returns "Chassis Model" or just "Chassis" if model is empty.
func (d *MTFData) FullName() string {
	if d.Model == "" {
		return d.Chassis
	}
	return d.Chassis + " " + d.Model
}
