package unit

import "strings"

// weaponStats is a weapon profile without an ID or mounting location.
type weaponStats struct {
	category        Category
	damage, heat    int
	rack            int
	min             int
	short, med, lng int
	toHit           int
	ammo            string
	explosion       int
}

var standardWeapons = map[string]weaponStats{
	"small laser":        {category: Direct, damage: 3, heat: 1, short: 1, med: 2, lng: 3},
	"medium laser":       {category: Direct, damage: 5, heat: 3, short: 3, med: 6, lng: 9},
	"large laser":        {category: Direct, damage: 8, heat: 8, short: 5, med: 10, lng: 15},
	"er large laser":     {category: Direct, damage: 8, heat: 12, short: 7, med: 14, lng: 19},
	"ppc":                {category: Direct, damage: 10, heat: 10, min: 3, short: 6, med: 12, lng: 18},
	"er ppc":             {category: Direct, damage: 10, heat: 15, short: 7, med: 14, lng: 23},
	"small pulse laser":  {category: Direct, damage: 3, heat: 2, short: 1, med: 2, lng: 3, toHit: -2},
	"medium pulse laser": {category: Direct, damage: 6, heat: 4, short: 2, med: 4, lng: 6, toHit: -2},
	"large pulse laser":  {category: Direct, damage: 9, heat: 10, short: 3, med: 7, lng: 10, toHit: -2},
	"machine gun":        {category: Direct, damage: 2, heat: 0, short: 1, med: 2, lng: 3, ammo: "machine gun"},
	"ac/2":               {category: Direct, damage: 2, heat: 1, min: 4, short: 8, med: 16, lng: 24, ammo: "ac/2"},
	"ac/5":               {category: Direct, damage: 5, heat: 1, min: 3, short: 6, med: 12, lng: 18, ammo: "ac/5"},
	"ac/10":              {category: Direct, damage: 10, heat: 3, short: 5, med: 10, lng: 15, ammo: "ac/10"},
	"ac/20":              {category: Direct, damage: 20, heat: 7, short: 3, med: 6, lng: 9, ammo: "ac/20"},
	"gauss rifle":        {category: Direct, damage: 15, heat: 1, min: 2, short: 7, med: 15, lng: 22, ammo: "gauss", explosion: 20},
	"lrm 5":              {category: MissileLRM, damage: 1, heat: 2, rack: 5, min: 6, short: 7, med: 14, lng: 21, ammo: "lrm 5"},
	"lrm 10":             {category: MissileLRM, damage: 1, heat: 4, rack: 10, min: 6, short: 7, med: 14, lng: 21, ammo: "lrm 10"},
	"lrm 15":             {category: MissileLRM, damage: 1, heat: 5, rack: 15, min: 6, short: 7, med: 14, lng: 21, ammo: "lrm 15"},
	"lrm 20":             {category: MissileLRM, damage: 1, heat: 6, rack: 20, min: 6, short: 7, med: 14, lng: 21, ammo: "lrm 20"},
	"srm 2":              {category: MissileSRM, damage: 2, heat: 2, rack: 2, short: 3, med: 6, lng: 9, ammo: "srm 2"},
	"srm 4":              {category: MissileSRM, damage: 2, heat: 3, rack: 4, short: 3, med: 6, lng: 9, ammo: "srm 4"},
	"srm 6":              {category: MissileSRM, damage: 2, heat: 4, rack: 6, short: 3, med: 6, lng: 9, ammo: "srm 6"},
	"hatchet":            {category: Melee},
	"sword":              {category: Melee},
}

// ammoProfile is per-ton shots and per-round damage for an ammunition type.
type ammoProfile struct {
	shots, damage int
	explosive     bool
}

var standardAmmo = map[string]ammoProfile{
	"machine gun": {shots: 200, damage: 2, explosive: true},
	"ac/2":        {shots: 45, damage: 2, explosive: true},
	"ac/5":        {shots: 20, damage: 5, explosive: true},
	"ac/10":       {shots: 10, damage: 10, explosive: true},
	"ac/20":       {shots: 5, damage: 20, explosive: true},
	"gauss":       {shots: 8, damage: 15},
	"lrm 5":       {shots: 24, damage: 5, explosive: true},
	"lrm 10":      {shots: 12, damage: 10, explosive: true},
	"lrm 15":      {shots: 8, damage: 15, explosive: true},
	"lrm 20":      {shots: 6, damage: 20, explosive: true},
	"srm 2":       {shots: 50, damage: 4, explosive: true},
	"srm 4":       {shots: 25, damage: 8, explosive: true},
	"srm 6":       {shots: 15, damage: 12, explosive: true},
}

// NormalizeName lowercases an equipment name and collapses the separators
// used by the various data sources ("LRM-20", "LRM 20", "ISLRM20").
func NormalizeName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimPrefix(n, "is ")
	n = strings.TrimPrefix(n, "is")
	n = strings.ReplaceAll(n, "-", " ")
	n = strings.ReplaceAll(n, "autocannon/", "ac/")
	n = strings.Join(strings.Fields(n), " ")
	for _, prefix := range []string{"lrm", "srm"} {
		if strings.HasPrefix(n, prefix) && len(n) > len(prefix) && n[len(prefix)] != ' ' {
			n = prefix + " " + n[len(prefix):]
		}
	}
	return n
}

// StandardWeapon builds a weapon from the built-in profile table.
func StandardWeapon(id, name string, loc Location) (Weapon, bool) {
	st, ok := standardWeapons[NormalizeName(name)]
	if !ok {
		return Weapon{}, false
	}
	return Weapon{
		ID:              id,
		Name:            name,
		Location:        loc,
		Category:        st.category,
		Damage:          st.damage,
		Heat:            st.heat,
		RackSize:        st.rack,
		MinRange:        st.min,
		Short:           st.short,
		Medium:          st.med,
		Long:            st.lng,
		ToHitModifier:   st.toHit,
		AmmoType:        st.ammo,
		ExplosionDamage: st.explosion,
	}, true
}

// StandardAmmo builds one ton of ammunition of the given type.
func StandardAmmo(id, ammoType string, loc Location) (AmmoBin, bool) {
	p, ok := standardAmmo[NormalizeName(ammoType)]
	if !ok {
		return AmmoBin{}, false
	}
	return AmmoBin{
		ID:             id,
		Location:       loc,
		AmmoType:       NormalizeName(ammoType),
		Rounds:         p.shots,
		DamagePerRound: p.damage,
		Explosive:      p.explosive,
	}, true
}

var weaponSlots = map[string]int{
	"ac/20":             10,
	"ac/10":             7,
	"gauss rifle":       7,
	"lrm 20":            5,
	"ac/5":              4,
	"lrm 15":            3,
	"ppc":               3,
	"er ppc":            3,
	"large laser":       2,
	"er large laser":    2,
	"large pulse laser": 2,
	"lrm 10":            2,
	"srm 6":             2,
	"hatchet":           4,
	"sword":             3,
}

// WeaponSlots is the number of critical slots a weapon occupies.
func WeaponSlots(name string) int {
	if n, ok := weaponSlots[NormalizeName(name)]; ok {
		return n
	}
	return 1
}
