package bvcalc

import "github.com/SwiggitySwerve/MekStation-sub016/internal/unit"

// ammoBVTable maps normalized ammo types to BV per ton
var ammoBVTable = map[string]int{
	"machine gun": 1,

	"ac/2":  5,
	"ac/5":  9,
	"ac/10": 15,
	"ac/20": 22,

	"gauss": 40,

	"lrm 5":  6,
	"lrm 10": 11,
	"lrm 15": 17,
	"lrm 20": 23,

	"srm 2": 3,
	"srm 4": 5,
	"srm 6": 7,
}

// AmmoBV returns the BV per ton for an ammo type. Every bin is one ton.
func AmmoBV(ammoType string) int {
	return ammoBVTable[unit.NormalizeName(ammoType)]
}
