package combat

import (
	"math"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/dice"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/event"
)

// ─── Cluster hits table ─────────────────────────────────────────────────────

var clusterRackSizes = []int{2, 3, 4, 5, 6, 8, 9, 10, 12, 15, 20, 30, 40}
var clusterTable = [11][13]int{
	{1, 1, 1, 1, 2, 3, 3, 3, 4, 5, 6, 10, 12},     // roll 2
	{1, 1, 2, 2, 2, 3, 3, 3, 4, 5, 6, 10, 12},     // roll 3
	{1, 1, 2, 2, 3, 4, 4, 4, 5, 6, 9, 12, 18},     // roll 4
	{1, 2, 2, 3, 3, 4, 5, 6, 8, 9, 12, 18, 24},    // roll 5
	{1, 2, 2, 3, 4, 5, 5, 6, 8, 9, 12, 18, 24},    // roll 6
	{1, 2, 3, 3, 4, 5, 5, 6, 8, 9, 12, 18, 24},    // roll 7
	{2, 2, 3, 3, 4, 5, 5, 6, 8, 9, 12, 18, 24},    // roll 8
	{2, 2, 3, 4, 5, 6, 7, 8, 10, 12, 16, 24, 32},  // roll 9
	{2, 3, 3, 4, 5, 6, 7, 8, 10, 12, 16, 24, 32},  // roll 10
	{2, 3, 4, 5, 6, 8, 9, 10, 12, 15, 20, 30, 40}, // roll 11
	{2, 3, 4, 5, 6, 8, 9, 10, 12, 15, 20, 30, 40}, // roll 12
}

// expectedHitFraction is the share of a rack the expected table lands.
const expectedHitFraction = 0.58

func clusterColumn(rackSize int) int {
	col := 0
	for i, rs := range clusterRackSizes {
		if rs <= rackSize {
			col = i
		}
	}
	return col
}

// ClusterLookup reads the standard table for a 2d6 total.
func ClusterLookup(roll, rackSize int) int {
	hits := clusterTable[clampIndex(roll-2, 11)][clusterColumn(rackSize)]
	return min(hits, rackSize)
}

// ClusterHits returns the missiles of a rack that strike. The standard
// table rolls 2d6; the expected table throws no dice and returns roll 0.
func ClusterHits(table event.ClusterTable, rackSize int, r dice.Roller) (roll, hits int) {
	if rackSize <= 1 {
		return 0, max(rackSize, 0)
	}
	if table == event.ClusterExpected {
		return 0, ExpectedClusterHits(rackSize)
	}
	roll = dice.Roll2d6(r).Total
	return roll, ClusterLookup(roll, rackSize)
}

// ExpectedClusterHits is the fixed approximation used by the expected table.
func ExpectedClusterHits(rackSize int) int {
	return max(1, int(math.Round(float64(rackSize)*expectedHitFraction)))
}

// ClusterAverage is the mean of the standard table over the 2d6 spread.
func ClusterAverage(rackSize int) float64 {
	weights := [11]int{1, 2, 3, 4, 5, 6, 5, 4, 3, 2, 1}
	col := clusterColumn(rackSize)
	weighted := 0.0
	for row := range 11 {
		weighted += float64(clusterTable[row][col] * weights[row])
	}
	return weighted / 36.0
}
