package tiervalues

import (
	"slices"
	"strings"
)

var tierValues = map[string]int{
	"IRON":        0,
	"BRONZE":      10000,
	"SILVER":      20000,
	"GOLD":        30000,
	"PLATINUM":    40000,
	"EMERALD":     50000,
	"DIAMOND":     60000,
	"MASTER":      70000,
	"GRANDMASTER": 80000,
	"CHALLENGER":  90000,
}

var rankValues = map[string]int{
	"IV":  0,
	"III": 2500,
	"II":  5000,
	"I":   7500,
}

// Tiers without divisions.
var highEloTiers = []string{"MASTER", "GRANDMASTER", "CHALLENGER"}

// IsHighElo tells if the tier has no divisions.
func IsHighElo(tier string) bool {
	return slices.Contains(highEloTiers, normalize(tier))
}

func normalize(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

// Calculate numeric rank from tier and division.
// Used to order entries of different tiers.
func CalculateRank(tier string, rank string, lp int) int {
	baseValue, exists := tierValues[normalize(tier)]
	if !exists {
		return 0 // Unknown tier
	}

	divisionValue, exists := rankValues[normalize(rank)]
	if !exists {
		return baseValue + lp
	}

	// Don't add the division value if it's a highelo.
	if IsHighElo(tier) {
		divisionValue = 0
	}

	// Return the sum of the ratings and lp.
	return baseValue + divisionValue + lp
}
