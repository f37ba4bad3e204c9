package regions

import (
	"errors"
	"fmt"
	"strings"
)

// Simple package containing the routing table.
// Create the types for clarity.
type (
	// Region is the regional (continent) routing value.
	Region string
	// Platform is the platform (cluster) routing value.
	Platform string
)

// Regional routing values.
const (
	Americas Region = "americas"
	Europe   Region = "europe"
	Asia     Region = "asia"
	Sea      Region = "sea"
)

// ErrUnknownRoutingCode is returned for any code outside the routing table.
var ErrUnknownRoutingCode = errors.New("unknown routing code")

// List of platforms by region.
var RegionList = map[Region][]Platform{
	Americas: {"br1", "la1", "la2", "na1"},
	Europe:   {"eun1", "euw1", "tr1", "ru"},
	Asia:     {"kr", "jp1"},
	Sea:      {"oc1", "ph2", "sg2", "th2", "tw2", "vn2"},
}

// Player facing aliases.
var aliases = map[string]Platform{
	"br":   "br1",
	"eun":  "eun1",
	"eune": "eun1",
	"euw":  "euw1",
	"jp":   "jp1",
	"lan":  "la1",
	"las":  "la2",
	"na":   "na1",
	"oc":   "oc1",
	"oce":  "oc1",
	"ph":   "ph2",
	"sg":   "sg2",
	"th":   "th2",
	"tr":   "tr1",
	"tw":   "tw2",
	"vn":   "vn2",
}

var platformToRegion = buildPlatformToRegion()

// Build the reverse map once, the table is immutable.
func buildPlatformToRegion() map[Platform]Region {
	result := make(map[Platform]Region)
	for region, platforms := range RegionList {
		for _, platform := range platforms {
			result[platform] = region
		}
	}
	return result
}

// ToPlatform converts a platform code or player facing alias into a platform.
func ToPlatform(code string) (Platform, error) {
	normalized := strings.ToLower(strings.TrimSpace(code))

	if _, ok := platformToRegion[Platform(normalized)]; ok {
		return Platform(normalized), nil
	}

	if platform, ok := aliases[normalized]; ok {
		return platform, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownRoutingCode, code)
}

// ToRegion returns the region that owns the given platform.
func ToRegion(platform Platform) (Region, error) {
	region, ok := platformToRegion[Platform(strings.ToLower(string(platform)))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRoutingCode, platform)
	}
	return region, nil
}

// ParseRegion validates a regional routing value.
func ParseRegion(code string) (Region, error) {
	region := Region(strings.ToLower(strings.TrimSpace(code)))
	if _, ok := RegionList[region]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRoutingCode, code)
	}
	return region, nil
}

// RegionFromCode resolves a player facing code straight to its region.
func RegionFromCode(code string) (Region, error) {
	platform, err := ToPlatform(code)
	if err != nil {
		return "", err
	}
	return ToRegion(platform)
}

// Platforms returns every known platform.
func Platforms() []Platform {
	result := make([]Platform, 0, len(platformToRegion))
	for _, platforms := range RegionList {
		result = append(result, platforms...)
	}
	return result
}

// Aliases returns every player facing alias.
func Aliases() []string {
	result := make([]string, 0, len(aliases))
	for alias := range aliases {
		result = append(result, alias)
	}
	return result
}
