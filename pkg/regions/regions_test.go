package regions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToPlatformRoundTrip(t *testing.T) {
	codes := Aliases()
	for _, p := range Platforms() {
		codes = append(codes, string(p))
	}

	for _, code := range codes {
		t.Run(code, func(t *testing.T) {
			platform, err := ToPlatform(code)
			require.NoError(t, err)

			region, err := ToRegion(platform)
			require.NoError(t, err)

			// Stable across calls and casing.
			upper, err := ToPlatform(strings.ToUpper(code))
			require.NoError(t, err)
			assert.Equal(t, platform, upper)

			again, err := ToRegion(upper)
			require.NoError(t, err)
			assert.Equal(t, region, again)
		})
	}
}

func TestToRegion(t *testing.T) {
	tests := []struct {
		platform Platform
		expected Region
	}{
		{"na1", Americas},
		{"BR1", Americas},
		{"la2", Americas},
		{"euw1", Europe},
		{"eun1", Europe},
		{"tr1", Europe},
		{"ru", Europe},
		{"kr", Asia},
		{"jp1", Asia},
		{"oc1", Sea},
		{"vn2", Sea},
	}

	for _, tt := range tests {
		t.Run(string(tt.platform), func(t *testing.T) {
			region, err := ToRegion(tt.platform)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, region)
		})
	}
}

func TestUnknownRoutingCode(t *testing.T) {
	for _, code := range []string{"", "xx", "euw2", "americas", "na 1"} {
		t.Run(code, func(t *testing.T) {
			_, err := ToPlatform(code)
			assert.ErrorIs(t, err, ErrUnknownRoutingCode)

			_, err = ToRegion(Platform(code))
			assert.ErrorIs(t, err, ErrUnknownRoutingCode)
		})
	}
}

func TestAliases(t *testing.T) {
	tests := map[string]Platform{
		"na":   "na1",
		"EUW":  "euw1",
		"eune": "eun1",
		"lan":  "la1",
		"las":  "la2",
		"oce":  "oc1",
	}

	for code, expected := range tests {
		platform, err := ToPlatform(code)
		require.NoError(t, err)
		assert.Equal(t, expected, platform)
	}
}

func TestParseRegion(t *testing.T) {
	region, err := ParseRegion("EUROPE")
	require.NoError(t, err)
	assert.Equal(t, Europe, region)

	_, err = ParseRegion("euw1")
	assert.ErrorIs(t, err, ErrUnknownRoutingCode)

	region, err = RegionFromCode("kr")
	require.NoError(t, err)
	assert.Equal(t, Asia, region)
}
