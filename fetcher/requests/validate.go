package requests

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Input constraints of the Riot API.
const (
	PuuidLength     = 78
	MaxGameNameSize = 16
	MaxTagLineSize  = 5
)

// ValidatePuuid checks the fixed puuid length.
func ValidatePuuid(puuid string) error {
	if len(puuid) != PuuidLength {
		return &ValidationError{
			Field:  "puuid",
			Reason: fmt.Sprintf("must have %d characters, got %d", PuuidLength, len(puuid)),
		}
	}
	return nil
}

// ValidateRiotId checks the game name and tag line of a riot id.
func ValidateRiotId(gameName string, tagLine string) error {
	gameName = strings.TrimSpace(gameName)
	tagLine = strings.TrimSpace(tagLine)

	if gameName == "" {
		return &ValidationError{Field: "game name", Reason: "must not be empty"}
	}
	if tagLine == "" {
		return &ValidationError{Field: "tag line", Reason: "must not be empty"}
	}
	if utf8.RuneCountInString(gameName) > MaxGameNameSize {
		return &ValidationError{Field: "game name", Reason: fmt.Sprintf("must have at most %d characters", MaxGameNameSize)}
	}
	if utf8.RuneCountInString(tagLine) > MaxTagLineSize {
		return &ValidationError{Field: "tag line", Reason: fmt.Sprintf("must have at most %d characters", MaxTagLineSize)}
	}
	return nil
}

// ValidateMatchId checks the PLATFORM_NUMBER shape of a match id.
func ValidateMatchId(matchId string) error {
	prefix, number, found := strings.Cut(matchId, "_")
	if !found || prefix == "" || number == "" {
		return &ValidationError{Field: "match id", Reason: "must have the PLATFORM_ID format"}
	}
	return nil
}

// Field is a named value of a response schema.
type Field struct {
	Name  string
	Value string
}

// Required is a helper for the response schemas.
// Returns a error naming the first empty field, in the given order.
func Required(fields ...Field) error {
	for _, field := range fields {
		if field.Value == "" {
			return fmt.Errorf("missing required field %q", field.Name)
		}
	}
	return nil
}
