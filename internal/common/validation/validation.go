package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// The prize is rendered into embed descriptions and winner messages.
	MaxPrizeLength = 256
	MinPrizeLength = 1

	MaxWinners = 100
)

// Discord ids are snowflakes: 17 to 20 decimal digits.
var snowflakeRegex = regexp.MustCompile(`^[0-9]{17,20}$`)

// ValidatePrize checks the prize text of a start command.
func ValidatePrize(prize string) error {
	prize = strings.TrimSpace(prize)
	n := utf8.RuneCountInString(prize)
	if n < MinPrizeLength {
		return fmt.Errorf("prize cannot be empty")
	}
	if n > MaxPrizeLength {
		return fmt.Errorf("prize cannot exceed %d characters", MaxPrizeLength)
	}
	return nil
}

// ValidateWinners checks the winner count of a start command.
func ValidateWinners(n int64) error {
	if n < 1 {
		return fmt.Errorf("winners must be at least 1")
	}
	if n > MaxWinners {
		return fmt.Errorf("winners cannot exceed %d", MaxWinners)
	}
	return nil
}

// IsSnowflake reports whether id looks like a Discord id.
func IsSnowflake(id string) bool {
	return snowflakeRegex.MatchString(id)
}
