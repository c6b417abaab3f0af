// Package leaderboard persists per-category top-10 score collections.
package leaderboard

import (
	"errors"
	"fmt"
	"regexp"
)

// BattleCategory is where battle winners are recorded.
const BattleCategory = "battle"

var ErrInvalidCategory = errors.New("invalid leaderboard category")

var categoryPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// ValidateCategory rejects names that are not safe as file names or keys.
func ValidateCategory(category string) error {
	if !categoryPattern.MatchString(category) {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	return nil
}
