package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/mitchellh/mapstructure"

	"ohhell/internal/domain"
)

// GameConfig holds the externally supplied rules configuration. The
// round schedule in particular is configuration, never derived at
// runtime: the engine plays exactly the rounds it is given.
type GameConfig struct {
	// RoundSchedule lists the hand size of every round in order. Empty
	// means build the default ladder for the table size.
	RoundSchedule []int `json:"round_schedule" mapstructure:"round_schedule"`
	// MaxHandSize caps the default ladder when RoundSchedule is empty.
	MaxHandSize int `json:"max_hand_size" mapstructure:"max_hand_size"`
	// TrumpPolicy is "turn_up" or "dealer_last".
	TrumpPolicy string `json:"trump_policy" mapstructure:"trump_policy"`
	// TurnTimeoutSeconds is how long a disconnected player may hold up
	// the table before the auto-policy acts for them. 0 disables.
	TurnTimeoutSeconds int `json:"turn_timeout_seconds" mapstructure:"turn_timeout_seconds"`
	// TieBreak is "fewest_misses" or "seat_order".
	TieBreak string `json:"tie_break" mapstructure:"tie_break"`
}

const defaultMaxHandSize = 10

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// Default returns the built-in configuration.
func Default() *GameConfig {
	return &GameConfig{
		MaxHandSize:        defaultMaxHandSize,
		TrumpPolicy:        string(domain.TrumpTurnUp),
		TurnTimeoutSeconds: 30,
		TieBreak:           string(domain.TieBreakFewestMisses),
	}
}

// LoadGameConfig loads the game configuration from the given path. It is
// safe to call repeatedly; only the first call reads the file.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		c := Default()
		if err := json.Unmarshal(data, c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = c
	})
	return loadErr
}

// GetGameConfig returns the loaded configuration, or the default when no
// file has been loaded.
func GetGameConfig() *GameConfig {
	if cfg == nil {
		return Default()
	}
	return cfg
}

// WithMatchParams returns a copy of base overridden by the match
// creation params map. Values arrive as loosely typed JSON, so decoding
// is weakly typed.
func WithMatchParams(base *GameConfig, params map[string]interface{}) (*GameConfig, error) {
	out := *base
	out.RoundSchedule = append([]int(nil), base.RoundSchedule...)
	if len(params) == 0 {
		return &out, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(params); err != nil {
		return nil, fmt.Errorf("failed to decode match params: %w", err)
	}
	return &out, nil
}

// ScheduleFor returns the hand-size schedule for a table of the given
// size: either the configured schedule verbatim, or the classic ladder
// descending from the largest playable hand to 1 and back up.
func (c *GameConfig) ScheduleFor(players int) []int {
	if len(c.RoundSchedule) > 0 {
		return append([]int(nil), c.RoundSchedule...)
	}

	max := c.MaxHandSize
	if max <= 0 {
		max = defaultMaxHandSize
	}
	// Leave one card undealt so the turn-up trump policy always has a
	// stock card to reveal.
	if limit := (domain.DeckSize - 1) / players; max > limit {
		max = limit
	}

	schedule := make([]int, 0, 2*max-1)
	for h := max; h >= 1; h-- {
		schedule = append(schedule, h)
	}
	for h := 2; h <= max; h++ {
		schedule = append(schedule, h)
	}
	return schedule
}

// TrumpPolicyValue maps the configured policy onto the domain type,
// defaulting to turn-up for unknown values.
func (c *GameConfig) TrumpPolicyValue() domain.TrumpPolicy {
	if c.TrumpPolicy == string(domain.TrumpDealerLast) {
		return domain.TrumpDealerLast
	}
	return domain.TrumpTurnUp
}

// TieBreakValue maps the configured tie-break onto the domain type,
// defaulting to fewest misses for unknown values.
func (c *GameConfig) TieBreakValue() domain.TieBreak {
	if c.TieBreak == string(domain.TieBreakSeatOrder) {
		return domain.TieBreakSeatOrder
	}
	return domain.TieBreakFewestMisses
}
