package notify

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/nhle/dayplan/internal/model"
)

//go:embed messages.yaml
var defaultMessagesYAML []byte

// Message is one title/body pair from a pool.
type Message struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// Pools maps each category to its fixed list of messages.
type Pools map[model.NotificationCategory][]Message

var allCategories = []model.NotificationCategory{
	model.CategoryStartOfDay,
	model.CategoryIntermediate,
	model.CategoryOneHourBefore,
	model.CategoryEndOfDay,
	model.CategoryCelebration,
}

// ParsePools decodes message pools from YAML. Every category must have at
// least one message.
func ParsePools(data []byte) (Pools, error) {
	var pools Pools
	if err := yaml.Unmarshal(data, &pools); err != nil {
		return nil, fmt.Errorf("parsing message pools: %w", err)
	}
	for _, c := range allCategories {
		if len(pools[c]) == 0 {
			return nil, fmt.Errorf("message pool %q is empty", c)
		}
	}
	return pools, nil
}

// DefaultPools returns the built-in message pools.
func DefaultPools() Pools {
	pools, err := ParsePools(defaultMessagesYAML)
	if err != nil {
		panic(err)
	}
	return pools
}
