package notify

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/nhle/dayplan/internal/model"
	"github.com/nhle/dayplan/internal/prefs"
)

// KV is the raw preferences interface used to persist rotation history.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// history is the persisted set of message indices used on one date.
type history struct {
	Date string                               `json:"date"`
	Used map[model.NotificationCategory][]int `json:"used"`
}

// Picker draws messages at random without repeating one within a day
// until the category's pool runs out.
type Picker struct {
	pools Pools
	kv    KV
	rng   *rand.Rand
}

// NewPicker creates a picker. A nil rng uses a randomly seeded source.
func NewPicker(pools Pools, kv KV, rng *rand.Rand) *Picker {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Picker{pools: pools, kv: kv, rng: rng}
}

// Pick returns a message of category not yet used on date and records it.
func (p *Picker) Pick(category model.NotificationCategory, date string) (Message, error) {
	pool := p.pools[category]
	if len(pool) == 0 {
		return Message{}, fmt.Errorf("no messages for category %q", category)
	}

	h, err := p.load(date)
	if err != nil {
		return Message{}, err
	}

	used := h.Used[category]
	eligible := make([]int, 0, len(pool))
	for i := range pool {
		if !slices.Contains(used, i) {
			eligible = append(eligible, i)
		}
	}
	if len(eligible) == 0 {
		used = nil
		for i := range pool {
			eligible = append(eligible, i)
		}
	}

	idx := eligible[p.rng.IntN(len(eligible))]
	h.Used[category] = append(used, idx)
	if err := p.save(h); err != nil {
		return Message{}, err
	}
	return pool[idx], nil
}

// UsedToday returns the indices of category already drawn on date.
func (p *Picker) UsedToday(category model.NotificationCategory, date string) ([]int, error) {
	h, err := p.load(date)
	if err != nil {
		return nil, err
	}
	return h.Used[category], nil
}

// load returns the history for date; a stored history of another date is
// discarded.
func (p *Picker) load(date string) (history, error) {
	fresh := history{Date: date, Used: map[model.NotificationCategory][]int{}}

	raw, ok, err := p.kv.Get(prefs.KeyNotificationHistory)
	if err != nil {
		return fresh, err
	}
	if !ok {
		return fresh, nil
	}

	var h history
	if err := json.Unmarshal([]byte(raw), &h); err != nil || h.Date != date {
		return fresh, nil
	}
	if h.Used == nil {
		h.Used = map[model.NotificationCategory][]int{}
	}
	return h, nil
}

func (p *Picker) save(h history) error {
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("encoding notification history: %w", err)
	}
	return p.kv.Set(prefs.KeyNotificationHistory, string(data))
}
