package bot

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
)

var ErrEmptyRoster = errors.New("bot roster is empty")

type BotIdentity struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Difficulty  string `json:"difficulty"` // "easy", "medium", "hard"
	AvatarIndex int    `json:"avatar_index"`
}

// Roster is the set of computer opponents a battle can seat.
type Roster struct {
	identities []BotIdentity
	byID       map[string]BotIdentity
}

// LoadRoster reads bot profiles from a JSON array file.
func LoadRoster(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bot identities: %w", err)
	}
	var identities []BotIdentity
	if err := json.Unmarshal(data, &identities); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bot identities: %w", err)
	}
	return NewRoster(identities)
}

// NewRoster validates identities. Every bot needs a unique id and a known level.
func NewRoster(identities []BotIdentity) (*Roster, error) {
	if len(identities) == 0 {
		return nil, ErrEmptyRoster
	}
	r := &Roster{byID: make(map[string]BotIdentity, len(identities))}
	for i, identity := range identities {
		if identity.ID == "" {
			return nil, fmt.Errorf("bot identity %d has no id", i)
		}
		if _, dup := r.byID[identity.ID]; dup {
			return nil, fmt.Errorf("duplicate bot id %q", identity.ID)
		}
		if _, err := ParseLevel(identity.Difficulty); err != nil {
			return nil, fmt.Errorf("bot %q: %w", identity.ID, err)
		}
		r.byID[identity.ID] = identity
		r.identities = append(r.identities, identity)
	}
	return r, nil
}

// DefaultRoster is used when no identity file is available.
func DefaultRoster() *Roster {
	r, _ := NewRoster([]BotIdentity{
		{ID: "bot-1", DisplayName: "AI Player 1", Difficulty: "medium"},
		{ID: "bot-2", DisplayName: "AI Player 2", Difficulty: "medium", AvatarIndex: 1},
	})
	return r
}

// Len returns the number of identities.
func (r *Roster) Len() int { return len(r.identities) }

// Lookup returns the identity with the given id.
func (r *Roster) Lookup(id string) (BotIdentity, bool) {
	identity, ok := r.byID[id]
	return identity, ok
}

// Pick returns n distinct identities in random order. When the roster is smaller
// than n it wraps around.
func (r *Roster) Pick(rng *rand.Rand, n int) []BotIdentity {
	order := rng.Perm(len(r.identities))
	out := make([]BotIdentity, n)
	for i := range out {
		out[i] = r.identities[order[i%len(order)]]
	}
	return out
}

// Opponent seats identity with a brain of its configured level.
func Opponent(identity BotIdentity, seat int, rng *rand.Rand, tuning Tuning) (*Agent, error) {
	level, err := ParseLevel(identity.Difficulty)
	if err != nil {
		return nil, err
	}
	brain, err := NewBrain(level, rng, tuning)
	if err != nil {
		return nil, err
	}
	return NewAgent(identity, seat, brain), nil
}

// NewAgent builds an agent for identity in seat.
func NewAgent(identity BotIdentity, seat int, brain Brain) *Agent {
	name := identity.DisplayName
	if name == "" {
		name = identity.ID
	}
	return &Agent{ID: identity.ID, Name: name, Seat: seat, Strategy: brain}
}
