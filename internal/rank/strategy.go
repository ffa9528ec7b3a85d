package rank

import (
	"errors"
	"fmt"
	"math"
)

// Built-in strategy names.
const (
	Balanced       = "balanced"
	SmartBalance   = "smart_balance"
	DeadlineDriven = "deadline_driven"
	HighImpact     = "high_impact"
	FastestWins    = "fastest_wins"
)

// DefaultStrategy is the profile used when a requested name is unknown.
const DefaultStrategy = SmartBalance

// weightTolerance bounds how far a profile's weights may sum away from 1.0.
const weightTolerance = 1e-9

// Weights is the share each factor contributes to the final score.
type Weights struct {
	Urgency    float64 `json:"urgency" yaml:"urgency" toml:"urgency"`
	Importance float64 `json:"importance" yaml:"importance" toml:"importance"`
	Effort     float64 `json:"effort" yaml:"effort" toml:"effort"`
	Dependency float64 `json:"dependency" yaml:"dependency" toml:"dependency"`
}

// Sum returns the total of all four weights.
func (w Weights) Sum() float64 {
	return w.Urgency + w.Importance + w.Effort + w.Dependency
}

// Strategy is a named weight profile.
type Strategy struct {
	Name        string  `json:"name" yaml:"name"`
	Weights     Weights `json:"weights" yaml:"weights"`
	Description string  `json:"description" yaml:"description"`
}

// Validate checks that the profile is named, has no negative weight and
// that its weights sum to 1.0.
func (s Strategy) Validate() error {
	if s.Name == "" {
		return errors.New("strategy name is required")
	}
	for _, w := range []struct {
		factor string
		value  float64
	}{
		{"urgency", s.Weights.Urgency},
		{"importance", s.Weights.Importance},
		{"effort", s.Weights.Effort},
		{"dependency", s.Weights.Dependency},
	} {
		if w.value < 0 || math.IsNaN(w.value) {
			return fmt.Errorf("strategy %q: %s weight %g must not be negative", s.Name, w.factor, w.value)
		}
	}
	if sum := s.Weights.Sum(); math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("strategy %q: weights sum to %g, want 1.0", s.Name, sum)
	}
	return nil
}

// BuiltinStrategies returns the stock profiles in display order.
// balanced and smart_balance are aliases with identical weights.
func BuiltinStrategies() []Strategy {
	balanced := Weights{Urgency: 0.35, Importance: 0.30, Effort: 0.20, Dependency: 0.15}
	return []Strategy{
		{Name: Balanced, Weights: balanced, Description: "Balanced consideration of all factors"},
		{Name: SmartBalance, Weights: balanced, Description: "Balanced consideration of all factors"},
		{
			Name:        DeadlineDriven,
			Weights:     Weights{Urgency: 0.55, Importance: 0.25, Effort: 0.10, Dependency: 0.10},
			Description: "Prioritize tasks with approaching deadlines",
		},
		{
			Name:        HighImpact,
			Weights:     Weights{Urgency: 0.20, Importance: 0.50, Effort: 0.15, Dependency: 0.15},
			Description: "Focus on high-importance tasks first",
		},
		{
			Name:        FastestWins,
			Weights:     Weights{Urgency: 0.20, Importance: 0.20, Effort: 0.45, Dependency: 0.15},
			Description: "Prioritize quick tasks to build momentum",
		},
	}
}

// StrategySet is an immutable lookup of profiles by name.
type StrategySet struct {
	order    []string
	byName   map[string]Strategy
	fallback string
}

// NewStrategySet validates profiles and builds a set. fallback must name one
// of them; it is returned by Resolve for unknown names.
func NewStrategySet(fallback string, profiles ...Strategy) (*StrategySet, error) {
	s := &StrategySet{byName: make(map[string]Strategy, len(profiles)), fallback: fallback}
	if err := s.add(profiles); err != nil {
		return nil, err
	}
	if _, ok := s.byName[fallback]; !ok {
		return nil, fmt.Errorf("fallback strategy %q is not in the set", fallback)
	}
	return s, nil
}

// DefaultStrategies returns the set of built-in profiles falling back to
// smart_balance. It panics only if the built-in table itself is invalid.
func DefaultStrategies() *StrategySet {
	s, err := NewStrategySet(DefaultStrategy, BuiltinStrategies()...)
	if err != nil {
		panic(err)
	}
	return s
}

// With returns a new set holding s's profiles followed by profiles.
// A profile may not reuse an existing name.
func (s *StrategySet) With(profiles ...Strategy) (*StrategySet, error) {
	out := &StrategySet{byName: make(map[string]Strategy, len(s.byName)+len(profiles)), fallback: s.fallback}
	for _, name := range s.order {
		out.order = append(out.order, name)
		out.byName[name] = s.byName[name]
	}
	if err := out.add(profiles); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *StrategySet) add(profiles []Strategy) error {
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return err
		}
		if _, dup := s.byName[p.Name]; dup {
			return fmt.Errorf("strategy %q is already defined", p.Name)
		}
		s.order = append(s.order, p.Name)
		s.byName[p.Name] = p
	}
	return nil
}

// Lookup returns the profile registered under name.
func (s *StrategySet) Lookup(name string) (Strategy, bool) {
	p, ok := s.byName[name]
	return p, ok
}

// Has reports whether name is a registered profile. Names are case-sensitive.
func (s *StrategySet) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Resolve returns the profile for name, or the fallback profile when name
// is unknown.
func (s *StrategySet) Resolve(name string) Strategy {
	if p, ok := s.byName[name]; ok {
		return p
	}
	return s.byName[s.fallback]
}

// Fallback returns the name Resolve falls back to.
func (s *StrategySet) Fallback() string {
	return s.fallback
}

// Names returns profile names in registration order.
func (s *StrategySet) Names() []string {
	return append([]string(nil), s.order...)
}

// All returns every profile in registration order.
func (s *StrategySet) All() []Strategy {
	out := make([]Strategy, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.byName[name])
	}
	return out
}
