package dashboard

import (
	"github.com/YuminosukeSato/sfhousing/dataset"
)

// DefaultStateIndex is the position of the initially selected state in the
// sorted state list. It is clamped to the list length.
const DefaultStateIndex = 4

// Selection is the state/county pair chosen on the housing page.
type Selection struct {
	State  string `json:"state"`
	County string `json:"county"`
}

// Region returns the dataset key of s.
func (s Selection) Region() dataset.Region {
	return dataset.Region{County: s.County, State: s.State}
}

// Selector derives the state and county options from a population table.
type Selector struct {
	states   []string
	counties map[string][]string
}

// NewSelector indexes the states and counties of t.
func NewSelector(t *dataset.PopulationTable) *Selector {
	s := &Selector{
		states:   t.States(),
		counties: make(map[string][]string),
	}
	for _, state := range s.states {
		s.counties[state] = t.Counties(state)
	}
	return s
}

// States returns the sorted unique states.
func (s *Selector) States() []string {
	return append([]string(nil), s.states...)
}

// Counties returns the sorted unique counties of state, or nil for an
// unknown state.
func (s *Selector) Counties(state string) []string {
	c, ok := s.counties[state]
	if !ok {
		return nil
	}
	return append([]string(nil), c...)
}

// Default returns the state at DefaultStateIndex and its first county.
func (s *Selector) Default() Selection {
	if len(s.states) == 0 {
		return Selection{}
	}
	i := DefaultStateIndex
	if i >= len(s.states) {
		i = len(s.states) - 1
	}
	return s.first(s.states[i])
}

// Resolve normalizes an incoming selection. An unknown or empty state
// yields the default; a county outside the state yields its first county.
func (s *Selector) Resolve(state, county string) Selection {
	counties, ok := s.counties[state]
	if !ok {
		return s.Default()
	}
	for _, c := range counties {
		if c == county {
			return Selection{State: state, County: county}
		}
	}
	return s.first(state)
}

func (s *Selector) first(state string) Selection {
	sel := Selection{State: state}
	if c := s.counties[state]; len(c) > 0 {
		sel.County = c[0]
	}
	return sel
}

// Controls returns the state and county select controls for sel.
func (s *Selector) Controls(sel Selection) []Control {
	return []Control{
		{Name: "state", Label: "Choose your state:", Kind: ControlSelect, Options: options(s.states), Value: sel.State},
		{Name: "county", Label: "Choose your county:", Kind: ControlSelect, Options: options(s.counties[sel.State]), Value: sel.County},
	}
}
