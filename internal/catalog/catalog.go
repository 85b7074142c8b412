// Package catalog holds the immutable program, day, exercise, and swap-group
// definitions. The catalog is loaded once at startup and never mutated;
// live workout state is materialized from it by the tracker package.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Day kinds.
const (
	KindSets      = "sets"
	KindChecklist = "checklist"
)

// ErrNotFound is returned when a program or day id does not exist.
var ErrNotFound = errors.New("catalog: not found")

//go:embed data/catalog.yaml
var defaultData []byte

// Exercise is one slot in a day. SwapGroup, when set, names an ordered list
// of interchangeable exercise names the user can cycle through.
type Exercise struct {
	ID           string `yaml:"id" json:"id"`
	Name         string `yaml:"name" json:"name"`
	Prescription string `yaml:"rx" json:"rx,omitempty"`
	SwapGroup    string `yaml:"swap" json:"swapGroup,omitempty"`
}

// Day is a single workout template within a program.
type Day struct {
	ID        string     `yaml:"-" json:"id"`
	Title     string     `yaml:"title" json:"title"`
	ProgramID string     `yaml:"program" json:"programId"`
	Kind      string     `yaml:"kind" json:"kind"`
	Exercises []Exercise `yaml:"exercises" json:"exercises"`
}

// Program is an ordered, cyclic sequence of days.
type Program struct {
	ID     string   `yaml:"id" json:"id"`
	Title  string   `yaml:"title" json:"title"`
	Icon   string   `yaml:"icon" json:"icon,omitempty"`
	Tags   []string `yaml:"tags" json:"tags,omitempty"`
	DayIDs []string `yaml:"days" json:"dayIds"`
}

// Catalog provides keyed read-only access to the loaded definitions.
type Catalog struct {
	programs    []Program
	programByID map[string]Program
	days        map[string]Day
	swaps       map[string][]string
}

type document struct {
	Programs []Program           `yaml:"programs"`
	Days     map[string]Day      `yaml:"days"`
	Swaps    map[string][]string `yaml:"swaps"`
}

// Load parses and validates a catalog document.
func Load(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	c := &Catalog{
		programs:    doc.Programs,
		programByID: make(map[string]Program, len(doc.Programs)),
		days:        make(map[string]Day, len(doc.Days)),
		swaps:       doc.Swaps,
	}
	if c.swaps == nil {
		c.swaps = map[string][]string{}
	}

	for id, d := range doc.Days {
		d.ID = id
		if d.Kind == "" {
			d.Kind = KindSets
		}
		c.days[id] = d
	}

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("catalog validation: %w", err)
	}
	return c, nil
}

// Default loads the embedded catalog shipped with the binary.
func Default() (*Catalog, error) {
	return Load(defaultData)
}

func (c *Catalog) validate() error {
	for _, p := range c.programs {
		if p.ID == "" {
			return fmt.Errorf("program without id")
		}
		if _, dup := c.programByID[p.ID]; dup {
			return fmt.Errorf("duplicate program id %q", p.ID)
		}
		c.programByID[p.ID] = p

		if len(p.DayIDs) == 0 {
			return fmt.Errorf("program %q has no days", p.ID)
		}
		for _, dayID := range p.DayIDs {
			d, ok := c.days[dayID]
			if !ok {
				return fmt.Errorf("program %q references unknown day %q", p.ID, dayID)
			}
			if d.ProgramID != p.ID {
				return fmt.Errorf("day %q belongs to %q, referenced by %q", dayID, d.ProgramID, p.ID)
			}
		}
	}

	for id, d := range c.days {
		if d.Kind != KindSets && d.Kind != KindChecklist {
			return fmt.Errorf("day %q has unknown kind %q", id, d.Kind)
		}
		seen := make(map[string]bool, len(d.Exercises))
		for _, e := range d.Exercises {
			if e.ID == "" || e.Name == "" {
				return fmt.Errorf("day %q has exercise without id or name", id)
			}
			if seen[e.ID] {
				return fmt.Errorf("day %q has duplicate exercise id %q", id, e.ID)
			}
			seen[e.ID] = true
			if e.SwapGroup != "" {
				if _, ok := c.swaps[e.SwapGroup]; !ok {
					return fmt.Errorf("exercise %q references unknown swap group %q", e.ID, e.SwapGroup)
				}
			}
		}
	}
	return nil
}

// Programs returns all programs in catalog order.
func (c *Catalog) Programs() []Program {
	out := make([]Program, len(c.programs))
	copy(out, c.programs)
	return out
}

// Program returns the program with the given id.
func (c *Catalog) Program(id string) (Program, error) {
	p, ok := c.programByID[id]
	if !ok {
		return Program{}, fmt.Errorf("program %q: %w", id, ErrNotFound)
	}
	return p, nil
}

// Day returns the given day, checking that it belongs to the program.
func (c *Catalog) Day(programID, dayID string) (Day, error) {
	d, ok := c.days[dayID]
	if !ok || d.ProgramID != programID {
		return Day{}, fmt.Errorf("day %q in program %q: %w", dayID, programID, ErrNotFound)
	}
	return d, nil
}

// SwapAlternatives returns the ordered alternative names for a swap group.
// Unknown groups yield an empty list, not an error.
func (c *Catalog) SwapAlternatives(group string) []string {
	alts := c.swaps[group]
	out := make([]string, len(alts))
	copy(out, alts)
	return out
}
