// Package catalog provides the upstream data sources the planner core
// consumes: the movement/circuit catalog, user profiles, and recovery
// signals. The core depends only on the interfaces; the YAML-file
// implementations here back the CLI and tests.
package catalog

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/trainplan/trainplan/planner"
)

// Provider serves solver projections of catalog movements and circuits.
type Provider interface {
	Movement(id string) (planner.SolverMovement, error)
	Movements(ids []string) ([]planner.SolverMovement, error)
	AllMovements() []planner.SolverMovement
	AllCircuits() []planner.SolverCircuit
}

// ProfileProvider serves user profiles (1-5 discipline preference scale).
type ProfileProvider interface {
	Profile(userID string) (*planner.UserProfile, error)
}

// RecoveryProvider serves today's recovery signals for a user.
type RecoveryProvider interface {
	RecoveryState(userID string) (*planner.RecoveryState, error)
	// PatternRecoveryHours returns hours since each pattern was last trained;
	// missing patterns mean never trained.
	PatternRecoveryHours(userID string) (map[planner.MovementPattern]*float64, error)
}

// Document is the on-disk catalog format: one YAML file carrying movements
// and circuits.
type Document struct {
	Movements []planner.SolverMovement `yaml:"movements"`
	Circuits  []planner.SolverCircuit  `yaml:"circuits,omitempty"`
}

// FileCatalog is a Provider backed by one catalog document.
type FileCatalog struct {
	movements []planner.SolverMovement
	circuits  []planner.SolverCircuit
	byID      map[string]int
}

// LoadCatalog reads and validates a catalog document.
func LoadCatalog(path string) (*FileCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return NewFileCatalog(doc)
}

// NewFileCatalog validates the document and indexes movements by id.
func NewFileCatalog(doc Document) (*FileCatalog, error) {
	if len(doc.Movements) == 0 {
		return nil, fmt.Errorf("catalog: at least one movement required")
	}
	byID := make(map[string]int, len(doc.Movements))
	for i := range doc.Movements {
		m := &doc.Movements[i]
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("catalog movements[%d]: %w", i, err)
		}
		if _, dup := byID[m.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate movement id %q", m.ID)
		}
		byID[m.ID] = i
	}
	seen := make(map[string]bool, len(doc.Circuits))
	for i, c := range doc.Circuits {
		if c.ID == "" {
			return nil, fmt.Errorf("catalog circuits[%d]: id must not be empty", i)
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("catalog: duplicate circuit id %q", c.ID)
		}
		seen[c.ID] = true
		if c.DurationSeconds <= 0 {
			return nil, fmt.Errorf("catalog circuits[%d]: duration_seconds must be positive, got %d", i, c.DurationSeconds)
		}
	}
	return &FileCatalog{movements: doc.Movements, circuits: doc.Circuits, byID: byID}, nil
}

// Movement returns the movement with the given id.
func (c *FileCatalog) Movement(id string) (planner.SolverMovement, error) {
	i, ok := c.byID[id]
	if !ok {
		return planner.SolverMovement{}, fmt.Errorf("catalog: unknown movement id %q", id)
	}
	return c.movements[i], nil
}

// Movements returns the movements with the given ids, in request order.
func (c *FileCatalog) Movements(ids []string) ([]planner.SolverMovement, error) {
	out := make([]planner.SolverMovement, 0, len(ids))
	for _, id := range ids {
		m, err := c.Movement(id)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// AllMovements returns every movement in catalog order. The slice is a copy.
func (c *FileCatalog) AllMovements() []planner.SolverMovement {
	out := make([]planner.SolverMovement, len(c.movements))
	copy(out, c.movements)
	return out
}

// AllCircuits returns every circuit in catalog order. The slice is a copy.
func (c *FileCatalog) AllCircuits() []planner.SolverCircuit {
	out := make([]planner.SolverCircuit, len(c.circuits))
	copy(out, c.circuits)
	return out
}

// profileValidate checks the profile document's struct tags.
var profileValidate = validator.New()

// ProfileDocument is the on-disk user profile format, including the recovery
// readings the CLI forwards to the advisor.
type ProfileDocument struct {
	Profile  planner.UserProfile    `yaml:"profile"`
	Recovery *planner.RecoveryState `yaml:"recovery,omitempty"`

	// PatternHours maps pattern names to hours since last trained.
	PatternHours map[planner.MovementPattern]float64 `yaml:"pattern_hours,omitempty"`
}

// FileProfile implements ProfileProvider and RecoveryProvider from one
// profile document.
type FileProfile struct {
	doc ProfileDocument
}

// LoadProfile reads and validates a profile document.
func LoadProfile(path string) (*FileProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	var doc ProfileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}
	if err := profileValidate.Struct(doc.Profile); err != nil {
		return nil, fmt.Errorf("validating profile: %w", err)
	}
	for d, v := range doc.Profile.DisciplinePreferences {
		if v < 1 || v > 5 {
			return nil, fmt.Errorf("profile discipline_preferences.%s: must be in [1, 5], got %d", d, v)
		}
	}
	return &FileProfile{doc: doc}, nil
}

// Profile returns the loaded profile; the userID must match the document.
func (p *FileProfile) Profile(userID string) (*planner.UserProfile, error) {
	if userID != "" && userID != p.doc.Profile.UserID {
		return nil, fmt.Errorf("profile: unknown user %q", userID)
	}
	profile := p.doc.Profile
	return &profile, nil
}

// RecoveryState returns the recovery readings from the document; nil readings
// mean no signal, which the advisor treats as neutral.
func (p *FileProfile) RecoveryState(string) (*planner.RecoveryState, error) {
	return p.doc.Recovery, nil
}

// PatternRecoveryHours returns the document's pattern training recency map.
func (p *FileProfile) PatternRecoveryHours(string) (map[planner.MovementPattern]*float64, error) {
	out := make(map[planner.MovementPattern]*float64, len(p.doc.PatternHours))
	for pattern, h := range p.doc.PatternHours {
		hv := h
		out[pattern] = &hv
	}
	return out, nil
}
