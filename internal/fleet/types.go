// Package fleet owns the live spacecraft registry for one battle: spawning
// from mission specs, simple motion and combat, and the query surface the
// scripting engine resolves subjects against.
package fleet

import "math"

// Vec2 is a 2D position or velocity.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Scale returns v scaled by f.
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }

// Len returns the vector length.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Norm returns the unit vector, or zero for a zero vector.
func (v Vec2) Norm() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return v.Scale(1 / l)
}

// Dist returns the distance between two points.
func Dist(a, b Vec2) float64 { return a.Sub(b).Len() }

// order is a standing movement command issued by the scripting engine.
type orderKind int

const (
	orderNone orderKind = iota
	orderReachDistance
)

type order struct {
	kind     orderKind
	target   string
	distance float64
}

// Spacecraft holds runtime state for one craft. The script.Craft accessor
// methods expose the read-only view the engine evaluates conditions
// against; destroyed craft keep last-known state.
type Spacecraft struct {
	ID        string
	CraftName string
	SquadName string
	Class     string
	TeamName  string
	AI        bool

	HullPct   float64
	ShieldPct float64
	Pos       Vec2
	Heading   float64
	Speed     float64

	FiringEnabled bool
	IsDestroyed   bool
	IsAway        bool

	TargetName string
	jumpDueMS  int64
	jumping    bool
	standing   order
}

// Name implements script.Craft.
func (s *Spacecraft) Name() string { return s.CraftName }

// Squad implements script.Craft.
func (s *Spacecraft) Squad() string { return s.SquadName }

// Team implements script.Craft.
func (s *Spacecraft) Team() string { return s.TeamName }

// Destroyed implements script.Craft.
func (s *Spacecraft) Destroyed() bool { return s.IsDestroyed }

// Away implements script.Craft.
func (s *Spacecraft) Away() bool { return s.IsAway }

// Hull implements script.Craft.
func (s *Spacecraft) Hull() float64 { return s.HullPct }

// Shield implements script.Craft.
func (s *Spacecraft) Shield() float64 { return s.ShieldPct }

// Position implements script.Craft.
func (s *Spacecraft) Position() (float64, float64) { return s.Pos.X, s.Pos.Y }

// Alive reports whether the craft is still participating in the battle.
func (s *Spacecraft) Alive() bool { return !s.IsDestroyed && !s.IsAway }
