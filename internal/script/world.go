// Package script evaluates declarative mission events against live battle
// state: every simulation tick it re-evaluates each event's trigger
// conditions, watches for edges, and dispatches the event's actions with
// their configured delays.
package script

// Craft is the engine's read-only view of one live spacecraft. Destroyed
// craft stay resolvable and report last-known state; conditions decide how
// absence is interpreted.
type Craft interface {
	Name() string
	Squad() string
	Team() string
	Destroyed() bool
	Away() bool
	Hull() float64
	Shield() float64
	Position() (x, y float64)
}

// CombatEventKind classifies the tick-scoped combat events the host
// records between craft.
type CombatEventKind string

const (
	// EventHit: Subject was hit by Other this tick.
	EventHit CombatEventKind = "hit"
	// EventCollision: Subject collided with Other this tick.
	EventCollision CombatEventKind = "collision"
	// EventTargetAcquired: Other started targeting Subject this tick.
	EventTargetAcquired CombatEventKind = "target_acquired"
	// EventTargeted: Other is targeting Subject this tick.
	EventTargeted CombatEventKind = "targeted"
)

// CombatEvent is one combat occurrence between two craft, valid for the
// current tick only.
type CombatEvent struct {
	Kind    CombatEventKind
	Subject string
	Other   string
}

// World is the query surface the host battle simulation exposes to the
// engine. All methods are read-only and safe to call every tick.
type World interface {
	// CraftByName returns the craft with the given name, including
	// destroyed or away craft.
	CraftByName(name string) (Craft, bool)
	// SquadCraft returns every craft instantiated for the squad.
	SquadCraft(squad string) []Craft
	// TeamCraft returns every craft currently on the team.
	TeamCraft(team string) []Craft
	// CombatEvents returns the combat events recorded for the current tick.
	CombatEvents() []CombatEvent
}
